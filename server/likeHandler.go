package server

import (
	"net/http"

	"github.com/gin-gonic/gin"

	errs "github.com/andreicopos/UrbanEye/errors"
	"github.com/andreicopos/UrbanEye/models"
	"github.com/andreicopos/UrbanEye/server/response"
	"github.com/andreicopos/UrbanEye/services/utils"
)

// likeUserID reads user_id from a JSON or form body, then from the query.
func likeUserID(c *gin.Context) (uint, error) {
	var req models.LikeRequest
	if c.Request.ContentLength != 0 {
		if err := decode(c, &req); err != nil {
			return 0, err
		}
	}
	if req.UserID != 0 {
		return uint(req.UserID), nil
	}
	if raw, ok := c.GetQuery("user_id"); ok {
		if id, valid := utils.ParseID(raw); valid {
			return id, nil
		}
		return 0, errs.NewValidationError("user_id", "user_id must be a positive integer")
	}
	return 0, errs.NewValidationError("user_id", "user_id is required")
}

func (s *Server) handleLikeReport() gin.HandlerFunc {
	return func(c *gin.Context) {
		reportID, err := paramID(c, "reportID", "report_id")
		if err != nil {
			s.respondError(c, err)
			return
		}
		userID, err := likeUserID(c)
		if err != nil {
			s.respondError(c, err)
			return
		}

		result, err := s.LikeService.LikeReport(c.Request.Context(), reportID, userID)
		if err != nil {
			s.respondError(c, err)
			return
		}
		if result.Outcome == models.LikeAlreadyApplied {
			response.JSON(c, "Report already liked", http.StatusOK, result, nil)
			return
		}
		response.JSON(c, "Report liked successfully", http.StatusCreated, result, nil)
	}
}

func (s *Server) handleHasLiked() gin.HandlerFunc {
	return func(c *gin.Context) {
		reportID, err := paramID(c, "reportID", "report_id")
		if err != nil {
			s.respondError(c, err)
			return
		}
		userID, ok := utils.ParseID(c.Query("user_id"))
		if !ok {
			s.respondError(c, errs.NewValidationError("user_id", "user_id query parameter is required"))
			return
		}
		liked, likes, err := s.LikeService.HasLiked(c.Request.Context(), reportID, userID)
		if err != nil {
			s.respondError(c, err)
			return
		}
		response.JSON(c, "", http.StatusOK, gin.H{"id": reportID, "user_id": userID, "liked": liked, "likes": likes}, nil)
	}
}

// handleLegacyLike bumps the counter without recording who liked.
func (s *Server) handleLegacyLike() gin.HandlerFunc {
	return func(c *gin.Context) {
		var req models.LegacyLikeRequest
		if err := decode(c, &req); err != nil {
			s.respondError(c, err)
			return
		}
		result, err := s.LikeService.BumpUnconditional(c.Request.Context(), uint(req.ReportID))
		if err != nil {
			s.respondError(c, err)
			return
		}
		response.JSON(c, "Report liked", http.StatusOK, models.LegacyLikeResponse{ReportID: result.ReportID, Likes: result.Likes}, nil)
	}
}
