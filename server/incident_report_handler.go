package server

import (
	"encoding/json"
	"io"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	errs "github.com/andreicopos/UrbanEye/errors"
	"github.com/andreicopos/UrbanEye/models"
	"github.com/andreicopos/UrbanEye/server/response"
	"github.com/andreicopos/UrbanEye/services"
	"github.com/andreicopos/UrbanEye/services/utils"
)

func (s *Server) handleSubmitReport() gin.HandlerFunc {
	return func(c *gin.Context) {
		in, err := s.submitInput(c)
		if err != nil {
			s.respondError(c, err)
			return
		}
		res, err := s.ReportService.SubmitReport(c.Request.Context(), in)
		if err != nil {
			s.respondError(c, err)
			return
		}
		response.JSON(c, "Report submitted successfully", http.StatusCreated, res, nil)
	}
}

// submitInput reads the multipart form. Absent fields stay nil so the
// service can tell them apart from empty ones.
func (s *Server) submitInput(c *gin.Context) (services.SubmitReportInput, error) {
	var in services.SubmitReportInput

	if raw, ok := c.GetPostForm("user_id"); ok {
		id, valid := utils.ParseID(raw)
		if !valid {
			return in, errs.NewValidationError("user_id", "user_id must be a positive integer")
		}
		in.UserID = id
	}
	if raw, ok := c.GetPostForm("issues"); ok {
		var issues []string
		if err := json.Unmarshal([]byte(raw), &issues); err != nil || issues == nil {
			return in, errs.NewValidationError("issues", "issues must be a JSON array of strings")
		}
		in.Issues = issues
	}
	if v, ok := c.GetPostForm("details"); ok {
		in.Details = &v
	}
	if v, ok := c.GetPostForm("location"); ok {
		in.Location = &v
	}

	data, filename, err := s.readUpload(c, "image")
	if err != nil {
		return in, err
	}
	in.Image = data
	in.FilenameHint = filename
	return in, nil
}

func (s *Server) handleListReports() gin.HandlerFunc {
	return func(c *gin.Context) {
		reports, err := s.ReportService.ListAllReports(c.Request.Context())
		if err != nil {
			s.respondError(c, err)
			return
		}
		response.JSON(c, "Reports retrieved successfully", http.StatusOK, reports, nil)
	}
}

func (s *Server) handleGetReport() gin.HandlerFunc {
	return func(c *gin.Context) {
		id, err := paramID(c, "reportID", "report_id")
		if err != nil {
			s.respondError(c, err)
			return
		}
		report, err := s.ReportService.GetReport(c.Request.Context(), id)
		if err != nil {
			s.respondError(c, err)
			return
		}
		response.JSON(c, "Report retrieved successfully", http.StatusOK, report, nil)
	}
}

func (s *Server) handleUserReports() gin.HandlerFunc {
	return func(c *gin.Context) {
		userID, err := paramID(c, "userID", "user_id")
		if err != nil {
			s.respondError(c, err)
			return
		}
		s.listUserReports(c, userID)
	}
}

func (s *Server) handleMyReports() gin.HandlerFunc {
	return func(c *gin.Context) {
		userID, ok := utils.ParseID(c.Query("user_id"))
		if !ok {
			s.respondError(c, errs.NewValidationError("user_id", "user_id query parameter is required"))
			return
		}
		s.listUserReports(c, userID)
	}
}

func (s *Server) listUserReports(c *gin.Context, userID uint) {
	reports, err := s.ReportService.ListUserReports(c.Request.Context(), userID)
	if err != nil {
		s.respondError(c, err)
		return
	}
	response.JSON(c, "Reports retrieved successfully", http.StatusOK, reports, nil)
}

func (s *Server) handleUpdateStatus() gin.HandlerFunc {
	return func(c *gin.Context) {
		id, err := paramID(c, "reportID", "report_id")
		if err != nil {
			s.respondError(c, err)
			return
		}
		var req models.UpdateStatusRequest
		if err := decode(c, &req); err != nil {
			s.respondError(c, err)
			return
		}
		if err := s.ReportService.SetStatus(c.Request.Context(), id, req.Status); err != nil {
			s.respondError(c, err)
			return
		}
		st, _ := models.ParseReportStatus(req.Status)
		response.JSON(c, "Status updated", http.StatusOK, gin.H{"success": true, "id": id, "status": st}, nil)
	}
}

func (s *Server) handleServeImage() gin.HandlerFunc {
	return func(c *gin.Context) {
		name := strings.TrimPrefix(c.Param("filename"), "/")
		obj, err := s.MediaService.OpenImage(c.Request.Context(), name)
		if err != nil {
			s.respondError(c, err)
			return
		}
		defer obj.Body.Close()

		contentType := obj.ContentType
		if contentType == "" {
			contentType = "application/octet-stream"
		}
		if obj.Size >= 0 {
			c.DataFromReader(http.StatusOK, obj.Size, contentType, obj.Body, nil)
			return
		}
		c.Status(http.StatusOK)
		c.Header("Content-Type", contentType)
		if _, err := io.Copy(c.Writer, obj.Body); err != nil {
			s.Log.Warn().Err(err).Str("image", name).Msg("image stream interrupted")
		}
	}
}
