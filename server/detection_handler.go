package server

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/andreicopos/UrbanEye/server/response"
)

// handleAnalyze runs detection on an uploaded image. Nothing is stored.
func (s *Server) handleAnalyze() gin.HandlerFunc {
	return func(c *gin.Context) {
		data, _, err := s.readUpload(c, "image")
		if err != nil {
			s.respondError(c, err)
			return
		}
		result, err := s.DetectionService.Detect(c.Request.Context(), data)
		if err != nil {
			s.respondError(c, err)
			return
		}
		response.JSON(c, result.Suggestion, http.StatusOK, result, nil)
	}
}
