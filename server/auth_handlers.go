package server

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/andreicopos/UrbanEye/models"
	"github.com/andreicopos/UrbanEye/server/response"
)

func (s *Server) handleSignup() gin.HandlerFunc {
	return func(c *gin.Context) {
		var req models.RegisterRequest
		if err := decode(c, &req); err != nil {
			s.respondError(c, err)
			return
		}
		user, err := s.AuthService.SignupUser(c.Request.Context(), &req)
		if err != nil {
			s.respondError(c, err)
			return
		}
		response.JSON(c, "User created", http.StatusCreated, user, nil)
	}
}

// handleLogin checks the stored credential only. It issues no session.
func (s *Server) handleLogin() gin.HandlerFunc {
	return func(c *gin.Context) {
		var loginRequest models.LoginRequest
		if err := decode(c, &loginRequest); err != nil {
			s.respondError(c, err)
			return
		}
		user, err := s.AuthService.LoginUser(c.Request.Context(), &loginRequest)
		if err != nil {
			s.respondError(c, err)
			return
		}
		response.JSON(c, "login successful", http.StatusOK, user, nil)
	}
}

func (s *Server) handleGetUser() gin.HandlerFunc {
	return func(c *gin.Context) {
		id, err := paramID(c, "userID", "user_id")
		if err != nil {
			s.respondError(c, err)
			return
		}
		user, err := s.AuthService.GetUser(c.Request.Context(), id)
		if err != nil {
			s.respondError(c, err)
			return
		}
		response.JSON(c, "User retrieved successfully", http.StatusOK, user, nil)
	}
}
