package server

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/rs/zerolog"

	errs "github.com/andreicopos/UrbanEye/errors"
	"github.com/andreicopos/UrbanEye/server/response"
)

const requestIDHeader = "X-Request-Id"

func requestID() gin.HandlerFunc {
	return func(c *gin.Context) {
		id := c.GetHeader(requestIDHeader)
		if id == "" {
			id = uuid.NewString()
		}
		c.Set(requestIDHeader, id)
		c.Writer.Header().Set(requestIDHeader, id)
		c.Next()
	}
}

func accessLog(log zerolog.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()

		c.Next()

		status := c.Writer.Status()
		event := log.Info()
		if status >= 500 {
			event = log.Error()
		} else if status >= 400 {
			event = log.Warn()
		}
		event.
			Str("method", c.Request.Method).
			Str("path", c.Request.URL.Path).
			Str("client_ip", c.ClientIP()).
			Int("status", status).
			Dur("latency", time.Since(start)).
			Str("request_id", c.Writer.Header().Get(requestIDHeader)).
			Msg("http request")
	}
}

func recovery(log zerolog.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		defer func() {
			if r := recover(); r != nil {
				log.Error().
					Interface("error", r).
					Str("request_id", c.Writer.Header().Get(requestIDHeader)).
					Msg("panic recovered")
				respondAndAbort(c, "", http.StatusInternalServerError, nil, errs.ErrInternalServerError)
			}
		}()
		c.Next()
	}
}

// respondAndAbort calls response.JSON and aborts the Context
func respondAndAbort(c *gin.Context, message string, status int, data interface{}, e *errs.Error) {
	response.JSON(c, message, status, data, e)
	c.Abort()
}

// respondError maps a service error onto its status. Internal causes are
// logged and never shown to the client.
func (s *Server) respondError(c *gin.Context, err error) {
	apiErr := errs.From(err)
	status := apiErr.HTTPStatus()
	if status >= http.StatusInternalServerError {
		s.Log.Error().
			Err(err).
			Str("request_id", c.Writer.Header().Get(requestIDHeader)).
			Str("path", c.Request.URL.Path).
			Msg("request failed")
	}
	response.JSON(c, "", status, nil, apiErr)
}
