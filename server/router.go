package server

import (
	"net/http"
	"strings"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/andreicopos/UrbanEye/server/response"
)

func (s *Server) setupRouter() *gin.Engine {
	if s.Config.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.New()
	r.Use(
		requestID(),
		accessLog(s.Log),
		recovery(s.Log),
	)
	r.Use(cors.New(s.corsConfig()))
	r.MaxMultipartMemory = s.Config.MaxUploadMB << 20

	s.defineRoutes(r)
	return r
}

func (s *Server) corsConfig() cors.Config {
	conf := cors.Config{
		AllowMethods:  []string{"GET", "POST", "PUT", "OPTIONS"},
		AllowHeaders:  []string{"Origin", "Content-Type", requestIDHeader},
		ExposeHeaders: []string{requestIDHeader},
		MaxAge:        12 * time.Hour,
	}
	origins := strings.TrimSpace(s.Config.AccessControlAllowOrigin)
	if origins == "" || origins == "*" {
		conf.AllowAllOrigins = true
		return conf
	}
	for _, o := range strings.Split(origins, ",") {
		if o = strings.TrimSpace(o); o != "" {
			conf.AllowOrigins = append(conf.AllowOrigins, o)
		}
	}
	conf.AllowCredentials = true
	return conf
}

func (s *Server) defineRoutes(router *gin.Engine) {
	router.GET("/healthz", s.handleHealth())
	router.GET("/metrics", gin.WrapH(promhttp.Handler()))
	router.GET("/images/*filename", s.handleServeImage())

	apirouter := router.Group("/api/v1")
	apirouter.POST("/auth/signup", s.handleSignup())
	apirouter.POST("/auth/login", s.handleLogin())
	apirouter.POST("/register", s.handleSignup())
	apirouter.POST("/login", s.handleLogin())
	apirouter.GET("/users/:userID", s.handleGetUser())

	apirouter.POST("/analyze", s.handleAnalyze())

	apirouter.POST("/reports", s.handleSubmitReport())
	apirouter.POST("/submit_report", s.handleSubmitReport())
	apirouter.GET("/reports", s.handleListReports())
	apirouter.GET("/reports/:reportID", s.handleGetReport())
	apirouter.PUT("/reports/:reportID/status", s.handleUpdateStatus())
	apirouter.GET("/users/:userID/reports", s.handleUserReports())
	apirouter.GET("/my_reports", s.handleMyReports())

	apirouter.POST("/reports/:reportID/like", s.handleLikeReport())
	apirouter.GET("/reports/:reportID/like", s.handleHasLiked())
	apirouter.POST("/like_report", s.handleLegacyLike())
}

func (s *Server) handleHealth() gin.HandlerFunc {
	return func(c *gin.Context) {
		if s.DB != nil {
			if err := s.DB.Ping(); err != nil {
				s.Log.Warn().Err(err).Msg("health check failed")
				response.JSON(c, "database unavailable", http.StatusServiceUnavailable, nil, err)
				return
			}
		}
		response.JSON(c, "ok", http.StatusOK, nil, nil)
	}
}
