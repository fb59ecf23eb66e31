package server

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog"

	"github.com/andreicopos/UrbanEye/config"
	"github.com/andreicopos/UrbanEye/db"
	"github.com/andreicopos/UrbanEye/services"
)

// Server holds everything the HTTP handlers need.
type Server struct {
	Config           *config.Config
	Log              zerolog.Logger
	DB               *db.GormDB
	AuthService      services.AuthService
	ReportService    services.ReportService
	LikeService      services.LikeService
	MediaService     services.MediaService
	DetectionService services.DetectionService
}

// Handler returns the routed gin engine.
func (s *Server) Handler() http.Handler {
	return s.setupRouter()
}

// Start serves until SIGINT or SIGTERM, then drains in-flight requests.
func (s *Server) Start() {
	port := s.Config.Port
	if port == 0 {
		port = 5000
	}
	srv := &http.Server{
		Addr:              fmt.Sprintf(":%d", port),
		Handler:           s.setupRouter(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		s.Log.Info().Str("addr", srv.Addr).Msg("http server starting")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			s.Log.Fatal().Err(err).Msg("listen and serve")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	s.Log.Info().Msg("http server shutting down")

	ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		s.Log.Error().Err(err).Msg("server forced to shutdown")
	}
	s.Log.Info().Msg("server exiting")
}
