package api

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/smallwonder/storefront-api/pkg/config"
	"github.com/smallwonder/storefront-api/pkg/logger"
)

// Server wraps the http.Server with sane timeouts and graceful shutdown.
type Server struct {
	httpServer *http.Server
	logg       *logger.Logger
}

func NewServer(cfg config.AppConfig, handler http.Handler, logg *logger.Logger) *Server {
	return &Server{
		httpServer: &http.Server{
			Addr:              ":" + cfg.Port,
			Handler:           handler,
			ReadHeaderTimeout: 10 * time.Second,
			ReadTimeout:       30 * time.Second,
			WriteTimeout:      30 * time.Second,
			IdleTimeout:       2 * time.Minute,
		},
		logg: logg,
	}
}

// Start blocks until the listener fails or Shutdown is called.
func (s *Server) Start() error {
	if s.logg != nil {
		ctx := s.logg.WithField(context.Background(), "addr", s.httpServer.Addr)
		s.logg.Info(ctx, "http server listening")
	}
	if err := s.httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

// Shutdown drains in-flight requests until the context expires.
func (s *Server) Shutdown(ctx context.Context) error {
	return s.httpServer.Shutdown(ctx)
}
