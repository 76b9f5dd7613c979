// Package httpapi exposes the mapsketch server over HTTP: session endpoints,
// owner-scoped document persistence and the administrative surface.
package httpapi

import (
	"context"
	"net/http"
	"time"

	"github.com/mapsketch/mapsketch/internal/logging"
	"github.com/mapsketch/mapsketch/internal/server/services"
)

type Server struct {
	address   string
	logger    logging.Logger
	users     *services.UserService
	documents *services.DocumentService
	snapshots *services.SnapshotService
}

func NewServer(addr string, l logging.Logger, us *services.UserService, ds *services.DocumentService, ss *services.SnapshotService) (*Server, error) {
	return &Server{
		address:   addr,
		logger:    l.With("module", "http_server"),
		users:     us,
		documents: ds,
		snapshots: ss,
	}, nil
}

// Run starts the HTTP server and blocks until ctx is canceled or the
// listener fails. Cancellation triggers a graceful shutdown.
func (s *Server) Run(ctx context.Context) error {

	srv := &http.Server{
		Addr:              s.address,
		Handler:           s.Routes(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		<-ctx.Done()
		s.logger.Info(ctx, "Stopping HTTP server...")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			s.logger.Error(ctx, "shutdown error", "error", err.Error())
		}
	}()

	s.logger.Info(ctx, "Starting HTTP server", "address", s.address)

	if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		return err
	}

	return nil
}
