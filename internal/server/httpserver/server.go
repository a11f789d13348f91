// Package httpserver exposes the recovery facade over HTTP/JSON: snapshot
// management and the recycle bin, all scoped to the authenticated profile.
package httpserver

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/mvoronova/journeykeeper/internal/logging"
	"github.com/mvoronova/journeykeeper/internal/server/services"
)

type HTTPServer struct {
	address         string
	logger          logging.Logger
	snapshots       *services.SnapshotService
	recycleBin      *services.RecycleBinService
	journeys        *services.JourneyService
	jwtSecret       []byte
	shutdownTimeout time.Duration
}

func NewHTTPServer(addr string, l logging.Logger, ss *services.SnapshotService, rb *services.RecycleBinService, js *services.JourneyService, secretKey string, shutdownTimeout time.Duration) *HTTPServer {
	if shutdownTimeout <= 0 {
		shutdownTimeout = 5 * time.Second
	}
	return &HTTPServer{
		address:         addr,
		logger:          l.With("module", "http_server"),
		snapshots:       ss,
		recycleBin:      rb,
		journeys:        js,
		jwtSecret:       []byte(secretKey),
		shutdownTimeout: shutdownTimeout,
	}
}

// Run starts the server and blocks until ctx is cancelled, then shuts down
// gracefully.
func (s *HTTPServer) Run(ctx context.Context) error {
	srv := &http.Server{
		Addr:    s.address,
		Handler: s.router(),
	}

	go func() {
		<-ctx.Done()
		s.logger.Info(ctx, "Stopping HTTP server...")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), s.shutdownTimeout)
		defer cancel()
		_ = srv.Shutdown(shutdownCtx)
	}()

	s.logger.Info(ctx, "Starting HTTP server", "address", s.address)

	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}

	return nil
}
