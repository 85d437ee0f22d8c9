package server

import (
	"context"
	"errors"
	"net"
	"net/http"
	"time"

	"github.com/ankek/textdiagram/internal/logging"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

// ShutdownTimeout bounds graceful shutdown after the run context ends.
const ShutdownTimeout = 5 * time.Second

// Server owns the HTTP listener lifecycle.
type Server struct {
	httpServer *http.Server
	logger     *zap.Logger
}

// New creates a server for addr. Call Run to start it.
func New(addr string, handler http.Handler, logger *zap.Logger) *Server {
	return &Server{
		httpServer: &http.Server{
			Addr:              addr,
			Handler:           handler,
			ReadHeaderTimeout: 10 * time.Second,
		},
		logger: logging.OrNop(logger),
	}
}

// Run serves until ctx is done, then shuts down gracefully.
func (s *Server) Run(ctx context.Context) error {
	ln, err := net.Listen("tcp", s.httpServer.Addr)
	if err != nil {
		return err
	}
	return s.Serve(ctx, ln)
}

// Serve is Run on an existing listener.
func (s *Server) Serve(ctx context.Context, ln net.Listener) error {
	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		s.logger.Info("listening", zap.String("addr", ln.Addr().String()))
		if err := s.httpServer.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})

	g.Go(func() error {
		<-gctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), ShutdownTimeout)
		defer cancel()
		s.logger.Info("shutting down")
		return s.httpServer.Shutdown(shutdownCtx)
	})

	return g.Wait()
}
