package http

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/dtroode/storefront-server/internal/model"
)

var _ model.Server = (*HTTPServer)(nil)

// HTTPServer serves the storefront API on a listener supplied by a security layer.
type HTTPServer struct {
	server *http.Server
}

// NewHTTPServer creates a server on addr. onShutdown hooks run when Stop
// begins, before active requests are awaited.
func NewHTTPServer(addr string, handler http.Handler, onShutdown ...func()) *HTTPServer {
	srv := &http.Server{
		Addr:              addr,
		Handler:           handler,
		ReadHeaderTimeout: 10 * time.Second,
	}
	for _, f := range onShutdown {
		srv.RegisterOnShutdown(f)
	}
	return &HTTPServer{server: srv}
}

// Start blocks until the server stops. A clean shutdown returns nil.
func (s *HTTPServer) Start(securityLayer model.SecurityLayer) error {
	listener, err := securityLayer.Listen("tcp", s.server.Addr)
	if err != nil {
		return fmt.Errorf("failed to listen: %w", err)
	}
	if err := s.server.Serve(listener); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

// Stop waits for active requests until ctx expires, then closes what is left.
func (s *HTTPServer) Stop(ctx context.Context) error {
	if err := s.server.Shutdown(ctx); err != nil {
		_ = s.server.Close()
		return fmt.Errorf("graceful shutdown interrupted: %w", err)
	}
	return nil
}

func (s *HTTPServer) Address() string {
	return s.server.Addr
}
