package server

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"time"

	"github.com/gorilla/mux"
)

const (
	READ_HEADER_TIMEOUT = 5 * time.Second
	WRITE_TIMEOUT       = 60 * time.Second
	SHUTDOWN_TIMEOUT    = 5 * time.Second
)

type ZooAssistantHttpServer struct {
	router    *Router
	muxRouter *mux.Router
	srv       *http.Server
}

func NewZooAssistantHttpServer(router *Router, muxRouter *mux.Router, port int) *ZooAssistantHttpServer {
	return &ZooAssistantHttpServer{
		router:    router,
		muxRouter: muxRouter,
		srv: &http.Server{
			Addr:              fmt.Sprintf(":%d", port),
			Handler:           muxRouter,
			ReadHeaderTimeout: READ_HEADER_TIMEOUT,
			WriteTimeout:      WRITE_TIMEOUT,
		},
	}
}

// Start registers the routes and serves until ctx is cancelled, then shuts
// down gracefully.
func (s *ZooAssistantHttpServer) Start(ctx context.Context) error {
	s.router.RegisterRoutes()

	errCh := make(chan error, 1)
	go func() {
		log.Printf("[ZooAssistantHttpServer] Starting server on %s", s.srv.Addr)
		if err := s.srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		if err != nil {
			return fmt.Errorf("listen on %s: %w", s.srv.Addr, err)
		}
		return nil
	case <-ctx.Done():
	}

	log.Println("[ZooAssistantHttpServer] Shutting down the server...")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), SHUTDOWN_TIMEOUT)
	defer cancel()
	if err := s.srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("server forced to shutdown: %w", err)
	}
	log.Println("[ZooAssistantHttpServer] Server exiting")
	return nil
}
