package rest

import (
	"context"
	"net"
	"net/http"
	"time"

	"bitbucket.org/kleinnic74/dotto/logging"
	"github.com/gorilla/mux"
	"go.uber.org/zap"
)

// Routes registers handlers on a router
type Routes interface {
	InitRoutes(*mux.Router)
}

// DebugServer exposes metrics, recent logs and frame statistics over HTTP.
// It runs on its own goroutine and never touches render state.
type DebugServer struct {
	router *mux.Router
	server *http.Server
	done   chan struct{}
}

// NewDebugServer builds the server; frames may be nil when no frame loop
// exists yet
func NewDebugServer(addr string, frames StatsSource, routes ...Routes) *DebugServer {
	router := mux.NewRouter()
	for _, r := range routes {
		r.InitRoutes(router)
	}
	return &DebugServer{
		router: router,
		server: &http.Server{
			Addr:    addr,
			Handler: withMiddleWares(router, frames),
		},
		done: make(chan struct{}),
	}
}

// Handler returns the server's handler including middlewares
func (s *DebugServer) Handler() http.Handler {
	return s.server.Handler
}

// Start listens in the background until Shutdown
func (s *DebugServer) Start(ctx context.Context) error {
	logger, ctx := logging.SubFrom(ctx, "http")
	l, err := net.Listen("tcp", s.server.Addr)
	if err != nil {
		return err
	}
	s.server.BaseContext = func(net.Listener) context.Context { return ctx }
	go func() {
		defer close(s.done)
		logger.Info("Starting debug server...", zap.String("bindAddr", l.Addr().String()))
		if err := s.server.Serve(l); err != nil && err != http.ErrServerClosed {
			logger.Error("Debug server failed", zap.Error(err))
		}
		logger.Info("Debug server stopped")
	}()
	return nil
}

// Shutdown stops the server, waiting at most 5 seconds for open requests
func (s *DebugServer) Shutdown(ctx context.Context) {
	ctxShutdown, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := s.server.Shutdown(ctxShutdown); err != nil {
		logging.From(ctx).Error("Failed to shutdown debug server", zap.Error(err))
	}
	select {
	case <-s.done:
	case <-ctxShutdown.Done():
	}
}
