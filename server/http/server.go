package http

import (
	"context"
	"errors"
	"log/slog"
	"net"
	"net/http"
	"sync"
	"time"

	"github.com/gorilla/mux"
	"github.com/w-h-a/research/server"
)

type httpServer struct {
	options server.Options
	srv     *http.Server
	addr    string
	mtx     sync.RWMutex
}

func (s *httpServer) Options() server.Options {
	return s.options
}

func (s *httpServer) Start() error {
	ln, err := net.Listen("tcp", s.options.Address)
	if err != nil {
		return err
	}

	s.mtx.Lock()
	s.addr = ln.Addr().String()
	s.mtx.Unlock()

	slog.InfoContext(s.options.Context, "http server listening", "address", s.addr)

	go func() {
		if err := s.srv.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
			slog.ErrorContext(s.options.Context, "http server stopped", "error", err)
		}
	}()

	return nil
}

func (s *httpServer) Stop(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, s.options.ShutdownTimeout)
	defer cancel()

	return s.srv.Shutdown(ctx)
}

func (s *httpServer) Address() string {
	s.mtx.RLock()
	defer s.mtx.RUnlock()
	return s.addr
}

func NewServer(opts ...server.Option) server.Server {
	options := server.NewOptions(opts...)

	handler := options.Handler
	if handler == nil {
		handler = mux.NewRouter()
	}

	if ms, ok := MiddlewareFrom(options.Context); ok {
		for i := len(ms) - 1; i >= 0; i-- {
			handler = ms[i](handler)
		}
	}

	return &httpServer{
		options: options,
		srv: &http.Server{
			Handler:           handler,
			ReadHeaderTimeout: 15 * time.Second,
		},
	}
}
