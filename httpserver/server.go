// Package httpserver runs an http.Handler as a runner.Service.
package httpserver

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"strconv"
	"sync"
	"time"

	"github.com/rs/zerolog"
)

const (
	defaultReadTimeout  = 10 * time.Second
	defaultWriteTimeout = 10 * time.Second
	defaultGracePeriod  = 5 * time.Second
)

var ErrServerNotRunning = errors.New("httpserver: server is not running")

type Config struct {
	Host         string
	Port         int
	ReadTimeout  time.Duration
	WriteTimeout time.Duration
	GracePeriod  time.Duration
}

type Server struct {
	address      string
	gracePeriod  time.Duration
	readTimeout  time.Duration
	writeTimeout time.Duration
	handler      http.Handler
	logger       zerolog.Logger

	mu         sync.Mutex
	listener   net.Listener
	httpServer *http.Server
}

func New(cfg *Config, handler http.Handler, logger zerolog.Logger) *Server {
	s := &Server{ //nolint:exhaustruct
		address:      net.JoinHostPort(cfg.Host, strconv.Itoa(cfg.Port)),
		gracePeriod:  cfg.GracePeriod,
		readTimeout:  cfg.ReadTimeout,
		writeTimeout: cfg.WriteTimeout,
		handler:      handler,
		logger:       logger,
	}

	if s.readTimeout <= 0 {
		s.readTimeout = defaultReadTimeout
	}

	if s.writeTimeout <= 0 {
		s.writeTimeout = defaultWriteTimeout
	}

	if s.gracePeriod <= 0 {
		s.gracePeriod = defaultGracePeriod
	}

	return s
}

// Start binds the listener before returning, so a port conflict is reported
// to the caller. Requests are served in the background until Stop.
func (s *Server) Start(ctx context.Context) error {
	var lc net.ListenConfig

	listener, err := lc.Listen(ctx, "tcp", s.address)
	if err != nil {
		return fmt.Errorf("failed to listen on %s: %w", s.address, err)
	}

	httpServer := &http.Server{ //nolint:exhaustruct
		Handler:      s.handler,
		ReadTimeout:  s.readTimeout,
		WriteTimeout: s.writeTimeout,
	}

	s.mu.Lock()
	s.listener = listener
	s.httpServer = httpServer
	s.mu.Unlock()

	s.logger.Info().
		Str("address", listener.Addr().String()).
		Msg("The HTTP server is being started")

	go func() {
		if err := httpServer.Serve(listener); err != nil && !errors.Is(err, http.ErrServerClosed) {
			s.logger.Error().Err(err).Msg("The HTTP server has stopped unexpectedly")
		}
	}()

	return nil
}

func (s *Server) Stop() error {
	s.mu.Lock()
	httpServer := s.httpServer
	s.mu.Unlock()

	if httpServer == nil {
		return ErrServerNotRunning
	}

	s.logger.Info().
		Msg("The graceful shutdown of HTTP server is being initiated")

	ctx, cancel := context.WithTimeout(context.Background(), s.gracePeriod)
	defer cancel()

	if err := httpServer.Shutdown(ctx); err != nil {
		return fmt.Errorf("failed to stop HTTP server: %w", err)
	}

	s.logger.Info().
		Msg("The HTTP server shutdown has been completed successfully")

	return nil
}

func (s *Server) Name() string {
	return "http"
}

// Addr reports the bound address, which differs from the configured one when
// port 0 was requested. It is empty before Start.
func (s *Server) Addr() string {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.listener == nil {
		return ""
	}

	return s.listener.Addr().String()
}
