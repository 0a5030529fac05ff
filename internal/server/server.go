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

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	"github.com/yigit/consultdesk/internal/app/services"
	"github.com/yigit/consultdesk/internal/bootstrap"
	"github.com/yigit/consultdesk/internal/config"
	"github.com/yigit/consultdesk/internal/middleware"
)

const limiterCleanupInterval = 5 * time.Minute

// Server holds the state for the HTTP server.
type Server struct {
	config  *config.Config
	router  *gin.Engine
	backend services.Backend
	limiter *middleware.RateLimiter
	logger  zerolog.Logger
	http    *http.Server
	stop    chan struct{}
}

// NewServer creates and initializes a new server instance by calling bootstrap functions.
func NewServer(ctx context.Context, configPath string) (*Server, error) {
	cfg, lgr, err := bootstrap.LoadConfigAndSetupLogger(configPath)
	if err != nil {
		return nil, fmt.Errorf("failed to load config or setup logger: %w", err)
	}

	b, err := bootstrap.SetupBackend(ctx, cfg, lgr)
	if err != nil {
		return nil, fmt.Errorf("failed to setup backend: %w", err)
	}

	// Services, controllers and middleware share the one backend
	deps := bootstrap.BuildDependencies(cfg, b, lgr)
	router := bootstrap.SetupRouter(cfg, deps, lgr)

	return &Server{
		config:  cfg,
		router:  router,
		backend: b,
		limiter: deps.RateLimiter,
		logger:  lgr,
		stop:    make(chan struct{}),
	}, nil
}

// Run starts the HTTP server and handles graceful shutdown.
func (s *Server) Run() error {
	s.logger.Info().Str("port", s.config.Server.Port).Msg("Starting server...")

	s.http = &http.Server{
		Addr:         ":" + s.config.Server.Port,
		Handler:      s.router,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 35 * time.Second, // outlasts the upstream client timeout
		IdleTimeout:  120 * time.Second,
	}

	// Evict idle rate limit entries until shutdown
	s.limiter.StartCleanup(limiterCleanupInterval, s.stop)

	// Channel to listen for errors starting the server
	serverErrors := make(chan error, 1)

	// Start the server
	go func() {
		s.logger.Info().Str("addr", s.http.Addr).Msg("HTTP server listening")
		serverErrors <- s.http.ListenAndServe()
	}()

	// Channel to listen for OS signals
	osSignals := make(chan os.Signal, 1)
	signal.Notify(osSignals, syscall.SIGINT, syscall.SIGTERM)

	// Block until we receive either a server error or an OS signal
	select {
	case err := <-serverErrors:
		if !errors.Is(err, http.ErrServerClosed) {
			s.closeBackend()
			return fmt.Errorf("error starting server: %w", err)
		}
	case sig := <-osSignals:
		s.logger.Info().Str("signal", sig.String()).Msg("Received OS signal, initiating shutdown...")
	}

	// Perform graceful shutdown
	return s.Shutdown(context.Background())
}

// Shutdown gracefully stops the server and closes resources.
func (s *Server) Shutdown(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	var shutdownErr error

	// Shutdown HTTP server
	if s.http != nil {
		s.logger.Info().Msg("Shutting down HTTP server...")
		if err := s.http.Shutdown(ctx); err != nil {
			s.logger.Error().Err(err).Msg("HTTP server shutdown error")
			shutdownErr = errors.New("server shutdown completed with errors")
		} else {
			s.logger.Info().Msg("HTTP server gracefully stopped.")
		}
	}

	// Stop background work and release the backend
	s.closeBackend()
	s.logger.Info().Msg("Server shutdown process complete.")
	return shutdownErr
}

// closeBackend is safe to call more than once
func (s *Server) closeBackend() {
	select {
	case <-s.stop:
	default:
		close(s.stop)
	}
	if s.backend != nil {
		s.logger.Info().Msg("Closing backend...")
		s.backend.Close()
		s.backend = nil
	}
}
