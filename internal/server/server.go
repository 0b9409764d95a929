package server

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"strings"
	"time"

	"github.com/prometheus/client_golang/prometheus/promhttp"

	"lyricsmith/internal/api"
	"lyricsmith/internal/config"
	"lyricsmith/internal/logging"
	"lyricsmith/internal/ratelimit"
)

const (
	defaultShutdownTimeout = 5 * time.Second
	generalPolicyName      = "general"
)

// Deps wires the server collaborators.
type Deps struct {
	Config  *config.Config
	Service *api.SongService
	// Limiter enforces the general policy. Nil disables limiting.
	Limiter *ratelimit.Limiter
	Logger  *slog.Logger
}

// Server is the HTTP front end of the song service.
type Server struct {
	bind            string
	prefix          string
	origins         []string
	policy          ratelimit.Policy
	failOpen        bool
	shutdownTimeout time.Duration

	service        *api.SongService
	limiter        *ratelimit.Limiter
	logger         *slog.Logger
	metricsHandler http.Handler

	handler  http.Handler
	server   *http.Server
	listener net.Listener
}

// New builds a Server from configuration.
func New(deps Deps) (*Server, error) {
	cfg := deps.Config
	if cfg == nil {
		return nil, errors.New("server: config required")
	}
	if deps.Service == nil {
		return nil, errors.New("server: song service required")
	}
	logger := deps.Logger
	if logger == nil {
		logger = logging.NewNop()
	}

	policy := ratelimit.Policy{
		Name:      generalPolicyName,
		Requests:  cfg.RateLimit.Requests,
		Window:    cfg.RateLimitWindow(),
		Recording: ratelimit.RecordOnAdmit,
	}
	if deps.Limiter != nil {
		if err := policy.Validate(); err != nil {
			return nil, fmt.Errorf("server: %w", err)
		}
	}

	prefix := "/" + strings.Trim(strings.TrimSpace(cfg.Server.APIPrefix), "/")
	if prefix == "/" {
		prefix = ""
	}

	shutdown := defaultShutdownTimeout
	if cfg.Server.ShutdownTimeoutSeconds > 0 {
		shutdown = time.Duration(cfg.Server.ShutdownTimeoutSeconds) * time.Second
	}

	s := &Server{
		bind:            strings.TrimSpace(cfg.Server.Bind),
		prefix:          prefix,
		origins:         append([]string(nil), cfg.CORS.AllowedOrigins...),
		policy:          policy,
		failOpen:        cfg.RateLimit.FailOpen,
		shutdownTimeout: shutdown,
		service:         deps.Service,
		limiter:         deps.Limiter,
		logger:          logging.NewComponentLogger(logger, "server"),
	}
	if cfg.Server.MetricsEnabled {
		s.metricsHandler = promhttp.Handler()
	}
	s.handler = s.buildMux()
	s.server = &http.Server{
		Handler:           s.handler,
		ReadHeaderTimeout: seconds(cfg.Server.ReadHeaderTimeoutSeconds, 5*time.Second),
		ReadTimeout:       seconds(cfg.Server.ReadTimeoutSeconds, 15*time.Second),
		WriteTimeout:      seconds(cfg.Server.WriteTimeoutSeconds, 90*time.Second),
		IdleTimeout:       seconds(cfg.Server.IdleTimeoutSeconds, 60*time.Second),
	}
	return s, nil
}

func seconds(value int, fallback time.Duration) time.Duration {
	if value <= 0 {
		return fallback
	}
	return time.Duration(value) * time.Second
}

// Handler returns the routed pipeline.
func (s *Server) Handler() http.Handler { return s.handler }

// Listen binds the configured address.
func (s *Server) Listen() error {
	if s.listener != nil {
		return nil
	}
	listener, err := net.Listen("tcp", s.bind)
	if err != nil {
		return fmt.Errorf("api listen: %w", err)
	}
	s.listener = listener
	return nil
}

// Addr returns the bound address, or nil before Listen.
func (s *Server) Addr() net.Addr {
	if s.listener == nil {
		return nil
	}
	return s.listener.Addr()
}

// Serve handles requests until ctx is cancelled, then shuts down gracefully.
func (s *Server) Serve(ctx context.Context) error {
	if err := s.Listen(); err != nil {
		return err
	}
	s.logger.Info("api server listening",
		logging.String("address", s.listener.Addr().String()),
		logging.String("prefix", s.prefix),
	)

	errCh := make(chan error, 1)
	go func() {
		errCh <- s.server.Serve(s.listener)
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return fmt.Errorf("api serve: %w", err)
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), s.shutdownTimeout)
	defer cancel()
	if err := s.server.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("api shutdown: %w", err)
	}
	s.logger.Info("api server stopped")
	return nil
}
