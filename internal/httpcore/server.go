// Package httpcore provides the base HTTP server, process flags, middleware
// chain and response helpers for the invitation site.
package httpcore

import (
	"context"
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
)

// Environment names. Anything other than EnvDevelopment hides error detail.
const (
	EnvDevelopment = "development"
	EnvProduction  = "production"
)

// DefaultPort is used when neither -port nor PORT is set.
const DefaultPort = 3000

// Config holds the process-level settings parsed from flags and environment.
type Config struct {
	Port       int
	Env        string
	ConfigFile string
	Verbose    bool
	Name       string // service name for logging
}

// IsDevelopment reports whether error detail and request logging are enabled.
func (c *Config) IsDevelopment() bool {
	return c.Env == EnvDevelopment
}

// ParseFlags parses the command line, falling back to PORT, APP_ENV and
// VIDEOINVITE_CONFIG for anything not given as a flag.
func ParseFlags(name string, args []string) (*Config, error) {
	cfg := &Config{Name: name}
	fs := flag.NewFlagSet(name, flag.ContinueOnError)
	fs.IntVar(&cfg.Port, "port", 0, "HTTP listen port (default: $PORT or 3000)")
	fs.StringVar(&cfg.Env, "env", "", "Environment: development or production (default: $APP_ENV or development)")
	fs.StringVar(&cfg.ConfigFile, "config", "", "Path to config.yaml (default: $VIDEOINVITE_CONFIG or config.yaml)")
	fs.BoolVar(&cfg.Verbose, "verbose", false, "Enable debug logging outside development")
	if err := fs.Parse(args); err != nil {
		return nil, err
	}

	if cfg.Port == 0 {
		if p := os.Getenv("PORT"); p != "" {
			port, err := strconv.Atoi(p)
			if err != nil {
				return nil, fmt.Errorf("invalid PORT %q: %w", p, err)
			}
			cfg.Port = port
		}
	}
	if cfg.Port == 0 {
		cfg.Port = DefaultPort
	}
	if cfg.Env == "" {
		cfg.Env = os.Getenv("APP_ENV")
	}
	if cfg.Env == "" {
		cfg.Env = EnvDevelopment
	}
	if cfg.ConfigFile == "" {
		cfg.ConfigFile = os.Getenv("VIDEOINVITE_CONFIG")
	}
	return cfg, nil
}

// Server wraps a chi router with the common middleware and manages the
// listener lifecycle.
type Server struct {
	Config *Config
	Router *chi.Mux
	Logger *slog.Logger
	mw     *Middleware

	shutdownHooks []func(context.Context) error
}

// New creates a Server with the given config.
func New(cfg *Config) *Server {
	level := slog.LevelInfo
	if cfg.IsDevelopment() || cfg.Verbose {
		level = slog.LevelDebug
	}
	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level: level,
	})).With("service", cfg.Name)

	return NewWithLogger(cfg, logger)
}

// NewWithLogger is New with a caller-supplied logger, used by tests.
func NewWithLogger(cfg *Config, logger *slog.Logger) *Server {
	r := chi.NewRouter()
	mw := NewMiddleware(cfg, logger)

	r.Use(chimw.RequestID)
	r.Use(chimw.RealIP)
	r.Use(chimw.GetHead)
	r.Use(mw.RequestLog)

	return &Server{
		Config: cfg,
		Router: r,
		Logger: logger,
		mw:     mw,
	}
}

// Middleware returns the middleware instance (request log access).
func (s *Server) Middleware() *Middleware {
	return s.mw
}

// OnShutdown registers fn to run after the listener stops accepting
// connections. Hooks run in registration order and share the shutdown deadline.
func (s *Server) OnShutdown(fn func(context.Context) error) {
	s.shutdownHooks = append(s.shutdownHooks, fn)
}

// Serve starts the HTTP server and blocks until SIGINT/SIGTERM.
func (s *Server) Serve() error {
	addr := fmt.Sprintf(":%d", s.Config.Port)

	srv := &http.Server{
		Addr:         addr,
		Handler:      s.Router,
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	done := make(chan os.Signal, 1)
	signal.Notify(done, os.Interrupt, syscall.SIGTERM)

	errCh := make(chan error, 1)
	go func() {
		s.Logger.Info("server listening", "addr", addr, "env", s.Config.Env)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	select {
	case err := <-errCh:
		return fmt.Errorf("listening on %s: %w", addr, err)
	case <-done:
	}
	s.Logger.Info("shutting down")

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	err := srv.Shutdown(ctx)
	for _, hook := range s.shutdownHooks {
		if hookErr := hook(ctx); hookErr != nil {
			s.Logger.Error("shutdown hook failed", "err", hookErr)
			err = errors.Join(err, hookErr)
		}
	}
	return err
}

// ServeHTTP implements http.Handler so a Server can be used directly in tests.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.Router.ServeHTTP(w, r)
}

// JSON writes a JSON response with the given status code.
func JSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	if v != nil {
		json.NewEncoder(w).Encode(v)
	}
}

// Error writes a JSON error response.
func Error(w http.ResponseWriter, status int, message string) {
	JSON(w, status, map[string]any{
		"error": map[string]any{
			"message": message,
			"type":    http.StatusText(status),
			"code":    status,
		},
	})
}
