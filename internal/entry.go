// Package internal provides the main application initialization and runtime logic.
package internal

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"golang.org/x/sync/errgroup"

	"github.com/starford/mocinformacji/internal/api"
	"github.com/starford/mocinformacji/internal/articles"
	"github.com/starford/mocinformacji/internal/content"
	"github.com/starford/mocinformacji/internal/mcpserver"
	"github.com/starford/mocinformacji/internal/sse"
	"github.com/starford/mocinformacji/internal/storage"
	"github.com/starford/mocinformacji/internal/views"
	"github.com/starford/mocinformacji/internal/watch"
	"github.com/starford/mocinformacji/internal/web"
)

const shutdownTimeout = 10 * time.Second

// services are the long-lived objects shared by the HTTP and MCP front ends.
type services struct {
	store   *storage.FS
	cache   *content.Cache
	svc     *articles.Service
	counter views.Counter
}

func (s *services) Close() error {
	return s.counter.Close()
}

func (a *application) init(opts []Option) (*Config, *slog.Logger, error) {
	for _, opt := range opts {
		opt(a)
	}

	if a.config == nil {
		return nil, nil, fmt.Errorf("config is required")
	}

	out := a.logOutput
	if out == nil {
		out = os.Stdout
	}

	// Initialize structured JSON logger.
	logger := slog.New(slog.NewJSONHandler(out, &slog.HandlerOptions{
		Level: a.config.App.LogLevel,
	}))
	slog.SetDefault(logger)

	return a.config, logger, nil
}

// openServices wires the content store, the repository cache, the article
// service and the view counter.
func openServices(cfg *Config, logger *slog.Logger) (*services, error) {
	// Ensure content directory exists.
	if err := os.MkdirAll(cfg.Content.Path, 0o755); err != nil {
		return nil, fmt.Errorf("create content dir: %w", err)
	}

	store, err := storage.NewFS(cfg.Content.Path)
	if err != nil {
		return nil, fmt.Errorf("init storage: %w", err)
	}

	counterPath := cfg.counterPath()
	if err := os.MkdirAll(filepath.Dir(counterPath), 0o755); err != nil {
		return nil, fmt.Errorf("create counter dir: %w", err)
	}
	counter, err := views.Open(cfg.Views.Backend, counterPath, cfg.Views.MaxVisitors)
	if err != nil {
		return nil, fmt.Errorf("init view counter: %w", err)
	}

	cache := content.NewCache(content.NewFileRepository(store, logger), cfg.Content.CacheTTL)

	return &services{
		store:   store,
		cache:   cache,
		svc:     articles.NewService(cache, logger),
		counter: counter,
	}, nil
}

func writeStatus(w http.ResponseWriter, code int, status string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	_, _ = io.WriteString(w, `{"status":"`+status+`"}`)
}

// newRouter builds the full HTTP handler: health checks, the JSON API under
// /api and the site pages.
func newRouter(cfg *Config, s *services, broker *sse.Broker, limiter *api.Limiter, logger *slog.Logger) http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)
	r.Use(middleware.StripSlashes)

	// Health check endpoints (unauthenticated).
	r.Get("/health/live", func(w http.ResponseWriter, _ *http.Request) {
		writeStatus(w, http.StatusOK, "ok")
	})
	r.Get("/health/ready", func(w http.ResponseWriter, _ *http.Request) {
		if _, err := os.Stat(s.store.Root()); err != nil {
			writeStatus(w, http.StatusServiceUnavailable, "content unavailable")
			return
		}
		writeStatus(w, http.StatusOK, "ok")
	})

	opts := api.Options{
		AuthEnabled: cfg.Auth.AuthEnabled(),
		Token:       cfg.Auth.Token,
		Limiter:     limiter,
		Reload: func() {
			s.cache.Invalidate()
			logger.Info("content cache invalidated")
		},
	}
	if broker != nil {
		opts.Events = broker
	}

	// Mount API routes under /api.
	r.Mount("/api", api.NewRouter(s.svc, s.counter, opts))

	site := web.Site{
		Name:        cfg.Site.Name,
		URL:         cfg.Site.URL,
		Description: cfg.Site.Description,
		Ads:         cfg.Ads.Web(),
		// Pages only listen when something publishes changes.
		LiveUpdates: broker != nil && cfg.Content.Watch,
	}
	web.Register(r, s.svc, site, logger)

	return r
}

// Run starts the HTTP server with the given options.
func Run(ctx context.Context, opts ...Option) error {
	app := &application{}
	cfg, logger, err := app.init(opts)
	if err != nil {
		return err
	}

	logger.Info("Configuration loaded",
		slog.String("http_address", cfg.App.HTTP.Address()),
		slog.String("content_path", cfg.Content.Path),
		slog.String("views_backend", cfg.Views.Backend),
		slog.Duration("cache_ttl", cfg.Content.CacheTTL),
		slog.String("log_level", cfg.App.LogLevel.String()))

	s, err := openServices(cfg, logger)
	if err != nil {
		return err
	}
	defer s.Close()

	// SSE broker.
	broker := sse.NewBroker(2 * time.Second)
	defer broker.Close()

	g, gCtx := errgroup.WithContext(ctx)

	var limiter *api.Limiter
	if cfg.Limits.ViewsPerMinute > 0 {
		limiter = api.NewLimiter(gCtx, cfg.Limits.ViewsPerMinute, time.Minute)
	}

	httpServer := &http.Server{
		Addr:              cfg.App.HTTP.Address(),
		Handler:           newRouter(cfg, s, broker, limiter, logger),
		ReadHeaderTimeout: 10 * time.Second,
	}

	logger.Info("Server starting...", slog.String("http_address", cfg.App.HTTP.Address()))

	// Start file watcher: drop cached content and notify SSE clients.
	if cfg.Content.Watch {
		w := watch.New(s.store.Root(), s.store, logger, func(kind, path string) {
			s.cache.Invalidate()
			broker.PublishContentEvent(kind, path)
		})
		g.Go(func() error {
			if err := w.Run(gCtx); err != nil {
				logger.Warn("watcher failed", slog.String("error", err.Error()))
			}
			return nil
		})
	}

	// Start HTTP server.
	g.Go(func() error {
		logger.Info("Starting HTTP server", slog.String("address", cfg.App.HTTP.Address()))
		if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("HTTP server error: %w", err)
		}
		return nil
	})

	// Handle shutdown signals.
	g.Go(func() error {
		quit := make(chan os.Signal, 1)
		signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
		defer signal.Stop(quit)

		select {
		case sig := <-quit:
			logger.Info("Received shutdown signal", slog.String("signal", sig.String()))
		case <-gCtx.Done():
			logger.Info("Context cancelled, initiating shutdown")
		}

		logger.Info("Shutting down server...")

		// Closing the broker ends open event streams so Shutdown can drain.
		broker.Close()

		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		if err := httpServer.Shutdown(shutdownCtx); err != nil {
			logger.Error("HTTP server shutdown error", slog.String("error", err.Error()))
		}

		return errShutdown
	})

	if err := g.Wait(); err != nil && !errors.Is(err, errShutdown) {
		logger.Error("Application error", slog.String("error", err.Error()))
		return err
	}

	logger.Info("Server stopped successfully")
	return nil
}

// errShutdown cancels the group context so the watcher stops with the server.
var errShutdown = errors.New("shutdown")

// RunMCP serves the MCP tools over stdin/stdout.
func RunMCP(_ context.Context, opts ...Option) error {
	app := &application{logOutput: os.Stderr}
	cfg, logger, err := app.init(opts)
	if err != nil {
		return err
	}

	// create_article writes records that later reads must see at once.
	cfg.Content.CacheTTL = 0

	s, err := openServices(cfg, logger)
	if err != nil {
		return err
	}
	defer s.Close()

	logger.Info("MCP server starting", slog.String("content_path", cfg.Content.Path))

	srv := mcpserver.New(s.svc, s.store, s.counter)
	if err := srv.ServeStdio(); err != nil {
		return fmt.Errorf("mcp: %w", err)
	}
	return nil
}
