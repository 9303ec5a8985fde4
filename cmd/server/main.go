package main

import (
	"context"
	"database/sql"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"

	_ "github.com/duckdb/duckdb-go/v2"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/cors"
	_ "github.com/mattn/go-sqlite3"
	"github.com/robfig/cron/v3"
	"golang.org/x/sync/errgroup"

	"github.com/alvinwquach/sculptql-sub000/internal/api"
	"github.com/alvinwquach/sculptql-sub000/internal/config"
	"github.com/alvinwquach/sculptql-sub000/internal/history"
	"github.com/alvinwquach/sculptql-sub000/internal/middleware"
	"github.com/alvinwquach/sculptql-sub000/internal/schema"
	"github.com/alvinwquach/sculptql-sub000/internal/service"
)

func main() {
	if err := run(); err != nil {
		slog.Error("server exited", "error", err)
		os.Exit(1)
	}
}

func run() error {
	cfg, err := config.LoadFromEnv()
	if err != nil {
		return err
	}

	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level: cfg.SlogLevel(),
	}))
	slog.SetDefault(logger)
	for _, w := range cfg.Warnings {
		logger.Warn("config", "warning", w)
	}

	dialect, err := cfg.Dialect()
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// Data connection the builder introspects and executes against.
	dataDB, err := sql.Open(cfg.DataDriver, cfg.DataDSN)
	if err != nil {
		return err
	}
	defer dataDB.Close()
	if err := dataDB.PingContext(ctx); err != nil {
		return err
	}

	catalog := newCatalogCache(dataDB, cfg.DataDriver, logger)
	logger.Info("schema introspected",
		"driver", cfg.DataDriver, "tables", len(catalog.get().Tables))

	// History metastore plus its retention sweep.
	var hist *history.Store
	scheduler := cron.New()
	if cfg.HistoryDBPath != "" {
		hist, err = history.Open(cfg.HistoryDBPath)
		if err != nil {
			return err
		}
		defer hist.Close()
		if err := hist.ScheduleRetention(scheduler, cfg.HistorySweepSpec, cfg.HistoryRetention, logger); err != nil {
			return err
		}
		scheduler.Start()
		defer scheduler.Stop()
	} else {
		logger.Info("history disabled (no HISTORY_DB_PATH)")
	}

	editorSvc := service.NewEditorService(catalog.get, dialect)
	querySvc := service.NewQueryService(dataDB, hist, dialect, logger)
	historySvc := service.NewHistoryService(hist)

	var validator *middleware.HS256Validator
	if cfg.JWTSecret != "" {
		validator, err = middleware.NewHS256Validator(cfg.JWTSecret)
		if err != nil {
			return err
		}
	} else {
		logger.Warn("auth disabled (no JWT_SECRET)")
	}

	handler := api.NewHandler(editorSvc, querySvc, historySvc, logger)

	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.Logger(logger))
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   cfg.CORSAllowedOrigins,
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Authorization", "Content-Type", "X-Request-ID"},
		AllowCredentials: false,
		MaxAge:           300,
	}))
	r.Use(middleware.RateLimiter(middleware.RateLimitConfig{
		RequestsPerSecond: cfg.RateLimitRPS,
		Burst:             cfg.RateLimitBurst,
	}))

	r.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})
	r.Route("/v1", func(r chi.Router) {
		r.Use(middleware.RequireAuth(validator))
		handler.Routes(r)
	})

	srv := &http.Server{
		Addr:              cfg.ListenAddr,
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second,
	}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		logger.Info("http listening", "addr", cfg.ListenAddr, "dialect", dialect.String())
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	})
	return g.Wait()
}

// catalogCache re-introspects the data connection at most once a minute
// so new tables show up without a restart.
type catalogCache struct {
	mu      sync.Mutex
	db      *sql.DB
	driver  string
	logger  *slog.Logger
	catalog *schema.Catalog
	fetched time.Time
}

func newCatalogCache(db *sql.DB, driver string, logger *slog.Logger) *catalogCache {
	c := &catalogCache{db: db, driver: driver, logger: logger}
	c.get()
	return c
}

func (c *catalogCache) get() *schema.Catalog {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.catalog != nil && time.Since(c.fetched) < time.Minute {
		return c.catalog
	}
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	cat, err := schema.Introspect(ctx, c.db, c.driver)
	if err != nil {
		c.logger.Warn("schema introspection failed", "error", err)
		if c.catalog == nil {
			c.catalog = &schema.Catalog{}
		}
		return c.catalog
	}
	c.catalog = cat
	c.fetched = time.Now()
	return c.catalog
}
