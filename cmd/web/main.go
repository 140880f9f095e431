// cmd/web/main.go
//
// Tutorial catalog - HTTP entry point.
//
// Boot sequence
// -------------
//
//  1. Load configuration (.env -> conf/global.yaml -> TUTORIALS_ env, Vault
//     secrets resolved).
//
//  2. Start the daily rotating logger (tees to console when configured or
//     running in a TTY).
//
//  3. Open the Record Store selected by database.driver:
//
//     • mysql   - sqlx pool, pinged with retries
//     • memory  - process-local map, lost on exit
//
//  4. Wrap the store in the by-id LRU when cache.size > 0.
//
//  5. Build the catalog service and the chi router:
//
//     • recoverer + request-id    - chi middleware
//     • requestinfo               - UA, client IP, optional country
//     • access log, security hdrs - internal/middleware
//     • ForceHTTPS                - only when http.force_https is set
//     • /metrics                  - Prometheus
//     • /api/tutorials, /healthz  - internal/api
//
//  6. Serve until SIGINT/SIGTERM, then drain in-flight requests.
//
// Large comment blocks are framed by blank “//” lines; inline comments use
// a single “//”.
package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"github.com/yanizio/tutorials/internal/api"
	"github.com/yanizio/tutorials/internal/catalog"
	"github.com/yanizio/tutorials/internal/config"
	"github.com/yanizio/tutorials/internal/database"
	"github.com/yanizio/tutorials/internal/logger"
	"github.com/yanizio/tutorials/internal/middleware"
	"github.com/yanizio/tutorials/internal/requestinfo"
	"github.com/yanizio/tutorials/internal/server"
	"github.com/yanizio/tutorials/internal/tutorial"
)

// runningInTTY returns true when stdout is a character device.
func runningInTTY() bool {
	fi, err := os.Stdout.Stat()
	if err != nil {
		return false
	}
	return fi.Mode()&os.ModeCharDevice != 0
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	//
	// ── 1.  Configuration ───────────────────────────────────────────────
	//
	cfg, err := config.Load(ctx)
	if err != nil {
		log.Fatalf("load config: %v", err)
	}

	//
	// ── 2.  Logger ──────────────────────────────────────────────────────
	//
	logOut, err := logger.New(cfg.Paths.Root, cfg.Log.Level, cfg.Log.Tee || runningInTTY())
	if err != nil {
		log.Fatalf("start logger: %v", err)
	}
	defer func() { _ = logOut.Sync() }()

	//
	// ── 3–4.  Record Store (+ cache) ────────────────────────────────────
	//
	store, closeStore, err := openStore(ctx, cfg, logOut)
	if err != nil {
		logOut.Fatalw("open store", "driver", cfg.Database.Driver, "err", err)
	}
	defer closeStore()

	if cfg.Cache.Size > 0 {
		store = tutorial.NewCachedStore(store, cfg.Cache.Size)
		logOut.Infow("record cache enabled", "size", cfg.Cache.Size)
	}

	//
	// ── 5.  Service and router ──────────────────────────────────────────
	//
	svc := catalog.New(store, logOut)

	enricher, err := requestinfo.New(cfg.GeoIP.Path)
	if err != nil {
		logOut.Fatalw("open geoip database", "path", cfg.GeoIP.Path, "err", err)
	}
	defer enricher.Close()

	r := chi.NewRouter()
	r.Use(chimw.Recoverer, chimw.RequestID)
	r.Use(enricher.Middleware, middleware.AccessLog(logOut), middleware.Security)
	if cfg.HTTP.ForceHTTPS {
		r.Use(middleware.ForceHTTPS)
	}
	r.Handle("/metrics", promhttp.Handler())
	api.Routes(r, svc, logOut)

	//
	// ── 6.  Serve ───────────────────────────────────────────────────────
	//
	if err := server.Run(ctx, server.New(cfg.HTTP, r), logOut); err != nil {
		logOut.Fatalw("http server", "err", err)
	}
	logOut.Info("bye")
}

// openStore builds the Record Store named by database.driver.  The returned
// func releases any pool it opened.
func openStore(ctx context.Context, cfg *config.Config, log *zap.SugaredLogger) (tutorial.Store, func(), error) {
	if cfg.Database.Driver == config.DriverMemory {
		log.Warnw("using in-memory store; data is lost on exit")
		return tutorial.NewMemoryStore(), func() {}, nil
	}

	dsn, err := database.DSN(cfg.Database.DSN, cfg.Database.Password)
	if err != nil {
		return nil, nil, err
	}

	opts := database.DefaultOptions()
	if cfg.Database.MaxOpen > 0 {
		opts.MaxOpenConns = cfg.Database.MaxOpen
	}
	if cfg.Database.MaxIdle > 0 {
		opts.MaxIdleConns = cfg.Database.MaxIdle
	}

	log.Infow("connecting to database …")
	db, err := database.OpenWithOptions(ctx, dsn, opts)
	if err != nil {
		return nil, nil, err
	}
	log.Infow("database online", "max_open", opts.MaxOpenConns)

	return tutorial.NewRepository(db), func() { _ = db.Close() }, nil
}
