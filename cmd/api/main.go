package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog/log"
	"golang.org/x/sync/errgroup"

	server "hotel_ops/internal/adapters/http_server"
	"hotel_ops/internal/adapters/observability"
	redisad "hotel_ops/internal/adapters/redis"
	"hotel_ops/internal/app"
	"hotel_ops/internal/domain"
	"hotel_ops/internal/shared"
	"hotel_ops/internal/storage/sqlstore"
)

func main() {
	cfg := shared.Load()

	// set global logger (console in dev, JSON otherwise)
	log.Logger = observability.NewLogger(cfg.AppEnv, cfg.LogLevel, os.Stdout)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	observability.Serve(cfg.MetricsAddr)

	// db
	dialect, err := sqlstore.DialectFor(cfg.DBDriver)
	if err != nil {
		log.Fatal().Err(err).Msg("unsupported database driver")
	}
	dsn := cfg.MySQLDSN
	if dialect.Name == sqlstore.SQLite.Name {
		dsn = sqlstore.SQLiteDSN(cfg.SQLitePath)
	}
	db, err := sqlstore.Open(ctx, dialect, dsn)
	if err != nil {
		log.Fatal().Err(err).Str("driver", dialect.Name).Msg("database connection failed")
	}
	defer db.Close()
	log.Info().Str("driver", dialect.Name).Msg("database connection ok")

	repo := sqlstore.New(db, dialect)
	if cfg.AutoMigrate {
		if err := repo.Gateway().Migrate(ctx); err != nil {
			log.Fatal().Err(err).Msg("migrate failed")
		}
	}

	// deps
	var cache domain.Cache
	if cfg.RedisAddr != "" {
		rc := redisad.New(cfg.RedisAddr, cfg.RedisPass, cfg.RedisDB)
		defer rc.Close()
		cache = rc
	}
	dir := app.NewHotelDirectory(repo, cache, cfg.CacheTTL)
	engine := app.NewBookingEngine(repo, dir, cfg.NearbyRadius, cfg.RecentLimit)

	// http
	srv := server.New()
	reg := observability.InitRegistry()
	srv.Mount("/metrics", observability.MetricsHandler(reg))
	srv.MountHandlers(&server.Handlers{Engine: engine, DB: db})

	httpSrv := &http.Server{Addr: cfg.HTTPAddr, Handler: srv.Mux(), ReadHeaderTimeout: 5 * time.Second}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		log.Info().Str("addr", cfg.HTTPAddr).Msg("API listening")
		if err := httpSrv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		return httpSrv.Shutdown(shutdownCtx)
	})
	if err := g.Wait(); err != nil {
		log.Error().Err(err).Msg("http server failed")
		os.Exit(1)
	}
	log.Info().Msg("API stopped")
}
