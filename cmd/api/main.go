package main

import (
	"context"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"dreamvisualizer/internal/adapter/repo"
	"dreamvisualizer/internal/analytics"
	"dreamvisualizer/internal/auth"
	"dreamvisualizer/internal/cache"
	"dreamvisualizer/internal/exporter"
	"dreamvisualizer/internal/http/handlers"
	httpapi "dreamvisualizer/internal/http/httpapi"
	"dreamvisualizer/internal/infra"
	"dreamvisualizer/internal/infra/geoip"
	"dreamvisualizer/internal/journal"
	"dreamvisualizer/internal/middleware"
	"dreamvisualizer/internal/pipeline"
	"dreamvisualizer/internal/providers"
	"dreamvisualizer/internal/ratelimit"
	"dreamvisualizer/internal/storage"
	"dreamvisualizer/internal/tasks"
)

func main() {
	// .env is optional
	_ = godotenv.Load()

	cfg, err := infra.LoadConfig()
	if err != nil {
		panic(err)
	}
	logger := infra.NewLogger(cfg.AppEnv, "api")

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if cfg.AutoMigrate {
		if err := migrateUp(cfg.DatabaseURL); err != nil {
			logger.Fatal().Err(err).Msg("auto migrate failed")
		}
		logger.Info().Msg("schema up to date")
	}

	dbpool, err := infra.NewDBPool(ctx, cfg)
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to connect database")
	}
	defer dbpool.Close()
	sql := infra.NewSQLRunner(dbpool, logger)

	store, err := newStore(ctx, cfg)
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to configure artifact storage")
	}

	redisClient, err := infra.NewRedisClient(ctx, cfg)
	if err != nil {
		logger.Warn().Err(err).Msg("redis unavailable, falling back to in-process cache and limiter")
	}
	var (
		memoCache cache.Cache = cache.NewMemory()
		limiter   middleware.Limiter
	)
	if cfg.RateLimitPerMin > 0 {
		limiter = middleware.NewWindowLimiter(cfg.RateLimitPerMin, time.Minute)
	}
	if redisClient != nil {
		defer redisClient.Close()
		memoCache = cache.NewRedis(redisClient)
		if cfg.RateLimitPerMin > 0 {
			limiter = ratelimit.PerMinute(redisClient, cfg.RateLimitPerMin)
		}
	}

	geo, err := geoip.NewResolver(cfg.GeoIPDBPath)
	if err != nil {
		logger.Warn().Err(err).Msg("geoip disabled")
		geo = nil
	}
	defer geo.Close()

	users := repo.NewUserRepository(sql)
	events := repo.NewEventRepository(sql)
	eventLog := analytics.NewLogger(events, logger)
	assets := journal.New(repo.NewAssetRepository(sql))

	pipe := pipeline.New(pipeline.Options{
		Providers: providers.NewSet(cfg, logger),
		Store:     store,
		Events:    eventLog,
		Journal:   assets,
		Memo:      cache.NewMemo(memoCache, store, cfg.CacheTTL, &logger),
		BGMPath:   cfg.BGMPath,
		WorkDir:   filepath.Join(os.TempDir(), "dreamvisualizer"),
		Logger:    &logger,
	})
	// Background runs outlive the signal context so shutdown can let them finish.
	runCtx, cancelRuns := context.WithCancel(context.Background())
	defer cancelRuns()
	runner := tasks.NewRunner(runCtx, repo.NewTaskRepository(sql), pipe, tasks.NewHub(), logger)

	app := &handlers.App{
		AppName:   cfg.AppName,
		JWTSecret: cfg.JWTSecret,
		Logger:    logger,
		Auth:      auth.NewService(users, cfg.JWTSecret, cfg.TokenTTL),
		Pipeline:  pipe,
		Tasks:     runner,
		Exports:   exporter.New(store, eventLog, assets, &logger),
		Analytics: analytics.NewAggregator(repo.NewAnalyticsRepository(sql)),
		Events:    eventLog,
		EventLog:  events,
		Journal:   assets,
		Store:     store,
		DB:        sql,
	}

	router := httpapi.NewRouter(app, httpapi.Options{
		JWTSecret:     cfg.JWTSecret,
		CORSOrigins:   cfg.CORSOrigins,
		Limiter:       limiter,
		CountryLookup: geo.Lookup(),
		Logger:        logger,
	})
	server := infra.NewHTTPServer(cfg, router)

	go func() {
		logger.Info().Str("addr", server.Addr()).Bool("lite_mode", cfg.LiteMode).Msg("API listening")
		if err := server.Start(); err != nil {
			logger.Error().Err(err).Msg("http server failed")
			stop()
		}
	}()

	<-ctx.Done()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.HTTPIdleTimeout)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.Error().Err(err).Msg("failed to shutdown server")
	}
	if err := runner.Wait(shutdownCtx); err != nil {
		logger.Warn().Err(err).Msg("background tasks still running at shutdown, cancelling")
		cancelRuns()
	}
	logger.Info().Msg("server stopped")
}

func migrateUp(databaseURL string) error {
	m, err := infra.NewMigrator(databaseURL)
	if err != nil {
		return err
	}
	defer m.Close()
	return m.Up()
}

func newStore(ctx context.Context, cfg *infra.Config) (storage.Store, error) {
	if cfg.S3Bucket != "" {
		return storage.NewS3Store(ctx, storage.S3Options{
			Bucket:    cfg.S3Bucket,
			Region:    cfg.S3Region,
			Endpoint:  cfg.S3Endpoint,
			PathStyle: cfg.S3PathStyle,
			PublicURL: cfg.S3PublicURL,
		})
	}
	return storage.NewFileStore(cfg.StorageDir)
}
