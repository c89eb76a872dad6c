package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"dreamvisualizer/internal/adapter/repo"
	"dreamvisualizer/internal/analytics"
	"dreamvisualizer/internal/infra"
)

// The worker owns scheduled analytics jobs so API replicas stay stateless.
func main() {
	_ = godotenv.Load()

	cfg, err := infra.LoadConfig()
	if err != nil {
		panic(err)
	}
	logger := infra.NewLogger(cfg.AppEnv, "worker")

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	pool, err := infra.NewDBPool(ctx, cfg)
	if err != nil {
		logger.Fatal().Err(err).Msg("worker: db connection failed")
	}
	defer pool.Close()

	agg := analytics.NewAggregator(repo.NewAnalyticsRepository(infra.NewSQLRunner(pool, logger)))
	scheduler, err := analytics.NewScheduler(agg, cfg.SnapshotCron, logger)
	if err != nil {
		logger.Fatal().Err(err).Msg("worker: invalid schedule")
	}

	scheduler.Start()
	logger.Info().Str("schedule", cfg.SnapshotCron).Msg("worker: started")

	<-ctx.Done()

	stopCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()
	scheduler.Stop(stopCtx)
	logger.Info().Msg("worker: stopped")
}
