package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"

	"github.com/sanosuguru/go-restaurant-seat-reservation/internal/api/handler"
	"github.com/sanosuguru/go-restaurant-seat-reservation/internal/api/router"
	"github.com/sanosuguru/go-restaurant-seat-reservation/internal/application"
	"github.com/sanosuguru/go-restaurant-seat-reservation/internal/config"
	"github.com/sanosuguru/go-restaurant-seat-reservation/internal/domain/reservation"
	"github.com/sanosuguru/go-restaurant-seat-reservation/internal/infrastructure/memory"
	"github.com/sanosuguru/go-restaurant-seat-reservation/internal/infrastructure/postgres"
	redisinfra "github.com/sanosuguru/go-restaurant-seat-reservation/internal/infrastructure/redis"
	"github.com/sanosuguru/go-restaurant-seat-reservation/internal/pkg/logger"
	"github.com/sanosuguru/go-restaurant-seat-reservation/internal/pkg/metrics"
	"github.com/sanosuguru/go-restaurant-seat-reservation/internal/worker"
)

func main() {
	if err := config.LoadDotEnv(); err != nil {
		fmt.Fprintf(os.Stderr, ".env 読み込みエラー: %v\n", err)
		os.Exit(1)
	}
	cfg := config.Load()
	logger.Set(logger.NewLogger(cfg.App.Env))
	defer logger.Sync()

	if err := run(cfg); err != nil {
		logger.Fatal("起動エラー", zap.Error(err))
	}
}

func run(cfg *config.Config) error {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	m := metrics.Init()
	checks := map[string]handler.HealthCheck{}

	// 予約ストア
	repo, closeStore, err := openStore(ctx, cfg, checks)
	if err != nil {
		return err
	}
	defer closeStore()

	// Redis（任意）
	var (
		lockManager *redisinfra.LockManager
		cache       application.OccupancyCache
	)
	if cfg.Redis.Enabled {
		client := redisinfra.NewClient(&cfg.Redis)
		defer client.Close()
		if err := redisinfra.Ping(ctx, client); err != nil {
			return err
		}
		lockManager = redisinfra.NewLockManager(client)
		cache = redisinfra.NewOccupancyCache(client, cfg.Redis.OccupancyTTL)
		checks["redis"] = func(ctx context.Context) error { return redisinfra.Ping(ctx, client) }
		logger.Info("Redis に接続しました", zap.String("addr", cfg.Redis.Addr()))
	}

	reservations := application.NewReservationService(repo, lockManager, cache, m)
	selections := application.NewSelectionService(reservations, m)

	if cfg.App.SeedSample {
		if err := reservations.SeedSample(ctx); err != nil {
			return err
		}
	}

	sweeper := worker.NewSessionSweeper(selections, cfg.Selection.SweepInterval, cfg.Selection.IdleTTL)
	go sweeper.Start(ctx)
	defer sweeper.Stop()

	e := router.New(router.Options{
		Reservations: reservations,
		Occupancy:    reservations,
		Selections:   selections,
		Health:       handler.NewHealthHandler(string(cfg.Store.Driver), checks),
		Metrics:      m,
		AllowOrigins: cfg.Server.AllowOrigins,
		MetricsAuth:  cfg.Metrics,
	})
	e.Server.ReadTimeout = cfg.Server.ReadTimeout
	e.Server.WriteTimeout = cfg.Server.WriteTimeout

	errCh := make(chan error, 1)
	go func() {
		logger.Info("サーバー起動",
			zap.String("port", cfg.Server.Port),
			zap.String("store", string(cfg.Store.Driver)),
			zap.Bool("redis", cfg.Redis.Enabled),
		)
		if err := e.Start(":" + cfg.Server.Port); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	select {
	case err := <-errCh:
		return fmt.Errorf("サーバー起動エラー: %w", err)
	case <-ctx.Done():
	}

	logger.Info("サーバーをシャットダウンしています...")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := e.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("サーバーシャットダウンエラー: %w", err)
	}
	logger.Info("サーバーが正常にシャットダウンしました")
	return nil
}

// openStore は設定に応じた予約リポジトリを返す
func openStore(ctx context.Context, cfg *config.Config, checks map[string]handler.HealthCheck) (reservation.Repository, func(), error) {
	switch cfg.Store.Driver {
	case config.StoreMemory:
		logger.Info("インメモリの予約ストアを使用します")
		return memory.NewReservationRepository(), func() {}, nil

	case config.StorePostgres:
		db, err := postgres.NewConnection(&cfg.Database)
		if err != nil {
			return nil, nil, err
		}
		if err := postgres.RunMigrations(db.DB, cfg.Store.MigrationsPath); err != nil {
			db.Close()
			return nil, nil, err
		}
		checks["postgres"] = func(ctx context.Context) error { return postgres.Ping(ctx, db) }
		logger.Info("PostgreSQL に接続しました",
			zap.String("host", cfg.Database.Host),
			zap.String("database", cfg.Database.DBName),
		)
		return postgres.NewReservationRepository(db), func() { db.Close() }, nil

	default:
		return nil, nil, fmt.Errorf("未対応の STORE_DRIVER です: %q", cfg.Store.Driver)
	}
}
