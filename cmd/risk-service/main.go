package main

import (
	"context"
	"fmt"
	"net/http"

	"go.uber.org/zap"

	rhttp "github.com/radieske/sportsbook-risk-engine/internal/risk-service/http"
	"github.com/radieske/sportsbook-risk-engine/internal/risk-service/repo"
	"github.com/radieske/sportsbook-risk-engine/internal/risk-service/state"
	"github.com/radieske/sportsbook-risk-engine/internal/shared/cache"
	"github.com/radieske/sportsbook-risk-engine/internal/shared/config"
	"github.com/radieske/sportsbook-risk-engine/internal/shared/db"
	"github.com/radieske/sportsbook-risk-engine/internal/shared/logger"
	"github.com/radieske/sportsbook-risk-engine/internal/shared/metrics"
)

func main() {
	cfg := config.Load()
	log, err := logger.New(cfg.ServiceName, cfg.Env)
	if err != nil {
		panic(err)
	}
	defer log.Sync()

	// Postgres
	pg, err := db.ConnectPostgres(cfg.PostgresDSN)
	if err != nil {
		log.Fatal("pg", zap.Error(err))
	}
	defer pg.Close()

	// Redis
	rdb, err := cache.ConnectRedis(cfg.RedisAddr)
	if err != nil {
		log.Fatal("redis", zap.Error(err))
	}
	defer rdb.Close()

	// deps
	repository := repo.NewPostgres(pg)
	stateStore := state.NewStore(rdb)

	// HTTP público
	api := rhttp.NewServer(log, repository, stateStore, cfg.StartingBankroll)
	apiSrv := &http.Server{
		Addr:    fmt.Sprintf(":%s", cfg.HTTPPort),
		Handler: api.Router(),
	}

	// metrics/health
	metrics.StartMetricsServer(cfg.MetricsPort, func(ctx context.Context) error {
		if err := pg.PingContext(ctx); err != nil {
			return fmt.Errorf("pg: %w", err)
		}
		if err := rdb.Ping(ctx).Err(); err != nil {
			return fmt.Errorf("redis: %w", err)
		}
		return nil
	})
	log.Info("metrics/health", zap.String("addr", ":"+cfg.MetricsPort))

	log.Info("risk-service listening", zap.String("addr", fmt.Sprintf(":%s", cfg.HTTPPort)))
	if err := apiSrv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		log.Fatal("api", zap.Error(err))
	}
}
