package main

import (
	"context"
	"fmt"
	"os/signal"
	"syscall"

	"github.com/prometheus/client_golang/prometheus"
	"go.uber.org/zap"

	"github.com/radieske/sportsbook-risk-engine/internal/risk-service/repo"
	"github.com/radieske/sportsbook-risk-engine/internal/risk-service/state"
	"github.com/radieske/sportsbook-risk-engine/internal/shared/cache"
	"github.com/radieske/sportsbook-risk-engine/internal/shared/config"
	"github.com/radieske/sportsbook-risk-engine/internal/shared/db"
	sharedkafka "github.com/radieske/sportsbook-risk-engine/internal/shared/kafka"
	"github.com/radieske/sportsbook-risk-engine/internal/shared/logger"
	"github.com/radieske/sportsbook-risk-engine/internal/shared/metrics"
	"github.com/radieske/sportsbook-risk-engine/internal/signal-processor/consumer"
	"github.com/radieske/sportsbook-risk-engine/internal/signal-processor/producer"
)

func main() {
	cfg := config.Load()
	log, err := logger.New(cfg.ServiceName, cfg.Env)
	if err != nil {
		panic(err)
	}
	defer log.Sync()

	// Inicializa dependências: Postgres e Redis
	pg, err := db.ConnectPostgres(cfg.PostgresDSN)
	if err != nil {
		log.Fatal("postgres connect", zap.Error(err))
	}
	defer pg.Close()

	rdb, err := cache.ConnectRedis(cfg.RedisAddr)
	if err != nil {
		log.Fatal("redis connect", zap.Error(err))
	}
	defer rdb.Close()

	// Consumer group do worker + writers de relatório e DLQ
	reader := sharedkafka.NewReader(cfg.KafkaBrokers, cfg.TopicSignalBatches, "signal-processor")
	defer reader.Close()

	reportWriter := sharedkafka.NewWriter(cfg.KafkaBrokers, cfg.TopicAllocationReports)
	defer reportWriter.Close()

	dlqWriter := sharedkafka.NewWriter(cfg.KafkaBrokers, cfg.TopicSignalBatchesDLQ)
	defer dlqWriter.Close()

	// Métricas Prometheus para monitoramento do processamento
	consumed := prometheus.NewCounter(prometheus.CounterOpts{Name: "signal_proc_batches_consumed_total", Help: "lotes consumidos"})
	allocated := prometheus.NewCounter(prometheus.CounterOpts{Name: "signal_proc_stakes_allocated_total", Help: "stakes aceitos"})
	errorsBy := prometheus.NewCounterVec(prometheus.CounterOpts{Name: "signal_proc_errors_total", Help: "erros por estágio"}, []string{"stage"})
	prometheus.MustRegister(consumed, allocated, errorsBy)

	proc := &consumer.Processor{
		Log:              log,
		Reader:           reader,
		State:            state.NewStore(rdb),
		Repo:             repo.NewPostgres(pg),
		Publ:             producer.NewKafkaPublisher(reportWriter, cfg.TopicAllocationReports),
		DLQ:              dlqWriter,
		StartingBankroll: cfg.StartingBankroll,

		OnConsumed:  func() { consumed.Inc() },
		OnAllocated: func(n int) { allocated.Add(float64(n)) },
		OnError:     func(stage string) { errorsBy.WithLabelValues(stage).Inc() },
	}

	// Servidor de métricas e health check
	metrics.StartMetricsServer(cfg.MetricsPort, func(ctx context.Context) error {
		if err := pg.PingContext(ctx); err != nil {
			return fmt.Errorf("pg: %w", err)
		}
		if err := rdb.Ping(ctx).Err(); err != nil {
			return fmt.Errorf("redis: %w", err)
		}
		return nil
	})
	log.Info("metrics/health listening", zap.String("addr", ":"+cfg.MetricsPort))

	// Sinalização para shutdown gracioso (SIGINT/SIGTERM)
	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	log.Info("signal-processor started")
	if err := proc.Run(ctx); err != nil && ctx.Err() == nil {
		log.Fatal("processor stopped with error", zap.Error(err))
	}
	log.Info("signal-processor stopped")
}
