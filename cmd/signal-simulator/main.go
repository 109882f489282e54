package main

import (
	"context"
	"encoding/json"
	"math/rand"
	"os/signal"
	"syscall"
	"time"

	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus"
	"go.uber.org/zap"

	"github.com/radieske/sportsbook-risk-engine/internal/shared/config"
	sharedkafka "github.com/radieske/sportsbook-risk-engine/internal/shared/kafka"
	"github.com/radieske/sportsbook-risk-engine/internal/shared/logger"
	"github.com/radieske/sportsbook-risk-engine/internal/shared/metrics"
	"github.com/radieske/sportsbook-risk-engine/pkg/contracts/events"
	"github.com/radieske/sportsbook-risk-engine/pkg/domain"
)

// Catálogo fixo de eventos simulados para geração de sinais
var eventCatalog = []domain.Signal{
	{EventID: "NFL_001", Team: "Chiefs", Sport: domain.SportNFL, League: "NFL", Venue: domain.VenueSportsbook, Spread: -2.5},
	{EventID: "NFL_002", Team: "Eagles", Sport: domain.SportNFL, League: "NFL", Venue: domain.VenueSportsbook, Spread: -6.5},
	{EventID: "NBA_001", Team: "Celtics", Sport: domain.SportNBA, League: "NBA", Venue: domain.VenueSportsbook, Spread: -4.5},
	{EventID: "NBA_002", Team: "Nuggets", Sport: domain.SportNBA, League: "NBA", Venue: domain.VenueKalshi, Type: domain.BetKalshiSingle, Spread: -1.5},
	{EventID: "MLB_001", Team: "Dodgers", Sport: domain.SportMLB, League: "MLB", Venue: domain.VenuePolymarket, Type: domain.BetPolymarketSingle},
}

// Métricas Prometheus do feed sintético
var (
	batchesSent = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "signal_sim_batches_sent_total",
		Help: "Lotes de sinais publicados",
	})
	signalsSent = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "signal_sim_signals_sent_total",
		Help: "Sinais publicados",
	})
)

// gera número aleatório entre min e max
func rnd(min, max float64) float64 {
	return (rand.Float64() * (max - min)) + min
}

func main() {
	cfg := config.Load()
	log, err := logger.New(cfg.ServiceName, cfg.Env)
	if err != nil {
		panic(err)
	}
	defer log.Sync()

	prometheus.MustRegister(batchesSent, signalsSent)

	writer := sharedkafka.NewWriter(cfg.KafkaBrokers, cfg.TopicSignalBatches)
	defer writer.Close()

	metrics.StartMetricsServer(cfg.MetricsPort, nil)
	log.Info("signal simulator (metrics) running", zap.String("addr", ":"+cfg.MetricsPort))

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	// Gera e publica um lote sintético a cada 5 segundos
	ticker := time.NewTicker(5 * time.Second)
	defer ticker.Stop()

	log.Info("signal simulator started", zap.String("topic", cfg.TopicSignalBatches))
	for {
		select {
		case <-ctx.Done():
			log.Info("signal simulator stopped")
			return
		case <-ticker.C:
			batch := events.SignalBatch{
				BatchID:  uuid.NewString(),
				BookID:   cfg.DefaultBookID,
				Source:   cfg.ServiceName,
				TsUnixMs: time.Now().UnixMilli(),
			}
			for _, base := range eventCatalog {
				s := base
				s.MarketProb = rnd(0.35, 0.60)
				// edge sintético: modelo entre -3 e +8 pontos percentuais do mercado
				s.ModelProb = s.MarketProb + rnd(-0.03, 0.08)
				s.Odds = 1 / s.MarketProb * rnd(0.93, 0.97) // odd com vig
				s.Confidence = rnd(50, 90)
				s.Liquidity = rnd(10_000, 150_000)
				batch.Signals = append(batch.Signals, s)
			}

			b, _ := json.Marshal(batch)
			wctx, wcancel := context.WithTimeout(ctx, 2*time.Second)
			err := sharedkafka.WriteJSON(wctx, writer, batch.BookID, b)
			wcancel()
			if err != nil {
				log.Warn("batch publish failed", zap.Error(err))
				continue
			}
			batchesSent.Inc()
			signalsSent.Add(float64(len(batch.Signals)))
			log.Debug("batch published", zap.String("batch_id", batch.BatchID), zap.Int("signals", len(batch.Signals)))
		}
	}
}
