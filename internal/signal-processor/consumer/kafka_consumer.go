package consumer

import (
	"context"
	"encoding/json"
	"time"

	"github.com/google/uuid"
	"github.com/segmentio/kafka-go"
	"go.uber.org/zap"

	"github.com/radieske/sportsbook-risk-engine/internal/engine/allocator"
	"github.com/radieske/sportsbook-risk-engine/internal/risk-service/repo"
	"github.com/radieske/sportsbook-risk-engine/internal/risk-service/state"
	"github.com/radieske/sportsbook-risk-engine/pkg/contracts/events"
)

// Publisher publica o relatório de alocação de um lote processado.
type Publisher interface {
	PublishAllocationReport(ctx context.Context, e events.AllocationReport) error
}

// Processor consome lotes de sinais do Kafka, roda o allocator contra o
// estado do book e persiste estado + resultados.
// Callbacks de métricas podem ser usadas para monitoramento de cada etapa.
type Processor struct {
	Log    *zap.Logger
	Reader *kafka.Reader
	State  *state.Store
	Repo   *repo.Postgres
	Publ   Publisher
	DLQ    *kafka.Writer // mensagens indecodificáveis

	StartingBankroll float64

	OnConsumed  func()       // métricas (counter++)
	OnAllocated func(int)    // métricas (stakes aceitos no lote)
	OnError     func(string) // métricas por fase
}

// Run inicia o loop principal de consumo e alocação dos lotes.
// Lote malformado vai pra DLQ e o loop segue; só cancelamento encerra.
func (p *Processor) Run(ctx context.Context) error {
	for {
		m, err := p.Reader.ReadMessage(ctx)
		if err != nil {
			if ctx.Err() != nil {
				return ctx.Err() // encerra se o contexto for cancelado
			}
			p.Log.Warn("kafka read failed", zap.Error(err))
			if p.OnError != nil {
				p.OnError("read")
			}
			time.Sleep(500 * time.Millisecond)
			continue
		}

		if p.OnConsumed != nil {
			p.OnConsumed() // callback de métrica: mensagem consumida
		}

		var batch events.SignalBatch
		if err := json.Unmarshal(m.Value, &batch); err != nil {
			p.Log.Warn("invalid message", zap.Error(err))
			if p.OnError != nil {
				p.OnError("decode")
			}
			p.toDLQ(ctx, m.Value)
			continue
		}
		if batch.BatchID == "" {
			batch.BatchID = uuid.NewString()
		}

		// Carrega o estado do book e roda o pass de alocação
		st, err := p.State.Load(ctx, batch.BookID, p.StartingBankroll)
		if err != nil {
			p.Log.Warn("state load failed", zap.String("book_id", batch.BookID), zap.Error(err))
			if p.OnError != nil {
				p.OnError("state_load")
			}
			continue
		}

		rep, err := allocator.Allocate(batch.Signals, st)
		if err != nil {
			// violação de contrato (ex.: bankroll zerado): lote inteiro rejeitado
			p.Log.Warn("allocation rejected", zap.String("batch_id", batch.BatchID), zap.Error(err))
			if p.OnError != nil {
				p.OnError("allocate")
			}
			continue
		}

		// Persiste estado mutado; sem isso o próximo lote realocaria a mesma exposição
		if err := p.State.Save(ctx, batch.BookID, st); err != nil {
			p.Log.Warn("state save failed", zap.Error(err))
			if p.OnError != nil {
				p.OnError("state_save")
			}
			continue
		}

		if err := p.Repo.InsertBatch(ctx, batch.BatchID, batch.BookID, rep); err != nil {
			p.Log.Warn("db insert failed", zap.Error(err))
			if p.OnError != nil {
				p.OnError("db_insert")
			}
			continue
		}

		if p.OnAllocated != nil {
			p.OnAllocated(len(rep.Results)) // callback de métrica: lote alocado
		}

		report := events.AllocationReport{
			BatchID:         batch.BatchID,
			BookID:          batch.BookID,
			Accepted:        len(rep.Results),
			Rejected:        len(batch.Signals) - len(rep.Results),
			TotalAllocated:  rep.TotalAllocated,
			ExposurePercent: rep.ExposurePercent,
			Sharpe:          rep.Metrics.Sharpe,
			ValueAtRisk:     rep.Metrics.ValueAtRisk,
		}
		if err := p.Publ.PublishAllocationReport(ctx, report); err != nil {
			p.Log.Warn("report publish failed", zap.Error(err))
			if p.OnError != nil {
				p.OnError("publish")
			}
		}
	}
}

// toDLQ manda o payload original pra fila morta; falha aqui só loga.
func (p *Processor) toDLQ(ctx context.Context, payload []byte) {
	if p.DLQ == nil {
		return
	}
	wctx, cancel := context.WithTimeout(ctx, 2*time.Second)
	defer cancel()
	if err := p.DLQ.WriteMessages(wctx, kafka.Message{Value: payload, Time: time.Now()}); err != nil {
		p.Log.Warn("dlq write failed", zap.Error(err))
	}
}
