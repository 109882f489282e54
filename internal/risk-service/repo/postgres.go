package repo

import (
	"context"
	"database/sql"

	"github.com/google/uuid"

	"github.com/radieske/sportsbook-risk-engine/internal/engine/allocator"
)

// Postgres implementa a persistência de relatórios de alocação
type Postgres struct{ db *sql.DB }

// NewPostgres retorna uma instância do repositório de alocações
func NewPostgres(db *sql.DB) *Postgres { return &Postgres{db: db} }

// InsertBatch grava o resumo do lote e uma linha por stake aceito,
// tudo numa transação só.
func (p *Postgres) InsertBatch(ctx context.Context, batchID, bookID string, rep *allocator.Report) error {
	tx, err := p.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, `
		INSERT INTO allocation_batches (id,book_id,accepted,total_allocated,exposure_percent,sharpe,value_at_risk)
		VALUES ($1,$2,$3,$4,$5,$6,$7)`,
		batchID, bookID, len(rep.Results), rep.TotalAllocated, rep.ExposurePercent,
		rep.Metrics.Sharpe, rep.Metrics.ValueAtRisk,
	); err != nil {
		return err
	}

	for _, r := range rep.Results {
		if _, err := tx.ExecContext(ctx, `
			INSERT INTO allocations (id,batch_id,event_id,league,venue,bet_type,stake,kelly_raw,kelly_adjusted,edge,expected_value,capped,cap_reason,risk_pct)
			VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12,$13,$14)`,
			uuid.NewString(), batchID, r.EventID, r.League, r.Venue, r.BetType,
			r.Stake, r.KellyRaw, r.KellyAdjusted, r.Edge, r.ExpectedValue,
			r.Capped, r.CapReason, r.RiskPct,
		); err != nil {
			return err
		}
	}

	return tx.Commit()
}

// GetBatchSummary retorna o resumo persistido de um lote pelo batchID
func (p *Postgres) GetBatchSummary(ctx context.Context, batchID string) (*BatchSummary, error) {
	var s BatchSummary
	err := p.db.QueryRowContext(ctx, `
		SELECT id,book_id,accepted,total_allocated,exposure_percent,sharpe,value_at_risk,created_at
		FROM allocation_batches WHERE id=$1`, batchID,
	).Scan(&s.BatchID, &s.BookID, &s.Accepted, &s.TotalAllocated, &s.ExposurePercent,
		&s.Sharpe, &s.ValueAtRisk, &s.CreatedAt)
	if err != nil {
		return nil, err
	}
	return &s, nil
}
