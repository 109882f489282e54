package events

import "github.com/radieske/sportsbook-risk-engine/pkg/domain"

// Evento publicado no tópico "signal_batches".
// BookID identifica o portfólio contra o qual o lote deve ser alocado.
type SignalBatch struct {
	BatchID  string          `json:"batch_id"`
	BookID   string          `json:"book_id"`
	Signals  []domain.Signal `json:"signals"`
	Source   string          `json:"source"` // ex.: "signal-simulator"
	TsUnixMs int64           `json:"ts_unix_ms"`
}
