package repo

import "time"

// BatchSummary é o resumo persistido de um pass de alocação.
type BatchSummary struct {
	BatchID         string
	BookID          string
	Accepted        int
	TotalAllocated  float64
	ExposurePercent float64
	Sharpe          float64
	ValueAtRisk     float64
	CreatedAt       time.Time
}
