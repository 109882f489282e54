package events

// Evento emitido pelo signal-processor-worker após alocar um lote.
type AllocationReport struct {
	BatchID         string  `json:"batch_id"`
	BookID          string  `json:"book_id"`
	Accepted        int     `json:"accepted"`
	Rejected        int     `json:"rejected"`
	TotalAllocated  float64 `json:"total_allocated"`
	ExposurePercent float64 `json:"exposure_percent"`
	Sharpe          float64 `json:"sharpe"`
	ValueAtRisk     float64 `json:"value_at_risk"`
	TsUnixMs        int64   `json:"ts_unix_ms"`
}
