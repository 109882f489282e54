package allocator

// AllocationResult é o stake dimensionado para um sinal aceito.
// Criado uma vez por pass e imutável depois de retornado.
type AllocationResult struct {
	EventID          string  `json:"event_id"`
	League           string  `json:"league"`
	Venue            string  `json:"venue"`
	BetType          string  `json:"bet_type"`
	Stake            float64 `json:"stake"`
	KellyRaw         float64 `json:"kelly_raw"`      // full Kelly antes dos ajustes
	KellyAdjusted    float64 `json:"kelly_adjusted"` // fração efetiva após a cadeia de multiplicadores
	Edge             float64 `json:"edge"`
	ExpectedValue    float64 `json:"expected_value"` // EV por unidade de stake
	Capped           bool    `json:"capped"`
	CapReason        string  `json:"cap_reason,omitempty"` // primeiro cap que apertou
	RiskPct          float64 `json:"risk_pct"`             // stake como % do bankroll
	LiquidityReduced bool    `json:"liquidity_reduced"`
	CorrelationHit   bool    `json:"correlation_hit"`
}

// RiskMetrics agrega o risco do pass inteiro.
type RiskMetrics struct {
	Sharpe          float64 `json:"sharpe"`
	Diversification float64 `json:"diversification"` // 0-100
	ValueAtRisk     float64 `json:"value_at_risk"`
	TotalEV         float64 `json:"total_ev"` // Σ ev*stake
}

// Report é o retorno completo de um pass de alocação.
// Results vem ordenado por EV decrescente.
type Report struct {
	Results           []AllocationResult `json:"results"`
	TotalAllocated    float64            `json:"total_allocated"`
	RemainingBankroll float64            `json:"remaining_bankroll"`
	ExposurePercent   float64            `json:"exposure_percent"`
	Metrics           RiskMetrics        `json:"metrics"`
}
