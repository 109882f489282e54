package montecarlo

// PathPoint é um ponto do caminho de equity retido para gráfico.
type PathPoint struct {
	TradeIndex int     `json:"trade_index"`
	Bankroll   float64 `json:"bankroll"`
}

// Percentiles nomeados da distribuição de bankroll final.
type Percentiles struct {
	P5  float64 `json:"p5"`
	P10 float64 `json:"p10"`
	P25 float64 `json:"p25"`
	P50 float64 `json:"p50"`
	P75 float64 `json:"p75"`
	P90 float64 `json:"p90"`
	P95 float64 `json:"p95"`
}

// Results agrega as estatísticas de todos os runs.
// Calculado do zero a cada chamada; nunca mutado depois de retornado.
type Results struct {
	Runs           int       `json:"runs"`
	FinalBankrolls []float64 `json:"final_bankrolls"` // ordenado ascendente
	Mean           float64   `json:"mean"`
	Median         float64   `json:"median"`
	StdDev         float64   `json:"std_dev"`

	Percentiles Percentiles `json:"percentiles"`

	RuinProbability         float64 `json:"ruin_probability"`
	ProfitProbability       float64 `json:"profit_probability"`
	TargetReturnProbability float64 `json:"target_return_probability"`

	ExpectedMaxDrawdown float64 `json:"expected_max_drawdown"`
	P95MaxDrawdown      float64 `json:"p95_max_drawdown"`

	Sharpe  float64 `json:"sharpe"`
	Sortino float64 `json:"sortino"`
	WinRate float64 `json:"win_rate"`

	SamplePaths [][]PathPoint `json:"sample_paths,omitempty"`
}
