package domain

// BetType classifica a aposta para as tabelas de multiplicador e caps por tipo.
// Tipos fechados: o allocator faz switch exaustivo sobre eles.
type BetType string

const (
	BetSingle           BetType = "single"
	BetParlay           BetType = "parlay"
	BetTeaser           BetType = "teaser"
	BetKalshiSingle     BetType = "kalshi_single"
	BetPolymarketSingle BetType = "polymarket_single"
)

// Venue identifica a casa/mercado onde a aposta seria colocada.
type Venue string

const (
	VenueSportsbook Venue = "sportsbook"
	VenueKalshi     Venue = "kalshi"
	VenuePolymarket Venue = "polymarket"
)

// Sport é usado pelo gerador de combinações (correlação e key numbers de teaser).
type Sport string

const (
	SportNFL Sport = "NFL"
	SportNBA Sport = "NBA"
	SportMLB Sport = "MLB"
	SportNHL Sport = "NHL"
)

// Signal é um candidato a aposta produzido pela camada de modelos.
// Entrada pura: nenhum componente do engine modifica um Signal.
type Signal struct {
	EventID          string  `json:"event_id"`
	Team             string  `json:"team"`
	Sport            Sport   `json:"sport"`
	League           string  `json:"league"`
	Venue            Venue   `json:"venue"`
	ModelProb        float64 `json:"model_prob"`  // probabilidade estimada pelo modelo (0-1)
	MarketProb       float64 `json:"market_prob"` // probabilidade implícita na odd de mercado (0-1)
	Odds             float64 `json:"odds"`        // odd decimal (>= 1)
	Confidence       float64 `json:"confidence"`  // score 0-100
	Liquidity        float64 `json:"liquidity,omitempty"`
	CorrelationGroup string  `json:"correlation_group,omitempty"`
	Type             BetType `json:"type,omitempty"`
	Premium          bool    `json:"premium,omitempty"`
	Spread           float64 `json:"spread,omitempty"` // linha original (ex.: -2.5); usada na análise de teaser
}

// Edge retorna a vantagem do modelo sobre o mercado.
func (s Signal) Edge() float64 {
	return s.ModelProb - s.MarketProb
}

// ExpectedValue retorna o EV por unidade apostada.
func (s Signal) ExpectedValue() float64 {
	return s.ModelProb*(s.Odds-1) - (1 - s.ModelProb)
}

// Valid indica se o sinal tem dados mínimos para ser processado.
// Sinais inválidos são pulados individualmente, nunca abortam o lote.
func (s Signal) Valid() bool {
	if s.EventID == "" {
		return false
	}
	if s.ModelProb <= 0 || s.ModelProb >= 1 {
		return false
	}
	if s.MarketProb < 0 || s.MarketProb > 1 {
		return false
	}
	return s.Odds >= 1
}

// NormalizedType devolve o tipo efetivo (default: single).
func (s Signal) NormalizedType() BetType {
	if s.Type == "" {
		return BetSingle
	}
	return s.Type
}
