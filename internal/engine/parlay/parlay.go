// Package parlay gera e filtra combinações multi-perna (parlays e teasers)
// com probabilidade conjunta ajustada por correlação.
package parlay

import (
	"errors"
	"sort"

	"github.com/radieske/sportsbook-risk-engine/pkg/domain"
)

const (
	// Piso de confiança assimétrico de propósito: o pool de 3 pernas
	// explode combinatorialmente, então exige menos por perna mas o
	// conjunto é filtrado por thresholds de EV mais altos.
	defaultMinConfidenceTwoLeg   = 65.0
	defaultMinConfidenceThreeLeg = 60.0

	defaultMaxResults = 20

	// Teto de stake como fração do bankroll, independente do EV.
	maxStakePctTwoLeg   = 0.01
	maxStakePctThreeLeg = 0.005
)

// ErrInvalidBankroll indica violação de contrato.
var ErrInvalidBankroll = errors.New("bankroll must be positive")

// Leg referencia o sinal de origem; nunca copia estado mutável.
type Leg struct {
	EventID     string  `json:"event_id"`
	Team        string  `json:"team"`
	Sport       string  `json:"sport"`
	League      string  `json:"league"`
	Probability float64 `json:"probability"`
	Odds        float64 `json:"odds"`
	Edge        float64 `json:"edge"`
}

// Combination é um parlay de 2 ou 3 pernas com EV e recomendação.
type Combination struct {
	Legs                []Leg   `json:"legs"`
	CombinedProbability float64 `json:"combined_probability"`
	CombinedOdds        float64 `json:"combined_odds"`
	ExpectedValue       float64 `json:"expected_value"`
	CorrelationPenalty  float64 `json:"correlation_penalty"`
	Recommendation      string  `json:"recommendation"` // strong | moderate | weak
	MaxStake            float64 `json:"max_stake"`
}

// Options controla a geração. Use DefaultOptions como base; o zero value de
// campos numéricos cai nos defaults, os booleanos valem como escritos.
type Options struct {
	MinConfidenceTwoLeg   float64
	MinConfidenceThreeLeg float64
	RequirePositiveEV     bool
	PrioritizeTwoLeg      bool
	MaxResults            int
}

// DefaultOptions devolve a configuração padrão do gerador.
func DefaultOptions() Options {
	return Options{
		MinConfidenceTwoLeg:   defaultMinConfidenceTwoLeg,
		MinConfidenceThreeLeg: defaultMinConfidenceThreeLeg,
		RequirePositiveEV:     true,
		PrioritizeTwoLeg:      true,
		MaxResults:            defaultMaxResults,
	}
}

func (o *Options) normalize() {
	if o.MinConfidenceTwoLeg <= 0 {
		o.MinConfidenceTwoLeg = defaultMinConfidenceTwoLeg
	}
	if o.MinConfidenceThreeLeg <= 0 {
		o.MinConfidenceThreeLeg = defaultMinConfidenceThreeLeg
	}
	if o.MaxResults <= 0 {
		o.MaxResults = defaultMaxResults
	}
}

// GenerateParlays monta todas as combinações elegíveis de 2 e 3 pernas,
// filtra por EV e devolve a lista ranqueada. Sinais "premium" nunca entram
// em parlay; sinais malformados são pulados individualmente.
func GenerateParlays(signals []domain.Signal, bankroll float64, opts Options) ([]Combination, error) {
	if bankroll <= 0 {
		return nil, ErrInvalidBankroll
	}
	opts.normalize()

	twoPool := eligible(signals, opts.MinConfidenceTwoLeg)
	threePool := eligible(signals, opts.MinConfidenceThreeLeg)

	var twos, threes []Combination
	for i := 0; i < len(twoPool); i++ {
		for j := i + 1; j < len(twoPool); j++ {
			if c, ok := build([]domain.Signal{twoPool[i], twoPool[j]}, bankroll, opts); ok {
				twos = append(twos, c)
			}
		}
	}
	for i := 0; i < len(threePool); i++ {
		for j := i + 1; j < len(threePool); j++ {
			for k := j + 1; k < len(threePool); k++ {
				if c, ok := build([]domain.Signal{threePool[i], threePool[j], threePool[k]}, bankroll, opts); ok {
					threes = append(threes, c)
				}
			}
		}
	}

	byEV := func(cs []Combination) func(i, j int) bool {
		return func(i, j int) bool { return cs[i].ExpectedValue > cs[j].ExpectedValue }
	}
	sort.SliceStable(twos, byEV(twos))
	sort.SliceStable(threes, byEV(threes))

	var out []Combination
	if opts.PrioritizeTwoLeg {
		out = append(out, twos...)
		out = append(out, threes...)
	} else {
		out = append(out, twos...)
		out = append(out, threes...)
		sort.SliceStable(out, byEV(out))
	}
	if len(out) > opts.MaxResults {
		out = out[:opts.MaxResults]
	}
	return out, nil
}

// eligible filtra o pool de pernas para um dado piso de confiança.
func eligible(signals []domain.Signal, minConfidence float64) []domain.Signal {
	var pool []domain.Signal
	for _, s := range signals {
		if !s.Valid() || s.Premium {
			continue
		}
		if s.Confidence < minConfidence {
			continue
		}
		pool = append(pool, s)
	}
	return pool
}

// build monta uma combinação; devolve ok=false quando reprovada no filtro de EV.
func build(legs []domain.Signal, bankroll float64, opts Options) (Combination, bool) {
	penalty := correlationPenalty(legs)

	prob := penalty
	odds := 1.0
	out := make([]Leg, len(legs))
	for i, l := range legs {
		prob *= l.ModelProb
		odds *= l.Odds
		out[i] = Leg{
			EventID:     l.EventID,
			Team:        l.Team,
			Sport:       string(l.Sport),
			League:      l.League,
			Probability: l.ModelProb,
			Odds:        l.Odds,
			Edge:        l.Edge(),
		}
	}

	ev := prob*odds - (1 - prob)
	if opts.RequirePositiveEV && ev <= 0 {
		return Combination{}, false
	}

	maxStakePct := maxStakePctTwoLeg
	if len(legs) == 3 {
		maxStakePct = maxStakePctThreeLeg
	}

	return Combination{
		Legs:                out,
		CombinedProbability: prob,
		CombinedOdds:        odds,
		ExpectedValue:       ev,
		CorrelationPenalty:  penalty,
		Recommendation:      recommendation(len(legs), ev),
		MaxStake:            bankroll * maxStakePct,
	}, true
}

// recommendation aplica os thresholds de EV por número de pernas.
func recommendation(legCount int, ev float64) string {
	if legCount == 3 {
		switch {
		case ev > 0.20:
			return "strong"
		case ev > 0.10:
			return "moderate"
		default:
			return "weak"
		}
	}
	switch {
	case ev > 0.15:
		return "strong"
	case ev > 0.08:
		return "moderate"
	default:
		return "weak"
	}
}
