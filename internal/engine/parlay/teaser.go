package parlay

import (
	"sort"

	"github.com/radieske/sportsbook-risk-engine/pkg/domain"
)

// Boost de probabilidade por esporte e tamanho do teaser. Os pontos
// NFL 6 e NFL 10 ("sweetheart") são os âncoras calibrados; os demais
// interpolam monotonicamente.
var teaserBoost = map[domain.Sport]map[float64]float64{
	domain.SportNFL: {
		6:   0.07,
		6.5: 0.075,
		7:   0.08,
		10:  0.12,
	},
	domain.SportNBA: {
		4: 0.05,
		5: 0.06,
		6: 0.065,
	},
}

// Key numbers: margens de vitória desproporcionalmente comuns no placar
// final de cada esporte. Cruzar uma delas vale bônus fixo de +0.02.
var keyNumbers = map[domain.Sport][]float64{
	domain.SportNFL: {3, 4, 6, 7, 10},
	domain.SportNBA: {3, 4, 5, 6, 7},
}

const keyNumberBonus = 0.02

// Payout decimal de teaser 2 pernas por esporte/pontos (linha de mercado
// típica; teaser paga menos que o parlay correspondente).
var teaserPayout = map[domain.Sport]map[float64]float64{
	domain.SportNFL: {
		6:   1.91,
		6.5: 1.83,
		7:   1.77,
		10:  1.67,
	},
	domain.SportNBA: {
		4: 1.91,
		5: 1.83,
		6: 1.77,
	},
}

// TeaserOpportunity é um teaser de 2 pernas avaliado.
type TeaserOpportunity struct {
	Legs                []Leg   `json:"legs"`
	Points              float64 `json:"points"`
	CombinedProbability float64 `json:"combined_probability"`
	CombinedOdds        float64 `json:"combined_odds"`
	ExpectedValue       float64 `json:"expected_value"`
	CorrelationPenalty  float64 `json:"correlation_penalty"`
	KeyNumberCapture    bool    `json:"key_number_capture"`
	Recommendation      string  `json:"recommendation"` // play | pass
	MaxStake            float64 `json:"max_stake"`
}

// TeaserOptions controla a análise de teasers.
type TeaserOptions struct {
	Points        float64 // tamanho do teaser em pontos (default 6)
	MinConfidence float64 // piso de confiança por perna (default 60)
	MaxResults    int
}

func (o *TeaserOptions) normalize() {
	if o.Points <= 0 {
		o.Points = 6
	}
	if o.MinConfidence <= 0 {
		o.MinConfidence = defaultMinConfidenceThreeLeg
	}
	if o.MaxResults <= 0 {
		o.MaxResults = defaultMaxResults
	}
}

// AnalyzeTeasers avalia pares de pernas teased pelo tamanho configurado.
// "play" exige EV acima de 5% E key number cruzado; só uma das condições
// não basta.
func AnalyzeTeasers(signals []domain.Signal, bankroll float64, opts TeaserOptions) ([]TeaserOpportunity, error) {
	if bankroll <= 0 {
		return nil, ErrInvalidBankroll
	}
	opts.normalize()

	var pool []domain.Signal
	for _, s := range signals {
		if !s.Valid() || s.Premium {
			continue
		}
		if s.Confidence < opts.MinConfidence {
			continue
		}
		// Teaser só faz sentido para esportes com tabela de boost.
		if _, ok := teaserBoost[s.Sport][opts.Points]; !ok {
			continue
		}
		pool = append(pool, s)
	}

	var out []TeaserOpportunity
	for i := 0; i < len(pool); i++ {
		for j := i + 1; j < len(pool); j++ {
			// Teaser é sempre dentro do mesmo esporte (payout único).
			if pool[i].Sport != pool[j].Sport {
				continue
			}
			out = append(out, buildTeaser([]domain.Signal{pool[i], pool[j]}, bankroll, opts))
		}
	}

	sort.SliceStable(out, func(i, j int) bool {
		return out[i].ExpectedValue > out[j].ExpectedValue
	})
	if len(out) > opts.MaxResults {
		out = out[:opts.MaxResults]
	}
	return out, nil
}

func buildTeaser(legs []domain.Signal, bankroll float64, opts TeaserOptions) TeaserOpportunity {
	penalty := correlationPenalty(legs)

	prob := penalty
	captured := false
	out := make([]Leg, len(legs))
	for i, l := range legs {
		boosted := l.ModelProb + teaserBoost[l.Sport][opts.Points]
		if CrossesKeyNumber(l.Sport, l.Spread, opts.Points) {
			boosted += keyNumberBonus
			captured = true
		}
		if boosted > 0.99 {
			boosted = 0.99
		}
		prob *= boosted
		out[i] = Leg{
			EventID:     l.EventID,
			Team:        l.Team,
			Sport:       string(l.Sport),
			League:      l.League,
			Probability: boosted,
			Odds:        l.Odds,
			Edge:        l.Edge(),
		}
	}

	odds := teaserPayout[legs[0].Sport][opts.Points]
	ev := prob*odds - (1 - prob)

	rec := "pass"
	if ev > 0.05 && captured {
		rec = "play"
	}

	return TeaserOpportunity{
		Legs:                out,
		Points:              opts.Points,
		CombinedProbability: prob,
		CombinedOdds:        odds,
		ExpectedValue:       ev,
		CorrelationPenalty:  penalty,
		KeyNumberCapture:    captured,
		Recommendation:      rec,
		MaxStake:            bankroll * maxStakePctTwoLeg,
	}
}

// CrossesKeyNumber verifica se mover a linha em favor do apostador faz o
// spread efetivo atravessar algum key number do esporte (nos dois sinais
// da reta: +k e -k).
func CrossesKeyNumber(sport domain.Sport, spread, points float64) bool {
	keys, ok := keyNumbers[sport]
	if !ok {
		return false
	}
	lo := spread
	hi := spread + points
	if lo > hi {
		lo, hi = hi, lo
	}
	for _, k := range keys {
		if lo < k && k <= hi {
			return true
		}
		if lo <= -k && -k < hi {
			return true
		}
	}
	return false
}
