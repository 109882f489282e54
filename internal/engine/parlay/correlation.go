package parlay

import "github.com/radieske/sportsbook-risk-engine/pkg/domain"

// Correlação pareada é lookup fixo, não estatística computada.
const (
	corrSameEvent  = 0.30
	corrSameLeague = 0.15
	corrSameSport  = 0.08
	corrBaseline   = 0.02
)

// pairCorrelation devolve a correlação assumida entre duas pernas.
func pairCorrelation(a, b domain.Signal) float64 {
	switch {
	case a.EventID == b.EventID:
		return corrSameEvent
	case a.League == b.League:
		return corrSameLeague
	case a.Sport == b.Sport:
		return corrSameSport
	default:
		return corrBaseline
	}
}

// correlationPenalty devolve o fator multiplicativo 1 - correlação média
// sobre todos os pares de pernas. Para 2 pernas é 1 - corr do único par.
func correlationPenalty(legs []domain.Signal) float64 {
	if len(legs) < 2 {
		return 1.0
	}
	sum := 0.0
	pairs := 0
	for i := 0; i < len(legs); i++ {
		for j := i + 1; j < len(legs); j++ {
			sum += pairCorrelation(legs[i], legs[j])
			pairs++
		}
	}
	return 1 - sum/float64(pairs)
}
