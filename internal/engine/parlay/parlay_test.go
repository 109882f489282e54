package parlay

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/radieske/sportsbook-risk-engine/pkg/domain"
)

func leg(event, league string, sport domain.Sport, prob, odds, confidence float64) domain.Signal {
	return domain.Signal{
		EventID:    event,
		League:     league,
		Sport:      sport,
		Venue:      domain.VenueSportsbook,
		ModelProb:  prob,
		MarketProb: prob - 0.05,
		Odds:       odds,
		Confidence: confidence,
	}
}

func TestPairCorrelation_Lookup(t *testing.T) {
	a := leg("EV1", "NFL", domain.SportNFL, 0.6, 1.8, 70)

	sameEvent := leg("EV1", "NFL", domain.SportNFL, 0.6, 1.8, 70)
	sameLeague := leg("EV2", "NFL", domain.SportNFL, 0.6, 1.8, 70)
	sameSport := leg("EV3", "NCAAF", domain.SportNFL, 0.6, 1.8, 70)
	unrelated := leg("EV4", "NBA", domain.SportNBA, 0.6, 1.8, 70)

	assert.Equal(t, 0.30, pairCorrelation(a, sameEvent))
	assert.Equal(t, 0.15, pairCorrelation(a, sameLeague))
	assert.Equal(t, 0.08, pairCorrelation(a, sameSport))
	assert.Equal(t, 0.02, pairCorrelation(a, unrelated))
}

func TestGenerateParlays_ExactArithmetic(t *testing.T) {
	// cenário de referência: duas pernas 0.6 @ 1.8 no mesmo evento
	signals := []domain.Signal{
		leg("EV1", "NFL", domain.SportNFL, 0.6, 1.8, 70),
		leg("EV1", "NFL", domain.SportNFL, 0.6, 1.8, 70),
	}

	combos, err := GenerateParlays(signals, 10_000, DefaultOptions())
	require.NoError(t, err)
	require.Len(t, combos, 1)

	c := combos[0]
	assert.InDelta(t, 0.7, c.CorrelationPenalty, 1e-12)      // 1 - 0.30
	assert.InDelta(t, 0.252, c.CombinedProbability, 1e-12)   // 0.6*0.6*0.7
	assert.InDelta(t, 3.24, c.CombinedOdds, 1e-12)           // 1.8*1.8
	assert.InDelta(t, 0.06848, c.ExpectedValue, 1e-9)        // 0.252*3.24 - 0.748
	assert.Equal(t, "weak", c.Recommendation)                // 2 pernas, EV <= 0.08
	assert.InDelta(t, 100, c.MaxStake, 1e-9)                 // 1% do bankroll
}

func TestGenerateParlays_InvalidBankroll(t *testing.T) {
	_, err := GenerateParlays(nil, 0, DefaultOptions())
	assert.ErrorIs(t, err, ErrInvalidBankroll)

	_, err = GenerateParlays(nil, -100, DefaultOptions())
	assert.ErrorIs(t, err, ErrInvalidBankroll)
}

func TestGenerateParlays_ExcludesPremium(t *testing.T) {
	a := leg("EV1", "NFL", domain.SportNFL, 0.65, 1.9, 70)
	b := leg("EV2", "NBA", domain.SportNBA, 0.65, 1.9, 70)
	b.Premium = true

	combos, err := GenerateParlays([]domain.Signal{a, b}, 10_000, DefaultOptions())
	require.NoError(t, err)
	assert.Empty(t, combos) // sobrou uma perna só
}

func TestGenerateParlays_AsymmetricConfidenceFloors(t *testing.T) {
	// perna com confiança 62 entra no pool de 3 pernas mas não no de 2
	signals := []domain.Signal{
		leg("EV1", "NFL", domain.SportNFL, 0.65, 1.9, 70),
		leg("EV2", "NBA", domain.SportNBA, 0.65, 1.9, 70),
		leg("EV3", "MLB", domain.SportMLB, 0.65, 1.9, 62),
	}

	combos, err := GenerateParlays(signals, 10_000, DefaultOptions())
	require.NoError(t, err)
	require.Len(t, combos, 2)

	// 2 pernas primeiro (prioridade default), depois a combinação de 3
	assert.Len(t, combos[0].Legs, 2)
	assert.Len(t, combos[1].Legs, 3)
	assert.InDelta(t, 50, combos[1].MaxStake, 1e-9) // 0.5% pra 3 pernas
}

func TestGenerateParlays_RequirePositiveEV(t *testing.T) {
	// pernas fracas: EV conjunto negativo
	signals := []domain.Signal{
		leg("EV1", "NFL", domain.SportNFL, 0.50, 1.5, 70),
		leg("EV2", "NBA", domain.SportNBA, 0.50, 1.5, 70),
	}

	combos, err := GenerateParlays(signals, 10_000, DefaultOptions())
	require.NoError(t, err)
	assert.Empty(t, combos)

	opts := DefaultOptions()
	opts.RequirePositiveEV = false
	combos, err = GenerateParlays(signals, 10_000, opts)
	require.NoError(t, err)
	require.Len(t, combos, 1)
	assert.Negative(t, combos[0].ExpectedValue)
	assert.Equal(t, "weak", combos[0].Recommendation)
}

func TestGenerateParlays_SkipsMalformedSignal(t *testing.T) {
	bad := leg("EV1", "NFL", domain.SportNFL, 1.3, 1.9, 70) // prob inválida
	a := leg("EV2", "NBA", domain.SportNBA, 0.65, 1.9, 70)
	b := leg("EV3", "MLB", domain.SportMLB, 0.65, 1.9, 70)

	combos, err := GenerateParlays([]domain.Signal{bad, a, b}, 10_000, DefaultOptions())
	require.NoError(t, err)
	require.Len(t, combos, 1)
	for _, l := range combos[0].Legs {
		assert.NotEqual(t, "EV1", l.EventID)
	}
}

func TestGenerateParlays_RankedAndCapped(t *testing.T) {
	signals := []domain.Signal{
		leg("EV1", "NFL", domain.SportNFL, 0.70, 1.9, 70),
		leg("EV2", "NBA", domain.SportNBA, 0.65, 1.9, 70),
		leg("EV3", "MLB", domain.SportMLB, 0.62, 1.9, 70),
		leg("EV4", "NHL", domain.SportNHL, 0.60, 1.9, 70),
	}

	opts := DefaultOptions()
	opts.MaxResults = 3
	combos, err := GenerateParlays(signals, 10_000, opts)
	require.NoError(t, err)
	assert.Len(t, combos, 3)

	// dentro do grupo de 2 pernas, EV decrescente
	for i := 1; i < len(combos); i++ {
		if len(combos[i-1].Legs) == 2 && len(combos[i].Legs) == 2 {
			assert.GreaterOrEqual(t, combos[i-1].ExpectedValue, combos[i].ExpectedValue)
		}
	}
}

func TestRecommendationTiers(t *testing.T) {
	// thresholds mais altos pra 3 pernas, de propósito
	assert.Equal(t, "strong", recommendation(2, 0.16))
	assert.Equal(t, "moderate", recommendation(2, 0.10))
	assert.Equal(t, "weak", recommendation(2, 0.05))
	assert.Equal(t, "moderate", recommendation(3, 0.16))
	assert.Equal(t, "strong", recommendation(3, 0.21))
	assert.Equal(t, "weak", recommendation(3, 0.05))
}
