package parlay

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/radieske/sportsbook-risk-engine/pkg/domain"
)

func teaserLeg(event string, sport domain.Sport, league string, prob, spread float64) domain.Signal {
	return domain.Signal{
		EventID:    event,
		League:     league,
		Sport:      sport,
		Venue:      domain.VenueSportsbook,
		ModelProb:  prob,
		MarketProb: prob - 0.05,
		Odds:       1.91,
		Confidence: 70,
		Spread:     spread,
	}
}

func TestCrossesKeyNumber(t *testing.T) {
	// -2.5 teased em 6 pontos vira +3.5 e atravessa o key number 3
	assert.True(t, CrossesKeyNumber(domain.SportNFL, -2.5, 6))

	// +10.5 vira +16.5: nenhum key number da NFL no caminho
	assert.False(t, CrossesKeyNumber(domain.SportNFL, 10.5, 6))

	// -7.5 vira -1.5: atravessa -7, -6, -4 e -3
	assert.True(t, CrossesKeyNumber(domain.SportNFL, -7.5, 6))

	// esporte sem tabela de key numbers nunca captura
	assert.False(t, CrossesKeyNumber(domain.SportMLB, -2.5, 6))
}

func TestAnalyzeTeasers_PlayNeedsEVAndKeyNumber(t *testing.T) {
	// captura + EV alto => play
	strong, err := AnalyzeTeasers([]domain.Signal{
		teaserLeg("EV1", domain.SportNFL, "NFL", 0.62, -2.5),
		teaserLeg("EV2", domain.SportNFL, "NFL", 0.62, -2.5),
	}, 10_000, TeaserOptions{})
	require.NoError(t, err)
	require.Len(t, strong, 1)
	assert.True(t, strong[0].KeyNumberCapture)
	assert.Greater(t, strong[0].ExpectedValue, 0.05)
	assert.Equal(t, "play", strong[0].Recommendation)

	// EV alto sem captura de key number => pass
	noCapture, err := AnalyzeTeasers([]domain.Signal{
		teaserLeg("EV1", domain.SportNFL, "NFL", 0.62, 10.5),
		teaserLeg("EV2", domain.SportNFL, "NFL", 0.62, 10.5),
	}, 10_000, TeaserOptions{})
	require.NoError(t, err)
	require.Len(t, noCapture, 1)
	assert.False(t, noCapture[0].KeyNumberCapture)
	assert.Greater(t, noCapture[0].ExpectedValue, 0.05)
	assert.Equal(t, "pass", noCapture[0].Recommendation)

	// captura com EV baixo => pass
	lowEV, err := AnalyzeTeasers([]domain.Signal{
		teaserLeg("EV1", domain.SportNFL, "NFL", 0.55, -2.5),
		teaserLeg("EV2", domain.SportNFL, "NFL", 0.55, -2.5),
	}, 10_000, TeaserOptions{})
	require.NoError(t, err)
	require.Len(t, lowEV, 1)
	assert.True(t, lowEV[0].KeyNumberCapture)
	assert.Less(t, lowEV[0].ExpectedValue, 0.05)
	assert.Equal(t, "pass", lowEV[0].Recommendation)
}

func TestAnalyzeTeasers_BoostArithmetic(t *testing.T) {
	opps, err := AnalyzeTeasers([]domain.Signal{
		teaserLeg("EV1", domain.SportNFL, "NFL", 0.62, -2.5),
		teaserLeg("EV2", domain.SportNFL, "NFL", 0.62, -2.5),
	}, 10_000, TeaserOptions{Points: 6})
	require.NoError(t, err)
	require.Len(t, opps, 1)

	o := opps[0]
	// boost NFL 6pt +0.07, bônus de key number +0.02 => 0.71 por perna
	for _, l := range o.Legs {
		assert.InDelta(t, 0.71, l.Probability, 1e-12)
	}
	// mesma liga: penalidade 1 - 0.15
	assert.InDelta(t, 0.85, o.CorrelationPenalty, 1e-12)
	assert.InDelta(t, 0.71*0.71*0.85, o.CombinedProbability, 1e-12)
	assert.InDelta(t, 1.91, o.CombinedOdds, 1e-12)
	assert.InDelta(t, 100, o.MaxStake, 1e-9) // 1% do bankroll
}

func TestAnalyzeTeasers_SweetheartBoost(t *testing.T) {
	// NFL 10 pontos ("sweetheart"): boost +0.12
	opps, err := AnalyzeTeasers([]domain.Signal{
		teaserLeg("EV1", domain.SportNFL, "NFL", 0.55, 10.5), // sem captura
		teaserLeg("EV2", domain.SportNFL, "NFL", 0.55, 10.5),
	}, 10_000, TeaserOptions{Points: 10})
	require.NoError(t, err)
	require.Len(t, opps, 1)

	for _, l := range opps[0].Legs {
		assert.InDelta(t, 0.67, l.Probability, 1e-12)
	}
	assert.False(t, opps[0].KeyNumberCapture)
}

func TestAnalyzeTeasers_PoolFiltering(t *testing.T) {
	// esportes diferentes não pareiam; esporte sem tabela de boost sai do pool
	opps, err := AnalyzeTeasers([]domain.Signal{
		teaserLeg("EV1", domain.SportNFL, "NFL", 0.62, -2.5),
		teaserLeg("EV2", domain.SportNBA, "NBA", 0.62, -2.5),
		teaserLeg("EV3", domain.SportMLB, "MLB", 0.62, -2.5),
	}, 10_000, TeaserOptions{Points: 6})
	require.NoError(t, err)
	assert.Empty(t, opps)
}

func TestAnalyzeTeasers_InvalidBankroll(t *testing.T) {
	_, err := AnalyzeTeasers(nil, 0, TeaserOptions{})
	assert.ErrorIs(t, err, ErrInvalidBankroll)
}
