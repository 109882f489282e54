package allocator

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/radieske/sportsbook-risk-engine/pkg/domain"
)

func TestPortfolioState_CloneIsIndependent(t *testing.T) {
	st := NewPortfolioState(10_000)
	st.ExposureByEvent["EV1"] = 500
	st.ExposureByVenue[domain.VenueSportsbook] = 500
	st.TotalExposure = 500

	c := st.Clone()
	c.ExposureByEvent["EV1"] = 900
	c.ExposureByVenue[domain.VenueKalshi] = 100

	assert.Equal(t, 500.0, st.ExposureByEvent["EV1"])
	assert.NotContains(t, st.ExposureByVenue, domain.VenueKalshi)
}

func TestPortfolioState_RefreshDrawdown(t *testing.T) {
	st := NewPortfolioState(10_000)
	st.Bankroll = 8_500
	st.RefreshDrawdown()
	assert.InDelta(t, 0.15, st.CurrentDrawdown, 1e-9)

	// bankroll acima do peak re-ancora o peak e zera o drawdown
	st.Bankroll = 12_000
	st.RefreshDrawdown()
	assert.Equal(t, 12_000.0, st.PeakBankroll)
	assert.Zero(t, st.CurrentDrawdown)
}

func TestPortfolioState_JSONRoundTrip(t *testing.T) {
	st := NewPortfolioState(10_000)
	_, err := Allocate([]domain.Signal{
		{EventID: "EV1", League: "NFL", Sport: domain.SportNFL, Venue: domain.VenueSportsbook,
			ModelProb: 0.6, MarketProb: 0.5, Odds: 2.0, Confidence: 70, CorrelationGroup: "g1"},
	}, st)
	require.NoError(t, err)

	b, err := json.Marshal(st)
	require.NoError(t, err)

	var back PortfolioState
	require.NoError(t, json.Unmarshal(b, &back))

	assert.Equal(t, st.Bankroll, back.Bankroll)
	assert.Equal(t, st.TotalExposure, back.TotalExposure)
	assert.Equal(t, st.OpenPositions, back.OpenPositions)
	assert.Equal(t, st.ExposureByEvent, back.ExposureByEvent)
	assert.Equal(t, st.ExposureByGroup, back.ExposureByGroup)
	assert.Equal(t, st.ExposureByVenue, back.ExposureByVenue)
	assert.Equal(t, st.ExposureByType, back.ExposureByType)
}

func TestAllocate_AcceptsStateFromJSON(t *testing.T) {
	// estado vindo do Redis pode chegar com mapas nulos; Allocate inicializa
	var st PortfolioState
	require.NoError(t, json.Unmarshal([]byte(`{"bankroll":10000,"peak_bankroll":10000}`), &st))

	rep, err := Allocate([]domain.Signal{
		{EventID: "EV1", League: "NFL", Sport: domain.SportNFL, Venue: domain.VenueSportsbook,
			ModelProb: 0.6, MarketProb: 0.5, Odds: 2.0, Confidence: 70},
	}, &st)
	require.NoError(t, err)
	assert.Len(t, rep.Results, 1)
}
