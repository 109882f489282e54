// Package allocator dimensiona stakes via Kelly fracionado com uma cascata
// de caps de exposição sobre um PortfolioState mutável.
package allocator

import (
	"errors"
	"math"
	"sort"

	"github.com/radieske/sportsbook-risk-engine/pkg/domain"
)

// Caps de exposição como fração do bankroll, checados nesta ordem.
const (
	maxEventExposurePct     = 0.05
	maxLeagueExposurePct    = 0.15
	maxVenueExposurePct     = 0.40
	maxPortfolioExposurePct = 0.60

	// Caps duros por tipo, aplicados depois da cascata.
	maxParlayExposurePct = 0.01
	maxTeaserExposurePct = 0.01

	// Stakes abaixo de 1 unidade monetária não valem registro.
	minStake = 1.0
)

// ErrInvalidBankroll indica violação de contrato (bankroll <= 0).
var ErrInvalidBankroll = errors.New("portfolio bankroll must be positive")

// KellyMultiplier devolve o multiplicador de regime para o drawdown atual.
// Função degrau monotônica: quanto maior o drawdown, menor a agressividade.
func KellyMultiplier(drawdown float64) float64 {
	switch {
	case drawdown > 0.15:
		return 0.10
	case drawdown > 0.10:
		return 0.20
	case drawdown > 0.05:
		return 0.25
	default:
		return 0.33
	}
}

// fullKelly calcula f* = (b*p - q) / b para odd decimal.
// Retorna 0 quando a fórmula não se aplica (sem edge de payout).
func fullKelly(p, odds float64) float64 {
	b := odds - 1
	if b <= 0 || p <= 0 || p >= 1 {
		return 0
	}
	f := (b*p - (1 - p)) / b
	if f < 0 {
		return 0
	}
	return f
}

// liquidityHaircut reduz a fração conforme a liquidez reportada do mercado.
// Liquidez 0 significa "não informada" e não sofre haircut.
func liquidityHaircut(liquidity float64) float64 {
	switch {
	case liquidity <= 0:
		return 1.0
	case liquidity >= 100_000:
		return 1.0
	case liquidity >= 50_000:
		return 0.8
	case liquidity >= 25_000:
		return 0.5
	default:
		return 0.25
	}
}

// betTypeMultiplier aplica o desconto por tipo de aposta.
func betTypeMultiplier(t domain.BetType) float64 {
	switch t {
	case domain.BetParlay:
		return 0.25
	case domain.BetTeaser:
		return 0.30
	case domain.BetKalshiSingle, domain.BetPolymarketSingle:
		return 0.85
	default:
		return 1.0
	}
}

// Allocate processa os sinais e devolve os stakes aceitos mais as métricas
// de risco do pass. O estado passado é mutado conforme cada stake é aceito;
// quem precisa do estado pré-alocação deve clonar antes.
//
// Penalidade de correlação: flat 0.7 sempre que o grupo do sinal já tem
// qualquer exposição registrada, independente da magnitude. Heurística
// grosseira conhecida; mantida de propósito, a calibração assume esse valor.
func Allocate(signals []domain.Signal, st *PortfolioState) (*Report, error) {
	if st == nil || st.Bankroll <= 0 {
		return nil, ErrInvalidBankroll
	}
	st.ensureMaps()

	// O regime de Kelly é reavaliado do estado corrente a cada pass.
	st.RefreshDrawdown()
	regime := KellyMultiplier(st.CurrentDrawdown)

	// Processa na ordem de melhor edge: headroom escasso vai para os
	// melhores sinais primeiro.
	ordered := make([]domain.Signal, len(signals))
	copy(ordered, signals)
	sort.SliceStable(ordered, func(i, j int) bool {
		return ordered[i].Edge() > ordered[j].Edge()
	})

	results := make([]AllocationResult, 0, len(ordered))
	var evSum, variance float64
	events := make(map[string]struct{})
	leagues := make(map[string]struct{})
	for _, sig := range ordered {
		if !sig.Valid() {
			continue // sinal malformado: pula e segue o lote
		}
		if sig.Edge() <= 0 {
			continue
		}

		raw := fullKelly(sig.ModelProb, sig.Odds)
		if raw <= 0 {
			continue
		}

		haircut := liquidityHaircut(sig.Liquidity)
		typeMult := betTypeMultiplier(sig.NormalizedType())

		corrMult := 1.0
		if sig.CorrelationGroup != "" && st.ExposureByGroup[sig.CorrelationGroup] > 0 {
			corrMult = 0.7
		}

		adjusted := raw * regime * haircut * typeMult * corrMult
		if adjusted <= 0 {
			continue
		}

		stake := adjusted * st.Bankroll
		capped := false
		capReason := ""
		clamp := func(limit, used float64, reason string) {
			room := limit - used
			if room < 0 {
				room = 0
			}
			if stake > room {
				stake = room
				capped = true
				if capReason == "" {
					capReason = reason
				}
			}
		}

		// Cascata de caps: cada um clampa para baixo contra a exposição
		// corrente daquela chave; o primeiro que apertar dá o rótulo.
		clamp(maxEventExposurePct*st.Bankroll, st.ExposureByEvent[sig.EventID], "event_cap")
		clamp(maxLeagueExposurePct*st.Bankroll, st.ExposureByLeague[sig.League], "league_cap")
		clamp(maxVenueExposurePct*st.Bankroll, st.ExposureByVenue[sig.Venue], "venue_cap")
		clamp(maxPortfolioExposurePct*st.Bankroll, st.TotalExposure, "portfolio_cap")

		switch sig.NormalizedType() {
		case domain.BetParlay:
			clamp(maxParlayExposurePct*st.Bankroll, st.ExposureByType[domain.BetParlay], "parlay_cap")
		case domain.BetTeaser:
			clamp(maxTeaserExposurePct*st.Bankroll, st.ExposureByType[domain.BetTeaser], "teaser_cap")
		}

		if stake < minStake {
			continue
		}

		results = append(results, AllocationResult{
			EventID:          sig.EventID,
			League:           sig.League,
			Venue:            string(sig.Venue),
			BetType:          string(sig.NormalizedType()),
			Stake:            stake,
			KellyRaw:         raw,
			KellyAdjusted:    adjusted,
			Edge:             sig.Edge(),
			ExpectedValue:    sig.ExpectedValue(),
			Capped:           capped,
			CapReason:        capReason,
			RiskPct:          stake / st.Bankroll * 100,
			LiquidityReduced: haircut < 1.0,
			CorrelationHit:   corrMult < 1.0,
		})

		// Commit único por sinal: o estado nunca fica meio-atualizado.
		st.commit(sig, stake)

		evSum += sig.ExpectedValue() * stake
		variance += stake * stake * sig.ModelProb * (1 - sig.ModelProb)
		events[sig.EventID] = struct{}{}
		leagues[sig.League] = struct{}{}
	}

	metrics := computeMetrics(results, evSum, variance, len(events), len(leagues), st.Bankroll)

	// Saída ordenada por EV (chave distinta da ordem de processamento).
	sort.SliceStable(results, func(i, j int) bool {
		return results[i].ExpectedValue > results[j].ExpectedValue
	})

	total := 0.0
	for _, r := range results {
		total += r.Stake
	}

	return &Report{
		Results:           results,
		TotalAllocated:    total,
		RemainingBankroll: st.Bankroll - total,
		ExposurePercent:   st.TotalExposure / st.Bankroll * 100,
		Metrics:           metrics,
	}, nil
}

// computeMetrics agrega o risco do pass: Sharpe aproximado (Σ ev*stake sobre
// a raiz da variância binomial agregada), score de diversificação 0-100 e
// VaR aproximado.
func computeMetrics(results []AllocationResult, evSum, variance float64, uniqueEvents, uniqueLeagues int, bankroll float64) RiskMetrics {
	if len(results) == 0 {
		return RiskMetrics{}
	}

	sharpe := 0.0
	if variance > 0 {
		sharpe = evSum / math.Sqrt(variance)
	}

	n := float64(len(results))
	diversification := (0.6*(float64(uniqueEvents)/n) + 0.4*(float64(uniqueLeagues)/n)) * 100

	return RiskMetrics{
		Sharpe:          sharpe,
		Diversification: diversification,
		ValueAtRisk:     bankroll * 0.05 * math.Sqrt(n),
		TotalEV:         evSum,
	}
}
