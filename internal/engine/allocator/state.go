package allocator

import (
	"github.com/radieske/sportsbook-risk-engine/pkg/domain"
)

// PortfolioState é o ledger mutável carregado entre passes de alocação.
// Os mapas de exposição só crescem durante um pass; fechamento de posição
// é responsabilidade de quem chama (liquidação externa).
//
// Não é seguro compartilhar entre chamadas concorrentes de Allocate sem
// sincronização externa; use Clone para simulações "what-if".
type PortfolioState struct {
	Bankroll        float64 `json:"bankroll"`
	PeakBankroll    float64 `json:"peak_bankroll"`
	CurrentDrawdown float64 `json:"current_drawdown"`

	ExposureByEvent  map[string]float64         `json:"exposure_by_event"`
	ExposureByLeague map[string]float64         `json:"exposure_by_league"`
	ExposureByVenue  map[domain.Venue]float64   `json:"exposure_by_venue"`
	ExposureByGroup  map[string]float64         `json:"exposure_by_group"`
	ExposureByType   map[domain.BetType]float64 `json:"exposure_by_type"`

	TotalExposure float64 `json:"total_exposure"`
	OpenPositions int     `json:"open_positions"`
}

// NewPortfolioState cria um estado zerado com o bankroll informado.
func NewPortfolioState(bankroll float64) *PortfolioState {
	return &PortfolioState{
		Bankroll:         bankroll,
		PeakBankroll:     bankroll,
		ExposureByEvent:  make(map[string]float64),
		ExposureByLeague: make(map[string]float64),
		ExposureByVenue:  make(map[domain.Venue]float64),
		ExposureByGroup:  make(map[string]float64),
		ExposureByType:   make(map[domain.BetType]float64),
	}
}

// Clone devolve uma cópia profunda do estado (mapas independentes).
func (s *PortfolioState) Clone() *PortfolioState {
	c := *s
	c.ExposureByEvent = copyMap(s.ExposureByEvent)
	c.ExposureByLeague = copyMap(s.ExposureByLeague)
	c.ExposureByVenue = copyMap(s.ExposureByVenue)
	c.ExposureByGroup = copyMap(s.ExposureByGroup)
	c.ExposureByType = copyMap(s.ExposureByType)
	return &c
}

// RefreshDrawdown recalcula peak e drawdown a partir do bankroll atual.
// Drawdown fica sempre em [0,1].
func (s *PortfolioState) RefreshDrawdown() {
	if s.Bankroll > s.PeakBankroll {
		s.PeakBankroll = s.Bankroll
	}
	if s.PeakBankroll <= 0 {
		s.CurrentDrawdown = 0
		return
	}
	dd := (s.PeakBankroll - s.Bankroll) / s.PeakBankroll
	if dd < 0 {
		dd = 0
	}
	if dd > 1 {
		dd = 1
	}
	s.CurrentDrawdown = dd
}

// ensureMaps inicializa mapas nulos (estado vindo de JSON pode chegar sem eles).
func (s *PortfolioState) ensureMaps() {
	if s.ExposureByEvent == nil {
		s.ExposureByEvent = make(map[string]float64)
	}
	if s.ExposureByLeague == nil {
		s.ExposureByLeague = make(map[string]float64)
	}
	if s.ExposureByVenue == nil {
		s.ExposureByVenue = make(map[domain.Venue]float64)
	}
	if s.ExposureByGroup == nil {
		s.ExposureByGroup = make(map[string]float64)
	}
	if s.ExposureByType == nil {
		s.ExposureByType = make(map[domain.BetType]float64)
	}
}

// commit registra a exposição de um stake aceito. Chamado uma única vez por
// sinal, depois de todos os caps: o efeito no estado é atômico.
func (s *PortfolioState) commit(sig domain.Signal, stake float64) {
	s.ExposureByEvent[sig.EventID] += stake
	s.ExposureByLeague[sig.League] += stake
	s.ExposureByVenue[sig.Venue] += stake
	s.ExposureByType[sig.NormalizedType()] += stake
	if sig.CorrelationGroup != "" {
		s.ExposureByGroup[sig.CorrelationGroup] += stake
	}
	s.TotalExposure += stake
	s.OpenPositions++
}

func copyMap[K comparable](m map[K]float64) map[K]float64 {
	out := make(map[K]float64, len(m))
	for k, v := range m {
		out[k] = v
	}
	return out
}
