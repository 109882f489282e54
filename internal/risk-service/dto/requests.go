package dto

import (
	"github.com/radieske/sportsbook-risk-engine/internal/engine/montecarlo"
	"github.com/radieske/sportsbook-risk-engine/pkg/domain"
)

type AllocateRequest struct {
	BookID  string          `json:"book_id"`
	Signals []domain.Signal `json:"signals"`
}

type SimulateRequest struct {
	Trades           []montecarlo.Trade `json:"trades"`
	Runs             int                `json:"runs"`
	StartingBankroll float64            `json:"starting_bankroll"`
	KellyFraction    float64            `json:"kelly_fraction"`
	TargetReturn     float64            `json:"target_return"`
	Seed             int64              `json:"seed"`
}

type ParlayRequest struct {
	Signals  []domain.Signal `json:"signals"`
	Bankroll float64         `json:"bankroll"`
	// Ponteiros para distinguir "não enviado" de zero/false.
	MinConfidenceTwoLeg   *float64 `json:"min_confidence_two_leg,omitempty"`
	MinConfidenceThreeLeg *float64 `json:"min_confidence_three_leg,omitempty"`
	RequirePositiveEV     *bool    `json:"require_positive_ev,omitempty"`
	PrioritizeTwoLeg      *bool    `json:"prioritize_two_leg,omitempty"`
	MaxResults            int      `json:"max_results,omitempty"`
}

type TeaserRequest struct {
	Signals       []domain.Signal `json:"signals"`
	Bankroll      float64         `json:"bankroll"`
	Points        float64         `json:"points,omitempty"`
	MinConfidence float64         `json:"min_confidence,omitempty"`
	MaxResults    int             `json:"max_results,omitempty"`
}
