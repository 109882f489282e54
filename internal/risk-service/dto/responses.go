package dto

import (
	"time"

	"github.com/radieske/sportsbook-risk-engine/internal/engine/allocator"
	"github.com/radieske/sportsbook-risk-engine/internal/engine/montecarlo"
	"github.com/radieske/sportsbook-risk-engine/internal/engine/parlay"
)

type AllocateResponse struct {
	BatchID string            `json:"batch_id"`
	BookID  string            `json:"book_id"`
	Report  *allocator.Report `json:"report"`
}

type BatchStatusResponse struct {
	BatchID         string    `json:"batch_id"`
	BookID          string    `json:"book_id"`
	Accepted        int       `json:"accepted"`
	TotalAllocated  float64   `json:"total_allocated"`
	ExposurePercent float64   `json:"exposure_percent"`
	Sharpe          float64   `json:"sharpe"`
	ValueAtRisk     float64   `json:"value_at_risk"`
	CreatedAt       time.Time `json:"created_at"`
}

type SimulateResponse struct {
	Results *montecarlo.Results `json:"results"`
}

type ParlayResponse struct {
	Combinations []parlay.Combination `json:"combinations"`
}

type TeaserResponse struct {
	Opportunities []parlay.TeaserOpportunity `json:"opportunities"`
}
