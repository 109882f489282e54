package http

import (
	"database/sql"
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/radieske/sportsbook-risk-engine/internal/engine/allocator"
	"github.com/radieske/sportsbook-risk-engine/internal/engine/montecarlo"
	"github.com/radieske/sportsbook-risk-engine/internal/engine/parlay"
	"github.com/radieske/sportsbook-risk-engine/internal/risk-service/dto"
	"github.com/radieske/sportsbook-risk-engine/internal/risk-service/repo"
	"github.com/radieske/sportsbook-risk-engine/internal/risk-service/state"
)

// Limite de segurança do endpoint público de simulação.
const maxHTTPRuns = 100_000

type Server struct {
	log              *zap.Logger
	repo             *repo.Postgres
	state            *state.Store
	startingBankroll float64
}

func NewServer(log *zap.Logger, r *repo.Postgres, st *state.Store, startingBankroll float64) *Server {
	return &Server{log: log, repo: r, state: st, startingBankroll: startingBankroll}
}

func (s *Server) Router() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("/allocations", s.allocate)       // POST
	mux.HandleFunc("/allocations/", s.getBatch)      // GET /allocations/{id}
	mux.HandleFunc("/simulations", s.simulate)       // POST
	mux.HandleFunc("/parlays", s.parlays)            // POST
	mux.HandleFunc("/teasers", s.teasers)            // POST
	return mux
}

func (s *Server) allocate(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}
	var req dto.AllocateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "bad json", http.StatusBadRequest)
		return
	}
	if req.BookID == "" || len(req.Signals) == 0 {
		http.Error(w, "invalid payload", http.StatusBadRequest)
		return
	}

	// 1) Carrega o estado do book (ou cria com bankroll inicial)
	st, err := s.state.Load(r.Context(), req.BookID, s.startingBankroll)
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}

	// 2) Roda o allocator (muta o estado carregado)
	rep, err := allocator.Allocate(req.Signals, st)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	// 3) Persiste estado mutado e resultados
	if err := s.state.Save(r.Context(), req.BookID, st); err != nil {
		http.Error(w, "state save failed", http.StatusInternalServerError)
		return
	}
	batchID := uuid.NewString()
	if err := s.repo.InsertBatch(r.Context(), batchID, req.BookID, rep); err != nil {
		s.log.Warn("allocation batch persist failed", zap.Error(err))
		http.Error(w, "persist failed", http.StatusInternalServerError)
		return
	}

	writeJSON(w, dto.AllocateResponse{BatchID: batchID, BookID: req.BookID, Report: rep})
}

func (s *Server) getBatch(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}
	// path: /allocations/{id}
	id := r.URL.Path[len("/allocations/"):]
	if id == "" {
		http.Error(w, "batchId required", http.StatusBadRequest)
		return
	}

	sum, err := s.repo.GetBatchSummary(r.Context(), id)
	if errors.Is(err, sql.ErrNoRows) {
		http.Error(w, "not found", http.StatusNotFound)
		return
	}
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}

	writeJSON(w, dto.BatchStatusResponse{
		BatchID:         sum.BatchID,
		BookID:          sum.BookID,
		Accepted:        sum.Accepted,
		TotalAllocated:  sum.TotalAllocated,
		ExposurePercent: sum.ExposurePercent,
		Sharpe:          sum.Sharpe,
		ValueAtRisk:     sum.ValueAtRisk,
		CreatedAt:       sum.CreatedAt,
	})
}

func (s *Server) simulate(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}
	var req dto.SimulateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "bad json", http.StatusBadRequest)
		return
	}
	if req.Runs > maxHTTPRuns {
		http.Error(w, "too many runs", http.StatusBadRequest)
		return
	}

	start := time.Now()
	res, err := montecarlo.Run(r.Context(), req.Trades, montecarlo.Config{
		Runs:             req.Runs,
		StartingBankroll: req.StartingBankroll,
		KellyFraction:    req.KellyFraction,
		TargetReturn:     req.TargetReturn,
		Seed:             req.Seed,
	})
	if err != nil {
		if r.Context().Err() != nil {
			return // cliente desistiu
		}
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	s.log.Debug("simulation done",
		zap.Int("runs", res.Runs),
		zap.Duration("elapsed", time.Since(start)),
	)

	writeJSON(w, dto.SimulateResponse{Results: res})
}

func (s *Server) parlays(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}
	var req dto.ParlayRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "bad json", http.StatusBadRequest)
		return
	}

	opts := parlay.DefaultOptions()
	if req.MinConfidenceTwoLeg != nil {
		opts.MinConfidenceTwoLeg = *req.MinConfidenceTwoLeg
	}
	if req.MinConfidenceThreeLeg != nil {
		opts.MinConfidenceThreeLeg = *req.MinConfidenceThreeLeg
	}
	if req.RequirePositiveEV != nil {
		opts.RequirePositiveEV = *req.RequirePositiveEV
	}
	if req.PrioritizeTwoLeg != nil {
		opts.PrioritizeTwoLeg = *req.PrioritizeTwoLeg
	}
	if req.MaxResults > 0 {
		opts.MaxResults = req.MaxResults
	}

	combos, err := parlay.GenerateParlays(req.Signals, req.Bankroll, opts)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	writeJSON(w, dto.ParlayResponse{Combinations: combos})
}

func (s *Server) teasers(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}
	var req dto.TeaserRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "bad json", http.StatusBadRequest)
		return
	}

	opps, err := parlay.AnalyzeTeasers(req.Signals, req.Bankroll, parlay.TeaserOptions{
		Points:        req.Points,
		MinConfidence: req.MinConfidence,
		MaxResults:    req.MaxResults,
	})
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	writeJSON(w, dto.TeaserResponse{Opportunities: opps})
}

func writeJSON(w http.ResponseWriter, v any) {
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(v)
}
