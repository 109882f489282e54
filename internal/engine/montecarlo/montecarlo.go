// Package montecarlo estima a distribuição de resultados de um conjunto de
// trades rodando milhares de permutações aleatórias da ordem de liquidação.
package montecarlo

import (
	"context"
	"errors"
	"fmt"
	"math"
	"math/rand"
	"runtime"
	"sort"
	"sync"
	"time"

	"gonum.org/v1/gonum/stat"
)

const (
	// Fração do bankroll inicial abaixo da qual o run conta como ruína
	// e para de processar trades.
	ruinFraction = 0.5

	// Runs com caminho de equity retido para gráfico; limite de memória,
	// não de correção estatística.
	maxSamplePaths = 100

	// Um ponto de caminho a cada N trades.
	pathSampleStep = 10

	defaultRuns         = 10_000
	defaultTargetReturn = 0.20
)

// Trade é uma aposta abstrata para simulação: pode vir do allocator, de um
// histórico ou de um conjunto sintético.
type Trade struct {
	Probability float64 `json:"probability"`
	Stake       float64 `json:"stake"`
	Odds        float64 `json:"odds"`
	Edge        float64 `json:"edge,omitempty"`
}

// Config parametriza a simulação.
type Config struct {
	Runs             int     `json:"runs"`
	StartingBankroll float64 `json:"starting_bankroll"`
	// Escalar aplicado uniformemente sobre o stake de cada trade,
	// além de qualquer fração já embutida pelo allocator. Default 1.0.
	KellyFraction        float64 `json:"kelly_fraction"`
	TargetReturn         float64 `json:"target_return"`
	MaxDrawdownTolerance float64 `json:"max_drawdown_tolerance,omitempty"`
	// Seed 0 usa o relógio. Cada run deriva um stream independente do seed
	// base, então runs paralelos não compartilham estado aleatório.
	Seed    int64 `json:"seed,omitempty"`
	Workers int   `json:"workers,omitempty"` // 0 = GOMAXPROCS
}

var (
	ErrNoTrades        = errors.New("simulation requires at least one trade")
	ErrInvalidBankroll = errors.New("starting bankroll must be positive")
)

// Run executa a simulação completa. Erros só para violação de contrato;
// ruína em todos os runs é resultado normal, não erro.
//
// O loop externo honra cancelamento via ctx: runs completos nunca são
// re-ponderados, um lote interrompido é descartado inteiro.
func Run(ctx context.Context, trades []Trade, cfg Config) (*Results, error) {
	if len(trades) == 0 {
		return nil, ErrNoTrades
	}
	if cfg.StartingBankroll <= 0 {
		return nil, ErrInvalidBankroll
	}
	for i, t := range trades {
		if t.Probability <= 0 || t.Probability > 1 {
			return nil, fmt.Errorf("trade %d: probability %.4f outside (0,1]", i, t.Probability)
		}
		if t.Odds < 1 {
			return nil, fmt.Errorf("trade %d: decimal odds %.4f below 1", i, t.Odds)
		}
		if t.Stake < 0 {
			return nil, fmt.Errorf("trade %d: negative stake", i)
		}
	}

	runs := cfg.Runs
	if runs <= 0 {
		runs = defaultRuns
	}
	kelly := cfg.KellyFraction
	if kelly <= 0 {
		kelly = 1.0
	}
	target := cfg.TargetReturn
	if target == 0 {
		target = defaultTargetReturn
	}
	seed := cfg.Seed
	if seed == 0 {
		seed = time.Now().UnixNano()
	}
	workers := cfg.Workers
	if workers <= 0 {
		workers = runtime.GOMAXPROCS(0)
	}
	if workers > runs {
		workers = runs
	}

	finals := make([]float64, runs)
	maxDDs := make([]float64, runs)
	sampleCount := min(runs, maxSamplePaths)
	paths := make([][]PathPoint, sampleCount)

	// Runs são independentes: divide por stride entre os workers, cada run
	// com rand próprio derivado do seed base (resultado não depende do
	// número de workers).
	var wg sync.WaitGroup
	for w := 0; w < workers; w++ {
		wg.Add(1)
		go func(offset int) {
			defer wg.Done()
			for r := offset; r < runs; r += workers {
				if ctx.Err() != nil {
					return
				}
				rng := rand.New(rand.NewSource(seed + int64(r)))
				final, maxDD, path := simulateRun(trades, cfg.StartingBankroll, kelly, rng, r < sampleCount)
				finals[r] = final
				maxDDs[r] = maxDD
				if r < sampleCount {
					paths[r] = path
				}
			}
		}(w)
	}
	wg.Wait()

	if err := ctx.Err(); err != nil {
		return nil, err
	}

	return aggregate(finals, maxDDs, paths, trades, cfg.StartingBankroll, target), nil
}

// simulateRun roda uma permutação completa e devolve bankroll final,
// max drawdown e (opcionalmente) o caminho de equity down-sampled.
func simulateRun(trades []Trade, start, kelly float64, rng *rand.Rand, keepPath bool) (float64, float64, []PathPoint) {
	order := rng.Perm(len(trades))

	bankroll := start
	peak := start
	maxDD := 0.0
	var path []PathPoint
	if keepPath {
		path = append(path, PathPoint{TradeIndex: 0, Bankroll: bankroll})
	}

	for i, idx := range order {
		t := trades[idx]
		stake := t.Stake * kelly

		// Um sorteio novo por trade; reutilizar o draw enviesaria a
		// correlação entre trades do mesmo run.
		if rng.Float64() < t.Probability {
			bankroll += stake * (t.Odds - 1)
		} else {
			bankroll -= stake
		}

		if bankroll > peak {
			peak = bankroll
		}
		if peak > 0 {
			if dd := (peak - bankroll) / peak; dd > maxDD {
				maxDD = dd
			}
		}

		if keepPath && (i+1)%pathSampleStep == 0 {
			path = append(path, PathPoint{TradeIndex: i + 1, Bankroll: bankroll})
		}

		// Checado uma vez por trade, depois do update: um caminho que
		// encosta no limiar e recupera dentro do mesmo trade não quebra.
		if bankroll < start*ruinFraction {
			break
		}
	}

	if keepPath {
		path = append(path, PathPoint{TradeIndex: len(order), Bankroll: bankroll})
	}
	return bankroll, maxDD, path
}

// aggregate consolida as estatísticas sobre todos os runs.
func aggregate(finals, maxDDs []float64, paths [][]PathPoint, trades []Trade, start, target float64) *Results {
	runs := len(finals)

	sorted := make([]float64, runs)
	copy(sorted, finals)
	sort.Float64s(sorted)

	// Percentil por índice floor(runs*p) no array ordenado.
	pct := func(p float64) float64 {
		idx := int(float64(runs) * p)
		if idx >= runs {
			idx = runs - 1
		}
		return sorted[idx]
	}

	returns := make([]float64, runs)
	ruined, profitable, hitTarget := 0, 0, 0
	for i, f := range finals {
		ret := (f - start) / start
		returns[i] = ret
		if f < start*ruinFraction {
			ruined++
		}
		if f > start {
			profitable++
		}
		if ret >= target {
			hitTarget++
		}
	}

	meanRet := stat.Mean(returns, nil)
	stdRet := stat.StdDev(returns, nil)
	sharpe := 0.0
	if stdRet > 0 && !math.IsNaN(stdRet) {
		sharpe = meanRet / stdRet
	}

	var losses []float64
	for _, ret := range returns {
		if ret < 0 {
			losses = append(losses, ret)
		}
	}
	sortino := 0.0
	if len(losses) > 1 {
		if downside := stat.StdDev(losses, nil); downside > 0 {
			sortino = meanRet / downside
		}
	}

	sortedDDs := make([]float64, runs)
	copy(sortedDDs, maxDDs)
	sort.Float64s(sortedDDs)
	ddIdx := int(float64(runs) * 0.95)
	if ddIdx >= runs {
		ddIdx = runs - 1
	}

	winRate := 0.0
	for _, t := range trades {
		winRate += t.Probability
	}
	winRate /= float64(len(trades))

	return &Results{
		Runs:           runs,
		FinalBankrolls: sorted,
		Mean:           stat.Mean(finals, nil),
		Median:         pct(0.50),
		StdDev:         stat.StdDev(finals, nil),
		Percentiles: Percentiles{
			P5:  pct(0.05),
			P10: pct(0.10),
			P25: pct(0.25),
			P50: pct(0.50),
			P75: pct(0.75),
			P90: pct(0.90),
			P95: pct(0.95),
		},
		RuinProbability:         float64(ruined) / float64(runs),
		ProfitProbability:       float64(profitable) / float64(runs),
		TargetReturnProbability: float64(hitTarget) / float64(runs),
		ExpectedMaxDrawdown:     stat.Mean(maxDDs, nil),
		P95MaxDrawdown:          sortedDDs[ddIdx],
		Sharpe:                  sharpe,
		Sortino:                 sortino,
		WinRate:                 winRate,
		SamplePaths:             paths,
	}
}
