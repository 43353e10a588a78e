package simulation

import (
	"context"
	"math"
	"math/rand"
	"runtime"
	"sort"
	"sync"
	"time"

	"golang.org/x/sync/errgroup"
)

// trialsPerChunk is the unit of parallel work. Every chunk gets its own
// generator seeded from the engine's master source, so a fixed seed yields the
// same outcomes regardless of how many workers run the chunks.
const trialsPerChunk = 250

// minUniform keeps the Box-Muller logarithm finite.
const minUniform = 1e-10

// Engine performs the Monte-Carlo simulation of monthly investment returns.
type Engine struct {
	mu      sync.Mutex
	rng     *rand.Rand
	workers int
}

// NewEngine creates an engine. A zero seed draws one from the clock; a
// non-positive worker count uses GOMAXPROCS.
func NewEngine(seed int64, workers int) *Engine {
	if seed == 0 {
		seed = time.Now().UnixNano()
	}
	if workers <= 0 {
		workers = runtime.GOMAXPROCS(0)
	}
	return &Engine{
		rng:     rand.New(rand.NewSource(seed)),
		workers: workers,
	}
}

// Run simulates p.Iterations independent trials and returns the final
// portfolio values sorted ascending.
func (e *Engine) Run(ctx context.Context, p Params) ([]float64, error) {
	n := p.Iterations
	if n <= 0 {
		return nil, nil
	}

	months := p.Months()
	monthlyReturn := p.ExpectedReturn / 12
	monthlyVolatility := p.Volatility / math.Sqrt(12)

	finals := make([]float64, n)
	chunks := (n + trialsPerChunk - 1) / trialsPerChunk
	seeds := e.seeds(chunks)

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(e.workers)

	for c := 0; c < chunks; c++ {
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			rng := rand.New(rand.NewSource(seeds[c]))
			start := c * trialsPerChunk
			end := min(start+trialsPerChunk, n)
			for i := start; i < end; i++ {
				if err := gctx.Err(); err != nil {
					return err
				}
				finals[i] = simulateTrial(rng, p.CurrentValue, p.MonthlyContribution, monthlyReturn, monthlyVolatility, months)
			}
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	sort.Float64s(finals)
	return finals, nil
}

func (e *Engine) seeds(n int) []int64 {
	e.mu.Lock()
	defer e.mu.Unlock()

	seeds := make([]int64, n)
	for i := range seeds {
		seeds[i] = e.rng.Int63()
	}
	return seeds
}

func simulateTrial(rng *rand.Rand, value, contribution, monthlyReturn, monthlyVolatility float64, months int) float64 {
	for m := 0; m < months; m++ {
		r := monthlyReturn + gaussian(rng)*monthlyVolatility
		value *= 1 + r
		// Contributions land after the month's growth.
		value += contribution
	}
	return value
}

// gaussian draws a standard normal variate with the Box-Muller transform.
func gaussian(rng *rand.Rand) float64 {
	u1 := math.Max(rng.Float64(), minUniform)
	u2 := rng.Float64()
	return math.Sqrt(-2*math.Log(u1)) * math.Cos(2*math.Pi*u2)
}
