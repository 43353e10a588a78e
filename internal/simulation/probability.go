package simulation

import (
	"context"
	"fmt"
	"math"
	"time"

	"goalplan-mcp/internal/money"

	"github.com/rs/zerolog/log"
)

// Percentiles are nearest-rank outcomes of the simulated final values.
type Percentiles struct {
	P10 float64 `json:"p10"`
	P25 float64 `json:"p25"`
	P50 float64 `json:"p50"`
	P75 float64 `json:"p75"`
	P90 float64 `json:"p90"`
}

// Result holds the outcome distribution of one probability estimate.
type Result struct {
	ProbabilityPercent float64     `json:"probability_percent"`
	Iterations         int         `json:"iterations"`
	Successes          int         `json:"successes"`
	Months             int         `json:"months"`
	Percentiles        Percentiles `json:"percentiles"`
	Mean               float64     `json:"mean"`
	Worst              float64     `json:"worst"`
	Best               float64     `json:"best"`
	TargetValue        float64     `json:"target_value"`
	MedianShortfall    float64     `json:"median_shortfall"` // target - P50, floored at 0
	ConfidenceLevel    string      `json:"confidence_level"`
	Interpretation     string      `json:"interpretation"`
}

// Calculator estimates goal probabilities and solves for contributions.
type Calculator struct {
	engine *Engine
	cfg    Config
}

// NewCalculator wires a calculator to an engine. Zero budgets in cfg fall back
// to DefaultConfig.
func NewCalculator(engine *Engine, cfg Config) *Calculator {
	cfg = cfg.withDefaults()
	if engine == nil {
		engine = NewEngine(cfg.Seed, cfg.Workers)
	}
	return &Calculator{engine: engine, cfg: cfg}
}

// Config returns the effective budgets.
func (c *Calculator) Config() Config {
	return c.cfg
}

// GoalProbability runs the Monte-Carlo simulation for p. A zero p.Iterations
// uses the configured default.
func (c *Calculator) GoalProbability(ctx context.Context, p Params) (Result, error) {
	if err := p.Validate(); err != nil {
		return Result{}, err
	}
	if p.Iterations <= 0 {
		p.Iterations = c.cfg.Iterations
	}
	if p.Iterations > c.cfg.MaxIterations {
		return Result{}, errorf("iterations must be at most %d, got %d", c.cfg.MaxIterations, p.Iterations)
	}

	start := time.Now()
	finals, err := c.engine.Run(ctx, p)
	if err != nil {
		return Result{}, err
	}
	// finals is sorted, so NaN and -Inf sort first and +Inf last.
	mean := Mean(finals)
	if !finite(finals[0]) || !finite(finals[len(finals)-1]) || !finite(mean) {
		return Result{}, errorf("simulated values overflow; lower the volatility, return or horizon")
	}

	successes := 0
	for _, v := range finals {
		if v >= p.TargetValue {
			successes++
		}
	}

	probability := 100 * float64(successes) / float64(len(finals))
	pct := Percentiles{
		P10: money.Round(Percentile(finals, 0.10)),
		P25: money.Round(Percentile(finals, 0.25)),
		P50: money.Round(Percentile(finals, 0.50)),
		P75: money.Round(Percentile(finals, 0.75)),
		P90: money.Round(Percentile(finals, 0.90)),
	}
	shortfall := math.Max(0, p.TargetValue-pct.P50)

	log.Debug().
		Int("iterations", p.Iterations).
		Int("months", p.Months()).
		Float64("probability", probability).
		Dur("elapsed", time.Since(start)).
		Msg("Goal probability simulated")

	return Result{
		ProbabilityPercent: probability,
		Iterations:         p.Iterations,
		Successes:          successes,
		Months:             p.Months(),
		Percentiles:        pct,
		Mean:               money.Round(mean),
		Worst:              money.Round(finals[0]),
		Best:               money.Round(finals[len(finals)-1]),
		TargetValue:        p.TargetValue,
		MedianShortfall:    money.Round(shortfall),
		ConfidenceLevel:    ConfidenceLevel(probability),
		Interpretation:     interpret(probability, p.TargetValue, pct.P50),
	}, nil
}

// ConfidenceLevel labels a probability percentage.
func ConfidenceLevel(probability float64) string {
	switch {
	case probability >= 90:
		return "Very High"
	case probability >= 75:
		return "High"
	case probability >= 60:
		return "Moderate"
	case probability >= 40:
		return "Low"
	default:
		return "Very Low"
	}
}

func interpret(probability, target, median float64) string {
	var outlook string
	switch {
	case probability >= 85:
		outlook = "Your goal is very likely to be met"
	case probability >= 70:
		outlook = "Your goal is likely to be met, though not guaranteed"
	case probability >= 50:
		outlook = "Your goal is achievable but at risk"
	default:
		outlook = "Your goal is unlikely to be met on the current plan"
	}

	gap := target - median
	var detail string
	if gap > 0 {
		detail = fmt.Sprintf("the median outcome of %s falls %s short of the %s target",
			money.FormatWhole(median), money.FormatWhole(gap), money.FormatWhole(target))
	} else {
		detail = fmt.Sprintf("the median outcome of %s clears the %s target by %s",
			money.FormatWhole(median), money.FormatWhole(target), money.FormatWhole(-gap))
	}

	return fmt.Sprintf("%s (%.0f%% of simulations succeed); %s.", outlook, probability, detail)
}
