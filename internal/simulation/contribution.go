package simulation

import (
	"context"
	"math"

	"goalplan-mcp/internal/money"

	"github.com/rs/zerolog/log"
)

// ContributionResult is the outcome of the required-contribution search.
type ContributionResult struct {
	RequiredContribution float64 `json:"required_contribution"`
	CurrentContribution  float64 `json:"current_contribution"`
	IncreaseNeeded       float64 `json:"increase_needed"`
	IncreasePercent      float64 `json:"increase_percent"` // of the current contribution; 0 when there is none
	TargetProbability    float64 `json:"target_probability"`
	SearchSteps          int     `json:"search_steps"`
	ProbeIterations      int     `json:"probe_iterations"`
	// CeilingReached is set when no probe met the target, so the answer sits
	// at the top of the search bracket and may understate the need.
	CeilingReached bool `json:"ceiling_reached"`
}

// RequiredContribution bisects the monthly contribution that reaches
// targetProbability (a ratio; 0 uses the configured default). The search
// bracket is [0, target/months]. Each probe is a fresh, smaller simulation, so
// the answer is a noisy estimate.
func (c *Calculator) RequiredContribution(ctx context.Context, p Params, targetProbability float64) (ContributionResult, error) {
	if err := p.Validate(); err != nil {
		return ContributionResult{}, err
	}
	if targetProbability == 0 {
		targetProbability = c.cfg.TargetProbability
	}
	if targetProbability < 0 || targetProbability > 1 {
		return ContributionResult{}, errorf("target probability must be a ratio in (0, 1], got %v", targetProbability)
	}

	low := 0.0
	ceiling := p.TargetValue / (p.YearsToGoal * 12)
	high := ceiling
	steps := 0

	for high-low >= c.cfg.SolverTolerance && steps < c.cfg.SolverMaxSteps {
		mid := (low + high) / 2

		probe := p
		probe.MonthlyContribution = mid
		probe.Iterations = c.cfg.SolverIterations
		res, err := c.GoalProbability(ctx, probe)
		if err != nil {
			return ContributionResult{}, err
		}

		if res.ProbabilityPercent < targetProbability*100 {
			low = mid
		} else {
			high = mid
		}
		steps++
	}

	required := (low + high) / 2
	increase := math.Max(0, required-p.MonthlyContribution)
	increasePct := 0.0
	if p.MonthlyContribution > 0 {
		increasePct = increase / p.MonthlyContribution * 100
	}

	log.Debug().
		Float64("required", required).
		Int("steps", steps).
		Float64("target_probability", targetProbability).
		Msg("Required contribution solved")

	return ContributionResult{
		RequiredContribution: money.Round(required),
		CurrentContribution:  money.Round(p.MonthlyContribution),
		IncreaseNeeded:       money.Round(increase),
		IncreasePercent:      money.RoundPercent(increasePct),
		TargetProbability:    targetProbability * 100,
		SearchSteps:          steps,
		ProbeIterations:      c.cfg.SolverIterations,
		CeilingReached:       high == ceiling && ceiling > 0,
	}, nil
}
