package shortfall

import (
	"context"
	"fmt"

	"goalplan-mcp/internal/money"
	"goalplan-mcp/internal/simulation"

	"golang.org/x/sync/errgroup"
)

var (
	contributionChanges = []float64{-50, -25, 0, 25, 50, 100} // percent
	returnChanges       = []float64{-2, -1, 0, 1, 2}          // percentage points
)

// maxConcurrentProbes bounds the sensitivity runs in flight; each one already
// spreads its trials across the engine workers.
const maxConcurrentProbes = 4

// SensitivityPoint is the probability after varying a single input.
type SensitivityPoint struct {
	Change              float64 `json:"change"`
	Label               string  `json:"label"`
	MonthlyContribution float64 `json:"monthly_contribution"`
	ExpectedReturn      float64 `json:"expected_return"`
	ProbabilityPercent  float64 `json:"probability_percent"`
	ProbabilityChange   float64 `json:"probability_change"`
}

// Sensitivity varies contribution and return independently of each other.
type Sensitivity struct {
	Contribution []SensitivityPoint `json:"contribution"`
	Return       []SensitivityPoint `json:"return"`
}

func (a *Analyzer) sensitivity(ctx context.Context, base simulation.Params, baseProbability float64) (Sensitivity, error) {
	s := Sensitivity{
		Contribution: make([]SensitivityPoint, len(contributionChanges)),
		Return:       make([]SensitivityPoint, len(returnChanges)),
	}

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(maxConcurrentProbes)

	probe := func(dst *SensitivityPoint, p simulation.Params) {
		g.Go(func() error {
			p = p.Bounded()
			res, err := a.calc.GoalProbability(gctx, p)
			if err != nil {
				return err
			}
			dst.MonthlyContribution = money.Round(p.MonthlyContribution)
			dst.ExpectedReturn = p.ExpectedReturn
			dst.ProbabilityPercent = res.ProbabilityPercent
			dst.ProbabilityChange = money.RoundPercent(res.ProbabilityPercent - baseProbability)
			return nil
		})
	}

	for i, change := range contributionChanges {
		p := base
		p.MonthlyContribution = base.MonthlyContribution * (1 + change/100)
		s.Contribution[i] = SensitivityPoint{Change: change, Label: fmt.Sprintf("%+.0f%% contribution", change)}
		probe(&s.Contribution[i], p)
	}
	for i, change := range returnChanges {
		p := base
		p.ExpectedReturn = base.ExpectedReturn + change/100
		s.Return[i] = SensitivityPoint{Change: change, Label: fmt.Sprintf("%+.0fpp return", change)}
		probe(&s.Return[i], p)
	}

	if err := g.Wait(); err != nil {
		return Sensitivity{}, fmt.Errorf("failed to run sensitivity analysis: %w", err)
	}
	return s, nil
}
