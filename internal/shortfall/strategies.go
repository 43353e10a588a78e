package shortfall

import (
	"context"
	"fmt"
	"sort"

	"goalplan-mcp/internal/money"
	"goalplan-mcp/internal/simulation"

	"golang.org/x/sync/errgroup"
)

// StrategyKind identifies a mitigation strategy.
type StrategyKind string

const (
	IncreaseContribution StrategyKind = "increase_contribution"
	ExtendTimeline       StrategyKind = "extend_timeline"
	ReduceTarget         StrategyKind = "reduce_target"
	IncreaseRisk         StrategyKind = "increase_risk"
)

// Feasibility is how easy a strategy is likely to be for the client.
type Feasibility string

const (
	FeasibilityHigh   Feasibility = "high"
	FeasibilityMedium Feasibility = "medium"
	FeasibilityLow    Feasibility = "low"
)

const (
	extensionYears     = 2
	targetReduction    = 0.10
	extraReturn        = 0.02
	volatilityIncrease = 1.2
)

// Strategy is one way of closing a shortfall, re-simulated against the
// baseline. Adjusted holds the exact inputs the probability was computed with.
type Strategy struct {
	Kind              StrategyKind                   `json:"kind"`
	Title             string                         `json:"title"`
	Description       string                         `json:"description"`
	Feasibility       Feasibility                    `json:"feasibility"`
	ProbabilityAfter  float64                        `json:"probability_after"`
	ProbabilityChange float64                        `json:"probability_change"`
	Adjusted          simulation.Params              `json:"adjusted"`
	Contribution      *simulation.ContributionResult `json:"contribution,omitempty"`
}

// strategies builds the four mitigation strategies concurrently and returns
// them best first.
func (a *Analyzer) strategies(ctx context.Context, base simulation.Params, baseProbability float64) ([]Strategy, error) {
	builders := []func(context.Context, simulation.Params) (Strategy, error){
		a.increaseContribution,
		a.extendTimeline,
		a.reduceTarget,
		a.increaseRisk,
	}

	out := make([]Strategy, len(builders))
	g, gctx := errgroup.WithContext(ctx)
	for i, build := range builders {
		g.Go(func() error {
			s, err := build(gctx, base)
			if err != nil {
				return err
			}
			s.ProbabilityChange = money.RoundPercent(s.ProbabilityAfter - baseProbability)
			out[i] = s
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, fmt.Errorf("failed to evaluate strategies: %w", err)
	}

	sort.SliceStable(out, func(i, j int) bool {
		return out[i].ProbabilityAfter > out[j].ProbabilityAfter
	})
	return out, nil
}

func (a *Analyzer) increaseContribution(ctx context.Context, base simulation.Params) (Strategy, error) {
	required, err := a.calc.RequiredContribution(ctx, base, a.cfg.TargetProbability)
	if err != nil {
		return Strategy{}, err
	}

	adjusted := base
	adjusted.MonthlyContribution = required.RequiredContribution
	res, err := a.calc.GoalProbability(ctx, adjusted)
	if err != nil {
		return Strategy{}, err
	}

	return Strategy{
		Kind:             IncreaseContribution,
		Title:            "Increase monthly contributions",
		Description:      contributionDescription(base.MonthlyContribution, required),
		Feasibility:      contributionFeasibility(base.MonthlyContribution, required.IncreaseNeeded),
		ProbabilityAfter: res.ProbabilityPercent,
		Adjusted:         adjusted,
		Contribution:     &required,
	}, nil
}

func contributionDescription(current float64, required simulation.ContributionResult) string {
	if required.IncreaseNeeded <= 0 {
		return fmt.Sprintf("The current monthly contribution of %s is already enough; no increase is needed.", money.Format(current))
	}
	return fmt.Sprintf("Raise the monthly contribution from %s to %s, an increase of %s.",
		money.Format(current), money.Format(required.RequiredContribution), money.Format(required.IncreaseNeeded))
}

// contributionFeasibility grades an increase relative to the current
// contribution. Starting from nothing is always a large change.
func contributionFeasibility(current, increase float64) Feasibility {
	if increase <= 0 {
		return FeasibilityHigh
	}
	if current <= 0 {
		return FeasibilityLow
	}
	pct := increase / current * 100
	switch {
	case pct <= 10:
		return FeasibilityHigh
	case pct <= 30:
		return FeasibilityMedium
	default:
		return FeasibilityLow
	}
}

func (a *Analyzer) extendTimeline(ctx context.Context, base simulation.Params) (Strategy, error) {
	adjusted := base
	adjusted.YearsToGoal += extensionYears
	adjusted = adjusted.Bounded()
	res, err := a.calc.GoalProbability(ctx, adjusted)
	if err != nil {
		return Strategy{}, err
	}

	return Strategy{
		Kind:             ExtendTimeline,
		Title:            "Extend the target date",
		Description:      fmt.Sprintf("Move the target date back by %d years, keeping contributions at %s per month.", extensionYears, money.Format(base.MonthlyContribution)),
		Feasibility:      FeasibilityMedium,
		ProbabilityAfter: res.ProbabilityPercent,
		Adjusted:         adjusted,
	}, nil
}

func (a *Analyzer) reduceTarget(ctx context.Context, base simulation.Params) (Strategy, error) {
	adjusted := base
	adjusted.TargetValue = base.TargetValue * (1 - targetReduction)
	res, err := a.calc.GoalProbability(ctx, adjusted)
	if err != nil {
		return Strategy{}, err
	}

	return Strategy{
		Kind:             ReduceTarget,
		Title:            "Reduce the target amount",
		Description:      fmt.Sprintf("Lower the target by %.0f%% from %s to %s.", targetReduction*100, money.FormatWhole(base.TargetValue), money.FormatWhole(adjusted.TargetValue)),
		Feasibility:      FeasibilityMedium,
		ProbabilityAfter: res.ProbabilityPercent,
		Adjusted:         adjusted,
	}, nil
}

// increaseRisk pairs the higher expected return with higher volatility.
// Short horizons leave little time to recover from a bad year.
func (a *Analyzer) increaseRisk(ctx context.Context, base simulation.Params) (Strategy, error) {
	adjusted := base
	adjusted.ExpectedReturn = base.ExpectedReturn + extraReturn
	adjusted.Volatility = base.Volatility * volatilityIncrease
	adjusted = adjusted.Bounded()
	res, err := a.calc.GoalProbability(ctx, adjusted)
	if err != nil {
		return Strategy{}, err
	}

	feasibility := FeasibilityMedium
	if base.YearsToGoal < 5 {
		feasibility = FeasibilityLow
	}

	return Strategy{
		Kind:  IncreaseRisk,
		Title: "Take more investment risk",
		Description: fmt.Sprintf("Move to a higher-growth allocation: expected return %.1f%% (from %.1f%%) with volatility %.1f%% (from %.1f%%).",
			adjusted.ExpectedReturn*100, base.ExpectedReturn*100, adjusted.Volatility*100, base.Volatility*100),
		Feasibility:      feasibility,
		ProbabilityAfter: res.ProbabilityPercent,
		Adjusted:         adjusted,
	}, nil
}
