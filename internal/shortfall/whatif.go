package shortfall

import (
	"context"
	"fmt"
	"io"
	"math"

	"goalplan-mcp/internal/goals"
	"goalplan-mcp/internal/money"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"
	"gopkg.in/yaml.v3"
)

// Scenario overrides some of a goal's assumptions. Nil fields keep the
// goal's own value.
type Scenario struct {
	Name                string   `json:"name" yaml:"name"`
	MonthlyContribution *float64 `json:"monthly_contribution,omitempty" yaml:"monthly_contribution,omitempty"`
	ExpectedReturn      *float64 `json:"expected_return,omitempty" yaml:"expected_return,omitempty"`
	Volatility          *float64 `json:"volatility,omitempty" yaml:"volatility,omitempty"`
}

// ScenarioResult is the projected outcome of one scenario.
type ScenarioResult struct {
	Name                string     `json:"name"`
	MonthlyContribution float64    `json:"monthly_contribution"`
	ExpectedReturn      float64    `json:"expected_return"`
	Volatility          float64    `json:"volatility"`
	ProbabilityPercent  float64    `json:"probability_percent"`
	MedianValue         float64    `json:"median_value"`
	Shortfall           float64    `json:"shortfall"`
	Status              goals.Tier `json:"status"`
	Color               string     `json:"color"`
}

// WhatIfReport compares scenarios for a single goal.
type WhatIfReport struct {
	GoalID       uuid.UUID        `json:"goal_id"`
	GoalName     string           `json:"goal_name"`
	CurrentValue float64          `json:"current_value"`
	TargetValue  float64          `json:"target_value"`
	YearsToGoal  float64          `json:"years_to_goal"`
	Scenarios    []ScenarioResult `json:"scenarios"`
	Best         *ScenarioResult  `json:"best,omitempty"`
}

// DefaultScenarios varies the goal's contribution and return around its
// current plan.
func DefaultScenarios(g goals.Goal, defaultReturn float64) []Scenario {
	ret := defaultReturn
	if g.ExpectedReturn != nil {
		ret = *g.ExpectedReturn
	}
	c := g.MonthlyContribution

	return []Scenario{
		{Name: "Current plan"},
		{Name: "Contribution +25%", MonthlyContribution: goals.Float(c * 1.25)},
		{Name: "Contribution +50%", MonthlyContribution: goals.Float(c * 1.5)},
		{Name: "Double contribution", MonthlyContribution: goals.Float(c * 2)},
		{Name: "Return +1pp", ExpectedReturn: goals.Float(ret + 0.01)},
		{Name: "Contribution +25%, return +1pp", MonthlyContribution: goals.Float(c * 1.25), ExpectedReturn: goals.Float(ret + 0.01)},
	}
}

// LoadScenarios reads a YAML list of scenarios.
func LoadScenarios(r io.Reader) ([]Scenario, error) {
	var scenarios []Scenario
	if err := yaml.NewDecoder(r).Decode(&scenarios); err != nil {
		return nil, fmt.Errorf("failed to decode scenarios: %w", err)
	}
	for i, s := range scenarios {
		if s.Name == "" {
			scenarios[i].Name = fmt.Sprintf("Scenario %d", i+1)
		}
	}
	return scenarios, nil
}

// GenerateWhatIfScenarios projects g, valued at currentValue, under each
// scenario. An empty list runs DefaultScenarios.
func (a *Analyzer) GenerateWhatIfScenarios(ctx context.Context, g goals.Goal, currentValue float64, scenarios []Scenario) (WhatIfReport, error) {
	base, err := a.params(g, currentValue)
	if err != nil {
		return WhatIfReport{}, err
	}
	if len(scenarios) == 0 {
		scenarios = DefaultScenarios(g, a.cfg.DefaultExpectedReturn)
	}

	results := make([]ScenarioResult, len(scenarios))
	eg, gctx := errgroup.WithContext(ctx)
	eg.SetLimit(maxConcurrentProbes)
	for i, sc := range scenarios {
		p := base
		if sc.MonthlyContribution != nil {
			p.MonthlyContribution = *sc.MonthlyContribution
		}
		if sc.ExpectedReturn != nil {
			p.ExpectedReturn = *sc.ExpectedReturn
		}
		if sc.Volatility != nil {
			p.Volatility = *sc.Volatility
		}

		eg.Go(func() error {
			res, err := a.calc.GoalProbability(gctx, p)
			if err != nil {
				return fmt.Errorf("scenario %q: %w", sc.Name, err)
			}
			tier := goals.TierForProbability(res.ProbabilityPercent)
			results[i] = ScenarioResult{
				Name:                sc.Name,
				MonthlyContribution: money.Round(p.MonthlyContribution),
				ExpectedReturn:      p.ExpectedReturn,
				Volatility:          p.Volatility,
				ProbabilityPercent:  res.ProbabilityPercent,
				MedianValue:         res.Percentiles.P50,
				Shortfall:           money.Round(math.Max(0, p.TargetValue-res.Percentiles.P50)),
				Status:              tier,
				Color:               tier.Color(),
			}
			return nil
		})
	}
	if err := eg.Wait(); err != nil {
		return WhatIfReport{}, err
	}

	report := WhatIfReport{
		GoalID:       g.ID,
		GoalName:     g.Name,
		CurrentValue: money.Round(currentValue),
		TargetValue:  money.Round(g.TargetValue),
		YearsToGoal:  money.Round(base.YearsToGoal),
		Scenarios:    results,
	}

	best := 0
	for i := range results {
		if results[i].ProbabilityPercent > results[best].ProbabilityPercent {
			best = i
		}
	}
	report.Best = &results[best]

	return report, nil
}
