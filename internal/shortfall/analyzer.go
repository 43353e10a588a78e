package shortfall

import (
	"context"
	"fmt"
	"time"

	"goalplan-mcp/internal/goals"
	"goalplan-mcp/internal/money"
	"goalplan-mcp/internal/simulation"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
)

// ProbabilityCalculator is the subset of the simulation calculator the
// analyzer needs.
type ProbabilityCalculator interface {
	GoalProbability(ctx context.Context, p simulation.Params) (simulation.Result, error)
	RequiredContribution(ctx context.Context, p simulation.Params, targetProbability float64) (simulation.ContributionResult, error)
}

const (
	sufficientProbability = 85
	acceptableProbability = 75
)

// Report is the shortfall analysis of a goal.
type Report struct {
	GoalID            uuid.UUID         `json:"goal_id"`
	GoalName          string            `json:"goal_name"`
	HasShortfall      bool              `json:"has_shortfall"`
	CurrentValue      float64           `json:"current_value"`
	TargetValue       float64           `json:"target_value"`
	YearsToGoal       float64           `json:"years_to_goal"`
	BaseProbability   float64           `json:"base_probability"`
	Baseline          simulation.Result `json:"baseline"`
	ExpectedShortfall float64           `json:"expected_shortfall,omitempty"`
	Strategies        []Strategy        `json:"strategies,omitempty"`
	Sensitivity       *Sensitivity      `json:"sensitivity,omitempty"`
	Recommendation    *Recommendation   `json:"recommendation,omitempty"`
	Message           string            `json:"message"`
	Params            simulation.Params `json:"params"`
}

// Recommendation is the strategy put forward for a goal with a shortfall.
type Recommendation struct {
	Strategy         StrategyKind `json:"strategy"`
	Title            string       `json:"title"`
	Priority         string       `json:"priority"` // high, medium, low
	ProbabilityAfter float64      `json:"probability_after"`
	Message          string       `json:"message"`
}

// Analyzer works out how a goal's shortfall could be closed.
type Analyzer struct {
	calc ProbabilityCalculator
	cfg  simulation.Config
	now  func() time.Time
}

// NewAnalyzer creates an analyzer backed by calc.
func NewAnalyzer(calc ProbabilityCalculator, cfg simulation.Config) *Analyzer {
	return &Analyzer{calc: calc, cfg: cfg, now: time.Now}
}

// WithClock replaces the analyzer's notion of "now".
func (a *Analyzer) WithClock(now func() time.Time) *Analyzer {
	a.now = now
	return a
}

// params builds the baseline simulation inputs for g valued at currentValue.
func (a *Analyzer) params(g goals.Goal, currentValue float64) (simulation.Params, error) {
	if err := g.Validate(); err != nil {
		return simulation.Params{}, err
	}
	expectedReturn, volatility := g.Assumptions(a.cfg.DefaultExpectedReturn, a.cfg.DefaultVolatility)
	p := simulation.Params{
		CurrentValue:        currentValue,
		TargetValue:         g.TargetValue,
		MonthlyContribution: g.MonthlyContribution,
		ExpectedReturn:      expectedReturn,
		Volatility:          volatility,
		YearsToGoal:         g.TimeRemaining(a.now()).TotalYears,
		Iterations:          a.cfg.Iterations,
	}
	return p, p.Validate()
}

// AnalyzeShortfall checks whether g, valued at currentValue, is likely to
// fall short and if so ranks the ways to close the gap. Goals that already
// meet the threshold return immediately without any further simulation.
func (a *Analyzer) AnalyzeShortfall(ctx context.Context, g goals.Goal, currentValue float64) (Report, error) {
	p, err := a.params(g, currentValue)
	if err != nil {
		return Report{}, err
	}

	base, err := a.calc.GoalProbability(ctx, p)
	if err != nil {
		return Report{}, fmt.Errorf("failed to simulate baseline for goal %s: %w", g.ID, err)
	}

	report := Report{
		GoalID:          g.ID,
		GoalName:        g.Name,
		CurrentValue:    money.Round(currentValue),
		TargetValue:     money.Round(g.TargetValue),
		YearsToGoal:     money.Round(p.YearsToGoal),
		BaseProbability: base.ProbabilityPercent,
		Baseline:        base,
		Params:          p,
	}

	if base.ProbabilityPercent >= sufficientProbability {
		report.Message = fmt.Sprintf("No shortfall expected: %.0f%% probability of reaching %s.",
			base.ProbabilityPercent, money.FormatWhole(g.TargetValue))
		return report, nil
	}

	report.HasShortfall = true
	shortfall := g.TargetValue - base.Percentiles.P50
	report.ExpectedShortfall = money.Round(shortfall)

	strategies, err := a.strategies(ctx, p, base.ProbabilityPercent)
	if err != nil {
		return Report{}, err
	}
	report.Strategies = strategies

	sensitivity, err := a.sensitivity(ctx, p, base.ProbabilityPercent)
	if err != nil {
		return Report{}, err
	}
	report.Sensitivity = &sensitivity

	report.Recommendation = recommend(strategies, shortfall)
	report.Message = fmt.Sprintf("%.0f%% probability of reaching %s; the median outcome falls %s short.",
		base.ProbabilityPercent, money.FormatWhole(g.TargetValue), money.FormatWhole(shortfall))

	log.Debug().
		Str("goal", g.ID.String()).
		Float64("probability", base.ProbabilityPercent).
		Float64("shortfall", shortfall).
		Msg("Shortfall analysed")

	return report, nil
}

// recommend takes the first strategy that is both effective and easy, then
// one that is good enough and moderately easy, then simply the best one.
// strategies must be sorted by probability, best first.
func recommend(strategies []Strategy, shortfall float64) *Recommendation {
	if len(strategies) == 0 {
		return nil
	}

	pick := strategies[0]
	found := false
	for _, s := range strategies {
		if s.ProbabilityAfter >= sufficientProbability && s.Feasibility == FeasibilityHigh {
			pick, found = s, true
			break
		}
	}
	if !found {
		for _, s := range strategies {
			if s.ProbabilityAfter >= acceptableProbability && s.Feasibility == FeasibilityMedium {
				pick = s
				break
			}
		}
	}

	return &Recommendation{
		Strategy:         pick.Kind,
		Title:            pick.Title,
		Priority:         priority(shortfall),
		ProbabilityAfter: pick.ProbabilityAfter,
		Message:          fmt.Sprintf("Recommended: %s. %s", pick.Title, pick.Description),
	}
}

func priority(shortfall float64) string {
	switch {
	case shortfall > 50000:
		return "high"
	case shortfall > 20000:
		return "medium"
	default:
		return "low"
	}
}
