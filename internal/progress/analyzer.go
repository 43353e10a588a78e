package progress

import (
	"context"
	"fmt"
	"math"
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

// GoalSource lists the active goals of a user.
type GoalSource interface {
	Active(userID string) []goals.Goal
}

// Kind distinguishes forward projections from goals whose date has passed.
type Kind string

const (
	KindInProgress Kind = "in_progress"
	KindCompleted  Kind = "completed"
)

const onTrackProbability = 85

// StatusReport is the on-track classification of a goal.
type StatusReport struct {
	Code    goals.Tier `json:"code"`
	Label   string     `json:"label"`
	Color   string     `json:"color"`
	Message string     `json:"message"`
}

// Assumptions are the inputs a projection ran with.
type Assumptions struct {
	MonthlyContribution float64 `json:"monthly_contribution"`
	ExpectedReturn      float64 `json:"expected_return"`
	Volatility          float64 `json:"volatility"`
}

// Completion summarises a goal whose target date has been reached.
type Completion struct {
	Outcome     string  `json:"outcome"` // achieved or shortfall
	FinalValue  float64 `json:"final_value"`
	TargetValue float64 `json:"target_value"`
	Surplus     float64 `json:"surplus"`
	Shortfall   float64 `json:"shortfall"`
	Message     string  `json:"message"`
}

// Report is the progress analysis of a single goal.
type Report struct {
	GoalID            uuid.UUID           `json:"goal_id"`
	GoalName          string              `json:"goal_name"`
	Kind              Kind                `json:"kind"`
	CurrentValue      float64             `json:"current_value"`
	TargetValue       float64             `json:"target_value"`
	TargetDate        string              `json:"target_date"`
	ProgressPercent   float64             `json:"progress_percent"`
	TimeRemaining     goals.TimeRemaining `json:"time_remaining"`
	TimeRemainingText string              `json:"time_remaining_text"`

	Assumptions          *Assumptions                   `json:"assumptions,omitempty"`
	Probability          *simulation.Result             `json:"probability,omitempty"`
	Status               *StatusReport                  `json:"status,omitempty"`
	RequiredContribution *simulation.ContributionResult `json:"required_contribution,omitempty"`
	Trajectory           *Trajectory                    `json:"trajectory,omitempty"`
	Milestones           []Milestone                    `json:"milestones,omitempty"`
	Recommendations      []Recommendation               `json:"recommendations,omitempty"`
	Completion           *Completion                    `json:"completion,omitempty"`
}

// Analyzer produces point-in-time progress reports for goals.
type Analyzer struct {
	calc   ProbabilityCalculator
	source GoalSource
	cfg    simulation.Config
	now    func() time.Time
}

// NewAnalyzer creates an analyzer. cfg supplies the iteration count, target
// probability and the default return and volatility for goals that do not
// set their own.
func NewAnalyzer(calc ProbabilityCalculator, source GoalSource, cfg simulation.Config) *Analyzer {
	return &Analyzer{
		calc:   calc,
		source: source,
		cfg:    cfg,
		now:    time.Now,
	}
}

// WithClock replaces the analyzer's notion of "now".
func (a *Analyzer) WithClock(now func() time.Time) *Analyzer {
	a.now = now
	return a
}

// AnalyzeGoalProgress analyses a goal at its stored current value.
func (a *Analyzer) AnalyzeGoalProgress(ctx context.Context, g goals.Goal) (Report, error) {
	if err := g.Validate(); err != nil {
		return Report{}, err
	}

	now := a.now()
	remaining := g.TimeRemaining(now)

	report := Report{
		GoalID:            g.ID,
		GoalName:          g.Name,
		CurrentValue:      money.Round(g.CurrentValue),
		TargetValue:       money.Round(g.TargetValue),
		TargetDate:        g.TargetDate.Format("2006-01-02"),
		ProgressPercent:   money.RoundPercent(g.CurrentValue / g.TargetValue * 100),
		TimeRemaining:     remaining,
		TimeRemainingText: remaining.String(),
	}

	if remaining.Expired() {
		report.Kind = KindCompleted
		report.Completion = complete(g)
		return report, nil
	}
	report.Kind = KindInProgress

	expectedReturn, volatility := g.Assumptions(a.cfg.DefaultExpectedReturn, a.cfg.DefaultVolatility)
	report.Assumptions = &Assumptions{
		MonthlyContribution: g.MonthlyContribution,
		ExpectedReturn:      expectedReturn,
		Volatility:          volatility,
	}

	params := simulation.Params{
		CurrentValue:        g.CurrentValue,
		TargetValue:         g.TargetValue,
		MonthlyContribution: g.MonthlyContribution,
		ExpectedReturn:      expectedReturn,
		Volatility:          volatility,
		YearsToGoal:         remaining.TotalYears,
		Iterations:          a.cfg.Iterations,
	}

	sim, err := a.calc.GoalProbability(ctx, params)
	if err != nil {
		return Report{}, fmt.Errorf("failed to simulate goal %s: %w", g.ID, err)
	}
	report.Probability = &sim

	progress := g.CurrentValue / g.TargetValue * 100
	tier := classify(sim.ProbabilityPercent, progress, remaining.TotalYears)
	report.Status = &StatusReport{
		Code:    tier,
		Label:   tier.Label(),
		Color:   tier.Color(),
		Message: statusMessage(tier, sim.ProbabilityPercent, g),
	}

	if sim.ProbabilityPercent < onTrackProbability {
		required, err := a.calc.RequiredContribution(ctx, params, a.cfg.TargetProbability)
		if err != nil {
			return Report{}, fmt.Errorf("failed to solve contribution for goal %s: %w", g.ID, err)
		}
		report.RequiredContribution = &required
	}

	path := expectedPath(g.CurrentValue, g.MonthlyContribution, expectedReturn, params.Months())
	trajectory := buildTrajectory(path, g.CurrentValue, g.MonthlyContribution, g.TargetValue, now)
	report.Trajectory = &trajectory
	report.Milestones = buildMilestones(g.CurrentValue, g.TargetValue, path, now)
	report.Recommendations = recommend(tier, g, remaining.TotalYears, report.RequiredContribution)

	log.Debug().
		Str("goal", g.ID.String()).
		Float64("probability", sim.ProbabilityPercent).
		Str("status", string(tier)).
		Msg("Goal progress analysed")

	return report, nil
}

// classify applies the status decision table. Order matters: early-stage
// goals with a long horizon stay green despite low progress.
func classify(probability, progress, years float64) goals.Tier {
	switch {
	case probability >= 85 && progress >= 50:
		return goals.TierOnTrack
	case probability >= 85 && years > 10:
		return goals.TierOnTrack
	case probability >= 60 || (progress >= 40 && probability >= 50):
		return goals.TierAttention
	default:
		return goals.TierCritical
	}
}

func statusMessage(tier goals.Tier, probability float64, g goals.Goal) string {
	target := money.FormatWhole(g.TargetValue)
	date := g.TargetDate.Format("January 2006")

	switch tier {
	case goals.TierOnTrack:
		return fmt.Sprintf("On track: %.0f%% probability of reaching %s by %s.", probability, target, date)
	case goals.TierAttention:
		return fmt.Sprintf("Needs attention: %.0f%% probability of reaching %s by %s. Small changes could improve your chances.", probability, target, date)
	default:
		return fmt.Sprintf("Critical: only %.0f%% probability of reaching %s by %s. Significant changes are needed.", probability, target, date)
	}
}

func complete(g goals.Goal) *Completion {
	c := &Completion{
		FinalValue:  money.Round(g.CurrentValue),
		TargetValue: money.Round(g.TargetValue),
	}
	diff := g.CurrentValue - g.TargetValue
	if diff >= 0 {
		c.Outcome = "achieved"
		c.Surplus = money.Round(diff)
		c.Message = fmt.Sprintf("Goal achieved: %s reached against a %s target, a surplus of %s.",
			money.FormatWhole(g.CurrentValue), money.FormatWhole(g.TargetValue), money.FormatWhole(diff))
	} else {
		c.Outcome = "shortfall"
		c.Shortfall = money.Round(math.Abs(diff))
		c.Message = fmt.Sprintf("Target date passed with %s saved against a %s target, a shortfall of %s.",
			money.FormatWhole(g.CurrentValue), money.FormatWhole(g.TargetValue), money.FormatWhole(-diff))
	}
	return c
}
