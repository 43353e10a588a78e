package progress

import (
	"context"
	"errors"
	"fmt"

	"goalplan-mcp/internal/goals"
	"goalplan-mcp/internal/money"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
	"golang.org/x/sync/errgroup"
)

// maxConcurrentGoals bounds how many goal analyses run at once.
const maxConcurrentGoals = 4

// GoalFailure records a goal that could not be analysed.
type GoalFailure struct {
	GoalID   uuid.UUID `json:"goal_id"`
	GoalName string    `json:"goal_name"`
	Error    string    `json:"error"`
}

// Summary aggregates the progress of all active goals of a user.
type Summary struct {
	UserID                 string        `json:"user_id"`
	TotalGoals             int           `json:"total_goals"`
	OnTrack                int           `json:"on_track"`
	Attention              int           `json:"attention"`
	Critical               int           `json:"critical"`
	Completed              int           `json:"completed"`
	AverageProbability     float64       `json:"average_probability"`
	TotalCurrentValue      float64       `json:"total_current_value"`
	TotalTargetValue       float64       `json:"total_target_value"`
	OverallProgressPercent float64       `json:"overall_progress_percent"`
	OverallStatus          goals.Tier    `json:"overall_status"`
	OverallColor           string        `json:"overall_color"`
	Message                string        `json:"message"`
	Goals                  []Report      `json:"goals"`
	Failures               []GoalFailure `json:"failures,omitempty"`
}

// AnalyzeAllGoals reports on every active goal of a user. Goals that fail
// validation are listed as failures rather than aborting the summary.
func (a *Analyzer) AnalyzeAllGoals(ctx context.Context, userID string) (Summary, error) {
	active := a.source.Active(userID)
	summary := Summary{UserID: userID, TotalGoals: len(active)}

	if len(active) == 0 {
		summary.OverallStatus = goals.TierNone
		summary.OverallColor = goals.TierNone.Color()
		summary.Message = "No active goals found."
		return summary, nil
	}

	reports := make([]Report, len(active))
	errs := make([]error, len(active))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(maxConcurrentGoals)
	for i, goal := range active {
		g.Go(func() error {
			report, err := a.AnalyzeGoalProgress(gctx, goal)
			if err != nil {
				if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
					return err
				}
				errs[i] = err
				return nil
			}
			reports[i] = report
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return Summary{}, err
	}

	probabilitySum := 0.0
	withProbability := 0
	for i, goal := range active {
		if !errors.Is(errs[i], goals.ErrInvalidGoal) {
			summary.TotalCurrentValue += goal.CurrentValue
			summary.TotalTargetValue += goal.TargetValue
		}

		if errs[i] != nil {
			log.Warn().Err(errs[i]).Str("goal", goal.ID.String()).Msg("Skipping goal in summary")
			summary.Failures = append(summary.Failures, GoalFailure{GoalID: goal.ID, GoalName: goal.Name, Error: errs[i].Error()})
			continue
		}

		report := reports[i]
		summary.Goals = append(summary.Goals, report)

		if report.Kind == KindCompleted {
			summary.Completed++
			continue
		}

		probabilitySum += report.Probability.ProbabilityPercent
		withProbability++
		switch report.Status.Code {
		case goals.TierOnTrack:
			summary.OnTrack++
		case goals.TierAttention:
			summary.Attention++
		case goals.TierCritical:
			summary.Critical++
		}
	}

	if withProbability > 0 {
		summary.AverageProbability = money.RoundPercent(probabilitySum / float64(withProbability))
	}
	if summary.TotalTargetValue > 0 {
		summary.OverallProgressPercent = money.RoundPercent(summary.TotalCurrentValue / summary.TotalTargetValue * 100)
	}
	summary.TotalCurrentValue = money.Round(summary.TotalCurrentValue)
	summary.TotalTargetValue = money.Round(summary.TotalTargetValue)

	summary.OverallStatus = overallStatus(summary.OnTrack, summary.Attention, summary.Critical, summary.Completed)
	summary.OverallColor = summary.OverallStatus.Color()
	summary.Message = fmt.Sprintf("%d of %d projected goals on track, %d need attention, %d critical; %d completed.",
		summary.OnTrack, withProbability, summary.Attention, summary.Critical, summary.Completed)

	return summary, nil
}

// overallStatus is red when more than half of the projected goals are
// critical and green when at least three quarters are on track.
func overallStatus(onTrack, attention, critical, completed int) goals.Tier {
	projected := onTrack + attention + critical
	if projected == 0 {
		if completed > 0 {
			return goals.TierOnTrack
		}
		return goals.TierNone
	}

	switch {
	case float64(critical)/float64(projected) > 0.5:
		return goals.TierCritical
	case float64(onTrack)/float64(projected) >= 0.75:
		return goals.TierOnTrack
	default:
		return goals.TierAttention
	}
}
