package progress

import (
	"fmt"

	"goalplan-mcp/internal/goals"
	"goalplan-mcp/internal/money"
	"goalplan-mcp/internal/simulation"
)

// Recommendation is a suggested action for a goal.
type Recommendation struct {
	Priority    string `json:"priority"` // high, medium, low
	Category    string `json:"category"`
	Title       string `json:"title"`
	Description string `json:"description"`
}

// deRiskHorizon is the number of years at which on-track goals are nudged
// towards the glide path.
const deRiskHorizon = 5

func recommend(tier goals.Tier, g goals.Goal, years float64, required *simulation.ContributionResult) []Recommendation {
	var recs []Recommendation

	switch tier {
	case goals.TierOnTrack:
		recs = append(recs, Recommendation{
			Priority:    "low",
			Category:    "contribution",
			Title:       "Maintain your current plan",
			Description: fmt.Sprintf("Keep contributing %s per month and review the goal annually.", money.Format(g.MonthlyContribution)),
		})
		if years <= deRiskHorizon {
			glide := simulation.CalculateGlidePath(years, 0)
			recs = append(recs, Recommendation{
				Priority:    "medium",
				Category:    "allocation",
				Title:       "Consider de-risking",
				Description: fmt.Sprintf("With %.1f years to go, consider moving towards around %.0f%% equities to protect the progress already made.", years, glide.RecommendedEquityPercent),
			})
		}

	case goals.TierAttention:
		recs = append(recs, Recommendation{
			Priority:    "high",
			Category:    "contribution",
			Title:       "Increase your monthly contribution",
			Description: contributionAdvice(g, required),
		})
		recs = append(recs, Recommendation{
			Priority:    "medium",
			Category:    "allocation",
			Title:       "Review your investment allocation",
			Description: "Check that the asset mix still matches the time left to the goal and your attitude to risk.",
		})

	case goals.TierCritical:
		recs = append(recs, Recommendation{
			Priority:    "high",
			Category:    "review",
			Title:       "Urgent review needed",
			Description: "The goal is unlikely to be met on the current plan. Consider combining the options below.",
		})
		recs = append(recs, Recommendation{
			Priority:    "high",
			Category:    "contribution",
			Title:       "Increase your monthly contribution",
			Description: contributionAdvice(g, required),
		})
		recs = append(recs, Recommendation{
			Priority:    "medium",
			Category:    "timeline",
			Title:       "Extend the target date",
			Description: "Giving the goal more time lets both contributions and growth do more of the work.",
		})
		recs = append(recs, Recommendation{
			Priority:    "medium",
			Category:    "target",
			Title:       "Revisit the target amount",
			Description: fmt.Sprintf("A smaller target than %s may be more realistic.", money.FormatWhole(g.TargetValue)),
		})
		recs = append(recs, Recommendation{
			Priority:    "low",
			Category:    "allocation",
			Title:       "Review your investment strategy",
			Description: "A higher-growth allocation can raise expected returns, but it also increases volatility.",
		})
	}

	return recs
}

func contributionAdvice(g goals.Goal, required *simulation.ContributionResult) string {
	if required == nil || required.IncreaseNeeded <= 0 {
		return "Even a modest increase in monthly contributions will improve the probability of success."
	}
	return fmt.Sprintf("Increasing your contribution by %s to %s per month would give around a %.0f%% probability of success.",
		money.Format(required.IncreaseNeeded), money.Format(required.RequiredContribution), required.TargetProbability)
}
