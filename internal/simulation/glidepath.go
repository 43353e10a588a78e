package simulation

import (
	"fmt"
	"math"
)

// GlidePathResult is the recommended equity allocation for a horizon.
type GlidePathResult struct {
	YearsToGoal              float64 `json:"years_to_goal"`
	CurrentEquityPercent     float64 `json:"current_equity_percent"`
	RecommendedEquityPercent float64 `json:"recommended_equity_percent"`
	Difference               float64 `json:"difference"`
	RebalanceNeeded          bool    `json:"rebalance_needed"`
	Rationale                string  `json:"rationale"`
}

// rebalanceThreshold is the allowed drift, in percentage points, before a
// rebalance is suggested.
const rebalanceThreshold = 10

// CalculateGlidePath looks up the model equity allocation for the years left
// to a goal.
func CalculateGlidePath(yearsToGoal, currentEquityPercent float64) GlidePathResult {
	var recommended float64
	var rationale string

	switch {
	case yearsToGoal >= 10:
		recommended = 80
		rationale = "With 10 or more years to go there is time to recover from downturns, so a growth-oriented allocation is appropriate."
	case yearsToGoal >= 5:
		recommended = 65
		rationale = "With 5 to 10 years to go, start moderating equity exposure while keeping meaningful growth potential."
	case yearsToGoal >= 2:
		recommended = 40
		rationale = "With 2 to 5 years to go, capital preservation becomes more important than growth."
	default:
		recommended = 20
		rationale = "With less than 2 years to go, protect the amount already saved; a market fall now may not have time to recover."
	}

	diff := currentEquityPercent - recommended
	needed := math.Abs(diff) > rebalanceThreshold
	if needed {
		direction := "reduce"
		if diff < 0 {
			direction = "increase"
		}
		rationale += fmt.Sprintf(" Consider rebalancing to %s equity exposure from %.0f%% towards %.0f%%.", direction, currentEquityPercent, recommended)
	}

	return GlidePathResult{
		YearsToGoal:              yearsToGoal,
		CurrentEquityPercent:     currentEquityPercent,
		RecommendedEquityPercent: recommended,
		Difference:               diff,
		RebalanceNeeded:          needed,
		Rationale:                rationale,
	}
}
