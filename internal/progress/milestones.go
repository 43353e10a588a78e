package progress

import (
	"math"
	"time"

	"goalplan-mcp/internal/money"
)

var milestonePercents = []int{25, 50, 75, 90, 100}

// Milestone is a fixed fraction of the target.
type Milestone struct {
	Percent   int     `json:"percent"`
	Amount    float64 `json:"amount"`
	Achieved  bool    `json:"achieved"`
	Remaining float64 `json:"remaining"`
	// ExpectedDate is when the expected-case path first reaches the amount.
	// Empty when achieved already or not reached within the horizon.
	ExpectedDate string `json:"expected_date,omitempty"`
}

func buildMilestones(current, target float64, path []float64, now time.Time) []Milestone {
	milestones := make([]Milestone, 0, len(milestonePercents))
	for _, pct := range milestonePercents {
		amount := target * float64(pct) / 100
		m := Milestone{
			Percent:   pct,
			Amount:    money.Round(amount),
			Achieved:  current >= amount,
			Remaining: money.Round(math.Max(0, amount-current)),
		}
		if !m.Achieved {
			for i, v := range path {
				if v >= amount {
					m.ExpectedDate = now.AddDate(0, i+1, 0).Format("2006-01-02")
					break
				}
			}
		}
		milestones = append(milestones, m)
	}
	return milestones
}
