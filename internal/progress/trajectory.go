package progress

import (
	"time"

	"goalplan-mcp/internal/money"
)

// TrajectoryPoint is a checkpoint on the expected-case path.
type TrajectoryPoint struct {
	Month         int     `json:"month"`
	Date          string  `json:"date"`
	Value         float64 `json:"value"`
	Contributions float64 `json:"contributions"`
}

// Trajectory is the deterministic projection of a goal at its expected
// return, with no sampling.
type Trajectory struct {
	Months             int               `json:"months"`
	ProjectedValue     float64           `json:"projected_value"`
	TotalContributions float64           `json:"total_contributions"`
	ProjectedGrowth    float64           `json:"projected_growth"`
	Difference         float64           `json:"difference"` // projected - target
	OnTrack            bool              `json:"on_track"`
	Checkpoints        []TrajectoryPoint `json:"checkpoints"`
}

// expectedPath compounds the current value monthly and returns the balance at
// the end of each month, contribution included.
func expectedPath(current, contribution, annualReturn float64, months int) []float64 {
	monthlyReturn := annualReturn / 12
	path := make([]float64, months)
	value := current
	for m := 0; m < months; m++ {
		value = value*(1+monthlyReturn) + contribution
		path[m] = value
	}
	return path
}

func buildTrajectory(path []float64, current, contribution, target float64, now time.Time) Trajectory {
	months := len(path)
	projected := current
	if months > 0 {
		projected = path[months-1]
	}
	contributed := contribution * float64(months)

	var checkpoints []TrajectoryPoint
	for m := 1; m <= months; m++ {
		if m%12 != 0 && m != months {
			continue
		}
		checkpoints = append(checkpoints, TrajectoryPoint{
			Month:         m,
			Date:          now.AddDate(0, m, 0).Format("2006-01-02"),
			Value:         money.Round(path[m-1]),
			Contributions: money.Round(contribution * float64(m)),
		})
	}

	return Trajectory{
		Months:             months,
		ProjectedValue:     money.Round(projected),
		TotalContributions: money.Round(contributed),
		ProjectedGrowth:    money.Round(projected - current - contributed),
		Difference:         money.Round(projected - target),
		OnTrack:            projected >= target,
		Checkpoints:        checkpoints,
	}
}
