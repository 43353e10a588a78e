package engine

import (
	"fmt"
	"math/rand"
	"time"

	"goalplan-mcp/internal/goals"
	"goalplan-mcp/internal/money"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

type GeneratorConfig struct {
	Scenario string // "healthy", "mixed" or "stressed"
	UserID   string
	Count    int
	Seed     int64
	Now      time.Time
}

// funding bounds the starting value, as a share of target, and the monthly
// contribution, as a share of what closes the remaining gap without growth.
type funding struct {
	minFunded, maxFunded   float64
	minCovered, maxCovered float64
	pausedShare            float64
}

var scenarios = map[string]funding{
	"healthy":  {minFunded: 0.40, maxFunded: 0.85, minCovered: 0.80, maxCovered: 1.20},
	"mixed":    {minFunded: 0.05, maxFunded: 0.75, minCovered: 0.25, maxCovered: 1.10, pausedShare: 0.15},
	"stressed": {minFunded: 0.01, maxFunded: 0.25, minCovered: 0.05, maxCovered: 0.45, pausedShare: 0.10},
}

var templates = []struct {
	name      string
	category  string
	minTarget float64
	maxTarget float64
	minYears  int
	maxYears  int
}{
	{"Emergency fund", "emergency_fund", 5000, 20000, 1, 3},
	{"House deposit", "property", 20000, 80000, 3, 8},
	{"Retirement", "retirement", 250000, 900000, 10, 30},
	{"Children's education", "education", 20000, 90000, 5, 18},
	{"Car replacement", "purchase", 8000, 30000, 1, 5},
	{"Wedding", "lifestyle", 10000, 35000, 1, 4},
	{"Sabbatical", "lifestyle", 10000, 40000, 2, 6},
}

// Scenarios lists the recognised scenario names.
func Scenarios() []string {
	return []string{"healthy", "mixed", "stressed"}
}

// Generate builds a deterministic goal portfolio for cfg.Seed.
func Generate(cfg GeneratorConfig) ([]goals.Goal, error) {
	f, ok := scenarios[cfg.Scenario]
	if !ok {
		return nil, fmt.Errorf("unknown scenario %q", cfg.Scenario)
	}
	if cfg.Count <= 0 {
		return nil, fmt.Errorf("count must be positive, got %d", cfg.Count)
	}
	if cfg.UserID == "" {
		cfg.UserID = "mock-user"
	}
	if cfg.Now.IsZero() {
		cfg.Now = time.Now().UTC()
	}

	r := rand.New(rand.NewSource(cfg.Seed))
	between := func(lo, hi float64) float64 { return lo + r.Float64()*(hi-lo) }

	out := make([]goals.Goal, 0, cfg.Count)
	for i := 0; i < cfg.Count; i++ {
		t := templates[i%len(templates)]
		id, err := uuid.NewRandomFromReader(r)
		if err != nil {
			return nil, err
		}

		name := t.name
		if i >= len(templates) {
			name = fmt.Sprintf("%s %d", t.name, i/len(templates)+1)
		}

		years := t.minYears + r.Intn(t.maxYears-t.minYears+1)
		target := roundTo(between(t.minTarget, t.maxTarget), 1000)
		current := money.Round(target * between(f.minFunded, f.maxFunded))
		gap := (target - current) / float64(years*12)
		contribution := roundTo(gap*between(f.minCovered, f.maxCovered), 10)

		g := goals.Goal{
			ID:                  id,
			UserID:              cfg.UserID,
			Name:                name,
			Category:            t.category,
			CurrentValue:        current,
			TargetValue:         target,
			TargetDate:          cfg.Now.AddDate(years, 0, 0),
			MonthlyContribution: contribution,
			Status:              goals.StatusActive,
			CreatedAt:           cfg.Now,
			UpdatedAt:           cfg.Now,
		}

		// Long-horizon goals carry their own growth assumptions.
		if years >= 10 {
			ret := ratio(between(0.05, 0.08))
			vol := ratio(between(0.12, 0.18))
			g.ExpectedReturn, g.Volatility = &ret, &vol
		}
		if r.Float64() < f.pausedShare {
			g.Status = goals.StatusPaused
		}
		out = append(out, g)
	}
	return out, nil
}

// Save writes the portfolio to dir in the goal store's on-disk format.
func Save(dir, userID string, portfolio []goals.Goal) error {
	store := goals.NewStore()
	for _, g := range portfolio {
		store.Put(g)
	}
	return store.Save(dir, userID)
}

func ratio(v float64) float64 {
	return decimal.NewFromFloat(v).Round(3).InexactFloat64()
}

func roundTo(v, step float64) float64 {
	return float64(int64(v/step+0.5)) * step
}
