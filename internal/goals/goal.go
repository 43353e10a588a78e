package goals

import (
	"errors"
	"fmt"
	"math"
	"time"

	"github.com/google/uuid"
)

// ErrIncompleteGoal marks a goal that lacks the target value or date needed
// for projection.
var ErrIncompleteGoal = errors.New("incomplete goal")

// ErrInvalidGoal marks a goal holding a value that is not a finite number.
var ErrInvalidGoal = errors.New("invalid goal")

// ErrNotFound is returned when a goal does not exist for a user.
var ErrNotFound = errors.New("goal not found")

// Status is the lifecycle state of a goal.
type Status string

const (
	StatusActive    Status = "active"
	StatusPaused    Status = "paused"
	StatusCompleted Status = "completed"
	StatusAbandoned Status = "abandoned"
)

// Goal is a user-defined monetary target with a date and funding plan.
type Goal struct {
	ID                  uuid.UUID `json:"id" yaml:"id"`
	UserID              string    `json:"user_id" yaml:"user_id"`
	Name                string    `json:"name" yaml:"name"`
	Category            string    `json:"category,omitempty" yaml:"category,omitempty"`
	CurrentValue        float64   `json:"current_value" yaml:"current_value"`
	TargetValue         float64   `json:"target_value" yaml:"target_value"`
	TargetDate          time.Time `json:"target_date" yaml:"target_date"`
	MonthlyContribution float64   `json:"monthly_contribution" yaml:"monthly_contribution"`
	// ExpectedReturn and Volatility are annual ratios. Nil means the caller's
	// default applies.
	ExpectedReturn *float64  `json:"expected_return,omitempty" yaml:"expected_return,omitempty"`
	Volatility     *float64  `json:"volatility,omitempty" yaml:"volatility,omitempty"`
	Status         Status    `json:"status" yaml:"status"`
	CreatedAt      time.Time `json:"created_at" yaml:"created_at,omitempty"`
	UpdatedAt      time.Time `json:"updated_at" yaml:"updated_at,omitempty"`
}

// NewGoal creates an active goal with a fresh ID.
func NewGoal(userID, name string, targetValue float64, targetDate time.Time) *Goal {
	now := time.Now().UTC()
	return &Goal{
		ID:          uuid.New(),
		UserID:      userID,
		Name:        name,
		TargetValue: targetValue,
		TargetDate:  targetDate,
		Status:      StatusActive,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
}

// Validate reports ErrIncompleteGoal when the goal cannot be projected and
// ErrInvalidGoal when one of its amounts or assumptions is NaN or infinite.
func (g Goal) Validate() error {
	amounts := map[string]*float64{
		"current value":        &g.CurrentValue,
		"target value":         &g.TargetValue,
		"monthly contribution": &g.MonthlyContribution,
		"expected return":      g.ExpectedReturn,
		"volatility":           g.Volatility,
	}
	for name, v := range amounts {
		if v != nil && (math.IsNaN(*v) || math.IsInf(*v, 0)) {
			return fmt.Errorf("%w: goal %q has a %s of %v", ErrInvalidGoal, g.Name, name, *v)
		}
	}
	if g.TargetValue <= 0 {
		return fmt.Errorf("%w: goal %q has no target value", ErrIncompleteGoal, g.Name)
	}
	if g.TargetDate.IsZero() {
		return fmt.Errorf("%w: goal %q has no target date", ErrIncompleteGoal, g.Name)
	}
	return nil
}

// IsActive reports whether the goal takes part in portfolio summaries.
func (g Goal) IsActive() bool {
	return g.Status == "" || g.Status == StatusActive
}

// Assumptions resolves the return and volatility, falling back to the given
// defaults when the goal does not set them.
func (g Goal) Assumptions(defaultReturn, defaultVolatility float64) (expectedReturn, volatility float64) {
	expectedReturn, volatility = defaultReturn, defaultVolatility
	if g.ExpectedReturn != nil {
		expectedReturn = *g.ExpectedReturn
	}
	if g.Volatility != nil {
		volatility = *g.Volatility
	}
	return expectedReturn, volatility
}

// TimeRemaining is the span between now and a goal's target date.
type TimeRemaining struct {
	Days       int     `json:"days"`
	TotalYears float64 `json:"total_years"` // days / 365
	Years      int     `json:"years"`
	Months     int     `json:"months"`
}

// Expired reports whether the target date has been reached.
func (t TimeRemaining) Expired() bool {
	return t.TotalYears <= 0
}

// String renders the breakdown, e.g. "3 years, 4 months".
func (t TimeRemaining) String() string {
	if t.Expired() {
		return "target date reached"
	}
	return fmt.Sprintf("%s, %s", plural(t.Years, "year"), plural(t.Months, "month"))
}

// TimeRemaining measures the time from now to the target date.
func (g Goal) TimeRemaining(now time.Time) TimeRemaining {
	days := g.TargetDate.Sub(now).Hours() / 24
	total := days / 365

	tr := TimeRemaining{
		Days:       int(days),
		TotalYears: total,
	}
	if total > 0 {
		tr.Years = int(total)
		tr.Months = int((total - float64(tr.Years)) * 12)
	}
	return tr
}

func plural(n int, unit string) string {
	if n == 1 {
		return fmt.Sprintf("1 %s", unit)
	}
	return fmt.Sprintf("%d %ss", n, unit)
}

// Float returns a pointer to v, for populating optional assumptions.
func Float(v float64) *float64 {
	return &v
}
