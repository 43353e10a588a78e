package simulation

import (
	"errors"
	"math"
)

// ErrInvalidInput marks parameters the simulation cannot project, such as a
// non-positive horizon.
var ErrInvalidInput = errors.New("invalid input")

// Config holds the tunable budgets of the probability calculator.
type Config struct {
	Iterations        int     // trials per probability estimate
	MaxIterations     int     // largest trial count a caller may request
	SolverIterations  int     // trials per bisection probe
	SolverTolerance   float64 // GBP bracket width that ends the search
	SolverMaxSteps    int     // bisection step budget
	TargetProbability float64 // ratio, e.g. 0.85
	Seed              int64   // 0 draws a seed from the clock
	Workers           int     // 0 uses GOMAXPROCS

	DefaultExpectedReturn float64
	DefaultVolatility     float64
}

// DefaultConfig returns the production budgets.
func DefaultConfig() Config {
	return Config{
		Iterations:            1000,
		MaxIterations:         100000,
		SolverIterations:      500,
		SolverTolerance:       10,
		SolverMaxSteps:        20,
		TargetProbability:     0.85,
		DefaultExpectedReturn: 0.06,
		DefaultVolatility:     0.15,
	}
}

func (c Config) withDefaults() Config {
	d := DefaultConfig()
	if c.Iterations <= 0 {
		c.Iterations = d.Iterations
	}
	if c.SolverIterations <= 0 {
		c.SolverIterations = d.SolverIterations
	}
	if c.MaxIterations <= 0 {
		c.MaxIterations = d.MaxIterations
	}
	c.MaxIterations = max(c.MaxIterations, c.Iterations, c.SolverIterations)
	if c.SolverTolerance <= 0 {
		c.SolverTolerance = d.SolverTolerance
	}
	if c.SolverMaxSteps <= 0 {
		c.SolverMaxSteps = d.SolverMaxSteps
	}
	if c.TargetProbability <= 0 || c.TargetProbability > 1 {
		c.TargetProbability = d.TargetProbability
	}
	return c
}

// Limits accepted by Params.Validate.
const (
	MaxValue          = 1e12
	MaxYearsToGoal    = 100
	MaxExpectedReturn = 1.0 // absolute annual ratio
	MaxVolatility     = 5.0
)

// Params describes one goal projection.
type Params struct {
	CurrentValue        float64 `json:"current_value"`
	TargetValue         float64 `json:"target_value"`
	MonthlyContribution float64 `json:"monthly_contribution"`
	ExpectedReturn      float64 `json:"expected_return"`
	Volatility          float64 `json:"volatility"`
	YearsToGoal         float64 `json:"years_to_goal"`
	Iterations          int     `json:"iterations,omitempty"`
}

// Months is the number of monthly steps in the horizon. A partial final
// month counts as a full step.
func (p Params) Months() int {
	return int(math.Ceil(p.YearsToGoal*12 - 1e-9))
}

// Validate reports ErrInvalidInput for parameters that cannot be projected.
func (p Params) Validate() error {
	for _, f := range []struct {
		name  string
		value float64
	}{
		{"current value", p.CurrentValue},
		{"target value", p.TargetValue},
		{"monthly contribution", p.MonthlyContribution},
		{"expected return", p.ExpectedReturn},
		{"volatility", p.Volatility},
		{"years to goal", p.YearsToGoal},
	} {
		if math.IsNaN(f.value) || math.IsInf(f.value, 0) {
			return errorf("%s must be a finite number, got %v", f.name, f.value)
		}
	}

	switch {
	case p.YearsToGoal <= 0:
		return errorf("years to goal must be positive, got %v", p.YearsToGoal)
	case p.YearsToGoal > MaxYearsToGoal:
		return errorf("years to goal must be at most %d, got %v", MaxYearsToGoal, p.YearsToGoal)
	case p.TargetValue < 0 || p.TargetValue > MaxValue:
		return errorf("target value must be between 0 and %.0f, got %v", MaxValue, p.TargetValue)
	case p.CurrentValue < 0 || p.CurrentValue > MaxValue:
		return errorf("current value must be between 0 and %.0f, got %v", MaxValue, p.CurrentValue)
	case p.MonthlyContribution < 0 || p.MonthlyContribution > MaxValue:
		return errorf("monthly contribution must be between 0 and %.0f, got %v", MaxValue, p.MonthlyContribution)
	case math.Abs(p.ExpectedReturn) > MaxExpectedReturn:
		return errorf("expected return must be within ±%v, got %v", MaxExpectedReturn, p.ExpectedReturn)
	case p.Volatility < 0 || p.Volatility > MaxVolatility:
		return errorf("volatility must be between 0 and %v, got %v", MaxVolatility, p.Volatility)
	case p.Iterations < 0:
		return errorf("iterations must not be negative, got %d", p.Iterations)
	}
	return nil
}

// Bounded clamps a derived projection (a stressed return, a longer horizon)
// to the limits Validate accepts.
func (p Params) Bounded() Params {
	p.ExpectedReturn = math.Max(-MaxExpectedReturn, math.Min(p.ExpectedReturn, MaxExpectedReturn))
	p.Volatility = math.Min(p.Volatility, MaxVolatility)
	p.YearsToGoal = math.Min(p.YearsToGoal, MaxYearsToGoal)
	p.MonthlyContribution = math.Min(p.MonthlyContribution, MaxValue)
	p.TargetValue = math.Min(p.TargetValue, MaxValue)
	return p
}
