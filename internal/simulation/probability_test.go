package simulation

import (
	"context"
	"errors"
	"testing"
)

func TestGoalProbability_InvalidHorizon(t *testing.T) {
	calc := newTestCalculator(7)

	for _, years := range []float64{0, -1} {
		_, err := calc.GoalProbability(context.Background(), Params{CurrentValue: 1000, TargetValue: 5000, YearsToGoal: years})
		if !errors.Is(err, ErrInvalidInput) {
			t.Errorf("Expected ErrInvalidInput for %v years, got %v", years, err)
		}
	}
}

func TestGoalProbability_RangeAndOrdering(t *testing.T) {
	calc := newTestCalculator(11)

	cases := []Params{
		{CurrentValue: 0, TargetValue: 100000, MonthlyContribution: 100, ExpectedReturn: 0.04, Volatility: 0.1, YearsToGoal: 5},
		{CurrentValue: 250000, TargetValue: 100000, ExpectedReturn: 0.06, Volatility: 0.2, YearsToGoal: 3},
		{CurrentValue: 10000, TargetValue: 40000, MonthlyContribution: 250, ExpectedReturn: 0.08, Volatility: 0.25, YearsToGoal: 12.5},
		{CurrentValue: 5000, TargetValue: 6000, MonthlyContribution: 0, ExpectedReturn: -0.02, Volatility: 0.3, YearsToGoal: 0.25},
	}

	for i, p := range cases {
		res, err := calc.GoalProbability(context.Background(), p)
		if err != nil {
			t.Fatalf("case %d: unexpected error %v", i, err)
		}
		if res.ProbabilityPercent < 0 || res.ProbabilityPercent > 100 {
			t.Errorf("case %d: probability %v outside [0,100]", i, res.ProbabilityPercent)
		}
		pc := res.Percentiles
		if !(pc.P10 <= pc.P25 && pc.P25 <= pc.P50 && pc.P50 <= pc.P75 && pc.P75 <= pc.P90) {
			t.Errorf("case %d: percentiles out of order: %+v", i, pc)
		}
		if res.Worst > pc.P10 || res.Best < pc.P90 {
			t.Errorf("case %d: extremes %v/%v do not bracket percentiles %+v", i, res.Worst, res.Best, pc)
		}
		if res.Iterations != 1000 {
			t.Errorf("case %d: expected default 1000 iterations, got %d", i, res.Iterations)
		}
	}
}

func TestGoalProbability_ZeroVolatilityIsAllOrNothing(t *testing.T) {
	calc := newTestCalculator(3)

	base := Params{CurrentValue: 100000, MonthlyContribution: 500, ExpectedReturn: 0.05, Volatility: 0, YearsToGoal: 5, Iterations: 2000}

	reachable := base
	reachable.TargetValue = 120000
	res, err := calc.GoalProbability(context.Background(), reachable)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if res.ProbabilityPercent != 100 {
		t.Errorf("Expected 100%% for reachable deterministic goal, got %v", res.ProbabilityPercent)
	}
	if res.Percentiles.P10 != res.Percentiles.P90 || res.Worst != res.Best {
		t.Errorf("Expected identical trajectories, got %+v worst=%v best=%v", res.Percentiles, res.Worst, res.Best)
	}

	unreachable := base
	unreachable.TargetValue = 500000
	res, err = calc.GoalProbability(context.Background(), unreachable)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if res.ProbabilityPercent != 0 {
		t.Errorf("Expected 0%% for unreachable deterministic goal, got %v", res.ProbabilityPercent)
	}
}

func TestGoalProbability_ZeroTargetAlreadyMet(t *testing.T) {
	calc := newTestCalculator(5)

	res, err := calc.GoalProbability(context.Background(), Params{
		CurrentValue: 0, TargetValue: 0, MonthlyContribution: 0,
		ExpectedReturn: 0.06, Volatility: 0.15, YearsToGoal: 10,
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if res.ProbabilityPercent != 100 {
		t.Errorf("Expected 100%% for a zero target, got %v", res.ProbabilityPercent)
	}
}

func TestGoalProbability_EndToEndBand(t *testing.T) {
	calc := newTestCalculator(20240601)

	res, err := calc.GoalProbability(context.Background(), Params{
		CurrentValue:        100000,
		TargetValue:         200000,
		MonthlyContribution: 500,
		ExpectedReturn:      0.06,
		Volatility:          0.15,
		YearsToGoal:         15,
		Iterations:          5000,
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if res.ProbabilityPercent < 50 || res.ProbabilityPercent > 95 {
		t.Errorf("Expected probability in [50,95], got %v", res.ProbabilityPercent)
	}
	if res.Months != 180 {
		t.Errorf("Expected 180 monthly steps, got %d", res.Months)
	}
	if res.Interpretation == "" || res.ConfidenceLevel == "" {
		t.Errorf("Expected interpretation and confidence label, got %+v", res)
	}
}

func TestGoalProbability_MonotonicInContribution(t *testing.T) {
	if testing.Short() {
		t.Skip("large-iteration run")
	}
	calc := newTestCalculator(99)

	prev := -1.0
	for _, contribution := range []float64{0, 250, 500, 1000} {
		res, err := calc.GoalProbability(context.Background(), Params{
			CurrentValue:        20000,
			TargetValue:         90000,
			MonthlyContribution: contribution,
			ExpectedReturn:      0.05,
			Volatility:          0.15,
			YearsToGoal:         10,
			Iterations:          20000,
		})
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		// Allow a small band for sampling noise.
		if res.ProbabilityPercent < prev-1.0 {
			t.Errorf("Probability dropped from %.2f to %.2f when contribution rose to %v", prev, res.ProbabilityPercent, contribution)
		}
		prev = res.ProbabilityPercent
	}
}

func TestConfidenceLevel(t *testing.T) {
	tests := []struct {
		probability float64
		expected    string
	}{
		{100, "Very High"},
		{90, "Very High"},
		{89.9, "High"},
		{75, "High"},
		{60, "Moderate"},
		{40, "Low"},
		{39.9, "Very Low"},
		{0, "Very Low"},
	}
	for _, tt := range tests {
		if got := ConfidenceLevel(tt.probability); got != tt.expected {
			t.Errorf("ConfidenceLevel(%v) = %q, want %q", tt.probability, got, tt.expected)
		}
	}
}

func TestRequiredContribution_RaisesUnderfundedPlan(t *testing.T) {
	calc := newTestCalculator(17)

	p := Params{
		CurrentValue:        30000,
		TargetValue:         100000,
		MonthlyContribution: 200,
		ExpectedReturn:      0.06,
		Volatility:          0.15,
		YearsToGoal:         10,
	}

	res, err := calc.RequiredContribution(context.Background(), p, 0.85)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if res.RequiredContribution <= p.MonthlyContribution {
		t.Fatalf("Expected required contribution above %v, got %v", p.MonthlyContribution, res.RequiredContribution)
	}
	if res.IncreaseNeeded <= 0 || res.IncreasePercent <= 0 {
		t.Errorf("Expected positive increase, got %+v", res)
	}
	if res.SearchSteps == 0 || res.SearchSteps > 20 {
		t.Errorf("Expected between 1 and 20 bisection steps, got %d", res.SearchSteps)
	}
	if res.ProbeIterations != 500 {
		t.Errorf("Expected 500 probe iterations, got %d", res.ProbeIterations)
	}

	// Re-simulating at the solved contribution should land near the target.
	check := p
	check.MonthlyContribution = res.RequiredContribution
	check.Iterations = 5000
	verify, err := calc.GoalProbability(context.Background(), check)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if verify.ProbabilityPercent < 75 || verify.ProbabilityPercent > 95 {
		t.Errorf("Expected verification probability near 85, got %v", verify.ProbabilityPercent)
	}
}

func TestRequiredContribution_OverfundedPlanNeedsNothing(t *testing.T) {
	calc := newTestCalculator(23)

	res, err := calc.RequiredContribution(context.Background(), Params{
		CurrentValue:        500000,
		TargetValue:         100000,
		MonthlyContribution: 300,
		ExpectedReturn:      0.05,
		Volatility:          0.1,
		YearsToGoal:         8,
	}, 0)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if res.RequiredContribution >= 10 {
		t.Errorf("Expected required contribution under the 10 tolerance, got %v", res.RequiredContribution)
	}
	if res.IncreaseNeeded != 0 {
		t.Errorf("Expected no increase, got %v", res.IncreaseNeeded)
	}
	if res.TargetProbability != 85 {
		t.Errorf("Expected default 85%% target, got %v", res.TargetProbability)
	}
}

func TestRequiredContribution_Invalid(t *testing.T) {
	calc := newTestCalculator(1)

	_, err := calc.RequiredContribution(context.Background(), Params{TargetValue: 1000, YearsToGoal: 0}, 0.85)
	if !errors.Is(err, ErrInvalidInput) {
		t.Errorf("Expected ErrInvalidInput for zero horizon, got %v", err)
	}

	_, err = calc.RequiredContribution(context.Background(), Params{TargetValue: 1000, YearsToGoal: 5}, 1.5)
	if !errors.Is(err, ErrInvalidInput) {
		t.Errorf("Expected ErrInvalidInput for probability above 1, got %v", err)
	}
}

func TestCalculateGlidePath(t *testing.T) {
	tests := []struct {
		name        string
		years       float64
		equity      float64
		recommended float64
		rebalance   bool
	}{
		{"LongHorizon", 12, 50, 80, true},
		{"MediumHorizon", 7, 50, 65, true},
		{"MediumHorizonWithinBand", 5, 55, 65, false},
		{"ShortHorizon", 3, 45, 40, false},
		{"Imminent", 1, 60, 20, true},
		{"ExactlyTenYears", 10, 80, 80, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			res := CalculateGlidePath(tt.years, tt.equity)
			if res.RecommendedEquityPercent != tt.recommended {
				t.Errorf("Expected %v%% equity, got %v", tt.recommended, res.RecommendedEquityPercent)
			}
			if res.RebalanceNeeded != tt.rebalance {
				t.Errorf("Expected rebalance=%v, got %v", tt.rebalance, res.RebalanceNeeded)
			}
			if res.Rationale == "" {
				t.Error("Expected a rationale")
			}
		})
	}

	// Repeated lookups are stable.
	for i := 0; i < 5; i++ {
		if got := CalculateGlidePath(12, 50).RecommendedEquityPercent; got != 80 {
			t.Fatalf("Expected 80 on repeat %d, got %v", i, got)
		}
	}
}
