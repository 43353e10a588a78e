package shortfall

import (
	"context"
	"errors"
	"math"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"goalplan-mcp/internal/goals"
	"goalplan-mcp/internal/simulation"
)

var testNow = time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC)

// countingCalculator records how often the analyzer reaches into the
// simulation layer.
type countingCalculator struct {
	inner         *simulation.Calculator
	probabilities atomic.Int64
	contributions atomic.Int64
}

func (c *countingCalculator) GoalProbability(ctx context.Context, p simulation.Params) (simulation.Result, error) {
	c.probabilities.Add(1)
	return c.inner.GoalProbability(ctx, p)
}

func (c *countingCalculator) RequiredContribution(ctx context.Context, p simulation.Params, target float64) (simulation.ContributionResult, error) {
	c.contributions.Add(1)
	return c.inner.RequiredContribution(ctx, p, target)
}

func newCountingAnalyzer(seed int64) (*Analyzer, *countingCalculator) {
	cfg := simulation.DefaultConfig()
	calc := &countingCalculator{inner: simulation.NewCalculator(simulation.NewEngine(seed, 4), cfg)}
	return NewAnalyzer(calc, cfg).WithClock(func() time.Time { return testNow }), calc
}

func underfundedGoal() goals.Goal {
	return goals.Goal{
		Name:                "University fund",
		CurrentValue:        20000,
		TargetValue:         100000,
		TargetDate:          testNow.AddDate(8, 0, 0),
		MonthlyContribution: 300,
	}
}

func TestAnalyzeShortfall_NoShortfallSkipsStrategies(t *testing.T) {
	a, calc := newCountingAnalyzer(11)

	g := goals.Goal{
		Name:                "Emergency fund",
		CurrentValue:        200000,
		TargetValue:         100000,
		TargetDate:          testNow.AddDate(5, 0, 0),
		MonthlyContribution: 100,
	}
	report, err := a.AnalyzeShortfall(context.Background(), g, g.CurrentValue)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if report.HasShortfall {
		t.Errorf("Expected no shortfall at %v%%", report.BaseProbability)
	}
	if report.Strategies != nil || report.Sensitivity != nil || report.Recommendation != nil {
		t.Errorf("Expected no strategy work, got %+v", report)
	}
	if n := calc.probabilities.Load(); n != 1 {
		t.Errorf("Expected exactly 1 probability run, got %d", n)
	}
	if n := calc.contributions.Load(); n != 0 {
		t.Errorf("Expected no contribution solve, got %d", n)
	}
}

func TestAnalyzeShortfall_Strategies(t *testing.T) {
	a, calc := newCountingAnalyzer(5)

	g := underfundedGoal()
	report, err := a.AnalyzeShortfall(context.Background(), g, g.CurrentValue)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if !report.HasShortfall {
		t.Fatalf("Expected a shortfall, got %v%%", report.BaseProbability)
	}
	if report.ExpectedShortfall <= 0 {
		t.Errorf("Expected a positive median shortfall, got %v", report.ExpectedShortfall)
	}

	if len(report.Strategies) != 4 {
		t.Fatalf("Expected 4 strategies, got %d", len(report.Strategies))
	}
	seen := map[StrategyKind]bool{}
	for i, s := range report.Strategies {
		seen[s.Kind] = true
		if i > 0 && s.ProbabilityAfter > report.Strategies[i-1].ProbabilityAfter {
			t.Errorf("Strategies not sorted: %v after %v", s.ProbabilityAfter, report.Strategies[i-1].ProbabilityAfter)
		}
		switch s.Kind {
		case IncreaseContribution:
			if s.Contribution == nil || s.Adjusted.MonthlyContribution <= g.MonthlyContribution {
				t.Errorf("Expected a higher contribution, got %+v", s.Adjusted)
			}
		case ExtendTimeline:
			if math.Abs(s.Adjusted.YearsToGoal-report.Params.YearsToGoal-2) > 1e-9 {
				t.Errorf("Expected a 2 year extension, got %v", s.Adjusted.YearsToGoal)
			}
		case ReduceTarget:
			if math.Abs(s.Adjusted.TargetValue-90000) > 1e-6 {
				t.Errorf("Expected target 90000, got %v", s.Adjusted.TargetValue)
			}
		case IncreaseRisk:
			if math.Abs(s.Adjusted.ExpectedReturn-0.08) > 1e-9 || math.Abs(s.Adjusted.Volatility-0.18) > 1e-9 {
				t.Errorf("Expected 8%% return at 18%% volatility, got %+v", s.Adjusted)
			}
		}
	}
	if len(seen) != 4 {
		t.Errorf("Expected each strategy once, got %v", seen)
	}

	if report.Sensitivity == nil || len(report.Sensitivity.Contribution) != 6 || len(report.Sensitivity.Return) != 5 {
		t.Fatalf("Unexpected sensitivity table %+v", report.Sensitivity)
	}
	if report.Sensitivity.Contribution[5].MonthlyContribution != 600 {
		t.Errorf("Expected +100%% to double the contribution, got %v", report.Sensitivity.Contribution[5].MonthlyContribution)
	}
	if math.Abs(report.Sensitivity.Return[0].ExpectedReturn-0.04) > 1e-9 {
		t.Errorf("Expected -2pp to give 4%%, got %v", report.Sensitivity.Return[0].ExpectedReturn)
	}

	if report.Recommendation == nil || report.Recommendation.Priority != priority(report.ExpectedShortfall) {
		t.Errorf("Unexpected recommendation %+v", report.Recommendation)
	}

	// baseline + 4 strategy runs + 11 sensitivity points; solver probes stay inside the calculator
	if n := calc.probabilities.Load(); n != 16 {
		t.Errorf("Expected 16 probability runs, got %d", n)
	}
	if n := calc.contributions.Load(); n != 1 {
		t.Errorf("Expected 1 contribution solve, got %d", n)
	}
}

func TestAnalyzeShortfall_StrategiesReproduce(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping verification runs in short mode")
	}

	a, _ := newCountingAnalyzer(9)
	g := underfundedGoal()
	report, err := a.AnalyzeShortfall(context.Background(), g, g.CurrentValue)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	verifier := simulation.NewCalculator(simulation.NewEngine(1234, 4), simulation.DefaultConfig())
	for _, s := range report.Strategies {
		p := s.Adjusted
		p.Iterations = 5000
		res, err := verifier.GoalProbability(context.Background(), p)
		if err != nil {
			t.Fatalf("%s: unexpected error: %v", s.Kind, err)
		}
		if diff := math.Abs(res.ProbabilityPercent - s.ProbabilityAfter); diff > 8 {
			t.Errorf("%s: reported %v%%, verification gave %v%%", s.Kind, s.ProbabilityAfter, res.ProbabilityPercent)
		}
	}
}

func TestAnalyzeShortfall_InvalidGoals(t *testing.T) {
	a, calc := newCountingAnalyzer(1)

	_, err := a.AnalyzeShortfall(context.Background(), goals.Goal{Name: "No date", TargetValue: 1000}, 0)
	if !errors.Is(err, goals.ErrIncompleteGoal) {
		t.Errorf("Expected ErrIncompleteGoal, got %v", err)
	}

	past := goals.Goal{Name: "Past", TargetValue: 1000, TargetDate: testNow.AddDate(-1, 0, 0)}
	_, err = a.AnalyzeShortfall(context.Background(), past, 0)
	if !errors.Is(err, simulation.ErrInvalidInput) {
		t.Errorf("Expected ErrInvalidInput for a past date, got %v", err)
	}

	if n := calc.probabilities.Load(); n != 0 {
		t.Errorf("Expected no simulation for invalid goals, got %d", n)
	}
}

func TestRecommend(t *testing.T) {
	tests := []struct {
		name       string
		strategies []Strategy
		expected   StrategyKind
	}{
		{
			name: "EffectiveAndEasyBeatsBest",
			strategies: []Strategy{
				{Kind: IncreaseRisk, ProbabilityAfter: 95, Feasibility: FeasibilityLow},
				{Kind: IncreaseContribution, ProbabilityAfter: 88, Feasibility: FeasibilityHigh},
			},
			expected: IncreaseContribution,
		},
		{
			name: "GoodEnoughMedium",
			strategies: []Strategy{
				{Kind: IncreaseRisk, ProbabilityAfter: 90, Feasibility: FeasibilityLow},
				{Kind: ExtendTimeline, ProbabilityAfter: 80, Feasibility: FeasibilityMedium},
			},
			expected: ExtendTimeline,
		},
		{
			name: "FallsBackToBest",
			strategies: []Strategy{
				{Kind: IncreaseRisk, ProbabilityAfter: 70, Feasibility: FeasibilityLow},
				{Kind: ReduceTarget, ProbabilityAfter: 60, Feasibility: FeasibilityMedium},
			},
			expected: IncreaseRisk,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := recommend(tt.strategies, 30000)
			if rec == nil || rec.Strategy != tt.expected {
				t.Errorf("Expected %s, got %+v", tt.expected, rec)
			}
			if rec != nil && rec.Priority != "medium" {
				t.Errorf("Expected medium priority, got %s", rec.Priority)
			}
		})
	}

	if recommend(nil, 1000) != nil {
		t.Error("Expected no recommendation without strategies")
	}
}

func TestPriority(t *testing.T) {
	tests := []struct {
		shortfall float64
		expected  string
	}{
		{60000, "high"},
		{50000, "medium"},
		{20001, "medium"},
		{20000, "low"},
		{-500, "low"},
	}

	for _, tt := range tests {
		if got := priority(tt.shortfall); got != tt.expected {
			t.Errorf("priority(%v) = %s, want %s", tt.shortfall, got, tt.expected)
		}
	}
}

func TestContributionFeasibility(t *testing.T) {
	tests := []struct {
		current, increase float64
		expected          Feasibility
	}{
		{100, 10, FeasibilityHigh},
		{100, 30, FeasibilityMedium},
		{100, 31, FeasibilityLow},
		{100, 0, FeasibilityHigh},
		{0, 50, FeasibilityLow},
	}

	for _, tt := range tests {
		if got := contributionFeasibility(tt.current, tt.increase); got != tt.expected {
			t.Errorf("contributionFeasibility(%v, %v) = %s, want %s", tt.current, tt.increase, got, tt.expected)
		}
	}
}

func TestContributionDescription(t *testing.T) {
	tests := []struct {
		name     string
		current  float64
		required simulation.ContributionResult
		contains string
		excludes string
	}{
		{"Increase", 300, simulation.ContributionResult{RequiredContribution: 450, IncreaseNeeded: 150}, "from £300.00 to £450.00", "no increase"},
		{"SolverBelowCurrent", 300, simulation.ContributionResult{RequiredContribution: 280, IncreaseNeeded: 0}, "no increase is needed", "to £280.00"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := contributionDescription(tt.current, tt.required)
			if !strings.Contains(got, tt.contains) || strings.Contains(got, tt.excludes) {
				t.Errorf("contributionDescription = %q, want it to contain %q and not %q", got, tt.contains, tt.excludes)
			}
		})
	}
}

func TestAnalyzeShortfall_ClampsStressedStrategies(t *testing.T) {
	a, _ := newCountingAnalyzer(9)

	vol := simulation.MaxVolatility
	g := underfundedGoal()
	g.Volatility = &vol

	report, err := a.AnalyzeShortfall(context.Background(), g, g.CurrentValue)
	if err != nil {
		t.Fatalf("AnalyzeShortfall failed: %v", err)
	}
	for _, s := range report.Strategies {
		if s.Kind == IncreaseRisk && s.Adjusted.Volatility != simulation.MaxVolatility {
			t.Errorf("Expected volatility held at %v, got %v", simulation.MaxVolatility, s.Adjusted.Volatility)
		}
	}
}
