package visuals

import (
	"strings"
	"testing"

	"goalplan-mcp/internal/progress"
	"goalplan-mcp/internal/shortfall"
	"goalplan-mcp/internal/simulation"
)

func TestGenerateTrajectoryChart(t *testing.T) {
	if GenerateTrajectoryChart(progress.Trajectory{}, 1000) != "" {
		t.Error("Expected no chart without checkpoints")
	}

	chart := GenerateTrajectoryChart(progress.Trajectory{
		Checkpoints: []progress.TrajectoryPoint{
			{Month: 12, Date: "2027-03-01", Value: 12000, Contributions: 6000},
			{Month: 18, Date: "2027-09-01", Value: 19000, Contributions: 9000},
		},
	}, 20000)

	for _, want := range []string{
		"```mermaid\nxychart-beta",
		`x-axis ["2027-03", "2027-09"]`,
		"y-axis \"Value (GBP)\" 0 --> 22000",
		"line [12000, 19000]",
		"line [20000, 20000]",
	} {
		if !strings.Contains(chart, want) {
			t.Errorf("Expected %q in chart:\n%s", want, chart)
		}
	}
}

func TestGenerateOutcomeChart(t *testing.T) {
	if GenerateOutcomeChart(simulation.Result{}) != "" {
		t.Error("Expected no chart for an empty result")
	}

	chart := GenerateOutcomeChart(simulation.Result{
		Iterations:         1000,
		ProbabilityPercent: 72.4,
		TargetValue:        50000,
		Percentiles:        simulation.Percentiles{P10: 30000, P25: 40000, P50: 55000, P75: 70000, P90: 90000},
	})

	for _, want := range []string{
		"Simulated Outcomes (72% probability)",
		"bar [30000, 40000, 55000, 70000, 90000]",
		"line [50000, 50000, 50000, 50000, 50000]",
		"0 --> 99000",
	} {
		if !strings.Contains(chart, want) {
			t.Errorf("Expected %q in chart:\n%s", want, chart)
		}
	}
}

func TestGenerateSensitivityChart(t *testing.T) {
	chart := GenerateSensitivityChart(shortfall.Sensitivity{
		Contribution: []shortfall.SensitivityPoint{{Change: -50, ProbabilityPercent: 20}, {Change: 100, ProbabilityPercent: 80.5}},
		Return:       []shortfall.SensitivityPoint{{Change: -2, ProbabilityPercent: 30}, {Change: 2, ProbabilityPercent: 60}},
	})

	if strings.Count(chart, "```mermaid") != 2 {
		t.Fatalf("Expected two charts, got:\n%s", chart)
	}
	for _, want := range []string{`["-50%", "+100%"]`, "bar [20.0, 80.5]", `["-2pp", "+2pp"]`} {
		if !strings.Contains(chart, want) {
			t.Errorf("Expected %q in chart:\n%s", want, chart)
		}
	}
}

func TestGenerateStatusPie(t *testing.T) {
	if GenerateStatusPie(progress.Summary{}) != "" {
		t.Error("Expected no pie without goals")
	}

	pie := GenerateStatusPie(progress.Summary{OnTrack: 2, Critical: 1})
	if !strings.Contains(pie, "\"On Track\" : 2") || !strings.Contains(pie, "\"Critical\" : 1") {
		t.Errorf("Unexpected pie:\n%s", pie)
	}
	if strings.Contains(pie, "Completed") {
		t.Errorf("Expected empty slices omitted:\n%s", pie)
	}
}
