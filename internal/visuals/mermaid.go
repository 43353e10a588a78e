package visuals

import (
	"fmt"
	"math"
	"strings"

	"goalplan-mcp/internal/progress"
	"goalplan-mcp/internal/shortfall"
	"goalplan-mcp/internal/simulation"
)

// GenerateTrajectoryChart creates a Mermaid xychart-beta of the expected-case
// path against the target, one point per checkpoint.
func GenerateTrajectoryChart(t progress.Trajectory, target float64) string {
	if len(t.Checkpoints) == 0 {
		return ""
	}

	var labels []string
	var values []string
	var contributions []string
	var targets []string

	maxY := target
	for _, cp := range t.Checkpoints {
		labels = append(labels, fmt.Sprintf("\"%s\"", cp.Date[:7]))
		values = append(values, fmt.Sprintf("%.0f", cp.Value))
		contributions = append(contributions, fmt.Sprintf("%.0f", cp.Contributions))
		targets = append(targets, fmt.Sprintf("%.0f", target))
		maxY = math.Max(maxY, cp.Value)
	}

	var sb strings.Builder
	sb.WriteString("```mermaid\n")
	sb.WriteString("xychart-beta\n")
	sb.WriteString("    title \"Projected Value (Expected Case)\"\n")
	sb.WriteString(fmt.Sprintf("    x-axis [%s]\n", strings.Join(labels, ", ")))
	sb.WriteString(fmt.Sprintf("    y-axis \"Value (GBP)\" 0 --> %d\n", int(math.Ceil(maxY+maxY/10))))
	sb.WriteString(fmt.Sprintf("    line [%s]\n", strings.Join(values, ", ")))
	sb.WriteString(fmt.Sprintf("    line [%s]\n", strings.Join(contributions, ", ")))
	sb.WriteString(fmt.Sprintf("    line [%s]\n", strings.Join(targets, ", ")))
	sb.WriteString("```")
	return sb.String()
}

// GenerateOutcomeChart creates a Mermaid bar chart of the simulated percentile
// outcomes with the target as a reference line.
func GenerateOutcomeChart(r simulation.Result) string {
	if r.Iterations == 0 {
		return ""
	}

	pcts := []float64{r.Percentiles.P10, r.Percentiles.P25, r.Percentiles.P50, r.Percentiles.P75, r.Percentiles.P90}
	var values []string
	var targets []string
	maxY := r.TargetValue
	for _, v := range pcts {
		values = append(values, fmt.Sprintf("%.0f", v))
		targets = append(targets, fmt.Sprintf("%.0f", r.TargetValue))
		maxY = math.Max(maxY, v)
	}

	var sb strings.Builder
	sb.WriteString("```mermaid\n")
	sb.WriteString("xychart-beta\n")
	sb.WriteString(fmt.Sprintf("    title \"Simulated Outcomes (%.0f%% probability)\"\n", r.ProbabilityPercent))
	sb.WriteString("    x-axis [\"P10\", \"P25\", \"P50\", \"P75\", \"P90\"]\n")
	sb.WriteString(fmt.Sprintf("    y-axis \"Final Value (GBP)\" 0 --> %d\n", int(math.Ceil(maxY+maxY/10))))
	sb.WriteString(fmt.Sprintf("    bar [%s]\n", strings.Join(values, ", ")))
	sb.WriteString(fmt.Sprintf("    line [%s]\n", strings.Join(targets, ", ")))
	sb.WriteString("```")
	return sb.String()
}

// GenerateSensitivityChart creates one Mermaid bar chart per varied input,
// showing the probability at each step.
func GenerateSensitivityChart(s shortfall.Sensitivity) string {
	if len(s.Contribution) == 0 && len(s.Return) == 0 {
		return ""
	}

	var sb strings.Builder
	writeSensitivity(&sb, "Probability vs Contribution Change", s.Contribution, "%+.0f%%")
	if len(s.Contribution) > 0 && len(s.Return) > 0 {
		sb.WriteString("\n\n")
	}
	writeSensitivity(&sb, "Probability vs Return Change", s.Return, "%+.0fpp")
	return sb.String()
}

func writeSensitivity(sb *strings.Builder, title string, points []shortfall.SensitivityPoint, labelFormat string) {
	if len(points) == 0 {
		return
	}

	var labels []string
	var values []string
	for _, p := range points {
		labels = append(labels, fmt.Sprintf("\"%s\"", fmt.Sprintf(labelFormat, p.Change)))
		values = append(values, fmt.Sprintf("%.1f", p.ProbabilityPercent))
	}

	sb.WriteString("```mermaid\n")
	sb.WriteString("xychart-beta\n")
	sb.WriteString(fmt.Sprintf("    title \"%s\"\n", title))
	sb.WriteString(fmt.Sprintf("    x-axis [%s]\n", strings.Join(labels, ", ")))
	sb.WriteString("    y-axis \"Probability (%)\" 0 --> 100\n")
	sb.WriteString(fmt.Sprintf("    bar [%s]\n", strings.Join(values, ", ")))
	sb.WriteString("```")
}

// GenerateStatusPie creates a Mermaid pie chart of goals by status.
func GenerateStatusPie(s progress.Summary) string {
	if s.OnTrack+s.Attention+s.Critical+s.Completed == 0 {
		return ""
	}

	var sb strings.Builder
	sb.WriteString("```mermaid\n")
	sb.WriteString("pie title Goals by Status\n")
	slices := []struct {
		label string
		count int
	}{
		{"On Track", s.OnTrack},
		{"Needs Attention", s.Attention},
		{"Critical", s.Critical},
		{"Completed", s.Completed},
	}
	for _, slice := range slices {
		if slice.count > 0 {
			sb.WriteString(fmt.Sprintf("    \"%s\" : %d\n", slice.label, slice.count))
		}
	}
	sb.WriteString("```")
	return sb.String()
}
