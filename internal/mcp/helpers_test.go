package mcp

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"goalplan-mcp/internal/config"
	"goalplan-mcp/internal/goals"
	"goalplan-mcp/internal/simulation"
)

func TestWrapFailure_Codes(t *testing.T) {
	tests := []struct {
		err      error
		expected string
	}{
		{fmt.Errorf("bad: %w", simulation.ErrInvalidInput), CodeInvalidInput},
		{fmt.Errorf("goal: %w", goals.ErrIncompleteGoal), CodeIncompleteGoal},
		{fmt.Errorf("goal: %w", goals.ErrInvalidGoal), CodeInvalidInput},
		{fmt.Errorf("lookup: %w", goals.ErrNotFound), CodeNotFound},
		{fmt.Errorf("simulate: %w", context.DeadlineExceeded), CodeTimeout},
		{context.Canceled, CodeCancelled},
		{errors.New("disk full"), CodeInternal},
	}

	for _, tt := range tests {
		env := WrapFailure(tt.err)
		if env.Success || env.Code != tt.expected || env.Message != tt.err.Error() {
			t.Errorf("WrapFailure(%v) = %+v, want code %s", tt.err, env, tt.expected)
		}
	}
}

func TestAddChart(t *testing.T) {
	off := &Server{cfg: &config.AppConfig{}}
	env := WrapResponse(nil, "")
	off.addChart(&env, "outcomes", "```mermaid```")
	if env.Charts != nil {
		t.Errorf("Expected no charts when disabled, got %v", env.Charts)
	}

	on := &Server{cfg: &config.AppConfig{EnableMermaidCharts: true}}
	on.addChart(&env, "empty", "")
	on.addChart(&env, "outcomes", "```mermaid```")
	if len(env.Charts) != 1 || env.Charts["outcomes"] == "" {
		t.Errorf("Expected one chart, got %v", env.Charts)
	}
}

func TestParseHelpers(t *testing.T) {
	if _, err := parseGoalID("not-a-uuid"); !errors.Is(err, simulation.ErrInvalidInput) {
		t.Errorf("Expected ErrInvalidInput, got %v", err)
	}
	if _, err := parseDate("01/02/2030"); !errors.Is(err, simulation.ErrInvalidInput) {
		t.Errorf("Expected ErrInvalidInput, got %v", err)
	}
	d, err := parseDate("2030-06-15")
	if err != nil || d.Year() != 2030 || d.Month() != 6 || d.Day() != 15 {
		t.Errorf("Unexpected date %v (%v)", d, err)
	}
	if d, err := parseDate(""); err != nil || !d.IsZero() {
		t.Errorf("Expected zero date for empty input, got %v (%v)", d, err)
	}
}
