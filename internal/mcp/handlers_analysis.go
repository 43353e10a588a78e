package mcp

import (
	"context"

	"goalplan-mcp/internal/visuals"

	"github.com/modelcontextprotocol/go-sdk/mcp"
)

func (s *Server) handleGoalProgress(ctx context.Context, _ *mcp.CallToolRequest, in GoalRefInput) (*mcp.CallToolResult, Envelope, error) {
	ctx, cancel := s.withTimeout(ctx)
	defer cancel()

	g, err := s.lookup(in.UserID, in.GoalID)
	if err != nil {
		return nil, WrapFailure(err), nil
	}
	report, err := s.progress.AnalyzeGoalProgress(ctx, g)
	if err != nil {
		return nil, WrapFailure(err), nil
	}

	msg := ""
	switch {
	case report.Status != nil:
		msg = report.Status.Message
	case report.Completion != nil:
		msg = report.Completion.Message
	}

	env := WrapResponse(report, msg)
	if report.Trajectory != nil {
		s.addChart(&env, "trajectory", visuals.GenerateTrajectoryChart(*report.Trajectory, report.TargetValue))
	}
	if report.Probability != nil {
		s.addChart(&env, "outcomes", visuals.GenerateOutcomeChart(*report.Probability))
	}
	return nil, env, nil
}

func (s *Server) handleGoalsSummary(ctx context.Context, _ *mcp.CallToolRequest, in UserInput) (*mcp.CallToolResult, Envelope, error) {
	ctx, cancel := s.withTimeout(ctx)
	defer cancel()

	if err := s.ensureUser(in.UserID); err != nil {
		return nil, WrapFailure(err), nil
	}
	summary, err := s.progress.AnalyzeAllGoals(ctx, in.UserID)
	if err != nil {
		return nil, WrapFailure(err), nil
	}

	env := WrapResponse(summary, summary.Message)
	s.addChart(&env, "status", visuals.GenerateStatusPie(summary))
	return nil, env, nil
}

func (s *Server) handleGoalShortfall(ctx context.Context, _ *mcp.CallToolRequest, in ShortfallInput) (*mcp.CallToolResult, Envelope, error) {
	ctx, cancel := s.withTimeout(ctx)
	defer cancel()

	g, err := s.lookup(in.UserID, in.GoalID)
	if err != nil {
		return nil, WrapFailure(err), nil
	}
	current := g.CurrentValue
	if in.CurrentValue != nil {
		current = *in.CurrentValue
	}

	report, err := s.shortfall.AnalyzeShortfall(ctx, g, current)
	if err != nil {
		return nil, WrapFailure(err), nil
	}

	env := WrapResponse(report, report.Message)
	s.addChart(&env, "outcomes", visuals.GenerateOutcomeChart(report.Baseline))
	if report.Sensitivity != nil {
		s.addChart(&env, "sensitivity", visuals.GenerateSensitivityChart(*report.Sensitivity))
	}
	return nil, env, nil
}

func (s *Server) handleWhatIf(ctx context.Context, _ *mcp.CallToolRequest, in WhatIfInput) (*mcp.CallToolResult, Envelope, error) {
	ctx, cancel := s.withTimeout(ctx)
	defer cancel()

	g, err := s.lookup(in.UserID, in.GoalID)
	if err != nil {
		return nil, WrapFailure(err), nil
	}
	current := g.CurrentValue
	if in.CurrentValue != nil {
		current = *in.CurrentValue
	}

	report, err := s.shortfall.GenerateWhatIfScenarios(ctx, g, current, in.Scenarios)
	if err != nil {
		return nil, WrapFailure(err), nil
	}

	msg := ""
	if report.Best != nil {
		msg = "Best scenario: " + report.Best.Name
	}
	return nil, WrapResponse(report, msg), nil
}
