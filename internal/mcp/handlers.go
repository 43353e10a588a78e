package mcp

import (
	"context"
	"fmt"

	"goalplan-mcp/internal/money"
	"goalplan-mcp/internal/simulation"
	"goalplan-mcp/internal/visuals"

	"github.com/modelcontextprotocol/go-sdk/mcp"
)

func projection(cfg simulation.Config, current, target, contribution, years float64, expectedReturn, volatility *float64) simulation.Params {
	p := simulation.Params{
		CurrentValue:        current,
		TargetValue:         target,
		MonthlyContribution: contribution,
		ExpectedReturn:      cfg.DefaultExpectedReturn,
		Volatility:          cfg.DefaultVolatility,
		YearsToGoal:         years,
	}
	if expectedReturn != nil {
		p.ExpectedReturn = *expectedReturn
	}
	if volatility != nil {
		p.Volatility = *volatility
	}
	return p
}

func (s *Server) handleGoalProbability(ctx context.Context, _ *mcp.CallToolRequest, in ProjectionInput) (*mcp.CallToolResult, Envelope, error) {
	ctx, cancel := s.withTimeout(ctx)
	defer cancel()

	p := projection(s.calc.Config(), in.CurrentValue, in.TargetValue, in.MonthlyContribution, in.YearsToGoal, in.ExpectedReturn, in.Volatility)
	p.Iterations = in.Iterations

	res, err := s.calc.GoalProbability(ctx, p)
	if err != nil {
		return nil, WrapFailure(err), nil
	}

	env := WrapResponse(res, res.Interpretation)
	s.addChart(&env, "outcomes", visuals.GenerateOutcomeChart(res))
	return nil, env, nil
}

func (s *Server) handleRequiredContribution(ctx context.Context, _ *mcp.CallToolRequest, in ContributionInput) (*mcp.CallToolResult, Envelope, error) {
	ctx, cancel := s.withTimeout(ctx)
	defer cancel()

	p := projection(s.calc.Config(), in.CurrentValue, in.TargetValue, in.MonthlyContribution, in.YearsToGoal, in.ExpectedReturn, in.Volatility)
	res, err := s.calc.RequiredContribution(ctx, p, in.TargetProbability)
	if err != nil {
		return nil, WrapFailure(err), nil
	}

	msg := fmt.Sprintf("A monthly contribution of about %s gives a %.0f%% probability of reaching %s.",
		money.Format(res.RequiredContribution), res.TargetProbability, money.FormatWhole(in.TargetValue))
	if res.CeilingReached {
		msg += " The search hit its upper bound, so the true figure may be higher."
	}
	return nil, WrapResponse(res, msg), nil
}

func (s *Server) handleGlidePath(_ context.Context, _ *mcp.CallToolRequest, in GlidePathInput) (*mcp.CallToolResult, Envelope, error) {
	if in.YearsToGoal < 0 || in.CurrentEquityPercent < 0 || in.CurrentEquityPercent > 100 {
		return nil, WrapFailure(fmt.Errorf("%w: years_to_goal must be >= 0 and current_equity_percent within 0-100", simulation.ErrInvalidInput)), nil
	}
	res := simulation.CalculateGlidePath(in.YearsToGoal, in.CurrentEquityPercent)
	return nil, WrapResponse(res, res.Rationale), nil
}
