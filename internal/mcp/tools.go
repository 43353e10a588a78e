package mcp

import (
	"goalplan-mcp/internal/shortfall"

	"github.com/modelcontextprotocol/go-sdk/mcp"
)

// ProjectionInput describes an ad-hoc projection that is not a stored goal.
type ProjectionInput struct {
	CurrentValue        float64  `json:"current_value" jsonschema:"Current portfolio value in GBP"`
	TargetValue         float64  `json:"target_value" jsonschema:"Target value in GBP"`
	MonthlyContribution float64  `json:"monthly_contribution,omitempty" jsonschema:"Monthly contribution in GBP"`
	ExpectedReturn      *float64 `json:"expected_return,omitempty" jsonschema:"Expected annual return as a ratio, e.g. 0.06"`
	Volatility          *float64 `json:"volatility,omitempty" jsonschema:"Annual volatility as a ratio, e.g. 0.15"`
	YearsToGoal         float64  `json:"years_to_goal" jsonschema:"Years until the target date"`
	Iterations          int      `json:"iterations,omitempty" jsonschema:"Monte-Carlo trials; defaults to the server setting"`
}

// ContributionInput asks for the contribution that reaches a probability.
type ContributionInput struct {
	CurrentValue        float64  `json:"current_value" jsonschema:"Current portfolio value in GBP"`
	TargetValue         float64  `json:"target_value" jsonschema:"Target value in GBP"`
	MonthlyContribution float64  `json:"monthly_contribution,omitempty" jsonschema:"Current monthly contribution in GBP"`
	ExpectedReturn      *float64 `json:"expected_return,omitempty" jsonschema:"Expected annual return as a ratio, e.g. 0.06"`
	Volatility          *float64 `json:"volatility,omitempty" jsonschema:"Annual volatility as a ratio, e.g. 0.15"`
	YearsToGoal         float64  `json:"years_to_goal" jsonschema:"Years until the target date"`
	TargetProbability   float64  `json:"target_probability,omitempty" jsonschema:"Required probability as a ratio, e.g. 0.85"`
}

// GlidePathInput asks for the model equity allocation.
type GlidePathInput struct {
	YearsToGoal          float64 `json:"years_to_goal" jsonschema:"Years until the target date"`
	CurrentEquityPercent float64 `json:"current_equity_percent" jsonschema:"Current equity allocation in percent"`
}

// UserInput names a user.
type UserInput struct {
	UserID string `json:"user_id" jsonschema:"Owner of the goals"`
}

// GoalRefInput names a stored goal.
type GoalRefInput struct {
	UserID string `json:"user_id" jsonschema:"Owner of the goal"`
	GoalID string `json:"goal_id" jsonschema:"Goal UUID as returned by goal_save or goal_list"`
}

// ShortfallInput names a stored goal with an optional valuation override.
type ShortfallInput struct {
	UserID       string   `json:"user_id" jsonschema:"Owner of the goal"`
	GoalID       string   `json:"goal_id" jsonschema:"Goal UUID"`
	CurrentValue *float64 `json:"current_value,omitempty" jsonschema:"Up-to-date portfolio value; defaults to the stored value"`
}

// WhatIfInput runs scenarios against a stored goal.
type WhatIfInput struct {
	UserID       string               `json:"user_id" jsonschema:"Owner of the goal"`
	GoalID       string               `json:"goal_id" jsonschema:"Goal UUID"`
	CurrentValue *float64             `json:"current_value,omitempty" jsonschema:"Up-to-date portfolio value; defaults to the stored value"`
	Scenarios    []shortfall.Scenario `json:"scenarios,omitempty" jsonschema:"Scenarios to compare; six defaults are used when empty"`
}

// GoalInput creates or updates a stored goal.
type GoalInput struct {
	UserID              string   `json:"user_id" jsonschema:"Owner of the goal"`
	GoalID              string   `json:"goal_id,omitempty" jsonschema:"Existing goal UUID to update; omit to create"`
	Name                string   `json:"name" jsonschema:"Goal name"`
	Category            string   `json:"category,omitempty" jsonschema:"Free-form category, e.g. retirement or house"`
	CurrentValue        float64  `json:"current_value,omitempty" jsonschema:"Current value in GBP"`
	TargetValue         float64  `json:"target_value" jsonschema:"Target value in GBP"`
	TargetDate          string   `json:"target_date" jsonschema:"Target date as YYYY-MM-DD"`
	MonthlyContribution float64  `json:"monthly_contribution,omitempty" jsonschema:"Monthly contribution in GBP"`
	ExpectedReturn      *float64 `json:"expected_return,omitempty" jsonschema:"Expected annual return as a ratio"`
	Volatility          *float64 `json:"volatility,omitempty" jsonschema:"Annual volatility as a ratio"`
	Status              string   `json:"status,omitempty" jsonschema:"active, paused, completed or abandoned"`
}

func (s *Server) registerTools(server *mcp.Server) {
	mcp.AddTool(server, &mcp.Tool{
		Name: "goal_probability",
		Description: "Run a Monte-Carlo simulation of monthly returns to estimate the probability (0-100) of reaching a target value by a date. " +
			"Returns percentiles of the final value and a plain-English interpretation. Results are estimates and vary slightly between runs.",
	}, s.handleGoalProbability)

	mcp.AddTool(server, &mcp.Tool{
		Name:        "goal_required_contribution",
		Description: "Find the monthly contribution that gives the target probability (default 85%) of reaching the goal, by bisection over repeated simulations.",
	}, s.handleRequiredContribution)

	mcp.AddTool(server, &mcp.Tool{
		Name:        "goal_glide_path",
		Description: "Look up the model equity allocation for the years left to a goal and whether the current allocation needs rebalancing.",
	}, s.handleGlidePath)

	mcp.AddTool(server, &mcp.Tool{
		Name:        "goal_progress",
		Description: "Analyse a stored goal: progress, on-track status (green/amber/red), expected-case trajectory, milestones and recommendations.",
	}, s.handleGoalProgress)

	mcp.AddTool(server, &mcp.Tool{
		Name:        "goals_summary",
		Description: "Summarise every active goal of a user with counts by status, average probability and an overall status.",
	}, s.handleGoalsSummary)

	mcp.AddTool(server, &mcp.Tool{
		Name: "goal_shortfall",
		Description: "For a goal below 85% probability, rank strategies to close the gap (contributions, timeline, target, risk) and show how sensitive the probability is to contribution and return. " +
			"This is the most expensive tool.",
	}, s.handleGoalShortfall)

	mcp.AddTool(server, &mcp.Tool{
		Name:        "goal_what_if",
		Description: "Compare contribution/return scenarios for a stored goal and report the best one.",
	}, s.handleWhatIf)

	mcp.AddTool(server, &mcp.Tool{
		Name:        "goal_save",
		Description: "Create or update a goal for a user. Goals are persisted on disk.",
	}, s.handleSaveGoal)

	mcp.AddTool(server, &mcp.Tool{
		Name:        "goal_list",
		Description: "List all goals of a user, ordered by target date.",
	}, s.handleListGoals)

	mcp.AddTool(server, &mcp.Tool{
		Name:        "goal_delete",
		Description: "Delete a stored goal.",
	}, s.handleDeleteGoal)
}
