package mcp

import (
	"context"
	"fmt"

	"goalplan-mcp/internal/goals"
	"goalplan-mcp/internal/simulation"

	"github.com/google/uuid"
	"github.com/modelcontextprotocol/go-sdk/mcp"
	"github.com/rs/zerolog/log"
)

var validStatuses = map[goals.Status]bool{
	goals.StatusActive:    true,
	goals.StatusPaused:    true,
	goals.StatusCompleted: true,
	goals.StatusAbandoned: true,
}

func (in GoalInput) goal() (goals.Goal, error) {
	date, err := parseDate(in.TargetDate)
	if err != nil {
		return goals.Goal{}, err
	}
	status := goals.Status(in.Status)
	if status != "" && !validStatuses[status] {
		return goals.Goal{}, fmt.Errorf("%w: unknown status %q", simulation.ErrInvalidInput, in.Status)
	}

	g := goals.Goal{
		UserID:              in.UserID,
		Name:                in.Name,
		Category:            in.Category,
		CurrentValue:        in.CurrentValue,
		TargetValue:         in.TargetValue,
		TargetDate:          date,
		MonthlyContribution: in.MonthlyContribution,
		ExpectedReturn:      in.ExpectedReturn,
		Volatility:          in.Volatility,
		Status:              status,
	}
	if in.GoalID != "" {
		if g.ID, err = parseGoalID(in.GoalID); err != nil {
			return goals.Goal{}, err
		}
	}
	return g, g.Validate()
}

func (s *Server) handleSaveGoal(_ context.Context, _ *mcp.CallToolRequest, in GoalInput) (*mcp.CallToolResult, Envelope, error) {
	if err := s.ensureUser(in.UserID); err != nil {
		return nil, WrapFailure(err), nil
	}
	g, err := in.goal()
	if err != nil {
		return nil, WrapFailure(err), nil
	}
	if g.ID != uuid.Nil {
		if _, err := s.store.Get(in.UserID, g.ID); err != nil {
			return nil, WrapFailure(err), nil
		}
	}

	saved := s.store.Put(g)
	if err := s.persist(in.UserID); err != nil {
		return nil, WrapFailure(err), nil
	}

	log.Info().Str("user", in.UserID).Str("goal", saved.ID.String()).Msg("Goal saved")
	return nil, WrapResponse(saved, fmt.Sprintf("Goal %q saved.", saved.Name)), nil
}

func (s *Server) handleListGoals(_ context.Context, _ *mcp.CallToolRequest, in UserInput) (*mcp.CallToolResult, Envelope, error) {
	if err := s.ensureUser(in.UserID); err != nil {
		return nil, WrapFailure(err), nil
	}
	list := s.store.List(in.UserID)
	return nil, WrapResponse(list, fmt.Sprintf("%d goals found.", len(list))), nil
}

func (s *Server) handleDeleteGoal(_ context.Context, _ *mcp.CallToolRequest, in GoalRefInput) (*mcp.CallToolResult, Envelope, error) {
	g, err := s.lookup(in.UserID, in.GoalID)
	if err != nil {
		return nil, WrapFailure(err), nil
	}
	if err := s.store.Delete(in.UserID, g.ID); err != nil {
		return nil, WrapFailure(err), nil
	}
	if err := s.persist(in.UserID); err != nil {
		return nil, WrapFailure(err), nil
	}
	return nil, WrapResponse(map[string]any{"goal_id": g.ID}, fmt.Sprintf("Goal %q deleted.", g.Name)), nil
}
