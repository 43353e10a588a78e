package commands

import (
	"context"
	"encoding/json"
	"fmt"
	"io"

	"goalplan-mcp/internal/goals"
	"goalplan-mcp/internal/simulation"

	"github.com/google/uuid"
	"github.com/spf13/cobra"
)

// commandContext applies the configured per-call timeout.
func commandContext(cmd *cobra.Command) (context.Context, context.CancelFunc) {
	if cfg.Timeout <= 0 {
		return context.WithCancel(cmd.Context())
	}
	return context.WithTimeout(cmd.Context(), cfg.Timeout)
}

func printJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

func newCalculator() *simulation.Calculator {
	return simulation.NewCalculator(nil, cfg.Simulation)
}

// loadGoals reads a user's goals from the goals directory.
func loadGoals(userID string) (*goals.Store, error) {
	if userID == "" {
		return nil, fmt.Errorf("--user is required")
	}
	store := goals.NewStore()
	if err := store.Load(cfg.GoalsDir, userID); err != nil {
		return nil, err
	}
	return store, nil
}

func findGoal(userID, goalID string) (goals.Goal, *goals.Store, error) {
	store, err := loadGoals(userID)
	if err != nil {
		return goals.Goal{}, nil, err
	}
	id, err := uuid.Parse(goalID)
	if err != nil {
		return goals.Goal{}, nil, fmt.Errorf("invalid --goal %q: %w", goalID, err)
	}
	g, err := store.Get(userID, id)
	if err != nil {
		return goals.Goal{}, nil, err
	}
	return g, store, nil
}
