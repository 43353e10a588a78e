package commands

import (
	"fmt"
	"os"

	"goalplan-mcp/internal/goals"
	"goalplan-mcp/internal/progress"
	"goalplan-mcp/internal/shortfall"

	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
)

var goalFlags struct {
	user      string
	goal      string
	current   float64
	scenarios string
}

var progressCmd = &cobra.Command{
	Use:   "progress",
	Short: "Analyse the progress of a stored goal",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, cancel := commandContext(cmd)
		defer cancel()

		g, store, err := findGoal(goalFlags.user, goalFlags.goal)
		if err != nil {
			return err
		}
		calc := newCalculator()
		report, err := progress.NewAnalyzer(calc, store, calc.Config()).AnalyzeGoalProgress(ctx, g)
		if err != nil {
			return err
		}
		return printJSON(cmd.OutOrStdout(), report)
	},
}

var summaryCmd = &cobra.Command{
	Use:   "summary",
	Short: "Summarise all active goals of a user",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, cancel := commandContext(cmd)
		defer cancel()

		store, err := loadGoals(goalFlags.user)
		if err != nil {
			return err
		}
		calc := newCalculator()
		summary, err := progress.NewAnalyzer(calc, store, calc.Config()).AnalyzeAllGoals(ctx, goalFlags.user)
		if err != nil {
			return err
		}
		return printJSON(cmd.OutOrStdout(), summary)
	},
}

var shortfallCmd = &cobra.Command{
	Use:   "shortfall",
	Short: "Rank strategies for closing a goal's shortfall",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, cancel := commandContext(cmd)
		defer cancel()

		g, _, err := findGoal(goalFlags.user, goalFlags.goal)
		if err != nil {
			return err
		}
		current := g.CurrentValue
		if cmd.Flags().Changed("current") {
			current = goalFlags.current
		}

		calc := newCalculator()
		report, err := shortfall.NewAnalyzer(calc, calc.Config()).AnalyzeShortfall(ctx, g, current)
		if err != nil {
			return err
		}
		return printJSON(cmd.OutOrStdout(), report)
	},
}

var whatIfCmd = &cobra.Command{
	Use:   "what-if",
	Short: "Compare contribution and return scenarios for a stored goal",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, cancel := commandContext(cmd)
		defer cancel()

		g, _, err := findGoal(goalFlags.user, goalFlags.goal)
		if err != nil {
			return err
		}

		var scenarios []shortfall.Scenario
		if goalFlags.scenarios != "" {
			f, err := os.Open(goalFlags.scenarios)
			if err != nil {
				return fmt.Errorf("failed to open scenarios: %w", err)
			}
			defer f.Close()
			if scenarios, err = shortfall.LoadScenarios(f); err != nil {
				return err
			}
		}

		current := g.CurrentValue
		if cmd.Flags().Changed("current") {
			current = goalFlags.current
		}
		calc := newCalculator()
		report, err := shortfall.NewAnalyzer(calc, calc.Config()).GenerateWhatIfScenarios(ctx, g, current, scenarios)
		if err != nil {
			return err
		}
		return printJSON(cmd.OutOrStdout(), report)
	},
}

var importCmd = &cobra.Command{
	Use:   "import FILE",
	Short: "Import a YAML goal portfolio into the goal store",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		f, err := os.Open(args[0])
		if err != nil {
			return fmt.Errorf("failed to open portfolio: %w", err)
		}
		defer f.Close()

		store := goals.NewStore()
		imported, err := store.ImportYAML(f, goalFlags.user)
		if err != nil {
			return err
		}
		if len(imported) == 0 {
			return fmt.Errorf("portfolio %s contains no goals", args[0])
		}
		userID := imported[0].UserID

		// Merge with what is already on disk.
		if err := store.Load(cfg.GoalsDir, userID); err != nil {
			return err
		}
		for _, g := range imported {
			store.Put(g)
		}
		if err := store.Save(cfg.GoalsDir, userID); err != nil {
			return err
		}

		log.Info().Str("user", userID).Int("count", len(imported)).Msg("Portfolio imported")
		return printJSON(cmd.OutOrStdout(), imported)
	},
}

func init() {
	for _, c := range []*cobra.Command{progressCmd, summaryCmd, shortfallCmd, whatIfCmd, importCmd} {
		c.Flags().StringVar(&goalFlags.user, "user", "", "user owning the goals")
		rootCmd.AddCommand(c)
	}
	for _, c := range []*cobra.Command{progressCmd, shortfallCmd, whatIfCmd} {
		c.Flags().StringVar(&goalFlags.goal, "goal", "", "goal UUID")
		_ = c.MarkFlagRequired("goal")
	}
	for _, c := range []*cobra.Command{shortfallCmd, whatIfCmd} {
		c.Flags().Float64Var(&goalFlags.current, "current", 0, "up-to-date portfolio value (default: stored value)")
	}
	whatIfCmd.Flags().StringVar(&goalFlags.scenarios, "scenarios", "", "YAML file of scenarios (default: six built-in scenarios)")
}
