package commands

import (
	"fmt"
	"strconv"

	"goalplan-mcp/internal/simulation"

	"github.com/spf13/cobra"
)

var projectionFlags struct {
	current      float64
	target       float64
	contribution float64
	ret          float64
	volatility   float64
	years        float64
	iterations   int
	solve        bool
	probability  float64
}

var probabilityCmd = &cobra.Command{
	Use:   "probability",
	Short: "Estimate the probability of reaching a target value",
	Example: `  goalplan-mcp probability --current 100000 --target 200000 --contribution 500 --years 15
  goalplan-mcp probability --current 30000 --target 100000 --contribution 200 --years 10 --solve`,
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, cancel := commandContext(cmd)
		defer cancel()

		p := simulation.Params{
			CurrentValue:        projectionFlags.current,
			TargetValue:         projectionFlags.target,
			MonthlyContribution: projectionFlags.contribution,
			ExpectedReturn:      cfg.Simulation.DefaultExpectedReturn,
			Volatility:          cfg.Simulation.DefaultVolatility,
			YearsToGoal:         projectionFlags.years,
			Iterations:          projectionFlags.iterations,
		}
		if cmd.Flags().Changed("return") {
			p.ExpectedReturn = projectionFlags.ret
		}
		if cmd.Flags().Changed("volatility") {
			p.Volatility = projectionFlags.volatility
		}

		calc := newCalculator()
		res, err := calc.GoalProbability(ctx, p)
		if err != nil {
			return err
		}
		if !projectionFlags.solve {
			return printJSON(cmd.OutOrStdout(), res)
		}

		required, err := calc.RequiredContribution(ctx, p, projectionFlags.probability)
		if err != nil {
			return err
		}
		return printJSON(cmd.OutOrStdout(), map[string]any{
			"probability":           res,
			"required_contribution": required,
		})
	},
}

var glidePathCmd = &cobra.Command{
	Use:   "glide-path YEARS EQUITY_PERCENT",
	Short: "Show the model equity allocation for the years left to a goal",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		years, err := strconv.ParseFloat(args[0], 64)
		if err != nil {
			return fmt.Errorf("invalid YEARS %q: %w", args[0], err)
		}
		equity, err := strconv.ParseFloat(args[1], 64)
		if err != nil {
			return fmt.Errorf("invalid EQUITY_PERCENT %q: %w", args[1], err)
		}
		return printJSON(cmd.OutOrStdout(), simulation.CalculateGlidePath(years, equity))
	},
}

func init() {
	f := probabilityCmd.Flags()
	f.Float64Var(&projectionFlags.current, "current", 0, "current value in GBP")
	f.Float64Var(&projectionFlags.target, "target", 0, "target value in GBP")
	f.Float64Var(&projectionFlags.contribution, "contribution", 0, "monthly contribution in GBP")
	f.Float64Var(&projectionFlags.ret, "return", 0.06, "expected annual return as a ratio (default from SIM_DEFAULT_RETURN)")
	f.Float64Var(&projectionFlags.volatility, "volatility", 0.15, "annual volatility as a ratio (default from SIM_DEFAULT_VOLATILITY)")
	f.Float64Var(&projectionFlags.years, "years", 0, "years to the target date")
	f.IntVar(&projectionFlags.iterations, "iterations", 0, "Monte-Carlo trials (default from SIM_ITERATIONS)")
	f.BoolVar(&projectionFlags.solve, "solve", false, "also solve for the required monthly contribution")
	f.Float64Var(&projectionFlags.probability, "target-probability", 0, "probability to solve for as a ratio (default from SIM_TARGET_PROBABILITY)")
	_ = probabilityCmd.MarkFlagRequired("target")
	_ = probabilityCmd.MarkFlagRequired("years")

	rootCmd.AddCommand(probabilityCmd, glidePathCmd)
}
