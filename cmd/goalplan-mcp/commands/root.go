package commands

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"goalplan-mcp/internal/config"
	"goalplan-mcp/internal/logging"
	"goalplan-mcp/internal/mcp"

	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
)

var (
	// Version, Commit, and BuildDate are set at build time via ldflags.
	Version   = "dev"
	Commit    = "none"
	BuildDate = "unknown"

	verbose bool
	cfg     *config.AppConfig
)

var rootCmd = &cobra.Command{
	Use:   "goalplan-mcp",
	Short: "Goal projection and shortfall engine exposed as an MCP server",
	Long: `An MCP Server that projects UK financial-planning goals with Monte-Carlo simulation:
probability of success, required contributions, progress reports, glide paths and
ranked strategies for closing a shortfall. Without a subcommand it serves MCP over stdio.`,
	SilenceUsage: true,
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		logging.Init(verbose)

		var err error
		cfg, err = config.Load()
		if err != nil {
			log.Fatal().Err(err).Msg("Failed to load configuration")
		}

		log.Debug().
			Str("version", Version).
			Str("commit", Commit).
			Str("buildDate", BuildDate).
			Int("iterations", cfg.Simulation.Iterations).
			Msg("goalplan-mcp starting")
	},
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
		defer stop()

		server := mcp.NewServer(cfg)
		if err := server.Run(ctx, Version); err != nil && ctx.Err() == nil {
			return err
		}
		log.Info().Msg("MCP server stopped")
		return nil
	},
}

// Execute runs the root command.
func Execute() error {
	return rootCmd.ExecuteContext(context.Background())
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable verbose logging")
}
