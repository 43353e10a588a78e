package config

import (
	"os"
	"path/filepath"
	"strconv"
	"time"

	"goalplan-mcp/internal/simulation"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog/log"
)

// AppConfig holds the complete application configuration.
type AppConfig struct {
	Simulation          simulation.Config
	DataPath            string
	LogDir              string
	GoalsDir            string
	EnableMermaidCharts bool
	// Timeout bounds a single tool call or CLI command.
	Timeout time.Duration
}

// Load loads the configuration from .env files and environment variables.
func Load() (*AppConfig, error) {
	// 1. Try to load from the executable's directory (highest priority for MCP servers)
	exePath, err := os.Executable()
	exeDir := ""
	if err == nil {
		exeDir = filepath.Dir(exePath)
		envPath := filepath.Join(exeDir, ".env")
		if err := godotenv.Load(envPath); err == nil {
			log.Debug().Str("path", envPath).Msg("Loaded configuration from binary directory")
		}
	}

	// 2. Fallback to current working directory (useful for development/go run)
	if err := godotenv.Load(); err != nil {
		log.Debug().Msg("No .env file found in working directory, relying on environment variables or binary-relative .env")
	}

	// 3. Resolve Data Paths
	dataPath := os.Getenv("DATA_PATH")
	if dataPath == "" {
		if exeDir != "" {
			dataPath = exeDir
		} else {
			dataPath = "."
		}
	}

	logDir := filepath.Join(dataPath, "logs")
	goalsDir := filepath.Join(dataPath, "goals")

	// Ensure directories exist
	if err := os.MkdirAll(logDir, 0755); err != nil {
		log.Warn().Err(err).Str("path", logDir).Msg("Failed to create log directory")
	}
	if err := os.MkdirAll(goalsDir, 0755); err != nil {
		log.Warn().Err(err).Str("path", goalsDir).Msg("Failed to create goals directory")
	}

	d := simulation.DefaultConfig()
	cfg := &AppConfig{
		Simulation: simulation.Config{
			Iterations:            getEnvInt("SIM_ITERATIONS", d.Iterations),
			MaxIterations:         getEnvInt("SIM_MAX_ITERATIONS", d.MaxIterations),
			SolverIterations:      getEnvInt("SIM_SOLVER_ITERATIONS", d.SolverIterations),
			SolverTolerance:       getEnvFloat("SIM_SOLVER_TOLERANCE", d.SolverTolerance),
			SolverMaxSteps:        getEnvInt("SIM_SOLVER_MAX_STEPS", d.SolverMaxSteps),
			TargetProbability:     getEnvFloat("SIM_TARGET_PROBABILITY", d.TargetProbability),
			Seed:                  getEnvInt64("SIM_SEED", 0),
			Workers:               getEnvInt("SIM_WORKERS", 0),
			DefaultExpectedReturn: getEnvFloat("SIM_DEFAULT_RETURN", d.DefaultExpectedReturn),
			DefaultVolatility:     getEnvFloat("SIM_DEFAULT_VOLATILITY", d.DefaultVolatility),
		},
		DataPath:            dataPath,
		LogDir:              logDir,
		GoalsDir:            goalsDir,
		EnableMermaidCharts: getEnvBool("ENABLE_MERMAID_CHARTS", false),
		Timeout:             time.Duration(getEnvInt("SIM_TIMEOUT_SECONDS", 30)) * time.Second,
	}

	return cfg, nil
}

func getEnv(key, fallback string) string {
	if value, ok := os.LookupEnv(key); ok {
		return value
	}
	return fallback
}

func getEnvBool(key string, fallback bool) bool {
	if value, ok := os.LookupEnv(key); ok {
		if boolVal, err := strconv.ParseBool(value); err == nil {
			return boolVal
		}
	}
	return fallback
}

func getEnvInt(key string, fallback int) int {
	if n, err := strconv.Atoi(getEnv(key, "")); err == nil {
		return n
	}
	return fallback
}

func getEnvInt64(key string, fallback int64) int64 {
	if n, err := strconv.ParseInt(getEnv(key, ""), 10, 64); err == nil {
		return n
	}
	return fallback
}

func getEnvFloat(key string, fallback float64) float64 {
	if f, err := strconv.ParseFloat(getEnv(key, ""), 64); err == nil {
		return f
	}
	return fallback
}
