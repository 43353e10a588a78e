package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/joho/godotenv"
)

func TestGodotenvQuoting(t *testing.T) {
	content := `SIM_SCENARIO_NAME='value with "double quotes"'`
	path := filepath.Join(t.TempDir(), ".env.test")
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatal(err)
	}

	env, err := godotenv.Read(path)
	if err != nil {
		t.Fatalf("Error reading env: %v", err)
	}

	expected := `value with "double quotes"`
	if env["SIM_SCENARIO_NAME"] != expected {
		t.Errorf("Expected %s, got %s", expected, env["SIM_SCENARIO_NAME"])
	}
}

func TestLoad_Overrides(t *testing.T) {
	dataPath := t.TempDir()
	t.Chdir(t.TempDir())
	t.Setenv("DATA_PATH", dataPath)
	t.Setenv("SIM_ITERATIONS", "2500")
	t.Setenv("SIM_SEED", "42")
	t.Setenv("SIM_MAX_ITERATIONS", "20000")
	t.Setenv("SIM_TARGET_PROBABILITY", "0.9")
	t.Setenv("SIM_TIMEOUT_SECONDS", "5")
	t.Setenv("SIM_WORKERS", "not-a-number")
	t.Setenv("ENABLE_MERMAID_CHARTS", "true")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if cfg.Simulation.Iterations != 2500 || cfg.Simulation.Seed != 42 || cfg.Simulation.TargetProbability != 0.9 {
		t.Errorf("Expected overrides applied, got %+v", cfg.Simulation)
	}
	if cfg.Simulation.MaxIterations != 20000 {
		t.Errorf("Expected SIM_MAX_ITERATIONS applied, got %d", cfg.Simulation.MaxIterations)
	}
	if cfg.Simulation.Workers != 0 {
		t.Errorf("Expected an invalid worker count to fall back to 0, got %d", cfg.Simulation.Workers)
	}
	if cfg.Simulation.SolverIterations != 500 || cfg.Simulation.DefaultVolatility != 0.15 {
		t.Errorf("Expected defaults for unset keys, got %+v", cfg.Simulation)
	}
	if cfg.Timeout != 5*time.Second || !cfg.EnableMermaidCharts {
		t.Errorf("Unexpected timeout/charts: %v %v", cfg.Timeout, cfg.EnableMermaidCharts)
	}

	if cfg.GoalsDir != filepath.Join(dataPath, "goals") {
		t.Errorf("Unexpected goals dir %s", cfg.GoalsDir)
	}
	if _, err := os.Stat(cfg.GoalsDir); err != nil {
		t.Errorf("Expected goals dir to be created: %v", err)
	}
}
