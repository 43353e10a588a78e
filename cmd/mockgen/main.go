package main

import (
	"flag"
	"fmt"
	"os"
	"strings"
	"time"

	"goalplan-mcp/cmd/mockgen/engine"
)

func main() {
	scenario := flag.String("scenario", "mixed", "Scenario to generate: "+strings.Join(engine.Scenarios(), ", "))
	userID := flag.String("user", "mock-user", "User that owns the generated goals")
	outDir := flag.String("out", "./data/goals", "Goal store directory")
	count := flag.Int("count", 7, "Number of goals to generate")
	seed := flag.Int64("seed", 1, "Random seed")
	flag.Parse()

	cfg := engine.GeneratorConfig{
		Scenario: *scenario,
		UserID:   *userID,
		Count:    *count,
		Seed:     *seed,
		Now:      time.Now().UTC(),
	}

	fmt.Printf("Generating scenario '%s' (User: %s, Count: %d) to %s...\n", cfg.Scenario, cfg.UserID, cfg.Count, *outDir)

	portfolio, err := engine.Generate(cfg)
	if err != nil {
		fmt.Printf("Failed to generate goals: %v\n", err)
		os.Exit(1)
	}

	if err := engine.Save(*outDir, cfg.UserID, portfolio); err != nil {
		fmt.Printf("Failed to save mock data: %v\n", err)
		os.Exit(1)
	}

	fmt.Println("Done.")
}
