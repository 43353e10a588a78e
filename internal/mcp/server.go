package mcp

import (
	"context"
	"fmt"
	"regexp"
	"sync"
	"time"

	"goalplan-mcp/internal/config"
	"goalplan-mcp/internal/goals"
	"goalplan-mcp/internal/progress"
	"goalplan-mcp/internal/shortfall"
	"goalplan-mcp/internal/simulation"

	"github.com/modelcontextprotocol/go-sdk/mcp"
	"github.com/rs/zerolog/log"
)

const serverName = "goalplan-mcp"

var userIDPattern = regexp.MustCompile(`^[A-Za-z0-9][A-Za-z0-9_.-]{0,63}$`)

// Server holds the state for the MCP server.
type Server struct {
	cfg       *config.AppConfig
	calc      *simulation.Calculator
	store     *goals.Store
	progress  *progress.Analyzer
	shortfall *shortfall.Analyzer

	mu     sync.Mutex
	loaded map[string]bool
}

// NewServer wires the analyzers to a shared calculator and goal store.
func NewServer(cfg *config.AppConfig) *Server {
	calc := simulation.NewCalculator(nil, cfg.Simulation)
	store := goals.NewStore()
	return &Server{
		cfg:       cfg,
		calc:      calc,
		store:     store,
		progress:  progress.NewAnalyzer(calc, store, calc.Config()),
		shortfall: shortfall.NewAnalyzer(calc, calc.Config()),
		loaded:    make(map[string]bool),
	}
}

// WithClock fixes the analyzers' notion of "now".
func (s *Server) WithClock(now func() time.Time) *Server {
	s.progress.WithClock(now)
	s.shortfall.WithClock(now)
	return s
}

// MCPServer builds the protocol server with every tool registered.
func (s *Server) MCPServer(version string) *mcp.Server {
	server := mcp.NewServer(&mcp.Implementation{Name: serverName, Version: version}, nil)
	s.registerTools(server)
	return server
}

// Run serves MCP over stdio until the client disconnects or ctx is done.
func (s *Server) Run(ctx context.Context, version string) error {
	log.Info().Str("version", version).Str("goals_dir", s.cfg.GoalsDir).Msg("Starting MCP server on stdio")
	return s.MCPServer(version).Run(ctx, &mcp.StdioTransport{})
}

// withTimeout bounds a single tool call.
func (s *Server) withTimeout(ctx context.Context) (context.Context, context.CancelFunc) {
	if s.cfg.Timeout <= 0 {
		return context.WithCancel(ctx)
	}
	return context.WithTimeout(ctx, s.cfg.Timeout)
}

// ensureUser validates the user ID and loads the user's goals from disk on
// first use.
func (s *Server) ensureUser(userID string) error {
	if !userIDPattern.MatchString(userID) {
		return fmt.Errorf("%w: user_id %q must be 1-64 letters, digits, '.', '_' or '-'", simulation.ErrInvalidInput, userID)
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if s.loaded[userID] {
		return nil
	}
	if err := s.store.Load(s.cfg.GoalsDir, userID); err != nil {
		return err
	}
	s.loaded[userID] = true
	return nil
}

func (s *Server) persist(userID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.store.Save(s.cfg.GoalsDir, userID)
}
