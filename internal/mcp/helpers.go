package mcp

import (
	"context"
	"errors"
	"fmt"
	"time"

	"goalplan-mcp/internal/goals"
	"goalplan-mcp/internal/simulation"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
)

// Failure codes reported in the envelope.
const (
	CodeInvalidInput   = "invalid_input"
	CodeIncompleteGoal = "incomplete_goal"
	CodeNotFound       = "not_found"
	CodeTimeout        = "timeout"
	CodeCancelled      = "cancelled"
	CodeInternal       = "internal_error"
)

// Envelope is the tagged result of every tool. Failures are reported here
// rather than as protocol errors so a client can always branch on Success.
type Envelope struct {
	Success bool              `json:"success"`
	Code    string            `json:"code,omitempty"`
	Message string            `json:"message,omitempty"`
	Data    any               `json:"data,omitempty"`
	Charts  map[string]string `json:"charts,omitempty"`
}

// WrapResponse builds a successful envelope.
func WrapResponse(data any, message string) Envelope {
	return Envelope{Success: true, Message: message, Data: data}
}

// WrapFailure maps an error onto a failure envelope.
func WrapFailure(err error) Envelope {
	code := CodeInternal
	switch {
	case errors.Is(err, simulation.ErrInvalidInput), errors.Is(err, goals.ErrInvalidGoal):
		code = CodeInvalidInput
	case errors.Is(err, goals.ErrIncompleteGoal):
		code = CodeIncompleteGoal
	case errors.Is(err, goals.ErrNotFound):
		code = CodeNotFound
	case errors.Is(err, context.DeadlineExceeded):
		code = CodeTimeout
	case errors.Is(err, context.Canceled):
		code = CodeCancelled
	}

	evt := log.Warn()
	if code == CodeInternal {
		evt = log.Error()
	}
	evt.Err(err).Str("code", code).Msg("Tool call failed")

	return Envelope{Success: false, Code: code, Message: err.Error()}
}

// addChart attaches a chart when charts are enabled and the chart is not empty.
func (s *Server) addChart(env *Envelope, name, chart string) {
	if !s.cfg.EnableMermaidCharts || chart == "" {
		return
	}
	if env.Charts == nil {
		env.Charts = make(map[string]string)
	}
	env.Charts[name] = chart
}

func parseGoalID(raw string) (uuid.UUID, error) {
	id, err := uuid.Parse(raw)
	if err != nil {
		return uuid.Nil, fmt.Errorf("%w: goal_id %q is not a UUID", simulation.ErrInvalidInput, raw)
	}
	return id, nil
}

func parseDate(raw string) (time.Time, error) {
	if raw == "" {
		return time.Time{}, nil
	}
	d, err := time.Parse(time.DateOnly, raw)
	if err != nil {
		return time.Time{}, fmt.Errorf("%w: target_date %q must be YYYY-MM-DD", simulation.ErrInvalidInput, raw)
	}
	return d, nil
}

// lookup loads the user's goals and returns one of them.
func (s *Server) lookup(userID, goalID string) (goals.Goal, error) {
	if err := s.ensureUser(userID); err != nil {
		return goals.Goal{}, err
	}
	id, err := parseGoalID(goalID)
	if err != nil {
		return goals.Goal{}, err
	}
	return s.store.Get(userID, id)
}
