package goals

import (
	"bufio"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
	"gopkg.in/yaml.v3"
)

// Store provides thread-safe storage for goals, partitioned by user.
type Store struct {
	mu    sync.RWMutex
	goals map[string]map[uuid.UUID]Goal
}

// NewStore creates a new empty Store.
func NewStore() *Store {
	return &Store{
		goals: make(map[string]map[uuid.UUID]Goal),
	}
}

// Put inserts or replaces a goal. Missing IDs and timestamps are filled in.
func (s *Store) Put(g Goal) Goal {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := time.Now().UTC()
	if g.ID == uuid.Nil {
		g.ID = uuid.New()
	}
	if g.Status == "" {
		g.Status = StatusActive
	}

	userGoals, ok := s.goals[g.UserID]
	if !ok {
		userGoals = make(map[uuid.UUID]Goal)
		s.goals[g.UserID] = userGoals
	}
	if existing, ok := userGoals[g.ID]; ok && g.CreatedAt.IsZero() {
		g.CreatedAt = existing.CreatedAt
	}
	if g.CreatedAt.IsZero() {
		g.CreatedAt = now
	}
	g.UpdatedAt = now

	userGoals[g.ID] = g
	return g
}

// Get returns a single goal.
func (s *Store) Get(userID string, id uuid.UUID) (Goal, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	g, ok := s.goals[userID][id]
	if !ok {
		return Goal{}, fmt.Errorf("%w: %s", ErrNotFound, id)
	}
	return g, nil
}

// Delete removes a goal.
func (s *Store) Delete(userID string, id uuid.UUID) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.goals[userID][id]; !ok {
		return fmt.Errorf("%w: %s", ErrNotFound, id)
	}
	delete(s.goals[userID], id)
	return nil
}

// List returns all goals of a user ordered by target date, then name.
func (s *Store) List(userID string) []Goal {
	s.mu.RLock()
	defer s.mu.RUnlock()

	result := make([]Goal, 0, len(s.goals[userID]))
	for _, g := range s.goals[userID] {
		result = append(result, g)
	}
	sortGoals(result)
	return result
}

// Active returns the goals of a user that take part in summaries.
func (s *Store) Active(userID string) []Goal {
	var active []Goal
	for _, g := range s.List(userID) {
		if g.IsActive() {
			active = append(active, g)
		}
	}
	return active
}

// Count returns the number of goals stored for a user.
func (s *Store) Count(userID string) int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.goals[userID])
}

// Load reads goals from a JSONL file for the given user.
func (s *Store) Load(dir string, userID string) error {
	path := filepath.Join(dir, fmt.Sprintf("%s.jsonl", userID))
	file, err := os.Open(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil // Nothing saved yet
		}
		return fmt.Errorf("failed to open goal file: %w", err)
	}
	defer file.Close()

	var loaded []Goal
	scanner := bufio.NewScanner(file)
	for scanner.Scan() {
		var g Goal
		if err := json.Unmarshal(scanner.Bytes(), &g); err != nil {
			log.Warn().Err(err).Str("user", userID).Msg("Skipping invalid JSON line in goal file")
			continue
		}
		loaded = append(loaded, g)
	}

	if err := scanner.Err(); err != nil {
		return fmt.Errorf("error reading goal file: %w", err)
	}

	s.mu.Lock()
	userGoals, ok := s.goals[userID]
	if !ok {
		userGoals = make(map[uuid.UUID]Goal)
		s.goals[userID] = userGoals
	}
	for _, g := range loaded {
		g.UserID = userID
		userGoals[g.ID] = g
	}
	s.mu.Unlock()

	log.Info().Str("user", userID).Int("count", len(loaded)).Msg("Loaded goals from disk")
	return nil
}

// Save persists the goals of a user to a JSONL file.
func (s *Store) Save(dir string, userID string) error {
	goals := s.List(userID)

	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("failed to create goal directory: %w", err)
	}

	path := filepath.Join(dir, fmt.Sprintf("%s.jsonl", userID))
	tmpPath := path + ".tmp"

	file, err := os.Create(tmpPath)
	if err != nil {
		return fmt.Errorf("failed to create temp goal file: %w", err)
	}

	writer := bufio.NewWriter(file)
	encoder := json.NewEncoder(writer)

	for _, g := range goals {
		if err := encoder.Encode(g); err != nil {
			file.Close()
			os.Remove(tmpPath)
			return fmt.Errorf("failed to encode goal: %w", err)
		}
	}

	if err := writer.Flush(); err != nil {
		file.Close()
		os.Remove(tmpPath)
		return fmt.Errorf("failed to flush writer: %w", err)
	}

	if err := file.Close(); err != nil {
		os.Remove(tmpPath)
		return fmt.Errorf("failed to close file: %w", err)
	}

	// Atomic rename
	if err := os.Rename(tmpPath, path); err != nil {
		return fmt.Errorf("failed to rename goal file: %w", err)
	}

	log.Info().Str("user", userID).Int("count", len(goals)).Msg("Goals saved to disk")
	return nil
}

// Portfolio is the YAML import format: a user and their goals.
type Portfolio struct {
	UserID string `yaml:"user_id"`
	Goals  []Goal `yaml:"goals"`
}

// ImportYAML reads a portfolio document and stores its goals under userID
// (or the document's user when userID is empty). It returns the stored goals.
func (s *Store) ImportYAML(r io.Reader, userID string) ([]Goal, error) {
	var doc Portfolio
	if err := yaml.NewDecoder(r).Decode(&doc); err != nil {
		return nil, fmt.Errorf("failed to decode goal portfolio: %w", err)
	}
	if userID == "" {
		userID = doc.UserID
	}
	if userID == "" {
		return nil, fmt.Errorf("goal portfolio has no user_id")
	}

	stored := make([]Goal, 0, len(doc.Goals))
	for _, g := range doc.Goals {
		g.UserID = userID
		stored = append(stored, s.Put(g))
	}
	sortGoals(stored)
	return stored, nil
}

func sortGoals(goals []Goal) {
	sort.Slice(goals, func(i, j int) bool {
		if !goals[i].TargetDate.Equal(goals[j].TargetDate) {
			return goals[i].TargetDate.Before(goals[j].TargetDate)
		}
		return goals[i].Name < goals[j].Name
	})
}
