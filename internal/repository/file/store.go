// Package file implements the blob persistence ports on the local
// filesystem: one JSON document per fixed key, written atomically. It is the
// durable-storage analog for a single device; cross-device tournament
// persistence lives in the postgres package.
package file

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/rs/zerolog"

	"github.com/albertomarcenaro-code/match-manager-v2-sub000/internal/model"
	"github.com/albertomarcenaro-code/match-manager-v2-sub000/internal/repository"
)

const (
	matchStateKey = "match_state.json"
	timerStateKey = "timer_state.json"
)

// Store reads and writes JSON blobs under a data directory.
type Store struct {
	dir string
	log zerolog.Logger
}

// New ensures the data directory exists and returns a store over it.
func New(dir string, logger zerolog.Logger) (*Store, error) {
	if dir == "" {
		return nil, errors.New("data directory is required")
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create data directory: %w", err)
	}
	l := logger.With().Str("component", "filestore").Logger()
	return &Store{dir: dir, log: l}, nil
}

// writeBlob marshals v and writes it via temp file + rename so a crash never
// leaves a half-written blob behind.
func (s *Store) writeBlob(key string, v any) error {
	data, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("failed to marshal %s: %w", key, err)
	}
	tmp := filepath.Join(s.dir, key+".tmp")
	if err := os.WriteFile(tmp, data, 0o644); err != nil {
		return fmt.Errorf("failed to write %s: %w", key, err)
	}
	if err := os.Rename(tmp, filepath.Join(s.dir, key)); err != nil {
		return fmt.Errorf("failed to commit %s: %w", key, err)
	}
	return nil
}

// readBlob returns ErrNotFound for both an absent and an unparsable blob:
// callers are expected to fall back to their initial state either way. A
// corrupt blob is logged before being treated as missing.
func (s *Store) readBlob(key string, v any) error {
	data, err := os.ReadFile(filepath.Join(s.dir, key))
	if err != nil {
		if os.IsNotExist(err) {
			return repository.ErrNotFound
		}
		return fmt.Errorf("failed to read %s: %w", key, err)
	}
	if err := json.Unmarshal(data, v); err != nil {
		s.log.Warn().Err(err).Str("key", key).Msg("discarding unparsable blob")
		return repository.ErrNotFound
	}
	return nil
}

func (s *Store) removeBlob(key string) error {
	err := os.Remove(filepath.Join(s.dir, key))
	if err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("failed to remove %s: %w", key, err)
	}
	return nil
}

// MatchStateStore view of the store.

type matchStateStore struct{ *Store }

// MatchStates returns the match-state persistence port.
func (s *Store) MatchStates() repository.MatchStateStore { return matchStateStore{s} }

func (s matchStateStore) Load() (model.MatchState, error) {
	var state model.MatchState
	if err := s.readBlob(matchStateKey, &state); err != nil {
		return model.MatchState{}, err
	}
	return state, nil
}

func (s matchStateStore) Save(state model.MatchState) error {
	return s.writeBlob(matchStateKey, state)
}

func (s matchStateStore) Clear() error { return s.removeBlob(matchStateKey) }

// TimerStateStore view of the store.

type timerStateStore struct{ *Store }

// TimerStates returns the timer-snapshot persistence port.
func (s *Store) TimerStates() repository.TimerStateStore { return timerStateStore{s} }

func (s timerStateStore) Load() (model.TimerSnapshot, error) {
	var snap model.TimerSnapshot
	if err := s.readBlob(timerStateKey, &snap); err != nil {
		return model.TimerSnapshot{}, err
	}
	return snap, nil
}

func (s timerStateStore) Save(snap model.TimerSnapshot) error {
	return s.writeBlob(timerStateKey, snap)
}

func (s timerStateStore) Clear() error { return s.removeBlob(timerStateKey) }

var (
	_ repository.MatchStateStore = matchStateStore{}
	_ repository.TimerStateStore = timerStateStore{}
)
