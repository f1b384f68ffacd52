package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/albertomarcenaro-code/match-manager-v2-sub000/internal/model"
	"github.com/albertomarcenaro-code/match-manager-v2-sub000/internal/repository"
	"github.com/albertomarcenaro-code/match-manager-v2-sub000/internal/tournament"
)

// TournamentService defines tournament-oriented use cases.
type TournamentService interface {
	Create(ctx context.Context, name, teamName string) (model.Tournament, error)
	Get(ctx context.Context, id string) (model.Tournament, error)
	List(ctx context.Context) ([]model.Tournament, error)
	RecordMatch(ctx context.Context, id string, m model.TournamentMatch) (model.Tournament, error)
	Deactivate(ctx context.Context, id string) error
}

type tournamentService struct {
	repo repository.TournamentRepository
	txm  repository.TxManager
	log  zerolog.Logger
}

// TournamentOption configures optional service collaborators.
type TournamentOption func(*tournamentService)

// WithTxManager makes RecordMatch run its read-fold-write cycle inside one
// transaction, so concurrent folds from different devices cannot lose each
// other's matches. The local blob store has no such races and runs without it.
func WithTxManager(txm repository.TxManager) TournamentOption {
	return func(s *tournamentService) { s.txm = txm }
}

// NewTournamentService wires the aggregator over a tournament repository
// (local blob store in guest mode, Postgres when the archive is configured).
func NewTournamentService(repo repository.TournamentRepository, logger zerolog.Logger, opts ...TournamentOption) TournamentService {
	l := logger.With().Str("module", "service").Str("component", "tournament").Logger()
	s := &tournamentService{repo: repo, log: l}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func (s *tournamentService) Create(ctx context.Context, name, teamName string) (model.Tournament, error) {
	var ferrs []FieldError
	if strings.TrimSpace(name) == "" {
		ferrs = append(ferrs, FieldError{Field: "name", Message: "must not be empty"})
	}
	if err := newInvalidInput(ferrs); err != nil {
		return model.Tournament{}, err
	}
	t, err := tournament.New(name, teamName)
	if err != nil {
		return model.Tournament{}, newInvalidInput([]FieldError{{Field: "name", Message: err.Error()}})
	}
	start := time.Now()
	out, err := s.repo.Create(ctx, t)
	if err != nil {
		s.log.Error().Err(err).Str("name", name).Msg("create tournament failed")
		return model.Tournament{}, err
	}
	s.log.Info().Dur("took", time.Since(start)).Str("tournament_id", out.ID).Msg("tournament created")
	return out, nil
}

func (s *tournamentService) Get(ctx context.Context, id string) (model.Tournament, error) {
	if strings.TrimSpace(id) == "" {
		return model.Tournament{}, newInvalidInput([]FieldError{{Field: "id", Message: "must not be empty"}})
	}
	return s.repo.GetByID(ctx, id)
}

func (s *tournamentService) List(ctx context.Context) ([]model.Tournament, error) {
	out, err := s.repo.List(ctx)
	if err != nil {
		s.log.Error().Err(err).Msg("list tournaments failed")
		return nil, err
	}
	return out, nil
}

// RecordMatch folds one completed match into the tournament and snapshots the
// updated aggregate.
func (s *tournamentService) RecordMatch(ctx context.Context, id string, m model.TournamentMatch) (model.Tournament, error) {
	if strings.TrimSpace(id) == "" {
		return model.Tournament{}, newInvalidInput([]FieldError{{Field: "id", Message: "must not be empty"}})
	}
	var t model.Tournament
	fold := func(ctx context.Context) error {
		var err error
		t, err = s.repo.GetByID(ctx, id)
		if err != nil {
			return err
		}
		if err := tournament.AddMatch(&t, m); err != nil {
			if errors.Is(err, tournament.ErrInactive) {
				return fmt.Errorf("%w: %s", repository.ErrConflict, err)
			}
			return newInvalidInput([]FieldError{{Field: "id", Message: err.Error()}})
		}
		return s.repo.SaveSnapshot(ctx, t)
	}

	var err error
	if s.txm != nil {
		err = s.txm.WithinTx(ctx, fold)
	} else {
		err = fold(ctx)
	}
	if err != nil {
		s.log.Error().Err(err).Str("tournament_id", id).Msg("record match failed")
		return model.Tournament{}, err
	}
	s.log.Info().
		Str("tournament_id", id).
		Int("matches", len(t.Matches)).
		Msg("match recorded to tournament")
	return t, nil
}

func (s *tournamentService) Deactivate(ctx context.Context, id string) error {
	if strings.TrimSpace(id) == "" {
		return newInvalidInput([]FieldError{{Field: "id", Message: "must not be empty"}})
	}
	return s.repo.Deactivate(ctx, id)
}
