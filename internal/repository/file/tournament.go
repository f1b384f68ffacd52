package file

import (
	"context"
	"os"
	"path/filepath"
	"strings"

	"github.com/albertomarcenaro-code/match-manager-v2-sub000/internal/model"
	"github.com/albertomarcenaro-code/match-manager-v2-sub000/internal/repository"
)

const tournamentPrefix = "tournament_"

// tournamentStore persists each tournament as its own blob, keyed by id.
// It backs guest mode, where the Postgres archive is not available.
type tournamentStore struct{ *Store }

// Tournaments returns the local tournament persistence port.
func (s *Store) Tournaments() repository.TournamentRepository { return tournamentStore{s} }

func tournamentKey(id string) string { return tournamentPrefix + id + ".json" }

func (s tournamentStore) Create(_ context.Context, t model.Tournament) (model.Tournament, error) {
	var existing model.Tournament
	if err := s.readBlob(tournamentKey(t.ID), &existing); err == nil {
		return model.Tournament{}, repository.ErrAlreadyExists
	}
	if err := s.writeBlob(tournamentKey(t.ID), t); err != nil {
		return model.Tournament{}, err
	}
	return t, nil
}

func (s tournamentStore) GetByID(_ context.Context, id string) (model.Tournament, error) {
	var t model.Tournament
	if err := s.readBlob(tournamentKey(id), &t); err != nil {
		return model.Tournament{}, err
	}
	return t, nil
}

func (s tournamentStore) List(_ context.Context) ([]model.Tournament, error) {
	entries, err := os.ReadDir(s.dir)
	if err != nil {
		return nil, err
	}
	out := make([]model.Tournament, 0, len(entries))
	for _, e := range entries {
		name := e.Name()
		if !strings.HasPrefix(name, tournamentPrefix) || filepath.Ext(name) != ".json" {
			continue
		}
		var t model.Tournament
		if err := s.readBlob(name, &t); err != nil {
			continue // unparsable blobs are skipped, not fatal
		}
		out = append(out, t)
	}
	return out, nil
}

func (s tournamentStore) SaveSnapshot(_ context.Context, t model.Tournament) error {
	return s.writeBlob(tournamentKey(t.ID), t)
}

func (s tournamentStore) Deactivate(ctx context.Context, id string) error {
	t, err := s.GetByID(ctx, id)
	if err != nil {
		return err
	}
	t.Active = false
	return s.writeBlob(tournamentKey(id), t)
}

var _ repository.TournamentRepository = tournamentStore{}
