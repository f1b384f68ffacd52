// Package postgres holds the cross-device tournament archive. Tournaments
// are stored as one row per tournament with the full aggregate serialized to
// a jsonb column; the aggregate is small (one roster plus match summaries)
// and is always read and written whole, so a relational breakdown would buy
// nothing.
package postgres

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/albertomarcenaro-code/match-manager-v2-sub000/internal/model"
	"github.com/albertomarcenaro-code/match-manager-v2-sub000/internal/repository"
)

type tournamentRepository struct{ pool *pgxpool.Pool }

func NewTournamentRepository(pool *pgxpool.Pool) repository.TournamentRepository {
	return &tournamentRepository{pool: pool}
}

func (r *tournamentRepository) Create(ctx context.Context, t model.Tournament) (model.Tournament, error) {
	if err := ensurePool(r.pool); err != nil {
		return model.Tournament{}, err
	}
	exec := getQ(ctx, r.pool)
	_, err := exec.Exec(ctx,
		`INSERT INTO tournaments (id, name, team_name, active, data)
		 VALUES ($1, $2, $3, $4, $5)`,
		t.ID, t.Name, t.TeamName, t.Active, t,
	)
	if err != nil {
		return model.Tournament{}, repository.MapPgError(err)
	}
	return t, nil
}

func (r *tournamentRepository) GetByID(ctx context.Context, id string) (model.Tournament, error) {
	if err := ensurePool(r.pool); err != nil {
		return model.Tournament{}, err
	}
	exec := getQ(ctx, r.pool)
	row := exec.QueryRow(ctx,
		`SELECT data FROM tournaments WHERE id = $1`, id,
	)
	var out model.Tournament
	if err := row.Scan(&out); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return model.Tournament{}, repository.ErrNotFound
		}
		return model.Tournament{}, repository.MapPgError(err)
	}
	return out, nil
}

func (r *tournamentRepository) List(ctx context.Context) ([]model.Tournament, error) {
	if err := ensurePool(r.pool); err != nil {
		return nil, err
	}
	exec := getQ(ctx, r.pool)
	rows, err := exec.Query(ctx,
		`SELECT data FROM tournaments ORDER BY created_at DESC`,
	)
	if err != nil {
		return nil, repository.MapPgError(err)
	}
	defer rows.Close()
	out := make([]model.Tournament, 0)
	for rows.Next() {
		var t model.Tournament
		if err := rows.Scan(&t); err != nil {
			return nil, repository.MapPgError(err)
		}
		out = append(out, t)
	}
	return out, rows.Err()
}

// SaveSnapshot replaces the stored aggregate wholesale. The mirrored name and
// active columns exist only for listing and filtering without unpacking json.
func (r *tournamentRepository) SaveSnapshot(ctx context.Context, t model.Tournament) error {
	if err := ensurePool(r.pool); err != nil {
		return err
	}
	exec := getQ(ctx, r.pool)
	tag, err := exec.Exec(ctx,
		`UPDATE tournaments
		 SET name = $2, team_name = $3, active = $4, data = $5, updated_at = now()
		 WHERE id = $1`,
		t.ID, t.Name, t.TeamName, t.Active, t,
	)
	if err != nil {
		return repository.MapPgError(err)
	}
	if tag.RowsAffected() == 0 {
		return repository.ErrNotFound
	}
	return nil
}

func (r *tournamentRepository) Deactivate(ctx context.Context, id string) error {
	if err := ensurePool(r.pool); err != nil {
		return err
	}
	exec := getQ(ctx, r.pool)
	tag, err := exec.Exec(ctx,
		`UPDATE tournaments
		 SET active = false,
		     data = jsonb_set(data, '{active}', 'false'),
		     updated_at = now()
		 WHERE id = $1`,
		id,
	)
	if err != nil {
		return repository.MapPgError(err)
	}
	if tag.RowsAffected() == 0 {
		return repository.ErrNotFound
	}
	return nil
}

var _ repository.TournamentRepository = (*tournamentRepository)(nil)
