package repository

import (
	"context"

	"github.com/albertomarcenaro-code/match-manager-v2-sub000/internal/model"
)

// Pinger represents a minimal readiness probe capability.
// I use it to decouple health checks from storage implementation details.
type Pinger interface {
	Ping(ctx context.Context) error
}

// TxFunc is the unit of work executed within a transaction boundary.
type TxFunc func(ctx context.Context) error

// TxManager abstracts transactional execution for repositories that support it.
type TxManager interface {
	WithinTx(ctx context.Context, fn TxFunc) error
}

// MatchStateStore persists the whole match state as one blob under a fixed
// key. Load must return ErrNotFound for an absent or unparsable blob so
// callers fall back to the documented initial state instead of failing.
type MatchStateStore interface {
	Load() (model.MatchState, error)
	Save(state model.MatchState) error
	Clear() error
}

// TimerStateStore persists the timer snapshot the same way. Kept separate
// from the match blob so the timer can restore elapsed time on its own.
type TimerStateStore interface {
	Load() (model.TimerSnapshot, error)
	Save(snap model.TimerSnapshot) error
	Clear() error
}

// TournamentRepository declares persistence for tournaments. The local
// implementation keeps a single active-tournament blob; the Postgres one is
// the cross-device store and snapshots the full aggregate per write.
type TournamentRepository interface {
	Create(ctx context.Context, t model.Tournament) (model.Tournament, error)
	GetByID(ctx context.Context, id string) (model.Tournament, error)
	List(ctx context.Context) ([]model.Tournament, error)
	SaveSnapshot(ctx context.Context, t model.Tournament) error
	Deactivate(ctx context.Context, id string) error
}
