// Package match owns the single source of truth for the active match: two
// rosters, the cached scores, the lifecycle flags and the append-only event
// ledger. Every user action is one intent method executing an atomic state
// transition; a failed precondition rejects the intent with a sentinel error
// and leaves the state untouched. There is deliberately no panic path here: a
// live scoring tool must never corrupt or crash mid-match.
package match

import (
	"errors"
	"sync"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/albertomarcenaro-code/match-manager-v2-sub000/internal/clock"
	"github.com/albertomarcenaro-code/match-manager-v2-sub000/internal/model"
	"github.com/albertomarcenaro-code/match-manager-v2-sub000/internal/repository"
)

// Sentinel errors for rejected intents.
var (
	ErrInvalidTransition = errors.New("invalid transition")
	ErrPlayerNotFound    = errors.New("player not found")
	ErrPlayerIneligible  = errors.New("player ineligible")
)

// CardType selects the card handed out by RecordCard.
type CardType string

const (
	CardYellow CardType = "yellow"
	CardRed    CardType = "red"
)

// Defaults seed a fresh match state.
type Defaults struct {
	PeriodDuration int // minutes
	TotalPeriods   int
}

// Store is the match state store. The timer is read synchronously at the
// moment an event is recorded, so ledger timestamps reflect the instant of
// the user's action, never the last tick.
type Store struct {
	mu    sync.Mutex
	log   zerolog.Logger
	repo  repository.MatchStateStore
	timer *clock.Timer

	state    model.MatchState
	defaults Defaults
}

// NewStore loads the persisted match state, falling back to a fresh initial
// state when the blob is absent or unparsable.
func NewStore(repo repository.MatchStateStore, timer *clock.Timer, defaults Defaults, logger zerolog.Logger) *Store {
	s := &Store{
		log:      logger.With().Str("component", "match").Logger(),
		repo:     repo,
		timer:    timer,
		defaults: defaults,
	}
	state, err := repo.Load()
	if err != nil {
		if !errors.Is(err, repository.ErrNotFound) {
			s.log.Warn().Err(err).Msg("failed to load match state, starting fresh")
		}
		state = initialState(defaults)
	}
	s.state = state
	if state.IsRunning && !state.IsMatchEnded {
		timer.Restore(state.PeriodDuration * 60)
	}
	return s
}

func initialState(d Defaults) model.MatchState {
	return model.MatchState{
		HomeTeam:              model.Team{Name: "Home"},
		AwayTeam:              model.Team{Name: "Away"},
		PeriodDuration:        d.PeriodDuration,
		TotalPeriods:          d.TotalPeriods,
		NeedsStarterSelection: true,
	}
}

// State returns a copy of the current state with elapsed time mirrored from
// the timer.
func (s *Store) State() model.MatchState {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.snapshotLocked()
}

func (s *Store) snapshotLocked() model.MatchState {
	out := s.state
	out.ElapsedTime = s.timer.Elapsed()
	out.Events = append([]model.MatchEvent(nil), s.state.Events...)
	out.PeriodScores = append([]model.PeriodScore(nil), s.state.PeriodScores...)
	out.HomeTeam.Players = append([]model.Player(nil), s.state.HomeTeam.Players...)
	out.AwayTeam.Players = append([]model.Player(nil), s.state.AwayTeam.Players...)
	return out
}

// SetTeamName renames one side. Allowed at any point before match end.
func (s *Store) SetTeamName(side model.TeamSide, name string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.state.IsMatchEnded {
		return ErrInvalidTransition
	}
	s.state.Team(side).Name = name
	s.persistLocked()
	return nil
}

// ConfigurePeriods sets period duration and count. Only valid pre-match.
func (s *Store) ConfigurePeriods(durationMinutes, totalPeriods int) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.state.IsMatchStarted {
		return ErrInvalidTransition
	}
	if durationMinutes > 0 {
		s.state.PeriodDuration = durationMinutes
	}
	if totalPeriods > 0 {
		s.state.TotalPeriods = totalPeriods
	}
	s.persistLocked()
	return nil
}

// AddPlayer appends a player with a fresh id and zeroed stats, not on field.
// Jersey-number collisions are not rejected here; the setup UI warns instead.
func (s *Store) AddPlayer(side model.TeamSide, kind model.PlayerKind, name string, number *int) (model.Player, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.state.IsMatchEnded {
		return model.Player{}, ErrInvalidTransition
	}
	p := model.NewPlayer(kind, name, number)
	team := s.state.Team(side)
	team.Players = append(team.Players, p)
	s.persistLocked()
	return p, nil
}

// RemovePlayer deletes a player from the roster. Once the match has started
// players are permanent; only flags change.
func (s *Store) RemovePlayer(side model.TeamSide, playerID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.state.IsMatchStarted {
		return ErrInvalidTransition
	}
	team := s.state.Team(side)
	for i := range team.Players {
		if team.Players[i].ID == playerID {
			team.Players = append(team.Players[:i], team.Players[i+1:]...)
			s.persistLocked()
			return nil
		}
	}
	return ErrPlayerNotFound
}

// SetStarters marks the given ids on-field for one side and benches the rest.
// Expelled players stay off regardless of the requested set.
func (s *Store) SetStarters(side model.TeamSide, playerIDs []string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.state.IsRunning || s.state.IsMatchEnded {
		return ErrInvalidTransition
	}
	wanted := make(map[string]bool, len(playerIDs))
	for _, id := range playerIDs {
		wanted[id] = true
	}
	team := s.state.Team(side)
	for i := range team.Players {
		p := &team.Players[i]
		on := wanted[p.ID] && !p.IsExpelled
		p.IsOnField = on
		if !s.state.IsMatchStarted {
			p.IsStarter = on
		}
	}
	s.persistLocked()
	return nil
}

// ConfirmStarters releases the starter-selection gate for the next period.
func (s *Store) ConfirmStarters() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.state.IsRunning || s.state.IsMatchEnded {
		return ErrInvalidTransition
	}
	s.state.NeedsStarterSelection = false
	s.persistLocked()
	return nil
}

// StartPeriod begins the next period. Valid only when not running, the match
// has not ended, starters are confirmed and periods remain. The duration is
// configurable on the first period only.
func (s *Store) StartPeriod(durationMinutes int) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.state.IsRunning || s.state.IsMatchEnded || s.state.NeedsStarterSelection {
		return ErrInvalidTransition
	}
	if s.state.CurrentPeriod >= s.state.TotalPeriods {
		return ErrInvalidTransition
	}
	if durationMinutes > 0 && !s.state.IsMatchStarted {
		s.state.PeriodDuration = durationMinutes
	}

	s.state.CurrentPeriod++
	s.state.IsMatchStarted = true
	s.state.IsRunning = true
	s.state.IsPaused = false
	s.state.ElapsedTime = 0
	s.timer.Start(s.state.PeriodDuration * 60)

	s.appendEventLocked(model.MatchEvent{
		Type:      model.EventPeriodStart,
		Timestamp: 0,
		Period:    s.state.CurrentPeriod,
	})
	s.persistLocked()
	s.log.Info().Int("period", s.state.CurrentPeriod).Msg("period started")
	return nil
}

// PauseTimer freezes the clock without touching the ledger or scores.
func (s *Store) PauseTimer() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.state.IsRunning || s.state.IsPaused {
		return ErrInvalidTransition
	}
	s.timer.Pause()
	s.state.IsPaused = true
	s.persistLocked()
	return nil
}

// ResumeTimer continues the clock from where Pause froze it.
func (s *Store) ResumeTimer() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.state.IsRunning || !s.state.IsPaused {
		return ErrInvalidTransition
	}
	s.timer.Resume()
	s.state.IsPaused = false
	s.persistLocked()
	return nil
}

// RecordGoal credits the scoring team and the scorer atomically with the
// ledger append.
func (s *Store) RecordGoal(side model.TeamSide, playerID string) error {
	return s.recordGoal(side, playerID, false)
}

// RecordOwnGoal attributes the event to the player who committed it while
// the score increments for the opposing team.
func (s *Store) RecordOwnGoal(side model.TeamSide, playerID string) error {
	return s.recordGoal(side, playerID, true)
}

func (s *Store) recordGoal(side model.TeamSide, playerID string, own bool) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.state.IsRunning || s.state.IsMatchEnded {
		return ErrInvalidTransition
	}
	player := s.state.Team(side).PlayerByID(playerID)
	if player == nil {
		return ErrPlayerNotFound
	}

	kind := model.EventGoal
	scoring := side
	if own {
		kind = model.EventOwnGoal
		scoring = side.Opponent()
	}
	s.state.Team(scoring).Score++
	player.Goals++

	s.appendEventLocked(model.MatchEvent{
		Type:         kind,
		Timestamp:    s.timer.Elapsed(),
		Period:       s.state.CurrentPeriod,
		Team:         side,
		PlayerID:     player.ID,
		PlayerName:   player.Name,
		PlayerNumber: player.Number,
	})
	s.persistLocked()
	return nil
}

// RecordCard books an on-field player. A second yellow or any red expels:
// the player leaves the field immediately and is ineligible for the rest of
// the match.
func (s *Store) RecordCard(side model.TeamSide, playerID string, card CardType) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.state.IsRunning || s.state.IsMatchEnded {
		return ErrInvalidTransition
	}
	if card != CardYellow && card != CardRed {
		return ErrInvalidTransition
	}
	player := s.state.Team(side).PlayerByID(playerID)
	if player == nil {
		return ErrPlayerNotFound
	}
	if !player.IsOnField || player.IsExpelled {
		return ErrPlayerIneligible
	}

	kind := model.EventYellowCard
	if card == CardRed {
		kind = model.EventRedCard
		player.Cards.Red++
	} else {
		player.Cards.Yellow++
	}
	if player.Cards.Red > 0 || player.Cards.Yellow >= 2 {
		player.IsExpelled = true
		player.IsOnField = false
	}

	s.appendEventLocked(model.MatchEvent{
		Type:         kind,
		Timestamp:    s.timer.Elapsed(),
		Period:       s.state.CurrentPeriod,
		Team:         side,
		PlayerID:     player.ID,
		PlayerName:   player.Name,
		PlayerNumber: player.Number,
	})
	s.persistLocked()
	return nil
}

// RecordSubstitution swaps an on-field player for a benched one. The event
// carries identity snapshots of both players taken at this moment.
func (s *Store) RecordSubstitution(side model.TeamSide, outID, inID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.state.IsRunning || s.state.IsMatchEnded {
		return ErrInvalidTransition
	}
	team := s.state.Team(side)
	out := team.PlayerByID(outID)
	in := team.PlayerByID(inID)
	if out == nil || in == nil {
		return ErrPlayerNotFound
	}
	if !out.IsOnField || out.IsExpelled {
		return ErrPlayerIneligible
	}
	if in.IsOnField || in.IsExpelled {
		return ErrPlayerIneligible
	}

	out.IsOnField = false
	in.IsOnField = true

	s.appendEventLocked(model.MatchEvent{
		Type:            model.EventSubstitution,
		Timestamp:       s.timer.Elapsed(),
		Period:          s.state.CurrentPeriod,
		Team:            side,
		PlayerOutID:     out.ID,
		PlayerOutName:   out.Name,
		PlayerOutNumber: out.Number,
		PlayerInID:      in.ID,
		PlayerInName:    in.Name,
		PlayerInNumber:  in.Number,
	})
	s.persistLocked()
	return nil
}

// EndPeriod closes the running period: stops the timer, appends a period_end
// event carrying the score snapshot, records the permanent PeriodScore, and
// re-arms starter selection when periods remain.
func (s *Store) EndPeriod() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.state.IsRunning || s.state.IsMatchEnded {
		return ErrInvalidTransition
	}
	s.endPeriodLocked()
	s.persistLocked()
	return nil
}

func (s *Store) endPeriodLocked() {
	ts := s.timer.Elapsed()
	s.appendEventLocked(model.MatchEvent{
		Type:      model.EventPeriodEnd,
		Timestamp: ts,
		Period:    s.state.CurrentPeriod,
		HomeScore: s.state.HomeTeam.Score,
		AwayScore: s.state.AwayTeam.Score,
	})
	s.state.PeriodScores = append(s.state.PeriodScores, model.PeriodScore{
		Period:    s.state.CurrentPeriod,
		HomeScore: s.state.HomeTeam.Score,
		AwayScore: s.state.AwayTeam.Score,
	})
	s.state.IsRunning = false
	s.state.IsPaused = false
	s.state.ElapsedTime = 0
	s.timer.Stop()
	if s.state.CurrentPeriod < s.state.TotalPeriods {
		// starters may change between periods
		s.state.NeedsStarterSelection = true
	}
	s.log.Info().
		Int("period", s.state.CurrentPeriod).
		Int("home", s.state.HomeTeam.Score).
		Int("away", s.state.AwayTeam.Score).
		Msg("period ended")
}

// EndMatch finalizes the match. Ending mid-period first closes the period so
// its partial record is never lost. After this only undo and reads work.
func (s *Store) EndMatch() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.state.IsMatchEnded || !s.state.IsMatchStarted {
		return ErrInvalidTransition
	}
	if s.state.IsRunning {
		s.endPeriodLocked()
	}
	s.state.IsMatchEnded = true
	s.state.NeedsStarterSelection = false
	s.timer.Stop()
	s.persistLocked()
	s.log.Info().Msg("match ended")
	return nil
}

// ResetMatch returns to the initial state. With keepTeams, names and rosters
// survive but all per-match stats, flags, scores, the ledger and the period
// counters are zeroed.
func (s *Store) ResetMatch(keepTeams bool) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	next := initialState(Defaults{
		PeriodDuration: s.state.PeriodDuration,
		TotalPeriods:   s.state.TotalPeriods,
	})
	if keepTeams {
		next.HomeTeam.Name = s.state.HomeTeam.Name
		next.AwayTeam.Name = s.state.AwayTeam.Name
		next.HomeTeam.Players = resetRoster(s.state.HomeTeam.Players)
		next.AwayTeam.Players = resetRoster(s.state.AwayTeam.Players)
	}
	s.state = next
	s.timer.Stop()
	s.persistLocked()
	return nil
}

func resetRoster(players []model.Player) []model.Player {
	out := make([]model.Player, len(players))
	for i, p := range players {
		out[i] = model.Player{
			ID:     p.ID,
			Kind:   p.Kind,
			Name:   p.Name,
			Number: p.Number,
		}
	}
	return out
}

func (s *Store) appendEventLocked(e model.MatchEvent) {
	e.ID = uuid.NewString()
	// most-recent-first for display; replay reverses
	s.state.Events = append([]model.MatchEvent{e}, s.state.Events...)
}

// persistLocked is fire-and-forget: a failed write is logged and the match
// carries on. Soft durability is the accepted tradeoff for a live tool.
func (s *Store) persistLocked() {
	if err := s.repo.Save(s.state); err != nil {
		s.log.Warn().Err(err).Msg("failed to persist match state")
	}
}
