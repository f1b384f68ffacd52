package service

import (
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/albertomarcenaro-code/match-manager-v2-sub000/internal/export"
	"github.com/albertomarcenaro-code/match-manager-v2-sub000/internal/match"
	"github.com/albertomarcenaro-code/match-manager-v2-sub000/internal/minutes"
	"github.com/albertomarcenaro-code/match-manager-v2-sub000/internal/model"
)

// MatchService defines the match-oriented use cases exposed over HTTP.
type MatchService interface {
	State() model.MatchState
	SetTeamName(side, name string) error
	ConfigurePeriods(durationMinutes, totalPeriods int) error
	AddPlayer(side, kind, name string, number *int) (model.Player, error)
	RemovePlayer(side, playerID string) error
	SetStarters(side string, playerIDs []string) error
	ConfirmStarters() error
	StartPeriod(durationMinutes int) error
	Pause() error
	Resume() error
	RecordGoal(side, playerID string, ownGoal bool) error
	RecordCard(side, playerID, card string) error
	RecordSubstitution(side, outID, inID string) error
	EndPeriod() error
	EndMatch() error
	Undo() error
	Reset(keepTeams bool) error
	Minutes() []minutes.Breakdown
	Summary() string
	MatchSummary() model.TournamentMatch
}

type matchService struct {
	store *match.Store
	log   zerolog.Logger
	now   func() time.Time
}

// NewMatchService wires the use-case layer over the match store.
func NewMatchService(store *match.Store, logger zerolog.Logger) MatchService {
	l := logger.With().Str("module", "service").Str("component", "match").Logger()
	return &matchService{store: store, log: l, now: time.Now}
}

func parseSide(side string) (model.TeamSide, []FieldError) {
	s := model.TeamSide(strings.ToLower(strings.TrimSpace(side)))
	if !s.Valid() {
		return "", []FieldError{{Field: "team", Message: "must be home or away"}}
	}
	return s, nil
}

func (s *matchService) State() model.MatchState { return s.store.State() }

func (s *matchService) SetTeamName(side, name string) error {
	sd, ferrs := parseSide(side)
	name = strings.TrimSpace(name)
	if name == "" {
		ferrs = append(ferrs, FieldError{Field: "name", Message: "must not be empty"})
	}
	if err := newInvalidInput(ferrs); err != nil {
		return err
	}
	return s.store.SetTeamName(sd, name)
}

func (s *matchService) ConfigurePeriods(durationMinutes, totalPeriods int) error {
	var ferrs []FieldError
	if durationMinutes < 0 || durationMinutes > 90 {
		ferrs = append(ferrs, FieldError{Field: "periodDuration", Message: "must be between 0 and 90"})
	}
	if totalPeriods < 0 || totalPeriods > 10 {
		ferrs = append(ferrs, FieldError{Field: "totalPeriods", Message: "must be between 0 and 10"})
	}
	if err := newInvalidInput(ferrs); err != nil {
		return err
	}
	return s.store.ConfigurePeriods(durationMinutes, totalPeriods)
}

func (s *matchService) AddPlayer(side, kind, name string, number *int) (model.Player, error) {
	sd, ferrs := parseSide(side)
	name = strings.TrimSpace(name)
	if name == "" {
		ferrs = append(ferrs, FieldError{Field: "name", Message: "must not be empty"})
	}
	k := model.PlayerKind(strings.ToLower(strings.TrimSpace(kind)))
	if k == "" {
		k = model.KindRoster
	}
	if k != model.KindRoster && k != model.KindOpponent {
		ferrs = append(ferrs, FieldError{Field: "kind", Message: "must be roster or opponent"})
	}
	if number != nil && (*number < 0 || *number > 99) {
		ferrs = append(ferrs, FieldError{Field: "number", Message: "must be between 0 and 99"})
	}
	if err := newInvalidInput(ferrs); err != nil {
		return model.Player{}, err
	}
	// Duplicate jersey numbers are accepted; the setup UI is responsible for
	// warning about collisions.
	p, err := s.store.AddPlayer(sd, k, name, number)
	if err != nil {
		return model.Player{}, err
	}
	s.log.Info().Str("team", string(sd)).Str("player", p.Name).Msg("player added")
	return p, nil
}

func (s *matchService) RemovePlayer(side, playerID string) error {
	sd, ferrs := parseSide(side)
	if strings.TrimSpace(playerID) == "" {
		ferrs = append(ferrs, FieldError{Field: "playerId", Message: "must not be empty"})
	}
	if err := newInvalidInput(ferrs); err != nil {
		return err
	}
	return s.store.RemovePlayer(sd, playerID)
}

func (s *matchService) SetStarters(side string, playerIDs []string) error {
	sd, ferrs := parseSide(side)
	if err := newInvalidInput(ferrs); err != nil {
		return err
	}
	return s.store.SetStarters(sd, playerIDs)
}

func (s *matchService) ConfirmStarters() error { return s.store.ConfirmStarters() }

func (s *matchService) StartPeriod(durationMinutes int) error {
	if durationMinutes < 0 || durationMinutes > 90 {
		return newInvalidInput([]FieldError{{Field: "durationMinutes", Message: "must be between 0 and 90"}})
	}
	return s.store.StartPeriod(durationMinutes)
}

func (s *matchService) Pause() error  { return s.store.PauseTimer() }
func (s *matchService) Resume() error { return s.store.ResumeTimer() }

func (s *matchService) RecordGoal(side, playerID string, ownGoal bool) error {
	sd, ferrs := parseSide(side)
	if strings.TrimSpace(playerID) == "" {
		ferrs = append(ferrs, FieldError{Field: "playerId", Message: "must not be empty"})
	}
	if err := newInvalidInput(ferrs); err != nil {
		return err
	}
	if ownGoal {
		return s.store.RecordOwnGoal(sd, playerID)
	}
	return s.store.RecordGoal(sd, playerID)
}

func (s *matchService) RecordCard(side, playerID, card string) error {
	sd, ferrs := parseSide(side)
	if strings.TrimSpace(playerID) == "" {
		ferrs = append(ferrs, FieldError{Field: "playerId", Message: "must not be empty"})
	}
	ct := match.CardType(strings.ToLower(strings.TrimSpace(card)))
	if ct != match.CardYellow && ct != match.CardRed {
		ferrs = append(ferrs, FieldError{Field: "card", Message: "must be yellow or red"})
	}
	if err := newInvalidInput(ferrs); err != nil {
		return err
	}
	return s.store.RecordCard(sd, playerID, ct)
}

func (s *matchService) RecordSubstitution(side, outID, inID string) error {
	sd, ferrs := parseSide(side)
	if strings.TrimSpace(outID) == "" {
		ferrs = append(ferrs, FieldError{Field: "playerOutId", Message: "must not be empty"})
	}
	if strings.TrimSpace(inID) == "" {
		ferrs = append(ferrs, FieldError{Field: "playerInId", Message: "must not be empty"})
	}
	if outID == inID {
		ferrs = append(ferrs, FieldError{Field: "playerInId", Message: "must differ from playerOutId"})
	}
	if err := newInvalidInput(ferrs); err != nil {
		return err
	}
	return s.store.RecordSubstitution(sd, outID, inID)
}

func (s *matchService) EndPeriod() error { return s.store.EndPeriod() }
func (s *matchService) EndMatch() error  { return s.store.EndMatch() }
func (s *matchService) Undo() error      { return s.store.UndoLastEvent() }

func (s *matchService) Reset(keepTeams bool) error { return s.store.ResetMatch(keepTeams) }

// Minutes replays the ledger and returns per-player playing time, roster
// order preserved.
func (s *matchService) Minutes() []minutes.Breakdown {
	state := s.store.State()
	computed := minutes.Compute(model.EventsAscending(state.Events), allPlayers(state), minutesOptions(state))
	out := make([]minutes.Breakdown, 0, len(computed))
	for _, p := range allPlayers(state) {
		if b, ok := computed[p.ID]; ok {
			out = append(out, *b)
		}
	}
	return out
}

// Summary renders the share-text export for the current state.
func (s *matchService) Summary() string {
	state := s.store.State()
	computed := minutes.Compute(model.EventsAscending(state.Events), allPlayers(state), minutesOptions(state))
	return export.Summary(state, computed)
}

// MatchSummary builds the immutable completed-match snapshot that feeds the
// tournament aggregator. Only tracked roster players produce stat lines;
// opponent placeholders never join a tournament roster.
func (s *matchService) MatchSummary() model.TournamentMatch {
	state := s.store.State()
	computed := minutes.Compute(model.EventsAscending(state.Events), allPlayers(state), minutesOptions(state))

	var stats []model.PlayerMatchStats
	for _, p := range allPlayers(state) {
		if p.Kind != model.KindRoster {
			continue
		}
		played := 0
		if b, ok := computed[p.ID]; ok {
			played = b.Total
		}
		stats = append(stats, model.PlayerMatchStats{
			Name:          p.Name,
			Number:        p.Number,
			Goals:         p.Goals,
			MinutesPlayed: played,
			Cards:         p.Cards,
		})
	}

	return model.TournamentMatch{
		Date:         s.now().Format("2006-01-02"),
		HomeTeam:     state.HomeTeam.Name,
		AwayTeam:     state.AwayTeam.Name,
		HomeScore:    state.HomeTeam.Score,
		AwayScore:    state.AwayTeam.Score,
		PlayerStats:  stats,
		Events:       state.Events,
		PeriodScores: state.PeriodScores,
	}
}

func allPlayers(state model.MatchState) []model.Player {
	out := make([]model.Player, 0, len(state.HomeTeam.Players)+len(state.AwayTeam.Players))
	out = append(out, state.HomeTeam.Players...)
	out = append(out, state.AwayTeam.Players...)
	return out
}

func minutesOptions(state model.MatchState) minutes.Options {
	opts := minutes.Options{
		TotalPeriods:      state.TotalPeriods,
		PeriodDurationSec: state.PeriodDuration * 60,
	}
	if state.IsRunning && !state.IsMatchEnded {
		opts.LivePeriod = state.CurrentPeriod
		opts.LiveElapsedSec = state.ElapsedTime
	}
	return opts
}
