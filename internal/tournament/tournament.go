// Package tournament folds completed-match summaries into cumulative
// per-player totals. Players are matched across matches by normalized display
// name; a renamed player therefore starts a new cumulative row. This is a
// known limitation of name-based identity, kept for compatibility with
// single-roster tournaments.
package tournament

import (
	"errors"
	"strings"

	"github.com/google/uuid"

	"github.com/albertomarcenaro-code/match-manager-v2-sub000/internal/model"
)

var (
	ErrInactive = errors.New("tournament is not active")
	ErrNoName   = errors.New("tournament name is required")
)

// New creates an active tournament for one named roster.
func New(name, teamName string) (model.Tournament, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return model.Tournament{}, ErrNoName
	}
	return model.Tournament{
		ID:       uuid.NewString(),
		Name:     name,
		TeamName: strings.TrimSpace(teamName),
		Active:   true,
	}, nil
}

// AddMatch appends an immutable match summary and folds its per-player stats
// into the cumulative totals. A player counts a match played only when they
// actually saw the field: zero minutes (an unused substitute) adds stats but
// not an appearance.
func AddMatch(t *model.Tournament, m model.TournamentMatch) error {
	if !t.Active {
		return ErrInactive
	}
	if m.ID == "" {
		m.ID = uuid.NewString()
	}
	t.Matches = append(t.Matches, m)

	for _, stats := range m.PlayerStats {
		p := findPlayer(t, stats.Name)
		if p == nil {
			t.Players = append(t.Players, model.TournamentPlayer{
				Name:   strings.TrimSpace(stats.Name),
				Number: stats.Number,
			})
			p = &t.Players[len(t.Players)-1]
		}
		p.Goals += stats.Goals
		p.MinutesPlayed += stats.MinutesPlayed
		p.Cards.Yellow += stats.Cards.Yellow
		p.Cards.Red += stats.Cards.Red
		if stats.MinutesPlayed > 0 {
			p.MatchesPlayed++
		}
	}
	return nil
}

// Deactivate closes the tournament; no further matches can be added.
func Deactivate(t *model.Tournament) {
	t.Active = false
}

// findPlayer matches by trimmed, case-folded name.
func findPlayer(t *model.Tournament, name string) *model.TournamentPlayer {
	key := normalize(name)
	for i := range t.Players {
		if normalize(t.Players[i].Name) == key {
			return &t.Players[i]
		}
	}
	return nil
}

func normalize(name string) string {
	return strings.ToLower(strings.TrimSpace(name))
}
