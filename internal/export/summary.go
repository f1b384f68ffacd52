// Package export renders a finalized match state into plain share text. It
// reads the ledger and the reconstructed minutes strictly read-only; binary
// formats (spreadsheet, PDF) are produced elsewhere from the same inputs.
package export

import (
	"fmt"
	"sort"
	"strings"

	"github.com/albertomarcenaro-code/match-manager-v2-sub000/internal/minutes"
	"github.com/albertomarcenaro-code/match-manager-v2-sub000/internal/model"
)

// Summary builds the share text: final score, per-period results, scorers and
// cards with their minute marks.
func Summary(state model.MatchState, played map[string]*minutes.Breakdown) string {
	var b strings.Builder

	fmt.Fprintf(&b, "%s %d - %d %s\n",
		state.HomeTeam.Name, state.HomeTeam.Score,
		state.AwayTeam.Score, state.AwayTeam.Name)

	for _, ps := range state.PeriodScores {
		fmt.Fprintf(&b, "Period %d: %d - %d\n", ps.Period, ps.HomeScore, ps.AwayScore)
	}

	events := model.EventsAscending(state.Events)
	var goals, cards []string
	for _, e := range events {
		min := e.Timestamp / 60
		switch e.Type {
		case model.EventGoal:
			goals = append(goals, fmt.Sprintf("%d' %s", min, e.PlayerName))
		case model.EventOwnGoal:
			goals = append(goals, fmt.Sprintf("%d' %s (og)", min, e.PlayerName))
		case model.EventYellowCard:
			cards = append(cards, fmt.Sprintf("%d' %s (yellow)", min, e.PlayerName))
		case model.EventRedCard:
			cards = append(cards, fmt.Sprintf("%d' %s (red)", min, e.PlayerName))
		}
	}
	if len(goals) > 0 {
		b.WriteString("Goals: " + strings.Join(goals, ", ") + "\n")
	}
	if len(cards) > 0 {
		b.WriteString("Cards: " + strings.Join(cards, ", ") + "\n")
	}

	if len(played) > 0 {
		b.WriteString("Minutes: ")
		lines := make([]string, 0, len(played))
		for _, p := range played {
			lines = append(lines, fmt.Sprintf("%s %d'", p.Name, p.Total))
		}
		sort.Strings(lines)
		b.WriteString(strings.Join(lines, ", "))
		b.WriteString("\n")
	}

	return b.String()
}
