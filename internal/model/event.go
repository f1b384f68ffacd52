package model

// EventType enumerates the kinds of entries in the match ledger.
type EventType string

const (
	EventPeriodStart  EventType = "period_start"
	EventPeriodEnd    EventType = "period_end"
	EventGoal         EventType = "goal"
	EventOwnGoal      EventType = "own_goal"
	EventSubstitution EventType = "substitution"
	EventYellowCard   EventType = "yellow_card"
	EventRedCard      EventType = "red_card"
)

// MatchEvent is one immutable ledger entry. Timestamp counts seconds elapsed
// within the event's period, not wall-clock time. Type-specific fields are
// populated per kind and left zero otherwise:
//
//   - goal, own_goal, yellow_card, red_card: PlayerID, PlayerName, PlayerNumber
//   - substitution: PlayerOut*, PlayerIn* identity snapshots taken at event time
//   - period_end: HomeScore, AwayScore snapshot
type MatchEvent struct {
	ID        string    `json:"id"`
	Type      EventType `json:"type"`
	Timestamp int       `json:"timestamp"`
	Period    int       `json:"period"`
	Team      TeamSide  `json:"team,omitempty"`

	PlayerID     string `json:"playerId,omitempty"`
	PlayerName   string `json:"playerName,omitempty"`
	PlayerNumber *int   `json:"playerNumber,omitempty"`

	PlayerOutID     string `json:"playerOutId,omitempty"`
	PlayerOutName   string `json:"playerOutName,omitempty"`
	PlayerOutNumber *int   `json:"playerOutNumber,omitempty"`
	PlayerInID      string `json:"playerInId,omitempty"`
	PlayerInName    string `json:"playerInName,omitempty"`
	PlayerInNumber  *int   `json:"playerInNumber,omitempty"`

	HomeScore int `json:"homeScore,omitempty"`
	AwayScore int `json:"awayScore,omitempty"`
}

// EventsAscending returns the ledger in chronological order. The store keeps
// events most-recent-first for display; replay code wants oldest-first.
func EventsAscending(events []MatchEvent) []MatchEvent {
	out := make([]MatchEvent, len(events))
	for i, e := range events {
		out[len(events)-1-i] = e
	}
	return out
}
