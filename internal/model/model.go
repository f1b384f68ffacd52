// Package model contains domain entities and DTOs used across layers.
// I keep it lean and focused on data shapes; behavior lives in the match,
// minutes and tournament packages.
package model

import "github.com/google/uuid"

// TeamSide identifies which of the two teams an event or intent refers to.
type TeamSide string

const (
	SideHome TeamSide = "home"
	SideAway TeamSide = "away"
)

// Valid reports whether the side is one of the two known values.
func (s TeamSide) Valid() bool { return s == SideHome || s == SideAway }

// Opponent returns the other side.
func (s TeamSide) Opponent() TeamSide {
	if s == SideHome {
		return SideAway
	}
	return SideHome
}

// PlayerKind discriminates roster players (fully tracked) from opponent
// placeholders (name-only entries for the other team). Resolved once at
// construction, never inferred from field presence.
type PlayerKind string

const (
	KindRoster   PlayerKind = "roster"
	KindOpponent PlayerKind = "opponent"
)

// CardCount tracks disciplinary cards accumulated by a player in one match.
type CardCount struct {
	Yellow int `json:"yellow"`
	Red    int `json:"red"`
}

// Player is a match participant. Number is nil until a jersey number is
// assigned during setup. Once the match has started a player is never
// removed, only flagged (off field, expelled).
type Player struct {
	ID         string     `json:"id"`
	Kind       PlayerKind `json:"kind"`
	Name       string     `json:"name"`
	Number     *int       `json:"number,omitempty"`
	IsOnField  bool       `json:"isOnField"`
	IsStarter  bool       `json:"isStarter"`
	IsExpelled bool       `json:"isExpelled"`
	Goals      int        `json:"goals"`
	Cards      CardCount  `json:"cards"`
}

// NewPlayer builds a player with a fresh id and zeroed stats.
func NewPlayer(kind PlayerKind, name string, number *int) Player {
	return Player{
		ID:     uuid.NewString(),
		Kind:   kind,
		Name:   name,
		Number: number,
	}
}

// Team holds one side's name, roster and cached score. Score is kept in sync
// with goal events as they are appended; it must always equal the sum of the
// goal and own_goal ledger entries credited to this side.
type Team struct {
	Name    string   `json:"name"`
	Players []Player `json:"players"`
	Score   int      `json:"score"`
}

// PlayerByID returns a pointer into the roster slice, or nil.
func (t *Team) PlayerByID(id string) *Player {
	for i := range t.Players {
		if t.Players[i].ID == id {
			return &t.Players[i]
		}
	}
	return nil
}

// PeriodScore is the permanent record of one finished period's result,
// captured exactly once when the period ends.
type PeriodScore struct {
	Period    int `json:"period"`
	HomeScore int `json:"homeScore"`
	AwayScore int `json:"awayScore"`
}

// MatchState is the aggregate root for one live match. The ledger is stored
// most-recent-first; within increasing period numbers it represents a strictly
// time-ordered append log whose timestamps reset to zero at each period start.
type MatchState struct {
	HomeTeam              Team          `json:"homeTeam"`
	AwayTeam              Team          `json:"awayTeam"`
	Events                []MatchEvent  `json:"events"`
	CurrentPeriod         int           `json:"currentPeriod"`
	PeriodDuration        int           `json:"periodDuration"` // minutes
	TotalPeriods          int           `json:"totalPeriods"`
	ElapsedTime           int           `json:"elapsedTime"` // seconds within the current period
	IsRunning             bool          `json:"isRunning"`
	IsPaused              bool          `json:"isPaused"`
	IsMatchStarted        bool          `json:"isMatchStarted"`
	IsMatchEnded          bool          `json:"isMatchEnded"`
	NeedsStarterSelection bool          `json:"needsStarterSelection"`
	PeriodScores          []PeriodScore `json:"periodScores"`
}

// Team returns the roster for the given side.
func (m *MatchState) Team(side TeamSide) *Team {
	if side == SideAway {
		return &m.AwayTeam
	}
	return &m.HomeTeam
}

// TimerSnapshot is the persisted form of the wall-clock timer. Elapsed time
// is always derivable from it: pausedAt when paused, now-start when running,
// zero otherwise.
type TimerSnapshot struct {
	StartTimestamp int64 `json:"startTimestamp"` // wall-clock ms when the current run began
	PausedAt       int   `json:"pausedAt"`       // elapsed seconds frozen at pause
	IsRunning      bool  `json:"isRunning"`
	IsPaused       bool  `json:"isPaused"`
}

// PlayerMatchStats is one player's line in a completed-match summary.
type PlayerMatchStats struct {
	Name          string    `json:"name"`
	Number        *int      `json:"number,omitempty"`
	Goals         int       `json:"goals"`
	MinutesPlayed int       `json:"minutesPlayed"`
	Cards         CardCount `json:"cards"`
}

// TournamentPlayer carries one player's cumulative totals across a
// tournament. Players are matched across matches by normalized name.
type TournamentPlayer struct {
	Name          string    `json:"name"`
	Number        *int      `json:"number,omitempty"`
	MatchesPlayed int       `json:"matchesPlayed"`
	Goals         int       `json:"goals"`
	MinutesPlayed int       `json:"minutesPlayed"`
	Cards         CardCount `json:"cards"`
}

// TournamentMatch is an immutable snapshot of one completed match.
type TournamentMatch struct {
	ID           string             `json:"id"`
	Date         string             `json:"date"` // YYYY-MM-DD
	HomeTeam     string             `json:"homeTeam"`
	AwayTeam     string             `json:"awayTeam"`
	HomeScore    int                `json:"homeScore"`
	AwayScore    int                `json:"awayScore"`
	PlayerStats  []PlayerMatchStats `json:"playerStats"`
	Events       []MatchEvent       `json:"events"`
	PeriodScores []PeriodScore      `json:"periodScores"`
}

// Tournament folds completed matches into cumulative per-player totals for a
// single named roster.
type Tournament struct {
	ID       string             `json:"id"`
	Name     string             `json:"name"`
	TeamName string             `json:"teamName"`
	Players  []TournamentPlayer `json:"players"`
	Matches  []TournamentMatch  `json:"matches"`
	Active   bool               `json:"active"`
}
