package match

import (
	"github.com/albertomarcenaro-code/match-manager-v2-sub000/internal/model"
)

// UndoLastEvent pops the most recent ledger entry and reverses its side
// effects exactly: re-applying the same intent afterwards must reproduce the
// prior state. An empty ledger is a rejected transition.
func (s *Store) UndoLastEvent() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if len(s.state.Events) == 0 {
		return ErrInvalidTransition
	}
	e := s.state.Events[0]

	switch e.Type {
	case model.EventGoal:
		s.undoGoalLocked(e, e.Team)
	case model.EventOwnGoal:
		s.undoGoalLocked(e, e.Team.Opponent())
	case model.EventYellowCard:
		s.undoCardLocked(e, false)
	case model.EventRedCard:
		s.undoCardLocked(e, true)
	case model.EventSubstitution:
		s.undoSubstitutionLocked(e)
	case model.EventPeriodEnd:
		s.undoPeriodEndLocked(e)
	case model.EventPeriodStart:
		s.undoPeriodStartLocked()
	default:
		return ErrInvalidTransition
	}

	s.state.Events = s.state.Events[1:]
	s.persistLocked()
	s.log.Info().Str("type", string(e.Type)).Msg("event undone")
	return nil
}

func (s *Store) undoGoalLocked(e model.MatchEvent, scoring model.TeamSide) {
	team := s.state.Team(scoring)
	if team.Score > 0 {
		team.Score--
	}
	if p := s.state.Team(e.Team).PlayerByID(e.PlayerID); p != nil && p.Goals > 0 {
		p.Goals--
	}
}

// undoCardLocked decrements the card tally and, when the card caused the
// expulsion, reinstates the player on the field. Cards only ever go to
// on-field players, so on-field is the exact prior state.
func (s *Store) undoCardLocked(e model.MatchEvent, red bool) {
	p := s.state.Team(e.Team).PlayerByID(e.PlayerID)
	if p == nil {
		return
	}
	if red {
		if p.Cards.Red > 0 {
			p.Cards.Red--
		}
	} else if p.Cards.Yellow > 0 {
		p.Cards.Yellow--
	}
	if p.IsExpelled && p.Cards.Red == 0 && p.Cards.Yellow < 2 {
		p.IsExpelled = false
		p.IsOnField = true
	}
}

func (s *Store) undoSubstitutionLocked(e model.MatchEvent) {
	team := s.state.Team(e.Team)
	if out := team.PlayerByID(e.PlayerOutID); out != nil {
		out.IsOnField = true
	}
	if in := team.PlayerByID(e.PlayerInID); in != nil {
		in.IsOnField = false
	}
}

// undoPeriodEndLocked reopens the period: the PeriodScore record is dropped,
// the clock resumes from the recorded end timestamp, and a match ended by the
// implicit end-period flow is reopened too.
func (s *Store) undoPeriodEndLocked(e model.MatchEvent) {
	if n := len(s.state.PeriodScores); n > 0 {
		s.state.PeriodScores = s.state.PeriodScores[:n-1]
	}
	s.state.IsRunning = true
	s.state.IsPaused = false
	s.state.IsMatchEnded = false
	s.state.NeedsStarterSelection = false
	s.timer.ResumeFrom(e.Timestamp, s.state.PeriodDuration*60)
}

// undoPeriodStartLocked rewinds to the moment just before the period began.
// A period can only start after starters were confirmed, so the pre-intent
// value of NeedsStarterSelection is always false; re-applying StartPeriod
// must succeed and reproduce the prior state.
func (s *Store) undoPeriodStartLocked() {
	s.state.CurrentPeriod--
	if s.state.CurrentPeriod <= 0 {
		s.state.CurrentPeriod = 0
		s.state.IsMatchStarted = false
	}
	s.state.IsRunning = false
	s.state.IsPaused = false
	s.state.ElapsedTime = 0
	s.state.NeedsStarterSelection = false
	s.timer.Stop()
}
