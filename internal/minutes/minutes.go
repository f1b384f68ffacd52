// Package minutes reconstructs per-player playing time by replaying the
// event ledger. Minutes are never tracked incrementally during the match:
// substitutions, red cards and period boundaries interact, so the ledger is
// the only source of truth and every export replays it from scratch. Compute
// is a pure function; calling it twice on the same ledger yields identical
// results.
package minutes

import (
	"sort"

	"github.com/albertomarcenaro-code/match-manager-v2-sub000/internal/model"
)

// Options controls the replay bounds and the fallback clock values.
type Options struct {
	TotalPeriods      int
	PeriodDurationSec int
	// LivePeriod and LiveElapsedSec describe a period still in progress,
	// so its on-field players are credited up to the live clock. Zero when
	// the match is over or not running.
	LivePeriod     int
	LiveElapsedSec int
}

// Breakdown is one player's reconstructed playing time.
type Breakdown struct {
	PlayerID  string
	Name      string
	Number    *int
	PerPeriod map[int]int // whole minutes credited per period
	Total     int
}

// Compute replays the ledger and returns minutes played per player, keyed by
// player id. Events may be passed in either storage order; they are
// normalized to chronological order first. Rosters supply the identities and
// the period-one starter set; later periods derive their starting on-field
// set by replaying substitutions and expulsions (a red card or a second
// yellow), with expelled players permanently excluded.
func Compute(events []model.MatchEvent, rosters []model.Player, opts Options) map[string]*Breakdown {
	ordered := make([]model.MatchEvent, len(events))
	copy(ordered, events)
	sort.SliceStable(ordered, func(i, j int) bool {
		if ordered[i].Period != ordered[j].Period {
			return ordered[i].Period < ordered[j].Period
		}
		return ordered[i].Timestamp < ordered[j].Timestamp
	})

	result := make(map[string]*Breakdown, len(rosters))
	breakdown := func(id, name string, number *int) *Breakdown {
		if b, ok := result[id]; ok {
			return b
		}
		b := &Breakdown{PlayerID: id, Name: name, Number: number, PerPeriod: map[int]int{}}
		result[id] = b
		return b
	}

	// Period 1 starts with the confirmed starters; subsequent periods carry
	// the replayed on-field set forward.
	onField := make(map[string]bool)
	expelled := make(map[string]bool)
	yellows := make(map[string]int)
	for _, p := range rosters {
		breakdown(p.ID, p.Name, p.Number)
		if p.IsStarter {
			onField[p.ID] = true
		}
	}

	// expel credits the player up to the event like a substitution out, then
	// excludes them for the rest of the match.
	expel := func(e model.MatchEvent, period int, entry map[string]int) {
		if at, ok := entry[e.PlayerID]; ok {
			b := breakdown(e.PlayerID, e.PlayerName, e.PlayerNumber)
			b.PerPeriod[period] += (e.Timestamp - at) / 60
			delete(entry, e.PlayerID)
		}
		expelled[e.PlayerID] = true
		onField[e.PlayerID] = false
	}

	byPeriod := make(map[int][]model.MatchEvent)
	maxPeriod := 0
	for _, e := range ordered {
		byPeriod[e.Period] = append(byPeriod[e.Period], e)
		if e.Period > maxPeriod {
			maxPeriod = e.Period
		}
	}
	last := opts.TotalPeriods
	if maxPeriod > last {
		last = maxPeriod
	}

	for period := 1; period <= last; period++ {
		evs := byPeriod[period]
		if !hasPeriodStart(evs) && period != opts.LivePeriod {
			// never played: contributes zero minutes
			continue
		}

		entry := make(map[string]int, len(onField))
		for id, on := range onField {
			if on && !expelled[id] {
				entry[id] = 0
			}
		}

		endTS := periodEndTimestamp(evs, period, opts)
		for _, e := range evs {
			switch e.Type {
			case model.EventSubstitution:
				if at, ok := entry[e.PlayerOutID]; ok {
					b := breakdown(e.PlayerOutID, e.PlayerOutName, e.PlayerOutNumber)
					b.PerPeriod[period] += (e.Timestamp - at) / 60
					delete(entry, e.PlayerOutID)
					onField[e.PlayerOutID] = false
				}
				if !expelled[e.PlayerInID] {
					breakdown(e.PlayerInID, e.PlayerInName, e.PlayerInNumber)
					entry[e.PlayerInID] = e.Timestamp
					onField[e.PlayerInID] = true
				}
			case model.EventYellowCard:
				// a second yellow expels exactly like a red card
				yellows[e.PlayerID]++
				if yellows[e.PlayerID] >= 2 {
					expel(e, period, entry)
				}
			case model.EventRedCard:
				expel(e, period, entry)
			}
		}

		for id, at := range entry {
			b := result[id]
			b.PerPeriod[period] += (endTS - at) / 60
		}
	}

	for _, b := range result {
		total := 0
		for _, m := range b.PerPeriod {
			total += m
		}
		b.Total = total
	}
	return result
}

func hasPeriodStart(evs []model.MatchEvent) bool {
	for _, e := range evs {
		if e.Type == model.EventPeriodStart {
			return true
		}
	}
	return false
}

// periodEndTimestamp picks the closing clock value for a period: the recorded
// period_end timestamp, the live elapsed time for an in-progress period, or
// the nominal duration when neither applies.
func periodEndTimestamp(evs []model.MatchEvent, period int, opts Options) int {
	for _, e := range evs {
		if e.Type == model.EventPeriodEnd {
			return e.Timestamp
		}
	}
	if period == opts.LivePeriod {
		return opts.LiveElapsedSec
	}
	return opts.PeriodDurationSec
}
