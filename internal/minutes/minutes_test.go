package minutes_test

import (
	"testing"

	"github.com/albertomarcenaro-code/match-manager-v2-sub000/internal/minutes"
	"github.com/albertomarcenaro-code/match-manager-v2-sub000/internal/model"
)

func roster(starters ...string) []model.Player {
	started := map[string]bool{}
	for _, id := range starters {
		started[id] = true
	}
	ids := []string{"a", "b", "c"}
	names := map[string]string{"a": "Rossi", "b": "Bianchi", "c": "Verdi"}
	players := make([]model.Player, 0, len(ids))
	for _, id := range ids {
		players = append(players, model.Player{
			ID:        id,
			Name:      names[id],
			Kind:      model.KindRoster,
			IsStarter: started[id],
		})
	}
	return players
}

func periodStart(period int) model.MatchEvent {
	return model.MatchEvent{Type: model.EventPeriodStart, Period: period, Timestamp: 0}
}

func periodEnd(period, ts int) model.MatchEvent {
	return model.MatchEvent{Type: model.EventPeriodEnd, Period: period, Timestamp: ts}
}

func substitution(period, ts int, out, in string) model.MatchEvent {
	return model.MatchEvent{
		Type: model.EventSubstitution, Period: period, Timestamp: ts,
		PlayerOutID: out, PlayerInID: in,
	}
}

func opts() minutes.Options {
	return minutes.Options{TotalPeriods: 2, PeriodDurationSec: 25 * 60}
}

func TestCompute_StarterPlaysFullMatch(t *testing.T) {
	events := []model.MatchEvent{
		periodStart(1), periodEnd(1, 1500),
		periodStart(2), periodEnd(2, 1500),
	}
	got := minutes.Compute(events, roster("a", "b"), opts())
	if got["a"].Total != 50 {
		t.Fatalf("starter total = %d, want 50", got["a"].Total)
	}
	if got["a"].PerPeriod[1] != 25 || got["a"].PerPeriod[2] != 25 {
		t.Fatalf("per-period = %v", got["a"].PerPeriod)
	}
	if got["c"].Total != 0 {
		t.Fatalf("bench total = %d, want 0", got["c"].Total)
	}
}

func TestCompute_SubstitutionSplitsThePeriod(t *testing.T) {
	events := []model.MatchEvent{
		periodStart(1),
		substitution(1, 600, "b", "c"), // minute 10 of 25
		periodEnd(1, 1500),
	}
	got := minutes.Compute(events, roster("a", "b"), opts())
	if got["b"].PerPeriod[1] != 10 {
		t.Fatalf("out player = %d, want 10", got["b"].PerPeriod[1])
	}
	if got["c"].PerPeriod[1] != 15 {
		t.Fatalf("in player = %d, want 15", got["c"].PerPeriod[1])
	}
	if got["a"].PerPeriod[1] != 25 {
		t.Fatalf("unaffected starter = %d, want 25", got["a"].PerPeriod[1])
	}
}

func TestCompute_SubbedOutPlayerStaysOffNextPeriod(t *testing.T) {
	events := []model.MatchEvent{
		periodStart(1),
		substitution(1, 300, "a", "c"),
		periodEnd(1, 1500),
		periodStart(2), periodEnd(2, 1500),
	}
	got := minutes.Compute(events, roster("a", "b"), opts())
	if got["a"].Total != 5 {
		t.Fatalf("subbed-out total = %d, want 5", got["a"].Total)
	}
	// the replacement carries into period 2 as an on-field player
	if got["c"].Total != 20+25 {
		t.Fatalf("replacement total = %d, want 45", got["c"].Total)
	}
}

func TestCompute_RedCardCreditsThenExcludes(t *testing.T) {
	events := []model.MatchEvent{
		periodStart(1), periodEnd(1, 1500),
		periodStart(2),
		{Type: model.EventRedCard, Period: 2, Timestamp: 720, PlayerID: "a", PlayerName: "Rossi"},
		periodEnd(2, 1500),
	}
	got := minutes.Compute(events, roster("a", "b"), opts())
	if got["a"].Total != 25+12 {
		t.Fatalf("expelled total = %d, want 37", got["a"].Total)
	}
	if got["a"].PerPeriod[2] != 12 {
		t.Fatalf("expelled period 2 = %d, want 12", got["a"].PerPeriod[2])
	}
}

func TestCompute_SecondYellowExpelsLikeRed(t *testing.T) {
	events := []model.MatchEvent{
		periodStart(1),
		{Type: model.EventYellowCard, Period: 1, Timestamp: 60, PlayerID: "a", PlayerName: "Rossi"},
		{Type: model.EventYellowCard, Period: 1, Timestamp: 300, PlayerID: "a", PlayerName: "Rossi"},
		periodEnd(1, 1500),
		periodStart(2), periodEnd(2, 1500),
	}
	got := minutes.Compute(events, roster("a", "b"), opts())
	if got["a"].PerPeriod[1] != 5 {
		t.Fatalf("double-yellowed period 1 = %d, want 5", got["a"].PerPeriod[1])
	}
	if got["a"].PerPeriod[2] != 0 {
		t.Fatalf("double-yellowed period 2 = %d, want 0", got["a"].PerPeriod[2])
	}
	if got["a"].Total != 5 {
		t.Fatalf("double-yellowed total = %d, want 5", got["a"].Total)
	}
	// a single yellow changes nothing
	if got["b"].Total != 50 {
		t.Fatalf("unaffected starter total = %d, want 50", got["b"].Total)
	}
}

func TestCompute_YellowsAccumulateAcrossPeriods(t *testing.T) {
	// one yellow per period still adds up to an expulsion
	events := []model.MatchEvent{
		periodStart(1),
		{Type: model.EventYellowCard, Period: 1, Timestamp: 600, PlayerID: "a", PlayerName: "Rossi"},
		periodEnd(1, 1500),
		periodStart(2),
		{Type: model.EventYellowCard, Period: 2, Timestamp: 600, PlayerID: "a", PlayerName: "Rossi"},
		periodEnd(2, 1500),
	}
	got := minutes.Compute(events, roster("a", "b"), opts())
	if got["a"].PerPeriod[1] != 25 || got["a"].PerPeriod[2] != 10 {
		t.Fatalf("per-period = %v, want 25 then 10", got["a"].PerPeriod)
	}
}

func TestCompute_RedCardBetweenPeriodsExcludesForGood(t *testing.T) {
	// expelled in period 1, no credit in period 2 even without a sub
	events := []model.MatchEvent{
		periodStart(1),
		{Type: model.EventRedCard, Period: 1, Timestamp: 1200, PlayerID: "b"},
		periodEnd(1, 1500),
		periodStart(2), periodEnd(2, 1500),
	}
	got := minutes.Compute(events, roster("a", "b"), opts())
	if got["b"].Total != 20 {
		t.Fatalf("expelled total = %d, want 20", got["b"].Total)
	}
	if got["b"].PerPeriod[2] != 0 {
		t.Fatalf("expelled credited after expulsion: %v", got["b"].PerPeriod)
	}
}

func TestCompute_FlooredToWholeMinutes(t *testing.T) {
	events := []model.MatchEvent{
		periodStart(1),
		substitution(1, 119, "a", "c"), // 1:59 on the clock
		periodEnd(1, 1500),
	}
	got := minutes.Compute(events, roster("a"), opts())
	if got["a"].PerPeriod[1] != 1 {
		t.Fatalf("floored credit = %d, want 1", got["a"].PerPeriod[1])
	}
}

func TestCompute_UnplayedPeriodContributesNothing(t *testing.T) {
	events := []model.MatchEvent{
		periodStart(1), periodEnd(1, 1500),
	}
	got := minutes.Compute(events, roster("a"), opts())
	if got["a"].Total != 25 {
		t.Fatalf("total = %d, want 25 (period 2 never started)", got["a"].Total)
	}
}

func TestCompute_EmptyLedgerIsAllZeroes(t *testing.T) {
	got := minutes.Compute(nil, roster("a", "b"), opts())
	for id, b := range got {
		if b.Total != 0 {
			t.Fatalf("player %s credited %d from an empty ledger", id, b.Total)
		}
	}
}

func TestCompute_LivePeriodUsesElapsedClock(t *testing.T) {
	events := []model.MatchEvent{
		periodStart(1),
		substitution(1, 300, "a", "c"),
	}
	o := opts()
	o.LivePeriod = 1
	o.LiveElapsedSec = 700
	got := minutes.Compute(events, roster("a", "b"), o)
	if got["a"].Total != 5 {
		t.Fatalf("subbed-out = %d, want 5", got["a"].Total)
	}
	if got["c"].Total != 6 {
		t.Fatalf("live on-field = %d, want floor((700-300)/60)=6", got["c"].Total)
	}
	if got["b"].Total != 11 {
		t.Fatalf("live starter = %d, want 11", got["b"].Total)
	}
}

func TestCompute_StorageOrderDoesNotMatter(t *testing.T) {
	chron := []model.MatchEvent{
		periodStart(1),
		substitution(1, 600, "b", "c"),
		periodEnd(1, 1500),
	}
	reversed := []model.MatchEvent{chron[2], chron[1], chron[0]}

	byChron := minutes.Compute(chron, roster("a", "b"), opts())
	byStored := minutes.Compute(reversed, roster("a", "b"), opts())
	for id, want := range byChron {
		got := byStored[id]
		if got == nil || got.Total != want.Total {
			t.Fatalf("player %s: %v vs %v", id, got, want)
		}
	}
}

func TestCompute_IsDeterministic(t *testing.T) {
	events := []model.MatchEvent{
		periodStart(1),
		substitution(1, 450, "a", "c"),
		{Type: model.EventRedCard, Period: 1, Timestamp: 900, PlayerID: "b"},
		periodEnd(1, 1500),
	}
	first := minutes.Compute(events, roster("a", "b"), opts())
	second := minutes.Compute(events, roster("a", "b"), opts())
	for id, want := range first {
		got := second[id]
		if got.Total != want.Total || len(got.PerPeriod) != len(want.PerPeriod) {
			t.Fatalf("player %s: %+v vs %+v", id, got, want)
		}
	}
}
