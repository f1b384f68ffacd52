// Package clock implements the wall-clock match timer. Elapsed time is
// always recomputed from wall-clock deltas rather than counted up by ticks,
// so it stays correct across process suspension and restarts: restoring the
// persisted snapshot yields the true elapsed time immediately.
package clock

import (
	"errors"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"github.com/albertomarcenaro-code/match-manager-v2-sub000/internal/model"
	"github.com/albertomarcenaro-code/match-manager-v2-sub000/internal/repository"
)

// Option configures a Timer.
type Option func(*Timer)

// WithNow injects the time source. Tests use a fake clock.
func WithNow(now func() time.Time) Option {
	return func(t *Timer) { t.now = now }
}

// WithAlert sets the one-shot callback fired when elapsed time first reaches
// the period limit. Firing is best-effort: a panicking alert is swallowed and
// never blocks timer progress.
func WithAlert(alert func()) Option {
	return func(t *Timer) { t.alert = alert }
}

// WithOnTick sets an observer invoked with the current elapsed seconds on
// each one-second tick while the timer runs unpaused.
func WithOnTick(fn func(elapsed int)) Option {
	return func(t *Timer) { t.onTick = fn }
}

// Timer tracks elapsed seconds within one period. All transitions persist the
// snapshot through the store; persistence failures are logged and otherwise
// ignored (soft durability).
type Timer struct {
	mu    sync.Mutex
	now   func() time.Time
	store repository.TimerStateStore
	log   zerolog.Logger

	snap        model.TimerSnapshot
	periodLimit int // seconds; 0 disables the alert
	alert       func()
	onTick      func(int)
	alertFired  bool

	tickStop chan struct{} // non-nil exactly while the tick loop runs
}

// New builds a stopped timer over the given snapshot store.
func New(store repository.TimerStateStore, logger zerolog.Logger, opts ...Option) *Timer {
	t := &Timer{
		now:   time.Now,
		store: store,
		log:   logger.With().Str("component", "timer").Logger(),
	}
	for _, opt := range opts {
		opt(t)
	}
	return t
}

// Start resets to zero and begins running from now. The period limit, in
// seconds, arms the one-shot alert; the fired flag resets on every Start.
func (t *Timer) Start(periodLimitSec int) {
	t.mu.Lock()
	t.snap = model.TimerSnapshot{
		StartTimestamp: t.now().UnixMilli(),
		IsRunning:      true,
	}
	t.periodLimit = periodLimitSec
	t.alertFired = false
	t.persistLocked()
	t.startTickLocked()
	t.mu.Unlock()
}

// Pause freezes the computed elapsed value.
func (t *Timer) Pause() {
	t.mu.Lock()
	defer t.mu.Unlock()
	if !t.snap.IsRunning || t.snap.IsPaused {
		return
	}
	t.snap.PausedAt = t.elapsedLocked()
	t.snap.IsPaused = true
	t.persistLocked()
	t.stopTickLocked()
}

// Resume recomputes a virtual start timestamp so elapsed time continues
// seamlessly from the frozen value, however long the pause lasted.
func (t *Timer) Resume() {
	t.mu.Lock()
	defer t.mu.Unlock()
	if !t.snap.IsRunning || !t.snap.IsPaused {
		return
	}
	t.snap.StartTimestamp = t.now().UnixMilli() - int64(t.snap.PausedAt)*1000
	t.snap.PausedAt = 0
	t.snap.IsPaused = false
	t.persistLocked()
	t.startTickLocked()
}

// ResumeFrom restarts the timer mid-period at the given elapsed value, as
// when a period_end is undone. The virtual start is backdated so Elapsed
// continues from elapsedSec.
func (t *Timer) ResumeFrom(elapsedSec, periodLimitSec int) {
	t.mu.Lock()
	t.snap = model.TimerSnapshot{
		StartTimestamp: t.now().UnixMilli() - int64(elapsedSec)*1000,
		IsRunning:      true,
	}
	t.periodLimit = periodLimitSec
	t.alertFired = periodLimitSec > 0 && elapsedSec >= periodLimitSec
	t.persistLocked()
	t.startTickLocked()
	t.mu.Unlock()
}

// Stop clears all timer state, including the persisted snapshot.
func (t *Timer) Stop() {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.snap = model.TimerSnapshot{}
	t.alertFired = false
	t.stopTickLocked()
	if err := t.store.Clear(); err != nil {
		t.log.Warn().Err(err).Msg("failed to clear timer snapshot")
	}
}

// Close tears the tick loop down without touching persisted state.
func (t *Timer) Close() {
	t.mu.Lock()
	t.stopTickLocked()
	t.mu.Unlock()
}

// Elapsed returns the current elapsed seconds.
func (t *Timer) Elapsed() int {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.elapsedLocked()
}

// Snapshot returns a copy of the current timer state.
func (t *Timer) Snapshot() model.TimerSnapshot {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.snap
}

// Restore reads the persisted snapshot back, typically after a process
// restart, and recomputes elapsed time from the current wall clock rather
// than assuming zero. An absent or unparsable snapshot leaves the timer
// stopped.
func (t *Timer) Restore(periodLimitSec int) {
	snap, err := t.store.Load()
	if err != nil {
		if !errors.Is(err, repository.ErrNotFound) {
			t.log.Warn().Err(err).Msg("failed to load timer snapshot")
		}
		return
	}
	t.mu.Lock()
	t.snap = snap
	t.periodLimit = periodLimitSec
	// Anything at or past the boundary already alerted in a previous life.
	t.alertFired = periodLimitSec > 0 && t.elapsedLocked() >= periodLimitSec
	if snap.IsRunning && !snap.IsPaused {
		t.startTickLocked()
	}
	elapsed := t.elapsedLocked()
	t.mu.Unlock()
	t.log.Info().Int("elapsed", elapsed).Msg("timer restored")
}

func (t *Timer) elapsedLocked() int {
	switch {
	case t.snap.IsPaused:
		return t.snap.PausedAt
	case t.snap.IsRunning:
		d := t.now().UnixMilli() - t.snap.StartTimestamp
		if d < 0 {
			return 0
		}
		return int(d / 1000)
	default:
		return 0
	}
}

func (t *Timer) persistLocked() {
	if err := t.store.Save(t.snap); err != nil {
		t.log.Warn().Err(err).Msg("failed to persist timer snapshot")
	}
}

// startTickLocked replaces any running tick loop with a fresh one. Tearing
// down first keeps exactly one loop alive regardless of call ordering.
func (t *Timer) startTickLocked() {
	t.stopTickLocked()
	stop := make(chan struct{})
	t.tickStop = stop
	go t.tickLoop(stop)
}

func (t *Timer) stopTickLocked() {
	if t.tickStop != nil {
		close(t.tickStop)
		t.tickStop = nil
	}
}

func (t *Timer) tickLoop(stop chan struct{}) {
	ticker := time.NewTicker(time.Second)
	defer ticker.Stop()
	for {
		select {
		case <-stop:
			return
		case <-ticker.C:
			t.tick()
		}
	}
}

func (t *Timer) tick() {
	t.mu.Lock()
	if !t.snap.IsRunning || t.snap.IsPaused {
		t.mu.Unlock()
		return
	}
	elapsed := t.elapsedLocked()
	fire := t.periodLimit > 0 && !t.alertFired && elapsed >= t.periodLimit
	if fire {
		t.alertFired = true
	}
	onTick := t.onTick
	alert := t.alert
	t.mu.Unlock()

	if onTick != nil {
		onTick(elapsed)
	}
	if fire && alert != nil {
		fireAlert(alert)
	}
}

// fireAlert isolates the alert callback: it must never take the timer down.
func fireAlert(alert func()) {
	defer func() { _ = recover() }()
	alert()
}
