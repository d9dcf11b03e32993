// Package playback drives a cursor over a frozen consensus sequence with
// automatic and manual advance.
package playback

import (
	"sync"
	"time"

	"github.com/swarmscope/swarmscope/internal/event"
	"github.com/swarmscope/swarmscope/internal/store"
)

// State of the playback machine.
type State string

const (
	StateStopped State = "stopped" // no sequence, cursor invalid
	StatePaused  State = "paused"  // cursor valid, no auto-advance
	StatePlaying State = "playing" // cursor valid, auto-advance scheduled
)

// Speed bounds for the multiplier.
const (
	MinSpeed = 0.25
	MaxSpeed = 8.0
)

// DefaultBaseInterval is the per-event interval at speed 1x.
const DefaultBaseInterval = 2 * time.Second

// Scheduler schedules a single deferred callback. The returned cancel stops
// the callback if it has not fired yet. Tests substitute a manual scheduler.
type Scheduler interface {
	AfterFunc(d time.Duration, fn func()) (cancel func())
}

type timerScheduler struct{}

func (timerScheduler) AfterFunc(d time.Duration, fn func()) func() {
	t := time.AfterFunc(d, fn)
	return func() { t.Stop() }
}

// Snapshot is the push-contract view of the playback state.
type Snapshot struct {
	Position    int
	Length      int
	State       State
	Playing     bool
	Speed       float64
	LastAdvance time.Time
}

// ParticipantStatus is the derived per-cursor vote tally entry.
type ParticipantStatus struct {
	Agent    string
	Decision string // approved, rejected or pending
	Reason   string
	VotedAt  time.Time
}

// Controller owns the playback state. All mutation goes through its methods;
// consumers only receive snapshots via the change callback.
type Controller struct {
	mu sync.Mutex

	store        *store.Store
	cursor       int
	state        State
	speed        float64
	baseInterval time.Duration
	lastAdvance  time.Time

	sched    Scheduler
	clock    func() time.Time
	onChange func(Snapshot)

	cancel func()
	epoch  uint64 // invalidates in-flight timer callbacks
}

// Option configures a Controller.
type Option func(*Controller)

// WithScheduler replaces the timer scheduler.
func WithScheduler(s Scheduler) Option {
	return func(c *Controller) { c.sched = s }
}

// WithClock replaces the advance-time clock.
func WithClock(now func() time.Time) Option {
	return func(c *Controller) { c.clock = now }
}

// WithBaseInterval sets the per-event interval at speed 1x.
func WithBaseInterval(d time.Duration) Option {
	return func(c *Controller) { c.baseInterval = d }
}

// OnChange registers the push callback invoked after every state change.
func OnChange(fn func(Snapshot)) Option {
	return func(c *Controller) { c.onChange = fn }
}

// New creates a stopped Controller.
func New(opts ...Option) *Controller {
	c := &Controller{
		cursor:       -1,
		state:        StateStopped,
		speed:        1.0,
		baseInterval: DefaultBaseInterval,
		sched:        timerScheduler{},
		clock:        time.Now,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Load attaches a frozen sequence: Paused at cursor 0 when non-empty,
// Stopped otherwise. Any pending advance is cancelled.
func (c *Controller) Load(st *store.Store) {
	c.mu.Lock()
	c.cancelLocked()
	c.store = st
	if st == nil || st.Len() == 0 {
		c.state = StateStopped
		c.cursor = -1
	} else {
		c.state = StatePaused
		c.cursor = 0
	}
	c.notifyUnlock()
}

// Play starts auto-advance from the current cursor. No-op unless Paused.
func (c *Controller) Play() {
	c.mu.Lock()
	if c.state != StatePaused {
		c.mu.Unlock()
		return
	}
	c.state = StatePlaying
	c.scheduleLocked()
	c.notifyUnlock()
}

// Pause cancels the scheduled advance. Idempotent.
func (c *Controller) Pause() {
	c.mu.Lock()
	c.cancelLocked()
	if c.state == StatePlaying {
		c.state = StatePaused
	}
	c.notifyUnlock()
}

// Advance moves the cursor forward one event, clamped to the end. Reaching
// the last event while Playing pauses playback; playback never loops.
func (c *Controller) Advance() {
	c.mu.Lock()
	c.advanceLocked()
	c.notifyUnlock()
}

func (c *Controller) advanceLocked() {
	if c.state == StateStopped || c.store == nil {
		return
	}
	last := c.store.Len() - 1
	if c.cursor < last {
		c.cursor++
		c.lastAdvance = c.clock()
	}
	if c.cursor >= last && c.state == StatePlaying {
		c.cancelLocked()
		c.state = StatePaused
		return
	}
	if c.state == StatePlaying {
		c.scheduleLocked()
	}
}

// Retreat moves the cursor back one event, clamped to the start. The
// play/pause state is unchanged; a pending auto-advance keeps its deadline.
func (c *Controller) Retreat() {
	c.mu.Lock()
	if c.state == StateStopped || c.cursor <= 0 {
		c.mu.Unlock()
		return
	}
	c.cursor--
	c.notifyUnlock()
}

// SetSpeed clamps the multiplier to [MinSpeed, MaxSpeed]. While Playing the
// pending advance is rescheduled at the new interval immediately; an
// in-flight wait is never honored at the old rate.
func (c *Controller) SetSpeed(multiplier float64) {
	c.mu.Lock()
	if multiplier < MinSpeed {
		multiplier = MinSpeed
	}
	if multiplier > MaxSpeed {
		multiplier = MaxSpeed
	}
	c.speed = multiplier
	if c.state == StatePlaying {
		c.cancelLocked()
		c.scheduleLocked()
	}
	c.notifyUnlock()
}

// Reset returns to cursor 0 Paused (Stopped when the sequence is empty) and
// cancels any scheduling. Idempotent.
func (c *Controller) Reset() {
	c.mu.Lock()
	c.cancelLocked()
	if c.store == nil || c.store.Len() == 0 {
		c.state = StateStopped
		c.cursor = -1
	} else {
		c.state = StatePaused
		c.cursor = 0
	}
	c.notifyUnlock()
}

// Interval returns the current auto-advance period: baseInterval / speed.
func (c *Controller) Interval() time.Duration {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.intervalLocked()
}

func (c *Controller) intervalLocked() time.Duration {
	return time.Duration(float64(c.baseInterval) / c.speed)
}

// Snapshot returns the current state for the push contract.
func (c *Controller) Snapshot() Snapshot {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.snapshotLocked()
}

func (c *Controller) snapshotLocked() Snapshot {
	length := 0
	if c.store != nil {
		length = c.store.Len()
	}
	return Snapshot{
		Position:    c.cursor,
		Length:      length,
		State:       c.state,
		Playing:     c.state == StatePlaying,
		Speed:       c.speed,
		LastAdvance: c.lastAdvance,
	}
}

// Current returns the event under the cursor.
func (c *Controller) Current() (event.ConsensusEvent, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.store == nil || c.cursor < 0 || c.cursor >= c.store.Len() {
		return event.ConsensusEvent{}, false
	}
	return c.store.At(c.cursor), true
}

// Participants computes the per-cursor vote tally: each participant of the
// current event joined against its votes, pending when no vote exists. The
// tally is derived on every call, never cached.
func (c *Controller) Participants() []ParticipantStatus {
	ev, ok := c.Current()
	if !ok {
		return nil
	}

	out := make([]ParticipantStatus, 0, len(ev.Participants))
	for _, agent := range ev.Participants {
		ps := ParticipantStatus{Agent: agent, Decision: event.DecisionPending}
		if v, voted := ev.VoteFor(agent); voted {
			ps.Decision = v.Decision
			ps.Reason = v.Reason
			ps.VotedAt = v.Timestamp
		}
		out = append(out, ps)
	}
	return out
}

// scheduleLocked arms the next auto-advance at the current interval.
func (c *Controller) scheduleLocked() {
	c.cancelLocked()
	epoch := c.epoch
	c.cancel = c.sched.AfterFunc(c.intervalLocked(), func() {
		c.onTimer(epoch)
	})
}

// cancelLocked stops the pending advance and invalidates callbacks already
// in flight.
func (c *Controller) cancelLocked() {
	c.epoch++
	if c.cancel != nil {
		c.cancel()
		c.cancel = nil
	}
}

func (c *Controller) onTimer(epoch uint64) {
	c.mu.Lock()
	if epoch != c.epoch || c.state != StatePlaying {
		// A cancel or reschedule beat this callback.
		c.mu.Unlock()
		return
	}
	c.advanceLocked()
	c.notifyUnlock()
}

// notifyUnlock snapshots under the lock, releases it, then pushes.
func (c *Controller) notifyUnlock() {
	snap := c.snapshotLocked()
	fn := c.onChange
	c.mu.Unlock()
	if fn != nil {
		fn(snap)
	}
}
