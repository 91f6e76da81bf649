package reveal

import (
	"sync"
	"time"

	"github.com/julianstephens/duet/internal/clock"
	"github.com/julianstephens/duet/internal/constants"
	apperrors "github.com/julianstephens/duet/internal/errors"
	"github.com/julianstephens/duet/internal/logger"
)

// Timer is a cancellation handle for a scheduled callback.
type Timer interface {
	// Stop cancels the callback. It returns false if the callback already ran
	// or could not be cancelled.
	Stop() bool
}

// Scheduler runs f once after d.
type Scheduler interface {
	AfterFunc(d time.Duration, f func()) Timer
}

// TimeScheduler schedules with time.AfterFunc.
type TimeScheduler struct{}

func (TimeScheduler) AfterFunc(d time.Duration, f func()) Timer {
	return time.AfterFunc(d, f)
}

// SchedulerFunc adapts a function to the Scheduler interface.
type SchedulerFunc func(d time.Duration, f func()) Timer

func (fn SchedulerFunc) AfterFunc(d time.Duration, f func()) Timer {
	return fn(d, f)
}

// Driver runs a Session's step timer on a host scheduler. At most one tick is
// pending at a time. Every tick carries the session token it was scheduled
// under and is dropped if the token moved on, so a tick the host failed to
// cancel can never advance a step twice.
//
// Driver methods are safe to call from multiple goroutines.
type Driver struct {
	mu         sync.Mutex
	session    *Session
	sched      Scheduler
	clock      clock.Clock
	interval   time.Duration
	pending    Timer
	lastTick   time.Time
	started    bool
	onChange   func(View)
	onComplete func()
}

type DriverOption func(*Driver)

// WithInterval sets the tick period. The default is constants.TickInterval.
func WithInterval(d time.Duration) DriverOption {
	return func(dr *Driver) {
		if d > 0 {
			dr.interval = d
		}
	}
}

// WithOnChange registers a callback invoked after every state change.
func WithOnChange(fn func(View)) DriverOption {
	return func(dr *Driver) { dr.onChange = fn }
}

// WithOnComplete registers a callback invoked once the finale's bar fills.
func WithOnComplete(fn func()) DriverOption {
	return func(dr *Driver) { dr.onComplete = fn }
}

func NewDriver(s *Session, sched Scheduler, c clock.Clock, opts ...DriverOption) *Driver {
	d := &Driver{
		session:  s,
		sched:    sched,
		clock:    c,
		interval: constants.TickInterval,
	}
	for _, opt := range opts {
		opt(d)
	}
	return d
}

// Start begins ticking the first step. Calling it again has no effect.
func (d *Driver) Start() {
	d.mu.Lock()
	if d.started || d.session.Closed() {
		d.mu.Unlock()
		return
	}
	d.started = true
	d.arm()
	view := d.session.View()
	d.mu.Unlock()

	d.notify(view, false)
}

// arm schedules the next tick if the session is running. Caller holds mu.
func (d *Driver) arm() {
	if !d.session.Running() {
		return
	}
	token := d.session.Token()
	d.lastTick = d.clock.Now()
	d.pending = d.sched.AfterFunc(d.interval, func() { d.fire(token) })
}

// disarm cancels the pending tick. Caller holds mu.
func (d *Driver) disarm() {
	if d.pending != nil {
		d.pending.Stop()
		d.pending = nil
	}
}

// halt cancels the pending tick and credits the time since the last tick to
// the current step, so a pause loses no progress. Caller holds mu.
func (d *Driver) halt() {
	if d.pending == nil {
		return
	}
	d.disarm()
	d.session.Tick(d.clock.Now().Sub(d.lastTick))
}

func (d *Driver) fire(token uint64) {
	d.mu.Lock()
	if token != d.session.Token() || !d.session.Running() {
		d.mu.Unlock()
		logger.Debug("Dropping stale reveal tick", "token", token, "error", apperrors.ErrSchedulerExhausted)
		return
	}
	d.pending = nil
	d.session.Tick(d.clock.Now().Sub(d.lastTick))
	completed := d.session.Complete()
	d.arm()
	view := d.session.View()
	d.mu.Unlock()

	d.notify(view, completed)
}

func (d *Driver) notify(view View, completed bool) {
	if d.onChange != nil {
		d.onChange(view)
	}
	if completed && d.onComplete != nil {
		d.onComplete()
	}
}

// command runs a state transition with the timer stopped, then rearms it.
func (d *Driver) command(apply func() bool) bool {
	d.mu.Lock()
	if d.session.Closed() {
		d.mu.Unlock()
		return false
	}
	wasComplete := d.session.Complete()
	d.halt()
	changed := apply()
	if d.started {
		d.arm()
	}
	view := d.session.View()
	completed := !wasComplete && d.session.Complete()
	d.mu.Unlock()

	d.notify(view, completed)
	return changed
}

func (d *Driver) StepForward() bool { return d.command(d.session.StepForward) }
func (d *Driver) StepBack() bool    { return d.command(d.session.StepBack) }
func (d *Driver) Pause() bool       { return d.command(d.session.Pause) }
func (d *Driver) Resume() bool      { return d.command(d.session.Resume) }
func (d *Driver) TogglePause() bool { return d.command(d.session.TogglePause) }

// React toggles a reaction on the entry being shown. The timer keeps running.
func (d *Driver) React(entryID, emoji string) (ReactionChange, error) {
	d.mu.Lock()
	change, err := d.session.React(entryID, emoji)
	view := d.session.View()
	d.mu.Unlock()

	if change.EntryID != "" {
		d.notify(view, false)
	}
	return change, err
}

// Close stops the timer and closes the session. No tick runs afterwards.
func (d *Driver) Close() {
	d.mu.Lock()
	d.disarm()
	d.session.Close()
	d.mu.Unlock()
}

// View returns the current rendering snapshot.
func (d *Driver) View() View {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.session.View()
}

// Reactions returns the selections made so far.
func (d *Driver) Reactions() map[string]string {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.session.Reactions()
}
