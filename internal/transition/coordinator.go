// Package transition drives the fog cover that hides route swaps.
//
// The sequence is idle → enter → full → exit → idle. The caller's navigate
// function runs exactly once, a short delay after the cover turns opaque, so
// a half-rendered page is never visible. The coordinator owns no timers: a
// single driver calls [Coordinator.Advance] at [Coordinator.Deadline].
package transition

import (
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/Iron-Ham/folio/internal/errors"
	"github.com/Iron-Ham/folio/internal/event"
	"github.com/Iron-Ham/folio/internal/logging"
	"github.com/Iron-Ham/folio/internal/metrics"
)

// StageFunc is called after every stage change.
type StageFunc func(StageChange)

// Coordinator runs one fog transition at a time. A trigger while a
// transition is active is rejected.
type Coordinator struct {
	timing  Timing
	logger  *logging.Logger
	bus     *event.Bus
	metrics *metrics.Recorder

	// swap is held while navigate runs so Cancel cannot interleave with
	// the route swap.
	swap sync.Mutex
	// beforeSwap runs between releasing mu and taking swap. Tests only.
	beforeSwap func()

	mu        sync.Mutex
	id        string
	stage     Stage
	deadline  time.Time
	navigate  func()
	navigated bool
	listeners []StageFunc
}

// Option configures a Coordinator.
type Option func(*Coordinator)

// WithLogger sets the logger.
func WithLogger(l *logging.Logger) Option {
	return func(c *Coordinator) {
		if l != nil {
			c.logger = l
		}
	}
}

// WithBus publishes a TransitionStageEvent on every stage change.
func WithBus(b *event.Bus) Option {
	return func(c *Coordinator) {
		c.bus = b
	}
}

// WithMetrics counts rejected triggers.
func WithMetrics(m *metrics.Recorder) Option {
	return func(c *Coordinator) {
		c.metrics = m
	}
}

// New creates an idle Coordinator. Zero durations in timing fall back to
// DefaultTiming.
func New(timing Timing, opts ...Option) *Coordinator {
	d := DefaultTiming()
	if timing.Enter <= 0 {
		timing.Enter = d.Enter
	}
	if timing.Navigate <= 0 {
		timing.Navigate = d.Navigate
	}
	if timing.Hold <= 0 {
		timing.Hold = d.Hold
	}
	if timing.Exit <= 0 {
		timing.Exit = d.Exit
	}

	c := &Coordinator{
		timing: timing,
		logger: logging.NopLogger(),
	}
	for _, opt := range opts {
		opt(c)
	}
	c.logger = c.logger.WithComponent("transition")
	return c
}

// OnStage registers fn to be called after every stage change.
func (c *Coordinator) OnStage(fn StageFunc) {
	if fn == nil {
		return
	}
	c.mu.Lock()
	c.listeners = append(c.listeners, fn)
	c.mu.Unlock()
}

// Trigger starts a transition at now and returns its id. navigate may be
// nil for a cover without a route swap. While a transition is active the
// trigger is rejected with a TransitionError wrapping
// errors.ErrTransitionActive.
func (c *Coordinator) Trigger(now time.Time, navigate func()) (string, error) {
	c.mu.Lock()
	if c.stage != StageIdle {
		activeID, stage := c.id, c.stage
		c.mu.Unlock()

		c.metrics.TransitionRejected()
		c.logger.WithTransition(activeID).Debug("transition trigger rejected", "stage", stage.String())
		return "", errors.NewTransitionError("trigger rejected", errors.ErrTransitionActive).
			WithTransition(activeID, stage.String())
	}

	c.id = uuid.NewString()
	c.navigate = navigate
	c.navigated = false
	c.deadline = now.Add(c.timing.Enter)
	change := c.setStageLocked(StageEnter)
	id := c.id
	listeners := c.listeners
	c.mu.Unlock()

	c.emit(listeners, change)
	return id, nil
}

// Advance moves through every stage whose deadline is at or before now and
// returns the resulting stage. Navigation runs without the lock held, while
// the stage is still full.
func (c *Coordinator) Advance(now time.Time) Stage {
	for {
		c.mu.Lock()
		change, navigate, moved := c.stepLocked(now)
		stage, id := c.stage, c.id
		listeners := c.listeners
		c.mu.Unlock()

		if change != nil {
			c.emit(listeners, *change)
		}
		if navigate != nil {
			c.runNavigate(id, navigate)
		}
		if !moved {
			return stage
		}
	}
}

// runNavigate calls fn only if transition id is still covering the screen.
// navigate must not call Cancel.
func (c *Coordinator) runNavigate(id string, fn func()) {
	if c.beforeSwap != nil {
		c.beforeSwap()
	}
	c.swap.Lock()
	defer c.swap.Unlock()

	c.mu.Lock()
	live := c.stage == StageFull && c.id == id
	c.mu.Unlock()
	if !live {
		c.logger.WithTransition(id).Debug("navigation dropped, transition no longer covering")
		return
	}
	fn()
}

// stepLocked performs at most one step of the sequence.
func (c *Coordinator) stepLocked(now time.Time) (change *StageChange, navigate func(), moved bool) {
	if c.stage == StageIdle || now.Before(c.deadline) {
		return nil, nil, false
	}

	switch c.stage {
	case StageEnter:
		ch := c.setStageLocked(StageFull)
		c.deadline = c.deadline.Add(c.timing.Navigate)
		return &ch, nil, true

	case StageFull:
		if !c.navigated {
			c.navigated = true
			navigate = c.navigate
			c.navigate = nil
			c.deadline = c.deadline.Add(c.timing.Hold)
			c.logger.WithTransition(c.id).Debug("navigating behind cover")
			return nil, navigate, true
		}
		ch := c.setStageLocked(StageExit)
		c.deadline = c.deadline.Add(c.timing.Exit)
		return &ch, nil, true

	case StageExit:
		ch := c.setStageLocked(StageIdle)
		c.deadline = time.Time{}
		return &ch, nil, true
	}
	return nil, nil, false
}

// Cancel tears down an active transition without navigating. It reports
// whether a transition was active. A navigation already running finishes
// first.
func (c *Coordinator) Cancel() bool {
	c.swap.Lock()
	defer c.swap.Unlock()

	c.mu.Lock()
	if c.stage == StageIdle {
		c.mu.Unlock()
		return false
	}
	c.navigate = nil
	c.deadline = time.Time{}
	change := c.setStageLocked(StageIdle)
	listeners := c.listeners
	c.mu.Unlock()

	c.logger.WithTransition(change.ID).Info("transition cancelled", "from", change.From.String())
	c.emit(listeners, change)
	return true
}

// Deadline returns when Advance must next run, or the zero time when idle.
func (c *Coordinator) Deadline() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.deadline
}

// Stage returns the current stage.
func (c *Coordinator) Stage() Stage {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.stage
}

// Active reports whether a transition is in flight.
func (c *Coordinator) Active() bool {
	return c.Stage() != StageIdle
}

// ID returns the id of the active transition, or "" when idle.
func (c *Coordinator) ID() string {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.stage == StageIdle {
		return ""
	}
	return c.id
}

func (c *Coordinator) setStageLocked(to Stage) StageChange {
	ch := StageChange{ID: c.id, From: c.stage, To: to}
	c.stage = to
	return ch
}

func (c *Coordinator) emit(listeners []StageFunc, ch StageChange) {
	c.logger.WithTransition(ch.ID).Debug("fog stage changed", "from", ch.From.String(), "to", ch.To.String())
	if c.bus != nil {
		c.bus.Publish(event.NewTransitionStageEvent(ch.ID, ch.From.String(), ch.To.String()))
	}
	for _, fn := range listeners {
		fn(ch)
	}
}
