package splash

import (
	"sync"
	"time"

	"github.com/Iron-Ham/folio/internal/event"
	"github.com/Iron-Ham/folio/internal/logging"
)

// PhaseChangeFunc is called after every phase change.
type PhaseChangeFunc func(from, to Phase)

// Snapshot is a point-in-time view of the controller.
type Snapshot struct {
	Phase    Phase
	Progress int
	Elapsed  time.Duration
	Started  bool
}

type phaseChange struct {
	from, to Phase
	progress int
}

// Controller is the splash phase state machine. It is safe for concurrent
// use; listeners are called without the lock held.
type Controller struct {
	timing Timing
	logger *logging.Logger
	bus    *event.Bus

	mu        sync.Mutex
	phase     Phase
	progress  int
	started   bool
	startedAt time.Time
	lastStep  time.Time // time of the last percentage increment
	lastSeen  time.Time // latest time passed to Start or Advance
	revealAt  time.Time
	listeners []PhaseChangeFunc
}

// Option configures a Controller.
type Option func(*Controller)

// WithLogger sets the logger.
func WithLogger(l *logging.Logger) Option {
	return func(c *Controller) {
		if l != nil {
			c.logger = l
		}
	}
}

// WithBus publishes a PhaseChangeEvent on every phase change.
func WithBus(b *event.Bus) Option {
	return func(c *Controller) {
		c.bus = b
	}
}

// NewController creates a controller. When skip is true the controller
// starts done at 100% and never enters loading or reveal.
func NewController(timing Timing, skip bool, opts ...Option) *Controller {
	c := &Controller{
		timing: timing.withDefaults(),
		logger: logging.NopLogger(),
	}
	for _, opt := range opts {
		opt(c)
	}
	c.logger = c.logger.WithComponent("splash")
	if skip {
		c.phase = PhaseDone
		c.progress = 100
	}
	return c
}

// Timing returns the durations the controller runs with.
func (c *Controller) Timing() Timing {
	return c.timing
}

// OnPhaseChange registers fn to be called after every phase change.
func (c *Controller) OnPhaseChange(fn PhaseChangeFunc) {
	if fn == nil {
		return
	}
	c.mu.Lock()
	c.listeners = append(c.listeners, fn)
	c.mu.Unlock()
}

// Start begins the loading ramp at now with the percentage at 1. It is a
// no-op once started or when the controller is already done.
func (c *Controller) Start(now time.Time) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.startLocked(now)
}

func (c *Controller) startLocked(now time.Time) {
	if c.started || c.phase != PhaseLoading {
		return
	}
	c.started = true
	c.startedAt = now
	c.lastStep = now
	c.lastSeen = now
	c.progress = 1
	c.logger.Debug("splash started", "ramp", c.timing.ramp(), "ceiling", c.timing.Max)
}

// Advance runs one animation frame at now and returns the resulting phase.
// criticalComplete is the preloader's critical-path flag. An unstarted
// controller is started at now.
func (c *Controller) Advance(now time.Time, criticalComplete bool) Phase {
	c.mu.Lock()
	c.startLocked(now)
	if now.After(c.lastSeen) {
		c.lastSeen = now
	}

	var changes []phaseChange
	if c.phase == PhaseLoading {
		if ch, ok := c.advanceLoadingLocked(now, criticalComplete); ok {
			changes = append(changes, ch)
		}
	}
	if c.phase == PhaseReveal && !now.Before(c.revealAt.Add(c.timing.Reveal)) {
		changes = append(changes, c.setPhaseLocked(PhaseDone))
	}
	phase := c.phase
	listeners := c.listeners
	c.mu.Unlock()

	c.emit(listeners, changes)
	return phase
}

func (c *Controller) advanceLoadingLocked(now time.Time, criticalComplete bool) (phaseChange, bool) {
	elapsed := now.Sub(c.startedAt)
	ceiling := c.startedAt.Add(c.timing.Max)

	if elapsed >= c.timing.Max {
		c.progress = 100
		c.revealAt = ceiling
		c.logger.Warn("splash ceiling reached", "critical_complete", criticalComplete)
		return c.setPhaseLocked(PhaseReveal), true
	}

	ramp := c.timing.ramp()
	target := min(99, int(float64(elapsed)/float64(ramp)*99)) + 1
	if c.progress < target {
		// One unit per frame, throttled, unless the ramp is already overdue.
		if now.Sub(c.lastStep) >= c.timing.step() || elapsed >= ramp {
			c.progress++
			c.lastStep = now
		}
	}

	if c.progress >= 100 && elapsed >= c.timing.Min && criticalComplete {
		c.revealAt = now
		return c.setPhaseLocked(PhaseReveal), true
	}
	return phaseChange{}, false
}

// Skip jumps straight to done with the percentage at 100. Used when the
// route switches to a skip-list page while loading.
func (c *Controller) Skip() {
	c.mu.Lock()
	if c.phase == PhaseDone {
		c.mu.Unlock()
		return
	}
	c.progress = 100
	change := c.setPhaseLocked(PhaseDone)
	listeners := c.listeners
	c.mu.Unlock()

	c.emit(listeners, []phaseChange{change})
}

// NextDeadline returns when Advance must run next: the next frame or the
// hard ceiling while loading, the end of the hold while revealing. It
// returns the zero time when done or not yet started.
func (c *Controller) NextDeadline() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()

	switch {
	case c.phase == PhaseDone, !c.started:
		return time.Time{}
	case c.phase == PhaseReveal:
		return c.revealAt.Add(c.timing.Reveal)
	}
	next := c.lastSeen.Add(c.timing.Frame)
	if ceiling := c.startedAt.Add(c.timing.Max); ceiling.Before(next) {
		return ceiling
	}
	return next
}

// Phase returns the current phase.
func (c *Controller) Phase() Phase {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.phase
}

// Progress returns the displayed percentage.
func (c *Controller) Progress() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.progress
}

// LoaderDone reports whether the splash has finished. Page content gates
// its entrance on this.
func (c *Controller) LoaderDone() bool {
	return c.Phase() == PhaseDone
}

// Snapshot returns the controller state as of the last Advance.
func (c *Controller) Snapshot() Snapshot {
	c.mu.Lock()
	defer c.mu.Unlock()
	s := Snapshot{
		Phase:    c.phase,
		Progress: c.progress,
		Started:  c.started,
	}
	if c.started {
		s.Elapsed = c.lastSeen.Sub(c.startedAt)
	}
	return s
}

func (c *Controller) setPhaseLocked(to Phase) phaseChange {
	ch := phaseChange{from: c.phase, to: to, progress: c.progress}
	c.phase = to
	return ch
}

func (c *Controller) emit(listeners []PhaseChangeFunc, changes []phaseChange) {
	for _, ch := range changes {
		c.logger.WithPhase(ch.to.String()).Info("splash phase changed",
			"from", ch.from.String(),
			"progress", ch.progress,
		)
		if c.bus != nil {
			c.bus.Publish(event.NewPhaseChangeEvent(ch.from.String(), ch.to.String(), ch.progress))
		}
		for _, fn := range listeners {
			fn(ch.from, ch.to)
		}
	}
}
