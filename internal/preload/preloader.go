package preload

import (
	"context"
	"fmt"
	"path"
	"runtime/debug"
	"strings"
	"sync"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/Iron-Ham/folio/internal/errors"
	"github.com/Iron-Ham/folio/internal/event"
	"github.com/Iron-Ham/folio/internal/logging"
	"github.com/Iron-Ham/folio/internal/metrics"
)

const (
	// DefaultBatchSize caps concurrent loads per batch.
	DefaultBatchSize = 6
	// DefaultTimeout bounds every asset and signal load.
	DefaultTimeout = 10 * time.Second
)

type tracked struct {
	Resource
	load       func(ctx context.Context) error
	bounded    bool // subject to the per-resource timeout
	dispatched bool
}

// Preloader tracks a registry of resources and reports aggregate progress.
// It is safe for concurrent use.
type Preloader struct {
	fetcher   Fetcher
	batchSize int
	timeout   time.Duration
	logger    *logging.Logger
	metrics   *metrics.Recorder
	bus       *event.Bus

	mu        sync.Mutex
	gen       uint64 // bumped by Reset; stale settlements are dropped
	resources []*tracked
	loaded    int
	failed    int
	floor     int // highest progress reported so far
	started   bool
	complete  bool
	running   bool
	startedAt time.Time
	loadCtx   context.Context
	done      chan struct{}
	observers []observerEntry
	nextObsID uint64

	notifyMu sync.Mutex // serializes observer delivery
	wg       sync.WaitGroup
}

type observerEntry struct {
	id  string
	obs Observer
}

// Option configures a Preloader.
type Option func(*Preloader)

// WithFetcher sets the fetcher used for asset resources.
func WithFetcher(f Fetcher) Option {
	return func(p *Preloader) {
		if f != nil {
			p.fetcher = f
		}
	}
}

// WithBatchSize sets the number of concurrent loads per batch.
func WithBatchSize(n int) Option {
	return func(p *Preloader) {
		if n > 0 {
			p.batchSize = n
		}
	}
}

// WithTimeout sets the per-resource timeout for assets and signals.
func WithTimeout(d time.Duration) Option {
	return func(p *Preloader) {
		if d > 0 {
			p.timeout = d
		}
	}
}

// WithLogger sets the logger.
func WithLogger(l *logging.Logger) Option {
	return func(p *Preloader) {
		if l != nil {
			p.logger = l
		}
	}
}

// WithMetrics sets the metrics recorder. A nil recorder disables metrics.
func WithMetrics(m *metrics.Recorder) Option {
	return func(p *Preloader) {
		p.metrics = m
	}
}

// WithBus publishes progress, settlement and completion events on bus.
func WithBus(b *event.Bus) Option {
	return func(p *Preloader) {
		p.bus = b
	}
}

// New creates a Preloader. Without WithFetcher, assets are fetched with
// NewHTTPFetcher(nil, "").
func New(opts ...Option) *Preloader {
	p := &Preloader{
		batchSize: DefaultBatchSize,
		timeout:   DefaultTimeout,
		logger:    logging.NopLogger(),
		done:      make(chan struct{}),
	}
	for _, opt := range opts {
		opt(p)
	}
	if p.fetcher == nil {
		p.fetcher = NewHTTPFetcher(nil, "")
	}
	p.logger = p.logger.WithComponent("preload")
	return p
}

// RegisterAsset adds a URL- or path-backed resource. An empty locator is a
// no-op. Unknown kinds are treated as images.
func (p *Preloader) RegisterAsset(locator string, kind Kind, critical bool) error {
	if locator == "" {
		return nil
	}
	if kind == KindModule || !kind.Valid() {
		kind = KindImage
	}
	fetcher := p.fetcher
	return p.register(&tracked{
		Resource: Resource{
			Name:     assetName(locator),
			Locator:  locator,
			Kind:     kind,
			Critical: critical,
		},
		load: func(ctx context.Context) error {
			return fetcher.Fetch(ctx, locator, kind)
		},
		bounded: true,
	})
}

// RegisterModule adds an asynchronous unit of work. A nil load is a no-op.
// Modules are not bounded by the per-resource timeout; load should honor ctx.
func (p *Preloader) RegisterModule(load LoadFunc, name string, critical bool) error {
	if load == nil {
		return nil
	}
	if name == "" {
		name = "module"
	}
	return p.register(&tracked{
		Resource: Resource{
			Name:     name,
			Kind:     KindModule,
			Critical: critical,
		},
		load: load,
	})
}

// RegisterSignal adds a font-kind resource that settles when ready is closed,
// or fails when the per-resource timeout elapses first.
func (p *Preloader) RegisterSignal(name string, ready <-chan struct{}, critical bool) error {
	if ready == nil {
		return nil
	}
	return p.register(&tracked{
		Resource: Resource{
			Name:     name,
			Kind:     KindFont,
			Critical: critical,
		},
		load: func(ctx context.Context) error {
			select {
			case <-ready:
				return nil
			case <-ctx.Done():
				return ctx.Err()
			}
		},
		bounded: true,
	})
}

func (p *Preloader) register(t *tracked) error {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.complete {
		p.metrics.RegistrationRejected()
		p.logger.Debug("registration rejected", "resource", t.Name, "kind", string(t.Kind))
		return errors.ErrRegistryClosed
	}

	p.resources = append(p.resources, t)
	if p.started {
		p.logger.Debug("late registration", "resource", t.Name, "critical", t.Critical)
		p.pumpLocked()
	}
	return nil
}

// Subscribe adds an observer and returns its subscription id.
func (p *Preloader) Subscribe(o Observer) string {
	p.mu.Lock()
	defer p.mu.Unlock()

	p.nextObsID++
	id := fmt.Sprintf("obs-%d", p.nextObsID)
	p.observers = append(p.observers, observerEntry{id: id, obs: o})
	return id
}

// Unsubscribe removes an observer. Unknown ids are a no-op returning false.
func (p *Preloader) Unsubscribe(id string) bool {
	p.mu.Lock()
	defer p.mu.Unlock()

	for i, e := range p.observers {
		if e.id == id {
			p.observers = append(p.observers[:i:i], p.observers[i+1:]...)
			return true
		}
	}
	return false
}

// Start begins loading and returns once the critical path has settled.
// If ctx ends first, Start returns ctx.Err() and loading continues. If the
// preloader is reset first, Start returns errors.ErrPreloadReset.
// Calling Start twice returns errors.ErrAlreadyStarted.
func (p *Preloader) Start(ctx context.Context) error {
	p.mu.Lock()
	if p.started {
		p.mu.Unlock()
		return errors.ErrAlreadyStarted
	}
	p.started = true
	p.startedAt = time.Now()
	p.loadCtx = context.WithoutCancel(ctx)
	justCompleted := p.evaluateLocked()
	p.floor = p.statusLocked().Progress
	p.pumpLocked()
	done, gen := p.done, p.gen
	total := len(p.resources)
	p.mu.Unlock()

	p.logger.Info("preload started", "total", total, "batch_size", p.batchSize)
	p.broadcast()
	if justCompleted {
		p.announceComplete()
	}

	select {
	case <-done:
	case <-ctx.Done():
		return ctx.Err()
	}

	p.mu.Lock()
	defer p.mu.Unlock()
	if p.gen != gen {
		return errors.ErrPreloadReset
	}
	return nil
}

// Status returns the current aggregate state.
func (p *Preloader) Status() Status {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.statusLocked()
}

func (p *Preloader) statusLocked() Status {
	total := len(p.resources)
	// Late registrations grow total; progress never moves backwards.
	pct := max(percent(p.loaded, total), p.floor)
	return Status{
		Progress: pct,
		Loaded:   p.loaded,
		Total:    total,
		Failed:   p.failed,
		Complete: p.complete,
	}
}

// Done returns a channel closed when the critical path completes.
func (p *Preloader) Done() <-chan struct{} {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.done
}

// Wait blocks until every dispatched load, including background
// non-critical work, has settled.
func (p *Preloader) Wait() {
	p.wg.Wait()
}

// Resources returns a snapshot of the registry in registration order.
func (p *Preloader) Resources() []Resource {
	p.mu.Lock()
	defer p.mu.Unlock()

	out := make([]Resource, len(p.resources))
	for i, t := range p.resources {
		out[i] = t.Resource
	}
	return out
}

// Reset clears every registration, counter and observer. Loads still in
// flight settle into the discarded registry. Anything waiting on the old
// Done channel is released. Intended for tests.
func (p *Preloader) Reset() {
	p.mu.Lock()
	defer p.mu.Unlock()

	if !p.complete {
		close(p.done)
	}

	p.gen++
	p.resources = nil
	p.loaded = 0
	p.failed = 0
	p.floor = 0
	p.started = false
	p.complete = false
	p.running = false
	p.startedAt = time.Time{}
	p.loadCtx = nil
	p.done = make(chan struct{})
	p.observers = nil
}

// evaluateLocked flips complete when started and every critical resource
// has settled. Reports whether this call flipped it.
func (p *Preloader) evaluateLocked() bool {
	if p.complete || !p.started {
		return false
	}
	for _, t := range p.resources {
		if t.Critical && !t.Settled() {
			return false
		}
	}
	p.complete = true
	close(p.done)
	return true
}

// pumpLocked ensures a runner goroutine is draining undispatched work.
func (p *Preloader) pumpLocked() {
	if !p.started || p.running {
		return
	}
	p.running = true
	p.wg.Add(1)
	go p.run(p.gen, p.loadCtx)
}

func (p *Preloader) run(gen uint64, ctx context.Context) {
	defer p.wg.Done()

	for {
		p.mu.Lock()
		if p.gen != gen {
			p.mu.Unlock()
			return
		}
		batch := p.nextBatchLocked()
		if len(batch) == 0 {
			p.running = false
			p.mu.Unlock()
			return
		}
		for _, t := range batch {
			t.dispatched = true
		}
		p.mu.Unlock()

		p.runBatch(ctx, gen, batch)
	}
}

// nextBatchLocked picks up to batchSize undispatched resources: critical
// assets, then critical modules, then non-critical work in the same order.
// Non-critical work is only reachable once every critical batch has settled.
func (p *Preloader) nextBatchLocked() []*tracked {
	passes := []func(*tracked) bool{
		func(t *tracked) bool { return t.Critical && t.Kind != KindModule },
		func(t *tracked) bool { return t.Critical && t.Kind == KindModule },
		func(t *tracked) bool { return !t.Critical && t.Kind != KindModule },
		func(t *tracked) bool { return !t.Critical && t.Kind == KindModule },
	}
	for _, match := range passes {
		var batch []*tracked
		for _, t := range p.resources {
			if t.dispatched || !match(t) {
				continue
			}
			batch = append(batch, t)
			if len(batch) == p.batchSize {
				break
			}
		}
		if len(batch) > 0 {
			return batch
		}
	}
	return nil
}

func (p *Preloader) runBatch(ctx context.Context, gen uint64, batch []*tracked) {
	var g errgroup.Group
	for _, t := range batch {
		g.Go(func() error {
			start := time.Now()
			err := p.loadOne(ctx, t)
			p.settle(gen, t, err, time.Since(start))
			return nil
		})
	}
	_ = g.Wait()
}

func (p *Preloader) loadOne(ctx context.Context, t *tracked) (err error) {
	if t.bounded {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, p.timeout)
		defer cancel()
	}

	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("%w: panic: %v", errors.ErrLoadFailed, r)
			p.logger.Error("load panicked",
				"resource", t.Name,
				"panic", fmt.Sprint(r),
				"stack", string(debug.Stack()))
		}
	}()

	err = t.load(ctx)
	if err != nil && ctx.Err() == context.DeadlineExceeded {
		err = errors.ErrLoadTimeout
	}
	return err
}

func (p *Preloader) settle(gen uint64, t *tracked, err error, d time.Duration) {
	p.mu.Lock()
	if p.gen != gen {
		p.mu.Unlock()
		return
	}
	t.Duration = d
	if err != nil {
		t.Failed = true
		t.Err = err
		p.failed++
	} else {
		t.Loaded = true
	}
	p.loaded++
	p.floor = p.statusLocked().Progress
	justCompleted := p.evaluateLocked()
	p.mu.Unlock()

	log := p.logger.WithResource(t.Name, string(t.Kind))
	if err != nil {
		loadErr := errors.NewLoadError("resource failed", err).
			WithResource(t.Name, string(t.Kind)).
			WithLocator(t.Locator).
			WithCritical(t.Critical).
			WithDuration(d)
		if errors.GetSeverity(loadErr) >= errors.SeverityError {
			log.Error("resource failed", "error", loadErr.Error(), "critical", t.Critical)
		} else {
			log.Warn("resource failed", "error", loadErr.Error(), "critical", t.Critical)
		}
	} else {
		log.Debug("resource loaded", "duration_ms", d.Milliseconds(), "critical", t.Critical)
	}

	p.metrics.ResourceSettled(string(t.Kind), t.Critical, err != nil, d)
	if p.bus != nil {
		errMsg := ""
		if err != nil {
			errMsg = err.Error()
		}
		p.bus.Publish(event.NewResourceSettledEvent(t.Name, string(t.Kind), t.Critical, err != nil, d, errMsg))
	}

	p.broadcast()
	if justCompleted {
		p.announceComplete()
	}
}

// broadcast delivers the current progress to every observer and the bus.
func (p *Preloader) broadcast() {
	p.notifyMu.Lock()
	defer p.notifyMu.Unlock()

	p.mu.Lock()
	st := p.statusLocked()
	observers := make([]observerEntry, len(p.observers))
	copy(observers, p.observers)
	p.mu.Unlock()

	prog := Progress{Percent: st.Progress, Loaded: st.Loaded, Total: st.Total}
	for _, e := range observers {
		p.safeNotify(e, prog)
	}

	p.metrics.Progress(prog.Percent)
	if p.bus != nil {
		p.bus.Publish(event.NewProgressEvent(prog.Percent, prog.Loaded, prog.Total))
	}
}

func (p *Preloader) safeNotify(e observerEntry, prog Progress) {
	defer func() {
		if r := recover(); r != nil {
			p.logger.Error("progress observer panicked",
				"observer", e.id,
				"panic", fmt.Sprint(r))
		}
	}()
	e.obs.Notify(prog)
}

func (p *Preloader) announceComplete() {
	p.mu.Lock()
	st := p.statusLocked()
	elapsed := time.Since(p.startedAt)
	p.mu.Unlock()

	p.logger.Info("critical path complete",
		"elapsed_ms", elapsed.Milliseconds(),
		"loaded", st.Loaded,
		"total", st.Total,
		"failed", st.Failed)
	p.metrics.CriticalPathSettled(elapsed)
	if p.bus != nil {
		p.bus.Publish(event.NewPreloadCompleteEvent(st.Total, st.Failed, elapsed))
	}
}

// assetName derives a display name from a locator's last path element.
func assetName(locator string) string {
	trimmed := strings.TrimRight(locator, "/")
	if i := strings.IndexAny(trimmed, "?#"); i >= 0 {
		trimmed = trimmed[:i]
	}
	name := path.Base(trimmed)
	if name == "." || name == "/" || name == "" {
		return locator
	}
	return name
}
