// Package boot composes the folio runtime.
//
// [Build] wires the event bus, metrics, preloader, router, fog coordinator,
// connectivity monitor and section renderer from a validated config and a
// site manifest. Nothing is global: every front end (the TUI, the headless
// warmup) gets its own [Env].
package boot

import (
	"context"
	"strings"
	"sync"

	"golang.org/x/sync/errgroup"

	"github.com/Iron-Ham/folio/internal/config"
	"github.com/Iron-Ham/folio/internal/errors"
	"github.com/Iron-Ham/folio/internal/event"
	"github.com/Iron-Ham/folio/internal/logging"
	"github.com/Iron-Ham/folio/internal/metrics"
	"github.com/Iron-Ham/folio/internal/nav"
	"github.com/Iron-Ham/folio/internal/netstatus"
	"github.com/Iron-Ham/folio/internal/preload"
	"github.com/Iron-Ham/folio/internal/site"
	"github.com/Iron-Ham/folio/internal/splash"
	"github.com/Iron-Ham/folio/internal/transition"
)

// TerminalSignal is the name of the preload signal that settles once the
// terminal has reported its size.
const TerminalSignal = "terminal"

// Env is the composed runtime of one folio session.
type Env struct {
	Config     *config.Config
	Logger     *logging.Logger
	Bus        *event.Bus
	Metrics    *metrics.Recorder
	Preloader  *preload.Preloader
	Router     *nav.Router
	Transition *transition.Coordinator
	Monitor    *netstatus.Monitor
	Renderer   *site.Renderer

	mu       sync.Mutex
	manifest *site.Manifest

	ready     chan struct{}
	readyOnce sync.Once
	metricIDs []string
	probing   bool
}

type buildOptions struct {
	fetcher preload.Fetcher
	prober  netstatus.Prober
	route   string
}

// BuildOption customizes Build.
type BuildOption func(*buildOptions)

// WithFetcher replaces the HTTP asset fetcher.
func WithFetcher(f preload.Fetcher) BuildOption {
	return func(o *buildOptions) {
		o.fetcher = f
	}
}

// WithProber replaces the HTTP reachability prober.
func WithProber(p netstatus.Prober) BuildOption {
	return func(o *buildOptions) {
		o.prober = p
	}
}

// WithInitialRoute sets the route the session starts on (default "/").
func WithInitialRoute(route string) BuildOption {
	return func(o *buildOptions) {
		o.route = route
	}
}

// Build composes an Env and registers the manifest's assets, its section
// modules and the terminal-ready signal with the preloader. A nil manifest
// uses the compiled-in default.
func Build(cfg *config.Config, manifest *site.Manifest, logger *logging.Logger, opts ...BuildOption) (*Env, error) {
	if cfg == nil {
		cfg = config.Default()
	}
	if manifest == nil {
		manifest = site.Default()
	}
	if logger == nil {
		logger = logging.NopLogger()
	}
	o := buildOptions{route: nav.RouteHome}
	for _, opt := range opts {
		opt(&o)
	}

	bus := event.NewBus(event.WithLogger(logger))
	rec := metrics.NewRecorder()

	fetcher := o.fetcher
	if fetcher == nil {
		fetcher = preload.NewHTTPFetcher(nil, cfg.Preload.UserAgent)
	}

	env := &Env{
		Config:   cfg,
		Logger:   logger,
		Bus:      bus,
		Metrics:  rec,
		manifest: manifest,
		ready:    make(chan struct{}),
	}
	env.metricIDs = rec.Attach(bus)

	prober := o.prober
	if prober == nil {
		if url := cfg.ResolveProbeURL(); url != "" {
			prober = netstatus.NewHTTPProber(url, cfg.Network.Timeout(), nil)
		}
	}
	env.probing = prober != nil
	env.Monitor = netstatus.NewMonitor(prober,
		netstatus.WithInterval(cfg.Network.Interval()),
		netstatus.WithBus(bus),
		netstatus.WithLogger(logger),
	)

	env.Preloader = preload.New(
		preload.WithFetcher(reachabilityFetcher(fetcher, env.Monitor)),
		preload.WithBatchSize(cfg.Preload.BatchSize),
		preload.WithTimeout(cfg.Preload.Timeout()),
		preload.WithLogger(logger),
		preload.WithMetrics(rec),
		preload.WithBus(bus),
	)

	skip := append(append([]string(nil), cfg.Splash.SkipRoutes...), manifest.SkipRoutes...)
	env.Router = nav.NewRouter(o.route,
		nav.WithSkipRoutes(skip),
		nav.WithBus(bus),
		nav.WithLogger(logger),
	)

	env.Transition = transition.New(transition.Timing{
		Enter:    cfg.Transition.Enter(),
		Navigate: cfg.Transition.Navigate(),
		Hold:     cfg.Transition.Hold(),
		Exit:     cfg.Transition.Exit(),
	},
		transition.WithLogger(logger),
		transition.WithBus(bus),
		transition.WithMetrics(rec),
	)

	env.Renderer = site.NewRenderer(manifest, cfg.Site.Style, site.DefaultWidth)

	if err := env.registerAll(); err != nil {
		return nil, err
	}
	return env, nil
}

// reachabilityFetcher reports the network as back online whenever a remote
// fetch gets any answer while the monitor thinks it is offline. Transport
// failures are left to the prober.
func reachabilityFetcher(f preload.Fetcher, monitor *netstatus.Monitor) preload.Fetcher {
	return preload.FetcherFunc(func(ctx context.Context, locator string, kind preload.Kind) error {
		err := f.Fetch(ctx, locator, kind)
		if !isRemote(locator) || ctx.Err() != nil || errors.Is(err, errors.ErrOffline) {
			return err
		}
		if !monitor.Online() {
			monitor.Report(true)
		}
		return err
	})
}

func isRemote(locator string) bool {
	return strings.HasPrefix(locator, "http://") || strings.HasPrefix(locator, "https://")
}

func (e *Env) registerAll() error {
	m := e.Manifest()
	if _, _, err := site.RegisterAssets(e.Preloader, nil, m, e.Config.Site.Origin); err != nil {
		return errors.Wrap(err, "register assets")
	}
	for _, s := range m.Sections {
		if err := e.Preloader.RegisterModule(e.Renderer.Module(s.ID), s.ID, s.Critical); err != nil {
			return errors.Wrapf(err, "register section %s", s.ID)
		}
	}
	if err := e.Preloader.RegisterSignal(TerminalSignal, e.ready, true); err != nil {
		return errors.Wrap(err, "register terminal signal")
	}
	return nil
}

// Manifest returns the current manifest.
func (e *Env) Manifest() *site.Manifest {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.manifest
}

// SignalTerminalReady settles the terminal signal. Safe to call repeatedly.
func (e *Env) SignalTerminalReady() {
	e.readyOnce.Do(func() { close(e.ready) })
}

// NewSplash returns a splash controller for route. Skip-list routes get a
// controller that is already done.
func (e *Env) NewSplash(route string) *splash.Controller {
	c := e.Config.Splash
	return splash.NewController(splash.Timing{
		Target: c.Target(),
		Min:    c.Min(),
		Max:    c.Max(),
		Reveal: c.Reveal(),
		Frame:  c.Frame(),
	}, e.Router.SkipsLoader(route),
		splash.WithLogger(e.Logger),
		splash.WithBus(e.Bus),
	)
}

// ApplyManifest swaps in a reloaded manifest. Assets it adds are registered
// late with the preloader; once the critical path has completed they are
// rejected and only counted.
func (e *Env) ApplyManifest(next *site.Manifest) (added, rejected int) {
	e.mu.Lock()
	prev := e.manifest
	e.manifest = next
	e.mu.Unlock()

	added, rejected, err := site.RegisterAssets(e.Preloader, prev, next, e.Config.Site.Origin)
	if err != nil {
		e.Logger.Warn("late asset registration failed", "error", err)
	}
	e.Renderer.SetManifest(next)
	e.Bus.Publish(event.NewManifestReloadedEvent(next.Path, added, rejected))
	return added, rejected
}

// Health is the /healthz payload.
type Health struct {
	Status   string         `json:"status"`
	Route    string         `json:"route"`
	Online   bool           `json:"online"`
	Preload  preload.Status `json:"preload"`
	Fog      string         `json:"fog"`
	Sections int            `json:"sections"`
}

// Health returns a snapshot of the session.
func (e *Env) Health() Health {
	return Health{
		Status:   "ok",
		Route:    e.Router.Current(),
		Online:   e.Monitor.Online(),
		Preload:  e.Preloader.Status(),
		Fog:      e.Transition.Stage().String(),
		Sections: len(e.Manifest().Sections),
	}
}

// RunServices runs the background services the config enables (metrics
// endpoint, reachability probes, manifest watch) until ctx is done.
func (e *Env) RunServices(ctx context.Context) error {
	g, ctx := errgroup.WithContext(ctx)

	if e.Config.Metrics.Enabled {
		srv, err := metrics.Listen(e.Config.Metrics.Addr,
			metrics.NewRouter(e.Metrics, func() any { return e.Health() }),
			e.Logger)
		if err != nil {
			return errors.Wrapf(err, "listen on %s", e.Config.Metrics.Addr)
		}
		g.Go(func() error { return srv.Serve(ctx) })
	}

	if e.Config.Network.Enabled && e.probing {
		g.Go(func() error {
			e.Monitor.Run(ctx)
			return nil
		})
	}

	if e.Config.Site.Watch && e.Config.Site.Manifest != "" {
		g.Go(func() error {
			return site.Watch(ctx, e.Config.Site.Manifest, e.Logger, func(m *site.Manifest) {
				e.ApplyManifest(m)
			})
		})
	}

	return g.Wait()
}

// Close detaches the metrics recorder from the bus.
func (e *Env) Close() {
	for _, id := range e.metricIDs {
		e.Bus.Unsubscribe(id)
	}
	e.metricIDs = nil
}
