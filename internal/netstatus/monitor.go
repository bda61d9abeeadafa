// Package netstatus watches whether the site origin is reachable.
//
// A [Monitor] combines external online/offline reports with a periodic
// reachability probe and announces every flip on the event bus. The TUI
// shows a full-screen notice while offline once the splash is done and
// retries with an immediate [Monitor.Check].
package netstatus

import (
	"context"
	"net/http"
	"sync"
	"time"

	"github.com/Iron-Ham/folio/internal/errors"
	"github.com/Iron-Ham/folio/internal/event"
	"github.com/Iron-Ham/folio/internal/logging"
)

const (
	// DefaultInterval is the time between background probes.
	DefaultInterval = 10 * time.Second
	// DefaultProbeTimeout bounds a single probe.
	DefaultProbeTimeout = 3 * time.Second
)

// Prober checks reachability. A nil error means reachable.
type Prober interface {
	Probe(ctx context.Context) error
}

// ProberFunc adapts a function to Prober.
type ProberFunc func(ctx context.Context) error

// Probe calls f(ctx).
func (f ProberFunc) Probe(ctx context.Context) error {
	return f(ctx)
}

// HTTPProber issues an uncached HEAD request to a URL. Any HTTP response,
// whatever its status, proves the network is up.
type HTTPProber struct {
	client  *http.Client
	url     string
	timeout time.Duration
}

// NewHTTPProber creates a prober for url. A nil client uses
// http.DefaultClient; a non-positive timeout uses DefaultProbeTimeout.
func NewHTTPProber(url string, timeout time.Duration, client *http.Client) *HTTPProber {
	if client == nil {
		client = http.DefaultClient
	}
	if timeout <= 0 {
		timeout = DefaultProbeTimeout
	}
	return &HTTPProber{client: client, url: url, timeout: timeout}
}

// Probe implements Prober.
func (p *HTTPProber) Probe(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, p.timeout)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodHead, p.url, nil)
	if err != nil {
		return errors.Wrapf(err, "build probe for %s", p.url)
	}
	req.Header.Set("Cache-Control", "no-cache")
	req.Header.Set("Pragma", "no-cache")

	resp, err := p.client.Do(req)
	if err != nil {
		if ctx.Err() == context.DeadlineExceeded {
			return errors.NewTimeoutError("reachability probe", p.timeout).WithCause(errors.ErrOffline)
		}
		return errors.Join(errors.ErrOffline, err)
	}
	_ = resp.Body.Close()
	return nil
}

// State is the current connectivity picture.
type State struct {
	Online     bool
	WasOffline bool // Went offline at least once since the last recovery
	LastError  string
	CheckedAt  time.Time
}

// Monitor tracks connectivity. It is safe for concurrent use.
type Monitor struct {
	prober   Prober
	interval time.Duration
	bus      *event.Bus
	logger   *logging.Logger
	now      func() time.Time

	mu    sync.Mutex
	state State
}

// Option configures a Monitor.
type Option func(*Monitor)

// WithInterval sets the background probe interval.
func WithInterval(d time.Duration) Option {
	return func(m *Monitor) {
		if d > 0 {
			m.interval = d
		}
	}
}

// WithBus publishes a NetworkChangeEvent on every flip.
func WithBus(b *event.Bus) Option {
	return func(m *Monitor) {
		m.bus = b
	}
}

// WithLogger sets the logger.
func WithLogger(l *logging.Logger) Option {
	return func(m *Monitor) {
		if l != nil {
			m.logger = l
		}
	}
}

// NewMonitor creates a monitor that assumes it starts online.
func NewMonitor(prober Prober, opts ...Option) *Monitor {
	m := &Monitor{
		prober:   prober,
		interval: DefaultInterval,
		logger:   logging.NopLogger(),
		now:      time.Now,
		state:    State{Online: true},
	}
	for _, opt := range opts {
		opt(m)
	}
	m.logger = m.logger.WithComponent("netstatus")
	return m
}

// Run probes every interval until ctx is cancelled.
func (m *Monitor) Run(ctx context.Context) {
	ticker := time.NewTicker(m.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			m.Check(ctx)
		}
	}
}

// Check probes now and returns the resulting state. Without a prober the
// state is left unchanged.
func (m *Monitor) Check(ctx context.Context) State {
	if m.prober == nil {
		return m.State()
	}
	err := m.prober.Probe(ctx)
	if err != nil && ctx.Err() != nil {
		// The caller went away; that says nothing about the network.
		return m.State()
	}
	return m.set(err == nil, err)
}

// Report records an external online/offline signal.
func (m *Monitor) Report(online bool) State {
	var err error
	if !online {
		err = errors.ErrOffline
	}
	return m.set(online, err)
}

// State returns the current state.
func (m *Monitor) State() State {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.state
}

// Online reports whether the origin was reachable at the last check.
func (m *Monitor) Online() bool {
	return m.State().Online
}

func (m *Monitor) set(online bool, cause error) State {
	m.mu.Lock()
	prev := m.state.Online
	m.state.Online = online
	m.state.CheckedAt = m.now()
	m.state.LastError = ""
	if cause != nil {
		m.state.LastError = cause.Error()
	}
	if !online {
		m.state.WasOffline = true
	} else if !prev {
		m.state.WasOffline = false
	}
	s := m.state
	m.mu.Unlock()

	if prev == online {
		return s
	}
	if online {
		m.logger.Info("network back online")
	} else {
		m.logger.Warn("network offline", "error", s.LastError)
	}
	if m.bus != nil {
		m.bus.Publish(event.NewNetworkChangeEvent(online, s.LastError))
	}
	return s
}
