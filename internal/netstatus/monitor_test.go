package netstatus

import (
	"context"
	"net/http"
	"net/http/httptest"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"go.uber.org/goleak"

	"github.com/Iron-Ham/folio/internal/errors"
	"github.com/Iron-Ham/folio/internal/event"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m,
		goleak.IgnoreTopFunction("net/http.(*persistConn).readLoop"),
		goleak.IgnoreTopFunction("net/http.(*persistConn).writeLoop"),
		goleak.IgnoreTopFunction("internal/poll.runtime_pollWait"),
	)
}

func TestHTTPProber_Reachable(t *testing.T) {
	var (
		mu                   sync.Mutex
		method, cacheControl string
	)
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		mu.Lock()
		method = r.Method
		cacheControl = r.Header.Get("Cache-Control")
		mu.Unlock()
		w.WriteHeader(http.StatusServiceUnavailable) // any response proves reachability
	}))
	defer srv.Close()

	p := NewHTTPProber(srv.URL, time.Second, srv.Client())
	if err := p.Probe(context.Background()); err != nil {
		t.Fatalf("Probe() error = %v", err)
	}
	mu.Lock()
	defer mu.Unlock()
	if method != http.MethodHead {
		t.Errorf("method = %s, want HEAD", method)
	}
	if cacheControl != "no-cache" {
		t.Errorf("Cache-Control = %q, want no-cache", cacheControl)
	}
}

func TestHTTPProber_Timeout(t *testing.T) {
	release := make(chan struct{})
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-r.Context().Done():
		case <-release:
		}
	}))
	defer srv.Close()
	defer close(release)

	p := NewHTTPProber(srv.URL, 50*time.Millisecond, srv.Client())
	err := p.Probe(context.Background())
	if !errors.Is(err, errors.ErrTimeout) {
		t.Errorf("Probe() error = %v, want a timeout", err)
	}
	if !errors.Is(err, errors.ErrOffline) {
		t.Errorf("Probe() error = %v, want ErrOffline", err)
	}
}

func TestHTTPProber_Unreachable(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	url := srv.URL
	srv.Close()

	err := NewHTTPProber(url, time.Second, nil).Probe(context.Background())
	if !errors.Is(err, errors.ErrOffline) {
		t.Errorf("Probe() error = %v, want ErrOffline", err)
	}
}

func TestHTTPProber_BadURL(t *testing.T) {
	if err := NewHTTPProber("://nope", 0, nil).Probe(context.Background()); err == nil {
		t.Error("Probe() with a malformed URL should fail")
	}
}

func TestMonitor_ReportFlips(t *testing.T) {
	bus := event.NewBus()
	var events []event.NetworkChangeEvent
	bus.Subscribe(event.TypeNetworkChanged, func(e event.Event) {
		events = append(events, e.(event.NetworkChangeEvent))
	})

	m := NewMonitor(nil, WithBus(bus))
	if !m.Online() {
		t.Fatal("a new monitor should assume online")
	}

	m.Report(true) // no flip
	s := m.Report(false)
	if s.Online || !s.WasOffline {
		t.Errorf("after offline report: %+v", s)
	}
	m.Report(false) // no flip
	s = m.Report(true)
	if !s.Online || s.WasOffline {
		t.Errorf("after recovery: %+v", s)
	}

	if len(events) != 2 {
		t.Fatalf("got %d events, want 2 flips", len(events))
	}
	if events[0].Online || events[0].Error == "" {
		t.Errorf("offline event = %+v", events[0])
	}
	if !events[1].Online {
		t.Errorf("online event = %+v", events[1])
	}
}

func TestMonitor_Check(t *testing.T) {
	var fail atomic.Bool
	m := NewMonitor(ProberFunc(func(ctx context.Context) error {
		if fail.Load() {
			return errors.ErrOffline
		}
		return nil
	}))
	fixed := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	m.now = func() time.Time { return fixed }

	fail.Store(true)
	s := m.Check(context.Background())
	if s.Online {
		t.Error("failed probe should mark offline")
	}
	if !s.CheckedAt.Equal(fixed) {
		t.Errorf("CheckedAt = %v", s.CheckedAt)
	}

	fail.Store(false)
	if s := m.Check(context.Background()); !s.Online {
		t.Error("successful probe should mark online")
	}
}

func TestMonitor_CancelledCheckKeepsState(t *testing.T) {
	m := NewMonitor(ProberFunc(func(ctx context.Context) error {
		<-ctx.Done()
		return ctx.Err()
	}))

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if s := m.Check(ctx); !s.Online {
		t.Error("a cancelled probe must not mark the network offline")
	}
}

func TestMonitor_Run(t *testing.T) {
	var mu sync.Mutex
	probes := 0
	m := NewMonitor(ProberFunc(func(ctx context.Context) error {
		mu.Lock()
		defer mu.Unlock()
		probes++
		return nil
	}), WithInterval(5*time.Millisecond))

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		defer close(done)
		m.Run(ctx)
	}()

	deadline := time.After(2 * time.Second)
	for {
		mu.Lock()
		n := probes
		mu.Unlock()
		if n >= 3 {
			break
		}
		select {
		case <-deadline:
			t.Fatalf("only %d probes ran", n)
		case <-time.After(5 * time.Millisecond):
		}
	}

	cancel()
	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("Run did not return after cancel")
	}
}
