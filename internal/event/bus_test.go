package event

import (
	"bytes"
	"strings"
	"sync"
	"testing"

	"github.com/Iron-Ham/folio/internal/logging"
)

func TestBus_SubscribeAndPublish(t *testing.T) {
	bus := NewBus()

	var received Event
	id := bus.Subscribe(TypePreloadProgress, func(e Event) {
		received = e
	})
	if id == "" {
		t.Fatal("Subscribe should return a non-empty ID")
	}

	bus.Publish(NewProgressEvent(50, 3, 6))

	p, ok := received.(ProgressEvent)
	if !ok {
		t.Fatalf("received %T, want ProgressEvent", received)
	}
	if p.Percent != 50 || p.Loaded != 3 || p.Total != 6 {
		t.Errorf("unexpected payload: %+v", p)
	}
}

func TestBus_UniqueIDs(t *testing.T) {
	bus := NewBus()
	seen := make(map[string]bool)
	for i := 0; i < 1000; i++ {
		id := bus.Subscribe("x", func(Event) {})
		if seen[id] {
			t.Fatalf("duplicate subscription id %q", id)
		}
		seen[id] = true
	}
}

func TestBus_OrderSpecificBeforeWildcard(t *testing.T) {
	bus := NewBus()

	var order []string
	bus.SubscribeAll(func(Event) { order = append(order, "all") })
	bus.Subscribe(TypeRouteChanged, func(Event) { order = append(order, "first") })
	bus.Subscribe(TypeRouteChanged, func(Event) { order = append(order, "second") })
	bus.Subscribe(TypeNetworkChanged, func(Event) { order = append(order, "other") })

	bus.Publish(NewRouteChangeEvent("/", "/projects/x", ""))

	want := []string{"first", "second", "all"}
	if strings.Join(order, ",") != strings.Join(want, ",") {
		t.Errorf("order = %v, want %v", order, want)
	}
}

func TestBus_Unsubscribe(t *testing.T) {
	bus := NewBus()

	calls := 0
	id := bus.Subscribe(TypePhaseChanged, func(Event) { calls++ })

	if !bus.Unsubscribe(id) {
		t.Error("Unsubscribe should return true for a known id")
	}
	if bus.Unsubscribe(id) {
		t.Error("second Unsubscribe should return false")
	}
	if bus.Unsubscribe("sub-unknown") {
		t.Error("unknown id should return false")
	}

	bus.Publish(NewPhaseChangeEvent("loading", "reveal", 100))
	if calls != 0 {
		t.Errorf("handler called %d times after unsubscribe", calls)
	}
	if bus.SubscriptionCount() != 0 {
		t.Errorf("SubscriptionCount() = %d, want 0", bus.SubscriptionCount())
	}
}

func TestBus_UnsubscribeDuringPublish(t *testing.T) {
	bus := NewBus()

	var id string
	calls := 0
	id = bus.Subscribe(TypePreloadProgress, func(Event) {
		calls++
		bus.Unsubscribe(id)
	})
	bus.Subscribe(TypePreloadProgress, func(Event) { calls++ })

	bus.Publish(NewProgressEvent(10, 1, 10))
	bus.Publish(NewProgressEvent(20, 2, 10))

	if calls != 3 {
		t.Errorf("calls = %d, want 3", calls)
	}
}

func TestBus_PanickingHandlerIsLogged(t *testing.T) {
	var buf bytes.Buffer
	bus := NewBus(WithLogger(logging.NewWriterLogger(&buf, logging.LevelDebug)))

	delivered := false
	bus.Subscribe(TypeNetworkChanged, func(Event) { panic("boom") })
	bus.Subscribe(TypeNetworkChanged, func(Event) { delivered = true })

	bus.Publish(NewNetworkChangeEvent(false, "timeout"))

	if !delivered {
		t.Error("a panicking handler must not block later handlers")
	}
	if !strings.Contains(buf.String(), "event handler panicked") {
		t.Errorf("panic was not logged: %s", buf.String())
	}
}

func TestBus_ConcurrentPublish(t *testing.T) {
	bus := NewBus()

	var mu sync.Mutex
	count := 0
	bus.SubscribeAll(func(Event) {
		mu.Lock()
		count++
		mu.Unlock()
	})

	var wg sync.WaitGroup
	for i := 0; i < 20; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			bus.Publish(NewResourceSettledEvent("r", "image", false, false, 0, ""))
		}(i)
	}
	wg.Wait()

	if count != 20 {
		t.Errorf("count = %d, want 20", count)
	}
}

func TestBus_Clear(t *testing.T) {
	bus := NewBus()
	bus.Subscribe("a", func(Event) {})
	bus.SubscribeAll(func(Event) {})
	bus.Clear()
	if bus.SubscriptionCount() != 0 {
		t.Errorf("SubscriptionCount() = %d after Clear", bus.SubscriptionCount())
	}
}

func TestEventTypes(t *testing.T) {
	tests := []struct {
		event Event
		want  string
	}{
		{NewProgressEvent(0, 0, 0), TypePreloadProgress},
		{NewResourceSettledEvent("", "", false, false, 0, ""), TypeResourceSettled},
		{NewPreloadCompleteEvent(0, 0, 0), TypePreloadComplete},
		{NewPhaseChangeEvent("", "", 0), TypePhaseChanged},
		{NewTransitionStageEvent("", "", ""), TypeTransitionStage},
		{NewRouteChangeEvent("", "", ""), TypeRouteChanged},
		{NewNetworkChangeEvent(true, ""), TypeNetworkChanged},
		{NewManifestReloadedEvent("", 0, 0), TypeManifestReloaded},
	}
	for _, tt := range tests {
		if got := tt.event.EventType(); got != tt.want {
			t.Errorf("EventType() = %q, want %q", got, tt.want)
		}
		if tt.event.Timestamp().IsZero() {
			t.Errorf("%s: zero timestamp", tt.want)
		}
	}
}
