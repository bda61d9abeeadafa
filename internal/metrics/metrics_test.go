package metrics

import (
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"

	"github.com/Iron-Ham/folio/internal/event"
)

func TestNilRecorderIsNoop(t *testing.T) {
	var r *Recorder
	r.ResourceSettled("image", true, false, time.Second)
	r.Progress(50)
	r.CriticalPathSettled(time.Second)
	r.RegistrationRejected()
	r.TransitionRejected()
	if r.Registry() != nil {
		t.Error("nil recorder should have no registry")
	}
	if ids := r.Attach(event.NewBus()); ids != nil {
		t.Errorf("Attach on nil recorder = %v, want nil", ids)
	}
}

func TestResourceSettled(t *testing.T) {
	r := NewRecorder()

	r.ResourceSettled("image", true, false, 20*time.Millisecond)
	r.ResourceSettled("image", true, true, 10*time.Second)
	r.ResourceSettled("module", false, false, time.Millisecond)

	if got := testutil.ToFloat64(r.resources.WithLabelValues("image", "true", "loaded")); got != 1 {
		t.Errorf("loaded image count = %v, want 1", got)
	}
	if got := testutil.ToFloat64(r.resources.WithLabelValues("image", "true", "failed")); got != 1 {
		t.Errorf("failed image count = %v, want 1", got)
	}
	if got := testutil.CollectAndCount(r.resourceDuration); got != 2 {
		t.Errorf("duration series = %d, want 2 (image, module)", got)
	}
}

func TestGauges(t *testing.T) {
	r := NewRecorder()
	r.Progress(67)
	r.CriticalPathSettled(1500 * time.Millisecond)

	if got := testutil.ToFloat64(r.progress); got != 67 {
		t.Errorf("progress = %v, want 67", got)
	}
	if got := testutil.ToFloat64(r.criticalPath); got != 1.5 {
		t.Errorf("critical path = %v, want 1.5", got)
	}
}

func TestAttach(t *testing.T) {
	r := NewRecorder()
	bus := event.NewBus()

	ids := r.Attach(bus)
	if len(ids) != 4 {
		t.Fatalf("Attach returned %d ids, want 4", len(ids))
	}

	bus.Publish(event.NewPhaseChangeEvent("loading", "reveal", 100))
	bus.Publish(event.NewTransitionStageEvent("t", "idle", "enter"))
	bus.Publish(event.NewTransitionStageEvent("t", "enter", "full"))
	bus.Publish(event.NewRouteChangeEvent("/", "/projects/folio", ""))
	bus.Publish(event.NewNetworkChangeEvent(true, ""))

	if got := testutil.ToFloat64(r.phases.WithLabelValues("reveal")); got != 1 {
		t.Errorf("reveal entries = %v, want 1", got)
	}
	if got := testutil.ToFloat64(r.stages.WithLabelValues("full")); got != 1 {
		t.Errorf("full entries = %v, want 1", got)
	}
	if got := testutil.ToFloat64(r.routes.WithLabelValues("/projects/folio")); got != 1 {
		t.Errorf("route count = %v, want 1", got)
	}
	if got := testutil.ToFloat64(r.online); got != 1 {
		t.Errorf("online = %v, want 1", got)
	}

	bus.Publish(event.NewNetworkChangeEvent(false, "timeout"))
	if got := testutil.ToFloat64(r.online); got != 0 {
		t.Errorf("online after offline event = %v, want 0", got)
	}

	for _, id := range ids {
		bus.Unsubscribe(id)
	}
	if bus.SubscriptionCount() != 0 {
		t.Errorf("subscriptions left after unsubscribe: %d", bus.SubscriptionCount())
	}
}
