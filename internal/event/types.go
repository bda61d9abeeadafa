// Package event defines event types for decoupling folio components.
package event

import "time"

// Event is the interface that all events must implement.
type Event interface {
	// EventType returns a string identifier for this event type.
	// Convention: "category.action" (e.g., "preload.progress", "route.changed")
	EventType() string

	// Timestamp returns when the event occurred.
	Timestamp() time.Time
}

// Event type identifiers.
const (
	TypePreloadProgress  = "preload.progress"
	TypeResourceSettled  = "resource.settled"
	TypePreloadComplete  = "preload.complete"
	TypePhaseChanged     = "phase.changed"
	TypeTransitionStage  = "transition.stage"
	TypeRouteChanged     = "route.changed"
	TypeNetworkChanged   = "network.changed"
	TypeManifestReloaded = "manifest.reloaded"
)

type baseEvent struct {
	eventType string
	timestamp time.Time
}

func (e baseEvent) EventType() string    { return e.eventType }
func (e baseEvent) Timestamp() time.Time { return e.timestamp }

func newBaseEvent(eventType string) baseEvent {
	return baseEvent{
		eventType: eventType,
		timestamp: time.Now(),
	}
}

// -----------------------------------------------------------------------------
// Preloader Events
// -----------------------------------------------------------------------------

// ProgressEvent is emitted after every resource settlement.
type ProgressEvent struct {
	baseEvent
	Percent int // Rounded aggregate progress, 0-100
	Loaded  int // Settled resources, successful or failed
	Total   int // Registered resources
}

// NewProgressEvent creates a ProgressEvent.
func NewProgressEvent(percent, loaded, total int) ProgressEvent {
	return ProgressEvent{
		baseEvent: newBaseEvent(TypePreloadProgress),
		Percent:   percent,
		Loaded:    loaded,
		Total:     total,
	}
}

// ResourceSettledEvent is emitted when a single tracked resource settles.
type ResourceSettledEvent struct {
	baseEvent
	Name     string
	Kind     string
	Critical bool
	Failed   bool
	Duration time.Duration
	Error    string // Failure reason (if failed)
}

// NewResourceSettledEvent creates a ResourceSettledEvent.
func NewResourceSettledEvent(name, kind string, critical, failed bool, d time.Duration, errMsg string) ResourceSettledEvent {
	return ResourceSettledEvent{
		baseEvent: newBaseEvent(TypeResourceSettled),
		Name:      name,
		Kind:      kind,
		Critical:  critical,
		Failed:    failed,
		Duration:  d,
		Error:     errMsg,
	}
}

// PreloadCompleteEvent is emitted once, when the critical path has settled.
type PreloadCompleteEvent struct {
	baseEvent
	Total   int
	Failed  int
	Elapsed time.Duration
}

// NewPreloadCompleteEvent creates a PreloadCompleteEvent.
func NewPreloadCompleteEvent(total, failed int, elapsed time.Duration) PreloadCompleteEvent {
	return PreloadCompleteEvent{
		baseEvent: newBaseEvent(TypePreloadComplete),
		Total:     total,
		Failed:    failed,
		Elapsed:   elapsed,
	}
}

// -----------------------------------------------------------------------------
// Splash and Transition Events
// -----------------------------------------------------------------------------

// PhaseChangeEvent is emitted when the splash controller changes phase.
type PhaseChangeEvent struct {
	baseEvent
	From     string
	To       string
	Progress int
}

// NewPhaseChangeEvent creates a PhaseChangeEvent.
func NewPhaseChangeEvent(from, to string, progress int) PhaseChangeEvent {
	return PhaseChangeEvent{
		baseEvent: newBaseEvent(TypePhaseChanged),
		From:      from,
		To:        to,
		Progress:  progress,
	}
}

// TransitionStageEvent is emitted on every fog stage change.
type TransitionStageEvent struct {
	baseEvent
	TransitionID string
	From         string
	To           string
}

// NewTransitionStageEvent creates a TransitionStageEvent.
func NewTransitionStageEvent(id, from, to string) TransitionStageEvent {
	return TransitionStageEvent{
		baseEvent:    newBaseEvent(TypeTransitionStage),
		TransitionID: id,
		From:         from,
		To:           to,
	}
}

// -----------------------------------------------------------------------------
// Navigation and Environment Events
// -----------------------------------------------------------------------------

// RouteChangeEvent is emitted by the router after every navigation.
type RouteChangeEvent struct {
	baseEvent
	From     string
	To       string
	ScrollTo string // Section to jump to after the fog lifts, if any
}

// NewRouteChangeEvent creates a RouteChangeEvent.
func NewRouteChangeEvent(from, to, scrollTo string) RouteChangeEvent {
	return RouteChangeEvent{
		baseEvent: newBaseEvent(TypeRouteChanged),
		From:      from,
		To:        to,
		ScrollTo:  scrollTo,
	}
}

// NetworkChangeEvent is emitted when reachability flips.
type NetworkChangeEvent struct {
	baseEvent
	Online bool
	Error  string
}

// NewNetworkChangeEvent creates a NetworkChangeEvent.
func NewNetworkChangeEvent(online bool, errMsg string) NetworkChangeEvent {
	return NetworkChangeEvent{
		baseEvent: newBaseEvent(TypeNetworkChanged),
		Online:    online,
		Error:     errMsg,
	}
}

// ManifestReloadedEvent is emitted when the watched site manifest changes.
type ManifestReloadedEvent struct {
	baseEvent
	Path     string
	Added    int // Assets registered late with the preloader
	Rejected int // Assets refused because the registry had closed
}

// NewManifestReloadedEvent creates a ManifestReloadedEvent.
func NewManifestReloadedEvent(path string, added, rejected int) ManifestReloadedEvent {
	return ManifestReloadedEvent{
		baseEvent: newBaseEvent(TypeManifestReloaded),
		Path:      path,
		Added:     added,
		Rejected:  rejected,
	}
}
