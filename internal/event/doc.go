// Package event provides a pub-sub event bus for decoupled inter-component
// communication in folio.
//
// The boot orchestrator publishes progress, settlement, phase, fog-stage,
// route and network events. The TUI and the metrics recorder subscribe
// without the publishers knowing about either.
//
// # Thread Safety
//
// The [Bus] type is safe for concurrent use. Handlers are called
// synchronously on the publishing goroutine and protected against panics.
// Preloader events are published from load goroutines, so handlers that
// touch UI state must hand the event off (the TUI forwards them through
// tea.Program.Send).
//
// # Basic Usage
//
//	bus := event.NewBus(event.WithLogger(logger))
//
//	id := bus.Subscribe(event.TypePreloadProgress, func(e event.Event) {
//	    p := e.(event.ProgressEvent)
//	    fmt.Println(p.Percent)
//	})
//	defer bus.Unsubscribe(id)
//
// # Event Type Naming Convention
//
// Event types follow the pattern "category.action":
//   - preload.progress, preload.complete, resource.settled
//   - phase.changed, transition.stage
//   - route.changed, network.changed, manifest.reloaded
package event
