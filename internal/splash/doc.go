// Package splash drives the folio loading screen.
//
// A [Controller] turns elapsed time and the preloader's critical-path flag
// into a smoothed percentage and a forward-only phase:
//
//	loading ──(100%, min elapsed, critical path complete)──▶ reveal ──(reveal elapsed)──▶ done
//	   └────────────────(hard ceiling elapsed)─────────────────┘
//
// The controller owns no timers. Callers pass the current time to
// [Controller.Advance] and ask [Controller.NextDeadline] when to call it
// again, so the same state machine runs under the bubbletea tick loop, the
// headless warmup driver and tests with a synthetic clock.
//
// Routes on the skip list construct the controller already done with the
// percentage pinned at 100.
package splash
