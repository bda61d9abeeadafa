// Package preload tracks the loading of assets and code modules that gate
// the folio splash screen.
//
// A [Preloader] owns an ordered registry of tracked resources. Each resource
// settles exactly once, either loaded or failed. Failures are never retried
// and count as settled: a broken asset must not keep the site from becoming
// interactive.
//
// # Critical Path
//
// [Preloader.Start] loads critical assets, then critical modules, in batches
// of [DefaultBatchSize]; each batch settles fully before the next begins.
// The preloader reports complete the instant the last critical resource
// settles. Non-critical work then runs in background batches and never
// affects completion.
//
// Registration stays open after Start so late resources (such as the
// terminal-ready signal) can still join the critical path. Once complete,
// the registry is closed and further registrations return
// [errors.ErrRegistryClosed].
//
// # Progress
//
// Progress is round(min(100, loaded/total*100)), or 100 when nothing is
// registered. Observers are notified after every settlement, serially and in
// subscription order. A panicking observer is recovered and logged.
package preload
