// Package nav tracks the current folio route and the section layout of
// the home page.
//
// [Router] is an explicit navigation history. Route changes are announced
// to subscribers and on the event bus; nothing needs to watch a global for
// changes. A navigation may carry a one-shot scroll target ("jump to the
// projects section once the fog lifts") that the page consumes exactly once
// with [Router.ConsumeScrollTarget].
//
// [SectionIndex] maps rendered line offsets to section ids so the page can
// highlight the section under the viewport and jump to a section by id.
package nav
