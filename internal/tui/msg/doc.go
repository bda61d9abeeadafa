// Package msg defines the message types used by the TUI's Bubbletea event loop.
//
// Timer messages carry a generation number. A model bumps its generation
// whenever it reschedules, so a tick that was already in flight when the
// schedule changed is recognized as stale and dropped instead of driving
// the state machine twice.
//
// Messages that originate outside the event loop (connectivity flips,
// manifest reloads, preload progress) are forwarded from the event bus by
// the App through [tea.Program.Send].
package msg
