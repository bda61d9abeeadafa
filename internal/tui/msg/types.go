package msg

import (
	"time"

	tea "github.com/charmbracelet/bubbletea"
)

// FrameMsg drives the splash controller.
type FrameMsg struct {
	Gen int
	At  time.Time
}

// FogMsg drives the transition coordinator.
type FogMsg struct {
	Gen int
	At  time.Time
}

// ProgressMsg reports preloader progress.
type ProgressMsg struct {
	Percent int
	Loaded  int
	Total   int
}

// NetworkMsg reports the connectivity state.
type NetworkMsg struct {
	Online bool
	Cause  string // Why the last probe failed; empty when online
}

// ManifestMsg signals that the site manifest was reloaded.
type ManifestMsg struct {
	Path     string
	Added    int
	Rejected int
}

// ErrMsg wraps an error to be displayed in the UI.
type ErrMsg struct {
	Err error
}

// Frame schedules a FrameMsg after d.
func Frame(gen int, d time.Duration) tea.Cmd {
	return tea.Tick(max(d, 0), func(t time.Time) tea.Msg {
		return FrameMsg{Gen: gen, At: t}
	})
}

// Fog schedules a FogMsg after d.
func Fog(gen int, d time.Duration) tea.Cmd {
	return tea.Tick(max(d, 0), func(t time.Time) tea.Msg {
		return FogMsg{Gen: gen, At: t}
	})
}
