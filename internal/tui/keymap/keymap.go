// Package keymap defines the TUI key bindings with bubbles/key. Bindings
// are grouped by mode so the help bar only shows what works right now.
package keymap

import "github.com/charmbracelet/bubbles/key"

// Mode represents what the TUI is currently showing.
type Mode string

const (
	ModeSplash  Mode = "splash"  // Loader is on screen
	ModeBrowse  Mode = "browse"  // Page content is on screen
	ModeOffline Mode = "offline" // Connectivity notice covers the page
)

// KeyMap holds every binding. It implements help.KeyMap for browse mode.
type KeyMap struct {
	// Scrolling
	Up       key.Binding
	Down     key.Binding
	PageUp   key.Binding
	PageDown key.Binding
	Top      key.Binding
	Bottom   key.Binding

	// Sections and routes
	NextSection key.Binding
	PrevSection key.Binding
	Project     key.Binding
	Back        key.Binding
	Home        key.Binding
	Privacy     key.Binding
	Terms       key.Binding
	Sitemap     key.Binding

	// Splash and connectivity
	Skip  key.Binding
	Retry key.Binding

	Help key.Binding
	Quit key.Binding
}

// Default returns the default bindings.
func Default() KeyMap {
	return KeyMap{
		Up: key.NewBinding(
			key.WithKeys("up", "k"),
			key.WithHelp("↑/k", "scroll up"),
		),
		Down: key.NewBinding(
			key.WithKeys("down", "j"),
			key.WithHelp("↓/j", "scroll down"),
		),
		PageUp: key.NewBinding(
			key.WithKeys("pgup", "ctrl+b", "ctrl+u"),
			key.WithHelp("pgup", "page up"),
		),
		PageDown: key.NewBinding(
			key.WithKeys("pgdown", "ctrl+f", "ctrl+d", " "),
			key.WithHelp("pgdn", "page down"),
		),
		Top: key.NewBinding(
			key.WithKeys("g", "home"),
			key.WithHelp("g", "top"),
		),
		Bottom: key.NewBinding(
			key.WithKeys("G", "end"),
			key.WithHelp("G", "bottom"),
		),

		NextSection: key.NewBinding(
			key.WithKeys("tab", "l", "right"),
			key.WithHelp("tab", "next section"),
		),
		PrevSection: key.NewBinding(
			key.WithKeys("shift+tab", "h", "left"),
			key.WithHelp("shift+tab", "prev section"),
		),
		Project: key.NewBinding(
			key.WithKeys("1", "2", "3", "4", "5", "6", "7", "8", "9"),
			key.WithHelp("1-9", "open project"),
		),
		Back: key.NewBinding(
			key.WithKeys("esc", "backspace"),
			key.WithHelp("esc", "back"),
		),
		Home: key.NewBinding(
			key.WithKeys("H"),
			key.WithHelp("H", "home"),
		),
		Privacy: key.NewBinding(
			key.WithKeys("p"),
			key.WithHelp("p", "privacy"),
		),
		Terms: key.NewBinding(
			key.WithKeys("t"),
			key.WithHelp("t", "terms"),
		),
		Sitemap: key.NewBinding(
			key.WithKeys("s"),
			key.WithHelp("s", "sitemap"),
		),

		Skip: key.NewBinding(
			key.WithKeys(" ", "enter", "esc"),
			key.WithHelp("space", "skip intro"),
		),
		Retry: key.NewBinding(
			key.WithKeys("r"),
			key.WithHelp("r", "retry"),
		),

		Help: key.NewBinding(
			key.WithKeys("?"),
			key.WithHelp("?", "help"),
		),
		Quit: key.NewBinding(
			key.WithKeys("q", "ctrl+c"),
			key.WithHelp("q", "quit"),
		),
	}
}

// ShortHelp implements help.KeyMap.
func (k KeyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.NextSection, k.Project, k.Back, k.Help, k.Quit}
}

// FullHelp implements help.KeyMap.
func (k KeyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.Up, k.Down, k.PageUp, k.PageDown, k.Top, k.Bottom},
		{k.NextSection, k.PrevSection, k.Project, k.Back},
		{k.Home, k.Privacy, k.Terms, k.Sitemap},
		{k.Help, k.Quit},
	}
}

// ForMode returns the bindings shown in the help bar for mode.
func (k KeyMap) ForMode(mode Mode) []key.Binding {
	switch mode {
	case ModeSplash:
		return []key.Binding{k.Skip, k.Quit}
	case ModeOffline:
		return []key.Binding{k.Retry, k.Quit}
	default:
		return k.ShortHelp()
	}
}

// ProjectIndex returns the zero-based project index for a digit key, or -1.
func ProjectIndex(keyStr string) int {
	if len(keyStr) != 1 || keyStr[0] < '1' || keyStr[0] > '9' {
		return -1
	}
	return int(keyStr[0] - '1')
}
