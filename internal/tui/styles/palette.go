package styles

import "github.com/charmbracelet/lipgloss"

// ThemeName represents a named color theme.
type ThemeName string

// Available theme names. They mirror the glamour styles so section bodies
// and chrome agree.
const (
	ThemeDark  ThemeName = "dark"
	ThemeLight ThemeName = "light"
	ThemeNoTTY ThemeName = "notty"
)

// ColorPalette holds the colors used by the splash, navbar and fog.
type ColorPalette struct {
	Primary   lipgloss.Color
	Secondary lipgloss.Color
	Warning   lipgloss.Color
	Error     lipgloss.Color
	Muted     lipgloss.Color
	Surface   lipgloss.Color
	Text      lipgloss.Color
	Border    lipgloss.Color

	// Fog cover
	Fog      lipgloss.Color
	FogLight lipgloss.Color

	// Progress bar gradient ends
	BarStart string
	BarEnd   string
}

// DarkPalette returns the default palette for dark terminals.
func DarkPalette() *ColorPalette {
	return &ColorPalette{
		Primary:   lipgloss.Color("#A78BFA"), // Purple (violet-400)
		Secondary: lipgloss.Color("#10B981"), // Green
		Warning:   lipgloss.Color("#F59E0B"), // Amber
		Error:     lipgloss.Color("#F87171"), // Red (red-400)
		Muted:     lipgloss.Color("#9CA3AF"), // Gray
		Surface:   lipgloss.Color("#1F2937"), // Dark surface
		Text:      lipgloss.Color("#F9FAFB"), // Light text
		Border:    lipgloss.Color("#6B7280"), // Gray-500

		Fog:      lipgloss.Color("#374151"),
		FogLight: lipgloss.Color("#6B7280"),

		BarStart: "#7C3AED",
		BarEnd:   "#10B981",
	}
}

// LightPalette returns a palette for light terminal backgrounds.
func LightPalette() *ColorPalette {
	return &ColorPalette{
		Primary:   lipgloss.Color("#6D28D9"),
		Secondary: lipgloss.Color("#047857"),
		Warning:   lipgloss.Color("#B45309"),
		Error:     lipgloss.Color("#B91C1C"),
		Muted:     lipgloss.Color("#4B5563"),
		Surface:   lipgloss.Color("#E5E7EB"),
		Text:      lipgloss.Color("#111827"),
		Border:    lipgloss.Color("#9CA3AF"),

		Fog:      lipgloss.Color("#D1D5DB"),
		FogLight: lipgloss.Color("#9CA3AF"),

		BarStart: "#6D28D9",
		BarEnd:   "#047857",
	}
}

// GetPalette returns the palette for name. Unknown names, "auto" and
// "notty" get the dark palette; lipgloss drops the colors when the output
// has no color support anyway.
func GetPalette(name ThemeName) *ColorPalette {
	if name == ThemeLight {
		return LightPalette()
	}
	return DarkPalette()
}
