package styles

import "github.com/charmbracelet/lipgloss"

// Styles holds every lipgloss style the TUI renders with, derived from one
// palette.
type Styles struct {
	Palette *ColorPalette

	// Splash
	SplashTitle    lipgloss.Style
	SplashSubtitle lipgloss.Style
	Percent        lipgloss.Style
	Spinner        lipgloss.Style

	// Navbar
	Navbar          lipgloss.Style
	NavItem         lipgloss.Style
	NavItemActive   lipgloss.Style
	NavItemFocused  lipgloss.Style
	NavOwner        lipgloss.Style
	NavRouteCrumb   lipgloss.Style
	ContentViewport lipgloss.Style

	// Fog cover
	FogDense lipgloss.Style
	FogEdge  lipgloss.Style

	// Status / help bar
	StatusBar lipgloss.Style
	HelpBar   lipgloss.Style
	HelpKey   lipgloss.Style
	Muted     lipgloss.Style

	// Notices
	OfflineBox   lipgloss.Style
	OfflineTitle lipgloss.Style
	ErrorMsg     lipgloss.Style
	SuccessMsg   lipgloss.Style
	WarningMsg   lipgloss.Style
}

// New builds the styles for theme name.
func New(name ThemeName) *Styles {
	return NewFromPalette(GetPalette(name))
}

// NewFromPalette builds the styles for p.
func NewFromPalette(p *ColorPalette) *Styles {
	return &Styles{
		Palette: p,

		SplashTitle: lipgloss.NewStyle().
			Bold(true).
			Foreground(p.Primary).
			MarginBottom(1),
		SplashSubtitle: lipgloss.NewStyle().
			Foreground(p.Muted).
			Italic(true),
		Percent: lipgloss.NewStyle().
			Bold(true).
			Foreground(p.Text),
		Spinner: lipgloss.NewStyle().
			Foreground(p.Secondary),

		Navbar: lipgloss.NewStyle().
			BorderStyle(lipgloss.NormalBorder()).
			BorderBottom(true).
			BorderForeground(p.Border),
		NavItem: lipgloss.NewStyle().
			Foreground(p.Muted).
			Padding(0, 1),
		NavItemActive: lipgloss.NewStyle().
			Bold(true).
			Foreground(p.Text).
			Background(p.Primary).
			Padding(0, 1),
		NavItemFocused: lipgloss.NewStyle().
			Foreground(p.Primary).
			Underline(true).
			Padding(0, 1),
		NavOwner: lipgloss.NewStyle().
			Bold(true).
			Foreground(p.Primary).
			PaddingRight(2),
		NavRouteCrumb: lipgloss.NewStyle().
			Foreground(p.Secondary),
		ContentViewport: lipgloss.NewStyle().
			PaddingLeft(1),

		FogDense: lipgloss.NewStyle().
			Foreground(p.Fog),
		FogEdge: lipgloss.NewStyle().
			Foreground(p.FogLight),

		StatusBar: lipgloss.NewStyle().
			Foreground(p.Text).
			Background(p.Surface).
			Padding(0, 1),
		HelpBar: lipgloss.NewStyle().
			Foreground(p.Muted),
		HelpKey: lipgloss.NewStyle().
			Bold(true).
			Foreground(p.Secondary),
		Muted: lipgloss.NewStyle().
			Foreground(p.Muted),

		OfflineBox: lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(p.Warning).
			Padding(1, 4),
		OfflineTitle: lipgloss.NewStyle().
			Bold(true).
			Foreground(p.Warning).
			MarginBottom(1),
		ErrorMsg: lipgloss.NewStyle().
			Foreground(p.Error).
			Bold(true),
		SuccessMsg: lipgloss.NewStyle().
			Foreground(p.Secondary).
			Bold(true),
		WarningMsg: lipgloss.NewStyle().
			Foreground(p.Warning).
			Bold(true),
	}
}
