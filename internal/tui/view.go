package tui

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"

	"github.com/Iron-Ham/folio/internal/errors"
	"github.com/Iron-Ham/folio/internal/nav"
	"github.com/Iron-Ham/folio/internal/splash"
	"github.com/Iron-Ham/folio/internal/transition"
	"github.com/Iron-Ham/folio/internal/tui/keymap"
)

// View renders the model.
func (m Model) View() string {
	if !m.sized {
		return ""
	}
	switch m.Mode() {
	case keymap.ModeSplash:
		return m.splashView()
	case keymap.ModeOffline:
		return m.offlineView()
	}

	body := lipgloss.JoinVertical(lipgloss.Left,
		m.navbarView(),
		m.styles.ContentViewport.Render(m.vp.View()),
		m.statusView(),
		m.helpView(),
	)
	return m.fogOver(body)
}

func (m Model) splashView() string {
	owner := m.env.Manifest().Owner
	snap := m.splash.Snapshot()

	percent := float64(snap.Progress) / 100
	status := m.env.Preloader.Status()

	var caption string
	switch snap.Phase {
	case splash.PhaseReveal:
		caption = m.styles.SplashSubtitle.Render(owner.Tagline)
	default:
		caption = m.styles.Muted.Render(fmt.Sprintf("loading %d/%d", status.Loaded, status.Total))
	}

	block := lipgloss.JoinVertical(lipgloss.Center,
		m.styles.SplashTitle.Render(owner.Name),
		lipgloss.JoinHorizontal(lipgloss.Center,
			m.spinner.View(), " ",
			m.bar.ViewAs(percent), " ",
			m.styles.Percent.Render(fmt.Sprintf("%3d%%", snap.Progress)),
		),
		"",
		caption,
	)
	return lipgloss.Place(m.width, m.height, lipgloss.Center, lipgloss.Center, block)
}

func (m Model) offlineView() string {
	box := m.styles.OfflineBox.Render(lipgloss.JoinVertical(lipgloss.Center,
		m.styles.OfflineTitle.Render("You're offline"),
		"The portfolio will come back when the network does.",
		m.styles.Muted.Render(m.offline),
		"",
		m.help.ShortHelpView(m.keys.ForMode(keymap.ModeOffline)),
	))
	return lipgloss.Place(m.width, m.height, lipgloss.Center, lipgloss.Center, box)
}

func (m Model) navbarView() string {
	owner := m.env.Manifest().Owner
	active := m.ActiveSection()

	items := []string{m.styles.NavOwner.Render(owner.Name)}
	for _, s := range m.env.Manifest().Sections {
		if s.Nav == "" {
			continue
		}
		style := m.styles.NavItem
		if s.ID == active {
			style = m.styles.NavItemActive
		}
		items = append(items, style.Render(s.Nav))
	}
	if m.page.route != nav.RouteHome {
		items = append(items, m.styles.NavRouteCrumb.Render(" "+m.page.route))
	}
	return m.styles.Navbar.Width(m.width).Render(lipgloss.JoinHorizontal(lipgloss.Top, items...))
}

func (m Model) statusView() string {
	left := m.page.route
	switch {
	case m.err != nil && errors.IsUserFacing(m.err):
		left = m.styles.ErrorMsg.Render(m.err.Error())
	case m.err != nil:
		left = m.styles.ErrorMsg.Render("something went wrong; details are in the log")
	case m.notice != "":
		left = m.styles.SuccessMsg.Render(m.notice)
	}
	right := fmt.Sprintf("%3.0f%%", m.vp.ScrollPercent()*100)
	gap := max(m.width-lipgloss.Width(left)-lipgloss.Width(right)-2, 1)
	return m.styles.StatusBar.Width(m.width).Render(left + strings.Repeat(" ", gap) + right)
}

func (m Model) helpView() string {
	if m.help.ShowAll {
		return m.help.View(m.keys)
	}
	return m.help.ShortHelpView(m.keys.ForMode(keymap.ModeBrowse))
}

// FogCoverage returns the fraction of the screen the fog covers at now.
func (m Model) FogCoverage(now time.Time) float64 {
	t := m.env.Transition
	remaining := t.Deadline().Sub(now)
	frac := func(total time.Duration) float64 {
		if total <= 0 {
			return 0
		}
		return min(max(float64(remaining)/float64(total), 0), 1)
	}

	switch t.Stage() {
	case transition.StageEnter:
		return 1 - frac(m.env.Config.Transition.Enter())
	case transition.StageFull:
		return 1
	case transition.StageExit:
		return frac(m.env.Config.Transition.Exit())
	default:
		return 0
	}
}

// fogOver rolls the fog up from the bottom of body.
func (m Model) fogOver(body string) string {
	coverage := m.FogCoverage(m.now())
	if coverage <= 0 {
		return body
	}

	lines := strings.Split(body, "\n")
	covered := int(float64(len(lines))*coverage + 0.5)
	if covered == 0 {
		return body
	}
	width := max(m.width, 1)
	dense := m.styles.FogDense.Render(strings.Repeat("▓", width))
	edge := m.styles.FogEdge.Render(strings.Repeat("░", width))

	first := len(lines) - covered
	for i := first; i < len(lines); i++ {
		if i == first && covered < len(lines) {
			lines[i] = edge
			continue
		}
		lines[i] = dense
	}
	return strings.Join(lines, "\n")
}
