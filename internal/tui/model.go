package tui

import (
	"context"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/progress"
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/Iron-Ham/folio/internal/boot"
	"github.com/Iron-Ham/folio/internal/errors"
	"github.com/Iron-Ham/folio/internal/nav"
	"github.com/Iron-Ham/folio/internal/splash"
	"github.com/Iron-Ham/folio/internal/transition"
	"github.com/Iron-Ham/folio/internal/tui/keymap"
	"github.com/Iron-Ham/folio/internal/tui/msg"
	"github.com/Iron-Ham/folio/internal/tui/styles"
)

// Layout constants
const (
	NavbarHeight = 2 // labels + bottom border
	FooterHeight = 2 // status bar + help line
	MaxBarWidth  = 60
)

// retryTimeout bounds a manual connectivity retry.
const retryTimeout = 5 * time.Second

// page is the content currently loaded into the viewport.
type page struct {
	route   string
	content string
	index   *nav.SectionIndex
}

// Model is the Bubbletea model for a folio session.
type Model struct {
	env    *boot.Env
	splash *splash.Controller
	keys   keymap.KeyMap
	styles *styles.Styles
	now    func() time.Time

	width, height int
	sized         bool

	// Generations for scheduled ticks; a tick from an older generation is
	// dropped.
	frameGen int
	fogGen   int

	bar     progress.Model
	spinner spinner.Model
	help    help.Model
	vp      viewport.Model

	page    page
	online  bool
	offline string // cause shown on the offline screen
	notice  string
	err     error
}

// NewModel creates the model for a session that starts on the env's
// current route.
func NewModel(env *boot.Env) Model {
	st := styles.New(styles.ThemeName(env.Config.Site.Style))
	return Model{
		env:    env,
		splash: env.NewSplash(env.Router.Current()),
		keys:   keymap.Default(),
		styles: st,
		now:    time.Now,
		bar: progress.New(
			progress.WithGradient(st.Palette.BarStart, st.Palette.BarEnd),
			progress.WithoutPercentage(),
		),
		spinner: spinner.New(
			spinner.WithSpinner(spinner.Dot),
			spinner.WithStyle(st.Spinner),
		),
		help:   help.New(),
		vp:     viewport.New(0, 0),
		online: env.Monitor.Online(),
	}
}

// Mode reports what the model is currently showing.
func (m Model) Mode() keymap.Mode {
	switch {
	case !m.splash.LoaderDone():
		return keymap.ModeSplash
	case !m.online:
		return keymap.ModeOffline
	default:
		return keymap.ModeBrowse
	}
}

// Route returns the route whose content is loaded.
func (m Model) Route() string {
	return m.page.route
}

// Init starts the splash. Skip-list routes have nothing to animate; their
// page loads on the first WindowSizeMsg.
func (m Model) Init() tea.Cmd {
	m.splash.Start(m.now())
	if m.splash.LoaderDone() {
		return nil
	}
	return tea.Batch(m.spinner.Tick, msg.Frame(m.frameGen, m.splash.Timing().Frame))
}

// Update handles messages and updates the model
func (m Model) Update(message tea.Msg) (tea.Model, tea.Cmd) {
	switch ev := message.(type) {
	case tea.WindowSizeMsg:
		m.resize(ev.Width, ev.Height)
		return m, nil

	case tea.KeyMsg:
		return m.handleKey(ev)

	case msg.FrameMsg:
		if ev.Gen != m.frameGen {
			return m, nil
		}
		cmd := m.advanceSplash(ev.At)
		return m, cmd

	case msg.FogMsg:
		if ev.Gen != m.fogGen {
			return m, nil
		}
		cmd := m.advanceFog(ev.At)
		return m, cmd

	case spinner.TickMsg:
		if m.splash.LoaderDone() {
			return m, nil
		}
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(ev)
		return m, cmd

	case msg.NetworkMsg:
		m.setOnline(ev.Online)
		m.offline = ev.Cause
		return m, nil

	case msg.ManifestMsg:
		if m.splash.LoaderDone() && m.sized {
			m.loadPage()
		}
		if ev.Rejected > 0 {
			m.notice = "manifest reloaded; new assets load on next start"
		} else {
			m.notice = "manifest reloaded"
		}
		return m, nil

	case msg.ErrMsg:
		m.err = ev.Err
		return m, nil
	}
	return m, nil
}

func (m *Model) resize(width, height int) {
	m.width, m.height = width, height
	m.bar.Width = max(min(width-12, MaxBarWidth), 10)
	m.help.Width = width
	m.vp.Width = width
	m.vp.Height = max(height-NavbarHeight-FooterHeight, 1)
	m.env.Renderer.SetWidth(max(width-2, 20))

	if !m.sized {
		m.sized = true
		m.env.SignalTerminalReady()
	}
	if m.splash.LoaderDone() {
		m.loadPage()
	}
}

// advanceSplash steps the loader and schedules the next frame.
func (m *Model) advanceSplash(at time.Time) tea.Cmd {
	phase := m.splash.Advance(at, m.env.Preloader.Status().Complete)
	if phase == splash.PhaseDone {
		m.frameGen++
		if m.sized {
			m.loadPage()
		}
		return nil
	}
	next := m.splash.NextDeadline()
	return msg.Frame(m.frameGen, next.Sub(m.now()))
}

// advanceFog steps the transition and schedules the next fog tick. The
// route swap happens inside Advance; the new page is loaded as soon as the
// router reports it.
func (m *Model) advanceFog(at time.Time) tea.Cmd {
	stage := m.env.Transition.Advance(at)
	if m.env.Router.Current() != m.page.route {
		m.loadPage()
	}
	if stage == transition.StageIdle {
		return nil
	}
	return msg.Fog(m.fogGen, m.env.Transition.Deadline().Sub(m.now()))
}

// navigate runs fn behind the fog. A request while the fog is already up
// is dropped.
func (m *Model) navigate(fn func()) tea.Cmd {
	now := m.now()
	if _, err := m.env.Transition.Trigger(now, fn); err != nil {
		if errors.Is(err, errors.ErrTransitionActive) {
			return nil
		}
		m.err = err
		return nil
	}
	m.fogGen++
	return msg.Fog(m.fogGen, m.env.Transition.Deadline().Sub(now))
}

func (m *Model) goTo(route string, opts ...nav.NavOption) tea.Cmd {
	if route == m.page.route && len(opts) == 0 {
		return nil
	}
	return m.navigate(func() { m.env.Router.Navigate(route, opts...) })
}

// goBack leaves a project page for the projects section of the home page
// and pops history everywhere else.
func (m *Model) goBack() tea.Cmd {
	if _, ok := nav.ProjectSlug(m.page.route); ok {
		return m.goTo(nav.RouteHome, nav.WithScrollTo("projects"))
	}
	if m.env.Router.Depth() < 2 {
		return nil
	}
	return m.navigate(func() { m.env.Router.Back() })
}

// jumpSection scrolls to section id, crossing the fog when it lives on
// another page.
func (m *Model) jumpSection(id string) tea.Cmd {
	if m.page.route != nav.RouteHome {
		return m.goTo(nav.RouteHome, nav.WithScrollTo(id))
	}
	m.env.Router.Navigate(nav.RouteHome, nav.WithScrollTo(id), nav.WithReplace())
	m.applyScrollTarget()
	return nil
}

func (m *Model) applyScrollTarget() bool {
	target := m.env.Router.ConsumeScrollTarget()
	if target == "" || m.page.index == nil {
		return false
	}
	off, ok := m.page.index.Offset(target)
	if !ok {
		return false
	}
	m.vp.SetYOffset(off)
	return true
}

// loadPage renders the current route into the viewport.
func (m *Model) loadPage() {
	route := m.env.Router.Current()
	content, index, err := m.render(route)
	if err != nil {
		m.env.Logger.Warn("render failed", "route", route, "error", err)
		content = m.styles.ErrorMsg.Render(err.Error())
		index = nav.NewSectionIndex()
	}
	m.err = err

	sameRoute := route == m.page.route
	m.page = page{route: route, content: content, index: index}
	m.vp.SetContent(content)
	if !m.applyScrollTarget() && !sameRoute {
		m.vp.GotoTop()
	}
}

func (m *Model) render(route string) (string, *nav.SectionIndex, error) {
	if route == nav.RouteHome {
		return m.renderHome()
	}
	var (
		out string
		err error
	)
	if slug, ok := nav.ProjectSlug(route); ok {
		out, err = m.env.Renderer.Project(slug)
	} else {
		out, err = m.env.Renderer.Page(strings.TrimPrefix(route, "/"))
	}
	return out, nav.NewSectionIndex(), err
}

// renderHome joins every section and records where each one starts.
func (m *Model) renderHome() (string, *nav.SectionIndex, error) {
	var (
		parts    []string
		sections []nav.Section
		offset   int
	)
	for _, s := range m.env.Manifest().Sections {
		out, err := m.env.Renderer.Section(s.ID)
		if err != nil {
			return "", nil, err
		}
		body := strings.TrimRight(out, "\n")
		height := strings.Count(body, "\n") + 1
		sections = append(sections, nav.Section{ID: s.ID, Offset: offset, Height: height})
		parts = append(parts, body)
		offset += height
	}
	return strings.Join(parts, "\n"), nav.NewSectionIndex(sections...), nil
}

// ActiveSection returns the section highlighted in the navbar. At the
// bottom of the page the most visible section wins, since the last ones may
// never reach the top.
func (m Model) ActiveSection() string {
	if m.page.route != nav.RouteHome || m.page.index == nil {
		return ""
	}
	if m.vp.AtBottom() && m.vp.YOffset > 0 {
		return m.page.index.MostVisible(m.vp.YOffset, m.vp.Height)
	}
	return m.page.index.Active(m.vp.YOffset)
}

// navSections returns the ids of sections that appear on the navbar.
func (m Model) navSections() []string {
	var ids []string
	for _, s := range m.env.Manifest().Sections {
		if s.Nav != "" {
			ids = append(ids, s.ID)
		}
	}
	return ids
}

func (m *Model) stepSection(delta int) tea.Cmd {
	ids := m.navSections()
	if len(ids) == 0 {
		return nil
	}
	active := m.ActiveSection()
	i := -1
	for j, id := range ids {
		if id == active {
			i = j
		}
	}
	switch {
	case i < 0 && delta > 0:
		i = 0
	case i < 0:
		i = len(ids) - 1
	default:
		i = (i + delta + len(ids)) % len(ids)
	}
	return m.jumpSection(ids[i])
}

func (m *Model) setOnline(online bool) {
	if online == m.online {
		return
	}
	m.online = online
	if online {
		m.notice = "back online"
	} else {
		m.notice = ""
	}
}

// retry probes connectivity immediately.
func (m Model) retry() tea.Cmd {
	monitor := m.env.Monitor
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), retryTimeout)
		defer cancel()
		st := monitor.Check(ctx)
		return msg.NetworkMsg{Online: st.Online, Cause: st.LastError}
	}
}

func (m Model) handleKey(ev tea.KeyMsg) (tea.Model, tea.Cmd) {
	if key.Matches(ev, m.keys.Quit) {
		return m, tea.Quit
	}

	switch m.Mode() {
	case keymap.ModeSplash:
		if key.Matches(ev, m.keys.Skip) {
			m.splash.Skip()
			m.frameGen++
			if m.sized {
				m.loadPage()
			}
		}
		return m, nil

	case keymap.ModeOffline:
		if key.Matches(ev, m.keys.Retry) {
			return m, m.retry()
		}
		return m, nil
	}

	// Input is ignored while the fog is up; the page underneath is about
	// to change.
	if m.env.Transition.Active() {
		return m, nil
	}
	m.notice = ""

	var cmd tea.Cmd
	switch {
	case key.Matches(ev, m.keys.Help):
		m.help.ShowAll = !m.help.ShowAll
	case key.Matches(ev, m.keys.Up):
		m.vp.LineUp(1)
	case key.Matches(ev, m.keys.Down):
		m.vp.LineDown(1)
	case key.Matches(ev, m.keys.PageUp):
		m.vp.ViewUp()
	case key.Matches(ev, m.keys.PageDown):
		m.vp.ViewDown()
	case key.Matches(ev, m.keys.Top):
		m.vp.GotoTop()
	case key.Matches(ev, m.keys.Bottom):
		m.vp.GotoBottom()
	case key.Matches(ev, m.keys.NextSection):
		cmd = m.stepSection(1)
	case key.Matches(ev, m.keys.PrevSection):
		cmd = m.stepSection(-1)
	case key.Matches(ev, m.keys.Project):
		projects := m.env.Manifest().Projects
		if i := keymap.ProjectIndex(ev.String()); i >= 0 && i < len(projects) {
			cmd = m.goTo(nav.ProjectRoute(projects[i].Slug))
		}
	case key.Matches(ev, m.keys.Back):
		cmd = m.goBack()
	case key.Matches(ev, m.keys.Home):
		cmd = m.goTo(nav.RouteHome)
	case key.Matches(ev, m.keys.Privacy):
		cmd = m.goTo(nav.RoutePrivacy)
	case key.Matches(ev, m.keys.Terms):
		cmd = m.goTo(nav.RouteTerms)
	case key.Matches(ev, m.keys.Sitemap):
		cmd = m.goTo(nav.RouteSitemap)
	}
	return m, cmd
}
