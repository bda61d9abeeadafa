package site

import (
	"context"
	"fmt"
	"strings"
	"sync"

	"github.com/charmbracelet/glamour"

	"github.com/Iron-Ham/folio/internal/errors"
	"github.com/Iron-Ham/folio/internal/preload"
)

// DefaultWidth is the wrap width used before the terminal size is known.
const DefaultWidth = 80

// Renderer renders manifest markdown with glamour and caches the output
// per width. It is safe for concurrent use.
type Renderer struct {
	manifest *Manifest
	style    string

	mu    sync.Mutex
	width int
	term  *glamour.TermRenderer
	cache map[string]string
}

// NewRenderer creates a renderer for m. style is a glamour standard style
// name or "auto".
func NewRenderer(m *Manifest, style string, width int) *Renderer {
	if width <= 0 {
		width = DefaultWidth
	}
	if style == "" {
		style = "auto"
	}
	return &Renderer{
		manifest: m,
		style:    style,
		width:    width,
		cache:    make(map[string]string),
	}
}

// Manifest returns the manifest being rendered.
func (r *Renderer) Manifest() *Manifest {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.manifest
}

// SetManifest swaps the manifest and drops the cache.
func (r *Renderer) SetManifest(m *Manifest) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.manifest = m
	r.cache = make(map[string]string)
}

// Width returns the current wrap width.
func (r *Renderer) Width() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.width
}

// SetWidth changes the wrap width. The cache is dropped when it changes.
func (r *Renderer) SetWidth(width int) {
	if width <= 0 {
		return
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	if width == r.width {
		return
	}
	r.width = width
	r.term = nil
	r.cache = make(map[string]string)
}

// Prepare renders section id into the cache. It is the preload module for
// that section.
func (r *Renderer) Prepare(ctx context.Context, id string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	_, err := r.Section(id)
	return err
}

// Module returns the preload LoadFunc for section id.
func (r *Renderer) Module(id string) preload.LoadFunc {
	return func(ctx context.Context) error {
		return r.Prepare(ctx, id)
	}
}

// Section returns the rendered section id.
func (r *Renderer) Section(id string) (string, error) {
	return r.render("section:"+id, func(m *Manifest) (string, error) {
		s, ok := m.Section(id)
		if !ok {
			return "", errors.Wrapf(errors.ErrSectionNotFound, "section %q", id)
		}
		md := s.Body
		if id == "projects" {
			md += "\n" + projectList(m.Projects)
		}
		return md, nil
	})
}

// Project returns the rendered detail page for slug.
func (r *Renderer) Project(slug string) (string, error) {
	return r.render("project:"+slug, func(m *Manifest) (string, error) {
		p, ok := m.Project(slug)
		if !ok {
			return "", errors.Wrapf(errors.ErrSectionNotFound, "project %q", slug)
		}
		var b strings.Builder
		fmt.Fprintf(&b, "# %s\n\n*%s*\n\n", p.Title, p.Summary)
		if len(p.Stack) > 0 {
			fmt.Fprintf(&b, "**Stack**: %s\n\n", strings.Join(p.Stack, ", "))
		}
		b.WriteString(p.Body)
		if p.Link != "" {
			fmt.Fprintf(&b, "\n\n[%s](%s)\n", p.Link, p.Link)
		}
		return b.String(), nil
	})
}

// Page returns a rendered static page. The sitemap is generated.
func (r *Renderer) Page(name string) (string, error) {
	return r.render("page:"+name, func(m *Manifest) (string, error) {
		if name == "sitemap" {
			return sitemap(m), nil
		}
		body, ok := m.Pages[name]
		if !ok {
			return "", errors.Wrapf(errors.ErrSectionNotFound, "page %q", name)
		}
		return body, nil
	})
}

func (r *Renderer) render(key string, source func(*Manifest) (string, error)) (string, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if out, ok := r.cache[key]; ok {
		return out, nil
	}
	md, err := source(r.manifest)
	if err != nil {
		return "", err
	}
	if r.term == nil {
		term, err := newTermRenderer(r.style, r.width)
		if err != nil {
			return "", errors.Wrapf(err, "create %s renderer", r.style)
		}
		r.term = term
	}
	out, err := r.term.Render(md)
	if err != nil {
		return "", errors.Wrapf(err, "render %s", key)
	}
	r.cache[key] = out
	return out, nil
}

func newTermRenderer(style string, width int) (*glamour.TermRenderer, error) {
	styleOpt := glamour.WithStandardStyle(style)
	if style == "auto" {
		styleOpt = glamour.WithAutoStyle()
	}
	return glamour.NewTermRenderer(
		styleOpt,
		glamour.WithWordWrap(width),
	)
}

func projectList(projects []Project) string {
	var b strings.Builder
	for _, p := range projects {
		fmt.Fprintf(&b, "- **%s**: %s\n", p.Title, p.Summary)
	}
	return b.String()
}

func sitemap(m *Manifest) string {
	var b strings.Builder
	b.WriteString("# Sitemap\n\n- `/` home\n")
	for _, s := range m.Sections {
		fmt.Fprintf(&b, "  - %s\n", s.Title)
	}
	for _, p := range m.Projects {
		fmt.Fprintf(&b, "- `/projects/%s` %s\n", p.Slug, p.Title)
	}
	for _, name := range []string{"privacy", "terms"} {
		if _, ok := m.Pages[name]; ok {
			fmt.Fprintf(&b, "- `/%s`\n", name)
		}
	}
	b.WriteString("- `/sitemap`\n")
	return b.String()
}
