// Package site loads the folio site manifest and renders its content.
//
// The manifest is a YAML document listing the owner, the home page
// sections, the projects, the static pages and the assets the splash
// preloads. A default manifest is compiled in. Each section doubles as a
// preload module: rendering it with glamour is the work the splash waits
// for.
package site

import (
	_ "embed"
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/Iron-Ham/folio/internal/errors"
	"github.com/Iron-Ham/folio/internal/preload"
)

//go:embed default.yaml
var defaultManifest []byte

// Manifest is the site description.
type Manifest struct {
	Owner      Owner             `yaml:"owner"`
	Sections   []Section         `yaml:"sections"`
	Projects   []Project         `yaml:"projects"`
	Pages      map[string]string `yaml:"pages"`
	Assets     []Asset           `yaml:"assets"`
	SkipRoutes []string          `yaml:"skip_routes,omitempty"`

	// Path is where the manifest was read from; empty for the default.
	Path string `yaml:"-"`
}

// Owner identifies whose portfolio this is.
type Owner struct {
	Name    string `yaml:"name"`
	Title   string `yaml:"title"`
	Tagline string `yaml:"tagline"`
	Email   string `yaml:"email,omitempty"`
}

// Section is a block of the home page.
type Section struct {
	ID       string `yaml:"id"`
	Title    string `yaml:"title"`
	Nav      string `yaml:"nav,omitempty"` // Navbar label; empty keeps it off the navbar
	Body     string `yaml:"body"`
	Critical bool   `yaml:"critical"`
}

// Project is an entry of the projects section with its own detail page.
type Project struct {
	Slug    string   `yaml:"slug"`
	Title   string   `yaml:"title"`
	Summary string   `yaml:"summary"`
	Stack   []string `yaml:"stack"`
	Link    string   `yaml:"link,omitempty"`
	Body    string   `yaml:"body"`
}

// Asset is a file the splash preloads.
type Asset struct {
	Locator  string `yaml:"locator"`
	Kind     string `yaml:"kind"`
	Critical bool   `yaml:"critical"`
}

// Default returns the compiled-in manifest.
func Default() *Manifest {
	m, err := Parse(defaultManifest)
	if err != nil {
		panic(fmt.Sprintf("site: default manifest is invalid: %v", err))
	}
	return m
}

// Load reads and validates the manifest at path. An empty path returns
// the default manifest.
func Load(path string) (*Manifest, error) {
	if path == "" {
		return Default(), nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Wrapf(err, "read manifest %s", path)
	}
	m, err := Parse(data)
	if err != nil {
		return nil, errors.Wrapf(err, "manifest %s", path)
	}
	m.Path = path
	return m, nil
}

// Parse decodes and validates a manifest.
func Parse(data []byte) (*Manifest, error) {
	var m Manifest
	if err := yaml.Unmarshal(data, &m); err != nil {
		return nil, errors.NewValidationError("malformed YAML").WithCause(errors.Join(errors.ErrManifestInvalid, err))
	}
	if err := m.Validate(); err != nil {
		return nil, err
	}
	return &m, nil
}

// Validate checks the manifest. Every problem is reported; each wraps
// errors.ErrManifestInvalid.
func (m *Manifest) Validate() error {
	var errs []error
	invalid := func(field, msg string, value any) {
		errs = append(errs, errors.NewValidationError(msg).
			WithField(field).
			WithValue(value).
			WithCause(errors.ErrManifestInvalid))
	}

	if strings.TrimSpace(m.Owner.Name) == "" {
		invalid("owner.name", "must not be empty", m.Owner.Name)
	}
	if len(m.Sections) == 0 {
		invalid("sections", "at least one section is required", len(m.Sections))
	}

	seen := make(map[string]bool)
	for i, s := range m.Sections {
		field := fmt.Sprintf("sections[%d].id", i)
		switch {
		case s.ID == "":
			invalid(field, "must not be empty", s.ID)
		case strings.ContainsAny(s.ID, " /"):
			invalid(field, "must not contain spaces or slashes", s.ID)
		case seen[s.ID]:
			invalid(field, "duplicate section id", s.ID)
		}
		seen[s.ID] = true
	}

	slugs := make(map[string]bool)
	for i, p := range m.Projects {
		field := fmt.Sprintf("projects[%d].slug", i)
		switch {
		case p.Slug == "":
			invalid(field, "must not be empty", p.Slug)
		case strings.Contains(p.Slug, "/"):
			invalid(field, "must not contain slashes", p.Slug)
		case slugs[p.Slug]:
			invalid(field, "duplicate project slug", p.Slug)
		}
		slugs[p.Slug] = true
	}

	for i, a := range m.Assets {
		if a.Locator == "" {
			invalid(fmt.Sprintf("assets[%d].locator", i), "must not be empty", a.Locator)
		}
		if k := preload.Kind(a.Kind); !k.Valid() || k == preload.KindModule {
			invalid(fmt.Sprintf("assets[%d].kind", i), "must be image, document, video or font", a.Kind)
		}
	}

	return errors.Join(errs...)
}

// Section returns the section with id.
func (m *Manifest) Section(id string) (Section, bool) {
	for _, s := range m.Sections {
		if s.ID == id {
			return s, true
		}
	}
	return Section{}, false
}

// Project returns the project with slug.
func (m *Manifest) Project(slug string) (Project, bool) {
	for _, p := range m.Projects {
		if p.Slug == slug {
			return p, true
		}
	}
	return Project{}, false
}

// ResolveLocator turns an asset locator into something the preloader can
// fetch. Absolute URLs are kept. With an origin, every other locator,
// root-relative ones included, is joined to it. Without one, absolute paths
// are kept and relative locators resolve against the manifest's directory.
func (m *Manifest) ResolveLocator(locator, origin string) string {
	if u, err := url.Parse(locator); err == nil && u.Scheme != "" {
		return locator
	}
	if origin != "" {
		return strings.TrimRight(origin, "/") + "/" + strings.TrimLeft(locator, "/")
	}
	if filepath.IsAbs(locator) {
		return locator
	}
	if m.Path != "" {
		return filepath.Join(filepath.Dir(m.Path), locator)
	}
	return locator
}

// AssetRegistrar is the part of the preloader the site registers with.
type AssetRegistrar interface {
	RegisterAsset(locator string, kind preload.Kind, critical bool) error
}

// RegisterAssets registers every asset of next that prev did not have.
// A nil prev registers all of them. It returns how many were accepted and
// how many were refused because the registry had closed.
func RegisterAssets(reg AssetRegistrar, prev, next *Manifest, origin string) (added, rejected int, err error) {
	known := make(map[string]bool)
	if prev != nil {
		for _, a := range prev.Assets {
			known[prev.ResolveLocator(a.Locator, origin)] = true
		}
	}

	var errs []error
	for _, a := range next.Assets {
		locator := next.ResolveLocator(a.Locator, origin)
		if known[locator] {
			continue
		}
		known[locator] = true

		switch regErr := reg.RegisterAsset(locator, preload.ParseKind(a.Kind), a.Critical); {
		case regErr == nil:
			added++
		case errors.Is(regErr, errors.ErrRegistryClosed):
			rejected++
		default:
			errs = append(errs, regErr)
		}
	}
	return added, rejected, errors.Join(errs...)
}
