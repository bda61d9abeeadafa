package nav

import (
	"fmt"
	"path"
	"slices"
	"strings"
	"sync"

	"github.com/Iron-Ham/folio/internal/event"
	"github.com/Iron-Ham/folio/internal/logging"
)

// Well-known routes.
const (
	RouteHome     = "/"
	RoutePrivacy  = "/privacy"
	RouteTerms    = "/terms"
	RouteSitemap  = "/sitemap"
	projectPrefix = "/projects/"
)

// DefaultSkipRoutes are the static pages that bypass the splash.
func DefaultSkipRoutes() []string {
	return []string{RoutePrivacy, RouteTerms, RouteSitemap}
}

// RouteChange describes one navigation.
type RouteChange struct {
	From     string
	To       string
	ScrollTo string
}

// RouteFunc receives route changes.
type RouteFunc func(RouteChange)

type navOptions struct {
	scrollTo string
	replace  bool
}

// NavOption configures a single navigation.
type NavOption func(*navOptions)

// WithScrollTo asks the destination page to jump to a section once. The
// target is consumed by ConsumeScrollTarget.
func WithScrollTo(section string) NavOption {
	return func(o *navOptions) {
		o.scrollTo = section
	}
}

// WithReplace replaces the current history entry instead of pushing.
func WithReplace() NavOption {
	return func(o *navOptions) {
		o.replace = true
	}
}

type listener struct {
	id string
	fn RouteFunc
}

// Router holds the navigation history. It is safe for concurrent use.
type Router struct {
	bus    *event.Bus
	logger *logging.Logger
	skip   []string

	mu         sync.Mutex
	history    []string
	scrollTo   string
	listeners  []listener
	nextListID int
}

// Option configures a Router.
type Option func(*Router)

// WithSkipRoutes overrides the routes that bypass the splash.
func WithSkipRoutes(routes []string) Option {
	return func(r *Router) {
		r.skip = r.skip[:0]
		for _, route := range routes {
			r.skip = append(r.skip, Clean(route))
		}
	}
}

// WithBus publishes a RouteChangeEvent for every navigation.
func WithBus(b *event.Bus) Option {
	return func(r *Router) {
		r.bus = b
	}
}

// WithLogger sets the logger.
func WithLogger(l *logging.Logger) Option {
	return func(r *Router) {
		if l != nil {
			r.logger = l
		}
	}
}

// NewRouter creates a router positioned at initial.
func NewRouter(initial string, opts ...Option) *Router {
	r := &Router{
		logger:  logging.NopLogger(),
		skip:    DefaultSkipRoutes(),
		history: []string{Clean(initial)},
	}
	for _, opt := range opts {
		opt(r)
	}
	r.logger = r.logger.WithComponent("nav")
	return r
}

// Clean normalizes a route: leading slash, no trailing slash, no dot
// segments, no query or fragment.
func Clean(route string) string {
	if i := strings.IndexAny(route, "?#"); i >= 0 {
		route = route[:i]
	}
	return path.Clean("/" + strings.TrimSpace(route))
}

// Current returns the current route.
func (r *Router) Current() string {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.history[len(r.history)-1]
}

// Navigate moves to route. Navigating to the current route without a
// scroll target is a no-op.
func (r *Router) Navigate(route string, opts ...NavOption) {
	var o navOptions
	for _, opt := range opts {
		opt(&o)
	}
	to := Clean(route)

	r.mu.Lock()
	from := r.history[len(r.history)-1]
	if from == to && o.scrollTo == "" {
		r.mu.Unlock()
		return
	}
	if o.replace {
		r.history[len(r.history)-1] = to
	} else {
		r.history = append(r.history, to)
	}
	r.scrollTo = o.scrollTo
	listeners := slices.Clone(r.listeners)
	r.mu.Unlock()

	r.announce(listeners, RouteChange{From: from, To: to, ScrollTo: o.scrollTo})
}

// Back returns to the previous route. It reports false when there is no
// history to go back to.
func (r *Router) Back() bool {
	r.mu.Lock()
	if len(r.history) < 2 {
		r.mu.Unlock()
		return false
	}
	from := r.history[len(r.history)-1]
	r.history = r.history[:len(r.history)-1]
	to := r.history[len(r.history)-1]
	r.scrollTo = ""
	listeners := slices.Clone(r.listeners)
	r.mu.Unlock()

	r.announce(listeners, RouteChange{From: from, To: to})
	return true
}

// ConsumeScrollTarget returns the pending scroll target and clears it.
func (r *Router) ConsumeScrollTarget() string {
	r.mu.Lock()
	defer r.mu.Unlock()
	target := r.scrollTo
	r.scrollTo = ""
	return target
}

// Depth returns the number of history entries.
func (r *Router) Depth() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.history)
}

// Subscribe registers fn for route changes and returns its id.
func (r *Router) Subscribe(fn RouteFunc) string {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.nextListID++
	id := fmt.Sprintf("route-%d", r.nextListID)
	r.listeners = append(r.listeners, listener{id: id, fn: fn})
	return id
}

// Unsubscribe removes a listener. Unknown ids are ignored.
func (r *Router) Unsubscribe(id string) bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	for i, l := range r.listeners {
		if l.id == id {
			r.listeners = slices.Delete(slices.Clone(r.listeners), i, i+1)
			return true
		}
	}
	return false
}

// SkipsLoader reports whether route bypasses the splash.
func (r *Router) SkipsLoader(route string) bool {
	return slices.Contains(r.skip, Clean(route))
}

// ProjectSlug returns the slug of a project detail route.
func ProjectSlug(route string) (string, bool) {
	route = Clean(route)
	if !strings.HasPrefix(route, projectPrefix) {
		return "", false
	}
	slug := strings.TrimPrefix(route, projectPrefix)
	if slug == "" || strings.Contains(slug, "/") {
		return "", false
	}
	return slug, true
}

// ProjectRoute returns the detail route for a project slug.
func ProjectRoute(slug string) string {
	return projectPrefix + slug
}

func (r *Router) announce(listeners []listener, ch RouteChange) {
	r.logger.Info("route changed", "from", ch.From, "to", ch.To, "scroll_to", ch.ScrollTo)
	if r.bus != nil {
		r.bus.Publish(event.NewRouteChangeEvent(ch.From, ch.To, ch.ScrollTo))
	}
	for _, l := range listeners {
		l.fn(ch)
	}
}
