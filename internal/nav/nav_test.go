package nav

import (
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/Iron-Ham/folio/internal/event"
)

func TestClean(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"", "/"},
		{"/", "/"},
		{"privacy", "/privacy"},
		{"/terms/", "/terms"},
		{"/projects/folio?tab=1", "/projects/folio"},
		{"/a/../sitemap#top", "/sitemap"},
		{"  /privacy ", "/privacy"},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			if got := Clean(tt.in); got != tt.want {
				t.Errorf("Clean(%q) = %q, want %q", tt.in, got, tt.want)
			}
		})
	}
}

func TestRouterNavigateAndBack(t *testing.T) {
	r := NewRouter("/")

	var changes []RouteChange
	id := r.Subscribe(func(ch RouteChange) { changes = append(changes, ch) })

	r.Navigate("/projects/folio")
	r.Navigate("/projects/folio") // no-op
	r.Navigate("/", WithScrollTo("projects"))

	if r.Current() != "/" {
		t.Errorf("Current() = %q, want /", r.Current())
	}
	if r.Depth() != 3 {
		t.Errorf("Depth() = %d, want 3", r.Depth())
	}

	if !r.Back() {
		t.Fatal("Back() = false, want true")
	}
	if r.Current() != "/projects/folio" {
		t.Errorf("Current() after Back = %q", r.Current())
	}

	want := []RouteChange{
		{From: "/", To: "/projects/folio"},
		{From: "/projects/folio", To: "/", ScrollTo: "projects"},
		{From: "/", To: "/projects/folio"},
	}
	if diff := cmp.Diff(want, changes); diff != "" {
		t.Errorf("route changes mismatch (-want +got):\n%s", diff)
	}

	if !r.Unsubscribe(id) {
		t.Error("Unsubscribe() = false for a known id")
	}
	if r.Unsubscribe(id) {
		t.Error("Unsubscribe() = true for an unknown id")
	}
	r.Back()
	if len(changes) != 3 {
		t.Errorf("unsubscribed listener still called, %d changes", len(changes))
	}
	if r.Back() {
		t.Error("Back() at the first entry should report false")
	}
}

func TestRouterReplace(t *testing.T) {
	r := NewRouter("/")
	r.Navigate("/terms", WithReplace())
	if r.Depth() != 1 || r.Current() != "/terms" {
		t.Errorf("after replace Depth() = %d, Current() = %q", r.Depth(), r.Current())
	}
}

func TestScrollTargetConsumedOnce(t *testing.T) {
	r := NewRouter("/projects/folio")
	r.Navigate("/", WithScrollTo("projects"))

	if got := r.ConsumeScrollTarget(); got != "projects" {
		t.Errorf("ConsumeScrollTarget() = %q, want projects", got)
	}
	if got := r.ConsumeScrollTarget(); got != "" {
		t.Errorf("second ConsumeScrollTarget() = %q, want empty", got)
	}

	// A same-route navigation with a target still delivers it.
	r.Navigate("/", WithScrollTo("contact"))
	if got := r.ConsumeScrollTarget(); got != "contact" {
		t.Errorf("ConsumeScrollTarget() = %q, want contact", got)
	}

	// A plain navigation clears a stale target.
	r.Navigate("/projects/folio", WithScrollTo("x"))
	r.Navigate("/")
	if got := r.ConsumeScrollTarget(); got != "" {
		t.Errorf("stale target %q survived a navigation", got)
	}
}

func TestSkipsLoader(t *testing.T) {
	r := NewRouter("/")
	tests := []struct {
		route string
		want  bool
	}{
		{"/", false},
		{"/privacy", true},
		{"/terms/", true},
		{"/sitemap", true},
		{"/projects/folio", false},
	}
	for _, tt := range tests {
		if got := r.SkipsLoader(tt.route); got != tt.want {
			t.Errorf("SkipsLoader(%q) = %v, want %v", tt.route, got, tt.want)
		}
	}

	custom := NewRouter("/", WithSkipRoutes([]string{"imprint"}))
	if !custom.SkipsLoader("/imprint") || custom.SkipsLoader("/privacy") {
		t.Error("WithSkipRoutes should replace the default list")
	}
}

func TestProjectSlug(t *testing.T) {
	tests := []struct {
		route string
		slug  string
		ok    bool
	}{
		{"/projects/folio", "folio", true},
		{"/projects/folio/", "folio", true},
		{"/projects/", "", false},
		{"/projects/a/b", "", false},
		{"/privacy", "", false},
	}
	for _, tt := range tests {
		slug, ok := ProjectSlug(tt.route)
		if slug != tt.slug || ok != tt.ok {
			t.Errorf("ProjectSlug(%q) = %q, %v; want %q, %v", tt.route, slug, ok, tt.slug, tt.ok)
		}
	}
	if got := ProjectRoute("folio"); got != "/projects/folio" {
		t.Errorf("ProjectRoute() = %q", got)
	}
}

func TestRouteEvents(t *testing.T) {
	bus := event.NewBus()
	var got []event.RouteChangeEvent
	bus.Subscribe(event.TypeRouteChanged, func(e event.Event) {
		got = append(got, e.(event.RouteChangeEvent))
	})

	r := NewRouter("/", WithBus(bus))
	r.Navigate("/projects/folio")
	r.Back()

	if len(got) != 2 {
		t.Fatalf("got %d events, want 2", len(got))
	}
	if got[1].From != "/projects/folio" || got[1].To != "/" {
		t.Errorf("back event = %+v", got[1])
	}
}

func newIndex() *SectionIndex {
	return NewSectionIndex(
		Section{ID: "projects", Offset: 40, Height: 30},
		Section{ID: "about", Offset: 10, Height: 30},
		Section{ID: "contact", Offset: 70, Height: 10},
	)
}

func TestSectionIndexActive(t *testing.T) {
	x := newIndex()

	if diff := cmp.Diff([]string{"about", "projects", "contact"}, x.IDs()); diff != "" {
		t.Errorf("IDs() mismatch (-want +got):\n%s", diff)
	}

	tests := []struct {
		offset int
		want   string
	}{
		{0, ""},
		{10, "about"},
		{39, "about"},
		{40, "projects"},
		{500, "contact"},
	}
	for _, tt := range tests {
		if got := x.Active(tt.offset); got != tt.want {
			t.Errorf("Active(%d) = %q, want %q", tt.offset, got, tt.want)
		}
	}
}

func TestSectionIndexOffset(t *testing.T) {
	x := newIndex()
	if off, ok := x.Offset("projects"); !ok || off != 40 {
		t.Errorf("Offset(projects) = %d, %v", off, ok)
	}
	if _, ok := x.Offset("missing"); ok {
		t.Error("Offset(missing) should report false")
	}
}

func TestSectionVisibility(t *testing.T) {
	x := newIndex()

	got := x.Visibility(25, 20) // lines 25..45
	want := []Visibility{
		{ID: "about", Percent: 50},    // 25..40 of 10..40
		{ID: "projects", Percent: 17}, // 40..45 of 40..70
		{ID: "contact", Percent: 0},
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("Visibility() mismatch (-want +got):\n%s", diff)
	}
	if got := x.MostVisible(25, 20); got != "about" {
		t.Errorf("MostVisible() = %q, want about", got)
	}

	// A section taller than the viewport that covers it is fully visible.
	if got := x.MostVisible(45, 10); got != "projects" {
		t.Errorf("MostVisible() = %q, want projects", got)
	}
}
