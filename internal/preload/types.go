package preload

import (
	"context"
	"time"
)

// Kind classifies a tracked resource and selects how it is fetched.
type Kind string

const (
	KindImage    Kind = "image"
	KindDocument Kind = "document"
	KindVideo    Kind = "video"
	KindFont     Kind = "font"
	KindModule   Kind = "module"
)

// Valid reports whether k is a known kind.
func (k Kind) Valid() bool {
	switch k {
	case KindImage, KindDocument, KindVideo, KindFont, KindModule:
		return true
	}
	return false
}

// ParseKind converts a manifest string to a Kind. Unknown values fall back
// to KindImage.
func ParseKind(s string) Kind {
	if k := Kind(s); k.Valid() {
		return k
	}
	return KindImage
}

// LoadFunc is the unit of work for a module resource.
type LoadFunc func(ctx context.Context) error

// Resource is a read-only snapshot of one tracked resource.
type Resource struct {
	Name     string
	Locator  string // empty for modules and signals
	Kind     Kind
	Critical bool
	Loaded   bool
	Failed   bool
	Err      error
	Duration time.Duration // dispatch to settlement
}

// Settled reports whether the resource has loaded or failed.
func (r Resource) Settled() bool {
	return r.Loaded || r.Failed
}

// Progress is pushed to observers after every settlement.
type Progress struct {
	Percent int
	Loaded  int
	Total   int
}

// Status is the synchronous view returned by Preloader.Status.
type Status struct {
	Progress int
	Loaded   int
	Total    int
	Failed   int
	Complete bool
}

// Observer receives progress notifications.
type Observer interface {
	Notify(Progress)
}

// ObserverFunc adapts a function to the Observer interface.
type ObserverFunc func(Progress)

// Notify calls f(p).
func (f ObserverFunc) Notify(p Progress) { f(p) }

// percent computes round(min(100, loaded/total*100)); 100 when total is 0.
func percent(loaded, total int) int {
	if total <= 0 {
		return 100
	}
	if loaded >= total {
		return 100
	}
	// Integer round-half-up of loaded*100/total.
	return (loaded*200 + total) / (2 * total)
}
