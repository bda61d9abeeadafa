package nav

import (
	"math"
	"slices"
)

// Section is a named block of the rendered page, measured in lines.
type Section struct {
	ID     string
	Offset int // First line of the section
	Height int // Number of lines
}

// Visibility is the share of a section inside the viewport, 0 to 100.
type Visibility struct {
	ID      string
	Percent int
}

// SectionIndex locates sections in the rendered page.
type SectionIndex struct {
	sections []Section
}

// NewSectionIndex builds an index. Sections are ordered by offset.
func NewSectionIndex(sections ...Section) *SectionIndex {
	s := slices.Clone(sections)
	slices.SortStableFunc(s, func(a, b Section) int { return a.Offset - b.Offset })
	return &SectionIndex{sections: s}
}

// Len returns the number of sections.
func (x *SectionIndex) Len() int {
	return len(x.sections)
}

// IDs returns section ids in page order.
func (x *SectionIndex) IDs() []string {
	ids := make([]string, len(x.sections))
	for i, s := range x.sections {
		ids[i] = s.ID
	}
	return ids
}

// Offset returns the first line of section id.
func (x *SectionIndex) Offset(id string) (int, bool) {
	for _, s := range x.sections {
		if s.ID == id {
			return s.Offset, true
		}
	}
	return 0, false
}

// Active returns the section under the viewport top at line offset, or ""
// above the first section.
func (x *SectionIndex) Active(offset int) string {
	active := ""
	for _, s := range x.sections {
		if s.Offset > offset {
			break
		}
		active = s.ID
	}
	return active
}

// Visibility reports how much of each section is inside a viewport of
// height lines starting at top. A section that covers the whole viewport
// counts as fully visible.
func (x *SectionIndex) Visibility(top, height int) []Visibility {
	out := make([]Visibility, 0, len(x.sections))
	bottom := top + height
	for _, s := range x.sections {
		start, end := s.Offset, s.Offset+s.Height
		var pct int
		switch {
		case s.Height <= 0 || height <= 0:
		case start <= top && end >= bottom:
			pct = 100
		case start >= top && end <= bottom:
			pct = 100
		case start < bottom && end > top:
			visible := min(end, bottom) - max(start, top)
			pct = int(math.Round(float64(visible) / float64(s.Height) * 100))
		}
		out = append(out, Visibility{ID: s.ID, Percent: pct})
	}
	return out
}

// MostVisible returns the id of the section with the largest share of the
// viewport. Ties go to the earlier section.
func (x *SectionIndex) MostVisible(top, height int) string {
	best, bestPct := "", 0
	for _, v := range x.Visibility(top, height) {
		if v.Percent > bestPct {
			best, bestPct = v.ID, v.Percent
		}
	}
	return best
}
