package listing

import (
	"math"
	"strings"
)

// FilterState is the complete set of user-chosen listing parameters.
//
// Values are treated as immutable: every transition below returns a new
// FilterState with freshly allocated slices, so a state handed to another
// goroutine is never edited in place.
//
//	Departments, Companies  deduplicated tag sets; empty means "no filter"
//	Search                  trimmed; empty means "no search"
//	Page                    >= 1, no upper bound
type FilterState struct {
	Departments []string `json:"departments"`
	Companies   []string `json:"companies"`
	Search      string   `json:"search"`
	Page        int      `json:"page"`
}

// DefaultFilter is the state for a URL with no query parameters.
func DefaultFilter() FilterState {
	return NewFilter(nil, nil, "", 1)
}

// NewFilter builds a normalized FilterState.
func NewFilter(departments, companies []string, search string, page int) FilterState {
	return FilterState{
		Departments: dedupe(departments),
		Companies:   dedupe(companies),
		Search:      strings.TrimSpace(search),
		Page:        clampPage(page),
	}
}

// Normalize returns f with deduplicated sets, trimmed search and page >= 1.
func (f FilterState) Normalize() FilterState {
	return NewFilter(f.Departments, f.Companies, f.Search, f.Page)
}

// ─── Transitions ─────────────────────────────────────────────────────────────
//
// Any change to departments, companies or search goes back to page 1, so a
// narrower filter never asks for a page beyond its own results.

// WithDepartments replaces the department set and resets the page.
func (f FilterState) WithDepartments(departments []string) FilterState {
	return NewFilter(departments, f.Companies, f.Search, 1)
}

// WithCompanies replaces the company set and resets the page.
func (f FilterState) WithCompanies(companies []string) FilterState {
	return NewFilter(f.Departments, companies, f.Search, 1)
}

// WithSearch replaces the search text and resets the page.
func (f FilterState) WithSearch(search string) FilterState {
	return NewFilter(f.Departments, f.Companies, search, 1)
}

// WithPage changes only the page.
func (f FilterState) WithPage(page int) FilterState {
	return NewFilter(f.Departments, f.Companies, f.Search, page)
}

// ToggleDepartment adds tag when absent and removes it when present.
func (f FilterState) ToggleDepartment(tag string) FilterState {
	return f.WithDepartments(toggle(f.Departments, tag))
}

// ToggleCompany adds slug when absent and removes it when present.
func (f FilterState) ToggleCompany(slug string) FilterState {
	return f.WithCompanies(toggle(f.Companies, slug))
}

// HasDepartment reports whether tag is selected.
func (f FilterState) HasDepartment(tag string) bool { return contains(f.Departments, tag) }

// HasCompany reports whether slug is selected.
func (f FilterState) HasCompany(slug string) bool { return contains(f.Companies, slug) }

// Offset is the number of postings that precede f.Page. It saturates at
// math.MaxInt so a huge page lands past the end instead of wrapping.
func (f FilterState) Offset() int {
	p := clampPage(f.Page) - 1
	if p > math.MaxInt/PageSize {
		return math.MaxInt
	}
	return p * PageSize
}

// Equal compares two states; department and company sets are order-insensitive.
func (f FilterState) Equal(o FilterState) bool {
	return f.Search == o.Search &&
		clampPage(f.Page) == clampPage(o.Page) &&
		sameSet(f.Departments, o.Departments) &&
		sameSet(f.Companies, o.Companies)
}

// ─── Helpers ─────────────────────────────────────────────────────────────────

func clampPage(p int) int {
	if p < 1 {
		return 1
	}
	return p
}

// dedupe keeps first occurrences, drops empty tags and always returns a new slice.
func dedupe(in []string) []string {
	out := make([]string, 0, len(in))
	seen := make(map[string]struct{}, len(in))
	for _, v := range in {
		if v == "" {
			continue
		}
		if _, ok := seen[v]; ok {
			continue
		}
		seen[v] = struct{}{}
		out = append(out, v)
	}
	return out
}

func toggle(set []string, v string) []string {
	if v == "" {
		return set
	}
	out := make([]string, 0, len(set)+1)
	found := false
	for _, s := range set {
		if s == v {
			found = true
			continue
		}
		out = append(out, s)
	}
	if !found {
		out = append(out, v)
	}
	return out
}

func contains(set []string, v string) bool {
	for _, s := range set {
		if s == v {
			return true
		}
	}
	return false
}

func sameSet(a, b []string) bool {
	da, db := dedupe(a), dedupe(b)
	if len(da) != len(db) {
		return false
	}
	for _, v := range da {
		if !contains(db, v) {
			return false
		}
	}
	return true
}
