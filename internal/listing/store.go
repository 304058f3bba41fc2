package listing

import (
	"context"
	"strings"

	"golang.org/x/text/collate"
	"golang.org/x/text/language"
)

// Criteria is the store-level form of a listing query: membership filters on
// department and company, a case-insensitive substring search over title,
// company name, location and department, and offset pagination. Results are
// ordered by company name, then title, then id.
type Criteria struct {
	Departments []string
	Companies   []string
	Search      string
	Offset      int
	Limit       int
}

// CriteriaFor translates a FilterState into store criteria for one page.
func CriteriaFor(f FilterState) Criteria {
	f = f.Normalize()
	return Criteria{
		Departments: f.Departments,
		Companies:   f.Companies,
		Search:      f.Search,
		Offset:      f.Offset(),
		Limit:       PageSize,
	}
}

// Store is the remote data store the listing reads from.
type Store interface {
	// Search returns the requested page and the exact number of matching
	// postings before pagination.
	Search(ctx context.Context, c Criteria) ([]Posting, int, error)

	// CompanyRows returns (slug, name) for every live posting, in store order
	// and without deduplication. See DeriveCompanyOptions.
	CompanyRows(ctx context.Context) ([]CompanyOption, error)
}

// Matches reports whether p satisfies the filter part of c. The in-memory
// store uses it directly; the Postgres store expresses the same predicate in SQL.
func (c Criteria) Matches(p Posting) bool {
	if len(c.Departments) > 0 && !contains(c.Departments, p.DepartmentTag) {
		return false
	}
	if len(c.Companies) > 0 && !contains(c.Companies, p.CompanySlug) {
		return false
	}
	if c.Search == "" {
		return true
	}
	needle := strings.ToLower(c.Search)
	for _, field := range []string{p.Title, p.CompanyName, p.Location, p.DepartmentTag} {
		if strings.Contains(strings.ToLower(field), needle) {
			return true
		}
	}
	return false
}

// postingOrder returns the listing order: company name, then title, then id.
// Names and titles use the same English collation as the company options, so
// "acme" sorts before "Zeta". Each call gets its own collator since
// collate.Collator is not safe for concurrent use.
func postingOrder() func(a, b Posting) bool {
	c := collate.New(language.English)
	return func(a, b Posting) bool {
		if n := c.CompareString(a.CompanyName, b.CompanyName); n != 0 {
			return n < 0
		}
		if n := c.CompareString(a.Title, b.Title); n != 0 {
			return n < 0
		}
		return a.ID < b.ID
	}
}
