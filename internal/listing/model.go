// Package listing implements the filtered, paginated job directory: the
// FilterState and its URL contract, the stores that answer listing queries,
// the query executor, the initial loader and the presentation view model.
package listing

import (
	"sort"
	"time"

	"golang.org/x/text/collate"
	"golang.org/x/text/language"
)

// PageSize is the number of postings per result page. Shared by the initial
// loader and every executor so that page numbers mean the same thing everywhere.
const PageSize = 20

// Posting is a live job posting as exposed by the store. Read-only.
type Posting struct {
	ID            string    `json:"id"`
	Title         string    `json:"title"`
	CompanyName   string    `json:"companyName"`
	CompanySlug   string    `json:"companySlug"`
	DepartmentTag string    `json:"departmentTag"`
	Location      string    `json:"location"`
	URL           string    `json:"url"`
	CreatedAt     time.Time `json:"createdAt"`
}

// ResultPage is one page of postings (company name, then title, ascending)
// plus the total number of matching postings before pagination.
type ResultPage struct {
	Items      []Posting `json:"items"`
	TotalCount int       `json:"totalCount"`
}

// TotalPages is ceil(TotalCount / PageSize).
func (p ResultPage) TotalPages() int { return TotalPages(p.TotalCount) }

// TotalPages returns the number of pages needed to show total postings.
func TotalPages(total int) int {
	if total <= 0 {
		return 0
	}
	return (total + PageSize - 1) / PageSize
}

// CompanyOption is one entry of the company filter.
type CompanyOption struct {
	Slug string `json:"slug"`
	Name string `json:"name"`
}

// DeriveCompanyOptions deduplicates rows by slug (the first name seen for a
// slug wins) and orders the result by name using English collation.
func DeriveCompanyOptions(rows []CompanyOption) []CompanyOption {
	seen := make(map[string]struct{}, len(rows))
	out := make([]CompanyOption, 0, len(rows))
	for _, r := range rows {
		if r.Slug == "" {
			continue
		}
		if _, ok := seen[r.Slug]; ok {
			continue
		}
		seen[r.Slug] = struct{}{}
		out = append(out, r)
	}

	// collate.Collator is not safe for concurrent use.
	c := collate.New(language.English)
	sort.SliceStable(out, func(i, j int) bool {
		return c.CompareString(out[i].Name, out[j].Name) < 0
	})
	return out
}
