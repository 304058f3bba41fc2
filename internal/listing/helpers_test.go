package listing_test

import (
	"context"
	"errors"
	"fmt"
	"sync/atomic"
	"time"

	"jobmate/directory-service/internal/listing"
)

var errStoreDown = errors.New("store down")

var baseTime = time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)

func posting(id, title, company, dept, location string) listing.Posting {
	return listing.Posting{
		ID:            id,
		Title:         title,
		CompanyName:   company,
		CompanySlug:   slugify(company),
		DepartmentTag: dept,
		Location:      location,
		URL:           "https://jobs.example.com/" + id,
		CreatedAt:     baseTime,
	}
}

func slugify(name string) string {
	out := make([]rune, 0, len(name))
	for _, r := range name {
		switch {
		case r >= 'A' && r <= 'Z':
			out = append(out, r+('a'-'A'))
		case r == ' ':
			out = append(out, '-')
		default:
			out = append(out, r)
		}
	}
	return string(out)
}

// engineeringCatalogue holds 25 Engineering postings spread over three
// companies plus 5 postings in other departments.
func engineeringCatalogue() []listing.Posting {
	companies := []string{"Acme", "Brightline", "Cobalt"}
	var out []listing.Posting
	for i := 0; i < 25; i++ {
		out = append(out, posting(
			fmt.Sprintf("eng-%02d", i),
			fmt.Sprintf("Engineer %02d", i),
			companies[i%len(companies)],
			"Engineering",
			"Boston, MA",
		))
	}
	for i, dept := range []string{"Design", "Sales", "Product", "Data", "Legal"} {
		out = append(out, posting(fmt.Sprintf("other-%d", i), dept+" Lead", companies[i%len(companies)], dept, "Denver, CO"))
	}
	return out
}

// failingStore fails every call.
type failingStore struct{}

func (failingStore) Search(context.Context, listing.Criteria) ([]listing.Posting, int, error) {
	return nil, 0, errStoreDown
}

func (failingStore) CompanyRows(context.Context) ([]listing.CompanyOption, error) {
	return nil, errStoreDown
}

// countingStore wraps a Store and counts calls.
type countingStore struct {
	listing.Store
	searches  atomic.Int32
	companies atomic.Int32
}

func (s *countingStore) Search(ctx context.Context, c listing.Criteria) ([]listing.Posting, int, error) {
	s.searches.Add(1)
	return s.Store.Search(ctx, c)
}

func (s *countingStore) CompanyRows(ctx context.Context) ([]listing.CompanyOption, error) {
	s.companies.Add(1)
	return s.Store.CompanyRows(ctx)
}
