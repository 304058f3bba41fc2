package listing

import (
	"context"
	"sort"
	"sync"
)

var _ Store = (*MemoryStore)(nil)

// MemoryStore is an in-memory Store. Safe for concurrent access. Used for
// tests and for running the service without Postgres (STORE_DRIVER=memory).
type MemoryStore struct {
	mu       sync.RWMutex
	postings []Posting
}

// NewMemoryStore returns a store holding postings in insertion order.
func NewMemoryStore(postings ...Posting) *MemoryStore {
	s := &MemoryStore{}
	s.Add(postings...)
	return s
}

// Add appends postings.
func (s *MemoryStore) Add(postings ...Posting) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.postings = append(s.postings, postings...)
}

// Search implements Store.
func (s *MemoryStore) Search(ctx context.Context, c Criteria) ([]Posting, int, error) {
	if err := ctx.Err(); err != nil {
		return nil, 0, err
	}

	s.mu.RLock()
	matched := make([]Posting, 0, len(s.postings))
	for _, p := range s.postings {
		if c.Matches(p) {
			matched = append(matched, p)
		}
	}
	s.mu.RUnlock()

	less := postingOrder()
	sort.SliceStable(matched, func(i, j int) bool { return less(matched[i], matched[j]) })

	total := len(matched)
	start := c.Offset
	if start < 0 {
		start = 0
	}
	if start > total {
		start = total
	}
	end := total
	if c.Limit > 0 && start+c.Limit < end {
		end = start + c.Limit
	}

	page := make([]Posting, end-start)
	copy(page, matched[start:end])
	return page, total, nil
}

// CompanyRows implements Store.
func (s *MemoryStore) CompanyRows(ctx context.Context) ([]CompanyOption, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	s.mu.RLock()
	defer s.mu.RUnlock()
	rows := make([]CompanyOption, 0, len(s.postings))
	for _, p := range s.postings {
		rows = append(rows, CompanyOption{Slug: p.CompanySlug, Name: p.CompanyName})
	}
	return rows, nil
}
