package talent

import (
	"context"
	"sort"
	"sync"
	"time"
)

// Repository persists profiles and resumes. Create stores both atomically.
type Repository interface {
	Create(ctx context.Context, p Profile, resume *Resume) (Profile, error)
	List(ctx context.Context) ([]Profile, error)
	Resume(ctx context.Context, path string) (Resume, error)
}

var _ Repository = (*MemoryRepository)(nil)

// MemoryRepository is an in-memory Repository for tests and STORE_DRIVER=memory.
type MemoryRepository struct {
	mu       sync.RWMutex
	profiles []Profile
	resumes  map[string]Resume
	now      func() time.Time
}

// NewMemoryRepository returns an empty repository.
func NewMemoryRepository() *MemoryRepository {
	return &MemoryRepository{resumes: map[string]Resume{}, now: time.Now}
}

// Create implements Repository.
func (r *MemoryRepository) Create(ctx context.Context, p Profile, resume *Resume) (Profile, error) {
	if err := ctx.Err(); err != nil {
		return Profile{}, err
	}
	r.mu.Lock()
	defer r.mu.Unlock()

	if resume != nil {
		r.resumes[resume.Path] = *resume
	}
	p.CreatedAt = r.now().UTC()
	r.profiles = append(r.profiles, p)
	return p, nil
}

// List implements Repository.
func (r *MemoryRepository) List(ctx context.Context) ([]Profile, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	r.mu.RLock()
	out := append([]Profile(nil), r.profiles...)
	r.mu.RUnlock()

	// Newest first; insertion order breaks ties.
	for i, j := 0, len(out)-1; i < j; i, j = i+1, j-1 {
		out[i], out[j] = out[j], out[i]
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	if out == nil {
		out = []Profile{}
	}
	return out, nil
}

// Resume implements Repository.
func (r *MemoryRepository) Resume(ctx context.Context, path string) (Resume, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	res, ok := r.resumes[path]
	if !ok {
		return Resume{}, ErrNotFound
	}
	return res, nil
}
