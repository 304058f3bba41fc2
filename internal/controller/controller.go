// Package controller owns one listing view: the current FilterState, the last
// good ResultPage and the loading flag. It turns user intents and history
// navigation into URL updates and asynchronous queries, and makes sure only
// the most recently issued query can change what is shown.
package controller

import (
	"context"
	"sync"

	"jobmate/directory-service/internal/listing"
	"jobmate/directory-service/pkg/logging"
)

// History is the address bar the controller keeps in sync with its state.
type History interface {
	// Location returns the current path and query, e.g. "/jobs?q=go".
	Location() string
	// Replace overwrites the current entry without adding a new one.
	Replace(location string)
}

// NoticeText is shown after a refresh failed and older results are kept.
const NoticeText = "Couldn't refresh results. Showing the last loaded jobs."

// Snapshot is a consistent copy of the controller state. Version increases by
// one on every change, so listeners can tell a newer snapshot from an older one.
type Snapshot struct {
	Filter    listing.FilterState
	Result    listing.ResultPage
	Companies []listing.CompanyOption
	Loading   bool
	Notice    string
	Version   uint64
}

// View renders the snapshot through the presentation slice.
func (s Snapshot) View(basePath string) listing.View {
	v := listing.BuildView(basePath, s.Filter, s.Result, s.Loading, s.Companies)
	v.Notice = s.Notice
	return v
}

// Options configures a Controller. Zero values are usable.
type Options struct {
	// BasePath prefixes every location written to History. Defaults to "/jobs".
	BasePath string
	Logger   *logging.Logger
	// OnChange receives every new snapshot in Version order. It runs on the
	// goroutine that caused the change and must not call back into intents.
	OnChange func(Snapshot)
}

// Controller is safe for concurrent use. All mutations replace the state
// wholesale under mu.
type Controller struct {
	exec     listing.Executor
	history  History
	basePath string
	log      *logging.Logger
	onChange func(Snapshot)

	mu        sync.Mutex
	filter    listing.FilterState
	result    listing.ResultPage
	companies []listing.CompanyOption
	loading   bool
	notice    string
	version   uint64
	seq       uint64 // last issued query
	closed    bool

	emitMu      sync.Mutex
	lastEmitted uint64

	inflight sync.WaitGroup
}

// New mounts a controller on seed. The seed already reflects the current
// location, so no query is issued and History is not touched.
func New(seed listing.Seed, exec listing.Executor, history History, opts Options) *Controller {
	if opts.BasePath == "" {
		opts.BasePath = listing.JobsPath
	}
	if opts.Logger == nil {
		opts.Logger = logging.NewNop()
	}

	result := seed.Result
	if result.Items == nil {
		result.Items = []listing.Posting{}
	}

	return &Controller{
		exec:      exec,
		history:   history,
		basePath:  opts.BasePath,
		log:       opts.Logger.With("component", "listing_controller"),
		onChange:  opts.OnChange,
		filter:    seed.Filter.Normalize(),
		result:    result,
		companies: seed.Companies,
	}
}

// ─── Intents ─────────────────────────────────────────────────────────────────
//
// Every intent reports whether it committed a new state. An intent that would
// produce the current state again, or arrives after Close, is a no-op.

// Dispatch applies i to the current state and commits the result.
func (c *Controller) Dispatch(i listing.Intent) bool {
	return c.update(i.Apply)
}

// SetDepartments replaces the department filter and returns to page 1.
func (c *Controller) SetDepartments(tags []string) bool {
	return c.Dispatch(listing.Intent{Kind: listing.IntentSetDepartments, Values: tags})
}

// SetCompanies replaces the company filter and returns to page 1.
func (c *Controller) SetCompanies(slugs []string) bool {
	return c.Dispatch(listing.Intent{Kind: listing.IntentSetCompanies, Values: slugs})
}

// SetSearch replaces the search text and returns to page 1.
func (c *Controller) SetSearch(text string) bool {
	return c.Dispatch(listing.Intent{Kind: listing.IntentSetSearch, Text: text})
}

// SetPage moves to page. Values below 1 become 1; there is no upper bound.
func (c *Controller) SetPage(page int) bool {
	return c.Dispatch(listing.Intent{Kind: listing.IntentSetPage, Page: page})
}

// ToggleDepartment selects tag, or deselects it when already selected.
func (c *Controller) ToggleDepartment(tag string) bool {
	return c.update(func(f listing.FilterState) listing.FilterState { return f.ToggleDepartment(tag) })
}

// ToggleCompany selects slug, or deselects it when already selected.
func (c *Controller) ToggleCompany(slug string) bool {
	return c.update(func(f listing.FilterState) listing.FilterState { return f.ToggleCompany(slug) })
}

// PopState handles back/forward navigation: the state is re-read from
// History and queried, but History is not written since it already holds
// the target location.
func (c *Controller) PopState() bool {
	f, err := listing.ParseLocation(c.history.Location())
	if err != nil {
		c.log.Debug("history location replaced by defaults", "err", err)
	}

	c.mu.Lock()
	if c.closed {
		c.mu.Unlock()
		return false
	}
	snap, id := c.commitLocked(f)
	c.mu.Unlock()

	c.emit(snap)
	c.fetch(id, f)
	return true
}

func (c *Controller) update(next func(listing.FilterState) listing.FilterState) bool {
	c.mu.Lock()
	if c.closed {
		c.mu.Unlock()
		return false
	}
	f := next(c.filter)
	if f.Equal(c.filter) {
		c.mu.Unlock()
		return false
	}
	snap, id := c.commitLocked(f)
	c.history.Replace(listing.Location(c.basePath, f))
	c.mu.Unlock()

	c.emit(snap)
	c.fetch(id, f)
	return true
}

// ─── Commit / resolve ────────────────────────────────────────────────────────

func (c *Controller) commitLocked(f listing.FilterState) (Snapshot, uint64) {
	c.seq++
	c.filter = f
	c.loading = true
	c.notice = ""
	c.version++
	return c.snapshotLocked(), c.seq
}

func (c *Controller) fetch(id uint64, f listing.FilterState) {
	c.inflight.Add(1)
	go func() {
		defer c.inflight.Done()

		// Close does not abort the request; its result is simply dropped.
		res, err := c.exec.Execute(context.Background(), f)
		c.resolve(id, res, err)
	}()
}

func (c *Controller) resolve(id uint64, res listing.ResultPage, err error) {
	c.mu.Lock()
	if c.closed || id != c.seq {
		latest := c.seq
		c.mu.Unlock()
		c.log.Debug("discarding stale listing result", "seq", id, "latest", latest)
		return
	}

	c.loading = false
	if err != nil {
		c.notice = NoticeText
		c.log.Warn("listing refresh failed, keeping last results", "err", err, "seq", id)
	} else {
		c.result = res
		c.notice = ""
	}
	c.version++
	snap := c.snapshotLocked()
	c.mu.Unlock()

	c.emit(snap)
}

func (c *Controller) emit(snap Snapshot) {
	if c.onChange == nil {
		return
	}
	c.emitMu.Lock()
	defer c.emitMu.Unlock()
	if snap.Version <= c.lastEmitted {
		return
	}
	c.lastEmitted = snap.Version
	c.onChange(snap)
}

// ─── Accessors ───────────────────────────────────────────────────────────────

// Snapshot returns the current state.
func (c *Controller) Snapshot() Snapshot {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.snapshotLocked()
}

func (c *Controller) snapshotLocked() Snapshot {
	return Snapshot{
		Filter:    c.filter,
		Result:    c.result,
		Companies: c.companies,
		Loading:   c.loading,
		Notice:    c.notice,
		Version:   c.version,
	}
}

// Wait blocks until every query issued so far has resolved.
func (c *Controller) Wait() {
	c.inflight.Wait()
}

// Close unmounts the controller. Queries still in flight run to completion
// but their results are ignored, and later intents are no-ops.
func (c *Controller) Close() {
	c.mu.Lock()
	c.closed = true
	c.mu.Unlock()
}
