// Package browser is a terminal client for the job listing. It embeds the
// listing controller, talks to the directory service over HTTP or gRPC and
// keeps an in-memory address bar with back/forward history.
package browser

import "sync"

// AddressBar is an in-memory session history. It implements
// controller.History.
type AddressBar struct {
	mu      sync.Mutex
	entries []string
	current int
}

// NewAddressBar starts a history with a single entry.
func NewAddressBar(initial string) *AddressBar {
	return &AddressBar{entries: []string{initial}}
}

// Location returns the current entry.
func (b *AddressBar) Location() string {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.entries[b.current]
}

// Replace overwrites the current entry.
func (b *AddressBar) Replace(location string) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.entries[b.current] = location
}

// Push adds a new entry after the current one and drops any forward entries.
func (b *AddressBar) Push(location string) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.entries = append(b.entries[:b.current+1], location)
	b.current++
}

// Back moves to the previous entry. It reports false at the first entry.
func (b *AddressBar) Back() bool {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.current == 0 {
		return false
	}
	b.current--
	return true
}

// Forward moves to the next entry. It reports false at the last entry.
func (b *AddressBar) Forward() bool {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.current == len(b.entries)-1 {
		return false
	}
	b.current++
	return true
}

// Entries returns a copy of the history and the index of the current entry.
func (b *AddressBar) Entries() ([]string, int) {
	b.mu.Lock()
	defer b.mu.Unlock()
	return append([]string(nil), b.entries...), b.current
}
