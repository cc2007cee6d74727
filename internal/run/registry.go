// Package run tracks cancellation flags for in-flight scrape runs. A caller
// cancels a run by id through the API; the scrape engine only ever sees a
// boolean predicate bound to its own run id.
package run

import "sync"

// Registry stores cancellation flags keyed by caller-supplied run id
type Registry interface {
	// Cancel marks a run as cancelled
	Cancel(runID string) error

	// Cancelled reports whether a run has been cancelled
	Cancelled(runID string) bool

	// Clear removes a run's flag once the run has finished
	Clear(runID string) error
}

// Predicate binds a registry and run id into the cancel callback the scrape
// engine polls before every outbound request. An empty run id yields a
// predicate that never cancels.
func Predicate(reg Registry, runID string) func() bool {
	if reg == nil || runID == "" {
		return func() bool { return false }
	}
	return func() bool { return reg.Cancelled(runID) }
}

// MemoryRegistry implements Registry with an in-process map
type MemoryRegistry struct {
	mu    sync.Mutex
	flags map[string]struct{}
}

// NewMemoryRegistry creates a new in-memory registry
func NewMemoryRegistry() *MemoryRegistry {
	return &MemoryRegistry{flags: make(map[string]struct{})}
}

// Cancel marks a run as cancelled
func (r *MemoryRegistry) Cancel(runID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.flags[runID] = struct{}{}
	return nil
}

// Cancelled reports whether a run has been cancelled
func (r *MemoryRegistry) Cancelled(runID string) bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	_, ok := r.flags[runID]
	return ok
}

// Clear removes a run's flag
func (r *MemoryRegistry) Clear(runID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.flags, runID)
	return nil
}
