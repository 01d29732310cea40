package shutdown

import (
	"context"
	"sort"
	"sync"
)

// Func is one cleanup step run during shutdown.
type Func func(ctx context.Context) error

type registryEntry struct {
	name     string
	fn       Func
	priority int
}

// Registry holds cleanup functions and runs them in priority order, lower
// priority first. Every function runs even when earlier ones fail.
type Registry struct {
	mu      sync.Mutex
	entries []registryEntry
	closed  bool
}

// NewRegistry creates an empty registry.
func NewRegistry() *Registry {
	return &Registry{}
}

// Register adds a cleanup function. Registration after Shutdown is a no-op.
//
// Priority convention: 0-9 flush logs, 10-19 close client connections,
// 20-29 stop background workers, 30+ close databases and files.
func (r *Registry) Register(name string, priority int, fn Func) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.closed {
		return
	}
	r.entries = append(r.entries, registryEntry{name: name, fn: fn, priority: priority})
}

// Shutdown runs every registered function in priority order and collects the
// failures. The registry is closed afterwards; a second call returns nil.
func (r *Registry) Shutdown(ctx context.Context) []error {
	r.mu.Lock()
	if r.closed {
		r.mu.Unlock()
		return nil
	}
	r.closed = true
	sorted := r.sortedLocked()
	r.mu.Unlock()

	var errs []error
	for _, entry := range sorted {
		if err := entry.fn(ctx); err != nil {
			errs = append(errs, err)
		}
	}
	return errs
}

// Names returns registered function names in priority order.
func (r *Registry) Names() []string {
	r.mu.Lock()
	sorted := r.sortedLocked()
	r.mu.Unlock()

	names := make([]string, len(sorted))
	for i, entry := range sorted {
		names[i] = entry.name
	}
	return names
}

// Count returns the number of registered functions.
func (r *Registry) Count() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.entries)
}

func (r *Registry) sortedLocked() []registryEntry {
	sorted := make([]registryEntry, len(r.entries))
	copy(sorted, r.entries)
	sort.Slice(sorted, func(i, j int) bool {
		return sorted[i].priority < sorted[j].priority
	})
	return sorted
}
