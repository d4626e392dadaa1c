package jsonbourne

import (
	"log/slog"
	"slices"
	"sync"
)

// Registry holds the backends compiled into the binary, keyed by name.
// Each backend file registers itself from init(); which files are compiled
// is decided by build tags (nosonic, nogoccy, nojsoniter, nosegmentio), so
// availability is fixed at build time rather than probed at run time.
type Registry struct {
	mu       sync.RWMutex
	backends map[string]Backend
}

// NewRegistry creates a registry holding the given backends.
func NewRegistry(backends ...Backend) *Registry {
	r := &Registry{backends: make(map[string]Backend, len(backends))}
	for _, b := range backends {
		r.Register(b)
	}
	return r
}

var defaultRegistry = NewRegistry(stdBackend{})

// DefaultRegistry returns the package registry.
func DefaultRegistry() *Registry {
	return defaultRegistry
}

// Register adds a backend, replacing any backend with the same name.
func (r *Registry) Register(b Backend) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.backends[b.Name()] = b
}

// Get retrieves a backend by name.
// Returns the backend and true if found, or nil and false if not found.
func (r *Registry) Get(name string) (Backend, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	b, ok := r.backends[name]
	return b, ok
}

// Usable retrieves a backend by name only if it can run here.
func (r *Registry) Usable(name string) (Backend, bool) {
	b, ok := r.Get(name)
	if !ok || !b.Usable() {
		return nil, false
	}
	return b, true
}

// Names returns the sorted names of all registered backends.
func (r *Registry) Names() []string {
	r.mu.RLock()
	names := make([]string, 0, len(r.backends))
	for name := range r.backends {
		names = append(names, name)
	}
	r.mu.RUnlock()
	slices.Sort(names)
	return names
}

// Available returns the sorted names of registered backends that are usable.
func (r *Registry) Available() []string {
	var names []string
	for _, name := range r.Names() {
		if _, ok := r.Usable(name); ok {
			names = append(names, name)
		}
	}
	return names
}

// Import returns the first usable backend in preference order, or the
// stdlib backend when none is. It never fails.
func (r *Registry) Import(preference ...string) Backend {
	return importJSON(r, slog.Default(), preference)
}

func importJSON(r *Registry, logger *slog.Logger, preference []string) Backend {
	for _, name := range preference {
		if b, ok := r.Usable(name); ok {
			return b
		}
		logger.Debug("json backend unavailable, skipping", "backend", name)
	}
	if b, ok := r.Usable(Stdlib); ok {
		return b
	}
	return stdBackend{}
}

// Register adds a backend to the package registry.
func Register(b Backend) {
	defaultRegistry.Register(b)
}

// Lookup retrieves a backend from the package registry.
func Lookup(name string) (Backend, bool) {
	return defaultRegistry.Get(name)
}

// Backends returns the names of the usable backends in the package registry.
func Backends() []string {
	return defaultRegistry.Available()
}

// ImportJSON returns the first usable backend from the package registry in
// preference order (DefaultPreference when empty), falling back to the
// stdlib backend.
func ImportJSON(preference ...string) Backend {
	if len(preference) == 0 {
		preference = DefaultPreference
	}
	return defaultRegistry.Import(preference...)
}
