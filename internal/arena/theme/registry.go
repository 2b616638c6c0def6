package theme

import (
	"sort"
	"sync"

	"github.com/rs/zerolog"
)

// Registry is an identifier-to-theme lookup. It is an explicitly constructed
// instance, not process-wide state, so parallel tests and multiple server
// instances never share mutable registrations.
type Registry struct {
	mu      sync.RWMutex
	modules map[string]Module
	logger  zerolog.Logger
}

// NewRegistry creates an empty registry.
func NewRegistry(logger zerolog.Logger) *Registry {
	return &Registry{
		modules: make(map[string]Module),
		logger:  logger,
	}
}

// NewDefaultRegistry returns a registry with the built-in themes registered.
func NewDefaultRegistry(logger zerolog.Logger) *Registry {
	r := NewRegistry(logger)
	r.Register(NewLightYourCity())
	r.Register(NewRocketRace())
	return r
}

// Register adds a theme. Re-registering an identifier overwrites the previous
// entry with a non-fatal warning.
func (r *Registry) Register(m Module) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, exists := r.modules[m.ID()]; exists {
		r.logger.Warn().Str("theme_id", m.ID()).Msg("theme re-registered, overwriting previous entry")
	}
	r.modules[m.ID()] = m
}

// Get returns the theme for an identifier.
func (r *Registry) Get(id string) (Module, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	m, ok := r.modules[id]
	return m, ok
}

// Has reports whether an identifier is registered.
func (r *Registry) Has(id string) bool {
	r.mu.RLock()
	defer r.mu.RUnlock()
	_, ok := r.modules[id]
	return ok
}

// List returns the registered identifiers, sorted.
func (r *Registry) List() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	ids := make([]string, 0, len(r.modules))
	for id := range r.modules {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}

// Clear removes every registration. Intended for test isolation.
func (r *Registry) Clear() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.modules = make(map[string]Module)
}
