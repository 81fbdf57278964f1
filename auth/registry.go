package auth

import (
	"fmt"
	"sync"
)

// Registry is a thread-safe registry of named Strategy instances.
// The HTTP layer registers its strategies once at startup and resolves
// them per request.
//
// Usage:
//
//	reg := auth.NewRegistry()
//	reg.Register(oidcStrategy)
//	reg.SetDefault("oidc")
type Registry struct {
	mu          sync.RWMutex
	strategies  map[string]Strategy
	defaultName string
}

// NewRegistry creates a new empty Registry.
func NewRegistry() *Registry {
	return &Registry{
		strategies: make(map[string]Strategy),
	}
}

// Register adds a Strategy to the registry under its own name.
// If this is the first strategy registered, it becomes the default.
func (r *Registry) Register(s Strategy) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.strategies[s.Name()] = s
	if r.defaultName == "" {
		r.defaultName = s.Name()
	}
}

// Get returns the Strategy registered under the given name.
func (r *Registry) Get(name string) (Strategy, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	s, ok := r.strategies[name]
	return s, ok
}

// MustGet returns the Strategy registered under the given name.
// Panics if the name is not registered.
func (r *Registry) MustGet(name string) Strategy {
	s, ok := r.Get(name)
	if !ok {
		panic(fmt.Sprintf("auth: strategy %q not registered", name))
	}
	return s
}

// Default returns the default Strategy.
// The default is the first registered strategy unless overridden with SetDefault.
func (r *Registry) Default() (Strategy, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	if r.defaultName == "" {
		return nil, false
	}
	s, ok := r.strategies[r.defaultName]
	return s, ok
}

// SetDefault sets the default strategy by name.
// The name must already be registered.
func (r *Registry) SetDefault(name string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.strategies[name]; !ok {
		return fmt.Errorf("auth: strategy %q not registered", name)
	}
	r.defaultName = name
	return nil
}

// Names returns all registered strategy names.
func (r *Registry) Names() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	names := make([]string, 0, len(r.strategies))
	for name := range r.strategies {
		names = append(names, name)
	}
	return names
}
