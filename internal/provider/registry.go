package provider

import (
	"fmt"
	"sort"
	"sync"
)

// Factory constructs an uninitialized provider.
type Factory func(opts Options) StatementProvider

// Registry is a thread-safe registry of provider constructors keyed by name.
type Registry struct {
	mu        sync.RWMutex
	factories map[string]Factory
}

// NewRegistry creates a new empty provider registry.
func NewRegistry() *Registry {
	return &Registry{
		factories: make(map[string]Factory),
	}
}

// Register adds a provider constructor. Duplicate registrations overwrite
// the previous entry.
func (r *Registry) Register(name string, f Factory) error {
	if name == "" {
		return fmt.Errorf("provider name cannot be empty")
	}
	if f == nil {
		return fmt.Errorf("provider %q: nil factory", name)
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	r.factories[name] = f
	return nil
}

// Unregister removes a provider constructor.
func (r *Registry) Unregister(name string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.factories, name)
}

// Names returns the registered provider names, sorted.
func (r *Registry) Names() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	names := make([]string, 0, len(r.factories))
	for name := range r.factories {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// New constructs the named provider. It does not call Init.
func (r *Registry) New(name string, opts Options) (StatementProvider, error) {
	r.mu.RLock()
	f, ok := r.factories[name]
	r.mu.RUnlock()

	if !ok {
		return nil, &ErrProviderNotFound{Name: name, Known: r.Names()}
	}
	return f(opts), nil
}

// global is the default global registry.
var global = NewRegistry()

// Global returns the default global provider registry.
func Global() *Registry {
	return global
}

// RegisterProvider adds a provider constructor to the global registry.
func RegisterProvider(name string, f Factory) error {
	return global.Register(name, f)
}
