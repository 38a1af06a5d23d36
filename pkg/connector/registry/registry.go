// Package registry maps vendor names to connector factories. A registry is
// an explicit object constructed at process start; there is no package-level
// global, so tests and embedders can build isolated registries.
package registry

import (
	"fmt"
	"sort"
	"sync"

	"github.com/yass1337/hrflow-connectors/pkg/config"
	"github.com/yass1337/hrflow-connectors/pkg/connector/core"
	"github.com/yass1337/hrflow-connectors/pkg/errors"
)

// Registry holds the known connector factories.
type Registry struct {
	mu        sync.RWMutex
	factories map[string]core.Factory
}

// New creates an empty registry.
func New() *Registry {
	return &Registry{
		factories: make(map[string]core.Factory),
	}
}

// Register adds a factory under a vendor name. Registering the same name
// twice is an error.
func (r *Registry) Register(name string, factory core.Factory) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.factories[name]; exists {
		return errors.New(errors.ErrorTypeConfig, fmt.Sprintf("connector %q already registered", name))
	}
	r.factories[name] = factory
	return nil
}

// MustRegister is Register that panics on error, for process-start wiring.
func (r *Registry) MustRegister(name string, factory core.Factory) {
	if err := r.Register(name, factory); err != nil {
		panic(err)
	}
}

// Create builds a connector for the vendor named in the configuration.
func (r *Registry) Create(cfg *config.Config) (core.Connector, error) {
	r.mu.RLock()
	factory, ok := r.factories[cfg.Vendor]
	r.mu.RUnlock()

	if !ok {
		return nil, errors.New(errors.ErrorTypeConfig, fmt.Sprintf("unknown vendor %q", cfg.Vendor))
	}
	return factory(cfg)
}

// Names returns the registered vendor names, sorted.
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
