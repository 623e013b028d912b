package platform

import (
	"sync"

	"github.com/thoreinstein/applink/internal/errors"
	"github.com/thoreinstein/applink/internal/paths"
)

// Sentinel errors for registry operations.
var (
	// ErrPlatformAlreadyRegistered is returned when an adapter with the same
	// name is already registered.
	ErrPlatformAlreadyRegistered = errors.New("platform already registered")

	// ErrInvalidPlatformName is returned when an adapter's name is not a
	// known platform.
	ErrInvalidPlatformName = errors.New("invalid platform name")
)

// Registry holds adapters by platform name.
// It is safe for concurrent use.
type Registry struct {
	mu       sync.RWMutex
	adapters map[string]Adapter
}

// NewRegistry creates an empty registry.
func NewRegistry() *Registry {
	return &Registry{adapters: make(map[string]Adapter)}
}

// Register adds an adapter.
func (r *Registry) Register(a Adapter) error {
	if !paths.ValidPlatform(a.Name()) {
		return errors.Wrapf(ErrInvalidPlatformName, "%q", a.Name())
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.adapters[a.Name()]; exists {
		return errors.Wrapf(ErrPlatformAlreadyRegistered, "%q", a.Name())
	}
	r.adapters[a.Name()] = a
	return nil
}

// Get returns the adapter registered for name.
func (r *Registry) Get(name string) (Adapter, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	a, ok := r.adapters[name]
	return a, ok
}

// All returns registered adapters in link order (android before ios).
func (r *Registry) All() []Adapter {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]Adapter, 0, len(r.adapters))
	for _, name := range paths.Platforms() {
		if a, ok := r.adapters[name]; ok {
			out = append(out, a)
		}
	}
	return out
}

// Only returns the registered adapters named in names, in link order.
// An empty names selects every adapter.
func (r *Registry) Only(names ...string) ([]Adapter, error) {
	if len(names) == 0 {
		return r.All(), nil
	}
	want := make(map[string]bool, len(names))
	for _, n := range names {
		if _, ok := r.Get(n); !ok {
			return nil, errors.Wrapf(ErrInvalidPlatformName, "%q", n)
		}
		want[n] = true
	}
	var out []Adapter
	for _, a := range r.All() {
		if want[a.Name()] {
			out = append(out, a)
		}
	}
	return out, nil
}
