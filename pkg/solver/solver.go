package solver

import (
	"context"
	"sort"
	"sync"

	"github.com/voltlab/gridopt/pkg/errors"
)

// =============================================================================
// Formulation Classes
// =============================================================================

// Formulation is the class of OPF formulation a backend solves.
type Formulation int

const (
	// FormulationUnresolved is the pre-dispatch zero value.
	FormulationUnresolved Formulation = iota

	// FormulationDC is the linearized DC formulation.
	FormulationDC

	// FormulationRestrictedPoly is the AC formulation restricted to
	// polynomial cost objectives.
	FormulationRestrictedPoly

	// FormulationRestrictedPWL is the AC formulation restricted to
	// piecewise-linear cost objectives.
	FormulationRestrictedPWL

	// FormulationGeneralized is the AC formulation supporting arbitrary
	// extra linear constraints on the full decision vector.
	FormulationGeneralized
)

// String returns the canonical name of the formulation class.
func (f Formulation) String() string {
	switch f {
	case FormulationDC:
		return "dc"
	case FormulationRestrictedPoly:
		return "restricted-polynomial"
	case FormulationRestrictedPWL:
		return "restricted-piecewise"
	case FormulationGeneralized:
		return "generalized"
	}
	return "unresolved"
}

// =============================================================================
// Backend
// =============================================================================

// Backend is one external solver engine. Implementations must be safe for
// concurrent use; Solve is synchronous and blocks until the backend
// returns.
type Backend interface {
	// Name returns the registry key for this backend (e.g. "ipm", "dc").
	Name() string

	// Formulations returns the formulation classes this backend can solve.
	Formulations() []Formulation

	// Available probes whether the backend can run in this process. The
	// registry caches the answer for the process lifetime.
	Available() bool

	// Solve runs the backend on the normalized problem. A solve that ran
	// but failed to converge returns a Solution with Converged=false and
	// a nil error.
	Solve(ctx context.Context, p *Problem) (*Solution, error)
}

// =============================================================================
// Registry
// =============================================================================

// Registry is a capability-checked set of backends. Lookups check cached
// availability, so a missing external engine surfaces as
// BACKEND_UNAVAILABLE before dispatch rather than mid-solve.
type Registry struct {
	mu        sync.RWMutex
	backends  map[string]Backend
	available map[string]bool // availability probe cache
}

// NewRegistry returns an empty registry.
func NewRegistry() *Registry {
	return &Registry{
		backends:  make(map[string]Backend),
		available: make(map[string]bool),
	}
}

// Register adds or replaces a backend. The availability probe is re-run on
// the next lookup.
func (r *Registry) Register(b Backend) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.backends[b.Name()] = b
	delete(r.available, b.Name())
}

// Deregister removes a backend by name. Used by tests and by embedders
// that disable engines.
func (r *Registry) Deregister(name string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.backends, name)
	delete(r.available, name)
}

// Has reports whether a backend is registered and available.
func (r *Registry) Has(name string) bool {
	_, err := r.Lookup(name)
	return err == nil
}

// Lookup returns the named backend if it is registered and its availability
// probe passes.
func (r *Registry) Lookup(name string) (Backend, error) {
	r.mu.RLock()
	b, ok := r.backends[name]
	avail, probed := r.available[name]
	r.mu.RUnlock()

	if !ok {
		return nil, errors.New(errors.ErrCodeBackendUnavailable, "solver backend %q is not installed", name)
	}
	if !probed {
		avail = b.Available()
		r.mu.Lock()
		r.available[name] = avail
		r.mu.Unlock()
	}
	if !avail {
		return nil, errors.New(errors.ErrCodeBackendUnavailable, "solver backend %q is installed but unavailable", name)
	}
	return b, nil
}

// Names returns the registered backend names in sorted order.
func (r *Registry) Names() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	names := make([]string, 0, len(r.backends))
	for name := range r.backends {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// defaultRegistry is the process-wide registry backends register into.
var defaultRegistry = NewRegistry()

// Default returns the process-wide registry.
func Default() *Registry { return defaultRegistry }
