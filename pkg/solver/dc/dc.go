// Package dc implements the DC-linearized OPF backend.
//
// The DC formulation ignores reactive power and voltage magnitudes: the
// backend dispatches active output against total demand, recovers bus
// angles from the B-theta linearization, and computes branch flows. It
// never evaluates the nonlinear constraint functions, so its solutions
// carry no constraint values or Jacobian; the pipeline normalizes those to
// empty.
package dc

import (
	"context"

	"github.com/voltlab/gridopt/pkg/solver"
	"github.com/voltlab/gridopt/pkg/solver/econ"
)

// Name is the registry key for this backend.
const Name = "dc"

// Backend solves the DC formulation. It is built in and always available.
type Backend struct{}

// New returns the DC backend.
func New() *Backend { return &Backend{} }

// Name implements solver.Backend.
func (*Backend) Name() string { return Name }

// Formulations implements solver.Backend.
func (*Backend) Formulations() []solver.Formulation {
	return []solver.Formulation{solver.FormulationDC}
}

// Available implements solver.Backend.
func (*Backend) Available() bool { return true }

// Solve implements solver.Backend.
func (*Backend) Solve(ctx context.Context, p *solver.Problem) (*solver.Solution, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return econ.RunAC(p, econ.ACConfig{})
}

func init() {
	solver.Default().Register(New())
}
