// Package nlcon implements the restricted nonlinear OPF backend. It solves
// the AC formulation for a single cost representation per invocation
// (polynomial or piecewise-linear) and rejects extra linear constraints;
// callers needing those must use a generalized backend.
package nlcon

import (
	"context"

	"github.com/voltlab/gridopt/pkg/errors"
	"github.com/voltlab/gridopt/pkg/solver"
	"github.com/voltlab/gridopt/pkg/solver/econ"
)

// Name is the registry key for this backend.
const Name = "nlcon"

// Backend solves restricted AC formulations.
type Backend struct{}

// New returns the nlcon backend.
func New() *Backend { return &Backend{} }

// Name implements solver.Backend.
func (*Backend) Name() string { return Name }

// Formulations implements solver.Backend.
func (*Backend) Formulations() []solver.Formulation {
	return []solver.Formulation{
		solver.FormulationRestrictedPoly,
		solver.FormulationRestrictedPWL,
	}
}

// Available implements solver.Backend.
func (*Backend) Available() bool { return true }

// Solve implements solver.Backend.
func (b *Backend) Solve(ctx context.Context, p *solver.Problem) (*solver.Solution, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if !p.Constraints.Empty() {
		// The dispatcher validates this before calling; defense for
		// direct backend users.
		return nil, errors.New(errors.ErrCodeUnsupportedConstraints,
			"backend %q does not accept extra linear constraints", Name)
	}
	return econ.RunAC(p, econ.ACConfig{
		ReportBalance: true,
		UseReactive:   true,
	})
}

func init() {
	solver.Default().Register(New())
}
