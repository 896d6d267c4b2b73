// Package lpqp implements the restricted LP/QP OPF backend: a successive
// linearization engine covering the same formulation classes as nlcon with
// a tighter default iteration budget. Piecewise objectives are its native
// territory; polynomial objectives are handled through their monotone
// marginal envelope.
package lpqp

import (
	"context"

	"github.com/voltlab/gridopt/pkg/errors"
	"github.com/voltlab/gridopt/pkg/solver"
	"github.com/voltlab/gridopt/pkg/solver/econ"
)

// Name is the registry key for this backend.
const Name = "lpqp"

// defaultIterations is the successive-linearization budget when the caller
// forwards no cap.
const defaultIterations = 40

// Backend solves restricted AC formulations by successive LP/QP.
type Backend struct{}

// New returns the lpqp backend.
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
		return nil, errors.New(errors.ErrCodeUnsupportedConstraints,
			"backend %q does not accept extra linear constraints", Name)
	}
	run := *p
	if run.MaxIterations == 0 {
		run.MaxIterations = defaultIterations
	}
	return econ.RunAC(&run, econ.ACConfig{
		ReportBalance: true,
		UseReactive:   true,
	})
}

func init() {
	solver.Default().Register(New())
}
