// Package sqp implements the secondary generalized OPF backend, a
// sequential-quadratic-programming-flavored engine. It is tried by
// automatic algorithm selection when the ipm backend is unavailable, and
// accepts the same generalized constraint sets.
//
// Compared to ipm it runs fewer, heavier projection sweeps, which is the
// historical behavior of the engine it stands in for.
package sqp

import (
	"context"

	"github.com/voltlab/gridopt/pkg/solver"
	"github.com/voltlab/gridopt/pkg/solver/econ"
)

// Name is the registry key for this backend.
const Name = "sqp"

// penaltyRounds bounds the constraint-projection sweeps per solve.
const penaltyRounds = 8

// Backend solves generalized AC formulations.
type Backend struct{}

// New returns the sqp backend.
func New() *Backend { return &Backend{} }

// Name implements solver.Backend.
func (*Backend) Name() string { return Name }

// Formulations implements solver.Backend.
func (*Backend) Formulations() []solver.Formulation {
	return []solver.Formulation{
		solver.FormulationGeneralized,
		solver.FormulationRestrictedPoly,
		solver.FormulationRestrictedPWL,
	}
}

// Available implements solver.Backend.
func (*Backend) Available() bool { return true }

// Solve implements solver.Backend.
func (*Backend) Solve(ctx context.Context, p *solver.Problem) (*solver.Solution, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return econ.RunAC(p, econ.ACConfig{
		EnforceConstraints: true,
		PenaltyRounds:      penaltyRounds,
		ReportBalance:      true,
		UseReactive:        true,
	})
}

func init() {
	solver.Default().Register(New())
}
