// Package ipm implements the primary generalized OPF backend, an
// interior-point-flavored engine accepting arbitrary extra linear
// constraints on the full decision vector.
//
// This is the first backend tried by automatic algorithm selection. It
// covers every AC formulation class, so explicit restricted selections can
// also land here when configured.
package ipm

import (
	"context"

	"github.com/voltlab/gridopt/pkg/solver"
	"github.com/voltlab/gridopt/pkg/solver/econ"
)

// Name is the registry key for this backend.
const Name = "ipm"

// penaltyRounds bounds the constraint-projection sweeps per solve.
const penaltyRounds = 20

// Backend solves generalized AC formulations.
type Backend struct{}

// New returns the ipm backend.
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
