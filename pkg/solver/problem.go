package solver

import (
	"gonum.org/v1/gonum/mat"

	"github.com/voltlab/gridopt/pkg/errors"
	"github.com/voltlab/gridopt/pkg/grid"
)

// =============================================================================
// Linear Constraints
// =============================================================================

// Nonzero is one entry of a sparse coefficient matrix in triplet form.
type Nonzero struct {
	Row int     `json:"row" bson:"row"`
	Col int     `json:"col" bson:"col"`
	Val float64 `json:"val" bson:"val"`
}

// LinearConstraints is a caller-supplied set of extra linear constraints
// lower ≤ A·x ≤ upper over the full decision vector. The zero value means
// "no extra constraints" (0 rows, empty bounds).
type LinearConstraints struct {
	N       int       `json:"n" bson:"n"` // row count of A
	Entries []Nonzero `json:"entries,omitempty" bson:"entries,omitempty"`
	Lower   []float64 `json:"lower,omitempty" bson:"lower,omitempty"`
	Upper   []float64 `json:"upper,omitempty" bson:"upper,omitempty"`
}

// Empty reports whether the constraint set has no rows.
func (lc *LinearConstraints) Empty() bool { return lc == nil || lc.N == 0 }

// Validate checks internal consistency: bound vectors matching the row
// count and entries within range.
func (lc *LinearConstraints) Validate(numVars int) error {
	if lc.Empty() {
		return nil
	}
	if len(lc.Lower) != lc.N || len(lc.Upper) != lc.N {
		return errors.New(errors.ErrCodeInvalidConstraints,
			"constraint bounds have %d/%d rows for a %d-row matrix", len(lc.Lower), len(lc.Upper), lc.N)
	}
	for _, e := range lc.Entries {
		if e.Row < 0 || e.Row >= lc.N {
			return errors.New(errors.ErrCodeInvalidConstraints, "constraint entry row %d out of range [0,%d)", e.Row, lc.N)
		}
		if e.Col < 0 || e.Col >= numVars {
			return errors.New(errors.ErrCodeInvalidConstraints, "constraint entry col %d out of range [0,%d)", e.Col, numVars)
		}
	}
	for i := 0; i < lc.N; i++ {
		if lc.Lower[i] > lc.Upper[i] {
			return errors.New(errors.ErrCodeInvalidConstraints, "constraint row %d has lower %g > upper %g", i, lc.Lower[i], lc.Upper[i])
		}
	}
	return nil
}

// Dense materializes A as a dense matrix with numVars columns. Returns a
// 0×0 matrix for an empty set.
func (lc *LinearConstraints) Dense(numVars int) *mat.Dense {
	if lc.Empty() {
		return &mat.Dense{}
	}
	a := mat.NewDense(lc.N, numVars, nil)
	for _, e := range lc.Entries {
		a.Set(e.Row, e.Col, a.At(e.Row, e.Col)+e.Val)
	}
	return a
}

// Row evaluates row i of A·x.
func (lc *LinearConstraints) Row(i int, x []float64) float64 {
	var v float64
	for _, e := range lc.Entries {
		if e.Row == i {
			v += e.Val * x[e.Col]
		}
	}
	return v
}

// =============================================================================
// Problem and Solution
// =============================================================================

// Problem is the normalized parameter set handed to a backend: the case
// (already cloned by the pipeline), the cost table after any conversion,
// the extra constraints (generalized formulations only), and the forwarded
// solver settings.
type Problem struct {
	Case        *grid.Case
	Costs       []grid.Cost // post-conversion cost table; len(Case.Gens) or doubled
	Constraints LinearConstraints

	// MaxIterations caps backend iterations; zero means the backend's
	// default. Forwarded, never interpreted by the pipeline.
	MaxIterations int

	// Verbosity is the caller's verbosity level, forwarded for backend
	// diagnostics.
	Verbosity int
}

// NumVars returns the length of the full decision vector
// [Va(nb); Vm(nb); Pg(ng); Qg(ng)].
func (p *Problem) NumVars() int {
	return 2*len(p.Case.Buses) + 2*len(p.Case.Gens)
}

// CostFor returns the active-power cost row for generator i, and the
// reactive-power row when the table is doubled (ok reports presence).
func (p *Problem) CostFor(i int) (pCost grid.Cost, qCost grid.Cost, hasQ bool) {
	pCost = p.Costs[i]
	if len(p.Costs) == 2*len(p.Case.Gens) {
		return pCost, p.Costs[len(p.Case.Gens)+i], true
	}
	return pCost, grid.Cost{}, false
}

// Solution is the normalized backend result. Converged=false with a status
// code is the contract for solve-time failure; the tables then hold the
// backend's last iterate, not a guaranteed feasible point.
type Solution struct {
	Case      *grid.Case // solved copy with bus/gen/branch solution fields filled
	Objective float64
	Converged bool
	Status    int // backend-specific status code
	Iterations int

	// ConstraintValues and Jacobian describe the nonlinear constraint
	// state at the final iterate. Backends that never compute them (the DC
	// family) leave them nil; the pipeline normalizes nil to allocated
	// empty values.
	ConstraintValues []float64
	Jacobian         *mat.Dense
}

// Common backend status codes. Backends may refine these but 0 must always
// mean "did not converge".
const (
	StatusFailed    = 0
	StatusConverged = 1
)
