package opf

import (
	"github.com/charmbracelet/log"

	"github.com/voltlab/gridopt/pkg/errors"
	"github.com/voltlab/gridopt/pkg/solver"
)

// algorithmEntry binds an algorithm selector to its formulation class and
// the backend that implements it.
type algorithmEntry struct {
	formulation solver.Formulation
	backend     string
}

// algorithmTable is the fixed selector-to-formulation lookup. Selectors
// absent from this table are fatal configuration errors. Adding a backend
// means adding a selector row here and registering the backend; nothing
// else branches on selectors.
var algorithmTable = map[int]algorithmEntry{
	AlgRestrictedPolyNL: {solver.FormulationRestrictedPoly, "nlcon"},
	AlgRestrictedPolyLP: {solver.FormulationRestrictedPoly, "lpqp"},
	AlgRestrictedPWLNL:  {solver.FormulationRestrictedPWL, "nlcon"},
	AlgRestrictedPWLLP:  {solver.FormulationRestrictedPWL, "lpqp"},
	AlgGeneralizedIPM:   {solver.FormulationGeneralized, "ipm"},
	AlgGeneralizedSQP:   {solver.FormulationGeneralized, "sqp"},
}

// FormulationFor maps an algorithm selector to its formulation class and
// backend name. Unknown selectors fail with UNKNOWN_ALGORITHM.
func FormulationFor(alg int) (solver.Formulation, string, error) {
	e, ok := algorithmTable[alg]
	if !ok {
		return solver.FormulationUnresolved, "", errors.New(errors.ErrCodeUnknownAlgorithm,
			"no formulation for algorithm selector %d", alg)
	}
	return e.formulation, e.backend, nil
}

// resolution is the dispatch decision for one invocation.
type resolution struct {
	algorithm   int
	formulation solver.Formulation
	backend     string
}

// resolveFormulation turns the options, the cost classification, and the
// registry's availability state into a dispatch decision, and validates
// that the combination is mathematically admissible.
//
// The DC flag short-circuits everything: no cost-model or algorithm
// resolution occurs on that path.
func resolveFormulation(opts *Options, cc CostClasses, constraints *solver.LinearConstraints, reg *solver.Registry, logger *log.Logger) (resolution, error) {
	if opts.DC {
		if !constraints.Empty() {
			return resolution{}, errors.New(errors.ErrCodeUnsupportedConstraints,
				"extra linear constraints require the generalized formulation, not DC")
		}
		if _, err := reg.Lookup("dc"); err != nil {
			return resolution{}, err
		}
		return resolution{formulation: solver.FormulationDC, backend: "dc"}, nil
	}

	alg := opts.Algorithm
	if alg == AlgAuto {
		alg = autoSelect(opts, cc, reg, logger)
	}

	formulation, backend, err := FormulationFor(alg)
	if err != nil {
		return resolution{}, err
	}

	// The polynomial-restricted formulation cannot represent piecewise
	// objectives. The reverse direction is handled by conversion, not
	// rejection; that asymmetry is deliberate.
	if cc.HasPiecewise() && formulation == solver.FormulationRestrictedPoly {
		return resolution{}, errors.New(errors.ErrCodeCostModelMismatch,
			"algorithm %d solves the polynomial-restricted formulation, which cannot represent piecewise-linear costs", alg)
	}

	if !constraints.Empty() && formulation != solver.FormulationGeneralized {
		return resolution{}, errors.New(errors.ErrCodeUnsupportedConstraints,
			"algorithm %d (%s formulation) does not accept extra linear constraints", alg, formulation)
	}

	// Availability is a hard failure before dispatch, never a silent
	// fallback to another backend.
	if _, err := reg.Lookup(backend); err != nil {
		return resolution{}, err
	}

	return resolution{algorithm: alg, formulation: formulation, backend: backend}, nil
}

// autoSelect picks an algorithm when the selector is unset: the
// generalized backends in preference order, then the configured default
// for the case's cost representation.
func autoSelect(opts *Options, cc CostClasses, reg *solver.Registry, logger *log.Logger) int {
	if reg.Has("ipm") {
		return AlgGeneralizedIPM
	}
	if reg.Has("sqp") {
		return AlgGeneralizedSQP
	}
	if cc.HasPiecewise() {
		if cc.HasPolynomial() {
			logger.Warn("mixed cost models with a piecewise-restricted default",
				"polynomial_rows", len(cc.Polynomial),
				"note", "polynomial costs will be converted to piecewise-linear approximations")
		}
		return opts.PWLAlgorithm
	}
	return opts.PolyAlgorithm
}
