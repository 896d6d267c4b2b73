package opf

import (
	"io"

	"github.com/charmbracelet/log"

	"github.com/voltlab/gridopt/pkg/errors"
)

// =============================================================================
// Algorithm Selectors
// =============================================================================

// Algorithm selector codes. The numeric values are part of the external
// options contract and must not be renumbered; the formulation each code
// resolves to lives in the lookup table in formulation.go.
const (
	// AlgAuto selects an algorithm automatically from backend
	// availability and the case's cost models.
	AlgAuto = 0

	// AlgRestrictedPolyNL solves the polynomial-restricted AC formulation
	// on the nonlinear backend.
	AlgRestrictedPolyNL = 100

	// AlgRestrictedPolyLP solves the polynomial-restricted AC formulation
	// on the successive LP/QP backend.
	AlgRestrictedPolyLP = 120

	// AlgRestrictedPWLNL solves the piecewise-restricted AC formulation
	// on the nonlinear backend.
	AlgRestrictedPWLNL = 200

	// AlgRestrictedPWLLP solves the piecewise-restricted AC formulation
	// on the successive LP/QP backend.
	AlgRestrictedPWLLP = 220

	// AlgGeneralizedIPM solves the generalized formulation on the
	// interior-point backend.
	AlgGeneralizedIPM = 500

	// AlgGeneralizedSQP solves the generalized formulation on the
	// sequential-quadratic backend.
	AlgGeneralizedSQP = 520
)

// DefaultBreakpoints is the piecewise refit resolution when the caller
// sets none.
const DefaultBreakpoints = 10

// =============================================================================
// Options
// =============================================================================

// Options contains all configuration for a solve. This struct supports
// JSON serialization for API requests.
type Options struct {
	// DC selects the DC-linearized formulation; cost-model analysis and
	// algorithm resolution are skipped entirely.
	DC bool `json:"dc,omitempty"`

	// Algorithm is the explicit algorithm selector; AlgAuto (0) selects
	// automatically.
	Algorithm int `json:"algorithm,omitempty"`

	// PolyAlgorithm is the automatic choice when every active generator
	// has polynomial cost and no generalized backend is available.
	PolyAlgorithm int `json:"poly_algorithm,omitempty"`

	// PWLAlgorithm is the automatic choice when any active generator has
	// piecewise-linear cost and no generalized backend is available.
	PWLAlgorithm int `json:"pwl_algorithm,omitempty"`

	// Breakpoints is the breakpoint count for polynomial-to-piecewise
	// conversion.
	Breakpoints int `json:"breakpoints,omitempty"`

	// Verbosity is the log/report verbosity level (0 = quiet).
	Verbosity int `json:"verbosity,omitempty"`

	// MaxIterations is forwarded to the backend, never interpreted here;
	// zero means the backend default.
	MaxIterations int `json:"max_iterations,omitempty"`

	// Refresh bypasses the solve cache.
	Refresh bool `json:"refresh,omitempty"`

	// Runtime options (not serialized)
	Logger   *log.Logger `json:"-"`
	Reporter Reporter    `json:"-"`

	// validated tracks whether ValidateAndSetDefaults has been called.
	validated bool `json:"-"`
}

// ValidateAndSetDefaults checks fields and applies defaults. This method
// is idempotent - calling it multiple times has the same effect as calling
// it once.
func (o *Options) ValidateAndSetDefaults() error {
	if o.validated {
		return nil
	}
	if o.Algorithm < 0 {
		return errors.New(errors.ErrCodeInvalidOptions, "algorithm selector must be non-negative, got %d", o.Algorithm)
	}
	if o.PolyAlgorithm == 0 {
		o.PolyAlgorithm = AlgRestrictedPolyNL
	}
	if o.PWLAlgorithm == 0 {
		o.PWLAlgorithm = AlgRestrictedPWLNL
	}
	if o.Breakpoints == 0 {
		o.Breakpoints = DefaultBreakpoints
	}
	if o.Breakpoints < 2 {
		return errors.New(errors.ErrCodeInvalidOptions, "breakpoint count must be at least 2, got %d", o.Breakpoints)
	}
	if o.MaxIterations < 0 {
		return errors.New(errors.ErrCodeInvalidOptions, "iteration cap must be non-negative, got %d", o.MaxIterations)
	}
	if o.Logger == nil {
		o.Logger = log.NewWithOptions(io.Discard, log.Options{})
	}
	o.validated = true
	return nil
}

// =============================================================================
// Legacy Options Vector
// =============================================================================

// Indices of the flat options vector consumed by this core. The vector is
// the historical on-wire options format; the indices are frozen.
const (
	OptIdxDC            = 0
	OptIdxAlgorithm     = 1
	OptIdxPolyAlgorithm = 2
	OptIdxPWLAlgorithm  = 3
	OptIdxBreakpoints   = 4
	OptIdxVerbosity     = 5
	OptIdxMaxIterations = 6

	// OptVectorLen is the number of vector slots this core consumes.
	OptVectorLen = 7
)

// OptionsFromVector decodes the flat ordered options vector. Vectors may
// be longer than OptVectorLen (trailing settings belong to other layers
// and are ignored) or shorter (missing slots take defaults).
func OptionsFromVector(v []float64) Options {
	at := func(i int) float64 {
		if i < len(v) {
			return v[i]
		}
		return 0
	}
	return Options{
		DC:            at(OptIdxDC) != 0,
		Algorithm:     int(at(OptIdxAlgorithm)),
		PolyAlgorithm: int(at(OptIdxPolyAlgorithm)),
		PWLAlgorithm:  int(at(OptIdxPWLAlgorithm)),
		Breakpoints:   int(at(OptIdxBreakpoints)),
		Verbosity:     int(at(OptIdxVerbosity)),
		MaxIterations: int(at(OptIdxMaxIterations)),
	}
}

// Vector encodes the options into the flat ordered layout.
func (o *Options) Vector() []float64 {
	v := make([]float64, OptVectorLen)
	if o.DC {
		v[OptIdxDC] = 1
	}
	v[OptIdxAlgorithm] = float64(o.Algorithm)
	v[OptIdxPolyAlgorithm] = float64(o.PolyAlgorithm)
	v[OptIdxPWLAlgorithm] = float64(o.PWLAlgorithm)
	v[OptIdxBreakpoints] = float64(o.Breakpoints)
	v[OptIdxVerbosity] = float64(o.Verbosity)
	v[OptIdxMaxIterations] = float64(o.MaxIterations)
	return v
}
