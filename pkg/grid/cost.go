package grid

import "slices"

// =============================================================================
// Cost Models
// =============================================================================

// CostModel tags the representation of a generator cost curve. The numeric
// values are part of the external table format and must not be renumbered.
type CostModel int

const (
	// CostPiecewiseLinear is a curve of linear segments between breakpoints.
	CostPiecewiseLinear CostModel = 1

	// CostPolynomial is a closed-form polynomial curve.
	CostPolynomial CostModel = 2
)

// Valid reports whether the model tag is one of the two known representations.
func (m CostModel) Valid() bool {
	return m == CostPiecewiseLinear || m == CostPolynomial
}

// String returns the canonical name of the cost model.
func (m CostModel) String() string {
	switch m {
	case CostPiecewiseLinear:
		return "piecewise-linear"
	case CostPolynomial:
		return "polynomial"
	}
	return "unknown"
}

// Point is one breakpoint of a piecewise-linear cost curve: output p (MW or
// MVAr) and cost-per-hour f at that output.
type Point struct {
	P float64 `json:"p" bson:"p"`
	F float64 `json:"f" bson:"f"`
}

// Cost is one row of the generator cost table.
//
// For CostPiecewiseLinear, Points holds at least two breakpoints in
// ascending output order. For CostPolynomial, Coeffs holds the polynomial
// coefficients in descending powers (Coeffs[0]*p^(n-1) + ... + Coeffs[n-1]).
type Cost struct {
	Model    CostModel `json:"model" bson:"model"`
	Startup  float64   `json:"startup,omitempty" bson:"startup,omitempty"`
	Shutdown float64   `json:"shutdown,omitempty" bson:"shutdown,omitempty"`
	Points   []Point   `json:"points,omitempty" bson:"points,omitempty"`
	Coeffs   []float64 `json:"coeffs,omitempty" bson:"coeffs,omitempty"`
}

// Clone returns a deep copy of the cost row.
func (c Cost) Clone() Cost {
	cp := c
	cp.Points = slices.Clone(c.Points)
	cp.Coeffs = slices.Clone(c.Coeffs)
	return cp
}

// At evaluates the cost curve at output p.
//
// Polynomial curves use Horner's rule. Piecewise curves interpolate on the
// containing segment and extrapolate the first/last segment slope outside
// the breakpoint range, which keeps marginal cost well defined at the
// generator's declared bounds.
func (c Cost) At(p float64) float64 {
	switch c.Model {
	case CostPolynomial:
		var f float64
		for _, coeff := range c.Coeffs {
			f = f*p + coeff
		}
		return f
	case CostPiecewiseLinear:
		return c.pwlAt(p)
	}
	return 0
}

// MarginalAt evaluates the derivative of the cost curve at output p. For
// piecewise curves this is the slope of the containing segment.
func (c Cost) MarginalAt(p float64) float64 {
	switch c.Model {
	case CostPolynomial:
		// Derivative coefficients via Horner on the fly.
		n := len(c.Coeffs)
		var d float64
		for i := 0; i < n-1; i++ {
			d = d*p + c.Coeffs[i]*float64(n-1-i)
		}
		return d
	case CostPiecewiseLinear:
		i := c.segment(p)
		if i < 0 {
			return 0
		}
		a, b := c.Points[i], c.Points[i+1]
		if b.P == a.P {
			return 0
		}
		return (b.F - a.F) / (b.P - a.P)
	}
	return 0
}

// segment returns the index of the segment containing p, clamped to the
// first/last segment for out-of-range p, or -1 when the curve has fewer
// than two breakpoints.
func (c Cost) segment(p float64) int {
	if len(c.Points) < 2 {
		return -1
	}
	for i := 0; i < len(c.Points)-2; i++ {
		if p <= c.Points[i+1].P {
			return i
		}
	}
	return len(c.Points) - 2
}

func (c Cost) pwlAt(p float64) float64 {
	i := c.segment(p)
	if i < 0 {
		if len(c.Points) == 1 {
			return c.Points[0].F
		}
		return 0
	}
	a, b := c.Points[i], c.Points[i+1]
	if b.P == a.P {
		return a.F
	}
	t := (p - a.P) / (b.P - a.P)
	return a.F + t*(b.F-a.F)
}
