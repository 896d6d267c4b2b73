package opf

import (
	"github.com/voltlab/gridopt/pkg/errors"
	"github.com/voltlab/gridopt/pkg/grid"
)

// ConvertCosts refits every polynomial cost row to a piecewise-linear
// approximation with npts breakpoints, sampled at equal output intervals
// over the owning generator's operating range. Rows that are already
// piecewise-linear pass through untouched, so the conversion is idempotent.
//
// Costs may hold one block (active power only) or two stacked blocks
// (active then reactive, each of length len(gens)). Block position decides
// whether a row refits over [PMin, PMax] or [QMin, QMax]. Row order and
// startup/shutdown costs are preserved.
func ConvertCosts(costs []grid.Cost, gens []grid.Gen, npts int) ([]grid.Cost, int, error) {
	if npts < 2 {
		return nil, 0, errors.New(errors.ErrCodeInvalidOptions, "breakpoint count must be at least 2, got %d", npts)
	}
	ng := len(gens)
	if ng == 0 {
		return nil, 0, errors.New(errors.ErrCodeInvalidCase, "conversion requires at least one generator")
	}
	if len(costs)%ng != 0 || len(costs)/ng > 2 || len(costs) == 0 {
		return nil, 0, errors.New(errors.ErrCodeInvalidCase,
			"cost table has %d rows for %d generators, want one or two blocks", len(costs), ng)
	}

	out := make([]grid.Cost, len(costs))
	converted := 0
	for i, c := range costs {
		g := gens[i%ng]
		lo, hi := g.PMin, g.PMax
		if i >= ng {
			lo, hi = g.QMin, g.QMax
		}

		switch c.Model {
		case grid.CostPiecewiseLinear:
			out[i] = c.Clone()
		case grid.CostPolynomial:
			refit, err := refitPoly(c, lo, hi, npts)
			if err != nil {
				return nil, 0, errors.Wrap(errors.ErrCodeInvalidCase, err,
					"cost row %d (gen %d)", i, g.Bus)
			}
			out[i] = refit
			converted++
		default:
			return nil, 0, errors.New(errors.ErrCodeUnknownCostModel,
				"cost row %d (gen %d) has unknown cost model %d", i, g.Bus, c.Model)
		}
	}
	return out, converted, nil
}

// refitPoly samples a polynomial curve at npts equally spaced outputs on
// [lo, hi] and returns the piecewise-linear row through those samples.
func refitPoly(c grid.Cost, lo, hi float64, npts int) (grid.Cost, error) {
	if hi <= lo {
		return grid.Cost{}, errors.New(errors.ErrCodeInvalidCase,
			"degenerate operating range [%g, %g]", lo, hi)
	}
	step := (hi - lo) / float64(npts-1)
	pts := make([]grid.Point, npts)
	for k := 0; k < npts; k++ {
		p := lo + float64(k)*step
		if k == npts-1 {
			p = hi // avoid drift at the top breakpoint
		}
		pts[k] = grid.Point{P: p, F: c.At(p)}
	}
	return grid.Cost{
		Model:    grid.CostPiecewiseLinear,
		Startup:  c.Startup,
		Shutdown: c.Shutdown,
		Points:   pts,
	}, nil
}
