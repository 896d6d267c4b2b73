package opf

import (
	"github.com/voltlab/gridopt/pkg/errors"
	"github.com/voltlab/gridopt/pkg/grid"
)

// CostClasses holds the cost-table row indices of active generators,
// split by representation. Indices run over the full table: when the
// table carries a reactive block, both blocks contribute.
type CostClasses struct {
	Piecewise  []int
	Polynomial []int
}

// HasPiecewise reports whether any active generator row is piecewise-linear.
func (cc *CostClasses) HasPiecewise() bool { return len(cc.Piecewise) > 0 }

// HasPolynomial reports whether any active generator row is polynomial.
func (cc *CostClasses) HasPolynomial() bool { return len(cc.Polynomial) > 0 }

// AnalyzeCosts classifies the cost rows of in-service generators. Rows of
// out-of-service units are skipped entirely: their model tags are not
// validated, matching the dispatch contract that only active units
// constrain formulation choice.
//
// This analysis runs on the AC path only; the DC formulation ignores the
// cost model distinction and skips it.
func AnalyzeCosts(costs []grid.Cost, gens []grid.Gen) (CostClasses, error) {
	var cc CostClasses
	ng := len(gens)
	if ng == 0 {
		return cc, nil
	}

	for i := range costs {
		gi := i % ng // second block rows map back to their unit
		if !gens[gi].Active() {
			continue
		}
		switch costs[i].Model {
		case grid.CostPiecewiseLinear:
			cc.Piecewise = append(cc.Piecewise, i)
		case grid.CostPolynomial:
			cc.Polynomial = append(cc.Polynomial, i)
		default:
			return CostClasses{}, errors.New(errors.ErrCodeUnknownCostModel,
				"cost row %d (gen %d) has unknown cost model %d", i, gi, costs[i].Model)
		}
	}
	return cc, nil
}
