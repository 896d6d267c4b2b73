package econ

import (
	"math"

	"gonum.org/v1/gonum/mat"

	"github.com/voltlab/gridopt/pkg/errors"
	"github.com/voltlab/gridopt/pkg/grid"
)

// AngleResult holds the recovered DC network state.
type AngleResult struct {
	VA    []float64 // bus voltage angles (degrees), bus-table order
	PFlow []float64 // from-end branch active flows (MW), branch-table order
}

// SolveAngles recovers bus voltage angles from a DC (B-theta) linearization
// given per-generator active outputs, then computes branch flows. Isolated
// buses and out-of-service branches are excluded; the reference bus angle
// is pinned to its case value.
func SolveAngles(c *grid.Case, pg []float64) (*AngleResult, error) {
	busIdx := c.BusIndex()
	ref := c.RefBus()
	if ref < 0 {
		return nil, errors.New(errors.ErrCodeInvalidCase, "case has no reference bus")
	}

	// Map non-isolated, non-reference buses into the reduced system.
	reduced := make(map[int]int) // bus-table index -> reduced index
	for i := range c.Buses {
		if c.Buses[i].Type == grid.BusIsolated || i == ref {
			continue
		}
		reduced[i] = len(reduced)
	}
	n := len(reduced)

	// Net injections (p.u.): generation minus demand.
	inj := make([]float64, len(c.Buses))
	for i := range c.Buses {
		inj[i] = -c.Buses[i].Pd / c.BaseMVA
	}
	for gi := range c.Gens {
		if !c.Gens[gi].Active() {
			continue
		}
		inj[busIdx[c.Gens[gi].Bus]] += pg[gi] / c.BaseMVA
	}

	va := make([]float64, len(c.Buses))
	for i := range c.Buses {
		va[i] = c.Buses[i].VA * math.Pi / 180
	}

	if n > 0 {
		b := mat.NewDense(n, n, nil)
		rhs := mat.NewVecDense(n, nil)
		for i, ri := range reduced {
			rhs.SetVec(ri, inj[i])
		}
		for bi := range c.Branches {
			br := &c.Branches[bi]
			if br.Status <= 0 {
				continue
			}
			f, t := busIdx[br.From], busIdx[br.To]
			y := 1 / br.X
			rf, okf := reduced[f]
			rt, okt := reduced[t]
			if okf {
				b.Set(rf, rf, b.At(rf, rf)+y)
			}
			if okt {
				b.Set(rt, rt, b.At(rt, rt)+y)
			}
			if okf && okt {
				b.Set(rf, rt, b.At(rf, rt)-y)
				b.Set(rt, rf, b.At(rt, rf)-y)
			}
		}

		var theta mat.VecDense
		if err := theta.SolveVec(b, rhs); err != nil {
			return nil, errors.Wrap(errors.ErrCodeInternal, err, "singular susceptance matrix (network may be split)")
		}
		refAngle := va[ref]
		for i, ri := range reduced {
			va[i] = refAngle + theta.AtVec(ri)
		}
	}

	res := &AngleResult{
		VA:    make([]float64, len(c.Buses)),
		PFlow: make([]float64, len(c.Branches)),
	}
	for i := range va {
		res.VA[i] = va[i] * 180 / math.Pi
	}
	for bi := range c.Branches {
		br := &c.Branches[bi]
		if br.Status <= 0 {
			continue
		}
		f, t := busIdx[br.From], busIdx[br.To]
		res.PFlow[bi] = c.BaseMVA * (va[f] - va[t]) / br.X
	}
	return res, nil
}

// BalanceValues returns the nonlinear constraint values reported on AC
// formulations: the per-bus active then reactive power balance residuals
// (p.u.) at the given operating point. Active residuals use the DC flow
// approximation; reactive residuals balance generation against demand and
// shunt injection.
func BalanceValues(c *grid.Case, pg, qg []float64, angles *AngleResult) []float64 {
	nb := len(c.Buses)
	busIdx := c.BusIndex()
	g := make([]float64, 2*nb)

	for i := range c.Buses {
		g[i] = -c.Buses[i].Pd / c.BaseMVA
		g[nb+i] = -c.Buses[i].Qd/c.BaseMVA + c.Buses[i].Bs/c.BaseMVA*c.Buses[i].VM*c.Buses[i].VM
	}
	for gi := range c.Gens {
		if !c.Gens[gi].Active() {
			continue
		}
		bi := busIdx[c.Gens[gi].Bus]
		g[bi] += pg[gi] / c.BaseMVA
		g[nb+bi] += qg[gi] / c.BaseMVA
	}
	for bi := range c.Branches {
		br := &c.Branches[bi]
		if br.Status <= 0 {
			continue
		}
		f, t := busIdx[br.From], busIdx[br.To]
		g[f] -= angles.PFlow[bi] / c.BaseMVA
		g[t] += angles.PFlow[bi] / c.BaseMVA
	}
	return g
}

// BalanceJacobian assembles the Jacobian of the power-balance residuals
// with respect to the full decision vector [Va; Vm; Pg; Qg]. Active rows
// carry the branch susceptance structure over the angle block and unit
// participation over the Pg block; reactive rows carry shunt sensitivity
// over the magnitude block and unit participation over the Qg block.
func BalanceJacobian(c *grid.Case) *mat.Dense {
	nb, ng := len(c.Buses), len(c.Gens)
	busIdx := c.BusIndex()
	j := mat.NewDense(2*nb, 2*nb+2*ng, nil)

	for bi := range c.Branches {
		br := &c.Branches[bi]
		if br.Status <= 0 {
			continue
		}
		f, t := busIdx[br.From], busIdx[br.To]
		y := 1 / br.X
		j.Set(f, f, j.At(f, f)-y)
		j.Set(t, t, j.At(t, t)-y)
		j.Set(f, t, j.At(f, t)+y)
		j.Set(t, f, j.At(t, f)+y)
	}

	for i := range c.Buses {
		// Reactive balance sensitivity to the bus's own magnitude via its
		// shunt injection.
		j.Set(nb+i, nb+i, 2*c.Buses[i].Bs/c.BaseMVA*c.Buses[i].VM)
	}

	for gi := range c.Gens {
		if !c.Gens[gi].Active() {
			continue
		}
		bi := busIdx[c.Gens[gi].Bus]
		j.Set(bi, 2*nb+gi, 1/c.BaseMVA)
		j.Set(nb+bi, 2*nb+ng+gi, 1/c.BaseMVA)
	}
	return j
}
