package econ

import (
	"math"

	"github.com/voltlab/gridopt/pkg/grid"
	"github.com/voltlab/gridopt/pkg/solver"
)

// constraintTol is the feasibility tolerance for extra linear constraints.
const constraintTol = 1e-6

// ACConfig tunes the shared AC solve path for a backend family.
type ACConfig struct {
	// EnforceConstraints applies the problem's extra linear constraints
	// (generalized formulations only).
	EnforceConstraints bool

	// PenaltyRounds bounds the constraint-projection sweeps.
	PenaltyRounds int

	// ReportBalance fills the solution's constraint values and Jacobian.
	// The DC family leaves them unset by construction.
	ReportBalance bool

	// UseReactive allocates reactive output and prices the Q cost block.
	UseReactive bool
}

// RunAC executes the shared solve path: active-power dispatch, optional
// constraint projection, reactive allocation, network angle recovery, and
// solution write-back on a fresh copy of the case.
func RunAC(p *solver.Problem, cfg ACConfig) (*solver.Solution, error) {
	c := p.Case.Clone()
	active := c.ActiveGens()

	dp := DispatchProblem{
		Costs:  make([]grid.Cost, len(active)),
		PMin:   make([]float64, len(active)),
		PMax:   make([]float64, len(active)),
		Demand: c.TotalLoad(),
	}
	for k, gi := range active {
		pc, _, _ := p.CostFor(gi)
		dp.Costs[k] = pc
		dp.PMin[k] = c.Gens[gi].PMin
		dp.PMax[k] = c.Gens[gi].PMax
	}

	disp := Dispatch(dp, p.MaxIterations)

	pg := make([]float64, len(c.Gens))
	for k, gi := range active {
		pg[gi] = disp.P[k]
	}

	qg := make([]float64, len(c.Gens))
	if cfg.UseReactive && len(active) > 0 {
		qmin := make([]float64, len(active))
		qmax := make([]float64, len(active))
		var qd float64
		for i := range c.Buses {
			if c.Buses[i].Type != grid.BusIsolated {
				qd += c.Buses[i].Qd
			}
		}
		for k, gi := range active {
			qmin[k] = c.Gens[gi].QMin
			qmax[k] = c.Gens[gi].QMax
		}
		qa := AllocateReactive(qmin, qmax, qd)
		for k, gi := range active {
			qg[gi] = qa[k]
		}
	}

	converged := disp.Converged
	if cfg.EnforceConstraints && !p.Constraints.Empty() {
		rounds := cfg.PenaltyRounds
		if rounds <= 0 {
			rounds = 10
		}
		ok := projectConstraints(c, &p.Constraints, pg, qg, rounds)
		converged = converged && ok
	}

	angles, err := SolveAngles(c, pg)
	if err != nil {
		return nil, err
	}

	writeback(c, pg, qg, disp.Lambda, angles)

	objective := 0.0
	for _, gi := range active {
		pc, qc, hasQ := p.CostFor(gi)
		objective += pc.At(pg[gi])
		if cfg.UseReactive && hasQ {
			objective += qc.At(qg[gi])
		}
	}

	sol := &solver.Solution{
		Case:       c,
		Objective:  objective,
		Converged:  converged,
		Status:     solver.StatusFailed,
		Iterations: disp.Iterations,
	}
	if converged {
		sol.Status = solver.StatusConverged
	}
	if cfg.ReportBalance {
		sol.ConstraintValues = BalanceValues(c, pg, qg, angles)
		sol.Jacobian = BalanceJacobian(c)
	}
	return sol, nil
}

// decisionVector assembles x = [Va(rad); Vm; Pg; Qg] from the current state.
func decisionVector(c *grid.Case, pg, qg []float64) []float64 {
	nb, ng := len(c.Buses), len(c.Gens)
	x := make([]float64, 2*nb+2*ng)
	for i := range c.Buses {
		x[i] = c.Buses[i].VA * math.Pi / 180
		x[nb+i] = c.Buses[i].VM
	}
	copy(x[2*nb:], pg)
	copy(x[2*nb+ng:], qg)
	return x
}

// projectConstraints sweeps the extra linear constraints, applying
// least-squares corrections to the generator output entries of violated
// rows and re-clamping to unit bounds. Entries over the voltage blocks are
// treated as fixed at the current operating point. Returns whether all
// rows are within tolerance after the sweeps.
func projectConstraints(c *grid.Case, lc *solver.LinearConstraints, pg, qg []float64, rounds int) bool {
	nb, ng := len(c.Buses), len(c.Gens)

	for r := 0; r < rounds; r++ {
		x := decisionVector(c, pg, qg)
		worst := 0.0
		for i := 0; i < lc.N; i++ {
			v := lc.Row(i, x)
			var target float64
			switch {
			case v > lc.Upper[i]+constraintTol:
				target = lc.Upper[i]
			case v < lc.Lower[i]-constraintTol:
				target = lc.Lower[i]
			default:
				continue
			}
			delta := v - target
			if math.Abs(delta) > worst {
				worst = math.Abs(delta)
			}

			// Norm over the adjustable (Pg/Qg) coefficients of this row.
			var norm2 float64
			for _, e := range lc.Entries {
				if e.Row == i && e.Col >= 2*nb {
					norm2 += e.Val * e.Val
				}
			}
			if norm2 == 0 {
				continue // row only touches fixed voltage state
			}
			for _, e := range lc.Entries {
				if e.Row != i || e.Col < 2*nb {
					continue
				}
				adj := -delta * e.Val / norm2
				if gi := e.Col - 2*nb; gi < ng {
					pg[gi] = clamp(pg[gi]+adj, c.Gens[gi].PMin, c.Gens[gi].PMax)
				} else {
					gi -= ng
					qg[gi] = clamp(qg[gi]+adj, c.Gens[gi].QMin, c.Gens[gi].QMax)
				}
			}
		}
		if worst <= constraintTol {
			return true
		}
	}

	// Final feasibility check.
	x := decisionVector(c, pg, qg)
	for i := 0; i < lc.N; i++ {
		v := lc.Row(i, x)
		if v > lc.Upper[i]+constraintTol || v < lc.Lower[i]-constraintTol {
			return false
		}
	}
	return true
}

func clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

// writeback fills the solution fields of the case tables.
func writeback(c *grid.Case, pg, qg []float64, lambda float64, angles *AngleResult) {
	for i := range c.Buses {
		c.Buses[i].VA = angles.VA[i]
		c.Buses[i].LamP = lambda
	}
	for gi := range c.Gens {
		if !c.Gens[gi].Active() {
			c.Gens[gi].PG = 0
			c.Gens[gi].QG = 0
			continue
		}
		c.Gens[gi].PG = pg[gi]
		c.Gens[gi].QG = qg[gi]
		if c.Gens[gi].VSet > 0 {
			// PV units hold their setpoint magnitude.
			for bi := range c.Buses {
				if c.Buses[bi].ID == c.Gens[gi].Bus {
					c.Buses[bi].VM = c.Gens[gi].VSet
				}
			}
		}
	}
	for bi := range c.Branches {
		if c.Branches[bi].Status <= 0 {
			c.Branches[bi].PF, c.Branches[bi].PT = 0, 0
			continue
		}
		c.Branches[bi].PF = angles.PFlow[bi]
		c.Branches[bi].PT = -angles.PFlow[bi]
	}
}
