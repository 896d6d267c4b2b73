package econ

import (
	"math"

	"gonum.org/v1/gonum/floats"

	"github.com/voltlab/gridopt/pkg/grid"
)

// DefaultMaxIterations caps the lambda search when the caller forwards no
// explicit iteration limit.
const DefaultMaxIterations = 100

// unitTol is the output tolerance of the per-unit marginal-cost inversion (MW).
const unitTol = 1e-9

// balanceTol is the acceptable demand mismatch of a converged dispatch (MW).
const balanceTol = 1e-6

// DispatchProblem is an economic dispatch over a set of committed units:
// meet Demand at minimum total cost with each unit inside its bounds.
type DispatchProblem struct {
	Costs  []grid.Cost
	PMin   []float64
	PMax   []float64
	Demand float64
}

// DispatchResult is the outcome of a lambda dispatch.
type DispatchResult struct {
	P          []float64 // per-unit outputs, unit order preserved
	Lambda     float64   // system marginal cost at the solution
	Cost       float64   // total production cost
	Iterations int
	Converged  bool
}

// Dispatch solves the problem by bisection on the system marginal cost:
// each unit produces where its marginal cost meets lambda, clamped to its
// bounds, and lambda is driven until total output meets demand. Convex
// (nondecreasing-marginal) cost curves are assumed; non-convex curves are
// dispatched against their monotone envelope.
//
// An infeasible demand (outside the summed bounds) returns the clamped
// dispatch with Converged=false.
func Dispatch(dp DispatchProblem, maxIter int) DispatchResult {
	n := len(dp.Costs)
	if maxIter <= 0 {
		maxIter = DefaultMaxIterations
	}

	res := DispatchResult{P: make([]float64, n)}
	if n == 0 {
		res.Converged = dp.Demand == 0
		return res
	}

	minCap := floats.Sum(dp.PMin)
	maxCap := floats.Sum(dp.PMax)

	// Infeasible demand: pin every unit to the violated bound.
	if dp.Demand < minCap-balanceTol || dp.Demand > maxCap+balanceTol {
		src := dp.PMin
		if dp.Demand > maxCap {
			src = dp.PMax
		}
		copy(res.P, src)
		res.Cost = totalCost(dp.Costs, res.P)
		return res
	}

	lo, hi := lambdaBracket(dp)
	var iter int
	for iter = 0; iter < maxIter; iter++ {
		lambda := 0.5 * (lo + hi)
		var total float64
		for i := 0; i < n; i++ {
			res.P[i] = unitAtLambda(dp.Costs[i], lambda, dp.PMin[i], dp.PMax[i])
			total += res.P[i]
		}
		res.Lambda = lambda
		if math.Abs(total-dp.Demand) <= balanceTol {
			res.Converged = true
			break
		}
		if total < dp.Demand {
			lo = lambda
		} else {
			hi = lambda
		}
	}
	res.Iterations = iter + 1

	// The bisection interval can collapse while a flat marginal segment
	// leaves a residual; spread it across units with headroom.
	if !res.Converged {
		res.Converged = spreadResidual(res.P, dp)
	}

	res.Cost = totalCost(dp.Costs, res.P)
	return res
}

// lambdaBracket returns a marginal-cost interval guaranteed to bracket the
// balancing lambda.
func lambdaBracket(dp DispatchProblem) (lo, hi float64) {
	lo, hi = math.Inf(1), math.Inf(-1)
	for i := range dp.Costs {
		lo = math.Min(lo, dp.Costs[i].MarginalAt(dp.PMin[i]))
		hi = math.Max(hi, dp.Costs[i].MarginalAt(dp.PMax[i]))
	}
	// Widen so the clamped allocation is strictly monotone across the
	// bracket even when all marginals are equal.
	return lo - 1, hi + 1
}

// unitAtLambda returns the output where the unit's marginal cost reaches
// lambda, clamped to [pmin, pmax]. Monotone marginal assumed; solved by
// bisection on output.
func unitAtLambda(c grid.Cost, lambda, pmin, pmax float64) float64 {
	if c.MarginalAt(pmin) >= lambda {
		return pmin
	}
	if c.MarginalAt(pmax) <= lambda {
		return pmax
	}
	lo, hi := pmin, pmax
	for hi-lo > unitTol {
		mid := 0.5 * (lo + hi)
		if c.MarginalAt(mid) < lambda {
			lo = mid
		} else {
			hi = mid
		}
	}
	return 0.5 * (lo + hi)
}

// spreadResidual distributes the remaining demand mismatch across units
// with headroom, cheapest marginal first (flat piecewise segments stall
// the lambda bisection on slope ties). Returns false when no unit can
// absorb it.
func spreadResidual(p []float64, dp DispatchProblem) bool {
	residual := dp.Demand - floats.Sum(p)
	for pass := 0; pass < 4*len(p) && math.Abs(residual) > balanceTol; pass++ {
		best, bestCost := -1, 0.0
		var bestRoom float64
		for i := range p {
			var room float64
			if residual > 0 {
				room = dp.PMax[i] - p[i]
				if room > residual {
					room = residual
				}
			} else {
				room = dp.PMin[i] - p[i]
				if room < residual {
					room = residual
				}
			}
			if room == 0 {
				continue
			}
			// Marginal sampled mid-move so boundary breakpoints price the
			// segment actually being entered.
			cost := dp.Costs[i].MarginalAt(p[i] + room/2)
			if residual < 0 {
				cost = -cost // when shedding, drop the most expensive unit first
			}
			if best < 0 || cost < bestCost {
				best, bestCost, bestRoom = i, cost, room
			}
		}
		if best < 0 {
			break
		}
		p[best] += bestRoom
		residual -= bestRoom
	}
	return math.Abs(residual) <= balanceTol
}

func totalCost(costs []grid.Cost, p []float64) float64 {
	var f float64
	for i := range costs {
		f += costs[i].At(p[i])
	}
	return f
}

// AllocateReactive covers the total reactive demand by splitting it across
// units in proportion to their reactive range, clamped to bounds. Returns
// the per-unit Qg in unit order.
func AllocateReactive(qmin, qmax []float64, demand float64) []float64 {
	n := len(qmin)
	qg := make([]float64, n)
	var span float64
	for i := 0; i < n; i++ {
		span += qmax[i] - qmin[i]
	}
	if span <= 0 {
		return qg
	}
	var mid float64
	for i := 0; i < n; i++ {
		qg[i] = qmin[i]
		mid += qmin[i]
	}
	residual := demand - mid
	for i := 0; i < n && residual != 0; i++ {
		share := residual * (qmax[i] - qmin[i]) / span
		if qg[i]+share > qmax[i] {
			share = qmax[i] - qg[i]
		}
		qg[i] += share
	}
	return qg
}
