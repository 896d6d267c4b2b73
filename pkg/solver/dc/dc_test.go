package dc

import (
	"context"
	"math"
	"testing"

	"github.com/voltlab/gridopt/pkg/grid"
	"github.com/voltlab/gridopt/pkg/solver"
)

func testProblem() *solver.Problem {
	c := &grid.Case{
		BaseMVA: 100,
		Buses: []grid.Bus{
			{ID: 1, Type: grid.BusRef, VM: 1},
			{ID: 2, Type: grid.BusPV, VM: 1},
			{ID: 3, Type: grid.BusPQ, Pd: 105, VM: 1},
		},
		Gens: []grid.Gen{
			{Bus: 1, Status: 1, PMin: 10, PMax: 100},
			{Bus: 2, Status: 1, PMin: 10, PMax: 80},
		},
		Branches: []grid.Branch{
			{From: 1, To: 3, X: 0.1, Status: 1},
			{From: 2, To: 3, X: 0.1, Status: 1},
		},
	}
	return &solver.Problem{
		Case: c,
		Costs: []grid.Cost{
			{Model: grid.CostPolynomial, Coeffs: []float64{0.02, 2, 10}},
			{Model: grid.CostPolynomial, Coeffs: []float64{0.03, 1.5, 15}},
		},
	}
}

func TestSolve(t *testing.T) {
	sol, err := New().Solve(context.Background(), testProblem())
	if err != nil {
		t.Fatalf("Solve: %v", err)
	}
	if !sol.Converged || sol.Status != solver.StatusConverged {
		t.Fatalf("Converged = %v, Status = %d", sol.Converged, sol.Status)
	}

	// Economic dispatch lands at [58, 47] (equal marginal cost).
	if math.Abs(sol.Case.Gens[0].PG-58) > 1e-3 || math.Abs(sol.Case.Gens[1].PG-47) > 1e-3 {
		t.Errorf("PG = [%g %g], want [58 47]", sol.Case.Gens[0].PG, sol.Case.Gens[1].PG)
	}

	// Branch flows cover the load.
	total := sol.Case.Branches[0].PF + sol.Case.Branches[1].PF
	if math.Abs(total-105) > 1e-6 {
		t.Errorf("flows into load bus = %g, want 105", total)
	}

	// The DC family never computes constraint values or Jacobians.
	if sol.ConstraintValues != nil {
		t.Error("DC solution should not carry constraint values")
	}
	if sol.Jacobian != nil {
		t.Error("DC solution should not carry a Jacobian")
	}

	if sol.Objective <= 0 {
		t.Errorf("Objective = %g, want positive", sol.Objective)
	}
}

func TestSolveDoesNotMutateInput(t *testing.T) {
	p := testProblem()
	before := p.Case.Gens[0].PG

	if _, err := New().Solve(context.Background(), p); err != nil {
		t.Fatalf("Solve: %v", err)
	}
	if p.Case.Gens[0].PG != before {
		t.Error("Solve mutated the caller's case")
	}
}

func TestSolveInfeasible(t *testing.T) {
	p := testProblem()
	p.Case.Buses[2].Pd = 500 // beyond total capacity

	sol, err := New().Solve(context.Background(), p)
	if err != nil {
		t.Fatalf("Solve: %v", err)
	}
	// Solve-time failure is a non-converged solution, not an error.
	if sol.Converged || sol.Status != solver.StatusFailed {
		t.Errorf("Converged = %v, Status = %d, want failed solve", sol.Converged, sol.Status)
	}
	// The last iterate is still populated.
	if sol.Case.Gens[0].PG != 100 || sol.Case.Gens[1].PG != 80 {
		t.Errorf("PG = [%g %g], want clamped to PMax", sol.Case.Gens[0].PG, sol.Case.Gens[1].PG)
	}
}

func TestSolveCancelledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	if _, err := New().Solve(ctx, testProblem()); err == nil {
		t.Error("expected context error")
	}
}

func TestIgnoresCostModelTags(t *testing.T) {
	// The DC backend never validates cost models; an unknown tag simply
	// contributes zero cost.
	p := testProblem()
	p.Costs[1] = grid.Cost{Model: grid.CostModel(9)}

	sol, err := New().Solve(context.Background(), p)
	if err != nil {
		t.Fatalf("Solve: %v", err)
	}
	if !sol.Converged {
		t.Error("DC solve should succeed regardless of cost model tags")
	}
}
