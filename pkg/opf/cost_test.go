package opf

import (
	"testing"

	"github.com/voltlab/gridopt/pkg/errors"
	"github.com/voltlab/gridopt/pkg/grid"
)

func TestAnalyzeCosts(t *testing.T) {
	gens := []grid.Gen{
		{Bus: 1, Status: 1},
		{Bus: 2, Status: 1},
		{Bus: 3, Status: 1},
	}
	costs := []grid.Cost{
		{Model: grid.CostPolynomial, Coeffs: []float64{0.1, 2, 0}},
		{Model: grid.CostPiecewiseLinear, Points: []grid.Point{{P: 0, F: 0}, {P: 100, F: 400}}},
		{Model: grid.CostPolynomial, Coeffs: []float64{0.2, 1, 0}},
	}

	cc, err := AnalyzeCosts(costs, gens)
	if err != nil {
		t.Fatalf("AnalyzeCosts: %v", err)
	}
	if len(cc.Polynomial) != 2 || cc.Polynomial[0] != 0 || cc.Polynomial[1] != 2 {
		t.Errorf("Polynomial = %v, want [0 2]", cc.Polynomial)
	}
	if len(cc.Piecewise) != 1 || cc.Piecewise[0] != 1 {
		t.Errorf("Piecewise = %v, want [1]", cc.Piecewise)
	}
	if !cc.HasPiecewise() || !cc.HasPolynomial() {
		t.Error("both classes should be present")
	}
}

func TestAnalyzeCostsSkipsInactiveGens(t *testing.T) {
	gens := []grid.Gen{
		{Bus: 1, Status: 1},
		{Bus: 2, Status: 0},
	}
	// The inactive unit's row has a garbage model tag; it must not be
	// validated.
	costs := []grid.Cost{
		{Model: grid.CostPolynomial, Coeffs: []float64{1, 0}},
		{Model: grid.CostModel(9)},
	}

	cc, err := AnalyzeCosts(costs, gens)
	if err != nil {
		t.Fatalf("AnalyzeCosts: %v", err)
	}
	if len(cc.Polynomial) != 1 || cc.HasPiecewise() {
		t.Errorf("classes = %+v", cc)
	}
}

func TestAnalyzeCostsTwoBlocks(t *testing.T) {
	gens := []grid.Gen{{Bus: 1, Status: 1}, {Bus: 2, Status: 0}}
	costs := []grid.Cost{
		// active power block
		{Model: grid.CostPolynomial, Coeffs: []float64{1, 0}},
		{Model: grid.CostPolynomial, Coeffs: []float64{1, 0}},
		// reactive power block; row 3 belongs to the inactive unit
		{Model: grid.CostPiecewiseLinear, Points: []grid.Point{{P: 0, F: 0}, {P: 1, F: 1}}},
		{Model: grid.CostModel(7)},
	}

	cc, err := AnalyzeCosts(costs, gens)
	if err != nil {
		t.Fatalf("AnalyzeCosts: %v", err)
	}
	if len(cc.Polynomial) != 1 || cc.Polynomial[0] != 0 {
		t.Errorf("Polynomial = %v, want [0]", cc.Polynomial)
	}
	if len(cc.Piecewise) != 1 || cc.Piecewise[0] != 2 {
		t.Errorf("Piecewise = %v, want [2]", cc.Piecewise)
	}
}

func TestAnalyzeCostsUnknownModel(t *testing.T) {
	gens := []grid.Gen{{Bus: 1, Status: 1}}
	costs := []grid.Cost{{Model: grid.CostModel(3)}}

	_, err := AnalyzeCosts(costs, gens)
	if err == nil {
		t.Fatal("expected error")
	}
	if errors.GetCode(err) != errors.ErrCodeUnknownCostModel {
		t.Errorf("code = %s, want %s", errors.GetCode(err), errors.ErrCodeUnknownCostModel)
	}
}
