package grid

import (
	"testing"
)

// testCase returns a small three-bus case used across the package tests.
func testCase() *Case {
	return &Case{
		Name:    "test3",
		BaseMVA: 100,
		Buses: []Bus{
			{ID: 1, Type: BusRef, VM: 1, VMax: 1.1, VMin: 0.9},
			{ID: 2, Type: BusPV, Pd: 20, VM: 1, VMax: 1.1, VMin: 0.9},
			{ID: 3, Type: BusPQ, Pd: 85, Qd: 30, VM: 1, VMax: 1.1, VMin: 0.9},
		},
		Gens: []Gen{
			{Bus: 1, PG: 40, QMax: 30, QMin: -30, Status: 1, PMax: 100, PMin: 10},
			{Bus: 2, PG: 60, QMax: 30, QMin: -30, Status: 1, PMax: 80, PMin: 10},
		},
		Branches: []Branch{
			{From: 1, To: 2, R: 0.01, X: 0.1, Status: 1},
			{From: 2, To: 3, R: 0.01, X: 0.08, Status: 1},
			{From: 1, To: 3, R: 0.02, X: 0.2, Status: 1},
		},
		Areas: []Area{{ID: 1, RefBus: 1}},
		Costs: []Cost{
			{Model: CostPolynomial, Coeffs: []float64{0.02, 2, 10}},
			{Model: CostPolynomial, Coeffs: []float64{0.03, 1.5, 15}},
		},
	}
}

func TestCaseClone(t *testing.T) {
	orig := testCase()
	cp := orig.Clone()

	cp.Buses[0].Pd = 999
	cp.Gens[1].PG = 999
	cp.Costs[0].Coeffs[0] = 999

	if orig.Buses[0].Pd == 999 || orig.Gens[1].PG == 999 || orig.Costs[0].Coeffs[0] == 999 {
		t.Error("Clone should not share storage with the original")
	}
}

func TestActiveGens(t *testing.T) {
	c := testCase()
	c.Gens[0].Status = 0

	got := c.ActiveGens()
	if len(got) != 1 || got[0] != 1 {
		t.Errorf("ActiveGens() = %v, want [1]", got)
	}
}

func TestRefBusAndLoad(t *testing.T) {
	c := testCase()
	if got := c.RefBus(); got != 0 {
		t.Errorf("RefBus() = %d, want 0", got)
	}
	if got := c.TotalLoad(); got != 105 {
		t.Errorf("TotalLoad() = %g, want 105", got)
	}

	// Isolated buses are excluded from demand.
	c.Buses[2].Type = BusIsolated
	if got := c.TotalLoad(); got != 20 {
		t.Errorf("TotalLoad() with isolated bus = %g, want 20", got)
	}
}

func TestHasQCost(t *testing.T) {
	c := testCase()
	if c.HasQCost() {
		t.Error("single-block table should not report a Q block")
	}
	c.Costs = append(c.Costs, c.Costs[0].Clone(), c.Costs[1].Clone())
	if !c.HasQCost() {
		t.Error("doubled table should report a Q block")
	}
}

func TestValidate(t *testing.T) {
	if err := testCase().Validate(); err != nil {
		t.Fatalf("valid case failed validation: %v", err)
	}

	tests := []struct {
		name   string
		mutate func(*Case)
	}{
		{"no buses", func(c *Case) { c.Buses = nil }},
		{"bad base", func(c *Case) { c.BaseMVA = 0 }},
		{"duplicate bus", func(c *Case) { c.Buses[1].ID = 1 }},
		{"unknown bus type", func(c *Case) { c.Buses[1].Type = 7 }},
		{"no ref bus", func(c *Case) { c.Buses[0].Type = BusPQ }},
		{"gen unknown bus", func(c *Case) { c.Gens[0].Bus = 42 }},
		{"gen inverted bounds", func(c *Case) { c.Gens[0].PMin = 200 }},
		{"branch unknown bus", func(c *Case) { c.Branches[0].To = 42 }},
		{"zero reactance", func(c *Case) { c.Branches[0].X = 0 }},
		{"cost row count", func(c *Case) { c.Costs = c.Costs[:1] }},
		{"empty cost table", func(c *Case) { c.Costs = nil }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := testCase()
			tt.mutate(c)
			if err := c.Validate(); err == nil {
				t.Error("expected validation error")
			}
		})
	}
}
