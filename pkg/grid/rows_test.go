package grid

import (
	"math"
	"reflect"
	"testing"
)

func TestBusRowRoundTrip(t *testing.T) {
	b := Bus{
		ID: 7, Type: BusPV, Pd: 12.5, Qd: 3.2, Gs: 0.1, Bs: 0.2, Area: 2,
		VM: 1.02, VA: -3.4, BaseKV: 138, Zone: 1, VMax: 1.1, VMin: 0.94,
		LamP: 21.5, LamQ: 0.3, MuVMax: 0.01, MuVMin: 0,
	}

	row := b.Row()
	if len(row) != BusCols {
		t.Fatalf("Row() has %d columns, want %d", len(row), BusCols)
	}

	got, err := BusFromRow(row)
	if err != nil {
		t.Fatalf("BusFromRow: %v", err)
	}
	if got != b {
		t.Errorf("round trip = %+v, want %+v", got, b)
	}
}

func TestBusFromRowShortInput(t *testing.T) {
	// Producers may omit the solution columns.
	row := []float64{1, 3, 0, 0, 0, 0, 1, 1, 0, 138, 1, 1.1, 0.9}
	b, err := BusFromRow(row)
	if err != nil {
		t.Fatalf("BusFromRow: %v", err)
	}
	if b.Type != BusRef || b.VMin != 0.9 {
		t.Errorf("decoded bus = %+v", b)
	}

	if _, err := BusFromRow(row[:5]); err == nil {
		t.Error("expected error for truncated row")
	}
}

func TestGenRowRoundTrip(t *testing.T) {
	g := Gen{
		Bus: 2, PG: 60, QG: 5, QMax: 30, QMin: -30, VSet: 1.01, MBase: 100,
		Status: 1, PMax: 80, PMin: 10, MuPMax: 0.5,
	}
	got, err := GenFromRow(g.Row())
	if err != nil {
		t.Fatalf("GenFromRow: %v", err)
	}
	if got != g {
		t.Errorf("round trip = %+v, want %+v", got, g)
	}
}

func TestBranchRowRoundTrip(t *testing.T) {
	br := Branch{
		From: 1, To: 3, R: 0.02, X: 0.2, B: 0.04, RateA: 130,
		Tap: 1.0, Status: 1, PF: 33.2, PT: -32.9,
	}
	got, err := BranchFromRow(br.Row())
	if err != nil {
		t.Fatalf("BranchFromRow: %v", err)
	}
	if got != br {
		t.Errorf("round trip = %+v, want %+v", got, br)
	}
}

func TestCostRowRoundTrip(t *testing.T) {
	tests := []struct {
		name string
		cost Cost
	}{
		{
			"polynomial",
			Cost{Model: CostPolynomial, Startup: 100, Shutdown: 20, Coeffs: []float64{0.02, 2, 10}},
		},
		{
			"piecewise",
			Cost{Model: CostPiecewiseLinear, Points: []Point{{0, 0}, {50, 100}, {100, 250}}},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := CostFromRow(tt.cost.Row())
			if err != nil {
				t.Fatalf("CostFromRow: %v", err)
			}
			if !reflect.DeepEqual(got, tt.cost) {
				t.Errorf("round trip = %+v, want %+v", got, tt.cost)
			}
		})
	}
}

func TestCostRowLayout(t *testing.T) {
	// The on-wire layout is [model, startup, shutdown, n, values...].
	c := Cost{Model: CostPolynomial, Startup: 100, Shutdown: 20, Coeffs: []float64{0.02, 2, 10}}
	row := c.Row()
	want := []float64{2, 100, 20, 3, 0.02, 2, 10}
	if len(row) != len(want) {
		t.Fatalf("row = %v, want %v", row, want)
	}
	for i := range want {
		if math.Abs(row[i]-want[i]) > 1e-15 {
			t.Fatalf("row[%d] = %g, want %g", i, row[i], want[i])
		}
	}
}

func TestCostFromRowMalformed(t *testing.T) {
	// Declared breakpoint count exceeding the available values.
	if _, err := CostFromRow([]float64{1, 0, 0, 3, 0, 0, 50, 100}); err == nil {
		t.Error("expected error for short piecewise row")
	}
	if _, err := CostFromRow([]float64{2, 0, 0, 4, 1, 2}); err == nil {
		t.Error("expected error for short polynomial row")
	}

	// Unknown model tags decode without error; the analyzer reports them.
	c, err := CostFromRow([]float64{9, 0, 0, 0})
	if err != nil {
		t.Fatalf("CostFromRow: %v", err)
	}
	if c.Model.Valid() {
		t.Error("unknown model tag should be preserved as invalid")
	}
}
