package grid

import (
	"fmt"
)

// Row codecs translating between structured records and the flat numeric
// rows used by external table producers. Column order here is the on-wire
// contract and must never be reordered.
//
// Input rows may omit the trailing solution columns; marshaling always
// writes the full width.

// Column counts per table kind.
const (
	BusCols       = 17 // ID..VMin plus 4 solution columns
	BusInputCols  = 13 // minimum accepted
	GenCols       = 14 // Bus..PMin plus 4 solution columns
	GenInputCols  = 10
	BranchCols    = 17 // From..Status plus 6 solution columns
	BranchInputCols = 11
	AreaCols      = 2
	costHeaderCols = 4 // model, startup, shutdown, n
)

// =============================================================================
// Bus
// =============================================================================

// Row returns the bus as a fixed-order numeric row.
func (b Bus) Row() []float64 {
	return []float64{
		float64(b.ID), float64(b.Type), b.Pd, b.Qd, b.Gs, b.Bs,
		float64(b.Area), b.VM, b.VA, b.BaseKV, float64(b.Zone),
		b.VMax, b.VMin, b.LamP, b.LamQ, b.MuVMax, b.MuVMin,
	}
}

// BusFromRow decodes a fixed-order numeric row into a Bus.
func BusFromRow(row []float64) (Bus, error) {
	if len(row) < BusInputCols {
		return Bus{}, fmt.Errorf("bus row has %d columns, need at least %d", len(row), BusInputCols)
	}
	b := Bus{
		ID: int(row[0]), Type: int(row[1]), Pd: row[2], Qd: row[3],
		Gs: row[4], Bs: row[5], Area: int(row[6]), VM: row[7], VA: row[8],
		BaseKV: row[9], Zone: int(row[10]), VMax: row[11], VMin: row[12],
	}
	if len(row) >= BusCols {
		b.LamP, b.LamQ, b.MuVMax, b.MuVMin = row[13], row[14], row[15], row[16]
	}
	return b, nil
}

// =============================================================================
// Gen
// =============================================================================

// Row returns the generator as a fixed-order numeric row.
func (g Gen) Row() []float64 {
	return []float64{
		float64(g.Bus), g.PG, g.QG, g.QMax, g.QMin, g.VSet, g.MBase,
		float64(g.Status), g.PMax, g.PMin,
		g.MuPMax, g.MuPMin, g.MuQMax, g.MuQMin,
	}
}

// GenFromRow decodes a fixed-order numeric row into a Gen.
func GenFromRow(row []float64) (Gen, error) {
	if len(row) < GenInputCols {
		return Gen{}, fmt.Errorf("gen row has %d columns, need at least %d", len(row), GenInputCols)
	}
	g := Gen{
		Bus: int(row[0]), PG: row[1], QG: row[2], QMax: row[3], QMin: row[4],
		VSet: row[5], MBase: row[6], Status: int(row[7]), PMax: row[8], PMin: row[9],
	}
	if len(row) >= GenCols {
		g.MuPMax, g.MuPMin, g.MuQMax, g.MuQMin = row[10], row[11], row[12], row[13]
	}
	return g, nil
}

// =============================================================================
// Branch
// =============================================================================

// Row returns the branch as a fixed-order numeric row.
func (b Branch) Row() []float64 {
	return []float64{
		float64(b.From), float64(b.To), b.R, b.X, b.B,
		b.RateA, b.RateB, b.RateC, b.Tap, b.Shift, float64(b.Status),
		b.PF, b.QF, b.PT, b.QT, b.MuSF, b.MuST,
	}
}

// BranchFromRow decodes a fixed-order numeric row into a Branch.
func BranchFromRow(row []float64) (Branch, error) {
	if len(row) < BranchInputCols {
		return Branch{}, fmt.Errorf("branch row has %d columns, need at least %d", len(row), BranchInputCols)
	}
	b := Branch{
		From: int(row[0]), To: int(row[1]), R: row[2], X: row[3], B: row[4],
		RateA: row[5], RateB: row[6], RateC: row[7], Tap: row[8], Shift: row[9],
		Status: int(row[10]),
	}
	if len(row) >= BranchCols {
		b.PF, b.QF, b.PT, b.QT = row[11], row[12], row[13], row[14]
		b.MuSF, b.MuST = row[15], row[16]
	}
	return b, nil
}

// =============================================================================
// Area
// =============================================================================

// Row returns the area as a fixed-order numeric row.
func (a Area) Row() []float64 {
	return []float64{float64(a.ID), float64(a.RefBus)}
}

// AreaFromRow decodes a fixed-order numeric row into an Area.
func AreaFromRow(row []float64) (Area, error) {
	if len(row) < AreaCols {
		return Area{}, fmt.Errorf("area row has %d columns, need %d", len(row), AreaCols)
	}
	return Area{ID: int(row[0]), RefBus: int(row[1])}, nil
}

// =============================================================================
// Cost
// =============================================================================

// Row returns the cost curve as a fixed-order numeric row:
// [model, startup, shutdown, n, v1, ..., vk]. For piecewise curves n is the
// breakpoint count and the values are p1, f1, ..., pn, fn; for polynomial
// curves n is the coefficient count and the values are the coefficients in
// descending powers.
func (c Cost) Row() []float64 {
	row := []float64{float64(c.Model), c.Startup, c.Shutdown}
	switch c.Model {
	case CostPiecewiseLinear:
		row = append(row, float64(len(c.Points)))
		for _, pt := range c.Points {
			row = append(row, pt.P, pt.F)
		}
	case CostPolynomial:
		row = append(row, float64(len(c.Coeffs)))
		row = append(row, c.Coeffs...)
	default:
		row = append(row, 0)
	}
	return row
}

// CostFromRow decodes a fixed-order numeric row into a Cost. Unknown model
// tags are preserved so the analyzer can report them; only the row shape is
// validated here.
func CostFromRow(row []float64) (Cost, error) {
	if len(row) < costHeaderCols {
		return Cost{}, fmt.Errorf("cost row has %d columns, need at least %d", len(row), costHeaderCols)
	}
	c := Cost{
		Model:    CostModel(row[0]),
		Startup:  row[1],
		Shutdown: row[2],
	}
	n := int(row[3])
	vals := row[costHeaderCols:]
	switch c.Model {
	case CostPiecewiseLinear:
		if len(vals) < 2*n {
			return Cost{}, fmt.Errorf("piecewise cost row declares %d breakpoints but has %d values", n, len(vals))
		}
		c.Points = make([]Point, n)
		for i := 0; i < n; i++ {
			c.Points[i] = Point{P: vals[2*i], F: vals[2*i+1]}
		}
	case CostPolynomial:
		if len(vals) < n {
			return Cost{}, fmt.Errorf("polynomial cost row declares %d coefficients but has %d values", n, len(vals))
		}
		c.Coeffs = append([]float64(nil), vals[:n]...)
	}
	return c, nil
}
