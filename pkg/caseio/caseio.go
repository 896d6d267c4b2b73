package caseio

import (
	"io"
	"os"

	"github.com/BurntSushi/toml"

	"github.com/voltlab/gridopt/pkg/errors"
	"github.com/voltlab/gridopt/pkg/grid"
)

// =============================================================================
// Wire Format
// =============================================================================

// caseDoc is the TOML document structure. It mirrors the case tables with
// explicit tags so the on-disk key names stay frozen independently of the
// in-memory field names.
type caseDoc struct {
	Name     string      `toml:"name,omitempty"`
	BaseMVA  float64     `toml:"base_mva"`
	Buses    []busDoc    `toml:"bus"`
	Gens     []genDoc    `toml:"gen"`
	Branches []branchDoc `toml:"branch"`
	Areas    []areaDoc   `toml:"area,omitempty"`
	Costs    []costDoc   `toml:"cost"`
}

type busDoc struct {
	ID     int     `toml:"id"`
	Type   int     `toml:"type"`
	Pd     float64 `toml:"pd,omitempty"`
	Qd     float64 `toml:"qd,omitempty"`
	Gs     float64 `toml:"gs,omitempty"`
	Bs     float64 `toml:"bs,omitempty"`
	Area   int     `toml:"area,omitempty"`
	VM     float64 `toml:"vm"`
	VA     float64 `toml:"va,omitempty"`
	BaseKV float64 `toml:"base_kv,omitempty"`
	Zone   int     `toml:"zone,omitempty"`
	VMax   float64 `toml:"vmax,omitempty"`
	VMin   float64 `toml:"vmin,omitempty"`
}

type genDoc struct {
	Bus    int     `toml:"bus"`
	PG     float64 `toml:"pg,omitempty"`
	QG     float64 `toml:"qg,omitempty"`
	QMax   float64 `toml:"qmax,omitempty"`
	QMin   float64 `toml:"qmin,omitempty"`
	VSet   float64 `toml:"vset,omitempty"`
	MBase  float64 `toml:"mbase,omitempty"`
	Status int     `toml:"status"`
	PMax   float64 `toml:"pmax"`
	PMin   float64 `toml:"pmin"`
}

type branchDoc struct {
	From   int     `toml:"from"`
	To     int     `toml:"to"`
	R      float64 `toml:"r,omitempty"`
	X      float64 `toml:"x"`
	B      float64 `toml:"b,omitempty"`
	RateA  float64 `toml:"rate_a,omitempty"`
	RateB  float64 `toml:"rate_b,omitempty"`
	RateC  float64 `toml:"rate_c,omitempty"`
	Tap    float64 `toml:"tap,omitempty"`
	Shift  float64 `toml:"shift,omitempty"`
	Status int     `toml:"status"`
}

type areaDoc struct {
	ID     int `toml:"id"`
	RefBus int `toml:"ref_bus"`
}

type costDoc struct {
	Model    int        `toml:"model"`
	Startup  float64    `toml:"startup,omitempty"`
	Shutdown float64    `toml:"shutdown,omitempty"`
	Points   []pointDoc `toml:"points,omitempty"`
	Coeffs   []float64  `toml:"coeffs,omitempty"`
}

type pointDoc struct {
	P float64 `toml:"p"`
	F float64 `toml:"f"`
}

// =============================================================================
// Import
// =============================================================================

// Read decodes a TOML case from r and validates it.
func Read(r io.Reader) (*grid.Case, error) {
	var doc caseDoc
	if _, err := toml.NewDecoder(r).Decode(&doc); err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidCase, err, "decode case document")
	}

	c := docToCase(&doc)
	if c.BaseMVA == 0 {
		c.BaseMVA = grid.DefaultBaseMVA
	}
	if err := c.Validate(); err != nil {
		return nil, err
	}
	return c, nil
}

// Load reads a TOML case from a file path.
func Load(path string) (*grid.Case, error) {
	f, err := os.Open(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, errors.New(errors.ErrCodeFileNotFound, "case file %q does not exist", path)
		}
		return nil, errors.Wrap(errors.ErrCodeInvalidCase, err, "open case file %q", path)
	}
	defer f.Close()
	return Read(f)
}

func docToCase(doc *caseDoc) *grid.Case {
	c := &grid.Case{
		Name:     doc.Name,
		BaseMVA:  doc.BaseMVA,
		Buses:    make([]grid.Bus, len(doc.Buses)),
		Gens:     make([]grid.Gen, len(doc.Gens)),
		Branches: make([]grid.Branch, len(doc.Branches)),
		Areas:    make([]grid.Area, len(doc.Areas)),
		Costs:    make([]grid.Cost, len(doc.Costs)),
	}
	for i, b := range doc.Buses {
		c.Buses[i] = grid.Bus{
			ID: b.ID, Type: b.Type, Pd: b.Pd, Qd: b.Qd, Gs: b.Gs, Bs: b.Bs,
			Area: b.Area, VM: b.VM, VA: b.VA, BaseKV: b.BaseKV, Zone: b.Zone,
			VMax: b.VMax, VMin: b.VMin,
		}
	}
	for i, g := range doc.Gens {
		c.Gens[i] = grid.Gen{
			Bus: g.Bus, PG: g.PG, QG: g.QG, QMax: g.QMax, QMin: g.QMin,
			VSet: g.VSet, MBase: g.MBase, Status: g.Status, PMax: g.PMax, PMin: g.PMin,
		}
	}
	for i, br := range doc.Branches {
		c.Branches[i] = grid.Branch{
			From: br.From, To: br.To, R: br.R, X: br.X, B: br.B,
			RateA: br.RateA, RateB: br.RateB, RateC: br.RateC,
			Tap: br.Tap, Shift: br.Shift, Status: br.Status,
		}
	}
	for i, a := range doc.Areas {
		c.Areas[i] = grid.Area{ID: a.ID, RefBus: a.RefBus}
	}
	for i, co := range doc.Costs {
		cost := grid.Cost{
			Model:    grid.CostModel(co.Model),
			Startup:  co.Startup,
			Shutdown: co.Shutdown,
			Coeffs:   co.Coeffs,
		}
		for _, pt := range co.Points {
			cost.Points = append(cost.Points, grid.Point{P: pt.P, F: pt.F})
		}
		c.Costs[i] = cost
	}
	return c
}

// =============================================================================
// Export
// =============================================================================

// Write encodes a case as TOML to w. Solution fields are not written; the
// document format carries input data only.
func Write(c *grid.Case, w io.Writer) error {
	if err := toml.NewEncoder(w).Encode(caseToDoc(c)); err != nil {
		return errors.Wrap(errors.ErrCodeInternal, err, "encode case document")
	}
	return nil
}

// Save writes a case to a file path.
func Save(c *grid.Case, path string) error {
	f, err := os.Create(path)
	if err != nil {
		return errors.Wrap(errors.ErrCodeInternal, err, "create case file %q", path)
	}
	defer f.Close()
	return Write(c, f)
}

func caseToDoc(c *grid.Case) *caseDoc {
	doc := &caseDoc{
		Name:     c.Name,
		BaseMVA:  c.BaseMVA,
		Buses:    make([]busDoc, len(c.Buses)),
		Gens:     make([]genDoc, len(c.Gens)),
		Branches: make([]branchDoc, len(c.Branches)),
		Areas:    make([]areaDoc, len(c.Areas)),
		Costs:    make([]costDoc, len(c.Costs)),
	}
	for i, b := range c.Buses {
		doc.Buses[i] = busDoc{
			ID: b.ID, Type: b.Type, Pd: b.Pd, Qd: b.Qd, Gs: b.Gs, Bs: b.Bs,
			Area: b.Area, VM: b.VM, VA: b.VA, BaseKV: b.BaseKV, Zone: b.Zone,
			VMax: b.VMax, VMin: b.VMin,
		}
	}
	for i, g := range c.Gens {
		doc.Gens[i] = genDoc{
			Bus: g.Bus, PG: g.PG, QG: g.QG, QMax: g.QMax, QMin: g.QMin,
			VSet: g.VSet, MBase: g.MBase, Status: g.Status, PMax: g.PMax, PMin: g.PMin,
		}
	}
	for i, br := range c.Branches {
		doc.Branches[i] = branchDoc{
			From: br.From, To: br.To, R: br.R, X: br.X, B: br.B,
			RateA: br.RateA, RateB: br.RateB, RateC: br.RateC,
			Tap: br.Tap, Shift: br.Shift, Status: br.Status,
		}
	}
	for i, a := range c.Areas {
		doc.Areas[i] = areaDoc{ID: a.ID, RefBus: a.RefBus}
	}
	for i, co := range c.Costs {
		cd := costDoc{
			Model:    int(co.Model),
			Startup:  co.Startup,
			Shutdown: co.Shutdown,
			Coeffs:   co.Coeffs,
		}
		for _, pt := range co.Points {
			cd.Points = append(cd.Points, pointDoc{P: pt.P, F: pt.F})
		}
		doc.Costs[i] = cd
	}
	return doc
}
