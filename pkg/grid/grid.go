package grid

import "slices"

// =============================================================================
// Constants - Single Source of Truth
// =============================================================================

// Bus types.
const (
	BusPQ       = 1 // load bus
	BusPV       = 2 // generator bus
	BusRef      = 3 // reference (slack) bus
	BusIsolated = 4 // isolated bus, excluded from the solve
)

// DefaultBaseMVA is used when a case carries no explicit system base.
const DefaultBaseMVA = 100.0

// =============================================================================
// Tables
// =============================================================================

// Bus is one row of the bus table.
type Bus struct {
	ID     int     `json:"id" bson:"id"`
	Type   int     `json:"type" bson:"type"` // BusPQ, BusPV, BusRef, BusIsolated
	Pd     float64 `json:"pd" bson:"pd"`     // active load demand (MW)
	Qd     float64 `json:"qd" bson:"qd"`     // reactive load demand (MVAr)
	Gs     float64 `json:"gs,omitempty" bson:"gs,omitempty"` // shunt conductance
	Bs     float64 `json:"bs,omitempty" bson:"bs,omitempty"` // shunt susceptance
	Area   int     `json:"area,omitempty" bson:"area,omitempty"`
	VM     float64 `json:"vm" bson:"vm"` // voltage magnitude (p.u.)
	VA     float64 `json:"va" bson:"va"` // voltage angle (degrees)
	BaseKV float64 `json:"base_kv,omitempty" bson:"base_kv,omitempty"`
	Zone   int     `json:"zone,omitempty" bson:"zone,omitempty"`
	VMax   float64 `json:"vmax,omitempty" bson:"vmax,omitempty"`
	VMin   float64 `json:"vmin,omitempty" bson:"vmin,omitempty"`

	// Solution fields (shadow prices), written by backends.
	LamP   float64 `json:"lam_p,omitempty" bson:"lam_p,omitempty"`
	LamQ   float64 `json:"lam_q,omitempty" bson:"lam_q,omitempty"`
	MuVMax float64 `json:"mu_vmax,omitempty" bson:"mu_vmax,omitempty"`
	MuVMin float64 `json:"mu_vmin,omitempty" bson:"mu_vmin,omitempty"`
}

// Gen is one row of the generator table.
type Gen struct {
	Bus    int     `json:"bus" bson:"bus"` // host bus ID
	PG     float64 `json:"pg" bson:"pg"`   // active output (MW)
	QG     float64 `json:"qg" bson:"qg"`   // reactive output (MVAr)
	QMax   float64 `json:"qmax" bson:"qmax"`
	QMin   float64 `json:"qmin" bson:"qmin"`
	VSet   float64 `json:"vset,omitempty" bson:"vset,omitempty"` // voltage setpoint (p.u.)
	MBase  float64 `json:"mbase,omitempty" bson:"mbase,omitempty"`
	Status int     `json:"status" bson:"status"` // active when > 0
	PMax   float64 `json:"pmax" bson:"pmax"`
	PMin   float64 `json:"pmin" bson:"pmin"`

	// Solution fields (bound shadow prices), written by backends.
	MuPMax float64 `json:"mu_pmax,omitempty" bson:"mu_pmax,omitempty"`
	MuPMin float64 `json:"mu_pmin,omitempty" bson:"mu_pmin,omitempty"`
	MuQMax float64 `json:"mu_qmax,omitempty" bson:"mu_qmax,omitempty"`
	MuQMin float64 `json:"mu_qmin,omitempty" bson:"mu_qmin,omitempty"`
}

// Active reports whether the unit is in service.
func (g *Gen) Active() bool { return g.Status > 0 }

// Branch is one row of the branch table.
type Branch struct {
	From   int     `json:"from" bson:"from"` // from-bus ID
	To     int     `json:"to" bson:"to"`     // to-bus ID
	R      float64 `json:"r" bson:"r"`       // resistance (p.u.)
	X      float64 `json:"x" bson:"x"`       // reactance (p.u.)
	B      float64 `json:"b,omitempty" bson:"b,omitempty"` // total charging susceptance
	RateA  float64 `json:"rate_a,omitempty" bson:"rate_a,omitempty"`
	RateB  float64 `json:"rate_b,omitempty" bson:"rate_b,omitempty"`
	RateC  float64 `json:"rate_c,omitempty" bson:"rate_c,omitempty"`
	Tap    float64 `json:"tap,omitempty" bson:"tap,omitempty"`
	Shift  float64 `json:"shift,omitempty" bson:"shift,omitempty"`
	Status int     `json:"status" bson:"status"`

	// Solution fields (terminal flows and flow-limit shadow prices).
	PF   float64 `json:"pf,omitempty" bson:"pf,omitempty"`
	QF   float64 `json:"qf,omitempty" bson:"qf,omitempty"`
	PT   float64 `json:"pt,omitempty" bson:"pt,omitempty"`
	QT   float64 `json:"qt,omitempty" bson:"qt,omitempty"`
	MuSF float64 `json:"mu_sf,omitempty" bson:"mu_sf,omitempty"`
	MuST float64 `json:"mu_st,omitempty" bson:"mu_st,omitempty"`
}

// Area is one row of the interchange area table.
type Area struct {
	ID     int `json:"id" bson:"id"`
	RefBus int `json:"ref_bus" bson:"ref_bus"`
}

// =============================================================================
// Case
// =============================================================================

// Case is a complete network case: the five tables plus the system base.
// Cases are caller-owned; the solve pipeline clones before writing solution
// values back into the bus/gen/branch rows.
type Case struct {
	Name     string   `json:"name,omitempty" bson:"name,omitempty"`
	BaseMVA  float64  `json:"base_mva" bson:"base_mva"`
	Buses    []Bus    `json:"buses" bson:"buses"`
	Gens     []Gen    `json:"gens" bson:"gens"`
	Branches []Branch `json:"branches" bson:"branches"`
	Areas    []Area   `json:"areas,omitempty" bson:"areas,omitempty"`
	Costs    []Cost   `json:"costs" bson:"costs"`
}

// Clone returns a deep copy of the case.
func (c *Case) Clone() *Case {
	cp := &Case{
		Name:     c.Name,
		BaseMVA:  c.BaseMVA,
		Buses:    slices.Clone(c.Buses),
		Gens:     slices.Clone(c.Gens),
		Branches: slices.Clone(c.Branches),
		Areas:    slices.Clone(c.Areas),
		Costs:    make([]Cost, len(c.Costs)),
	}
	for i := range c.Costs {
		cp.Costs[i] = c.Costs[i].Clone()
	}
	return cp
}

// ActiveGens returns the indices of in-service generators, in table order.
func (c *Case) ActiveGens() []int {
	var idx []int
	for i := range c.Gens {
		if c.Gens[i].Active() {
			idx = append(idx, i)
		}
	}
	return idx
}

// BusIndex returns a map from bus ID to bus-table position.
func (c *Case) BusIndex() map[int]int {
	m := make(map[int]int, len(c.Buses))
	for i := range c.Buses {
		m[c.Buses[i].ID] = i
	}
	return m
}

// RefBus returns the position of the first reference bus, or -1 if the case
// has none.
func (c *Case) RefBus() int {
	for i := range c.Buses {
		if c.Buses[i].Type == BusRef {
			return i
		}
	}
	return -1
}

// TotalLoad returns the summed active demand over non-isolated buses (MW).
func (c *Case) TotalLoad() float64 {
	var pd float64
	for i := range c.Buses {
		if c.Buses[i].Type != BusIsolated {
			pd += c.Buses[i].Pd
		}
	}
	return pd
}

// HasQCost reports whether the cost table carries a reactive-power block
// (exactly twice as many rows as generators).
func (c *Case) HasQCost() bool {
	return len(c.Gens) > 0 && len(c.Costs) == 2*len(c.Gens)
}
