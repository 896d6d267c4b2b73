// Package caseio reads and writes network cases as TOML documents.
//
// # Overview
//
// The format is a direct transcription of the case tables: one top-level
// table for case metadata and one array of tables per row kind. It is
// designed for:
//
//   - Hand-editable test systems kept under version control
//   - Round-trip preservation: load, solve, save, and re-load identically
//   - Feeding the CLI and the HTTP API the same case documents
//
// # Format
//
//	name = "case3"
//	base_mva = 100.0
//
//	[[bus]]
//	id = 1
//	type = 3        # 1=PQ 2=PV 3=ref 4=isolated
//	pd = 0.0
//	vm = 1.0
//
//	[[gen]]
//	bus = 1
//	status = 1
//	pmin = 10.0
//	pmax = 100.0
//
//	[[branch]]
//	from = 1
//	to = 3
//	x = 0.1
//	status = 1
//
//	[[cost]]
//	model = 2       # 1=piecewise-linear 2=polynomial
//	coeffs = [0.02, 2.0, 10.0]
//
// Piecewise rows list breakpoints instead of coefficients:
//
//	[[cost]]
//	model = 1
//	[[cost.points]]
//	p = 0.0
//	f = 0.0
//	[[cost.points]]
//	p = 100.0
//	f = 400.0
//
// Row order in the document is the table order of the loaded case; cost
// rows map to generators positionally, exactly as in the in-memory model.
//
// # Usage
//
// Use [Load] to read a case from a file path, or [Read] to read from any
// io.Reader:
//
//	c, err := caseio.Load("case9.toml")
//	if err != nil {
//	    log.Fatal(err)
//	}
//
// Loaded cases are validated before being returned.
package caseio
