// Package grid defines the electrical network case model for gridopt.
//
// This package is the single source of truth for the tabular case data the
// solve pipeline consumes: buses, generators, branches, interchange areas,
// and generator cost curves. The tables were historically flat numeric
// matrices addressed by positional column indices; here each table row is a
// structured record with named fields, and pkg/grid/rows.go preserves the
// exact external column order for interoperability with matrix-style case
// producers.
//
// # Core Types
//
//   - [Case]: a complete network case (base MVA plus the five tables)
//   - [Bus], [Gen], [Branch], [Area]: one row each of the network tables
//   - [Cost]: one generator cost curve, piecewise-linear or polynomial
//
// # Conventions
//
// Powers are in MW/MVAr, voltages in per-unit, angles in degrees. A
// generator is active when Status > 0. A cost table with exactly twice as
// many rows as the generator table carries an active-power block followed
// by a reactive-power block of equal size.
//
// The package holds no solver logic: cost-curve evaluation is the only
// numerics here, because both the conversion stage and every backend need
// it.
package grid
