// Package econ implements the shared dispatch numerics used by the built-in
// gridopt solver backends: equal-marginal-cost (lambda) dispatch with unit
// bounds, reactive-power allocation, DC network angle recovery, and the
// power-balance constraint values and Jacobian reported on AC formulations.
//
// The backends differ in formulation coverage, iteration policy, and status
// reporting; the numerics they agree on live here so each backend package
// stays a thin wrapper. All routines are pure functions over the case
// tables; none mutate their inputs.
package econ
