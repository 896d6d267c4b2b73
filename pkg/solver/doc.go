// Package solver defines the contract between the gridopt solve pipeline
// and the interchangeable solver backends, plus the registry the pipeline
// dispatches through.
//
// # Architecture
//
// The pipeline never talks to a backend type directly. It resolves a
// formulation class, asks the [Registry] for a backend that can serve it,
// and calls [Backend.Solve] exactly once with a normalized [Problem]. The
// backend returns a [Solution]; a solve that ran but did not converge is a
// Solution with Converged=false, never an error. Errors from Solve are
// reserved for inability to run at all.
//
// Adding a backend is a registration, not a branch:
//
//	func init() {
//	    solver.Default().Register(&myBackend{})
//	}
//
// # Decision Vector
//
// Generalized constraints and Jacobians are expressed over the full
// decision vector x = [Va(nb); Vm(nb); Pg(ng); Qg(ng)], in that order,
// where nb is the bus count and ng the generator count. [Problem.NumVars]
// returns its length.
package solver
