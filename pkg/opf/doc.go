// Package opf implements the gridopt solve pipeline: the
// formulation-and-dispatch layer between a network case and the
// interchangeable solver backends.
//
// # Architecture
//
// A solve moves through five stages:
//
//  1. Argument resolution: normalize the accepted call shapes into one
//     canonical request (case, extra constraints, options).
//  2. Cost analysis: classify each active generator's cost representation
//     and reject unknown model tags (AC path only).
//  3. Formulation resolution: map the algorithm selector to a formulation
//     class, auto-selecting by backend availability when unset, and
//     validate that the selector, cost models, and constraint set are
//     mutually admissible.
//  4. Conversion: refit polynomial cost rows to piecewise-linear curves
//     when a piecewise-restricted formulation demands it.
//  5. Dispatch: invoke exactly one backend synchronously and normalize
//     its result into [Result].
//
// Configuration problems (unknown cost model, unknown algorithm,
// inadmissible combinations, unavailable backends) abort before dispatch
// with structured errors. A backend that ran but failed to converge is a
// Result with Success=false, never an error.
//
// # Usage
//
//	runner := opf.NewRunner(nil, nil, nil, logger)
//	result, err := runner.Execute(ctx, opf.SolveRequest{Case: cs})
//	if err != nil {
//	    return err // configuration error
//	}
//	if !result.Success {
//	    // backend ran but did not converge; result holds the last iterate
//	}
package opf
