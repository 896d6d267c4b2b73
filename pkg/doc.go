// Package pkg provides the core libraries for gridopt optimal power flow.
//
// # Overview
//
// Gridopt dispatches optimal power flow (OPF) cases to a family of solver
// backends, handling cost-model analysis, algorithm selection, and result
// normalization along the way. The pkg directory is organized into four
// main areas:
//
//  1. [grid] - Case data model (buses, generators, branches, cost curves)
//  2. [opf] - The solve pipeline (argument resolution, cost analysis,
//     formulation resolution, conversion, dispatch)
//  3. [solver] - Backend registry and the individual solver backends
//  4. Infrastructure - [cache], [history], [caseio], [api], [report],
//     [render/topology], [observability]
//
// # Architecture
//
// The typical data flow through gridopt:
//
//	TOML case file / HTTP request
//	         ↓
//	    [caseio] package (decode + validate)
//	         ↓
//	    [opf] package (analyze costs, resolve algorithm, convert)
//	         ↓
//	    [solver] package (dispatch to ipm, sqp, nlcon, lpqp, dc)
//	         ↓
//	    normalized Result (report, cache, archive)
//
// # Quick Start
//
// Solve a case with automatic algorithm selection:
//
//	import (
//	    "context"
//	    "github.com/voltlab/gridopt/pkg/caseio"
//	    "github.com/voltlab/gridopt/pkg/opf"
//	    _ "github.com/voltlab/gridopt/pkg/solver/backends"
//	)
//
//	c, _ := caseio.Load("case9.toml")
//	res, err := opf.Solve(context.Background(), c, opf.Options{})
//	if err != nil {
//	    // configuration error: bad case, unknown algorithm, ...
//	}
//	if !res.Success {
//	    // solver ran but did not converge; res.Status says why
//	}
//
// # Main Packages
//
// [grid] - The case data model. Rows reference buses by ID; Validate
// checks structural consistency before any solve.
//
// [opf] - The solve pipeline. Options selects formulation and algorithm,
// Runner orchestrates caching, history, and reporting around each solve.
//
// [solver] - Formulations, the backend registry, and the linear constraint
// model. Backends self-register via the [solver/backends] umbrella import.
//
// [cache] - Solve result caching with file, Redis, and null backends.
// Cache keys cover every option that affects the outcome.
//
// [history] - Run archive with in-memory and MongoDB stores.
//
// [caseio] - TOML case import/export.
//
// [api] - HTTP API exposing the solve pipeline and the run archive.
//
// [report] - Terminal solve reports.
//
// [render/topology] - One-line diagram rendering via Graphviz.
//
// # Testing
//
// Run tests:
//
//	go test ./pkg/...            # All tests
//	go test ./pkg/opf/...        # Specific package
//
// [grid]: https://pkg.go.dev/github.com/voltlab/gridopt/pkg/grid
// [opf]: https://pkg.go.dev/github.com/voltlab/gridopt/pkg/opf
// [solver]: https://pkg.go.dev/github.com/voltlab/gridopt/pkg/solver
// [solver/backends]: https://pkg.go.dev/github.com/voltlab/gridopt/pkg/solver/backends
// [cache]: https://pkg.go.dev/github.com/voltlab/gridopt/pkg/cache
// [history]: https://pkg.go.dev/github.com/voltlab/gridopt/pkg/history
// [caseio]: https://pkg.go.dev/github.com/voltlab/gridopt/pkg/caseio
// [api]: https://pkg.go.dev/github.com/voltlab/gridopt/pkg/api
// [report]: https://pkg.go.dev/github.com/voltlab/gridopt/pkg/report
// [render/topology]: https://pkg.go.dev/github.com/voltlab/gridopt/pkg/render/topology
// [observability]: https://pkg.go.dev/github.com/voltlab/gridopt/pkg/observability
package pkg
