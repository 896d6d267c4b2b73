// Package backends registers every built-in solver backend into the
// default registry. Import it for side effects from binaries and services:
//
//	import _ "github.com/voltlab/gridopt/pkg/solver/backends"
//
// Library consumers that want a curated set should build their own
// solver.Registry instead of importing this package.
package backends

import (
	_ "github.com/voltlab/gridopt/pkg/solver/dc"
	_ "github.com/voltlab/gridopt/pkg/solver/ipm"
	_ "github.com/voltlab/gridopt/pkg/solver/lpqp"
	_ "github.com/voltlab/gridopt/pkg/solver/nlcon"
	_ "github.com/voltlab/gridopt/pkg/solver/sqp"
)
