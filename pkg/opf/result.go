package opf

import (
	"encoding/json"
	"time"

	"gonum.org/v1/gonum/mat"

	"github.com/voltlab/gridopt/pkg/grid"
	"github.com/voltlab/gridopt/pkg/solver"
)

// Reporter is the external reporting collaborator invoked after a
// successful solve. Reporting is a side effect only; it never alters the
// returned result.
type Reporter interface {
	Report(*Result) error
}

// Stats contains pipeline execution statistics.
type Stats struct {
	AnalyzeTime   time.Duration `json:"analyze_time"`
	ResolveTime   time.Duration `json:"resolve_time"`
	ConvertTime   time.Duration `json:"convert_time"`
	SolveTime     time.Duration `json:"solve_time"`
	ConvertedRows int           `json:"converted_rows"`
}

// Result is the uniform return contract of a solve, regardless of which
// backend ran.
type Result struct {
	// RunID identifies this invocation in logs and the history archive.
	RunID string `json:"run_id"`

	// Case is the solved copy of the input case, with solution values
	// written into the bus/generator/branch rows.
	Case *grid.Case `json:"case"`

	// Objective is the final objective value; on a failed solve it
	// reflects the backend's last iterate.
	Objective float64 `json:"objective"`

	// Success reports backend convergence. False is a solve-time
	// failure, not an error: the remaining fields are still populated.
	Success bool `json:"success"`

	// Status is the backend-specific status code.
	Status int `json:"status"`

	// Elapsed spans formulation resolution through backend return.
	Elapsed time.Duration `json:"elapsed"`

	// ConstraintValues holds the nonlinear constraint values at the final
	// iterate; empty (length 0, never nil) on the DC path.
	ConstraintValues []float64 `json:"constraint_values"`

	// Jacobian holds the constraint Jacobian at the final iterate; 0x0
	// (never nil) on the DC path.
	Jacobian *mat.Dense `json:"-"`

	// Algorithm, Formulation, and Backend record what actually ran.
	Algorithm   int                `json:"algorithm"`
	Formulation solver.Formulation `json:"formulation"`
	Backend     string             `json:"backend"`

	Iterations int   `json:"iterations"`
	Stats      Stats `json:"stats"`

	// CacheHit reports whether the result came from the solve cache.
	CacheHit bool `json:"cache_hit,omitempty"`
}

// Seconds returns the elapsed time in seconds, the unit of the external
// result contract.
func (r *Result) Seconds() float64 { return r.Elapsed.Seconds() }

// =============================================================================
// JSON round trip
// =============================================================================

// resultJSON shadows Result with a serializable Jacobian for caching and
// API responses.
type resultJSON struct {
	*resultAlias
	JacobianRows [][]float64 `json:"jacobian,omitempty"`
}

type resultAlias Result

// MarshalJSON implements json.Marshaler, flattening the Jacobian to rows.
func (r *Result) MarshalJSON() ([]byte, error) {
	out := resultJSON{resultAlias: (*resultAlias)(r)}
	if r.Jacobian != nil {
		rows, cols := r.Jacobian.Dims()
		out.JacobianRows = make([][]float64, rows)
		for i := 0; i < rows; i++ {
			row := make([]float64, cols)
			for j := 0; j < cols; j++ {
				row[j] = r.Jacobian.At(i, j)
			}
			out.JacobianRows[i] = row
		}
	}
	return json.Marshal(out)
}

// UnmarshalJSON implements json.Unmarshaler.
func (r *Result) UnmarshalJSON(data []byte) error {
	in := resultJSON{resultAlias: (*resultAlias)(r)}
	if err := json.Unmarshal(data, &in); err != nil {
		return err
	}
	if len(in.JacobianRows) == 0 {
		r.Jacobian = &mat.Dense{}
		return nil
	}
	rows := len(in.JacobianRows)
	cols := len(in.JacobianRows[0])
	flat := make([]float64, 0, rows*cols)
	for _, row := range in.JacobianRows {
		flat = append(flat, row...)
	}
	r.Jacobian = mat.NewDense(rows, cols, flat)
	return nil
}

// normalize fills the backend-unavailable fields with canonical empty
// values: a zero-length constraint vector and a 0x0 Jacobian are defined,
// not absent.
func (r *Result) normalize() {
	if r.ConstraintValues == nil {
		r.ConstraintValues = []float64{}
	}
	if r.Jacobian == nil {
		r.Jacobian = &mat.Dense{}
	}
}
