package cli

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/voltlab/gridopt/pkg/caseio"
	"github.com/voltlab/gridopt/pkg/errors"
	"github.com/voltlab/gridopt/pkg/opf"
	"github.com/voltlab/gridopt/pkg/report"
	"github.com/voltlab/gridopt/pkg/solver"
)

// solveOpts holds the command-line flags for the solve command.
type solveOpts struct {
	algorithm   int    // explicit algorithm selector (0 = automatic)
	dc          bool   // use the DC-linearized formulation
	breakpoints int    // breakpoint count for cost conversion
	maxIter     int    // backend iteration cap (0 = backend default)
	refresh     bool   // bypass the solve cache
	noCache     bool   // disable caching entirely
	cacheDir    string // cache directory override
	constraints string // path to a JSON file of extra linear constraints
	branches    bool   // include the branch flow table in the report
	output      string // write the full result as JSON (stdout report always shown)
}

// newSolveCmd creates the solve command.
//
// Default options:
//   - algorithm: 0 (automatic selection across registered backends)
//   - breakpoints: library default
//   - cache: on-disk solve cache under ~/.cache/gridopt/
func newSolveCmd() *cobra.Command {
	var opts solveOpts

	cmd := &cobra.Command{
		Use:   "solve <case.toml>",
		Short: "Solve an optimal power flow case",
		Long: `Solve an optimal power flow case from a TOML case file.

The algorithm is selected automatically unless --algorithm names an
explicit selector. Solved runs are cached; identical re-runs replay the
cached result unless --refresh is given.

Examples:
  gridopt solve case9.toml
  gridopt solve case9.toml --dc
  gridopt solve case9.toml --algorithm 200 --breakpoints 12
  gridopt solve case9.toml --constraints limits.json -o result.json`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runSolve(cmd, &opts, args[0])
		},
	}

	cmd.Flags().IntVarP(&opts.algorithm, "algorithm", "a", 0, "algorithm selector (0 = automatic)")
	cmd.Flags().BoolVar(&opts.dc, "dc", false, "use the DC-linearized formulation")
	cmd.Flags().IntVar(&opts.breakpoints, "breakpoints", 0, "breakpoints for polynomial-to-piecewise conversion")
	cmd.Flags().IntVar(&opts.maxIter, "max-iter", 0, "backend iteration cap (0 = backend default)")
	cmd.Flags().BoolVar(&opts.refresh, "refresh", false, "bypass the solve cache")
	cmd.Flags().BoolVar(&opts.noCache, "no-cache", false, "disable the solve cache")
	cmd.Flags().StringVar(&opts.cacheDir, "cache-dir", "", "solve cache directory (default ~/.cache/gridopt)")
	cmd.Flags().StringVar(&opts.constraints, "constraints", "", "JSON file with extra linear constraints")
	cmd.Flags().BoolVar(&opts.branches, "branches", false, "include the branch flow table")
	cmd.Flags().StringVarP(&opts.output, "output", "o", "", "write the full result as JSON")

	return cmd
}

func runSolve(cmd *cobra.Command, opts *solveOpts, path string) error {
	ctx := cmd.Context()
	logger := loggerFromContext(ctx)

	c, err := caseio.Load(path)
	if err != nil {
		return err
	}

	req := opf.SolveRequest{
		Case: c,
		Options: opf.Options{
			DC:            opts.dc,
			Algorithm:     opts.algorithm,
			Breakpoints:   opts.breakpoints,
			MaxIterations: opts.maxIter,
			Refresh:       opts.refresh,
			Logger:        logger,
		},
	}
	if opts.constraints != "" {
		lc, err := loadConstraints(opts.constraints)
		if err != nil {
			return err
		}
		req.Constraints = lc
	}

	runner, err := newRunner(ctx, opts.noCache, opts.cacheDir)
	if err != nil {
		return err
	}

	sp := newSpinnerWithContext(ctx, fmt.Sprintf("Solving %s...", filepath.Base(path)))
	sp.Start()
	res, err := runner.Execute(ctx, req)
	sp.Stop()
	if err != nil {
		return err
	}

	tr := report.NewTableReporter(os.Stdout)
	tr.ShowBranches = opts.branches
	if err := tr.Report(res); err != nil {
		return err
	}
	if !res.Success {
		printWarning("Solver did not converge (status %d)", res.Status)
	}

	if opts.output != "" {
		data, err := json.MarshalIndent(res, "", "  ")
		if err != nil {
			return errors.Wrap(errors.ErrCodeInternal, err, "encode result")
		}
		if err := os.WriteFile(opts.output, append(data, '\n'), 0o644); err != nil {
			return errors.Wrap(errors.ErrCodeInternal, err, "write result")
		}
		printFile(opts.output)
	}
	return nil
}

// loadConstraints reads a LinearConstraints document from a JSON file.
func loadConstraints(path string) (solver.LinearConstraints, error) {
	var lc solver.LinearConstraints
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return lc, errors.Wrap(errors.ErrCodeFileNotFound, err, "constraints file %s", path)
		}
		return lc, errors.Wrap(errors.ErrCodeInternal, err, "read constraints file")
	}
	if err := json.Unmarshal(data, &lc); err != nil {
		return lc, errors.Wrap(errors.ErrCodeUnsupportedConstraints, err, "parse constraints file %s", path)
	}
	return lc, nil
}
