package cli

import (
	"os"

	"github.com/spf13/cobra"

	"github.com/voltlab/gridopt/pkg/caseio"
	"github.com/voltlab/gridopt/pkg/opf"
)

// convertOpts holds the command-line flags for the convert command.
type convertOpts struct {
	breakpoints int    // breakpoint count for the piecewise fit
	output      string // output file (stdout if empty)
}

// newConvertCmd creates the convert command. It rewrites polynomial cost
// rows as piecewise-linear curves sampled across each generator's
// operating range, the same transformation the solve pipeline applies
// before dispatching to piecewise-only backends.
func newConvertCmd() *cobra.Command {
	opts := convertOpts{breakpoints: opf.DefaultBreakpoints}

	cmd := &cobra.Command{
		Use:   "convert <case.toml>",
		Short: "Convert polynomial costs to piecewise-linear curves",
		Long: `Convert polynomial cost rows to piecewise-linear curves.

Piecewise rows pass through unchanged, so conversion is idempotent.

Examples:
  gridopt convert case9.toml                      # converted case to stdout
  gridopt convert case9.toml -o case9_pwl.toml
  gridopt convert case9.toml --breakpoints 20 -o case9_pwl.toml`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runConvert(cmd, &opts, args[0])
		},
	}

	cmd.Flags().IntVar(&opts.breakpoints, "breakpoints", opts.breakpoints, "breakpoints per cost curve")
	cmd.Flags().StringVarP(&opts.output, "output", "o", "", "output file (stdout if empty)")

	return cmd
}

func runConvert(cmd *cobra.Command, opts *convertOpts, path string) error {
	logger := loggerFromContext(cmd.Context())

	c, err := caseio.Load(path)
	if err != nil {
		return err
	}

	prog := newProgress(logger)
	converted, n, err := opf.ConvertCosts(c.Costs, c.Gens, opts.breakpoints)
	if err != nil {
		return err
	}
	c.Costs = converted

	if opts.output == "" {
		return caseio.Write(c, os.Stdout)
	}
	if err := caseio.Save(c, opts.output); err != nil {
		return err
	}
	prog.done("Converted case")
	printSuccess("Converted %d cost row(s) with %d breakpoints", n, opts.breakpoints)
	printFile(opts.output)
	return nil
}
