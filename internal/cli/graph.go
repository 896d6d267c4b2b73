package cli

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/voltlab/gridopt/pkg/caseio"
	"github.com/voltlab/gridopt/pkg/errors"
	"github.com/voltlab/gridopt/pkg/render/topology"
)

const (
	formatDOT = "dot"
	formatSVG = "svg"
)

// graphOpts holds the command-line flags for the graph command.
type graphOpts struct {
	format string // output format: "dot" or "svg"
	flows  bool   // label branches with solved MW flows
	output string // output file (stdout if empty)
}

// newGraphCmd creates the graph command for rendering one-line diagrams.
func newGraphCmd() *cobra.Command {
	opts := graphOpts{format: formatSVG}

	cmd := &cobra.Command{
		Use:   "graph <case.toml>",
		Short: "Render a case as a one-line diagram",
		Long: `Render a case as a one-line diagram.

Buses are drawn as boxes with their loads, generators as ellipses
hanging off their host buses, branches as edges labeled with reactance
(or MW flow for solved cases, with --flows).

Examples:
  gridopt graph case9.toml -o case9.svg
  gridopt graph case9.toml --format dot
  gridopt graph solved.toml --flows -o solved.svg`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runGraph(cmd, &opts, args[0])
		},
	}

	cmd.Flags().StringVarP(&opts.format, "format", "f", opts.format, "output format: dot or svg")
	cmd.Flags().BoolVar(&opts.flows, "flows", false, "label branches with solved MW flows")
	cmd.Flags().StringVarP(&opts.output, "output", "o", "", "output file (stdout if empty)")

	return cmd
}

func runGraph(cmd *cobra.Command, opts *graphOpts, path string) error {
	c, err := caseio.Load(path)
	if err != nil {
		return err
	}

	dot := topology.ToDOT(c, topology.Options{ShowFlows: opts.flows})

	var data []byte
	switch strings.ToLower(opts.format) {
	case formatDOT:
		data = []byte(dot)
	case formatSVG:
		data, err = topology.RenderSVG(dot)
		if err != nil {
			return err
		}
	default:
		return errors.New(errors.ErrCodeInvalidOptions, "unknown graph format %q (want dot or svg)", opts.format)
	}

	if opts.output == "" {
		fmt.Print(string(data))
		return nil
	}
	if err := os.WriteFile(opts.output, data, 0o644); err != nil {
		return errors.Wrap(errors.ErrCodeInternal, err, "write diagram")
	}
	printSuccess("Rendered %d buses, %d branches", len(c.Buses), len(c.Branches))
	printFile(opts.output)
	return nil
}
