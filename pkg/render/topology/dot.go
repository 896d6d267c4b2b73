package topology

import (
	"bytes"
	"context"
	"fmt"
	"regexp"
	"strconv"

	"github.com/goccy/go-graphviz"

	"github.com/voltlab/gridopt/pkg/grid"
)

// Options configures one-line diagram rendering.
type Options struct {
	// ShowFlows labels branch edges with solved MW flows instead of
	// reactances. Meaningful only for solved cases.
	ShowFlows bool
}

// ToDOT converts a case to Graphviz DOT format. The resulting DOT string
// can be rendered with [RenderSVG].
//
// The reference bus is drawn with a bold outline, out-of-service rows in
// grey. Generators hang off their buses as ellipses labeled with their
// operating range (or dispatch, for solved cases).
func ToDOT(c *grid.Case, opts Options) string {
	var buf bytes.Buffer
	buf.WriteString("graph grid {\n")
	buf.WriteString("  layout=neato;\n")
	buf.WriteString("  overlap=false;\n")
	buf.WriteString("  bgcolor=\"transparent\";\n")
	buf.WriteString("  node [shape=box, style=\"rounded,filled\", fillcolor=white, fontsize=14];\n")
	buf.WriteString("\n")

	for _, b := range c.Buses {
		fmt.Fprintf(&buf, "  %q [%s];\n", busNodeID(b.ID), busAttrs(b))
	}

	buf.WriteString("\n")
	for gi, g := range c.Gens {
		id := fmt.Sprintf("gen%d", gi)
		fmt.Fprintf(&buf, "  %q [%s];\n", id, genAttrs(g))
		fmt.Fprintf(&buf, "  %q -- %q [style=dotted];\n", id, busNodeID(g.Bus))
	}

	buf.WriteString("\n")
	for _, br := range c.Branches {
		fmt.Fprintf(&buf, "  %q -- %q [%s];\n",
			busNodeID(br.From), busNodeID(br.To), branchAttrs(br, opts))
	}

	buf.WriteString("}\n")
	return buf.String()
}

func busNodeID(id int) string {
	return fmt.Sprintf("bus%d", id)
}

func busAttrs(b grid.Bus) string {
	label := fmt.Sprintf("bus %d", b.ID)
	if b.Pd != 0 {
		label += fmt.Sprintf("\\n%.0f MW load", b.Pd)
	}
	attrs := fmt.Sprintf("label=%q", label)
	switch b.Type {
	case grid.BusRef:
		attrs += ", penwidth=2"
	case grid.BusIsolated:
		attrs += ", fillcolor=lightgrey, fontcolor=grey"
	}
	return attrs
}

func genAttrs(g grid.Gen) string {
	var label string
	if g.PG != 0 {
		label = fmt.Sprintf("G\\n%.1f MW", g.PG)
	} else {
		label = fmt.Sprintf("G\\n%.0f-%.0f MW", g.PMin, g.PMax)
	}
	attrs := fmt.Sprintf("label=%q, shape=ellipse", label)
	if !g.Active() {
		attrs += ", fillcolor=lightgrey, fontcolor=grey"
	}
	return attrs
}

func branchAttrs(br grid.Branch, opts Options) string {
	var label string
	if opts.ShowFlows {
		label = fmt.Sprintf("%.1f MW", br.PF)
	} else {
		label = fmt.Sprintf("x=%.3g", br.X)
	}
	attrs := fmt.Sprintf("label=%q, fontsize=11", label)
	if br.Status <= 0 {
		attrs += ", style=dashed, color=grey"
	}
	return attrs
}

// RenderSVG renders a DOT graph to SVG using Graphviz.
func RenderSVG(dot string) ([]byte, error) {
	ctx := context.Background()
	gv, err := graphviz.New(ctx)
	if err != nil {
		return nil, fmt.Errorf("init graphviz: %w", err)
	}
	defer gv.Close()

	g, err := graphviz.ParseBytes([]byte(dot))
	if err != nil {
		return nil, fmt.Errorf("parse DOT: %w", err)
	}
	defer g.Close()

	var buf bytes.Buffer
	if err := gv.Render(ctx, g, graphviz.SVG, &buf); err != nil {
		return nil, fmt.Errorf("render: %w", err)
	}
	return normalizeViewBox(buf.Bytes()), nil
}

var (
	svgTagRe  = regexp.MustCompile(`<svg[^>]*>`)
	viewBoxRe = regexp.MustCompile(`viewBox="([0-9.]+)\s+([0-9.]+)\s+([0-9.]+)\s+([0-9.]+)"`)
)

// normalizeViewBox rewrites the outer svg tag so the diagram scales to its
// container instead of carrying Graphviz's point-based size.
func normalizeViewBox(svg []byte) []byte {
	match := viewBoxRe.FindSubmatch(svg)
	if match == nil {
		return svg
	}

	w, _ := strconv.ParseFloat(string(match[3]), 64)
	h, _ := strconv.ParseFloat(string(match[4]), 64)
	if w == 0 || h == 0 {
		return svg
	}

	newSvg := fmt.Sprintf(`<svg xmlns="http://www.w3.org/2000/svg" viewBox="0 0 %.2f %.2f" width="%.0f" height="%.0f">`,
		w, h, w, h)

	return svgTagRe.ReplaceAll(svg, []byte(newSvg))
}
