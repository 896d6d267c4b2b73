// Package topology renders network cases as one-line diagrams.
//
// # Overview
//
// This package produces directed graph visualizations using Graphviz:
// buses appear as boxes connected by branch edges, with generator nodes
// attached to their buses. It gives a quick visual sanity check of a case
// before (or after) solving it.
//
// # Usage
//
// Convert a case to DOT format, then render to SVG:
//
//	dot := topology.ToDOT(c, topology.Options{})
//	svg, err := topology.RenderSVG(dot)
//
// # Options
//
// The [Options] struct controls diagram generation:
//
//   - ShowFlows: label branch edges with solved MW flows instead of
//     reactances (requires a solved case)
//
// # DOT Format
//
// The [ToDOT] function produces Graphviz DOT source that can be:
//
//   - Rendered directly via [RenderSVG]
//   - Saved and processed with external Graphviz tools
//   - Customized before rendering
//
// # Dependencies
//
// This package uses [github.com/goccy/go-graphviz] for in-process SVG
// rendering.
package topology
