// Package nodelink renders precedence relations as node-link diagrams.
//
// # Overview
//
// Each identifier becomes a rounded box and each relation an arrow from the
// item that comes first to the item that comes after. Items are declared in
// output order, so Graphviz tends to lay the diagram out the way the
// ordering reads. Items that could not be ordered because they are on or
// behind a cycle are drawn dashed with a red outline.
//
// # Usage
//
// Sort first, then convert the relations and the result to DOT and render:
//
//	res := toposort.SortOrdered(pairs)
//	dot := nodelink.ToDOT(pairs, res, nodelink.Options{})
//	svg, err := nodelink.RenderSVG(ctx, dot)
//
// # Options
//
// The [Options] struct controls diagram generation:
//
//   - Detailed: When true, node labels include the output position, or
//     "unordered" for cycle members.
//
// # DOT Format
//
// The generated DOT uses top-to-bottom layout (rankdir=TB) and lists edges
// in relation order, duplicates included. It can be rendered with
// [RenderSVG] or saved and processed with external Graphviz tools.
//
// # Dependencies
//
// This package uses [github.com/goccy/go-graphviz] for in-process SVG
// rendering.
package nodelink
