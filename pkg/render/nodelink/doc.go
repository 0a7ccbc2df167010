// Package nodelink renders material graphs as node-link diagrams.
//
// # Usage
//
// Convert a graph to DOT format, then render to SVG:
//
//	dot := nodelink.ToDOT(g, nodelink.Options{Detailed: true})
//	svg, err := nodelink.RenderSVG(ctx, dot)
//
// # Layout
//
// The diagram flows left to right, from texture samplers to the material and
// output sinks. Node fill color follows the node kind, selected nodes get a
// heavy outline, and every edge is labelled with the local names of the two
// ports it joins ("outcolor → base_color").
//
// With [Options.Detailed] set, labels also carry the node kind, the file path
// of texture samplers together with the channel they feed, and the input
// type of bump maps.
//
// # Dependencies
//
// This package uses [github.com/goccy/go-graphviz] for in-process SVG
// rendering. PDF and PNG conversion goes through the parent render package
// and requires librsvg (rsvg-convert).
package nodelink
