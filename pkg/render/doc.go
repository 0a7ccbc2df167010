// Package render turns material graphs into pictures for inspection.
//
// The [nodelink] subpackage writes a material graph as Graphviz DOT and
// renders it to SVG in process. [ToPDF] and [ToPNG] convert any SVG to other
// formats using the external rsvg-convert tool (from librsvg):
//
//	dot := nodelink.ToDOT(g, nodelink.Options{Detailed: true})
//	svg, err := nodelink.RenderSVG(ctx, dot)
//	pdf, err := render.ToPDF(ctx, svg)
//
// [nodelink]: github.com/imfine/texwire/pkg/render/nodelink
package render
