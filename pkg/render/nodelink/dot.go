package nodelink

import (
	"bytes"
	"context"
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"github.com/goccy/go-graphviz"

	"github.com/imfine/texwire/pkg/channel"
	"github.com/imfine/texwire/pkg/render"
	"github.com/imfine/texwire/pkg/shader"
	"github.com/imfine/texwire/pkg/trace"
)

// Options configures node-link diagram rendering.
type Options struct {
	// Detailed adds kind, texture path, traced channel and bump input type
	// to node labels. When false, only the node name is shown.
	Detailed bool
}

var kindFill = map[shader.Kind]string{
	shader.KindTextureSampler:   "lightyellow",
	shader.KindStandardMaterial: "lightblue",
	shader.KindMaterial:         "lightblue",
	shader.KindOutput:           "lightgrey",
	shader.KindBumpMap:          "thistle",
	shader.KindDisplacement:     "thistle",
	shader.KindTriplanar:        "palegreen",
	shader.KindMathAbs:          "mistyrose",
	shader.KindMathAbsVector:    "mistyrose",
}

// ToDOT converts a material graph to Graphviz DOT format.
// The resulting DOT string can be rendered using [RenderSVG], [RenderPDF], or [RenderPNG].
func ToDOT(v shader.View, opts Options) string {
	selected := make(map[shader.NodeID]bool)
	for _, id := range v.Selected() {
		selected[id] = true
	}

	var buf bytes.Buffer
	buf.WriteString("digraph G {\n")
	buf.WriteString("  rankdir=LR;\n")
	buf.WriteString("  bgcolor=\"transparent\";\n")
	buf.WriteString("  node [shape=box, style=\"rounded,filled\", fillcolor=white, fontsize=14, margin=\"0.2,0.1\"];\n")
	buf.WriteString("  edge [fontsize=10, fontcolor=dimgrey];\n")
	buf.WriteString("  ranksep=0.8;\n")
	buf.WriteString("  nodesep=0.3;\n")
	buf.WriteString("\n")

	for _, n := range v.Nodes() {
		label := fmtLabel(v, n, opts.Detailed)
		attrs := fmtAttrs(n, label, selected[n.ID])
		fmt.Fprintf(&buf, "  %q [%s];\n", n.ID, strings.Join(attrs, ", "))
	}

	buf.WriteString("\n")
	for _, e := range v.Edges() {
		label := e.From.LocalName() + " → " + e.To.LocalName()
		fmt.Fprintf(&buf, "  %q -> %q [label=%q];\n", e.From.Node, e.To.Node, label)
	}

	buf.WriteString("}\n")
	return buf.String()
}

func fmtLabel(v shader.View, n *shader.Node, detailed bool) string {
	name := n.Name
	if name == "" {
		name = n.Kind.String()
	}
	if !detailed {
		return name
	}

	parts := []string{"kind: " + n.Kind.String()}
	switch n.Kind {
	case shader.KindTextureSampler:
		if p, ok := n.Param(shader.PortTexture, shader.PortTexturePath); ok {
			if s, _ := shader.StringValue(p); s != "" {
				parts = append(parts, "path: "+s)
			}
		}
		if ch, ok := trace.Primary(trace.Usage(v, n.ID)); ok {
			parts = append(parts, "channel: "+string(ch)+" ("+channel.Suffix(ch)+")")
		}
	case shader.KindBumpMap:
		if t, ok := n.Param(shader.PortBumpType); ok {
			if i, ok := shader.IntValue(t); ok {
				parts = append(parts, "inputtype: "+strconv.Itoa(i))
			}
		}
	}
	return name + "\n" + strings.Join(parts, "\n")
}

func fmtAttrs(n *shader.Node, label string, selected bool) []string {
	attrs := []string{fmt.Sprintf("label=%q", label)}
	if fill, ok := kindFill[n.Kind]; ok {
		attrs = append(attrs, "fillcolor="+fill)
	}
	if selected {
		attrs = append(attrs, "penwidth=3")
	}
	return attrs
}

// RenderSVG renders a DOT graph to SVG using Graphviz.
// Returns the SVG bytes ready for display or further conversion with [render.ToPDF] or [render.ToPNG].
func RenderSVG(ctx context.Context, dot string) ([]byte, error) {
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

// normalizeViewBox replaces Graphviz's point-based svg header with one
// whose viewBox starts at the origin and whose size matches it.
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

// Render renders a DOT graph in format (svg, pdf or png).
func Render(ctx context.Context, dot, format string, scale float64) ([]byte, error) {
	svg, err := RenderSVG(ctx, dot)
	if err != nil {
		return nil, err
	}
	return render.Convert(ctx, svg, format, scale)
}

// RenderPDF renders a DOT graph as PDF via SVG conversion.
//
// Requires librsvg: brew install librsvg (macOS), apt install librsvg2-bin (Linux).
func RenderPDF(ctx context.Context, dot string) ([]byte, error) {
	return Render(ctx, dot, render.FormatPDF, 0)
}

// RenderPNG renders a DOT graph as PNG via SVG conversion.
// A scale of 2.0 produces a 2x resolution image suitable for high-DPI displays.
func RenderPNG(ctx context.Context, dot string, scale float64) ([]byte, error) {
	return Render(ctx, dot, render.FormatPNG, scale)
}
