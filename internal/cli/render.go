package cli

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	texerr "github.com/imfine/texwire/pkg/errors"
	"github.com/imfine/texwire/pkg/render"
	"github.com/imfine/texwire/pkg/render/nodelink"
)

// renderCommand creates the render command.
func (c *CLI) renderCommand() *cobra.Command {
	var (
		output   string
		format   string
		detailed bool
		scale    float64
	)

	cmd := &cobra.Command{
		Use:   "render MATERIAL",
		Short: "Draw a material's node graph",
		Long: `Render a material's node graph as Graphviz DOT, SVG, PDF or PNG.

The format defaults to the output file extension. PDF and PNG need
rsvg-convert on the PATH.`,
		Example: `  texwire render Wood -o wood.svg
  texwire render Wood --detailed -f dot`,
		Args:              cobra.ExactArgs(1),
		ValidArgsFunction: c.completeMaterials,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			material := args[0]
			if format == "" {
				format = strings.TrimPrefix(filepath.Ext(output), ".")
			}
			if format == "" {
				format = render.FormatSVG
			}
			if output == "" {
				output = fmt.Sprintf("%s.%s", material, format)
			}

			p, err := c.openStore(ctx)
			if err != nil {
				return err
			}
			defer p.Close()

			g, err := p.Graph(ctx, material)
			if err != nil {
				return err
			}
			dot := nodelink.ToDOT(g, nodelink.Options{Detailed: detailed})

			var data []byte
			switch format {
			case "dot":
				data = []byte(dot)
			case render.FormatSVG, render.FormatPDF, render.FormatPNG:
				spin := newSpinnerWithContext(ctx, "Rendering "+material+"...")
				spin.Start()
				data, err = nodelink.Render(ctx, dot, format, scale)
				spin.Stop()
				if err != nil {
					return err
				}
			default:
				return texerr.New(texerr.ErrCodeInvalidInput, "unsupported format %q", format)
			}

			if err := os.WriteFile(output, data, 0o644); err != nil {
				return err
			}
			printSuccess("Rendered %s", material)
			printFile(output)
			return nil
		},
	}

	f := cmd.Flags()
	f.StringVarP(&output, "output", "o", "", "output file (default MATERIAL.FORMAT)")
	f.StringVarP(&format, "format", "f", "", "dot, svg, pdf or png")
	f.BoolVar(&detailed, "detailed", false, "label nodes with paths and channels")
	f.Float64Var(&scale, "scale", 2, "PNG scale factor")
	return cmd
}
