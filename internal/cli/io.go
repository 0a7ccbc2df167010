package cli

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	texerr "github.com/imfine/texwire/pkg/errors"
	pkgio "github.com/imfine/texwire/pkg/io"
)

// importCommand creates the import command.
func (c *CLI) importCommand() *cobra.Command {
	var name string

	cmd := &cobra.Command{
		Use:   "import FILE",
		Short: "Store a material graph from a JSON or YAML document",
		Long: `Read a material graph document and save it in the store.

The material name defaults to the document's material field, then to the
file name.`,
		Example: `  texwire import wood.json
  texwire import scene/metal.yaml --name Steel`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			doc, err := pkgio.Import(args[0])
			if err != nil {
				return texerr.Wrap(texerr.ErrCodeInvalidFormat, err, "import %s", args[0])
			}
			switch {
			case name != "":
				doc.Material = name
			case doc.Material == "":
				doc.Material = strings.TrimSuffix(filepath.Base(args[0]), filepath.Ext(args[0]))
			}
			if err := texerr.ValidateMaterialName(doc.Material); err != nil {
				return err
			}
			g, err := doc.Graph()
			if err != nil {
				return err
			}

			p, err := c.openStore(ctx)
			if err != nil {
				return err
			}
			defer p.Close()

			if err := p.Save(ctx, doc.Material, g); err != nil {
				return err
			}
			printSuccess("Imported %s", StyleHighlight.Render(doc.Material))
			printStats(g.NodeCount(), g.EdgeCount())
			return nil
		},
	}

	cmd.Flags().StringVarP(&name, "name", "n", "", "material name to store under")
	return cmd
}

// exportCommand creates the export command.
func (c *CLI) exportCommand() *cobra.Command {
	var output string

	cmd := &cobra.Command{
		Use:   "export MATERIAL",
		Short: "Write a stored material graph to a JSON or YAML document",
		Example: `  texwire export Wood
  texwire export Wood -o wood.yaml`,
		Args:              cobra.ExactArgs(1),
		ValidArgsFunction: c.completeMaterials,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			material := args[0]
			if output == "" {
				output = fmt.Sprintf("%s.json", material)
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
			doc, err := pkgio.FromGraph(material, g)
			if err != nil {
				return err
			}
			if err := pkgio.Export(doc, output); err != nil {
				return err
			}
			printSuccess("Exported %s", StyleHighlight.Render(material))
			printFile(output)
			return nil
		},
	}

	cmd.Flags().StringVarP(&output, "output", "o", "", "output file, .json or .yaml (default MATERIAL.json)")
	return cmd
}
