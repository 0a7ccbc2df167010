package cli

import (
	"fmt"
	"path/filepath"

	"github.com/spf13/cobra"

	texerr "github.com/imfine/texwire/pkg/errors"
	"github.com/imfine/texwire/pkg/wire"
)

// setupCommand creates the setup command.
func (c *CLI) setupCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "setup MATERIAL FILE|DIR...",
		Short: "Wire texture files into a stored material",
		Long: `Create a texture sampler for each file and wire it into the material's
shading channel, bump or displacement.

Directories are expanded to the image files they contain. Paths are stored
as absolute paths.`,
		Example: `  texwire setup Wood ./textures/wood
  texwire setup Wood wood_diffuse.png wood_normal.png`,
		Args:              cobra.MinimumNArgs(2),
		ValidArgsFunction: c.completeMaterials,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			logger := loggerFromContext(ctx)
			material := args[0]
			if err := texerr.ValidateMaterialName(material); err != nil {
				return err
			}

			files, err := expandTextures(args[1:])
			if err != nil {
				return err
			}
			for _, f := range files {
				if err := texerr.ValidateTextureFile(f); err != nil {
					return err
				}
			}
			if files, err = absPaths(files); err != nil {
				return err
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

			prog := newProgress(logger)
			res, err := wire.Setup(ctx, g, files, wire.WithLogger(logger))
			if err != nil {
				return err
			}
			if err := p.Save(ctx, material, g); err != nil {
				return err
			}
			prog.done(fmt.Sprintf("Wired %d textures", res.Count(wire.StatusConnected)))

			printOutcomes(res)
			return nil
		},
	}
	return cmd
}

// printOutcomes prints one line per batch item.
func printOutcomes(res *wire.Result) {
	for _, o := range res.Outcomes {
		label := o.Name
		if o.File != "" {
			label = filepath.Base(o.File)
		}
		switch o.Status {
		case wire.StatusConnected:
			printSuccess("%s %s %s", label, StyleDim.Render(iconArrow), StyleHighlight.Render(o.Channel.String()))
		case wire.StatusUnclassified, wire.StatusNoTarget:
			printWarning("%s: %s", label, o.Status)
		default:
			printInfo("%s %s", label, StyleDim.Render(string(o.Status)))
		}
	}
	printDetail("%d nodes created, %d items", len(res.Created), len(res.Outcomes))
}
