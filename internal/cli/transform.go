package cli

import (
	"errors"
	"fmt"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"github.com/imfine/texwire/pkg/shader"
	"github.com/imfine/texwire/pkg/wire"
)

// errPickerCancelled is returned when the options picker is quit.
var errPickerCancelled = errors.New("transform cancelled")

// transformFlags binds the option flags of the transform command.
type transformFlags struct {
	scale, offset, rotation bool
	triplanar, vectorAbs    bool
	perTexture              bool
	interactive, save       bool
}

// apply overrides the options of every flag set on the command line.
func (f *transformFlags) apply(cmd *cobra.Command, opts *wire.Options) {
	set := func(name string, dst *bool, v bool) {
		if cmd.Flags().Changed(name) {
			*dst = v
		}
	}
	set("scale", &opts.Scale, f.scale)
	set("offset", &opts.Offset, f.offset)
	set("rotation", &opts.Rotation, f.rotation)
	set("triplanar", &opts.Triplanar, f.triplanar)
	set("vector-scale", &opts.ScaleUsesVectorAbs, f.vectorAbs)
	set("per-texture", &opts.PerTexture, f.perTexture)
}

// transformCommand creates the transform command.
func (c *CLI) transformCommand() *cobra.Command {
	var flags transformFlags

	cmd := &cobra.Command{
		Use:   "transform MATERIAL [NODE...]",
		Short: "Add shared transform controls to texture samplers",
		Long: `Add scale, offset and rotation controls to texture samplers, optionally
routing them through triplanar nodes.

Without NODE arguments the selected nodes of the material are used. Options
default to the settings file; --interactive opens a picker and --save stores
the chosen options for the next run.`,
		Example: `  texwire transform Wood
  texwire transform Wood --offset --rotation --per-texture
  texwire transform Wood -i --save`,
		Args:              cobra.MinimumNArgs(1),
		ValidArgsFunction: c.completeMaterials,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			logger := loggerFromContext(ctx)
			material := args[0]

			s := c.settings()
			opts := s.Transform
			flags.apply(cmd, &opts)

			if flags.interactive {
				picked, err := pickOptions(opts)
				if err != nil {
					return err
				}
				opts = picked
			}
			if flags.save {
				s.Transform = opts
				if err := c.saveSettings(s); err != nil {
					return err
				}
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
			ids := make([]shader.NodeID, len(args)-1)
			for i, id := range args[1:] {
				ids[i] = shader.NodeID(id)
			}

			prog := newProgress(logger)
			res, err := wire.Transform(ctx, g, ids, opts, wire.WithLogger(logger))
			if err != nil {
				return err
			}
			if err := p.Save(ctx, material, g); err != nil {
				return err
			}
			prog.done(fmt.Sprintf("Transformed %d textures", res.Count(wire.StatusConnected)))

			printOutcomes(res)
			return nil
		},
	}

	f := cmd.Flags()
	f.BoolVar(&flags.scale, "scale", false, "add a scale control")
	f.BoolVar(&flags.offset, "offset", false, "add an offset control")
	f.BoolVar(&flags.rotation, "rotation", false, "add a rotation control")
	f.BoolVar(&flags.triplanar, "triplanar", false, "route textures through triplanar nodes")
	f.BoolVar(&flags.vectorAbs, "vector-scale", false, "use a vector scale control")
	f.BoolVar(&flags.perTexture, "per-texture", false, "create controls per texture")
	f.BoolVarP(&flags.interactive, "interactive", "i", false, "pick options interactively")
	f.BoolVar(&flags.save, "save", false, "store the options in the settings file")
	return cmd
}

// pickOptions runs the interactive options picker.
func pickOptions(opts wire.Options) (wire.Options, error) {
	final, err := tea.NewProgram(NewOptionsModel(opts)).Run()
	if err != nil {
		return opts, err
	}
	m := final.(OptionsModel)
	if !m.Confirmed {
		return opts, errPickerCancelled
	}
	return m.Options(), nil
}
