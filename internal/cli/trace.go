package cli

import (
	"encoding/json"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/imfine/texwire/pkg/collect"
	"github.com/imfine/texwire/pkg/trace"
)

// traceCommand creates the trace command.
func (c *CLI) traceCommand() *cobra.Command {
	var asJSON bool

	cmd := &cobra.Command{
		Use:               "trace MATERIAL",
		Short:             "List the channels each texture sampler of a material feeds",
		Args:              cobra.ExactArgs(1),
		ValidArgsFunction: c.completeMaterials,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			p, err := c.openStore(ctx)
			if err != nil {
				return err
			}
			defer p.Close()

			g, err := p.Graph(ctx, args[0])
			if err != nil {
				return err
			}
			items := collect.Scan(args[0], g, trace.WithLogger(loggerFromContext(ctx)))
			if asJSON {
				enc := json.NewEncoder(os.Stdout)
				enc.SetIndent("", "  ")
				return enc.Encode(items)
			}
			if len(items) == 0 {
				printInfo("%s has no texture samplers with a path", args[0])
				return nil
			}
			for _, it := range items {
				chs := make([]string, len(it.Channels))
				for i, ch := range it.Channels {
					chs[i] = ch.String()
				}
				used := "unused"
				if len(chs) > 0 {
					used = strings.Join(chs, ", ")
				}
				printKeyValue(it.Name, used)
				printDetail("%s", it.Path)
			}
			return nil
		},
	}

	cmd.Flags().BoolVar(&asJSON, "json", false, "print JSON")
	return cmd
}
