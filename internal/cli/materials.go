package cli

import (
	"github.com/spf13/cobra"
)

// materialsCommand creates the materials command.
func (c *CLI) materialsCommand() *cobra.Command {
	return &cobra.Command{
		Use:     "materials",
		Aliases: []string{"ls"},
		Short:   "List stored materials",
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			p, err := c.openStore(ctx)
			if err != nil {
				return err
			}
			defer p.Close()

			names, err := p.List(ctx)
			if err != nil {
				return err
			}
			if len(names) == 0 {
				printInfo("No materials stored")
				printNextStep("Import one", "texwire import material.json")
				return nil
			}
			for _, n := range names {
				printInfo("%s", n)
			}
			return nil
		},
	}
}
