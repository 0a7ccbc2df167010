package cli

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/go-git/go-billy/v5/osfs"
	"github.com/spf13/cobra"

	"github.com/imfine/texwire/pkg/collect"
	texerr "github.com/imfine/texwire/pkg/errors"
)

// collectCommand creates the collect command.
func (c *CLI) collectCommand() *cobra.Command {
	var (
		dest   string
		scene  string
		rewire bool
		all    bool
	)

	cmd := &cobra.Command{
		Use:   "collect [MATERIAL...]",
		Short: "Copy the textures of materials into a project folder",
		Long: `Copy every texture a material samples into DEST/tex, naming the copies
after the material and the channel the texture feeds.

Relative texture paths are looked up next to the scene directory and in its
tex folder. With --rewire the samplers are pointed at the copies and the
materials are saved back to the store.`,
		Example: `  texwire collect Wood Metal --dest ./project
  texwire collect --all --dest ./project --scene ./scenes --rewire`,
		ValidArgsFunction: func(cmd *cobra.Command, args []string, toComplete string) ([]string, cobra.ShellCompDirective) {
			return c.completeMaterials(cmd, nil, toComplete)
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			logger := loggerFromContext(ctx)

			if !all && len(args) == 0 {
				return texerr.New(texerr.ErrCodeInvalidInput, "name materials or pass --all")
			}
			if dest == "" {
				wd, err := os.Getwd()
				if err != nil {
					return err
				}
				dest = wd
			}
			destDir, err := filepath.Abs(dest)
			if err != nil {
				return err
			}
			if scene == "" {
				scene = destDir
			}
			if scene, err = filepath.Abs(scene); err != nil {
				return err
			}
			if !rewire {
				rewire = c.settings().Collect.Rewire
			}

			p, err := c.openStore(ctx)
			if err != nil {
				return err
			}
			defer p.Close()

			materials := args
			if all {
				if materials, err = p.List(ctx); err != nil {
					return err
				}
			}

			wd, err := os.Getwd()
			if err != nil {
				return err
			}
			src := osfs.New("/")
			prog := newProgress(logger)
			spin := newSpinnerWithContext(ctx, "Collecting textures...")
			col := collect.New(src, collect.NewResolver(src, scene, collect.WithWorkDir(wd)), osfs.New(destDir),
				collect.WithLogger(logger),
				collect.WithRewire(rewire),
				collect.WithProgress(func(it collect.Item) {
					prog.step()
					spin.Update(fmt.Sprintf("Collecting %s / %s", it.Material, it.Name))
				}),
			)

			spin.Start()
			sum, err := col.Collect(ctx, p, materials)
			spin.Stop()
			if err != nil {
				return err
			}
			prog.done(fmt.Sprintf("Collected %d textures", sum.Copied))

			printSummary(sum)
			return nil
		},
	}

	f := cmd.Flags()
	f.StringVarP(&dest, "dest", "d", "", "project folder receiving tex/ (default current directory)")
	f.StringVar(&scene, "scene", "", "directory relative texture paths are resolved against (default --dest)")
	f.BoolVar(&rewire, "rewire", false, "point samplers at the copied files")
	f.BoolVar(&all, "all", false, "collect every stored material")
	return cmd
}

// printSummary reports a collection run.
func printSummary(sum *collect.Summary) {
	for _, it := range sum.Items {
		switch it.Status {
		case collect.StatusCopied:
			printSuccess("%s %s", it.Name, StyleDim.Render(it.Channel.String()))
			printFile(it.Dest)
		default:
			printWarning("%s: %s", it.Name, texerr.UserMessage(it.Err))
		}
	}
	for _, s := range sum.Skipped {
		printWarning("skipped %s: %s", s.Material, texerr.UserMessage(s.Err))
	}
	if sum.Rewired > 0 {
		printInfo("rewired %d samplers", sum.Rewired)
	}
	printKeyValue("Folder", sum.Dir)
}
