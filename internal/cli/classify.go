package cli

import (
	"encoding/json"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/imfine/texwire/pkg/channel"
)

// classification is the JSON form of one classified file.
type classification struct {
	File    string          `json:"file"`
	Token   string          `json:"token,omitempty"`
	Channel channel.Channel `json:"channel,omitempty"`
	Suffix  string          `json:"suffix"`
}

// classifyCommand creates the classify command.
func (c *CLI) classifyCommand() *cobra.Command {
	var asJSON bool

	cmd := &cobra.Command{
		Use:   "classify FILE...",
		Short: "Show the shading channel of texture files",
		Long: `Classify texture files by the suffix token of their file name.

Directories are expanded to the texture files they contain.`,
		Example: `  texwire classify wood_diffuse.png wood_rough.jpg
  texwire classify ./textures --json`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			files, err := expandTextures(args)
			if err != nil {
				return err
			}
			out := classifyFiles(files)
			if asJSON {
				enc := json.NewEncoder(os.Stdout)
				enc.SetIndent("", "  ")
				return enc.Encode(out)
			}
			for _, cl := range out {
				if cl.Channel == "" {
					printWarning("%s: no channel", filepath.Base(cl.File))
					continue
				}
				printChannel(cl.Channel, filepath.Base(cl.File)+" "+StyleDim.Render("("+cl.Suffix+")"))
			}
			return nil
		},
	}

	cmd.Flags().BoolVar(&asJSON, "json", false, "print JSON")
	return cmd
}

func classifyFiles(files []string) []classification {
	out := make([]classification, len(files))
	for i, f := range files {
		ch, _ := channel.Classify(f)
		tok, _ := channel.SuffixToken(f)
		out[i] = classification{File: f, Token: tok, Channel: ch, Suffix: channel.Suffix(ch)}
	}
	return out
}
