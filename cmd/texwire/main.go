// Command texwire wires texture files into Redshift material graphs.
package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/imfine/texwire/internal/cli"
	texerr "github.com/imfine/texwire/pkg/errors"
)

func main() {
	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	err := run(ctx)
	cancel()

	switch {
	case err == nil:
		return
	case errors.Is(err, context.Canceled):
		os.Exit(130) // Standard shell convention for SIGINT
	}
	fmt.Fprintln(os.Stderr, cli.StyleError.Render("error:"), texerr.UserMessage(err))
	os.Exit(texerr.ExitCode(err))
}

func run(ctx context.Context) error {
	var verbose bool

	c := cli.New(os.Stderr, cli.LogInfo)
	root := c.RootCommand()
	root.SilenceErrors = true
	root.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable debug logging")

	// The level must be set before the root hook attaches the logger.
	attach := root.PersistentPreRunE
	root.PersistentPreRunE = func(cmd *cobra.Command, args []string) error {
		if verbose {
			c.SetLogLevel(cli.LogDebug)
		}
		return attach(cmd, args)
	}

	return root.ExecuteContext(ctx)
}
