package cli

import (
	"github.com/spf13/cobra"

	"github.com/imfine/texwire/pkg/api"
	"github.com/imfine/texwire/pkg/observability/promhooks"
)

// serveCommand creates the serve command.
func (c *CLI) serveCommand() *cobra.Command {
	var (
		addr    string
		metrics bool
	)

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the material HTTP API",
		Long: `Serve classification, tracing, setup, transform and rendering of stored
materials over HTTP. Prometheus metrics are exposed on /metrics.`,
		Example: `  texwire serve --addr :9090
  texwire serve --store redis://localhost:6379/0`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			logger := loggerFromContext(ctx)
			if !cmd.Flags().Changed("addr") {
				addr = c.settings().Server.Addr
			}

			p, err := c.openStore(ctx)
			if err != nil {
				return err
			}
			defer p.Close()

			opts := []api.Option{api.WithLogger(logger)}
			if metrics {
				reg := promhooks.NewRegistry()
				reg.Install()
				opts = append(opts, api.WithMetrics(reg))
			}

			logger.Info("listening", "addr", addr)
			return api.New(p, opts...).ListenAndServe(ctx, addr)
		},
	}

	cmd.Flags().StringVar(&addr, "addr", ":8080", "listen address")
	cmd.Flags().BoolVar(&metrics, "metrics", true, "expose Prometheus metrics")
	return cmd
}
