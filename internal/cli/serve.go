package cli

import (
	"github.com/spf13/cobra"

	"github.com/matzehuels/toposort/internal/server"
)

// serveCommand creates the serve command.
func (c *CLI) serveCommand() *cobra.Command {
	var addr string

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the sort API over HTTP",
		Long: `Serve starts an HTTP server with the endpoints

  GET  /healthz
  POST /v1/sort
  POST /v1/render

Requests carry relations in the JSON relation format. The server stops
gracefully on interrupt.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			logger := loggerFromContext(ctx)

			runner, err := c.newRunner(ctx, false)
			if err != nil {
				return err
			}
			defer runner.Close()

			cfg := server.ConfigFrom(c.Config)
			if addr != "" {
				cfg.Addr = addr
			}
			return server.New(runner, cfg, logger).ListenAndServe(ctx)
		},
	}

	cmd.Flags().StringVar(&addr, "addr", "", "listen address (default from config, :8080)")

	return cmd
}
