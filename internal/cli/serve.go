package cli

import (
	"github.com/spf13/cobra"

	"github.com/ordrect/ordrect/internal/server"
)

// newServeCmd creates the serve command, which runs the HTTP API until
// interrupted.
func newServeCmd() *cobra.Command {
	var addr string

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP API",
		Long: `Run the HTTP API.

Endpoints:
  GET  /healthz       liveness probe
  POST /v1/order      resolve a document into a drawing order
  POST /v1/view       render a document as an ASCII grid
  POST /v1/overlap    classify the relation of two rectangles
  POST /v1/render     render the constraint graph as DOT, SVG, or PNG

All POST endpoints accept the JSON document format produced by the CLI.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			logger := loggerFromContext(ctx)
			cfg := configFromContext(ctx)

			if addr == "" {
				addr = cfg.Server.Addr
			}

			c, err := openCache(cfg)
			if err != nil {
				return err
			}
			defer c.Close()

			ttl, err := cfg.cacheTTL()
			if err != nil {
				return err
			}

			srv := server.New(server.Options{
				Logger:   logger,
				Cache:    c,
				Keyer:    cfg.keyer(),
				CacheTTL: ttl,
			})
			printInfo("Serving on %s", addr)
			return srv.ListenAndServe(ctx, addr)
		},
	}

	cmd.Flags().StringVarP(&addr, "addr", "a", "", "listen address (default from config)")

	return cmd
}
