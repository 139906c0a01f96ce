package app

import (
	"github.com/spf13/cobra"
)

// NewServeCmd returns the command which hosts the schemas over HTTP.
func NewServeCmd(mgr Manager, state *rootState) *cobra.Command {
	var listen string
	var watch bool

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the schemas over HTTP",
		Long: `Serve the schemas of the schema directory over HTTP.

  GET  /v1/liveness               always 200
  GET  /v1/readiness              503 until at least one schema is loaded
  GET  /metrics                   Prometheus metrics
  GET  /v1/schemas                the names of the loaded schemas
  POST /v1/schemas/{name}/validate
                                  validate the request body against {name}
  POST /test                      example endpoint guarded by the "test" schema`,
		Args: cobra.NoArgs,
		Example: `
jerify serve
jerify serve --listen 127.0.0.1:9000 --watch -s ./schemas`,
	}

	cmd.Flags().StringVar(&listen, "listen", "", "address to listen on (overrides config)")
	cmd.Flags().BoolVarP(&watch, "watch", "w", false, "Reload the schemas when the schema directory changes")

	cmd.RunE = func(cmd *cobra.Command, _ []string) error {
		addr := state.cfg.Listen
		if cmd.Flags().Changed("listen") {
			addr = listen
		}
		w := state.cfg.Watch
		if cmd.Flags().Changed("watch") {
			w = watch
		}
		return mgr.Serve(cmd.Context(), addr, w, nil)
	}

	return cmd
}
