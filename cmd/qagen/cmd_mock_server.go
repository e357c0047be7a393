package main

import (
	"fmt"
	"log/slog"
	"net"

	"github.com/spboyer/qagen/internal/webserver"
	"github.com/spf13/cobra"
)

func newMockServerCommand() *cobra.Command {
	var (
		host    string
		port    int
		origins []string
	)

	cmd := &cobra.Command{
		Use:   "mock-server",
		Short: "Run a local mock of the backend API",
		Long: `Run a local mock of the backend API for offline use and testing.

The mock serves the four endpoints the pages call with deterministic
responses derived from the request:
  POST /api/parseSwagger         plain text API details
  POST /api/generateCode         feature file, API class, POJOs, step definitions
  POST /api/generateFeatureFile  Gherkin feature (IDs starting with MISSING return 404)
  POST /api/resumeReview         Markdown feedback with an assessment table

Point the client at it with --api-url or api.base_url.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(cmd)
			if err != nil {
				return err
			}
			srvCfg := webserver.Config{
				Host:           cfg.Server.Host,
				Port:           cfg.Server.Port,
				AllowedOrigins: cfg.Server.AllowedOrigins,
				Logger:         slog.Default(),
			}
			if cmd.Flags().Changed("host") {
				srvCfg.Host = host
			}
			if cmd.Flags().Changed("port") {
				srvCfg.Port = port
			}
			if cmd.Flags().Changed("allow-origin") {
				srvCfg.AllowedOrigins = origins
			}

			srv := webserver.New(srvCfg)
			ln, err := net.Listen("tcp", srv.Addr())
			if err != nil {
				return fmt.Errorf("failed to start mock server: %w", err)
			}
			fmt.Fprintf(cmd.ErrOrStderr(), "Mock backend listening on http://%s\n", ln.Addr()) //nolint:errcheck
			return srv.Serve(cmd.Context(), ln)
		},
	}

	cmd.Flags().StringVar(&host, "host", "", "Interface to bind (default: server.host from config)")
	cmd.Flags().IntVarP(&port, "port", "p", 0, "Port to listen on (default: server.port from config)")
	cmd.Flags().StringSliceVar(&origins, "allow-origin", nil, "Origins allowed by CORS, * for any (default: server.allowed_origins from config)")

	return cmd
}
