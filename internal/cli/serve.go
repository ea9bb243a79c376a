package cli

import (
	"github.com/spf13/cobra"

	"github.com/emiliopalmerini/sessiontrack/internal/server"
	"github.com/emiliopalmerini/sessiontrack/internal/web"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve the read-only JSON API",
	Long: `Serve projects and sessions over HTTP until interrupted.

Endpoints:
  GET /health
  GET /projects[?status=active|completed|paused]
  GET /project/{id}
  GET /sessions
  GET /sessions/{id}

Examples:
  sessiontrack serve                 # Listen on SESSIONTRACK_ADDR (default :8080)
  sessiontrack serve --addr :3000`,
	RunE: runServe,
}

var serveAddr string

func init() {
	serveCmd.Flags().StringVar(&serveAddr, "addr", "", "Listen address (overrides SESSIONTRACK_ADDR)")
}

func runServe(cmd *cobra.Command, args []string) error {
	return withApp(cmd.Context(), func(app *AppContext) error {
		addr := app.Config.Addr
		if serveAddr != "" {
			addr = serveAddr
		}
		srv := web.NewHTTPServer(
			web.Config{Addr: addr},
			web.NewServer(app.Projects, app.Sessions, app.Logger),
		)
		return server.Run(cmd.Context(), srv, app.Config.ShutdownTimeout, app.Logger)
	})
}
