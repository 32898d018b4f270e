// Package serve runs the JSON API server.
package serve

import (
	"fmt"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"fjacquet/budgify/cmd/root"
	"fjacquet/budgify/internal/config"
	"fjacquet/budgify/internal/web"
)

var (
	host string
	port int
)

// Cmd represents the serve command
var Cmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve the analytical query API over HTTP",
	Long: `Serve exposes the store's query layer as a JSON API. Endpoints mirror
the CLI query commands and accept the same filter vocabulary as query
parameters. Set BUDGIFY_AUTH_PASSWORD to require basic auth.`,
	RunE: serveFunc,
}

func init() {
	Cmd.Flags().StringVar(&host, "host", "", "Listen host (default from config)")
	Cmd.Flags().IntVar(&port, "port", 0, "Listen port (default from config)")
}

func serveFunc(cmd *cobra.Command, args []string) error {
	cfg, err := config.InitializeConfig()
	if err != nil {
		return err
	}

	if host == "" {
		host = cfg.Server.Host
	}
	if port == 0 {
		port = cfg.Server.Port
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	addr := fmt.Sprintf("%s:%d", host, port)
	return web.ListenAndServe(ctx, addr, web.Server{
		DBPath:       root.SharedFlags.DBPath,
		AuthUser:     cfg.Server.AuthUser,
		AuthPassword: cfg.Server.AuthPassword,
	})
}
