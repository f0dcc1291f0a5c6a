package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/askhub/askhub/bootstrap"
	"github.com/askhub/askhub/config"
)

var hotReload bool

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the front server",
	Long: `Start the askhub front server.

The server will:
  - Load configuration from askhub.yaml (or --config)
  - Build the route tree from the routes file (loaded once, never reloaded)
  - Serve collections from the built-in backend, or reconcile against a
    remote backend when backend.mode is "remote"

Environment variables override file values:
  ASKHUB_SERVER_HOST    - Listen host
  ASKHUB_SERVER_PORT    - Listen port (default: 8080)
  ASKHUB_BACKEND_MODE   - builtin or remote
  ASKHUB_BACKEND_URL    - Remote backend base URL
  ASKHUB_DATABASE_DSN   - SQLite path, or "memory" (builtin mode)
  ASKHUB_LOG_LEVEL      - debug, info, warn, error

Examples:
  askhub serve
  askhub serve --config /etc/askhub/config.yaml
  askhub serve --hot-reload=false`,
	RunE: runServe,
}

func init() {
	rootCmd.AddCommand(serveCmd)

	serveCmd.Flags().BoolVar(&hotReload, "hot-reload", true, "enable hot reload of configuration")
}

func runServe(cmd *cobra.Command, args []string) error {
	var (
		app *bootstrap.App
		err error
	)
	if hotReload {
		app, err = bootstrap.NewWithHotReload(cfgFile)
	} else {
		var cfg *config.Config
		cfg, err = config.Load(cfgFile)
		if err != nil {
			return fmt.Errorf("load config: %w", err)
		}
		app, err = bootstrap.New(cfg)
	}
	if err != nil {
		return fmt.Errorf("initialize: %w", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	return app.Run(ctx)
}
