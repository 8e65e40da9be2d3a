package ui

import (
	"context"
	"errors"
	"os"
	"os/signal"
	"syscall"

	"github.com/gin-gonic/gin"
	"github.com/spf13/cobra"

	"github.com/javiermolinar/courtside/internal/api"
)

func (a *App) serveCmd() *cobra.Command {
	var addr string

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the booking store over HTTP",
		Long: `Expose the local booking database as a REST API under /v1.

Other courtside instances can use it by setting storage.remote_url.`,
		Example: `  courtside serve
  courtside serve --addr=:9090`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if a.config.Storage.RemoteURL != "" {
				return errors.New("serve needs a local database; unset storage.remote_url")
			}
			if err := a.ensureStore(); err != nil {
				return err
			}
			if addr == "" {
				addr = a.config.Server.Addr
			}
			if !a.verbose && !a.debug {
				gin.SetMode(gin.ReleaseMode)
			}

			parent := cmd.Context()
			if parent == nil {
				parent = context.Background()
			}
			ctx, stop := signal.NotifyContext(parent, os.Interrupt, syscall.SIGTERM)
			defer stop()

			router := api.NewRouter(a.store, api.Options{
				AllowedOrigins: a.config.Server.AllowedOrigins,
				Logger:         a.logger,
			})
			return api.Serve(ctx, addr, router, a.logger)
		},
	}

	cmd.Flags().StringVar(&addr, "addr", "", "Listen address (default: server.addr)")
	return cmd
}
