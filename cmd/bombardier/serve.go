package main

import (
	"context"
	"errors"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"bombardier/internal/api"
	"bombardier/internal/cmdlog"
	"bombardier/internal/logging"
)

func newServeCmd() *cobra.Command {
	var addr string
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP API",
		RunE: func(cmd *cobra.Command, args []string) error {
			return cmdlog.Run("serve", func() error {
				ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
				defer stop()

				a, err := newApp(ctx, true)
				if err != nil {
					return err
				}
				defer a.Close()
				if addr == "" {
					addr = a.cfg.Server.Addr
				}

				srv := &http.Server{
					Addr: addr,
					Handler: api.NewRouter(a.svc, api.Options{
						RatePerSecond: a.cfg.Server.RatePerSecond,
						Burst:         a.cfg.Server.Burst,
						Timeout:       a.cfg.Server.Timeout,
						Store:         a.db,
						MinScore:      a.cfg.Campaign.MinScore,
						MaxCount:      a.cfg.Campaign.MaxCount,
					}),
					ReadHeaderTimeout: 10 * time.Second,
				}

				errc := make(chan error, 1)
				go func() {
					logging.Info("server_listening", logging.Fields{"addr": addr})
					errc <- srv.ListenAndServe()
				}()

				select {
				case err := <-errc:
					if errors.Is(err, http.ErrServerClosed) {
						return nil
					}
					return err
				case <-ctx.Done():
				}

				logging.Info("server_shutdown", nil)
				shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
				defer cancel()
				return srv.Shutdown(shutdownCtx)
			})
		},
	}
	cmd.Flags().StringVar(&addr, "addr", "", "listen address (default from config)")
	return cmd
}
