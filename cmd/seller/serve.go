package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/georgemunganga/printa-storefront/internal/modules/seller"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

func newServeCmd(a *app) *cobra.Command {
	var addr string
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the seller dashboard",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if addr == "" {
				addr = a.cfg.Dashboard.Addr
			}
			log := a.log.Named("dashboard")

			feed := seller.NewFeed(0)
			wf := seller.NewWorkflow(a.products, seller.Options{
				Timeout:       a.cfg.API.RequestTimeout,
				MaxImageBytes: a.cfg.Upload.MaxImageBytes,
				Notifier:      feed,
				Logger:        a.log.Named("seller"),
				OnState: func(s seller.State) {
					log.Debug("submission state", zap.String("state", string(s)))
				},
			})

			router := chi.NewRouter()
			router.Use(middleware.Logger)
			router.Use(middleware.Recoverer)
			router.Use(middleware.RequestID)
			seller.NewHandler(wf, a.products, a.auth, feed, a.cfg.Upload.MaxImageBytes).RegisterRoutes(router)

			srv := &http.Server{
				Addr:              addr,
				Handler:           router,
				ReadHeaderTimeout: 10 * time.Second,
			}

			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			errCh := make(chan error, 1)
			go func() {
				log.Info("seller dashboard starting", zap.String("addr", addr), zap.String("api", a.cfg.API.BaseURL))
				errCh <- srv.ListenAndServe()
			}()

			select {
			case err := <-errCh:
				if !errors.Is(err, http.ErrServerClosed) {
					return err
				}
				return nil
			case <-ctx.Done():
			}

			log.Info("shutting down")
			shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
			defer cancel()
			return srv.Shutdown(shutdownCtx)
		},
	}
	cmd.Flags().StringVar(&addr, "addr", "", "listen address (default DASHBOARD_ADDR)")
	return cmd
}
