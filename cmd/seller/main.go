package main

import (
	"context"
	"fmt"
	"net/http"
	"os"

	"github.com/georgemunganga/printa-storefront/internal/apiclient"
	"github.com/georgemunganga/printa-storefront/internal/config"
	"github.com/georgemunganga/printa-storefront/internal/logger"
	"github.com/georgemunganga/printa-storefront/internal/modules/auth"
	"github.com/georgemunganga/printa-storefront/internal/modules/product"
	"github.com/georgemunganga/printa-storefront/internal/modules/review"
	"github.com/georgemunganga/printa-storefront/internal/tokenstore"
	_ "github.com/go-sql-driver/mysql"
	_ "github.com/lib/pq"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

// app holds everything a command needs once config has been read.
type app struct {
	cfg      *config.AppConfig
	log      *zap.Logger
	tokens   tokenstore.Store
	api      *apiclient.Client
	auth     auth.Service
	products product.Service
	reviews  review.Service
}

func (a *app) open(ctx context.Context, envFiles []string) error {
	cfg, err := config.Load(envFiles...)
	if err != nil {
		return err
	}
	a.cfg = cfg

	a.log, err = logger.Init(cfg.Logger)
	if err != nil {
		return fmt.Errorf("init logger: %w", err)
	}

	a.tokens, err = tokenstore.Open(ctx, cfg.Token)
	if err != nil {
		return fmt.Errorf("open token store: %w", err)
	}

	a.api = apiclient.New(cfg.API.BaseURL, a.tokens,
		apiclient.WithHTTPClient(&http.Client{Timeout: cfg.API.RequestTimeout}),
		apiclient.WithLogger(a.log.Named("api")),
	)
	a.auth = auth.NewService(a.api)
	a.products = product.NewService(a.api)
	a.reviews = review.NewService(a.api)
	return nil
}

// close releases what open acquired. It is safe to call more than once and
// after a partial open.
func (a *app) close() {
	if a.tokens != nil {
		if err := a.tokens.Close(); err != nil && a.log != nil {
			a.log.Warn("close token store", zap.Error(err))
		}
		a.tokens = nil
	}
	if a.log != nil {
		_ = a.log.Sync()
	}
}

// newRootCmd returns the command tree and the cleanup to run once it has
// executed, whether or not the command succeeded.
func newRootCmd() (*cobra.Command, func()) {
	a := &app{}
	var envFiles []string

	root := &cobra.Command{
		Use:           "seller",
		Short:         "Manage your marketplace listings",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return a.open(cmd.Context(), envFiles)
		},
	}
	root.PersistentFlags().StringSliceVar(&envFiles, "env-file", nil, "dotenv files to load (default .env)")

	root.AddCommand(
		newRegisterCmd(a),
		newLoginCmd(a),
		newLogoutCmd(a),
		newWhoamiCmd(a),
		newCommissionCmd(),
		newProductsCmd(a),
		newReviewsCmd(a),
		newServeCmd(a),
	)
	return root, a.close
}

func main() {
	root, cleanup := newRootCmd()
	err := root.ExecuteContext(context.Background())
	cleanup()
	if err != nil {
		fmt.Fprintln(os.Stderr, "Error:", describe(err))
		os.Exit(1)
	}
}

// describe renders err for a terminal. API failures show their
// normalized message and, for server errors, the status.
func describe(err error) string {
	if apiclient.IsServer(err) {
		return fmt.Sprintf("%s (HTTP %d)", err.Error(), apiclient.StatusOf(err))
	}
	return err.Error()
}
