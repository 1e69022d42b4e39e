package main

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/georgemunganga/printa-storefront/internal/modules/auth"
	"github.com/georgemunganga/printa-storefront/internal/modules/product"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

func readKeyFile(path string) (string, error) {
	if path == "" {
		return "", errors.New("--pgp-key-file is required")
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return "", fmt.Errorf("read PGP key: %w", err)
	}
	return string(data), nil
}

func newRegisterCmd(a *app) *cobra.Command {
	var keyFile string
	var isSeller bool
	cmd := &cobra.Command{
		Use:   "register",
		Short: "Create an account from an armored PGP public key",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			key, err := readKeyFile(keyFile)
			if err != nil {
				return err
			}
			fingerprints, err := auth.ValidatePGPKey(key)
			if err != nil {
				return err
			}
			a.log.Debug("pgp key accepted", zap.Strings("fingerprints", fingerprints))

			u, err := a.auth.Register(cmd.Context(), key, isSeller)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Registered %s (seller: %t)\n", u.ID, u.IsSeller)
			return nil
		},
	}
	cmd.Flags().StringVar(&keyFile, "pgp-key-file", "", "path to an ASCII-armored PGP public key")
	cmd.Flags().BoolVar(&isSeller, "seller", true, "register as a seller")
	return cmd
}

func newLoginCmd(a *app) *cobra.Command {
	var keyFile string
	cmd := &cobra.Command{
		Use:   "login",
		Short: "Log in and store the access token",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			key, err := readKeyFile(keyFile)
			if err != nil {
				return err
			}
			if _, err := a.auth.Login(cmd.Context(), key); err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), "Logged in.")
			return nil
		},
	}
	cmd.Flags().StringVar(&keyFile, "pgp-key-file", "", "path to the PGP key used at registration")
	return cmd
}

func newLogoutCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "logout",
		Short: "Forget the stored access token",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := a.auth.Logout(cmd.Context()); err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), "Logged out.")
			return nil
		},
	}
}

func newWhoamiCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "whoami",
		Short: "Show the session held by the stored token",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			sess, err := a.auth.Session(cmd.Context())
			if errors.Is(err, auth.ErrNoSession) {
				fmt.Fprintln(cmd.OutOrStdout(), "Not logged in.")
				return nil
			}
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "user:    %s\n", sess.Subject)
			fmt.Fprintf(out, "seller:  %t\n", sess.IsSeller)
			if !sess.ExpiresAt.IsZero() {
				state := "valid"
				if sess.Expired {
					state = "expired"
				}
				fmt.Fprintf(out, "expires: %s (%s)\n", sess.ExpiresAt.Local().Format("2006-01-02 15:04"), state)
			}
			return nil
		},
	}
}

func newCommissionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "commission <price>",
		Short: "Preview the marketplace commission for a price",
		Args:  cobra.ExactArgs(1),
		// pure calculation; skip config and token store
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error { return nil },
		RunE: func(cmd *cobra.Command, args []string) error {
			price := strings.TrimSpace(args[0])
			fmt.Fprintf(cmd.OutOrStdout(), "Commission on %s: %s\n", price, product.CommissionPreview(price))
			return nil
		},
	}
}
