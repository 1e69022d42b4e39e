package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"text/tabwriter"

	"github.com/georgemunganga/printa-storefront/internal/modules/product"
	"github.com/georgemunganga/printa-storefront/internal/modules/seller"
	"github.com/georgemunganga/printa-storefront/internal/validation"
	"github.com/spf13/cobra"
)

func newProductsCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "products",
		Short: "List, inspect, create and delete products",
	}
	cmd.AddCommand(
		newProductsListCmd(a),
		newProductsGetCmd(a),
		newProductsDeleteCmd(a),
		newProductsCreateCmd(a),
	)
	return cmd
}

func printProducts(w io.Writer, views []product.View) {
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "ID\tNAME\tPRICE\tCOMMISSION\tIMAGE")
	for _, v := range views {
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%s\n", v.ID, v.Name, v.DisplayPrice, v.DisplayCommission, v.ImageURL)
	}
	tw.Flush()
}

func printProduct(w io.Writer, v product.View) {
	fmt.Fprintf(w, "id:          %s\n", v.ID)
	fmt.Fprintf(w, "name:        %s\n", v.Name)
	fmt.Fprintf(w, "description: %s\n", v.Description)
	fmt.Fprintf(w, "price:       %s\n", v.DisplayPrice)
	fmt.Fprintf(w, "commission:  %s\n", v.DisplayCommission)
	if v.ImageURL != "" {
		fmt.Fprintf(w, "image:       %s\n", v.ImageURL)
	}
}

func newProductsListCmd(a *app) *cobra.Command {
	var page, limit int
	cmd := &cobra.Command{
		Use:   "list",
		Short: "List products",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			list, err := a.products.List(cmd.Context(), page, limit)
			if err != nil {
				return err
			}
			views := make([]product.View, 0, len(list))
			for _, p := range list {
				views = append(views, a.products.View(p))
			}
			printProducts(cmd.OutOrStdout(), views)
			return nil
		},
	}
	cmd.Flags().IntVar(&page, "page", 1, "page number")
	cmd.Flags().IntVar(&limit, "limit", 10, "products per page")
	return cmd
}

func newProductsGetCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "get <id>",
		Short: "Show one product",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			p, err := a.products.Get(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			printProduct(cmd.OutOrStdout(), a.products.View(p))
			return nil
		},
	}
}

func newProductsDeleteCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "delete <id>",
		Short: "Delete one of your products",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			msg, err := a.products.Delete(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), msg)
			return nil
		},
	}
}

func newProductsCreateCmd(a *app) *cobra.Command {
	var name, description, price, imagePath string
	cmd := &cobra.Command{
		Use:   "create",
		Short: "List a new product",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			out := cmd.OutOrStdout()
			wf := seller.NewWorkflow(a.products, seller.Options{
				Timeout:       a.cfg.API.RequestTimeout,
				MaxImageBytes: a.cfg.Upload.MaxImageBytes,
				Logger:        a.log.Named("seller"),
				Notifier: seller.NotifierFunc(func(_ context.Context, n seller.Notification) error {
					_, err := fmt.Fprintln(cmd.ErrOrStderr(), n.Message)
					return err
				}),
			})

			if err := wf.SetFields(map[string]string{
				seller.FieldName:        name,
				seller.FieldDescription: description,
				seller.FieldPrice:       price,
			}); err != nil {
				return err
			}
			if err := validation.Struct(wf.Draft()); err != nil {
				return err
			}
			fmt.Fprintf(out, "Commission: %s\n", wf.CommissionPreview())

			if imagePath != "" {
				data, err := os.ReadFile(imagePath)
				if err != nil {
					return fmt.Errorf("read image: %w", err)
				}
				done, err := wf.StageImage(cmd.Context(), []seller.ImageFile{{Name: filepath.Base(imagePath), Data: data}})
				if err != nil {
					return err
				}
				<-done
			}

			p, err := wf.Submit(cmd.Context())
			if err != nil {
				return err
			}
			printProduct(out, a.products.View(p))
			return nil
		},
	}
	cmd.Flags().StringVar(&name, "name", "", "product name")
	cmd.Flags().StringVar(&description, "description", "", "product description")
	cmd.Flags().StringVar(&price, "price", "", "price, e.g. 19.99")
	cmd.Flags().StringVar(&imagePath, "image", "", "JPEG, PNG or WebP image to attach")
	return cmd
}
