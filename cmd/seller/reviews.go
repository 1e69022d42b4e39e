package main

import (
	"fmt"
	"text/tabwriter"

	"github.com/georgemunganga/printa-storefront/internal/modules/review"
	"github.com/georgemunganga/printa-storefront/internal/validation"
	"github.com/spf13/cobra"
)

func newReviewsCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "reviews",
		Short: "Read and write product reviews",
	}
	cmd.AddCommand(newReviewsAddCmd(a), newReviewsListCmd(a))
	return cmd
}

func newReviewsAddCmd(a *app) *cobra.Command {
	var rating int
	var comment string
	cmd := &cobra.Command{
		Use:   "add <product-id>",
		Short: "Review a product",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			req := review.CreateReviewRequest{ProductID: args[0], Rating: rating, Comment: comment}
			if err := validation.Struct(req); err != nil {
				return err
			}
			rv, err := a.reviews.Create(cmd.Context(), req.ProductID, req.Rating, req.Comment)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Review %s saved.\n", rv.ID)
			return nil
		},
	}
	cmd.Flags().IntVar(&rating, "rating", 0, "rating from 1 to 5")
	cmd.Flags().StringVar(&comment, "comment", "", "review text")
	return cmd
}

func newReviewsListCmd(a *app) *cobra.Command {
	var page, limit int
	cmd := &cobra.Command{
		Use:   "list <product-id>",
		Short: "List reviews of a product",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			list, err := a.reviews.ListForProduct(cmd.Context(), args[0], page, limit)
			if err != nil {
				return err
			}
			tw := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
			fmt.Fprintln(tw, "RATING\tDATE\tCOMMENT")
			for _, rv := range list {
				fmt.Fprintf(tw, "%d\t%s\t%s\n", rv.Rating, rv.CreatedAt.Format("2006-01-02"), rv.Comment)
			}
			return tw.Flush()
		},
	}
	cmd.Flags().IntVar(&page, "page", 1, "page number")
	cmd.Flags().IntVar(&limit, "limit", 10, "reviews per page")
	return cmd
}
