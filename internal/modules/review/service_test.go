package review_test

import (
	"context"
	"net/http"
	"testing"

	"github.com/georgemunganga/printa-storefront/internal/apiclient"
	"github.com/georgemunganga/printa-storefront/internal/apitest"
	"github.com/georgemunganga/printa-storefront/internal/modules/review"
	"github.com/georgemunganga/printa-storefront/internal/tokenstore"
)

func TestCreateAndListReviews(t *testing.T) {
	srv := apitest.NewServer(t)
	p := srv.AddProduct("Widget", "10.00")
	svc := review.NewService(apiclient.New(srv.BaseURL, tokenstore.NewMemory("")))
	ctx := context.Background()

	for i, comment := range []string{"great", "fine", "meh"} {
		rv, err := svc.Create(ctx, p.ID, 5-i, comment)
		if err != nil {
			t.Fatalf("Create: %v", err)
		}
		if rv.ProductID != p.ID || rv.Comment != comment || rv.ID == "" {
			t.Errorf("review = %+v", rv)
		}
	}

	page1, err := svc.ListForProduct(ctx, p.ID, 1, 2)
	if err != nil {
		t.Fatalf("ListForProduct: %v", err)
	}
	page2, err := svc.ListForProduct(ctx, p.ID, 2, 2)
	if err != nil {
		t.Fatalf("ListForProduct page 2: %v", err)
	}
	if len(page1) != 2 || len(page2) != 1 || page2[0].Comment != "meh" {
		t.Errorf("pages = %d/%d", len(page1), len(page2))
	}
}

func TestCreateReviewUnknownProduct(t *testing.T) {
	srv := apitest.NewServer(t)
	svc := review.NewService(apiclient.New(srv.BaseURL, tokenstore.NewMemory("")))

	_, err := svc.Create(context.Background(), "missing", 4, "ok")
	if !apiclient.IsServer(err) || apiclient.StatusOf(err) != http.StatusNotFound {
		t.Fatalf("err = %v", err)
	}
	if err.Error() != "Product not found" {
		t.Errorf("message = %q", err.Error())
	}
}
