package review

import (
	"context"

	"github.com/georgemunganga/printa-storefront/internal/apiclient"
)

// Service is the reviews resource of the marketplace API.
type Service interface {
	Create(ctx context.Context, productID string, rating int, comment string) (*Review, error)
	ListForProduct(ctx context.Context, productID string, page, limit int) ([]*Review, error)
}

type service struct{ api *apiclient.Client }

func NewService(api *apiclient.Client) Service { return &service{api: api} }

func (s *service) Create(ctx context.Context, productID string, rating int, comment string) (*Review, error) {
	req := CreateReviewRequest{ProductID: productID, Rating: rating, Comment: comment}
	var rv Review
	if err := s.api.PostJSON(ctx, apiclient.PathReviews, req, &rv); err != nil {
		return nil, err
	}
	return &rv, nil
}

func (s *service) ListForProduct(ctx context.Context, productID string, page, limit int) ([]*Review, error) {
	resp, err := apiclient.GetPage[*Review](ctx, s.api, apiclient.ProductReviewsPath(productID), page, limit)
	if err != nil {
		return nil, err
	}
	return resp.Items, nil
}
