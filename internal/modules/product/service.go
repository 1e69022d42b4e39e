package product

import (
	"context"

	"github.com/georgemunganga/printa-storefront/internal/apiclient"
)

// Service is the products resource of the marketplace API.
type Service interface {
	Create(ctx context.Context, req CreateProductRequest) (*Product, error)
	List(ctx context.Context, page, limit int) ([]*Product, error)
	Get(ctx context.Context, id string) (*Product, error)
	Delete(ctx context.Context, id string) (string, error)
	View(p *Product) View
}

type service struct{ api *apiclient.Client }

func NewService(api *apiclient.Client) Service { return &service{api: api} }

// Create posts the listing as multipart form data: name, description and
// price as text parts, plus the image file when present.
func (s *service) Create(ctx context.Context, req CreateProductRequest) (*Product, error) {
	form := &apiclient.MultipartForm{}
	form.AddField("name", req.Name)
	form.AddField("description", req.Description)
	form.AddField("price", req.Price)
	if req.Image != nil {
		form.AddFile(apiclient.FormFile{
			FieldName:   "image",
			FileName:    req.Image.FileName,
			ContentType: req.Image.ContentType,
			Data:        req.Image.Data,
		})
	}

	var p Product
	if err := s.api.PostMultipart(ctx, apiclient.PathProducts, form, &p); err != nil {
		return nil, err
	}
	return &p, nil
}

func (s *service) List(ctx context.Context, page, limit int) ([]*Product, error) {
	resp, err := apiclient.GetPage[*Product](ctx, s.api, apiclient.PathProducts, page, limit)
	if err != nil {
		return nil, err
	}
	return resp.Items, nil
}

func (s *service) Get(ctx context.Context, id string) (*Product, error) {
	var p Product
	if err := s.api.Get(ctx, apiclient.ProductPath(id), nil, &p); err != nil {
		return nil, err
	}
	return &p, nil
}

func (s *service) Delete(ctx context.Context, id string) (string, error) {
	var resp apiclient.MessageResponse
	if err := s.api.Delete(ctx, apiclient.ProductPath(id), &resp); err != nil {
		return "", err
	}
	return resp.Message, nil
}

func (s *service) View(p *Product) View {
	return View{
		Product:           *p,
		DisplayPrice:      FormatMoney(p.Price),
		DisplayCommission: FormatMoney(p.Commission),
		ImageURL:          s.api.ImageURL(p.ImagePath),
	}
}
