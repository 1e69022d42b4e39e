package product

import (
	"time"

	"github.com/shopspring/decimal"
)

// Product is a listing owned by the marketplace backend.
type Product struct {
	ID          string          `json:"id"`
	Name        string          `json:"name"`
	Description string          `json:"description"`
	Price       decimal.Decimal `json:"price"`
	Category    string          `json:"category,omitempty"`
	ImagePath   string          `json:"image_path,omitempty"`
	Commission  decimal.Decimal `json:"commission"`
	SellerID    string          `json:"seller_id"`
	CreatedAt   time.Time       `json:"created_at"`
}

// CreateProductRequest is the multipart payload for a new listing. Price is
// kept exactly as the seller typed it.
type CreateProductRequest struct {
	Name        string
	Description string
	Price       string
	Image       *Image
}

// Image is a binary attachment sent under the "image" form key.
type Image struct {
	FileName    string
	ContentType string
	Data        []byte
}

// View is a product prepared for display.
type View struct {
	Product
	DisplayPrice      string `json:"display_price"`
	DisplayCommission string `json:"display_commission"`
	ImageURL          string `json:"image_url,omitempty"`
}
