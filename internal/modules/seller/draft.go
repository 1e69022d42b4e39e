package seller

import (
	"errors"
	"fmt"

	"github.com/georgemunganga/printa-storefront/internal/modules/product"
)

const (
	FieldName        = "name"
	FieldDescription = "description"
	FieldPrice       = "price"
)

var ErrUnknownField = errors.New("unknown draft field")

// Draft is the unsaved product form. Price stays the raw text the seller
// typed; it is only parsed for the commission preview and by the server.
type Draft struct {
	Name        string `json:"name" validate:"required"`
	Description string `json:"description" validate:"required"`
	Price       string `json:"price" validate:"required,price"`
}

// KnownField reports whether name is a draft field.
func KnownField(name string) bool {
	switch name {
	case FieldName, FieldDescription, FieldPrice:
		return true
	}
	return false
}

// SetField updates one field without validating it.
func (d *Draft) SetField(name, value string) error {
	switch name {
	case FieldName:
		d.Name = value
	case FieldDescription:
		d.Description = value
	case FieldPrice:
		d.Price = value
	default:
		return fmt.Errorf("%w: %q", ErrUnknownField, name)
	}
	return nil
}

// CommissionPreview is the fee the seller will pay on the current price.
func (d Draft) CommissionPreview() string {
	return product.CommissionPreview(d.Price)
}

func (d *Draft) Reset() { *d = Draft{} }

func (d Draft) IsEmpty() bool { return d == Draft{} }
