package validation

import (
	"errors"
	"testing"
)

type listing struct {
	Name  string `json:"name" validate:"required"`
	Price string `json:"price" validate:"required,price"`
	Stars int    `json:"stars" validate:"min=1,max=5"`
}

func TestStructCollectsFieldErrors(t *testing.T) {
	err := Struct(listing{Price: "-1", Stars: 9})
	var fe FieldErrors
	if !errors.As(err, &fe) {
		t.Fatalf("err = %v, want FieldErrors", err)
	}
	if fe["name"] == "" || fe["price"] == "" || fe["stars"] != "Must be at most 5." {
		t.Errorf("field errors = %v", fe)
	}
	if fe.Error() == "" {
		t.Error("empty Error()")
	}
}

func TestStructAcceptsValidInput(t *testing.T) {
	for _, price := range []string{"0", "100.00", " 19.99 ", "1e2"} {
		if err := Struct(listing{Name: "Widget", Price: price, Stars: 3}); err != nil {
			t.Errorf("price %q: %v", price, err)
		}
	}
	if err := Struct(listing{Name: "Widget", Price: "abc", Stars: 3}); err == nil {
		t.Error("expected error for non-numeric price")
	}
}
