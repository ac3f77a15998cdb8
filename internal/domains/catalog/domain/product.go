package domain

import (
	"errors"
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/shopspring/decimal"
)

// Column limits of the products table.
const (
	MaxNameLength  = 255
	MaxImageLength = 512
)

// MaxPrice is the largest value a DECIMAL(12,2) column holds.
var MaxPrice = decimal.RequireFromString("9999999999.99")

var (
	ErrMissingName    = errors.New("name is required")
	ErrMissingPrice   = errors.New("price is required")
	ErrNegativePrice  = errors.New("price must be >= 0")
	ErrFractionalCent = errors.New("price must have at most 2 decimals")
	ErrPriceTooLarge  = fmt.Errorf("price must be at most %s", MaxPrice)
	ErrNameTooLong    = fmt.Errorf("name must be at most %d characters", MaxNameLength)
	ErrImageTooLong   = fmt.Errorf("image must be at most %d characters", MaxImageLength)
)

// Product is a sellable catalog item. Image is an opaque reference resolved to a URL at read
// time.
type Product struct {
	ID    int64
	Name  string
	Price decimal.Decimal
	Image string
}

// ValidationError lists every problem found in a product.
type ValidationError struct {
	Problems []error
}

func (v *ValidationError) Error() string {
	msgs := make([]string, 0, len(v.Problems))
	for _, p := range v.Problems {
		msgs = append(msgs, p.Error())
	}
	return strings.Join(msgs, "; ")
}

func (v *ValidationError) Unwrap() []error {
	return v.Problems
}

// NewProduct builds a validated product. The price is kept as supplied and must be whole cents.
func NewProduct(name string, price *decimal.Decimal, image string) (*Product, error) {
	name, image = strings.TrimSpace(name), strings.TrimSpace(image)
	var problems []error
	if name == "" {
		problems = append(problems, ErrMissingName)
	} else if utf8.RuneCountInString(name) > MaxNameLength {
		problems = append(problems, ErrNameTooLong)
	}
	switch {
	case price == nil:
		problems = append(problems, ErrMissingPrice)
	case price.IsNegative():
		problems = append(problems, ErrNegativePrice)
	case !price.Equal(price.Truncate(2)):
		problems = append(problems, ErrFractionalCent)
	case price.GreaterThan(MaxPrice):
		problems = append(problems, ErrPriceTooLarge)
	}
	if utf8.RuneCountInString(image) > MaxImageLength {
		problems = append(problems, ErrImageTooLong)
	}
	if len(problems) > 0 {
		return nil, &ValidationError{Problems: problems}
	}
	return &Product{Name: name, Price: *price, Image: image}, nil
}

// DefaultProducts is the starter catalog inserted into an empty store.
func DefaultProducts() []Product {
	starter := []struct {
		flavor string
		price  string
	}{
		{"Strawberry", "3.00"},
		{"Chocolate", "2.50"},
		{"Candy", "2.75"},
		{"Berry", "3.00"},
		{"Caramel", "2.50"},
		{"Orange", "2.50"},
	}
	products := make([]Product, 0, len(starter))
	for _, s := range starter {
		products = append(products, Product{
			Name:  s.flavor + " Macaroon",
			Price: decimal.RequireFromString(s.price),
			Image: strings.ToLower(s.flavor) + ".jpg",
		})
	}
	return products
}
