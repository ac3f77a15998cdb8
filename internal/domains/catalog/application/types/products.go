package types

import (
	"github.com/shopspring/decimal"

	"github.com/Iron-Mark/MSiazon-MarketWebsite/internal/domains/catalog/domain"
)

// ProductView is a product enriched with its resolved image URL.
type ProductView struct {
	Product  *domain.Product
	ImageURL string
}

// ProductInput carries create and update fields. On update only non-nil fields are applied.
type ProductInput struct {
	Name  *string
	Price *decimal.Decimal
	Image *string
}
