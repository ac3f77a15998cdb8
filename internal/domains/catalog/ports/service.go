package ports

import (
	"context"

	"github.com/Iron-Mark/MSiazon-MarketWebsite/internal/domains/catalog/application/types"
)

// Service exposes catalog use cases to adapters.
type Service interface {
	ListProducts(ctx context.Context) ([]*types.ProductView, error)
	GetProduct(ctx context.Context, id int64) (*types.ProductView, error)
	CreateProduct(ctx context.Context, input types.ProductInput) (*types.ProductView, error)
	UpdateProduct(ctx context.Context, id int64, input types.ProductInput) (*types.ProductView, error)
	DeleteProduct(ctx context.Context, id int64) (int64, error)
	SeedDefaultProducts(ctx context.Context) (int, error)
}

// ImageResolver turns an image reference into a public URL.
type ImageResolver interface {
	URL(ref string) string
}
