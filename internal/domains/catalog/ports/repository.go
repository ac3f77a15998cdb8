package ports

import (
	"context"
	"errors"

	"github.com/Iron-Mark/MSiazon-MarketWebsite/internal/domains/catalog/domain"
)

//go:generate mockgen -source=repository.go -destination=portsmock/repository_mock.go -package=portsmock

var ErrNotFound = errors.New("product not found")

// Repository persists catalog products.
type Repository interface {
	List(ctx context.Context) ([]*domain.Product, error)
	GetByID(ctx context.Context, id int64) (*domain.Product, error)
	// Create stores the product. A zero ID is assigned by the store.
	Create(ctx context.Context, product *domain.Product) (*domain.Product, error)
	Update(ctx context.Context, product *domain.Product) (*domain.Product, error)
	Delete(ctx context.Context, id int64) (int64, error)
	Count(ctx context.Context) (int64, error)
}
