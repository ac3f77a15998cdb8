package ports

import (
	"context"
	"errors"

	"github.com/Iron-Mark/MSiazon-MarketWebsite/internal/domains/orders/domain"
)

//go:generate mockgen -source=repository.go -destination=portsmock/repository_mock.go -package=portsmock

var ErrNotFound = errors.New("order not found")

// Repository persists orders together with their items. Implementations return ErrNotFound
// for absent identifiers and report deletes as an affected-row count.
type Repository interface {
	List(ctx context.Context) ([]*domain.Order, error)
	GetByID(ctx context.Context, id int64) (*domain.Order, error)
	Create(ctx context.Context, order *domain.Order) (*domain.Order, error)
	UpdateStatus(ctx context.Context, id int64, status domain.Status) (*domain.Order, error)
	Delete(ctx context.Context, id int64) (int64, error)
}
