package ports

import (
	"context"

	"github.com/Iron-Mark/MSiazon-MarketWebsite/internal/domains/orders/domain"
)

// Service exposes order use cases to adapters.
type Service interface {
	ListOrders(ctx context.Context) ([]*domain.Order, error)
	GetOrder(ctx context.Context, id int64) (*domain.Order, error)
	CreateOrder(ctx context.Context, input domain.PlacementInput) (*domain.Order, error)
	UpdateOrderStatus(ctx context.Context, id int64, status string) (*domain.Order, error)
	DeleteOrder(ctx context.Context, id int64) (int64, error)
}
