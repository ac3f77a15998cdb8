package orders

import (
	"context"
	"errors"

	"go.temporal.io/sdk/activity"
	"go.temporal.io/sdk/temporal"

	ordersapp "github.com/Iron-Mark/MSiazon-MarketWebsite/internal/domains/orders/application"
	"github.com/Iron-Mark/MSiazon-MarketWebsite/internal/domains/orders/domain"
	ordersports "github.com/Iron-Mark/MSiazon-MarketWebsite/internal/domains/orders/ports"
)

const (
	// PersistOrderActivityName persists a validated checkout as a pending order.
	PersistOrderActivityName = "orders.activities.PersistOrder"
	// InvalidOrderErrorType tags non-retryable validation failures.
	InvalidOrderErrorType = "InvalidOrderInput"
)

// Activities groups activities that operate on the orders bounded context.
type Activities struct {
	service ordersports.Service
}

func NewActivities(service ordersports.Service) *Activities {
	return &Activities{service: service}
}

// PersistOrder stores the order. Validation failures are returned as non-retryable
// application errors.
func (a *Activities) PersistOrder(ctx context.Context, input domain.PlacementInput) (*domain.Order, error) {
	logger := activity.GetLogger(ctx)
	if a == nil || a.service == nil {
		logger.Error("order persist activity not initialized")
		return nil, errors.New("order persist activity not initialized")
	}
	logger.Info("PersistOrder activity started", "cartItems", len(input.CartItems))
	order, err := a.service.CreateOrder(ctx, input)
	if err != nil {
		logger.Error("PersistOrder activity failed", "error", err)
		if errors.Is(err, ordersapp.ErrInvalidInput) {
			return nil, temporal.NewNonRetryableApplicationError(err.Error(), InvalidOrderErrorType, err)
		}
		return nil, err
	}
	logger.Info("PersistOrder activity completed", "orderId", order.ID)
	return order, nil
}
