package ports

import (
	"context"

	"github.com/Iron-Mark/MSiazon-MarketWebsite/internal/domains/orders/domain"
)

// WorkflowOrchestrator runs order placement, either inline or on a durable workflow engine.
type WorkflowOrchestrator interface {
	PlaceOrder(ctx context.Context, input domain.PlacementInput) (*domain.Order, error)
}
