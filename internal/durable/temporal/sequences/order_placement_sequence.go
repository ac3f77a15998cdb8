package sequences

import (
	"time"

	"go.temporal.io/sdk/temporal"
	"go.temporal.io/sdk/workflow"

	"github.com/Iron-Mark/MSiazon-MarketWebsite/internal/domains/orders/domain"
	orderactivities "github.com/Iron-Mark/MSiazon-MarketWebsite/internal/durable/temporal/activities/orders"
)

// RunOrderPlacementSequence executes the activities needed to persist a checkout.
func RunOrderPlacementSequence(ctx workflow.Context, input domain.PlacementInput) (*domain.Order, error) {
	logger := workflow.GetLogger(ctx)
	logger.Info("order placement sequence started", "cartItems", len(input.CartItems))
	options := workflow.ActivityOptions{
		StartToCloseTimeout: 30 * time.Second,
		// Order inserts are not idempotent: one attempt only.
		RetryPolicy: &temporal.RetryPolicy{
			MaximumAttempts:        1,
			NonRetryableErrorTypes: []string{orderactivities.InvalidOrderErrorType},
		},
	}
	ctx = workflow.WithActivityOptions(ctx, options)

	var order domain.Order
	err := workflow.ExecuteActivity(ctx, orderactivities.PersistOrderActivityName, input).Get(ctx, &order)
	if err != nil {
		logger.Error("order placement sequence failed", "error", err)
		return nil, err
	}
	logger.Info("order placement sequence completed", "orderId", order.ID)
	return &order, nil
}
