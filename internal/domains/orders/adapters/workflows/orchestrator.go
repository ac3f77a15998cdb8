package workflows

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	oteltrace "go.opentelemetry.io/otel/trace"
	"go.temporal.io/api/serviceerror"
	"go.temporal.io/sdk/client"
	"go.temporal.io/sdk/temporal"

	ordersapp "github.com/Iron-Mark/MSiazon-MarketWebsite/internal/domains/orders/application"
	"github.com/Iron-Mark/MSiazon-MarketWebsite/internal/domains/orders/domain"
	"github.com/Iron-Mark/MSiazon-MarketWebsite/internal/domains/orders/ports"
	orderactivities "github.com/Iron-Mark/MSiazon-MarketWebsite/internal/durable/temporal/activities/orders"
	orderworkflows "github.com/Iron-Mark/MSiazon-MarketWebsite/internal/durable/temporal/workflows/orders"
)

var (
	_ ports.WorkflowOrchestrator = (*TemporalOrderWorkflows)(nil)
	_ ports.WorkflowOrchestrator = (*InlineOrderWorkflows)(nil)
)

// workflowStarter is the subset of the Temporal client used to place orders.
type workflowStarter interface {
	ExecuteWorkflow(ctx context.Context, options client.StartWorkflowOptions, workflow interface{}, args ...interface{}) (client.WorkflowRun, error)
}

// TemporalOrderWorkflows places orders through a Temporal workflow.
type TemporalOrderWorkflows struct {
	client    workflowStarter
	taskQueue string
	fallback  ports.WorkflowOrchestrator
}

// TemporalOption configures TemporalOrderWorkflows.
type TemporalOption func(*TemporalOrderWorkflows)

// WithUnavailableFallback places orders through next when the Temporal frontend reports itself
// unavailable at start time.
func WithUnavailableFallback(next ports.WorkflowOrchestrator) TemporalOption {
	return func(o *TemporalOrderWorkflows) {
		o.fallback = next
	}
}

// NewTemporalOrderWorkflows wires a Temporal client into the orchestrator.
func NewTemporalOrderWorkflows(c client.Client, opts ...TemporalOption) *TemporalOrderWorkflows {
	o := &TemporalOrderWorkflows{client: c, taskQueue: orderworkflows.OrderPlacementTaskQueue}
	for _, opt := range opts {
		opt(o)
	}
	return o
}

// PlaceOrder validates the checkout locally, then starts the placement workflow and waits for
// the persisted order.
func (o *TemporalOrderWorkflows) PlaceOrder(ctx context.Context, input domain.PlacementInput) (*domain.Order, error) {
	if o == nil || o.client == nil {
		return nil, errors.New("temporal order workflows not configured")
	}
	if err := domain.ValidatePlacement(input); err != nil {
		return nil, fmt.Errorf("%w: %w", ordersapp.ErrInvalidInput, err)
	}
	options := client.StartWorkflowOptions{
		ID:        "order-placement-" + uuid.NewString(),
		TaskQueue: o.taskQueue,
	}
	run, err := o.client.ExecuteWorkflow(
		ctx,
		options,
		orderworkflows.OrderPlacementWorkflowName,
		orderworkflows.OrderPlacementWorkflowInput{Placement: input, TraceID: workflowTraceID(ctx)},
	)
	if err != nil {
		var unavailable *serviceerror.Unavailable
		if errors.As(err, &unavailable) && o.fallback != nil {
			return o.fallback.PlaceOrder(ctx, input)
		}
		return nil, fmt.Errorf("start order placement: %w", err)
	}
	var order domain.Order
	if err := run.Get(ctx, &order); err != nil {
		var appErr *temporal.ApplicationError
		if errors.As(err, &appErr) && appErr.Type() == orderactivities.InvalidOrderErrorType {
			return nil, fmt.Errorf("%w: %s", ordersapp.ErrInvalidInput, appErr.Error())
		}
		return nil, fmt.Errorf("order placement workflow %s: %w", run.GetID(), err)
	}
	return &order, nil
}

// InlineOrderWorkflows executes the service directly without Temporal.
type InlineOrderWorkflows struct {
	service ports.Service
}

func NewInlineOrderWorkflows(service ports.Service) *InlineOrderWorkflows {
	return &InlineOrderWorkflows{service: service}
}

func (o *InlineOrderWorkflows) PlaceOrder(ctx context.Context, input domain.PlacementInput) (*domain.Order, error) {
	if o == nil || o.service == nil {
		return nil, errors.New("inline order workflows not configured")
	}
	return o.service.CreateOrder(ctx, input)
}

func workflowTraceID(ctx context.Context) string {
	spanCtx := oteltrace.SpanContextFromContext(ctx)
	if !spanCtx.IsValid() {
		return ""
	}
	return spanCtx.TraceID().String()
}
