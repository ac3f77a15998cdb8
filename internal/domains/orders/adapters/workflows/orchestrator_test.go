package workflows

import (
	"context"
	"encoding/json"
	"strings"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.temporal.io/api/serviceerror"
	"go.temporal.io/sdk/client"

	"github.com/Iron-Mark/MSiazon-MarketWebsite/internal/domains/orders/adapters/memory"
	ordersapp "github.com/Iron-Mark/MSiazon-MarketWebsite/internal/domains/orders/application"
	"github.com/Iron-Mark/MSiazon-MarketWebsite/internal/domains/orders/domain"
	orderworkflows "github.com/Iron-Mark/MSiazon-MarketWebsite/internal/durable/temporal/workflows/orders"
)

type fakeRun struct {
	client.WorkflowRun
	id     string
	result *domain.Order
}

func (r *fakeRun) GetID() string { return r.id }

func (r *fakeRun) Get(_ context.Context, valuePtr interface{}) error {
	raw, err := json.Marshal(r.result)
	if err != nil {
		return err
	}
	return json.Unmarshal(raw, valuePtr)
}

type fakeStarter struct {
	options  []client.StartWorkflowOptions
	workflow []interface{}
	result   *domain.Order
	err      error
}

func (f *fakeStarter) ExecuteWorkflow(_ context.Context, options client.StartWorkflowOptions, workflow interface{}, _ ...interface{}) (client.WorkflowRun, error) {
	f.options = append(f.options, options)
	f.workflow = append(f.workflow, workflow)
	if f.err != nil {
		return nil, f.err
	}
	return &fakeRun{id: options.ID, result: f.result}, nil
}

func validInput() domain.PlacementInput {
	p := decimal.RequireFromString("3.00")
	return domain.PlacementInput{
		Name:      "Grace",
		Address:   "7 Compiler Way",
		CartItems: []domain.CartItem{{Name: "Berry Macaroon", Price: &p, Quantity: 1}},
	}
}

func TestTemporalOrderWorkflows_StartsPlacementWorkflow(t *testing.T) {
	starter := &fakeStarter{result: &domain.Order{ID: 9, Name: "Grace", Status: domain.StatusPending, Total: decimal.RequireFromString("3")}}
	orchestrator := &TemporalOrderWorkflows{client: starter, taskQueue: orderworkflows.OrderPlacementTaskQueue}

	order, err := orchestrator.PlaceOrder(context.Background(), validInput())
	require.NoError(t, err)
	assert.Equal(t, int64(9), order.ID)

	require.Len(t, starter.options, 1)
	assert.Equal(t, orderworkflows.OrderPlacementTaskQueue, starter.options[0].TaskQueue)
	assert.True(t, strings.HasPrefix(starter.options[0].ID, "order-placement-"))
	assert.Equal(t, orderworkflows.OrderPlacementWorkflowName, starter.workflow[0])
}

func TestTemporalOrderWorkflows_RejectsInvalidInputBeforeStarting(t *testing.T) {
	starter := &fakeStarter{}
	orchestrator := &TemporalOrderWorkflows{client: starter, taskQueue: orderworkflows.OrderPlacementTaskQueue}

	_, err := orchestrator.PlaceOrder(context.Background(), domain.PlacementInput{})
	require.ErrorIs(t, err, ordersapp.ErrInvalidInput)
	var validation *domain.ValidationError
	require.ErrorAs(t, err, &validation)
	assert.Empty(t, starter.options)
}

func TestTemporalOrderWorkflows_UnavailableFallsBackInline(t *testing.T) {
	starter := &fakeStarter{err: serviceerror.NewUnavailable("frontend down")}
	inline := NewInlineOrderWorkflows(ordersapp.NewService(memory.NewRepository()))
	orchestrator := &TemporalOrderWorkflows{client: starter, taskQueue: orderworkflows.OrderPlacementTaskQueue}
	WithUnavailableFallback(inline)(orchestrator)

	order, err := orchestrator.PlaceOrder(context.Background(), validInput())
	require.NoError(t, err)
	assert.Equal(t, int64(1), order.ID)
	assert.Len(t, starter.options, 1)
}

func TestTemporalOrderWorkflows_StartErrorWithoutFallback(t *testing.T) {
	starter := &fakeStarter{err: serviceerror.NewUnavailable("frontend down")}
	orchestrator := &TemporalOrderWorkflows{client: starter, taskQueue: orderworkflows.OrderPlacementTaskQueue}

	_, err := orchestrator.PlaceOrder(context.Background(), validInput())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "start order placement")
}

func TestInlineOrderWorkflows_DelegatesToService(t *testing.T) {
	orchestrator := NewInlineOrderWorkflows(ordersapp.NewService(memory.NewRepository()))

	order, err := orchestrator.PlaceOrder(context.Background(), validInput())
	require.NoError(t, err)
	assert.Equal(t, int64(1), order.ID)
}
