package marketserver

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"

	orderhttpmapper "github.com/Iron-Mark/MSiazon-MarketWebsite/internal/domains/orders/adapters/http/mapper"
	"github.com/Iron-Mark/MSiazon-MarketWebsite/internal/domains/orders/domain"
	ordersports "github.com/Iron-Mark/MSiazon-MarketWebsite/internal/domains/orders/ports"
	"github.com/Iron-Mark/MSiazon-MarketWebsite/internal/shared/envelope"
	apierrors "github.com/Iron-Mark/MSiazon-MarketWebsite/internal/shared/errors"
)

// OrderAPI wires HTTP transport with the orders bounded context service and workflows.
type OrderAPI struct {
	service   ordersports.Service
	workflows ordersports.WorkflowOrchestrator
}

// NewOrderAPI creates an OrderAPI. A nil orchestrator places orders through the service.
func NewOrderAPI(service ordersports.Service, workflows ordersports.WorkflowOrchestrator) OrderAPI {
	return OrderAPI{service: service, workflows: workflows}
}

// Get /api/orders
func (api *OrderAPI) ListOrders(c *gin.Context) {
	orders, err := api.service.ListOrders(c.Request.Context())
	if err != nil {
		respondError(c, err, "Error fetching orders")
		return
	}
	c.JSON(http.StatusOK, envelope.OK(orderhttpmapper.FromDomainOrders(orders), ""))
}

// Get /api/orders/:id
func (api *OrderAPI) GetOrder(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		apierrors.Respond(c, apierrors.NotFound(msgOrderNotFound))
		return
	}
	order, err := api.service.GetOrder(c.Request.Context(), id)
	if err != nil {
		respondError(c, err, "Error fetching order")
		return
	}
	c.JSON(http.StatusOK, envelope.OK(orderhttpmapper.FromDomainOrder(order), ""))
}

// Post /api/orders
func (api *OrderAPI) CreateOrder(c *gin.Context) {
	var payload orderhttpmapper.CreateOrder
	if err := c.ShouldBindJSON(&payload); err != nil {
		respondBadBody(c, err)
		return
	}
	order, err := api.placeOrder(c.Request.Context(), orderhttpmapper.ToPlacementInput(payload))
	if err != nil {
		respondError(c, err, "Error creating order")
		return
	}
	c.JSON(http.StatusCreated, envelope.OK(orderhttpmapper.FromDomainOrder(order), "Order created successfully"))
}

func (api *OrderAPI) placeOrder(ctx context.Context, input domain.PlacementInput) (*domain.Order, error) {
	if api.workflows != nil {
		return api.workflows.PlaceOrder(ctx, input)
	}
	return api.service.CreateOrder(ctx, input)
}

// Put /api/orders/:id/status
func (api *OrderAPI) UpdateOrderStatus(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		apierrors.Respond(c, apierrors.NotFound(msgOrderNotFound))
		return
	}
	var payload orderhttpmapper.StatusUpdate
	if err := c.ShouldBindJSON(&payload); err != nil {
		respondBadBody(c, err)
		return
	}
	order, err := api.service.UpdateOrderStatus(c.Request.Context(), id, payload.Status)
	if err != nil {
		respondError(c, err, "Error updating order")
		return
	}
	c.JSON(http.StatusOK, envelope.OK(orderhttpmapper.FromDomainOrder(order), "Order status updated successfully"))
}

// Delete /api/orders/:id
// An unknown or unparsable id deletes nothing and still succeeds.
func (api *OrderAPI) DeleteOrder(c *gin.Context) {
	var affected int64
	if id, ok := parseIDParam(c, "id"); ok {
		var err error
		affected, err = api.service.DeleteOrder(c.Request.Context(), id)
		if err != nil {
			respondError(c, err, "Error deleting order")
			return
		}
	}
	c.JSON(http.StatusOK, envelope.OK(gin.H{"affected": affected}, "Order deleted successfully"))
}
