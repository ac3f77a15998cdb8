package mapper

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/Iron-Mark/MSiazon-MarketWebsite/internal/domains/orders/domain"
)

// CartItem is a cart line as posted by the storefront. Price accepts JSON numbers and numeric
// strings.
type CartItem struct {
	Name     string           `json:"name"`
	Price    *decimal.Decimal `json:"price"`
	Quantity int              `json:"quantity"`
}

// CreateOrder is the checkout request body.
type CreateOrder struct {
	Name      string     `json:"name"`
	Address   string     `json:"address"`
	CartItems []CartItem `json:"cartItems"`
}

// StatusUpdate is the body of PUT /api/orders/:id/status.
type StatusUpdate struct {
	Status string `json:"status"`
}

// OrderItem is the transport shape of a persisted order line. ID is omitted for orders held in
// memory, whose items carry no store-assigned id.
type OrderItem struct {
	ID           int64   `json:"id,omitempty"`
	ProductName  string  `json:"productName"`
	ProductPrice float64 `json:"productPrice"`
	Quantity     int     `json:"quantity"`
}

// Order is the transport shape of an order.
type Order struct {
	ID         int64       `json:"id"`
	Name       string      `json:"name"`
	Address    string      `json:"address"`
	Total      float64     `json:"total"`
	Status     string      `json:"status"`
	CreatedAt  time.Time   `json:"createdAt"`
	OrderItems []OrderItem `json:"orderItems"`
}

// ToPlacementInput converts a checkout body into the domain input.
func ToPlacementInput(req CreateOrder) domain.PlacementInput {
	input := domain.PlacementInput{
		Name:      req.Name,
		Address:   req.Address,
		CartItems: make([]domain.CartItem, 0, len(req.CartItems)),
	}
	for _, item := range req.CartItems {
		input.CartItems = append(input.CartItems, domain.CartItem{
			Name:     item.Name,
			Price:    item.Price,
			Quantity: item.Quantity,
		})
	}
	return input
}

// FromDomainOrder converts a domain order to the transport representation.
func FromDomainOrder(order *domain.Order) Order {
	if order == nil {
		return Order{OrderItems: []OrderItem{}}
	}
	out := Order{
		ID:         order.ID,
		Name:       order.Name,
		Address:    order.Address,
		Total:      order.Total.InexactFloat64(),
		Status:     string(order.Status),
		CreatedAt:  order.CreatedAt,
		OrderItems: make([]OrderItem, 0, len(order.Items)),
	}
	for _, item := range order.Items {
		out.OrderItems = append(out.OrderItems, OrderItem{
			ID:           item.ID,
			ProductName:  item.ProductName,
			ProductPrice: item.ProductPrice.InexactFloat64(),
			Quantity:     item.Quantity,
		})
	}
	return out
}

func FromDomainOrders(orders []*domain.Order) []Order {
	out := make([]Order, 0, len(orders))
	for _, order := range orders {
		out = append(out, FromDomainOrder(order))
	}
	return out
}
