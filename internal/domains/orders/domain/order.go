package domain

import (
	"strings"
	"time"
	"unicode/utf8"

	"github.com/shopspring/decimal"
)

// Status is the free-form order status. The well-known values below are what the storefront
// and back office use, but any non-empty value is stored as given.
type Status string

const (
	StatusPending   Status = "pending"
	StatusConfirmed Status = "confirmed"
	StatusShipped   Status = "shipped"
	StatusDelivered Status = "delivered"
	StatusCancelled Status = "cancelled"
)

// Order is a submitted checkout. Items are owned by the order and carry copies of the product
// name and price taken at placement time.
type Order struct {
	ID        int64
	Name      string
	Address   string
	Total     decimal.Decimal
	Status    Status
	CreatedAt time.Time
	Items     []OrderItem
}

// OrderItem is a line of an order.
type OrderItem struct {
	ID           int64
	ProductName  string
	ProductPrice decimal.Decimal
	Quantity     int
}

// CartItem is a client-supplied cart line that has not been persisted yet.
type CartItem struct {
	Name     string
	Price    *decimal.Decimal
	Quantity int
}

// PlacementInput carries everything needed to place an order.
type PlacementInput struct {
	Name      string
	Address   string
	CartItems []CartItem
}

// NewOrder validates the input and builds a pending order. Item prices are stored as supplied
// (validation guarantees whole cents) and the total is their exact sum.
func NewOrder(input PlacementInput, createdAt time.Time) (*Order, error) {
	if err := ValidatePlacement(input); err != nil {
		return nil, err
	}
	order := &Order{
		Name:      strings.TrimSpace(input.Name),
		Address:   strings.TrimSpace(input.Address),
		Status:    StatusPending,
		CreatedAt: createdAt,
		Items:     make([]OrderItem, 0, len(input.CartItems)),
	}
	for _, item := range input.CartItems {
		order.Items = append(order.Items, OrderItem{
			ProductName:  strings.TrimSpace(item.Name),
			ProductPrice: *item.Price,
			Quantity:     item.Quantity,
		})
	}
	order.Total = SumItems(order.Items)
	return order, nil
}

// SumItems returns Σ price*quantity.
func SumItems(items []OrderItem) decimal.Decimal {
	total := decimal.Zero
	for _, item := range items {
		total = total.Add(item.ProductPrice.Mul(decimal.NewFromInt(int64(item.Quantity))))
	}
	return total
}

// ParseStatus trims the raw value and rejects empty or over-long statuses.
func ParseStatus(raw string) (Status, error) {
	status := Status(strings.TrimSpace(raw))
	switch {
	case status == "":
		return "", &ValidationError{Problems: []error{ErrMissingStatus}}
	case utf8.RuneCountInString(string(status)) > MaxStatusLength:
		return "", &ValidationError{Problems: []error{ErrStatusTooLong}}
	}
	return status, nil
}

// Clone returns a deep copy of the order.
func (o *Order) Clone() *Order {
	if o == nil {
		return nil
	}
	clone := *o
	clone.Items = append([]OrderItem(nil), o.Items...)
	return &clone
}
