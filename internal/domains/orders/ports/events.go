package ports

import (
	"context"
	"time"

	"github.com/shopspring/decimal"
)

// EventType names an order lifecycle transition.
type EventType string

const (
	EventOrderCreated       EventType = "order.created"
	EventOrderStatusChanged EventType = "order.status_changed"
	EventOrderDeleted       EventType = "order.deleted"
)

// Event is the payload published for downstream consumers.
type Event struct {
	Type       EventType       `json:"type"`
	OrderID    int64           `json:"orderId"`
	Status     string          `json:"status,omitempty"`
	Total      decimal.Decimal `json:"total"`
	ItemCount  int             `json:"itemCount,omitempty"`
	OccurredAt time.Time       `json:"occurredAt"`
}

// EventPublisher delivers order events. Publishing is best effort; callers log failures and
// never fail the originating use case.
type EventPublisher interface {
	Publish(ctx context.Context, event Event) error
}
