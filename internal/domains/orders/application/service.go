package application

import (
	"context"
	"io"
	"log/slog"
	"time"

	"github.com/Iron-Mark/MSiazon-MarketWebsite/internal/domains/orders/domain"
	"github.com/Iron-Mark/MSiazon-MarketWebsite/internal/domains/orders/ports"
)

// Service orchestrates order use cases.
type Service struct {
	repo   ports.Repository
	events ports.EventPublisher
	now    func() time.Time
	logger *slog.Logger
}

type Option func(*Service)

// WithEventPublisher publishes lifecycle events after successful writes.
func WithEventPublisher(p ports.EventPublisher) Option {
	return func(s *Service) {
		s.events = p
	}
}

// WithClock overrides the creation timestamp source.
func WithClock(now func() time.Time) Option {
	return func(s *Service) {
		if now != nil {
			s.now = now
		}
	}
}

// WithLogger receives event publishing failures.
func WithLogger(logger *slog.Logger) Option {
	return func(s *Service) {
		if logger != nil {
			s.logger = logger
		}
	}
}

func NewService(repo ports.Repository, opts ...Option) *Service {
	s := &Service{
		repo:   repo,
		now:    time.Now,
		logger: slog.New(slog.NewTextHandler(io.Discard, nil)),
	}
	for _, opt := range opts {
		if opt != nil {
			opt(s)
		}
	}
	return s
}

func (s *Service) ListOrders(ctx context.Context) ([]*domain.Order, error) {
	orders, err := s.repo.List(ctx)
	if err != nil {
		return nil, err
	}
	if orders == nil {
		orders = []*domain.Order{}
	}
	return orders, nil
}

func (s *Service) GetOrder(ctx context.Context, id int64) (*domain.Order, error) {
	return s.repo.GetByID(ctx, id)
}

// CreateOrder validates the checkout before any store is touched.
func (s *Service) CreateOrder(ctx context.Context, input domain.PlacementInput) (*domain.Order, error) {
	order, err := domain.NewOrder(input, s.now().UTC())
	if err != nil {
		return nil, mapError(err)
	}
	saved, err := s.repo.Create(ctx, order)
	if err != nil {
		return nil, err
	}
	s.publish(ctx, ports.Event{
		Type:      ports.EventOrderCreated,
		OrderID:   saved.ID,
		Status:    string(saved.Status),
		Total:     saved.Total,
		ItemCount: len(saved.Items),
	})
	return saved, nil
}

func (s *Service) UpdateOrderStatus(ctx context.Context, id int64, status string) (*domain.Order, error) {
	parsed, err := domain.ParseStatus(status)
	if err != nil {
		return nil, mapError(err)
	}
	updated, err := s.repo.UpdateStatus(ctx, id, parsed)
	if err != nil {
		return nil, err
	}
	s.publish(ctx, ports.Event{
		Type:    ports.EventOrderStatusChanged,
		OrderID: updated.ID,
		Status:  string(updated.Status),
		Total:   updated.Total,
	})
	return updated, nil
}

// DeleteOrder reports how many orders were removed; a missing id is not an error.
func (s *Service) DeleteOrder(ctx context.Context, id int64) (int64, error) {
	affected, err := s.repo.Delete(ctx, id)
	if err != nil {
		return 0, err
	}
	if affected > 0 {
		s.publish(ctx, ports.Event{Type: ports.EventOrderDeleted, OrderID: id})
	}
	return affected, nil
}

func (s *Service) publish(ctx context.Context, event ports.Event) {
	if s.events == nil {
		return
	}
	event.OccurredAt = s.now().UTC()
	if err := s.events.Publish(ctx, event); err != nil {
		s.logger.LogAttrs(ctx, slog.LevelWarn, "order event not published",
			slog.String("event.type", string(event.Type)),
			slog.Int64("order.id", event.OrderID),
			slog.String("error", err.Error()))
	}
}

var _ ports.Service = (*Service)(nil)
