package failover

import (
	"context"
	"log/slog"

	"go.opentelemetry.io/otel/metric"

	"github.com/Iron-Mark/MSiazon-MarketWebsite/internal/domains/orders/domain"
	"github.com/Iron-Mark/MSiazon-MarketWebsite/internal/domains/orders/ports"
	"github.com/Iron-Mark/MSiazon-MarketWebsite/internal/platform/failover"
)

var _ ports.Repository = (*Repository)(nil)

// Repository is the order store seen by the service: durable when bound, memory otherwise.
type Repository struct {
	router *failover.Router[ports.Repository]
}

// New builds a volatile-bound order repository. logger and meter may be nil.
func New(volatile ports.Repository, logger *slog.Logger, meter metric.Meter) *Repository {
	return &Repository{router: failover.NewRouter[ports.Repository]("orders", volatile,
		failover.WithLogger(logger),
		failover.WithMeter(meter),
		failover.WithPassthrough(ports.ErrNotFound),
	)}
}

// Router exposes the binding so startup can initialize it and health can report it.
func (r *Repository) Router() *failover.Router[ports.Repository] {
	return r.router
}

func (r *Repository) List(ctx context.Context) ([]*domain.Order, error) {
	return failover.Call(ctx, r.router, "list", func(ctx context.Context, repo ports.Repository) ([]*domain.Order, error) {
		return repo.List(ctx)
	})
}

func (r *Repository) GetByID(ctx context.Context, id int64) (*domain.Order, error) {
	return failover.Call(ctx, r.router, "get", func(ctx context.Context, repo ports.Repository) (*domain.Order, error) {
		return repo.GetByID(ctx, id)
	})
}

func (r *Repository) Create(ctx context.Context, order *domain.Order) (*domain.Order, error) {
	return failover.Call(ctx, r.router, "create", func(ctx context.Context, repo ports.Repository) (*domain.Order, error) {
		return repo.Create(ctx, order)
	})
}

func (r *Repository) UpdateStatus(ctx context.Context, id int64, status domain.Status) (*domain.Order, error) {
	return failover.Call(ctx, r.router, "update_status", func(ctx context.Context, repo ports.Repository) (*domain.Order, error) {
		return repo.UpdateStatus(ctx, id, status)
	})
}

func (r *Repository) Delete(ctx context.Context, id int64) (int64, error) {
	return failover.Call(ctx, r.router, "delete", func(ctx context.Context, repo ports.Repository) (int64, error) {
		return repo.Delete(ctx, id)
	})
}
