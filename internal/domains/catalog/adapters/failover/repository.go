package failover

import (
	"context"
	"log/slog"

	"go.opentelemetry.io/otel/metric"

	"github.com/Iron-Mark/MSiazon-MarketWebsite/internal/domains/catalog/domain"
	"github.com/Iron-Mark/MSiazon-MarketWebsite/internal/domains/catalog/ports"
	"github.com/Iron-Mark/MSiazon-MarketWebsite/internal/platform/failover"
)

var _ ports.Repository = (*Repository)(nil)

// Repository is the product store seen by the catalog service.
type Repository struct {
	router *failover.Router[ports.Repository]
}

func New(volatile ports.Repository, logger *slog.Logger, meter metric.Meter) *Repository {
	return &Repository{router: failover.NewRouter[ports.Repository]("catalog", volatile,
		failover.WithLogger(logger),
		failover.WithMeter(meter),
		failover.WithPassthrough(ports.ErrNotFound),
	)}
}

func (r *Repository) Router() *failover.Router[ports.Repository] {
	return r.router
}

func (r *Repository) List(ctx context.Context) ([]*domain.Product, error) {
	return failover.Call(ctx, r.router, "list", func(ctx context.Context, repo ports.Repository) ([]*domain.Product, error) {
		return repo.List(ctx)
	})
}

func (r *Repository) GetByID(ctx context.Context, id int64) (*domain.Product, error) {
	return failover.Call(ctx, r.router, "get", func(ctx context.Context, repo ports.Repository) (*domain.Product, error) {
		return repo.GetByID(ctx, id)
	})
}

func (r *Repository) Create(ctx context.Context, product *domain.Product) (*domain.Product, error) {
	return failover.Call(ctx, r.router, "create", func(ctx context.Context, repo ports.Repository) (*domain.Product, error) {
		return repo.Create(ctx, product)
	})
}

func (r *Repository) Update(ctx context.Context, product *domain.Product) (*domain.Product, error) {
	return failover.Call(ctx, r.router, "update", func(ctx context.Context, repo ports.Repository) (*domain.Product, error) {
		return repo.Update(ctx, product)
	})
}

func (r *Repository) Delete(ctx context.Context, id int64) (int64, error) {
	return failover.Call(ctx, r.router, "delete", func(ctx context.Context, repo ports.Repository) (int64, error) {
		return repo.Delete(ctx, id)
	})
}

func (r *Repository) Count(ctx context.Context) (int64, error) {
	return failover.Call(ctx, r.router, "count", func(ctx context.Context, repo ports.Repository) (int64, error) {
		return repo.Count(ctx)
	})
}
