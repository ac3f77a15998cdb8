package observability

import (
	"context"
	"io"
	"log/slog"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/trace"
	nooptrace "go.opentelemetry.io/otel/trace/noop"

	"github.com/Iron-Mark/MSiazon-MarketWebsite/internal/domains/catalog/application/types"
	"github.com/Iron-Mark/MSiazon-MarketWebsite/internal/domains/catalog/ports"
)

const tracerName = "github.com/Iron-Mark/MSiazon-MarketWebsite/internal/domains/catalog/adapters/observability/service"

var _ ports.Service = (*Service)(nil)

type Service struct {
	inner    ports.Service
	tracer   trace.Tracer
	logger   *slog.Logger
	seeded   metric.Int64Counter
	mutation metric.Int64Counter
}

type Option func(*Service)

func WithLogger(logger *slog.Logger) Option {
	return func(s *Service) {
		if logger != nil {
			s.logger = logger
		}
	}
}

func WithTracer(tr trace.Tracer) Option {
	return func(s *Service) {
		if tr != nil {
			s.tracer = tr
		}
	}
}

func WithMeter(m metric.Meter) Option {
	return func(s *Service) {
		if m == nil {
			return
		}
		s.seeded, _ = m.Int64Counter("catalog.service.products_seeded", metric.WithDescription("Number of starter products inserted"))
		s.mutation, _ = m.Int64Counter("catalog.service.mutations", metric.WithDescription("Number of catalog writes by kind"))
	}
}

// New wraps the catalog service with spans, logs, and counters.
func New(inner ports.Service, opts ...Option) ports.Service {
	s := &Service{
		inner:  inner,
		tracer: nooptrace.NewTracerProvider().Tracer(tracerName),
		logger: slog.New(slog.NewTextHandler(io.Discard, nil)),
	}
	for _, opt := range opts {
		if opt != nil {
			opt(s)
		}
	}
	return s
}

func (s *Service) ListProducts(ctx context.Context) ([]*types.ProductView, error) {
	ctx, span := s.tracer.Start(ctx, "CatalogService.ListProducts")
	defer span.End()

	views, err := s.inner.ListProducts(ctx)
	if err != nil {
		return nil, s.fail(ctx, span, err, "failed to list products")
	}
	span.SetAttributes(attribute.Int("products.count", len(views)))
	return views, nil
}

func (s *Service) GetProduct(ctx context.Context, id int64) (*types.ProductView, error) {
	ctx, span := s.tracer.Start(ctx, "CatalogService.GetProduct", trace.WithAttributes(attribute.Int64("product.id", id)))
	defer span.End()

	view, err := s.inner.GetProduct(ctx, id)
	if err != nil {
		return nil, s.fail(ctx, span, err, "failed to load product", slog.Int64("product.id", id))
	}
	return view, nil
}

func (s *Service) CreateProduct(ctx context.Context, input types.ProductInput) (*types.ProductView, error) {
	ctx, span := s.tracer.Start(ctx, "CatalogService.CreateProduct")
	defer span.End()

	view, err := s.inner.CreateProduct(ctx, input)
	if err != nil {
		return nil, s.fail(ctx, span, err, "failed to create product")
	}
	span.SetAttributes(attribute.Int64("product.id", view.Product.ID))
	s.count(ctx, "create", 1)
	s.logger.LogAttrs(ctx, slog.LevelInfo, "product created",
		slog.Int64("product.id", view.Product.ID), slog.String("product.name", view.Product.Name))
	return view, nil
}

func (s *Service) UpdateProduct(ctx context.Context, id int64, input types.ProductInput) (*types.ProductView, error) {
	ctx, span := s.tracer.Start(ctx, "CatalogService.UpdateProduct", trace.WithAttributes(attribute.Int64("product.id", id)))
	defer span.End()

	view, err := s.inner.UpdateProduct(ctx, id, input)
	if err != nil {
		return nil, s.fail(ctx, span, err, "failed to update product", slog.Int64("product.id", id))
	}
	s.count(ctx, "update", 1)
	s.logger.LogAttrs(ctx, slog.LevelInfo, "product updated", slog.Int64("product.id", id))
	return view, nil
}

func (s *Service) DeleteProduct(ctx context.Context, id int64) (int64, error) {
	ctx, span := s.tracer.Start(ctx, "CatalogService.DeleteProduct", trace.WithAttributes(attribute.Int64("product.id", id)))
	defer span.End()

	affected, err := s.inner.DeleteProduct(ctx, id)
	if err != nil {
		return 0, s.fail(ctx, span, err, "failed to delete product", slog.Int64("product.id", id))
	}
	span.SetAttributes(attribute.Int64("product.affected", affected))
	s.count(ctx, "delete", affected)
	s.logger.LogAttrs(ctx, slog.LevelInfo, "product deleted", slog.Int64("product.id", id), slog.Int64("affected", affected))
	return affected, nil
}

func (s *Service) SeedDefaultProducts(ctx context.Context) (int, error) {
	ctx, span := s.tracer.Start(ctx, "CatalogService.SeedDefaultProducts")
	defer span.End()

	inserted, err := s.inner.SeedDefaultProducts(ctx)
	if inserted > 0 && s.seeded != nil {
		s.seeded.Add(ctx, int64(inserted))
	}
	span.SetAttributes(attribute.Int("products.seeded", inserted))
	if err != nil {
		return inserted, s.fail(ctx, span, err, "failed to seed products", slog.Int("inserted", inserted))
	}
	s.logger.LogAttrs(ctx, slog.LevelInfo, "catalog seeded", slog.Int("inserted", inserted))
	return inserted, nil
}

func (s *Service) count(ctx context.Context, kind string, n int64) {
	if s.mutation == nil || n <= 0 {
		return
	}
	s.mutation.Add(ctx, n, metric.WithAttributes(attribute.String("mutation", kind)))
}

func (s *Service) fail(ctx context.Context, span trace.Span, err error, msg string, attrs ...slog.Attr) error {
	span.RecordError(err)
	span.SetStatus(codes.Error, err.Error())
	attrs = append(attrs, slog.String("error", err.Error()))
	s.logger.LogAttrs(ctx, slog.LevelError, msg, attrs...)
	return err
}
