package application

import (
	"context"
	"fmt"

	"github.com/Iron-Mark/MSiazon-MarketWebsite/internal/domains/catalog/application/types"
	"github.com/Iron-Mark/MSiazon-MarketWebsite/internal/domains/catalog/domain"
	"github.com/Iron-Mark/MSiazon-MarketWebsite/internal/domains/catalog/ports"
)

// Service orchestrates catalog use cases.
type Service struct {
	repo   ports.Repository
	images ports.ImageResolver
}

// NewService wires the catalog service. A nil resolver leaves image references as they are.
func NewService(repo ports.Repository, images ports.ImageResolver) *Service {
	return &Service{repo: repo, images: images}
}

func (s *Service) ListProducts(ctx context.Context) ([]*types.ProductView, error) {
	products, err := s.repo.List(ctx)
	if err != nil {
		return nil, err
	}
	views := make([]*types.ProductView, 0, len(products))
	for _, p := range products {
		views = append(views, s.view(p))
	}
	return views, nil
}

func (s *Service) GetProduct(ctx context.Context, id int64) (*types.ProductView, error) {
	product, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	return s.view(product), nil
}

func (s *Service) CreateProduct(ctx context.Context, input types.ProductInput) (*types.ProductView, error) {
	var name, image string
	if input.Name != nil {
		name = *input.Name
	}
	if input.Image != nil {
		image = *input.Image
	}
	product, err := domain.NewProduct(name, input.Price, image)
	if err != nil {
		return nil, mapError(err)
	}
	saved, err := s.repo.Create(ctx, product)
	if err != nil {
		return nil, err
	}
	return s.view(saved), nil
}

// UpdateProduct merges the supplied fields into the stored product and re-validates it.
func (s *Service) UpdateProduct(ctx context.Context, id int64, input types.ProductInput) (*types.ProductView, error) {
	existing, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	name, price, image := existing.Name, existing.Price, existing.Image
	if input.Name != nil {
		name = *input.Name
	}
	if input.Price != nil {
		price = *input.Price
	}
	if input.Image != nil {
		image = *input.Image
	}
	merged, err := domain.NewProduct(name, &price, image)
	if err != nil {
		return nil, mapError(err)
	}
	merged.ID = existing.ID
	saved, err := s.repo.Update(ctx, merged)
	if err != nil {
		return nil, err
	}
	return s.view(saved), nil
}

func (s *Service) DeleteProduct(ctx context.Context, id int64) (int64, error) {
	return s.repo.Delete(ctx, id)
}

// SeedDefaultProducts fills an empty catalog with the starter macaroons. It is a no-op when any
// product exists.
func (s *Service) SeedDefaultProducts(ctx context.Context) (int, error) {
	count, err := s.repo.Count(ctx)
	if err != nil {
		return 0, err
	}
	if count > 0 {
		return 0, nil
	}
	inserted := 0
	for _, p := range domain.DefaultProducts() {
		product := p
		if _, err := s.repo.Create(ctx, &product); err != nil {
			return inserted, fmt.Errorf("seed %s: %w", p.Name, err)
		}
		inserted++
	}
	return inserted, nil
}

func (s *Service) view(p *domain.Product) *types.ProductView {
	url := p.Image
	if s.images != nil {
		url = s.images.URL(p.Image)
	}
	return &types.ProductView{Product: p, ImageURL: url}
}

var _ ports.Service = (*Service)(nil)
