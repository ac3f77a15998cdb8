package memory

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"

	"github.com/Iron-Mark/MSiazon-MarketWebsite/internal/domains/catalog/domain"
	"github.com/Iron-Mark/MSiazon-MarketWebsite/internal/domains/catalog/ports"
)

var _ ports.Repository = (*Repository)(nil)

// Repository is the volatile product mirror.
type Repository struct {
	mu       sync.RWMutex
	products []*domain.Product
	lastID   atomic.Int64
}

func NewRepository() *Repository {
	return &Repository{}
}

func (r *Repository) List(_ context.Context) ([]*domain.Product, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	list := make([]*domain.Product, 0, len(r.products))
	for _, p := range r.products {
		clone := *p
		list = append(list, &clone)
	}
	return list, nil
}

func (r *Repository) GetByID(_ context.Context, id int64) (*domain.Product, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	if i := r.indexOf(id); i >= 0 {
		clone := *r.products[i]
		return &clone, nil
	}
	return nil, ports.ErrNotFound
}

// Create assigns the next id when none is given. An explicit id must be unused and moves the
// counter past it.
func (r *Repository) Create(_ context.Context, product *domain.Product) (*domain.Product, error) {
	if product == nil {
		return nil, errors.New("product is nil")
	}
	clone := *product
	r.mu.Lock()
	defer r.mu.Unlock()
	if clone.ID == 0 {
		clone.ID = r.lastID.Add(1)
	} else {
		if r.indexOf(clone.ID) >= 0 {
			return nil, errors.New("product id already exists")
		}
		if clone.ID > r.lastID.Load() {
			r.lastID.Store(clone.ID)
		}
	}
	r.products = append(r.products, &clone)
	out := clone
	return &out, nil
}

func (r *Repository) Update(_ context.Context, product *domain.Product) (*domain.Product, error) {
	if product == nil {
		return nil, errors.New("product is nil")
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	i := r.indexOf(product.ID)
	if i < 0 {
		return nil, ports.ErrNotFound
	}
	clone := *product
	r.products[i] = &clone
	out := clone
	return &out, nil
}

func (r *Repository) Delete(_ context.Context, id int64) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	i := r.indexOf(id)
	if i < 0 {
		return 0, nil
	}
	r.products = append(r.products[:i], r.products[i+1:]...)
	return 1, nil
}

func (r *Repository) Count(_ context.Context) (int64, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return int64(len(r.products)), nil
}

// indexOf expects the caller to hold the lock.
func (r *Repository) indexOf(id int64) int {
	for i, p := range r.products {
		if p.ID == id {
			return i
		}
	}
	return -1
}
