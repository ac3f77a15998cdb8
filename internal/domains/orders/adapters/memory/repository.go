package memory

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"

	"github.com/Iron-Mark/MSiazon-MarketWebsite/internal/domains/orders/domain"
	"github.com/Iron-Mark/MSiazon-MarketWebsite/internal/domains/orders/ports"
)

var _ ports.Repository = (*Repository)(nil)

// Repository is the volatile order mirror. Orders are kept in insertion order and their ids
// come from a process-local monotonic counter.
type Repository struct {
	mu     sync.RWMutex
	orders []*domain.Order
	nextID atomic.Int64
}

func NewRepository() *Repository {
	return &Repository{}
}

func (r *Repository) List(_ context.Context) ([]*domain.Order, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	list := make([]*domain.Order, 0, len(r.orders))
	for _, order := range r.orders {
		list = append(list, order.Clone())
	}
	return list, nil
}

func (r *Repository) GetByID(_ context.Context, id int64) (*domain.Order, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	if i := r.indexOf(id); i >= 0 {
		return r.orders[i].Clone(), nil
	}
	return nil, ports.ErrNotFound
}

func (r *Repository) Create(_ context.Context, order *domain.Order) (*domain.Order, error) {
	if order == nil {
		return nil, errors.New("order is nil")
	}
	clone := order.Clone()
	r.mu.Lock()
	defer r.mu.Unlock()
	clone.ID = r.nextID.Add(1)
	r.orders = append(r.orders, clone)
	return clone.Clone(), nil
}

func (r *Repository) UpdateStatus(_ context.Context, id int64, status domain.Status) (*domain.Order, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	i := r.indexOf(id)
	if i < 0 {
		return nil, ports.ErrNotFound
	}
	r.orders[i].Status = status
	return r.orders[i].Clone(), nil
}

func (r *Repository) Delete(_ context.Context, id int64) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	i := r.indexOf(id)
	if i < 0 {
		return 0, nil
	}
	r.orders = append(r.orders[:i], r.orders[i+1:]...)
	return 1, nil
}

// indexOf expects the caller to hold the lock.
func (r *Repository) indexOf(id int64) int {
	for i, order := range r.orders {
		if order.ID == id {
			return i
		}
	}
	return -1
}
