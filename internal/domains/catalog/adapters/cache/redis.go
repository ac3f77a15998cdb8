package cache

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"strconv"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/Iron-Mark/MSiazon-MarketWebsite/internal/domains/catalog/domain"
	"github.com/Iron-Mark/MSiazon-MarketWebsite/internal/domains/catalog/ports"
)

var _ ports.Repository = (*Repository)(nil)

// Entries live under the current catalog generation. Every write bumps the generation, so an
// entry filled from a read that raced with the write is stored under a key nobody reads again.
const generationKey = "catalog:generation"

// kv is the subset of *redis.Client used by the cache.
type kv interface {
	Get(ctx context.Context, key string) *redis.StringCmd
	Set(ctx context.Context, key string, value interface{}, expiration time.Duration) *redis.StatusCmd
	Del(ctx context.Context, keys ...string) *redis.IntCmd
	Incr(ctx context.Context, key string) *redis.IntCmd
}

// Repository is a read-through Redis cache in front of the durable product store. Redis
// failures never fail a call; the inner repository answers instead.
type Repository struct {
	inner  ports.Repository
	rdb    kv
	ttl    time.Duration
	logger *slog.Logger
}

func NewRepository(inner ports.Repository, rdb *redis.Client, ttl time.Duration, logger *slog.Logger) *Repository {
	return newRepository(inner, rdb, ttl, logger)
}

func newRepository(inner ports.Repository, rdb kv, ttl time.Duration, logger *slog.Logger) *Repository {
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	return &Repository{inner: inner, rdb: rdb, ttl: ttl, logger: logger}
}

func listKey(gen int64) string {
	return "catalog:g" + strconv.FormatInt(gen, 10) + ":products"
}

func itemKey(gen, id int64) string {
	return "catalog:g" + strconv.FormatInt(gen, 10) + ":product:" + strconv.FormatInt(id, 10)
}

func (r *Repository) List(ctx context.Context) ([]*domain.Product, error) {
	gen, ok := r.generation(ctx)
	var cached []*domain.Product
	if ok && r.load(ctx, listKey(gen), &cached) {
		return cached, nil
	}
	products, err := r.inner.List(ctx)
	if err != nil {
		return nil, err
	}
	if ok {
		r.store(ctx, listKey(gen), products)
	}
	return products, nil
}

func (r *Repository) GetByID(ctx context.Context, id int64) (*domain.Product, error) {
	gen, ok := r.generation(ctx)
	var cached domain.Product
	if ok && r.load(ctx, itemKey(gen, id), &cached) {
		return &cached, nil
	}
	product, err := r.inner.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if ok {
		r.store(ctx, itemKey(gen, id), product)
	}
	return product, nil
}

func (r *Repository) Create(ctx context.Context, product *domain.Product) (*domain.Product, error) {
	saved, err := r.inner.Create(ctx, product)
	if err != nil {
		return nil, err
	}
	r.bump(ctx)
	return saved, nil
}

func (r *Repository) Update(ctx context.Context, product *domain.Product) (*domain.Product, error) {
	saved, err := r.inner.Update(ctx, product)
	if err != nil {
		return nil, err
	}
	r.bump(ctx, product.ID)
	return saved, nil
}

func (r *Repository) Delete(ctx context.Context, id int64) (int64, error) {
	affected, err := r.inner.Delete(ctx, id)
	if err != nil {
		return 0, err
	}
	r.bump(ctx, id)
	return affected, nil
}

func (r *Repository) Count(ctx context.Context) (int64, error) {
	return r.inner.Count(ctx)
}

// generation returns the current catalog generation. ok is false when Redis cannot be read,
// in which case the call bypasses the cache.
func (r *Repository) generation(ctx context.Context) (int64, bool) {
	gen, err := r.rdb.Get(ctx, generationKey).Int64()
	switch {
	case err == nil:
		return gen, true
	case errors.Is(err, redis.Nil):
		return 0, true
	default:
		r.warn(ctx, "catalog cache read failed", generationKey, err)
		return 0, false
	}
}

// bump retires every entry of the current generation. When the increment fails the affected
// keys are deleted directly.
func (r *Repository) bump(ctx context.Context, ids ...int64) {
	gen, _ := r.generation(ctx)
	err := r.rdb.Incr(ctx, generationKey).Err()
	if err == nil {
		return
	}
	r.warn(ctx, "catalog cache generation bump failed", generationKey, err)
	keys := []string{listKey(gen)}
	for _, id := range ids {
		keys = append(keys, itemKey(gen, id))
	}
	r.invalidate(ctx, keys...)
}

func (r *Repository) load(ctx context.Context, key string, dst interface{}) bool {
	raw, err := r.rdb.Get(ctx, key).Bytes()
	if err != nil {
		if !errors.Is(err, redis.Nil) {
			r.warn(ctx, "catalog cache read failed", key, err)
		}
		return false
	}
	if err := json.Unmarshal(raw, dst); err != nil {
		r.warn(ctx, "catalog cache entry corrupt", key, err)
		r.invalidate(ctx, key)
		return false
	}
	return true
}

func (r *Repository) store(ctx context.Context, key string, value interface{}) {
	raw, err := json.Marshal(value)
	if err != nil {
		r.warn(ctx, "catalog cache encode failed", key, err)
		return
	}
	if err := r.rdb.Set(ctx, key, raw, r.ttl).Err(); err != nil {
		r.warn(ctx, "catalog cache write failed", key, err)
	}
}

func (r *Repository) invalidate(ctx context.Context, keys ...string) {
	if err := r.rdb.Del(ctx, keys...).Err(); err != nil {
		r.warn(ctx, "catalog cache invalidation failed", keys[0], err)
	}
}

func (r *Repository) warn(ctx context.Context, msg, key string, err error) {
	r.logger.LogAttrs(ctx, slog.LevelWarn, msg, slog.String("key", key), slog.String("error", err.Error()))
}
