package cache

import (
	"context"
	"errors"
	"strconv"
	"testing"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Iron-Mark/MSiazon-MarketWebsite/internal/domains/catalog/adapters/memory"
	"github.com/Iron-Mark/MSiazon-MarketWebsite/internal/domains/catalog/domain"
)

type fakeKV struct {
	data map[string]string
	ttls map[string]time.Duration
	err  error
	gets int
}

func newFakeKV() *fakeKV {
	return &fakeKV{data: map[string]string{}, ttls: map[string]time.Duration{}}
}

func (f *fakeKV) Get(_ context.Context, key string) *redis.StringCmd {
	f.gets++
	if f.err != nil {
		return redis.NewStringResult("", f.err)
	}
	v, ok := f.data[key]
	if !ok {
		return redis.NewStringResult("", redis.Nil)
	}
	return redis.NewStringResult(v, nil)
}

func (f *fakeKV) Set(_ context.Context, key string, value interface{}, expiration time.Duration) *redis.StatusCmd {
	if f.err != nil {
		return redis.NewStatusResult("", f.err)
	}
	f.data[key] = string(value.([]byte))
	f.ttls[key] = expiration
	return redis.NewStatusResult("OK", nil)
}

func (f *fakeKV) Del(_ context.Context, keys ...string) *redis.IntCmd {
	if f.err != nil {
		return redis.NewIntResult(0, f.err)
	}
	var n int64
	for _, k := range keys {
		if _, ok := f.data[k]; ok {
			delete(f.data, k)
			n++
		}
	}
	return redis.NewIntResult(n, nil)
}

func (f *fakeKV) Incr(_ context.Context, key string) *redis.IntCmd {
	if f.err != nil {
		return redis.NewIntResult(0, f.err)
	}
	n, _ := strconv.ParseInt(f.data[key], 10, 64)
	n++
	f.data[key] = strconv.FormatInt(n, 10)
	return redis.NewIntResult(n, nil)
}

// racingRepo runs onGet after reading from the store and before the cache fills.
type racingRepo struct {
	*memory.Repository
	onGet func()
}

func (r *racingRepo) GetByID(ctx context.Context, id int64) (*domain.Product, error) {
	p, err := r.Repository.GetByID(ctx, id)
	if r.onGet != nil {
		hook := r.onGet
		r.onGet = nil
		hook()
	}
	return p, err
}

func seeded(t *testing.T) *memory.Repository {
	t.Helper()
	repo := memory.NewRepository()
	for _, p := range domain.DefaultProducts() {
		product := p
		_, err := repo.Create(context.Background(), &product)
		require.NoError(t, err)
	}
	return repo
}

func TestRepository_ReadThrough(t *testing.T) {
	inner := seeded(t)
	kv := newFakeKV()
	repo := newRepository(inner, kv, time.Minute, nil)
	ctx := context.Background()

	first, err := repo.GetByID(ctx, 2)
	require.NoError(t, err)
	assert.Equal(t, "Chocolate Macaroon", first.Name)
	assert.Contains(t, kv.data, itemKey(0, 2))
	assert.Equal(t, time.Minute, kv.ttls[itemKey(0, 2)])

	// mutate the inner store behind the cache; the cached entry still answers
	_, err = inner.Update(ctx, &domain.Product{ID: 2, Name: "changed", Price: decimal.NewFromInt(1)})
	require.NoError(t, err)
	second, err := repo.GetByID(ctx, 2)
	require.NoError(t, err)
	assert.Equal(t, "Chocolate Macaroon", second.Name)
	assert.True(t, decimal.RequireFromString("2.50").Equal(second.Price))
}

func TestRepository_WritesInvalidate(t *testing.T) {
	kv := newFakeKV()
	repo := newRepository(seeded(t), kv, time.Minute, nil)
	ctx := context.Background()

	list, err := repo.List(ctx)
	require.NoError(t, err)
	require.Len(t, list, 6)
	_, err = repo.GetByID(ctx, 1)
	require.NoError(t, err)
	require.Contains(t, kv.data, listKey(0))

	_, err = repo.Update(ctx, &domain.Product{ID: 1, Name: "Strawberry Deluxe", Price: decimal.NewFromInt(4)})
	require.NoError(t, err)
	assert.Equal(t, "1", kv.data[generationKey])
	assert.NotContains(t, kv.data, listKey(1))
	assert.NotContains(t, kv.data, itemKey(1, 1))

	fetched, err := repo.GetByID(ctx, 1)
	require.NoError(t, err)
	assert.Equal(t, "Strawberry Deluxe", fetched.Name)

	_, err = repo.List(ctx)
	require.NoError(t, err)
	_, err = repo.Delete(ctx, 1)
	require.NoError(t, err)
	list, err = repo.List(ctx)
	require.NoError(t, err)
	assert.Len(t, list, 5)
}

func TestRepository_RedisDownFallsThrough(t *testing.T) {
	kv := newFakeKV()
	kv.err = errors.New("dial tcp 127.0.0.1:6379: connect: connection refused")
	repo := newRepository(seeded(t), kv, time.Minute, nil)
	ctx := context.Background()

	list, err := repo.List(ctx)
	require.NoError(t, err)
	assert.Len(t, list, 6)

	created, err := repo.Create(ctx, &domain.Product{Name: "Lemon Macaroon", Price: decimal.NewFromInt(2)})
	require.NoError(t, err)
	assert.Equal(t, int64(7), created.ID)
}

func TestRepository_CorruptEntryIsDropped(t *testing.T) {
	kv := newFakeKV()
	kv.data[itemKey(0, 3)] = "{not json"
	repo := newRepository(seeded(t), kv, time.Minute, nil)

	product, err := repo.GetByID(context.Background(), 3)
	require.NoError(t, err)
	assert.Equal(t, "Candy Macaroon", product.Name)
	assert.NotEqual(t, "{not json", kv.data[itemKey(0, 3)])
}

func TestRepository_ReadRacingUpdateIsNotServedStale(t *testing.T) {
	inner := &racingRepo{Repository: seeded(t)}
	kv := newFakeKV()
	repo := newRepository(inner, kv, time.Minute, nil)
	ctx := context.Background()

	inner.onGet = func() {
		_, err := repo.Update(ctx, &domain.Product{ID: 2, Name: "Dark Chocolate Macaroon", Price: decimal.NewFromInt(3)})
		require.NoError(t, err)
	}
	stale, err := repo.GetByID(ctx, 2)
	require.NoError(t, err)
	assert.Equal(t, "Chocolate Macaroon", stale.Name)
	assert.Contains(t, kv.data, itemKey(0, 2))

	fresh, err := repo.GetByID(ctx, 2)
	require.NoError(t, err)
	assert.Equal(t, "Dark Chocolate Macaroon", fresh.Name)
}
