package failover

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var errMissing = errors.New("missing")

type fakeBackend struct {
	name  string
	calls int
	err   error
}

func (f *fakeBackend) read(_ context.Context) (string, error) {
	f.calls++
	if f.err != nil {
		return "", f.err
	}
	return f.name, nil
}

func readFrom(ctx context.Context, b *fakeBackend) (string, error) {
	return b.read(ctx)
}

func TestRouter_StartsVolatile(t *testing.T) {
	volatile := &fakeBackend{name: "memory"}
	router := NewRouter("orders", volatile)

	got, err := Call(context.Background(), router, "read", readFrom)
	require.NoError(t, err)
	assert.Equal(t, "memory", got)
	assert.Equal(t, ModeVolatile, router.Mode())
	assert.False(t, router.Degraded())
}

func TestRouter_InitializeFailureStaysVolatile(t *testing.T) {
	volatile := &fakeBackend{name: "memory"}
	router := NewRouter("orders", volatile)

	router.Initialize(func() (*fakeBackend, error) {
		return nil, errors.New("connection refused")
	})
	assert.Equal(t, ModeVolatile, router.Mode())

	router.Initialize(nil)
	assert.Equal(t, ModeVolatile, router.Mode())
}

func TestRouter_DurableSuccessSkipsVolatile(t *testing.T) {
	volatile := &fakeBackend{name: "memory"}
	durable := &fakeBackend{name: "db"}
	router := NewRouter("orders", volatile)
	router.Initialize(func() (*fakeBackend, error) { return durable, nil })

	got, err := Call(context.Background(), router, "read", readFrom)
	require.NoError(t, err)
	assert.Equal(t, "db", got)
	assert.Equal(t, ModeDurable, router.Mode())
	assert.Equal(t, 1, durable.calls)
	assert.Equal(t, 0, volatile.calls)
}

func TestRouter_DurableFailureFallsBackOnce(t *testing.T) {
	volatile := &fakeBackend{name: "memory"}
	durable := &fakeBackend{name: "db", err: errors.Join(ErrUnavailable, errors.New("broken pipe"))}
	router := NewRouter("orders", volatile)
	router.Bind(durable)

	for i := 0; i < 3; i++ {
		got, err := Call(context.Background(), router, "read", readFrom)
		require.NoError(t, err)
		assert.Equal(t, "memory", got)
	}
	assert.Equal(t, 3, durable.calls, "durable backend must be tried once per call, never retried")
	assert.Equal(t, 3, volatile.calls)
	assert.True(t, router.Degraded())
	assert.Equal(t, ModeDurable, router.Mode(), "per-call failures do not rebind the router")
}

func TestRouter_PassthroughErrorsDoNotFallBack(t *testing.T) {
	volatile := &fakeBackend{name: "memory"}
	durable := &fakeBackend{name: "db", err: errMissing}
	router := NewRouter("orders", volatile, WithPassthrough(errMissing))
	router.Bind(durable)

	_, err := Call(context.Background(), router, "read", readFrom)
	require.ErrorIs(t, err, errMissing)
	assert.Equal(t, 0, volatile.calls)
	assert.False(t, router.Degraded())
}

func TestRouter_VolatileErrorIsReturned(t *testing.T) {
	volatile := &fakeBackend{name: "memory", err: errMissing}
	durable := &fakeBackend{name: "db", err: errors.New("timeout")}
	router := NewRouter("orders", volatile, WithPassthrough(errMissing))
	router.Bind(durable)

	_, err := Call(context.Background(), router, "read", readFrom)
	require.ErrorIs(t, err, errMissing)
	assert.Equal(t, 1, durable.calls)
	assert.Equal(t, 1, volatile.calls)
}

func TestRouter_RejectedDataDoesNotFallBack(t *testing.T) {
	volatile := &fakeBackend{name: "memory"}
	durable := &fakeBackend{name: "db", err: fmt.Errorf("%w: insert order: postgres 22001", ErrRejected)}
	router := NewRouter("orders", volatile)
	router.Bind(durable)

	_, err := Call(context.Background(), router, "create", readFrom)
	require.ErrorIs(t, err, ErrRejected)
	assert.Equal(t, 1, durable.calls)
	assert.Equal(t, 0, volatile.calls)
	assert.False(t, router.Degraded())
}
