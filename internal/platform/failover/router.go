// Package failover routes repository calls to a durable backend and falls back to a volatile
// in-process mirror when the durable backend is missing or fails.
package failover

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"sync/atomic"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
)

// ErrUnavailable marks a durable backend failure. Durable adapters wrap driver errors with it;
// the router absorbs it and never hands it to callers of Call.
var ErrUnavailable = errors.New("durable store unavailable")

// ErrRejected marks data the durable backend refused (constraint or range violations). The
// router returns it to the caller instead of writing the same data to the volatile mirror.
var ErrRejected = errors.New("durable store rejected the data")

// Mode reports which backend a router was bound to at initialization.
type Mode string

const (
	ModeDurable  Mode = "durable"
	ModeVolatile Mode = "volatile"
)

// Router holds the backend decision for one store. It starts volatile-bound and becomes
// durable-bound through Initialize or Bind. Per-call failures never change the binding; they
// only trigger a single fallback execution against the volatile backend.
type Router[B any] struct {
	name        string
	volatile    B
	durable     B
	bound       atomic.Bool
	degraded    atomic.Bool
	passthrough []error
	logger      *slog.Logger
	fallbacks   metric.Int64Counter
}

type settings struct {
	logger      *slog.Logger
	meter       metric.Meter
	passthrough []error
}

// Option configures a Router.
type Option func(*settings)

// WithLogger sets the logger used to report fallbacks.
func WithLogger(logger *slog.Logger) Option {
	return func(s *settings) {
		s.logger = logger
	}
}

// WithMeter enables the storage.fallbacks counter.
func WithMeter(m metric.Meter) Option {
	return func(s *settings) {
		s.meter = m
	}
}

// WithPassthrough lists errors that are legitimate results of a durable call (for example a
// domain "not found" sentinel). They are returned to the caller without falling back.
func WithPassthrough(errs ...error) Option {
	return func(s *settings) {
		s.passthrough = append(s.passthrough, errs...)
	}
}

// NewRouter builds a volatile-bound router for the named store.
func NewRouter[B any](name string, volatile B, opts ...Option) *Router[B] {
	cfg := settings{}
	for _, opt := range opts {
		if opt != nil {
			opt(&cfg)
		}
	}
	if cfg.logger == nil {
		cfg.logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	r := &Router[B]{
		name:        name,
		volatile:    volatile,
		passthrough: cfg.passthrough,
		logger:      cfg.logger.With(slog.String("store", name)),
	}
	if cfg.meter != nil {
		r.fallbacks, _ = cfg.meter.Int64Counter("storage.fallbacks",
			metric.WithDescription("Durable store calls re-executed against the volatile mirror"))
	}
	return r
}

// Initialize attempts to bind the durable backend produced by connect. A failure leaves the
// router volatile-bound; Initialize itself never fails.
func (r *Router[B]) Initialize(connect func() (B, error)) {
	if connect == nil {
		r.logger.Warn("no durable backend configured, using volatile storage")
		return
	}
	durable, err := connect()
	if err != nil {
		r.logger.Warn("durable backend unavailable, using volatile storage", slog.String("error", err.Error()))
		return
	}
	r.Bind(durable)
}

// Bind makes durable the primary backend for subsequent calls.
func (r *Router[B]) Bind(durable B) {
	r.durable = durable
	r.bound.Store(true)
	r.logger.Info("store bound to durable backend")
}

// Mode reports the binding decided at initialization.
func (r *Router[B]) Mode() Mode {
	if r.bound.Load() {
		return ModeDurable
	}
	return ModeVolatile
}

// Degraded reports whether any call has fallen back to the volatile backend while bound.
func (r *Router[B]) Degraded() bool {
	return r.degraded.Load()
}

// Name returns the store name the router was created with.
func (r *Router[B]) Name() string {
	return r.name
}

// Call runs fn against the durable backend when bound. Any error other than ErrRejected or a
// pass-through error causes exactly one re-execution against the volatile backend, whose result is returned
// as is.
func Call[B, T any](ctx context.Context, r *Router[B], op string, fn func(context.Context, B) (T, error)) (T, error) {
	if r.bound.Load() {
		result, err := fn(ctx, r.durable)
		if err == nil || r.passes(err) {
			return result, err
		}
		r.recordFallback(ctx, op, err)
	}
	return fn(ctx, r.volatile)
}

func (r *Router[B]) passes(err error) bool {
	if errors.Is(err, ErrRejected) {
		return true
	}
	for _, target := range r.passthrough {
		if errors.Is(err, target) {
			return true
		}
	}
	return false
}

func (r *Router[B]) recordFallback(ctx context.Context, op string, err error) {
	r.degraded.Store(true)
	reason := "unexpected"
	if errors.Is(err, ErrUnavailable) {
		reason = "unavailable"
	}
	r.logger.LogAttrs(ctx, slog.LevelWarn, "durable store call failed, falling back to volatile storage",
		slog.String("op", op),
		slog.String("reason", reason),
		slog.String("error", err.Error()),
	)
	if r.fallbacks != nil {
		r.fallbacks.Add(ctx, 1, metric.WithAttributes(
			attribute.String("store", r.name),
			attribute.String("op", op),
		))
	}
}
