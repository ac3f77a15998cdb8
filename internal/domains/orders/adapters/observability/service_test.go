package observability

import (
	"context"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
	"go.opentelemetry.io/otel/sdk/metric/metricdata"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/sdk/trace/tracetest"

	"github.com/Iron-Mark/MSiazon-MarketWebsite/internal/domains/orders/adapters/memory"
	"github.com/Iron-Mark/MSiazon-MarketWebsite/internal/domains/orders/application"
	"github.com/Iron-Mark/MSiazon-MarketWebsite/internal/domains/orders/domain"
)

func counterValue(t *testing.T, reader *sdkmetric.ManualReader, name string) int64 {
	t.Helper()
	var rm metricdata.ResourceMetrics
	require.NoError(t, reader.Collect(context.Background(), &rm))
	var total int64
	for _, scope := range rm.ScopeMetrics {
		for _, m := range scope.Metrics {
			if m.Name != name {
				continue
			}
			sum, ok := m.Data.(metricdata.Sum[int64])
			require.True(t, ok, "metric %s is not an int64 sum", name)
			for _, dp := range sum.DataPoints {
				total += dp.Value
			}
		}
	}
	return total
}

func TestService_RecordsSpansAndCounters(t *testing.T) {
	reader := sdkmetric.NewManualReader()
	meter := sdkmetric.NewMeterProvider(sdkmetric.WithReader(reader)).Meter("test")
	spans := tracetest.NewSpanRecorder()
	tracer := sdktrace.NewTracerProvider(sdktrace.WithSpanProcessor(spans)).Tracer("test")

	svc := New(application.NewService(memory.NewRepository()), WithMeter(meter), WithTracer(tracer))
	ctx := context.Background()
	one := decimal.NewFromInt(1)

	order, err := svc.CreateOrder(ctx, domain.PlacementInput{
		Name:      "Ada",
		Address:   "1 Main St",
		CartItems: []domain.CartItem{{Name: "Berry Macaroon", Price: &one, Quantity: 1}},
	})
	require.NoError(t, err)
	_, err = svc.UpdateOrderStatus(ctx, order.ID, "shipped")
	require.NoError(t, err)
	_, err = svc.DeleteOrder(ctx, order.ID)
	require.NoError(t, err)
	_, err = svc.DeleteOrder(ctx, order.ID)
	require.NoError(t, err)

	assert.Equal(t, int64(1), counterValue(t, reader, "orders.service.orders_created"))
	assert.Equal(t, int64(1), counterValue(t, reader, "orders.service.status_updates"))
	assert.Equal(t, int64(1), counterValue(t, reader, "orders.service.orders_deleted"))

	names := []string{}
	for _, span := range spans.Ended() {
		names = append(names, span.Name())
	}
	assert.Equal(t, []string{
		"OrderService.CreateOrder",
		"OrderService.UpdateOrderStatus",
		"OrderService.DeleteOrder",
		"OrderService.DeleteOrder",
	}, names)
}

func TestService_ErrorsMarkSpan(t *testing.T) {
	spans := tracetest.NewSpanRecorder()
	tracer := sdktrace.NewTracerProvider(sdktrace.WithSpanProcessor(spans)).Tracer("test")
	svc := New(application.NewService(memory.NewRepository()), WithTracer(tracer))

	_, err := svc.GetOrder(context.Background(), 99)
	require.Error(t, err)

	ended := spans.Ended()
	require.Len(t, ended, 1)
	assert.Equal(t, "Error", ended[0].Status().Code.String())
}
