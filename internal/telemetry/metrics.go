package telemetry

import (
	"context"
	"strconv"
	"sync"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
)

const meterName = "mealturn-web"

// Order submission outcomes
const (
	OrderPlaced   = "placed"
	OrderRejected = "rejected"
	OrderFailed   = "failed"
)

type instruments struct {
	orders  metric.Int64Counter
	backend metric.Float64Histogram
}

var (
	instOnce sync.Once
	inst     instruments
)

// meters are created on the global provider, which forwards to the real
// one once Initialize installs it
func meters() *instruments {
	instOnce.Do(func() {
		meter := otel.Meter(meterName)
		inst.orders, _ = meter.Int64Counter("orders.submitted",
			metric.WithDescription("Order submissions by order type and outcome"))
		inst.backend, _ = meter.Float64Histogram("backend.request.duration",
			metric.WithDescription("Latency of calls to the meal backend"),
			metric.WithUnit("s"))
	})
	return &inst
}

// RecordOrder counts one order submission
func RecordOrder(ctx context.Context, orderType, outcome string) {
	meters().orders.Add(ctx, 1, metric.WithAttributes(
		attribute.String("order.type", orderType),
		attribute.String("order.outcome", outcome),
	))
}

// RecordBackendCall records the latency of a backend call. status 0 means
// the request never got a response.
func RecordBackendCall(ctx context.Context, method, path string, status int, elapsed time.Duration) {
	meters().backend.Record(ctx, elapsed.Seconds(), metric.WithAttributes(
		attribute.String("http.method", method),
		attribute.String("backend.path", path),
		attribute.String("http.status_class", statusClass(status)),
	))
}

func statusClass(status int) string {
	if status <= 0 {
		return "error"
	}
	return strconv.Itoa(status/100) + "xx"
}
