package listing

import (
	"context"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

// Executor runs one listing query for a FilterState. Failures are returned as
// *QueryError.
type Executor interface {
	Execute(ctx context.Context, f FilterState) (ResultPage, error)
}

var (
	queryLatency = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: "directory",
		Subsystem: "listing",
		Name:      "query_seconds",
		Help:      "Latency of listing store queries by operation and result.",
		Buckets:   []float64{0.001, 0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5},
	}, []string{"op", "result"})

	tracer = otel.Tracer("jobmate/directory-service/listing")
)

func observe(op string, start time.Time, err error) {
	result := "ok"
	if err != nil {
		result = "error"
	}
	queryLatency.WithLabelValues(op, result).Observe(time.Since(start).Seconds())
}

var _ Executor = (*StoreExecutor)(nil)

// StoreExecutor executes listing queries directly against a Store.
type StoreExecutor struct {
	store Store
}

// NewExecutor returns an Executor backed by store.
func NewExecutor(store Store) *StoreExecutor {
	return &StoreExecutor{store: store}
}

// Execute implements Executor.
func (e *StoreExecutor) Execute(ctx context.Context, f FilterState) (ResultPage, error) {
	c := CriteriaFor(f)

	ctx, span := tracer.Start(ctx, "listing.Execute", trace.WithAttributes(
		attribute.StringSlice("listing.departments", c.Departments),
		attribute.StringSlice("listing.companies", c.Companies),
		attribute.Bool("listing.search", c.Search != ""),
		attribute.Int("listing.offset", c.Offset),
	))
	defer span.End()

	start := time.Now()
	items, total, err := e.store.Search(ctx, c)
	observe("search", start, err)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "search failed")
		return ResultPage{}, &QueryError{Op: "search", Err: err}
	}

	span.SetAttributes(attribute.Int("listing.total", total))
	if items == nil {
		items = []Posting{}
	}
	return ResultPage{Items: items, TotalCount: total}, nil
}
