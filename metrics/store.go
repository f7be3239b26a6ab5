package metrics

import (
	"context"
	"time"

	"github.com/mytheresa/vendor-catalog/models"
	"github.com/prometheus/client_golang/prometheus"
)

// StoreMetrics holds the collectors updated by instrumented stores.
type StoreMetrics struct {
	operations *prometheus.CounterVec
	duration   *prometheus.HistogramVec
}

// NewStoreMetrics creates the store collectors and registers them with reg.
func NewStoreMetrics(reg prometheus.Registerer) *StoreMetrics {
	m := &StoreMetrics{
		operations: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "catalog",
			Subsystem: "store",
			Name:      "operations_total",
			Help:      "Store operations by operation and result.",
		}, []string{"operation", "result"}),
		duration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: "catalog",
			Subsystem: "store",
			Name:      "operation_duration_seconds",
			Help:      "Store operation latency.",
			Buckets:   prometheus.DefBuckets,
		}, []string{"operation"}),
	}
	reg.MustRegister(m.operations, m.duration)
	return m
}

func (m *StoreMetrics) observe(operation string, start time.Time, err error) {
	result := "ok"
	if err != nil {
		result = "error"
	}
	m.operations.WithLabelValues(operation, result).Inc()
	m.duration.WithLabelValues(operation).Observe(time.Since(start).Seconds())
}

type instrumentedStore struct {
	next    models.Store
	metrics *StoreMetrics
}

// InstrumentStore wraps next so every call is counted and timed.
// Results and errors pass through untouched.
func InstrumentStore(next models.Store, m *StoreMetrics) models.Store {
	return &instrumentedStore{next: next, metrics: m}
}

func (s *instrumentedStore) Find(ctx context.Context, filters models.ProductFilters) (products []*models.Product, err error) {
	defer func(start time.Time) { s.metrics.observe("find", start, err) }(time.Now())
	return s.next.Find(ctx, filters)
}

func (s *instrumentedStore) Count(ctx context.Context, filters models.ProductFilters) (total int64, err error) {
	defer func(start time.Time) { s.metrics.observe("count", start, err) }(time.Now())
	return s.next.Count(ctx, filters)
}

func (s *instrumentedStore) Add(ctx context.Context, product *models.Product) (err error) {
	defer func(start time.Time) { s.metrics.observe("add", start, err) }(time.Now())
	return s.next.Add(ctx, product)
}

func (s *instrumentedStore) Remove(ctx context.Context, product *models.Product) (err error) {
	defer func(start time.Time) { s.metrics.observe("remove", start, err) }(time.Now())
	return s.next.Remove(ctx, product)
}

func (s *instrumentedStore) Entry(ctx context.Context, product *models.Product) (err error) {
	defer func(start time.Time) { s.metrics.observe("entry", start, err) }(time.Now())
	return s.next.Entry(ctx, product)
}

func (s *instrumentedStore) SaveChanges(ctx context.Context) (err error) {
	defer func(start time.Time) { s.metrics.observe("save_changes", start, err) }(time.Now())
	return s.next.SaveChanges(ctx)
}
