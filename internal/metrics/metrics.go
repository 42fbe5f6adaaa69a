// Package metrics instruments the storage gateway with Prometheus collectors.
package metrics

import (
	"context"
	"errors"
	"time"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/jacentio/shelf/store"
)

// Result label values.
const (
	resultOK       = "ok"
	resultNotFound = "not_found"
	resultError    = "error"
)

// Gateway wraps a store.Gateway and records the count and latency of every call.
type Gateway struct {
	next     store.Gateway
	calls    *prometheus.CounterVec
	duration *prometheus.HistogramVec
	records  prometheus.Counter
}

var _ store.Gateway = (*Gateway)(nil)

// NewGateway registers the collectors with reg and wraps next.
func NewGateway(next store.Gateway, reg prometheus.Registerer) *Gateway {
	g := &Gateway{
		next: next,
		calls: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: "shelf",
				Subsystem: "store",
				Name:      "operations_total",
				Help:      "Counter of storage operations.",
			}, []string{"operation", "result"}),
		duration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: "shelf",
				Subsystem: "store",
				Name:      "operation_duration_seconds",
				Help:      "Bucketed histogram of storage operation latency (s).",
				Buckets:   prometheus.ExponentialBuckets(0.0005, 2, 13),
			}, []string{"operation"}),
		records: prometheus.NewCounter(
			prometheus.CounterOpts{
				Namespace: "shelf",
				Subsystem: "store",
				Name:      "query_records_total",
				Help:      "Counter of records returned by queries.",
			}),
	}
	reg.MustRegister(g.calls, g.duration, g.records)
	return g
}

func (g *Gateway) observe(op string, start time.Time, err error) {
	result := resultOK
	switch {
	case errors.Is(err, store.ErrNotFound):
		result = resultNotFound
	case err != nil:
		result = resultError
	}
	g.calls.WithLabelValues(op, result).Inc()
	g.duration.WithLabelValues(op).Observe(time.Since(start).Seconds())
}

// Put records a put call.
func (g *Gateway) Put(ctx context.Context, record store.Record) (store.Record, error) {
	start := time.Now()
	rec, err := g.next.Put(ctx, record)
	g.observe("put", start, err)
	return rec, err
}

// Get records a get call.
func (g *Gateway) Get(ctx context.Context, key store.Key) (store.Record, error) {
	start := time.Now()
	rec, err := g.next.Get(ctx, key)
	g.observe("get", start, err)
	return rec, err
}

// Update records an update call.
func (g *Gateway) Update(ctx context.Context, key store.Key, fields []store.Field) (store.Record, error) {
	start := time.Now()
	rec, err := g.next.Update(ctx, key, fields)
	g.observe("update", start, err)
	return rec, err
}

// Delete records a delete call.
func (g *Gateway) Delete(ctx context.Context, key store.Key) (store.Key, error) {
	start := time.Now()
	k, err := g.next.Delete(ctx, key)
	g.observe("delete", start, err)
	return k, err
}

// Query records a query call and the number of records it returned.
func (g *Gateway) Query(ctx context.Context, conds []store.Condition, page store.Pagination) (store.Page, error) {
	start := time.Now()
	p, err := g.next.Query(ctx, conds, page)
	g.observe("query", start, err)
	if err == nil {
		g.records.Add(float64(len(p.Records)))
	}
	return p, err
}
