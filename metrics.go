package tensorann

import (
	"sync/atomic"
	"time"
)

// MetricsCollector defines an interface for collecting operational metrics.
// Implement this interface to integrate with monitoring systems like Prometheus.
type MetricsCollector interface {
	// RecordBuild is called after each index build.
	// kind is the index kind, points the dataset size, err nil if successful.
	RecordBuild(kind Kind, points int, duration time.Duration, err error)

	// RecordQuery is called after each query.
	// found reports a hit, cached that the outcome came from the query cache.
	RecordQuery(found, cached bool, duration time.Duration, err error)
}

// NoopMetricsCollector is a no-op implementation of MetricsCollector.
type NoopMetricsCollector struct{}

func (NoopMetricsCollector) RecordBuild(Kind, int, time.Duration, error)  {}
func (NoopMetricsCollector) RecordQuery(bool, bool, time.Duration, error) {}

// BasicMetricsCollector provides simple in-memory metrics collection.
type BasicMetricsCollector struct {
	BuildCount      atomic.Int64
	BuildErrors     atomic.Int64
	BuildPoints     atomic.Int64
	BuildTotalNanos atomic.Int64
	QueryCount      atomic.Int64
	QueryErrors     atomic.Int64
	QueryHits       atomic.Int64
	QueryCacheHits  atomic.Int64
	QueryTotalNanos atomic.Int64
}

// RecordBuild implements MetricsCollector.
func (b *BasicMetricsCollector) RecordBuild(_ Kind, points int, duration time.Duration, err error) {
	b.BuildCount.Add(1)
	b.BuildTotalNanos.Add(duration.Nanoseconds())
	if err != nil {
		b.BuildErrors.Add(1)
		return
	}
	b.BuildPoints.Add(int64(points))
}

// RecordQuery implements MetricsCollector.
func (b *BasicMetricsCollector) RecordQuery(found, cached bool, duration time.Duration, err error) {
	b.QueryCount.Add(1)
	b.QueryTotalNanos.Add(duration.Nanoseconds())
	if err != nil {
		b.QueryErrors.Add(1)
		return
	}
	if found {
		b.QueryHits.Add(1)
	}
	if cached {
		b.QueryCacheHits.Add(1)
	}
}

// GetStats returns a snapshot of current metrics.
func (b *BasicMetricsCollector) GetStats() BasicMetricsStats {
	return BasicMetricsStats{
		BuildCount:     b.BuildCount.Load(),
		BuildErrors:    b.BuildErrors.Load(),
		BuildPoints:    b.BuildPoints.Load(),
		BuildAvgNanos:  avg(b.BuildTotalNanos.Load(), b.BuildCount.Load()),
		QueryCount:     b.QueryCount.Load(),
		QueryErrors:    b.QueryErrors.Load(),
		QueryHits:      b.QueryHits.Load(),
		QueryCacheHits: b.QueryCacheHits.Load(),
		QueryAvgNanos:  avg(b.QueryTotalNanos.Load(), b.QueryCount.Load()),
	}
}

func avg(total, count int64) int64 {
	if count == 0 {
		return 0
	}
	return total / count
}

// BasicMetricsStats is a snapshot of BasicMetricsCollector state.
type BasicMetricsStats struct {
	BuildCount     int64
	BuildErrors    int64
	BuildPoints    int64
	BuildAvgNanos  int64
	QueryCount     int64
	QueryErrors    int64
	QueryHits      int64
	QueryCacheHits int64
	QueryAvgNanos  int64
}

// HitRate is the share of successful queries that found a point.
func (s BasicMetricsStats) HitRate() float64 {
	ok := s.QueryCount - s.QueryErrors
	if ok == 0 {
		return 0
	}
	return float64(s.QueryHits) / float64(ok)
}
