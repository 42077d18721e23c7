package tensorann

import (
	"log/slog"

	"github.com/hupe1980/tensorann/resource"
)

type options struct {
	metricsCollector MetricsCollector
	logger           *Logger
	seed             uint64
	seeded           bool
	fast             bool
	cacheSize        int
	workers          int
	controller       *resource.Controller
}

// Option configures New.
type Option func(*options)

// WithSeed pins the random directions so builds are reproducible.
// Without it every build draws fresh directions.
func WithSeed(seed uint64) Option {
	return func(o *options) {
		o.seed = seed
		o.seeded = true
	}
}

// WithFastPreprocessing makes KindTensor use ceil(ln(n)^(1/8)/(1-alpha²))
// sub-indexes, each smaller than in the default mode. Other kinds ignore it.
func WithFastPreprocessing(fast bool) Option {
	return func(o *options) {
		o.fast = fast
	}
}

// WithQueryCache keeps the outcomes of the last size distinct queries.
// Built indexes never change, so a cached outcome stays valid.
//
// Example:
//
//	idx, _ := tensorann.New(ctx, tensorann.KindTensor, data, params,
//	    tensorann.WithQueryCache(1024))
func WithQueryCache(size int) Option {
	return func(o *options) {
		o.cacheSize = size
	}
}

// WithWorkers caps the goroutines used while building. Defaults to GOMAXPROCS.
func WithWorkers(n int) Option {
	return func(o *options) {
		o.workers = n
	}
}

// WithResourceController shares a worker budget between concurrent builds.
func WithResourceController(rc *resource.Controller) Option {
	return func(o *options) {
		o.controller = rc
	}
}

// WithMetricsCollector configures a metrics collector for monitoring operations.
// Pass nil to disable metrics collection.
//
// Example with BasicMetricsCollector:
//
//	metrics := &tensorann.BasicMetricsCollector{}
//	idx, _ := tensorann.New(ctx, tensorann.KindTop1, data, params, tensorann.WithMetricsCollector(metrics))
//	// ... query ...
//	stats := metrics.GetStats()
//	fmt.Printf("Queries: %d, hit rate: %.2f\n", stats.QueryCount, stats.HitRate())
func WithMetricsCollector(mc MetricsCollector) Option {
	return func(o *options) {
		o.metricsCollector = mc
	}
}

// WithLogger configures structured logging for operations.
// Pass nil to disable logging.
//
// Example with JSON logging:
//
//	logger := tensorann.NewJSONLogger(slog.LevelInfo)
//	idx, _ := tensorann.New(ctx, kind, data, params, tensorann.WithLogger(logger))
func WithLogger(logger *Logger) Option {
	return func(o *options) {
		o.logger = logger
	}
}

// WithLogLevel creates a text logger with the specified level and sets it.
// Convenience wrapper for WithLogger(NewTextLogger(level)).
func WithLogLevel(level slog.Level) Option {
	return func(o *options) {
		o.logger = NewTextLogger(level)
	}
}

func applyOptions(optFns []Option) options {
	o := options{
		metricsCollector: NoopMetricsCollector{},
		logger:           NoopLogger(),
	}
	for _, fn := range optFns {
		if fn != nil {
			fn(&o)
		}
	}
	if o.metricsCollector == nil {
		o.metricsCollector = NoopMetricsCollector{}
	}
	if o.logger == nil {
		o.logger = NoopLogger()
	}
	return o
}
