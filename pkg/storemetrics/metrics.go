// Package storemetrics exports store activity as Prometheus metrics.
//
// Metrics collected:
//   - freedux_writes_total: Counter of setter calls by store and result
//   - freedux_notifications_total: Counter of notification passes by store
//   - freedux_notified_subscribers: Histogram of subscribers called per pass
//   - freedux_batches_total: Counter of outermost batches by store and
//     whether they notified
//
// Example:
//
//	m := storemetrics.New(storemetrics.WithNamespace("myapp"))
//	s := store.New(initial, store.WithName("cart"), store.WithObserver(m))
//
//	http.Handle("/metrics", promhttp.Handler())
package storemetrics

import (
	"strconv"
	"sync"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"github.com/vango-dev/freedux/pkg/path"
	"github.com/vango-dev/freedux/pkg/store"
)

// Config configures the collector.
type Config struct {
	// Namespace is the metrics namespace (default: "freedux").
	Namespace string

	// Subsystem is the metrics subsystem (default: "").
	Subsystem string

	// ConstLabels are constant labels added to all metrics.
	ConstLabels prometheus.Labels

	// Buckets are the histogram buckets for subscribers per notification.
	Buckets []float64

	// Registry is the Prometheus registry to use.
	// Default: prometheus.DefaultRegisterer
	Registry prometheus.Registerer
}

// Option configures the collector.
type Option func(*Config)

// WithNamespace sets the metrics namespace.
func WithNamespace(namespace string) Option {
	return func(c *Config) {
		c.Namespace = namespace
	}
}

// WithSubsystem sets the metrics subsystem.
func WithSubsystem(subsystem string) Option {
	return func(c *Config) {
		c.Subsystem = subsystem
	}
}

// WithConstLabels sets constant labels for all metrics.
func WithConstLabels(labels prometheus.Labels) Option {
	return func(c *Config) {
		c.ConstLabels = labels
	}
}

// WithBuckets sets the histogram buckets.
func WithBuckets(buckets []float64) Option {
	return func(c *Config) {
		c.Buckets = buckets
	}
}

// WithRegistry sets the Prometheus registry.
func WithRegistry(registry prometheus.Registerer) Option {
	return func(c *Config) {
		c.Registry = registry
	}
}

func defaultConfig() Config {
	return Config{
		Namespace: "freedux",
		Buckets:   []float64{0, 1, 2, 5, 10, 25, 50, 100},
		Registry:  prometheus.DefaultRegisterer,
	}
}

// Collector implements store.Observer on top of Prometheus metrics.
type Collector struct {
	writes        *prometheus.CounterVec
	notifications *prometheus.CounterVec
	notified      *prometheus.HistogramVec
	batches       *prometheus.CounterVec
}

var _ store.Observer = (*Collector)(nil)

// New creates a collector and registers its metrics. Registering twice on
// the same registry panics; use Default for the process-wide collector.
func New(opts ...Option) *Collector {
	config := defaultConfig()
	for _, opt := range opts {
		opt(&config)
	}
	factory := promauto.With(config.Registry)

	return &Collector{
		writes: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace:   config.Namespace,
			Subsystem:   config.Subsystem,
			Name:        "writes_total",
			Help:        "Total number of store setter calls by result",
			ConstLabels: config.ConstLabels,
		}, []string{"store", "result"}),

		notifications: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace:   config.Namespace,
			Subsystem:   config.Subsystem,
			Name:        "notifications_total",
			Help:        "Total number of subscriber notification passes",
			ConstLabels: config.ConstLabels,
		}, []string{"store"}),

		notified: factory.NewHistogramVec(prometheus.HistogramOpts{
			Namespace:   config.Namespace,
			Subsystem:   config.Subsystem,
			Name:        "notified_subscribers",
			Help:        "Subscribers called per notification pass",
			ConstLabels: config.ConstLabels,
			Buckets:     config.Buckets,
		}, []string{"store"}),

		batches: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace:   config.Namespace,
			Subsystem:   config.Subsystem,
			Name:        "batches_total",
			Help:        "Total number of outermost batches by whether they notified",
			ConstLabels: config.ConstLabels,
		}, []string{"store", "changed"}),
	}
}

var (
	defaultCollector     *Collector
	defaultCollectorOnce sync.Once
)

// Default returns a collector registered once on
// prometheus.DefaultRegisterer with default options.
func Default() *Collector {
	defaultCollectorOnce.Do(func() {
		defaultCollector = New()
	})
	return defaultCollector
}

// OnWrite implements store.Observer.
func (c *Collector) OnWrite(storeName string, _ path.Path, result store.WriteResult) {
	c.writes.WithLabelValues(storeName, result.String()).Inc()
}

// OnNotify implements store.Observer.
func (c *Collector) OnNotify(storeName string, subscribers int) {
	c.notifications.WithLabelValues(storeName).Inc()
	c.notified.WithLabelValues(storeName).Observe(float64(subscribers))
}

// OnBatch implements store.Observer.
func (c *Collector) OnBatch(storeName string, changed bool) {
	c.batches.WithLabelValues(storeName, strconv.FormatBool(changed)).Inc()
}
