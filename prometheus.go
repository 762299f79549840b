package soq

import (
	"github.com/prometheus/client_golang/prometheus"
)

// PrometheusConfig is a config of the Prometheus metrics provided by the queue.
//
// An instance can be created only by the [Prometheus] function. The zero value is invalid.
type PrometheusConfig struct {
	// Namespace of the metrics.
	Namespace string
	// Subsystem of the metrics.
	Subsystem string
	// Options for the buffered elements gauge.
	Depth prometheus.GaugeOpts
	// Options for the enqueued elements counter.
	Enqueues prometheus.CounterOpts
	// Options for the dequeued elements counter.
	Dequeues prometheus.CounterOpts
	// Options for the consumer suspensions counter.
	Waits prometheus.CounterOpts
	// Options for the suspension duration histogram.
	WaitDuration prometheus.HistogramOpts
	// Options for the refused concurrent reads counter.
	Rejects prometheus.CounterOpts
	// Options for the discarded elements counter.
	Drops prometheus.CounterOpts

	registerer prometheus.Registerer
}

// Prometheus returns a [PrometheusConfig] with the provided registerer. If registerer is nil,
// metrics will not be registered. Many default parameters can be configured by passing
// configuration functions.
func Prometheus(
	registerer prometheus.Registerer,
	configFuncs ...func(c *PrometheusConfig),
) *PrometheusConfig {
	const (
		namespace = "soq"
		subsystem = ""
	)

	c := PrometheusConfig{
		registerer: registerer,
		Namespace:  namespace,
		Subsystem:  subsystem,
		Depth: prometheus.GaugeOpts{
			Namespace: namespace,
			Subsystem: subsystem,
			Name:      "depth",
			Help:      "Number of elements currently buffered in the queue",
		},
		Enqueues: prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: subsystem,
			Name:      "enqueues",
			Help:      "Number of elements enqueued, by delivery path",
		},
		Dequeues: prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: subsystem,
			Name:      "dequeues",
			Help:      "Number of elements returned to the consumer",
		},
		Waits: prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: subsystem,
			Name:      "waits",
			Help:      "Number of times the consumer suspended on an empty queue",
		},
		WaitDuration: prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: subsystem,
			Name:      "wait_duration_seconds",
			Help:      "Time the consumer spent suspended waiting for an element",
			Buckets:   prometheus.ExponentialBuckets(0.001, 2, 16),
		},
		Rejects: prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: subsystem,
			Name:      "rejects",
			Help:      "Number of reads refused because a consumer was already waiting",
		},
		Drops: prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: subsystem,
			Name:      "drops",
			Help:      "Number of buffered elements discarded by RemoveAll",
		},
	}

	for _, cf := range configFuncs {
		if cf != nil {
			cf(&c)
		}
	}

	return &c
}

func (c *PrometheusConfig) metrics() *metrics {
	m := metrics{
		depth:        prometheus.NewGauge(c.Depth),
		enqueues:     prometheus.NewCounterVec(c.Enqueues, []string{"path"}),
		dequeues:     prometheus.NewCounter(c.Dequeues),
		waits:        prometheus.NewCounter(c.Waits),
		waitDuration: prometheus.NewHistogram(c.WaitDuration),
		rejects:      prometheus.NewCounter(c.Rejects),
		drops:        prometheus.NewCounter(c.Drops),
	}

	if c.registerer != nil {
		c.registerer.MustRegister(
			m.depth,
			m.enqueues,
			m.dequeues,
			m.waits,
			m.waitDuration,
			m.rejects,
			m.drops,
		)
	}

	return &m
}

type metrics struct {
	depth        prometheus.Gauge
	enqueues     *prometheus.CounterVec
	dequeues     prometheus.Counter
	waits        prometheus.Counter
	waitDuration prometheus.Histogram
	rejects      prometheus.Counter
	drops        prometheus.Counter
}
