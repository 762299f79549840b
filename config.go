package soq

type Option[Element any] = func(*config[Element])

// WithCapacity pre-sizes the queue's buffer for the expected backlog.
func WithCapacity[Element any](capacity int) Option[Element] {
	if capacity < 0 {
		panic("capacity can't be < 0")
	}
	return func(c *config[Element]) {
		c.capacity = capacity
	}
}

// WithMetrics enables the Prometheus metrics described by the provided config.
func WithMetrics[Element any](prometheus *PrometheusConfig) Option[Element] {
	if prometheus == nil {
		panic("prometheus config can't be nil")
	}
	return func(c *config[Element]) {
		c.metrics = prometheus.metrics()
	}
}

type config[Element any] struct {
	capacity int
	metrics  *metrics
}

func newConfig[Element any](options ...Option[Element]) *config[Element] {
	options = append([]Option[Element]{
		WithCapacity[Element](0),
		WithMetrics[Element](Prometheus(nil)),
	}, options...)

	cfg := config[Element]{}
	for _, opt := range options {
		opt(&cfg)
	}

	return &cfg
}
