package server

import (
	"github.com/prometheus/client_golang/prometheus"
)

const metricsNamespace = "delivery_dashboard"

// Collector is a prometheus.Collector that collects metrics about the
// query API.
type Collector struct {
	queries       *prometheus.CounterVec
	queryDuration *prometheus.HistogramVec
	datasetRows   prometheus.Gauge
}

// NewMetricsCollector returns a new Collector.
func NewMetricsCollector() *Collector {
	return &Collector{
		queries: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: metricsNamespace,
				Name:      "queries_total",
				Help:      "The number of queries served, by operation and status code.",
			}, []string{"operation", "code"},
		),
		queryDuration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: metricsNamespace,
				Name:      "query_duration_seconds",
				Help:      "The time taken to answer a query.",
				Buckets:   []float64{0.0005, 0.001, 0.005, 0.01, 0.05, 0.1, 0.5},
			}, []string{"operation"},
		),
		datasetRows: prometheus.NewGauge(
			prometheus.GaugeOpts{
				Namespace: metricsNamespace,
				Name:      "dataset_rows",
				Help:      "The number of reviews loaded.",
			},
		),
	}
}

// Describe is part of the prometheus.Collector interface.
func (c *Collector) Describe(ch chan<- *prometheus.Desc) {
	c.queries.Describe(ch)
	c.queryDuration.Describe(ch)
	c.datasetRows.Describe(ch)
}

// Collect is part of the prometheus.Collector interface.
func (c *Collector) Collect(ch chan<- prometheus.Metric) {
	c.queries.Collect(ch)
	c.queryDuration.Collect(ch)
	c.datasetRows.Collect(ch)
}

// newRegistry returns a registry holding c and the Go runtime collector.
func newRegistry(c *Collector) (*prometheus.Registry, error) {
	r := prometheus.NewRegistry()
	if err := r.Register(prometheus.NewGoCollector()); err != nil {
		return nil, err
	}
	if err := r.Register(c); err != nil {
		return nil, err
	}
	return r, nil
}
