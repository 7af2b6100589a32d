// internal/utils/metrics/collector.go
package metrics

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "swapkit"

// Collector управляет набором метрик. Все методы безопасны для nil-получателя,
// так что метрики можно не подключать.
type Collector struct {
	registry *prometheus.Registry

	operations        *prometheus.CounterVec
	operationDuration *prometheus.HistogramVec
	rpcLatency        *prometheus.HistogramVec
	rpcErrors         *prometheus.CounterVec
}

// NewCollector создает коллектор со своим реестром.
func NewCollector() *Collector {
	c := &Collector{
		registry: prometheus.NewRegistry(),
		operations: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "operations_total",
				Help:      "Total number of quote, plan, estimate and execute calls",
			},
			[]string{"operation", "protocol", "status"},
		),
		operationDuration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Name:      "operation_duration_seconds",
				Help:      "Operation duration in seconds",
				Buckets:   prometheus.ExponentialBuckets(0.01, 2, 10),
			},
			[]string{"operation", "protocol"},
		),
		rpcLatency: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Name:      "rpc_latency_seconds",
				Help:      "RPC request latency in seconds",
				Buckets:   prometheus.ExponentialBuckets(0.001, 2, 12),
			},
			[]string{"method"},
		),
		rpcErrors: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "rpc_errors_total",
				Help:      "Total number of failed RPC requests",
			},
			[]string{"method"},
		),
	}
	c.registry.MustRegister(c.operations, c.operationDuration, c.rpcLatency, c.rpcErrors)
	return c
}

// RecordOperation записывает результат и длительность операции сервиса.
// status - "success" или вид ошибки.
func (c *Collector) RecordOperation(operation, protocol, status string, duration time.Duration) {
	if c == nil {
		return
	}
	c.operations.WithLabelValues(operation, protocol, status).Inc()
	c.operationDuration.WithLabelValues(operation, protocol).Observe(duration.Seconds())
}

// RecordRPC записывает метрики RPC-запроса
func (c *Collector) RecordRPC(method string, duration time.Duration, err error) {
	if c == nil {
		return
	}
	c.rpcLatency.WithLabelValues(method).Observe(duration.Seconds())
	if err != nil {
		c.rpcErrors.WithLabelValues(method).Inc()
	}
}

// Handler отдает метрики в формате Prometheus.
func (c *Collector) Handler() http.Handler {
	return promhttp.HandlerFor(c.registry, promhttp.HandlerOpts{})
}
