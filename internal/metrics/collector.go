// internal/metrics/collector.go
package metrics

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "solana_web3"

// Collector управляет набором метрик RPC вызовов
type Collector struct {
	registry    *prometheus.Registry
	rpcCalls    *prometheus.CounterVec
	rpcLatency  *prometheus.HistogramVec
	activeNodes *prometheus.GaugeVec
}

// NewCollector создает коллектор со своим реестром, чтобы несколько
// экземпляров (например, в тестах) не конфликтовали в глобальном реестре.
func NewCollector() *Collector {
	c := &Collector{
		registry: prometheus.NewRegistry(),
		rpcCalls: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "rpc_calls_total",
				Help:      "Total number of JSON-RPC calls by method, endpoint and status",
			},
			[]string{"method", "endpoint", "status"},
		),
		rpcLatency: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Name:      "rpc_latency_seconds",
				Help:      "JSON-RPC request latency in seconds",
				Buckets:   prometheus.ExponentialBuckets(0.001, 2, 12),
			},
			[]string{"method", "endpoint"},
		),
		activeNodes: prometheus.NewGaugeVec(
			prometheus.GaugeOpts{
				Namespace: namespace,
				Name:      "rpc_node_active",
				Help:      "1 if the RPC node is marked active, 0 otherwise",
			},
			[]string{"endpoint"},
		),
	}

	c.registry.MustRegister(c.rpcCalls, c.rpcLatency, c.activeNodes)
	return c
}

// RecordRPC записывает метрики одного RPC запроса
func (c *Collector) RecordRPC(method, endpoint string, duration time.Duration, success bool) {
	if c == nil {
		return
	}
	status := "success"
	if !success {
		status = "failed"
	}
	c.rpcCalls.WithLabelValues(method, endpoint, status).Inc()
	c.rpcLatency.WithLabelValues(method, endpoint).Observe(duration.Seconds())
}

// SetNodeActive обновляет статус узла
func (c *Collector) SetNodeActive(endpoint string, active bool) {
	if c == nil {
		return
	}
	v := 0.0
	if active {
		v = 1
	}
	c.activeNodes.WithLabelValues(endpoint).Set(v)
}

// Registry returns the underlying registry.
func (c *Collector) Registry() *prometheus.Registry {
	return c.registry
}

// Handler exposes the registry over HTTP.
func (c *Collector) Handler() http.Handler {
	return promhttp.HandlerFor(c.registry, promhttp.HandlerOpts{})
}

// Reset сбрасывает все метрики (полезно для тестирования)
func (c *Collector) Reset() {
	c.rpcCalls.Reset()
	c.rpcLatency.Reset()
	c.activeNodes.Reset()
}
