package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

const (
	OutcomeSuccess = "success"
	OutcomeError   = "error"
)

// ServiceMetrics содержит метрики операций сервисного слоя заказов и пользователей.
type ServiceMetrics struct {
	operations *prometheus.CounterVec
	duration   *prometheus.HistogramVec
	filtered   prometheus.Counter
}

// NewServiceMetrics создаёт метрики сервиса в глобальном реестре Prometheus.
func NewServiceMetrics() *ServiceMetrics {
	return NewServiceMetricsWithRegisterer(prometheus.DefaultRegisterer)
}

// NewServiceMetricsWithRegisterer создаёт метрики сервиса в указанном реестре.
func NewServiceMetricsWithRegisterer(registerer prometheus.Registerer) *ServiceMetrics {
	return &ServiceMetrics{
		operations: registerCounterVec(registerer, prometheus.CounterOpts{
			Name: "oms_service_operations_total",
			Help: "Total number of service operations by outcome",
		}, []string{"operation", "outcome"}),
		duration: registerHistogramVec(registerer, prometheus.HistogramOpts{
			Name:    "oms_service_operation_duration_seconds",
			Help:    "Duration of service operations including the transaction",
			Buckets: []float64{0.0005, 0.001, 0.0025, 0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1},
		}, []string{"operation"}),
		filtered: registerCounter(registerer, prometheus.CounterOpts{
			Name: "oms_order_filtered_total",
			Help: "Total number of orders passed through the outbound filter",
		}),
	}
}

// ObserveOperation учитывает завершённую операцию и её длительность.
func (m *ServiceMetrics) ObserveOperation(operation string, err error, duration time.Duration) {
	if m == nil {
		return
	}
	outcome := OutcomeSuccess
	if err != nil {
		outcome = OutcomeError
	}
	m.operations.WithLabelValues(operation, outcome).Inc()
	m.duration.WithLabelValues(operation).Observe(duration.Seconds())
}

// RecordFiltered увеличивает счётчик отфильтрованных заказов на n.
func (m *ServiceMetrics) RecordFiltered(n int) {
	if m == nil || n <= 0 {
		return
	}
	m.filtered.Add(float64(n))
}
