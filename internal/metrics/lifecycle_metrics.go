package metrics

import (
	"fmt"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// LifecycleMetrics содержит метрики операций жизненного цикла заказов.
type LifecycleMetrics struct {
	// Счётчики операций
	ordersCreated     prometheus.Counter
	ordersCancelled   prometheus.Counter
	ordersDeleted     prometheus.Counter
	statusTransitions *prometheus.CounterVec
	invalidOperations prometheus.Counter

	// Метрики периодического sweep PENDING -> PROCESSING
	sweepRuns     *prometheus.CounterVec
	sweepAdvanced prometheus.Counter
	sweepFailures prometheus.Counter
	sweepLastSize prometheus.Gauge

	// Гистограмма времени операций
	opDuration *prometheus.HistogramVec
}

// NewLifecycleMetrics создаёт метрики жизненного цикла в дефолтном registry.
func NewLifecycleMetrics() *LifecycleMetrics {
	return newLifecycleMetricsWithRegisterer(prometheus.DefaultRegisterer)
}

func newLifecycleMetricsWithRegisterer(registerer prometheus.Registerer) *LifecycleMetrics {
	if registerer == nil {
		registerer = prometheus.DefaultRegisterer
	}

	return &LifecycleMetrics{
		ordersCreated: registerCounter(registerer, prometheus.CounterOpts{
			Name: "orderlife_orders_created_total",
			Help: "Total number of orders created",
		}),
		ordersCancelled: registerCounter(registerer, prometheus.CounterOpts{
			Name: "orderlife_orders_cancelled_total",
			Help: "Total number of orders cancelled",
		}),
		ordersDeleted: registerCounter(registerer, prometheus.CounterOpts{
			Name: "orderlife_orders_deleted_total",
			Help: "Total number of orders deleted",
		}),
		statusTransitions: registerCounterVec(registerer, prometheus.CounterOpts{
			Name: "orderlife_status_transitions_total",
			Help: "Total number of order status transitions grouped by target status",
		}, []string{"to"}),
		invalidOperations: registerCounter(registerer, prometheus.CounterOpts{
			Name: "orderlife_invalid_operations_total",
			Help: "Total number of rejected status transitions",
		}),
		sweepRuns: registerCounterVec(registerer, prometheus.CounterOpts{
			Name: "orderlife_sweep_runs_total",
			Help: "Total number of pending order sweep runs grouped by result",
		}, []string{"result"}),
		sweepAdvanced: registerCounter(registerer, prometheus.CounterOpts{
			Name: "orderlife_sweep_advanced_total",
			Help: "Total number of orders advanced from PENDING to PROCESSING by the sweep",
		}),
		sweepFailures: registerCounter(registerer, prometheus.CounterOpts{
			Name: "orderlife_sweep_failures_total",
			Help: "Total number of orders the sweep failed to persist",
		}),
		sweepLastSize: registerGauge(registerer, prometheus.GaugeOpts{
			Name: "orderlife_sweep_last_advanced",
			Help: "Number of orders advanced during the last sweep run",
		}),
		opDuration: registerHistogramVec(registerer, prometheus.HistogramOpts{
			Name:    "orderlife_operation_duration_seconds",
			Help:    "Duration of lifecycle operations in seconds",
			Buckets: []float64{0.001, 0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1.0, 2.5, 5.0},
		}, []string{"operation"}),
	}
}

func registerCounter(registerer prometheus.Registerer, opts prometheus.CounterOpts) prometheus.Counter {
	collector := prometheus.NewCounter(opts)
	if err := registerer.Register(collector); err != nil {
		if alreadyRegistered, ok := err.(prometheus.AlreadyRegisteredError); ok {
			existing, ok := alreadyRegistered.ExistingCollector.(prometheus.Counter)
			if !ok {
				panic(fmt.Sprintf("collector %q already registered with unexpected type", opts.Name))
			}
			return existing
		}
		panic(fmt.Sprintf("register counter %q: %v", opts.Name, err))
	}
	return collector
}

func registerCounterVec(registerer prometheus.Registerer, opts prometheus.CounterOpts, labels []string) *prometheus.CounterVec {
	collector := prometheus.NewCounterVec(opts, labels)
	if err := registerer.Register(collector); err != nil {
		if alreadyRegistered, ok := err.(prometheus.AlreadyRegisteredError); ok {
			existing, ok := alreadyRegistered.ExistingCollector.(*prometheus.CounterVec)
			if !ok {
				panic(fmt.Sprintf("collector %q already registered with unexpected type", opts.Name))
			}
			return existing
		}
		panic(fmt.Sprintf("register counter vec %q: %v", opts.Name, err))
	}
	return collector
}

func registerGauge(registerer prometheus.Registerer, opts prometheus.GaugeOpts) prometheus.Gauge {
	collector := prometheus.NewGauge(opts)
	if err := registerer.Register(collector); err != nil {
		if alreadyRegistered, ok := err.(prometheus.AlreadyRegisteredError); ok {
			existing, ok := alreadyRegistered.ExistingCollector.(prometheus.Gauge)
			if !ok {
				panic(fmt.Sprintf("collector %q already registered with unexpected type", opts.Name))
			}
			return existing
		}
		panic(fmt.Sprintf("register gauge %q: %v", opts.Name, err))
	}
	return collector
}

func registerHistogramVec(registerer prometheus.Registerer, opts prometheus.HistogramOpts, labels []string) *prometheus.HistogramVec {
	collector := prometheus.NewHistogramVec(opts, labels)
	if err := registerer.Register(collector); err != nil {
		if alreadyRegistered, ok := err.(prometheus.AlreadyRegisteredError); ok {
			existing, ok := alreadyRegistered.ExistingCollector.(*prometheus.HistogramVec)
			if !ok {
				panic(fmt.Sprintf("collector %q already registered with unexpected type", opts.Name))
			}
			return existing
		}
		panic(fmt.Sprintf("register histogram vec %q: %v", opts.Name, err))
	}
	return collector
}

// RecordOrderCreated увеличивает счётчик созданных заказов.
func (m *LifecycleMetrics) RecordOrderCreated() {
	if m == nil {
		return
	}
	m.ordersCreated.Inc()
}

// RecordOrderCancelled увеличивает счётчик отменённых заказов.
func (m *LifecycleMetrics) RecordOrderCancelled() {
	if m == nil {
		return
	}
	m.ordersCancelled.Inc()
}

// RecordOrderDeleted увеличивает счётчик удалённых заказов.
func (m *LifecycleMetrics) RecordOrderDeleted() {
	if m == nil {
		return
	}
	m.ordersDeleted.Inc()
}

// RecordStatusTransition фиксирует успешный переход в целевой статус.
func (m *LifecycleMetrics) RecordStatusTransition(to string) {
	if m == nil {
		return
	}
	m.statusTransitions.WithLabelValues(to).Inc()
}

// RecordInvalidOperation фиксирует отклонённый переход.
func (m *LifecycleMetrics) RecordInvalidOperation() {
	if m == nil {
		return
	}
	m.invalidOperations.Inc()
}

// RecordSweep фиксирует результат одного прохода sweep.
func (m *LifecycleMetrics) RecordSweep(advanced, failed int) {
	if m == nil {
		return
	}
	result := "ok"
	if failed > 0 {
		result = "partial"
	}
	m.sweepRuns.WithLabelValues(result).Inc()
	m.sweepAdvanced.Add(float64(advanced))
	m.sweepFailures.Add(float64(failed))
	m.sweepLastSize.Set(float64(advanced))
}

// ObserveOperation фиксирует длительность операции жизненного цикла.
func (m *LifecycleMetrics) ObserveOperation(operation string, elapsed time.Duration) {
	if m == nil {
		return
	}
	m.opDuration.WithLabelValues(operation).Observe(elapsed.Seconds())
}
