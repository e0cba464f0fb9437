package provisioning

import (
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// runMetrics is shared by a MetricsObserver and every observer derived from
// it with WithFields.
type runMetrics struct {
	registry *prometheus.Registry

	resourceEvents *prometheus.CounterVec
	phaseDuration  *prometheus.GaugeVec
	phasesTotal    *prometheus.CounterVec

	mu      sync.Mutex
	started map[string]time.Time
}

// MetricsObserver decorates an Observer and records resource events and
// phase durations of a single run in a private registry.
type MetricsObserver struct {
	Observer
	network string
	metrics *runMetrics
}

// NewMetricsObserver wraps inner. Every series is labelled with network.
func NewMetricsObserver(inner Observer, network string) *MetricsObserver {
	m := &runMetrics{
		registry: prometheus.NewRegistry(),
		resourceEvents: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: "vpcctl",
				Subsystem: "provisioning",
				Name:      "resource_events_total",
				Help:      "Resource events emitted during the run by event type and resource kind",
			},
			[]string{"network", "event", "kind"},
		),
		phaseDuration: prometheus.NewGaugeVec(
			prometheus.GaugeOpts{
				Namespace: "vpcctl",
				Subsystem: "provisioning",
				Name:      "phase_duration_seconds",
				Help:      "Wall clock duration of each phase of the run",
			},
			[]string{"network", "phase"},
		),
		phasesTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: "vpcctl",
				Subsystem: "provisioning",
				Name:      "phases_total",
				Help:      "Finished phases by result",
			},
			[]string{"network", "phase", "result"},
		),
		started: make(map[string]time.Time),
	}
	m.registry.MustRegister(m.resourceEvents, m.phaseDuration, m.phasesTotal)

	return &MetricsObserver{Observer: inner, network: network, metrics: m}
}

// Event records the event and forwards it.
func (o *MetricsObserver) Event(event Event) {
	o.record(event)
	o.Observer.Event(event)
}

// WithFields implements Observer. The derived observer shares the metrics.
func (o *MetricsObserver) WithFields(fields map[string]string) Observer {
	return &MetricsObserver{
		Observer: o.Observer.WithFields(fields),
		network:  o.network,
		metrics:  o.metrics,
	}
}

// Registry exposes the run's registry.
func (o *MetricsObserver) Registry() *prometheus.Registry {
	return o.metrics.registry
}

// WriteTextfile writes the collected metrics in the text exposition format,
// suitable for the node exporter textfile collector.
func (o *MetricsObserver) WriteTextfile(path string) error {
	return prometheus.WriteToTextfile(path, o.metrics.registry)
}

func (o *MetricsObserver) record(event Event) {
	m := o.metrics
	switch event.Type {
	case EventPhaseStarted:
		m.mu.Lock()
		m.started[event.Phase] = time.Now()
		m.mu.Unlock()
	case EventPhaseCompleted:
		o.finishPhase(event.Phase, "success")
	case EventPhaseFailed:
		o.finishPhase(event.Phase, "failure")
	case EventResourceCreated, EventResourceExists, EventResourceFailed, EventResourceDeleted:
		m.resourceEvents.WithLabelValues(o.network, string(event.Type), event.Fields["type"]).Inc()
	}
}

func (o *MetricsObserver) finishPhase(phase, result string) {
	m := o.metrics
	m.mu.Lock()
	start, ok := m.started[phase]
	delete(m.started, phase)
	m.mu.Unlock()

	if ok {
		m.phaseDuration.WithLabelValues(o.network, phase).Set(time.Since(start).Seconds())
	}
	m.phasesTotal.WithLabelValues(o.network, phase, result).Inc()
}
