package runtime

import (
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

const (
	statusSuccess = "success"
	statusError   = "error"
)

// processingTimeBuckets are in seconds.
var processingTimeBuckets = []float64{0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 100}

// Metrics holds the collectors the pipeline writes to. A nil *Metrics
// records nothing.
type Metrics struct {
	mu sync.Mutex

	processedMessages *prometheus.CounterVec
	processingTime    prometheus.Histogram
	publishedEvents   *prometheus.CounterVec

	registerer prometheus.Registerer
	registered bool
}

// NewMetrics creates the pipeline collectors. Call Register before use.
func NewMetrics(registerer prometheus.Registerer) *Metrics {
	if registerer == nil {
		registerer = prometheus.NewRegistry()
	}

	return &Metrics{
		registerer: registerer,
		processedMessages: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "processed_messages",
				Help: "Processed Messages",
			},
			[]string{"status"},
		),
		processingTime: prometheus.NewHistogram(prometheus.HistogramOpts{
			Name:    "processing_time",
			Help:    "Event Processing Times",
			Buckets: processingTimeBuckets,
		}),
		publishedEvents: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "published_events",
				Help: "Events published to the output topic",
			},
			[]string{"type"},
		),
	}
}

// Register registers the Prometheus collectors. Safe to call multiple times.
func (m *Metrics) Register() error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.registered {
		return nil
	}

	for _, c := range []prometheus.Collector{m.processedMessages, m.processingTime, m.publishedEvents} {
		if err := m.registerer.Register(c); err != nil {
			if _, ok := err.(prometheus.AlreadyRegisteredError); !ok {
				return err
			}
		}
	}

	// Expose both outcomes from the start.
	m.processedMessages.WithLabelValues(statusSuccess)
	m.processedMessages.WithLabelValues(statusError)

	m.registered = true
	return nil
}

// ObserveMessage records one handled message.
func (m *Metrics) ObserveMessage(status string, elapsed time.Duration) {
	if m == nil {
		return
	}
	m.processedMessages.WithLabelValues(status).Inc()
	m.processingTime.Observe(elapsed.Seconds())
}

// EventPublished counts one event written to Kafka.
func (m *Metrics) EventPublished(eventType EventType) {
	if m == nil {
		return
	}
	m.publishedEvents.WithLabelValues(string(eventType)).Inc()
}
