package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Статусы вызовов
const (
	StatusOK    = "ok"
	StatusError = "error"
)

// Metrics: коллекторы чат-бота. Методы безопасно вызывать на nil.
type Metrics struct {
	requests           *prometheus.CounterVec
	requestDuration    prometheus.Histogram
	providerCalls      *prometheus.CounterVec
	retrievedDocuments prometheus.Histogram
	referencedProducts prometheus.Counter
}

// New регистрирует коллекторы в reg. В приложении это prometheus.DefaultRegisterer,
// в тестах: отдельный prometheus.NewRegistry().
func New(reg prometheus.Registerer) *Metrics {
	f := promauto.With(reg)

	return &Metrics{
		requests: f.NewCounterVec(
			prometheus.CounterOpts{
				Name: "chatbot_requests_total",
				Help: "Total number of chatbot requests by outcome",
			},
			[]string{"status"},
		),
		requestDuration: f.NewHistogram(
			prometheus.HistogramOpts{
				Name:    "chatbot_request_duration_seconds",
				Help:    "Duration of chatbot request processing in seconds",
				Buckets: []float64{0.25, 0.5, 1, 2.5, 5, 10, 20, 40, 60},
			},
		),
		providerCalls: f.NewCounterVec(
			prometheus.CounterOpts{
				Name: "chatbot_provider_calls_total",
				Help: "Total number of embedding and language model provider calls",
			},
			[]string{"provider", "op", "status"},
		),
		retrievedDocuments: f.NewHistogram(
			prometheus.HistogramOpts{
				Name:    "chatbot_retrieved_documents",
				Help:    "Number of documents passed to the language model per request",
				Buckets: prometheus.LinearBuckets(0, 1, 9),
			},
		),
		referencedProducts: f.NewCounter(
			prometheus.CounterOpts{
				Name: "chatbot_referenced_products_total",
				Help: "Total number of catalog products referenced in answers",
			},
		),
	}
}

func (m *Metrics) ObserveRequest(status string, d time.Duration) {
	if m == nil {
		return
	}
	m.requests.WithLabelValues(status).Inc()
	m.requestDuration.Observe(d.Seconds())
}

func (m *Metrics) ObserveProviderCall(provider, op, status string) {
	if m == nil {
		return
	}
	m.providerCalls.WithLabelValues(provider, op, status).Inc()
}

func (m *Metrics) ObserveRetrievedDocuments(n int) {
	if m == nil {
		return
	}
	m.retrievedDocuments.Observe(float64(n))
}

func (m *Metrics) AddReferencedProducts(n int) {
	if m == nil {
		return
	}
	m.referencedProducts.Add(float64(n))
}
