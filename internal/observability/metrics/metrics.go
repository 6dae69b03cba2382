package metrics

import "github.com/prometheus/client_golang/prometheus"

// AssistantMetrics exposes counters/histograms for the reply pipeline.
type AssistantMetrics struct {
	repliesTotal      *prometheus.CounterVec
	completionLatency *prometheus.HistogramVec
	storeFetchLatency *prometheus.HistogramVec
	webhookRejected   *prometheus.CounterVec
}

func NewAssistantMetrics(reg prometheus.Registerer) *AssistantMetrics {
	m := &AssistantMetrics{
		repliesTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "kine",
			Subsystem: "assistant",
			Name:      "replies_total",
			Help:      "Replies sent to patients, by outcome",
		}, []string{"outcome"}),
		completionLatency: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: "kine",
			Subsystem: "assistant",
			Name:      "completion_seconds",
			Help:      "Latency of completion service calls",
			Buckets:   prometheus.DefBuckets,
		}, []string{"status"}),
		storeFetchLatency: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: "kine",
			Subsystem: "assistant",
			Name:      "store_fetch_seconds",
			Help:      "Latency of full record store reads",
			Buckets:   prometheus.DefBuckets,
		}, []string{"status"}),
		webhookRejected: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "kine",
			Subsystem: "assistant",
			Name:      "webhook_rejected_total",
			Help:      "Inbound webhooks refused before processing",
		}, []string{"reason"}),
	}
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	reg.MustRegister(m.repliesTotal, m.completionLatency, m.storeFetchLatency, m.webhookRejected)
	return m
}

func (m *AssistantMetrics) ObserveReply(outcome string) {
	if m == nil {
		return
	}
	m.repliesTotal.WithLabelValues(outcome).Inc()
}

func (m *AssistantMetrics) ObserveCompletion(seconds float64, err error) {
	if m == nil {
		return
	}
	m.completionLatency.WithLabelValues(status(err)).Observe(seconds)
}

func (m *AssistantMetrics) ObserveStoreFetch(seconds float64, err error) {
	if m == nil {
		return
	}
	m.storeFetchLatency.WithLabelValues(status(err)).Observe(seconds)
}

func (m *AssistantMetrics) ObserveRejected(reason string) {
	if m == nil {
		return
	}
	m.webhookRejected.WithLabelValues(reason).Inc()
}

func status(err error) string {
	if err != nil {
		return "error"
	}
	return "ok"
}
