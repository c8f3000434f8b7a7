package metrics

import "github.com/prometheus/client_golang/prometheus"

// ContactMetrics exposes counters/histograms for the contact relay.
// Nothing in the relay reads these back; they exist for operators only.
type ContactMetrics struct {
	submissionsTotal *prometheus.CounterVec
	providerLatency  *prometheus.HistogramVec
	contentFetches   *prometheus.CounterVec
}

func NewContactMetrics(reg prometheus.Registerer) *ContactMetrics {
	m := &ContactMetrics{
		submissionsTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "mcm",
			Subsystem: "contact",
			Name:      "submissions_total",
			Help:      "Contact submissions by outcome",
		}, []string{"outcome"}),
		providerLatency: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: "mcm",
			Subsystem: "contact",
			Name:      "provider_send_seconds",
			Help:      "Latency of mail provider sends",
			Buckets:   prometheus.DefBuckets,
		}, []string{"provider", "status"}),
		contentFetches: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "mcm",
			Subsystem: "content",
			Name:      "fetch_total",
			Help:      "CMS document reads by document and cache result",
		}, []string{"document", "source"}),
	}
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	reg.MustRegister(m.submissionsTotal, m.providerLatency, m.contentFetches)
	return m
}

// ObserveSubmission counts one relay invocation by outcome
// (accepted, rejected_method, invalid_json, missing_fields, invalid_email,
// misconfigured, send_failed).
func (m *ContactMetrics) ObserveSubmission(outcome string) {
	if m == nil {
		return
	}
	m.submissionsTotal.WithLabelValues(outcome).Inc()
}

func (m *ContactMetrics) ObserveProviderSend(provider, status string, seconds float64) {
	if m == nil {
		return
	}
	m.providerLatency.WithLabelValues(provider, status).Observe(seconds)
}

// ObserveContentFetch counts a CMS read served from "cache" or "origin".
func (m *ContactMetrics) ObserveContentFetch(document, source string) {
	if m == nil {
		return
	}
	m.contentFetches.WithLabelValues(document, source).Inc()
}
