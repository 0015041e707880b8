// Package metrics registers the Prometheus collectors exposed on /metrics.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	Interactions = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "website",
		Name:      "agent_interactions_total",
		Help:      "Agent router turns by page and outcome.",
	}, []string{"page", "outcome"})

	Leads = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: "website",
		Name:      "leads_total",
		Help:      "Lead records created from contact-page turns.",
	})

	LeadScore = promauto.NewHistogram(prometheus.HistogramOpts{
		Namespace: "website",
		Name:      "lead_qualification_score",
		Help:      "Distribution of lead qualification scores.",
		Buckets:   prometheus.LinearBuckets(0, 1, 11),
	})

	Submissions = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "website",
		Name:      "intake_submissions_total",
		Help:      "Intake submissions by mailbox and email delivery result.",
	}, []string{"mailbox", "email_sent"})

	ChatIntents = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "website",
		Name:      "chat_intents_total",
		Help:      "Chat messages by matched intent.",
	}, []string{"intent"})

	VendorCalls = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "website",
		Name:      "vendor_calls_total",
		Help:      "Outbound vendor calls by vendor and result.",
	}, []string{"vendor", "result"})

	TTSCache = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "website",
		Name:      "tts_cache_lookups_total",
		Help:      "Synthesized audio cache lookups.",
	}, []string{"result"})

	RateLimited = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "website",
		Name:      "rate_limited_total",
		Help:      "Requests rejected by the rate limiter.",
	}, []string{"route"})

	RequestDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: "website",
		Name:      "http_request_duration_seconds",
		Help:      "HTTP request latency.",
		Buckets:   prometheus.DefBuckets,
	}, []string{"method", "route", "status"})
)

func VendorResult(vendor string, err error) {
	result := "ok"
	if err != nil {
		result = "error"
	}
	VendorCalls.WithLabelValues(vendor, result).Inc()
}
