package server

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Collector gathers the Prometheus metrics of the API surface.
type Collector struct {
	turnOutcomes    *prometheus.CounterVec
	parseFailures   prometheus.Counter
	incomeCommits   prometheus.Counter
	requestDuration *prometheus.HistogramVec
}

// NewCollector creates a Collector and registers its metrics.
func NewCollector(reg prometheus.Registerer) *Collector {
	c := &Collector{
		turnOutcomes: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "penny_assistant_turns_total",
			Help: "Assistant turns by outcome status.",
		}, []string{"status"}),
		parseFailures: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "penny_llm_parse_failures_total",
			Help: "LLM replies that could not be parsed.",
		}),
		incomeCommits: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "penny_income_commits_total",
			Help: "Income records committed through the assistant.",
		}),
		requestDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "penny_http_request_duration_seconds",
			Help:    "HTTP request latency by route pattern.",
			Buckets: prometheus.DefBuckets,
		}, []string{"route"}),
	}

	reg.MustRegister(c.turnOutcomes, c.parseFailures, c.incomeCommits, c.requestDuration)
	return c
}

// RecordTurn counts one assistant turn by its outcome status.
func (c *Collector) RecordTurn(status string) {
	c.turnOutcomes.WithLabelValues(status).Inc()
}

// RecordParseFailure counts one unparseable LLM reply.
func (c *Collector) RecordParseFailure() {
	c.parseFailures.Inc()
}

// RecordIncomeCommit counts one committed income.
func (c *Collector) RecordIncomeCommit() {
	c.incomeCommits.Inc()
}

// RecordRequest observes the latency of one HTTP request.
func (c *Collector) RecordRequest(route string, duration time.Duration) {
	c.requestDuration.WithLabelValues(route).Observe(duration.Seconds())
}

// MetricsHandler serves the registry in the Prometheus text format.
func MetricsHandler(reg *prometheus.Registry) http.Handler {
	return promhttp.HandlerFor(reg, promhttp.HandlerOpts{})
}
