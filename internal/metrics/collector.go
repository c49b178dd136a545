// Package metrics exposes Prometheus instrumentation for request
// execution and credential refresh.
package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/testutil"
)

// Collector manages the Prometheus metrics for a running client.
type Collector struct {
	requestDuration    *prometheus.HistogramVec
	requestBytes       *prometheus.CounterVec
	chunkCount         *prometheus.CounterVec
	credentialRefresh  *prometheus.CounterVec
	lastRequestSeconds *prometheus.GaugeVec
}

// NewCollector registers and returns a new Collector against the default
// Prometheus registry.
func NewCollector() *Collector {
	return NewCollectorWithRegisterer(prometheus.DefaultRegisterer)
}

// NewCollectorWithRegisterer registers a Collector against reg. This is
// provided for testing — pass prometheus.NewRegistry() to get an isolated
// registry, avoiding duplicate-registration panics across test cases.
func NewCollectorWithRegisterer(reg prometheus.Registerer) *Collector {
	factory := promauto.With(reg)
	return &Collector{
		requestDuration: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "synth_request_duration_seconds",
				Help:    "Duration of signed S3 requests by command and outcome",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"command", "status"},
		),
		requestBytes: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "synth_request_bytes_total",
				Help: "Total bytes transferred per command and direction",
			},
			[]string{"command", "direction"},
		),
		chunkCount: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "synth_chunk_count_total",
				Help: "Total number of streaming-upload chunks emitted per command",
			},
			[]string{"command"},
		),
		credentialRefresh: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "synth_credential_refresh_total",
				Help: "Total credential refresh attempts by provider and result",
			},
			[]string{"provider", "result"},
		),
		lastRequestSeconds: factory.NewGaugeVec(
			prometheus.GaugeOpts{
				Name: "synth_last_request_duration_seconds",
				Help: "Duration of the most recent request by command (live value)",
			},
			[]string{"command"},
		),
	}
}

// RecordRequest records one signed-request execution.
func (c *Collector) RecordRequest(command string, duration time.Duration, success bool) {
	status := "success"
	if !success {
		status = "failure"
	}
	c.requestDuration.WithLabelValues(command, status).Observe(duration.Seconds())
	c.lastRequestSeconds.WithLabelValues(command).Set(duration.Seconds())
}

// RecordBytes records bytes moved in a given direction ("up" or "down").
func (c *Collector) RecordBytes(command, direction string, n int64) {
	if n <= 0 {
		return
	}
	c.requestBytes.WithLabelValues(command, direction).Add(float64(n))
}

// RecordChunks records how many streaming-upload chunks a command emitted.
func (c *Collector) RecordChunks(command string, n int) {
	if n <= 0 {
		return
	}
	c.chunkCount.WithLabelValues(command).Add(float64(n))
}

// RecordCredentialRefresh records a credential refresh attempt.
func (c *Collector) RecordCredentialRefresh(provider string, success bool) {
	result := "success"
	if !success {
		result = "failure"
	}
	c.credentialRefresh.WithLabelValues(provider, result).Inc()
}

// CredentialRefreshCount returns the current count for a (provider, result)
// pair, for assertions in callers that hold a Collector but not its
// underlying registry.
func (c *Collector) CredentialRefreshCount(provider string, success bool) float64 {
	result := "success"
	if !success {
		result = "failure"
	}
	return testutil.ToFloat64(c.credentialRefresh.WithLabelValues(provider, result))
}
