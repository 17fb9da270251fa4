// Package prompush implements a Prometheus Pushgateway backend for the
// metrics package.
//
// It maps the pipeline's metric names onto client_golang collectors and
// pushes the whole registry to a Pushgateway on Flush, rather than exposing
// a scrape endpoint; the pipeline is a batch job and is usually gone before
// a scraper would come around. All Prometheus-specific dependencies stay in
// this package so the rest of the program only sees metrics.Backend.
package prompush

import (
	"fmt"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/push"

	"salespipe/internal/metrics"
)

// Backend is a Prometheus Pushgateway metrics backend.
type Backend struct {
	gatewayURL string
	jobName    string // Pushgateway "job" grouping key
	reg        *prometheus.Registry

	stepCounter   *prometheus.CounterVec // salespipe_step_total
	stepDuration  *prometheus.SummaryVec // salespipe_step_duration_seconds
	recordCounter *prometheus.CounterVec // salespipe_records_total
	reportCounter prometheus.Counter     // salespipe_reports_total
}

// NewBackend constructs a Pushgateway backend. jobName doubles as the
// Pushgateway job grouping key; gatewayURL is the base URL of the gateway.
func NewBackend(jobName, gatewayURL string) (*Backend, error) {
	if gatewayURL == "" {
		return nil, fmt.Errorf("prompush: gateway URL is required")
	}
	if jobName == "" {
		jobName = "salespipe"
	}

	reg := prometheus.NewRegistry()

	stepCounter := prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "salespipe_step_total",
			Help: "Total pipeline step executions, partitioned by step and status.",
		},
		[]string{"step", "status"},
	)
	stepDuration := prometheus.NewSummaryVec(
		prometheus.SummaryOpts{
			Name:       "salespipe_step_duration_seconds",
			Help:       "Duration of pipeline steps in seconds, partitioned by step and status.",
			Objectives: map[float64]float64{0.5: 0.05, 0.9: 0.01, 0.99: 0.001},
		},
		[]string{"step", "status"},
	)
	recordCounter := prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "salespipe_records_total",
			Help: "Record-level counts per kind (parsed, rejected, loaded, result_rows).",
		},
		[]string{"kind"},
	)
	reportCounter := prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "salespipe_reports_total",
			Help: "Total report tables evaluated in this run.",
		},
	)

	for _, c := range []prometheus.Collector{stepCounter, stepDuration, recordCounter, reportCounter} {
		if err := reg.Register(c); err != nil {
			return nil, fmt.Errorf("prompush: register: %w", err)
		}
	}

	return &Backend{
		gatewayURL:    gatewayURL,
		jobName:       jobName,
		reg:           reg,
		stepCounter:   stepCounter,
		stepDuration:  stepDuration,
		recordCounter: recordCounter,
		reportCounter: reportCounter,
	}, nil
}

// IncCounter implements metrics.Backend.
func (b *Backend) IncCounter(name string, delta float64, labels metrics.Labels) {
	switch name {
	case "salespipe_step_total":
		if b.stepCounter != nil {
			b.stepCounter.WithLabelValues(labels["step"], labels["status"]).Add(delta)
		}
	case "salespipe_records_total":
		if b.recordCounter != nil {
			b.recordCounter.WithLabelValues(labels["kind"]).Add(delta)
		}
	case "salespipe_reports_total":
		if b.reportCounter != nil {
			b.reportCounter.Add(delta)
		}
	default:
		// unknown metric name: ignore
	}
}

// ObserveHistogram implements metrics.Backend.
func (b *Backend) ObserveHistogram(name string, value float64, labels metrics.Labels) {
	if name != "salespipe_step_duration_seconds" || b.stepDuration == nil {
		return
	}
	b.stepDuration.WithLabelValues(labels["step"], labels["status"]).Observe(value)
}

// Flush pushes the current registry to the Pushgateway.
func (b *Backend) Flush() error {
	return push.New(b.gatewayURL, b.jobName).
		Gatherer(b.reg).
		Push()
}
