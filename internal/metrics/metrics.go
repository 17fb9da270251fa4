// Package metrics provides a small, backend-agnostic abstraction for
// recording operational metrics from the sales pipeline.
//
// It exposes a narrow Backend interface (counters and timing observations)
// behind a global, pluggable backend that defaults to a no-op, so metric
// calls are always safe even when nothing is configured. Concrete systems
// (Prometheus Pushgateway, Datadog) live in subpackages and register via
// SetBackend, keeping the pipeline itself decoupled from any one vendor.
package metrics

import "time"

// Labels are string key/value pairs attached to a metric.
type Labels map[string]string

// Backend is the minimal interface implemented by metrics backends.
type Backend interface {
	// IncCounter increments a counter by delta.
	IncCounter(name string, delta float64, labels Labels)
	// ObserveHistogram records a duration-style observation.
	ObserveHistogram(name string, value float64, labels Labels)
	// Flush pushes buffered metrics if the backend needs it.
	Flush() error
}

type nopBackend struct{}

func (nopBackend) IncCounter(string, float64, Labels)       {}
func (nopBackend) ObserveHistogram(string, float64, Labels) {}
func (nopBackend) Flush() error                             { return nil }

var backend Backend = nopBackend{}

// SetBackend installs a concrete backend. Passing nil keeps the current one.
func SetBackend(b Backend) {
	if b == nil {
		return
	}
	backend = b
}

// Flush delegates to the current backend.
func Flush() error { return backend.Flush() }

// RecordStep measures one pipeline stage: latency plus a success/failure
// counter. Steps include "parse", "load", "derive", "report:<name>", "sink".
func RecordStep(job, step string, err error, d time.Duration) {
	status := "success"
	if err != nil {
		status = "failure"
	}
	lbls := Labels{"job": job, "step": step, "status": status}
	backend.IncCounter("salespipe_step_total", 1, lbls)
	backend.ObserveHistogram("salespipe_step_duration_seconds", d.Seconds(), lbls)
}

// RecordRows increments a record-level counter for the given job and kind.
//
// Typical kinds mirror the run summary fields:
//   - "parsed"
//   - "parse_errors"
//   - "rejected"
//   - "loaded"
//   - "result_rows"
func RecordRows(job, kind string, delta int64) {
	if delta <= 0 {
		return
	}
	backend.IncCounter("salespipe_records_total", float64(delta), Labels{"job": job, "kind": kind})
}

// RecordReports counts evaluated report tables for the given job.
func RecordReports(job string, delta int64) {
	if delta <= 0 {
		return
	}
	backend.IncCounter("salespipe_reports_total", float64(delta), Labels{"job": job})
}
