// Package prompush implements a Prometheus Pushgateway backend for the
// metrics package.
//
// This package adapts the generic metrics.Backend interface to Prometheus by:
//
//   - Using client_golang counter and summary collectors.
//   - Mapping the common ingestion labels (job, status, kind) onto
//     Prometheus labels.
//   - Pushing collected metrics to a Prometheus Pushgateway instance
//     instead of exposing an HTTP scrape endpoint, which suits short-lived
//     batch jobs.
//
// The package intentionally contains all Prometheus-specific dependencies
// so the rest of the project remains decoupled from Prometheus and can
// swap to alternative backends (e.g. Datadog) without changes to the
// reader core.
package prompush

import (
	"fmt"

	"formats/internal/metrics"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/push"
)

// Backend is a Prometheus Pushgateway metrics backend.
type Backend struct {
	gatewayURL string // e.g. http://pushgateway:9091
	jobName    string // Pushgateway "job" group
	reg        *prometheus.Registry

	splitCounter  *prometheus.CounterVec // "ingest_splits_total"
	splitDuration *prometheus.SummaryVec // "ingest_split_duration_seconds"
	recordCounter *prometheus.CounterVec // "ingest_records_total"
	batchCounter  prometheus.Counter     // "ingest_batches_total"
}

// NewBackend constructs a Prometheus Pushgateway backend.
// jobName: the Pushgateway "job" name (often same as the pipeline job).
// gatewayURL: base URL of the Pushgateway server.
func NewBackend(jobName, gatewayURL string) (*Backend, error) {
	if gatewayURL == "" {
		return nil, fmt.Errorf("prompush: gateway URL is required")
	}
	if jobName == "" {
		jobName = "ingest"
	}

	reg := prometheus.NewRegistry()

	// job is the Pushgateway grouping key; status and kind are dynamic.
	splitCounter := prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "ingest_splits_total",
			Help: "Total number of split reads, partitioned by status.",
		},
		[]string{"status"},
	)
	splitDuration := prometheus.NewSummaryVec(
		prometheus.SummaryOpts{
			Name:       "ingest_split_duration_seconds",
			Help:       "Duration of split reads in seconds, partitioned by status.",
			Objectives: map[float64]float64{0.5: 0.05, 0.9: 0.01, 0.99: 0.001},
		},
		[]string{"status"},
	)
	recordCounter := prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "ingest_records_total",
			Help: "Record-level counts per kind (read, assembled, assembly_errors, inserted, etc.).",
		},
		[]string{"kind"},
	)
	batchCounter := prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "ingest_batches_total",
			Help: "Total number of sink batches flushed for this job.",
		},
	)

	if err := reg.Register(splitCounter); err != nil {
		return nil, fmt.Errorf("prompush: register split counter: %w", err)
	}
	if err := reg.Register(splitDuration); err != nil {
		return nil, fmt.Errorf("prompush: register split summary: %w", err)
	}
	if err := reg.Register(recordCounter); err != nil {
		return nil, fmt.Errorf("prompush: register record counter: %w", err)
	}
	if err := reg.Register(batchCounter); err != nil {
		return nil, fmt.Errorf("prompush: register batch counter: %w", err)
	}

	return &Backend{
		gatewayURL:    gatewayURL,
		jobName:       jobName,
		reg:           reg,
		splitCounter:  splitCounter,
		splitDuration: splitDuration,
		recordCounter: recordCounter,
		batchCounter:  batchCounter,
	}, nil
}

func (b *Backend) IncCounter(name string, delta float64, labels metrics.Labels) {
	switch name {
	case "ingest_splits_total":
		if b.splitCounter == nil {
			return
		}
		b.splitCounter.WithLabelValues(labels["status"]).Add(delta)

	case "ingest_records_total":
		if b.recordCounter == nil {
			return
		}
		b.recordCounter.WithLabelValues(labels["kind"]).Add(delta)

	case "ingest_batches_total":
		if b.batchCounter == nil {
			return
		}
		b.batchCounter.Add(delta)

	default:
		// unknown metric name: ignore
	}
}

func (b *Backend) ObserveHistogram(name string, value float64, labels metrics.Labels) {
	if name != "ingest_split_duration_seconds" || b.splitDuration == nil {
		return
	}
	b.splitDuration.WithLabelValues(labels["status"]).Observe(value)
}

// Flush pushes the current registry to the Pushgateway.
func (b *Backend) Flush() error {
	return push.New(b.gatewayURL, b.jobName).
		Gatherer(b.reg).
		Push()
}
