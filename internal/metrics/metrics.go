// Package metrics provides Prometheus metrics for order processing runs.
//
// The tool never serves HTTP, so a Recorder owns its own registry and the
// collected values are written to a node_exporter style textfile at the end
// of a run.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Batch outcome label values.
const (
	StatusSuccess = "success"
	StatusEmpty   = "empty"
	StatusFatal   = "fatal"
)

// Recorder collects counters for a single process invocation.
type Recorder struct {
	registry *prometheus.Registry

	BatchesTotal       *prometheus.CounterVec
	OrdersTotal        *prometheus.CounterVec
	SkippedRecords     *prometheus.CounterVec
	SoftFailuresTotal  *prometheus.CounterVec
	URLsGeneratedTotal *prometheus.CounterVec
	NetAmountTotal     prometheus.Counter
}

// NewRecorder creates a Recorder backed by a fresh registry.
func NewRecorder() *Recorder {
	registry := prometheus.NewRegistry()
	factory := promauto.With(registry)

	return &Recorder{
		registry: registry,

		BatchesTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "tcgorders_batches_total",
				Help: "Total number of batches processed",
			},
			[]string{"mode", "status"},
		),

		OrdersTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "tcgorders_orders_total",
				Help: "Total number of order records produced",
			},
			[]string{"format", "store"},
		),

		SkippedRecords: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "tcgorders_skipped_records_total",
				Help: "Record blocks with too few columns for their format",
			},
			[]string{"format"},
		),

		SoftFailuresTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "tcgorders_soft_failures_total",
				Help: "Fields that fell back to their default value",
			},
			[]string{"field"},
		),

		URLsGeneratedTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "tcgorders_urls_generated_total",
				Help: "Order URLs generated, by identifier kind",
			},
			[]string{"kind"},
		),

		NetAmountTotal: factory.NewCounter(
			prometheus.CounterOpts{
				Name: "tcgorders_net_amount_dollars_total",
				Help: "Sum of absolute net amounts extracted",
			},
		),
	}
}

// WriteTextfile writes every collected metric to path in the text exposition
// format.
func (r *Recorder) WriteTextfile(path string) error {
	return prometheus.WriteToTextfile(path, r.registry)
}
