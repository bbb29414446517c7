// Package metrics exposes Prometheus collectors for the upload and save paths.
//
// Every Recorder owns its registry, so tests and multiple servers in one
// process never collide on the default registerer.
package metrics

import (
	"fmt"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Outcome labels
const (
	OutcomeOK          = "ok"
	OutcomeBadInput    = "bad_input"
	OutcomeUnavailable = "storage_unavailable"
	OutcomeInternal    = "internal"
	OutcomeTimeout     = "timeout"
)

// Recorder collects modelcard metrics.
type Recorder struct {
	reg *prometheus.Registry

	uploads       *prometheus.CounterVec // "modelcard_uploads_total"
	records       prometheus.Counter     // "modelcard_records_total"
	saves         *prometheus.CounterVec // "modelcard_saves_total"
	parseDuration *prometheus.HistogramVec
}

// NewRecorder registers the collectors on a fresh registry, together with the
// Go runtime and process collectors.
func NewRecorder() (*Recorder, error) {
	reg := prometheus.NewRegistry()

	uploads := prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "modelcard_uploads_total",
			Help: "Spreadsheet uploads, partitioned by outcome.",
		},
		[]string{"outcome"},
	)
	records := prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "modelcard_records_total",
			Help: "Records returned by successful uploads.",
		},
	)
	saves := prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "modelcard_saves_total",
			Help: "Model card saves, partitioned by outcome.",
		},
		[]string{"outcome"},
	)
	parseDuration := prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "modelcard_parse_duration_seconds",
			Help:    "Time spent parsing an uploaded spreadsheet, partitioned by format.",
			Buckets: prometheus.ExponentialBuckets(0.005, 4, 8),
		},
		[]string{"format"},
	)

	for name, c := range map[string]prometheus.Collector{
		"uploads":        uploads,
		"records":        records,
		"saves":          saves,
		"parse duration": parseDuration,
		"go runtime":     collectors.NewGoCollector(),
		"process":        collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	} {
		if err := reg.Register(c); err != nil {
			return nil, fmt.Errorf("metrics: register %s collector: %w", name, err)
		}
	}

	return &Recorder{
		reg:           reg,
		uploads:       uploads,
		records:       records,
		saves:         saves,
		parseDuration: parseDuration,
	}, nil
}

// Upload counts one upload. records is added only for successful uploads.
func (r *Recorder) Upload(outcome string, records int) {
	if r == nil {
		return
	}
	r.uploads.WithLabelValues(outcome).Inc()
	if outcome == OutcomeOK {
		r.records.Add(float64(records))
	}
}

// Save counts one save attempt.
func (r *Recorder) Save(outcome string) {
	if r == nil {
		return
	}
	r.saves.WithLabelValues(outcome).Inc()
}

// ObserveParse records how long parsing a file of format took.
func (r *Recorder) ObserveParse(format string, elapsed time.Duration) {
	if r == nil {
		return
	}
	r.parseDuration.WithLabelValues(format).Observe(elapsed.Seconds())
}

// Handler serves the registry in the Prometheus exposition format.
func (r *Recorder) Handler() http.Handler {
	return promhttp.HandlerFor(r.reg, promhttp.HandlerOpts{Registry: r.reg})
}
