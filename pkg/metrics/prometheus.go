package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Recorder implements domain.repository.Metrics using Prometheus.
type Recorder struct {
	pollsTotal    *prometheus.CounterVec
	pollErrors    *prometheus.CounterVec
	advisories    prometheus.Counter
	widgetsLive   prometheus.Gauge
	remoteErrors  *prometheus.CounterVec
	pollDuration  prometheus.Histogram
	recordsParsed *prometheus.CounterVec
}

// New creates a new Prometheus metrics recorder.
func New() *Recorder {
	return &Recorder{
		pollsTotal: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "wefn_polls_total",
				Help: "Total number of widget poll ticks by outcome",
			},
			[]string{"outcome"},
		),
		pollErrors: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "wefn_poll_errors_total",
				Help: "Total number of poll errors by kind",
			},
			[]string{"kind"},
		),
		advisories: promauto.NewCounter(
			prometheus.CounterOpts{
				Name: "wefn_advisories_total",
				Help: "Total number of provider advisories raised during polling",
			},
		),
		widgetsLive: promauto.NewGauge(
			prometheus.GaugeOpts{
				Name: "wefn_widgets_live",
				Help: "Number of widgets with an active polling timer",
			},
		),
		remoteErrors: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "wefn_remote_sync_errors_total",
				Help: "Total number of failed remote persistence calls by operation",
			},
			[]string{"op"},
		),
		pollDuration: promauto.NewHistogram(
			prometheus.HistogramOpts{
				Name:    "wefn_poll_duration_seconds",
				Help:    "Duration of a single poll tick in seconds",
				Buckets: prometheus.DefBuckets,
			},
		),
		recordsParsed: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "wefn_records_parsed_total",
				Help: "Total number of normalized records produced by shape",
			},
			[]string{"shape"},
		),
	}
}

// RecordPoll records a poll tick with its outcome.
func (r *Recorder) RecordPoll(outcome string) {
	r.pollsTotal.WithLabelValues(outcome).Inc()
}

// RecordPollError records a poll error occurrence.
func (r *Recorder) RecordPollError(kind string) {
	r.pollErrors.WithLabelValues(kind).Inc()
}

// RecordAdvisory records a provider advisory.
func (r *Recorder) RecordAdvisory() {
	r.advisories.Inc()
}

// SetWidgetsLive records the number of active polling timers.
func (r *Recorder) SetWidgetsLive(n int) {
	r.widgetsLive.Set(float64(n))
}

// RecordRemoteError records a failed remote persistence call.
func (r *Recorder) RecordRemoteError(op string) {
	r.remoteErrors.WithLabelValues(op).Inc()
}

// RecordPollDuration records poll tick latency in seconds.
func (r *Recorder) RecordPollDuration(seconds float64) {
	r.pollDuration.Observe(seconds)
}

// RecordRecordsParsed records the number of records a normalization produced.
func (r *Recorder) RecordRecordsParsed(shape string, n int) {
	r.recordsParsed.WithLabelValues(shape).Add(float64(n))
}
