// Package metrics defines prometheus collectors for the hotspot pipeline.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
)

// PipelineMetrics tracks poll, fetch and notification outcomes.
type PipelineMetrics struct {
	PollsTotal         *prometheus.CounterVec
	FetchErrorsTotal   *prometheus.CounterVec
	RecordsFetched     *prometheus.CounterVec
	DetectionsCurrent  prometheus.Gauge
	NovelDetections    prometheus.Counter
	NotificationsTotal *prometheus.CounterVec
	PollDuration       prometheus.Histogram
}

// NewPipelineMetrics creates and registers the pipeline collectors.
func NewPipelineMetrics(reg prometheus.Registerer) *PipelineMetrics {
	m := &PipelineMetrics{
		PollsTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "firewatch_polls_total",
			Help: "Number of poll invocations by result (completed, skipped, failed).",
		}, []string{"result"}),
		FetchErrorsTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "firewatch_fetch_errors_total",
			Help: "Number of upstream fetch failures by source.",
		}, []string{"source"}),
		RecordsFetched: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "firewatch_records_fetched_total",
			Help: "Number of raw records fetched by source.",
		}, []string{"source"}),
		DetectionsCurrent: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "firewatch_detections_current",
			Help: "Detections in the latest poll after filtering and dedup.",
		}),
		NovelDetections: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "firewatch_novel_detections_total",
			Help: "Detections that were new relative to the preceding poll.",
		}),
		NotificationsTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "firewatch_notifications_total",
			Help: "Notification delivery attempts by outcome (sent, failed).",
		}, []string{"outcome"}),
		PollDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Name:    "firewatch_poll_duration_seconds",
			Help:    "Wall-clock duration of complete poll invocations.",
			Buckets: prometheus.DefBuckets,
		}),
	}

	if reg != nil {
		reg.MustRegister(
			m.PollsTotal,
			m.FetchErrorsTotal,
			m.RecordsFetched,
			m.DetectionsCurrent,
			m.NovelDetections,
			m.NotificationsTotal,
			m.PollDuration,
		)
	}
	return m
}
