package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

const (
	// OriginLive labels entities obtained from an abuse.ch feed.
	OriginLive = "live"
	// OriginSynthetic labels entities produced by the heuristic generator.
	OriginSynthetic = "synthetic"
)

var (
	ingestedTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "vayu_intel",
			Name:      "ingested_total",
			Help:      "Total number of canonical entities ingested, partitioned by source tag.",
		},
		[]string{"source"},
	)

	fetchDurationSeconds = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "vayu_intel",
			Name:      "fetch_seconds",
			Help:      "Aggregator fetch latency in seconds, partitioned by entity origin.",
			Buckets:   []float64{0.05, 0.1, 0.25, 0.5, 1, 2, 5, 10},
		},
		[]string{"origin"},
	)

	criticalAlertsTotal = prometheus.NewCounter(
		prometheus.CounterOpts{
			Namespace: "vayu_intel",
			Name:      "critical_alerts_total",
			Help:      "Tactical alerts triggered by critical-severity ingestions.",
		},
	)

	forensicReportsTotal = prometheus.NewCounter(
		prometheus.CounterOpts{
			Namespace: "vayu_intel",
			Name:      "forensic_reports_total",
			Help:      "Forensic reports rendered for focused entities.",
		},
	)
)

// Register attaches vayu-intel collectors to the supplied Prometheus registerer.
func Register(reg prometheus.Registerer) error {
	collectors := []prometheus.Collector{
		ingestedTotal,
		fetchDurationSeconds,
		criticalAlertsTotal,
		forensicReportsTotal,
	}

	for _, collector := range collectors {
		if err := reg.Register(collector); err != nil {
			if _, ok := err.(prometheus.AlreadyRegisteredError); ok {
				continue
			}
			return err
		}
	}
	return nil
}

// ObserveIngestion records one ingested entity under its source tag.
func ObserveIngestion(source string) {
	ingestedTotal.WithLabelValues(source).Inc()
}

// ObserveFetch records an aggregator fetch duration and origin label.
func ObserveFetch(duration time.Duration, origin string) {
	if origin != OriginSynthetic {
		origin = OriginLive
	}
	if duration < 0 {
		duration = 0
	}
	fetchDurationSeconds.WithLabelValues(origin).Observe(duration.Seconds())
}

// RecordCriticalAlert counts a tactical-alert trigger.
func RecordCriticalAlert() {
	criticalAlertsTotal.Inc()
}

// RecordForensicReport counts a rendered report.
func RecordForensicReport() {
	forensicReportsTotal.Inc()
}
