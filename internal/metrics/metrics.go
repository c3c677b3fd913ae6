// Package metrics holds the Prometheus collectors for an aggregation run.
package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// Skip reasons used as the "reason" label.
const (
	ReasonMalformed      = "malformed"
	ReasonMissingInfo    = "missing_info"
	ReasonMissingInnings = "missing_innings"
	ReasonUnreadable     = "unreadable"
)

// Metrics bundles the run collectors on a dedicated registry.
type Metrics struct {
	Registry         *prometheus.Registry
	MatchesProcessed prometheus.Counter
	MatchesSkipped   *prometheus.CounterVec
	InningsSkipped   prometheus.Counter
	DeliveriesTotal  prometheus.Counter
	PlayerSeasonKeys prometheus.Gauge
	RunDuration      prometheus.Histogram
}

// New constructs and registers all collectors.
func New() *Metrics {
	registry := prometheus.NewRegistry()

	processed := prometheus.NewCounter(prometheus.CounterOpts{
		Name: "cricmetrics_matches_processed_total",
		Help: "Matches folded into the accumulator.",
	})
	skipped := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "cricmetrics_matches_skipped_total",
		Help: "Archive entries skipped, by reason.",
	}, []string{"reason"})
	innings := prometheus.NewCounter(prometheus.CounterOpts{
		Name: "cricmetrics_innings_skipped_total",
		Help: "Innings dropped for lacking an overs list.",
	})
	deliveries := prometheus.NewCounter(prometheus.CounterOpts{
		Name: "cricmetrics_deliveries_total",
		Help: "Deliveries classified.",
	})
	keys := prometheus.NewGauge(prometheus.GaugeOpts{
		Name: "cricmetrics_player_season_keys",
		Help: "Distinct (season, player) records after the run.",
	})
	duration := prometheus.NewHistogram(prometheus.HistogramOpts{
		Name:    "cricmetrics_run_duration_seconds",
		Help:    "Wall time of a full aggregation run.",
		Buckets: prometheus.ExponentialBuckets(0.1, 2, 12),
	})

	registry.MustRegister(processed, skipped, innings, deliveries, keys, duration)

	return &Metrics{
		Registry:         registry,
		MatchesProcessed: processed,
		MatchesSkipped:   skipped,
		InningsSkipped:   innings,
		DeliveriesTotal:  deliveries,
		PlayerSeasonKeys: keys,
		RunDuration:      duration,
	}
}

// MatchProcessed records one folded match.
func (m *Metrics) MatchProcessed(deliveries, skippedInnings int) {
	if m == nil {
		return
	}
	m.MatchesProcessed.Inc()
	m.DeliveriesTotal.Add(float64(deliveries))
	m.InningsSkipped.Add(float64(skippedInnings))
}

// MatchSkipped records one skipped entry.
func (m *Metrics) MatchSkipped(reason string) {
	if m == nil {
		return
	}
	m.MatchesSkipped.WithLabelValues(reason).Inc()
}

// RunFinished records the final key count and the run duration.
func (m *Metrics) RunFinished(keys int, d time.Duration) {
	if m == nil {
		return
	}
	m.PlayerSeasonKeys.Set(float64(keys))
	m.RunDuration.Observe(d.Seconds())
}

// WriteTextfile writes the registry in the node-exporter textfile format.
func (m *Metrics) WriteTextfile(path string) error {
	return prometheus.WriteToTextfile(path, m.Registry)
}
