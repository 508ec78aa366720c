// Package metrics records run metrics for the digest pipeline in a private
// Prometheus registry that can be dumped as a node-exporter textfile.
package metrics

import (
	"fmt"
	"time"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/deusflow/newsdigest/internal/news"
)

const namespace = "newsdigest"

// Stage names used for the duration histogram.
const (
	StageSearch    = "search"
	StageRelevance = "relevance"
	StageExtract   = "extract"
	StageSummarize = "summarize"
	StageDedup     = "dedup"
)

// Metrics is safe to use as a nil pointer; every method is then a no-op.
type Metrics struct {
	registry *prometheus.Registry

	itemsFetched   prometheus.Counter
	itemsProcessed prometheus.Counter
	itemsSkipped   *prometheus.CounterVec
	summaries      *prometheus.CounterVec
	stageDuration  *prometheus.HistogramVec
	lastRun        prometheus.Gauge
	lastRunSuccess prometheus.Gauge
}

func New() *Metrics {
	m := &Metrics{
		registry: prometheus.NewRegistry(),
		itemsFetched: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "items_fetched_total",
			Help:      "Search results inside the lookback window",
		}),
		itemsProcessed: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "items_processed_total",
			Help:      "Articles rendered into the report",
		}),
		itemsSkipped: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "items_skipped_total",
			Help:      "Search results left out of the report",
		}, []string{"reason"}),
		summaries: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "summaries_total",
			Help:      "Summaries produced, by status",
		}, []string{"status"}),
		stageDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "stage_duration_seconds",
			Help:      "Duration of pipeline stage calls",
			Buckets:   []float64{0.1, 0.5, 1, 2.5, 5, 10, 30, 60, 120},
		}, []string{"stage"}),
		lastRun: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "last_run_timestamp_seconds",
			Help:      "Unix time the last run finished",
		}),
		lastRunSuccess: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "last_run_success",
			Help:      "1 if the last run produced a report, 0 otherwise",
		}),
	}

	m.registry.MustRegister(
		m.itemsFetched,
		m.itemsProcessed,
		m.itemsSkipped,
		m.summaries,
		m.stageDuration,
		m.lastRun,
		m.lastRunSuccess,
	)
	return m
}

// Registry exposes the underlying registry, mostly for tests.
func (m *Metrics) Registry() *prometheus.Registry {
	if m == nil {
		return nil
	}
	return m.registry
}

func (m *Metrics) AddFetched(n int) {
	if m == nil || n <= 0 {
		return
	}
	m.itemsFetched.Add(float64(n))
}

func (m *Metrics) IncrementProcessed() {
	if m == nil {
		return
	}
	m.itemsProcessed.Inc()
}

func (m *Metrics) IncrementSkipped(reason news.SkipReason) {
	if m == nil {
		return
	}
	m.itemsSkipped.WithLabelValues(string(reason)).Inc()
}

func (m *Metrics) RecordSummary(status news.SummaryStatus) {
	if m == nil {
		return
	}
	m.summaries.WithLabelValues(string(status)).Inc()
}

// ObserveStage records how long a stage call took since start.
func (m *Metrics) ObserveStage(stage string, start time.Time) {
	if m == nil {
		return
	}
	m.stageDuration.WithLabelValues(stage).Observe(time.Since(start).Seconds())
}

// SetLastRun stamps the end of a run and whether it succeeded.
func (m *Metrics) SetLastRun(success bool) {
	if m == nil {
		return
	}
	m.lastRun.SetToCurrentTime()
	if success {
		m.lastRunSuccess.Set(1)
	} else {
		m.lastRunSuccess.Set(0)
	}
}

// WriteTextfile writes every metric to path in the text exposition format.
// The write is atomic.
func (m *Metrics) WriteTextfile(path string) error {
	if m == nil || path == "" {
		return nil
	}
	if err := prometheus.WriteToTextfile(path, m.registry); err != nil {
		return fmt.Errorf("write metrics textfile: %w", err)
	}
	return nil
}
