package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
)

// HabitMetrics contains Prometheus metrics for habit tracking operations
type HabitMetrics struct {
	registry *prometheus.Registry

	entriesRecordedTotal *prometheus.CounterVec
	roundsStartedTotal   prometheus.Counter
	weightEntriesTotal   prometheus.Counter
	summaryDuration      prometheus.Histogram
}

// NewHabitMetrics creates and registers new habit tracking metrics
func NewHabitMetrics(registry *prometheus.Registry) (*HabitMetrics, error) {
	m := &HabitMetrics{registry: registry}
	m.initMetrics()
	if err := registry.Register(m); err != nil {
		return nil, err
	}
	return m, nil
}

func (m *HabitMetrics) initMetrics() {
	m.entriesRecordedTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "habit_entries_recorded_total",
			Help: "Total number of entry status writes",
		},
		[]string{"status"}, // EMPTY, HALF, DONE, OFF, TREAT, SICK
	)

	m.roundsStartedTotal = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "habit_rounds_started_total",
			Help: "Total number of rounds started",
		},
	)

	m.weightEntriesTotal = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "habit_weight_entries_total",
			Help: "Total number of weight entry writes",
		},
	)

	m.summaryDuration = prometheus.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "habit_completion_summary_duration_seconds",
			Help:    "Time taken to compute round completion summaries",
			Buckets: prometheus.DefBuckets,
		},
	)
}

func (m *HabitMetrics) getCollectors() []prometheus.Collector {
	return []prometheus.Collector{
		m.entriesRecordedTotal,
		m.roundsStartedTotal,
		m.weightEntriesTotal,
		m.summaryDuration,
	}
}

// Describe implements the Collector interface
func (m *HabitMetrics) Describe(ch chan<- *prometheus.Desc) {
	for _, collector := range m.getCollectors() {
		collector.Describe(ch)
	}
}

// Collect implements the Collector interface
func (m *HabitMetrics) Collect(ch chan<- prometheus.Metric) {
	for _, collector := range m.getCollectors() {
		collector.Collect(ch)
	}
}

// RecordEntryStatus records one entry status write
func (m *HabitMetrics) RecordEntryStatus(status string) {
	m.entriesRecordedTotal.WithLabelValues(status).Inc()
}

// RecordRoundStarted records one started round
func (m *HabitMetrics) RecordRoundStarted() {
	m.roundsStartedTotal.Inc()
}

// RecordWeightEntry records one weight entry write
func (m *HabitMetrics) RecordWeightEntry() {
	m.weightEntriesTotal.Inc()
}

// RecordSummaryDuration records the time taken to compute a completion summary
func (m *HabitMetrics) RecordSummaryDuration(duration float64) {
	m.summaryDuration.Observe(duration)
}
