package observability

import (
	"sort"
	"strings"
	"sync"
	"time"
)

// Metrics records counters, gauges and timings.
type Metrics interface {
	Counter(name string, value int64, tags ...Tag)
	Gauge(name string, value float64, tags ...Tag)
	Timing(name string, duration time.Duration, tags ...Tag)
}

// Tag labels a metric.
type Tag struct {
	Key   string
	Value string
}

// T is shorthand for Tag{key, value}.
func T(key, value string) Tag {
	return Tag{Key: key, Value: value}
}

// NoopMetrics discards everything.
type NoopMetrics struct{}

func (NoopMetrics) Counter(string, int64, ...Tag)        {}
func (NoopMetrics) Gauge(string, float64, ...Tag)        {}
func (NoopMetrics) Timing(string, time.Duration, ...Tag) {}

// InMemoryMetrics keeps metrics in process. The worker serves a snapshot on
// its health port; tests read single series back.
type InMemoryMetrics struct {
	mu       sync.RWMutex
	counters map[string]int64
	gauges   map[string]float64
	timings  map[string][]time.Duration
}

func NewInMemoryMetrics() *InMemoryMetrics {
	return &InMemoryMetrics{
		counters: make(map[string]int64),
		gauges:   make(map[string]float64),
		timings:  make(map[string][]time.Duration),
	}
}

func (m *InMemoryMetrics) Counter(name string, value int64, tags ...Tag) {
	m.mu.Lock()
	m.counters[seriesKey(name, tags)] += value
	m.mu.Unlock()
}

func (m *InMemoryMetrics) Gauge(name string, value float64, tags ...Tag) {
	m.mu.Lock()
	m.gauges[seriesKey(name, tags)] = value
	m.mu.Unlock()
}

func (m *InMemoryMetrics) Timing(name string, duration time.Duration, tags ...Tag) {
	m.mu.Lock()
	key := seriesKey(name, tags)
	m.timings[key] = append(m.timings[key], duration)
	m.mu.Unlock()
}

func (m *InMemoryMetrics) GetCounter(name string, tags ...Tag) int64 {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.counters[seriesKey(name, tags)]
}

func (m *InMemoryMetrics) GetGauge(name string, tags ...Tag) float64 {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.gauges[seriesKey(name, tags)]
}

func (m *InMemoryMetrics) GetTimings(name string, tags ...Tag) []time.Duration {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return append([]time.Duration(nil), m.timings[seriesKey(name, tags)]...)
}

// TimingSummary condenses the timings of one series.
type TimingSummary struct {
	Count int           `json:"count"`
	Last  time.Duration `json:"last_ns"`
	Max   time.Duration `json:"max_ns"`
}

// MetricsSnapshot is a point-in-time copy of every series.
type MetricsSnapshot struct {
	Counters map[string]int64         `json:"counters"`
	Gauges   map[string]float64       `json:"gauges"`
	Timings  map[string]TimingSummary `json:"timings"`
}

// Snapshot copies all series.
func (m *InMemoryMetrics) Snapshot() MetricsSnapshot {
	m.mu.RLock()
	defer m.mu.RUnlock()

	snap := MetricsSnapshot{
		Counters: make(map[string]int64, len(m.counters)),
		Gauges:   make(map[string]float64, len(m.gauges)),
		Timings:  make(map[string]TimingSummary, len(m.timings)),
	}
	for k, v := range m.counters {
		snap.Counters[k] = v
	}
	for k, v := range m.gauges {
		snap.Gauges[k] = v
	}
	for k, values := range m.timings {
		s := TimingSummary{Count: len(values)}
		for _, d := range values {
			if d > s.Max {
				s.Max = d
			}
		}
		if len(values) > 0 {
			s.Last = values[len(values)-1]
		}
		snap.Timings[k] = s
	}
	return snap
}

// seriesKey renders name{k=v,...} with tags sorted so that the order of
// call-site tags does not split a series.
func seriesKey(name string, tags []Tag) string {
	if len(tags) == 0 {
		return name
	}
	sorted := append([]Tag(nil), tags...)
	sort.Slice(sorted, func(i, j int) bool { return sorted[i].Key < sorted[j].Key })

	var b strings.Builder
	b.WriteString(name)
	b.WriteByte('{')
	for i, t := range sorted {
		if i > 0 {
			b.WriteByte(',')
		}
		b.WriteString(t.Key)
		b.WriteByte('=')
		b.WriteString(t.Value)
	}
	b.WriteByte('}')
	return b.String()
}

// Metric names.
const (
	MetricCheckinsToggled = "godlife.checkins.toggled"

	MetricRemindersScheduled  = "godlife.reminders.scheduled"
	MetricRemindersFired      = "godlife.reminders.fired"
	MetricRemindersSuppressed = "godlife.reminders.suppressed"
	MetricRemindersFailed     = "godlife.reminders.failed"
	MetricRemindersPending    = "godlife.reminders.pending"
	MetricSweepDuration       = "godlife.reminders.sweep_duration"

	MetricReportsGenerated  = "godlife.reports.generated"
	MetricReportsSendFailed = "godlife.reports.send_failed"
	MetricEventsConsumed    = "godlife.events.consumed"
	MetricOutboxLag         = "godlife.outbox.lag_seconds"
)
