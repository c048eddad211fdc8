package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// CommitMetrics records outcomes of reservation commits.
type CommitMetrics struct {
	duration *prometheus.HistogramVec
	commits  *prometheus.CounterVec
	lines    *prometheus.CounterVec
}

// NewCommitMetrics registers the commit metrics on the provided registerer.
func NewCommitMetrics(reg prometheus.Registerer) *CommitMetrics {
	if reg == nil {
		return &CommitMetrics{}
	}
	duration := prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "commit_duration_seconds",
		Help:    "Duration of reservation commits in seconds.",
		Buckets: prometheus.DefBuckets,
	}, []string{"outcome"})
	commits := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "commits_total",
		Help: "Reservation commits by outcome.",
	}, []string{"outcome"})
	lines := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "commit_lines_total",
		Help: "Committed lines split into fulfillable and surplus buckets.",
	}, []string{"bucket"})
	reg.MustRegister(duration, commits, lines)
	return &CommitMetrics{
		duration: duration,
		commits:  commits,
		lines:    lines,
	}
}

// ObserveDuration records the duration for a commit with the given outcome.
func (c *CommitMetrics) ObserveDuration(outcome string, duration time.Duration) {
	if c == nil || c.duration == nil {
		return
	}
	c.duration.WithLabelValues(normalizeLabel(outcome)).Observe(duration.Seconds())
}

// IncCommit increments the commit counter for the given outcome.
func (c *CommitMetrics) IncCommit(outcome string) {
	if c == nil || c.commits == nil {
		return
	}
	c.commits.WithLabelValues(normalizeLabel(outcome)).Inc()
}

// AddLines adds line counts for the given bucket (fulfillable or surplus).
func (c *CommitMetrics) AddLines(bucket string, count int) {
	if c == nil || c.lines == nil || count <= 0 {
		return
	}
	c.lines.WithLabelValues(normalizeLabel(bucket)).Add(float64(count))
}

func normalizeLabel(value string) string {
	if value == "" {
		return "unknown"
	}
	return value
}
