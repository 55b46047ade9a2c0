package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// CommandMetrics records interpreter activity: which actions run, how often
// the classifier fallback fires, and ledger trouble.
type CommandMetrics struct {
	commands          *prometheus.CounterVec
	classifierCalls   *prometheus.CounterVec
	classifierLatency *prometheus.HistogramVec
	ledgerFailures    prometheus.Counter
}

// NewCommandMetrics registers the interpreter metrics on the provided registerer.
func NewCommandMetrics(reg prometheus.Registerer) *CommandMetrics {
	if reg == nil {
		return &CommandMetrics{}
	}
	commands := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "inventory_commands_total",
		Help: "Interpreted inventory commands by action and outcome.",
	}, []string{"action", "outcome"})
	classifierCalls := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "classifier_requests_total",
		Help: "Classifier fallback requests by stage and outcome.",
	}, []string{"stage", "outcome"})
	classifierLatency := prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "classifier_request_duration_seconds",
		Help:    "Duration of classifier fallback requests in seconds.",
		Buckets: prometheus.DefBuckets,
	}, []string{"stage"})
	ledgerFailures := prometheus.NewCounter(prometheus.CounterOpts{
		Name: "ledger_failures_total",
		Help: "Event ledger append/query failures.",
	})
	reg.MustRegister(commands, classifierCalls, classifierLatency, ledgerFailures)
	return &CommandMetrics{
		commands:          commands,
		classifierCalls:   classifierCalls,
		classifierLatency: classifierLatency,
		ledgerFailures:    ledgerFailures,
	}
}

// IncCommand increments the command counter for the action/outcome pair.
func (c *CommandMetrics) IncCommand(action, outcome string) {
	if c == nil || c.commands == nil {
		return
	}
	c.commands.WithLabelValues(normalizeLabel(action), normalizeLabel(outcome)).Inc()
}

// IncClassifier increments the classifier counter for the stage/outcome pair.
func (c *CommandMetrics) IncClassifier(stage, outcome string) {
	if c == nil || c.classifierCalls == nil {
		return
	}
	c.classifierCalls.WithLabelValues(normalizeLabel(stage), normalizeLabel(outcome)).Inc()
}

// ObserveClassifierDuration records the duration of one classifier request.
func (c *CommandMetrics) ObserveClassifierDuration(stage string, duration time.Duration) {
	if c == nil || c.classifierLatency == nil {
		return
	}
	c.classifierLatency.WithLabelValues(normalizeLabel(stage)).Observe(duration.Seconds())
}

// IncLedgerFailure counts one ledger append/query failure.
func (c *CommandMetrics) IncLedgerFailure() {
	if c == nil || c.ledgerFailures == nil {
		return
	}
	c.ledgerFailures.Inc()
}

func normalizeLabel(value string) string {
	if value == "" {
		return "unknown"
	}
	return value
}
