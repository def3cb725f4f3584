package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
)

// Registry is the project-wide metrics registry, served on the gateway's
// HTTP /metrics endpoint.
var Registry = prometheus.NewRegistry()

var (
	// UtterancesTotal counts resolved utterances by outcome.
	// outcome: matched/unmatched; command: the matched command type or "none".
	UtterancesTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "voxlink_utterances_total",
			Help: "Total number of utterances processed by the dispatcher.",
		},
		[]string{"outcome", "command"},
	)

	// CommandAckTotal counts command issuances by acknowledgement outcome.
	// outcome: acknowledged (callback fired within the poll budget) or expired.
	CommandAckTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "voxlink_command_ack_total",
			Help: "Total number of issued commands by first-acknowledgement outcome.",
		},
		[]string{"outcome"},
	)

	// CommandIssueDuration records the total wall-clock time spent in Issue,
	// including the minimum-duration floor.
	CommandIssueDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "voxlink_command_issue_duration_seconds",
			Help:    "Wall-clock duration of command issuance including the enforced floor.",
			Buckets: []float64{1, 2, 3, 4, 5, 6, 8, 10},
		},
		[]string{"type"},
	)
)

func init() {
	Registry.MustRegister(UtterancesTotal)
	Registry.MustRegister(CommandAckTotal)
	Registry.MustRegister(CommandIssueDuration)
	Registry.MustRegister(collectors.NewGoCollector())
	Registry.MustRegister(collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
}
