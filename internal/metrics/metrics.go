// Package metrics provides Prometheus metrics for schedule solves and the
// scenario library.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// SolvesTotal counts full forward/backward solves by kind.
	SolvesTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "ganttpro",
			Name:      "solves_total",
			Help:      "Total number of schedule solves by kind",
		},
		[]string{"kind"}, // "baseline", "scenario"
	)

	// SolveDuration tracks solve time.
	SolveDuration = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Namespace: "ganttpro",
			Name:      "solve_duration_seconds",
			Help:      "Schedule solve duration in seconds",
			Buckets:   []float64{0.0001, 0.0005, 0.001, 0.005, 0.01, 0.05, 0.1, 0.5, 1},
		},
	)

	// CyclicNetworksTotal counts solves that left activities unresolved.
	CyclicNetworksTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Namespace: "ganttpro",
			Name:      "cyclic_networks_total",
			Help:      "Total number of solves over networks containing a cycle",
		},
	)

	// DroppedEdgesTotal counts relationships dropped for unknown endpoints.
	DroppedEdgesTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Namespace: "ganttpro",
			Name:      "dropped_edges_total",
			Help:      "Total number of relationships referencing unknown activities",
		},
	)

	// ScenariosSaved counts scenarios added to the library.
	ScenariosSaved = promauto.NewCounter(
		prometheus.CounterOpts{
			Namespace: "ganttpro",
			Name:      "scenarios_saved_total",
			Help:      "Total number of scenarios saved to the library",
		},
	)

	// ScenarioRejections counts rejected scenario requests by reason.
	ScenarioRejections = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "ganttpro",
			Name:      "scenario_rejections_total",
			Help:      "Total number of rejected scenario requests by reason",
		},
		[]string{"reason"}, // "unknown_activity", "invalid_delta", "library_full"
	)
)
