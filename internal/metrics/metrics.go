package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Outcome label values for PlansCompleted.
const (
	OutcomeFound      = "found"
	OutcomeInfeasible = "infeasible"
	OutcomeNotFound   = "unknown_city"
	OutcomeError      = "error"
)

var (
	PlansEnqueued = promauto.NewCounter(prometheus.CounterOpts{
		Name: "tripplanner_plans_enqueued_total",
		Help: "Total number of plan requests placed on the queue.",
	})

	PlansDropped = promauto.NewCounter(prometheus.CounterOpts{
		Name: "tripplanner_plans_dropped_total",
		Help: "Total number of plan requests rejected due to a full queue.",
	})

	PlansCompleted = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "tripplanner_plans_completed_total",
		Help: "Total number of plan searches run, labelled by outcome.",
	}, []string{"outcome"})

	NodesExpanded = promauto.NewHistogram(prometheus.HistogramOpts{
		Name:    "tripplanner_search_nodes_expanded",
		Help:    "Search nodes expanded per plan.",
		Buckets: prometheus.ExponentialBuckets(1, 2, 12),
	})

	PlanDuration = promauto.NewHistogram(prometheus.HistogramOpts{
		Name:    "tripplanner_plan_duration_ms",
		Help:    "Plan search latency in milliseconds.",
		Buckets: []float64{0.1, 0.5, 1, 5, 10, 25, 50, 100, 250, 1000},
	})

	CatalogCities = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "tripplanner_catalog_cities",
		Help: "Number of cities in the active catalog.",
	})

	CatalogReloads = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "tripplanner_catalog_reloads_total",
		Help: "Catalog reload attempts, labelled by status.",
	}, []string{"status"})

	QueueUtilization = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "tripplanner_queue_utilization_ratio",
		Help: "Current plan queue utilization (0–1).",
	})
)
