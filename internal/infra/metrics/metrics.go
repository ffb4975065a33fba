// Package metrics provides Prometheus metrics for the progression engine:
// operation counters, CAS contention, and points economy gauges.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// ─── Operations ─────────────────────────────────────────────────────────────

// Operations tracks facade operations by kind and outcome.
var Operations = promauto.NewCounterVec(prometheus.CounterOpts{
	Namespace: "progression",
	Name:      "operations_total",
	Help:      "Total facade operations by kind and outcome.",
}, []string{"op", "outcome"})

// CASConflicts tracks optimistic-concurrency conflicts that forced a retry.
var CASConflicts = promauto.NewCounter(prometheus.CounterOpts{
	Namespace: "progression",
	Name:      "cas_conflicts_total",
	Help:      "Total compare-and-swap conflicts (retried internally).",
})

// CASExhausted tracks operations that failed with Busy after retries.
var CASExhausted = promauto.NewCounter(prometheus.CounterOpts{
	Namespace: "progression",
	Name:      "cas_exhausted_total",
	Help:      "Total operations that exhausted their CAS retry budget.",
})

// ─── Economy ────────────────────────────────────────────────────────────────

// DiceRolls tracks successful dice rolls, labeled by boost use.
var DiceRolls = promauto.NewCounterVec(prometheus.CounterOpts{
	Namespace: "progression",
	Name:      "dice_rolls_total",
	Help:      "Total successful dice rolls.",
}, []string{"boosted"})

// PointsGranted tracks points granted by source.
var PointsGranted = promauto.NewCounterVec(prometheus.CounterOpts{
	Namespace: "progression",
	Name:      "points_granted_total",
	Help:      "Total points granted, by source.",
}, []string{"source"})

// QuestsCompleted tracks first-time kindness quest completions.
var QuestsCompleted = promauto.NewCounter(prometheus.CounterOpts{
	Namespace: "progression",
	Name:      "quests_completed_total",
	Help:      "Total first-time kindness quest completions.",
})

// AchievementsUnlocked tracks achievement completions.
var AchievementsUnlocked = promauto.NewCounter(prometheus.CounterOpts{
	Namespace: "progression",
	Name:      "achievements_unlocked_total",
	Help:      "Total achievements completed.",
})
