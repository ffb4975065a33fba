// Package progression implements the gamification progression engine:
// points, achievements, the dice board, challenges, and kindness quests.
// All engines are pure computation over a profile snapshot; the Facade is
// the single entry point that commits mutations via compare-and-swap.
package progression

import "time"

// Rules holds the tunable constants of the progression economy.
type Rules struct {
	// DieSides is the number of faces on the board die.
	DieSides int

	// RollCooldown is how long a user waits between dice rolls.
	RollCooldown time.Duration

	// BoardRewardPoints is granted once per roll that crosses or lands on
	// a multiple of RewardInterval.
	BoardRewardPoints int64

	// RewardInterval is the board milestone spacing.
	RewardInterval int

	// WorkoutPoints is granted for each completed-workout signal.
	WorkoutPoints int64

	// KindnessDivisor converts quest points into kindness score.
	KindnessDivisor int64
}

// DefaultRules returns the production rule set.
func DefaultRules() Rules {
	return Rules{
		DieSides:          6,
		RollCooldown:      4 * time.Hour,
		BoardRewardPoints: 50,
		RewardInterval:    5,
		WorkoutPoints:     10,
		KindnessDivisor:   10,
	}
}
