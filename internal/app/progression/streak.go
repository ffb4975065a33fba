package progression

import (
	"time"

	"github.com/swanstudios/progression/internal/domain"
)

// RecordWorkout applies one completed-workout signal to the profile.
// Streak accounting: a second workout the same day leaves the streak
// unchanged, a consecutive day extends it, and a gap of more than one day
// resets it to 1. Every signal grants WorkoutPoints and bumps the workout
// counter: each workout is a distinct event even within one day.
func RecordWorkout(p *domain.GamificationProfile, at time.Time, rules Rules) domain.WorkoutResult {
	day := at.UTC().Truncate(24 * time.Hour)

	switch {
	case p.LastWorkoutDay.IsZero():
		p.StreakDays = 1
	case !day.After(p.LastWorkoutDay):
		// Same day (or late-arriving signal); streak already counted
	case day.Sub(p.LastWorkoutDay) <= 24*time.Hour:
		p.StreakDays++
	default:
		p.StreakDays = 1
	}

	if day.After(p.LastWorkoutDay) {
		p.LastWorkoutDay = day
	}
	p.WorkoutsCompleted++
	p.Points += rules.WorkoutPoints

	return domain.WorkoutResult{
		StreakDays:   p.StreakDays,
		PointsEarned: rules.WorkoutPoints,
	}
}
