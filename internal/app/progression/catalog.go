package progression

import (
	"time"

	"github.com/swanstudios/progression/internal/domain"
)

// ─── Static Catalogs ────────────────────────────────────────────────────────
// Definitions are read-only reference data shared across all users. Keep the
// IDs stable; clients store them.

// AllAchievements returns the achievement catalog.
func AllAchievements() []domain.AchievementDef {
	return []domain.AchievementDef{
		{ID: "first_workout", Name: "First Step", Description: "Complete your first workout", Target: 1, RewardPoints: 25},
		{ID: "workouts_10", Name: "Regular", Description: "Complete 10 workouts", Target: 10, RewardPoints: 100},
		{ID: "workouts_50", Name: "Dedicated", Description: "Complete 50 workouts", Target: 50, RewardPoints: 300},
		{ID: "workouts_200", Name: "Iron Will", Description: "Complete 200 workouts", Target: 200, RewardPoints: 1000},
		{ID: "streak_7", Name: "Week Warrior", Description: "Train 7 days in a row", Target: 7, RewardPoints: 150},
		{ID: "streak_30", Name: "Monthly Machine", Description: "Train 30 days in a row", Target: 30, RewardPoints: 500},
		{ID: "board_25", Name: "Board Walker", Description: "Advance 25 board spaces", Target: 25, RewardPoints: 100},
		{ID: "board_100", Name: "Board Master", Description: "Advance 100 board spaces", Target: 100, RewardPoints: 400},
		{ID: "kindness_5", Name: "Good Neighbor", Description: "Complete 5 kindness quests", Target: 5, RewardPoints: 200},
		{ID: "challenges_3", Name: "Competitor", Description: "Finish 3 group challenges", Target: 3, RewardPoints: 250},
	}
}

// DefaultChallenges returns the challenge catalog with end dates anchored
// to the given time. End dates are immutable once a registry is built.
func DefaultChallenges(now time.Time) []domain.ChallengeDef {
	monthEnd := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, time.UTC).AddDate(0, 1, 0)
	return []domain.ChallengeDef{
		{ID: "spring_shred", Name: "Spring Shred", Description: "Log a workout every weekday this month", EndDate: monthEnd, RewardPoints: 300},
		{ID: "steps_10k", Name: "10K Steps Club", Description: "Average 10,000 daily steps", EndDate: monthEnd, RewardPoints: 200},
		{ID: "squad_goals", Name: "Squad Goals", Description: "Train with a partner six times", EndDate: now.AddDate(0, 0, 14), RewardPoints: 150},
	}
}

// AllKindnessQuests returns the kindness quest catalog.
func AllKindnessQuests() []domain.KindnessQuestDef {
	return []domain.KindnessQuestDef{
		{ID: "motivate_friend", Name: "Motivate a Friend", Description: "Send an encouraging message to a training partner", Points: 50},
		{ID: "welcome_newcomer", Name: "Welcome a Newcomer", Description: "Greet a new member in the community feed", Points: 30},
		{ID: "share_routine", Name: "Share a Routine", Description: "Publish one of your workout routines", Points: 40},
		{ID: "spot_someone", Name: "Spot Someone", Description: "Help spot another member during a session", Points: 60},
		{ID: "cheer_milestone", Name: "Cheer a Milestone", Description: "Celebrate another member's achievement", Points: 20},
	}
}
