// Package domain holds the pure types of the progression engine.
// No I/O, no infrastructure imports: engines operate on these snapshots
// and the facade commits them through the ProfileStore.
package domain

import "time"

// ─── Profile ────────────────────────────────────────────────────────────────

// GamificationProfile is the per-user progression record. One exists per
// user, created lazily on first read and mutated only through the facade's
// compare-and-swap loop. Version increments on every committed mutation.
type GamificationProfile struct {
	UserID  string `json:"user_id"`
	Version int64  `json:"version"`

	Points        int64 `json:"points"`
	StreakDays    int   `json:"streak_days"`
	KindnessScore int64 `json:"kindness_score"`
	Boosts        int   `json:"boosts"`

	Board BoardState `json:"board"`

	Achievements map[string]AchievementState `json:"achievements,omitempty"`
	Challenges   map[string]ChallengeState   `json:"challenges,omitempty"`
	Quests       map[string]QuestState       `json:"quests,omitempty"`

	WorkoutsCompleted   int       `json:"workouts_completed"`
	ChallengesCompleted int       `json:"challenges_completed"`
	QuestsCompleted     int       `json:"quests_completed"`
	LastWorkoutDay      time.Time `json:"last_workout_day,omitempty"`
}

// NewProfile returns the zero-value profile for a user. All per-user state
// starts here; nothing is persisted until the first committed mutation.
func NewProfile(userID string) GamificationProfile {
	return GamificationProfile{
		UserID:       userID,
		Achievements: make(map[string]AchievementState),
		Challenges:   make(map[string]ChallengeState),
		Quests:       make(map[string]QuestState),
	}
}

// Clone returns a deep copy. Maps are reference types, so stores and the
// facade copy before handing a profile to callers.
func (p GamificationProfile) Clone() GamificationProfile {
	c := p
	c.Achievements = make(map[string]AchievementState, len(p.Achievements))
	for k, v := range p.Achievements {
		c.Achievements[k] = v
	}
	c.Challenges = make(map[string]ChallengeState, len(p.Challenges))
	for k, v := range p.Challenges {
		c.Challenges[k] = v
	}
	c.Quests = make(map[string]QuestState, len(p.Quests))
	for k, v := range p.Quests {
		c.Quests[k] = v
	}
	return c
}

// ─── Board ──────────────────────────────────────────────────────────────────

// BoardState is the dice-board portion of a profile. Position only ever
// increases. Whether a roll is currently allowed is derived from the clock,
// never stored.
type BoardState struct {
	Position           int       `json:"position"`
	LastRoll           int       `json:"last_roll"`
	NextRollEligibleAt time.Time `json:"next_roll_eligible_at"`
}

// CanRoll reports whether the board is out of cooldown at the given time.
func (b BoardState) CanRoll(now time.Time) bool {
	return !now.Before(b.NextRollEligibleAt)
}

// RollResult describes one successful dice roll.
type RollResult struct {
	FinalRoll          int       `json:"final_roll"`
	NewPosition        int       `json:"new_position"`
	RewardEarned       bool      `json:"reward_earned"`
	PointsEarned       int64     `json:"points_earned"`
	NextRollEligibleAt time.Time `json:"next_roll_eligible_at"`
}

// ─── Achievements ───────────────────────────────────────────────────────────

// AchievementDef defines a single achievement. Definitions are static
// reference data shared across all users.
type AchievementDef struct {
	ID           string `json:"id"`
	Name         string `json:"name"`
	Description  string `json:"description"`
	Target       int    `json:"target"`
	RewardPoints int64  `json:"reward_points"`
}

// AchievementState is one user's progress against a definition.
// Invariant: Completed == (Progress >= target), and once true it never
// reverts; the reward is granted exactly once.
type AchievementState struct {
	Progress    int       `json:"progress"`
	Completed   bool      `json:"completed"`
	CompletedAt time.Time `json:"completed_at,omitempty"`
}

// AchievementProgressResult reports the outcome of a progress delta.
type AchievementProgressResult struct {
	Progress      int   `json:"progress"`
	Target        int   `json:"target"`
	Completed     bool  `json:"completed"`
	JustCompleted bool  `json:"just_completed"`
	PointsEarned  int64 `json:"points_earned"`
}

// ─── Challenges ─────────────────────────────────────────────────────────────

// ChallengeDef defines a time-boxed group challenge. EndDate is immutable
// once the challenge is created.
type ChallengeDef struct {
	ID           string    `json:"id"`
	Name         string    `json:"name"`
	Description  string    `json:"description"`
	EndDate      time.Time `json:"end_date"`
	RewardPoints int64     `json:"reward_points"`
}

// Ended reports whether the challenge is past its end date.
func (c ChallengeDef) Ended(now time.Time) bool {
	return now.After(c.EndDate)
}

// ChallengeState is one user's enrollment state. Progress is absolute
// (0–100) and may only be set after joining.
type ChallengeState struct {
	Joined    bool      `json:"joined"`
	JoinedAt  time.Time `json:"joined_at,omitempty"`
	Progress  int       `json:"progress"`
	Completed bool      `json:"completed"`
}

// ─── Kindness Quests ────────────────────────────────────────────────────────

// KindnessQuestDef defines a one-time kindness quest and its payout.
type KindnessQuestDef struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description"`
	Points      int64  `json:"points"`
}

// QuestState records one-time completion of a quest.
type QuestState struct {
	Completed   bool      `json:"completed"`
	CompletedAt time.Time `json:"completed_at,omitempty"`
}

// CompleteQuestResult reports a quest completion. A repeat completion is a
// success with both earned fields zero, so duplicate client requests never
// double-pay.
type CompleteQuestResult struct {
	PointsEarned         int64 `json:"points_earned"`
	KindnessPointsEarned int64 `json:"kindness_points_earned"`
	AlreadyCompleted     bool  `json:"already_completed"`
}

// ─── Workouts / Streaks ─────────────────────────────────────────────────────

// WorkoutResult reports the streak and reward effect of one workout signal.
type WorkoutResult struct {
	StreakDays   int   `json:"streak_days"`
	PointsEarned int64 `json:"points_earned"`
}

// ─── Activity / Leaderboard ─────────────────────────────────────────────────

// ActivityKind categorizes entries in the activity feed.
type ActivityKind string

const (
	ActivityRoll        ActivityKind = "dice_roll"
	ActivityQuest       ActivityKind = "quest_completed"
	ActivityChallenge   ActivityKind = "challenge"
	ActivityAchievement ActivityKind = "achievement"
	ActivityWorkout     ActivityKind = "workout"
)

// ActivityEntry is one row of the per-user activity feed.
type ActivityEntry struct {
	ID           string       `json:"id"`
	UserID       string       `json:"user_id"`
	Kind         ActivityKind `json:"kind"`
	Detail       string       `json:"detail,omitempty"`
	PointsEarned int64        `json:"points_earned"`
	At           time.Time    `json:"at"`
}

// LeaderboardEntry is one row of the points leaderboard.
type LeaderboardEntry struct {
	Rank   int    `json:"rank"`
	UserID string `json:"user_id"`
	Points int64  `json:"points"`
	Level  int    `json:"level"`
}
