package domain

import "context"

// ProfileStore is the narrow persistence seam the engine reads and writes
// through. Implementations must be safe for concurrent use; all mutation
// goes through optimistic compare-and-swap, never pessimistic locks.
type ProfileStore interface {
	// Load returns the stored profile, or ErrProfileNotFound if the user
	// has no committed state yet.
	Load(ctx context.Context, userID string) (GamificationProfile, error)

	// CompareAndSwap commits profile iff the stored version still equals
	// expectedVersion. An expectedVersion of 0 creates the record if
	// absent. Returns ErrVersionConflict when a concurrent writer won.
	CompareAndSwap(ctx context.Context, userID string, expectedVersion int64, profile GamificationProfile) error
}

// LeaderboardStore serves the points leaderboard. Read-your-writes only,
// with no cross-user consistency protocol.
type LeaderboardStore interface {
	TopByPoints(ctx context.Context, limit int) ([]LeaderboardEntry, error)
}

// ActivityLog records committed operations for the per-user activity feed.
type ActivityLog interface {
	AppendActivity(ctx context.Context, entry ActivityEntry) error
	RecentActivity(ctx context.Context, userID string, limit int) ([]ActivityEntry, error)
}

// DieRoller abstracts the dice source so board tests are deterministic.
// Roll returns a uniformly random face in [1, sides].
type DieRoller interface {
	Roll() int
}
