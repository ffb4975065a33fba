// Package store provides ProfileStore implementations: an in-memory
// reference store for tests and a SQLite store for the daemon.
package store

import (
	"context"
	"sort"
	"sync"

	"github.com/swanstudios/progression/internal/domain"
)

// Memory is the in-memory reference ProfileStore. Safe for concurrent use;
// the compare-and-swap semantics match the SQLite store exactly, so engine
// and facade tests run against it.
type Memory struct {
	mu         sync.RWMutex
	profiles   map[string]domain.GamificationProfile
	activities map[string][]domain.ActivityEntry
}

// NewMemory creates an empty in-memory store.
func NewMemory() *Memory {
	return &Memory{
		profiles:   make(map[string]domain.GamificationProfile),
		activities: make(map[string][]domain.ActivityEntry),
	}
}

// Load returns a deep copy of the stored profile.
func (m *Memory) Load(ctx context.Context, userID string) (domain.GamificationProfile, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	p, ok := m.profiles[userID]
	if !ok {
		return domain.GamificationProfile{}, domain.ErrProfileNotFound
	}
	return p.Clone(), nil
}

// CompareAndSwap commits the profile iff the stored version still equals
// expectedVersion. Expected version 0 creates the record if absent.
func (m *Memory) CompareAndSwap(ctx context.Context, userID string, expectedVersion int64, profile domain.GamificationProfile) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	current, ok := m.profiles[userID]
	switch {
	case !ok && expectedVersion != 0:
		return domain.ErrVersionConflict
	case ok && current.Version != expectedVersion:
		return domain.ErrVersionConflict
	}
	m.profiles[userID] = profile.Clone()
	return nil
}

// TopByPoints returns the top users by points, descending.
func (m *Memory) TopByPoints(ctx context.Context, limit int) ([]domain.LeaderboardEntry, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	entries := make([]domain.LeaderboardEntry, 0, len(m.profiles))
	for _, p := range m.profiles {
		entries = append(entries, domain.LeaderboardEntry{UserID: p.UserID, Points: p.Points})
	}
	sort.Slice(entries, func(i, j int) bool {
		if entries[i].Points != entries[j].Points {
			return entries[i].Points > entries[j].Points
		}
		return entries[i].UserID < entries[j].UserID
	})
	if len(entries) > limit {
		entries = entries[:limit]
	}
	return entries, nil
}

// AppendActivity records a feed entry.
func (m *Memory) AppendActivity(ctx context.Context, entry domain.ActivityEntry) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.activities[entry.UserID] = append(m.activities[entry.UserID], entry)
	return nil
}

// RecentActivity returns the newest entries first.
func (m *Memory) RecentActivity(ctx context.Context, userID string, limit int) ([]domain.ActivityEntry, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	all := m.activities[userID]
	out := make([]domain.ActivityEntry, 0, limit)
	for i := len(all) - 1; i >= 0 && len(out) < limit; i-- {
		out = append(out, all[i])
	}
	return out, nil
}
