package progression

import (
	"time"

	"github.com/swanstudios/progression/internal/domain"
)

// AchievementTracker applies progress deltas against static achievement
// definitions. It is pure: the only side effect is field mutation on the
// profile passed in, committed later by the facade.
type AchievementTracker struct {
	defs    map[string]domain.AchievementDef
	ordered []domain.AchievementDef
}

// NewAchievementTracker creates a tracker over the given definitions.
func NewAchievementTracker(defs []domain.AchievementDef) *AchievementTracker {
	m := make(map[string]domain.AchievementDef, len(defs))
	for _, d := range defs {
		m[d.ID] = d
	}
	return &AchievementTracker{defs: m, ordered: defs}
}

// Definitions returns all achievement definitions in catalog order.
func (t *AchievementTracker) Definitions() []domain.AchievementDef {
	return t.ordered
}

// ApplyProgressDelta advances one achievement by a non-negative delta.
// Progress clamps at the target. If the clamp flips Completed from false to
// true, the reward is granted exactly once and JustCompleted is reported.
// Completed achievements never revert and never re-grant.
func (t *AchievementTracker) ApplyProgressDelta(p *domain.GamificationProfile, id string, delta int, now time.Time) (domain.AchievementProgressResult, error) {
	if delta < 0 {
		return domain.AchievementProgressResult{}, domain.ErrInvalidArgument
	}
	def, ok := t.defs[id]
	if !ok {
		return domain.AchievementProgressResult{}, domain.ErrNotFound
	}

	state := p.Achievements[id]
	if !state.Completed {
		state.Progress += delta
		if state.Progress >= def.Target {
			state.Progress = def.Target
			state.Completed = true
			state.CompletedAt = now
			p.Points += def.RewardPoints
			p.Achievements[id] = state
			return domain.AchievementProgressResult{
				Progress:      state.Progress,
				Target:        def.Target,
				Completed:     true,
				JustCompleted: true,
				PointsEarned:  def.RewardPoints,
			}, nil
		}
		p.Achievements[id] = state
	}

	return domain.AchievementProgressResult{
		Progress:  state.Progress,
		Target:    def.Target,
		Completed: state.Completed,
	}, nil
}
