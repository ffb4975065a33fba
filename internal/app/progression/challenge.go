package progression

import (
	"time"

	"github.com/swanstudios/progression/internal/domain"
)

// ChallengeRegistry tracks per-user enrollment and progress in time-boxed
// group challenges. Definitions are shared read-only reference data; all
// per-user state lives on the profile.
type ChallengeRegistry struct {
	defs    map[string]domain.ChallengeDef
	ordered []domain.ChallengeDef
}

// NewChallengeRegistry creates a registry over the given definitions.
func NewChallengeRegistry(defs []domain.ChallengeDef) *ChallengeRegistry {
	m := make(map[string]domain.ChallengeDef, len(defs))
	for _, d := range defs {
		m[d.ID] = d
	}
	return &ChallengeRegistry{defs: m, ordered: defs}
}

// Definitions returns all challenge definitions in catalog order.
func (r *ChallengeRegistry) Definitions() []domain.ChallengeDef {
	return r.ordered
}

func (r *ChallengeRegistry) def(id string) (domain.ChallengeDef, bool) {
	d, ok := r.defs[id]
	return d, ok
}

// Join enrolls the user in a challenge. A second join returns
// ErrAlreadyJoined: an explicit no-op rather than silent corruption.
// Joining after the end date fails with ErrChallengeEnded.
func (r *ChallengeRegistry) Join(p *domain.GamificationProfile, id string, now time.Time) error {
	def, ok := r.defs[id]
	if !ok {
		return domain.ErrNotFound
	}
	if def.Ended(now) {
		return domain.ErrChallengeEnded
	}
	if p.Challenges[id].Joined {
		return domain.ErrAlreadyJoined
	}
	p.Challenges[id] = domain.ChallengeState{Joined: true, JoinedAt: now}
	return nil
}

// UpdateProgress sets absolute progress (0–100) for a joined challenge.
// Progress updates after the end date are rejected. Monotonic increase is
// the caller's responsibility; regressions are accepted here.
// Reaching 100 marks the challenge completed and grants its reward once.
func (r *ChallengeRegistry) UpdateProgress(p *domain.GamificationProfile, id string, progress int, now time.Time) (domain.ChallengeState, error) {
	def, ok := r.defs[id]
	if !ok {
		return domain.ChallengeState{}, domain.ErrNotFound
	}
	if progress < 0 || progress > 100 {
		return domain.ChallengeState{}, domain.ErrInvalidArgument
	}
	if def.Ended(now) {
		return domain.ChallengeState{}, domain.ErrChallengeEnded
	}
	state := p.Challenges[id]
	if !state.Joined {
		return domain.ChallengeState{}, domain.ErrNotJoined
	}

	state.Progress = progress
	if progress == 100 && !state.Completed {
		state.Completed = true
		p.Points += def.RewardPoints
		p.ChallengesCompleted++
	}
	p.Challenges[id] = state
	return state, nil
}
