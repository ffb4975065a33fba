package progression

import (
	"math/rand"
	"sync"
	"time"

	"github.com/swanstudios/progression/internal/domain"
)

// BoardEngine owns the dice-roll mechanic: cooldown gating, position
// advancement, and milestone rewards. A board is either Ready
// (now >= NextRollEligibleAt) or Cooling, with no stored transition;
// time elapsing moves Cooling back to Ready implicitly.
type BoardEngine struct {
	die   domain.DieRoller
	rules Rules
}

// NewBoardEngine creates a board engine with the given die and rules.
func NewBoardEngine(die domain.DieRoller, rules Rules) *BoardEngine {
	return &BoardEngine{die: die, rules: rules}
}

// Roll performs one dice roll for the profile at the given time.
//
// Fails with ErrCooldown while cooling and ErrInsufficientResource when a
// boost is requested with zero inventory; in both cases the profile is
// untouched (all-or-nothing). A boost doubles the single die draw rather
// than drawing twice, so reward math stays unambiguous. Crossing or landing
// on a multiple of the reward interval grants BoardRewardPoints exactly
// once per roll, no matter how many multiples one jump skips.
func (e *BoardEngine) Roll(p *domain.GamificationProfile, useBoost bool, now time.Time) (domain.RollResult, error) {
	if !p.Board.CanRoll(now) {
		return domain.RollResult{}, domain.ErrCooldown
	}
	if useBoost && p.Boosts == 0 {
		return domain.RollResult{}, domain.ErrInsufficientResource
	}

	die := e.die.Roll()
	final := die
	if useBoost {
		final = die * 2
	}

	oldPos := p.Board.Position
	newPos := oldPos + final

	var earned int64
	rewarded := newPos/e.rules.RewardInterval > oldPos/e.rules.RewardInterval
	if rewarded {
		earned = e.rules.BoardRewardPoints
	}

	p.Board.Position = newPos
	p.Board.LastRoll = final
	p.Board.NextRollEligibleAt = now.Add(e.rules.RollCooldown)
	if useBoost {
		p.Boosts--
	}
	p.Points += earned

	return domain.RollResult{
		FinalRoll:          final,
		NewPosition:        newPos,
		RewardEarned:       rewarded,
		PointsEarned:       earned,
		NextRollEligibleAt: p.Board.NextRollEligibleAt,
	}, nil
}

// ─── Die sources ────────────────────────────────────────────────────────────

// RandomDie is the production die: a seeded math/rand source behind a
// mutex so concurrent facade operations can share it.
type RandomDie struct {
	mu    sync.Mutex
	rng   *rand.Rand
	sides int
}

// NewRandomDie creates a die with the given number of sides, seeded from
// the wall clock.
func NewRandomDie(sides int) *RandomDie {
	return &RandomDie{
		rng:   rand.New(rand.NewSource(time.Now().UnixNano())),
		sides: sides,
	}
}

// Roll returns a uniform face in [1, sides].
func (d *RandomDie) Roll() int {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.rng.Intn(d.sides) + 1
}

// FixedDie always returns the same face. Test seam for deterministic rolls.
type FixedDie int

// Roll returns the fixed face.
func (d FixedDie) Roll() int { return int(d) }
