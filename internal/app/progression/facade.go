package progression

import (
	"context"
	"errors"
	"fmt"
	"log"
	"time"

	"github.com/google/uuid"

	"github.com/swanstudios/progression/internal/domain"
	"github.com/swanstudios/progression/internal/infra/metrics"
)

// defaultMaxRetries bounds the CAS retry loop before an operation fails
// with ErrBusy.
const defaultMaxRetries = 5

// Facade is the single entry point for all progression operations. Each
// operation loads the profile, delegates to one sub-engine, recomputes
// derived fields, and commits via compare-and-swap, retrying on conflict
// so concurrent operations on the same user serialize instead of losing
// updates. The facade never partially commits.
type Facade struct {
	store       domain.ProfileStore
	leaderboard domain.LeaderboardStore
	activity    domain.ActivityLog

	achievements *AchievementTracker
	challenges   *ChallengeRegistry
	quests       *QuestLedger
	board        *BoardEngine

	rules      Rules
	maxRetries int
	now        func() time.Time
}

// FacadeConfig configures a Facade. Zero-value fields fall back to
// production defaults; tests inject a fixed die and clock.
type FacadeConfig struct {
	Store        domain.ProfileStore
	Leaderboard  domain.LeaderboardStore // optional
	Activity     domain.ActivityLog      // optional
	Die          domain.DieRoller
	Rules        Rules
	MaxRetries   int
	Now          func() time.Time
	Achievements []domain.AchievementDef
	Challenges   []domain.ChallengeDef
	Quests       []domain.KindnessQuestDef
}

// NewFacade creates a facade with all sub-engines wired.
func NewFacade(cfg FacadeConfig) *Facade {
	rules := cfg.Rules
	if rules == (Rules{}) {
		rules = DefaultRules()
	}
	die := cfg.Die
	if die == nil {
		die = NewRandomDie(rules.DieSides)
	}
	now := cfg.Now
	if now == nil {
		now = time.Now
	}
	retries := cfg.MaxRetries
	if retries <= 0 {
		retries = defaultMaxRetries
	}
	achievements := cfg.Achievements
	if achievements == nil {
		achievements = AllAchievements()
	}
	challenges := cfg.Challenges
	if challenges == nil {
		challenges = DefaultChallenges(now())
	}
	quests := cfg.Quests
	if quests == nil {
		quests = AllKindnessQuests()
	}

	return &Facade{
		store:        cfg.Store,
		leaderboard:  cfg.Leaderboard,
		activity:     cfg.Activity,
		achievements: NewAchievementTracker(achievements),
		challenges:   NewChallengeRegistry(challenges),
		quests:       NewQuestLedger(quests, rules),
		board:        NewBoardEngine(die, rules),
		rules:        rules,
		maxRetries:   retries,
		now:          now,
	}
}

// ─── Views ──────────────────────────────────────────────────────────────────

// ProfileView is a profile with its derived level fields attached. Level is
// recomputed on every read and never stored, so it cannot drift.
type ProfileView struct {
	domain.GamificationProfile
	Level            int     `json:"level"`
	LevelProgressPct float64 `json:"level_progress_pct"`
}

// BoardView is a board state with the derived CanRoll flag.
type BoardView struct {
	domain.BoardState
	CanRoll bool `json:"can_roll"`
}

// AchievementView pairs a definition with the user's progress against it.
type AchievementView struct {
	domain.AchievementDef
	domain.AchievementState
}

// ChallengeView pairs a challenge definition with the user's enrollment.
type ChallengeView struct {
	domain.ChallengeDef
	domain.ChallengeState
	Ended bool `json:"ended"`
}

// QuestView pairs a quest definition with the user's completion state.
type QuestView struct {
	domain.KindnessQuestDef
	domain.QuestState
}

// SummaryView is the one-call dashboard payload.
type SummaryView struct {
	Profile      ProfileView       `json:"profile"`
	Board        BoardView         `json:"board"`
	Achievements []AchievementView `json:"achievements"`
	Challenges   []ChallengeView   `json:"challenges"`
	Quests       []QuestView       `json:"quests"`
}

func (f *Facade) view(p domain.GamificationProfile) ProfileView {
	return ProfileView{
		GamificationProfile: p,
		Level:               LevelForPoints(p.Points),
		LevelProgressPct:    ProgressPct(p.Points),
	}
}

// ─── Reads ──────────────────────────────────────────────────────────────────

// loadOrDefault returns the stored profile, or the zero-value profile when
// the user has no committed state yet (lazy creation).
func (f *Facade) loadOrDefault(ctx context.Context, userID string) (domain.GamificationProfile, error) {
	p, err := f.store.Load(ctx, userID)
	if errors.Is(err, domain.ErrProfileNotFound) {
		return domain.NewProfile(userID), nil
	}
	if err != nil {
		return domain.GamificationProfile{}, fmt.Errorf("load profile: %w", err)
	}
	return p, nil
}

// GetProfile returns the user's profile with derived level fields.
func (f *Facade) GetProfile(ctx context.Context, userID string) (ProfileView, error) {
	p, err := f.loadOrDefault(ctx, userID)
	if err != nil {
		return ProfileView{}, err
	}
	return f.view(p), nil
}

// GetAchievements returns every achievement definition with the user's
// progress attached.
func (f *Facade) GetAchievements(ctx context.Context, userID string) ([]AchievementView, error) {
	p, err := f.loadOrDefault(ctx, userID)
	if err != nil {
		return nil, err
	}
	defs := f.achievements.Definitions()
	views := make([]AchievementView, len(defs))
	for i, d := range defs {
		views[i] = AchievementView{AchievementDef: d, AchievementState: p.Achievements[d.ID]}
	}
	return views, nil
}

// GetBoardState returns the user's board with the derived CanRoll flag.
func (f *Facade) GetBoardState(ctx context.Context, userID string) (BoardView, error) {
	p, err := f.loadOrDefault(ctx, userID)
	if err != nil {
		return BoardView{}, err
	}
	return BoardView{BoardState: p.Board, CanRoll: p.Board.CanRoll(f.now())}, nil
}

// ListChallenges returns every challenge with the user's enrollment state.
func (f *Facade) ListChallenges(ctx context.Context, userID string) ([]ChallengeView, error) {
	p, err := f.loadOrDefault(ctx, userID)
	if err != nil {
		return nil, err
	}
	now := f.now()
	defs := f.challenges.Definitions()
	views := make([]ChallengeView, len(defs))
	for i, d := range defs {
		views[i] = ChallengeView{ChallengeDef: d, ChallengeState: p.Challenges[d.ID], Ended: d.Ended(now)}
	}
	return views, nil
}

// ListKindnessQuests returns every quest with the user's completion state.
func (f *Facade) ListKindnessQuests(ctx context.Context, userID string) ([]QuestView, error) {
	p, err := f.loadOrDefault(ctx, userID)
	if err != nil {
		return nil, err
	}
	defs := f.quests.Definitions()
	views := make([]QuestView, len(defs))
	for i, d := range defs {
		views[i] = QuestView{KindnessQuestDef: d, QuestState: p.Quests[d.ID]}
	}
	return views, nil
}

// Summary returns the full dashboard payload in one call.
func (f *Facade) Summary(ctx context.Context, userID string) (SummaryView, error) {
	p, err := f.loadOrDefault(ctx, userID)
	if err != nil {
		return SummaryView{}, err
	}
	now := f.now()

	var s SummaryView
	s.Profile = f.view(p)
	s.Board = BoardView{BoardState: p.Board, CanRoll: p.Board.CanRoll(now)}
	for _, d := range f.achievements.Definitions() {
		s.Achievements = append(s.Achievements, AchievementView{AchievementDef: d, AchievementState: p.Achievements[d.ID]})
	}
	for _, d := range f.challenges.Definitions() {
		s.Challenges = append(s.Challenges, ChallengeView{ChallengeDef: d, ChallengeState: p.Challenges[d.ID], Ended: d.Ended(now)})
	}
	for _, d := range f.quests.Definitions() {
		s.Quests = append(s.Quests, QuestView{KindnessQuestDef: d, QuestState: p.Quests[d.ID]})
	}
	return s, nil
}

// Leaderboard returns the top users by points. Requires a LeaderboardStore.
func (f *Facade) Leaderboard(ctx context.Context, limit int) ([]domain.LeaderboardEntry, error) {
	if f.leaderboard == nil {
		return nil, nil
	}
	if limit <= 0 {
		limit = 10
	}
	entries, err := f.leaderboard.TopByPoints(ctx, limit)
	if err != nil {
		return nil, fmt.Errorf("leaderboard: %w", err)
	}
	for i := range entries {
		entries[i].Rank = i + 1
		entries[i].Level = LevelForPoints(entries[i].Points)
	}
	return entries, nil
}

// RecentActivity returns the user's most recent activity entries.
func (f *Facade) RecentActivity(ctx context.Context, userID string, limit int) ([]domain.ActivityEntry, error) {
	if f.activity == nil {
		return nil, nil
	}
	if limit <= 0 {
		limit = 20
	}
	return f.activity.RecentActivity(ctx, userID, limit)
}

// ─── Mutations ──────────────────────────────────────────────────────────────

// commit runs one load → mutate → compare-and-swap cycle, retrying on
// version conflict up to the retry budget. On exhaustion the caller gets
// ErrBusy; on any sub-engine error nothing is persisted and the original
// error kind surfaces unchanged.
func (f *Facade) commit(ctx context.Context, op, userID string, mutate func(*domain.GamificationProfile) error) (domain.GamificationProfile, error) {
	for attempt := 0; attempt < f.maxRetries; attempt++ {
		p, err := f.loadOrDefault(ctx, userID)
		if err != nil {
			metrics.Operations.WithLabelValues(op, "error").Inc()
			return domain.GamificationProfile{}, err
		}

		expected := p.Version
		if err := mutate(&p); err != nil {
			metrics.Operations.WithLabelValues(op, "rejected").Inc()
			return domain.GamificationProfile{}, err
		}
		p.Version = expected + 1

		err = f.store.CompareAndSwap(ctx, userID, expected, p)
		if err == nil {
			metrics.Operations.WithLabelValues(op, "ok").Inc()
			return p, nil
		}
		if !errors.Is(err, domain.ErrVersionConflict) {
			metrics.Operations.WithLabelValues(op, "error").Inc()
			return domain.GamificationProfile{}, fmt.Errorf("commit profile: %w", err)
		}
		metrics.CASConflicts.Inc()
	}

	metrics.CASExhausted.Inc()
	metrics.Operations.WithLabelValues(op, "busy").Inc()
	return domain.GamificationProfile{}, domain.ErrBusy
}

// logActivity appends a feed entry for a committed operation. Activity is
// best-effort: a feed write failure never fails the operation.
func (f *Facade) logActivity(ctx context.Context, userID string, kind domain.ActivityKind, detail string, points int64) {
	if f.activity == nil {
		return
	}
	entry := domain.ActivityEntry{
		ID:           uuid.NewString(),
		UserID:       userID,
		Kind:         kind,
		Detail:       detail,
		PointsEarned: points,
		At:           f.now(),
	}
	if err := f.activity.AppendActivity(ctx, entry); err != nil {
		log.Printf("[progression] activity append failed for %s: %v", userID, err)
	}
}

// ApplyAchievementProgress advances one achievement by a non-negative delta.
func (f *Facade) ApplyAchievementProgress(ctx context.Context, userID, achievementID string, delta int) (domain.AchievementProgressResult, error) {
	var res domain.AchievementProgressResult
	_, err := f.commit(ctx, "apply_achievement_progress", userID, func(p *domain.GamificationProfile) error {
		r, err := f.achievements.ApplyProgressDelta(p, achievementID, delta, f.now())
		if err != nil {
			return err
		}
		res = r
		return nil
	})
	if err != nil {
		return domain.AchievementProgressResult{}, err
	}
	if res.JustCompleted {
		metrics.AchievementsUnlocked.Inc()
		metrics.PointsGranted.WithLabelValues("achievement").Add(float64(res.PointsEarned))
		f.logActivity(ctx, userID, domain.ActivityAchievement, achievementID, res.PointsEarned)
	}
	return res, nil
}

// RollDice performs one cooldown-gated dice roll for the user.
func (f *Facade) RollDice(ctx context.Context, userID string, useBoost bool) (domain.RollResult, error) {
	var res domain.RollResult
	_, err := f.commit(ctx, "roll_dice", userID, func(p *domain.GamificationProfile) error {
		r, err := f.board.Roll(p, useBoost, f.now())
		if err != nil {
			return err
		}
		res = r
		return nil
	})
	if err != nil {
		return domain.RollResult{}, err
	}
	metrics.DiceRolls.WithLabelValues(boolLabel(useBoost)).Inc()
	if res.RewardEarned {
		metrics.PointsGranted.WithLabelValues("board").Add(float64(res.PointsEarned))
	}
	f.logActivity(ctx, userID, domain.ActivityRoll, fmt.Sprintf("rolled %d to space %d", res.FinalRoll, res.NewPosition), res.PointsEarned)
	return res, nil
}

// JoinChallenge enrolls the user in a challenge.
func (f *Facade) JoinChallenge(ctx context.Context, userID, challengeID string) (ChallengeView, error) {
	var view ChallengeView
	_, err := f.commit(ctx, "join_challenge", userID, func(p *domain.GamificationProfile) error {
		if err := f.challenges.Join(p, challengeID, f.now()); err != nil {
			return err
		}
		def, _ := f.challenges.def(challengeID)
		view = ChallengeView{ChallengeDef: def, ChallengeState: p.Challenges[challengeID]}
		return nil
	})
	if err != nil {
		return ChallengeView{}, err
	}
	f.logActivity(ctx, userID, domain.ActivityChallenge, "joined "+challengeID, 0)
	return view, nil
}

// UpdateChallengeProgress sets absolute progress for a joined challenge.
func (f *Facade) UpdateChallengeProgress(ctx context.Context, userID, challengeID string, progress int) (ChallengeView, error) {
	var view ChallengeView
	var completed bool
	var reward int64
	_, err := f.commit(ctx, "update_challenge_progress", userID, func(p *domain.GamificationProfile) error {
		before := p.Challenges[challengeID].Completed
		state, err := f.challenges.UpdateProgress(p, challengeID, progress, f.now())
		if err != nil {
			return err
		}
		def, _ := f.challenges.def(challengeID)
		completed = state.Completed && !before
		reward = def.RewardPoints
		view = ChallengeView{ChallengeDef: def, ChallengeState: state}
		return nil
	})
	if err != nil {
		return ChallengeView{}, err
	}
	if completed {
		metrics.PointsGranted.WithLabelValues("challenge").Add(float64(reward))
		f.logActivity(ctx, userID, domain.ActivityChallenge, "completed "+challengeID, reward)
	}
	return view, nil
}

// CompleteKindnessQuest marks a quest completed, idempotently.
func (f *Facade) CompleteKindnessQuest(ctx context.Context, userID, questID string) (domain.CompleteQuestResult, error) {
	var res domain.CompleteQuestResult
	_, err := f.commit(ctx, "complete_kindness_quest", userID, func(p *domain.GamificationProfile) error {
		r, err := f.quests.Complete(p, questID, f.now())
		if err != nil {
			return err
		}
		res = r
		return nil
	})
	if err != nil {
		return domain.CompleteQuestResult{}, err
	}
	if !res.AlreadyCompleted {
		metrics.QuestsCompleted.Inc()
		metrics.PointsGranted.WithLabelValues("quest").Add(float64(res.PointsEarned))
		f.logActivity(ctx, userID, domain.ActivityQuest, questID, res.PointsEarned)
	}
	return res, nil
}

// NotifyWorkoutCompleted records one completed-workout signal from the
// workout-tracking subsystem, updating the streak and granting the
// per-workout reward.
func (f *Facade) NotifyWorkoutCompleted(ctx context.Context, userID string, at time.Time) (domain.WorkoutResult, error) {
	if at.IsZero() {
		at = f.now()
	}
	var res domain.WorkoutResult
	_, err := f.commit(ctx, "notify_workout_completed", userID, func(p *domain.GamificationProfile) error {
		res = RecordWorkout(p, at, f.rules)
		return nil
	})
	if err != nil {
		return domain.WorkoutResult{}, err
	}
	metrics.PointsGranted.WithLabelValues("workout").Add(float64(res.PointsEarned))
	f.logActivity(ctx, userID, domain.ActivityWorkout, fmt.Sprintf("streak %d days", res.StreakDays), res.PointsEarned)
	return res, nil
}

func boolLabel(b bool) string {
	if b {
		return "true"
	}
	return "false"
}
