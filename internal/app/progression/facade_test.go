package progression_test

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/swanstudios/progression/internal/app/progression"
	"github.com/swanstudios/progression/internal/domain"
	"github.com/swanstudios/progression/internal/infra/store"
)

func newTestFacade(t *testing.T, cfg progression.FacadeConfig) (*progression.Facade, *store.Memory) {
	t.Helper()
	mem := store.NewMemory()
	if cfg.Store == nil {
		cfg.Store = mem
	}
	if cfg.Leaderboard == nil {
		cfg.Leaderboard = mem
	}
	if cfg.Activity == nil {
		cfg.Activity = mem
	}
	if cfg.Die == nil {
		cfg.Die = progression.FixedDie(3)
	}
	if cfg.Now == nil {
		cfg.Now = func() time.Time { return testTime }
	}
	return progression.NewFacade(cfg), mem
}

func TestFacade_LazyProfileCreation(t *testing.T) {
	f, mem := newTestFacade(t, progression.FacadeConfig{})
	ctx := context.Background()

	// Reading an unknown user returns the zero profile, not an error,
	// and persists nothing.
	view, err := f.GetProfile(ctx, "newcomer")
	if err != nil {
		t.Fatalf("get profile: %v", err)
	}
	if view.Points != 0 || view.Level != 1 || view.Version != 0 {
		t.Errorf("zero profile = points:%d level:%d version:%d", view.Points, view.Level, view.Version)
	}
	if _, err := mem.Load(ctx, "newcomer"); !errors.Is(err, domain.ErrProfileNotFound) {
		t.Errorf("read persisted a profile: %v", err)
	}

	// First mutation creates the record at version 1.
	if _, err := f.RollDice(ctx, "newcomer", false); err != nil {
		t.Fatalf("roll: %v", err)
	}
	p, err := mem.Load(ctx, "newcomer")
	if err != nil {
		t.Fatalf("load after roll: %v", err)
	}
	if p.Version != 1 || p.Board.Position != 3 {
		t.Errorf("persisted version=%d position=%d, want 1 and 3", p.Version, p.Board.Position)
	}
}

func TestFacade_LevelRecomputedOnRead(t *testing.T) {
	f, _ := newTestFacade(t, progression.FacadeConfig{
		Quests: []domain.KindnessQuestDef{{ID: "big_quest", Name: "Big Quest", Points: 450}},
	})
	ctx := context.Background()

	if _, err := f.CompleteKindnessQuest(ctx, "u1", "big_quest"); err != nil {
		t.Fatalf("complete quest: %v", err)
	}
	view, err := f.GetProfile(ctx, "u1")
	if err != nil {
		t.Fatalf("get profile: %v", err)
	}
	if view.Points != 450 || view.Level != 3 {
		t.Errorf("points=%d level=%d, want 450 at level 3", view.Points, view.Level)
	}
	if view.LevelProgressPct != 25 {
		t.Errorf("level progress = %v, want 25", view.LevelProgressPct)
	}
}

// conflictStore wraps a ProfileStore and forces the first n commits to
// fail with a version conflict, as if another writer raced in between.
type conflictStore struct {
	domain.ProfileStore
	mu        sync.Mutex
	conflicts int
	attempts  int
}

func (s *conflictStore) CompareAndSwap(ctx context.Context, userID string, expectedVersion int64, profile domain.GamificationProfile) error {
	s.mu.Lock()
	s.attempts++
	forced := s.attempts <= s.conflicts
	s.mu.Unlock()
	if forced {
		return domain.ErrVersionConflict
	}
	return s.ProfileStore.CompareAndSwap(ctx, userID, expectedVersion, profile)
}

func TestFacade_RetriesOnVersionConflict(t *testing.T) {
	cs := &conflictStore{ProfileStore: store.NewMemory(), conflicts: 2}
	f, _ := newTestFacade(t, progression.FacadeConfig{Store: cs, MaxRetries: 5})
	ctx := context.Background()

	res, err := f.RollDice(ctx, "u1", false)
	if err != nil {
		t.Fatalf("roll should survive transient conflicts: %v", err)
	}
	if res.NewPosition != 3 {
		t.Errorf("position = %d, want 3", res.NewPosition)
	}
	if cs.attempts != 3 {
		t.Errorf("attempts = %d, want 3 (two conflicts then success)", cs.attempts)
	}
}

func TestFacade_BusyAfterRetryExhaustion(t *testing.T) {
	cs := &conflictStore{ProfileStore: store.NewMemory(), conflicts: 100}
	f, _ := newTestFacade(t, progression.FacadeConfig{Store: cs, MaxRetries: 3})

	_, err := f.RollDice(context.Background(), "u1", false)
	if !errors.Is(err, domain.ErrBusy) {
		t.Fatalf("err = %v, want ErrBusy", err)
	}
	if cs.attempts != 3 {
		t.Errorf("attempts = %d, want exactly the retry budget of 3", cs.attempts)
	}
}

func TestFacade_ConcurrentRollsSerialize(t *testing.T) {
	rules := progression.DefaultRules()
	rules.RollCooldown = 0
	f, mem := newTestFacade(t, progression.FacadeConfig{Rules: rules, MaxRetries: 20})
	ctx := context.Background()

	var wg sync.WaitGroup
	errs := make([]error, 2)
	for i := 0; i < 2; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			_, errs[i] = f.RollDice(ctx, "u1", false)
		}(i)
	}
	wg.Wait()

	for i, err := range errs {
		if err != nil {
			t.Fatalf("roll %d: %v", i, err)
		}
	}
	p, err := mem.Load(ctx, "u1")
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	// Both rolls must land; neither update may be lost.
	if p.Board.Position != 6 {
		t.Errorf("position = %d, want 6 (two serialized rolls of 3)", p.Board.Position)
	}
	if p.Version != 2 {
		t.Errorf("version = %d, want 2", p.Version)
	}
}

func TestFacade_SubEngineErrorCommitsNothing(t *testing.T) {
	f, mem := newTestFacade(t, progression.FacadeConfig{})
	ctx := context.Background()

	if _, err := f.RollDice(ctx, "u1", false); err != nil {
		t.Fatalf("first roll: %v", err)
	}
	before, _ := mem.Load(ctx, "u1")

	// Cooldown is active, so the second roll must surface ErrCooldown and
	// leave the stored profile untouched.
	if _, err := f.RollDice(ctx, "u1", false); !errors.Is(err, domain.ErrCooldown) {
		t.Fatalf("err = %v, want ErrCooldown", err)
	}
	after, _ := mem.Load(ctx, "u1")
	if after.Version != before.Version || after.Board.Position != before.Board.Position {
		t.Errorf("rejected mutation was persisted: before=%+v after=%+v", before.Board, after.Board)
	}
}

func TestFacade_QuestIdempotentThroughCommit(t *testing.T) {
	f, _ := newTestFacade(t, progression.FacadeConfig{
		Quests: []domain.KindnessQuestDef{{ID: "motivate_friend", Name: "Motivate a Friend", Points: 50}},
	})
	ctx := context.Background()

	res, err := f.CompleteKindnessQuest(ctx, "u1", "motivate_friend")
	if err != nil {
		t.Fatalf("complete: %v", err)
	}
	if res.PointsEarned != 50 || res.KindnessPointsEarned != 5 {
		t.Errorf("first completion = %+v, want 50/5", res)
	}

	res, err = f.CompleteKindnessQuest(ctx, "u1", "motivate_friend")
	if err != nil {
		t.Fatalf("repeat complete: %v", err)
	}
	if !res.AlreadyCompleted || res.PointsEarned != 0 {
		t.Errorf("repeat completion = %+v, want no-op", res)
	}

	view, err := f.GetProfile(ctx, "u1")
	if err != nil {
		t.Fatalf("get profile: %v", err)
	}
	if view.Points != 50 || view.KindnessScore != 5 {
		t.Errorf("points=%d kindness=%d, want single payout", view.Points, view.KindnessScore)
	}
}

func TestFacade_ChallengeFlowAndViews(t *testing.T) {
	challenges := []domain.ChallengeDef{
		{ID: "steps_10k", Name: "10k Steps", EndDate: testTime.Add(7 * 24 * time.Hour), RewardPoints: 150},
	}
	f, _ := newTestFacade(t, progression.FacadeConfig{Challenges: challenges})
	ctx := context.Background()

	view, err := f.JoinChallenge(ctx, "u1", "steps_10k")
	if err != nil {
		t.Fatalf("join: %v", err)
	}
	if !view.Joined || view.ID != "steps_10k" {
		t.Errorf("join view = %+v", view)
	}
	if _, err := f.JoinChallenge(ctx, "u1", "steps_10k"); !errors.Is(err, domain.ErrAlreadyJoined) {
		t.Errorf("second join err = %v, want ErrAlreadyJoined", err)
	}

	view, err = f.UpdateChallengeProgress(ctx, "u1", "steps_10k", 100)
	if err != nil {
		t.Fatalf("progress: %v", err)
	}
	if !view.Completed {
		t.Error("view not marked completed at 100")
	}

	list, err := f.ListChallenges(ctx, "u1")
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(list) != 1 || !list[0].Completed || list[0].Ended {
		t.Errorf("list = %+v", list)
	}
}

func TestFacade_SummaryAggregates(t *testing.T) {
	f, _ := newTestFacade(t, progression.FacadeConfig{})
	ctx := context.Background()

	if _, err := f.RollDice(ctx, "u1", false); err != nil {
		t.Fatalf("roll: %v", err)
	}
	s, err := f.Summary(ctx, "u1")
	if err != nil {
		t.Fatalf("summary: %v", err)
	}
	if s.Profile.UserID != "u1" || s.Board.Position != 3 {
		t.Errorf("summary profile/board = %+v / %+v", s.Profile, s.Board)
	}
	if s.Board.CanRoll {
		t.Error("board should be on cooldown right after a roll")
	}
	if len(s.Achievements) == 0 || len(s.Challenges) == 0 || len(s.Quests) == 0 {
		t.Error("summary missing catalog sections")
	}
}

func TestFacade_LeaderboardRanksAndLevels(t *testing.T) {
	f, _ := newTestFacade(t, progression.FacadeConfig{
		Quests: []domain.KindnessQuestDef{
			{ID: "q_big", Points: 500},
			{ID: "q_small", Points: 100},
		},
	})
	ctx := context.Background()

	if _, err := f.CompleteKindnessQuest(ctx, "alice", "q_big"); err != nil {
		t.Fatalf("alice quest: %v", err)
	}
	if _, err := f.CompleteKindnessQuest(ctx, "bob", "q_small"); err != nil {
		t.Fatalf("bob quest: %v", err)
	}

	entries, err := f.Leaderboard(ctx, 10)
	if err != nil {
		t.Fatalf("leaderboard: %v", err)
	}
	if len(entries) != 2 {
		t.Fatalf("len = %d, want 2", len(entries))
	}
	if entries[0].UserID != "alice" || entries[0].Rank != 1 || entries[0].Level != 3 {
		t.Errorf("first entry = %+v, want alice rank 1 level 3", entries[0])
	}
	if entries[1].UserID != "bob" || entries[1].Rank != 2 {
		t.Errorf("second entry = %+v, want bob rank 2", entries[1])
	}
}

func TestFacade_ActivityFeedRecordsCommits(t *testing.T) {
	f, _ := newTestFacade(t, progression.FacadeConfig{})
	ctx := context.Background()

	if _, err := f.RollDice(ctx, "u1", false); err != nil {
		t.Fatalf("roll: %v", err)
	}
	if _, err := f.NotifyWorkoutCompleted(ctx, "u1", testTime); err != nil {
		t.Fatalf("workout: %v", err)
	}

	entries, err := f.RecentActivity(ctx, "u1", 10)
	if err != nil {
		t.Fatalf("recent activity: %v", err)
	}
	if len(entries) != 2 {
		t.Fatalf("len = %d, want 2", len(entries))
	}
	// Newest first.
	if entries[0].Kind != domain.ActivityWorkout || entries[1].Kind != domain.ActivityRoll {
		t.Errorf("feed order = %q, %q", entries[0].Kind, entries[1].Kind)
	}
	if entries[0].ID == "" {
		t.Error("activity entry missing id")
	}
}

func TestFacade_WorkoutStreakAcrossCommits(t *testing.T) {
	f, _ := newTestFacade(t, progression.FacadeConfig{})
	ctx := context.Background()
	day1 := time.Date(2026, 3, 10, 6, 0, 0, 0, time.UTC)

	for i := 0; i < 3; i++ {
		res, err := f.NotifyWorkoutCompleted(ctx, "u1", day1.Add(time.Duration(i)*24*time.Hour))
		if err != nil {
			t.Fatalf("workout %d: %v", i, err)
		}
		if res.StreakDays != i+1 {
			t.Errorf("workout %d streak = %d, want %d", i, res.StreakDays, i+1)
		}
	}
	view, err := f.GetProfile(ctx, "u1")
	if err != nil {
		t.Fatalf("get profile: %v", err)
	}
	if view.StreakDays != 3 || view.Points != 30 || view.WorkoutsCompleted != 3 {
		t.Errorf("profile = streak:%d points:%d workouts:%d", view.StreakDays, view.Points, view.WorkoutsCompleted)
	}
}
