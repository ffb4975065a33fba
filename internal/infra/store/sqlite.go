package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "modernc.org/sqlite" // Pure-Go SQLite driver (no CGO required)

	"github.com/swanstudios/progression/internal/domain"
)

// SQLite is the durable ProfileStore. Profiles are stored as one JSON
// document per user with the version and points lifted into columns, so
// compare-and-swap is a single guarded UPDATE and the leaderboard is an
// indexed ORDER BY. Uses WAL mode for concurrent reads.
type SQLite struct {
	db *sql.DB
}

// Open creates or opens the SQLite database at dir/progression.db.
// Enables WAL mode and a 5-second busy timeout.
func Open(dir string) (*SQLite, error) {
	if err := os.MkdirAll(dir, 0700); err != nil {
		return nil, fmt.Errorf("create data dir: %w", err)
	}

	dbPath := filepath.Join(dir, "progression.db")
	dsn := dbPath + "?_journal_mode=WAL&_busy_timeout=5000&_foreign_keys=on"

	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("open sqlite: %w", err)
	}
	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("ping sqlite: %w", err)
	}

	// SQLite is single-writer
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)

	s := &SQLite{db: db}
	if err := s.migrate(); err != nil {
		db.Close()
		return nil, fmt.Errorf("migrate: %w", err)
	}
	return s, nil
}

// Close cleanly shuts down the database.
func (s *SQLite) Close() error {
	return s.db.Close()
}

// Ping checks database connectivity.
func (s *SQLite) Ping() error {
	return s.db.Ping()
}

// migrate runs idempotent schema migrations.
func (s *SQLite) migrate() error {
	migrations := []string{
		`CREATE TABLE IF NOT EXISTS profiles (
			user_id    TEXT PRIMARY KEY,
			version    INTEGER NOT NULL,
			points     INTEGER NOT NULL DEFAULT 0,
			data       TEXT NOT NULL,
			updated_at INTEGER NOT NULL
		)`,
		`CREATE INDEX IF NOT EXISTS idx_profiles_points ON profiles(points DESC)`,

		`CREATE TABLE IF NOT EXISTS activities (
			id      TEXT PRIMARY KEY,
			user_id TEXT NOT NULL,
			kind    TEXT NOT NULL,
			detail  TEXT NOT NULL DEFAULT '',
			points  INTEGER NOT NULL DEFAULT 0,
			at      INTEGER NOT NULL
		)`,
		`CREATE INDEX IF NOT EXISTS idx_activities_user_at ON activities(user_id, at DESC)`,
	}
	for _, m := range migrations {
		if _, err := s.db.Exec(m); err != nil {
			return fmt.Errorf("migration failed: %w", err)
		}
	}
	return nil
}

// Load returns the stored profile for a user.
func (s *SQLite) Load(ctx context.Context, userID string) (domain.GamificationProfile, error) {
	var version int64
	var data string
	err := s.db.QueryRowContext(ctx,
		`SELECT version, data FROM profiles WHERE user_id = ?`, userID,
	).Scan(&version, &data)
	if err == sql.ErrNoRows {
		return domain.GamificationProfile{}, domain.ErrProfileNotFound
	}
	if err != nil {
		return domain.GamificationProfile{}, fmt.Errorf("load profile: %w", err)
	}

	var p domain.GamificationProfile
	if err := json.Unmarshal([]byte(data), &p); err != nil {
		return domain.GamificationProfile{}, fmt.Errorf("decode profile: %w", err)
	}
	p.Version = version
	ensureMaps(&p)
	return p, nil
}

// CompareAndSwap commits the profile iff the stored version still equals
// expectedVersion. Expected version 0 creates the record if absent.
func (s *SQLite) CompareAndSwap(ctx context.Context, userID string, expectedVersion int64, profile domain.GamificationProfile) error {
	data, err := json.Marshal(profile)
	if err != nil {
		return fmt.Errorf("encode profile: %w", err)
	}
	now := time.Now().Unix()

	var result sql.Result
	if expectedVersion == 0 {
		result, err = s.db.ExecContext(ctx,
			`INSERT INTO profiles (user_id, version, points, data, updated_at)
			 VALUES (?, ?, ?, ?, ?)
			 ON CONFLICT(user_id) DO NOTHING`,
			userID, profile.Version, profile.Points, string(data), now,
		)
	} else {
		result, err = s.db.ExecContext(ctx,
			`UPDATE profiles SET version = ?, points = ?, data = ?, updated_at = ?
			 WHERE user_id = ? AND version = ?`,
			profile.Version, profile.Points, string(data), now, userID, expectedVersion,
		)
	}
	if err != nil {
		return fmt.Errorf("commit profile: %w", err)
	}

	n, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("commit profile: %w", err)
	}
	if n == 0 {
		return domain.ErrVersionConflict
	}
	return nil
}

// TopByPoints returns the top users by points, descending.
func (s *SQLite) TopByPoints(ctx context.Context, limit int) ([]domain.LeaderboardEntry, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT user_id, points FROM profiles ORDER BY points DESC, user_id ASC LIMIT ?`, limit,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var entries []domain.LeaderboardEntry
	for rows.Next() {
		var e domain.LeaderboardEntry
		if err := rows.Scan(&e.UserID, &e.Points); err != nil {
			return nil, err
		}
		entries = append(entries, e)
	}
	return entries, rows.Err()
}

// AppendActivity records a feed entry.
func (s *SQLite) AppendActivity(ctx context.Context, entry domain.ActivityEntry) error {
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO activities (id, user_id, kind, detail, points, at) VALUES (?, ?, ?, ?, ?, ?)`,
		entry.ID, entry.UserID, string(entry.Kind), entry.Detail, entry.PointsEarned, entry.At.Unix(),
	)
	return err
}

// RecentActivity returns the newest entries first.
func (s *SQLite) RecentActivity(ctx context.Context, userID string, limit int) ([]domain.ActivityEntry, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, kind, detail, points, at FROM activities
		 WHERE user_id = ? ORDER BY at DESC, id DESC LIMIT ?`,
		userID, limit,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var entries []domain.ActivityEntry
	for rows.Next() {
		var e domain.ActivityEntry
		var kind string
		var at int64
		if err := rows.Scan(&e.ID, &kind, &e.Detail, &e.PointsEarned, &at); err != nil {
			return nil, err
		}
		e.UserID = userID
		e.Kind = domain.ActivityKind(kind)
		e.At = time.Unix(at, 0).UTC()
		entries = append(entries, e)
	}
	return entries, rows.Err()
}

// ensureMaps initializes nil state maps after JSON decoding; empty maps
// marshal as absent.
func ensureMaps(p *domain.GamificationProfile) {
	if p.Achievements == nil {
		p.Achievements = make(map[string]domain.AchievementState)
	}
	if p.Challenges == nil {
		p.Challenges = make(map[string]domain.ChallengeState)
	}
	if p.Quests == nil {
		p.Quests = make(map[string]domain.QuestState)
	}
}
