package domain

import "errors"

// ─── Sentinel Errors ────────────────────────────────────────────────────────
// Domain errors are pure, with no infrastructure dependency. The API layer maps
// each kind to a distinct HTTP status, so callers can tell a cooldown from a
// missing quest without string matching.

var (
	// Lookup errors
	ErrNotFound        = errors.New("unknown achievement, challenge, or quest id")
	ErrProfileNotFound = errors.New("gamification profile not found")

	// Validation errors
	ErrInvalidArgument = errors.New("invalid argument")

	// Board errors
	ErrCooldown             = errors.New("dice roll is on cooldown")
	ErrInsufficientResource = errors.New("no boosts available")

	// Challenge errors
	ErrAlreadyJoined  = errors.New("challenge already joined")
	ErrNotJoined      = errors.New("challenge not joined")
	ErrChallengeEnded = errors.New("challenge has ended")

	// Concurrency errors
	ErrVersionConflict = errors.New("profile version conflict")
	ErrBusy            = errors.New("too many concurrent updates, retry later")
)
