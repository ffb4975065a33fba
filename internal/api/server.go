// Package api provides the HTTP server for the progression engine. Route
// handlers are thin: they translate JSON bodies into facade calls and map
// each domain error kind to a distinct HTTP status.
package api

import (
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/swanstudios/progression/internal/app/progression"
	"github.com/swanstudios/progression/internal/domain"
	"github.com/swanstudios/progression/internal/health"
)

// Server is the progression HTTP API server.
type Server struct {
	facade         *progression.Facade
	health         *health.Checker
	metricsEnabled bool
}

// NewServer creates a new API server around the facade.
func NewServer(facade *progression.Facade) *Server {
	return &Server{facade: facade}
}

// EnableMetrics enables the /metrics Prometheus endpoint.
func (s *Server) EnableMetrics() { s.metricsEnabled = true }

// SetHealth attaches a health checker for the /health endpoint.
func (s *Server) SetHealth(h *health.Checker) { s.health = h }

// Handler returns the chi router with all routes mounted.
func (s *Server) Handler() http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Recoverer)
	r.Use(middleware.Timeout(30 * time.Second))
	r.Use(corsMiddleware)

	r.Get("/health", s.handleHealth)

	r.Get("/api/status", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})

	r.Route("/api/v1", func(r chi.Router) {
		r.Get("/leaderboard", s.handleLeaderboard)

		r.Route("/users/{userID}", func(r chi.Router) {
			r.Get("/profile", s.handleGetProfile)
			r.Get("/summary", s.handleSummary)
			r.Get("/activity", s.handleActivity)

			r.Get("/achievements", s.handleGetAchievements)
			r.Post("/achievements/{achievementID}/progress", s.handleAchievementProgress)

			r.Get("/board", s.handleGetBoard)
			r.Post("/board/roll", s.handleRollDice)

			r.Get("/challenges", s.handleListChallenges)
			r.Post("/challenges/{challengeID}/join", s.handleJoinChallenge)
			r.Post("/challenges/{challengeID}/progress", s.handleChallengeProgress)

			r.Get("/quests", s.handleListQuests)
			r.Post("/quests/{questID}/complete", s.handleCompleteQuest)

			r.Post("/workouts", s.handleWorkoutCompleted)
		})
	})

	if s.metricsEnabled {
		r.Handle("/metrics", promhttp.Handler())
	}

	return r
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	if s.health == nil {
		writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
		return
	}
	statuses := s.health.Statuses()
	code := http.StatusOK
	state := "healthy"
	if !s.health.IsHealthy() {
		code = http.StatusServiceUnavailable
		state = "unhealthy"
	}
	writeJSON(w, code, map[string]interface{}{
		"status": state,
		"checks": statuses,
	})
}

// ─── Helpers ────────────────────────────────────────────────────────────────

// statusForError maps domain error kinds to HTTP statuses. Unknown errors
// are internal.
func statusForError(err error) int {
	switch {
	case errors.Is(err, domain.ErrInvalidArgument):
		return http.StatusBadRequest
	case errors.Is(err, domain.ErrNotFound), errors.Is(err, domain.ErrProfileNotFound):
		return http.StatusNotFound
	case errors.Is(err, domain.ErrCooldown):
		return http.StatusTooManyRequests
	case errors.Is(err, domain.ErrInsufficientResource),
		errors.Is(err, domain.ErrAlreadyJoined),
		errors.Is(err, domain.ErrNotJoined):
		return http.StatusConflict
	case errors.Is(err, domain.ErrChallengeEnded):
		return http.StatusGone
	case errors.Is(err, domain.ErrBusy):
		return http.StatusServiceUnavailable
	default:
		return http.StatusInternalServerError
	}
}

// writeJSON writes a JSON response.
func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

// writeError writes a JSON error response for a domain error.
func writeError(w http.ResponseWriter, err error) {
	writeJSON(w, statusForError(err), map[string]interface{}{
		"error": map[string]interface{}{
			"message": err.Error(),
			"type":    "error",
		},
	})
}

// corsMiddleware adds CORS headers for the dashboard frontends.
func corsMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Methods", "GET, POST, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type, Authorization")
		if r.Method == "OPTIONS" {
			w.WriteHeader(http.StatusOK)
			return
		}
		next.ServeHTTP(w, r)
	})
}
