package api

import (
	"encoding/json"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
)

// ─── Profile / Summary ──────────────────────────────────────────────────────

func (s *Server) handleGetProfile(w http.ResponseWriter, r *http.Request) {
	view, err := s.facade.GetProfile(r.Context(), chi.URLParam(r, "userID"))
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, view)
}

func (s *Server) handleSummary(w http.ResponseWriter, r *http.Request) {
	summary, err := s.facade.Summary(r.Context(), chi.URLParam(r, "userID"))
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, summary)
}

func (s *Server) handleActivity(w http.ResponseWriter, r *http.Request) {
	limit, _ := strconv.Atoi(r.URL.Query().Get("limit"))
	entries, err := s.facade.RecentActivity(r.Context(), chi.URLParam(r, "userID"), limit)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{"activity": entries})
}

func (s *Server) handleLeaderboard(w http.ResponseWriter, r *http.Request) {
	limit, _ := strconv.Atoi(r.URL.Query().Get("limit"))
	entries, err := s.facade.Leaderboard(r.Context(), limit)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{"leaderboard": entries})
}

// ─── Achievements ───────────────────────────────────────────────────────────

func (s *Server) handleGetAchievements(w http.ResponseWriter, r *http.Request) {
	views, err := s.facade.GetAchievements(r.Context(), chi.URLParam(r, "userID"))
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{"achievements": views})
}

type achievementProgressRequest struct {
	Delta int `json:"delta"`
}

func (s *Server) handleAchievementProgress(w http.ResponseWriter, r *http.Request) {
	var req achievementProgressRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeBadRequest(w, "invalid JSON body")
		return
	}
	res, err := s.facade.ApplyAchievementProgress(
		r.Context(), chi.URLParam(r, "userID"), chi.URLParam(r, "achievementID"), req.Delta,
	)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, res)
}

// ─── Board ──────────────────────────────────────────────────────────────────

func (s *Server) handleGetBoard(w http.ResponseWriter, r *http.Request) {
	board, err := s.facade.GetBoardState(r.Context(), chi.URLParam(r, "userID"))
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, board)
}

type rollRequest struct {
	UseBoost bool `json:"use_boost"`
}

func (s *Server) handleRollDice(w http.ResponseWriter, r *http.Request) {
	var req rollRequest
	if r.ContentLength > 0 {
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			writeBadRequest(w, "invalid JSON body")
			return
		}
	}
	res, err := s.facade.RollDice(r.Context(), chi.URLParam(r, "userID"), req.UseBoost)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, res)
}

// ─── Challenges ─────────────────────────────────────────────────────────────

func (s *Server) handleListChallenges(w http.ResponseWriter, r *http.Request) {
	views, err := s.facade.ListChallenges(r.Context(), chi.URLParam(r, "userID"))
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{"challenges": views})
}

func (s *Server) handleJoinChallenge(w http.ResponseWriter, r *http.Request) {
	view, err := s.facade.JoinChallenge(
		r.Context(), chi.URLParam(r, "userID"), chi.URLParam(r, "challengeID"),
	)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, view)
}

type challengeProgressRequest struct {
	Progress int `json:"progress"`
}

func (s *Server) handleChallengeProgress(w http.ResponseWriter, r *http.Request) {
	var req challengeProgressRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeBadRequest(w, "invalid JSON body")
		return
	}
	view, err := s.facade.UpdateChallengeProgress(
		r.Context(), chi.URLParam(r, "userID"), chi.URLParam(r, "challengeID"), req.Progress,
	)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, view)
}

// ─── Kindness Quests ────────────────────────────────────────────────────────

func (s *Server) handleListQuests(w http.ResponseWriter, r *http.Request) {
	views, err := s.facade.ListKindnessQuests(r.Context(), chi.URLParam(r, "userID"))
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{"quests": views})
}

func (s *Server) handleCompleteQuest(w http.ResponseWriter, r *http.Request) {
	res, err := s.facade.CompleteKindnessQuest(
		r.Context(), chi.URLParam(r, "userID"), chi.URLParam(r, "questID"),
	)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, res)
}

// ─── Workout Signal ─────────────────────────────────────────────────────────

type workoutRequest struct {
	At time.Time `json:"at"`
}

func (s *Server) handleWorkoutCompleted(w http.ResponseWriter, r *http.Request) {
	var req workoutRequest
	if r.ContentLength > 0 {
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			writeBadRequest(w, "invalid JSON body")
			return
		}
	}
	res, err := s.facade.NotifyWorkoutCompleted(r.Context(), chi.URLParam(r, "userID"), req.At)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, res)
}

func writeBadRequest(w http.ResponseWriter, msg string) {
	writeJSON(w, http.StatusBadRequest, map[string]interface{}{
		"error": map[string]interface{}{
			"message": msg,
			"type":    "error",
		},
	})
}
