package api

import (
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/dfarias/linguaflash/internal/logger"
	"github.com/dfarias/linguaflash/internal/models"
	"github.com/dfarias/linguaflash/internal/session"

	apperrors "github.com/dfarias/linguaflash/internal/errors"
)

func (s *Server) handleListLevels(w http.ResponseWriter, r *http.Request) {
	log := logger.FromContext(r.Context())
	log.Debug("listing levels")

	sess := session.FromContext(r.Context())
	levels, err := s.LevelService.ListLevels(r.Context(), sess)
	if err != nil {
		handleError(w, r, err)
		return
	}
	if levels == nil {
		levels = []models.Level{}
	}

	respondJSON(w, http.StatusOK, map[string]any{"levels": levels})
}

func (s *Server) handleUserLevels(w http.ResponseWriter, r *http.Request) {
	log := logger.FromContext(r.Context())
	log.Debug("listing user levels")

	sess := session.FromContext(r.Context())
	userLevels, err := s.LevelService.UserLevels(r.Context(), sess)
	if err != nil {
		handleError(w, r, err)
		return
	}
	if userLevels == nil {
		userLevels = []models.UserLevel{}
	}

	respondJSON(w, http.StatusOK, map[string]any{"user_levels": userLevels})
}

func (s *Server) handleLevelQuizzes(w http.ResponseWriter, r *http.Request) {
	log := logger.FromContext(r.Context())

	idStr := chi.URLParam(r, "id")
	levelID, err := strconv.ParseInt(idStr, 10, 64)
	if err != nil {
		log.Warn("invalid level ID: %s", idStr)
		handleError(w, r, apperrors.NewBadRequestError("invalid level ID"))
		return
	}

	sess := session.FromContext(r.Context())
	quizzes, err := s.QuizService.ListQuizzes(r.Context(), sess, models.QuizFilter{LevelID: levelID})
	if err != nil {
		handleError(w, r, err)
		return
	}
	if quizzes == nil {
		quizzes = []models.Quiz{}
	}

	respondJSON(w, http.StatusOK, map[string]any{"quizzes": quizzes})
}

type completeLevelRequest struct {
	Score    int     `json:"score"`
	Accuracy float64 `json:"accuracy"`
}

func (s *Server) handleCompleteLevel(w http.ResponseWriter, r *http.Request) {
	log := logger.FromContext(r.Context())

	idStr := chi.URLParam(r, "id")
	levelID, err := strconv.ParseInt(idStr, 10, 64)
	if err != nil {
		log.Warn("invalid level ID: %s", idStr)
		handleError(w, r, apperrors.NewBadRequestError("invalid level ID"))
		return
	}

	var req completeLevelRequest
	if err := decodeJSON(r, &req); err != nil {
		log.Warn("invalid level completion body: %v", err)
		handleError(w, r, apperrors.NewBadRequestError("invalid request body"))
		return
	}

	sess := session.FromContext(r.Context())
	userLevel, err := s.LevelService.CompleteLevel(r.Context(), sess, levelID, req.Score, req.Accuracy)
	if err != nil {
		handleError(w, r, err)
		return
	}

	log.Info("level result recorded: level_id=%d, completed=%t", levelID, userLevel.Completed)
	respondJSON(w, http.StatusOK, map[string]any{"user_level": userLevel})
}
