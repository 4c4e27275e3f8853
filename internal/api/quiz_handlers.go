package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/dfarias/linguaflash/internal/logger"
	"github.com/dfarias/linguaflash/internal/models"
	"github.com/dfarias/linguaflash/internal/session"

	apperrors "github.com/dfarias/linguaflash/internal/errors"
)

type submitAttemptRequest struct {
	Answer string `json:"answer"`
}

func (s *Server) handleSubmitAttempt(w http.ResponseWriter, r *http.Request) {
	log := logger.FromContext(r.Context())

	quizID := chi.URLParam(r, "id")
	if quizID == "" {
		handleError(w, r, apperrors.NewBadRequestError("missing quiz ID"))
		return
	}

	var req submitAttemptRequest
	if err := decodeJSON(r, &req); err != nil {
		log.Warn("invalid attempt body: %v", err)
		handleError(w, r, apperrors.NewBadRequestError("invalid request body"))
		return
	}
	if req.Answer == "" {
		handleError(w, r, apperrors.NewValidationError("answer", "must not be empty"))
		return
	}

	sess := session.FromContext(r.Context())
	attempt, err := s.QuizService.SubmitAttempt(r.Context(), sess, quizID, req.Answer)
	if err != nil {
		handleError(w, r, err)
		return
	}

	log.Info("quiz attempt submitted: quiz_id=%s, correct=%t", quizID, attempt.IsCorrect)
	respondJSON(w, http.StatusCreated, map[string]any{"attempt": attempt})
}

func (s *Server) handleListAttempts(w http.ResponseWriter, r *http.Request) {
	log := logger.FromContext(r.Context())

	quizID := chi.URLParam(r, "id")
	if quizID == "" {
		handleError(w, r, apperrors.NewBadRequestError("missing quiz ID"))
		return
	}
	log.Debug("listing attempts: quiz_id=%s", quizID)

	sess := session.FromContext(r.Context())
	attempts, err := s.QuizService.ListAttempts(r.Context(), sess, quizID)
	if err != nil {
		handleError(w, r, err)
		return
	}
	if attempts == nil {
		attempts = []models.QuizAttempt{}
	}

	respondJSON(w, http.StatusOK, map[string]any{"attempts": attempts})
}
