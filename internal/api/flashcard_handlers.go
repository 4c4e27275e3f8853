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

func (s *Server) handleListFlashcards(w http.ResponseWriter, r *http.Request) {
	log := logger.FromContext(r.Context())
	log.Debug("listing flashcards")

	filter := models.FlashcardFilter{
		Category: r.URL.Query().Get("category"),
	}
	if v := r.URL.Query().Get("level_id"); v != "" {
		levelID, err := strconv.ParseInt(v, 10, 64)
		if err != nil {
			handleError(w, r, apperrors.NewBadRequestError("invalid level_id"))
			return
		}
		filter.LevelID = levelID
	}

	sess := session.FromContext(r.Context())
	cards, err := s.FlashcardService.ListFlashcards(r.Context(), sess, filter)
	if err != nil {
		handleError(w, r, err)
		return
	}
	if cards == nil {
		cards = []models.Flashcard{}
	}

	respondJSON(w, http.StatusOK, map[string]any{"flashcards": cards})
}

func (s *Server) handleGetFlashcard(w http.ResponseWriter, r *http.Request) {
	log := logger.FromContext(r.Context())

	idStr := chi.URLParam(r, "id")
	id, err := strconv.ParseInt(idStr, 10, 64)
	if err != nil {
		log.Warn("invalid flashcard ID: %s", idStr)
		handleError(w, r, apperrors.NewBadRequestError("invalid flashcard ID"))
		return
	}

	sess := session.FromContext(r.Context())
	card, err := s.FlashcardService.GetFlashcard(r.Context(), sess, id)
	if err != nil {
		handleError(w, r, err)
		return
	}

	respondJSON(w, http.StatusOK, map[string]any{"flashcard": card})
}

func (s *Server) handleGetProgress(w http.ResponseWriter, r *http.Request) {
	log := logger.FromContext(r.Context())

	idStr := chi.URLParam(r, "id")
	id, err := strconv.ParseInt(idStr, 10, 64)
	if err != nil {
		log.Warn("invalid flashcard ID: %s", idStr)
		handleError(w, r, apperrors.NewBadRequestError("invalid flashcard ID"))
		return
	}

	sess := session.FromContext(r.Context())
	progress, err := s.ProgressService.Progress(r.Context(), sess, id)
	if err != nil {
		handleError(w, r, err)
		return
	}

	respondJSON(w, http.StatusOK, map[string]any{"progress": progress})
}

func (s *Server) handleKnownFlashcards(w http.ResponseWriter, r *http.Request) {
	log := logger.FromContext(r.Context())
	log.Debug("listing known flashcard ids")

	sess := session.FromContext(r.Context())
	ids, err := s.ProgressService.KnownFlashcardIDs(r.Context(), sess)
	if err != nil {
		handleError(w, r, err)
		return
	}

	known := make([]int64, 0, len(ids))
	for id := range ids {
		known = append(known, id)
	}
	respondJSON(w, http.StatusOK, map[string]any{"known_flashcard_ids": known})
}

func (s *Server) handleMarkKnown(w http.ResponseWriter, r *http.Request) {
	log := logger.FromContext(r.Context())

	idStr := chi.URLParam(r, "id")
	id, err := strconv.ParseInt(idStr, 10, 64)
	if err != nil {
		log.Warn("invalid flashcard ID: %s", idStr)
		handleError(w, r, apperrors.NewBadRequestError("invalid flashcard ID"))
		return
	}

	sess := session.FromContext(r.Context())
	progress, err := s.ProgressService.MarkKnown(r.Context(), sess, id)
	if err != nil {
		handleError(w, r, err)
		return
	}

	log.Info("flashcard marked known: flashcard_id=%d", id)
	respondJSON(w, http.StatusOK, map[string]any{"progress": progress})
}
