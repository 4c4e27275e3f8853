package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/dfarias/linguaflash/internal/services"
	"github.com/dfarias/linguaflash/internal/session"
)

// Server wires the HTTP surface to the access layer. Handlers never touch
// repositories or the database directly.
type Server struct {
	FlashcardService services.FlashcardService
	ProgressService  services.ProgressService
	QuizService      services.QuizService
	LevelService     services.LevelService

	SessionProvider session.Provider

	// DevTokenIssuer, when set, enables POST /dev/token for local
	// development. Production deployments leave it nil and mint tokens in
	// the external identity provider.
	DevTokenIssuer *session.TokenProvider
}

func (s *Server) Routes() http.Handler {
	r := chi.NewRouter()
	r.Use(recoveryMiddleware)
	r.Use(loggingMiddleware)

	r.Get("/health", s.handleHealth)
	if s.DevTokenIssuer != nil {
		r.Post("/dev/token", s.handleDevToken)
	}

	r.Group(func(r chi.Router) {
		r.Use(s.authMiddleware)

		r.Get("/flashcards", s.handleListFlashcards)
		r.Get("/flashcards/known", s.handleKnownFlashcards)
		r.Get("/flashcards/{id}", s.handleGetFlashcard)
		r.Get("/flashcards/{id}/progress", s.handleGetProgress)
		r.Post("/flashcards/{id}/known", s.handleMarkKnown)

		r.Get("/levels", s.handleListLevels)
		r.Get("/levels/{id}/quizzes", s.handleLevelQuizzes)
		r.Post("/levels/{id}/complete", s.handleCompleteLevel)
		r.Get("/progress/levels", s.handleUserLevels)

		r.Post("/quizzes/{id}/attempts", s.handleSubmitAttempt)
		r.Get("/quizzes/{id}/attempts", s.handleListAttempts)
	})

	return r
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}
