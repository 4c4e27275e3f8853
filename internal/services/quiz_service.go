package services

import (
	"context"
	"strings"

	"github.com/google/uuid"

	"github.com/dfarias/linguaflash/internal/authz"
	"github.com/dfarias/linguaflash/internal/logger"
	"github.com/dfarias/linguaflash/internal/models"
	"github.com/dfarias/linguaflash/internal/repository"
	"github.com/dfarias/linguaflash/internal/session"

	apperrors "github.com/dfarias/linguaflash/internal/errors"
)

// QuizService grades quiz answers and exposes the quiz catalog and the
// caller's attempt history.
type QuizService interface {
	ListQuizzes(ctx context.Context, s session.Session, filter models.QuizFilter) ([]models.Quiz, error)
	SubmitAttempt(ctx context.Context, s session.Session, quizID, answer string) (*models.QuizAttempt, error)
	ListAttempts(ctx context.Context, s session.Session, quizID string) ([]models.QuizAttempt, error)
}

type quizService struct {
	authorizer *authz.Engine
	quizzes    repository.QuizRepository
	attempts   repository.AttemptRepository
}

// NewQuizService creates a new QuizService
func NewQuizService(authorizer *authz.Engine, quizzes repository.QuizRepository, attempts repository.AttemptRepository) QuizService {
	return &quizService{authorizer: authorizer, quizzes: quizzes, attempts: attempts}
}

func (s *quizService) ListQuizzes(ctx context.Context, sess session.Session, filter models.QuizFilter) ([]models.Quiz, error) {
	log := logger.FromContext(ctx)
	log.Debug("listing quizzes: user_id=%s, level_id=%d", sess.UserID, filter.LevelID)

	if err := s.authorizer.Authorize(ctx, sess, authz.TableQuizzes, authz.OpSelect, authz.Attributes{}); err != nil {
		return nil, err
	}

	quizzes, err := s.quizzes.List(ctx, filter)
	if err != nil {
		log.Error("failed to list quizzes: %v", err)
		return nil, translateReadError(err)
	}
	return quizzes, nil
}

func (s *quizService) SubmitAttempt(ctx context.Context, sess session.Session, quizID, answer string) (*models.QuizAttempt, error) {
	log := logger.FromContext(ctx)
	log.Debug("submitting quiz attempt: user_id=%s, quiz_id=%s", sess.UserID, quizID)

	if err := s.authorizer.Authorize(ctx, sess, authz.TableQuizzes, authz.OpSelect, authz.Attributes{}); err != nil {
		return nil, err
	}
	attrs := authz.Attributes{Owner: sess.UserID}
	if err := s.authorizer.Authorize(ctx, sess, authz.TableQuizAttempts, authz.OpInsert, attrs); err != nil {
		return nil, err
	}

	quiz, err := s.quizzes.Get(ctx, quizID)
	if err != nil {
		log.Error("failed to load quiz: %v", err)
		return nil, translateReadError(err)
	}
	if quiz == nil {
		return nil, apperrors.NewNotFoundError("quiz", quizID)
	}

	attempt := models.QuizAttempt{
		ID:        uuid.NewString(),
		UserID:    sess.UserID,
		QuizID:    quizID,
		Answer:    answer,
		IsCorrect: grade(answer, quiz.CorrectAnswer),
	}

	if err := s.attempts.Insert(ctx, attempt); err != nil {
		log.Error("failed to record attempt: %v", err)
		return nil, translateWriteError(err, "quiz", quizID)
	}

	log.Info("quiz attempt recorded: user_id=%s, quiz_id=%s, correct=%t",
		sess.UserID, quizID, attempt.IsCorrect)
	return &attempt, nil
}

func (s *quizService) ListAttempts(ctx context.Context, sess session.Session, quizID string) ([]models.QuizAttempt, error) {
	log := logger.FromContext(ctx)
	log.Debug("listing attempts: user_id=%s, quiz_id=%s", sess.UserID, quizID)

	attrs := authz.Attributes{Owner: sess.UserID}
	if err := s.authorizer.Authorize(ctx, sess, authz.TableQuizAttempts, authz.OpSelect, attrs); err != nil {
		return nil, err
	}

	attempts, err := s.attempts.ListForQuiz(ctx, sess.UserID, quizID)
	if err != nil {
		log.Error("failed to list attempts: %v", err)
		return nil, translateReadError(err)
	}
	return attempts, nil
}

// grade compares a submitted answer against the correct one. Surrounding
// whitespace is ignored; the comparison itself is byte-exact and
// case-sensitive ("hola" does not match "Hola").
func grade(answer, correct string) bool {
	return strings.TrimSpace(answer) == strings.TrimSpace(correct)
}
