package services

import (
	"context"

	"github.com/dfarias/linguaflash/internal/authz"
	"github.com/dfarias/linguaflash/internal/logger"
	"github.com/dfarias/linguaflash/internal/models"
	"github.com/dfarias/linguaflash/internal/repository"
	"github.com/dfarias/linguaflash/internal/session"

	apperrors "github.com/dfarias/linguaflash/internal/errors"
)

// FlashcardService exposes the flashcard catalog to the view layer.
type FlashcardService interface {
	GetFlashcard(ctx context.Context, s session.Session, id int64) (*models.Flashcard, error)
	ListFlashcards(ctx context.Context, s session.Session, filter models.FlashcardFilter) ([]models.Flashcard, error)
}

type flashcardService struct {
	authorizer *authz.Engine
	flashcards repository.FlashcardRepository
}

// NewFlashcardService creates a new FlashcardService
func NewFlashcardService(authorizer *authz.Engine, flashcards repository.FlashcardRepository) FlashcardService {
	return &flashcardService{authorizer: authorizer, flashcards: flashcards}
}

func (s *flashcardService) GetFlashcard(ctx context.Context, sess session.Session, id int64) (*models.Flashcard, error) {
	log := logger.FromContext(ctx)
	log.Debug("getting flashcard: user_id=%s, flashcard_id=%d", sess.UserID, id)

	if err := s.authorizer.Authorize(ctx, sess, authz.TableFlashcards, authz.OpSelect, authz.Attributes{}); err != nil {
		return nil, err
	}

	card, err := s.flashcards.Get(ctx, id)
	if err != nil {
		log.Error("failed to get flashcard: %v", err)
		return nil, translateReadError(err)
	}
	if card == nil {
		return nil, apperrors.NewNotFoundError("flashcard", id)
	}
	return card, nil
}

func (s *flashcardService) ListFlashcards(ctx context.Context, sess session.Session, filter models.FlashcardFilter) ([]models.Flashcard, error) {
	log := logger.FromContext(ctx)
	log.Debug("listing flashcards: user_id=%s", sess.UserID)

	if err := s.authorizer.Authorize(ctx, sess, authz.TableFlashcards, authz.OpSelect, authz.Attributes{}); err != nil {
		return nil, err
	}

	cards, err := s.flashcards.List(ctx, filter)
	if err != nil {
		log.Error("failed to list flashcards: %v", err)
		return nil, translateReadError(err)
	}
	return cards, nil
}
