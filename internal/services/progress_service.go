package services

import (
	"context"

	"github.com/dfarias/linguaflash/internal/authz"
	"github.com/dfarias/linguaflash/internal/logger"
	"github.com/dfarias/linguaflash/internal/models"
	"github.com/dfarias/linguaflash/internal/repository"
	"github.com/dfarias/linguaflash/internal/session"
)

// ProgressService tracks which flashcards a user knows.
type ProgressService interface {
	Progress(ctx context.Context, s session.Session, flashcardID int64) (*models.UserProgress, error)
	KnownFlashcardIDs(ctx context.Context, s session.Session) (map[int64]struct{}, error)
	MarkKnown(ctx context.Context, s session.Session, flashcardID int64) (*models.UserProgress, error)
}

type progressService struct {
	authorizer *authz.Engine
	progress   repository.ProgressRepository
}

// NewProgressService creates a new ProgressService
func NewProgressService(authorizer *authz.Engine, progress repository.ProgressRepository) ProgressService {
	return &progressService{authorizer: authorizer, progress: progress}
}

func (s *progressService) Progress(ctx context.Context, sess session.Session, flashcardID int64) (*models.UserProgress, error) {
	log := logger.FromContext(ctx)
	log.Debug("fetching progress: user_id=%s, flashcard_id=%d", sess.UserID, flashcardID)

	attrs := authz.Attributes{Owner: sess.UserID}
	if err := s.authorizer.Authorize(ctx, sess, authz.TableUserProgress, authz.OpSelect, attrs); err != nil {
		return nil, err
	}

	// Nil when the user has never interacted with the card; that is not an
	// error, the caller renders it as absent progress.
	progress, err := s.progress.Get(ctx, sess.UserID, flashcardID)
	if err != nil {
		log.Error("failed to fetch progress: %v", err)
		return nil, translateReadError(err)
	}
	return progress, nil
}

func (s *progressService) KnownFlashcardIDs(ctx context.Context, sess session.Session) (map[int64]struct{}, error) {
	log := logger.FromContext(ctx)
	log.Debug("fetching known flashcard ids: user_id=%s", sess.UserID)

	attrs := authz.Attributes{Owner: sess.UserID}
	if err := s.authorizer.Authorize(ctx, sess, authz.TableUserProgress, authz.OpSelect, attrs); err != nil {
		return nil, err
	}

	// The query is scoped to the caller's own rows; the policy check above
	// guarantees the scope matches the session.
	ids, err := s.progress.KnownFlashcardIDs(ctx, sess.UserID)
	if err != nil {
		log.Error("failed to fetch known flashcards: %v", err)
		return nil, translateReadError(err)
	}
	return ids, nil
}

func (s *progressService) MarkKnown(ctx context.Context, sess session.Session, flashcardID int64) (*models.UserProgress, error) {
	log := logger.FromContext(ctx)
	log.Debug("marking flashcard known: user_id=%s, flashcard_id=%d", sess.UserID, flashcardID)

	// The upsert may insert or update, so both operations must be allowed,
	// and the row's owner stays the caller on either path.
	attrs := authz.Attributes{Owner: sess.UserID, NewOwner: sess.UserID}
	if err := s.authorizer.Authorize(ctx, sess, authz.TableUserProgress, authz.OpInsert, attrs); err != nil {
		return nil, err
	}
	if err := s.authorizer.Authorize(ctx, sess, authz.TableUserProgress, authz.OpUpdate, attrs); err != nil {
		return nil, err
	}

	progress, err := s.progress.Upsert(ctx, models.UserProgress{
		UserID:      sess.UserID,
		FlashcardID: flashcardID,
		Known:       true,
	})
	if err != nil {
		log.Error("failed to mark flashcard known: %v", err)
		return nil, translateWriteError(err, "flashcard", flashcardID)
	}

	log.Info("flashcard marked known: user_id=%s, flashcard_id=%d", sess.UserID, flashcardID)
	return progress, nil
}
