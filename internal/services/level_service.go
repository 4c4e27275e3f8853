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

// LevelService exposes the level catalog and the caller's level standing.
type LevelService interface {
	ListLevels(ctx context.Context, s session.Session) ([]models.Level, error)
	UserLevels(ctx context.Context, s session.Session) ([]models.UserLevel, error)
	CompleteLevel(ctx context.Context, s session.Session, levelID int64, score int, accuracy float64) (*models.UserLevel, error)
}

type levelService struct {
	authorizer *authz.Engine
	levels     repository.LevelRepository
}

// NewLevelService creates a new LevelService
func NewLevelService(authorizer *authz.Engine, levels repository.LevelRepository) LevelService {
	return &levelService{authorizer: authorizer, levels: levels}
}

func (s *levelService) ListLevels(ctx context.Context, sess session.Session) ([]models.Level, error) {
	log := logger.FromContext(ctx)
	log.Debug("listing levels: user_id=%s", sess.UserID)

	if err := s.authorizer.Authorize(ctx, sess, authz.TableLevels, authz.OpSelect, authz.Attributes{}); err != nil {
		return nil, err
	}

	levels, err := s.levels.List(ctx)
	if err != nil {
		log.Error("failed to list levels: %v", err)
		return nil, translateReadError(err)
	}
	return levels, nil
}

func (s *levelService) UserLevels(ctx context.Context, sess session.Session) ([]models.UserLevel, error) {
	log := logger.FromContext(ctx)
	log.Debug("listing user levels: user_id=%s", sess.UserID)

	attrs := authz.Attributes{Owner: sess.UserID}
	if err := s.authorizer.Authorize(ctx, sess, authz.TableUserLevels, authz.OpSelect, attrs); err != nil {
		return nil, err
	}

	userLevels, err := s.levels.UserLevels(ctx, sess.UserID)
	if err != nil {
		log.Error("failed to list user levels: %v", err)
		return nil, translateReadError(err)
	}
	return userLevels, nil
}

func (s *levelService) CompleteLevel(ctx context.Context, sess session.Session, levelID int64, score int, accuracy float64) (*models.UserLevel, error) {
	log := logger.FromContext(ctx)
	log.Debug("recording level result: user_id=%s, level_id=%d, score=%d", sess.UserID, levelID, score)

	if score < 0 || score > 100 {
		return nil, apperrors.NewValidationError("score", "must be between 0 and 100")
	}
	if accuracy < 0 || accuracy > 100 {
		return nil, apperrors.NewValidationError("accuracy", "must be between 0 and 100")
	}

	if err := s.authorizer.Authorize(ctx, sess, authz.TableLevels, authz.OpSelect, authz.Attributes{}); err != nil {
		return nil, err
	}
	attrs := authz.Attributes{Owner: sess.UserID, NewOwner: sess.UserID}
	if err := s.authorizer.Authorize(ctx, sess, authz.TableUserLevels, authz.OpInsert, attrs); err != nil {
		return nil, err
	}
	if err := s.authorizer.Authorize(ctx, sess, authz.TableUserLevels, authz.OpUpdate, attrs); err != nil {
		return nil, err
	}

	level, err := s.levels.Get(ctx, levelID)
	if err != nil {
		log.Error("failed to load level: %v", err)
		return nil, translateReadError(err)
	}
	if level == nil {
		return nil, apperrors.NewNotFoundError("level", levelID)
	}

	userLevel, err := s.levels.UpsertUserLevel(ctx, models.UserLevel{
		UserID:    sess.UserID,
		LevelID:   levelID,
		Completed: score >= level.RequiredScore,
		Score:     score,
		Accuracy:  accuracy,
	})
	if err != nil {
		log.Error("failed to upsert user level: %v", err)
		return nil, translateWriteError(err, "level", levelID)
	}

	log.Info("level result recorded: user_id=%s, level_id=%d, completed=%t",
		sess.UserID, levelID, userLevel.Completed)
	return userLevel, nil
}
