package repository

import (
	"context"

	"github.com/dfarias/linguaflash/internal/authz"
	"github.com/dfarias/linguaflash/internal/models"
)

// FlashcardRepository handles flashcard catalog access
type FlashcardRepository interface {
	Get(ctx context.Context, id int64) (*models.Flashcard, error)
	List(ctx context.Context, filter models.FlashcardFilter) ([]models.Flashcard, error)
}

// ProgressRepository handles per-user flashcard progress
type ProgressRepository interface {
	Get(ctx context.Context, userID string, flashcardID int64) (*models.UserProgress, error)
	KnownFlashcardIDs(ctx context.Context, userID string) (map[int64]struct{}, error)
	Upsert(ctx context.Context, progress models.UserProgress) (*models.UserProgress, error)
}

// LevelRepository handles the level catalog and per-user level standing
type LevelRepository interface {
	Get(ctx context.Context, id int64) (*models.Level, error)
	List(ctx context.Context) ([]models.Level, error)
	UserLevels(ctx context.Context, userID string) ([]models.UserLevel, error)
	UpsertUserLevel(ctx context.Context, userLevel models.UserLevel) (*models.UserLevel, error)
}

// QuizRepository handles the quiz catalog
type QuizRepository interface {
	Get(ctx context.Context, id string) (*models.Quiz, error)
	List(ctx context.Context, filter models.QuizFilter) ([]models.Quiz, error)
}

// AttemptRepository handles the append-only quiz attempt log
type AttemptRepository interface {
	Insert(ctx context.Context, attempt models.QuizAttempt) error
	ListForQuiz(ctx context.Context, userID, quizID string) ([]models.QuizAttempt, error)
}

// PolicyRepository loads the declarative access policies
type PolicyRepository interface {
	List(ctx context.Context) ([]authz.Policy, error)
}
