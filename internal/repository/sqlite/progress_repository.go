package sqlite

import (
	"context"
	"database/sql"
	"errors"

	"github.com/google/uuid"

	"github.com/dfarias/linguaflash/internal/logger"
	"github.com/dfarias/linguaflash/internal/models"
	"github.com/dfarias/linguaflash/internal/repository"
)

type progressRepository struct {
	db *sql.DB
}

// NewProgressRepository creates a new ProgressRepository implementation
func NewProgressRepository(db *sql.DB) repository.ProgressRepository {
	return &progressRepository{db: db}
}

func (r *progressRepository) Get(ctx context.Context, userID string, flashcardID int64) (*models.UserProgress, error) {
	log := logger.FromContext(ctx).WithPrefix("progress_repo")
	log.Debug("getting progress: user_id=%s, flashcard_id=%d", userID, flashcardID)

	var p models.UserProgress
	err := r.db.QueryRowContext(ctx, `
SELECT id, user_id, flashcard_id, known, created_at
FROM user_progress
WHERE user_id = ? AND flashcard_id = ?
`, userID, flashcardID).Scan(&p.ID, &p.UserID, &p.FlashcardID, &p.Known, &p.CreatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		log.Debug("no progress row: user_id=%s, flashcard_id=%d", userID, flashcardID)
		return nil, nil
	}
	if err != nil {
		log.Error("failed to get progress: %v", err)
		return nil, err
	}
	return &p, nil
}

func (r *progressRepository) KnownFlashcardIDs(ctx context.Context, userID string) (map[int64]struct{}, error) {
	log := logger.FromContext(ctx).WithPrefix("progress_repo")
	log.Debug("listing known flashcard ids: user_id=%s", userID)

	rows, err := r.db.QueryContext(ctx, `
SELECT flashcard_id
FROM user_progress
WHERE user_id = ? AND known = 1
`, userID)
	if err != nil {
		log.Error("failed to query known flashcards: %v", err)
		return nil, err
	}
	defer rows.Close()

	ids := make(map[int64]struct{})
	for rows.Next() {
		var id int64
		if err := rows.Scan(&id); err != nil {
			log.Error("failed to scan flashcard id: %v", err)
			return nil, err
		}
		ids[id] = struct{}{}
	}
	log.Debug("found %d known flashcards", len(ids))
	return ids, rows.Err()
}

func (r *progressRepository) Upsert(ctx context.Context, progress models.UserProgress) (*models.UserProgress, error) {
	log := logger.FromContext(ctx).WithPrefix("progress_repo")
	log.Debug("upserting progress: user_id=%s, flashcard_id=%d, known=%t",
		progress.UserID, progress.FlashcardID, progress.Known)

	// Single conditional-write statement keyed on (user_id, flashcard_id):
	// concurrent callers resolve to exactly one row without a
	// read-then-write race.
	var p models.UserProgress
	err := r.db.QueryRowContext(ctx, `
INSERT INTO user_progress (id, user_id, flashcard_id, known)
VALUES (?, ?, ?, ?)
ON CONFLICT(user_id, flashcard_id) DO UPDATE SET known = excluded.known
RETURNING id, user_id, flashcard_id, known, created_at
`, uuid.NewString(), progress.UserID, progress.FlashcardID, progress.Known).
		Scan(&p.ID, &p.UserID, &p.FlashcardID, &p.Known, &p.CreatedAt)
	if err != nil {
		log.Error("failed to upsert progress: %v", err)
		return nil, err
	}
	log.Debug("progress upserted: id=%s", p.ID)
	return &p, nil
}
