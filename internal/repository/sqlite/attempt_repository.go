package sqlite

import (
	"context"
	"database/sql"

	"github.com/dfarias/linguaflash/internal/logger"
	"github.com/dfarias/linguaflash/internal/models"
	"github.com/dfarias/linguaflash/internal/repository"
)

type attemptRepository struct {
	db *sql.DB
}

// NewAttemptRepository creates a new AttemptRepository implementation
func NewAttemptRepository(db *sql.DB) repository.AttemptRepository {
	return &attemptRepository{db: db}
}

func (r *attemptRepository) Insert(ctx context.Context, attempt models.QuizAttempt) error {
	log := logger.FromContext(ctx).WithPrefix("attempt_repo")
	log.Debug("inserting attempt: user_id=%s, quiz_id=%s, correct=%t",
		attempt.UserID, attempt.QuizID, attempt.IsCorrect)

	_, err := r.db.ExecContext(ctx, `
INSERT INTO quiz_attempts (id, user_id, quiz_id, answer, is_correct)
VALUES (?, ?, ?, ?, ?)
`, attempt.ID, attempt.UserID, attempt.QuizID, attempt.Answer, attempt.IsCorrect)
	if err != nil {
		log.Error("failed to insert attempt: %v", err)
	}
	return err
}

func (r *attemptRepository) ListForQuiz(ctx context.Context, userID, quizID string) ([]models.QuizAttempt, error) {
	log := logger.FromContext(ctx).WithPrefix("attempt_repo")
	log.Debug("listing attempts: user_id=%s, quiz_id=%s", userID, quizID)

	rows, err := r.db.QueryContext(ctx, `
SELECT id, user_id, quiz_id, answer, is_correct, created_at
FROM quiz_attempts
WHERE user_id = ? AND quiz_id = ?
ORDER BY created_at ASC, id ASC
`, userID, quizID)
	if err != nil {
		log.Error("failed to list attempts: %v", err)
		return nil, err
	}
	defer rows.Close()

	var attempts []models.QuizAttempt
	for rows.Next() {
		var a models.QuizAttempt
		if err := rows.Scan(&a.ID, &a.UserID, &a.QuizID, &a.Answer, &a.IsCorrect, &a.CreatedAt); err != nil {
			log.Error("failed to scan attempt row: %v", err)
			return nil, err
		}
		attempts = append(attempts, a)
	}
	log.Debug("found %d attempts", len(attempts))
	return attempts, rows.Err()
}
