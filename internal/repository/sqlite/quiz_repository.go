package sqlite

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/Masterminds/squirrel"

	"github.com/dfarias/linguaflash/internal/logger"
	"github.com/dfarias/linguaflash/internal/models"
	"github.com/dfarias/linguaflash/internal/repository"
)

type quizRepository struct {
	db *sql.DB
}

// NewQuizRepository creates a new QuizRepository implementation
func NewQuizRepository(db *sql.DB) repository.QuizRepository {
	return &quizRepository{db: db}
}

func (r *quizRepository) Get(ctx context.Context, id string) (*models.Quiz, error) {
	log := logger.FromContext(ctx).WithPrefix("quiz_repo")
	log.Debug("getting quiz: id=%s", id)

	var q models.Quiz
	var optionsJSON string
	err := r.db.QueryRowContext(ctx, `
SELECT id, level_id, question, correct_answer, options_json
FROM quizzes
WHERE id = ?
`, id).Scan(&q.ID, &q.LevelID, &q.Question, &q.CorrectAnswer, &optionsJSON)
	if errors.Is(err, sql.ErrNoRows) {
		log.Debug("quiz not found: id=%s", id)
		return nil, nil
	}
	if err != nil {
		log.Error("failed to get quiz: %v", err)
		return nil, err
	}
	if err := json.Unmarshal([]byte(optionsJSON), &q.Options); err != nil {
		log.Error("failed to decode quiz options: %v", err)
		return nil, fmt.Errorf("decode options for quiz %s: %w", id, err)
	}
	return &q, nil
}

func (r *quizRepository) List(ctx context.Context, filter models.QuizFilter) ([]models.Quiz, error) {
	log := logger.FromContext(ctx).WithPrefix("quiz_repo")
	log.Debug("listing quizzes: level_id=%d", filter.LevelID)

	query := sqlBuilder.Select(
		"id", "level_id", "question", "correct_answer", "options_json",
	).From("quizzes")

	if filter.LevelID != 0 {
		query = query.Where(squirrel.Eq{"level_id": filter.LevelID})
	}
	query = query.OrderBy("level_id ASC", "question ASC")

	if filter.Limit > 0 {
		query = query.Limit(uint64(filter.Limit))
	}
	if filter.Offset > 0 {
		query = query.Offset(uint64(filter.Offset))
	}

	sqlStr, args, err := query.ToSql()
	if err != nil {
		log.Error("failed to build query: %v", err)
		return nil, err
	}

	rows, err := r.db.QueryContext(ctx, sqlStr, args...)
	if err != nil {
		log.Error("failed to list quizzes: %v", err)
		return nil, err
	}
	defer rows.Close()

	var quizzes []models.Quiz
	for rows.Next() {
		var q models.Quiz
		var optionsJSON string
		if err := rows.Scan(&q.ID, &q.LevelID, &q.Question, &q.CorrectAnswer, &optionsJSON); err != nil {
			log.Error("failed to scan quiz row: %v", err)
			return nil, err
		}
		if err := json.Unmarshal([]byte(optionsJSON), &q.Options); err != nil {
			log.Error("failed to decode quiz options: %v", err)
			return nil, fmt.Errorf("decode options for quiz %s: %w", q.ID, err)
		}
		quizzes = append(quizzes, q)
	}
	log.Debug("found %d quizzes", len(quizzes))
	return quizzes, rows.Err()
}
