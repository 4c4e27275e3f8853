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

type levelRepository struct {
	db *sql.DB
}

// NewLevelRepository creates a new LevelRepository implementation
func NewLevelRepository(db *sql.DB) repository.LevelRepository {
	return &levelRepository{db: db}
}

func (r *levelRepository) Get(ctx context.Context, id int64) (*models.Level, error) {
	log := logger.FromContext(ctx).WithPrefix("level_repo")
	log.Debug("getting level: id=%d", id)

	var l models.Level
	err := r.db.QueryRowContext(ctx, `
SELECT id, name, description, sort_order, required_score
FROM levels
WHERE id = ?
`, id).Scan(&l.ID, &l.Name, &l.Description, &l.SortOrder, &l.RequiredScore)
	if errors.Is(err, sql.ErrNoRows) {
		log.Debug("level not found: id=%d", id)
		return nil, nil
	}
	if err != nil {
		log.Error("failed to get level: %v", err)
		return nil, err
	}
	return &l, nil
}

func (r *levelRepository) List(ctx context.Context) ([]models.Level, error) {
	log := logger.FromContext(ctx).WithPrefix("level_repo")
	log.Debug("listing levels")

	rows, err := r.db.QueryContext(ctx, `
SELECT id, name, description, sort_order, required_score
FROM levels
ORDER BY sort_order ASC
`)
	if err != nil {
		log.Error("failed to list levels: %v", err)
		return nil, err
	}
	defer rows.Close()

	var levels []models.Level
	for rows.Next() {
		var l models.Level
		if err := rows.Scan(&l.ID, &l.Name, &l.Description, &l.SortOrder, &l.RequiredScore); err != nil {
			log.Error("failed to scan level row: %v", err)
			return nil, err
		}
		levels = append(levels, l)
	}
	log.Debug("found %d levels", len(levels))
	return levels, rows.Err()
}

func (r *levelRepository) UserLevels(ctx context.Context, userID string) ([]models.UserLevel, error) {
	log := logger.FromContext(ctx).WithPrefix("level_repo")
	log.Debug("listing user levels: user_id=%s", userID)

	rows, err := r.db.QueryContext(ctx, `
SELECT ul.id, ul.user_id, ul.level_id, ul.completed, ul.score, ul.accuracy
FROM user_levels ul
JOIN levels l ON l.id = ul.level_id
WHERE ul.user_id = ?
ORDER BY l.sort_order ASC
`, userID)
	if err != nil {
		log.Error("failed to list user levels: %v", err)
		return nil, err
	}
	defer rows.Close()

	var userLevels []models.UserLevel
	for rows.Next() {
		var ul models.UserLevel
		if err := rows.Scan(&ul.ID, &ul.UserID, &ul.LevelID, &ul.Completed, &ul.Score, &ul.Accuracy); err != nil {
			log.Error("failed to scan user level row: %v", err)
			return nil, err
		}
		userLevels = append(userLevels, ul)
	}
	log.Debug("found %d user levels", len(userLevels))
	return userLevels, rows.Err()
}

func (r *levelRepository) UpsertUserLevel(ctx context.Context, userLevel models.UserLevel) (*models.UserLevel, error) {
	log := logger.FromContext(ctx).WithPrefix("level_repo")
	log.Debug("upserting user level: user_id=%s, level_id=%d, score=%d",
		userLevel.UserID, userLevel.LevelID, userLevel.Score)

	var ul models.UserLevel
	err := r.db.QueryRowContext(ctx, `
INSERT INTO user_levels (id, user_id, level_id, completed, score, accuracy)
VALUES (?, ?, ?, ?, ?, ?)
ON CONFLICT(user_id, level_id) DO UPDATE SET
    completed = excluded.completed,
    score = excluded.score,
    accuracy = excluded.accuracy
RETURNING id, user_id, level_id, completed, score, accuracy
`, uuid.NewString(), userLevel.UserID, userLevel.LevelID, userLevel.Completed, userLevel.Score, userLevel.Accuracy).
		Scan(&ul.ID, &ul.UserID, &ul.LevelID, &ul.Completed, &ul.Score, &ul.Accuracy)
	if err != nil {
		log.Error("failed to upsert user level: %v", err)
		return nil, err
	}
	log.Debug("user level upserted: id=%s", ul.ID)
	return &ul, nil
}
