package models

// Level groups flashcards and quizzes into an ordered progression.
// SortOrder is the unique sequencing key; RequiredScore is the minimum
// quiz score to complete the level.
type Level struct {
	ID            int64   `json:"id"`
	Name          string  `json:"name"`
	Description   *string `json:"description"`
	SortOrder     int     `json:"sort_order"`
	RequiredScore int     `json:"required_score"`
}

// UserLevel tracks one user's standing on one level. At most one row per
// (user_id, level_id); writes go through an upsert on that key.
type UserLevel struct {
	ID        string  `json:"id"`
	UserID    string  `json:"user_id"`
	LevelID   int64   `json:"level_id"`
	Completed bool    `json:"completed"`
	Score     int     `json:"score"`
	Accuracy  float64 `json:"accuracy"`
}
