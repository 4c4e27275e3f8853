package models

import "time"

// UserProgress records whether a user knows a flashcard. At most one row
// per (user_id, flashcard_id); writes go through an upsert on that key.
type UserProgress struct {
	ID          string    `json:"id"`
	UserID      string    `json:"user_id"`
	FlashcardID int64     `json:"flashcard_id"`
	Known       bool      `json:"known"`
	CreatedAt   time.Time `json:"created_at"`
}
