package models

import "time"

// Flashcard is catalog data: globally readable, seeded by migrations,
// never mutated through the service.
type Flashcard struct {
	ID          int64     `json:"id"`
	Word        string    `json:"word"`
	Translation string    `json:"translation"`
	Category    string    `json:"category"`
	LevelID     *int64    `json:"level_id"`
	CreatedAt   time.Time `json:"created_at"`
}

// FlashcardFilter narrows flashcard listings. Zero values mean "no filter".
type FlashcardFilter struct {
	Category string
	LevelID  int64
	Limit    int
	Offset   int
}
