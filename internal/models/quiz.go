package models

import "time"

// Quiz is a multiple-choice question attached to a level. CorrectAnswer is
// always one of Options; the repository rejects inserts that break this.
type Quiz struct {
	ID            string   `json:"id"`
	LevelID       int64    `json:"level_id"`
	Question      string   `json:"question"`
	CorrectAnswer string   `json:"correct_answer"`
	Options       []string `json:"options"`
}

// HasOption reports whether answer is one of the quiz's options.
func (q Quiz) HasOption(answer string) bool {
	for _, o := range q.Options {
		if o == answer {
			return true
		}
	}
	return false
}

// QuizFilter narrows quiz listings. Zero values mean "no filter".
type QuizFilter struct {
	LevelID int64
	Limit   int
	Offset  int
}

// QuizAttempt is one row of the append-only attempt log. Multiple attempts
// per quiz are allowed; rows are never updated or deleted.
type QuizAttempt struct {
	ID        string    `json:"id"`
	UserID    string    `json:"user_id"`
	QuizID    string    `json:"quiz_id"`
	Answer    string    `json:"answer"`
	IsCorrect bool      `json:"is_correct"`
	CreatedAt time.Time `json:"created_at"`
}
