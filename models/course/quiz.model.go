package course

import "time"

// Quiz belongs to exactly one lesson.
type Quiz struct {
	ID        uint       `json:"id"`
	LessonID  uint       `json:"lesson_id"`
	Title     string     `json:"title"`
	Questions []Question `json:"questions"`
}

// Question carries its options and up to three answer encodings. The backend
// has shipped all of them over time, so every one is still honoured:
// CorrectAnswer, then CorrectIndex (0-based), then CorrectOption (1-based),
// then the IsCorrect flag on the options.
type Question struct {
	ID            uint         `json:"id"`
	Text          string       `json:"question"`
	Options       []QuizOption `json:"options"`
	CorrectAnswer *string      `json:"correct_answer,omitempty"`
	CorrectIndex  *int         `json:"correct_index,omitempty"`
	CorrectOption *int         `json:"correct_option,omitempty"`
}

type QuizOption struct {
	Text      string `json:"text"`
	IsCorrect bool   `json:"is_correct,omitempty"`
}

// QuizSubmission is appended once per attempt and never updated.
type QuizSubmission struct {
	ID         uint            `json:"id,omitempty"`
	AttemptKey string          `json:"attempt_key"`
	UserID     uint            `json:"user_id"`
	QuizID     uint            `json:"quiz_id"`
	LessonID   uint            `json:"lesson_id"`
	Answers    map[uint]string `json:"answers"`
	Score      int             `json:"score"`
	Percentage float64         `json:"percentage"`
	Passed     bool            `json:"passed"`
	CreatedAt  *time.Time      `json:"created_at,omitempty"`
}
