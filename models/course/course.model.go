package course

import "time"

// Course is the catalog entry served by the backend together with its lessons.
// The gateway never mutates it.
type Course struct {
	ID           uint       `json:"id"`
	Title        string     `json:"title"`
	Description  string     `json:"description"`
	Author       string     `json:"author"`
	ThumbnailURL string     `json:"thumbnail_url"`
	Price        float64    `json:"price"`
	ValidFrom    *time.Time `json:"valid_from"`  // nil means no lower bound
	ValidUntil   *time.Time `json:"valid_until"` // nil means no upper bound
	Lessons      []Lesson   `json:"lessons"`
}

// Lesson is an ordered unit of course content.
type Lesson struct {
	ID          uint   `json:"id"`
	CourseID    uint   `json:"course_id"`
	Title       string `json:"title"`
	OrderIndex  int    `json:"order_index"` // unique within a course
	VideoURL    string `json:"video_url,omitempty"`
	DocumentURL string `json:"document_url,omitempty"`
	Quiz        *Quiz  `json:"quiz,omitempty"`
}

// HasQuiz reports whether the lesson embeds a quiz.
func (l Lesson) HasQuiz() bool {
	return l.Quiz != nil
}
