package course

import "time"

// Progress status values
const (
	StatusNotStarted = "not_started"
	StatusInProgress = "in_progress"
	StatusCompleted  = "completed"
)

// ProgressRecord is the per-user, per-lesson completion state kept by the backend.
type ProgressRecord struct {
	ID                 uint      `json:"id,omitempty"`
	UserID             uint      `json:"user_id"`
	CourseID           uint      `json:"course_id"`
	LessonID           uint      `json:"lesson_id"`
	Status             string    `json:"status"`
	ProgressPercentage int       `json:"progress_percentage"`
	LastAccessed       time.Time `json:"last_accessed"`
}

// IsCompleted reports whether the record reached its terminal status.
func (p ProgressRecord) IsCompleted() bool {
	return p.Status == StatusCompleted
}

// Matches reports whether the record belongs to the given user, course and lesson.
// A record without a user id counts as the user's.
func (p ProgressRecord) Matches(userID, courseID, lessonID uint) bool {
	return OwnedBy(p.UserID, userID) && p.CourseID == courseID && p.LessonID == lessonID
}
