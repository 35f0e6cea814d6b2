package progression

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"

	"learnhub/lms"
	"learnhub/models/course"
)

// ProgressAPI is the part of the backend that stores progress records.
type ProgressAPI interface {
	ListProgress(ctx context.Context) ([]course.ProgressRecord, error)
	CreateProgress(ctx context.Context, rec course.ProgressRecord) (course.ProgressRecord, error)
	UpdateProgress(ctx context.Context, id uint, rec course.ProgressRecord) (course.ProgressRecord, error)
}

// Recorder persists lesson progress. Writes are idempotent: a conflict from
// the backend means another writer already got the record where we want it.
type Recorder struct {
	api ProgressAPI
	log *zap.Logger
	now func() time.Time
}

func NewRecorder(api ProgressAPI, log *zap.Logger) *Recorder {
	return &Recorder{api: api, log: log.Named("recorder"), now: time.Now}
}

// Find returns the record of (user, course, lesson) if the backend has one.
func (r *Recorder) Find(ctx context.Context, userID, courseID, lessonID uint) (*course.ProgressRecord, error) {
	records, err := r.api.ListProgress(ctx)
	if err != nil {
		return nil, fmt.Errorf("list progress: %w", err)
	}
	for i := range records {
		if records[i].Matches(userID, courseID, lessonID) {
			return &records[i], nil
		}
	}
	return nil, nil
}

// RecordCompletion marks a lesson completed. Calling it again for the same
// lesson is a no-op that returns the stored record.
func (r *Recorder) RecordCompletion(ctx context.Context, userID, courseID, lessonID uint, percentage int) (course.ProgressRecord, error) {
	existing, err := r.Find(ctx, userID, courseID, lessonID)
	if err != nil {
		return course.ProgressRecord{}, err
	}

	if existing != nil && existing.IsCompleted() {
		return *existing, nil
	}

	rec := course.ProgressRecord{
		UserID:             userID,
		CourseID:           courseID,
		LessonID:           lessonID,
		Status:             course.StatusCompleted,
		ProgressPercentage: percentage,
		LastAccessed:       r.now().UTC(),
	}

	var saved course.ProgressRecord
	if existing == nil {
		saved, err = r.api.CreateProgress(ctx, rec)
	} else {
		rec.ID = existing.ID
		saved, err = r.api.UpdateProgress(ctx, existing.ID, rec)
	}

	if errors.Is(err, lms.ErrConflict) {
		r.log.Info("completion already recorded by a concurrent writer",
			zap.Uint("user_id", userID), zap.Uint("course_id", courseID), zap.Uint("lesson_id", lessonID))
		return r.afterConflict(ctx, rec), nil
	}
	if err != nil {
		return course.ProgressRecord{}, fmt.Errorf("record completion of lesson %d: %w", lessonID, err)
	}
	return saved, nil
}

// afterConflict re-reads the record that won the race. If the re-read fails
// the desired record is returned as is, since the end state is already reached.
func (r *Recorder) afterConflict(ctx context.Context, want course.ProgressRecord) course.ProgressRecord {
	got, err := r.Find(ctx, want.UserID, want.CourseID, want.LessonID)
	if err != nil || got == nil || !got.IsCompleted() {
		return want
	}
	return *got
}

// RecordVisit notes that a lesson was opened by creating an in-progress
// record on the first visit. Existing records are left alone: a blind update
// could race a completion and send it back to in_progress.
func (r *Recorder) RecordVisit(ctx context.Context, userID, courseID, lessonID uint) (course.ProgressRecord, error) {
	existing, err := r.Find(ctx, userID, courseID, lessonID)
	if err != nil {
		return course.ProgressRecord{}, err
	}
	if existing != nil {
		return *existing, nil
	}

	rec := course.ProgressRecord{
		UserID:       userID,
		CourseID:     courseID,
		LessonID:     lessonID,
		Status:       course.StatusInProgress,
		LastAccessed: r.now().UTC(),
	}
	saved, err := r.api.CreateProgress(ctx, rec)
	if errors.Is(err, lms.ErrConflict) {
		return rec, nil
	}
	if err != nil {
		return course.ProgressRecord{}, fmt.Errorf("record visit of lesson %d: %w", lessonID, err)
	}
	return saved, nil
}
