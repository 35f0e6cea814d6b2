package progression

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"learnhub/lms"
	"learnhub/models/course"
)

func TestRecordCompletionCreatesRecord(t *testing.T) {
	fb := newFakeBackend()
	r := NewRecorder(fb, zap.NewNop())

	rec, err := r.RecordCompletion(context.Background(), 1, 9, 100, 34)

	require.NoError(t, err)
	assert.Equal(t, course.StatusCompleted, rec.Status)
	assert.Equal(t, 34, rec.ProgressPercentage)
	assert.Equal(t, 1, fb.createCalls)
}

func TestRecordCompletionUpgradesInProgress(t *testing.T) {
	fb := newFakeBackend()
	fb.records = []course.ProgressRecord{{ID: 7, UserID: 1, CourseID: 9, LessonID: 100, Status: course.StatusInProgress}}
	r := NewRecorder(fb, zap.NewNop())

	rec, err := r.RecordCompletion(context.Background(), 1, 9, 100, 50)

	require.NoError(t, err)
	assert.Equal(t, uint(7), rec.ID)
	assert.Equal(t, course.StatusCompleted, fb.records[0].Status)
	assert.Equal(t, 0, fb.createCalls)
	assert.Equal(t, 1, fb.updateCalls)
}

func TestRecordCompletionIsIdempotent(t *testing.T) {
	fb := newFakeBackend()
	r := NewRecorder(fb, zap.NewNop())
	ctx := context.Background()

	first, err := r.RecordCompletion(ctx, 1, 9, 100, 34)
	require.NoError(t, err)
	second, err := r.RecordCompletion(ctx, 1, 9, 100, 34)
	require.NoError(t, err)

	assert.Equal(t, first.ID, second.ID)
	assert.Equal(t, 1, fb.completedFor(1))
	assert.Equal(t, 1, fb.createCalls)
	assert.Equal(t, 0, fb.updateCalls)
}

func TestRecordCompletionConflictIsSuccess(t *testing.T) {
	fb := newFakeBackend()
	// another writer lands the same record between our lookup and our create
	fb.onCreate = func(rec course.ProgressRecord) {
		fb.onCreate = nil
		winner := rec
		winner.ID = 42
		fb.records = append(fb.records, winner)
	}
	r := NewRecorder(fb, zap.NewNop())

	rec, err := r.RecordCompletion(context.Background(), 1, 9, 100, 34)

	require.NoError(t, err)
	assert.Equal(t, uint(42), rec.ID)
	assert.True(t, rec.IsCompleted())
	assert.Equal(t, 1, fb.completedFor(1))
}

func TestRecordCompletionConflictWithoutReadBack(t *testing.T) {
	fb := newFakeBackend()
	fb.createErr = conflictErr()
	r := NewRecorder(fb, zap.NewNop())

	rec, err := r.RecordCompletion(context.Background(), 1, 9, 100, 34)

	require.NoError(t, err)
	assert.True(t, rec.IsCompleted())
	assert.Equal(t, uint(100), rec.LessonID)
}

func TestRecordCompletionTransientError(t *testing.T) {
	fb := newFakeBackend()
	fb.createErr = transientErr()
	r := NewRecorder(fb, zap.NewNop())

	_, err := r.RecordCompletion(context.Background(), 1, 9, 100, 34)

	require.Error(t, err)
	assert.ErrorIs(t, err, lms.ErrTransient)
	assert.Equal(t, 0, fb.completedFor(1))
}

func TestRecordVisit(t *testing.T) {
	fb := newFakeBackend()
	r := NewRecorder(fb, zap.NewNop())
	ctx := context.Background()

	rec, err := r.RecordVisit(ctx, 1, 9, 100)
	require.NoError(t, err)
	assert.Equal(t, course.StatusInProgress, rec.Status)

	_, err = r.RecordCompletion(ctx, 1, 9, 100, 100)
	require.NoError(t, err)

	rec, err = r.RecordVisit(ctx, 1, 9, 100)
	require.NoError(t, err)
	assert.Equal(t, course.StatusCompleted, rec.Status, "a visit never reverts completion")
	assert.Equal(t, 1, fb.createCalls)
}

func TestRecordVisitLeavesExistingRecord(t *testing.T) {
	fb := newFakeBackend()
	r := NewRecorder(fb, zap.NewNop())
	ctx := context.Background()

	first, err := r.RecordVisit(ctx, 1, 9, 100)
	require.NoError(t, err)

	again, err := r.RecordVisit(ctx, 1, 9, 100)
	require.NoError(t, err)

	assert.Equal(t, first.ID, again.ID)
	assert.Equal(t, first.LastAccessed, again.LastAccessed)
	assert.Equal(t, 1, fb.createCalls)
	assert.Equal(t, 0, fb.updateCalls)
}
