package progression

import (
	"sort"

	"learnhub/models/course"
)

// LessonSet is a set of lesson ids.
type LessonSet map[uint]struct{}

func NewLessonSet(ids ...uint) LessonSet {
	s := make(LessonSet, len(ids))
	for _, id := range ids {
		s.Add(id)
	}
	return s
}

func (s LessonSet) Add(id uint) { s[id] = struct{}{} }

func (s LessonSet) Has(id uint) bool {
	_, ok := s[id]
	return ok
}

// IDs returns the members in ascending order.
func (s LessonSet) IDs() []uint {
	ids := make([]uint, 0, len(s))
	for id := range s {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
	return ids
}

// SortLessons returns a copy of lessons ordered by OrderIndex.
func SortLessons(lessons []course.Lesson) []course.Lesson {
	out := make([]course.Lesson, len(lessons))
	copy(out, lessons)
	sort.SliceStable(out, func(i, j int) bool { return out[i].OrderIndex < out[j].OrderIndex })
	return out
}

// ComputeUnlocked returns the lessons a learner may open. lessons must be in
// order. The first lesson is always unlocked; every other lesson is unlocked
// only if its predecessor is completed, and nothing after the first gap is.
func ComputeUnlocked(lessons []course.Lesson, completed LessonSet) LessonSet {
	unlocked := make(LessonSet, len(lessons))
	open := true
	for i, l := range lessons {
		if i > 0 && !completed.Has(lessons[i-1].ID) {
			open = false
		}
		if open {
			unlocked.Add(l.ID)
		}
	}
	return unlocked
}

// NextLesson returns the lesson following lessonID, if any.
func NextLesson(lessons []course.Lesson, lessonID uint) (course.Lesson, bool) {
	for i, l := range lessons {
		if l.ID == lessonID && i+1 < len(lessons) {
			return lessons[i+1], true
		}
	}
	return course.Lesson{}, false
}

// CompletedLessons collects the lessons of courseID the user completed.
func CompletedLessons(records []course.ProgressRecord, userID, courseID uint) LessonSet {
	done := make(LessonSet)
	for _, r := range records {
		if course.OwnedBy(r.UserID, userID) && r.CourseID == courseID && r.IsCompleted() {
			done.Add(r.LessonID)
		}
	}
	return done
}
