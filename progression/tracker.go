package progression

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jinzhu/now"
	"go.uber.org/zap"

	"learnhub/models/course"
)

var (
	ErrLessonLocked   = errors.New("lesson is locked")
	ErrLessonNotFound = errors.New("lesson not found")
	ErrNoQuiz         = errors.New("lesson has no quiz")
	ErrNotEnrolled    = errors.New("not enrolled in this course")
	ErrCourseExpired  = errors.New("course is outside its validity period")
)

// Backend is everything the tracker reads from and writes to the REST backend.
type Backend interface {
	ProgressAPI
	Course(ctx context.Context, id uint) (*course.Course, error)
	Enrollments(ctx context.Context) ([]course.Enrollment, error)
	CreateSubmission(ctx context.Context, sub course.QuizSubmission) (course.QuizSubmission, error)
}

// NoticeStore remembers which certificate notices were already shown.
type NoticeStore interface {
	MarkCertificateShown(ctx context.Context, userID, courseID uint) (bool, error)
}

// CompletionHook runs once, the first time a user is seen to have completed a course.
type CompletionHook func(ctx context.Context, userID uint, c *course.Course)

// CourseView is what the learner sees of a course.
type CourseView struct {
	Course               *course.Course `json:"course"`
	Completed            []uint         `json:"completed_lesson_ids"`
	Unlocked             []uint         `json:"unlocked_lesson_ids"`
	Progress             int            `json:"progress"`
	IsComplete           bool           `json:"is_complete"`
	CertificateAvailable bool           `json:"certificate_available"` // true only the first time
}

// LessonView is a single opened lesson.
type LessonView struct {
	Lesson       course.Lesson `json:"lesson"`
	IsCompleted  bool          `json:"is_completed"`
	NextLessonID *uint         `json:"next_lesson_id"`
}

// QuizOutcome is the result of one quiz attempt.
type QuizOutcome struct {
	Grade      GradeResult           `json:"grade"`
	Submission course.QuizSubmission `json:"submission"`
	View       *CourseView           `json:"view"`
}

// Tracker drives lesson progression for one learner at a time.
type Tracker struct {
	backend    Backend
	recorder   *Recorder
	notices    NoticeStore
	onComplete CompletionHook
	log        *zap.Logger
	now        func() time.Time
}

func NewTracker(backend Backend, notices NoticeStore, log *zap.Logger) *Tracker {
	return &Tracker{
		backend:  backend,
		recorder: NewRecorder(backend, log),
		notices:  notices,
		log:      log.Named("tracker"),
		now:      time.Now,
	}
}

// OnCourseCompleted registers the hook run on a first course completion.
func (t *Tracker) OnCourseCompleted(h CompletionHook) {
	t.onComplete = h
}

type snapshot struct {
	course    *course.Course
	lessons   []course.Lesson
	completed LessonSet
	unlocked  LessonSet
}

func (s *snapshot) lesson(id uint) (course.Lesson, bool) {
	for _, l := range s.lessons {
		if l.ID == id {
			return l, true
		}
	}
	return course.Lesson{}, false
}

func (s *snapshot) markCompleted(id uint) {
	s.completed.Add(id)
	s.unlocked = ComputeUnlocked(s.lessons, s.completed)
}

func (s *snapshot) progress() int {
	return OverallProgress(len(s.completed), len(s.lessons))
}

func (t *Tracker) load(ctx context.Context, userID, courseID uint) (*snapshot, error) {
	c, err := t.backend.Course(ctx, courseID)
	if err != nil {
		return nil, fmt.Errorf("load course %d: %w", courseID, err)
	}
	if err := t.checkAccess(ctx, userID, c); err != nil {
		return nil, err
	}

	records, err := t.backend.ListProgress(ctx)
	if err != nil {
		return nil, fmt.Errorf("load progress of course %d: %w", courseID, err)
	}

	lessons := SortLessons(c.Lessons)
	done := CompletedLessons(records, userID, courseID)

	// records for lessons no longer in the course do not count
	completed := make(LessonSet, len(done))
	for _, l := range lessons {
		if done.Has(l.ID) {
			completed.Add(l.ID)
		}
	}

	return &snapshot{
		course:    c,
		lessons:   lessons,
		completed: completed,
		unlocked:  ComputeUnlocked(lessons, completed),
	}, nil
}

func (t *Tracker) checkAccess(ctx context.Context, userID uint, c *course.Course) error {
	enrollments, err := t.backend.Enrollments(ctx)
	if err != nil {
		return fmt.Errorf("load enrollments: %w", err)
	}

	target := course.CourseTarget(c.ID)
	enrolled := false
	for _, e := range enrollments {
		if course.OwnedBy(e.UserID, userID) && e.Target.Same(target) {
			enrolled = true
			break
		}
	}
	if !enrolled {
		return ErrNotEnrolled
	}

	today := t.now()
	if c.ValidFrom != nil && today.Before(now.With(*c.ValidFrom).BeginningOfDay()) {
		return ErrCourseExpired
	}
	if c.ValidUntil != nil && today.After(now.With(*c.ValidUntil).EndOfDay()) {
		return ErrCourseExpired
	}
	return nil
}

// view turns a snapshot into a CourseView and raises the certificate notice
// the first time the course is seen complete.
func (t *Tracker) view(ctx context.Context, userID uint, s *snapshot) (*CourseView, error) {
	v := &CourseView{
		Course:     redactCourse(s.course, s.lessons),
		Completed:  s.completed.IDs(),
		Unlocked:   s.unlocked.IDs(),
		Progress:   s.progress(),
		IsComplete: IsComplete(len(s.completed), len(s.lessons)),
	}
	if !v.IsComplete {
		return v, nil
	}

	// the caller went away while the backend answered; leave the notice for the next load
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	first, err := t.notices.MarkCertificateShown(ctx, userID, s.course.ID)
	if err != nil {
		t.log.Warn("could not record certificate notice", zap.Uint("user_id", userID), zap.Uint("course_id", s.course.ID), zap.Error(err))
		return v, nil
	}
	v.CertificateAvailable = first
	if first && t.onComplete != nil {
		t.onComplete(ctx, userID, s.course)
	}
	return v, nil
}

// Load returns the learner's view of a course.
func (t *Tracker) Load(ctx context.Context, userID, courseID uint) (*CourseView, error) {
	s, err := t.load(ctx, userID, courseID)
	if err != nil {
		return nil, err
	}
	return t.view(ctx, userID, s)
}

// SelectLesson opens a lesson if it is unlocked.
func (t *Tracker) SelectLesson(ctx context.Context, userID, courseID, lessonID uint) (*LessonView, error) {
	s, err := t.load(ctx, userID, courseID)
	if err != nil {
		return nil, err
	}
	l, err := s.unlockedLesson(lessonID)
	if err != nil {
		return nil, err
	}

	if _, err := t.recorder.RecordVisit(ctx, userID, courseID, lessonID); err != nil {
		// a missing visit record only costs the last-accessed hint
		t.log.Warn("could not record lesson visit", zap.Uint("lesson_id", lessonID), zap.Error(err))
	}

	lv := &LessonView{
		Lesson:      redactLesson(l),
		IsCompleted: s.completed.Has(lessonID),
	}
	if next, ok := NextLesson(s.lessons, lessonID); ok {
		id := next.ID
		lv.NextLessonID = &id
	}
	return lv, nil
}

func (s *snapshot) unlockedLesson(lessonID uint) (course.Lesson, error) {
	l, ok := s.lesson(lessonID)
	if !ok {
		return course.Lesson{}, ErrLessonNotFound
	}
	if !s.unlocked.Has(lessonID) {
		return course.Lesson{}, ErrLessonLocked
	}
	return l, nil
}

// CompleteVideo records that the lesson video played to the end.
func (t *Tracker) CompleteVideo(ctx context.Context, userID, courseID, lessonID uint) (*CourseView, error) {
	s, err := t.load(ctx, userID, courseID)
	if err != nil {
		return nil, err
	}
	if _, err := s.unlockedLesson(lessonID); err != nil {
		return nil, err
	}
	if err := t.complete(ctx, userID, s, lessonID); err != nil {
		return nil, err
	}
	return t.view(ctx, userID, s)
}

// complete persists the completion and only then advances the snapshot.
func (t *Tracker) complete(ctx context.Context, userID uint, s *snapshot, lessonID uint) error {
	if s.completed.Has(lessonID) {
		return nil
	}
	percentage := OverallProgress(len(s.completed)+1, len(s.lessons))
	if _, err := t.recorder.RecordCompletion(ctx, userID, s.course.ID, lessonID, percentage); err != nil {
		return err
	}
	s.markCompleted(lessonID)
	return nil
}

// SubmitQuiz grades an attempt, appends it to the submission log and, on a
// pass, completes the lesson. A failed attempt changes nothing else.
func (t *Tracker) SubmitQuiz(ctx context.Context, userID, courseID, lessonID uint, answers map[uint]string) (*QuizOutcome, error) {
	s, err := t.load(ctx, userID, courseID)
	if err != nil {
		return nil, err
	}
	l, err := s.unlockedLesson(lessonID)
	if err != nil {
		return nil, err
	}
	if !l.HasQuiz() {
		return nil, ErrNoQuiz
	}

	grade := Grade(*l.Quiz, answers)

	sub, err := t.backend.CreateSubmission(ctx, course.QuizSubmission{
		AttemptKey: uuid.NewString(),
		UserID:     userID,
		QuizID:     l.Quiz.ID,
		LessonID:   lessonID,
		Answers:    answers,
		Score:      grade.RawScore,
		Percentage: grade.Percentage,
		Passed:     grade.Passed,
	})
	if err != nil {
		return nil, fmt.Errorf("save quiz submission: %w", err)
	}

	t.log.Debug("quiz graded",
		zap.Uint("user_id", userID), zap.Uint("lesson_id", lessonID),
		zap.Float64("percentage", grade.Percentage), zap.Bool("passed", grade.Passed))

	if grade.Passed {
		if err := t.complete(ctx, userID, s, lessonID); err != nil {
			return nil, err
		}
	}

	v, err := t.view(ctx, userID, s)
	if err != nil {
		return nil, err
	}
	return &QuizOutcome{Grade: grade, Submission: sub, View: v}, nil
}

// redactCourse returns a copy of c with ordered lessons and no answer keys.
func redactCourse(c *course.Course, lessons []course.Lesson) *course.Course {
	out := *c
	out.Lessons = make([]course.Lesson, len(lessons))
	for i, l := range lessons {
		out.Lessons[i] = redactLesson(l)
	}
	return &out
}

func redactLesson(l course.Lesson) course.Lesson {
	if l.Quiz == nil {
		return l
	}
	q := *l.Quiz
	q.Questions = make([]course.Question, len(l.Quiz.Questions))
	for i, question := range l.Quiz.Questions {
		question.CorrectAnswer = nil
		question.CorrectIndex = nil
		question.CorrectOption = nil
		opts := make([]course.QuizOption, len(question.Options))
		for j, o := range question.Options {
			opts[j] = course.QuizOption{Text: o.Text}
		}
		question.Options = opts
		q.Questions[i] = question
	}
	l.Quiz = &q
	return l
}
