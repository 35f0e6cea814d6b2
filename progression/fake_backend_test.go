package progression

import (
	"context"
	"sync"

	"learnhub/lms"
	"learnhub/models/course"
)

// fakeBackend keeps progress records in memory and can be told to fail.
type fakeBackend struct {
	mu          sync.Mutex
	courses     map[uint]*course.Course
	enrollments []course.Enrollment
	records     []course.ProgressRecord
	submissions []course.QuizSubmission
	nextID      uint

	createErr   error
	updateErr   error
	listErr     error
	createCalls int
	updateCalls int
	onCreate    func(rec course.ProgressRecord) // runs before a create is applied
}

func newFakeBackend() *fakeBackend {
	return &fakeBackend{courses: map[uint]*course.Course{}, nextID: 1}
}

func (f *fakeBackend) addCourse(c *course.Course, enrolledUser uint) {
	f.courses[c.ID] = c
	f.enrollments = append(f.enrollments, course.Enrollment{ID: uint(len(f.enrollments) + 1), UserID: enrolledUser, Target: course.CourseTarget(c.ID)})
}

func (f *fakeBackend) Course(_ context.Context, id uint) (*course.Course, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	c, ok := f.courses[id]
	if !ok {
		return nil, &lms.APIError{Status: 404, Method: "GET", Path: "/course", Message: "missing"}
	}
	cp := *c
	return &cp, nil
}

func (f *fakeBackend) Enrollments(context.Context) ([]course.Enrollment, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]course.Enrollment(nil), f.enrollments...), nil
}

func (f *fakeBackend) ListProgress(context.Context) ([]course.ProgressRecord, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.listErr != nil {
		return nil, f.listErr
	}
	return append([]course.ProgressRecord(nil), f.records...), nil
}

func (f *fakeBackend) CreateProgress(_ context.Context, rec course.ProgressRecord) (course.ProgressRecord, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.createCalls++
	if f.onCreate != nil {
		f.onCreate(rec)
	}
	if f.createErr != nil {
		return course.ProgressRecord{}, f.createErr
	}
	for _, r := range f.records {
		if r.UserID == rec.UserID && r.LessonID == rec.LessonID {
			return course.ProgressRecord{}, conflictErr()
		}
	}
	rec.ID = f.nextID
	f.nextID++
	f.records = append(f.records, rec)
	return rec, nil
}

func (f *fakeBackend) UpdateProgress(_ context.Context, id uint, rec course.ProgressRecord) (course.ProgressRecord, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.updateCalls++
	if f.updateErr != nil {
		return course.ProgressRecord{}, f.updateErr
	}
	for i := range f.records {
		if f.records[i].ID == id {
			rec.ID = id
			f.records[i] = rec
			return rec, nil
		}
	}
	return course.ProgressRecord{}, &lms.APIError{Status: 404, Method: "PUT", Path: "/course_progress/update", Message: "missing"}
}

func (f *fakeBackend) CreateSubmission(_ context.Context, sub course.QuizSubmission) (course.QuizSubmission, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	sub.ID = uint(len(f.submissions) + 1)
	f.submissions = append(f.submissions, sub)
	return sub, nil
}

func (f *fakeBackend) completedFor(userID uint) int {
	f.mu.Lock()
	defer f.mu.Unlock()
	n := 0
	for _, r := range f.records {
		if r.UserID == userID && r.IsCompleted() {
			n++
		}
	}
	return n
}

func conflictErr() error {
	return &lms.APIError{Status: 409, Method: "POST", Path: "/course_progress/create", Message: "duplicate"}
}

func transientErr() error {
	return &lms.APIError{Status: 503, Method: "POST", Path: "/course_progress/create", Message: "down"}
}

// memNotices is an in-memory NoticeStore.
type memNotices struct {
	mu    sync.Mutex
	shown map[[2]uint]bool
}

func newMemNotices() *memNotices {
	return &memNotices{shown: map[[2]uint]bool{}}
}

func (m *memNotices) MarkCertificateShown(_ context.Context, userID, courseID uint) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	key := [2]uint{userID, courseID}
	if m.shown[key] {
		return false, nil
	}
	m.shown[key] = true
	return true, nil
}
