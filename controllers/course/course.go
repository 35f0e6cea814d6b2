package controllers

import (
	"context"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	"learnhub/middleware"
	"learnhub/models/course"
	"learnhub/progression"
	courseValidator "learnhub/validators/course"
)

// Catalog lists the published courses.
type Catalog interface {
	Courses(ctx context.Context) ([]course.Course, error)
}

type CourseController struct {
	catalog Catalog
	tracker *progression.Tracker
	log     *zap.Logger
}

func NewCourseController(catalog Catalog, tracker *progression.Tracker, log *zap.Logger) *CourseController {
	return &CourseController{catalog: catalog, tracker: tracker, log: log.Named("course")}
}

// GetAllCourses returns one page of the catalog. Lessons are left out.
func (cc *CourseController) GetAllCourses(c *fiber.Ctx) error {
	if _, err := middleware.CurrentSession(c); err != nil {
		return middleware.ErrorResponse(c, cc.log, err)
	}
	query := c.Locals("validatedCourseList").(*courseValidator.CourseListQuery)

	courses, err := cc.catalog.Courses(middleware.BackendContext(c))
	if err != nil {
		return middleware.ErrorResponse(c, cc.log, err)
	}

	total := len(courses)
	start := (query.Page - 1) * query.Limit
	if start > total {
		start = total
	}
	end := start + query.Limit
	if end > total {
		end = total
	}

	page := make([]course.Course, 0, end-start)
	for _, item := range courses[start:end] {
		item.Lessons = nil
		page = append(page, item)
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Courses fetched successfully!", fiber.Map{
		"courses": page,
		"total":   total,
		"page":    query.Page,
		"limit":   query.Limit,
	})
}

// GetCourseDetails loads the course with the learner's progress.
func (cc *CourseController) GetCourseDetails(c *fiber.Ctx) error {
	session, err := middleware.CurrentSession(c)
	if err != nil {
		return middleware.ErrorResponse(c, cc.log, err)
	}
	courseID := c.Locals("courseID").(uint)

	view, err := cc.tracker.Load(middleware.BackendContext(c), session.UserID, courseID)
	if err != nil {
		return middleware.ErrorResponse(c, cc.log, err)
	}
	return middleware.JsonResponse(c, fiber.StatusOK, true, "Course details fetched successfully!", view)
}

// GetLesson opens an unlocked lesson.
func (cc *CourseController) GetLesson(c *fiber.Ctx) error {
	session, err := middleware.CurrentSession(c)
	if err != nil {
		return middleware.ErrorResponse(c, cc.log, err)
	}
	courseID := c.Locals("courseID").(uint)
	lessonID := c.Locals("lessonID").(uint)

	view, err := cc.tracker.SelectLesson(middleware.BackendContext(c), session.UserID, courseID, lessonID)
	if err != nil {
		return middleware.ErrorResponse(c, cc.log, err)
	}
	return middleware.JsonResponse(c, fiber.StatusOK, true, "Lesson fetched successfully!", view)
}

// VideoEnded completes a lesson that has no quiz once its video finished.
func (cc *CourseController) VideoEnded(c *fiber.Ctx) error {
	session, err := middleware.CurrentSession(c)
	if err != nil {
		return middleware.ErrorResponse(c, cc.log, err)
	}
	courseID := c.Locals("courseID").(uint)
	lessonID := c.Locals("lessonID").(uint)

	view, err := cc.tracker.CompleteVideo(middleware.BackendContext(c), session.UserID, courseID, lessonID)
	if err != nil {
		return middleware.ErrorResponse(c, cc.log, err)
	}
	return middleware.JsonResponse(c, fiber.StatusOK, true, "Progress saved!", view)
}

// SubmitQuiz grades an attempt. A failed attempt is still a 200.
func (cc *CourseController) SubmitQuiz(c *fiber.Ctx) error {
	session, err := middleware.CurrentSession(c)
	if err != nil {
		return middleware.ErrorResponse(c, cc.log, err)
	}
	courseID := c.Locals("courseID").(uint)
	lessonID := c.Locals("lessonID").(uint)
	answers := c.Locals("validatedQuizAnswers").(map[uint]string)

	outcome, err := cc.tracker.SubmitQuiz(middleware.BackendContext(c), session.UserID, courseID, lessonID, answers)
	if err != nil {
		return middleware.ErrorResponse(c, cc.log, err)
	}

	message := "Quiz passed!"
	if !outcome.Grade.Passed {
		message = "Quiz not passed, you can try again!"
	}
	return middleware.JsonResponse(c, fiber.StatusOK, true, message, outcome)
}
