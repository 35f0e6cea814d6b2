package courseValidator

import (
	"github.com/gofiber/fiber/v2"

	"learnhub/middleware"
	"learnhub/validators"
)

// Catalog paging defaults
const (
	DefaultLimit = 20
	MaxLimit     = 100
)

type CourseListQuery struct {
	Page  int `query:"page" validate:"min=1"`
	Limit int `query:"limit" validate:"min=1,max=100"`
}

func CourseList() fiber.Handler {
	return func(c *fiber.Ctx) error {
		reqData := &CourseListQuery{Page: 1, Limit: DefaultLimit}

		if err := c.QueryParser(reqData); err != nil {
			return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid query parameters!", nil)
		}

		if errors := validators.Struct(reqData); len(errors) > 0 {
			return middleware.ValidationErrorResponse(c, errors)
		}

		c.Locals("validatedCourseList", reqData)
		return c.Next()
	}
}

func GetCourseDetail() fiber.Handler {
	return func(c *fiber.Ctx) error {
		courseID, ok := validators.ParamID(c, "id")
		if !ok {
			return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid Course ID!", nil)
		}

		c.Locals("courseID", courseID)
		return c.Next()
	}
}

// LessonParams validates :course_id and :lesson_id.
func LessonParams() fiber.Handler {
	return func(c *fiber.Ctx) error {
		courseID, ok := validators.ParamID(c, "course_id")
		if !ok {
			return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid Course ID!", nil)
		}
		lessonID, ok := validators.ParamID(c, "lesson_id")
		if !ok {
			return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid Lesson ID!", nil)
		}

		c.Locals("courseID", courseID)
		c.Locals("lessonID", lessonID)
		return c.Next()
	}
}

// SubmitQuizRequest maps question id to the chosen answer. Unanswered
// questions may be left out; an empty map is a valid attempt that scores 0.
type SubmitQuizRequest struct {
	Answers map[uint]string `json:"answers" validate:"dive,keys,min=1,endkeys,max=500"`
}

func SubmitQuiz() fiber.Handler {
	return func(c *fiber.Ctx) error {
		reqData := new(SubmitQuizRequest)

		if err := c.BodyParser(reqData); err != nil {
			return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid request body!", nil)
		}
		if reqData.Answers == nil {
			reqData.Answers = map[uint]string{}
		}

		if errors := validators.Struct(reqData); len(errors) > 0 {
			return middleware.ValidationErrorResponse(c, errors)
		}

		c.Locals("validatedQuizAnswers", reqData.Answers)
		return c.Next()
	}
}
