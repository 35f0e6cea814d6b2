package courseRoutes

import (
	"github.com/gofiber/fiber/v2"

	controllers "learnhub/controllers/course"
	validators "learnhub/validators/course"
)

// SetupCourseRoutes sets up the learner course routes. auth runs before every handler.
func SetupCourseRoutes(app *fiber.App, ctrl *controllers.CourseController, auth ...fiber.Handler) {
	courseGroup := app.Group("/course", auth...)

	courseGroup.Get("/all", validators.CourseList(), ctrl.GetAllCourses)
	courseGroup.Get("/:id", validators.GetCourseDetail(), ctrl.GetCourseDetails)

	// Lessons
	courseGroup.Get("/:course_id/lesson/:lesson_id", validators.LessonParams(), ctrl.GetLesson)
	courseGroup.Post("/:course_id/lesson/:lesson_id/video-ended", validators.LessonParams(), ctrl.VideoEnded)
	courseGroup.Post("/:course_id/lesson/:lesson_id/quiz/submit", validators.LessonParams(), validators.SubmitQuiz(), ctrl.SubmitQuiz)
}
