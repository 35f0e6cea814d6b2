package dashboardValidator

import (
	"github.com/gofiber/fiber/v2"

	"learnhub/middleware"
	"learnhub/models/course"
	"learnhub/validators"
)

type ToggleFavoriteRequest struct {
	CourseID   *uint `json:"course_id" validate:"omitempty,min=1"`
	TemplateID *uint `json:"template_id" validate:"omitempty,min=1"`
}

func ToggleFavorite() fiber.Handler {
	return func(c *fiber.Ctx) error {
		reqData := new(ToggleFavoriteRequest)

		if err := c.BodyParser(reqData); err != nil {
			return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid request body!", nil)
		}

		errors := validators.Struct(reqData)

		// Exactly one target
		if reqData.CourseID == nil && reqData.TemplateID == nil {
			errors["course_id"] = "Either course_id or template_id is required!"
		}
		if reqData.CourseID != nil && reqData.TemplateID != nil {
			errors["template_id"] = "Only one of course_id and template_id may be set!"
		}

		if len(errors) > 0 {
			return middleware.ValidationErrorResponse(c, errors)
		}

		c.Locals("validatedFavoriteTarget", course.Target{CourseID: reqData.CourseID, TemplateID: reqData.TemplateID})
		return c.Next()
	}
}
