package middleware

import (
	"context"
	"errors"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	"learnhub/lms"
	"learnhub/progression"
)

// ErrorResponse writes the response for err. Every error class gets its own
// status so the web client knows whether to re-login, show an inline message
// or offer a retry.
func ErrorResponse(c *fiber.Ctx, log *zap.Logger, err error) error {
	var fe *fiber.Error
	switch {
	case errors.As(err, &fe):
		return JsonResponse(c, fe.Code, false, fe.Message, nil)
	case errors.Is(err, lms.ErrUnauthorized):
		return JsonResponse(c, fiber.StatusUnauthorized, false, "Your session has expired, please log in again!", nil)
	case errors.Is(err, progression.ErrLessonLocked):
		return JsonResponse(c, fiber.StatusForbidden, false, "Complete the previous lesson first!", nil)
	case errors.Is(err, progression.ErrNotEnrolled):
		return JsonResponse(c, fiber.StatusForbidden, false, "Please enroll in this course first!", nil)
	case errors.Is(err, progression.ErrCourseExpired):
		return JsonResponse(c, fiber.StatusForbidden, false, "This course is not available at this time!", nil)
	case errors.Is(err, progression.ErrLessonNotFound), errors.Is(err, lms.ErrNotFound):
		return JsonResponse(c, fiber.StatusNotFound, false, "Not found!", nil)
	case errors.Is(err, progression.ErrNoQuiz):
		return JsonResponse(c, fiber.StatusBadRequest, false, "This lesson has no quiz!", nil)
	case errors.Is(err, lms.ErrValidation):
		var apiErr *lms.APIError
		msg := "Request rejected!"
		if errors.As(err, &apiErr) && apiErr.Message != "" {
			msg = apiErr.Message
		}
		return JsonResponse(c, fiber.StatusUnprocessableEntity, false, msg, nil)
	case errors.Is(err, lms.ErrInvalidResponse):
		log.Error("backend sent an unreadable response", zap.String("path", c.Path()), zap.Error(err))
		return JsonResponse(c, fiber.StatusBadGateway, false, "The course service sent an unexpected response!", nil)
	case errors.Is(err, lms.ErrTransient), errors.Is(err, lms.ErrConflict):
		log.Warn("backend call failed", zap.String("path", c.Path()), zap.Error(err))
		return JsonResponse(c, fiber.StatusServiceUnavailable, false, "Something went wrong, please retry!", nil)
	case errors.Is(err, context.Canceled):
		// the client is gone; nobody reads this response
		return JsonResponse(c, fiber.StatusRequestTimeout, false, "Request cancelled!", nil)
	}

	log.Error("request failed", zap.String("path", c.Path()), zap.Error(err))
	return JsonResponse(c, fiber.StatusInternalServerError, false, "Internal server error!", nil)
}
