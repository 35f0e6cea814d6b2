package sessionValidator

import (
	"encoding/json"
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/golang-jwt/jwt/v4"

	"learnhub/middleware"
	"learnhub/models"
	"learnhub/validators"
)

type userInfo struct {
	Username     string `json:"username" validate:"max=100"`
	Email        string `json:"email" validate:"omitempty,email,max=255"`
	ProfileImage string `json:"profile_image" validate:"max=2048"`
}

// CreateSession validates {"user_info": {...}} and builds the session for the
// token's user. The id inside user_info goes through the same resolver as the
// token and has to match it.
func CreateSession() fiber.Handler {
	return func(c *fiber.Ctx) error {
		userID, err := middleware.UserID(c)
		if err != nil {
			return middleware.JsonResponse(c, fiber.StatusUnauthorized, false, "Unauthorized!", nil)
		}

		reqData := new(struct {
			UserInfo json.RawMessage `json:"user_info"`
		})
		if err := c.BodyParser(reqData); err != nil || len(reqData.UserInfo) == 0 {
			return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid request body!", nil)
		}

		var raw map[string]interface{}
		if err := json.Unmarshal(reqData.UserInfo, &raw); err != nil {
			return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "user_info must be an object!", nil)
		}
		var info userInfo
		if err := json.Unmarshal(reqData.UserInfo, &info); err != nil {
			return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid user_info!", nil)
		}

		info.Username = strings.TrimSpace(info.Username)
		info.Email = strings.TrimSpace(info.Email)
		errors := validators.Struct(&info)

		infoID, err := middleware.ResolveUserID(jwt.MapClaims(raw))
		if err != nil {
			errors["user_info.id"] = "User id is required!"
		} else if infoID != userID {
			return middleware.JsonResponse(c, fiber.StatusForbidden, false, "user_info does not belong to this token!", nil)
		}

		if len(errors) > 0 {
			return middleware.ValidationErrorResponse(c, errors)
		}

		c.Locals("validatedSession", &models.Session{
			UserID:       userID,
			Username:     info.Username,
			Email:        info.Email,
			ProfileImage: info.ProfileImage,
			UserInfo:     []byte(reqData.UserInfo),
		})
		return c.Next()
	}
}
