package middleware

import (
	"context"
	"errors"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	"learnhub/database"
	"learnhub/lms"
	"learnhub/models"
)

// SessionStore loads registered sessions.
type SessionStore interface {
	Session(ctx context.Context, userID uint) (*models.Session, error)
}

// SessionMiddleware requires a registered session for the token's user and
// injects it into the request. It must run after JWTMiddleware.
func SessionMiddleware(store SessionStore, log *zap.Logger) fiber.Handler {
	return func(c *fiber.Ctx) error {
		userID, err := UserID(c)
		if err != nil {
			return JsonResponse(c, fiber.StatusUnauthorized, false, "Unauthorized: User ID not found", nil)
		}

		session, err := store.Session(c.UserContext(), userID)
		if err != nil {
			if errors.Is(err, database.ErrSessionNotFound) {
				return JsonResponse(c, fiber.StatusUnauthorized, false, "Session not found, please log in again!", nil)
			}
			log.Error("session lookup failed", zap.Uint("user_id", userID), zap.Error(err))
			return JsonResponse(c, fiber.StatusInternalServerError, false, "Server error while loading session!", nil)
		}

		session.Token = Token(c)
		c.Locals(LocalSession, session)
		return c.Next()
	}
}

// CurrentSession is the only way handlers read the signed-in learner.
func CurrentSession(c *fiber.Ctx) (*models.Session, error) {
	session, ok := c.Locals(LocalSession).(*models.Session)
	if !ok || session == nil {
		return nil, fiber.NewError(fiber.StatusUnauthorized, "Unauthorized!")
	}
	return session, nil
}

// BackendContext returns the request context carrying the learner's token
// and the request id for calls to the REST backend.
func BackendContext(c *fiber.Ctx) context.Context {
	ctx := lms.WithToken(c.UserContext(), Token(c))
	if id, ok := c.Locals(LocalRequestID).(string); ok && id != "" {
		ctx = lms.WithRequestID(ctx, id)
	}
	return ctx
}
