package controllers

import (
	"context"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	"learnhub/middleware"
	"learnhub/models"
)

// Sessions persists registered sessions.
type Sessions interface {
	SaveSession(ctx context.Context, session *models.Session) error
	DeleteSession(ctx context.Context, userID uint) error
}

// Subscriptions starts and stops per-user background work.
type Subscriptions interface {
	Subscribe(userID uint, token string) error
	Unsubscribe(userID uint)
}

type SessionController struct {
	sessions Sessions
	poller   Subscriptions
	log      *zap.Logger
}

func NewSessionController(sessions Sessions, poller Subscriptions, log *zap.Logger) *SessionController {
	return &SessionController{sessions: sessions, poller: poller, log: log.Named("session")}
}

// CreateSession registers the learner signed in with the bearer token and
// starts their notification polling.
func (sc *SessionController) CreateSession(c *fiber.Ctx) error {
	session := c.Locals("validatedSession").(*models.Session)
	session.Token = middleware.Token(c)

	if err := sc.sessions.SaveSession(c.UserContext(), session); err != nil {
		sc.log.Error("save session failed", zap.Uint("user_id", session.UserID), zap.Error(err))
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to save session!", nil)
	}
	if err := sc.poller.Subscribe(session.UserID, session.Token); err != nil {
		sc.log.Warn("notification subscription failed", zap.Uint("user_id", session.UserID), zap.Error(err))
	}

	sc.log.Info("session registered", zap.Uint("user_id", session.UserID))
	return middleware.JsonResponse(c, fiber.StatusCreated, true, "Session registered!", session)
}

func (sc *SessionController) GetSession(c *fiber.Ctx) error {
	session, err := middleware.CurrentSession(c)
	if err != nil {
		return middleware.ErrorResponse(c, sc.log, err)
	}
	return middleware.JsonResponse(c, fiber.StatusOK, true, "Session fetched successfully!", session)
}

// DeleteSession logs the learner out. Polling stops before the row goes so no
// refresh lands for a removed session.
func (sc *SessionController) DeleteSession(c *fiber.Ctx) error {
	session, err := middleware.CurrentSession(c)
	if err != nil {
		return middleware.ErrorResponse(c, sc.log, err)
	}

	sc.poller.Unsubscribe(session.UserID)
	if err := sc.sessions.DeleteSession(c.UserContext(), session.UserID); err != nil {
		sc.log.Error("delete session failed", zap.Uint("user_id", session.UserID), zap.Error(err))
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to log out!", nil)
	}

	sc.log.Info("session removed", zap.Uint("user_id", session.UserID))
	return middleware.JsonResponse(c, fiber.StatusOK, true, "Logged out!", nil)
}
