package controllers

import (
	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	"learnhub/dashboard"
	"learnhub/middleware"
	"learnhub/models/course"
	"learnhub/utils"
)

type DashboardController struct {
	service *dashboard.Service
	poller  *utils.NotificationPoller
	log     *zap.Logger
}

func NewDashboardController(service *dashboard.Service, poller *utils.NotificationPoller, log *zap.Logger) *DashboardController {
	return &DashboardController{service: service, poller: poller, log: log.Named("dashboard")}
}

func (dc *DashboardController) GetFavorites(c *fiber.Ctx) error {
	session, err := middleware.CurrentSession(c)
	if err != nil {
		return middleware.ErrorResponse(c, dc.log, err)
	}

	favorites, err := dc.service.Favorites(middleware.BackendContext(c), session.UserID)
	if err != nil {
		return middleware.ErrorResponse(c, dc.log, err)
	}
	return middleware.JsonResponse(c, fiber.StatusOK, true, "Favorites fetched successfully!", favorites)
}

func (dc *DashboardController) ToggleFavorite(c *fiber.Ctx) error {
	session, err := middleware.CurrentSession(c)
	if err != nil {
		return middleware.ErrorResponse(c, dc.log, err)
	}
	target := c.Locals("validatedFavoriteTarget").(course.Target)

	isFavorite, err := dc.service.ToggleFavorite(middleware.BackendContext(c), session.UserID, target)
	if err != nil {
		return middleware.ErrorResponse(c, dc.log, err)
	}

	message := "Removed from favorites!"
	if isFavorite {
		message = "Added to favorites!"
	}
	return middleware.JsonResponse(c, fiber.StatusOK, true, message, fiber.Map{"is_favorite": isFavorite})
}

func (dc *DashboardController) GetEnrollments(c *fiber.Ctx) error {
	session, err := middleware.CurrentSession(c)
	if err != nil {
		return middleware.ErrorResponse(c, dc.log, err)
	}

	enrollments, err := dc.service.Enrollments(middleware.BackendContext(c), session.UserID)
	if err != nil {
		return middleware.ErrorResponse(c, dc.log, err)
	}
	return middleware.JsonResponse(c, fiber.StatusOK, true, "Enrollments fetched successfully!", enrollments)
}

// GetNotifications returns the polled feed with its unread count.
func (dc *DashboardController) GetNotifications(c *fiber.Ctx) error {
	session, err := middleware.CurrentSession(c)
	if err != nil {
		return middleware.ErrorResponse(c, dc.log, err)
	}

	feed, err := dc.poller.Feed(middleware.BackendContext(c), session.UserID)
	if err != nil {
		return middleware.ErrorResponse(c, dc.log, err)
	}
	return middleware.JsonResponse(c, fiber.StatusOK, true, "Notifications fetched successfully!", feed)
}

func (dc *DashboardController) MarkNotificationsRead(c *fiber.Ctx) error {
	session, err := middleware.CurrentSession(c)
	if err != nil {
		return middleware.ErrorResponse(c, dc.log, err)
	}

	feed, err := dc.poller.MarkRead(middleware.BackendContext(c), session.UserID)
	if err != nil {
		return middleware.ErrorResponse(c, dc.log, err)
	}
	return middleware.JsonResponse(c, fiber.StatusOK, true, "Notifications marked as read!", feed)
}
