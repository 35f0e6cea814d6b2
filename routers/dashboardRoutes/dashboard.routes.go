package dashboardRoutes

import (
	"github.com/gofiber/fiber/v2"

	controllers "learnhub/controllers/dashboard"
	validators "learnhub/validators/dashboard"
)

func SetupDashboardRoutes(app *fiber.App, ctrl *controllers.DashboardController, auth ...fiber.Handler) {
	dashboardGroup := app.Group("/dashboard", auth...)

	dashboardGroup.Get("/favorites", ctrl.GetFavorites)
	dashboardGroup.Post("/favorites/toggle", validators.ToggleFavorite(), ctrl.ToggleFavorite)
	dashboardGroup.Get("/enrollments", ctrl.GetEnrollments)

	dashboardGroup.Get("/notifications", ctrl.GetNotifications)
	dashboardGroup.Put("/notifications/mark-read", ctrl.MarkNotificationsRead)
}
