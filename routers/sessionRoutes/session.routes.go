package sessionRoutes

import (
	"github.com/gofiber/fiber/v2"

	controllers "learnhub/controllers/session"
	validators "learnhub/validators/session"
)

// SetupSessionRoutes registers the session endpoints. Registering needs only a
// valid token; reading and deleting also need the stored session.
func SetupSessionRoutes(app *fiber.App, ctrl *controllers.SessionController, jwt, session fiber.Handler) {
	app.Post("/session", jwt, validators.CreateSession(), ctrl.CreateSession)
	app.Get("/session", jwt, session, ctrl.GetSession)
	app.Delete("/session", jwt, session, ctrl.DeleteSession)
}
