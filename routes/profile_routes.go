package routes

import (
	"github.com/gofiber/fiber/v2"
	"github.com/mwangikelvin/referral_bridge/handlers"
	"github.com/mwangikelvin/referral_bridge/middleware"
)

func ProfileRoutes(app *fiber.App) {
	api := app.Group("/api/v1/profile", middleware.Protected())

	api.Get("/", handlers.GetProfile)
	api.Put("/", handlers.UpdateProfile)
}
