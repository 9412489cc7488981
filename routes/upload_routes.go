package routes

import (
	"github.com/gofiber/fiber/v2"
	"github.com/mwangikelvin/referral_bridge/handlers"
	"github.com/mwangikelvin/referral_bridge/middleware"
)

func UploadRoutes(app *fiber.App) {
	api := app.Group("/api/v1/uploads", middleware.Protected())

	api.Get("/signature", handlers.GenerateUploadSignature)
}
