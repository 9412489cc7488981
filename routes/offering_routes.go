package routes

import (
	"github.com/gofiber/fiber/v2"
	"github.com/mwangikelvin/referral_bridge/handlers"
	"github.com/mwangikelvin/referral_bridge/middleware"
)

func OfferingRoutes(app *fiber.App) {
	api := app.Group("/api/v1")

	// Students browse the catalog without a mentor token.
	api.Get("/offerings", handlers.ListOfferings)
	api.Get("/offerings/:id", handlers.GetOffering)

	mentor := api.Group("/mentor/offerings", middleware.Protected(), middleware.MentorRequired())
	mentor.Get("/", handlers.ListMyOfferings)
	mentor.Post("/", handlers.CreateOffering)
	mentor.Put("/:id", handlers.UpdateOffering)
	mentor.Patch("/:id/active", handlers.SetOfferingActive)
	mentor.Delete("/:id", handlers.DeleteOffering)
}
