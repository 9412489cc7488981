package routes

import (
	"github.com/gofiber/fiber/v2"
	"github.com/mwangikelvin/referral_bridge/handlers"
	"github.com/mwangikelvin/referral_bridge/middleware"
)

func AdminRoutes(app *fiber.App) {
	api := app.Group("/api/v1/admin", middleware.Protected(), middleware.AdminRequired())

	api.Get("/users", handlers.AdminListUsers)
	api.Patch("/users/:id/active", handlers.AdminSetUserActive)
	api.Get("/referral-requests", handlers.AdminListReferralRequests)
}
