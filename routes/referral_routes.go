package routes

import (
	"github.com/gofiber/fiber/v2"
	"github.com/mwangikelvin/referral_bridge/handlers"
	"github.com/mwangikelvin/referral_bridge/middleware"
)

func ReferralRoutes(app *fiber.App) {
	api := app.Group("/api/v1/referral-requests", middleware.Protected())

	api.Post("/", handlers.CreateReferralRequest)
	api.Get("/", handlers.ListMyReferralRequests)
	api.Get("/:id", handlers.GetReferralRequest)
	api.Get("/:id/timeline", handlers.GetRequestTimeline)
	api.Post("/:id/transition", handlers.RequestTransition)
	api.Put("/:id/documents", handlers.UpdateRequestDocuments)
}
