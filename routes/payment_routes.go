package routes

import (
	"github.com/gofiber/fiber/v2"
	"github.com/mwangikelvin/referral_bridge/handlers"
	"github.com/mwangikelvin/referral_bridge/middleware"
)

func PaymentRoutes(app *fiber.App) {
	api := app.Group("/api/v1")

	// Provider webhook: unauthenticated, gated by its body signature.
	api.Post("/payments/webhook", handlers.HandlePaymentWebhook)

	authed := api.Group("/", middleware.Protected())
	authed.Post("/referral-requests/:id/payments/:which/order", handlers.CreatePaymentOrderHandler)
	authed.Post("/payments/verify", handlers.VerifyPaymentHandler)
}
