package routes

import (
	"github.com/gofiber/fiber/v2"
	"github.com/mwangikelvin/referral_bridge/handlers"
)

func AuthRoutes(app *fiber.App) {
	api := app.Group("/api/v1/auth")

	api.Post("/register", handlers.RegisterUser)
	api.Post("/login", handlers.LoginUser)
	api.Post("/forgot-password", handlers.ForgotPassword)
	api.Post("/reset-password", handlers.ResetPassword)
}
