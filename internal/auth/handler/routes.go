package handler

import (
	"github.com/gofiber/fiber/v2"
)

func RegisterRoutes(app *fiber.App, h *AuthHandler, requireAuth fiber.Handler) {
	auth := app.Group("/auth")
	auth.Post("/signup", h.Signup)
	auth.Post("/login", h.Login)
	auth.Post("/refresh-token", h.Refresh)

	auth.Post("/logout", requireAuth, h.Logout)
	auth.Get("/me", requireAuth, h.Me)
	auth.Put("/me", requireAuth, h.UpdateProfile)
	auth.Delete("/me", requireAuth, h.DeleteAccount)
	auth.Post("/change-password", requireAuth, h.ChangePassword)
}
