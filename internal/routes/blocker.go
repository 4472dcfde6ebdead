package routes

import (
	"github.com/gofiber/fiber/v2"

	"github.com/nova-bank/nova_bank/internal/blocker"
)

// RegisterBlockerRoutes exposes the fraud gate check endpoint.
func RegisterBlockerRoutes(r fiber.Router, h *blocker.Handler) {
	r.Post("/blocker/check", h.Check)
}
