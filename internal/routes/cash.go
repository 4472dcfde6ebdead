package routes

import (
	"github.com/gofiber/fiber/v2"

	"github.com/nova-bank/nova_bank/internal/cash"
)

// RegisterCashRoutes exposes deposit and withdrawal endpoints.
func RegisterCashRoutes(r fiber.Router, h *cash.Handler) {
	grp := r.Group("/cash")
	grp.Post("/deposit", h.Deposit)
	grp.Post("/withdraw", h.Withdraw)
}
