package routes

import (
	"github.com/gofiber/fiber/v2"

	"github.com/nova-bank/nova_bank/internal/transfer"
)

// RegisterTransferRoutes exposes the transfer endpoint.
func RegisterTransferRoutes(r fiber.Router, h *transfer.Handler) {
	r.Post("/transfers", h.Transfer)
}
