package routes

import (
	"github.com/gofiber/fiber/v2"

	"github.com/nova-bank/nova_bank/internal/notification"
)

// RegisterNotificationRoutes exposes the per-user inbox.
func RegisterNotificationRoutes(r fiber.Router, h *notification.Handler) {
	grp := r.Group("/notifications")
	grp.Get("/", h.Inbox)
	grp.Post("/:id/read", h.MarkRead)
}
