package notification

import (
	"errors"
	"net/http"
	"time"

	"github.com/gofiber/fiber/v2"
)

// Handler serves the per-user notification inbox.
type Handler struct {
	service *Service
}

// NewHandler constructs a notification handler.
func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

type notificationBody struct {
	ID        string `json:"id"`
	Message   string `json:"message"`
	Severity  string `json:"severity"`
	Read      bool   `json:"read"`
	CreatedAt string `json:"createdAt"`
}

// Inbox lists the authenticated user's notifications.
func (h *Handler) Inbox(c *fiber.Ctx) error {
	username, _ := c.Locals("username").(string)
	if username == "" {
		return fiber.NewError(http.StatusUnauthorized, "unauthenticated")
	}

	items, err := h.service.Inbox(c.UserContext(), username)
	if err != nil {
		return err
	}

	out := make([]notificationBody, 0, len(items))
	for _, n := range items {
		out = append(out, notificationBody{
			ID:        n.ID,
			Message:   n.Message,
			Severity:  string(n.Severity),
			Read:      n.Read,
			CreatedAt: n.CreatedAt.Format(time.RFC3339Nano),
		})
	}
	return c.Status(http.StatusOK).JSON(fiber.Map{"success": true, "data": out})
}

// MarkRead acknowledges one of the authenticated user's notifications.
func (h *Handler) MarkRead(c *fiber.Ctx) error {
	username, _ := c.Locals("username").(string)
	if username == "" {
		return fiber.NewError(http.StatusUnauthorized, "unauthenticated")
	}

	if err := h.service.MarkRead(c.UserContext(), c.Params("id"), username); err != nil {
		if errors.Is(err, ErrNotificationNotFound) {
			return fiber.NewError(http.StatusNotFound, "notification not found")
		}
		return err
	}
	return c.SendStatus(http.StatusNoContent)
}
