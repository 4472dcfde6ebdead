package blocker

import (
	"net/http"

	"github.com/gofiber/fiber/v2"
	"github.com/shopspring/decimal"
)

// Handler exposes the in-process fraud gate over HTTP so other services can
// consult it the same way this one consults a remote blocker.
type Handler struct {
	service *Service
}

// NewHandler constructs a blocker handler.
func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

type checkBody struct {
	Username string          `json:"username"`
	Amount   decimal.Decimal `json:"amount"`
	Type     string          `json:"type"`
}

// Check evaluates one operation descriptor and returns the verdict.
func (h *Handler) Check(c *fiber.Ctx) error {
	var req checkBody
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(http.StatusBadRequest, err.Error())
	}
	if req.Username == "" {
		return fiber.NewError(http.StatusBadRequest, "username is required")
	}

	decision, err := h.service.Check(c.UserContext(), Operation{
		Actor:  req.Username,
		Amount: req.Amount,
		Kind:   req.Type,
	})
	if err != nil {
		return err
	}

	return c.Status(http.StatusOK).JSON(fiber.Map{
		"blocked": decision.Blocked,
		"reason":  decision.Reason,
	})
}
