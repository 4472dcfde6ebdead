package transfer

import (
	"net/http"

	"github.com/gofiber/fiber/v2"
	"github.com/shopspring/decimal"
)

// Handler exposes the transfer endpoint.
type Handler struct {
	service *Service
}

// NewHandler constructs a transfer handler.
func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

type transferRequest struct {
	FromBankAccountID int64           `json:"fromBankAccountId"`
	ToBankAccountID   *int64          `json:"toBankAccountId"`
	RecipientEmail    string          `json:"recipientEmail"`
	Amount            decimal.Decimal `json:"amount"`
}

// Transfer moves money between two accounts.
func (h *Handler) Transfer(c *fiber.Ctx) error {
	var req transferRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(http.StatusBadRequest, err.Error())
	}
	if req.FromBankAccountID <= 0 {
		return fiber.NewError(http.StatusBadRequest, "fromBankAccountId is required")
	}
	if req.Amount.Sign() <= 0 {
		return fiber.NewError(http.StatusBadRequest, "amount must be positive")
	}
	username, _ := c.Locals("username").(string)
	if username == "" {
		return fiber.NewError(http.StatusUnauthorized, "unauthenticated")
	}

	res, err := h.service.Process(c.UserContext(), Input{
		FromBankAccountID: req.FromBankAccountID,
		ToBankAccountID:   req.ToBankAccountID,
		RecipientEmail:    req.RecipientEmail,
		Amount:            req.Amount,
		Actor:             username,
	})
	if err != nil {
		return err
	}

	return c.Status(http.StatusOK).JSON(fiber.Map{
		"transferId":      res.TransferID,
		"status":          res.Status,
		"message":         res.Message,
		"convertedAmount": res.ConvertedAmount,
	})
}
