package cash

import (
	"net/http"

	"github.com/gofiber/fiber/v2"
	"github.com/shopspring/decimal"
)

// Handler exposes the cash endpoints. The operation kind is fixed by the
// route, never by a caller-supplied field.
type Handler struct {
	service *Service
}

// NewHandler constructs a cash handler.
func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

type operationRequest struct {
	BankAccountID int64           `json:"bankAccountId"`
	Amount        decimal.Decimal `json:"amount"`
}

// Deposit credits an account.
func (h *Handler) Deposit(c *fiber.Ctx) error {
	return h.process(c, KindDeposit)
}

// Withdraw debits an account.
func (h *Handler) Withdraw(c *fiber.Ctx) error {
	return h.process(c, KindWithdrawal)
}

func (h *Handler) process(c *fiber.Ctx, kind Kind) error {
	var req operationRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(http.StatusBadRequest, err.Error())
	}
	if req.BankAccountID <= 0 {
		return fiber.NewError(http.StatusBadRequest, "bankAccountId is required")
	}
	if req.Amount.Sign() <= 0 {
		return fiber.NewError(http.StatusBadRequest, "amount must be positive")
	}
	username, _ := c.Locals("username").(string)
	if username == "" {
		return fiber.NewError(http.StatusUnauthorized, "unauthenticated")
	}

	res, err := h.service.Process(c.UserContext(), OperationInput{
		BankAccountID: req.BankAccountID,
		Amount:        req.Amount,
		Kind:          kind,
		Actor:         username,
	})
	if err != nil {
		return err
	}

	return c.Status(http.StatusOK).JSON(fiber.Map{
		"transactionId": res.TransactionID,
		"status":        res.Status,
		"message":       res.Message,
		"newBalance":    res.NewBalance,
	})
}
