package exchange

import (
	"net/http"

	"github.com/gofiber/fiber/v2"
	"github.com/shopspring/decimal"

	"github.com/nova-bank/nova_bank/internal/apperr"
)

// Handler exposes the rate table and the conversion endpoint. Responses use
// the {success, message, data} envelope the remote-converter client consumes,
// so two instances of this service can be wired to each other.
type Handler struct {
	service *Service
}

// NewHandler constructs an exchange handler.
func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

type rateBody struct {
	Currency string          `json:"currency"`
	BuyRate  decimal.Decimal `json:"buyRate"`
	SellRate decimal.Decimal `json:"sellRate"`
}

// Rates lists all configured quotes.
func (h *Handler) Rates(c *fiber.Ctx) error {
	rates, err := h.service.Rates(c.UserContext())
	if err != nil {
		return err
	}
	out := make([]rateBody, 0, len(rates))
	for _, r := range rates {
		out = append(out, rateBody{Currency: r.Currency, BuyRate: r.Buy, SellRate: r.Sell})
	}
	return c.Status(http.StatusOK).JSON(fiber.Map{"success": true, "data": out})
}

type convertBody struct {
	Amount       decimal.Decimal `json:"amount"`
	FromCurrency string          `json:"fromCurrency"`
	ToCurrency   string          `json:"toCurrency"`
}

// Convert converts an amount between two currencies.
func (h *Handler) Convert(c *fiber.Ctx) error {
	var req convertBody
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(http.StatusBadRequest, err.Error())
	}
	if req.FromCurrency == "" || req.ToCurrency == "" {
		return fiber.NewError(http.StatusBadRequest, "fromCurrency and toCurrency are required")
	}
	if req.Amount.Sign() <= 0 {
		return fiber.NewError(http.StatusBadRequest, "amount must be positive")
	}

	converted, err := h.service.Convert(c.UserContext(), req.Amount, req.FromCurrency, req.ToCurrency)
	if err != nil {
		if apperr.IsBusiness(err) {
			return c.Status(http.StatusBadRequest).JSON(fiber.Map{
				"success": false,
				"message": err.Error(),
			})
		}
		return err
	}

	return c.Status(http.StatusOK).JSON(fiber.Map{"success": true, "data": converted})
}
