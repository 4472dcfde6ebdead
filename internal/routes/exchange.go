package routes

import (
	"github.com/gofiber/fiber/v2"

	"github.com/nova-bank/nova_bank/internal/exchange"
)

// RegisterExchangeRoutes exposes the rate table and conversion endpoints.
func RegisterExchangeRoutes(r fiber.Router, h *exchange.Handler) {
	grp := r.Group("/exchange")
	grp.Get("/rates", h.Rates)
	grp.Post("/convert", h.Convert)
}
