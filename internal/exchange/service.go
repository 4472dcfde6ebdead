package exchange

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/shopspring/decimal"

	"github.com/nova-bank/nova_bank/internal/apperr"
)

// moneyScale is the number of decimal places kept after the sell-side division.
const moneyScale = 2

// Service owns the rate table and performs conversions against it.
type Service struct {
	repo   Repository
	logger *slog.Logger
}

// NewService builds the exchange service.
func NewService(repo Repository, logger *slog.Logger) *Service {
	return &Service{repo: repo, logger: logger}
}

// Rates lists every configured quote.
func (s *Service) Rates(ctx context.Context) ([]Rate, error) {
	return s.repo.List(ctx)
}

// UpdateRate replaces the quote for a currency.
func (s *Service) UpdateRate(ctx context.Context, rate Rate) error {
	rate.UpdatedAt = time.Now().UTC()
	if err := s.repo.Upsert(ctx, rate); err != nil {
		return err
	}
	s.logger.Debug("exchange rate updated",
		"currency", rate.Currency, "buy", rate.Buy.String(), "sell", rate.Sell.String())
	return nil
}

// Convert moves an amount between currencies through the base currency: the
// bank buys the source currency at its buy rate and sells the destination
// currency at its sell rate. Legs in the base currency are skipped.
func (s *Service) Convert(ctx context.Context, amount decimal.Decimal, from, to string) (decimal.Decimal, error) {
	if from == to {
		return amount, nil
	}

	base := amount
	if from != BaseCurrency {
		rate, err := s.repo.Find(ctx, from)
		if err != nil {
			return decimal.Decimal{}, rateError(from, err)
		}
		base = amount.Mul(rate.Buy)
	}

	if to != BaseCurrency {
		rate, err := s.repo.Find(ctx, to)
		if err != nil {
			return decimal.Decimal{}, rateError(to, err)
		}
		return base.DivRound(rate.Sell, moneyScale), nil
	}

	return base, nil
}

func rateError(currency string, err error) error {
	if errors.Is(err, ErrRateNotFound) {
		return apperr.NewBusiness("Exchange rate not found for %s", currency)
	}
	return err
}
