package exchange

import (
	"context"
	"errors"
	"time"

	"github.com/shopspring/decimal"
)

// BaseCurrency is the pivot for every conversion: amounts are bought into it
// and sold out of it, matching how the rate table is quoted.
const BaseCurrency = "RUB"

// ErrRateNotFound indicates no rate is configured for a currency.
var ErrRateNotFound = errors.New("exchange rate not found")

// Rate holds the bank's buy and sell quotes for one currency against the base.
type Rate struct {
	Currency  string
	Buy       decimal.Decimal
	Sell      decimal.Decimal
	UpdatedAt time.Time
}

// Repository stores the current rate per currency. Updates replace the
// previous quote; history is not kept.
type Repository interface {
	Upsert(ctx context.Context, rate Rate) error
	Find(ctx context.Context, currency string) (Rate, error)
	List(ctx context.Context) ([]Rate, error)
}

// Converter turns an amount in one currency into another. The transfer saga
// depends on this interface, not on whether conversion happens in-process or
// behind HTTP.
type Converter interface {
	Convert(ctx context.Context, amount decimal.Decimal, from, to string) (decimal.Decimal, error)
}
