package exchange

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/shopspring/decimal"
	"github.com/sony/gobreaker"

	"github.com/nova-bank/nova_bank/internal/apperr"
)

// HTTPConverter converts through a remote exchange service. Calls run through
// a circuit breaker; the degraded variant never invents a rate, it rejects
// the conversion as a business failure, which aborts the transfer before any
// mutation happens.
type HTTPConverter struct {
	base    string
	client  *http.Client
	breaker *gobreaker.CircuitBreaker
	logger  *slog.Logger
}

// NewHTTPConverter builds a remote converter client.
func NewHTTPConverter(baseURL string, timeout time.Duration, logger *slog.Logger) *HTTPConverter {
	breaker := gobreaker.NewCircuitBreaker(gobreaker.Settings{
		Name:    "exchange",
		Timeout: 30 * time.Second,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures >= 3
		},
	})
	return &HTTPConverter{
		base:    strings.TrimRight(baseURL, "/"),
		client:  &http.Client{Timeout: timeout},
		breaker: breaker,
		logger:  logger,
	}
}

type conversionRequest struct {
	Amount       decimal.Decimal `json:"amount"`
	FromCurrency string          `json:"fromCurrency"`
	ToCurrency   string          `json:"toCurrency"`
}

type conversionResponse struct {
	Success bool            `json:"success"`
	Message string          `json:"message"`
	Data    decimal.Decimal `json:"data"`
}

// Convert requests a conversion from the remote service.
func (c *HTTPConverter) Convert(ctx context.Context, amount decimal.Decimal, from, to string) (decimal.Decimal, error) {
	res, err := c.breaker.Execute(func() (any, error) {
		return c.convert(ctx, amount, from, to)
	})
	if err != nil {
		if apperr.IsBusiness(err) {
			return decimal.Decimal{}, err
		}
		c.logger.Warn("exchange service unreachable", "from", from, "to", to, "error", err)
		return decimal.Decimal{}, apperr.NewBusiness("Currency conversion failed: exchange service unavailable")
	}
	return res.(decimal.Decimal), nil
}

func (c *HTTPConverter) convert(ctx context.Context, amount decimal.Decimal, from, to string) (decimal.Decimal, error) {
	payload, err := json.Marshal(conversionRequest{Amount: amount, FromCurrency: from, ToCurrency: to})
	if err != nil {
		return decimal.Decimal{}, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.base+"/api/exchange/convert", bytes.NewReader(payload))
	if err != nil {
		return decimal.Decimal{}, err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.client.Do(req)
	if err != nil {
		return decimal.Decimal{}, err
	}
	defer resp.Body.Close()

	var out conversionResponse
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return decimal.Decimal{}, err
	}

	if resp.StatusCode == http.StatusBadRequest || (resp.StatusCode == http.StatusOK && !out.Success) {
		// The remote rejected the conversion itself (e.g. unknown currency);
		// that is a business outcome, not an availability problem.
		return decimal.Decimal{}, apperr.NewBusiness("Currency conversion failed: %s", out.Message)
	}
	if resp.StatusCode != http.StatusOK {
		return decimal.Decimal{}, fmt.Errorf("exchange returned status %d", resp.StatusCode)
	}
	return out.Data, nil
}
