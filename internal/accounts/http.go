package accounts

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/nova-bank/nova_bank/internal/apperr"
)

const serviceName = "accounts service"

// HTTPClient talks to the accounts service over its REST boundary.
type HTTPClient struct {
	base   string
	client *http.Client
	logger *slog.Logger
}

// NewHTTPClient builds an accounts client with a bounded request timeout.
func NewHTTPClient(baseURL string, timeout time.Duration, logger *slog.Logger) *HTTPClient {
	return &HTTPClient{
		base:   strings.TrimRight(baseURL, "/"),
		client: &http.Client{Timeout: timeout},
		logger: logger,
	}
}

type envelope struct {
	Success bool            `json:"success"`
	Message string          `json:"message"`
	Data    json.RawMessage `json:"data"`
}

type accountDTO struct {
	ID              int64           `json:"id"`
	Currency        string          `json:"currency"`
	Balance         decimal.Decimal `json:"balance"`
	AccountUsername string          `json:"accountUsername"`
}

func (d accountDTO) toAccount() Account {
	return Account{ID: d.ID, Owner: d.AccountUsername, Currency: d.Currency, Balance: d.Balance}
}

// Account fetches one bank account by id.
func (c *HTTPClient) Account(ctx context.Context, id int64) (Account, error) {
	var dto accountDTO
	if err := c.get(ctx, fmt.Sprintf("/api/accounts/bank-accounts/%d", id), &dto); err != nil {
		return Account{}, err
	}
	return dto.toAccount(), nil
}

// AccountsByEmail lists every bank account owned by the user with the given email.
func (c *HTTPClient) AccountsByEmail(ctx context.Context, email string) ([]Account, error) {
	var dtos []accountDTO
	if err := c.get(ctx, "/api/accounts/by-email/"+url.PathEscape(email), &dtos); err != nil {
		return nil, err
	}
	out := make([]Account, 0, len(dtos))
	for _, d := range dtos {
		out = append(out, d.toAccount())
	}
	return out, nil
}

// UpdateBalance applies a signed delta on the remote ledger.
func (c *HTTPClient) UpdateBalance(ctx context.Context, update BalanceUpdate) (Account, error) {
	body := map[string]any{
		"bankAccountId": update.AccountID,
		"amount":        update.Amount,
		"operation":     update.Operation,
	}
	var dto accountDTO
	if err := c.post(ctx, "/api/accounts/bank-accounts/update-balance", body, &dto); err != nil {
		return Account{}, err
	}
	return dto.toAccount(), nil
}

func (c *HTTPClient) get(ctx context.Context, path string, out any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.base+path, nil)
	if err != nil {
		return fmt.Errorf("build request: %w", err)
	}
	return c.do(req, out)
}

func (c *HTTPClient) post(ctx context.Context, path string, body any, out any) error {
	payload, err := json.Marshal(body)
	if err != nil {
		return fmt.Errorf("encode request: %w", err)
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.base+path, bytes.NewReader(payload))
	if err != nil {
		return fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	return c.do(req, out)
}

func (c *HTTPClient) do(req *http.Request, out any) error {
	resp, err := c.client.Do(req)
	if err != nil {
		c.logger.Error("accounts call failed", "method", req.Method, "url", req.URL.String(), "error", err)
		return apperr.NewUnavailable(serviceName)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		c.logger.Error("accounts response read failed", "url", req.URL.String(), "error", err)
		return apperr.NewUnavailable(serviceName)
	}

	var env envelope
	if err := json.Unmarshal(raw, &env); err != nil {
		c.logger.Error("accounts response unparseable", "url", req.URL.String(), "status", resp.StatusCode)
		return apperr.NewUnavailable(serviceName)
	}

	if resp.StatusCode >= 500 {
		c.logger.Error("accounts call errored", "url", req.URL.String(), "status", resp.StatusCode, "message", env.Message)
		return apperr.NewUnavailable(serviceName)
	}
	if resp.StatusCode >= 400 || !env.Success {
		return classify(env.Message)
	}

	if out != nil && len(env.Data) > 0 {
		if err := json.Unmarshal(env.Data, out); err != nil {
			c.logger.Error("accounts payload unparseable", "url", req.URL.String(), "error", err)
			return apperr.NewUnavailable(serviceName)
		}
	}
	return nil
}

// classify maps the remote error message onto the client's sentinel errors so
// orchestrators can branch on outcomes instead of strings.
func classify(message string) error {
	lower := strings.ToLower(message)
	switch {
	case strings.Contains(lower, "insufficient"):
		return ErrInsufficientFunds
	case strings.Contains(lower, "not found"):
		return ErrNotFound
	case message == "":
		return apperr.NewUnavailable(serviceName)
	default:
		return apperr.NewBusiness("%s", message)
	}
}
