package blocker

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/sony/gobreaker"
)

// HTTPGate calls a remote blocker service. All calls run through a circuit
// breaker; when the breaker is open or the call fails the gate degrades to a
// fixed policy instead of surfacing a transport error: fail-open returns
// "not blocked" (the availability trade-off inherited from the original
// system), fail-closed blocks everything until the service recovers.
type HTTPGate struct {
	base       string
	client     *http.Client
	breaker    *gobreaker.CircuitBreaker
	failClosed bool
	logger     *slog.Logger
}

// NewHTTPGate builds a remote gate client.
func NewHTTPGate(baseURL string, timeout time.Duration, failClosed bool, logger *slog.Logger) *HTTPGate {
	breaker := gobreaker.NewCircuitBreaker(gobreaker.Settings{
		Name:    "blocker",
		Timeout: 30 * time.Second,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures >= 3
		},
	})
	return &HTTPGate{
		base:       strings.TrimRight(baseURL, "/"),
		client:     &http.Client{Timeout: timeout},
		breaker:    breaker,
		failClosed: failClosed,
		logger:     logger,
	}
}

type checkRequest struct {
	Username string          `json:"username"`
	Amount   json.RawMessage `json:"amount"`
	Type     string          `json:"type"`
}

type checkResponse struct {
	Blocked bool   `json:"blocked"`
	Reason  string `json:"reason"`
}

// Check asks the remote service for a verdict, degrading per the configured
// policy when it cannot answer.
func (g *HTTPGate) Check(ctx context.Context, op Operation) (Decision, error) {
	res, err := g.breaker.Execute(func() (any, error) {
		return g.check(ctx, op)
	})
	if err != nil {
		if g.failClosed {
			g.logger.Warn("fraud gate unreachable, failing closed", "actor", op.Actor, "error", err)
			return Decision{Blocked: true, Reason: "security check unavailable"}, nil
		}
		g.logger.Warn("fraud gate unreachable, failing open", "actor", op.Actor, "error", err)
		return Decision{Reason: "security check unavailable"}, nil
	}
	return res.(Decision), nil
}

func (g *HTTPGate) check(ctx context.Context, op Operation) (Decision, error) {
	amount, err := json.Marshal(op.Amount)
	if err != nil {
		return Decision{}, err
	}
	payload, err := json.Marshal(checkRequest{Username: op.Actor, Amount: amount, Type: op.Kind})
	if err != nil {
		return Decision{}, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, g.base+"/api/blocker/check", bytes.NewReader(payload))
	if err != nil {
		return Decision{}, err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := g.client.Do(req)
	if err != nil {
		return Decision{}, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return Decision{}, fmt.Errorf("blocker returned status %d", resp.StatusCode)
	}

	var out checkResponse
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return Decision{}, err
	}
	return Decision{Blocked: out.Blocked, Reason: out.Reason}, nil
}
