package blocker

import (
	"context"
	"math/rand"

	"github.com/shopspring/decimal"
)

// Service is the in-process rule engine behind the fraud gate: any amount over
// the configured threshold is blocked outright, everything else is flagged
// with a configurable probability.
type Service struct {
	maxAmount   decimal.Decimal
	probability float64
	roll        func() float64
}

// NewService builds the rule engine. probability is clamped to [0, 1].
func NewService(maxAmount decimal.Decimal, probability float64) *Service {
	if probability < 0 {
		probability = 0
	}
	if probability > 1 {
		probability = 1
	}
	return &Service{maxAmount: maxAmount, probability: probability, roll: rand.Float64}
}

// Check applies the blocking rules to one operation.
func (s *Service) Check(_ context.Context, op Operation) (Decision, error) {
	if op.Amount.GreaterThan(s.maxAmount) {
		return Decision{Blocked: true, Reason: "amount exceeds allowed threshold"}, nil
	}
	if s.probability > 0 && s.roll() < s.probability {
		return Decision{Blocked: true, Reason: "operation flagged as suspicious"}, nil
	}
	return Decision{Reason: "operation allowed"}, nil
}
