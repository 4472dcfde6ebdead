package blocker

import (
	"context"

	"github.com/shopspring/decimal"
)

// Operation describes the money movement submitted for a fraud decision.
type Operation struct {
	Actor  string
	Amount decimal.Decimal
	Kind   string
}

// Decision is the gate's verdict. The gate has no other side effect.
type Decision struct {
	Blocked bool
	Reason  string
}

// Gate vetoes operations before any balance mutation occurs. Implementations
// must be safe to call with a bounded timeout; they decide internally how an
// unreachable backend maps to a Decision (fail-open by default).
type Gate interface {
	Check(ctx context.Context, op Operation) (Decision, error)
}
