package cash

import (
	"context"
	"time"

	"github.com/shopspring/decimal"
)

// Kind is the direction of a cash operation. The endpoint fixes it; callers
// never choose it in the request body.
type Kind string

const (
	KindDeposit    Kind = "DEPOSIT"
	KindWithdrawal Kind = "WITHDRAWAL"
)

// Transaction statuses. A status is terminal and set exactly once: the record
// is written only after the outcome is known and never mutated afterward.
const (
	StatusSuccess = "SUCCESS"
	StatusBlocked = "BLOCKED"
)

// Transaction is the audit record of one cash operation. Amount is always
// positive; Kind carries the direction.
type Transaction struct {
	ID            string
	BankAccountID int64
	Kind          Kind
	Amount        decimal.Decimal
	Currency      string
	Status        string
	Description   string
	CreatedAt     time.Time
}

// Repository persists cash transaction audit records.
type Repository interface {
	Save(ctx context.Context, tx Transaction) error
}
