package accounts

import (
	"context"
	"errors"

	"github.com/shopspring/decimal"
)

var (
	// ErrNotFound indicates the accounts service has no record for the
	// requested bank account.
	ErrNotFound = errors.New("bank account not found")

	// ErrInsufficientFunds is the ledger rejecting a SUBTRACT delta that
	// would drive the balance negative. It is a business outcome, not a
	// transport failure.
	ErrInsufficientFunds = errors.New("insufficient balance")
)

// Operation is the direction of a signed balance delta.
type Operation string

const (
	OperationAdd      Operation = "ADD"
	OperationSubtract Operation = "SUBTRACT"
)

// Account mirrors the bank account exposed by the remote accounts service.
// Balances live there; this process never stores one.
type Account struct {
	ID       int64
	Owner    string
	Currency string
	Balance  decimal.Decimal
}

// BalanceUpdate describes a signed delta to apply to one account. Amount is
// always positive; Operation carries the sign.
type BalanceUpdate struct {
	AccountID int64
	Amount    decimal.Decimal
	Operation Operation
}

// Client is the typed boundary to the external ledger. UpdateBalance sends a
// signed delta and trusts the remote read-modify-write; callers must never
// compute a balance locally and write it back.
type Client interface {
	Account(ctx context.Context, id int64) (Account, error)
	AccountsByEmail(ctx context.Context, email string) ([]Account, error)
	UpdateBalance(ctx context.Context, update BalanceUpdate) (Account, error)
}
