package transfer

import (
	"context"
	"time"

	"github.com/shopspring/decimal"
)

// Transfer statuses. SUCCESS and BLOCKED are the ordinary terminal outcomes.
// FAILED marks a transfer whose destination credit failed and whose source
// debit was successfully reversed. RECONCILIATION_PENDING marks the one state
// the saga cannot repair on its own: the debit applied, the credit failed and
// the compensating credit failed too, so an operator has to settle it.
const (
	StatusSuccess               = "SUCCESS"
	StatusBlocked               = "BLOCKED"
	StatusFailed                = "FAILED"
	StatusReconciliationPending = "RECONCILIATION_PENDING"
)

// Transfer is the audit record of one transfer attempt. ConvertedAmount
// equals Amount when both accounts share a currency.
type Transfer struct {
	ID                string
	FromBankAccountID int64
	ToBankAccountID   int64
	Amount            decimal.Decimal
	ConvertedAmount   decimal.Decimal
	FromCurrency      string
	ToCurrency        string
	Status            string
	Description       string
	CreatedAt         time.Time
}

// Repository persists transfer audit records.
type Repository interface {
	Save(ctx context.Context, t Transfer) error
}
