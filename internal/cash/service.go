package cash

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/nova-bank/nova_bank/internal/accounts"
	"github.com/nova-bank/nova_bank/internal/apperr"
	"github.com/nova-bank/nova_bank/internal/blocker"
	"github.com/nova-bank/nova_bank/internal/notification"
)

// Service orchestrates a single-account cash operation: fraud gate, signed
// delta on the remote ledger, audit record, notification. Steps run strictly
// in sequence; nothing is mutated before the gate has answered.
type Service struct {
	accounts accounts.Client
	gate     blocker.Gate
	repo     Repository
	notifier notification.Publisher
	logger   *slog.Logger
}

// NewService constructs the cash operation processor.
func NewService(accts accounts.Client, gate blocker.Gate, repo Repository, notifier notification.Publisher, logger *slog.Logger) *Service {
	return &Service{accounts: accts, gate: gate, repo: repo, notifier: notifier, logger: logger}
}

// OperationInput captures one deposit or withdrawal request.
type OperationInput struct {
	BankAccountID int64
	Amount        decimal.Decimal
	Kind          Kind
	Actor         string
}

// OperationResult is the caller-facing outcome of a successful operation.
type OperationResult struct {
	TransactionID string
	Status        string
	Message       string
	NewBalance    decimal.Decimal
}

// Process runs the cash operation state machine.
func (s *Service) Process(ctx context.Context, in OperationInput) (OperationResult, error) {
	if in.Amount.Sign() <= 0 {
		return OperationResult{}, apperr.NewBusiness("amount must be positive")
	}

	acct, err := s.accounts.Account(ctx, in.BankAccountID)
	if err != nil {
		if errors.Is(err, accounts.ErrNotFound) {
			return OperationResult{}, apperr.NewBusiness("Bank account not found")
		}
		return OperationResult{}, err
	}

	decision, err := s.gate.Check(ctx, blocker.Operation{Actor: in.Actor, Amount: in.Amount, Kind: string(in.Kind)})
	if err != nil {
		return OperationResult{}, err
	}
	if decision.Blocked {
		return OperationResult{}, s.reject(ctx, in, acct.Currency)
	}

	// Fast local check; the ledger enforces the same rule authoritatively.
	if in.Kind == KindWithdrawal && acct.Balance.LessThan(in.Amount) {
		return OperationResult{}, apperr.NewBusiness("Insufficient balance")
	}

	op := accounts.OperationAdd
	if in.Kind == KindWithdrawal {
		op = accounts.OperationSubtract
	}
	updated, err := s.accounts.UpdateBalance(ctx, accounts.BalanceUpdate{
		AccountID: in.BankAccountID,
		Amount:    in.Amount,
		Operation: op,
	})
	if err != nil {
		if errors.Is(err, accounts.ErrInsufficientFunds) {
			return OperationResult{}, apperr.NewBusiness("Insufficient balance")
		}
		if errors.Is(err, accounts.ErrNotFound) {
			return OperationResult{}, apperr.NewBusiness("Bank account not found")
		}
		return OperationResult{}, err
	}

	tx := Transaction{
		ID:            uuid.NewString(),
		BankAccountID: in.BankAccountID,
		Kind:          in.Kind,
		Amount:        in.Amount,
		Currency:      acct.Currency,
		Status:        StatusSuccess,
		Description:   fmt.Sprintf("%s completed successfully", in.Kind),
		CreatedAt:     time.Now().UTC(),
	}
	if err := s.repo.Save(ctx, tx); err != nil {
		// The delta was already applied; a lost audit row must never hide that.
		s.logger.Error("audit write failed after applied mutation",
			"bank_account_id", in.BankAccountID, "kind", string(in.Kind), "error", err)
		return OperationResult{}, fmt.Errorf("save transaction: %w", err)
	}

	s.notifier.Publish(ctx, notification.Event{
		Recipient: in.Actor,
		Message:   fmt.Sprintf("%s of %s %s completed", in.Kind, in.Amount.String(), acct.Currency),
		Severity:  notification.SeverityInfo,
	})

	return OperationResult{
		TransactionID: tx.ID,
		Status:        StatusSuccess,
		Message:       tx.Description,
		NewBalance:    updated.Balance,
	}, nil
}

// reject records the blocked outcome, warns the actor and returns the
// business error. No balance mutation happens after a block.
func (s *Service) reject(ctx context.Context, in OperationInput, currency string) error {
	tx := Transaction{
		ID:            uuid.NewString(),
		BankAccountID: in.BankAccountID,
		Kind:          in.Kind,
		Amount:        in.Amount,
		Currency:      currency,
		Status:        StatusBlocked,
		Description:   "Operation blocked by security system",
		CreatedAt:     time.Now().UTC(),
	}
	if err := s.repo.Save(ctx, tx); err != nil {
		return fmt.Errorf("save blocked transaction: %w", err)
	}

	s.notifier.Publish(ctx, notification.Event{
		Recipient: in.Actor,
		Message:   fmt.Sprintf("Suspicious operation blocked: %s %s", in.Kind, in.Amount.String()),
		Severity:  notification.SeverityWarning,
	})

	return apperr.NewBusiness("Operation blocked by security system")
}
