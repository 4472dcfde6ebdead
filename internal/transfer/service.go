package transfer

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
	"github.com/nova-bank/nova_bank/internal/exchange"
	"github.com/nova-bank/nova_bank/internal/notification"
)

// Service runs the transfer saga: resolve destination, fraud gate, currency
// conversion, debit then credit on the remote ledger, audit record,
// notifications. The two ledger mutations are not atomic; a failed credit is
// compensated by re-crediting the source, and only when that reversal also
// fails does the record land in RECONCILIATION_PENDING.
type Service struct {
	accounts  accounts.Client
	gate      blocker.Gate
	converter exchange.Converter
	repo      Repository
	notifier  notification.Publisher
	logger    *slog.Logger
}

// NewService constructs the transfer orchestrator.
func NewService(accts accounts.Client, gate blocker.Gate, converter exchange.Converter, repo Repository, notifier notification.Publisher, logger *slog.Logger) *Service {
	return &Service{accounts: accts, gate: gate, converter: converter, repo: repo, notifier: notifier, logger: logger}
}

// Input captures one transfer request. Exactly one of ToBankAccountID or
// RecipientEmail must identify the destination.
type Input struct {
	FromBankAccountID int64
	ToBankAccountID   *int64
	RecipientEmail    string
	Amount            decimal.Decimal
	Actor             string
}

// Result is the caller-facing outcome of a successful transfer.
type Result struct {
	TransferID      string
	Status          string
	Message         string
	ConvertedAmount decimal.Decimal
}

// Process runs the saga for one transfer request.
func (s *Service) Process(ctx context.Context, in Input) (Result, error) {
	// Validation happens before any remote call.
	if in.Amount.Sign() <= 0 {
		return Result{}, apperr.NewBusiness("amount must be positive")
	}
	if in.ToBankAccountID == nil && in.RecipientEmail == "" {
		return Result{}, apperr.NewBusiness("Either destination bank account ID or recipient email must be provided")
	}
	if in.ToBankAccountID != nil && *in.ToBankAccountID == in.FromBankAccountID {
		return Result{}, apperr.NewBusiness("Cannot transfer to the same account")
	}

	from, err := s.accounts.Account(ctx, in.FromBankAccountID)
	if err != nil {
		if errors.Is(err, accounts.ErrNotFound) {
			return Result{}, apperr.NewBusiness("Source bank account not found")
		}
		return Result{}, err
	}
	if from.Owner != in.Actor {
		return Result{}, apperr.NewBusiness("Source bank account does not belong to the user")
	}
	if from.Balance.LessThan(in.Amount) {
		return Result{}, apperr.NewBusiness("Insufficient balance")
	}

	to, err := s.resolveDestination(ctx, in, from)
	if err != nil {
		return Result{}, err
	}
	if to.ID == from.ID {
		return Result{}, apperr.NewBusiness("Cannot transfer to the same account")
	}

	// Self-transfers skip the fraud gate: moving money between one user's
	// own accounts is not subject to blocking.
	if from.Owner != to.Owner {
		decision, err := s.gate.Check(ctx, blocker.Operation{Actor: in.Actor, Amount: in.Amount, Kind: "TRANSFER"})
		if err != nil {
			return Result{}, err
		}
		if decision.Blocked {
			return Result{}, s.reject(ctx, in, from, to)
		}
	}

	converted := in.Amount
	if from.Currency != to.Currency {
		converted, err = s.converter.Convert(ctx, in.Amount, from.Currency, to.Currency)
		if err != nil {
			// Nothing has been mutated yet; the conversion failure aborts
			// the whole transfer.
			return Result{}, err
		}
	}

	if _, err := s.accounts.UpdateBalance(ctx, accounts.BalanceUpdate{
		AccountID: from.ID,
		Amount:    in.Amount,
		Operation: accounts.OperationSubtract,
	}); err != nil {
		if errors.Is(err, accounts.ErrInsufficientFunds) {
			return Result{}, apperr.NewBusiness("Insufficient balance")
		}
		return Result{}, err
	}

	if _, err := s.accounts.UpdateBalance(ctx, accounts.BalanceUpdate{
		AccountID: to.ID,
		Amount:    converted,
		Operation: accounts.OperationAdd,
	}); err != nil {
		return Result{}, s.compensate(ctx, in, from, to, converted, err)
	}

	record := Transfer{
		ID:                uuid.NewString(),
		FromBankAccountID: from.ID,
		ToBankAccountID:   to.ID,
		Amount:            in.Amount,
		ConvertedAmount:   converted,
		FromCurrency:      from.Currency,
		ToCurrency:        to.Currency,
		Status:            StatusSuccess,
		Description:       "Transfer completed successfully",
		CreatedAt:         time.Now().UTC(),
	}
	if err := s.repo.Save(ctx, record); err != nil {
		s.logger.Error("audit write failed after applied transfer",
			"from", from.ID, "to", to.ID, "error", err)
		return Result{}, fmt.Errorf("save transfer: %w", err)
	}

	s.notifier.Publish(ctx, notification.Event{
		Recipient: from.Owner,
		Message:   fmt.Sprintf("Transfer of %s %s sent", in.Amount.String(), from.Currency),
		Severity:  notification.SeverityInfo,
	})
	if from.Owner != to.Owner {
		s.notifier.Publish(ctx, notification.Event{
			Recipient: to.Owner,
			Message:   fmt.Sprintf("Transfer of %s %s received", converted.String(), to.Currency),
			Severity:  notification.SeverityInfo,
		})
	}

	return Result{
		TransferID:      record.ID,
		Status:          StatusSuccess,
		Message:         record.Description,
		ConvertedAmount: converted,
	}, nil
}

// resolveDestination finds the destination account either by id or by the
// recipient's email. Email resolution prefers an account in the source
// currency so no conversion is needed, and otherwise falls back to the
// recipient's first account.
func (s *Service) resolveDestination(ctx context.Context, in Input, from accounts.Account) (accounts.Account, error) {
	if in.ToBankAccountID != nil {
		to, err := s.accounts.Account(ctx, *in.ToBankAccountID)
		if err != nil {
			if errors.Is(err, accounts.ErrNotFound) {
				return accounts.Account{}, apperr.NewBusiness("Destination bank account not found")
			}
			return accounts.Account{}, err
		}
		return to, nil
	}

	candidates, err := s.accounts.AccountsByEmail(ctx, in.RecipientEmail)
	if err != nil {
		return accounts.Account{}, err
	}
	if len(candidates) == 0 {
		return accounts.Account{}, apperr.NewBusiness("No user found with email: %s", in.RecipientEmail)
	}

	for _, acct := range candidates {
		if acct.Currency == from.Currency {
			s.logger.Info("destination resolved to matching-currency account",
				"recipient", in.RecipientEmail, "currency", from.Currency)
			return acct, nil
		}
	}
	s.logger.Info("no matching-currency account for recipient, converting",
		"recipient", in.RecipientEmail, "from_currency", from.Currency, "to_currency", candidates[0].Currency)
	return candidates[0], nil
}

// reject records the blocked outcome before the debit step executes.
func (s *Service) reject(ctx context.Context, in Input, from, to accounts.Account) error {
	record := Transfer{
		ID:                uuid.NewString(),
		FromBankAccountID: from.ID,
		ToBankAccountID:   to.ID,
		Amount:            in.Amount,
		ConvertedAmount:   in.Amount,
		FromCurrency:      from.Currency,
		ToCurrency:        to.Currency,
		Status:            StatusBlocked,
		Description:       "The operation looks suspicious and is blocked by bank",
		CreatedAt:         time.Now().UTC(),
	}
	if err := s.repo.Save(ctx, record); err != nil {
		return fmt.Errorf("save blocked transfer: %w", err)
	}

	s.notifier.Publish(ctx, notification.Event{
		Recipient: from.Owner,
		Message:   "The operation looks suspicious and is blocked by bank",
		Severity:  notification.SeverityWarning,
	})

	return apperr.NewBusiness("The operation looks suspicious and is blocked by bank")
}

// compensate handles the saga's one dangerous window: the source debit
// applied but the destination credit failed. It re-credits the source; if
// that also fails the asymmetry is recorded for manual reconciliation
// instead of being masked.
func (s *Service) compensate(ctx context.Context, in Input, from, to accounts.Account, converted decimal.Decimal, cause error) error {
	s.logger.Error("destination credit failed after source debit, compensating",
		"from", from.ID, "to", to.ID, "amount", in.Amount.String(), "error", cause)

	record := Transfer{
		ID:                uuid.NewString(),
		FromBankAccountID: from.ID,
		ToBankAccountID:   to.ID,
		Amount:            in.Amount,
		ConvertedAmount:   converted,
		FromCurrency:      from.Currency,
		ToCurrency:        to.Currency,
		CreatedAt:         time.Now().UTC(),
	}

	if _, revErr := s.accounts.UpdateBalance(ctx, accounts.BalanceUpdate{
		AccountID: from.ID,
		Amount:    in.Amount,
		Operation: accounts.OperationAdd,
	}); revErr != nil {
		record.Status = StatusReconciliationPending
		record.Description = "Source debited; destination credit and reversal both failed"
		s.logger.Error("compensation failed, transfer requires manual reconciliation",
			"transfer_id", record.ID, "from", from.ID, "to", to.ID,
			"amount", in.Amount.String(), "error", revErr)
	} else {
		record.Status = StatusFailed
		record.Description = "Transfer reversed after destination credit failure"
	}

	if saveErr := s.repo.Save(ctx, record); saveErr != nil {
		s.logger.Error("failed to record compensation outcome",
			"transfer_id", record.ID, "status", record.Status, "error", saveErr)
	}

	if record.Status == StatusReconciliationPending {
		return apperr.NewBusiness("Transfer failed; the bank is reconciling your balance")
	}
	return apperr.NewBusiness("Transfer failed and was reversed")
}
