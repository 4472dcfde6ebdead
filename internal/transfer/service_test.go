package transfer

import (
	"context"
	"errors"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"

	"github.com/nova-bank/nova_bank/internal/accounts"
	"github.com/nova-bank/nova_bank/internal/apperr"
	"github.com/nova-bank/nova_bank/internal/blocker"
	"github.com/nova-bank/nova_bank/internal/exchange"
	"github.com/nova-bank/nova_bank/internal/logging"
	"github.com/nova-bank/nova_bank/internal/notification"
)

type stubGate struct {
	decision blocker.Decision
	err      error
	calls    int
}

func (g *stubGate) Check(context.Context, blocker.Operation) (blocker.Decision, error) {
	g.calls++
	return g.decision, g.err
}

type recordingNotifier struct {
	events []notification.Event
}

func (n *recordingNotifier) Publish(_ context.Context, event notification.Event) {
	n.events = append(n.events, event)
}

type transferFixture struct {
	svc      *Service
	ledger   *accounts.Memory
	gate     *stubGate
	repo     *MemoryRepository
	notifier *recordingNotifier
}

func newTransferFixture(t *testing.T) transferFixture {
	t.Helper()
	ledger := accounts.NewMemory()
	ledger.Seed(accounts.Account{ID: 1, Owner: "alice", Currency: "USD", Balance: decimal.NewFromInt(500)})
	ledger.Seed(accounts.Account{ID: 2, Owner: "bob", Currency: "USD", Balance: decimal.NewFromInt(100)})
	ledger.Seed(accounts.Account{ID: 3, Owner: "bob", Currency: "CNY", Balance: decimal.NewFromInt(0)})
	ledger.Seed(accounts.Account{ID: 4, Owner: "alice", Currency: "CNY", Balance: decimal.NewFromInt(0)})

	rates := exchange.NewMemoryRepository()
	converter := exchange.NewService(rates, logging.Discard())
	ctx := context.Background()
	require.NoError(t, rates.Upsert(ctx, exchange.Rate{
		Currency: "USD",
		Buy:      decimal.RequireFromString("75.00"),
		Sell:     decimal.RequireFromString("77.50"),
	}))
	require.NoError(t, rates.Upsert(ctx, exchange.Rate{
		Currency: "CNY",
		Buy:      decimal.RequireFromString("10.50"),
		Sell:     decimal.RequireFromString("11.00"),
	}))

	gate := &stubGate{}
	repo := NewMemoryRepository()
	notifier := &recordingNotifier{}
	svc := NewService(ledger, gate, converter, repo, notifier, logging.Discard())

	return transferFixture{svc: svc, ledger: ledger, gate: gate, repo: repo, notifier: notifier}
}

func ptr(v int64) *int64 { return &v }

func balance(t *testing.T, f transferFixture, id int64) string {
	t.Helper()
	acct, err := f.ledger.Account(context.Background(), id)
	require.NoError(t, err)
	return acct.Balance.String()
}

func TestProcessSameCurrencyTransfer(t *testing.T) {
	f := newTransferFixture(t)

	res, err := f.svc.Process(context.Background(), Input{
		FromBankAccountID: 1,
		ToBankAccountID:   ptr(2),
		Amount:            decimal.NewFromInt(200),
		Actor:             "alice",
	})
	require.NoError(t, err)
	require.Equal(t, StatusSuccess, res.Status)
	require.Equal(t, "200", res.ConvertedAmount.String())

	require.Equal(t, "300", balance(t, f, 1))
	require.Equal(t, "300", balance(t, f, 2))

	records := f.repo.Records()
	require.Len(t, records, 1)
	require.Equal(t, StatusSuccess, records[0].Status)

	// Sender and recipient each get one INFO notification.
	require.Len(t, f.notifier.events, 2)
	require.Equal(t, "alice", f.notifier.events[0].Recipient)
	require.Equal(t, "bob", f.notifier.events[1].Recipient)
	require.Equal(t, 1, f.gate.calls)
}

func TestProcessCrossCurrencyTransfer(t *testing.T) {
	f := newTransferFixture(t)

	res, err := f.svc.Process(context.Background(), Input{
		FromBankAccountID: 1,
		ToBankAccountID:   ptr(3),
		Amount:            decimal.NewFromInt(100),
		Actor:             "alice",
	})
	require.NoError(t, err)
	require.Equal(t, "681.82", res.ConvertedAmount.StringFixed(2))

	// Source is debited in its own currency, destination credited converted.
	require.Equal(t, "400", balance(t, f, 1))
	require.Equal(t, "681.82", balance(t, f, 3))

	records := f.repo.Records()
	require.Len(t, records, 1)
	require.Equal(t, "USD", records[0].FromCurrency)
	require.Equal(t, "CNY", records[0].ToCurrency)
	require.Equal(t, "100", records[0].Amount.String())
}

func TestProcessSelfTransferSkipsGate(t *testing.T) {
	f := newTransferFixture(t)

	_, err := f.svc.Process(context.Background(), Input{
		FromBankAccountID: 1,
		ToBankAccountID:   ptr(4),
		Amount:            decimal.NewFromInt(100),
		Actor:             "alice",
	})
	require.NoError(t, err)
	require.Zero(t, f.gate.calls)

	// Moving money between one user's accounts sends a single notification.
	require.Len(t, f.notifier.events, 1)
}

func TestProcessResolvesRecipientByEmail(t *testing.T) {
	f := newTransferFixture(t)
	f.ledger.Seed(accounts.Account{ID: 5, Owner: "bob@bank.io", Currency: "CNY", Balance: decimal.NewFromInt(0)})
	f.ledger.Seed(accounts.Account{ID: 6, Owner: "bob@bank.io", Currency: "USD", Balance: decimal.NewFromInt(0)})

	res, err := f.svc.Process(context.Background(), Input{
		FromBankAccountID: 1,
		RecipientEmail:    "bob@bank.io",
		Amount:            decimal.NewFromInt(50),
		Actor:             "alice",
	})
	require.NoError(t, err)

	// The matching-currency account wins, so no conversion happens.
	require.Equal(t, "50", res.ConvertedAmount.String())
	require.Equal(t, "50", balance(t, f, 6))
	require.Equal(t, "0", balance(t, f, 5))
}

func TestProcessUnknownRecipientEmail(t *testing.T) {
	f := newTransferFixture(t)

	_, err := f.svc.Process(context.Background(), Input{
		FromBankAccountID: 1,
		RecipientEmail:    "nobody@bank.io",
		Amount:            decimal.NewFromInt(50),
		Actor:             "alice",
	})
	require.True(t, apperr.IsBusiness(err))
	require.Contains(t, err.Error(), "nobody@bank.io")
}

func TestProcessValidationBeforeRemoteCalls(t *testing.T) {
	f := newTransferFixture(t)

	cases := []struct {
		name string
		in   Input
	}{
		{"non-positive amount", Input{FromBankAccountID: 1, ToBankAccountID: ptr(2), Amount: decimal.Zero, Actor: "alice"}},
		{"no destination", Input{FromBankAccountID: 1, Amount: decimal.NewFromInt(10), Actor: "alice"}},
		{"same account", Input{FromBankAccountID: 1, ToBankAccountID: ptr(1), Amount: decimal.NewFromInt(10), Actor: "alice"}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := f.svc.Process(context.Background(), tc.in)
			require.True(t, apperr.IsBusiness(err))
		})
	}
	require.Zero(t, f.gate.calls)
	require.Empty(t, f.ledger.Updates())
}

func TestProcessRejectsForeignSourceAccount(t *testing.T) {
	f := newTransferFixture(t)

	_, err := f.svc.Process(context.Background(), Input{
		FromBankAccountID: 2,
		ToBankAccountID:   ptr(1),
		Amount:            decimal.NewFromInt(10),
		Actor:             "alice",
	})
	require.True(t, apperr.IsBusiness(err))
	require.Contains(t, err.Error(), "does not belong")
}

func TestProcessInsufficientBalance(t *testing.T) {
	f := newTransferFixture(t)

	_, err := f.svc.Process(context.Background(), Input{
		FromBankAccountID: 1,
		ToBankAccountID:   ptr(2),
		Amount:            decimal.NewFromInt(501),
		Actor:             "alice",
	})
	require.True(t, apperr.IsBusiness(err))
	require.Contains(t, err.Error(), "Insufficient balance")
	require.Empty(t, f.ledger.Updates())
}

func TestProcessBlockedTransfer(t *testing.T) {
	f := newTransferFixture(t)
	f.gate.decision = blocker.Decision{Blocked: true, Reason: "operation flagged as suspicious"}

	_, err := f.svc.Process(context.Background(), Input{
		FromBankAccountID: 1,
		ToBankAccountID:   ptr(2),
		Amount:            decimal.NewFromInt(100),
		Actor:             "alice",
	})
	require.True(t, apperr.IsBusiness(err))

	require.Empty(t, f.ledger.Updates())

	records := f.repo.Records()
	require.Len(t, records, 1)
	require.Equal(t, StatusBlocked, records[0].Status)

	require.Len(t, f.notifier.events, 1)
	require.Equal(t, notification.SeverityWarning, f.notifier.events[0].Severity)
}

func TestProcessCompensatesFailedCredit(t *testing.T) {
	f := newTransferFixture(t)
	f.ledger.UpdateErr = func(update accounts.BalanceUpdate) error {
		if update.Operation == accounts.OperationAdd && update.AccountID == 2 {
			return errors.New("ledger write failed")
		}
		return nil
	}

	_, err := f.svc.Process(context.Background(), Input{
		FromBankAccountID: 1,
		ToBankAccountID:   ptr(2),
		Amount:            decimal.NewFromInt(100),
		Actor:             "alice",
	})
	require.True(t, apperr.IsBusiness(err))
	require.Contains(t, err.Error(), "reversed")

	// The debit was rolled back, nothing reached the destination.
	require.Equal(t, "500", balance(t, f, 1))
	require.Equal(t, "100", balance(t, f, 2))

	records := f.repo.Records()
	require.Len(t, records, 1)
	require.Equal(t, StatusFailed, records[0].Status)
}

func TestProcessMarksReconciliationWhenReversalFails(t *testing.T) {
	f := newTransferFixture(t)
	f.ledger.UpdateErr = func(update accounts.BalanceUpdate) error {
		if update.Operation == accounts.OperationAdd {
			return errors.New("ledger write failed")
		}
		return nil
	}

	_, err := f.svc.Process(context.Background(), Input{
		FromBankAccountID: 1,
		ToBankAccountID:   ptr(2),
		Amount:            decimal.NewFromInt(100),
		Actor:             "alice",
	})
	require.True(t, apperr.IsBusiness(err))

	// The debit stuck, the credit and reversal both failed.
	require.Equal(t, "400", balance(t, f, 1))
	require.Equal(t, "100", balance(t, f, 2))

	records := f.repo.Records()
	require.Len(t, records, 1)
	require.Equal(t, StatusReconciliationPending, records[0].Status)
}
