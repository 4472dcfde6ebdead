package cash

import (
	"context"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"

	"github.com/nova-bank/nova_bank/internal/accounts"
	"github.com/nova-bank/nova_bank/internal/apperr"
	"github.com/nova-bank/nova_bank/internal/blocker"
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

type cashFixture struct {
	svc      *Service
	ledger   *accounts.Memory
	gate     *stubGate
	repo     *MemoryRepository
	notifier *recordingNotifier
}

func newCashFixture(balance string) cashFixture {
	ledger := accounts.NewMemory()
	ledger.Seed(accounts.Account{
		ID:       1,
		Owner:    "alice",
		Currency: "USD",
		Balance:  decimal.RequireFromString(balance),
	})

	gate := &stubGate{}
	repo := NewMemoryRepository()
	notifier := &recordingNotifier{}
	svc := NewService(ledger, gate, repo, notifier, logging.Discard())

	return cashFixture{svc: svc, ledger: ledger, gate: gate, repo: repo, notifier: notifier}
}

func TestProcessDeposit(t *testing.T) {
	f := newCashFixture("100")

	res, err := f.svc.Process(context.Background(), OperationInput{
		BankAccountID: 1,
		Amount:        decimal.NewFromInt(50),
		Kind:          KindDeposit,
		Actor:         "alice",
	})
	require.NoError(t, err)
	require.Equal(t, StatusSuccess, res.Status)
	require.Equal(t, "150", res.NewBalance.String())
	require.NotEmpty(t, res.TransactionID)

	records := f.repo.Records()
	require.Len(t, records, 1)
	require.Equal(t, KindDeposit, records[0].Kind)
	require.Equal(t, StatusSuccess, records[0].Status)
	require.Equal(t, "USD", records[0].Currency)

	require.Len(t, f.notifier.events, 1)
	require.Equal(t, notification.SeverityInfo, f.notifier.events[0].Severity)
	require.Equal(t, "alice", f.notifier.events[0].Recipient)
}

func TestProcessWithdrawal(t *testing.T) {
	f := newCashFixture("100")

	res, err := f.svc.Process(context.Background(), OperationInput{
		BankAccountID: 1,
		Amount:        decimal.NewFromInt(40),
		Kind:          KindWithdrawal,
		Actor:         "alice",
	})
	require.NoError(t, err)
	require.Equal(t, "60", res.NewBalance.String())

	updates := f.ledger.Updates()
	require.Len(t, updates, 1)
	require.Equal(t, accounts.OperationSubtract, updates[0].Operation)
}

func TestProcessWithdrawalInsufficientBalance(t *testing.T) {
	f := newCashFixture("30")

	_, err := f.svc.Process(context.Background(), OperationInput{
		BankAccountID: 1,
		Amount:        decimal.NewFromInt(50),
		Kind:          KindWithdrawal,
		Actor:         "alice",
	})
	require.True(t, apperr.IsBusiness(err))
	require.Contains(t, err.Error(), "Insufficient balance")

	require.Empty(t, f.ledger.Updates())
	require.Empty(t, f.repo.Records())
}

func TestProcessRejectsNonPositiveAmount(t *testing.T) {
	f := newCashFixture("100")

	for _, amount := range []string{"0", "-5"} {
		_, err := f.svc.Process(context.Background(), OperationInput{
			BankAccountID: 1,
			Amount:        decimal.RequireFromString(amount),
			Kind:          KindDeposit,
			Actor:         "alice",
		})
		require.True(t, apperr.IsBusiness(err))
	}
	require.Zero(t, f.gate.calls)
}

func TestProcessUnknownAccount(t *testing.T) {
	f := newCashFixture("100")

	_, err := f.svc.Process(context.Background(), OperationInput{
		BankAccountID: 99,
		Amount:        decimal.NewFromInt(10),
		Kind:          KindDeposit,
		Actor:         "alice",
	})
	require.True(t, apperr.IsBusiness(err))
	require.Contains(t, err.Error(), "Bank account not found")
}

func TestProcessBlockedOperation(t *testing.T) {
	f := newCashFixture("100")
	f.gate.decision = blocker.Decision{Blocked: true, Reason: "amount exceeds allowed threshold"}

	_, err := f.svc.Process(context.Background(), OperationInput{
		BankAccountID: 1,
		Amount:        decimal.NewFromInt(50),
		Kind:          KindDeposit,
		Actor:         "alice",
	})
	require.True(t, apperr.IsBusiness(err))
	require.Contains(t, err.Error(), "blocked by security system")

	// No mutation after a block, only the audit record and the warning.
	require.Empty(t, f.ledger.Updates())

	records := f.repo.Records()
	require.Len(t, records, 1)
	require.Equal(t, StatusBlocked, records[0].Status)

	require.Len(t, f.notifier.events, 1)
	require.Equal(t, notification.SeverityWarning, f.notifier.events[0].Severity)
}

func TestProcessGateErrorAborts(t *testing.T) {
	f := newCashFixture("100")
	f.gate.err = apperr.NewUnavailable("blocker service")

	_, err := f.svc.Process(context.Background(), OperationInput{
		BankAccountID: 1,
		Amount:        decimal.NewFromInt(50),
		Kind:          KindDeposit,
		Actor:         "alice",
	})
	require.True(t, apperr.IsUnavailable(err))
	require.Empty(t, f.ledger.Updates())
	require.Empty(t, f.repo.Records())
}
