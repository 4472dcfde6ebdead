package accounts

import (
	"context"
	"sync"

	"github.com/shopspring/decimal"
)

// Memory is an in-process accounts double for unit tests. It applies signed
// deltas with the same insufficient-funds rule the real ledger enforces and
// records every UpdateBalance call so tests can assert the ledger was (or was
// not) touched.
type Memory struct {
	mu       sync.Mutex
	accounts map[int64]Account

	// UpdateErr, when set, is consulted before a delta is applied. Returning
	// a non-nil error simulates a failing ledger call.
	UpdateErr func(update BalanceUpdate) error

	updates []BalanceUpdate
}

// NewMemory creates an empty in-memory accounts double.
func NewMemory() *Memory {
	return &Memory{accounts: make(map[int64]Account)}
}

// Seed installs or replaces an account.
func (m *Memory) Seed(acct Account) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.accounts[acct.ID] = acct
}

// Updates returns a copy of the recorded balance mutations.
func (m *Memory) Updates() []BalanceUpdate {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]BalanceUpdate, len(m.updates))
	copy(out, m.updates)
	return out
}

// Account returns the seeded account or ErrNotFound.
func (m *Memory) Account(_ context.Context, id int64) (Account, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	acct, ok := m.accounts[id]
	if !ok {
		return Account{}, ErrNotFound
	}
	return acct, nil
}

// AccountsByEmail lists accounts whose owner matches the email.
func (m *Memory) AccountsByEmail(_ context.Context, email string) ([]Account, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []Account
	for _, acct := range m.accounts {
		if acct.Owner == email {
			out = append(out, acct)
		}
	}
	return out, nil
}

// UpdateBalance applies a signed delta in memory.
func (m *Memory) UpdateBalance(_ context.Context, update BalanceUpdate) (Account, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.UpdateErr != nil {
		if err := m.UpdateErr(update); err != nil {
			return Account{}, err
		}
	}

	acct, ok := m.accounts[update.AccountID]
	if !ok {
		return Account{}, ErrNotFound
	}

	var next decimal.Decimal
	switch update.Operation {
	case OperationAdd:
		next = acct.Balance.Add(update.Amount)
	case OperationSubtract:
		next = acct.Balance.Sub(update.Amount)
		if next.IsNegative() {
			return Account{}, ErrInsufficientFunds
		}
	default:
		return Account{}, ErrNotFound
	}

	acct.Balance = next
	m.accounts[update.AccountID] = acct
	m.updates = append(m.updates, update)
	return acct, nil
}
