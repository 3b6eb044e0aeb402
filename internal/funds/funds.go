// Package funds tracks the demo account balance. Add-funds flows validate a
// UPI ID and credit the balance instantly; no payment rails are involved.
package funds

import (
	"sync"
	"time"

	"github.com/rs/zerolog"

	apperrors "tradeview/internal/errors"
	"tradeview/internal/models"
	"tradeview/internal/validate"
)

// TxnKind classifies a funds transaction.
type TxnKind string

const (
	TxnAdd      TxnKind = "ADD"
	TxnWithdraw TxnKind = "WITHDRAW"
)

// Txn is a funds ledger entry.
type Txn struct {
	Kind   TxnKind   `json:"kind"`
	Amount float64   `json:"amount"`
	UPIID  string    `json:"upi_id,omitempty"`
	Time   time.Time `json:"time"`
}

// Manager holds the available balance and an in-memory transaction ledger.
type Manager struct {
	logger zerolog.Logger

	mu      sync.Mutex
	balance float64
	ledger  []Txn
	nowFn   func() time.Time
}

// DefaultOpeningBalance is the demo account's starting cash.
const DefaultOpeningBalance = 125000.00

// NewManager creates a funds manager with the given opening balance.
func NewManager(opening float64, logger zerolog.Logger) *Manager {
	return &Manager{
		logger:  logger.With().Str("component", "funds").Logger(),
		balance: models.Round2(opening),
		nowFn:   time.Now,
	}
}

// Balance returns the available balance.
func (m *Manager) Balance() float64 {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.balance
}

// Add credits the balance from the given UPI ID.
func (m *Manager) Add(upiID string, amount float64) (float64, error) {
	if err := validate.UPIID(upiID); err != nil {
		return 0, err
	}
	if err := validate.Amount(amount); err != nil {
		return 0, err
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	m.balance = models.Round2(m.balance + amount)
	m.ledger = append(m.ledger, Txn{Kind: TxnAdd, Amount: models.Round2(amount), UPIID: upiID, Time: m.nowFn()})
	m.logger.Info().Float64("amount", amount).Float64("balance", m.balance).Msg("funds added")
	return m.balance, nil
}

// Withdraw debits the balance.
func (m *Manager) Withdraw(amount float64) (float64, error) {
	if err := validate.Amount(amount); err != nil {
		return 0, err
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	if amount > m.balance {
		return m.balance, apperrors.ErrInsufficientFunds
	}
	m.balance = models.Round2(m.balance - amount)
	m.ledger = append(m.ledger, Txn{Kind: TxnWithdraw, Amount: models.Round2(amount), Time: m.nowFn()})
	m.logger.Info().Float64("amount", amount).Float64("balance", m.balance).Msg("funds withdrawn")
	return m.balance, nil
}

// Ledger returns a copy of the transaction history, newest last.
func (m *Manager) Ledger() []Txn {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]Txn, len(m.ledger))
	copy(out, m.ledger)
	return out
}
