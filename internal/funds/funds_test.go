package funds

import (
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apperrors "tradeview/internal/errors"
)

func TestAddFunds(t *testing.T) {
	m := NewManager(1000, zerolog.Nop())

	balance, err := m.Add("user@paytm", 500.505)
	require.NoError(t, err)
	assert.Equal(t, 1500.51, balance, "balance rounded to two decimals")

	_, err = m.Add("not-a-upi-id", 100)
	assert.ErrorIs(t, err, apperrors.ErrInputValidation)

	_, err = m.Add("user@paytm", 0)
	assert.ErrorIs(t, err, apperrors.ErrInputValidation)

	_, err = m.Add("user@paytm", -50)
	assert.ErrorIs(t, err, apperrors.ErrInputValidation)

	assert.Equal(t, 1500.51, m.Balance(), "failed adds leave the balance alone")
}

func TestWithdraw(t *testing.T) {
	m := NewManager(1000, zerolog.Nop())

	balance, err := m.Withdraw(400)
	require.NoError(t, err)
	assert.Equal(t, 600.00, balance)

	_, err = m.Withdraw(601)
	assert.ErrorIs(t, err, apperrors.ErrInsufficientFunds)
	assert.Equal(t, 600.00, m.Balance())

	_, err = m.Withdraw(-1)
	assert.ErrorIs(t, err, apperrors.ErrInputValidation)
}

func TestLedger(t *testing.T) {
	m := NewManager(1000, zerolog.Nop())

	_, err := m.Add("user@paytm", 250)
	require.NoError(t, err)
	_, err = m.Withdraw(100)
	require.NoError(t, err)

	ledger := m.Ledger()
	require.Len(t, ledger, 2)
	assert.Equal(t, TxnAdd, ledger[0].Kind)
	assert.Equal(t, "user@paytm", ledger[0].UPIID)
	assert.Equal(t, TxnWithdraw, ledger[1].Kind)
	assert.False(t, ledger[0].Time.IsZero())
}
