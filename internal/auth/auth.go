// Package auth implements the PIN lock. The PIN gates app access only; it is
// demo-grade security, stored in plain text like the rest of the settings.
package auth

import (
	"context"
	"errors"
	"sync"

	"github.com/rs/zerolog"

	apperrors "tradeview/internal/errors"
	"tradeview/internal/store"
	"tradeview/internal/validate"
)

// DefaultPIN is the PIN a fresh install accepts before the user changes it.
const DefaultPIN = "2598"

// Manager verifies and updates the security PIN. The unlocked flag lives in
// memory only; every process start begins locked.
type Manager struct {
	store  store.SettingsStore
	logger zerolog.Logger

	mu       sync.Mutex
	unlocked bool
}

// NewManager creates a PIN manager backed by the settings store.
func NewManager(s store.SettingsStore, logger zerolog.Logger) *Manager {
	return &Manager{
		store:  s,
		logger: logger.With().Str("component", "auth").Logger(),
	}
}

// CurrentPIN returns the stored PIN, or DefaultPIN when none is stored.
func (m *Manager) CurrentPIN(ctx context.Context) (string, error) {
	pin, err := m.store.Get(ctx, store.KeyAuthPIN)
	if errors.Is(err, store.ErrKeyNotFound) {
		return DefaultPIN, nil
	}
	if err != nil {
		return "", err
	}
	return pin, nil
}

// Verify checks the entered PIN and unlocks the manager on success.
func (m *Manager) Verify(ctx context.Context, entered string) error {
	if err := validate.PIN(entered); err != nil {
		return apperrors.ErrInvalidPIN
	}

	current, err := m.CurrentPIN(ctx)
	if err != nil {
		return err
	}
	if entered != current {
		m.logger.Warn().Msg("PIN verification failed")
		return apperrors.ErrInvalidPIN
	}

	m.mu.Lock()
	m.unlocked = true
	m.mu.Unlock()
	m.logger.Debug().Msg("unlocked")
	return nil
}

// SetPIN changes the stored PIN. The current PIN must be supplied.
func (m *Manager) SetPIN(ctx context.Context, currentPIN, newPIN string) error {
	if err := validate.PIN(newPIN); err != nil {
		return err
	}

	current, err := m.CurrentPIN(ctx)
	if err != nil {
		return err
	}
	if currentPIN != current {
		return apperrors.ErrInvalidPIN
	}
	return m.store.Set(ctx, store.KeyAuthPIN, newPIN)
}

// ResetPIN restores the default PIN and locks the manager.
func (m *Manager) ResetPIN(ctx context.Context) error {
	if err := m.store.Delete(ctx, store.KeyAuthPIN); err != nil {
		return err
	}
	m.Lock()
	return nil
}

// Lock relocks the manager.
func (m *Manager) Lock() {
	m.mu.Lock()
	m.unlocked = false
	m.mu.Unlock()
}

// IsUnlocked reports whether a PIN has been verified this process.
func (m *Manager) IsUnlocked() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.unlocked
}
