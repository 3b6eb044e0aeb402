// Package store provides settings persistence. Market data is never
// persisted; the only durable state is small settings blobs such as the
// security PIN and the quote API credentials.
package store

import "context"

// SettingsStore is a string key-value store for app settings.
type SettingsStore interface {
	// Get returns the value for key. Missing keys yield ErrKeyNotFound.
	Get(ctx context.Context, key string) (string, error)
	// Set writes or overwrites the value for key.
	Set(ctx context.Context, key, value string) error
	// Delete removes key. Deleting a missing key is not an error.
	Delete(ctx context.Context, key string) error
	// GetJSON unmarshals the value for key into out.
	GetJSON(ctx context.Context, key string, out interface{}) error
	// SetJSON marshals v and stores it under key.
	SetJSON(ctx context.Context, key string, v interface{}) error

	Close() error
}

// Well-known settings keys.
const (
	KeyAuthPIN = "auth_pin_v1"
)
