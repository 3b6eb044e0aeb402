package store

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestStore(t *testing.T) *SQLiteStore {
	t.Helper()
	s, err := NewSQLiteStore(filepath.Join(t.TempDir(), "settings.db"))
	require.NoError(t, err)
	t.Cleanup(func() { s.Close() })
	return s
}

func TestSetGetDelete(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	_, err := s.Get(ctx, "missing")
	assert.ErrorIs(t, err, ErrKeyNotFound)

	require.NoError(t, s.Set(ctx, KeyAuthPIN, "2598"))
	got, err := s.Get(ctx, KeyAuthPIN)
	require.NoError(t, err)
	assert.Equal(t, "2598", got)

	require.NoError(t, s.Set(ctx, KeyAuthPIN, "1234"))
	got, err = s.Get(ctx, KeyAuthPIN)
	require.NoError(t, err)
	assert.Equal(t, "1234", got, "set overwrites")

	require.NoError(t, s.Delete(ctx, KeyAuthPIN))
	_, err = s.Get(ctx, KeyAuthPIN)
	assert.ErrorIs(t, err, ErrKeyNotFound)

	assert.NoError(t, s.Delete(ctx, KeyAuthPIN), "deleting a missing key is not an error")
}

func TestJSONRoundTrip(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	type creds struct {
		BaseURL     string `json:"baseUrl"`
		AccessToken string `json:"accessToken"`
	}

	in := creds{BaseURL: "https://api.example.com", AccessToken: "tok"}
	require.NoError(t, s.SetJSON(ctx, "quotecfg.v1", in))

	var out creds
	require.NoError(t, s.GetJSON(ctx, "quotecfg.v1", &out))
	assert.Equal(t, in, out)

	var missing creds
	assert.ErrorIs(t, s.GetJSON(ctx, "nope", &missing), ErrKeyNotFound)
}

func TestGetJSONBadPayload(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	require.NoError(t, s.Set(ctx, "blob", "{not json"))
	var out map[string]string
	assert.Error(t, s.GetJSON(ctx, "blob", &out))
}

func TestReopenPersists(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "settings.db")
	ctx := context.Background()

	s1, err := NewSQLiteStore(path)
	require.NoError(t, err)
	require.NoError(t, s1.Set(ctx, "k", "v"))
	require.NoError(t, s1.Close())

	s2, err := NewSQLiteStore(path)
	require.NoError(t, err)
	defer s2.Close()
	got, err := s2.Get(ctx, "k")
	require.NoError(t, err)
	assert.Equal(t, "v", got)
}
