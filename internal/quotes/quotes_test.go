package quotes

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestMergePreferredWins(t *testing.T) {
	preferred := map[string]Quote{
		"RELIANCE": {Symbol: "RELIANCE", Price: 1300.00},
	}
	fallback := map[string]Quote{
		"RELIANCE": {Symbol: "RELIANCE", Price: 1250.00},
		"TCS":      {Symbol: "TCS", Price: 4100.00},
	}

	merged := Merge(preferred, fallback)
	assert.Len(t, merged, 2)
	assert.Equal(t, 1300.00, merged["RELIANCE"].Price)
	assert.Equal(t, 4100.00, merged["TCS"].Price)
}

func TestMergeHandlesNilMaps(t *testing.T) {
	assert.Empty(t, Merge(nil, nil))

	onlyFallback := Merge(nil, map[string]Quote{"TCS": {Symbol: "TCS", Price: 1}})
	assert.Len(t, onlyFallback, 1)

	onlyPreferred := Merge(map[string]Quote{"TCS": {Symbol: "TCS", Price: 2}}, nil)
	assert.Equal(t, 2.0, onlyPreferred["TCS"].Price)
}

func TestMergeDoesNotMutateInputs(t *testing.T) {
	preferred := map[string]Quote{"A": {Symbol: "A", Price: 1}}
	fallback := map[string]Quote{"A": {Symbol: "A", Price: 2}, "B": {Symbol: "B", Price: 3}}

	_ = Merge(preferred, fallback)
	assert.Equal(t, 2.0, fallback["A"].Price)
	assert.Len(t, preferred, 1)
}

func TestConfigIsConfigured(t *testing.T) {
	assert.False(t, Config{}.IsConfigured())
	assert.False(t, Config{BaseURL: "https://api.example.com"}.IsConfigured())
	assert.False(t, Config{AccessToken: "tok"}.IsConfigured())
	assert.True(t, Config{BaseURL: "https://api.example.com", AccessToken: "tok"}.IsConfigured())
}

func TestConfigSanitize(t *testing.T) {
	cfg := Config{BaseURL: "  https://api.example.com  ", AccessToken: "\ttok\n"}.Sanitize()
	assert.Equal(t, "https://api.example.com", cfg.BaseURL)
	assert.Equal(t, "tok", cfg.AccessToken)
}

func TestConfigResolveEnvFallback(t *testing.T) {
	t.Setenv("TRADEVIEW_QUOTE_BASE_URL", "https://env.example.com")
	t.Setenv("TRADEVIEW_QUOTE_ACCESS_TOKEN", "env-token")

	resolved := Config{}.Resolve()
	assert.Equal(t, "https://env.example.com", resolved.BaseURL)
	assert.Equal(t, "env-token", resolved.AccessToken)

	explicit := Config{BaseURL: "https://explicit.example.com"}.Resolve()
	assert.Equal(t, "https://explicit.example.com", explicit.BaseURL)
	assert.Equal(t, "env-token", explicit.AccessToken)
}

func TestUniqueUpper(t *testing.T) {
	got := uniqueUpper([]string{" reliance ", "TCS", "tcs", "", "Infy"})
	assert.Equal(t, []string{"RELIANCE", "TCS", "INFY"}, got)
}
