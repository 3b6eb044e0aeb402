// Package quotes provides best-effort quote source adapters.
//
// Every source follows the same contract: it returns whatever subset of the
// requested symbols it could resolve, and an error only as diagnostic
// context. Callers treat any error as equivalent to an empty result and keep
// the last-known prices.
package quotes

import (
	"context"
)

// Quote is a normalized best-effort quote from any source.
type Quote struct {
	Symbol        string  `json:"symbol"`
	Price         float64 `json:"price"` // last traded price
	Change        float64 `json:"change"`
	ChangePercent float64 `json:"change_percent"`
	PreviousClose float64 `json:"previous_close,omitempty"` // 0 when the source did not report one
	IsUp          bool    `json:"is_up"`
}

// Source fetches quotes for a set of local symbols.
type Source interface {
	// Name identifies the source in logs.
	Name() string
	// Quotes returns a map keyed by uppercase local symbol. A partial map is
	// valid; symbols the source could not resolve are simply absent.
	Quotes(ctx context.Context, symbols []string) (map[string]Quote, error)
}

// Merge overlays preferred quotes on top of fallback quotes. For a symbol
// present in both maps the preferred source wins. The inputs are not
// modified. Kept free of I/O so the precedence rule can be tested directly.
func Merge(preferred, fallback map[string]Quote) map[string]Quote {
	merged := make(map[string]Quote, len(preferred)+len(fallback))
	for sym, q := range fallback {
		merged[sym] = q
	}
	for sym, q := range preferred {
		merged[sym] = q
	}
	return merged
}
