package quotes

import (
	"context"
	"encoding/json"
	"fmt"
	"math"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/google/go-querystring/query"
	"github.com/rs/zerolog"

	apperrors "tradeview/internal/errors"
)

const brokerTimeout = 12 * time.Second

// BrokerSource fetches quotes from the user-configured broker quote API.
// It requires both a base URL and an access token; without them it returns
// an empty result without touching the network.
type BrokerSource struct {
	config Config
	client *http.Client
	logger zerolog.Logger
}

// NewBrokerSource creates a broker quote source.
func NewBrokerSource(cfg Config, logger zerolog.Logger) *BrokerSource {
	return &BrokerSource{
		config: cfg.Resolve(),
		client: &http.Client{Timeout: brokerTimeout},
		logger: logger.With().Str("source", "broker").Logger(),
	}
}

// Name implements Source.
func (b *BrokerSource) Name() string { return "broker" }

// SetConfig replaces the credential bag, e.g. after the user edits settings.
func (b *BrokerSource) SetConfig(cfg Config) {
	b.config = cfg.Resolve()
}

// IsConfigured reports whether the source can attempt a network call.
func (b *BrokerSource) IsConfigured() bool {
	return b.config.IsConfigured()
}

type quoteQuery struct {
	Segment string `url:"segment"`
	Symbols string `url:"symbols"`
}

// Quotes implements Source. One GET per call:
//
//	GET {base}/market/quote?segment=NSE&symbols=A,B
//
// The response shape is parsed leniently: the quote array may appear at the
// top level or under "data", and several field-name aliases are accepted for
// price, change and previous close. Items without a finite price are dropped.
func (b *BrokerSource) Quotes(ctx context.Context, symbols []string) (map[string]Quote, error) {
	if !b.config.IsConfigured() {
		b.logger.Debug().Msg("broker source not configured, skipping fetch")
		return map[string]Quote{}, nil
	}

	unique := uniqueUpper(symbols)
	if len(unique) == 0 {
		return map[string]Quote{}, nil
	}

	values, err := query.Values(quoteQuery{Segment: "NSE", Symbols: strings.Join(unique, ",")})
	if err != nil {
		return map[string]Quote{}, apperrors.NewQuoteError("broker", "parse", "encoding query", err)
	}

	url := strings.TrimRight(b.config.BaseURL, "/") + "/market/quote?" + values.Encode()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return map[string]Quote{}, apperrors.NewQuoteError("broker", "network", "building request", err)
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("Authorization", "Bearer "+b.config.AccessToken)

	resp, err := b.client.Do(req)
	if err != nil {
		return map[string]Quote{}, apperrors.NewQuoteError("broker", "network", "fetching quotes", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return map[string]Quote{}, apperrors.NewQuoteError("broker", "http",
			fmt.Sprintf("unexpected status %d", resp.StatusCode), nil)
	}

	var payload json.RawMessage
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return map[string]Quote{}, apperrors.NewQuoteError("broker", "parse", "decoding body", err)
	}

	items := extractQuoteItems(payload)
	out := make(map[string]Quote, len(items))
	for _, item := range items {
		q, ok := parseBrokerItem(item)
		if !ok {
			continue
		}
		out[q.Symbol] = q
	}

	b.logger.Debug().Int("requested", len(unique)).Int("got", len(out)).Msg("broker quotes normalized")
	return out, nil
}

// extractQuoteItems accepts either a bare array or an object wrapping the
// array under "data".
func extractQuoteItems(payload json.RawMessage) []map[string]interface{} {
	var items []map[string]interface{}
	if err := json.Unmarshal(payload, &items); err == nil {
		return items
	}

	var wrapped struct {
		Data []map[string]interface{} `json:"data"`
	}
	if err := json.Unmarshal(payload, &wrapped); err == nil {
		return wrapped.Data
	}
	return nil
}

func parseBrokerItem(item map[string]interface{}) (Quote, bool) {
	symbol, _ := item["symbol"].(string)
	symbol = strings.ToUpper(strings.TrimSpace(symbol))
	if symbol == "" {
		return Quote{}, false
	}

	price, ok := firstNumber(item, "ltp", "lastTradedPrice", "price")
	if !ok || !isFinite(price) {
		return Quote{}, false
	}

	change, _ := firstNumber(item, "change", "netChange")
	changePct, _ := firstNumber(item, "changePercent", "netChangePercent", "percentChange")
	prevClose, _ := firstNumber(item, "previousClose", "prevClose")

	return Quote{
		Symbol:        symbol,
		Price:         round2(price),
		Change:        round2(change),
		ChangePercent: round2(changePct),
		PreviousClose: round2(prevClose),
		IsUp:          change >= 0,
	}, true
}

// firstNumber tries each key in order and coerces the first present value to
// a float64. Both JSON numbers and numeric strings are accepted.
func firstNumber(item map[string]interface{}, keys ...string) (float64, bool) {
	for _, key := range keys {
		raw, present := item[key]
		if !present || raw == nil {
			continue
		}
		switch v := raw.(type) {
		case float64:
			return v, true
		case string:
			if f, err := strconv.ParseFloat(strings.TrimSpace(v), 64); err == nil {
				return f, true
			}
		case json.Number:
			if f, err := v.Float64(); err == nil {
				return f, true
			}
		}
	}
	return 0, false
}

func isFinite(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0)
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}

func uniqueUpper(symbols []string) []string {
	seen := make(map[string]struct{}, len(symbols))
	out := make([]string, 0, len(symbols))
	for _, s := range symbols {
		s = strings.ToUpper(strings.TrimSpace(s))
		if s == "" {
			continue
		}
		if _, dup := seen[s]; dup {
			continue
		}
		seen[s] = struct{}{}
		out = append(out, s)
	}
	return out
}
