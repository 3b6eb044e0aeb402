package quotes

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"sort"
	"strings"
	"time"

	"github.com/rs/zerolog"

	apperrors "tradeview/internal/errors"
	"tradeview/internal/models"
)

const yahooAttemptTimeout = 10 * time.Second

// Primary vendor hosts, tried directly before any relay.
var yahooHosts = []string{
	"https://query1.finance.yahoo.com",
	"https://query2.finance.yahoo.com",
}

// Public CORS relays used as a fallback when the vendor hosts are not
// directly reachable. Each is tried once per cycle, in order.
var corsRelays = []string{
	"https://api.allorigins.win/raw?url=",
	"https://corsproxy.io/?",
	"https://thingproxy.freeboard.io/fetch/",
}

// symbolMap translates local NSE tickers to the vendor's convention.
// Symbols not listed here default to the ".NS" suffix.
var symbolMap = map[string]string{
	"RELIANCE":   "RELIANCE.NS",
	"HDFCBANK":   "HDFCBANK.NS",
	"TCS":        "TCS.NS",
	"INFY":       "INFY.NS",
	"ICICIBANK":  "ICICIBANK.NS",
	"SBIN":       "SBIN.NS",
	"BHARTIARTL": "BHARTIARTL.NS",
	"ITC":        "ITC.NS",
	"ADANIENT":   "ADANIENT.NS",
	"TATAMOTORS": "TATAMOTORS.NS",
	"LT":         "LT.NS",
	"AXISBANK":   "AXISBANK.NS",
	"WIPRO":      "WIPRO.NS",
	"HINDUNILVR": "HINDUNILVR.NS",
	"KOTAKBANK":  "KOTAKBANK.NS",
	"BAJFINANCE": "BAJFINANCE.NS",
	"MARUTI":     "MARUTI.NS",
	"ASIANPAINT": "ASIANPAINT.NS",
	"SUNPHARMA":  "SUNPHARMA.NS",
	"TITAN":      "TITAN.NS",
}

// indexSymbolMap translates index display names to vendor tickers.
var indexSymbolMap = map[string]string{
	"NIFTY 50": "^NSEI",
	"SENSEX":   "^BSESN",
}

// YahooSource fetches quotes from the public finance endpoint. It needs no
// credentials and serves both stock and index quotes.
type YahooSource struct {
	client *http.Client
	logger zerolog.Logger
	now    func() time.Time
}

// NewYahooSource creates a public quote source.
func NewYahooSource(logger zerolog.Logger) *YahooSource {
	return &YahooSource{
		client: &http.Client{Timeout: yahooAttemptTimeout},
		logger: logger.With().Str("source", "yahoo").Logger(),
		now:    time.Now,
	}
}

// Name implements Source.
func (y *YahooSource) Name() string { return "yahoo" }

type yahooQuote struct {
	Symbol                     string  `json:"symbol"`
	RegularMarketPrice         float64 `json:"regularMarketPrice"`
	RegularMarketPreviousClose float64 `json:"regularMarketPreviousClose"`
	RegularMarketChange        float64 `json:"regularMarketChange"`
	RegularMarketChangePercent float64 `json:"regularMarketChangePercent"`
}

type yahooResponse struct {
	QuoteResponse struct {
		Result []yahooQuote `json:"result"`
	} `json:"quoteResponse"`
}

// Quotes implements Source. It tries the vendor hosts directly, then each
// CORS relay, stopping at the first URL that yields at least one parseable
// quote. Each URL gets one attempt per cycle; there are no retries.
func (y *YahooSource) Quotes(ctx context.Context, symbols []string) (map[string]Quote, error) {
	vendorSymbols := make([]string, 0, len(symbols))
	for _, s := range uniqueUpper(symbols) {
		vendorSymbols = append(vendorSymbols, toVendorSymbol(s))
	}
	if len(vendorSymbols) == 0 {
		return map[string]Quote{}, nil
	}

	results, err := y.fetch(ctx, vendorSymbols)
	if err != nil {
		return map[string]Quote{}, err
	}

	out := make(map[string]Quote, len(results))
	for _, item := range results {
		local := toLocalSymbol(item.Symbol)
		if local == "" || item.RegularMarketPrice == 0 {
			continue
		}
		out[local] = Quote{
			Symbol:        local,
			Price:         round2(item.RegularMarketPrice),
			Change:        round2(item.RegularMarketChange),
			ChangePercent: round2(item.RegularMarketChangePercent),
			PreviousClose: round2(item.RegularMarketPreviousClose),
			IsUp:          item.RegularMarketChange >= 0,
		}
	}
	return out, nil
}

// IndexQuotes fetches the tracked index values, NIFTY 50 first.
func (y *YahooSource) IndexQuotes(ctx context.Context) ([]models.Index, error) {
	vendorSymbols := make([]string, 0, len(indexSymbolMap))
	for _, sym := range indexSymbolMap {
		vendorSymbols = append(vendorSymbols, sym)
	}
	sort.Strings(vendorSymbols)

	results, err := y.fetch(ctx, vendorSymbols)
	if err != nil {
		return nil, err
	}

	indices := make([]models.Index, 0, len(results))
	for _, item := range results {
		name := indexNameFor(item.Symbol)
		if name == "" {
			continue
		}
		indices = append(indices, models.Index{
			Name:          name,
			Price:         round2(item.RegularMarketPrice),
			Change:        round2(item.RegularMarketChange),
			ChangePercent: round2(item.RegularMarketChangePercent),
			IsUp:          item.RegularMarketChange >= 0,
		})
	}

	sort.SliceStable(indices, func(i, j int) bool {
		return indices[i].Name == "NIFTY 50" && indices[j].Name != "NIFTY 50"
	})
	return indices, nil
}

// fetch walks the candidate URL list and returns the first non-empty result.
func (y *YahooSource) fetch(ctx context.Context, vendorSymbols []string) ([]yahooQuote, error) {
	var lastErr error
	for _, candidate := range y.candidateURLs(vendorSymbols) {
		results, err := y.fetchOne(ctx, candidate)
		if err != nil {
			lastErr = err
			y.logger.Debug().Err(err).Str("url", truncateURL(candidate)).Msg("quote URL failed, trying next")
			continue
		}
		if len(results) > 0 {
			return results, nil
		}
	}
	if lastErr == nil {
		lastErr = apperrors.NewQuoteError("yahoo", "parse", "no parseable quotes from any endpoint", nil)
	}
	return nil, lastErr
}

func (y *YahooSource) fetchOne(ctx context.Context, rawURL string) ([]yahooQuote, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return nil, apperrors.NewQuoteError("yahoo", "network", "building request", err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := y.client.Do(req)
	if err != nil {
		return nil, apperrors.NewQuoteError("yahoo", "network", "fetching quotes", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, apperrors.NewQuoteError("yahoo", "http",
			fmt.Sprintf("unexpected status %d", resp.StatusCode), nil)
	}

	var payload yahooResponse
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return nil, apperrors.NewQuoteError("yahoo", "parse", "decoding body", err)
	}
	return payload.QuoteResponse.Result, nil
}

// candidateURLs builds the ordered attempt list: both vendor hosts directly,
// then each relay wrapping the first vendor host.
func (y *YahooSource) candidateURLs(vendorSymbols []string) []string {
	params := url.Values{}
	params.Set("symbols", strings.Join(vendorSymbols, ","))
	params.Set("region", "IN")
	params.Set("lang", "en-IN")
	params.Set("formatted", "false")
	params.Set("_", fmt.Sprintf("%d", y.now().UnixMilli())) // cache buster

	urls := make([]string, 0, len(yahooHosts)+len(corsRelays))
	for _, host := range yahooHosts {
		urls = append(urls, host+"/v7/finance/quote?"+params.Encode())
	}
	target := yahooHosts[0] + "/v7/finance/quote?" + params.Encode()
	for _, relay := range corsRelays {
		urls = append(urls, relay+url.QueryEscape(target))
	}
	return urls
}

func toVendorSymbol(local string) string {
	if strings.Contains(local, ".") || strings.HasPrefix(local, "^") {
		return local
	}
	if mapped, ok := symbolMap[local]; ok {
		return mapped
	}
	return local + ".NS"
}

func toLocalSymbol(vendor string) string {
	vendor = strings.ToUpper(strings.TrimSpace(vendor))
	if vendor == "" {
		return ""
	}
	for local, mapped := range symbolMap {
		if strings.EqualFold(mapped, vendor) {
			return local
		}
	}
	return strings.TrimSuffix(vendor, ".NS")
}

func indexNameFor(vendor string) string {
	for name, sym := range indexSymbolMap {
		if strings.EqualFold(sym, vendor) {
			return name
		}
	}
	return ""
}

func truncateURL(u string) string {
	if len(u) > 100 {
		return u[:100]
	}
	return u
}
