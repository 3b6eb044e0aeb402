package quotes

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// swapYahooEndpoints points the package at a test server for the duration of
// the test.
func swapYahooEndpoints(t *testing.T, hosts, relays []string) {
	t.Helper()
	prevHosts, prevRelays := yahooHosts, corsRelays
	yahooHosts, corsRelays = hosts, relays
	t.Cleanup(func() {
		yahooHosts, corsRelays = prevHosts, prevRelays
	})
}

func TestYahooQuotesMapsVendorSymbols(t *testing.T) {
	var gotSymbols, gotRegion, gotFormatted string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotSymbols = r.URL.Query().Get("symbols")
		gotRegion = r.URL.Query().Get("region")
		gotFormatted = r.URL.Query().Get("formatted")
		w.Write([]byte(`{"quoteResponse":{"result":[
			{"symbol":"RELIANCE.NS","regularMarketPrice":1272.45,"regularMarketChange":-8.30,"regularMarketChangePercent":-0.65,"regularMarketPreviousClose":1280.75},
			{"symbol":"IRFC.NS","regularMarketPrice":142.10,"regularMarketChange":1.05,"regularMarketChangePercent":0.74,"regularMarketPreviousClose":141.05}
		]}}`))
	}))
	t.Cleanup(srv.Close)
	swapYahooEndpoints(t, []string{srv.URL}, nil)

	src := NewYahooSource(zerolog.Nop())
	got, err := src.Quotes(context.Background(), []string{"RELIANCE", "IRFC"})
	require.NoError(t, err)

	assert.Equal(t, "RELIANCE.NS,IRFC.NS", gotSymbols, "mapped symbol plus .NS default")
	assert.Equal(t, "IN", gotRegion)
	assert.Equal(t, "false", gotFormatted)

	require.Len(t, got, 2)
	assert.Equal(t, 1272.45, got["RELIANCE"].Price)
	assert.Equal(t, 1280.75, got["RELIANCE"].PreviousClose)
	assert.False(t, got["RELIANCE"].IsUp)
	assert.Equal(t, 142.10, got["IRFC"].Price, "unmapped vendor symbol translated back by trimming .NS")
}

func TestYahooQuotesDropsZeroPrice(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"quoteResponse":{"result":[
			{"symbol":"TCS.NS","regularMarketPrice":0},
			{"symbol":"INFY.NS","regularMarketPrice":1932.85,"regularMarketChange":18.40}
		]}}`))
	}))
	t.Cleanup(srv.Close)
	swapYahooEndpoints(t, []string{srv.URL}, nil)

	src := NewYahooSource(zerolog.Nop())
	got, err := src.Quotes(context.Background(), []string{"TCS", "INFY"})
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Contains(t, got, "INFY")
}

func TestYahooFallsThroughToNextHost(t *testing.T) {
	bad := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTooManyRequests)
	}))
	t.Cleanup(bad.Close)
	good := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"quoteResponse":{"result":[{"symbol":"SBIN.NS","regularMarketPrice":844.15,"regularMarketChange":-5.70}]}}`))
	}))
	t.Cleanup(good.Close)
	swapYahooEndpoints(t, []string{bad.URL, good.URL}, nil)

	src := NewYahooSource(zerolog.Nop())
	got, err := src.Quotes(context.Background(), []string{"SBIN"})
	require.NoError(t, err)
	assert.Equal(t, 844.15, got["SBIN"].Price)
}

func TestYahooAllEndpointsFail(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusServiceUnavailable)
	}))
	t.Cleanup(srv.Close)
	swapYahooEndpoints(t, []string{srv.URL}, nil)

	src := NewYahooSource(zerolog.Nop())
	got, err := src.Quotes(context.Background(), []string{"SBIN"})
	assert.Error(t, err)
	assert.Empty(t, got)
}

func TestYahooIndexQuotesNiftyFirst(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"quoteResponse":{"result":[
			{"symbol":"^BSESN","regularMarketPrice":81709.12,"regularMarketChange":-236.18,"regularMarketChangePercent":-0.29},
			{"symbol":"^NSEI","regularMarketPrice":24677.80,"regularMarketChange":-90.10,"regularMarketChangePercent":-0.36}
		]}}`))
	}))
	t.Cleanup(srv.Close)
	swapYahooEndpoints(t, []string{srv.URL}, nil)

	src := NewYahooSource(zerolog.Nop())
	indices, err := src.IndexQuotes(context.Background())
	require.NoError(t, err)
	require.Len(t, indices, 2)
	assert.Equal(t, "NIFTY 50", indices[0].Name)
	assert.Equal(t, 24677.80, indices[0].Price)
	assert.Equal(t, "SENSEX", indices[1].Name)
	assert.False(t, indices[1].IsUp)
}

func TestVendorSymbolTranslation(t *testing.T) {
	assert.Equal(t, "RELIANCE.NS", toVendorSymbol("RELIANCE"))
	assert.Equal(t, "IRFC.NS", toVendorSymbol("IRFC"), "unmapped symbols default to .NS")
	assert.Equal(t, "^NSEI", toVendorSymbol("^NSEI"), "index tickers pass through")
	assert.Equal(t, "ABC.BO", toVendorSymbol("ABC.BO"), "suffixed symbols pass through")

	assert.Equal(t, "RELIANCE", toLocalSymbol("RELIANCE.NS"))
	assert.Equal(t, "IRFC", toLocalSymbol("irfc.ns"))
	assert.Equal(t, "", toLocalSymbol("  "))
}
