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

func newBrokerTestSource(t *testing.T, handler http.HandlerFunc) (*BrokerSource, *httptest.Server) {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)

	src := NewBrokerSource(Config{BaseURL: srv.URL, AccessToken: "test-token"}, zerolog.Nop())
	return src, srv
}

func TestBrokerQuotesRequestShape(t *testing.T) {
	var gotPath, gotSegment, gotSymbols, gotAuth string
	src, _ := newBrokerTestSource(t, func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		gotSegment = r.URL.Query().Get("segment")
		gotSymbols = r.URL.Query().Get("symbols")
		gotAuth = r.Header.Get("Authorization")
		w.Write([]byte(`[]`))
	})

	_, err := src.Quotes(context.Background(), []string{"reliance", "TCS", "tcs"})
	require.NoError(t, err)
	assert.Equal(t, "/market/quote", gotPath)
	assert.Equal(t, "NSE", gotSegment)
	assert.Equal(t, "RELIANCE,TCS", gotSymbols)
	assert.Equal(t, "Bearer test-token", gotAuth)
}

func TestBrokerQuotesBareArray(t *testing.T) {
	src, _ := newBrokerTestSource(t, func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`[{"symbol":"RELIANCE","ltp":1300.456,"change":19.25,"changePercent":1.5,"previousClose":1280.75}]`))
	})

	got, err := src.Quotes(context.Background(), []string{"RELIANCE"})
	require.NoError(t, err)
	require.Len(t, got, 1)
	q := got["RELIANCE"]
	assert.Equal(t, 1300.46, q.Price, "price rounded to two decimals")
	assert.Equal(t, 19.25, q.Change)
	assert.Equal(t, 1280.75, q.PreviousClose)
	assert.True(t, q.IsUp)
}

func TestBrokerQuotesDataWrapper(t *testing.T) {
	src, _ := newBrokerTestSource(t, func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"data":[{"symbol":"tcs","lastTradedPrice":"4100.10","netChange":"-12.30","prevClose":4112.40}]}`))
	})

	got, err := src.Quotes(context.Background(), []string{"TCS"})
	require.NoError(t, err)
	require.Len(t, got, 1)
	q := got["TCS"]
	assert.Equal(t, "TCS", q.Symbol, "symbol uppercased")
	assert.Equal(t, 4100.10, q.Price, "string price coerced")
	assert.Equal(t, -12.30, q.Change, "netChange alias accepted")
	assert.False(t, q.IsUp)
}

func TestBrokerQuotesDropsBadItems(t *testing.T) {
	src, _ := newBrokerTestSource(t, func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`[
			{"symbol":"GOOD","price":100.00},
			{"symbol":"","ltp":50.00},
			{"symbol":"NOPRICE","change":1.0},
			{"symbol":"BADPRICE","ltp":"not-a-number"}
		]`))
	})

	got, err := src.Quotes(context.Background(), []string{"GOOD", "NOPRICE", "BADPRICE"})
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Contains(t, got, "GOOD")
}

func TestBrokerQuotesHTTPError(t *testing.T) {
	src, _ := newBrokerTestSource(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
	})

	got, err := src.Quotes(context.Background(), []string{"RELIANCE"})
	assert.Error(t, err)
	assert.Empty(t, got, "errors come with an empty, non-nil map")
}

func TestBrokerQuotesUnconfiguredSkipsNetwork(t *testing.T) {
	called := false
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		called = true
	}))
	t.Cleanup(srv.Close)

	// Block env fallback so the source really is unconfigured.
	t.Setenv("TRADEVIEW_QUOTE_BASE_URL", "")
	t.Setenv("TRADEVIEW_QUOTE_ACCESS_TOKEN", "")

	src := NewBrokerSource(Config{}, zerolog.Nop())
	got, err := src.Quotes(context.Background(), []string{"RELIANCE"})
	require.NoError(t, err)
	assert.Empty(t, got)
	assert.False(t, called)
	assert.False(t, src.IsConfigured())
}

func TestBrokerSetConfig(t *testing.T) {
	t.Setenv("TRADEVIEW_QUOTE_BASE_URL", "")
	t.Setenv("TRADEVIEW_QUOTE_ACCESS_TOKEN", "")

	src := NewBrokerSource(Config{}, zerolog.Nop())
	assert.False(t, src.IsConfigured())

	src.SetConfig(Config{BaseURL: "https://api.example.com", AccessToken: "tok"})
	assert.True(t, src.IsConfigured())
}
