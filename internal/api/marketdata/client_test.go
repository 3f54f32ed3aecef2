package marketdata

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/alphapulse/alphapulse/models"
)

func newTestClient(baseURL string) *Client {
	return NewClient(ClientOptions{
		APIKey:          "test-key",
		BaseURL:         baseURL,
		RequestTimeout:  5 * time.Second,
		RequestsPerSec:  50,
		MaxRetryTimeout: 100 * time.Millisecond,
	})
}

func TestGetCandlesParsesAndSortsOldestFirst(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/time_series", r.URL.Path)
		assert.Equal(t, "AAPL", r.URL.Query().Get("symbol"))
		assert.Equal(t, "test-key", r.URL.Query().Get("apikey"))

		// Provider returns newest first.
		w.Write([]byte(`{
			"meta": {"symbol": "AAPL", "interval": "1day"},
			"values": [
				{"datetime": "2024-01-03", "open": "102.0", "high": "104.0", "low": "101.0", "close": "103.5", "volume": "3000"},
				{"datetime": "2024-01-02", "open": "101.0", "high": "103.0", "low": "100.0", "close": "102.0", "volume": "2000"},
				{"datetime": "2024-01-01", "open": "100.0", "high": "102.0", "low": "99.0", "close": "101.0"}
			],
			"status": "ok"
		}`))
	}))
	defer server.Close()

	candles, err := newTestClient(server.URL).GetCandles(context.Background(), "AAPL", "1day", 3)
	require.NoError(t, err)
	require.Len(t, candles, 3)

	assert.Equal(t, 101.0, candles[0].Close)
	assert.Equal(t, 103.5, candles[2].Close)
	assert.True(t, candles[0].Timestamp.Before(candles[1].Timestamp))
	assert.Equal(t, 0.0, candles[0].Volume, "missing volume parses as zero")
	assert.Equal(t, 3000.0, candles[2].Volume)
}

func TestGetCandlesAPIError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"status":"error","message":"symbol not found"}`))
	}))
	defer server.Close()

	_, err := newTestClient(server.URL).GetCandles(context.Background(), "NOPE", "1day", 10)
	require.Error(t, err)
	assert.Equal(t, models.ErrExternalUnavailable, models.KindOf(err))
}

func TestGetCandlesEmptyValues(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"values": [], "status": "ok"}`))
	}))
	defer server.Close()

	_, err := newTestClient(server.URL).GetCandles(context.Background(), "AAPL", "1day", 10)
	require.Error(t, err)
	assert.Equal(t, models.ErrExternalUnavailable, models.KindOf(err))
}

func TestGetMacroSnapshot(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/macro", r.URL.Path)
		w.Write([]byte(`{"growth_trend":"rising","inflation_trend":"falling","yield_curve_10y2y":"0.45","status":"ok"}`))
	}))
	defer server.Close()

	snap, err := newTestClient(server.URL).GetMacroSnapshot(context.Background())
	require.NoError(t, err)
	assert.True(t, snap.Available)
	assert.Equal(t, models.RegimeGoldilocks, snap.Regime)
	assert.InDelta(t, 0.45, snap.YieldCurve10Y2Y, 1e-12)
}

func TestGetMacroSnapshotErrorStatus(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"status":"error"}`))
	}))
	defer server.Close()

	snap, err := newTestClient(server.URL).GetMacroSnapshot(context.Background())
	require.Error(t, err)
	assert.False(t, snap.Available)
	assert.Equal(t, models.ErrExternalUnavailable, models.KindOf(err))
}

func TestRegimeFromTrends(t *testing.T) {
	tests := []struct {
		growth, inflation string
		want              models.MacroRegime
	}{
		{"rising", "rising", models.RegimeReflation},
		{"rising", "falling", models.RegimeGoldilocks},
		{"falling", "rising", models.RegimeStagflation},
		{"falling", "falling", models.RegimeDeflation},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, regimeFromTrends(tt.growth, tt.inflation), "%s/%s", tt.growth, tt.inflation)
	}
}

func TestParseDatetime(t *testing.T) {
	ts, err := parseDatetime("2024-03-05 14:30:00")
	require.NoError(t, err)
	assert.Equal(t, 14, ts.Hour())

	ts, err = parseDatetime("2024-03-05")
	require.NoError(t, err)
	assert.Equal(t, time.March, ts.Month())

	_, err = parseDatetime("05/03/2024")
	assert.Error(t, err)
}
