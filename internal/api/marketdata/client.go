package marketdata

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"sort"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	httpclient "github.com/alphapulse/alphapulse/internal/platform/http"
	"github.com/alphapulse/alphapulse/models"
)

// Provider fetches market data over HTTP. "Unavailable" is a first-class
// result: every method returns a typed ExternalUnavailable error that the
// caller records in the report's data-quality map instead of propagating
// as a crash.
type Provider interface {
	GetCandles(ctx context.Context, symbol, interval string, count int) ([]models.Candle, error)
	GetBenchmark(ctx context.Context, symbol, interval string, count int) ([]models.Candle, error)
	GetMacroSnapshot(ctx context.Context) (models.MacroSnapshot, error)
}

// Client is the HTTP market-data provider.
type Client struct {
	apiKey     string
	baseURL    string
	httpClient *httpclient.Client
	logger     zerolog.Logger
}

// ClientOptions holds options for creating a new Client.
type ClientOptions struct {
	APIKey          string
	BaseURL         string
	RequestTimeout  time.Duration
	RequestsPerSec  int
	MaxRetryTimeout time.Duration
}

// NewClient creates a market-data client.
func NewClient(options ClientOptions) *Client {
	if options.BaseURL == "" {
		options.BaseURL = "https://api.twelvedata.com"
	}
	return &Client{
		apiKey:  options.APIKey,
		baseURL: options.BaseURL,
		httpClient: httpclient.NewClient(httpclient.ClientOptions{
			Timeout:         options.RequestTimeout,
			RequestsPerSec:  options.RequestsPerSec,
			MaxRetryTimeout: options.MaxRetryTimeout,
		}),
		logger: log.With().Str("component", "marketdata_client").Logger(),
	}
}

// timeSeriesResponse mirrors the provider's time-series payload.
type timeSeriesResponse struct {
	Meta struct {
		Symbol   string `json:"symbol"`
		Interval string `json:"interval"`
	} `json:"meta"`
	Values []struct {
		Datetime string  `json:"datetime"`
		Open     float64 `json:"open,string"`
		High     float64 `json:"high,string"`
		Low      float64 `json:"low,string"`
		Close    float64 `json:"close,string"`
		Volume   float64 `json:"volume,string,omitempty"`
	} `json:"values"`
	Status string `json:"status"`
}

// GetCandles fetches up to count candles, sorted oldest first.
func (c *Client) GetCandles(ctx context.Context, symbol, interval string, count int) ([]models.Candle, error) {
	endpoint := fmt.Sprintf(
		"%s/time_series?symbol=%s&interval=%s&outputsize=%d&apikey=%s",
		c.baseURL, url.QueryEscape(symbol), interval, count, c.apiKey,
	)

	c.logger.Debug().Str("symbol", symbol).Str("interval", interval).Msg("Fetching candles")

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, models.ErrUnavailable("marketdata.GetCandles", err)
	}

	resp, err := c.httpClient.DoRequest(ctx, req)
	if err != nil {
		return nil, models.ErrUnavailable("marketdata.GetCandles", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, models.ErrUnavailable("marketdata.GetCandles", err)
	}

	if strings.Contains(string(body), `"status":"error"`) {
		c.logger.Error().Str("response", string(body)).Msg("Market data API error")
		return nil, models.ErrUnavailable("marketdata.GetCandles", fmt.Errorf("API error: %s", string(body)))
	}

	var data timeSeriesResponse
	if err := json.Unmarshal(body, &data); err != nil {
		c.logger.Error().Err(err).Msg("Error parsing time-series JSON")
		return nil, models.ErrUnavailable("marketdata.GetCandles", err)
	}
	if len(data.Values) == 0 {
		return nil, models.ErrUnavailable("marketdata.GetCandles", fmt.Errorf("empty data for %s", symbol))
	}

	// Oldest first for proper calculations.
	sort.Slice(data.Values, func(i, j int) bool {
		return data.Values[i].Datetime < data.Values[j].Datetime
	})

	candles := make([]models.Candle, 0, len(data.Values))
	for _, v := range data.Values {
		ts, err := parseDatetime(v.Datetime)
		if err != nil {
			c.logger.Warn().Str("datetime", v.Datetime).Msg("Skipping candle with unparseable datetime")
			continue
		}
		candles = append(candles, models.Candle{
			Timestamp: ts,
			Open:      v.Open,
			High:      v.High,
			Low:       v.Low,
			Close:     v.Close,
			Volume:    v.Volume,
		})
	}

	c.logger.Debug().Int("count", len(candles)).Msg("Fetched candles")
	return candles, nil
}

// GetBenchmark fetches candles for a benchmark symbol; same contract as
// GetCandles.
func (c *Client) GetBenchmark(ctx context.Context, symbol, interval string, count int) ([]models.Candle, error) {
	return c.GetCandles(ctx, symbol, interval, count)
}

// macroResponse mirrors the macro endpoint payload.
type macroResponse struct {
	GrowthTrend    string  `json:"growth_trend"`    // "rising" or "falling"
	InflationTrend string  `json:"inflation_trend"` // "rising" or "falling"
	YieldCurve     float64 `json:"yield_curve_10y2y,string"`
	Status         string  `json:"status"`
}

// GetMacroSnapshot fetches the macro regime and yield-curve data. On any
// failure the snapshot comes back with Available=false alongside the
// typed error, so callers can degrade instead of aborting.
func (c *Client) GetMacroSnapshot(ctx context.Context) (models.MacroSnapshot, error) {
	unavailable := models.MacroSnapshot{Available: false, FetchedAt: time.Now()}

	endpoint := fmt.Sprintf("%s/macro?apikey=%s", c.baseURL, c.apiKey)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return unavailable, models.ErrUnavailable("marketdata.GetMacroSnapshot", err)
	}

	resp, err := c.httpClient.DoRequest(ctx, req)
	if err != nil {
		return unavailable, models.ErrUnavailable("marketdata.GetMacroSnapshot", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return unavailable, models.ErrUnavailable("marketdata.GetMacroSnapshot", err)
	}

	var data macroResponse
	if err := json.Unmarshal(body, &data); err != nil {
		return unavailable, models.ErrUnavailable("marketdata.GetMacroSnapshot", err)
	}
	if data.Status == "error" {
		return unavailable, models.ErrUnavailable("marketdata.GetMacroSnapshot", fmt.Errorf("macro endpoint error"))
	}

	return models.MacroSnapshot{
		Regime:          regimeFromTrends(data.GrowthTrend, data.InflationTrend),
		YieldCurve10Y2Y: data.YieldCurve,
		Available:       true,
		FetchedAt:       time.Now(),
	}, nil
}

func regimeFromTrends(growth, inflation string) models.MacroRegime {
	growthRising := growth == "rising"
	inflationRising := inflation == "rising"
	switch {
	case growthRising && inflationRising:
		return models.RegimeReflation
	case growthRising:
		return models.RegimeGoldilocks
	case inflationRising:
		return models.RegimeStagflation
	default:
		return models.RegimeDeflation
	}
}

// parseDatetime accepts the provider's date and datetime formats.
func parseDatetime(s string) (time.Time, error) {
	for _, layout := range []string{"2006-01-02 15:04:05", "2006-01-02"} {
		if ts, err := time.Parse(layout, s); err == nil {
			return ts, nil
		}
	}
	return time.Time{}, fmt.Errorf("unrecognized datetime %q", s)
}
