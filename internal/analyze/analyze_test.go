package analyze

import (
	"context"
	"errors"
	"math"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/alphapulse/alphapulse/internal/arbitrage"
	"github.com/alphapulse/alphapulse/internal/portfolio"
	"github.com/alphapulse/alphapulse/internal/risk"
	"github.com/alphapulse/alphapulse/internal/series"
	"github.com/alphapulse/alphapulse/internal/signals"
	"github.com/alphapulse/alphapulse/models"
)

func generateTestCandles(n int, phase float64) []models.Candle {
	candles := make([]models.Candle, n)
	for i := 0; i < n; i++ {
		base := 100 + 5*math.Sin((float64(i)+phase)/3) + 0.1*float64(i)
		candles[i] = models.Candle{
			Timestamp: time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC).Add(time.Duration(i) * 24 * time.Hour),
			Open:      base - 0.3,
			High:      base + 0.8,
			Low:       base - 0.8,
			Close:     base,
			Volume:    1000 + 10*float64(i),
		}
	}
	return candles
}

type fakeProvider struct {
	candles      map[string][]models.Candle
	candleErrs   map[string]error
	benchmark    []models.Candle
	benchmarkErr error
	macro        models.MacroSnapshot
	macroErr     error
}

func (f *fakeProvider) GetCandles(ctx context.Context, symbol, interval string, count int) ([]models.Candle, error) {
	if err := f.candleErrs[symbol]; err != nil {
		return nil, err
	}
	return f.candles[symbol], nil
}

func (f *fakeProvider) GetBenchmark(ctx context.Context, symbol, interval string, count int) ([]models.Candle, error) {
	return f.benchmark, f.benchmarkErr
}

func (f *fakeProvider) GetMacroSnapshot(ctx context.Context) (models.MacroSnapshot, error) {
	return f.macro, f.macroErr
}

type fakeSummarizer struct {
	text string
	err  error
}

func (f *fakeSummarizer) Summarize(ctx context.Context, prompt string, maxTokens int) (string, error) {
	return f.text, f.err
}

func testOptions() Options {
	return Options{
		Symbols:         []string{"BBB", "AAA"}, // deliberately unsorted
		Timeframe:       "1day",
		CandleCount:     60,
		BenchmarkSymbol: "SPY",
		RiskParams:      risk.DefaultParams(),
		SignalConfig:    signals.DefaultConfig(),
		ArbConfig:       arbitrage.DefaultConfig(),
		Bounds:          portfolio.DefaultBounds(),
		RegimeTables:    portfolio.DefaultRegimeTables(),
	}
}

func healthyProvider() *fakeProvider {
	return &fakeProvider{
		candles: map[string][]models.Candle{
			"AAA": generateTestCandles(60, 0),
			"BBB": generateTestCandles(60, 7),
		},
		benchmark: generateTestCandles(60, 3),
		macro: models.MacroSnapshot{
			Regime:    models.RegimeGoldilocks,
			Available: true,
		},
	}
}

func TestRunFullReport(t *testing.T) {
	a := New(healthyProvider(), &fakeSummarizer{text: "calm markets"}, testOptions())

	report, err := a.Run(context.Background())
	require.NoError(t, err)
	require.NotNil(t, report)
	assert.NotEmpty(t, report.ID)

	// Symbols merge in sorted order regardless of input order.
	require.Len(t, report.Symbols, 2)
	assert.Equal(t, "AAA", report.Symbols[0].Symbol)
	assert.Equal(t, "BBB", report.Symbols[1].Symbol)
	assert.NotEmpty(t, report.Symbols[0].Indicators)
	require.NotNil(t, report.Symbols[0].Aggregate)

	require.NotNil(t, report.Risk)
	assert.NotNil(t, report.Risk.Benchmark)

	require.Len(t, report.Pairs, 1)
	assert.Equal(t, "AAA", report.Pairs[0].AssetA)

	var sum float64
	for _, w := range report.Weights {
		sum += w
	}
	assert.InDelta(t, 1.0, sum, 1e-6)

	require.NotNil(t, report.Macro)
	assert.Equal(t, models.RegimeGoldilocks, report.Macro.Regime)
	assert.Equal(t, "calm markets", report.Commentary)

	for _, key := range []string{"candles:AAA", "candles:BBB", "risk", "benchmark", "pairs", "optimizer", "macro", "commentary"} {
		status, ok := report.DataQuality[key]
		require.True(t, ok, "missing data quality entry %q", key)
		assert.True(t, status.OK, "source %q should be healthy", key)
	}
}

func TestRunSymbolFailureDegradesOnlyThatSymbol(t *testing.T) {
	provider := healthyProvider()
	provider.candleErrs = map[string]error{"BBB": errors.New("upstream 502")}

	a := New(provider, nil, testOptions())
	report, err := a.Run(context.Background())
	require.NoError(t, err)

	require.Len(t, report.Symbols, 1)
	assert.Equal(t, "AAA", report.Symbols[0].Symbol)

	assert.False(t, report.DataQuality["candles:BBB"].OK)
	assert.Contains(t, report.DataQuality["candles:BBB"].Error, "502")
	assert.True(t, report.DataQuality["candles:AAA"].OK)

	// Risk still computes from the surviving symbol; a single store means
	// no pair scan at all.
	assert.True(t, report.DataQuality["risk"].OK)
	assert.NotNil(t, report.Risk)
	assert.Empty(t, report.Pairs)
	_, scanned := report.DataQuality["pairs"]
	assert.False(t, scanned)
}

func TestRunBenchmarkFailureKeepsRisk(t *testing.T) {
	provider := healthyProvider()
	provider.benchmarkErr = errors.New("benchmark feed down")

	a := New(provider, nil, testOptions())
	report, err := a.Run(context.Background())
	require.NoError(t, err)

	require.NotNil(t, report.Risk)
	assert.Nil(t, report.Risk.Benchmark)
	assert.True(t, report.DataQuality["risk"].OK)
	assert.False(t, report.DataQuality["benchmark"].OK)
}

func TestRunMacroFailureKeepsBaseWeights(t *testing.T) {
	provider := healthyProvider()
	provider.macroErr = errors.New("macro feed down")

	a := New(provider, nil, testOptions())
	report, err := a.Run(context.Background())
	require.NoError(t, err)

	assert.NotEmpty(t, report.Weights, "base allocation survives a macro outage")
	assert.Nil(t, report.Macro)
	assert.True(t, report.DataQuality["optimizer"].OK)
	assert.False(t, report.DataQuality["macro"].OK)
}

func TestRunCommentaryFailureLeavesNumbersAlone(t *testing.T) {
	a := New(healthyProvider(), &fakeSummarizer{err: errors.New("quota exceeded")}, testOptions())

	report, err := a.Run(context.Background())
	require.NoError(t, err)

	assert.Empty(t, report.Commentary)
	assert.False(t, report.DataQuality["commentary"].OK)
	assert.NotNil(t, report.Risk)
	assert.NotEmpty(t, report.Weights)
}

func TestRunWithoutSummarizerSkipsCommentary(t *testing.T) {
	a := New(healthyProvider(), nil, testOptions())

	report, err := a.Run(context.Background())
	require.NoError(t, err)

	assert.Empty(t, report.Commentary)
	_, attempted := report.DataQuality["commentary"]
	assert.False(t, attempted)
}

func TestDetectorStatePersistsAcrossRuns(t *testing.T) {
	a := New(healthyProvider(), nil, testOptions())

	first, err := a.Run(context.Background())
	require.NoError(t, err)
	// First pass only primes the detectors.
	for _, sym := range first.Symbols {
		assert.Empty(t, sym.Signals)
	}

	// Unchanged data: no transitions, still no signals.
	second, err := a.Run(context.Background())
	require.NoError(t, err)
	for _, sym := range second.Symbols {
		assert.Empty(t, sym.Signals)
		require.NotNil(t, sym.Aggregate)
		assert.Equal(t, models.RatingNeutral, sym.Aggregate.OverallDirection)
	}
}

func TestEqualWeightReturns(t *testing.T) {
	stA, err := series.FromCandles("AAA", generateTestCandles(10, 0))
	require.NoError(t, err)
	stB, err := series.FromCandles("BBB", generateTestCandles(10, 5))
	require.NoError(t, err)

	rets, err := equalWeightReturns([]*series.Store{stA, stB})
	require.NoError(t, err)
	require.Len(t, rets, 9)

	retsA, err := stA.Returns()
	require.NoError(t, err)
	retsB, err := stB.Returns()
	require.NoError(t, err)
	for i := range rets {
		assert.InDelta(t, (retsA[i]+retsB[i])/2, rets[i], 1e-12)
	}
}
