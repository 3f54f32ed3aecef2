package risk

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/alphapulse/alphapulse/models"
)

func TestMaxDrawdown(t *testing.T) {
	dd, peak, trough := MaxDrawdown([]float64{100, 120, 90, 95, 130, 80})
	assert.InDelta(t, 50.0/130.0, dd, 1e-9)
	assert.Equal(t, 4, peak)
	assert.Equal(t, 5, trough)
}

func TestMaxDrawdownMonotonicSeries(t *testing.T) {
	dd, peak, trough := MaxDrawdown([]float64{1, 2, 3, 4})
	assert.Equal(t, 0.0, dd)
	assert.Equal(t, 0, peak)
	assert.Equal(t, 0, trough)
}

func TestVaRMonotonicInConfidence(t *testing.T) {
	returns := make([]float64, 100)
	for i := range returns {
		returns[i] = 0.05 * math.Sin(float64(i)*0.7)
	}
	prev := -math.MaxFloat64
	for _, conf := range []float64{0.90, 0.95, 0.99} {
		v, err := VaR(returns, conf)
		require.NoError(t, err)
		assert.GreaterOrEqual(t, v, prev, "VaR must not shrink as confidence rises")
		prev = v
	}
}

func TestVaRIndexClamped(t *testing.T) {
	returns := []float64{-0.05, 0.01, 0.02}
	// confidence=1 reads the single worst observation.
	v, err := VaR(returns, 1.0)
	require.NoError(t, err)
	assert.InDelta(t, 0.05, v, 1e-12)

	// confidence=0 clamps to the best observation, not past the array.
	v, err = VaR(returns, 0.0)
	require.NoError(t, err)
	assert.InDelta(t, -0.02, v, 1e-12)
}

func TestCVaREmptyTail(t *testing.T) {
	returns := []float64{-0.05, 0.01, 0.02}
	// At 95% confidence with 3 samples the cutoff index is 0.
	assert.Equal(t, 0.0, CVaR(returns, 0.95))
}

func TestCVaRAtLeastVaR(t *testing.T) {
	returns := make([]float64, 50)
	for i := range returns {
		returns[i] = 0.04*math.Sin(float64(i)*1.3) - 0.002
	}
	v, err := VaR(returns, 0.9)
	require.NoError(t, err)
	cv := CVaR(returns, 0.9)
	assert.GreaterOrEqual(t, cv, v)
}

func TestSharpeZeroVolatilityUndefined(t *testing.T) {
	s := Sharpe([]float64{0.01, 0.01, 0.01}, 0.03, 252)
	assert.Equal(t, models.RatioUndefined, s.State)
}

func TestSortinoNoDownsideUnbounded(t *testing.T) {
	// Every return clears the per-period target, mean excess positive.
	s := Sortino([]float64{0.01, 0.02, 0.015}, 0.02, 252)
	assert.Equal(t, models.RatioUnbounded, s.State)
}

func TestSortinoWithDownside(t *testing.T) {
	s := Sortino([]float64{0.02, -0.03, 0.01, -0.01}, 0.02, 252)
	require.Equal(t, models.RatioDefined, s.State)
	assert.False(t, math.IsInf(s.Value, 0))
	assert.False(t, math.IsNaN(s.Value))
}

func TestCalmarZeroDrawdownUndefined(t *testing.T) {
	c := Calmar(0.12, 0)
	assert.Equal(t, models.RatioUndefined, c.State)

	c = Calmar(0.12, 0.3)
	require.True(t, c.IsDefined())
	assert.InDelta(t, 0.4, c.Value, 1e-12)
}

func TestSkewnessKurtosisConstantSeries(t *testing.T) {
	flat := []float64{0.01, 0.01, 0.01}
	assert.Equal(t, 0.0, Skewness(flat))
	assert.Equal(t, 0.0, Kurtosis(flat))
}

func TestSkewnessSymmetricSeries(t *testing.T) {
	assert.InDelta(t, 0.0, Skewness([]float64{-0.02, -0.01, 0, 0.01, 0.02}), 1e-12)
}

func TestReport(t *testing.T) {
	returns := []float64{0.01, -0.02, 0.015, 0.005, -0.01, 0.02, -0.005, 0.01}
	rep, err := Report(returns, DefaultParams())
	require.NoError(t, err)

	wealth := 1.0
	for _, r := range returns {
		wealth *= 1 + r
	}
	assert.InDelta(t, wealth-1, rep.TotalReturn, 1e-12)
	assert.Greater(t, rep.Volatility, 0.0)
	assert.GreaterOrEqual(t, rep.MaxDrawdown, 0.0)
	assert.LessOrEqual(t, rep.PeakIndex, rep.TroughIndex)
	assert.Equal(t, 0.95, rep.VaRConfidence)
	assert.True(t, rep.Sharpe.IsDefined())
}

func TestReportShortSeries(t *testing.T) {
	_, err := Report([]float64{0.01}, DefaultParams())
	require.Error(t, err)
	assert.Equal(t, models.ErrInsufficientData, models.KindOf(err))
}

func TestBenchmarkIdenticalSeries(t *testing.T) {
	returns := []float64{0.01, -0.02, 0.015, 0.005, -0.01, 0.02}
	stats, err := Benchmark(returns, returns, DefaultParams())
	require.NoError(t, err)

	assert.InDelta(t, 1.0, stats.Beta, 1e-12)
	assert.InDelta(t, 1.0, stats.Correlation, 1e-12)
	assert.InDelta(t, 0.0, stats.Alpha, 1e-9)
	assert.InDelta(t, 0.0, stats.TrackingError, 1e-12)
	assert.Equal(t, models.RatioUndefined, stats.InformationRatio.State)
	require.True(t, stats.UpCapture.IsDefined())
	assert.InDelta(t, 1.0, stats.UpCapture.Value, 1e-12)
	require.True(t, stats.DownCapture.IsDefined())
	assert.InDelta(t, 1.0, stats.DownCapture.Value, 1e-12)
}

func TestBenchmarkZeroVarianceRejected(t *testing.T) {
	portfolio := []float64{0.01, -0.02, 0.015}
	flat := []float64{0.005, 0.005, 0.005}
	_, err := Benchmark(portfolio, flat, DefaultParams())
	require.Error(t, err)
	assert.Equal(t, models.ErrDegenerateInput, models.KindOf(err))
}

func TestBenchmarkAlignsTails(t *testing.T) {
	portfolio := []float64{0.5, 0.5, 0.01, -0.02, 0.015, 0.005}
	benchmark := []float64{0.01, -0.02, 0.015, 0.005}
	stats, err := Benchmark(portfolio, benchmark, DefaultParams())
	require.NoError(t, err)
	// After tail alignment the two series coincide.
	assert.InDelta(t, 1.0, stats.Beta, 1e-12)
}

func TestAttribution(t *testing.T) {
	holdings := []models.Holding{
		{Symbol: "SPY", Weight: 0.5, PeriodReturn: 0.10, Sector: "broad", AssetClass: "stocks", Geography: "us"},
		{Symbol: "TLT", Weight: 0.3, PeriodReturn: 0.20, Sector: "rates", AssetClass: "bonds", Geography: "us"},
		{Symbol: "GLD", Weight: 0.2, PeriodReturn: -0.05, Sector: "metals", AssetClass: "commodities", Geography: "global"},
	}
	rep, err := Attribution(holdings, 0.10)
	require.NoError(t, err)

	assert.InDelta(t, 0.10, rep.Total, 1e-12)
	assert.InDelta(t, 0.05, rep.ByHolding["SPY"], 1e-12)
	assert.InDelta(t, 0.06, rep.ByHolding["TLT"], 1e-12)
	assert.InDelta(t, -0.01, rep.ByHolding["GLD"], 1e-12)
	assert.InDelta(t, 0.11, rep.ByGeography["us"], 1e-12)
	assert.InDelta(t, 0.06, rep.ByAssetClass["bonds"], 1e-12)
}

func TestAttributionInvariantViolation(t *testing.T) {
	holdings := []models.Holding{
		{Symbol: "SPY", Weight: 0.5, PeriodReturn: 0.10},
		{Symbol: "TLT", Weight: 0.5, PeriodReturn: 0.10},
	}
	_, err := Attribution(holdings, 0.25)
	require.Error(t, err)
	assert.Equal(t, models.ErrInvariantViolation, models.KindOf(err))
}

func TestAttributionPartialInvestmentNotChecked(t *testing.T) {
	holdings := []models.Holding{
		{Symbol: "SPY", Weight: 0.4, PeriodReturn: 0.10},
	}
	// Not fully invested, so the reproduction invariant does not apply.
	rep, err := Attribution(holdings, 0.99)
	require.NoError(t, err)
	assert.InDelta(t, 0.04, rep.Total, 1e-12)
}

func TestPearson(t *testing.T) {
	x := []float64{1, 2, 3, 4, 5}
	assert.InDelta(t, 1.0, pearson(x, x), 1e-12)

	inv := []float64{5, 4, 3, 2, 1}
	assert.InDelta(t, -1.0, pearson(x, inv), 1e-12)
}
