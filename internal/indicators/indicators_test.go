package indicators

import (
	"errors"
	"math"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/alphapulse/alphapulse/models"
)

func generateTestCandles(n int, generator func(int) models.Candle) []models.Candle {
	candles := make([]models.Candle, n)
	for i := 0; i < n; i++ {
		candles[i] = generator(i)
		candles[i].Timestamp = time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC).Add(time.Duration(i) * time.Hour)
	}
	return candles
}

func TestSMA(t *testing.T) {
	res, err := SMA([]float64{1, 2, 3, 4, 5}, 3)
	require.NoError(t, err)
	assert.Equal(t, []float64{2, 3, 4}, res.Values)
	assert.Equal(t, 4.0, res.Current)
}

func TestSMAInsufficientData(t *testing.T) {
	_, err := SMA([]float64{1, 2}, 3)
	require.Error(t, err)
	assert.Equal(t, models.ErrInsufficientData, models.KindOf(err))
}

func TestEMAFirstValueEqualsSMAFirstValue(t *testing.T) {
	closes := []float64{3, 7, 2, 9, 4, 6, 8, 1, 5}
	for _, period := range []int{3, 4, 5} {
		sma, err := SMA(closes, period)
		require.NoError(t, err)
		ema, err := EMA(closes, period)
		require.NoError(t, err)
		assert.InDelta(t, sma.Values[0], ema.Values[0], 1e-12, "period %d", period)
		assert.Len(t, ema.Values, len(closes)-period+1)
	}
}

func TestRSIBounds(t *testing.T) {
	closes := make([]float64, 60)
	for i := range closes {
		closes[i] = 100 + 10*math.Sin(float64(i)/3) + float64(i%7)
	}
	res, err := RSI(closes, 14)
	require.NoError(t, err)
	for _, v := range res.Values {
		assert.GreaterOrEqual(t, v, 0.0)
		assert.LessOrEqual(t, v, 100.0)
	}
}

func TestRSIAllGainsIs100(t *testing.T) {
	closes := make([]float64, 20)
	for i := range closes {
		closes[i] = float64(100 + i)
	}
	res, err := RSI(closes, 14)
	require.NoError(t, err)
	assert.Equal(t, 100.0, res.Current)
}

func TestRSIInsufficientData(t *testing.T) {
	_, err := RSI([]float64{1, 2, 3}, 14)
	require.Error(t, err)
	assert.Equal(t, models.ErrInsufficientData, models.KindOf(err))
}

func TestMACDAlignment(t *testing.T) {
	closes := make([]float64, 40)
	for i := range closes {
		closes[i] = 100 + float64(i) + 3*math.Sin(float64(i)/2)
	}
	res, err := MACD(closes, 12, 26, 9)
	require.NoError(t, err)
	assert.Len(t, res.Line, 40-26+1)
	assert.Len(t, res.Signal, len(res.Line)-9+1)
	assert.Len(t, res.Histogram, len(res.Signal))
	assert.InDelta(t, res.Line[len(res.Line)-1]-res.Signal[len(res.Signal)-1], res.CurrentHistogram, 1e-12)
}

func TestMACDInsufficientData(t *testing.T) {
	closes := make([]float64, 30)
	_, err := MACD(closes, 12, 26, 9)
	require.Error(t, err)
	assert.Equal(t, models.ErrInsufficientData, models.KindOf(err))
}

func TestBollingerBands(t *testing.T) {
	res, err := BollingerBands([]float64{1, 2, 3, 4}, 3, 2)
	require.NoError(t, err)
	require.Len(t, res.Middle, 2)

	// First window [1,2,3]: mean 2, population stddev sqrt(2/3).
	sd := math.Sqrt(2.0 / 3.0)
	assert.InDelta(t, 2.0, res.Middle[0], 1e-12)
	assert.InDelta(t, 2+2*sd, res.Upper[0], 1e-12)
	assert.InDelta(t, 2-2*sd, res.Lower[0], 1e-12)

	// %B of price 3 in the first window.
	assert.InDelta(t, (3-(2-2*sd))/(4*sd), res.PercentB[0], 1e-12)
	assert.InDelta(t, 4*sd/2, res.BandWidth[0], 1e-12)
}

func TestBollingerConstantSeries(t *testing.T) {
	res, err := BollingerBands([]float64{5, 5, 5, 5, 5}, 3, 2)
	require.NoError(t, err)
	// Zero-width bands: %B defined as the midpoint.
	for _, pb := range res.PercentB {
		assert.Equal(t, 0.5, pb)
	}
}

func TestATR(t *testing.T) {
	candles := generateTestCandles(10, func(i int) models.Candle {
		return models.Candle{Open: 10, High: 11, Low: 9, Close: 10}
	})
	res, err := ATR(candles, 3)
	require.NoError(t, err)
	assert.InDelta(t, 2.0, res.Current, 1e-12)
	assert.Len(t, res.Values, 10-1-3+1)
}

func TestVolatilityRatioConstantRangeIsOne(t *testing.T) {
	candles := generateTestCandles(10, func(i int) models.Candle {
		return models.Candle{Open: 10, High: 11, Low: 9, Close: 10}
	})
	vr, err := VolatilityRatio(candles, 3, 5)
	require.NoError(t, err)
	assert.InDelta(t, 1.0, vr, 1e-12)
}

func TestVolatilityRatioZeroSlowATR(t *testing.T) {
	// A tape with no range at all has a zero slow ATR.
	candles := generateTestCandles(10, func(i int) models.Candle {
		return models.Candle{Open: 10, High: 10, Low: 10, Close: 10}
	})
	_, err := VolatilityRatio(candles, 3, 5)
	require.Error(t, err)
	assert.Equal(t, models.ErrDegenerateInput, models.KindOf(err))
}

func TestVolatilityRatioShortSeries(t *testing.T) {
	candles := generateTestCandles(4, func(i int) models.Candle {
		return models.Candle{Open: 10, High: 11, Low: 9, Close: 10}
	})
	_, err := VolatilityRatio(candles, 3, 5)
	require.Error(t, err)
	assert.Equal(t, models.ErrInsufficientData, models.KindOf(err))
}

func TestStochastic(t *testing.T) {
	candles := generateTestCandles(4, func(i int) models.Candle {
		base := float64(9 + i)
		return models.Candle{High: base + 1, Low: base - 1, Close: base}
	})
	res, err := Stochastic(candles, 3, 2)
	require.NoError(t, err)
	assert.InDelta(t, 75.0, res.CurrentK(), 1e-12)
	assert.InDelta(t, 75.0, res.CurrentD(), 1e-12)
}

func TestStochasticZeroRange(t *testing.T) {
	candles := generateTestCandles(5, func(i int) models.Candle {
		return models.Candle{High: 10, Low: 10, Close: 10}
	})
	res, err := Stochastic(candles, 3, 2)
	require.NoError(t, err)
	assert.Equal(t, 50.0, res.CurrentK())
}

func TestOBV(t *testing.T) {
	closes := []float64{1, 2, 2, 1}
	vols := []float64{5, 10, 20, 30}
	candles := generateTestCandles(4, func(i int) models.Candle {
		return models.Candle{Close: closes[i], Volume: vols[i]}
	})
	res, err := OBV(candles)
	require.NoError(t, err)
	assert.Equal(t, []float64{5, 15, 15, -15}, res.Values)
}

func TestVWAP(t *testing.T) {
	candles := []models.Candle{
		{Timestamp: time.Unix(1, 0), High: 11, Low: 9, Close: 10, Volume: 2},
		{Timestamp: time.Unix(2, 0), High: 21, Low: 19, Close: 20, Volume: 2},
	}
	res, err := VWAP(candles)
	require.NoError(t, err)
	assert.InDelta(t, 10.0, res.Values[0], 1e-12)
	assert.InDelta(t, 15.0, res.Values[1], 1e-12)
}

func TestVWAPZeroVolume(t *testing.T) {
	candles := generateTestCandles(3, func(i int) models.Candle {
		return models.Candle{High: 11, Low: 9, Close: 10, Volume: 0}
	})
	_, err := VWAP(candles)
	require.Error(t, err)
	assert.Equal(t, models.ErrDegenerateInput, models.KindOf(err))
}

func TestADX(t *testing.T) {
	candles := generateTestCandles(40, func(i int) models.Candle {
		base := 100 + float64(i)
		return models.Candle{Open: base, High: base + 2, Low: base - 1, Close: base + 1}
	})
	res, err := ADX(candles, 14)
	require.NoError(t, err)
	assert.Greater(t, res.Current, 0.0)
	assert.LessOrEqual(t, res.Current, 100.0)
	// A consistent uptrend keeps +DI above -DI.
	assert.Greater(t, res.PlusDI, res.MinusDI)
}

func TestADXInsufficientData(t *testing.T) {
	candles := generateTestCandles(20, func(i int) models.Candle {
		return models.Candle{High: 11, Low: 9, Close: 10}
	})
	_, err := ADX(candles, 14)
	require.Error(t, err)

	var ae *models.AnalysisError
	require.True(t, errors.As(err, &ae))
	assert.Equal(t, models.ErrInsufficientData, ae.Kind)
	assert.Equal(t, 28, ae.Needed)
}
