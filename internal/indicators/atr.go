package indicators

import (
	"math"

	"github.com/alphapulse/alphapulse/models"
)

// TrueRanges computes the true range for each candle after the first:
// max(high-low, |high-prevClose|, |low-prevClose|).
func TrueRanges(candles []models.Candle) []float64 {
	if len(candles) < 2 {
		return nil
	}
	trs := make([]float64, 0, len(candles)-1)
	for i := 1; i < len(candles); i++ {
		highLow := candles[i].High - candles[i].Low
		highPrevClose := math.Abs(candles[i].High - candles[i-1].Close)
		lowPrevClose := math.Abs(candles[i].Low - candles[i-1].Close)
		trs = append(trs, math.Max(highLow, math.Max(highPrevClose, lowPrevClose)))
	}
	return trs
}

// ATR computes the average true range as an SMA(period) of the true
// range series. Needs period+1 candles.
func ATR(candles []models.Candle, period int) (models.IndicatorResult, error) {
	if period <= 0 {
		return models.IndicatorResult{}, models.ErrDegenerate("indicators.ATR", "non-positive period")
	}
	if len(candles) < period+1 {
		return models.IndicatorResult{}, models.ErrShortSeries("indicators.ATR", period+1, len(candles))
	}

	sma, err := SMA(TrueRanges(candles), period)
	if err != nil {
		return models.IndicatorResult{}, err
	}

	return models.IndicatorResult{
		Name:    "ATR",
		Values:  sma.Values,
		Current: sma.Current,
		Params:  map[string]float64{"period": float64(period)},
	}, nil
}

// VolatilityRatio is ATR(fast)/ATR(slow), used to grade the current
// volatility regime. Returns a degenerate-input error when the slow
// ATR is zero.
func VolatilityRatio(candles []models.Candle, fastPeriod, slowPeriod int) (float64, error) {
	fast, err := ATR(candles, fastPeriod)
	if err != nil {
		return 0, err
	}
	slow, err := ATR(candles, slowPeriod)
	if err != nil {
		return 0, err
	}
	if slow.Current == 0 {
		return 0, models.ErrDegenerate("indicators.VolatilityRatio", "zero slow ATR")
	}
	return fast.Current / slow.Current, nil
}
