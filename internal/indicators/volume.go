package indicators

import (
	"github.com/alphapulse/alphapulse/models"
)

// OBV computes on-balance volume: a cumulative sum that adds volume when
// the close rose, subtracts it when the close fell, and holds when equal.
func OBV(candles []models.Candle) (models.IndicatorResult, error) {
	if len(candles) < 2 {
		return models.IndicatorResult{}, models.ErrShortSeries("indicators.OBV", 2, len(candles))
	}

	values := make([]float64, len(candles))
	values[0] = candles[0].Volume
	for i := 1; i < len(candles); i++ {
		values[i] = values[i-1]
		switch {
		case candles[i].Close > candles[i-1].Close:
			values[i] += candles[i].Volume
		case candles[i].Close < candles[i-1].Close:
			values[i] -= candles[i].Volume
		}
	}

	return models.IndicatorResult{
		Name:    "OBV",
		Values:  values,
		Current: values[len(values)-1],
	}, nil
}

// VWAP computes the cumulative volume-weighted typical price from the
// start of the series. It is session-cumulative, not rolling: callers
// wanting a session-scoped VWAP must reset the series at session
// boundaries. Zero cumulative volume is degenerate input.
func VWAP(candles []models.Candle) (models.IndicatorResult, error) {
	if len(candles) == 0 {
		return models.IndicatorResult{}, models.ErrShortSeries("indicators.VWAP", 1, 0)
	}

	values := make([]float64, len(candles))
	var cumPV, cumVol float64
	for i, c := range candles {
		cumPV += c.TypicalPrice() * c.Volume
		cumVol += c.Volume
		if cumVol == 0 {
			return models.IndicatorResult{}, models.ErrDegenerate("indicators.VWAP", "zero cumulative volume")
		}
		values[i] = cumPV / cumVol
	}

	return models.IndicatorResult{
		Name:    "VWAP",
		Values:  values,
		Current: values[len(values)-1],
	}, nil
}
