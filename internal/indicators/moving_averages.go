package indicators

import (
	"github.com/alphapulse/alphapulse/models"
)

// DefaultEMASmoothing is the standard EMA smoothing constant.
const DefaultEMASmoothing = 2.0

// SMA computes the simple moving average over each trailing window.
// Output holds n-period+1 values aligned to the tail of closes.
func SMA(closes []float64, period int) (models.IndicatorResult, error) {
	if period <= 0 {
		return models.IndicatorResult{}, models.ErrDegenerate("indicators.SMA", "non-positive period")
	}
	if len(closes) < period {
		return models.IndicatorResult{}, models.ErrShortSeries("indicators.SMA", period, len(closes))
	}

	values := make([]float64, 0, len(closes)-period+1)
	var sum float64
	for i, c := range closes {
		sum += c
		if i >= period {
			sum -= closes[i-period]
		}
		if i >= period-1 {
			values = append(values, sum/float64(period))
		}
	}

	return models.IndicatorResult{
		Name:    "SMA",
		Values:  values,
		Current: values[len(values)-1],
		Params:  map[string]float64{"period": float64(period)},
	}, nil
}

// EMA computes the exponential moving average seeded with the SMA of the
// first window, so its first output equals SMA's first output. The
// multiplier is smoothing/(period+1).
func EMA(closes []float64, period int) (models.IndicatorResult, error) {
	values, err := emaSeries(closes, period, DefaultEMASmoothing)
	if err != nil {
		return models.IndicatorResult{}, err
	}
	return models.IndicatorResult{
		Name:    "EMA",
		Values:  values,
		Current: values[len(values)-1],
		Params:  map[string]float64{"period": float64(period), "smoothing": DefaultEMASmoothing},
	}, nil
}

// emaSeries is the shared EMA recurrence, reused by MACD for its lines.
func emaSeries(values []float64, period int, smoothing float64) ([]float64, error) {
	if period <= 0 {
		return nil, models.ErrDegenerate("indicators.EMA", "non-positive period")
	}
	if len(values) < period {
		return nil, models.ErrShortSeries("indicators.EMA", period, len(values))
	}

	out := make([]float64, 0, len(values)-period+1)

	// Seed with the SMA of the first window.
	var seed float64
	for i := 0; i < period; i++ {
		seed += values[i]
	}
	seed /= float64(period)
	out = append(out, seed)

	mult := smoothing / (float64(period) + 1)
	ema := seed
	for i := period; i < len(values); i++ {
		ema = values[i]*mult + ema*(1-mult)
		out = append(out, ema)
	}
	return out, nil
}
