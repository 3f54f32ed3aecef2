package indicators

import (
	"github.com/alphapulse/alphapulse/models"
)

// RSI computes the relative strength index with Wilder smoothing of the
// average gain/loss. Needs period+1 closes; output holds one value per
// candle from index period onward. When the average loss is zero the RSI
// is defined as 100 (maximal bullish), never NaN.
func RSI(closes []float64, period int) (models.IndicatorResult, error) {
	if period <= 0 {
		return models.IndicatorResult{}, models.ErrDegenerate("indicators.RSI", "non-positive period")
	}
	if len(closes) < period+1 {
		return models.IndicatorResult{}, models.ErrShortSeries("indicators.RSI", period+1, len(closes))
	}

	var gains, losses float64
	for i := 1; i <= period; i++ {
		change := closes[i] - closes[i-1]
		if change > 0 {
			gains += change
		} else {
			losses -= change
		}
	}
	avgGain := gains / float64(period)
	avgLoss := losses / float64(period)

	values := make([]float64, 0, len(closes)-period)
	values = append(values, rsiValue(avgGain, avgLoss))

	for i := period + 1; i < len(closes); i++ {
		change := closes[i] - closes[i-1]
		gain, loss := 0.0, 0.0
		if change > 0 {
			gain = change
		} else {
			loss = -change
		}
		avgGain = (avgGain*float64(period-1) + gain) / float64(period)
		avgLoss = (avgLoss*float64(period-1) + loss) / float64(period)
		values = append(values, rsiValue(avgGain, avgLoss))
	}

	return models.IndicatorResult{
		Name:    "RSI",
		Values:  values,
		Current: values[len(values)-1],
		Params:  map[string]float64{"period": float64(period)},
	}, nil
}

func rsiValue(avgGain, avgLoss float64) float64 {
	if avgLoss == 0 {
		return 100.0
	}
	rs := avgGain / avgLoss
	return 100.0 - (100.0 / (1.0 + rs))
}
