package indicators

import (
	"math"

	"github.com/alphapulse/alphapulse/models"
)

// BollingerResult holds the band series aligned to the tail of the input
// closes. PercentB and BandWidth are derived per window.
type BollingerResult struct {
	Upper     []float64
	Middle    []float64
	Lower     []float64
	PercentB  []float64
	BandWidth []float64
}

// Current values at the most recent candle.
func (b BollingerResult) CurrentUpper() float64  { return b.Upper[len(b.Upper)-1] }
func (b BollingerResult) CurrentMiddle() float64 { return b.Middle[len(b.Middle)-1] }
func (b BollingerResult) CurrentLower() float64  { return b.Lower[len(b.Lower)-1] }

// BollingerBands computes middle = SMA(period) and bands at
// mean +/- k population standard deviations (variance divided by period,
// not period-1). %B is (price-lower)/(upper-lower); when the bands
// collapse to zero width %B is defined as 0.5.
func BollingerBands(closes []float64, period int, k float64) (BollingerResult, error) {
	if period <= 0 {
		return BollingerResult{}, models.ErrDegenerate("indicators.BollingerBands", "non-positive period")
	}
	if len(closes) < period {
		return BollingerResult{}, models.ErrShortSeries("indicators.BollingerBands", period, len(closes))
	}

	n := len(closes) - period + 1
	res := BollingerResult{
		Upper:     make([]float64, n),
		Middle:    make([]float64, n),
		Lower:     make([]float64, n),
		PercentB:  make([]float64, n),
		BandWidth: make([]float64, n),
	}

	for w := 0; w < n; w++ {
		window := closes[w : w+period]
		var sum float64
		for _, c := range window {
			sum += c
		}
		mean := sum / float64(period)

		var variance float64
		for _, c := range window {
			variance += (c - mean) * (c - mean)
		}
		sd := math.Sqrt(variance / float64(period))

		upper := mean + k*sd
		lower := mean - k*sd
		price := window[period-1]

		res.Middle[w] = mean
		res.Upper[w] = upper
		res.Lower[w] = lower
		if upper > lower {
			res.PercentB[w] = (price - lower) / (upper - lower)
		} else {
			res.PercentB[w] = 0.5
		}
		if mean != 0 {
			res.BandWidth[w] = (upper - lower) / mean
		}
	}

	return res, nil
}
