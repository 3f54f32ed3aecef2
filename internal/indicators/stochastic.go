package indicators

import (
	"github.com/alphapulse/alphapulse/models"
)

// StochasticResult holds the %K series and its %D smoothing, aligned to
// the tail of the input candles.
type StochasticResult struct {
	K []float64
	D []float64
}

// CurrentK returns the latest %K value.
func (s StochasticResult) CurrentK() float64 { return s.K[len(s.K)-1] }

// CurrentD returns the latest %D value.
func (s StochasticResult) CurrentD() float64 { return s.D[len(s.D)-1] }

// Stochastic computes %K = (close-lowestLow)/(highestHigh-lowestLow)*100
// over each kPeriod window and %D as an SMA(dPeriod) of %K. A window with
// no range yields the midpoint 50.
func Stochastic(candles []models.Candle, kPeriod, dPeriod int) (StochasticResult, error) {
	if kPeriod <= 0 || dPeriod <= 0 {
		return StochasticResult{}, models.ErrDegenerate("indicators.Stochastic", "non-positive period")
	}
	needed := kPeriod + dPeriod - 1
	if len(candles) < needed {
		return StochasticResult{}, models.ErrShortSeries("indicators.Stochastic", needed, len(candles))
	}

	k := make([]float64, 0, len(candles)-kPeriod+1)
	for w := 0; w+kPeriod <= len(candles); w++ {
		window := candles[w : w+kPeriod]
		highest, lowest := window[0].High, window[0].Low
		for _, c := range window[1:] {
			if c.High > highest {
				highest = c.High
			}
			if c.Low < lowest {
				lowest = c.Low
			}
		}
		closePrice := window[kPeriod-1].Close
		if highest > lowest {
			k = append(k, (closePrice-lowest)/(highest-lowest)*100)
		} else {
			k = append(k, 50.0)
		}
	}

	dRes, err := SMA(k, dPeriod)
	if err != nil {
		return StochasticResult{}, err
	}

	return StochasticResult{K: k, D: dRes.Values}, nil
}
