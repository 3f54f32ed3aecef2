package indicators

import (
	"math"

	"github.com/alphapulse/alphapulse/models"
)

// ADXResult holds the average directional index series and the current
// directional indicators.
type ADXResult struct {
	Values  []float64 // ADX progression, one value per refinement step
	Current float64
	PlusDI  float64
	MinusDI float64
}

// ADX computes the average directional index with Wilder smoothing of
// +DM, -DM and the true range. Needs 2*period candles.
func ADX(candles []models.Candle, period int) (ADXResult, error) {
	if period <= 0 {
		return ADXResult{}, models.ErrDegenerate("indicators.ADX", "non-positive period")
	}
	if len(candles) < period*2 {
		return ADXResult{}, models.ErrShortSeries("indicators.ADX", period*2, len(candles))
	}

	var plusDM, minusDM, trueRange []float64
	for i := 1; i < len(candles); i++ {
		upMove := candles[i].High - candles[i-1].High
		downMove := candles[i-1].Low - candles[i].Low

		pDM := 0.0
		if upMove > downMove && upMove > 0 {
			pDM = upMove
		}
		plusDM = append(plusDM, pDM)

		mDM := 0.0
		if downMove > upMove && downMove > 0 {
			mDM = downMove
		}
		minusDM = append(minusDM, mDM)

		tr1 := candles[i].High - candles[i].Low
		tr2 := math.Abs(candles[i].High - candles[i-1].Close)
		tr3 := math.Abs(candles[i].Low - candles[i-1].Close)
		trueRange = append(trueRange, math.Max(tr1, math.Max(tr2, tr3)))
	}

	var smoothedPlusDM, smoothedMinusDM, smoothedTR float64
	for i := 0; i < period; i++ {
		smoothedPlusDM += plusDM[i]
		smoothedMinusDM += minusDM[i]
		smoothedTR += trueRange[i]
	}
	if smoothedTR == 0 {
		return ADXResult{}, models.ErrDegenerate("indicators.ADX", "zero true range over initial window")
	}

	plusDI := (smoothedPlusDM / smoothedTR) * 100
	minusDI := (smoothedMinusDM / smoothedTR) * 100
	adx := dx(plusDI, minusDI)
	values := []float64{adx}

	for i := period; i < len(trueRange); i++ {
		smoothedPlusDM = smoothedPlusDM - (smoothedPlusDM / float64(period)) + plusDM[i]
		smoothedMinusDM = smoothedMinusDM - (smoothedMinusDM / float64(period)) + minusDM[i]
		smoothedTR = smoothedTR - (smoothedTR / float64(period)) + trueRange[i]
		if smoothedTR == 0 {
			continue
		}

		plusDI = (smoothedPlusDM / smoothedTR) * 100
		minusDI = (smoothedMinusDM / smoothedTR) * 100

		// ADX is the Wilder-smoothed DX.
		adx = ((float64(period-1) * adx) + dx(plusDI, minusDI)) / float64(period)
		values = append(values, adx)
	}

	return ADXResult{
		Values:  values,
		Current: adx,
		PlusDI:  plusDI,
		MinusDI: minusDI,
	}, nil
}

func dx(plusDI, minusDI float64) float64 {
	if plusDI+minusDI == 0 {
		return 0
	}
	return math.Abs(plusDI-minusDI) / (plusDI + minusDI) * 100
}
