package signals

import (
	"github.com/alphapulse/alphapulse/models"
)

// swingPoint is a local price extreme used for level and pattern detection.
type swingPoint struct {
	index int
	price float64
}

// findSwings locates local highs and lows: points higher (lower) than the
// two candles on each side.
func findSwings(candles []models.Candle) (highs, lows []swingPoint) {
	for i := 2; i < len(candles)-2; i++ {
		h := candles[i].High
		if h > candles[i-1].High && h > candles[i-2].High && h > candles[i+1].High && h > candles[i+2].High {
			highs = append(highs, swingPoint{i, h})
		}
		l := candles[i].Low
		if l < candles[i-1].Low && l < candles[i-2].Low && l < candles[i+1].Low && l < candles[i+2].Low {
			lows = append(lows, swingPoint{i, l})
		}
	}
	return highs, lows
}

// SupportResistance derives candidate support and resistance levels from
// swing lows and highs, most recent last.
func SupportResistance(candles []models.Candle) (support, resistance []float64) {
	highs, lows := findSwings(candles)
	for _, p := range lows {
		support = append(support, p.price)
	}
	for _, p := range highs {
		resistance = append(resistance, p.price)
	}
	return support, resistance
}

// nearLevel reports whether price is within proximity (a fraction of the
// level) of any level.
func nearLevel(price float64, levels []float64, proximity float64) bool {
	for _, lv := range levels {
		if lv == 0 {
			continue
		}
		diff := price - lv
		if diff < 0 {
			diff = -diff
		}
		if diff/lv <= proximity {
			return true
		}
	}
	return false
}

// doublePattern checks the two most recent swing extremes for a double
// top (two highs within tolerance with a trough between) or double bottom.
// It reports which pattern completed, if any.
func doublePattern(candles []models.Candle, tolerance float64) (top, bottom bool) {
	highs, lows := findSwings(candles)

	if len(highs) >= 2 {
		a, b := highs[len(highs)-2], highs[len(highs)-1]
		if within(a.price, b.price, tolerance) && troughBetween(candles, a, b) {
			top = true
		}
	}
	if len(lows) >= 2 {
		a, b := lows[len(lows)-2], lows[len(lows)-1]
		if within(a.price, b.price, tolerance) && peakBetween(candles, a, b) {
			bottom = true
		}
	}
	return top, bottom
}

// trianglePattern checks the most recent swing highs and lows for a
// contracting triangle: descending highs against ascending lows. The
// pattern only counts once price escapes it, so the return values report
// a breakout, not the mere presence of converging boundaries.
func trianglePattern(candles []models.Candle) (breakUp, breakDown bool) {
	highs, lows := findSwings(candles)
	if len(highs) < 2 || len(lows) < 2 {
		return false, false
	}
	h1, h2 := highs[len(highs)-2], highs[len(highs)-1]
	l1, l2 := lows[len(lows)-2], lows[len(lows)-1]
	if h2.price >= h1.price || l2.price <= l1.price {
		return false, false
	}
	last := candles[len(candles)-1].Close
	return last > h2.price, last < l2.price
}

// headAndShoulders checks the last three swing highs for a head above two
// near-equal shoulders, and the last three swing lows for the inverse.
func headAndShoulders(candles []models.Candle, tolerance float64) (top, bottom bool) {
	highs, lows := findSwings(candles)
	if len(highs) >= 3 {
		left, head, right := highs[len(highs)-3], highs[len(highs)-2], highs[len(highs)-1]
		if head.price > left.price && head.price > right.price && within(left.price, right.price, tolerance) {
			top = true
		}
	}
	if len(lows) >= 3 {
		left, head, right := lows[len(lows)-3], lows[len(lows)-2], lows[len(lows)-1]
		if head.price < left.price && head.price < right.price && within(left.price, right.price, tolerance) {
			bottom = true
		}
	}
	return top, bottom
}

func within(a, b, tolerance float64) bool {
	if a == 0 {
		return false
	}
	diff := a - b
	if diff < 0 {
		diff = -diff
	}
	return diff/a <= tolerance
}

// troughBetween requires a meaningful dip between two peaks.
func troughBetween(candles []models.Candle, a, b swingPoint) bool {
	lowest := a.price
	for i := a.index; i <= b.index; i++ {
		if candles[i].Low < lowest {
			lowest = candles[i].Low
		}
	}
	return lowest < a.price*0.99
}

// peakBetween requires a meaningful rise between two troughs.
func peakBetween(candles []models.Candle, a, b swingPoint) bool {
	highest := a.price
	for i := a.index; i <= b.index; i++ {
		if candles[i].High > highest {
			highest = candles[i].High
		}
	}
	return highest > a.price*1.01
}
