package indicators

import (
	"github.com/alphapulse/alphapulse/models"
)

// MACDResult holds the three MACD series. Line, Signal and Histogram are
// each aligned to the tail of the input closes; Histogram covers the
// overlap of Line and Signal.
type MACDResult struct {
	Line      []float64
	Signal    []float64
	Histogram []float64
	Current   float64 // latest MACD line value
	CurrentSignal    float64
	CurrentHistogram float64
}

// MACD computes the moving average convergence/divergence:
// line = EMA(fast) - EMA(slow) over the aligned tail, signal =
// EMA(line, signalPeriod), histogram = line - signal.
func MACD(closes []float64, fast, slow, signalPeriod int) (MACDResult, error) {
	if fast <= 0 || slow <= 0 || signalPeriod <= 0 {
		return MACDResult{}, models.ErrDegenerate("indicators.MACD", "non-positive period")
	}
	if fast >= slow {
		return MACDResult{}, models.ErrDegenerate("indicators.MACD", "fast period must be below slow period")
	}
	needed := slow + signalPeriod
	if len(closes) < needed {
		return MACDResult{}, models.ErrShortSeries("indicators.MACD", needed, len(closes))
	}

	fastEMA, err := emaSeries(closes, fast, DefaultEMASmoothing)
	if err != nil {
		return MACDResult{}, err
	}
	slowEMA, err := emaSeries(closes, slow, DefaultEMASmoothing)
	if err != nil {
		return MACDResult{}, err
	}

	// The slow EMA is shorter; align the fast EMA to its tail.
	offset := len(fastEMA) - len(slowEMA)
	line := make([]float64, len(slowEMA))
	for i := range slowEMA {
		line[i] = fastEMA[i+offset] - slowEMA[i]
	}

	signal, err := emaSeries(line, signalPeriod, DefaultEMASmoothing)
	if err != nil {
		return MACDResult{}, err
	}

	histOffset := len(line) - len(signal)
	histogram := make([]float64, len(signal))
	for i := range signal {
		histogram[i] = line[i+histOffset] - signal[i]
	}

	return MACDResult{
		Line:             line,
		Signal:           signal,
		Histogram:        histogram,
		Current:          line[len(line)-1],
		CurrentSignal:    signal[len(signal)-1],
		CurrentHistogram: histogram[len(histogram)-1],
	}, nil
}
