package series

import (
	"github.com/alphapulse/alphapulse/models"
)

// Store is an append-only OHLCV buffer with a strictly increasing
// timestamp invariant. Indicators and detectors read trailing windows
// from it; nothing ever mutates an appended candle.
type Store struct {
	symbol  string
	candles []models.Candle
}

// New creates an empty store for symbol.
func New(symbol string) *Store {
	return &Store{symbol: symbol}
}

// FromCandles builds a store from an already ordered candle slice,
// rejecting any out-of-order timestamp.
func FromCandles(symbol string, candles []models.Candle) (*Store, error) {
	s := New(symbol)
	for _, c := range candles {
		if err := s.Append(c); err != nil {
			return nil, err
		}
	}
	return s, nil
}

// Append adds one candle. A timestamp that does not strictly increase is
// rejected as degenerate input rather than silently reordered.
func (s *Store) Append(c models.Candle) error {
	if n := len(s.candles); n > 0 && !c.Timestamp.After(s.candles[n-1].Timestamp) {
		return models.ErrDegenerate("series.Append", "stale or duplicate timestamp for "+s.symbol)
	}
	s.candles = append(s.candles, c)
	return nil
}

// Symbol returns the symbol this store tracks.
func (s *Store) Symbol() string { return s.symbol }

// Len returns the number of candles.
func (s *Store) Len() int { return len(s.candles) }

// Candles returns the underlying ordered slice. Callers must not mutate it.
func (s *Store) Candles() []models.Candle { return s.candles }

// Last returns the most recent candle; ok is false when empty.
func (s *Store) Last() (models.Candle, bool) {
	if len(s.candles) == 0 {
		return models.Candle{}, false
	}
	return s.candles[len(s.candles)-1], true
}

// Closes extracts the close-price sequence.
func (s *Store) Closes() []float64 {
	closes := make([]float64, len(s.candles))
	for i, c := range s.candles {
		closes[i] = c.Close
	}
	return closes
}

// Tail returns the last n candles, or everything when n exceeds the length.
func (s *Store) Tail(n int) []models.Candle {
	if n >= len(s.candles) {
		return s.candles
	}
	return s.candles[len(s.candles)-n:]
}

// Returns computes simple period returns close[t]/close[t-1] - 1.
// Needs at least two candles.
func (s *Store) Returns() ([]float64, error) {
	if len(s.candles) < 2 {
		return nil, models.ErrShortSeries("series.Returns", 2, len(s.candles))
	}
	rets := make([]float64, 0, len(s.candles)-1)
	for i := 1; i < len(s.candles); i++ {
		prev := s.candles[i-1].Close
		if prev == 0 {
			return nil, models.ErrDegenerate("series.Returns", "zero close price")
		}
		rets = append(rets, s.candles[i].Close/prev-1)
	}
	return rets, nil
}

// AlignTails truncates two float series to equal length by dropping the
// older head of the longer one, so both end at the same point.
func AlignTails(a, b []float64) ([]float64, []float64) {
	if len(a) > len(b) {
		a = a[len(a)-len(b):]
	} else if len(b) > len(a) {
		b = b[len(b)-len(a):]
	}
	return a, b
}
