package signals

import (
	"time"

	"github.com/google/uuid"

	"github.com/alphapulse/alphapulse/internal/indicators"
	"github.com/alphapulse/alphapulse/models"
)

// Detector turns indicator transitions into discrete signals. It is a
// state machine: after every call it keeps the current sample so the next
// call can compare against it. Signals fire only on a transition into a
// state, never while the state merely persists, so a level that holds for
// fifty candles produces one signal, not fifty.
type Detector struct {
	cfg       Config
	symbol    string
	timeframe string

	primed bool // previous sample populated
	prev   sample
}

// sample is the per-call indicator snapshot compared across calls.
type sample struct {
	rsi        float64
	fastMA     float64
	slowMA     float64
	macdHist   float64
	percentB   float64
	stochK     float64
	stochD     float64
	nearSupport    bool
	nearResistance bool
	volumeSpike    bool
	divergence     models.Direction // NEUTRAL when none
	doubleTop      bool
	doubleBottom   bool
	triangleUp     bool
	triangleDown   bool
	hsTop          bool
	hsBottom       bool

	hasRSI   bool
	hasMA    bool
	hasMACD  bool
	hasBB    bool
	hasStoch bool
}

// NewDetector creates a detector for one symbol and timeframe.
func NewDetector(cfg Config, symbol, timeframe string) *Detector {
	return &Detector{cfg: cfg, symbol: symbol, timeframe: timeframe}
}

// Detect computes the current indicator snapshot over candles and emits
// at most one signal per transition since the previous call. The first
// call only primes the state and emits nothing.
func (d *Detector) Detect(candles []models.Candle, now time.Time) []models.Signal {
	cur := d.snapshot(candles)

	var out []models.Signal
	if d.primed {
		out = d.compare(cur, candles, now)
	}
	d.prev = cur
	d.primed = true
	return out
}

// snapshot evaluates every detector input that has enough data; the rest
// stay unavailable and their transitions are skipped this call.
func (d *Detector) snapshot(candles []models.Candle) sample {
	var s sample
	closes := make([]float64, len(candles))
	for i, c := range candles {
		closes[i] = c.Close
	}

	if rsi, err := indicators.RSI(closes, d.cfg.RSIPeriod); err == nil {
		s.rsi = rsi.Current
		s.hasRSI = true
	}
	fast, errF := indicators.SMA(closes, d.cfg.FastMAPeriod)
	slow, errS := indicators.SMA(closes, d.cfg.SlowMAPeriod)
	if errF == nil && errS == nil {
		s.fastMA = fast.Current
		s.slowMA = slow.Current
		s.hasMA = true
	}
	if macd, err := indicators.MACD(closes, d.cfg.MACDFast, d.cfg.MACDSlow, d.cfg.MACDSignal); err == nil {
		s.macdHist = macd.CurrentHistogram
		s.hasMACD = true
	}
	if bb, err := indicators.BollingerBands(closes, d.cfg.BBPeriod, d.cfg.BBStdDev); err == nil {
		s.percentB = bb.PercentB[len(bb.PercentB)-1]
		s.hasBB = true
	}
	if st, err := indicators.Stochastic(candles, d.cfg.StochKPeriod, d.cfg.StochDPeriod); err == nil {
		s.stochK = st.CurrentK()
		s.stochD = st.CurrentD()
		s.hasStoch = true
	}

	if len(candles) > 0 {
		price := candles[len(candles)-1].Close
		support, resistance := SupportResistance(candles)
		s.nearSupport = nearLevel(price, support, d.cfg.LevelProximity)
		s.nearResistance = nearLevel(price, resistance, d.cfg.LevelProximity)
	}

	s.volumeSpike = d.volumeSpiking(candles)
	s.divergence = d.volumeDivergence(candles)
	s.doubleTop, s.doubleBottom = doublePattern(candles, d.cfg.PatternTolerance)
	s.triangleUp, s.triangleDown = trianglePattern(candles)
	s.hsTop, s.hsBottom = headAndShoulders(candles, d.cfg.PatternTolerance)

	return s
}

func (d *Detector) compare(cur sample, candles []models.Candle, now time.Time) []models.Signal {
	var out []models.Signal
	emit := func(t models.SignalType, direction models.Direction, value float64) {
		spec, ok := d.cfg.Specs[t]
		if !ok {
			return
		}
		if direction == "" {
			direction = spec.Direction
		}
		out = append(out, models.Signal{
			ID:         uuid.NewString(),
			Type:       t,
			Category:   spec.Category,
			Direction:  direction,
			Strength:   spec.Strength,
			Confidence: spec.Confidence,
			Symbol:     d.symbol,
			Timeframe:  d.timeframe,
			Timestamp:  now,
			Value:      value,
		})
	}

	prev := d.prev

	// RSI threshold crossings.
	if cur.hasRSI && prev.hasRSI {
		if prev.rsi >= d.cfg.RSIOversold && cur.rsi < d.cfg.RSIOversold {
			emit(models.SignalRSIOversold, "", cur.rsi)
		}
		if prev.rsi <= d.cfg.RSIOverbought && cur.rsi > d.cfg.RSIOverbought {
			emit(models.SignalRSIOverbought, "", cur.rsi)
		}
	}

	// Moving-average golden/death cross.
	if cur.hasMA && prev.hasMA {
		if prev.fastMA <= prev.slowMA && cur.fastMA > cur.slowMA {
			emit(models.SignalGoldenCross, "", cur.fastMA)
		}
		if prev.fastMA >= prev.slowMA && cur.fastMA < cur.slowMA {
			emit(models.SignalDeathCross, "", cur.fastMA)
		}
	}

	// MACD histogram sign flip.
	if cur.hasMACD && prev.hasMACD {
		if prev.macdHist <= 0 && cur.macdHist > 0 {
			emit(models.SignalMACDBullishFlip, "", cur.macdHist)
		}
		if prev.macdHist >= 0 && cur.macdHist < 0 {
			emit(models.SignalMACDBearishFlip, "", cur.macdHist)
		}
	}

	// Price breaking out of the Bollinger envelope.
	if cur.hasBB && prev.hasBB {
		if prev.percentB >= 0 && cur.percentB < 0 {
			emit(models.SignalBollingerBreakLower, "", cur.percentB)
		}
		if prev.percentB <= 1 && cur.percentB > 1 {
			emit(models.SignalBollingerBreakUpper, "", cur.percentB)
		}
	}

	// Stochastic turning inside the extreme zones.
	if cur.hasStoch && prev.hasStoch {
		if cur.stochK < d.cfg.StochOversold && cur.stochK > cur.stochD && prev.stochK <= prev.stochD {
			emit(models.SignalStochasticTurnUp, "", cur.stochK)
		}
		if cur.stochK > d.cfg.StochOverbought && cur.stochK < cur.stochD && prev.stochK >= prev.stochD {
			emit(models.SignalStochasticTurnDown, "", cur.stochK)
		}
	}

	price := 0.0
	if len(candles) > 0 {
		price = candles[len(candles)-1].Close
	}

	// Entering a support/resistance zone.
	if cur.nearSupport && !prev.nearSupport {
		emit(models.SignalNearSupport, "", price)
	}
	if cur.nearResistance && !prev.nearResistance {
		emit(models.SignalNearResistance, "", price)
	}

	// Volume spike; direction follows the spiking candle.
	if cur.volumeSpike && !prev.volumeSpike {
		dir := models.DirectionNeutral
		if last := candles[len(candles)-1]; last.Close > last.Open {
			dir = models.DirectionBullish
		} else if last.Close < last.Open {
			dir = models.DirectionBearish
		}
		emit(models.SignalVolumeSpike, dir, candles[len(candles)-1].Volume)
	}

	// Price/volume divergence.
	if cur.divergence != models.DirectionNeutral && cur.divergence != prev.divergence {
		emit(models.SignalVolumeDivergence, cur.divergence, price)
	}

	// Chart patterns complete once; re-detection of the same standing
	// pattern stays silent.
	if cur.doubleTop && !prev.doubleTop {
		emit(models.SignalDoubleTop, "", price)
	}
	if cur.doubleBottom && !prev.doubleBottom {
		emit(models.SignalDoubleBottom, "", price)
	}
	if cur.triangleUp && !prev.triangleUp {
		emit(models.SignalTriangleBreakout, models.DirectionBullish, price)
	}
	if cur.triangleDown && !prev.triangleDown {
		emit(models.SignalTriangleBreakout, models.DirectionBearish, price)
	}
	if cur.hsTop && !prev.hsTop {
		emit(models.SignalHeadAndShoulders, "", price)
	}
	if cur.hsBottom && !prev.hsBottom {
		emit(models.SignalInverseHeadAndShoulders, "", price)
	}

	return out
}

// volumeSpiking reports whether the latest volume is at least
// VolumeSpikeMin times the trailing average (excluding the latest candle).
func (d *Detector) volumeSpiking(candles []models.Candle) bool {
	n := len(candles)
	if n < d.cfg.VolumeLookback+1 {
		return false
	}
	var sum float64
	for i := n - 1 - d.cfg.VolumeLookback; i < n-1; i++ {
		sum += candles[i].Volume
	}
	avg := sum / float64(d.cfg.VolumeLookback)
	if avg == 0 {
		return false
	}
	return candles[n-1].Volume >= d.cfg.VolumeSpikeMin*avg
}

// volumeDivergence compares the 5-candle price direction against the OBV
// direction over the same window. Price up with OBV down is bearish,
// price down with OBV up is bullish.
func (d *Detector) volumeDivergence(candles []models.Candle) models.Direction {
	const window = 5
	if len(candles) < window+1 {
		return models.DirectionNeutral
	}
	obv, err := indicators.OBV(candles)
	if err != nil {
		return models.DirectionNeutral
	}
	n := len(candles)
	priceDelta := candles[n-1].Close - candles[n-1-window].Close
	obvDelta := obv.Values[n-1] - obv.Values[n-1-window]

	switch {
	case priceDelta > 0 && obvDelta < 0:
		return models.DirectionBearish
	case priceDelta < 0 && obvDelta > 0:
		return models.DirectionBullish
	default:
		return models.DirectionNeutral
	}
}
