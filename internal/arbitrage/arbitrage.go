package arbitrage

import (
	"fmt"
	"math"
	"sort"

	"github.com/alphapulse/alphapulse/internal/series"
	"github.com/alphapulse/alphapulse/models"
)

// Config holds the gate thresholds and trade-plan factors.
type Config struct {
	MinSamples       int     `yaml:"min_samples"`
	ZScoreThreshold  float64 `yaml:"zscore_threshold"`
	CorrelationMin   float64 `yaml:"correlation_min"`
	CointegrationMin float64 `yaml:"cointegration_min"`
	TargetFactor     float64 `yaml:"target_factor"` // target move = factor * |z| * stddev
	StopFactor       float64 `yaml:"stop_factor"`   // stop distance = factor * stddev
}

// DefaultConfig returns the standard pair-trade gates.
func DefaultConfig() Config {
	return Config{
		MinSamples:       20,
		ZScoreThreshold:  2.0,
		CorrelationMin:   0.7,
		CointegrationMin: 0.6,
		TargetFactor:     0.8,
		StopFactor:       1.5,
	}
}

// Detect evaluates one pair. Both series are tail-truncated to equal
// length; the ratio a/b is standardized against its own mean and
// population stddev. A constant ratio has zero stddev: the z-score is
// defined as 0 and the signal stays NEUTRAL (suppressed, not emitted).
//
// The cointegration score is a heuristic, not a statistical test: the
// fraction of consecutive steps where the demeaned ratio magnitude
// shrinks. It stands in for a stationarity test and is kept as such.
func Detect(a, b *series.Store, cfg Config) (models.ArbitragePair, error) {
	pair := models.ArbitragePair{
		AssetA: a.Symbol(),
		AssetB: b.Symbol(),
		Signal: models.PairNeutral,
	}

	closesA, closesB := series.AlignTails(a.Closes(), b.Closes())
	if len(closesA) < cfg.MinSamples {
		return pair, models.ErrShortSeries("arbitrage.Detect", cfg.MinSamples, len(closesA))
	}

	ratio := make([]float64, len(closesA))
	for i := range closesA {
		if closesB[i] == 0 {
			return pair, models.ErrDegenerate("arbitrage.Detect", "zero price in "+b.Symbol())
		}
		ratio[i] = closesA[i] / closesB[i]
	}

	m := mean(ratio)
	sd := popStdDev(ratio, m)

	pair.CurrentRatio = ratio[len(ratio)-1]
	pair.MeanRatio = m
	pair.StdDevRatio = sd
	pair.Correlation = pearson(closesA, closesB)
	pair.CointegrationScore = cointegrationScore(ratio, m)

	if sd == 0 {
		// Constant ratio: z-score defined as 0, nothing to trade.
		return pair, nil
	}
	pair.ZScore = (pair.CurrentRatio - m) / sd

	if math.Abs(pair.ZScore) >= cfg.ZScoreThreshold &&
		pair.Correlation > cfg.CorrelationMin &&
		pair.CointegrationScore > cfg.CointegrationMin {
		if pair.ZScore < 0 {
			pair.Signal = models.PairLong
		} else {
			pair.Signal = models.PairShort
		}
		fillTradePlan(&pair, cfg)
	}

	return pair, nil
}

// fillTradePlan derives the deterministic trade parameters from the
// z-score and ratio stddev: the target move reverts a fixed fraction of
// the standardized displacement, the stop sits a fixed multiple of the
// stddev beyond entry, and the horizon shortens as the displacement grows.
func fillTradePlan(pair *models.ArbitragePair, cfg Config) {
	absZ := math.Abs(pair.ZScore)
	pair.TargetMove = cfg.TargetFactor * absZ * pair.StdDevRatio
	pair.StopLoss = cfg.StopFactor * pair.StdDevRatio
	if pair.MeanRatio != 0 {
		pair.ExpectedProfit = pair.TargetMove / pair.MeanRatio
	}

	switch {
	case absZ >= 3:
		pair.HorizonDays = 5
	case absZ >= 2.5:
		pair.HorizonDays = 10
	default:
		pair.HorizonDays = 20
	}
}

// Scan evaluates every unordered pair from stores in deterministic
// (sorted-symbol) order. A failing pair contributes to the error map
// without aborting the rest of the batch.
func Scan(stores []*series.Store, cfg Config) ([]models.ArbitragePair, map[string]error) {
	ordered := make([]*series.Store, len(stores))
	copy(ordered, stores)
	sort.Slice(ordered, func(i, j int) bool { return ordered[i].Symbol() < ordered[j].Symbol() })

	var pairs []models.ArbitragePair
	failures := make(map[string]error)

	for i := 0; i < len(ordered); i++ {
		for j := i + 1; j < len(ordered); j++ {
			pair, err := Detect(ordered[i], ordered[j], cfg)
			if err != nil {
				key := fmt.Sprintf("%s/%s", ordered[i].Symbol(), ordered[j].Symbol())
				failures[key] = err
				continue
			}
			pairs = append(pairs, pair)
		}
	}
	return pairs, failures
}

// cointegrationScore is the fraction of consecutive residual-magnitude
// decreases in the demeaned ratio series.
func cointegrationScore(ratio []float64, mean float64) float64 {
	if len(ratio) < 2 {
		return 0
	}
	decreases := 0
	for i := 1; i < len(ratio); i++ {
		if math.Abs(ratio[i]-mean) < math.Abs(ratio[i-1]-mean) {
			decreases++
		}
	}
	return float64(decreases) / float64(len(ratio)-1)
}

func mean(values []float64) float64 {
	if len(values) == 0 {
		return 0
	}
	var sum float64
	for _, v := range values {
		sum += v
	}
	return sum / float64(len(values))
}

func popStdDev(values []float64, mean float64) float64 {
	if len(values) == 0 {
		return 0
	}
	var sum float64
	for _, v := range values {
		sum += (v - mean) * (v - mean)
	}
	return math.Sqrt(sum / float64(len(values)))
}

func pearson(a, b []float64) float64 {
	if len(a) != len(b) || len(a) == 0 {
		return 0
	}
	ma, mb := mean(a), mean(b)
	var cov, va, vb float64
	for i := range a {
		da, db := a[i]-ma, b[i]-mb
		cov += da * db
		va += da * da
		vb += db * db
	}
	if va == 0 || vb == 0 {
		return 0
	}
	return cov / math.Sqrt(va*vb)
}
