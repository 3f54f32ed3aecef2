package signals

import (
	"os"

	"gopkg.in/yaml.v3"

	"github.com/alphapulse/alphapulse/models"
)

// Spec fixes the direction, strength and confidence emitted for one
// signal type. These are configuration, not code: defaults below can be
// overridden from YAML.
type Spec struct {
	Category   models.SignalCategory `yaml:"category"`
	Direction  models.Direction      `yaml:"direction"`
	Strength   models.Strength       `yaml:"strength"`
	Confidence float64               `yaml:"confidence"`
}

// Config holds detector thresholds and the aggregation tables.
type Config struct {
	// Detector thresholds.
	RSIPeriod       int     `yaml:"rsi_period"`
	RSIOversold     float64 `yaml:"rsi_oversold"`
	RSIOverbought   float64 `yaml:"rsi_overbought"`
	FastMAPeriod    int     `yaml:"fast_ma_period"`
	SlowMAPeriod    int     `yaml:"slow_ma_period"`
	MACDFast        int     `yaml:"macd_fast"`
	MACDSlow        int     `yaml:"macd_slow"`
	MACDSignal      int     `yaml:"macd_signal"`
	BBPeriod        int     `yaml:"bb_period"`
	BBStdDev        float64 `yaml:"bb_std_dev"`
	StochKPeriod    int     `yaml:"stoch_k_period"`
	StochDPeriod    int     `yaml:"stoch_d_period"`
	ATRPeriod       int     `yaml:"atr_period"`
	ADXPeriod       int     `yaml:"adx_period"`
	StochOversold   float64 `yaml:"stoch_oversold"`
	StochOverbought float64 `yaml:"stoch_overbought"`
	LevelProximity  float64 `yaml:"level_proximity"`   // fraction of price, e.g. 0.02
	VolumeLookback  int     `yaml:"volume_lookback"`   // trailing window for the spike baseline
	VolumeSpikeMin  float64 `yaml:"volume_spike_min"`  // spike threshold as multiple of the baseline
	PatternTolerance float64 `yaml:"pattern_tolerance"` // peak/trough equality tolerance

	// Aggregation tables.
	Scores          map[models.Rating]float64         `yaml:"scores"`
	CategoryWeights map[models.SignalCategory]float64 `yaml:"category_weights"`
	Specs           map[models.SignalType]Spec        `yaml:"specs"`
}

// DefaultConfig returns the built-in tables.
func DefaultConfig() Config {
	return Config{
		RSIPeriod:        14,
		RSIOversold:      30,
		RSIOverbought:    70,
		FastMAPeriod:     10,
		SlowMAPeriod:     20,
		MACDFast:         12,
		MACDSlow:         26,
		MACDSignal:       9,
		BBPeriod:         20,
		BBStdDev:         2.0,
		StochKPeriod:     14,
		StochDPeriod:     3,
		ATRPeriod:        14,
		ADXPeriod:        14,
		StochOversold:    20,
		StochOverbought:  80,
		LevelProximity:   0.02,
		VolumeLookback:   20,
		VolumeSpikeMin:   2.0,
		PatternTolerance: 0.005,
		Scores: map[models.Rating]float64{
			models.RatingStrongBuy:  1.0,
			models.RatingBuy:        0.6,
			models.RatingNeutral:    0.0,
			models.RatingSell:       -0.6,
			models.RatingStrongSell: -1.0,
		},
		CategoryWeights: map[models.SignalCategory]float64{
			models.CategoryRSI:       0.20,
			models.CategoryMACD:      0.25,
			models.CategoryBollinger: 0.20,
			models.CategoryVolume:    0.15,
			models.CategoryTrend:     0.20,
			models.CategoryPattern:   0.20,
		},
		Specs: map[models.SignalType]Spec{
			models.SignalRSIOversold:         {models.CategoryRSI, models.DirectionBullish, models.StrengthMedium, 70},
			models.SignalRSIOverbought:       {models.CategoryRSI, models.DirectionBearish, models.StrengthMedium, 70},
			models.SignalGoldenCross:         {models.CategoryTrend, models.DirectionBullish, models.StrengthStrong, 80},
			models.SignalDeathCross:          {models.CategoryTrend, models.DirectionBearish, models.StrengthStrong, 80},
			models.SignalMACDBullishFlip:     {models.CategoryMACD, models.DirectionBullish, models.StrengthMedium, 75},
			models.SignalMACDBearishFlip:     {models.CategoryMACD, models.DirectionBearish, models.StrengthMedium, 75},
			models.SignalBollingerBreakLower: {models.CategoryBollinger, models.DirectionBullish, models.StrengthMedium, 65},
			models.SignalBollingerBreakUpper: {models.CategoryBollinger, models.DirectionBearish, models.StrengthMedium, 65},
			models.SignalStochasticTurnUp:    {models.CategoryRSI, models.DirectionBullish, models.StrengthWeak, 60},
			models.SignalStochasticTurnDown:  {models.CategoryRSI, models.DirectionBearish, models.StrengthWeak, 60},
			models.SignalNearSupport:         {models.CategoryTrend, models.DirectionBullish, models.StrengthWeak, 60},
			models.SignalNearResistance:      {models.CategoryTrend, models.DirectionBearish, models.StrengthWeak, 60},
			models.SignalVolumeSpike:         {models.CategoryVolume, models.DirectionNeutral, models.StrengthMedium, 65},
			models.SignalVolumeDivergence:    {models.CategoryVolume, models.DirectionBearish, models.StrengthStrong, 85},
			models.SignalDoubleTop:           {models.CategoryPattern, models.DirectionBearish, models.StrengthStrong, 80},
			models.SignalDoubleBottom:        {models.CategoryPattern, models.DirectionBullish, models.StrengthStrong, 80},
			// Triangle direction follows the breakout side at emit time.
			models.SignalTriangleBreakout:        {models.CategoryPattern, models.DirectionNeutral, models.StrengthMedium, 70},
			models.SignalHeadAndShoulders:        {models.CategoryPattern, models.DirectionBearish, models.StrengthStrong, 80},
			models.SignalInverseHeadAndShoulders: {models.CategoryPattern, models.DirectionBullish, models.StrengthStrong, 80},
		},
	}
}

// LoadConfig reads a YAML override file on top of the defaults. Only keys
// present in the file replace defaults; absent tables keep the built-ins.
func LoadConfig(path string) (Config, error) {
	cfg := DefaultConfig()
	data, err := os.ReadFile(path)
	if err != nil {
		return cfg, err
	}
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return DefaultConfig(), err
	}
	return cfg, nil
}
