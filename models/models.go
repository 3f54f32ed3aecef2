package models

import (
	"time"
)

// Candle represents a single OHLCV price candle
type Candle struct {
	Timestamp time.Time `json:"timestamp"`
	Open      float64   `json:"open"`
	High      float64   `json:"high"`
	Low       float64   `json:"low"`
	Close     float64   `json:"close"`
	Volume    float64   `json:"volume,omitempty"`
}

// TypicalPrice returns (high+low+close)/3, used by VWAP
func (c Candle) TypicalPrice() float64 {
	return (c.High + c.Low + c.Close) / 3.0
}

// Direction of a trading signal
type Direction string

const (
	DirectionBullish Direction = "BULLISH"
	DirectionBearish Direction = "BEARISH"
	DirectionNeutral Direction = "NEUTRAL"
)

// Strength grades how decisive a signal is
type Strength string

const (
	StrengthWeak   Strength = "WEAK"
	StrengthMedium Strength = "MEDIUM"
	StrengthStrong Strength = "STRONG"
)

// Rating is the discrete trade call produced by the aggregator
type Rating string

const (
	RatingStrongBuy  Rating = "STRONG_BUY"
	RatingBuy        Rating = "BUY"
	RatingNeutral    Rating = "NEUTRAL"
	RatingSell       Rating = "SELL"
	RatingStrongSell Rating = "STRONG_SELL"
)

// SignalCategory groups signal types for aggregation weighting
type SignalCategory string

const (
	CategoryRSI       SignalCategory = "RSI"
	CategoryMACD      SignalCategory = "MACD"
	CategoryBollinger SignalCategory = "BOLLINGER"
	CategoryVolume    SignalCategory = "VOLUME"
	CategoryTrend     SignalCategory = "TREND"
	CategoryPattern   SignalCategory = "PATTERN"
)

// SignalType identifies the concrete transition that fired
type SignalType string

const (
	SignalRSIOversold             SignalType = "RSI_OVERSOLD"
	SignalRSIOverbought           SignalType = "RSI_OVERBOUGHT"
	SignalGoldenCross             SignalType = "MA_GOLDEN_CROSS"
	SignalDeathCross              SignalType = "MA_DEATH_CROSS"
	SignalMACDBullishFlip         SignalType = "MACD_BULLISH_FLIP"
	SignalMACDBearishFlip         SignalType = "MACD_BEARISH_FLIP"
	SignalBollingerBreakLower     SignalType = "BB_BREAK_LOWER"
	SignalBollingerBreakUpper     SignalType = "BB_BREAK_UPPER"
	SignalStochasticTurnUp        SignalType = "STOCH_TURN_UP"
	SignalStochasticTurnDown      SignalType = "STOCH_TURN_DOWN"
	SignalNearSupport             SignalType = "NEAR_SUPPORT"
	SignalNearResistance          SignalType = "NEAR_RESISTANCE"
	SignalVolumeSpike             SignalType = "VOLUME_SPIKE"
	SignalVolumeDivergence        SignalType = "VOLUME_DIVERGENCE"
	SignalDoubleTop               SignalType = "DOUBLE_TOP"
	SignalDoubleBottom            SignalType = "DOUBLE_BOTTOM"
	SignalTriangleBreakout        SignalType = "TRIANGLE_BREAKOUT"
	SignalHeadAndShoulders        SignalType = "HEAD_AND_SHOULDERS"
	SignalInverseHeadAndShoulders SignalType = "INV_HEAD_AND_SHOULDERS"
)

// Signal is a discrete, edge-triggered trading signal. It is emitted only
// when an indicator transitions into a new state, never on steady-state
// level alone.
type Signal struct {
	ID         string     `json:"id"`
	Type       SignalType `json:"type"`
	Category   SignalCategory
	Direction  Direction `json:"direction"`
	Strength   Strength  `json:"strength"`
	Confidence float64   `json:"confidence"` // 0-100
	Symbol     string    `json:"symbol"`
	Timeframe  string    `json:"timeframe"`
	Timestamp  time.Time `json:"timestamp"`
	Value      float64   `json:"value,omitempty"` // indicator value at the transition
}

// SignalContribution is one component of the aggregated score
type SignalContribution struct {
	Type         SignalType `json:"type"`
	Rating       Rating     `json:"rating"`
	Scalar       float64    `json:"scalar"`
	Weight       float64    `json:"weight"`
	Contribution float64    `json:"contribution"`
}

// AggregatedSignal is the weighted consensus over all current signals
type AggregatedSignal struct {
	OverallDirection Rating               `json:"overall_direction"`
	Score            float64              `json:"score"`      // [-1, 1]
	Confidence       float64              `json:"confidence"` // [50, 100]
	Breakdown        []SignalContribution `json:"breakdown"`
}

// IndicatorResult holds a computed indicator series aligned to the tail of
// the input candles, plus the most recent value.
type IndicatorResult struct {
	Name    string             `json:"name"`
	Values  []float64          `json:"values"`
	Current float64            `json:"current"`
	Params  map[string]float64 `json:"params,omitempty"`
}

// RatioState marks whether a risk-adjusted ratio is defined for its inputs
type RatioState string

const (
	RatioDefined   RatioState = "DEFINED"
	RatioUndefined RatioState = "UNDEFINED" // zero denominator, no meaningful value
	RatioUnbounded RatioState = "UNBOUNDED" // positive excess over an empty downside set
)

// RatioValue keeps ratio results total: instead of NaN/Inf it carries an
// explicit state alongside the value.
type RatioValue struct {
	State RatioState `json:"state"`
	Value float64    `json:"value,omitempty"`
}

// Defined builds a defined ratio value
func Defined(v float64) RatioValue { return RatioValue{State: RatioDefined, Value: v} }

// IsDefined reports whether the ratio carries a usable value
func (r RatioValue) IsDefined() bool { return r.State == RatioDefined }

// BenchmarkStats is the benchmark-relative block of a risk report
type BenchmarkStats struct {
	Beta             float64    `json:"beta"`
	Alpha            float64    `json:"alpha"`
	TrackingError    float64    `json:"tracking_error"`
	InformationRatio RatioValue `json:"information_ratio"`
	Treynor          RatioValue `json:"treynor"`
	Correlation      float64    `json:"correlation"`
	UpCapture        RatioValue `json:"up_capture"`
	DownCapture      RatioValue `json:"down_capture"`
}

// RiskReport holds portfolio-level risk and performance statistics
type RiskReport struct {
	TotalReturn      float64         `json:"total_return"`
	AnnualizedReturn float64         `json:"annualized_return"`
	Volatility       float64         `json:"volatility"`
	Sharpe           RatioValue      `json:"sharpe"`
	Sortino          RatioValue      `json:"sortino"`
	Calmar           RatioValue      `json:"calmar"`
	MaxDrawdown      float64         `json:"max_drawdown"`
	PeakIndex        int             `json:"peak_index"`
	TroughIndex      int             `json:"trough_index"`
	VaRConfidence    float64         `json:"var_confidence"`
	VaR              float64         `json:"var"`
	CVaR             float64         `json:"cvar"`
	Skewness         float64         `json:"skewness"`
	Kurtosis         float64         `json:"kurtosis"` // excess
	Benchmark        *BenchmarkStats `json:"benchmark,omitempty"`
}

// Holding is a portfolio position used for performance attribution
type Holding struct {
	Symbol       string  `json:"symbol"`
	Weight       float64 `json:"weight"`
	PeriodReturn float64 `json:"period_return"`
	Sector       string  `json:"sector,omitempty"`
	AssetClass   string  `json:"asset_class,omitempty"`
	Geography    string  `json:"geography,omitempty"`
}

// Portfolio is the optimizer input: an ordered symbol universe with
// expected returns and a symmetric covariance matrix aligned to Symbols.
type Portfolio struct {
	Symbols         []string           `json:"symbols"`
	Weights         map[string]float64 `json:"weights"`
	ExpectedReturns map[string]float64 `json:"expected_returns"`
	Covariance      [][]float64        `json:"covariance"`
}

// PairSignal is the discrete arbitrage call for a pair
type PairSignal string

const (
	PairLong    PairSignal = "LONG"
	PairShort   PairSignal = "SHORT"
	PairNeutral PairSignal = "NEUTRAL"
)

// ArbitragePair is the result of a pairwise statistical-arbitrage scan
type ArbitragePair struct {
	AssetA            string     `json:"asset_a"`
	AssetB            string     `json:"asset_b"`
	CurrentRatio      float64    `json:"current_ratio"`
	MeanRatio         float64    `json:"mean_ratio"`
	StdDevRatio       float64    `json:"stddev_ratio"`
	ZScore            float64    `json:"zscore"`
	Correlation       float64    `json:"correlation"`
	CointegrationScore float64   `json:"cointegration_score"`
	Signal            PairSignal `json:"signal"`
	ExpectedProfit    float64    `json:"expected_profit,omitempty"`
	TargetMove        float64    `json:"target_move,omitempty"`
	StopLoss          float64    `json:"stop_loss,omitempty"`
	HorizonDays       int        `json:"horizon_days,omitempty"`
}

// MacroRegime is a growth x inflation quadrant
type MacroRegime string

const (
	RegimeGoldilocks  MacroRegime = "GROWTH_RISING_INFLATION_FALLING"
	RegimeReflation   MacroRegime = "GROWTH_RISING_INFLATION_RISING"
	RegimeStagflation MacroRegime = "GROWTH_FALLING_INFLATION_RISING"
	RegimeDeflation   MacroRegime = "GROWTH_FALLING_INFLATION_FALLING"
)

// MacroSnapshot is what the market-data provider reports about the macro
// environment; Available is false when the fetch failed or timed out.
type MacroSnapshot struct {
	Regime         MacroRegime `json:"regime"`
	YieldCurve10Y2Y float64    `json:"yield_curve_10y2y"`
	Available      bool        `json:"available"`
	FetchedAt      time.Time   `json:"fetched_at"`
}

// SourceStatus records whether one data source contributed to a report
type SourceStatus struct {
	OK    bool   `json:"ok"`
	Error string `json:"error,omitempty"`
}

// DataQuality names which sub-analyses succeeded, keyed by source
type DataQuality map[string]SourceStatus

// SymbolAnalysis is the per-symbol portion of a report
type SymbolAnalysis struct {
	Symbol     string            `json:"symbol"`
	Timeframe  string            `json:"timeframe"`
	Indicators []IndicatorResult `json:"indicators"`
	Signals    []Signal          `json:"signals"`
	Aggregate  *AggregatedSignal `json:"aggregate,omitempty"`
}

// AnalysisReport is the full structured output of one analysis pass
type AnalysisReport struct {
	ID          string             `json:"id"`
	GeneratedAt time.Time          `json:"generated_at"`
	Symbols     []SymbolAnalysis   `json:"symbols"`
	Risk        *RiskReport        `json:"risk,omitempty"`
	Pairs       []ArbitragePair    `json:"pairs,omitempty"`
	Weights     map[string]float64 `json:"weights,omitempty"`
	Macro       *MacroSnapshot     `json:"macro,omitempty"`
	Commentary  string             `json:"commentary,omitempty"`
	DataQuality DataQuality        `json:"data_quality"`
}
