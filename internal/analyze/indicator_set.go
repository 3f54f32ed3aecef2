package analyze

import (
	"github.com/alphapulse/alphapulse/internal/indicators"
	"github.com/alphapulse/alphapulse/internal/series"
	"github.com/alphapulse/alphapulse/internal/signals"
	"github.com/alphapulse/alphapulse/models"
)

// IndicatorSet computes every reportable indicator that has enough data,
// using the detector's configured periods. Indicators without enough
// data are simply absent; nothing partial or garbage goes in a report.
func IndicatorSet(st *series.Store, cfg signals.Config) []models.IndicatorResult {
	var out []models.IndicatorResult
	closes := st.Closes()
	candles := st.Candles()

	if sma, err := indicators.SMA(closes, cfg.SlowMAPeriod); err == nil {
		out = append(out, sma)
	}
	if ema, err := indicators.EMA(closes, cfg.FastMAPeriod); err == nil {
		out = append(out, ema)
	}
	if rsi, err := indicators.RSI(closes, cfg.RSIPeriod); err == nil {
		out = append(out, rsi)
	}
	if macd, err := indicators.MACD(closes, cfg.MACDFast, cfg.MACDSlow, cfg.MACDSignal); err == nil {
		out = append(out,
			models.IndicatorResult{Name: "MACD", Values: macd.Line, Current: macd.Current},
			models.IndicatorResult{Name: "MACD_SIGNAL", Values: macd.Signal, Current: macd.CurrentSignal},
			models.IndicatorResult{Name: "MACD_HIST", Values: macd.Histogram, Current: macd.CurrentHistogram},
		)
	}
	if bb, err := indicators.BollingerBands(closes, cfg.BBPeriod, cfg.BBStdDev); err == nil {
		out = append(out,
			models.IndicatorResult{Name: "BB_UPPER", Values: bb.Upper, Current: bb.CurrentUpper()},
			models.IndicatorResult{Name: "BB_MIDDLE", Values: bb.Middle, Current: bb.CurrentMiddle()},
			models.IndicatorResult{Name: "BB_LOWER", Values: bb.Lower, Current: bb.CurrentLower()},
			models.IndicatorResult{Name: "BB_PERCENT_B", Values: bb.PercentB, Current: bb.PercentB[len(bb.PercentB)-1]},
		)
	}
	if atr, err := indicators.ATR(candles, cfg.ATRPeriod); err == nil {
		out = append(out, atr)
	}
	// Fast window is half the configured ATR period.
	if vr, err := indicators.VolatilityRatio(candles, cfg.ATRPeriod/2, cfg.ATRPeriod); err == nil {
		out = append(out, models.IndicatorResult{
			Name:    "VOL_RATIO",
			Current: vr,
			Params: map[string]float64{
				"fast": float64(cfg.ATRPeriod / 2),
				"slow": float64(cfg.ATRPeriod),
			},
		})
	}
	if stoch, err := indicators.Stochastic(candles, cfg.StochKPeriod, cfg.StochDPeriod); err == nil {
		out = append(out,
			models.IndicatorResult{Name: "STOCH_K", Values: stoch.K, Current: stoch.CurrentK()},
			models.IndicatorResult{Name: "STOCH_D", Values: stoch.D, Current: stoch.CurrentD()},
		)
	}
	if obv, err := indicators.OBV(candles); err == nil {
		out = append(out, obv)
	}
	if vwap, err := indicators.VWAP(candles); err == nil {
		out = append(out, vwap)
	}
	if adx, err := indicators.ADX(candles, cfg.ADXPeriod); err == nil {
		out = append(out, models.IndicatorResult{
			Name: "ADX", Values: adx.Values, Current: adx.Current,
			Params: map[string]float64{"plus_di": adx.PlusDI, "minus_di": adx.MinusDI},
		})
	}

	return out
}
