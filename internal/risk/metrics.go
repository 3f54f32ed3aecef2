package risk

import (
	"math"
	"sort"

	"github.com/alphapulse/alphapulse/models"
)

// Params controls annualization and sentinel thresholds for a report.
type Params struct {
	RiskFreeRate   float64 // annualized, e.g. 0.03
	SortinoTarget  float64 // annualized minimum acceptable return, default 0.02
	PeriodsPerYear float64 // 252 for daily data
	VaRConfidence  float64 // e.g. 0.95
}

// DefaultParams returns daily-data defaults.
func DefaultParams() Params {
	return Params{
		RiskFreeRate:   0.03,
		SortinoTarget:  0.02,
		PeriodsPerYear: 252,
		VaRConfidence:  0.95,
	}
}

// Report computes the full risk block for a return series.
func Report(returns []float64, p Params) (models.RiskReport, error) {
	if len(returns) < 2 {
		return models.RiskReport{}, models.ErrShortSeries("risk.Report", 2, len(returns))
	}
	if p.PeriodsPerYear <= 0 {
		p.PeriodsPerYear = 252
	}

	total := totalReturn(returns)
	annualized := annualize(total, len(returns), p.PeriodsPerYear)
	vol := sampleStdDev(returns) * math.Sqrt(p.PeriodsPerYear)

	dd, peak, trough := MaxDrawdown(equityCurve(returns))

	varLoss, err := VaR(returns, p.VaRConfidence)
	if err != nil {
		return models.RiskReport{}, err
	}
	cvarLoss := CVaR(returns, p.VaRConfidence)

	return models.RiskReport{
		TotalReturn:      total,
		AnnualizedReturn: annualized,
		Volatility:       vol,
		Sharpe:           Sharpe(returns, p.RiskFreeRate, p.PeriodsPerYear),
		Sortino:          Sortino(returns, p.SortinoTarget, p.PeriodsPerYear),
		Calmar:           Calmar(annualized, dd),
		MaxDrawdown:      dd,
		PeakIndex:        peak,
		TroughIndex:      trough,
		VaRConfidence:    p.VaRConfidence,
		VaR:              varLoss,
		CVaR:             cvarLoss,
		Skewness:         Skewness(returns),
		Kurtosis:         Kurtosis(returns),
	}, nil
}

// totalReturn compounds period returns.
func totalReturn(returns []float64) float64 {
	wealth := 1.0
	for _, r := range returns {
		wealth *= 1 + r
	}
	return wealth - 1
}

// annualize converts a total return over n periods to a yearly rate.
func annualize(total float64, n int, periodsPerYear float64) float64 {
	if n == 0 || total <= -1 {
		return total
	}
	return math.Pow(1+total, periodsPerYear/float64(n)) - 1
}

// equityCurve builds the wealth path starting at 1.
func equityCurve(returns []float64) []float64 {
	curve := make([]float64, len(returns)+1)
	curve[0] = 1
	for i, r := range returns {
		curve[i+1] = curve[i] * (1 + r)
	}
	return curve
}

// VaR is the historical value-at-risk at the given confidence: the loss
// at the floor((1-confidence)*n) quantile of the sorted return sample.
// The index is clamped to [0, n-1], so confidence=1.0 reads the worst
// observation instead of indexing past the array.
func VaR(returns []float64, confidence float64) (float64, error) {
	if len(returns) == 0 {
		return 0, models.ErrShortSeries("risk.VaR", 1, 0)
	}
	sorted := sortedCopy(returns)
	idx := varIndex(len(sorted), confidence)
	return -sorted[idx], nil
}

// CVaR is the mean of the sorted returns strictly below the VaR cutoff
// index; 0 when that tail set is empty.
func CVaR(returns []float64, confidence float64) float64 {
	if len(returns) == 0 {
		return 0
	}
	sorted := sortedCopy(returns)
	idx := varIndex(len(sorted), confidence)
	if idx == 0 {
		return 0
	}
	return -mean(sorted[:idx])
}

func varIndex(n int, confidence float64) int {
	idx := int(math.Floor((1 - confidence) * float64(n)))
	if idx < 0 {
		idx = 0
	}
	if idx > n-1 {
		idx = n - 1
	}
	return idx
}

func sortedCopy(values []float64) []float64 {
	out := make([]float64, len(values))
	copy(out, values)
	sort.Float64s(out)
	return out
}

// Sharpe is the annualized excess return over total volatility.
func Sharpe(returns []float64, riskFree, periodsPerYear float64) models.RatioValue {
	sd := sampleStdDev(returns)
	if sd == 0 {
		return models.RatioValue{State: models.RatioUndefined}
	}
	excess := mean(returns) - riskFree/periodsPerYear
	return models.Defined(excess / sd * math.Sqrt(periodsPerYear))
}

// Sortino uses only downside deviation against the per-period target.
// With no returns below target the ratio is unbounded when the mean
// excess is positive and zero otherwise; both are explicit states, never
// a literal infinity.
func Sortino(returns []float64, annualTarget, periodsPerYear float64) models.RatioValue {
	target := annualTarget / periodsPerYear
	var downside []float64
	for _, r := range returns {
		if r < target {
			downside = append(downside, r-target)
		}
	}
	excess := mean(returns) - target

	if len(downside) == 0 {
		if excess > 0 {
			return models.RatioValue{State: models.RatioUnbounded}
		}
		return models.Defined(0)
	}

	var sum float64
	for _, d := range downside {
		sum += d * d
	}
	dd := math.Sqrt(sum / float64(len(downside)))
	if dd == 0 {
		return models.RatioValue{State: models.RatioUndefined}
	}
	return models.Defined(excess / dd * math.Sqrt(periodsPerYear))
}

// Calmar is annualized return over max drawdown; undefined when the
// drawdown is zero.
func Calmar(annualizedReturn, maxDrawdown float64) models.RatioValue {
	if maxDrawdown == 0 {
		return models.RatioValue{State: models.RatioUndefined}
	}
	return models.Defined(annualizedReturn / maxDrawdown)
}

// MaxDrawdown walks the value series once, tracking the running peak, and
// returns the deepest (peak-value)/peak decline with the indices of the
// peak and the trough that realized it.
func MaxDrawdown(values []float64) (dd float64, peakIdx, troughIdx int) {
	if len(values) == 0 {
		return 0, 0, 0
	}
	peak := values[0]
	runningPeakIdx := 0
	for i, v := range values {
		if v > peak {
			peak = v
			runningPeakIdx = i
		}
		if peak > 0 {
			if d := (peak - v) / peak; d > dd {
				dd = d
				peakIdx = runningPeakIdx
				troughIdx = i
			}
		}
	}
	return dd, peakIdx, troughIdx
}

// Skewness is the standardized third moment; 0 when the stddev is zero.
func Skewness(returns []float64) float64 {
	sd := math.Sqrt(popVariance(returns))
	if sd == 0 {
		return 0
	}
	m := mean(returns)
	var sum float64
	for _, r := range returns {
		d := (r - m) / sd
		sum += d * d * d
	}
	return sum / float64(len(returns))
}

// Kurtosis is the excess standardized fourth moment; 0 when the stddev
// is zero.
func Kurtosis(returns []float64) float64 {
	sd := math.Sqrt(popVariance(returns))
	if sd == 0 {
		return 0
	}
	m := mean(returns)
	var sum float64
	for _, r := range returns {
		d := (r - m) / sd
		sum += d * d * d * d
	}
	return sum/float64(len(returns)) - 3
}
