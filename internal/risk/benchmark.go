package risk

import (
	"math"

	"github.com/alphapulse/alphapulse/internal/series"
	"github.com/alphapulse/alphapulse/models"
)

// Benchmark computes the benchmark-relative block over tail-aligned
// return series. A benchmark with zero variance cannot define beta and is
// rejected as degenerate input.
func Benchmark(portfolio, benchmark []float64, p Params) (*models.BenchmarkStats, error) {
	portfolio, benchmark = series.AlignTails(portfolio, benchmark)
	if len(portfolio) < 2 {
		return nil, models.ErrShortSeries("risk.Benchmark", 2, len(portfolio))
	}
	if p.PeriodsPerYear <= 0 {
		p.PeriodsPerYear = 252
	}

	benchVar := popVariance(benchmark)
	if benchVar == 0 {
		return nil, models.ErrDegenerate("risk.Benchmark", "zero benchmark variance")
	}

	beta := popCovariance(portfolio, benchmark) / benchVar

	annPort := annualize(totalReturn(portfolio), len(portfolio), p.PeriodsPerYear)
	annBench := annualize(totalReturn(benchmark), len(benchmark), p.PeriodsPerYear)
	alpha := annPort - (p.RiskFreeRate + beta*(annBench-p.RiskFreeRate))

	diffs := make([]float64, len(portfolio))
	for i := range portfolio {
		diffs[i] = portfolio[i] - benchmark[i]
	}
	trackingError := sampleStdDev(diffs) * math.Sqrt(p.PeriodsPerYear)

	infoRatio := models.RatioValue{State: models.RatioUndefined}
	if trackingError != 0 {
		infoRatio = models.Defined(alpha / trackingError)
	}

	treynor := models.RatioValue{State: models.RatioUndefined}
	if beta != 0 {
		treynor = models.Defined((annPort - p.RiskFreeRate) / beta)
	}

	return &models.BenchmarkStats{
		Beta:             beta,
		Alpha:            alpha,
		TrackingError:    trackingError,
		InformationRatio: infoRatio,
		Treynor:          treynor,
		Correlation:      pearson(portfolio, benchmark),
		UpCapture:        capture(portfolio, benchmark, true),
		DownCapture:      capture(portfolio, benchmark, false),
	}, nil
}

// capture is the ratio of the mean portfolio return to the mean benchmark
// return over the periods where the benchmark was positive (up) or
// negative (down). Undefined when no such period exists or the benchmark
// mean over them is zero.
func capture(portfolio, benchmark []float64, up bool) models.RatioValue {
	var port, bench []float64
	for i, b := range benchmark {
		if (up && b > 0) || (!up && b < 0) {
			port = append(port, portfolio[i])
			bench = append(bench, b)
		}
	}
	if len(bench) == 0 {
		return models.RatioValue{State: models.RatioUndefined}
	}
	mb := mean(bench)
	if mb == 0 {
		return models.RatioValue{State: models.RatioUndefined}
	}
	return models.Defined(mean(port) / mb)
}
