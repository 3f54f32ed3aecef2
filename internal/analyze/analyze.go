package analyze

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/alphapulse/alphapulse/internal/api/marketdata"
	"github.com/alphapulse/alphapulse/internal/api/openai"
	"github.com/alphapulse/alphapulse/internal/arbitrage"
	"github.com/alphapulse/alphapulse/internal/portfolio"
	"github.com/alphapulse/alphapulse/internal/risk"
	"github.com/alphapulse/alphapulse/internal/series"
	"github.com/alphapulse/alphapulse/internal/signals"
	"github.com/alphapulse/alphapulse/models"
)

// Options configures an analysis pass.
type Options struct {
	Symbols          []string
	Timeframe        string
	CandleCount      int
	BenchmarkSymbol  string
	FetchTimeout     time.Duration
	CommentaryTokens int
	RiskParams       risk.Params
	SignalConfig     signals.Config
	ArbConfig        arbitrage.Config
	Bounds           portfolio.Bounds
	RegimeTables     portfolio.RegimeTables
}

// Analyzer runs the full pipeline: fetch, indicators, signals,
// aggregation, risk, pairs, optimization, commentary. The numeric core is
// synchronous and side-effect-free; only the collaborator fetches fan
// out. Detectors persist across runs so edge-triggered transitions
// compare against the previous pass.
type Analyzer struct {
	provider   marketdata.Provider
	summarizer openai.Summarizer // nil disables commentary
	opts       Options
	detectors  map[string]*signals.Detector
	logger     zerolog.Logger
}

// New creates an analyzer. summarizer may be nil.
func New(provider marketdata.Provider, summarizer openai.Summarizer, opts Options) *Analyzer {
	if opts.FetchTimeout == 0 {
		opts.FetchTimeout = 30 * time.Second
	}
	if opts.CommentaryTokens == 0 {
		opts.CommentaryTokens = 300
	}
	if opts.CandleCount == 0 {
		opts.CandleCount = 120
	}
	return &Analyzer{
		provider:   provider,
		summarizer: summarizer,
		opts:       opts,
		detectors:  make(map[string]*signals.Detector),
		logger:     log.With().Str("component", "analyzer").Logger(),
	}
}

// fetchResult captures one collaborator task's outcome; a failure
// degrades its portion of the report without touching siblings.
type fetchResult struct {
	candles []models.Candle
	macro   models.MacroSnapshot
	err     error
}

// Run executes one analysis pass. Collaborator fetches run as
// independent tasks with a per-task timeout and are merged in a fixed
// order: sorted symbols, then benchmark, then macro, then commentary.
func (a *Analyzer) Run(ctx context.Context) (*models.AnalysisReport, error) {
	report := &models.AnalysisReport{
		ID:          uuid.NewString(),
		GeneratedAt: time.Now(),
		DataQuality: make(models.DataQuality),
	}

	symbols := make([]string, len(a.opts.Symbols))
	copy(symbols, a.opts.Symbols)
	sort.Strings(symbols)

	symbolFetches := make(map[string]*fetchResult, len(symbols))
	var benchmarkFetch, macroFetch fetchResult

	var wg sync.WaitGroup
	for _, sym := range symbols {
		res := &fetchResult{}
		symbolFetches[sym] = res
		wg.Add(1)
		go func(sym string, res *fetchResult) {
			defer wg.Done()
			fetchCtx, cancel := context.WithTimeout(ctx, a.opts.FetchTimeout)
			defer cancel()
			res.candles, res.err = a.provider.GetCandles(fetchCtx, sym, a.opts.Timeframe, a.opts.CandleCount)
		}(sym, res)
	}
	if a.opts.BenchmarkSymbol != "" {
		wg.Add(1)
		go func() {
			defer wg.Done()
			fetchCtx, cancel := context.WithTimeout(ctx, a.opts.FetchTimeout)
			defer cancel()
			benchmarkFetch.candles, benchmarkFetch.err = a.provider.GetBenchmark(
				fetchCtx, a.opts.BenchmarkSymbol, a.opts.Timeframe, a.opts.CandleCount)
		}()
	}
	wg.Add(1)
	go func() {
		defer wg.Done()
		fetchCtx, cancel := context.WithTimeout(ctx, a.opts.FetchTimeout)
		defer cancel()
		macroFetch.macro, macroFetch.err = a.provider.GetMacroSnapshot(fetchCtx)
	}()
	wg.Wait()

	// Merge symbol data in sorted order.
	stores := make([]*series.Store, 0, len(symbols))
	now := time.Now()
	for _, sym := range symbols {
		res := symbolFetches[sym]
		if res.err != nil {
			a.logger.Warn().Err(res.err).Str("symbol", sym).Msg("Candle fetch failed")
			report.DataQuality["candles:"+sym] = models.SourceStatus{OK: false, Error: res.err.Error()}
			continue
		}
		st, err := series.FromCandles(sym, res.candles)
		if err != nil {
			report.DataQuality["candles:"+sym] = models.SourceStatus{OK: false, Error: err.Error()}
			continue
		}
		report.DataQuality["candles:"+sym] = models.SourceStatus{OK: true}
		stores = append(stores, st)

		report.Symbols = append(report.Symbols, a.analyzeSymbol(st, now))
	}

	a.mergeRisk(report, stores, benchmarkFetch)
	a.mergePairs(report, stores)
	a.mergeWeights(report, stores, macroFetch)
	a.mergeCommentary(ctx, report)

	return report, nil
}

// analyzeSymbol runs the synchronous core path for one symbol.
func (a *Analyzer) analyzeSymbol(st *series.Store, now time.Time) models.SymbolAnalysis {
	out := models.SymbolAnalysis{
		Symbol:     st.Symbol(),
		Timeframe:  a.opts.Timeframe,
		Indicators: IndicatorSet(st, a.opts.SignalConfig),
	}

	det, ok := a.detectors[st.Symbol()]
	if !ok {
		det = signals.NewDetector(a.opts.SignalConfig, st.Symbol(), a.opts.Timeframe)
		a.detectors[st.Symbol()] = det
	}
	out.Signals = det.Detect(st.Candles(), now)

	agg := signals.Aggregate(a.opts.SignalConfig, out.Signals)
	out.Aggregate = &agg
	return out
}

// mergeRisk builds an equal-weight portfolio return series over all
// fetched symbols and attaches the risk block, plus the benchmark block
// when the benchmark series arrived.
func (a *Analyzer) mergeRisk(report *models.AnalysisReport, stores []*series.Store, benchmarkFetch fetchResult) {
	portReturns, err := equalWeightReturns(stores)
	if err != nil {
		report.DataQuality["risk"] = models.SourceStatus{OK: false, Error: err.Error()}
		return
	}

	riskReport, err := risk.Report(portReturns, a.opts.RiskParams)
	if err != nil {
		report.DataQuality["risk"] = models.SourceStatus{OK: false, Error: err.Error()}
		return
	}
	report.DataQuality["risk"] = models.SourceStatus{OK: true}

	if a.opts.BenchmarkSymbol != "" {
		if benchmarkFetch.err != nil {
			report.DataQuality["benchmark"] = models.SourceStatus{OK: false, Error: benchmarkFetch.err.Error()}
		} else if bench, err := series.FromCandles(a.opts.BenchmarkSymbol, benchmarkFetch.candles); err != nil {
			report.DataQuality["benchmark"] = models.SourceStatus{OK: false, Error: err.Error()}
		} else if benchReturns, err := bench.Returns(); err != nil {
			report.DataQuality["benchmark"] = models.SourceStatus{OK: false, Error: err.Error()}
		} else if stats, err := risk.Benchmark(portReturns, benchReturns, a.opts.RiskParams); err != nil {
			report.DataQuality["benchmark"] = models.SourceStatus{OK: false, Error: err.Error()}
		} else {
			riskReport.Benchmark = stats
			report.DataQuality["benchmark"] = models.SourceStatus{OK: true}
		}
	}

	report.Risk = &riskReport
}

func (a *Analyzer) mergePairs(report *models.AnalysisReport, stores []*series.Store) {
	if len(stores) < 2 {
		return
	}
	pairs, failures := arbitrage.Scan(stores, a.opts.ArbConfig)
	report.Pairs = pairs
	report.DataQuality["pairs"] = models.SourceStatus{OK: true}
	for key, err := range failures {
		report.DataQuality["pair:"+key] = models.SourceStatus{OK: false, Error: err.Error()}
	}
}

// mergeWeights runs the mean-variance allocator over the fetched symbols
// and applies the regime adjustment when the macro snapshot arrived.
func (a *Analyzer) mergeWeights(report *models.AnalysisReport, stores []*series.Store, macroFetch fetchResult) {
	p, err := portfolioFromStores(stores)
	if err != nil {
		report.DataQuality["optimizer"] = models.SourceStatus{OK: false, Error: err.Error()}
		return
	}

	alloc, err := portfolio.MeanVariance(p, a.opts.Bounds)
	if err != nil {
		report.DataQuality["optimizer"] = models.SourceStatus{OK: false, Error: err.Error()}
		return
	}
	report.DataQuality["optimizer"] = models.SourceStatus{OK: true}
	report.Weights = alloc.Weights

	if macroFetch.err != nil {
		report.DataQuality["macro"] = models.SourceStatus{OK: false, Error: macroFetch.err.Error()}
		return
	}
	report.DataQuality["macro"] = models.SourceStatus{OK: true}
	macro := macroFetch.macro
	report.Macro = &macro

	adjusted, err := portfolio.AdjustForRegime(alloc.Weights, macro.Regime, a.opts.RegimeTables)
	if err != nil {
		report.DataQuality["regime_adjust"] = models.SourceStatus{OK: false, Error: err.Error()}
		return
	}
	report.Weights = adjusted
}

// mergeCommentary runs last: it reads the finished numbers and attaches
// text. Failure or absence of the summarizer changes nothing numeric.
func (a *Analyzer) mergeCommentary(ctx context.Context, report *models.AnalysisReport) {
	if a.summarizer == nil {
		return
	}
	fetchCtx, cancel := context.WithTimeout(ctx, a.opts.FetchTimeout)
	defer cancel()

	text, err := a.summarizer.Summarize(fetchCtx, openai.BuildReportPrompt(report), a.opts.CommentaryTokens)
	if err != nil {
		report.DataQuality["commentary"] = models.SourceStatus{OK: false, Error: err.Error()}
		return
	}
	report.DataQuality["commentary"] = models.SourceStatus{OK: true}
	report.Commentary = text
}

// equalWeightReturns averages the tail-aligned return series of all
// stores into one portfolio return series.
func equalWeightReturns(stores []*series.Store) ([]float64, error) {
	if len(stores) == 0 {
		return nil, models.ErrShortSeries("analyze.equalWeightReturns", 1, 0)
	}

	all := make([][]float64, 0, len(stores))
	minLen := -1
	for _, st := range stores {
		rets, err := st.Returns()
		if err != nil {
			return nil, err
		}
		all = append(all, rets)
		if minLen == -1 || len(rets) < minLen {
			minLen = len(rets)
		}
	}

	out := make([]float64, minLen)
	for _, rets := range all {
		tail := rets[len(rets)-minLen:]
		for i, r := range tail {
			out[i] += r / float64(len(all))
		}
	}
	return out, nil
}

// portfolioFromStores derives expected returns (mean period return) and
// a population covariance matrix from the stores' aligned return tails.
func portfolioFromStores(stores []*series.Store) (models.Portfolio, error) {
	if len(stores) == 0 {
		return models.Portfolio{}, models.ErrShortSeries("analyze.portfolioFromStores", 1, 0)
	}

	symbols := make([]string, 0, len(stores))
	returns := make([][]float64, 0, len(stores))
	minLen := -1
	for _, st := range stores {
		rets, err := st.Returns()
		if err != nil {
			return models.Portfolio{}, err
		}
		symbols = append(symbols, st.Symbol())
		returns = append(returns, rets)
		if minLen == -1 || len(rets) < minLen {
			minLen = len(rets)
		}
	}
	for i := range returns {
		returns[i] = returns[i][len(returns[i])-minLen:]
	}

	expected := make(map[string]float64, len(symbols))
	means := make([]float64, len(symbols))
	for i, sym := range symbols {
		var sum float64
		for _, r := range returns[i] {
			sum += r
		}
		means[i] = sum / float64(minLen)
		expected[sym] = means[i]
	}

	cov := make([][]float64, len(symbols))
	for i := range cov {
		cov[i] = make([]float64, len(symbols))
		for j := range cov[i] {
			var sum float64
			for k := 0; k < minLen; k++ {
				sum += (returns[i][k] - means[i]) * (returns[j][k] - means[j])
			}
			cov[i][j] = sum / float64(minLen)
		}
	}

	return models.Portfolio{
		Symbols:         symbols,
		ExpectedReturns: expected,
		Covariance:      cov,
	}, nil
}
