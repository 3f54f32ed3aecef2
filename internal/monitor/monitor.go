package monitor

import (
	"context"
	"sync/atomic"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/alphapulse/alphapulse/internal/analyze"
	"github.com/alphapulse/alphapulse/internal/notify"
	"github.com/alphapulse/alphapulse/internal/series"
	"github.com/alphapulse/alphapulse/models"
)

// SignalSaver persists emitted signals; implemented by the store package.
type SignalSaver interface {
	SaveSignal(sig models.Signal) error
}

// Monitor re-runs the analyzer on a fixed cadence. It is the single
// owner and single writer of the signal-history ring buffer. An atomic
// in-flight guard makes overlapping ticks skip instead of racing: timer
// callbacks must never mutate the buffer concurrently.
type Monitor struct {
	analyzer    *analyze.Analyzer
	sink        notify.Sink // nil disables notifications
	saver       SignalSaver // nil disables persistence
	destination string
	interval    time.Duration
	history     *series.History
	inFlight    atomic.Bool
	logger      zerolog.Logger
}

// Options configures a Monitor.
type Options struct {
	Interval        time.Duration
	HistoryCapacity int
	Destination     string
}

// New creates a monitor; sink and saver may be nil.
func New(analyzer *analyze.Analyzer, sink notify.Sink, saver SignalSaver, opts Options) *Monitor {
	if opts.Interval == 0 {
		opts.Interval = 5 * time.Minute
	}
	return &Monitor{
		analyzer:    analyzer,
		sink:        sink,
		saver:       saver,
		destination: opts.Destination,
		interval:    opts.Interval,
		history:     series.NewHistory(opts.HistoryCapacity),
		logger:      log.With().Str("component", "monitor").Logger(),
	}
}

// History returns a chronological snapshot of emitted signals.
func (m *Monitor) History() []models.Signal {
	return m.history.Snapshot()
}

// Run ticks until the context is cancelled. The first analysis happens
// immediately rather than after the first interval.
func (m *Monitor) Run(ctx context.Context) error {
	ticker := time.NewTicker(m.interval)
	defer ticker.Stop()

	m.Tick(ctx)
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
			m.Tick(ctx)
		}
	}
}

// Tick runs one analysis pass if none is in flight. It reports whether
// the pass actually ran.
func (m *Monitor) Tick(ctx context.Context) bool {
	if !m.inFlight.CompareAndSwap(false, true) {
		m.logger.Warn().Msg("Previous analysis still running, skipping tick")
		return false
	}
	defer m.inFlight.Store(false)

	report, err := m.analyzer.Run(ctx)
	if err != nil {
		m.logger.Error().Err(err).Msg("Analysis pass failed")
		return true
	}

	for _, sym := range report.Symbols {
		for _, sig := range sym.Signals {
			m.history.Push(sig)
			if m.saver != nil {
				if err := m.saver.SaveSignal(sig); err != nil {
					m.logger.Error().Err(err).Str("signal", string(sig.Type)).Msg("Failed to persist signal")
				}
			}
			if m.sink != nil && m.destination != "" {
				if err := m.sink.SendSignal(sig, m.destination); err != nil {
					m.logger.Error().Err(err).Str("signal", string(sig.Type)).Msg("Failed to deliver signal")
				}
			}
		}
	}

	if m.sink != nil && m.destination != "" {
		if err := m.sink.SendReport(report, m.destination); err != nil {
			m.logger.Error().Err(err).Msg("Failed to deliver report")
		}
	}

	m.logger.Info().
		Str("report_id", report.ID).
		Int("symbols", len(report.Symbols)).
		Msg("Analysis pass complete")
	return true
}
