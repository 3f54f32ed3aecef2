package main

import (
	"context"
	"encoding/json"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/alphapulse/alphapulse/config"
	"github.com/alphapulse/alphapulse/internal/analyze"
	"github.com/alphapulse/alphapulse/internal/api/marketdata"
	openaiclient "github.com/alphapulse/alphapulse/internal/api/openai"
	"github.com/alphapulse/alphapulse/internal/arbitrage"
	"github.com/alphapulse/alphapulse/internal/monitor"
	"github.com/alphapulse/alphapulse/internal/notify"
	"github.com/alphapulse/alphapulse/internal/portfolio"
	"github.com/alphapulse/alphapulse/internal/risk"
	"github.com/alphapulse/alphapulse/internal/signals"
	"github.com/alphapulse/alphapulse/internal/store"
	"github.com/alphapulse/alphapulse/models"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to load config")
	}

	level, err := zerolog.ParseLevel(cfg.LogLevel)
	if err != nil {
		level = zerolog.InfoLevel
	}
	zerolog.SetGlobalLevel(level)
	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr})

	signalCfg := signals.DefaultConfig()
	if cfg.SignalConfigPath != "" {
		signalCfg, err = signals.LoadConfig(cfg.SignalConfigPath)
		if err != nil {
			log.Warn().Err(err).Msg("Signal config override not loaded, using defaults")
		}
	}

	regimeTables := portfolio.DefaultRegimeTables()
	if cfg.RegimeTablesPath != "" {
		regimeTables, err = portfolio.LoadRegimeTables(cfg.RegimeTablesPath)
		if err != nil {
			log.Warn().Err(err).Msg("Regime tables override not loaded, using defaults")
		}
	}

	provider := marketdata.NewClient(marketdata.ClientOptions{
		APIKey:         cfg.MarketDataAPIKey,
		RequestTimeout: time.Duration(cfg.RequestTimeout) * time.Second,
	})

	var summarizer openaiclient.Summarizer
	if cfg.OpenAIAPIKey != "" && cfg.OpenAIAPIKey != "-" {
		summarizer = openaiclient.NewClient(cfg.OpenAIAPIKey)
	}

	riskParams := risk.DefaultParams()
	riskParams.RiskFreeRate = cfg.RiskFreeRate
	riskParams.SortinoTarget = cfg.SortinoTarget
	riskParams.VaRConfidence = cfg.VaRConfidence
	riskParams.PeriodsPerYear = models.PeriodsPerYear(cfg.Interval)

	analyzer := analyze.New(provider, summarizer, analyze.Options{
		Symbols:         cfg.Symbols,
		Timeframe:       cfg.Interval,
		CandleCount:     cfg.CandleCount,
		BenchmarkSymbol: cfg.BenchmarkSymbol,
		FetchTimeout:    time.Duration(cfg.RequestTimeout) * time.Second,
		RiskParams:      riskParams,
		SignalConfig:    signalCfg,
		ArbConfig:       arbitrage.DefaultConfig(),
		Bounds:          portfolio.DefaultBounds(),
		RegimeTables:    regimeTables,
	})

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if cfg.MonitorInterval <= 0 {
		// One-shot mode: run a single pass and print the report as JSON.
		report, err := analyzer.Run(ctx)
		if err != nil {
			log.Fatal().Err(err).Msg("Analysis failed")
		}
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		if err := enc.Encode(report); err != nil {
			log.Fatal().Err(err).Msg("Failed to encode report")
		}
		return
	}

	var sink notify.Sink
	if cfg.TelegramToken != "" {
		tg, err := notify.NewTelegramSink(cfg.TelegramToken)
		if err != nil {
			log.Fatal().Err(err).Msg("Failed to create telegram sink")
		}
		sink = tg
	}

	var saver monitor.SignalSaver
	if cfg.DBHost != "" {
		db, err := store.New(store.ConnectionParams{
			Host:     cfg.DBHost,
			Port:     cfg.DBPort,
			User:     cfg.DBUser,
			Password: cfg.DBPassword,
			DBName:   cfg.DBName,
			SSLMode:  cfg.DBSSLMode,
		})
		if err != nil {
			log.Fatal().Err(err).Msg("Failed to connect to database")
		}
		defer db.Close()
		saver = db
	}

	mon := monitor.New(analyzer, sink, saver, monitor.Options{
		Interval:        time.Duration(cfg.MonitorInterval) * time.Minute,
		HistoryCapacity: cfg.HistoryCapacity,
		Destination:     cfg.TelegramChatID,
	})

	log.Info().
		Strs("symbols", cfg.Symbols).
		Str("interval", cfg.Interval).
		Int("monitor_interval_min", cfg.MonitorInterval).
		Msg("Starting monitor")

	if err := mon.Run(ctx); err != nil && err != context.Canceled {
		log.Fatal().Err(err).Msg("Monitor stopped")
	}
}
