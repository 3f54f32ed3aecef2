package notify

import (
	"fmt"
	"strings"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/alphapulse/alphapulse/models"
)

// Sink accepts a pre-built report and a destination identifier.
// Fire-and-forget from the analysis core's perspective: a delivery
// failure is logged, never surfaced back into the numeric path.
type Sink interface {
	SendReport(report *models.AnalysisReport, destination string) error
	SendSignal(sig models.Signal, destination string) error
}

// TelegramSink delivers reports and signals to Telegram chats.
type TelegramSink struct {
	bot    *tgbotapi.BotAPI
	logger zerolog.Logger
}

// NewTelegramSink creates a sink from a bot token.
func NewTelegramSink(token string) (*TelegramSink, error) {
	bot, err := tgbotapi.NewBotAPI(token)
	if err != nil {
		return nil, fmt.Errorf("creating telegram bot: %w", err)
	}
	return &TelegramSink{
		bot:    bot,
		logger: log.With().Str("component", "telegram_sink").Logger(),
	}, nil
}

// SendReport formats and delivers a full report to the chat identified
// by destination (a chat ID in decimal).
func (s *TelegramSink) SendReport(report *models.AnalysisReport, destination string) error {
	chatID, err := parseChatID(destination)
	if err != nil {
		return err
	}

	msg := tgbotapi.NewMessage(chatID, formatReport(report))
	if _, err := s.bot.Send(msg); err != nil {
		s.logger.Error().Err(err).Str("destination", destination).Msg("Failed to send report")
		return fmt.Errorf("sending report: %w", err)
	}
	return nil
}

// SendSignal delivers a single signal alert.
func (s *TelegramSink) SendSignal(sig models.Signal, destination string) error {
	chatID, err := parseChatID(destination)
	if err != nil {
		return err
	}

	text := fmt.Sprintf("%s %s %s (%s, confidence %.0f%%)",
		sig.Symbol, sig.Type, sig.Direction, sig.Strength, sig.Confidence)
	if _, err := s.bot.Send(tgbotapi.NewMessage(chatID, text)); err != nil {
		s.logger.Error().Err(err).Str("destination", destination).Msg("Failed to send signal")
		return fmt.Errorf("sending signal: %w", err)
	}
	return nil
}

func parseChatID(destination string) (int64, error) {
	var chatID int64
	if _, err := fmt.Sscanf(destination, "%d", &chatID); err != nil {
		return 0, fmt.Errorf("invalid chat id %q: %w", destination, err)
	}
	return chatID, nil
}

func formatReport(report *models.AnalysisReport) string {
	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("Analysis %s\n", report.GeneratedAt.Format("2006-01-02 15:04")))

	for _, sym := range report.Symbols {
		if sym.Aggregate == nil {
			continue
		}
		sb.WriteString(fmt.Sprintf("\n%s: %s (score %.2f, conf %.0f%%)",
			sym.Symbol, sym.Aggregate.OverallDirection, sym.Aggregate.Score, sym.Aggregate.Confidence))
	}
	if report.Risk != nil {
		sb.WriteString(fmt.Sprintf("\n\nMax drawdown: %.2f%%", report.Risk.MaxDrawdown*100))
	}
	for _, pair := range report.Pairs {
		if pair.Signal != models.PairNeutral {
			sb.WriteString(fmt.Sprintf("\nPair %s/%s: %s (z %.2f)", pair.AssetA, pair.AssetB, pair.Signal, pair.ZScore))
		}
	}
	if report.Commentary != "" {
		sb.WriteString("\n\n" + report.Commentary)
	}
	return sb.String()
}
