package openai

import (
	"context"
	"fmt"
	"strings"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/sashabaranov/go-openai"

	"github.com/alphapulse/alphapulse/models"
)

// Summarizer turns a finished report into free-text commentary. Its
// failure or absence never changes a numeric field; callers only attach
// the text when it arrives.
type Summarizer interface {
	Summarize(ctx context.Context, prompt string, maxTokens int) (string, error)
}

// Client wraps the OpenAI API client.
type Client struct {
	client *openai.Client
	model  string
	logger zerolog.Logger
}

// NewClient creates a new OpenAI-backed summarizer.
func NewClient(apiKey string) *Client {
	return &Client{
		client: openai.NewClient(apiKey),
		model:  openai.GPT4,
		logger: log.With().Str("component", "openai_client").Logger(),
	}
}

// Summarize sends the prompt with a token budget and returns the
// completion text.
func (c *Client) Summarize(ctx context.Context, prompt string, maxTokens int) (string, error) {
	c.logger.Debug().Int("max_tokens", maxTokens).Msg("Sending prompt to OpenAI")

	resp, err := c.client.CreateChatCompletion(
		ctx,
		openai.ChatCompletionRequest{
			Model:     c.model,
			MaxTokens: maxTokens,
			Messages: []openai.ChatCompletionMessage{
				{
					Role:    openai.ChatMessageRoleUser,
					Content: prompt,
				},
			},
		},
	)
	if err != nil {
		c.logger.Error().Err(err).Msg("OpenAI API error")
		return "", models.ErrUnavailable("openai.Summarize", err)
	}
	if len(resp.Choices) == 0 {
		c.logger.Warn().Msg("OpenAI returned empty choices")
		return "", nil
	}
	return resp.Choices[0].Message.Content, nil
}

// BuildReportPrompt formats a report into a commentary prompt.
func BuildReportPrompt(report *models.AnalysisReport) string {
	var sb strings.Builder
	sb.WriteString("Summarize the following market analysis in 3-4 sentences for a trader:\n\n")

	for _, sym := range report.Symbols {
		if sym.Aggregate == nil {
			continue
		}
		sb.WriteString(fmt.Sprintf("%s (%s): %s, score %.2f, confidence %.0f%%, %d signals\n",
			sym.Symbol, sym.Timeframe, sym.Aggregate.OverallDirection,
			sym.Aggregate.Score, sym.Aggregate.Confidence, len(sym.Signals)))
	}
	if report.Risk != nil {
		sb.WriteString(fmt.Sprintf("\nPortfolio: annualized return %.2f%%, volatility %.2f%%, max drawdown %.2f%%\n",
			report.Risk.AnnualizedReturn*100, report.Risk.Volatility*100, report.Risk.MaxDrawdown*100))
	}
	for _, pair := range report.Pairs {
		if pair.Signal == models.PairNeutral {
			continue
		}
		sb.WriteString(fmt.Sprintf("Pair %s/%s: %s at z-score %.2f\n",
			pair.AssetA, pair.AssetB, pair.Signal, pair.ZScore))
	}

	sb.WriteString("\nDo not invent numbers; only interpret the ones given.")
	return sb.String()
}
