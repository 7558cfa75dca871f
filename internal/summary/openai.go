package summary

import (
	"context"
	"fmt"
	"strings"

	"github.com/sashabaranov/go-openai"
	"go.uber.org/zap"
)

// AISummarizer uses OpenAI to turn a sprint analysis report into a few
// sentences for a leadership audience
type AISummarizer struct {
	client *openai.Client
	logger *zap.Logger
	model  string
}

// NewAISummarizer creates a new AI summarizer
func NewAISummarizer(apiKey, model string, logger *zap.Logger) *AISummarizer {
	client := openai.NewClient(apiKey)

	if model == "" {
		model = openai.GPT4TurboPreview
	}

	return &AISummarizer{
		client: client,
		logger: logger,
		model:  model,
	}
}

// Summarize asks the model for a management-level summary of the report
func (s *AISummarizer) Summarize(ctx context.Context, report string) (string, error) {
	resp, err := s.client.CreateChatCompletion(
		ctx,
		openai.ChatCompletionRequest{
			Model: s.model,
			Messages: []openai.ChatCompletionMessage{
				{
					Role:    openai.ChatMessageRoleSystem,
					Content: "You are an engineering manager's assistant that summarizes sprint analysis reports, leading with risks and trends rather than raw numbers.",
				},
				{
					Role:    openai.ChatMessageRoleUser,
					Content: buildPrompt(report),
				},
			},
			Temperature: 0.2,
		},
	)

	if err != nil {
		return "", fmt.Errorf("failed to create chat completion: %w", err)
	}

	if len(resp.Choices) == 0 {
		return "", fmt.Errorf("no response from AI")
	}

	text := strings.TrimSpace(resp.Choices[0].Message.Content)

	s.logger.Info("generated report summary",
		zap.String("model", s.model),
		zap.Int("length", len(text)),
	)

	return text, nil
}

func buildPrompt(report string) string {
	var sb strings.Builder

	sb.WriteString("Summarize the following sprint analysis report in at most 120 words.\n")
	sb.WriteString("Call out resolution-time outliers and sprints without activity when present.\n\n")
	sb.WriteString(report)

	return sb.String()
}
