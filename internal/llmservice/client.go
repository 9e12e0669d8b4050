package llmservice

import (
	"context"
	"fmt"
	"strings"

	"github.com/tmc/langchaingo/llms"
	"github.com/tmc/langchaingo/llms/openai"

	"noc-assistant/internal/config"
	"noc-assistant/internal/models"
)

// Client calls the generative model with a fixed low temperature to bias
// toward documentation-faithful phrasing.
type Client struct {
	llm         *openai.LLM
	temperature float64
}

// New creates the generation client from the configuration.
func New(cfg *config.Config) (*Client, error) {
	llm, err := openai.New(
		openai.WithBaseURL(cfg.GenerativeBaseURL),
		openai.WithToken(strings.TrimPrefix(cfg.GenerativeAPIKey, "Bearer ")),
		openai.WithModel(cfg.GenerativeModel),
	)
	if err != nil {
		return nil, fmt.Errorf("initializing generation client: %w", err)
	}
	return &Client{llm: llm, temperature: cfg.Temperature}, nil
}

// Generate runs one completion for the prompt. Backend failures are
// wrapped in models.ErrProviderUnavailable and never masked as answers.
func (c *Client) Generate(ctx context.Context, prompt string) (string, error) {
	msgContent := []llms.MessageContent{
		{
			Role:  llms.ChatMessageTypeHuman,
			Parts: []llms.ContentPart{llms.TextContent{Text: prompt}},
		},
	}

	res, err := c.llm.GenerateContent(ctx, msgContent, llms.WithTemperature(c.temperature))
	if err != nil {
		return "", fmt.Errorf("%w: %v", models.ErrProviderUnavailable, err)
	}
	if len(res.Choices) == 0 {
		return "", fmt.Errorf("%w: empty model response", models.ErrProviderUnavailable)
	}
	return res.Choices[0].Content, nil
}
