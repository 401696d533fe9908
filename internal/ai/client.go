// Package ai produces bid decisions for scraped projects through a
// text-generation provider.
package ai

import (
	"context"
	"fmt"

	"github.com/tmc/langchaingo/llms"
	"github.com/tmc/langchaingo/llms/openai"
)

// Generator is the text-generation capability the decision engine
// consumes. An empty string signals "no content", not an error.
type Generator interface {
	Generate(ctx context.Context, prompt string) (string, error)
}

// ClientConfig holds text-generation provider settings.
type ClientConfig struct {
	BaseURL      string
	APIKey       string
	Model        string
	Temperature  float64
	TopP         float64
	MaxTokens    int
	SystemPrompt string
}

// Client generates text through an OpenAI-compatible chat-completions
// endpoint (OpenRouter by default).
type Client struct {
	llm *openai.LLM
	cfg ClientConfig
}

// Ensure Client implements Generator.
var _ Generator = (*Client)(nil)

// NewClient creates a text-generation client.
func NewClient(cfg ClientConfig) (*Client, error) {
	llm, err := openai.New(
		openai.WithBaseURL(cfg.BaseURL),
		openai.WithToken(cfg.APIKey),
		openai.WithModel(cfg.Model),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create generation client: %w", err)
	}

	return &Client{llm: llm, cfg: cfg}, nil
}

// Generate sends the prompt and returns the generated text. A
// response with no content yields an empty string without an error.
func (c *Client) Generate(ctx context.Context, prompt string) (string, error) {
	messages := []llms.MessageContent{
		llms.TextParts(llms.ChatMessageTypeHuman, prompt),
	}
	if c.cfg.SystemPrompt != "" {
		messages = append([]llms.MessageContent{
			llms.TextParts(llms.ChatMessageTypeSystem, c.cfg.SystemPrompt),
		}, messages...)
	}

	resp, err := c.llm.GenerateContent(ctx, messages,
		llms.WithTemperature(c.cfg.Temperature),
		llms.WithTopP(c.cfg.TopP),
		llms.WithMaxTokens(c.cfg.MaxTokens),
	)
	if err != nil {
		return "", fmt.Errorf("generation request failed: %w", err)
	}

	if len(resp.Choices) == 0 {
		return "", nil
	}
	return resp.Choices[0].Content, nil
}
