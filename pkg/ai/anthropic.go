package ai

import (
	"context"
	"fmt"
	"strings"

	"github.com/anthropics/anthropic-sdk-go"
	"github.com/anthropics/anthropic-sdk-go/option"
	"github.com/rs/zerolog"
)

// AnthropicConfig defines configuration options for the Anthropic provider.
type AnthropicConfig struct {
	APIKey    string
	Model     string
	BaseURL   string
	MaxTokens int
	Logger    zerolog.Logger
}

type anthropicCompleter struct {
	client *anthropic.Client
	model  anthropic.Model
}

// NewAnthropicProvider builds a Provider backed by the Anthropic messages API.
func NewAnthropicProvider(cfg AnthropicConfig) (Provider, error) {
	if strings.TrimSpace(cfg.APIKey) == "" {
		return nil, fmt.Errorf("anthropic api key is required")
	}
	if cfg.Model == "" {
		cfg.Model = string(anthropic.ModelClaude3_5HaikuLatest)
	}

	opts := []option.RequestOption{
		option.WithAPIKey(cfg.APIKey),
		option.WithMaxRetries(0),
	}
	if cfg.BaseURL != "" {
		opts = append(opts, option.WithBaseURL(cfg.BaseURL))
	}
	client := anthropic.NewClient(opts...)

	backend := &anthropicCompleter{
		client: &client,
		model:  anthropic.Model(cfg.Model),
	}

	return newChatProvider("anthropic", cfg.Model, cfg.MaxTokens, backend, cfg.Logger), nil
}

func (c *anthropicCompleter) complete(ctx context.Context, req completion) (string, error) {
	resp, err := c.client.Messages.New(ctx, anthropic.MessageNewParams{
		Model:       c.model,
		MaxTokens:   int64(req.MaxTokens),
		Temperature: anthropic.Float(float64(req.Temperature)),
		System:      []anthropic.TextBlockParam{{Text: req.System}},
		Messages: []anthropic.MessageParam{
			anthropic.NewUserMessage(anthropic.NewTextBlock(req.User)),
		},
	})
	if err != nil {
		return "", err
	}

	text := strings.Builder{}
	for _, block := range resp.Content {
		switch block := block.AsAny().(type) {
		case anthropic.TextBlock:
			text.WriteString(block.Text)
		}
	}

	if text.Len() == 0 {
		return "", fmt.Errorf("%w: no text content returned", ErrMalformedResponse)
	}

	return strings.TrimSpace(text.String()), nil
}
