package anthropic

import (
	"context"
	"fmt"
	"strings"

	"github.com/anthropics/anthropic-sdk-go"
	"github.com/anthropics/anthropic-sdk-go/option"

	"tenderly/internal/llm"
)

// Provider implements llm.TextGenerator for Anthropic (Claude) models.
type Provider struct {
	client *anthropic.Client
	model  string
}

// NewProvider creates a new Anthropic provider with the given API key.
func NewProvider(apiKey, model string, opts ...option.RequestOption) (*Provider, error) {
	if apiKey == "" {
		return nil, fmt.Errorf("anthropic API key is required")
	}
	if !strings.HasPrefix(model, "claude-") {
		return nil, fmt.Errorf("model '%s' is not supported by Anthropic provider", model)
	}

	client := anthropic.NewClient(append([]option.RequestOption{option.WithAPIKey(apiKey)}, opts...)...)

	return &Provider{
		client: &client,
		model:  model,
	}, nil
}

// Name returns the provider name.
func (p *Provider) Name() string {
	return "anthropic"
}

// Generate sends a single user turn and returns the concatenated text blocks.
func (p *Provider) Generate(ctx context.Context, req *llm.Request) (string, error) {
	params := anthropic.MessageNewParams{
		Model: anthropic.Model(p.model),
		Messages: []anthropic.MessageParam{
			anthropic.NewUserMessage(anthropic.NewTextBlock(req.Prompt)),
		},
		MaxTokens: int64(req.GetMaxTokens(1024)),
	}

	if req.Temperature != nil {
		params.Temperature = anthropic.Float(*req.Temperature)
	}

	if req.System != "" {
		params.System = []anthropic.TextBlockParam{
			{
				Type: "text",
				Text: req.System,
			},
		}
	}

	message, err := p.client.Messages.New(ctx, params)
	if err != nil {
		return "", fmt.Errorf("anthropic API call failed: %w", err)
	}

	var sb strings.Builder
	for _, block := range message.Content {
		if block.Type == "text" {
			sb.WriteString(block.Text)
		}
	}

	text := strings.TrimSpace(sb.String())
	if text == "" {
		return "", fmt.Errorf("anthropic response contained no text (stop reason %q)", message.StopReason)
	}

	return text, nil
}
