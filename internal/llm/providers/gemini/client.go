package gemini

import (
	"context"
	"fmt"
	"strings"

	"google.golang.org/genai"

	"tenderly/internal/llm"
)

// Provider implements llm.TextGenerator for Google Gemini models.
type Provider struct {
	client *genai.Client
	model  string
}

// Option adjusts the underlying GenAI client configuration.
type Option func(*genai.ClientConfig)

// WithBaseURL points the client at a different API endpoint.
func WithBaseURL(url string) Option {
	return func(cfg *genai.ClientConfig) {
		cfg.HTTPOptions.BaseURL = url
	}
}

// NewProvider creates a Gemini API client.
func NewProvider(ctx context.Context, apiKey, model string, opts ...Option) (*Provider, error) {
	if apiKey == "" {
		return nil, fmt.Errorf("gemini API key is required")
	}
	if model == "" {
		model = "gemini-2.5-flash"
	}

	cfg := &genai.ClientConfig{
		APIKey:  apiKey,
		Backend: genai.BackendGeminiAPI,
	}
	for _, opt := range opts {
		opt(cfg)
	}

	client, err := genai.NewClient(ctx, cfg)
	if err != nil {
		return nil, fmt.Errorf("failed to create GenAI client: %w", err)
	}

	return &Provider{
		client: client,
		model:  model,
	}, nil
}

// Name returns the provider name.
func (p *Provider) Name() string {
	return "gemini"
}

// Generate runs a single GenerateContent call and returns the response text.
func (p *Provider) Generate(ctx context.Context, req *llm.Request) (string, error) {
	cfg := &genai.GenerateContentConfig{
		MaxOutputTokens: int32(req.GetMaxTokens(1024)),
	}
	if req.Temperature != nil {
		cfg.Temperature = genai.Ptr(float32(*req.Temperature))
	}
	if req.System != "" {
		cfg.SystemInstruction = genai.NewContentFromText(req.System, genai.RoleUser)
	}

	resp, err := p.client.Models.GenerateContent(ctx, p.model, genai.Text(req.Prompt), cfg)
	if err != nil {
		return "", fmt.Errorf("gemini API call failed: %w", err)
	}

	text := strings.TrimSpace(resp.Text())
	if text == "" {
		return "", fmt.Errorf("gemini response contained no text")
	}

	return text, nil
}
