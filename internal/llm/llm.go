// Package llm is the text-generation boundary used by the assist service.
package llm

import "context"

// TextGenerator produces a single completion for a prompt
type TextGenerator interface {
	Name() string
	Generate(ctx context.Context, req *Request) (string, error)
}

// Request is one single-turn completion request
type Request struct {
	System      string
	Prompt      string
	MaxTokens   int
	Temperature *float64
}

// GetMaxTokens returns MaxTokens or defaultValue when unset
func (r *Request) GetMaxTokens(defaultValue int) int {
	if r.MaxTokens <= 0 {
		return defaultValue
	}
	return r.MaxTokens
}

// Float returns a pointer to v, for Request.Temperature
func Float(v float64) *float64 { return &v }
