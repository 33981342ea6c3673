// Package speech is the text-to-speech boundary for voice summaries.
package speech

import (
	"context"

	"tenderly/internal/domain/models"
)

// Synthesizer turns text into a playable audio reference
type Synthesizer interface {
	Synthesize(ctx context.Context, text string) (*models.VoiceSummary, error)
}

// placeholderAudioURL is a short WAV clip embedded as a data URL
const placeholderAudioURL = "data:audio/wav;base64,UklGRnoGAABXQVZFZm10IBAAAAABAAEAQB8AAEAfAAABAAgAZGF0YQoGAACBhYqFbF1fdJivrJBhNjVgodDbq2EcBj+a2/LDciUFLIHO8tiJNwgZaLvt559NEAxQp+PwtmMcBjiR1/LMeSwFJHfH8N2QQAoUXrTp66hVFApGn+DyvmwhBSuBzvLZiTYIG2m98OScTgwOUarm7blmGgU7k9n1unEiBC13yO/eizEIHWq+8+OWT"

// PlaceholderMessage accompanies the placeholder audio
const PlaceholderMessage = "Voice summary generated successfully (mock)"

// Placeholder returns the same short clip for every request
type Placeholder struct{}

// NewPlaceholder creates a Placeholder synthesizer
func NewPlaceholder() *Placeholder {
	return &Placeholder{}
}

func (p *Placeholder) Synthesize(ctx context.Context, text string) (*models.VoiceSummary, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return &models.VoiceSummary{
		URL:     placeholderAudioURL,
		Message: PlaceholderMessage,
	}, nil
}
