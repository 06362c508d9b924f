package interfaces

import (
	"context"

	"github.com/bobmcallan/copyforge/internal/models"
)

// TextExtractor extracts plain text from an uploaded document.
type TextExtractor interface {
	ExtractText(data []byte) (string, error)
}

// TextGenerator produces marketing copy from a prompt. The Gemini client is
// the production implementation; tests substitute a stub.
type TextGenerator interface {
	GenerateContent(ctx context.Context, prompt string) (string, error)
	GenerateMarketingCopy(ctx context.Context, roleAndGoals, sourceText string) (*models.GeneratedCopy, error)
}
