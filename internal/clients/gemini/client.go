// Package gemini provides a client for the Google Gemini API
package gemini

import (
	"context"
	"fmt"

	"golang.org/x/time/rate"
	"google.golang.org/genai"

	"github.com/bobmcallan/copyforge/internal/common"
	"github.com/bobmcallan/copyforge/internal/interfaces"
	"github.com/bobmcallan/copyforge/internal/models"
)

const (
	DefaultModel     = "gemini-3-flash-preview"
	DefaultRateLimit = 10 // requests per minute
)

// Client implements the TextGenerator interface
type Client struct {
	client  *genai.Client
	model   string
	limiter *rate.Limiter
	logger  *common.Logger
}

// ClientOption configures the client
type ClientOption func(*Client)

// WithModel sets the model to use
func WithModel(model string) ClientOption {
	return func(c *Client) {
		if model != "" {
			c.model = model
		}
	}
}

// WithRateLimit sets the request rate limit in requests per minute
func WithRateLimit(perMinute int) ClientOption {
	return func(c *Client) {
		if perMinute > 0 {
			c.limiter = rate.NewLimiter(rate.Limit(float64(perMinute)/60.0), 1)
		}
	}
}

// WithLogger sets the logger
func WithLogger(logger *common.Logger) ClientOption {
	return func(c *Client) {
		c.logger = logger
	}
}

// NewClient creates a new Gemini client
func NewClient(ctx context.Context, apiKey string, opts ...ClientOption) (*Client, error) {
	genaiClient, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  apiKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create Gemini client: %w", err)
	}

	c := &Client{
		client:  genaiClient,
		model:   DefaultModel,
		limiter: rate.NewLimiter(rate.Limit(float64(DefaultRateLimit)/60.0), 1),
		logger:  common.NewSilentLogger(),
	}

	for _, opt := range opts {
		opt(c)
	}

	return c, nil
}

// Close closes the client
func (c *Client) Close() error {
	// The genai client doesn't have a Close method
	return nil
}

// GenerateContent generates AI content from a prompt
func (c *Client) GenerateContent(ctx context.Context, prompt string) (string, error) {
	if err := c.limiter.Wait(ctx); err != nil {
		return "", fmt.Errorf("rate limiter wait failed: %w", err)
	}

	c.logger.Debug().Str("model", c.model).Msg("Generating content")

	contents := genai.Text(prompt)
	result, err := c.client.Models.GenerateContent(ctx, c.model, contents, nil)
	if err != nil {
		return "", fmt.Errorf("failed to generate content: %w", err)
	}

	return extractTextFromResponse(result)
}

// GenerateMarketingCopy produces a Korean company profile and brand
// introduction from the caller's stated goals and the extracted source text.
func (c *Client) GenerateMarketingCopy(ctx context.Context, roleAndGoals, sourceText string) (*models.GeneratedCopy, error) {
	companyIntro, err := c.GenerateContent(ctx, buildCompanyIntroPrompt(roleAndGoals, sourceText))
	if err != nil {
		return nil, fmt.Errorf("failed to generate company introduction: %w", err)
	}

	brandIntro, err := c.GenerateContent(ctx, buildBrandIntroPrompt(roleAndGoals, sourceText))
	if err != nil {
		return nil, fmt.Errorf("failed to generate brand introduction: %w", err)
	}

	return &models.GeneratedCopy{
		CompanyIntro: companyIntro,
		BrandIntro:   brandIntro,
	}, nil
}

func buildCompanyIntroPrompt(roleAndGoals, sourceText string) string {
	return fmt.Sprintf(`Based on the following information: %s, %s,
write a detailed company profile to korean.
`, roleAndGoals, sourceText)
}

func buildBrandIntroPrompt(roleAndGoals, sourceText string) string {
	return fmt.Sprintf(`Based on the following information: %s, %s,
write a detailed brand introduction to korean.
`, roleAndGoals, sourceText)
}

// extractTextFromResponse extracts text from a generate content response
func extractTextFromResponse(result *genai.GenerateContentResponse) (string, error) {
	if len(result.Candidates) == 0 || result.Candidates[0].Content == nil || len(result.Candidates[0].Content.Parts) == 0 {
		return "", fmt.Errorf("no content generated")
	}

	text := ""
	for _, part := range result.Candidates[0].Content.Parts {
		if part.Text != "" {
			text += part.Text
		}
	}

	return text, nil
}

// Ensure Client implements TextGenerator
var _ interfaces.TextGenerator = (*Client)(nil)
