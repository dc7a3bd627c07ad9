package llm

import (
	"context"
	"fmt"
	"strings"
	"time"

	"go.uber.org/zap"
	"google.golang.org/genai"
)

// =============================================================================
// GOOGLE GENAI CLIENT (Gemini text + Imagen)
// =============================================================================

// GeminiConfig holds the settings for GeminiClient.
type GeminiConfig struct {
	APIKey     string
	TextModel  string
	ImageModel string
	Timeout    time.Duration
}

// DefaultGeminiConfig returns sensible defaults.
func DefaultGeminiConfig(apiKey string) GeminiConfig {
	return GeminiConfig{
		APIKey:     apiKey,
		TextModel:  "gemini-3-flash-preview",
		ImageModel: "imagen-4.0-generate-001",
		Timeout:    2 * time.Minute,
	}
}

// GeminiClient implements Backend on top of the Google GenAI SDK.
type GeminiClient struct {
	client     *genai.Client
	textModel  string
	imageModel string
	timeout    time.Duration
	log        *zap.Logger
}

// NewGeminiClient creates a client for the Gemini API.
func NewGeminiClient(ctx context.Context, cfg GeminiConfig, log *zap.Logger) (*GeminiClient, error) {
	if strings.TrimSpace(cfg.APIKey) == "" {
		return nil, fmt.Errorf("GenAI API key is required")
	}
	if log == nil {
		log = zap.NewNop()
	}
	defaults := DefaultGeminiConfig(cfg.APIKey)
	if cfg.TextModel == "" {
		cfg.TextModel = defaults.TextModel
	}
	if cfg.ImageModel == "" {
		cfg.ImageModel = defaults.ImageModel
	}

	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  cfg.APIKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create GenAI client: %w", err)
	}

	return &GeminiClient{
		client:     client,
		textModel:  cfg.TextModel,
		imageModel: cfg.ImageModel,
		timeout:    cfg.Timeout,
		log:        log.Named("gemini"),
	}, nil
}

func (c *GeminiClient) withTimeout(ctx context.Context) (context.Context, context.CancelFunc) {
	if c.timeout <= 0 {
		return context.WithCancel(ctx)
	}
	return context.WithTimeout(ctx, c.timeout)
}

// Complete sends prompt with a JSON response MIME type and returns the text.
func (c *GeminiClient) Complete(ctx context.Context, prompt string) (string, error) {
	ctx, cancel := c.withTimeout(ctx)
	defer cancel()

	start := time.Now()
	resp, err := c.client.Models.GenerateContent(ctx,
		c.textModel,
		genai.Text(prompt),
		&genai.GenerateContentConfig{
			ResponseMIMEType: "application/json",
		},
	)
	if err != nil {
		return "", fmt.Errorf("GenAI generate content failed: %w", err)
	}

	text := resp.Text()
	c.log.Debug("content generated",
		zap.String("model", c.textModel),
		zap.Int("prompt_chars", len(prompt)),
		zap.Int("response_chars", len(text)),
		zap.Duration("took", time.Since(start)))
	return text, nil
}

// GenerateImage asks Imagen for exactly one image.
func (c *GeminiClient) GenerateImage(ctx context.Context, prompt, aspectRatio string) ([]byte, error) {
	ctx, cancel := c.withTimeout(ctx)
	defer cancel()

	start := time.Now()
	resp, err := c.client.Models.GenerateImages(ctx,
		c.imageModel,
		prompt,
		&genai.GenerateImagesConfig{
			NumberOfImages: 1,
			AspectRatio:    aspectRatio,
		},
	)
	if err != nil {
		return nil, fmt.Errorf("GenAI generate images failed: %w", err)
	}
	if resp == nil || len(resp.GeneratedImages) == 0 {
		return nil, ErrNoImage
	}
	img := resp.GeneratedImages[0].Image
	if img == nil || len(img.ImageBytes) == 0 {
		return nil, ErrNoImage
	}

	c.log.Debug("image generated",
		zap.String("model", c.imageModel),
		zap.String("aspect_ratio", aspectRatio),
		zap.Int("bytes", len(img.ImageBytes)),
		zap.Duration("took", time.Since(start)))
	return img.ImageBytes, nil
}

// Name returns the client name.
func (c *GeminiClient) Name() string {
	return fmt.Sprintf("genai:%s+%s", c.textModel, c.imageModel)
}
