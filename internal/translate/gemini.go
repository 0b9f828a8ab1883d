package translate

import (
	"context"
	"fmt"
	"strings"

	"google.golang.org/genai"

	"github.com/habla-dev/habla/pkg/logger"
)

// GeminiRunner is an alternative inference backend using the Gemini API
// instead of a local subprocess. It is only used when enabled in config;
// engine semantics (dictionary fallback on failure) are unchanged.
type GeminiRunner struct {
	client *genai.Client
	model  string
	logger *logger.Logger
}

// NewGeminiRunner creates a Gemini-backed runner.
func NewGeminiRunner(ctx context.Context, apiKey, model string, log *logger.Logger) (*GeminiRunner, error) {
	if apiKey == "" {
		return nil, fmt.Errorf("gemini API key is required")
	}
	if model == "" {
		model = "gemini-2.0-flash"
	}

	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  apiKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create gemini client: %w", err)
	}

	return &GeminiRunner{
		client: client,
		model:  model,
		logger: log.Named("gemini"),
	}, nil
}

// Generate sends the prompt to the Gemini API. The model path and context
// size only apply to local inference and are ignored here.
func (g *GeminiRunner) Generate(ctx context.Context, modelPath, prompt string, contextSize int) (string, error) {
	g.logger.Debug("Requesting Gemini completion", logger.String("model", g.model))

	resp, err := g.client.Models.GenerateContent(ctx, g.model, genai.Text(prompt), &genai.GenerateContentConfig{
		Temperature:     genai.Ptr[float32](0.1),
		MaxOutputTokens: maxGeneratedTokens,
	})
	if err != nil {
		return "", fmt.Errorf("gemini generation failed: %w", err)
	}

	text := strings.TrimSpace(resp.Text())
	if text == "" {
		return "", fmt.Errorf("empty gemini response")
	}
	return text, nil
}
