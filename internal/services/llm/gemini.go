package llm

import (
	"context"
	"fmt"
	"strings"
	"time"

	domsvc "CryptoPulse/internal/domain/service"
	applogger "CryptoPulse/pkg/logger"

	"google.golang.org/genai"
)

// Models is the subset of the genai client used here.
type Models interface {
	GenerateContent(ctx context.Context, model string, contents []*genai.Content, config *genai.GenerateContentConfig) (*genai.GenerateContentResponse, error)
}

// GeminiGenerator implements TextGenerator on top of the Gemini API.
type GeminiGenerator struct {
	models      Models
	model       string
	temperature float32
	l           *applogger.Logger
}

// NewGeminiGenerator builds a client for apiKey. The key must be non-empty.
func NewGeminiGenerator(ctx context.Context, apiKey, model string, temperature float32, l *applogger.Logger) (*GeminiGenerator, error) {
	if apiKey == "" {
		return nil, fmt.Errorf("gemini api key is required")
	}
	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  apiKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return nil, fmt.Errorf("init genai client: %w", err)
	}
	return NewGeminiGeneratorWithModels(client.Models, model, temperature, l), nil
}

// NewGeminiGeneratorWithModels wires an existing Models implementation.
func NewGeminiGeneratorWithModels(m Models, model string, temperature float32, l *applogger.Logger) *GeminiGenerator {
	if model == "" {
		model = "gemini-2.5-flash"
	}
	if l == nil {
		l = applogger.Nop()
	}
	return &GeminiGenerator{models: m, model: model, temperature: temperature, l: l}
}

// Generate sends prompt as a single user turn and returns the first
// candidate carrying text.
func (g *GeminiGenerator) Generate(ctx context.Context, prompt string) (string, error) {
	if strings.TrimSpace(prompt) == "" {
		return "", fmt.Errorf("prompt cannot be empty")
	}

	start := time.Now()
	resp, err := g.models.GenerateContent(ctx, g.model, []*genai.Content{
		genai.NewContentFromText(prompt, genai.RoleUser),
	}, &genai.GenerateContentConfig{
		Temperature: genai.Ptr(g.temperature),
	})
	if err != nil {
		return "", fmt.Errorf("gemini generate (model: %s): %w", g.model, err)
	}

	var out strings.Builder
	if resp != nil {
		for _, cand := range resp.Candidates {
			if cand == nil || cand.Content == nil {
				continue
			}
			for _, part := range cand.Content.Parts {
				if part != nil && part.Text != "" {
					out.WriteString(part.Text)
				}
			}
			if out.Len() > 0 {
				break
			}
		}
	}
	if out.Len() == 0 {
		return "", fmt.Errorf("gemini returned no text (model: %s)", g.model)
	}

	g.l.Debug("gemini generation complete",
		applogger.String("model", g.model),
		applogger.Duration("duration_ms", time.Since(start)),
		applogger.Int("chars", out.Len()),
	)
	return out.String(), nil
}

var _ domsvc.TextGenerator = (*GeminiGenerator)(nil)
