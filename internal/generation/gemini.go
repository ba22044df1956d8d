package generation

import (
	"context"
	"fmt"
	"strings"

	"google.golang.org/genai"
)

// DefaultGeminiModel is used when no model is configured.
const DefaultGeminiModel = "gemini-2.0-flash"

// geminiPrompt instructs the model to answer in the exact wire shape the
// decoder expects, including the sentinel for off-topic input. The model may
// still wrap its answer in code fences; Decode handles that.
const geminiPrompt = `You are a car buying assistant. Given the user's preferred brand, models,
features and additional context, reply with a single JSON object of this
exact shape and nothing else:

{
  "brand": "<brand>",
  "brand_overview": "<two or three sentences about the brand>",
  "models": [{"model_name": "...", "description": "...", "price_range": "..."}],
  "features": [{"feature_name": "...", "description": "..."}],
  "buying_suggestions": {"suggestion": "...", "advice": "..."},
  "additional_context": "<echo of the user's context, or omit if empty>"
}

If the provided information is unrelated to automobiles or vehicles, reply
instead with {"response": %q}.`

// GeminiGenerator produces recommendations by calling the Gemini API
// directly. Used when no backend endpoint is configured; it honors the same
// raw-body contract as Client, so the decode path is shared.
type GeminiGenerator struct {
	client *genai.Client
	model  string
}

// NewGeminiGenerator creates a Gemini-backed generator.
func NewGeminiGenerator(ctx context.Context, apiKey, model string) (*GeminiGenerator, error) {
	if apiKey == "" {
		return nil, fmt.Errorf("Gemini API key is required")
	}
	if model == "" {
		model = DefaultGeminiModel
	}

	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey: apiKey,
	})
	if err != nil {
		return nil, fmt.Errorf("create Gemini client: %w", err)
	}

	return &GeminiGenerator{
		client: client,
		model:  model,
	}, nil
}

// Generate asks Gemini for a recommendation and returns the raw model output.
func (g *GeminiGenerator) Generate(ctx context.Context, req Request) (string, error) {
	var sb strings.Builder
	fmt.Fprintf(&sb, geminiPrompt, Sentinel)
	sb.WriteString("\n\nUser selection:\n")
	fmt.Fprintf(&sb, "Brand: %s\n", req.Brand)
	fmt.Fprintf(&sb, "Models: %s\n", strings.Join(req.Models, ", "))
	fmt.Fprintf(&sb, "Features: %s\n", strings.Join(req.Features, ", "))
	if req.AdditionalContext != "" {
		fmt.Fprintf(&sb, "Additional context: %s\n", req.AdditionalContext)
	}

	result, err := g.client.Models.GenerateContent(ctx,
		g.model,
		genai.Text(sb.String()),
		&genai.GenerateContentConfig{
			Temperature: genai.Ptr[float32](0.4),
		},
	)
	if err != nil {
		return "", fmt.Errorf("Gemini request failed: %w", err)
	}

	text := result.Text()
	if strings.TrimSpace(text) == "" {
		return "", fmt.Errorf("empty completion returned")
	}
	return text, nil
}
