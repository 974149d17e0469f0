package gemini

import (
	"context"
	"fmt"
	"strings"

	"github.com/firebase/genkit/go/ai"
	"github.com/firebase/genkit/go/genkit"
	"google.golang.org/genai"

	"github.com/perso-labs/ragchat/internal/rag"
)

// Generator implements rag.GenerationModel on a Gemini chat model.
// Temperature and token limit are fixed at construction; the pipeline never
// varies them per request.
type Generator struct {
	g           *genkit.Genkit
	model       string
	temperature float32
	maxTokens   int
}

// NewGenerator creates a generator for the named model, e.g.
// "gemini-2.0-flash".
func NewGenerator(g *genkit.Genkit, model string, temperature float32, maxTokens int) *Generator {
	return &Generator{
		g:           g,
		model:       model,
		temperature: temperature,
		maxTokens:   maxTokens,
	}
}

// Generate implements rag.GenerationModel.
func (gen *Generator) Generate(ctx context.Context, prompt string) (string, error) {
	resp, err := genkit.Generate(ctx, gen.g,
		ai.WithModelName(gen.fullModelName()),
		ai.WithPrompt(prompt),
		ai.WithConfig(&genai.GenerateContentConfig{
			Temperature:     genai.Ptr(gen.temperature),
			MaxOutputTokens: int32(gen.maxTokens),
		}),
	)
	if err != nil {
		return "", fmt.Errorf("%w: %w", rag.ErrGeneration, err)
	}

	text := strings.TrimSpace(resp.Text())
	if text == "" {
		return "", fmt.Errorf("%w: model returned empty response", rag.ErrGeneration)
	}
	return text, nil
}

// fullModelName returns the provider-qualified model name for Genkit.
func (gen *Generator) fullModelName() string {
	if strings.Contains(gen.model, "/") {
		return gen.model
	}
	return "googleai/" + gen.model
}
