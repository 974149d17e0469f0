// Package gemini adapts Google AI models behind the rag capability
// interfaces via Genkit. The GEMINI_API_KEY environment variable is read by
// the googlegenai plugin.
package gemini

import (
	"context"
	"errors"

	"github.com/firebase/genkit/go/genkit"
	"github.com/firebase/genkit/go/plugins/googlegenai"
)

// Init initializes Genkit with the Google AI plugin.
func Init(ctx context.Context) (*genkit.Genkit, error) {
	g := genkit.Init(ctx, genkit.WithPlugins(&googlegenai.GoogleAI{}))
	if g == nil {
		return nil, errors.New("initializing genkit with googleai plugin")
	}
	return g, nil
}
