// Package llm wraps the Gemini text-generation provider behind a small
// interface and provides the defensive parser every model output passes
// through.
package llm

import (
	"context"
	"fmt"

	"google.golang.org/genai"
)

// Generator is the opaque text-generation callable the pipeline depends
// on. Implementations must be safe for concurrent use.
type Generator interface {
	Generate(ctx context.Context, prompt string) (string, error)
}

// Gemini is the production Generator backed by google.golang.org/genai.
type Gemini struct {
	client *genai.Client
	model  string
}

// NewGemini creates the Gemini client. Authentication comes from the
// environment (GEMINI_API_KEY or application default credentials).
func NewGemini(ctx context.Context, model string) (*Gemini, error) {
	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		HTTPOptions: genai.HTTPOptions{APIVersion: "v1"},
	})
	if err != nil {
		return nil, fmt.Errorf("NewGemini: create genai client: %w", err)
	}
	return &Gemini{client: client, model: model}, nil
}

// Generate issues one blocking request and returns the raw response text.
// Cancellation and timeouts are the caller's responsibility via ctx.
func (g *Gemini) Generate(ctx context.Context, prompt string) (string, error) {
	contents := []*genai.Content{
		{
			Role:  "user",
			Parts: []*genai.Part{{Text: prompt}},
		},
	}

	resp, err := g.client.Models.GenerateContent(ctx, g.model, contents, nil)
	if err != nil {
		return "", fmt.Errorf("Generate: generate content: %w", err)
	}

	text := resp.Text()
	if text == "" {
		return "", fmt.Errorf("Generate: empty response from model")
	}
	return text, nil
}
