package generation

import (
	"context"
	"errors"
	"log"

	genai "google.golang.org/genai"
)

// ErrEmptyResponse means the model answered but returned no usable candidate.
var ErrEmptyResponse = errors.New("generation: empty response from model")

// GeminiGenerator is a thin wrapper around the official genai client. It makes
// a single call per GeneratePlan invocation; the plan service owns the retry
// budget, so no retries happen here.
type GeminiGenerator struct {
	cli   *genai.Client
	model string
}

func NewGeminiGenerator(ctx context.Context, apiKey, model string) (*GeminiGenerator, error) {
	cli, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  apiKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return nil, err
	}
	return &GeminiGenerator{cli: cli, model: model}, nil
}

func (g *GeminiGenerator) Name() string { return "Gemini:" + g.model }

func (g *GeminiGenerator) Close() error { return nil }

// GeneratePlan sends the prompt pair and requests application/json output.
func (g *GeminiGenerator) GeneratePlan(ctx context.Context, systemPrompt, userPrompt string) (string, error) {
	log.Printf("Generation request (%s): %d prompt bytes", g.model, len(userPrompt))

	resp, err := g.cli.Models.GenerateContent(ctx, g.model,
		[]*genai.Content{{Parts: []*genai.Part{{Text: userPrompt}}}},
		&genai.GenerateContentConfig{
			SystemInstruction: &genai.Content{Parts: []*genai.Part{{Text: systemPrompt}}},
			ResponseMIMEType:  "application/json",
		},
	)
	if err != nil {
		return "", err
	}
	if len(resp.Candidates) == 0 || resp.Candidates[0].Content == nil || len(resp.Candidates[0].Content.Parts) == 0 {
		return "", ErrEmptyResponse
	}
	return resp.Candidates[0].Content.Parts[0].Text, nil
}
