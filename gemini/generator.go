// Package gemini implements text generation and token counting with Google Gemini.
package gemini

import (
	"context"
	"strings"

	"github.com/fwojciec/sitescribe"
	"google.golang.org/genai"
)

// DefaultModel is the model used when none is configured.
const DefaultModel = "gemini-2.5-flash"

// DefaultTemperature is used when a request leaves Temperature at zero.
const DefaultTemperature = float32(0.7)

// Ensure Generator implements sitescribe.Generator at compile time.
var _ sitescribe.Generator = (*Generator)(nil)

// Generator implements sitescribe.Generator using Google Gemini.
type Generator struct {
	client *genai.Client
	model  string
}

// NewGenerator creates a new Generator. An empty model selects DefaultModel.
func NewGenerator(client *genai.Client, model string) *Generator {
	if model == "" {
		model = DefaultModel
	}
	return &Generator{client: client, model: model}
}

// NewClient creates a Gemini API client authenticated with apiKey.
func NewClient(ctx context.Context, apiKey string) (*genai.Client, error) {
	if apiKey == "" {
		return nil, sitescribe.Errorf(sitescribe.EINVALID, "Gemini API key required (set GEMINI_API_KEY)")
	}
	return genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  apiKey,
		Backend: genai.BackendGeminiAPI,
	})
}

// Model returns the model name requests are sent to.
func (g *Generator) Model() string {
	return g.model
}

// Generate sends the request to Gemini and returns the response text.
func (g *Generator) Generate(ctx context.Context, req sitescribe.GenerateRequest) (string, error) {
	if strings.TrimSpace(req.Prompt) == "" {
		return "", sitescribe.Errorf(sitescribe.EINVALID, "prompt required")
	}

	result, err := g.client.Models.GenerateContent(ctx, g.model,
		[]*genai.Content{{
			Role:  genai.RoleUser,
			Parts: []*genai.Part{{Text: req.Prompt}},
		}},
		BuildConfig(req),
	)
	if err != nil {
		if ctx.Err() != nil {
			return "", ctx.Err()
		}
		return "", sitescribe.Errorf(sitescribe.EFETCH, "gemini generate: %v", err)
	}
	if result == nil {
		return "", sitescribe.Errorf(sitescribe.EINTERNAL, "gemini returned nil result")
	}

	text := result.Text()
	if strings.TrimSpace(text) == "" {
		return "", sitescribe.Errorf(sitescribe.EINTERNAL, "gemini returned an empty response")
	}
	return text, nil
}

// BuildConfig returns the GenerateContentConfig for a request.
func BuildConfig(req sitescribe.GenerateRequest) *genai.GenerateContentConfig {
	temp := req.Temperature
	if temp == 0 {
		temp = DefaultTemperature
	}

	config := &genai.GenerateContentConfig{
		Temperature: &temp,
	}
	if req.System != "" {
		config.SystemInstruction = &genai.Content{
			Parts: []*genai.Part{{Text: req.System}},
		}
	}
	if req.MaxTokens > 0 {
		config.MaxOutputTokens = int32(req.MaxTokens)
	}
	if req.JSON {
		config.ResponseMIMEType = "application/json"
	}
	return config
}
