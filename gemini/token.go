package gemini

import (
	"context"

	"github.com/fwojciec/sitescribe"
	"google.golang.org/genai"
	"google.golang.org/genai/tokenizer"
)

// charsPerToken is the rough ratio used when no tokenizer is loaded.
const charsPerToken = 4

var _ sitescribe.TokenCounter = (*TokenCounter)(nil)

// TokenCounter counts prompt tokens with the Gemini local tokenizer.
// A TokenCounter without a tokenizer estimates from the text length.
type TokenCounter struct {
	tok *tokenizer.LocalTokenizer
}

// NewTokenCounter creates a new TokenCounter for the given model.
// An empty model selects DefaultModel.
func NewTokenCounter(model string) (*TokenCounter, error) {
	if model == "" {
		model = DefaultModel
	}
	tok, err := tokenizer.NewLocalTokenizer(model)
	if err != nil {
		return nil, sitescribe.Errorf(sitescribe.EINVALID, "loading tokenizer for %s: %v", model, err)
	}
	return &TokenCounter{tok: tok}, nil
}

// NewEstimatingTokenCounter creates a TokenCounter that never loads a
// tokenizer and estimates four characters per token.
func NewEstimatingTokenCounter() *TokenCounter {
	return &TokenCounter{}
}

// CountTokens counts the number of tokens in the given text.
func (tc *TokenCounter) CountTokens(ctx context.Context, text string) (int, error) {
	if err := ctx.Err(); err != nil {
		return 0, err
	}
	if text == "" {
		return 0, nil
	}
	if tc.tok == nil {
		return (len(text) + charsPerToken - 1) / charsPerToken, nil
	}

	result, err := tc.tok.CountTokens([]*genai.Content{
		genai.NewContentFromText(text, genai.RoleUser),
	}, nil)
	if err != nil {
		return 0, sitescribe.Errorf(sitescribe.EINTERNAL, "counting tokens: %v", err)
	}
	return int(result.TotalTokens), nil
}
