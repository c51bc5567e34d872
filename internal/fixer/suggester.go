package fixer

import (
	"context"
	"fmt"

	"github.com/sanix-darker/revfix/internal/provider"
)

// ModelSuggester implements Suggester on top of an AIProvider. It owns
// prompt construction and response parsing; the provider only moves
// messages over the wire.
type ModelSuggester struct {
	Provider provider.AIProvider

	// Model overrides the provider's default model when non-empty.
	Model string
}

// fixTemperature keeps the model close to the original snippet instead
// of rewriting it freely.
var fixTemperature = 0.2

// NewModelSuggester wraps an AIProvider.
func NewModelSuggester(p provider.AIProvider, model string) *ModelSuggester {
	return &ModelSuggester{Provider: p, Model: model}
}

// SuggestFix asks the model to replace one snippet.
func (s *ModelSuggester) SuggestFix(ctx context.Context, req FixRequest) (*Suggestion, error) {
	resp, err := s.Provider.Complete(ctx, provider.CompletionRequest{
		Model:       s.Model,
		Temperature: &fixTemperature,
		Messages: []provider.Message{
			{Role: provider.RoleSystem, Content: fixSystemPrompt},
			{Role: provider.RoleUser, Content: buildFixPrompt(req)},
		},
	})
	if err != nil {
		return nil, fmt.Errorf("model call for %s: %w", req.Path, err)
	}
	return parseSuggestion(resp.Content), nil
}

// SuggestFileFixes asks the model for fixes to every comment on one file
// in a single call.
func (s *ModelSuggester) SuggestFileFixes(ctx context.Context, req FileFixRequest) ([]BatchFix, error) {
	resp, err := s.Provider.Complete(ctx, provider.CompletionRequest{
		Model:       s.Model,
		Temperature: &fixTemperature,
		Messages: []provider.Message{
			{Role: provider.RoleSystem, Content: batchSystemPrompt},
			{Role: provider.RoleUser, Content: buildBatchPrompt(req)},
		},
	})
	if err != nil {
		return nil, fmt.Errorf("batch model call for %s: %w", req.Path, err)
	}
	return parseBatchResponse(resp.Content), nil
}
