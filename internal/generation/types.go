// Package generation talks to the recommendation backend: it builds the
// submit payload, issues the request, and decodes the (possibly
// double-encoded) response body into a structured recommendation.
package generation

import "context"

// Request is the immutable snapshot of the user's selection sent to the
// backend. Field names follow the backend's wire contract.
type Request struct {
	Brand             string   `json:"brand"`
	Models            []string `json:"models"`
	Features          []string `json:"features"`
	AdditionalContext string   `json:"additional_context"`
}

// Model is one recommended model card.
type Model struct {
	ModelName   string `json:"model_name"`
	Description string `json:"description"`
	PriceRange  string `json:"price_range"`
}

// Feature is one recommended feature card.
type Feature struct {
	FeatureName string `json:"feature_name"`
	Description string `json:"description"`
}

// BuyingSuggestions carries the closing suggestion and advice blocks.
type BuyingSuggestions struct {
	Suggestion string `json:"suggestion"`
	Advice     string `json:"advice"`
}

// Response is the decoded recommendation payload.
type Response struct {
	Brand             string            `json:"brand"`
	BrandOverview     string            `json:"brand_overview"`
	Models            []Model           `json:"models"`
	Features          []Feature         `json:"features"`
	BuyingSuggestions BuyingSuggestions `json:"buying_suggestions"`
	AdditionalContext string            `json:"additional_context,omitempty"`
}

// Generator produces a raw recommendation body for a request. The body is the
// backend's serialized answer; callers hand it to Decode for display.
type Generator interface {
	Generate(ctx context.Context, req Request) (string, error)
}
