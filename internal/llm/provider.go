// Package llm is a thin, provider-neutral layer over the LLM SDKs. A
// request carries an optional JSON Schema and the response is the JSON
// document the model produced, validated against that schema.
package llm

import (
	"context"
	"encoding/json"
)

// Provider generates one structured response per call.
type Provider interface {
	// Generate sends req and returns the model output. When req.Schema is
	// set the provider asks for native structured output and validates the
	// result before returning it.
	Generate(ctx context.Context, req Request) (*Response, error)

	// ModelID is the resolved model identifier.
	ModelID() string
}

// Request is a single prompt.
type Request struct {
	System   string
	Messages []Message

	// Schema constrains the output. Without it Content holds raw text.
	Schema *Schema

	MaxTokens int

	// Temperature in [0, 1]. Zero leaves the provider default.
	Temperature float64
}

// Message is one conversation turn.
type Message struct {
	Role    Role
	Content string
}

// Role of a message sender.
type Role string

const (
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
)

// UserPrompt builds the common single-turn request.
func UserPrompt(system, prompt string, schema *Schema, maxTokens int) Request {
	return Request{
		System:    system,
		Messages:  []Message{{Role: RoleUser, Content: prompt}},
		Schema:    schema,
		MaxTokens: maxTokens,
	}
}

// Schema is a named JSON Schema. Name doubles as the cache key for the
// compiled schema, so two schemas must not share a name.
type Schema struct {
	Name        string
	Description string
	Definition  map[string]any
}

// Response is the output of a Generate call.
type Response struct {
	Content json.RawMessage
	Usage   Usage
	Model   string

	// StopReason is "end" or "max_tokens".
	StopReason string
}

// Usage is the token count of one request.
type Usage struct {
	InputTokens  int
	OutputTokens int
	TotalTokens  int
}
