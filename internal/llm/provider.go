// Package llm talks to hosted language models. Every backend answers the
// same Request, optionally constrained to a JSON schema.
package llm

import (
	"context"
	"encoding/json"
)

// Provider generates a completion for a request
type Provider interface {
	Generate(ctx context.Context, req Request) (*Response, error)
	ModelID() string
}

// Request is a single prompt sent to a model
type Request struct {
	System   string
	Messages []Message

	// Schema constrains the answer to JSON. Nil asks for plain text.
	Schema *Schema

	MaxTokens   int
	Temperature float64
}

// Message is one conversation turn
type Message struct {
	Role    Role
	Content string
}

// Role identifies who sent a message
type Role string

const (
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
)

// Schema names a JSON schema definition
type Schema struct {
	Name        string
	Description string
	Definition  map[string]any
}

// Response is a model answer. Content holds validated JSON when the request
// carried a schema and the raw text otherwise.
type Response struct {
	Content    json.RawMessage
	Usage      Usage
	Model      string
	StopReason string
}

// Text returns the content as a plain string
func (r *Response) Text() string {
	return string(r.Content)
}

// Usage counts tokens for one call
type Usage struct {
	InputTokens  int
	OutputTokens int
	TotalTokens  int
}

// UserPrompt builds a single-turn request
func UserPrompt(system, prompt string) Request {
	return Request{
		System:   system,
		Messages: []Message{{Role: RoleUser, Content: prompt}},
	}
}

// resolveModel expands a short alias, passing unknown names through
func resolveModel(name string, aliases map[string]string) string {
	if id, ok := aliases[name]; ok {
		return id
	}
	return name
}
