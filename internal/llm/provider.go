package llm

import (
	"context"
	"encoding/json"
	"strings"
)

// Provider generates structured completions.
type Provider interface {
	// Generate sends the request and returns the model output. When
	// req.Schema is set, Content is JSON validated against it.
	Generate(ctx context.Context, req Request) (*Response, error)

	// ModelID returns the configured model identifier.
	ModelID() string
}

// Request describes a single completion.
type Request struct {
	System   string
	Messages []Message

	// Schema requests structured output. Nil means free text.
	Schema *Schema

	MaxTokens int

	// Temperature in [0, 1]. Zero leaves the vendor default.
	Temperature float64
}

// Message is one turn of the conversation.
type Message struct {
	Role    Role
	Content string
}

// Role is the message sender role.
type Role string

const (
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
)

// Schema is a named JSON Schema for structured output.
type Schema struct {
	// Name is kebab-case, e.g. "answer-explanation".
	Name        string
	Description string
	Definition  map[string]any
}

// Stop reasons normalized across vendors.
const (
	StopEnd       = "end"
	StopMaxTokens = "max_tokens"
)

// Response is the model output.
type Response struct {
	Content    json.RawMessage
	Usage      Usage
	Model      string
	StopReason string
}

// Usage is the token accounting for one request.
type Usage struct {
	InputTokens  int
	OutputTokens int
	TotalTokens  int
}

func newUsage(in, out int) Usage {
	return Usage{InputTokens: in, OutputTokens: out, TotalTokens: in + out}
}

// finish validates content and assembles a Response. Truncated output is
// reported as ErrMaxTokensExceeded before schema validation runs.
func finish(req Request, content string, model, stop string, usage Usage) (*Response, error) {
	raw := json.RawMessage(strings.TrimSpace(content))
	if stop == StopMaxTokens {
		return nil, &ErrMaxTokensExceeded{Content: raw}
	}
	if err := validateResponse(req.Schema, raw); err != nil {
		return nil, err
	}
	return &Response{Content: raw, Usage: usage, Model: model, StopReason: stop}, nil
}

// resolveModel maps a friendly alias onto a vendor model ID. Unknown names
// pass through unchanged.
func resolveModel(name string, aliases map[string]string) string {
	if id, ok := aliases[name]; ok {
		return id
	}
	return name
}
