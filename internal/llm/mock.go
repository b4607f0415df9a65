package llm

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"
)

// MockResponse is a canned response for MockProvider.
type MockResponse struct {
	Content json.RawMessage
	Usage   Usage
	Err     error
}

// MockProvider replays canned responses in FIFO order and records calls.
// With Synthesize set, an empty queue yields a placeholder document built
// from the request schema instead of an error.
type MockProvider struct {
	mu         sync.Mutex
	responses  []MockResponse
	Synthesize bool
	Calls      []Request
}

// NewMockProvider creates a MockProvider with the given canned responses.
func NewMockProvider(responses ...MockResponse) *MockProvider {
	return &MockProvider{responses: responses}
}

func (m *MockProvider) Generate(_ context.Context, req Request) (*Response, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.Calls = append(m.Calls, req)

	var next MockResponse
	switch {
	case len(m.responses) > 0:
		next = m.responses[0]
		m.responses = m.responses[1:]
	case m.Synthesize:
		doc, err := json.Marshal(placeholder(req.Schema))
		if err != nil {
			return nil, err
		}
		next = MockResponse{Content: doc}
	default:
		return nil, &ErrProviderUnavailable{}
	}

	if next.Err != nil {
		return nil, next.Err
	}
	return &Response{Content: next.Content, Usage: next.Usage, Model: "mock", StopReason: StopEnd}, nil
}

func (m *MockProvider) ModelID() string { return "mock" }

// AddResponse queues another canned response.
func (m *MockProvider) AddResponse(resp MockResponse) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.responses = append(m.responses, resp)
}

// CallCount returns the number of Generate calls made.
func (m *MockProvider) CallCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.Calls)
}

func placeholder(schema *Schema) any {
	if schema == nil {
		return "mock response"
	}
	return placeholderValue(schema.Name, schema.Definition)
}

func placeholderValue(name string, def map[string]any) any {
	if enum := stringsOf(def["enum"]); len(enum) > 0 {
		return enum[0]
	}
	switch stringOf(def["type"]) {
	case "object":
		props, _ := def["properties"].(map[string]any)
		out := make(map[string]any, len(props))
		for key, v := range props {
			sub, _ := v.(map[string]any)
			out[key] = placeholderValue(key, sub)
		}
		return out
	case "array":
		items, _ := def["items"].(map[string]any)
		return []any{placeholderValue(name, items)}
	case "integer", "number":
		return 0
	case "boolean":
		return false
	default:
		return fmt.Sprintf("Mock %s.", name)
	}
}
