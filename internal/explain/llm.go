package explain

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/abhisek/trailhead/internal/llm"
)

// ExplanationSchema is the structured output expected from the model.
var ExplanationSchema = &llm.Schema{
	Name:        "answer-explanation",
	Description: "Explanation of why the correct answer to a quiz question is correct",
	Definition: map[string]any{
		"type": "object",
		"properties": map[string]any{
			"explanation": map[string]any{
				"type":        "string",
				"description": "2-4 sentence explanation addressed to the learner",
			},
		},
		"required":             []any{"explanation"},
		"additionalProperties": false,
	},
}

const systemPrompt = `You are a patient tutor reviewing a learner's quiz. Explain concepts plainly and briefly, without repeating the question back.`

// LLMConfig holds generation settings for LLMSource.
type LLMConfig struct {
	MaxTokens   int
	Temperature float64
}

// DefaultLLMConfig returns defaults for explanation generation.
func DefaultLLMConfig() LLMConfig {
	return LLMConfig{MaxTokens: 400, Temperature: 0.3}
}

// LLMSource generates explanations with an llm.Provider.
type LLMSource struct {
	provider llm.Provider
	cfg      LLMConfig
}

// NewLLMSource creates an LLM-backed explanation source.
func NewLLMSource(provider llm.Provider, cfg LLMConfig) *LLMSource {
	return &LLMSource{provider: provider, cfg: cfg}
}

type explanationOutput struct {
	Explanation string `json:"explanation"`
}

func (s *LLMSource) Explain(ctx context.Context, req Request) (string, error) {
	ctx = llm.WithPurpose(ctx, "explanation")

	resp, err := s.provider.Generate(ctx, llm.Request{
		System:      systemPrompt,
		Messages:    []llm.Message{{Role: llm.RoleUser, Content: buildUserMessage(req)}},
		Schema:      ExplanationSchema,
		MaxTokens:   s.cfg.MaxTokens,
		Temperature: s.cfg.Temperature,
	})
	if err != nil {
		return "", fmt.Errorf("explanation generation: %w", err)
	}

	var out explanationOutput
	if err := json.Unmarshal(resp.Content, &out); err != nil {
		return "", fmt.Errorf("parse explanation response: %w", err)
	}
	text := strings.TrimSpace(out.Explanation)
	if text == "" {
		return "", ErrEmpty
	}
	return text, nil
}

func buildUserMessage(req Request) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Question: %s\n", req.Question)
	fmt.Fprintf(&b, "Correct answer: %s\n", req.CorrectAnswer)
	fmt.Fprintf(&b, "Learner's answer: %s\n", req.SelectedAnswer)
	b.WriteString("\nInstructions:\n")
	if req.SelectedAnswer == NotAnswered {
		b.WriteString("The learner skipped this question. Explain why the correct answer is right.")
	} else if req.SelectedAnswer == req.CorrectAnswer {
		b.WriteString("The learner answered correctly. Reinforce why the answer is right.")
	} else {
		b.WriteString("The learner answered incorrectly. Explain why their answer is wrong and why the correct answer is right.")
	}
	return b.String()
}
