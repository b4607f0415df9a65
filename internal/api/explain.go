package api

import (
	"context"
	"fmt"
	"net/http"
	"strings"

	"github.com/abhisek/trailhead/internal/explain"
)

type explanationResponse struct {
	Explanation string `json:"explanation"`
}

// Explain asks the backend's AI endpoint for an explanation.
func (c *Client) Explain(ctx context.Context, req explain.Request) (string, error) {
	if err := c.validate.Struct(req); err != nil {
		return "", fmt.Errorf("explanation request: %w", err)
	}

	var out explanationResponse
	if _, err := c.do(ctx, http.MethodPost, "/ai/explanation", req, &out); err != nil {
		return "", err
	}
	text := strings.TrimSpace(out.Explanation)
	if text == "" {
		return "", explain.ErrEmpty
	}
	return text, nil
}
