// Package api is the client for the roadmap learning backend.
package api

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/go-resty/resty/v2"

	"github.com/abhisek/trailhead/internal/logger"
)

// Config configures a Client.
type Config struct {
	BaseURL string
	Token   string
	Timeout time.Duration
}

// Client talks to the backend over HTTP. It satisfies quiz.Source and
// explain.Source.
type Client struct {
	http     *resty.Client
	validate *validator.Validate
	log      *logger.Logger
}

// New creates a Client. A nil log discards client logs.
func New(cfg Config, log *logger.Logger) *Client {
	if log == nil {
		log = logger.Nop()
	}
	rc := resty.New().
		SetBaseURL(strings.TrimRight(cfg.BaseURL, "/")).
		SetHeader("Accept", "application/json").
		SetLogger(log.SugaredLogger)
	if cfg.Timeout > 0 {
		rc.SetTimeout(cfg.Timeout)
	}
	if cfg.Token != "" {
		rc.SetAuthToken(cfg.Token)
	}
	return &Client{http: rc, validate: validator.New(), log: log.With("component", "api")}
}

// ErrUnauthorized is returned for 401 responses.
var ErrUnauthorized = errors.New("unauthorized")

// StatusError is a non-2xx response from the backend.
type StatusError struct {
	StatusCode int
	Message    string
}

func (e *StatusError) Error() string {
	if e.Message == "" {
		return fmt.Sprintf("backend returned %d %s", e.StatusCode, http.StatusText(e.StatusCode))
	}
	return fmt.Sprintf("backend returned %d: %s", e.StatusCode, e.Message)
}

// Is makes a 401 StatusError match ErrUnauthorized.
func (e *StatusError) Is(target error) bool {
	return target == ErrUnauthorized && e.StatusCode == http.StatusUnauthorized
}

// errorBody is the backend's error envelope.
type errorBody struct {
	Success *bool  `json:"success"`
	Message string `json:"message"`
}

// do sends req and decodes a 2xx body into result. Transport failures and
// non-2xx statuses come back as errors; the latter as *StatusError.
func (c *Client) do(ctx context.Context, method, path string, body, result any) (*resty.Response, error) {
	req := c.http.R().
		SetContext(ctx).
		SetError(&errorBody{})
	if result != nil {
		req.SetResult(result)
	}
	if body != nil {
		req.SetBody(body)
	}

	start := time.Now()
	resp, err := req.Execute(method, path)
	if err != nil {
		c.log.Warn("request failed", "method", method, "path", path, "error", err.Error())
		return nil, fmt.Errorf("%s %s: %w", method, path, err)
	}
	c.log.Debug("request", "method", method, "path", path,
		"status", resp.StatusCode(), "latency_ms", time.Since(start).Milliseconds())

	if resp.IsError() {
		serr := &StatusError{StatusCode: resp.StatusCode()}
		if eb, ok := resp.Error().(*errorBody); ok {
			serr.Message = eb.Message
		}
		return resp, serr
	}
	return resp, nil
}
