// Package ai wraps the Anthropic API for the plan generation engine.
package ai

import (
	"context"
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/anthropics/anthropic-sdk-go"
	"github.com/anthropics/anthropic-sdk-go/option"
	"golang.org/x/sync/semaphore"
	"golang.org/x/time/rate"
)

const (
	// ModelSonnet is the high-end model used for plan generation
	ModelSonnet = "claude-sonnet-4-5-20250929"

	// ModelHaiku is the cost-efficient model, usable via FOCUSDAY_MODEL
	ModelHaiku = "claude-3-5-haiku-20241022"
)

// DefaultModel returns the generation model, checking FOCUSDAY_MODEL first
func DefaultModel() string {
	if model := os.Getenv("FOCUSDAY_MODEL"); model != "" {
		return model
	}
	return ModelSonnet
}

// TextGenerator is the capability the advisor consumes: one generation
// call producing raw text. Implemented by Client; tests substitute fakes.
type TextGenerator interface {
	Generate(ctx context.Context, system, prompt string) (string, error)
}

// RequestError is a transport failure carrying the HTTP status the
// service answered with. StatusCode is 0 when the request never got an
// HTTP answer (connection failure, local timeout).
type RequestError struct {
	StatusCode int
	Err        error
}

func (e *RequestError) Error() string {
	if e.StatusCode > 0 {
		return fmt.Sprintf("generation request failed with status %d: %v", e.StatusCode, e.Err)
	}
	return fmt.Sprintf("generation request failed: %v", e.Err)
}

func (e *RequestError) Unwrap() error { return e.Err }

// Config holds client configuration
type Config struct {
	APIKey             string        // Anthropic API key (if empty, reads ANTHROPIC_API_KEY)
	Model              string        // Model to use (default: DefaultModel())
	MaxTokens          int64         // Response token budget (default: 4096)
	Timeout            time.Duration // Per-request timeout (default: 60s)
	MaxConcurrentCalls int           // Concurrent request cap (default: 3, 0 = unlimited)
	RequestsPerMinute  int           // Request rate cap (default: 30, 0 = unlimited)
}

// Client makes generation calls against the Anthropic API. There is no
// retry loop here: the engine makes exactly one advisory attempt per
// request, so transient failures surface to the caller for classification.
type Client struct {
	client    *anthropic.Client
	model     string
	maxTokens int64
	timeout   time.Duration
	sem       *semaphore.Weighted
	limiter   *rate.Limiter
}

// Compile-time check that Client implements TextGenerator
var _ TextGenerator = (*Client)(nil)

// NewClient creates a new Anthropic-backed text generator
func NewClient(cfg *Config) (*Client, error) {
	if cfg == nil {
		cfg = &Config{}
	}

	apiKey := cfg.APIKey
	if apiKey == "" {
		apiKey = os.Getenv("ANTHROPIC_API_KEY")
		if apiKey == "" {
			return nil, fmt.Errorf("ANTHROPIC_API_KEY not set")
		}
	}

	model := cfg.Model
	if model == "" {
		model = DefaultModel()
	}

	maxTokens := cfg.MaxTokens
	if maxTokens == 0 {
		maxTokens = 4096
	}

	timeout := cfg.Timeout
	if timeout == 0 {
		timeout = 60 * time.Second
	}

	var sem *semaphore.Weighted
	maxConcurrent := cfg.MaxConcurrentCalls
	if maxConcurrent == 0 {
		maxConcurrent = 3
	}
	if maxConcurrent > 0 {
		sem = semaphore.NewWeighted(int64(maxConcurrent))
	}

	var limiter *rate.Limiter
	rpm := cfg.RequestsPerMinute
	if rpm == 0 {
		rpm = 30
	}
	if rpm > 0 {
		limiter = rate.NewLimiter(rate.Every(time.Minute/time.Duration(rpm)), rpm)
	}

	client := anthropic.NewClient(option.WithAPIKey(apiKey))

	return &Client{
		client:    &client,
		model:     model,
		maxTokens: maxTokens,
		timeout:   timeout,
		sem:       sem,
		limiter:   limiter,
	}, nil
}

// Generate makes a single generation call and returns the concatenated
// text content of the response. Transport failures are returned as
// *RequestError so callers can classify by HTTP status.
func (c *Client) Generate(ctx context.Context, system, prompt string) (string, error) {
	if c.sem != nil {
		if err := c.sem.Acquire(ctx, 1); err != nil {
			return "", &RequestError{Err: fmt.Errorf("acquiring request slot: %w", err)}
		}
		defer c.sem.Release(1)
	}

	if c.limiter != nil {
		if err := c.limiter.Wait(ctx); err != nil {
			return "", &RequestError{Err: fmt.Errorf("waiting for rate limiter: %w", err)}
		}
	}

	callCtx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	params := anthropic.MessageNewParams{
		Model:     anthropic.Model(c.model),
		MaxTokens: c.maxTokens,
		Messages: []anthropic.MessageParam{
			anthropic.NewUserMessage(anthropic.NewTextBlock(prompt)),
		},
	}
	if system != "" {
		params.System = []anthropic.TextBlockParam{{Text: system}}
	}

	resp, err := c.client.Messages.New(callCtx, params)
	if err != nil {
		var apiErr *anthropic.Error
		if errors.As(err, &apiErr) {
			return "", &RequestError{StatusCode: apiErr.StatusCode, Err: err}
		}
		return "", &RequestError{Err: err}
	}

	var text string
	for _, block := range resp.Content {
		if block.Type == "text" {
			text += block.Text
		}
	}
	return text, nil
}
