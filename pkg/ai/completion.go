// Package ai wraps the chat-completions endpoint used for transcript analysis.
package ai

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/openai/openai-go"
	"github.com/openai/openai-go/option"
	"github.com/openai/openai-go/shared"
	"go.uber.org/zap"
)

var (
	// ErrTimeout is returned when the endpoint does not answer within the configured timeout.
	ErrTimeout = errors.New("ai: completion timed out")
	// ErrEmptyResponse is returned when the endpoint answers without choices.
	ErrEmptyResponse = errors.New("ai: empty completion response")
)

// StatusError is a non-success HTTP answer from the endpoint.
type StatusError struct {
	StatusCode int
	Err        error
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("ai: completion endpoint returned status %d: %v", e.StatusCode, e.Err)
}

func (e *StatusError) Unwrap() error { return e.Err }

// CompletionRequest is a single system + user exchange.
type CompletionRequest struct {
	System    string
	User      string
	MaxTokens int
}

// Completer produces one completion for a request.
type Completer interface {
	Complete(ctx context.Context, req CompletionRequest) (string, error)
}

// ChatConfig configures ChatClient.
type ChatConfig struct {
	APIKey      string
	BaseURL     string
	Model       string
	Temperature float64
	MaxTokens   int
	Timeout     time.Duration
	HTTPClient  *http.Client
}

type chatCompletions interface {
	New(ctx context.Context, params openai.ChatCompletionNewParams, opts ...option.RequestOption) (*openai.ChatCompletion, error)
}

// ChatClient talks to any OpenAI compatible chat-completions endpoint.
type ChatClient struct {
	completions chatCompletions
	model       string
	temperature float64
	maxTokens   int
	timeout     time.Duration
	logger      *zap.Logger
}

// NewChatClient builds a client. Requests are never retried automatically.
func NewChatClient(cfg ChatConfig, logger *zap.Logger) (*ChatClient, error) {
	apiKey := strings.TrimSpace(cfg.APIKey)
	if apiKey == "" {
		return nil, errors.New("ai: api key required")
	}
	if cfg.Model == "" {
		return nil, errors.New("ai: model required")
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = 45 * time.Second
	}
	if cfg.MaxTokens <= 0 {
		cfg.MaxTokens = 1000
	}

	opts := []option.RequestOption{
		option.WithAPIKey(apiKey),
		option.WithMaxRetries(0),
	}
	if cfg.BaseURL != "" {
		opts = append(opts, option.WithBaseURL(strings.TrimRight(cfg.BaseURL, "/")+"/"))
	}
	if cfg.HTTPClient != nil {
		opts = append(opts, option.WithHTTPClient(cfg.HTTPClient))
	}

	client := openai.NewClient(opts...)
	return &ChatClient{
		completions: &client.Chat.Completions,
		model:       cfg.Model,
		temperature: cfg.Temperature,
		maxTokens:   cfg.MaxTokens,
		timeout:     cfg.Timeout,
		logger:      logger,
	}, nil
}

// Complete sends one request and returns the assistant message content
func (c *ChatClient) Complete(ctx context.Context, req CompletionRequest) (string, error) {
	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	maxTokens := req.MaxTokens
	if maxTokens <= 0 {
		maxTokens = c.maxTokens
	}

	params := openai.ChatCompletionNewParams{
		Model: shared.ChatModel(c.model),
		Messages: []openai.ChatCompletionMessageParamUnion{
			openai.SystemMessage(req.System),
			openai.UserMessage(req.User),
		},
		Temperature: openai.Float(c.temperature),
		MaxTokens:   openai.Int(int64(maxTokens)),
	}

	started := time.Now()
	completion, err := c.completions.New(ctx, params)
	if err != nil {
		if errors.Is(err, context.DeadlineExceeded) || errors.Is(ctx.Err(), context.DeadlineExceeded) {
			return "", fmt.Errorf("%w after %s", ErrTimeout, c.timeout)
		}
		var apiErr *openai.Error
		if errors.As(err, &apiErr) {
			return "", &StatusError{StatusCode: apiErr.StatusCode, Err: err}
		}
		return "", fmt.Errorf("ai: completion request failed: %w", err)
	}

	if len(completion.Choices) == 0 {
		return "", ErrEmptyResponse
	}
	content := completion.Choices[0].Message.Content

	if c.logger != nil {
		c.logger.Debug("completion received",
			zap.String("model", c.model),
			zap.Int("content_length", len(content)),
			zap.Duration("elapsed", time.Since(started)),
		)
	}
	return content, nil
}
