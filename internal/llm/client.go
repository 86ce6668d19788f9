// ABOUTME: OpenAI-compatible chat completion client with tool calling
// ABOUTME: Works against OpenAI or OpenRouter depending on the configured base URL
package llm

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/harper/todo-agent/internal/tools"
	"github.com/harper/todo-agent/internal/util"
	openai "github.com/sashabaranov/go-openai"
)

const (
	// DefaultModel is the default model for chat completions
	DefaultModel = "gpt-3.5-turbo"
	// DefaultBaseURL is the OpenAI API endpoint
	DefaultBaseURL = "https://api.openai.com/v1"
)

// Config holds configuration for the completion client
type Config struct {
	APIKey     string
	BaseURL    string
	Model      string
	Timeout    time.Duration
	MaxRetries int
	RetryDelay time.Duration
}

// DefaultConfig returns the default client configuration for apiKey
func DefaultConfig(apiKey string) *Config {
	return &Config{
		APIKey:     apiKey,
		BaseURL:    DefaultBaseURL,
		Model:      DefaultModel,
		Timeout:    30 * time.Second,
		MaxRetries: 3,
		RetryDelay: 2 * time.Second,
	}
}

// Client wraps the OpenAI API client with retry logic
type Client struct {
	client     *openai.Client
	model      string
	timeout    time.Duration
	maxRetries int
	retryDelay time.Duration
}

// NewClient creates a completion client from config
func NewClient(config *Config) (*Client, error) {
	if config == nil || config.APIKey == "" {
		return nil, fmt.Errorf("an OpenAI or OpenRouter API key is required")
	}

	oc := openai.DefaultConfig(config.APIKey)
	if config.BaseURL != "" {
		oc.BaseURL = config.BaseURL
	}

	model := config.Model
	if model == "" {
		model = DefaultModel
	}
	timeout := config.Timeout
	if timeout <= 0 {
		timeout = 30 * time.Second
	}

	return &Client{
		client:     openai.NewClientWithConfig(oc),
		model:      model,
		timeout:    timeout,
		maxRetries: config.MaxRetries,
		retryDelay: config.RetryDelay,
	}, nil
}

// Model returns the configured model name
func (c *Client) Model() string {
	return c.model
}

// Complete sends the conversation with the available tools and returns the
// model's reply, which may carry tool calls instead of content
func (c *Client) Complete(ctx context.Context, messages []openai.ChatCompletionMessage, specs []openai.Tool) (openai.ChatCompletionMessage, error) {
	var reply openai.ChatCompletionMessage

	err := util.Retry(ctx, c.maxRetries, c.retryDelay, func(int) error {
		callCtx, cancel := context.WithTimeout(ctx, c.timeout)
		defer cancel()

		req := openai.ChatCompletionRequest{
			Model:       c.model,
			Messages:    messages,
			Temperature: 0.2,
		}
		if len(specs) > 0 {
			req.Tools = specs
		}

		resp, err := c.client.CreateChatCompletion(callCtx, req)
		if err != nil {
			if isPermanent(err) {
				return util.Permanent(err)
			}
			return err
		}
		if len(resp.Choices) == 0 {
			return fmt.Errorf("no completion choices returned")
		}

		reply = resp.Choices[0].Message
		return nil
	})
	if err != nil {
		return openai.ChatCompletionMessage{}, fmt.Errorf("chat completion failed: %w", err)
	}
	return reply, nil
}

// isPermanent reports client errors that retrying cannot fix
func isPermanent(err error) bool {
	var apiErr *openai.APIError
	if errors.As(err, &apiErr) {
		return apiErr.HTTPStatusCode >= 400 && apiErr.HTTPStatusCode < 500 &&
			apiErr.HTTPStatusCode != http.StatusTooManyRequests
	}
	return false
}

// ToolSpecs renders tool definitions as OpenAI function tools
func ToolSpecs(defs []tools.Definition) []openai.Tool {
	specs := make([]openai.Tool, 0, len(defs))
	for _, def := range defs {
		specs = append(specs, openai.Tool{
			Type: openai.ToolTypeFunction,
			Function: &openai.FunctionDefinition{
				Name:        def.Name,
				Description: def.Description,
				Parameters:  def.Schema(),
			},
		})
	}
	return specs
}
