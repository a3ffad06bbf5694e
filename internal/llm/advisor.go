// ABOUTME: OpenAI-compatible advisory client for cosmetic text rewriting
// ABOUTME: Single attempt with a hard timeout; callers degrade on any error
package llm

import (
	"context"
	"fmt"
	"os"
	"strings"
	"time"

	openai "github.com/sashabaranov/go-openai"
	"github.com/settleflow/settleflow/internal/models"
)

const (
	// DefaultChatModel is the default model for advisory completions
	DefaultChatModel = "ai/granite-4.0-micro"
	// DefaultTimeout bounds a single advisory call
	DefaultTimeout = 10 * time.Second
)

// ClientConfig holds configuration for the advisory client
type ClientConfig struct {
	APIKey    string
	BaseURL   string // OpenAI-compatible endpoint, e.g. a local model runner
	ChatModel string
	Timeout   time.Duration
}

// DefaultConfig returns the default advisory configuration
func DefaultConfig(apiKey string) *ClientConfig {
	chatModel := os.Getenv("SETTLE_OPENAI_MODEL")
	if chatModel == "" {
		chatModel = DefaultChatModel
	}

	return &ClientConfig{
		APIKey:    apiKey,
		BaseURL:   os.Getenv("OPENAI_BASE_URL"),
		ChatModel: chatModel,
		Timeout:   DefaultTimeout,
	}
}

// Client wraps the OpenAI API for advisory text generation. Advisory output
// is never authoritative: one attempt per call, no retries, and every error
// is returned to the caller for silent fallback.
type Client struct {
	client    *openai.Client
	chatModel string
	timeout   time.Duration
}

// NewClient creates an advisory client with the given API key using default
// configuration
func NewClient(apiKey string) (*Client, error) {
	return NewClientWithConfig(DefaultConfig(apiKey))
}

// NewClientWithConfig creates an advisory client with custom configuration
func NewClientWithConfig(config *ClientConfig) (*Client, error) {
	if config.APIKey == "" {
		return nil, fmt.Errorf("OpenAI API key is required")
	}

	cfg := openai.DefaultConfig(config.APIKey)
	if config.BaseURL != "" {
		cfg.BaseURL = config.BaseURL
	}

	timeout := config.Timeout
	if timeout <= 0 {
		timeout = DefaultTimeout
	}

	return &Client{
		client:    openai.NewClientWithConfig(cfg),
		chatModel: config.ChatModel,
		timeout:   timeout,
	}, nil
}

// PolishOpener rewrites the round-1 rationale into a professional opener.
// Satisfies negotiation.Advisor.
func (c *Client) PolishOpener(ctx context.Context, facts models.CaseFacts, tactic models.Tactic, offer int64, rationale string) (string, error) {
	prompt := fmt.Sprintf(
		"Rewrite as professional negotiation opener (2 sentences):\n"+
			"Case: ₹%d claim, %d days delay.\n"+
			"Strategy: %s, offer ₹%d.\n"+
			"Tone: Firm but professional. Cite MSME Act if relevant.",
		facts.ClaimAmount, facts.DelayDays, tactic.Name, offer)

	return c.complete(ctx, prompt, 80, 0.3)
}

// DraftRecital produces three formal sentences for the settlement draft.
// Satisfies draft.Advisor.
func (c *Client) DraftRecital(ctx context.Context, principal, settlement int64, prob models.Probability) (string, error) {
	prompt := fmt.Sprintf(
		"Draft 3 formal legal sentences: Settlement of ₹%d against principal claim ₹%d. "+
			"Emphasize amicable resolution and preservation of business relationship.",
		settlement, principal)

	return c.complete(ctx, prompt, 80, 0.2)
}

// complete runs exactly one bounded chat completion
func (c *Client) complete(ctx context.Context, prompt string, maxTokens int, temperature float32) (string, error) {
	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	resp, err := c.client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model: c.chatModel,
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleUser, Content: prompt},
		},
		MaxTokens:   maxTokens,
		Temperature: temperature,
	})
	if err != nil {
		return "", fmt.Errorf("advisory completion failed: %w", err)
	}
	if len(resp.Choices) == 0 {
		return "", fmt.Errorf("advisory completion returned no choices")
	}

	return strings.TrimSpace(resp.Choices[0].Message.Content), nil
}
