package chat

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/pkg/errors"

	"github.com/forkful/forkful/store"
)

const (
	defaultAnthropicURL = "https://api.anthropic.com/v1/messages"
	anthropicVersion    = "2023-06-01"
	defaultModel        = "claude-3-5-sonnet-20241022"
	maxReplyTokens      = 1024
)

// ModelReply is the parsed output of one completion call: the model's plain
// text plus zero or more tool invocations, in the order they appeared.
type ModelReply struct {
	Text            string
	ToolInvocations []store.ToolInvocation
}

// ModelClient is the external completion capability. Implementations perform
// exactly one call per Complete invocation; retries are the caller's decision.
type ModelClient interface {
	Complete(ctx context.Context, systemPrompt string, history []store.Message, tools []ToolDefinition) (*ModelReply, error)
}

// AnthropicClient talks to the Anthropic Messages API.
type AnthropicClient struct {
	apiKey string
	model  string
	url    string
	client *http.Client
}

// AnthropicOption customizes an AnthropicClient.
type AnthropicOption func(*AnthropicClient)

// WithEndpoint overrides the API URL. Used by tests.
func WithEndpoint(url string) AnthropicOption {
	return func(c *AnthropicClient) { c.url = url }
}

// WithModel overrides the model name.
func WithModel(model string) AnthropicOption {
	return func(c *AnthropicClient) {
		if model != "" {
			c.model = model
		}
	}
}

// NewAnthropicClient builds a client. timeout bounds the whole request; the
// zero value falls back to 45 seconds.
func NewAnthropicClient(apiKey string, timeout time.Duration, opts ...AnthropicOption) *AnthropicClient {
	if timeout <= 0 {
		timeout = 45 * time.Second
	}
	c := &AnthropicClient{
		apiKey: apiKey,
		model:  defaultModel,
		url:    defaultAnthropicURL,
		client: &http.Client{Timeout: timeout},
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

type anthropicRequest struct {
	Model     string             `json:"model"`
	MaxTokens int                `json:"max_tokens"`
	System    string             `json:"system,omitempty"`
	Messages  []anthropicMessage `json:"messages"`
	Tools     []ToolDefinition   `json:"tools,omitempty"`
}

type anthropicMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type anthropicContentBlock struct {
	Type  string          `json:"type"`
	Text  string          `json:"text,omitempty"`
	ID    string          `json:"id,omitempty"`
	Name  string          `json:"name,omitempty"`
	Input json.RawMessage `json:"input,omitempty"`
}

type anthropicResponse struct {
	Content []anthropicContentBlock `json:"content"`
	Error   *struct {
		Type    string `json:"type"`
		Message string `json:"message"`
	} `json:"error"`
}

// Complete sends one request: history as role+content pairs only (tool
// invocations are never echoed back), plus the system prompt and the catalog.
func (c *AnthropicClient) Complete(ctx context.Context, systemPrompt string, history []store.Message, tools []ToolDefinition) (*ModelReply, error) {
	if c.apiKey == "" {
		return nil, ErrModelNotConfigured
	}

	msgs := make([]anthropicMessage, 0, len(history))
	for _, m := range history {
		msgs = append(msgs, anthropicMessage{Role: m.Role, Content: m.Content})
	}
	body, err := json.Marshal(anthropicRequest{
		Model:     c.model,
		MaxTokens: maxReplyTokens,
		System:    systemPrompt,
		Messages:  msgs,
		Tools:     tools,
	})
	if err != nil {
		return nil, errors.Wrap(err, "marshal completion request")
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.url, bytes.NewReader(body))
	if err != nil {
		return nil, errors.Wrap(err, "build completion request")
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("x-api-key", c.apiKey)
	req.Header.Set("anthropic-version", anthropicVersion)

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, errors.Wrapf(ErrModelUnavailable, "completion request failed: %v", err)
	}
	defer resp.Body.Close()

	var apiResp anthropicResponse
	decodeErr := json.NewDecoder(resp.Body).Decode(&apiResp)

	switch {
	case resp.StatusCode == http.StatusUnauthorized || resp.StatusCode == http.StatusForbidden:
		return nil, ErrModelAuth
	case resp.StatusCode == http.StatusTooManyRequests || resp.StatusCode >= 500:
		return nil, errors.Wrapf(ErrModelUnavailable, "completion API returned %d", resp.StatusCode)
	case resp.StatusCode != http.StatusOK:
		msg := resp.Status
		if apiResp.Error != nil {
			msg = apiResp.Error.Message
		}
		return nil, errors.Errorf("completion API error (%d): %s", resp.StatusCode, msg)
	}
	if decodeErr != nil {
		return nil, errors.Wrapf(ErrModelUnavailable, "decode completion response: %v", decodeErr)
	}

	reply := &ModelReply{}
	for _, block := range apiResp.Content {
		switch block.Type {
		case "text":
			reply.Text += block.Text
		case "tool_use":
			reply.ToolInvocations = append(reply.ToolInvocations, store.ToolInvocation{
				ID:    block.ID,
				Name:  block.Name,
				Input: block.Input,
			})
		}
	}
	slog.Info("[MODEL REPLY]", "text_len", len(reply.Text), "tool_invocations", len(reply.ToolInvocations))
	return reply, nil
}

// String implements fmt.Stringer for log output without leaking content.
func (r *ModelReply) String() string {
	return fmt.Sprintf("ModelReply{text: %d bytes, invocations: %d}", len(r.Text), len(r.ToolInvocations))
}
