package gateway

import (
	"context"

	"github.com/sashabaranov/go-openai"
)

// Message roles, matching the gateway wire contract.
const (
	RoleSystem = openai.ChatMessageRoleSystem
	RoleUser   = openai.ChatMessageRoleUser
)

// Message is one entry of a completion request.
type Message struct {
	Role    string
	Content string
}

// Request describes a completion call. Model selection belongs to the
// client; callers only choose sampling parameters and messages.
type Request struct {
	Messages    []Message
	Temperature float32
	MaxTokens   int
}

// Client issues completion requests against an LLM gateway.
type Client interface {
	// Complete performs a non-streaming completion and returns the
	// content of the first choice.
	Complete(ctx context.Context, req Request) (string, error)
	// Stream performs a streaming completion. The returned stream is
	// single-pass and finite.
	Stream(ctx context.Context, req Request) (TokenStream, error)
}

// OpenAIClient talks to any OpenAI-compatible gateway.
type OpenAIClient struct {
	client *openai.Client
	model  string
}

// NewOpenAIClient builds a client for the given credentials. baseURL may
// be empty to use the default endpoint.
func NewOpenAIClient(apiKey, baseURL, model string) *OpenAIClient {
	cfg := openai.DefaultConfig(apiKey)
	if baseURL != "" {
		cfg.BaseURL = baseURL
	}
	return &OpenAIClient{
		client: openai.NewClientWithConfig(cfg),
		model:  model,
	}
}

func (c *OpenAIClient) buildRequest(req Request, stream bool) openai.ChatCompletionRequest {
	messages := make([]openai.ChatCompletionMessage, len(req.Messages))
	for i, m := range req.Messages {
		messages[i] = openai.ChatCompletionMessage{Role: m.Role, Content: m.Content}
	}
	return openai.ChatCompletionRequest{
		Model:       c.model,
		Messages:    messages,
		Temperature: req.Temperature,
		MaxTokens:   req.MaxTokens,
		Stream:      stream,
	}
}

func (c *OpenAIClient) Complete(ctx context.Context, req Request) (string, error) {
	resp, err := c.client.CreateChatCompletion(ctx, c.buildRequest(req, false))
	if err != nil {
		return "", &TransportError{Op: "completion", Err: err}
	}
	if len(resp.Choices) == 0 {
		return "", &MalformedResponseError{Reason: "response has no choices"}
	}
	content := resp.Choices[0].Message.Content
	if content == "" {
		return "", &MalformedResponseError{Reason: "first choice has empty content"}
	}
	return content, nil
}

func (c *OpenAIClient) Stream(ctx context.Context, req Request) (TokenStream, error) {
	stream, err := c.client.CreateChatCompletionStream(ctx, c.buildRequest(req, true))
	if err != nil {
		return nil, &TransportError{Op: "stream open", Err: err}
	}
	return &completionStream{inner: stream}, nil
}
