package llm

import (
	"context"
	"errors"
	"net/http"
	"time"

	openai "github.com/sashabaranov/go-openai"
	"go.uber.org/zap"

	"github.com/shriyashpachpande/medical-imaging-agent/internal/domain"
)

// Client talks to Groq's OpenAI-compatible chat completions API. It holds no
// credential: every call builds its own API client from the key it is given.
type Client struct {
	baseURL    string
	httpClient *http.Client
	log        *zap.Logger
}

type Option func(*Client)

// WithHTTPClient replaces the default http.Client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) {
		c.httpClient = hc
	}
}

func NewClient(baseURL string, log *zap.Logger, opts ...Option) *Client {
	c := &Client{
		baseURL: baseURL,
		log:     log,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Complete sends one user message with a text part and an image part and returns
// the first choice's content. Single attempt, no streaming.
func (c *Client) Complete(ctx context.Context, apiKey string, req domain.VisionRequest) (string, error) {
	cfg := openai.DefaultConfig(apiKey)
	if c.baseURL != "" {
		cfg.BaseURL = c.baseURL
	}
	if c.httpClient != nil {
		cfg.HTTPClient = c.httpClient
	}
	client := openai.NewClientWithConfig(cfg)

	start := time.Now()
	resp, err := client.CreateChatCompletion(ctx, NewChatRequest(req))
	if err != nil {
		return "", err
	}

	c.log.Debug("Chat completion finished",
		zap.String("model", req.Model),
		zap.String("id", resp.ID),
		zap.Int("total_tokens", resp.Usage.TotalTokens),
		zap.Duration("latency", time.Since(start)))

	if len(resp.Choices) == 0 {
		return "", errors.New("no response from vision model")
	}
	return resp.Choices[0].Message.Content, nil
}

// NewChatRequest builds the wire request for a VisionRequest.
func NewChatRequest(req domain.VisionRequest) openai.ChatCompletionRequest {
	return openai.ChatCompletionRequest{
		Model: req.Model,
		Messages: []openai.ChatCompletionMessage{
			{
				Role: openai.ChatMessageRoleUser,
				MultiContent: []openai.ChatMessagePart{
					{
						Type: openai.ChatMessagePartTypeText,
						Text: req.Prompt,
					},
					{
						Type: openai.ChatMessagePartTypeImageURL,
						ImageURL: &openai.ChatMessageImageURL{
							URL: req.ImageDataURI,
						},
					},
				},
			},
		},
	}
}
