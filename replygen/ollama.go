package replygen

import (
	"context"
	"strings"
	"time"

	"github.com/go-resty/resty/v2"
	"github.com/pkg/errors"

	"github.com/osman-haider/SmartXBot/configs"
)

// Chatter sends one system+user exchange to a chat model and returns the
// assistant's text.
type Chatter interface {
	Chat(ctx context.Context, system, user string) (string, error)
}

type chatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type chatRequest struct {
	Model    string        `json:"model"`
	Messages []chatMessage `json:"messages"`
	Stream   bool          `json:"stream"`
}

type chatResponse struct {
	Message chatMessage `json:"message"`
	Error   string      `json:"error,omitempty"`
}

// OllamaClient calls a local Ollama server's /api/chat endpoint.
type OllamaClient struct {
	client *resty.Client
	model  string
}

func NewOllamaClient(baseURL, model string) *OllamaClient {
	if baseURL == "" {
		baseURL = configs.DefaultOllamaURL
	}
	if model == "" {
		model = configs.DefaultOllamaModel
	}

	client := resty.New()
	client.SetBaseURL(strings.TrimRight(baseURL, "/"))
	client.SetTimeout(90 * time.Second)
	client.SetHeader("Content-Type", "application/json")

	return &OllamaClient{client: client, model: model}
}

func (c *OllamaClient) Chat(ctx context.Context, system, user string) (string, error) {
	var out chatResponse
	resp, err := c.client.R().
		SetContext(ctx).
		SetBody(chatRequest{
			Model: c.model,
			Messages: []chatMessage{
				{Role: "system", Content: system},
				{Role: "user", Content: user},
			},
		}).
		SetResult(&out).
		SetError(&out).
		Post("/api/chat")
	if err != nil {
		return "", errors.Wrap(err, "ollama chat")
	}
	if resp.IsError() {
		return "", errors.Errorf("ollama chat: status %d: %s", resp.StatusCode(), out.Error)
	}
	return out.Message.Content, nil
}
