package agent

import (
	"context"
	"errors"
	"net/http"
	"strings"
	"time"

	openaigo "github.com/openai/openai-go/v3"
	"github.com/openai/openai-go/v3/option"
)

const DefaultRequestTimeout = 120 * time.Second

// Completer sends one system+user prompt pair to a chat model.
type Completer interface {
	Complete(ctx context.Context, system, user string) (string, error)
}

type ChatConfig struct {
	BaseURL     string
	APIKey      string
	Model       string
	Temperature float64
}

type chatClient struct {
	client      openaigo.Client
	model       string
	temperature float64
}

// NewChatClient talks to any OpenAI-compatible endpoint (Groq by default).
// The SDK's own retries are disabled: a failed call is reported, not repeated.
func NewChatClient(cfg ChatConfig) Completer {
	httpClient := &http.Client{Timeout: DefaultRequestTimeout}
	client := openaigo.NewClient(
		option.WithBaseURL(strings.TrimRight(strings.TrimSpace(cfg.BaseURL), "/")),
		option.WithAPIKey(strings.TrimSpace(cfg.APIKey)),
		option.WithHTTPClient(httpClient),
		option.WithMaxRetries(0),
	)
	return &chatClient{
		client:      client,
		model:       strings.TrimSpace(cfg.Model),
		temperature: cfg.Temperature,
	}
}

func (c *chatClient) Complete(ctx context.Context, system, user string) (string, error) {
	params := openaigo.ChatCompletionNewParams{
		Model: openaigo.ChatModel(c.model),
		Messages: []openaigo.ChatCompletionMessageParamUnion{
			openaigo.SystemMessage(system),
			openaigo.UserMessage(user),
		},
		Temperature: openaigo.Float(c.temperature),
	}

	resp, err := c.client.Chat.Completions.New(ctx, params)
	if err != nil {
		return "", &Error{Kind: KindCompletion, Message: "The language model request failed", Err: err}
	}
	if len(resp.Choices) == 0 {
		return "", &Error{Kind: KindEmpty, Message: "The language model returned no answer", Err: errors.New("no choices")}
	}
	content := strings.TrimSpace(resp.Choices[0].Message.Content)
	if content == "" {
		return "", &Error{Kind: KindEmpty, Message: "The language model returned an empty answer"}
	}
	return content, nil
}
