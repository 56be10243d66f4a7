package chat

import (
	"context"
	"errors"
	"net/http"
	"strings"
	"time"

	"hogwarts-artifacts/config"
	"hogwarts-artifacts/internal/apperr"

	"github.com/openai/openai-go"
	"github.com/openai/openai-go/option"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
)

// OpenAIClient sends chat requests to an OpenAI compatible endpoint with a
// bearer API key.
type OpenAIClient struct {
	client openai.Client
}

func NewOpenAIClient(cfg config.AIConfig) *OpenAIClient {
	baseURL := cfg.BaseURL
	if !strings.HasSuffix(baseURL, "/") {
		baseURL += "/"
	}

	httpClient := &http.Client{
		Timeout:   60 * time.Second,
		Transport: otelhttp.NewTransport(http.DefaultTransport),
	}

	return &OpenAIClient{
		client: openai.NewClient(
			option.WithAPIKey(cfg.APIKey),
			option.WithBaseURL(baseURL),
			option.WithHTTPClient(httpClient),
			option.WithMaxRetries(0),
		),
	}
}

func (c *OpenAIClient) Generate(ctx context.Context, req Request) (*Response, error) {
	messages := make([]openai.ChatCompletionMessageParamUnion, 0, len(req.Messages))
	for _, m := range req.Messages {
		switch m.Role {
		case "system":
			messages = append(messages, openai.SystemMessage(m.Content))
		case "assistant":
			messages = append(messages, openai.AssistantMessage(m.Content))
		default:
			messages = append(messages, openai.UserMessage(m.Content))
		}
	}

	completion, err := c.client.Chat.Completions.New(ctx, openai.ChatCompletionNewParams{
		Model:    openai.ChatModel(req.Model),
		Messages: messages,
	})
	if err != nil {
		var apiErr *openai.Error
		if errors.As(err, &apiErr) {
			msg := apiErr.Message
			if msg == "" {
				msg = apiErr.Error()
			}
			return nil, apperr.Upstream(apiErr.StatusCode, msg, err)
		}
		return nil, apperr.Upstream(http.StatusBadGateway, err.Error(), err)
	}

	resp := &Response{Choices: make([]Choice, 0, len(completion.Choices))}
	for _, ch := range completion.Choices {
		resp.Choices = append(resp.Choices, Choice{
			Index: int(ch.Index),
			Message: Message{
				Role:    string(ch.Message.Role),
				Content: ch.Message.Content,
			},
		})
	}
	return resp, nil
}
