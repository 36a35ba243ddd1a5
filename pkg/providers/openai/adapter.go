// Package openai adapts any OpenAI-compatible chat-completion API, including
// self-hosted providers like Ollama via the base_url override.
package openai

import (
	"context"
	"errors"
	"net/http"
	"time"

	openai "github.com/sashabaranov/go-openai"

	"github.com/opengeos/geoagent/pkg/errorsx"
	"github.com/opengeos/geoagent/pkg/llm"
)

type Config struct {
	APIKey    string `mapstructure:"api_key"`
	Model     string `mapstructure:"model"`
	BaseURL   string `mapstructure:"base_url"`
	TimeoutMS int    `mapstructure:"timeout_ms"`
}

func (c Config) withDefaults() Config {
	if c.TimeoutMS <= 0 {
		c.TimeoutMS = 60_000
	}
	return c
}

type Adapter struct {
	api   *openai.Client
	model string
}

func NewAdapter(cfg Config) *Adapter {
	cfg = cfg.withDefaults()
	clientCfg := openai.DefaultConfig(cfg.APIKey)
	if cfg.BaseURL != "" {
		clientCfg.BaseURL = cfg.BaseURL
	}
	clientCfg.HTTPClient = &http.Client{
		Timeout: time.Duration(cfg.TimeoutMS) * time.Millisecond,
	}
	return &Adapter{
		api:   openai.NewClientWithConfig(clientCfg),
		model: cfg.Model,
	}
}

func (a *Adapter) Name() string { return "openai" }

func (a *Adapter) Generate(ctx context.Context, input llm.Context) (llm.Response, error) {
	req := openai.ChatCompletionRequest{
		Model:    a.model,
		Messages: mapMessages(input.Messages),
	}
	if len(input.Tools) > 0 {
		req.Tools = mapTools(input.Tools)
		req.ToolChoice = "auto"
	}

	resp, err := a.api.CreateChatCompletion(ctx, req)
	if err != nil {
		var apiErr *openai.APIError
		if errors.As(err, &apiErr) && apiErr.HTTPStatusCode == http.StatusTooManyRequests {
			return llm.Response{}, errorsx.Wrap(err, errorsx.ReasonLLMRateLimit)
		}
		return llm.Response{}, errorsx.Wrap(err, errorsx.ReasonLLMGenerate)
	}
	if len(resp.Choices) == 0 {
		return llm.Response{}, errorsx.Wrap(errors.New("no choices in response"), errorsx.ReasonLLMGenerate)
	}

	choice := resp.Choices[0]
	out := llm.Response{
		Text:         choice.Message.Content,
		FinishReason: string(choice.FinishReason),
		Usage: llm.Usage{
			PromptTokens:     resp.Usage.PromptTokens,
			CompletionTokens: resp.Usage.CompletionTokens,
			TotalTokens:      resp.Usage.TotalTokens,
		},
	}
	for _, tc := range choice.Message.ToolCalls {
		out.ToolCalls = append(out.ToolCalls, llm.ToolCall{
			ID:        tc.ID,
			Name:      tc.Function.Name,
			Arguments: tc.Function.Arguments,
		})
	}
	return out, nil
}

func mapMessages(messages []llm.Message) []openai.ChatCompletionMessage {
	out := make([]openai.ChatCompletionMessage, len(messages))
	for i, m := range messages {
		out[i] = openai.ChatCompletionMessage{
			Role:    string(m.Role),
			Content: m.Content,
		}
	}
	return out
}

func mapTools(in []llm.Tool) []openai.Tool {
	out := make([]openai.Tool, len(in))
	for i, t := range in {
		out[i] = openai.Tool{
			Type: openai.ToolTypeFunction,
			Function: &openai.FunctionDefinition{
				Name:        t.Name,
				Description: t.Description,
				Parameters:  t.Schema,
			},
		}
	}
	return out
}

var _ llm.Adapter = (*Adapter)(nil)
