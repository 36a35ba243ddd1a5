// Package mock provides a deterministic completion adapter for tests and
// offline demos.
package mock

import (
	"context"
	"sync"

	"github.com/opengeos/geoagent/pkg/llm"
)

type Config struct {
	ResponseText string         `mapstructure:"response_text"`
	ToolCalls    []llm.ToolCall `mapstructure:"tool_calls"`
	Err          error          `mapstructure:"-"`
}

// Adapter returns canned responses and records every request it receives so
// tests can assert on the exact outbound message sequence.
type Adapter struct {
	cfg Config

	mu     sync.Mutex
	inputs []llm.Context
}

func NewAdapter(cfg Config) *Adapter {
	if cfg.ResponseText == "" && len(cfg.ToolCalls) == 0 && cfg.Err == nil {
		cfg.ResponseText = "mock response"
	}
	return &Adapter{cfg: cfg}
}

func (a *Adapter) Name() string { return "mock_llm" }

func (a *Adapter) Generate(ctx context.Context, input llm.Context) (llm.Response, error) {
	a.mu.Lock()
	a.inputs = append(a.inputs, input)
	a.mu.Unlock()
	if a.cfg.Err != nil {
		return llm.Response{}, a.cfg.Err
	}
	return llm.Response{
		Text:      a.cfg.ResponseText,
		ToolCalls: a.cfg.ToolCalls,
	}, nil
}

// Inputs returns a copy of every request seen so far.
func (a *Adapter) Inputs() []llm.Context {
	a.mu.Lock()
	defer a.mu.Unlock()
	out := make([]llm.Context, len(a.inputs))
	copy(out, a.inputs)
	return out
}

// LastInput returns the most recent request, if any.
func (a *Adapter) LastInput() (llm.Context, bool) {
	a.mu.Lock()
	defer a.mu.Unlock()
	if len(a.inputs) == 0 {
		return llm.Context{}, false
	}
	return a.inputs[len(a.inputs)-1], true
}

var _ llm.Adapter = (*Adapter)(nil)
