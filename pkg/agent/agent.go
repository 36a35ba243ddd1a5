// Package agent implements the tool-dispatch core: one natural-language
// query in, exactly one normalized result out.
package agent

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/opengeos/geoagent/pkg/errorsx"
	"github.com/opengeos/geoagent/pkg/llm"
	"github.com/opengeos/geoagent/pkg/metrics"
	"github.com/opengeos/geoagent/pkg/redact"
	"github.com/opengeos/geoagent/pkg/tools"
)

// Options configures a Dispatcher instance explicitly; the core reads
// nothing from the process environment.
type Options struct {
	// SystemPrompt is the fixed instruction prepended to every request.
	SystemPrompt string

	// ChatAction, when set, shapes free-text replies as
	// {action: ChatAction, payload: {message}} instead of {response}.
	// The map variant sets it to "chat_response".
	ChatAction string
}

// Dispatcher turns a query plus optional history into a single validated
// tool invocation or a free-text reply. It holds no mutable cross-request
// state; concurrent Ask calls are independent.
type Dispatcher struct {
	adapter llm.Adapter
	catalog *tools.Catalog
	opts    Options
	log     *slog.Logger
	obs     metrics.Observer
}

// New builds a Dispatcher. logger may be nil; obs may be nil.
func New(adapter llm.Adapter, catalog *tools.Catalog, opts Options, logger *slog.Logger, obs metrics.Observer) *Dispatcher {
	if logger == nil {
		logger = slog.Default()
	}
	return &Dispatcher{
		adapter: adapter,
		catalog: catalog,
		opts:    opts,
		log:     logger,
		obs:     metrics.OrNoop(obs),
	}
}

// Ask processes one query. Every failure path resolves to an error-shaped
// result for this single request; Ask never panics and never retries.
func (d *Dispatcher) Ask(ctx context.Context, query string, history []llm.Message) tools.Result {
	messages := make([]llm.Message, 0, len(history)+2)
	messages = append(messages, llm.Message{Role: llm.RoleSystem, Content: d.opts.SystemPrompt})
	messages = append(messages, history...)
	messages = append(messages, llm.Message{Role: llm.RoleUser, Content: query})

	started := time.Now()
	resp, err := d.adapter.Generate(ctx, llm.Context{
		Messages: messages,
		Tools:    d.catalog.LLMTools(),
	})
	d.obs.RecordEvent(metrics.Event{
		Name:  "llm_latency_ms",
		Time:  time.Now(),
		Value: float64(time.Since(started).Milliseconds()),
		Tags:  map[string]string{"provider": d.adapter.Name()},
	})
	if err != nil {
		d.log.Error("completion request failed",
			"provider", d.adapter.Name(),
			"reason", string(errorsx.Reason(err)),
			"query", redact.Coordinates(query),
			"error", err)
		return tools.ErrorResult(err.Error())
	}

	if len(resp.ToolCalls) == 0 {
		return d.chatResult(resp.Text)
	}

	// Only the first selection is honored; extras are discarded.
	call := resp.ToolCalls[0]
	if len(resp.ToolCalls) > 1 {
		d.log.Debug("discarding extra tool selections", "count", len(resp.ToolCalls)-1)
	}

	args := d.parseArgs(call)

	handler, def, ok := d.catalog.Lookup(call.Name)
	if !ok {
		err := errorsx.Wrap(fmt.Errorf("tool %q not found", call.Name), errorsx.ReasonToolNotFound)
		d.log.Warn("model selected unknown tool",
			"tool", call.Name,
			"reason", string(errorsx.Reason(err)))
		return tools.ErrorResult(err.Error())
	}
	if err := tools.ValidateArgs(def, args); err != nil {
		d.log.Warn("tool arguments rejected", "tool", call.Name, "error", err)
		return tools.ErrorResult(err.Error())
	}

	result, err := handler(args)
	if err != nil {
		err = errorsx.Wrap(err, errorsx.ReasonToolExec)
		d.log.Error("tool invocation failed", "tool", call.Name, "error", err)
		return tools.ErrorResult(err.Error())
	}
	d.obs.RecordEvent(metrics.Event{
		Name:  "tool_invoked",
		Time:  time.Now(),
		Value: 1,
		Tags:  map[string]string{"tool": call.Name},
	})
	return result
}

// parseArgs decodes the raw argument payload. Malformed JSON degrades to an
// empty argument set rather than failing the request; argument validation
// then reports anything the tool actually needed.
func (d *Dispatcher) parseArgs(call llm.ToolCall) map[string]any {
	args := map[string]any{}
	raw := strings.TrimSpace(call.Arguments)
	if raw == "" {
		return args
	}
	if err := json.Unmarshal([]byte(raw), &args); err != nil {
		d.log.Warn("malformed tool arguments, proceeding with none",
			"tool", call.Name, "error", err)
		return map[string]any{}
	}
	return args
}

func (d *Dispatcher) chatResult(text string) tools.Result {
	if d.opts.ChatAction != "" {
		return tools.ActionResult(d.opts.ChatAction, map[string]any{"message": text})
	}
	return tools.TextResult(text)
}
