package llm

import "context"

// Role identifies the author of a conversation message.
type Role string

const (
	RoleSystem    Role = "system"
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
)

// Message is a single conversation turn. Sequences are ordered and must be
// forwarded to providers verbatim.
type Message struct {
	Role    Role   `json:"role"`
	Content string `json:"content"`
}

// Tool describes a callable function the model may select. Schema is the
// JSON Schema object for the tool's arguments, in Function Calling format.
type Tool struct {
	Name        string
	Description string
	Schema      any
}

// Context carries one outbound completion request.
type Context struct {
	Messages []Message
	Tools    []Tool
}

type Usage struct {
	PromptTokens     int
	CompletionTokens int
	TotalTokens      int
}

// ToolCall is a tool selection made by the model. Arguments is the raw
// JSON-encoded argument payload exactly as the provider returned it;
// parsing and recovery policy belong to the dispatcher, not the adapter.
type ToolCall struct {
	ID        string
	Name      string
	Arguments string
}

// Response is a provider reply: free text, zero or more tool selections,
// or both.
type Response struct {
	Text         string
	FinishReason string
	Usage        Usage
	ToolCalls    []ToolCall
}

// Adapter is the vendor-agnostic completion boundary. Generate blocks until
// the provider answers or the context is done; no partial results are
// streamed.
type Adapter interface {
	Generate(ctx context.Context, input Context) (Response, error)
	Name() string
}
