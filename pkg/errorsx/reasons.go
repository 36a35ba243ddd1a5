package errorsx

// ReasonCode is a short machine-readable error reason.
type ReasonCode string

const (
	ReasonUnknown ReasonCode = "unknown"

	ReasonLLMGenerate  ReasonCode = "llm_generate"
	ReasonLLMRateLimit ReasonCode = "llm_rate_limit"

	ReasonToolNotFound ReasonCode = "tool_not_found"
	ReasonToolArgs     ReasonCode = "tool_args"
	ReasonToolExec     ReasonCode = "tool_exec"

	ReasonConfigInvalid ReasonCode = "config_invalid"
	ReasonTransportSend ReasonCode = "transport_send"
)
