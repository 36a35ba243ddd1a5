package tools

import "encoding/json"

// Result is the normalized outcome of one chat request. Exactly one of the
// three shapes goes over the wire: an action instruction for a remote client,
// a free-text reply, or an error. Callers distinguish shapes by key presence,
// so marshaling must never mix them.
type Result struct {
	Action   string         `json:"action,omitempty"`
	Payload  map[string]any `json:"payload,omitempty"`
	Response string         `json:"response,omitempty"`
	Error    string         `json:"error,omitempty"`
}

// ActionResult builds an instruction result. A nil payload is promoted to an
// empty object so clients always see a "payload" key next to "action".
func ActionResult(action string, payload map[string]any) Result {
	if payload == nil {
		payload = map[string]any{}
	}
	return Result{Action: action, Payload: payload}
}

// TextResult builds a free-text reply.
func TextResult(text string) Result {
	return Result{Response: text}
}

// ErrorResult builds an error result carrying the failure message.
func ErrorResult(message string) Result {
	return Result{Error: message}
}

// IsError reports whether the result is error-shaped.
func (r Result) IsError() bool {
	return r.Error != ""
}

// IsAction reports whether the result is an instruction for a remote client.
func (r Result) IsAction() bool {
	return r.Error == "" && r.Action != ""
}

// MarshalJSON enforces the one-shape-per-result contract. In particular an
// action result always carries its payload object, even when empty, which
// omitempty would otherwise drop.
func (r Result) MarshalJSON() ([]byte, error) {
	switch {
	case r.Error != "":
		return json.Marshal(struct {
			Error string `json:"error"`
		}{r.Error})
	case r.Action != "":
		payload := r.Payload
		if payload == nil {
			payload = map[string]any{}
		}
		return json.Marshal(struct {
			Action  string         `json:"action"`
			Payload map[string]any `json:"payload"`
		}{r.Action, payload})
	default:
		return json.Marshal(struct {
			Response string `json:"response"`
		}{r.Response})
	}
}
