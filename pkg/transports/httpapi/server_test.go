package httpapi

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"

	"github.com/opengeos/geoagent/pkg/agent"
	"github.com/opengeos/geoagent/pkg/llm"
	"github.com/opengeos/geoagent/pkg/providers/mock"
	"github.com/opengeos/geoagent/pkg/tools/geo"
)

func newTestServer(t *testing.T, cfg mock.Config) (*Server, *httptest.Server) {
	t.Helper()
	adapter := mock.NewAdapter(cfg)
	d := agent.New(adapter, geo.NewCatalog(), agent.Options{
		SystemPrompt: geo.SystemPrompt,
		ChatAction:   geo.ChatAction,
	}, nil, nil)
	s := New(Config{Title: "GeoAI Agent"}, d, nil, nil)
	ts := httptest.NewServer(s.Handler())
	t.Cleanup(ts.Close)
	return s, ts
}

func postChat(t *testing.T, ts *httptest.Server, body string) (*http.Response, map[string]any) {
	t.Helper()
	resp, err := http.Post(ts.URL+"/chat", "application/json", strings.NewReader(body))
	if err != nil {
		t.Fatalf("post: %v", err)
	}
	defer resp.Body.Close()
	var out map[string]any
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		t.Fatalf("decode: %v", err)
	}
	return resp, out
}

func TestChatEndpointToolResult(t *testing.T) {
	_, ts := newTestServer(t, mock.Config{ToolCalls: []llm.ToolCall{
		{Name: "zoom_to", Arguments: `{"zoom": 5}`},
	}})
	resp, out := postChat(t, ts, `{"query": "zoom to 5"}`)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("expected 200, got %d", resp.StatusCode)
	}
	if out["action"] != "zoom_to" {
		t.Fatalf("unexpected body: %v", out)
	}
	payload := out["payload"].(map[string]any)
	if payload["zoom"] != float64(5) {
		t.Fatalf("unexpected payload: %v", payload)
	}
}

func TestChatEndpointFreeText(t *testing.T) {
	_, ts := newTestServer(t, mock.Config{ResponseText: "just chatting"})
	_, out := postChat(t, ts, `{"query": "hello"}`)
	if out["action"] != "chat_response" {
		t.Fatalf("unexpected body: %v", out)
	}
}

func TestChatEndpointRejectsEmptyQuery(t *testing.T) {
	_, ts := newTestServer(t, mock.Config{})
	resp, out := postChat(t, ts, `{"query": "  "}`)
	if resp.StatusCode != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", resp.StatusCode)
	}
	if out["error"] == "" {
		t.Fatalf("expected error body, got %v", out)
	}
}

func TestChatEndpointRejectsGet(t *testing.T) {
	_, ts := newTestServer(t, mock.Config{})
	resp, err := http.Get(ts.URL + "/chat")
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	resp.Body.Close()
	if resp.StatusCode != http.StatusMethodNotAllowed {
		t.Fatalf("expected 405, got %d", resp.StatusCode)
	}
}

func TestHealthEndpoint(t *testing.T) {
	_, ts := newTestServer(t, mock.Config{})
	resp, err := http.Get(ts.URL + "/")
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	defer resp.Body.Close()
	var out map[string]string
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if out["message"] != "GeoAI Agent is running." {
		t.Fatalf("unexpected health body: %v", out)
	}
}

func TestDrainingRejectsChat(t *testing.T) {
	s, ts := newTestServer(t, mock.Config{ResponseText: "hi"})
	if err := s.Drain(); err != nil {
		t.Fatalf("drain: %v", err)
	}
	resp, _ := postChat(t, ts, `{"query": "hello"}`)
	if resp.StatusCode != http.StatusServiceUnavailable {
		t.Fatalf("expected 503 while draining, got %d", resp.StatusCode)
	}
}

func TestWebsocketReceivesActionBroadcast(t *testing.T) {
	s, ts := newTestServer(t, mock.Config{ToolCalls: []llm.ToolCall{
		{Name: "fly_to", Arguments: `{"longitude": -122.4, "latitude": 37.77}`},
	}})

	wsURL := "ws" + strings.TrimPrefix(ts.URL, "http") + "/ws"
	conn, _, err := websocket.DefaultDialer.Dial(wsURL, nil)
	if err != nil {
		t.Fatalf("dial: %v", err)
	}
	defer conn.Close()

	deadline := time.Now().Add(time.Second)
	for s.Hub().Count() == 0 {
		if time.Now().After(deadline) {
			t.Fatalf("subscription never registered")
		}
		time.Sleep(5 * time.Millisecond)
	}

	postChat(t, ts, `{"query": "fly to sf"}`)

	_ = conn.SetReadDeadline(time.Now().Add(2 * time.Second))
	_, raw, err := conn.ReadMessage()
	if err != nil {
		t.Fatalf("read: %v", err)
	}
	var pushed map[string]any
	if err := json.Unmarshal(raw, &pushed); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if pushed["action"] != "fly_to" {
		t.Fatalf("expected fly_to instruction pushed, got %v", pushed)
	}
}
