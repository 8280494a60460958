package testutil

import (
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"sync"
	"sync/atomic"
	"testing"
)

// UpstreamCall records one request received by a FakeUpstream.
type UpstreamCall struct {
	Method      string
	ContentType string
	Path        string
	Key         string
	Body        map[string]any
	Query       map[string][]string
}

// Prompt returns contents[0].parts[0].text from the recorded body.
func (c UpstreamCall) Prompt() string {
	contents, _ := c.Body["contents"].([]any)
	if len(contents) == 0 {
		return ""
	}
	content, _ := contents[0].(map[string]any)
	parts, _ := content["parts"].([]any)
	if len(parts) == 0 {
		return ""
	}
	part, _ := parts[0].(map[string]any)
	text, _ := part["text"].(string)
	return text
}

// UpstreamFunc produces the status and body for a recorded call.
type UpstreamFunc func(call UpstreamCall) (status int, body []byte)

// FakeUpstream is an httptest stand-in for the generative language API.
type FakeUpstream struct {
	*httptest.Server

	count atomic.Int64
	mu    sync.Mutex
	calls []UpstreamCall
}

// NewFakeUpstream starts a stub API that answers every call with fn.
// The server is closed when the test ends.
func NewFakeUpstream(t *testing.T, fn UpstreamFunc) *FakeUpstream {
	t.Helper()

	u := &FakeUpstream{}
	u.Server = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		u.count.Add(1)

		raw, _ := io.ReadAll(r.Body)
		call := UpstreamCall{
			Method:      r.Method,
			ContentType: r.Header.Get("Content-Type"),
			Path:        r.URL.Path,
			Key:         r.URL.Query().Get("key"),
			Query:       r.URL.Query(),
		}
		_ = json.Unmarshal(raw, &call.Body)

		u.mu.Lock()
		u.calls = append(u.calls, call)
		u.mu.Unlock()

		status, body := fn(call)
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(status)
		w.Write(body)
	}))
	t.Cleanup(u.Close)
	return u
}

// Endpoint returns the base URL to configure as the API endpoint.
func (u *FakeUpstream) Endpoint() string {
	return u.URL + "/"
}

// Count returns the number of calls received.
func (u *FakeUpstream) Count() int {
	return int(u.count.Load())
}

// Calls returns the recorded calls in arrival order.
func (u *FakeUpstream) Calls() []UpstreamCall {
	u.mu.Lock()
	defer u.mu.Unlock()
	out := make([]UpstreamCall, len(u.calls))
	copy(out, u.calls)
	return out
}

// Envelope wraps text as the first part of the first candidate.
func Envelope(text string) []byte {
	b, _ := json.Marshal(map[string]any{
		"candidates": []any{
			map[string]any{
				"content": map[string]any{
					"role":  "model",
					"parts": []any{map[string]any{"text": text}},
				},
				"finishReason": "STOP",
			},
		},
	})
	return b
}

// SubtasksEnvelope wraps {"subtasks": subtasks} as an API envelope.
func SubtasksEnvelope(subtasks ...string) []byte {
	if subtasks == nil {
		subtasks = []string{}
	}
	inner, _ := json.Marshal(map[string]any{"subtasks": subtasks})
	return Envelope(string(inner))
}

// Reply returns an UpstreamFunc that always answers with status and body.
func Reply(status int, body []byte) UpstreamFunc {
	return func(UpstreamCall) (int, []byte) {
		return status, body
	}
}
