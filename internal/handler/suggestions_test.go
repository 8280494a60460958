package handler_test

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"subtasker/internal/handler"
	"subtasker/internal/relayerr"
	"subtasker/internal/testutil"
)

// post sends body to the handler and returns the recorded reply.
func post(t *testing.T, h http.Handler, body string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(http.MethodPost, "/api/get-suggestions", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

func decodeError(t *testing.T, rec *httptest.ResponseRecorder) string {
	t.Helper()
	var body struct {
		Error string `json:"error"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	return body.Error
}

func TestSuggestionHandler_Success(t *testing.T) {
	fake := testutil.NewFakeSuggester()
	fake.Responses["Plan a birthday party"] = []string{"Pick a venue", "Send invites", "Order a cake"}

	rec := post(t, handler.NewSuggestionHandler(fake), `{"taskText":"Plan a birthday party"}`)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "application/json", rec.Header().Get("Content-Type"))
	assert.JSONEq(t, `{"subtasks":["Pick a venue","Send invites","Order a cake"]}`, rec.Body.String())
	assert.Equal(t, []string{"Plan a birthday party"}, fake.Calls())
}

func TestSuggestionHandler_EmptyListIsArray(t *testing.T) {
	fake := testutil.NewFakeSuggester()

	rec := post(t, handler.NewSuggestionHandler(fake), `{"taskText":"nothing to do"}`)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"subtasks":[]}`, rec.Body.String())
}

func TestSuggestionHandler_ErrorMapping(t *testing.T) {
	tests := []struct {
		name    string
		err     error
		wantMsg string
	}{
		{"configuration", &relayerr.ConfigurationError{Key: "GEMINI_API_KEY"}, relayerr.MsgMissingKey},
		{"upstream", &relayerr.UpstreamError{Status: 429, Body: "quota exhausted for project 1234"}, relayerr.MsgFailed},
		{"parse", &relayerr.ParseError{Text: "oops", Err: errors.New("bad json")}, relayerr.MsgFailed},
		{"unknown", errors.New("boom"), relayerr.MsgFailed},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			fake := testutil.NewFakeSuggester()
			fake.Err = tt.err

			rec := post(t, handler.NewSuggestionHandler(fake), `{"taskText":"x"}`)

			assert.Equal(t, http.StatusInternalServerError, rec.Code)
			assert.Equal(t, tt.wantMsg, decodeError(t, rec))
			assert.NotContains(t, rec.Body.String(), "quota")
		})
	}
}

func TestSuggestionHandler_InvalidBody(t *testing.T) {
	fake := testutil.NewFakeSuggester()

	rec := post(t, handler.NewSuggestionHandler(fake), `{"taskText":`)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, relayerr.MsgBadRequest, decodeError(t, rec))
	assert.Empty(t, fake.Calls())
}

func TestSuggestionHandler_BodyTooLarge(t *testing.T) {
	fake := testutil.NewFakeSuggester()
	big := `{"taskText":"` + strings.Repeat("a", handler.MaxBodyBytes) + `"}`

	rec := post(t, handler.NewSuggestionHandler(fake), big)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Empty(t, fake.Calls())
}

func TestSuggestionHandler_MissingTaskTextIsForwarded(t *testing.T) {
	fake := testutil.NewFakeSuggester()

	rec := post(t, handler.NewSuggestionHandler(fake), `{}`)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, []string{""}, fake.Calls())
}

func TestSuggestionHandler_MethodNotAllowed(t *testing.T) {
	fake := testutil.NewFakeSuggester()
	req := httptest.NewRequest(http.MethodGet, "/api/get-suggestions", nil)
	rec := httptest.NewRecorder()

	handler.NewSuggestionHandler(fake).ServeHTTP(rec, req)

	assert.Equal(t, http.StatusMethodNotAllowed, rec.Code)
	assert.Equal(t, http.MethodPost, rec.Header().Get("Allow"))
	assert.Empty(t, fake.Calls())
}

func TestWithRequestID(t *testing.T) {
	var seen string
	h := handler.WithRequestID(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		seen = handler.RequestID(r.Context())
	}))

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))

	require.NotEmpty(t, seen)
	assert.Equal(t, seen, rec.Header().Get(handler.RequestIDHeader))
}
