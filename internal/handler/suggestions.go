// Package handler serves the suggestion endpoint.
package handler

import (
	"encoding/json"
	"net/http"

	"subtasker/internal/logging"
	"subtasker/internal/output"
	"subtasker/internal/relayerr"
	"subtasker/internal/service"
)

// MaxBodyBytes caps the inbound request body.
const MaxBodyBytes = 100 << 10

// SuggestionHandler relays task descriptions to a Suggester.
type SuggestionHandler struct {
	suggester service.Suggester
}

// NewSuggestionHandler creates a handler backed by suggester.
func NewSuggestionHandler(suggester service.Suggester) *SuggestionHandler {
	return &SuggestionHandler{suggester: suggester}
}

// ServeHTTP handles POST /api/get-suggestions.
func (h *SuggestionHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	log := logging.With("request_id", RequestID(r.Context()))

	if r.Method != http.MethodPost {
		w.Header().Set("Allow", http.MethodPost)
		output.WriteMessage(w, http.StatusMethodNotAllowed, relayerr.MsgMethodNotAllow)
		return
	}

	log.Info("received suggestion request")

	var req service.SuggestionRequest
	body := http.MaxBytesReader(w, r.Body, MaxBodyBytes)
	if err := json.NewDecoder(body).Decode(&req); err != nil {
		err = &relayerr.RequestError{Err: err}
		log.Warn("rejected suggestion request", relayerr.LogAttrs(err)...)
		output.WriteError(w, err)
		return
	}

	resp, err := h.suggester.Suggest(r.Context(), req.TaskText)
	if err != nil {
		log.Error("suggestion request failed", relayerr.LogAttrs(err)...)
		output.WriteError(w, err)
		return
	}

	log.Info("got suggestions from AI", "count", len(resp.Subtasks))
	output.WriteJSON(w, http.StatusOK, resp)
}
