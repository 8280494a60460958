// Package output writes JSON replies to HTTP callers.
package output

import (
	"encoding/json"
	"net/http"

	"subtasker/internal/logging"
	"subtasker/internal/relayerr"
	"subtasker/internal/service"
)

// ContentType is the media type of every API reply.
const ContentType = "application/json"

// WriteJSON writes v with the given status.
func WriteJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", ContentType)
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		logging.Warn("failed to write response", "error", err)
	}
}

// WriteError writes the caller-visible form of err.
// Only the generic message leaves the server.
func WriteError(w http.ResponseWriter, err error) {
	WriteJSON(w, relayerr.StatusCode(err), service.ErrorResponse{
		Error: relayerr.PublicMessage(err),
	})
}

// WriteMessage writes an error body with an explicit status and message.
func WriteMessage(w http.ResponseWriter, status int, msg string) {
	WriteJSON(w, status, service.ErrorResponse{Error: msg})
}
