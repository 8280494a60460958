package service

import "encoding/json"

// SuggestionRequest is the inbound request body.
type SuggestionRequest struct {
	TaskText string `json:"taskText"`
}

// SuggestionResponse is the list of sub-tasks returned to the caller.
type SuggestionResponse struct {
	Subtasks []string `json:"subtasks"`
}

// MarshalJSON encodes an empty list as [] rather than null.
func (r SuggestionResponse) MarshalJSON() ([]byte, error) {
	subtasks := r.Subtasks
	if subtasks == nil {
		subtasks = []string{}
	}
	return json.Marshal(struct {
		Subtasks []string `json:"subtasks"`
	}{subtasks})
}

// ErrorResponse is the body of every non-200 reply.
type ErrorResponse struct {
	Error string `json:"error"`
}
