// Package service defines the backend-agnostic interface for suggestion operations.
package service

import "context"

// Suggester produces sub-task suggestions for a task description.
// All generative API calls go through this interface.
// The HTTP layer never imports the Google SDK directly.
type Suggester interface {
	// Suggest returns 3 to 5 sub-tasks for taskText.
	// Each call makes at most one outbound request and never retries.
	// Errors are relayerr variants.
	Suggest(ctx context.Context, taskText string) (SuggestionResponse, error)
}
