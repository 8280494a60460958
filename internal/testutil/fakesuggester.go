// Package testutil provides testing utilities.
package testutil

import (
	"context"
	"sync"

	"subtasker/internal/service"
)

// FakeSuggester is an in-memory implementation of service.Suggester for testing.
type FakeSuggester struct {
	mu    sync.Mutex
	calls []string

	// Responses maps task text to the subtasks returned for it.
	Responses map[string][]string

	// Err, if set, is returned from every call.
	Err error
}

// NewFakeSuggester creates an empty FakeSuggester.
func NewFakeSuggester() *FakeSuggester {
	return &FakeSuggester{Responses: make(map[string][]string)}
}

// Suggest implements service.Suggester.
func (f *FakeSuggester) Suggest(ctx context.Context, taskText string) (service.SuggestionResponse, error) {
	f.mu.Lock()
	f.calls = append(f.calls, taskText)
	subtasks := f.Responses[taskText]
	f.mu.Unlock()

	if f.Err != nil {
		return service.SuggestionResponse{}, f.Err
	}
	return service.SuggestionResponse{Subtasks: subtasks}, nil
}

// Calls returns the task texts received, in order.
func (f *FakeSuggester) Calls() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make([]string, len(f.calls))
	copy(out, f.calls)
	return out
}
