package mocks

import (
	"context"
	"sync"

	"github.com/aimd54/wardrobe-stylist/internal/service/stylist"
)

// MockSuggester returns a canned suggestion and records what it was asked.
type MockSuggester struct {
	Next        *stylist.Suggestion
	Err         error
	Calls       int
	LastRequest *stylist.Request
	mu          sync.Mutex
}

// NewMockSuggester creates a new mock suggester answering with an empty suggestion.
func NewMockSuggester() *MockSuggester {
	return &MockSuggester{Next: &stylist.Suggestion{}}
}

// Name implements stylist.Suggester.
func (m *MockSuggester) Name() string {
	return "mock"
}

// Suggest implements stylist.Suggester.
func (m *MockSuggester) Suggest(_ context.Context, req *stylist.Request) (*stylist.Suggestion, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.Calls++
	m.LastRequest = req
	if m.Err != nil {
		return nil, m.Err
	}
	out := *m.Next
	return &out, nil
}
