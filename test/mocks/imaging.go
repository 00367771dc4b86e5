package mocks

import (
	"context"
	"fmt"
	"strings"
	"sync"
)

// MockRemover is a background remover driven by a function.
type MockRemover struct {
	RemoveFunc func(data []byte) ([]byte, error)
	Calls      int
	mu         sync.Mutex
}

// RemoveBackground implements imaging.BackgroundRemover. Without RemoveFunc
// the input is echoed back.
func (m *MockRemover) RemoveBackground(_ context.Context, data []byte) ([]byte, error) {
	m.mu.Lock()
	m.Calls++
	m.mu.Unlock()

	if m.RemoveFunc != nil {
		return m.RemoveFunc(data)
	}
	return data, nil
}

// MockImageStore is an in-memory image store.
type MockImageStore struct {
	objects map[string][]byte
	next    int
	PutErr  error
	mu      sync.Mutex
}

// NewMockImageStore creates a new in-memory image store.
func NewMockImageStore() *MockImageStore {
	return &MockImageStore{objects: make(map[string][]byte)}
}

// Put implements storage.ImageStore.
func (m *MockImageStore) Put(_ context.Context, data []byte, _ string) (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.PutErr != nil {
		return "", m.PutErr
	}
	m.next++
	url := fmt.Sprintf("/uploads/mock-%d.png", m.next)
	m.objects[url] = append([]byte(nil), data...)
	return url, nil
}

// Delete implements storage.ImageStore.
func (m *MockImageStore) Delete(_ context.Context, url string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	delete(m.objects, url)
	return nil
}

// Get returns a stored object.
func (m *MockImageStore) Get(url string) ([]byte, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()

	data, ok := m.objects[url]
	return data, ok
}

// Len returns the number of stored objects.
func (m *MockImageStore) Len() int {
	m.mu.Lock()
	defer m.mu.Unlock()

	return len(m.objects)
}

// Has reports whether any stored url contains substr.
func (m *MockImageStore) Has(substr string) bool {
	m.mu.Lock()
	defer m.mu.Unlock()

	for url := range m.objects {
		if strings.Contains(url, substr) {
			return true
		}
	}
	return false
}
