package testutil

import (
	"context"
	"fmt"
	"sync"

	"codeberg.org/snonux/signopsis/internal/fingerspell"
)

// MockStore is an in-memory key-value store with injectable failures
type MockStore struct {
	mu     sync.Mutex
	Values map[string]string
	Errors map[string]error // Keyed by "GET key", "SET key" or "DELETE key"
	Calls  []string
}

// NewMockStore creates an empty mock store
func NewMockStore() *MockStore {
	return &MockStore{
		Values: make(map[string]string),
		Errors: make(map[string]error),
	}
}

// Get mocks reading a key
func (m *MockStore) Get(ctx context.Context, key string) (string, bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	call := fmt.Sprintf("GET %s", key)
	m.Calls = append(m.Calls, call)

	if err, ok := m.Errors[call]; ok {
		return "", false, err
	}
	v, ok := m.Values[key]
	return v, ok, nil
}

// Set mocks writing a key
func (m *MockStore) Set(ctx context.Context, key, value string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	call := fmt.Sprintf("SET %s", key)
	m.Calls = append(m.Calls, call)

	if err, ok := m.Errors[call]; ok {
		return err
	}
	m.Values[key] = value
	return nil
}

// Delete mocks removing a key
func (m *MockStore) Delete(ctx context.Context, key string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	call := fmt.Sprintf("DELETE %s", key)
	m.Calls = append(m.Calls, call)

	if err, ok := m.Errors[call]; ok {
		return err
	}
	delete(m.Values, key)
	return nil
}

// MockResolver resolves words through the local resolver, optionally failing
// or holding each call until it is released
type MockResolver struct {
	mu      sync.Mutex
	local   *fingerspell.LocalResolver
	Errors  map[string]error
	Calls   []string
	gated   bool
	pending map[string][]chan struct{}
}

// NewMockResolver creates a resolver that answers immediately
func NewMockResolver() *MockResolver {
	return &MockResolver{
		local:   fingerspell.NewLocalResolver(nil),
		Errors:  make(map[string]error),
		pending: make(map[string][]chan struct{}),
	}
}

// NewGatedResolver creates a resolver whose calls block until Release
func NewGatedResolver() *MockResolver {
	r := NewMockResolver()
	r.gated = true
	return r
}

// Resolve implements fingerspell.Resolver
func (m *MockResolver) Resolve(ctx context.Context, word string) ([]fingerspell.LetterUnit, error) {
	m.mu.Lock()
	m.Calls = append(m.Calls, word)
	var gate chan struct{}
	if m.gated {
		gate = make(chan struct{})
		m.pending[word] = append(m.pending[word], gate)
	}
	err := m.Errors[word]
	m.mu.Unlock()

	if gate != nil {
		select {
		case <-gate:
		case <-ctx.Done():
			return nil, ctx.Err()
		}
	}

	if err != nil {
		return nil, err
	}
	return m.local.Spell(word), nil
}

// Name returns the resolver name
func (m *MockResolver) Name() string {
	return "mock"
}

// Release unblocks the oldest pending call for word. It reports whether a
// call was waiting.
func (m *MockResolver) Release(word string) bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	gates := m.pending[word]
	if len(gates) == 0 {
		return false
	}
	close(gates[0])
	m.pending[word] = gates[1:]
	return true
}

// CallCount returns how many times Resolve was called
func (m *MockResolver) CallCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.Calls)
}
