package llm

import (
	"context"
	"sync"
)

// Mock is a test double for Client. Responses are returned in order of
// calls; when GenerateFunc is set it takes precedence.
type Mock struct {
	mu           sync.Mutex
	Responses    []string
	Err          error
	GenerateFunc func(ctx context.Context, prompt string) (string, error)
	ModelName    string

	Prompts []string
	Calls   int
}

func (m *Mock) Generate(ctx context.Context, prompt string) (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.Prompts = append(m.Prompts, prompt)
	call := m.Calls
	m.Calls++

	if m.GenerateFunc != nil {
		return m.GenerateFunc(ctx, prompt)
	}

	if m.Err != nil {
		return "", m.Err
	}

	if call < len(m.Responses) {
		return m.Responses[call], nil
	}

	return "mock response", nil
}

func (m *Mock) Model() string {
	if m.ModelName == "" {
		return "mock-model"
	}

	return m.ModelName
}
