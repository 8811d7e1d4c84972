package openai

import (
	"context"
	"sync"
)

// CompletionCall records one call made to the mock.
type CompletionCall struct {
	SystemPrompt string
	UserMessage  string
}

// OpenAIClientMock returns a canned reply or error and records its calls.
type OpenAIClientMock struct {
	Reply string
	Err   error

	mu    sync.Mutex
	calls []CompletionCall
}

// NewOpenAIClientMock creates a new instance of OpenAIClientMock
func NewOpenAIClientMock(reply string, err error) *OpenAIClientMock {
	return &OpenAIClientMock{Reply: reply, Err: err}
}

func (m *OpenAIClientMock) Complete(ctx context.Context, systemPrompt, userMessage string) (string, error) {
	m.mu.Lock()
	m.calls = append(m.calls, CompletionCall{SystemPrompt: systemPrompt, UserMessage: userMessage})
	m.mu.Unlock()

	if m.Err != nil {
		return "", m.Err
	}
	return m.Reply, nil
}

// Calls returns a copy of the recorded calls.
func (m *OpenAIClientMock) Calls() []CompletionCall {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]CompletionCall(nil), m.calls...)
}
