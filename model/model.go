// Package model defines the generation backend abstraction consumed by the
// invoke wrapper, plus a deterministic mock for tests. Provider adapters live
// in the anthropic and openai subpackages.
package model

import (
	"context"
	"fmt"
	"sync"

	"github.com/hupe1980/interviewmesh/core"
)

// Request captures the normalized input of one generation call.
type Request struct {
	// Instructions is the system directive governing the completion.
	Instructions string `json:"instructions"`
	// Messages is the bounded conversation history, oldest first.
	Messages []core.Message `json:"messages"`
	// Prompt is the turn-specific instruction appended after the history.
	Prompt string `json:"prompt,omitempty"`
}

// TokenUsage captures token usage statistics for a response.
type TokenUsage struct {
	PromptTokens     int `json:"prompt_tokens"`
	CompletionTokens int `json:"completion_tokens"`
	TotalTokens      int `json:"total_tokens"`
}

// Response is the completed output of one generation call.
type Response struct {
	Text         string      `json:"text"`
	FinishReason string      `json:"finish_reason"` // "stop", "length", etc.
	Usage        *TokenUsage `json:"usage,omitempty"`
}

// Info contains metadata about a model implementation.
type Info struct {
	Name     string `json:"name"`
	Provider string `json:"provider"` // "openai", "anthropic", "mock", ...
}

// Model is the minimal interface the framework needs from a generation
// backend. Calls may fail arbitrarily; retry and fallback policy is the
// invoke package's responsibility, never the adapter's.
type Model interface {
	Generate(ctx context.Context, req Request) (*Response, error)

	// Info returns information about the model implementation.
	Info() Info
}

// MockModel is a lightweight in-memory Model useful for tests & examples. It
// matches canned responses by exact prompt (falling back to the last message
// content, then a generic echo), counts invocations and can be primed to fail
// a number of leading calls.
type MockModel struct {
	mu        sync.Mutex
	info      Info
	responses map[string]string
	failures  int
	calls     int
}

// NewMockModel constructs a MockModel.
func NewMockModel(name string) *MockModel {
	return &MockModel{
		info:      Info{Name: name, Provider: "mock"},
		responses: make(map[string]string),
	}
}

// AddResponse registers a deterministic canned completion for an input prompt.
func (m *MockModel) AddResponse(prompt, response string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.responses[prompt] = response
}

// FailNext makes the next n Generate calls return an error.
func (m *MockModel) FailNext(n int) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.failures = n
}

// Calls returns the number of Generate invocations so far.
func (m *MockModel) Calls() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.calls
}

// Generate implements Model.
func (m *MockModel) Generate(ctx context.Context, req Request) (*Response, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	m.calls++
	if m.failures > 0 {
		m.failures--
		return nil, fmt.Errorf("mock generation failure")
	}

	key := req.Prompt
	if key == "" && len(req.Messages) > 0 {
		key = req.Messages[len(req.Messages)-1].Content
	}
	text, ok := m.responses[key]
	if !ok {
		text = fmt.Sprintf("Mock response to: %s", key)
	}
	return &Response{Text: text, FinishReason: "stop"}, nil
}

// Info implements Model.
func (m *MockModel) Info() Info { return m.info }
