package core

import (
	"context"
	"time"
)

// ToolDescriptor declaratively describes one capability an agent exposes.
// Parameters is a minimal JSON Schema object.
type ToolDescriptor struct {
	Name        string         `json:"name"`
	Description string         `json:"description"`
	Parameters  map[string]any `json:"parameters,omitempty"`
}

// Response is a single agent's contribution to a turn.
type Response struct {
	Agent     string         `json:"agent"`
	Text      string         `json:"text"`
	Data      map[string]any `json:"data,omitempty"`
	Timestamp time.Time      `json:"timestamp"`
}

// NewResponse constructs a timestamped agent response.
func NewResponse(agent, text string) Response {
	return Response{Agent: agent, Text: text, Timestamp: time.Now().UTC()}
}

// TurnContext is the isolated per-agent view of a session handed to
// ProcessInput for the duration of one turn. History is a read-only bounded
// snapshot; agents must not retain the TurnContext across calls.
type TurnContext struct {
	SessionID string
	UserID    string
	History   []Message
}

// Agent is the capability interface shared by all conversational agent
// variants (interviewer, coach, skill assessor). Implementations own their
// working state privately; the orchestrator never inspects it.
//
// Implementations must:
//   - Respect context cancellation on blocking work
//   - Route every generation backend call through the invoke package
//   - Treat TurnContext.History as read-only
type Agent interface {
	// Name returns the stable identifier used for routing and source tags.
	Name() string

	// ProcessInput produces the agent's response to one user turn.
	ProcessInput(ctx context.Context, input string, turn *TurnContext) (Response, error)

	// SystemDirective returns the directive text governing the agent's role.
	SystemDirective() string

	// Capabilities returns descriptors for the agent's tools.
	Capabilities() []ToolDescriptor
}
