// Package testutil provides fluent builders for constructing sessions and
// events in tests.
package testutil

import (
	"github.com/hupe1980/interviewmesh/core"
)

// SessionBuilder helps construct populated session contexts with fluent
// chaining. Example:
//
//	sc := NewSessionBuilder("sess-1").User("u1").UserText("hi").AgentText("interviewer", "hello").Build()
type SessionBuilder struct {
	id       string
	userID   string
	metadata map[string]any
	messages []core.Message
}

// NewSessionBuilder creates a builder for a session with the given id.
func NewSessionBuilder(id string) *SessionBuilder {
	return &SessionBuilder{id: id, metadata: map[string]any{}}
}

// User sets the user ID (chainable).
func (b *SessionBuilder) User(userID string) *SessionBuilder {
	b.userID = userID
	return b
}

// Metadata sets or overwrites a metadata key/value pair (chainable).
func (b *SessionBuilder) Metadata(key string, val any) *SessionBuilder {
	b.metadata[key] = val
	return b
}

// UserText appends a user message (chainable).
func (b *SessionBuilder) UserText(t string) *SessionBuilder {
	b.messages = append(b.messages, core.NewMessage(core.RoleUser, t))
	return b
}

// AgentText appends an assistant message tagged with its source agent
// (chainable).
func (b *SessionBuilder) AgentText(agent, t string) *SessionBuilder {
	b.messages = append(b.messages, core.NewAgentMessage(agent, t))
	return b
}

// Exchange appends n alternating user/assistant message pairs (chainable).
func (b *SessionBuilder) Exchange(n int) *SessionBuilder {
	for i := 0; i < n; i++ {
		b.UserText("user message").AgentText("interviewer", "agent message")
	}
	return b
}

// Build returns a *core.SessionContext with pre-populated metadata and
// messages.
func (b *SessionBuilder) Build() *core.SessionContext {
	sc := core.NewSessionContext(b.id, b.userID)
	for k, v := range b.metadata {
		sc.SetMetadata(k, v)
	}
	for _, m := range b.messages {
		sc.Append(m)
	}
	return sc
}

// EventBuilder provides a fluent helper for constructing events in tests.
// Example:
//
//	ev := NewEventBuilder().Type(core.EventQuestionAsked).Source("interviewer").
//		Payload(core.QuestionAskedPayload{SessionID: "s1", Question: "q", Number: 1}).Build()
type EventBuilder struct {
	id      string
	typ     core.EventType
	source  string
	payload core.Payload
}

// NewEventBuilder creates a builder with default source "test".
func NewEventBuilder() *EventBuilder {
	return &EventBuilder{typ: core.EventUserResponse, source: "test"}
}

// ID overrides the auto-generated event ID (chainable). Use where determinism
// matters.
func (b *EventBuilder) ID(id string) *EventBuilder { b.id = id; return b }

// Type sets the event type (chainable).
func (b *EventBuilder) Type(t core.EventType) *EventBuilder { b.typ = t; return b }

// Source sets the emitting component name (chainable).
func (b *EventBuilder) Source(s string) *EventBuilder { b.source = s; return b }

// Payload sets the typed payload; it must match the event type (chainable).
func (b *EventBuilder) Payload(p core.Payload) *EventBuilder { b.payload = p; return b }

// Build constructs the core.Event value.
func (b *EventBuilder) Build() core.Event {
	ev := core.NewEvent(b.typ, b.source, b.payload)
	if b.id != "" {
		ev.ID = b.id
	}
	return ev
}
