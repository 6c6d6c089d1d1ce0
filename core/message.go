package core

import "time"

// Role identifies the conversational author of a Message.
type Role string

// Conversation roles. RoleSystem is reserved for synthetic messages such as
// history summaries; user input and agent output use the other two.
const (
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
	RoleSystem    Role = "system"
)

// Message is a single conversation entry. Messages are append-only: once
// added to a SessionContext they are never mutated. Agent carries the name of
// the producing agent for assistant messages; empty for user input.
type Message struct {
	Role      Role           `json:"role"`
	Content   string         `json:"content"`
	Agent     string         `json:"agent,omitempty"`
	Metadata  map[string]any `json:"metadata,omitempty"`
	Timestamp time.Time      `json:"timestamp"`
}

// NewMessage constructs a timestamped message.
func NewMessage(role Role, content string) Message {
	return Message{Role: role, Content: content, Timestamp: time.Now().UTC()}
}

// NewAgentMessage constructs an assistant message tagged with its source agent.
func NewAgentMessage(agent, content string) Message {
	m := NewMessage(RoleAssistant, content)
	m.Agent = agent
	return m
}
