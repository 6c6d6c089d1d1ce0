package core

import (
	"time"

	"github.com/google/uuid"
)

// EventType tags an Event with its semantic category. Each type has exactly
// one payload shape (see payload.go); subscribers switch on the concrete
// payload type so new event types surface as unhandled cases at review time.
type EventType string

// Event types published by the orchestrator and agents. External observers
// may subscribe to any of these, or to bus.Wildcard for all of them.
const (
	EventInterviewStarted      EventType = "interview_started"
	EventQuestionAsked         EventType = "question_asked"
	EventAnswerReceived        EventType = "answer_received"
	EventUserResponse          EventType = "user_response"
	EventAgentResponse         EventType = "agent_response"
	EventCoachFeedback         EventType = "coach_feedback"
	EventSkillAssessmentUpdate EventType = "skill_assessment_update"
	EventInterviewSummary      EventType = "interview_summary"
	EventSessionEnded          EventType = "session_ended"
	EventModeChanged           EventType = "mode_changed"
	EventAgentSwitched         EventType = "agent_switched"
)

// Event is the unit of communication between the orchestrator, agents and
// external observers. After publication it must be treated as immutable.
// Source identifies the emitting component (agent name, "orchestrator", ...).
type Event struct {
	ID        string    `json:"id"`
	Type      EventType `json:"type"`
	Source    string    `json:"source"`
	Payload   Payload   `json:"payload,omitempty"`
	Timestamp time.Time `json:"timestamp"`
}

// NewEvent creates an event of the given type authored by source. The payload
// must match the event type; constructors below enforce common pairings.
func NewEvent(t EventType, source string, p Payload) Event {
	return Event{
		ID:        NewID(),
		Type:      t,
		Source:    source,
		Payload:   p,
		Timestamp: time.Now().UTC(),
	}
}

// NewUserResponseEvent records a raw user turn entering the system.
func NewUserResponseEvent(sessionID, text string) Event {
	return NewEvent(EventUserResponse, "orchestrator", UserResponsePayload{SessionID: sessionID, Text: text})
}

// NewAgentResponseEvent records an agent's contribution to a composed turn.
func NewAgentResponseEvent(agent, sessionID, text string) Event {
	return NewEvent(EventAgentResponse, agent, AgentResponsePayload{SessionID: sessionID, Agent: agent, Text: text})
}

// NewID generates a unique identifier used for events, messages and sessions.
func NewID() string { return uuid.NewString() }

// UnixSeconds returns the timestamp as fractional seconds since Unix epoch.
// Useful for metrics & numeric serialization paths.
func (e Event) UnixSeconds() float64 { return float64(e.Timestamp.UnixNano()) / 1e9 }
