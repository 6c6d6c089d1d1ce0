package core

// Payload is the polymorphic event payload. Concrete payload types implement
// the unexported isPayload marker enabling a closed set: one payload shape
// per EventType, matched by type switch on the subscriber side.
type Payload interface{ isPayload() }

// InterviewStartedPayload announces a new interview session.
type InterviewStartedPayload struct {
	SessionID string `json:"session_id"`
	UserID    string `json:"user_id,omitempty"`
}

func (InterviewStartedPayload) isPayload() {}

// QuestionAskedPayload carries a question emitted by the interviewer.
type QuestionAskedPayload struct {
	SessionID string `json:"session_id"`
	Question  string `json:"question"`
	Number    int    `json:"number"`
	FollowUp  bool   `json:"follow_up"`
}

func (QuestionAskedPayload) isPayload() {}

// AnswerReceivedPayload carries a user answer acknowledged by the interviewer.
type AnswerReceivedPayload struct {
	SessionID string `json:"session_id"`
	Answer    string `json:"answer"`
}

func (AnswerReceivedPayload) isPayload() {}

// UserResponsePayload carries a raw user turn before any routing.
type UserResponsePayload struct {
	SessionID string `json:"session_id"`
	Text      string `json:"text"`
}

func (UserResponsePayload) isPayload() {}

// AgentResponsePayload carries a single agent's response text.
type AgentResponsePayload struct {
	SessionID string `json:"session_id"`
	Agent     string `json:"agent"`
	Text      string `json:"text"`
}

func (AgentResponsePayload) isPayload() {}

// CoachFeedbackPayload carries structured coaching feedback for one answer.
type CoachFeedbackPayload struct {
	SessionID string `json:"session_id"`
	Structure string `json:"structure"`
	Content   string `json:"content"`
	Delivery  string `json:"delivery"`
}

func (CoachFeedbackPayload) isPayload() {}

// SkillAssessmentUpdatePayload carries one created or updated assessment.
type SkillAssessmentUpdatePayload struct {
	SessionID  string          `json:"session_id"`
	Assessment SkillAssessment `json:"assessment"`
}

func (SkillAssessmentUpdatePayload) isPayload() {}

// InterviewSummaryPayload carries the final assessment or skill profile.
type InterviewSummaryPayload struct {
	SessionID string `json:"session_id"`
	Summary   string `json:"summary"`
}

func (InterviewSummaryPayload) isPayload() {}

// SessionEndedPayload announces that a session reached its terminal state.
type SessionEndedPayload struct {
	SessionID string `json:"session_id"`
	Reason    string `json:"reason"`
}

func (SessionEndedPayload) isPayload() {}

// ModeChangedPayload records an operating mode switch for a session.
type ModeChangedPayload struct {
	SessionID string `json:"session_id"`
	From      Mode   `json:"from"`
	To        Mode   `json:"to"`
}

func (ModeChangedPayload) isPayload() {}

// AgentSwitchedPayload records a change of the exclusively focused agent.
type AgentSwitchedPayload struct {
	SessionID string `json:"session_id"`
	From      string `json:"from"`
	To        string `json:"to"`
}

func (AgentSwitchedPayload) isPayload() {}
