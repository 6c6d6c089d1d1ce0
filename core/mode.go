package core

import "fmt"

// Mode is the per-session operating policy determining which agents are
// active and how their outputs are composed. Exactly one mode is active per
// session at any time.
type Mode string

// Operating modes.
const (
	ModeInterviewOnly         Mode = "interview_only"
	ModeInterviewWithCoaching Mode = "interview_with_coaching"
	ModeCoachingOnly          Mode = "coaching_only"
	ModeSkillAssessment       Mode = "skill_assessment"
	ModeFullFeedback          Mode = "full_feedback"
)

// Modes lists all valid modes in a stable order.
func Modes() []Mode {
	return []Mode{
		ModeInterviewOnly,
		ModeInterviewWithCoaching,
		ModeCoachingOnly,
		ModeSkillAssessment,
		ModeFullFeedback,
	}
}

// Valid reports whether m is a known mode.
func (m Mode) Valid() bool {
	switch m {
	case ModeInterviewOnly, ModeInterviewWithCoaching, ModeCoachingOnly, ModeSkillAssessment, ModeFullFeedback:
		return true
	}
	return false
}

// ParseMode converts user-supplied text into a Mode.
func ParseMode(s string) (Mode, error) {
	m := Mode(s)
	if !m.Valid() {
		return "", fmt.Errorf("unknown mode %q", s)
	}
	return m, nil
}
