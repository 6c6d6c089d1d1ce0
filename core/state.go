package core

// InterviewState is the interviewer's finite state machine position for one
// session. It is owned exclusively by that session's interviewer instance.
// Transitions are one-directional except Questioning⇄FollowingUp; Ended is
// terminal.
type InterviewState string

// Interview states in lifecycle order.
const (
	StateInitializing InterviewState = "initializing"
	StateIntroduction InterviewState = "introduction"
	StateQuestioning  InterviewState = "questioning"
	StateFollowingUp  InterviewState = "following_up"
	StateSummarizing  InterviewState = "summarizing"
	StateEnded        InterviewState = "ended"
)

// stateTransitions is the closed set of legal moves.
var stateTransitions = map[InterviewState][]InterviewState{
	StateInitializing: {StateIntroduction},
	StateIntroduction: {StateQuestioning},
	StateQuestioning:  {StateFollowingUp, StateQuestioning, StateSummarizing},
	StateFollowingUp:  {StateQuestioning},
	StateSummarizing:  {StateEnded},
	StateEnded:        {},
}

// CanTransition reports whether moving from s to next is legal.
func (s InterviewState) CanTransition(next InterviewState) bool {
	for _, allowed := range stateTransitions[s] {
		if allowed == next {
			return true
		}
	}
	return false
}

// Terminal reports whether the state accepts no further input.
func (s InterviewState) Terminal() bool { return s == StateEnded }
