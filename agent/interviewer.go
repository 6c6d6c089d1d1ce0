package agent

import (
	"context"
	"fmt"
	"sync"

	"github.com/hupe1980/interviewmesh/core"
	"github.com/hupe1980/interviewmesh/internal/util"
	"github.com/hupe1980/interviewmesh/invoke"
	"github.com/hupe1980/interviewmesh/model"
)

const interviewerDirective = `You are a professional interviewer conducting a structured interview.
Ask one focused question at a time, evaluate answers for depth and completeness,
and keep the conversation on track.`

// InterviewerOptions configures an Interviewer.
type InterviewerOptions struct {
	Options
	// MaxQuestions bounds the interview before it moves to summarizing.
	MaxQuestions int
}

// interviewProgress is the per-session state machine position.
type interviewProgress struct {
	state     core.InterviewState
	questions int
}

// Interviewer drives the interview through a finite state machine:
// Initializing → Introduction → Questioning ⇄ FollowingUp → Summarizing →
// Ended. State is kept per session; a transition that cannot be determined
// keeps the current state and logs a warning, the session never crashes.
type Interviewer struct {
	BaseAgent
	maxQuestions int

	mu       sync.Mutex
	sessions map[string]*interviewProgress
}

// NewInterviewer constructs an Interviewer with optional overrides.
func NewInterviewer(optFns ...func(o *InterviewerOptions)) *Interviewer {
	opts := InterviewerOptions{MaxQuestions: 10}
	for _, fn := range optFns {
		fn(&opts)
	}
	if opts.Description == "" {
		opts.Description = "Conducts the interview, asking and evaluating questions"
	}
	return &Interviewer{
		BaseAgent:    NewBaseAgent("interviewer", interviewerDirective, opts.Options),
		maxQuestions: opts.MaxQuestions,
		sessions:     make(map[string]*interviewProgress),
	}
}

type askQuestionParams struct {
	Topic    string `json:"topic,omitempty" description:"Optional topic to steer the question toward"`
	FollowUp bool   `json:"follow_up,omitempty" description:"Whether this is a clarifying follow-up"`
}

type evaluateAnswerParams struct {
	Answer string `json:"answer" description:"The candidate answer to evaluate"`
}

// Capabilities implements core.Agent.
func (v *Interviewer) Capabilities() []core.ToolDescriptor {
	return []core.ToolDescriptor{
		{Name: "ask_question", Description: "Generate the next interview question", Parameters: util.CreateSchema(askQuestionParams{})},
		{Name: "evaluate_answer", Description: "Judge whether an answer is complete enough to move on", Parameters: util.CreateSchema(evaluateAnswerParams{})},
		{Name: "summarize_interview", Description: "Produce the final interview assessment"},
	}
}

// State returns the state machine position for a session; unknown sessions
// report Initializing.
func (v *Interviewer) State(sessionID string) core.InterviewState {
	v.mu.Lock()
	defer v.mu.Unlock()
	if p, ok := v.sessions[sessionID]; ok {
		return p.state
	}
	return core.StateInitializing
}

// Reset discards the state machine position for a session.
func (v *Interviewer) Reset(sessionID string) {
	v.mu.Lock()
	defer v.mu.Unlock()
	delete(v.sessions, sessionID)
}

func (v *Interviewer) progress(sessionID string) *interviewProgress {
	v.mu.Lock()
	defer v.mu.Unlock()
	p, ok := v.sessions[sessionID]
	if !ok {
		p = &interviewProgress{state: core.StateInitializing}
		v.sessions[sessionID] = p
	}
	return p
}

// transition moves the session to next if legal. An illegal move keeps the
// current state and logs the StateTransitionError as a warning.
func (v *Interviewer) transition(p *interviewProgress, next core.InterviewState, sessionID string) bool {
	if !p.state.CanTransition(next) {
		err := &core.StateTransitionError{From: p.state, To: next}
		v.logger.Warn("remaining in state %s session_id=%s: %v", p.state, sessionID, err)
		return false
	}
	p.state = next
	return true
}

// ProcessInput implements core.Agent. The orchestrator serializes all turns
// of one session, so the per-session progress is never stepped concurrently.
func (v *Interviewer) ProcessInput(ctx context.Context, input string, turn *core.TurnContext) (core.Response, error) {
	p := v.progress(turn.SessionID)
	if p.state.Terminal() {
		return core.Response{}, core.ErrSessionEnded
	}

	v.maybePlan(ctx, turn)

	switch p.state {
	case core.StateInitializing:
		v.transition(p, core.StateIntroduction, turn.SessionID)
		v.publish(core.NewEvent(core.EventInterviewStarted, v.Name(),
			core.InterviewStartedPayload{SessionID: turn.SessionID, UserID: turn.UserID}))
		outcome := v.generate(ctx, model.Request{
			Instructions: v.directive,
			Prompt:       fmt.Sprintf("Open the interview with a short welcome responding to: %s", input),
		}, func() string {
			return "Welcome! I'll be conducting your interview today. Tell me a bit about yourself to get started."
		})
		return core.NewResponse(v.Name(), outcome.Text), nil

	case core.StateIntroduction:
		// First substantive user reply; start questioning.
		v.transition(p, core.StateQuestioning, turn.SessionID)
		return v.askQuestion(ctx, input, turn, p, false), nil

	case core.StateQuestioning:
		v.publish(core.NewEvent(core.EventAnswerReceived, v.Name(),
			core.AnswerReceivedPayload{SessionID: turn.SessionID, Answer: input}))

		if p.questions >= v.maxQuestions {
			return v.summarize(ctx, turn, p, "question budget reached")
		}

		if !v.answerComplete(ctx, input, turn) && v.transition(p, core.StateFollowingUp, turn.SessionID) {
			return v.askQuestion(ctx, input, turn, p, true), nil
		}
		v.transition(p, core.StateQuestioning, turn.SessionID)
		return v.askQuestion(ctx, input, turn, p, false), nil

	case core.StateFollowingUp:
		v.publish(core.NewEvent(core.EventAnswerReceived, v.Name(),
			core.AnswerReceivedPayload{SessionID: turn.SessionID, Answer: input}))
		v.transition(p, core.StateQuestioning, turn.SessionID)
		return v.askQuestion(ctx, input, turn, p, false), nil

	case core.StateSummarizing:
		return v.summarize(ctx, turn, p, "interview complete")

	default:
		return core.Response{}, core.ErrSessionEnded
	}
}

// EndInterview drives the session to its terminal state over legal
// transitions, producing the final summary on the way. Safe to call from any
// non-terminal state.
func (v *Interviewer) EndInterview(ctx context.Context, turn *core.TurnContext) (core.Response, error) {
	p := v.progress(turn.SessionID)
	if p.state.Terminal() {
		return core.Response{}, core.ErrSessionEnded
	}

	// Walk forward through the lifecycle until summarizing is reachable.
	for p.state != core.StateSummarizing {
		switch p.state {
		case core.StateInitializing:
			v.transition(p, core.StateIntroduction, turn.SessionID)
		case core.StateIntroduction, core.StateFollowingUp:
			v.transition(p, core.StateQuestioning, turn.SessionID)
		case core.StateQuestioning:
			v.transition(p, core.StateSummarizing, turn.SessionID)
		}
	}
	return v.summarize(ctx, turn, p, "end command")
}

// answerComplete evaluates the prior answer via the generation wrapper. An
// unparseable or failed evaluation counts as complete so the interview keeps
// moving instead of looping on follow-ups.
func (v *Interviewer) answerComplete(ctx context.Context, answer string, turn *core.TurnContext) bool {
	outcome := v.generate(ctx, model.Request{
		Instructions: v.directive,
		Messages:     turn.History,
		Prompt: fmt.Sprintf(`Evaluate this answer for completeness and depth: %q
Respond with JSON only: {"complete": true|false, "reason": "..."}`, answer),
	}, func() string { return `{"complete": true}` })

	data := invoke.ParseStructured(outcome.Text, map[string]any{"complete": true})
	return invoke.Field(data, "complete", true)
}

// askQuestion generates and publishes the next question. Follow-ups do not
// advance the question counter.
func (v *Interviewer) askQuestion(ctx context.Context, input string, turn *core.TurnContext, p *interviewProgress, followUp bool) core.Response {
	prompt := fmt.Sprintf("Ask the next interview question, building on the candidate's last answer: %s", input)
	fallback := "Can you walk me through a recent project you are proud of?"
	if followUp {
		prompt = fmt.Sprintf("The last answer was incomplete. Ask one short clarifying follow-up question about: %s", input)
		fallback = "Could you elaborate on that a bit more?"
	} else {
		p.questions++
	}

	outcome := v.generate(ctx, model.Request{
		Instructions: v.directive,
		Messages:     turn.History,
		Prompt:       prompt,
	}, func() string { return fallback })

	v.publish(core.NewEvent(core.EventQuestionAsked, v.Name(), core.QuestionAskedPayload{
		SessionID: turn.SessionID,
		Question:  outcome.Text,
		Number:    p.questions,
		FollowUp:  followUp,
	}))
	return core.NewResponse(v.Name(), outcome.Text)
}

// summarize produces the final assessment and terminates the session. The
// session-end event is published here, at the terminal transition, so every
// termination path (question budget, explicit end) announces it exactly once.
func (v *Interviewer) summarize(ctx context.Context, turn *core.TurnContext, p *interviewProgress, reason string) (core.Response, error) {
	if p.state != core.StateSummarizing {
		v.transition(p, core.StateSummarizing, turn.SessionID)
	}

	outcome := v.generate(ctx, model.Request{
		Instructions: v.directive,
		Messages:     turn.History,
		Prompt:       "The interview is over. Provide a concise final assessment of the candidate's performance.",
	}, func() string {
		return "Thank you for your time. The interview is now complete."
	})

	v.transition(p, core.StateEnded, turn.SessionID)
	v.publish(core.NewEvent(core.EventInterviewSummary, v.Name(),
		core.InterviewSummaryPayload{SessionID: turn.SessionID, Summary: outcome.Text}))
	v.publish(core.NewEvent(core.EventSessionEnded, v.Name(),
		core.SessionEndedPayload{SessionID: turn.SessionID, Reason: reason}))

	resp := core.NewResponse(v.Name(), outcome.Text)
	resp.Data = map[string]any{"questions_asked": p.questions}
	return resp, nil
}
