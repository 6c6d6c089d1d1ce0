package agent

import (
	"context"
	"fmt"

	"github.com/hupe1980/interviewmesh/core"
	"github.com/hupe1980/interviewmesh/internal/util"
	"github.com/hupe1980/interviewmesh/invoke"
	"github.com/hupe1980/interviewmesh/model"
)

const coachDirective = `You are an interview coach. For every candidate answer you give
constructive feedback on structure, content and delivery. You never interfere
with the interview flow itself.`

// Coach is a continuous monitor without a state machine: every user answer
// yields structured feedback tagged by structure, content and delivery. It
// never affects the interviewer's state.
type Coach struct {
	BaseAgent
}

// NewCoach constructs a Coach with optional overrides.
func NewCoach(optFns ...func(o *Options)) *Coach {
	opts := Options{Description: "Gives structured feedback on every answer"}
	for _, fn := range optFns {
		fn(&opts)
	}
	return &Coach{BaseAgent: NewBaseAgent("coach", coachDirective, opts)}
}

type feedbackParams struct {
	Answer string `json:"answer" description:"The candidate answer to review"`
}

// Capabilities implements core.Agent.
func (c *Coach) Capabilities() []core.ToolDescriptor {
	return []core.ToolDescriptor{
		{Name: "feedback", Description: "Produce structure/content/delivery feedback for an answer", Parameters: util.CreateSchema(feedbackParams{})},
	}
}

// ProcessInput implements core.Agent.
func (c *Coach) ProcessInput(ctx context.Context, input string, turn *core.TurnContext) (core.Response, error) {
	c.maybePlan(ctx, turn)

	outcome := c.generate(ctx, model.Request{
		Instructions: c.directive,
		Messages:     turn.History,
		Prompt: fmt.Sprintf(`Give feedback on this answer: %q
Respond with JSON only: {"structure": "...", "content": "...", "delivery": "..."}`, input),
	}, func() string { return "{}" })

	data := invoke.ParseStructured(outcome.Text, map[string]any{})
	structure := invoke.StringField(data, "structure", "Clear enough; consider a brief intro-body-conclusion shape.")
	content := invoke.StringField(data, "content", "Add a concrete example to strengthen the point.")
	delivery := invoke.StringField(data, "delivery", "Good pace; keep sentences short.")

	c.publish(core.NewEvent(core.EventCoachFeedback, c.Name(), core.CoachFeedbackPayload{
		SessionID: turn.SessionID,
		Structure: structure,
		Content:   content,
		Delivery:  delivery,
	}))

	resp := core.NewResponse(c.Name(), fmt.Sprintf("Structure: %s\nContent: %s\nDelivery: %s", structure, content, delivery))
	resp.Data = map[string]any{"structure": structure, "content": content, "delivery": delivery}
	return resp, nil
}
