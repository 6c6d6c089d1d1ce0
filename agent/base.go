package agent

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/hupe1980/interviewmesh/bus"
	"github.com/hupe1980/interviewmesh/core"
	"github.com/hupe1980/interviewmesh/invoke"
	"github.com/hupe1980/interviewmesh/logging"
	"github.com/hupe1980/interviewmesh/model"
)

// ShouldPlan reports whether an agent at the given step runs its internal
// reflection pass before producing the normal response. An interval of zero
// or less disables planning entirely.
func ShouldPlan(stepCount, interval int) bool {
	return interval > 0 && stepCount > 0 && stepCount%interval == 0
}

// Options configures the shared collaborators of an agent variant.
type Options struct {
	// Description is a human-readable summary of the agent's purpose.
	Description string
	// Bus receives the events the agent publishes; nil disables publishing.
	Bus *bus.Bus
	// Invoker wraps all generation calls with retry and fallback.
	Invoker *invoke.Invoker
	// Model is the generation backend.
	Model model.Model
	// Logger receives warnings and turn diagnostics.
	Logger logging.Logger
	// MaxRetries bounds additional generation attempts per call.
	MaxRetries int
	// PlanningInterval triggers a reflection step every N turns; 0 disables.
	PlanningInterval int
}

// BaseAgent bundles the collaborators and turn bookkeeping shared by all
// agent variants. Embed it in a concrete variant supplying ProcessInput and
// Capabilities. Safe for concurrent use.
type BaseAgent struct {
	name             string
	description      string
	directive        string
	bus              *bus.Bus
	invoker          *invoke.Invoker
	model            model.Model
	logger           logging.Logger
	maxRetries       int
	planningInterval int

	mu        sync.Mutex
	stepCount int
	lastPlan  string
}

// NewBaseAgent constructs a BaseAgent for embedding in a concrete variant.
func NewBaseAgent(name, directive string, opts Options) BaseAgent {
	if opts.Description == "" {
		opts.Description = fmt.Sprintf("Agent %s", name)
	}
	if opts.Invoker == nil {
		opts.Invoker = invoke.New()
	}
	if opts.Logger == nil {
		opts.Logger = logging.NoOpLogger{}
	}
	if opts.MaxRetries <= 0 {
		opts.MaxRetries = 2
	}
	return BaseAgent{
		name:             name,
		description:      opts.Description,
		directive:        directive,
		bus:              opts.Bus,
		invoker:          opts.Invoker,
		model:            opts.Model,
		logger:           opts.Logger,
		maxRetries:       opts.MaxRetries,
		planningInterval: opts.PlanningInterval,
	}
}

// Name returns the stable identifier used for routing and source tags.
func (b *BaseAgent) Name() string { return b.name }

// Description returns the human-readable summary of the agent's purpose.
func (b *BaseAgent) Description() string { return b.description }

// SystemDirective returns the directive text governing the agent's role.
func (b *BaseAgent) SystemDirective() string { return b.directive }

// StepCount returns the number of turns processed so far.
func (b *BaseAgent) StepCount() int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.stepCount
}

// LastPlan returns the most recent reflection output, empty if none ran yet.
func (b *BaseAgent) LastPlan() string {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.lastPlan
}

// nextStep advances the turn counter and returns the new value.
func (b *BaseAgent) nextStep() int {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.stepCount++
	return b.stepCount
}

// publish delivers an event to the bus when one is attached.
func (b *BaseAgent) publish(ev core.Event) {
	if b.bus != nil {
		b.bus.Publish(ev)
	}
}

// generate routes one generation call through the invoke wrapper. The outcome
// always carries usable text; degraded calls return defaultFn()'s value.
func (b *BaseAgent) generate(ctx context.Context, req model.Request, defaultFn invoke.DefaultFunc) invoke.Outcome {
	if b.model == nil {
		b.logger.Warn("agent %s has no model attached, using default", b.name)
		return invoke.Outcome{Text: defaultFn(), Status: invoke.StatusRecovered}
	}

	inputs := map[string]any{
		"instructions": req.Instructions,
		"messages":     req.Messages,
		"prompt":       req.Prompt,
	}
	call := func(ctx context.Context, in map[string]any) (string, error) {
		msgs, _ := in["messages"].([]core.Message)
		resp, err := b.model.Generate(ctx, model.Request{
			Instructions: invoke.StringField(in, "instructions", ""),
			Messages:     msgs,
			Prompt:       invoke.StringField(in, "prompt", ""),
		})
		if err != nil {
			return "", err
		}
		return resp.Text, nil
	}

	start := time.Now()
	outcome := b.invoker.WithRecovery(ctx, call, inputs, defaultFn, b.maxRetries)
	b.logger.Debug("generation finished agent=%s status=%s attempts=%d duration=%s",
		b.name, outcome.Status, outcome.Attempts, time.Since(start))
	return outcome
}

// maybePlan advances the step counter and, on planning turns, runs the
// reflection pass. The plan informs subsequent generations; a degraded plan
// is simply discarded.
func (b *BaseAgent) maybePlan(ctx context.Context, turn *core.TurnContext) {
	step := b.nextStep()
	if !ShouldPlan(step, b.planningInterval) {
		return
	}

	outcome := b.generate(ctx, model.Request{
		Instructions: b.directive,
		Messages:     turn.History,
		Prompt:       "Reflect briefly on the conversation so far and note what to adjust in your next responses.",
	}, func() string { return "" })
	if !outcome.OK() || outcome.Text == "" {
		return
	}

	b.mu.Lock()
	b.lastPlan = outcome.Text
	b.mu.Unlock()
	b.logger.Debug("reflection step completed agent=%s step=%d", b.name, step)
}
