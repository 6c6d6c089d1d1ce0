// Package orchestrator is the coordination core: it owns the session
// contexts, routes each user turn to the agent subset determined by the
// session's operating mode, composes multi-agent output deterministically and
// shields callers behind a per-session response cache.
//
// Each session is logically single-threaded: a per-session mutex serializes
// context appends, agent state transitions and cache interaction for that
// session, while different sessions proceed fully in parallel. The bus and
// the cache are process-wide and internally synchronized.
package orchestrator

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/hupe1980/interviewmesh/agent"
	"github.com/hupe1980/interviewmesh/bus"
	"github.com/hupe1980/interviewmesh/cache"
	"github.com/hupe1980/interviewmesh/core"
	"github.com/hupe1980/interviewmesh/logging"
	"github.com/hupe1980/interviewmesh/model"
	"github.com/hupe1980/interviewmesh/session"
)

// Result is the composed outcome of one processed turn. Timestamp is always
// fresh, a cache hit is only distinguishable via Cached.
type Result struct {
	Content   string    `json:"content"`
	Mode      core.Mode `json:"mode"`
	Cached    bool      `json:"cached"`
	Timestamp time.Time `json:"timestamp"`
}

// Options configures an Orchestrator.
type Options struct {
	// Bus is the process-wide event bus; a private one is created when nil.
	Bus *bus.Bus
	// Store persists session contexts; in-memory when nil.
	Store session.Store
	// Cache memoizes composed responses; a default TTL cache when nil.
	Cache *cache.Cache
	// Model is the generation backend handed to default-constructed agents.
	Model model.Model
	// Logger receives orchestration diagnostics.
	Logger logging.Logger
	// DefaultMode is the operating mode of new sessions.
	DefaultMode core.Mode
	// Window bounds the history view handed to agents per turn.
	Window int

	// Interviewer, Coach and Assessor override the default-constructed agent
	// variants, e.g. to share them across orchestrators or inject test doubles.
	Interviewer *agent.Interviewer
	Coach       *agent.Coach
	Assessor    *agent.Assessor
}

// sessionState is the orchestrator's own per-session bookkeeping: the mutex
// serializing the session's turns, the active mode and the optional exclusive
// agent focus.
type sessionState struct {
	mu    sync.Mutex
	mode  core.Mode
	focus string
}

// Orchestrator routes turns, composes responses and owns all session state.
type Orchestrator struct {
	bus         *bus.Bus
	store       session.Store
	cache       *cache.Cache
	logger      logging.Logger
	defaultMode core.Mode
	window      int

	interviewer *agent.Interviewer
	coach       *agent.Coach
	assessor    *agent.Assessor

	mu       sync.Mutex
	sessions map[string]*sessionState
}

// New constructs an Orchestrator with optional overrides. Agents not supplied
// are constructed with the orchestrator's bus, model and logger.
func New(optFns ...func(o *Options)) *Orchestrator {
	opts := Options{
		DefaultMode: core.ModeInterviewOnly,
		Window:      20,
	}
	for _, fn := range optFns {
		fn(&opts)
	}
	if opts.Bus == nil {
		opts.Bus = bus.New()
	}
	if opts.Store == nil {
		opts.Store = session.NewInMemoryStore()
	}
	if opts.Cache == nil {
		opts.Cache = cache.New()
	}
	if opts.Logger == nil {
		opts.Logger = logging.NoOpLogger{}
	}
	if !opts.DefaultMode.Valid() {
		opts.DefaultMode = core.ModeInterviewOnly
	}
	if opts.Interviewer == nil {
		opts.Interviewer = agent.NewInterviewer(func(o *agent.InterviewerOptions) {
			o.Bus = opts.Bus
			o.Model = opts.Model
			o.Logger = opts.Logger
		})
	}
	if opts.Coach == nil {
		opts.Coach = agent.NewCoach(func(o *agent.Options) {
			o.Bus = opts.Bus
			o.Model = opts.Model
			o.Logger = opts.Logger
		})
	}
	if opts.Assessor == nil {
		opts.Assessor = agent.NewAssessor(func(o *agent.AssessorOptions) {
			o.Bus = opts.Bus
			o.Model = opts.Model
			o.Logger = opts.Logger
		})
	}

	return &Orchestrator{
		bus:         opts.Bus,
		store:       opts.Store,
		cache:       opts.Cache,
		logger:      opts.Logger,
		defaultMode: opts.DefaultMode,
		window:      opts.Window,
		interviewer: opts.Interviewer,
		coach:       opts.Coach,
		assessor:    opts.Assessor,
		sessions:    make(map[string]*sessionState),
	}
}

// Bus returns the event bus for external observers.
func (o *Orchestrator) Bus() *bus.Bus { return o.bus }

// state returns the per-session bookkeeping, creating it on first use.
func (o *Orchestrator) state(sessionID string) *sessionState {
	o.mu.Lock()
	defer o.mu.Unlock()
	st, ok := o.sessions[sessionID]
	if !ok {
		st = &sessionState{mode: o.defaultMode}
		o.sessions[sessionID] = st
	}
	return st
}

// ProcessInput handles one user turn: record it, dispatch commands, probe the
// cache, route to the mode's agent set, compose, publish and memoize. Only
// unknown-session structural errors propagate; agent and generation failures
// degrade inside the turn.
func (o *Orchestrator) ProcessInput(ctx context.Context, text, sessionID, userID string) (*Result, error) {
	st := o.state(sessionID)
	st.mu.Lock()
	defer st.mu.Unlock()

	sc, err := o.store.Get(sessionID)
	if errors.Is(err, core.ErrSessionNotFound) {
		sc, err = o.store.Create(sessionID, userID)
	}
	if err != nil {
		return nil, err
	}

	// Fingerprint the state before this turn is recorded so an immediate
	// duplicate submission maps to the same cache key.
	fp := turnFingerprint(sc.Messages(), text)

	sc.AddMessage(core.RoleUser, text, nil)
	o.bus.Publish(core.NewUserResponseEvent(sessionID, text))

	if strings.HasPrefix(text, "/") {
		content := o.dispatchCommand(ctx, st, sessionID, userID, text)
		// Commands may have replaced the context (e.g. /reset), so record the
		// confirmation on the current one.
		if cur, err := o.store.Get(sessionID); err == nil {
			cur.AddMessage(core.RoleSystem, content, map[string]any{"command": true})
		}
		return &Result{Content: content, Mode: st.mode, Timestamp: time.Now().UTC()}, nil
	}

	key := cache.Key(text, fp, st.mode)
	if cached, ok := o.cache.Get(key); ok {
		o.logger.Debug("cache hit session_id=%s key=%s", sessionID, key)
		sc.Append(core.NewAgentMessage("orchestrator", cached))
		return &Result{Content: cached, Mode: st.mode, Cached: true, Timestamp: time.Now().UTC()}, nil
	}
	o.logger.Debug("cache miss session_id=%s key=%s", sessionID, key)

	turn := &core.TurnContext{SessionID: sessionID, UserID: userID, History: sc.BoundedView(o.window)}
	var responses []core.Response
	for _, ag := range o.activeAgents(st) {
		start := time.Now()
		resp, err := ag.ProcessInput(ctx, text, turn)
		if err != nil {
			if errors.Is(err, core.ErrSessionEnded) {
				responses = append(responses, core.NewResponse(ag.Name(),
					"The interview has ended. Use /reset to start over."))
				continue
			}
			o.logger.Error("agent turn failed agent=%s session_id=%s duration=%s: %v",
				ag.Name(), sessionID, time.Since(start), err)
			continue
		}
		o.bus.Publish(core.NewAgentResponseEvent(ag.Name(), sessionID, resp.Text))
		responses = append(responses, resp)
	}

	if len(responses) == 0 {
		content := "No response is available right now. Please try again."
		sc.Append(core.NewAgentMessage("orchestrator", content))
		return &Result{Content: content, Mode: st.mode, Timestamp: time.Now().UTC()}, nil
	}

	composed := compose(responses)
	sc.Append(core.NewAgentMessage("orchestrator", composed))
	o.cache.Put(key, composed)
	return &Result{Content: composed, Mode: st.mode, Timestamp: time.Now().UTC()}, nil
}

// SwitchMode changes the session's operating mode, re-deriving the active
// agent set without touching the conversation history.
func (o *Orchestrator) SwitchMode(sessionID string, mode core.Mode) error {
	if !mode.Valid() {
		return fmt.Errorf("unknown mode %q", mode)
	}
	if _, err := o.store.Get(sessionID); err != nil {
		return err
	}

	st := o.state(sessionID)
	st.mu.Lock()
	defer st.mu.Unlock()
	from := st.mode
	st.mode = mode
	o.bus.Publish(core.NewEvent(core.EventModeChanged, "orchestrator",
		core.ModeChangedPayload{SessionID: sessionID, From: from, To: mode}))
	return nil
}

// Mode returns the session's current operating mode.
func (o *Orchestrator) Mode(sessionID string) core.Mode {
	st := o.state(sessionID)
	st.mu.Lock()
	defer st.mu.Unlock()
	return st.mode
}

// SwitchAgent gives one agent exclusive focus for subsequent turns without
// changing the mode. An empty or "auto" agentID restores mode-based routing.
func (o *Orchestrator) SwitchAgent(sessionID, agentID string) error {
	if agentID == "auto" {
		agentID = ""
	}
	if agentID != "" && o.agentByName(agentID) == nil {
		return fmt.Errorf("unknown agent %q", agentID)
	}
	if _, err := o.store.Get(sessionID); err != nil {
		return err
	}

	st := o.state(sessionID)
	st.mu.Lock()
	defer st.mu.Unlock()
	from := st.focus
	st.focus = agentID
	o.bus.Publish(core.NewEvent(core.EventAgentSwitched, "orchestrator",
		core.AgentSwitchedPayload{SessionID: sessionID, From: from, To: agentID}))
	return nil
}

// Reset discards the session's conversation, interviewer state and skill
// assessments, keeping the mode.
func (o *Orchestrator) Reset(sessionID string) error {
	if _, err := o.store.Get(sessionID); err != nil {
		return err
	}

	st := o.state(sessionID)
	st.mu.Lock()
	defer st.mu.Unlock()
	return o.resetLocked(st, sessionID)
}

func (o *Orchestrator) resetLocked(st *sessionState, sessionID string) error {
	if _, err := o.store.Create(sessionID, ""); err != nil {
		return err
	}
	o.interviewer.Reset(sessionID)
	o.assessor.ResetSession(sessionID)
	st.focus = ""
	return nil
}

// ActiveAgentNames returns the names of the agents a turn would currently be
// routed to, in composition order.
func (o *Orchestrator) ActiveAgentNames(sessionID string) []string {
	st := o.state(sessionID)
	st.mu.Lock()
	defer st.mu.Unlock()
	agents := o.activeAgents(st)
	names := make([]string, 0, len(agents))
	for _, ag := range agents {
		names = append(names, ag.Name())
	}
	return names
}

// activeAgents resolves the agent set for the session: the exclusive focus if
// one is set, otherwise the mode's fixed mapping in composition order
// (interviewer, then coach, then assessor).
func (o *Orchestrator) activeAgents(st *sessionState) []core.Agent {
	if st.focus != "" {
		if ag := o.agentByName(st.focus); ag != nil {
			return []core.Agent{ag}
		}
	}
	switch st.mode {
	case core.ModeInterviewOnly:
		return []core.Agent{o.interviewer}
	case core.ModeInterviewWithCoaching:
		return []core.Agent{o.interviewer, o.coach}
	case core.ModeCoachingOnly:
		return []core.Agent{o.coach}
	case core.ModeSkillAssessment:
		return []core.Agent{o.interviewer, o.assessor}
	case core.ModeFullFeedback:
		return []core.Agent{o.interviewer, o.coach, o.assessor}
	default:
		return []core.Agent{o.interviewer}
	}
}

func (o *Orchestrator) agentByName(name string) core.Agent {
	switch name {
	case o.interviewer.Name():
		return o.interviewer
	case o.coach.Name():
		return o.coach
	case o.assessor.Name():
		return o.assessor
	default:
		return nil
	}
}

// compose merges agent responses: single-agent turns are returned verbatim,
// multi-agent turns are concatenated in composition order, each part prefixed
// with its source tag.
func compose(responses []core.Response) string {
	if len(responses) == 1 {
		return responses[0].Text
	}
	parts := make([]string, 0, len(responses))
	for _, r := range responses {
		parts = append(parts, fmt.Sprintf("[%s] %s", r.Agent, r.Text))
	}
	return strings.Join(parts, "\n\n")
}

// turnFingerprint condenses the pre-turn conversation state. Trailing agent
// output is ignored, and every trailing user turn whose text equals the
// incoming one is ignored too, so any number of immediate resubmissions of the
// same text reuses the first submission's fingerprint within the TTL.
func turnFingerprint(msgs []core.Message, incoming string) string {
	end := len(msgs)
	for end > 0 && msgs[end-1].Role != core.RoleUser {
		end--
	}
	for end > 0 && msgs[end-1].Content == incoming {
		end--
		for end > 0 && msgs[end-1].Role != core.RoleUser {
			end--
		}
	}
	last := ""
	if end > 0 {
		last = msgs[end-1].Content
	}
	return cache.Fingerprint(end, last)
}
