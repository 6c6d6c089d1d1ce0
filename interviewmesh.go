// Package interviewmesh provides a high-level façade over the interview
// orchestration core: the event bus, session store, response cache and the
// three agent variants (interviewer, coach, skill assessor) wired behind a
// single Orchestrator. Most applications interact with this package by:
//  1. Creating an InterviewMesh via New() (optionally overriding defaults)
//  2. Feeding user turns through ProcessInput
//  3. Observing events via Bus().Subscribe
//
// All defaults are safe for local development and testing; production
// deployments typically supply a real generation backend (model/anthropic or
// model/openai), a durable session store and a structured logger.
package interviewmesh

import (
	"context"

	"github.com/hupe1980/interviewmesh/bus"
	"github.com/hupe1980/interviewmesh/cache"
	"github.com/hupe1980/interviewmesh/config"
	"github.com/hupe1980/interviewmesh/core"
	"github.com/hupe1980/interviewmesh/logging"
	"github.com/hupe1980/interviewmesh/model"
	"github.com/hupe1980/interviewmesh/orchestrator"
	"github.com/hupe1980/interviewmesh/session"
)

// Options configures the InterviewMesh instance.
type Options struct {
	// Model is the generation backend shared by all agents. When nil a
	// deterministic mock is used, which is only suitable for tests and demos.
	Model model.Model

	// SessionStore persists session contexts (in-memory if nil).
	SessionStore session.Store

	// Bus is the process-wide event bus (a private one is created if nil).
	Bus *bus.Bus

	// Cache memoizes composed responses (default TTL cache if nil).
	Cache *cache.Cache

	// Logger defaults to the NoOp logger if nil.
	Logger logging.Logger

	// DefaultMode is the operating mode assigned to new sessions.
	DefaultMode core.Mode

	// HistoryWindow bounds the per-turn history view handed to agents.
	HistoryWindow int
}

// InterviewMesh is the high-level façade aggregating the orchestrator and its
// collaborators.
type InterviewMesh struct {
	opts Options
	orch *orchestrator.Orchestrator
}

// New creates an InterviewMesh instance with optional overrides. Any unset
// collaborator is initialized with an in-memory implementation.
func New(optFns ...func(o *Options)) *InterviewMesh {
	opts := Options{
		SessionStore:  session.NewInMemoryStore(),
		Cache:         cache.New(),
		Logger:        logging.NoOpLogger{},
		DefaultMode:   core.ModeInterviewOnly,
		HistoryWindow: 20,
	}
	for _, fn := range optFns {
		fn(&opts)
	}
	if opts.Bus == nil {
		opts.Bus = bus.New(func(o *bus.Options) { o.Logger = opts.Logger })
	}
	if opts.Model == nil {
		opts.Model = model.NewMockModel("interviewmesh-mock")
	}

	orch := orchestrator.New(func(o *orchestrator.Options) {
		o.Bus = opts.Bus
		o.Store = opts.SessionStore
		o.Cache = opts.Cache
		o.Model = opts.Model
		o.Logger = opts.Logger
		o.DefaultMode = opts.DefaultMode
		o.Window = opts.HistoryWindow
	})

	return &InterviewMesh{opts: opts, orch: orch}
}

// NewFromConfig creates an InterviewMesh wired from a validated Config. The
// generation backend still has to be supplied via optFns unless the mock
// provider is configured.
func NewFromConfig(cfg *config.Config, optFns ...func(o *Options)) (*InterviewMesh, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	base := func(o *Options) {
		o.DefaultMode = cfg.Mode()
		o.HistoryWindow = cfg.HistoryWindow
		o.Cache = cache.New(func(co *cache.Options) {
			co.TTL = cfg.CacheTTL
			co.MaxEntries = cfg.CacheMaxEntries
		})
	}
	return New(append([]func(o *Options){base}, optFns...)...), nil
}

// ProcessInput handles one user turn for a session, creating the session on
// first use.
func (m *InterviewMesh) ProcessInput(ctx context.Context, text, sessionID, userID string) (*orchestrator.Result, error) {
	return m.orch.ProcessInput(ctx, text, sessionID, userID)
}

// SwitchMode changes the session's operating mode without discarding history.
func (m *InterviewMesh) SwitchMode(sessionID string, mode core.Mode) error {
	return m.orch.SwitchMode(sessionID, mode)
}

// SwitchAgent focuses a single agent exclusively; "auto" or empty restores
// mode-based routing.
func (m *InterviewMesh) SwitchAgent(sessionID, agentID string) error {
	return m.orch.SwitchAgent(sessionID, agentID)
}

// Reset discards a session's conversation and agent state.
func (m *InterviewMesh) Reset(sessionID string) error {
	return m.orch.Reset(sessionID)
}

// Mode returns the session's current operating mode.
func (m *InterviewMesh) Mode(sessionID string) core.Mode {
	return m.orch.Mode(sessionID)
}

// Bus exposes the event bus for external observers.
func (m *InterviewMesh) Bus() *bus.Bus {
	return m.orch.Bus()
}
