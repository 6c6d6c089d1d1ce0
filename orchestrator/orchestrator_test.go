package orchestrator

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/hupe1980/interviewmesh/agent"
	"github.com/hupe1980/interviewmesh/bus"
	"github.com/hupe1980/interviewmesh/cache"
	"github.com/hupe1980/interviewmesh/core"
	"github.com/hupe1980/interviewmesh/model"
	"github.com/hupe1980/interviewmesh/session"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

// scriptedModel routes generation by the requesting agent's directive.
type scriptedModel struct {
	fn func(req model.Request) (string, error)
}

func (s scriptedModel) Generate(_ context.Context, req model.Request) (*model.Response, error) {
	text, err := s.fn(req)
	if err != nil {
		return nil, err
	}
	return &model.Response{Text: text, FinishReason: "stop"}, nil
}

func (s scriptedModel) Info() model.Info { return model.Info{Name: "scripted", Provider: "mock"} }

func perAgentModel() scriptedModel {
	return scriptedModel{fn: func(req model.Request) (string, error) {
		switch {
		case strings.Contains(req.Instructions, "professional interviewer"):
			return "R1", nil
		case strings.Contains(req.Instructions, "interview coach"):
			return `{"structure": "R2", "content": "uses examples", "delivery": "calm"}`, nil
		case strings.Contains(req.Instructions, "skill assessor"):
			return `{"skills": [{"skill": "go", "category": "language", "proficiency": "advanced"}]}`, nil
		default:
			return "unexpected", nil
		}
	}}
}

func TestOrchestrator_LazySessionCreation(t *testing.T) {
	store := session.NewInMemoryStore()
	o := New(func(opts *Options) {
		opts.Model = model.NewMockModel("m")
		opts.Store = store
	})

	_, err := store.Get("s1")
	assert.ErrorIs(t, err, core.ErrSessionNotFound)

	res, err := o.ProcessInput(context.Background(), "hello", "s1", "u1")
	require.NoError(t, err)
	assert.NotEmpty(t, res.Content)
	assert.Equal(t, core.ModeInterviewOnly, res.Mode)

	sc, err := store.Get("s1")
	require.NoError(t, err)
	assert.Equal(t, 2, sc.Len(), "user turn and composed response recorded")
}

func TestOrchestrator_UnknownSessionOperations(t *testing.T) {
	o := New(func(opts *Options) { opts.Model = model.NewMockModel("m") })

	assert.ErrorIs(t, o.SwitchMode("missing", core.ModeFullFeedback), core.ErrSessionNotFound)
	assert.ErrorIs(t, o.SwitchAgent("missing", "coach"), core.ErrSessionNotFound)
	assert.ErrorIs(t, o.Reset("missing"), core.ErrSessionNotFound)

	assert.Error(t, o.SwitchMode("missing", core.Mode("bogus")), "invalid mode rejected before lookup")
}

func TestOrchestrator_ModeTableAndHistoryPreserved(t *testing.T) {
	store := session.NewInMemoryStore()
	o := New(func(opts *Options) {
		opts.Model = model.NewMockModel("m")
		opts.Store = store
	})
	_, err := o.ProcessInput(context.Background(), "hello", "s1", "")
	require.NoError(t, err)

	table := map[core.Mode][]string{
		core.ModeInterviewOnly:         {"interviewer"},
		core.ModeInterviewWithCoaching: {"interviewer", "coach"},
		core.ModeCoachingOnly:          {"coach"},
		core.ModeSkillAssessment:       {"interviewer", "assessor"},
		core.ModeFullFeedback:          {"interviewer", "coach", "assessor"},
	}

	sc, err := store.Get("s1")
	require.NoError(t, err)
	before := sc.Len()

	for mode, want := range table {
		require.NoError(t, o.SwitchMode("s1", mode))
		assert.Equal(t, want, o.ActiveAgentNames("s1"), "mode %s", mode)
		assert.Equal(t, mode, o.Mode("s1"))
	}

	sc, err = store.Get("s1")
	require.NoError(t, err)
	assert.Equal(t, before, sc.Len(), "mode switches leave the history untouched")
}

func TestOrchestrator_FullFeedbackComposition(t *testing.T) {
	o := New(func(opts *Options) {
		opts.Model = perAgentModel()
		opts.DefaultMode = core.ModeFullFeedback
	})

	res, err := o.ProcessInput(context.Background(), "I built a Go service", "s1", "")
	require.NoError(t, err)

	i1 := strings.Index(res.Content, "[interviewer] R1")
	i2 := strings.Index(res.Content, "[coach]")
	i3 := strings.Index(res.Content, "[assessor]")
	require.GreaterOrEqual(t, i1, 0)
	require.Greater(t, i2, i1, "coach output follows the interviewer")
	require.Greater(t, i3, i2, "assessor output follows the coach")
}

func TestOrchestrator_SingleAgentModeUntagged(t *testing.T) {
	o := New(func(opts *Options) {
		opts.Model = perAgentModel()
	})

	res, err := o.ProcessInput(context.Background(), "hello", "s1", "")
	require.NoError(t, err)
	assert.Equal(t, "R1", res.Content, "single-agent responses are returned verbatim")
}

func TestOrchestrator_CacheHitAndTTLBypass(t *testing.T) {
	mock := model.NewMockModel("m")
	o := New(func(opts *Options) {
		opts.Model = mock
		opts.Cache = cache.New(func(co *cache.Options) { co.TTL = 80 * time.Millisecond })
	})
	ctx := context.Background()

	first, err := o.ProcessInput(ctx, "hello", "s1", "")
	require.NoError(t, err)
	callsAfterFirst := mock.Calls()
	assert.False(t, first.Cached)

	second, err := o.ProcessInput(ctx, "hello", "s1", "")
	require.NoError(t, err)
	assert.True(t, second.Cached)
	assert.Equal(t, first.Content, second.Content)
	assert.True(t, second.Timestamp.After(first.Timestamp), "cache hits carry fresh timestamps")
	assert.Equal(t, callsAfterFirst, mock.Calls(), "cache hit bypasses the agents")

	time.Sleep(100 * time.Millisecond)
	third, err := o.ProcessInput(ctx, "hello", "s1", "")
	require.NoError(t, err)
	assert.False(t, third.Cached)
	assert.Greater(t, mock.Calls(), callsAfterFirst, "expired entry forces a fresh computation")
}

func TestOrchestrator_RepeatedSubmissionsStayCached(t *testing.T) {
	mock := model.NewMockModel("m")
	o := New(func(opts *Options) { opts.Model = mock })
	ctx := context.Background()

	first, err := o.ProcessInput(ctx, "hello", "s1", "")
	require.NoError(t, err)
	require.False(t, first.Cached)
	calls := mock.Calls()

	for i := 0; i < 3; i++ {
		res, err := o.ProcessInput(ctx, "hello", "s1", "")
		require.NoError(t, err)
		assert.True(t, res.Cached, "resubmission %d hits the cache", i+1)
		assert.Equal(t, first.Content, res.Content)
	}
	assert.Equal(t, calls, mock.Calls(), "resubmissions never reach the agents")
}

func TestOrchestrator_QuestionBudgetEndsSessionWithProfile(t *testing.T) {
	b := bus.New()
	o := New(func(opts *Options) {
		opts.Bus = b
		opts.Model = perAgentModel()
		opts.DefaultMode = core.ModeSkillAssessment
		opts.Interviewer = agent.NewInterviewer(func(io *agent.InterviewerOptions) {
			io.Bus = b
			io.Model = perAgentModel()
			io.MaxQuestions = 1
		})
	})

	var mu sync.Mutex
	var events []core.Event
	b.Subscribe("*", func(ev core.Event) error {
		mu.Lock()
		defer mu.Unlock()
		events = append(events, ev)
		return nil
	})

	ctx := context.Background()
	for _, text := range []string{"hello", "I mostly write Go", "and ship it on Kubernetes"} {
		_, err := o.ProcessInput(ctx, text, "s1", "u1")
		require.NoError(t, err)
	}
	require.Equal(t, core.StateEnded, o.interviewer.State("s1"), "budget exhaustion terminates the session")

	mu.Lock()
	defer mu.Unlock()
	ended := false
	consolidated := false
	for _, ev := range events {
		if ev.Type == core.EventSessionEnded {
			ended = true
		}
		if ev.Type == core.EventInterviewSummary && ev.Source == "assessor" {
			consolidated = true
		}
	}
	assert.True(t, ended, "budget-driven termination publishes the session end")
	assert.True(t, consolidated, "assessor emits the consolidated profile on session end")
}

func TestOrchestrator_AgentFocus(t *testing.T) {
	o := New(func(opts *Options) {
		opts.Model = perAgentModel()
		opts.DefaultMode = core.ModeFullFeedback
	})
	_, err := o.ProcessInput(context.Background(), "hello", "s1", "")
	require.NoError(t, err)

	require.NoError(t, o.SwitchAgent("s1", "coach"))
	assert.Equal(t, []string{"coach"}, o.ActiveAgentNames("s1"))

	require.NoError(t, o.SwitchAgent("s1", "auto"))
	assert.Equal(t, []string{"interviewer", "coach", "assessor"}, o.ActiveAgentNames("s1"))

	assert.Error(t, o.SwitchAgent("s1", "nonexistent"))
}

func TestOrchestrator_EventsPublished(t *testing.T) {
	o := New(func(opts *Options) { opts.Model = perAgentModel() })

	var mu sync.Mutex
	var types []core.EventType
	o.Bus().Subscribe("*", func(ev core.Event) error {
		mu.Lock()
		defer mu.Unlock()
		types = append(types, ev.Type)
		return nil
	})

	_, err := o.ProcessInput(context.Background(), "hello", "s1", "u1")
	require.NoError(t, err)

	mu.Lock()
	defer mu.Unlock()
	assert.Contains(t, types, core.EventUserResponse)
	assert.Contains(t, types, core.EventAgentResponse)
	assert.Contains(t, types, core.EventInterviewStarted)
}

func TestOrchestrator_SessionsProceedInParallel(t *testing.T) {
	o := New(func(opts *Options) { opts.Model = model.NewMockModel("m") })
	ctx := context.Background()

	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func(n int) {
			defer wg.Done()
			sid := fmt.Sprintf("s%d", n)
			for j := 0; j < 5; j++ {
				_, err := o.ProcessInput(ctx, fmt.Sprintf("answer %d", j), sid, "")
				assert.NoError(t, err)
			}
		}(i)
	}
	wg.Wait()
}
