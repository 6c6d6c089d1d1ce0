package orchestrator

import (
	"context"
	"sync"
	"testing"

	"github.com/hupe1980/interviewmesh/core"
	"github.com/hupe1980/interviewmesh/model"
	"github.com/hupe1980/interviewmesh/session"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newCommandOrchestrator(t *testing.T) (*Orchestrator, *session.InMemoryStore) {
	t.Helper()
	store := session.NewInMemoryStore()
	o := New(func(opts *Options) {
		opts.Model = perAgentModel()
		opts.Store = store
	})
	return o, store
}

func TestCommands_HelpAndUnknown(t *testing.T) {
	o, _ := newCommandOrchestrator(t)
	ctx := context.Background()

	res, err := o.ProcessInput(ctx, "/help", "s1", "")
	require.NoError(t, err)
	assert.Contains(t, res.Content, "/mode")
	assert.Contains(t, res.Content, "/reset")

	res, err = o.ProcessInput(ctx, "/bogus now", "s1", "")
	require.NoError(t, err, "unknown commands return usage, never an error")
	assert.Contains(t, res.Content, `unknown command "/bogus"`)
	assert.Contains(t, res.Content, "/help")
}

func TestCommands_ModeShowAndSwitch(t *testing.T) {
	o, _ := newCommandOrchestrator(t)
	ctx := context.Background()

	res, err := o.ProcessInput(ctx, "/mode", "s1", "")
	require.NoError(t, err)
	assert.Contains(t, res.Content, string(core.ModeInterviewOnly))

	res, err = o.ProcessInput(ctx, "/mode full_feedback", "s1", "")
	require.NoError(t, err)
	assert.Contains(t, res.Content, "full_feedback")
	assert.Equal(t, core.ModeFullFeedback, o.Mode("s1"))

	res, err = o.ProcessInput(ctx, "/mode nonsense", "s1", "")
	require.NoError(t, err)
	assert.Contains(t, res.Content, "unknown mode")
	assert.Equal(t, core.ModeFullFeedback, o.Mode("s1"), "failed switch keeps the mode")
}

func TestCommands_SwitchFocus(t *testing.T) {
	o, _ := newCommandOrchestrator(t)
	ctx := context.Background()

	res, err := o.ProcessInput(ctx, "/switch coach", "s1", "")
	require.NoError(t, err)
	assert.Contains(t, res.Content, "coach")
	assert.Equal(t, []string{"coach"}, o.ActiveAgentNames("s1"))

	res, err = o.ProcessInput(ctx, "/switch auto", "s1", "")
	require.NoError(t, err)
	assert.Equal(t, []string{"interviewer"}, o.ActiveAgentNames("s1"))

	res, err = o.ProcessInput(ctx, "/switch", "s1", "")
	require.NoError(t, err)
	assert.Contains(t, res.Content, "Usage:")
}

func TestCommands_StartEndReset(t *testing.T) {
	o, store := newCommandOrchestrator(t)
	ctx := context.Background()

	var mu sync.Mutex
	var ended, summarized bool
	o.Bus().Subscribe("*", func(ev core.Event) error {
		mu.Lock()
		defer mu.Unlock()
		switch ev.Type {
		case core.EventSessionEnded:
			ended = true
		case core.EventInterviewSummary:
			summarized = true
		}
		return nil
	})

	res, err := o.ProcessInput(ctx, "/start", "s1", "u1")
	require.NoError(t, err)
	assert.Equal(t, "R1", res.Content)
	assert.Equal(t, core.StateIntroduction, o.interviewer.State("s1"))

	res, err = o.ProcessInput(ctx, "/end", "s1", "u1")
	require.NoError(t, err)
	assert.NotEmpty(t, res.Content)
	assert.Equal(t, core.StateEnded, o.interviewer.State("s1"))

	mu.Lock()
	assert.True(t, ended, "end command publishes the session end")
	assert.True(t, summarized, "interview summary published on the way out")
	mu.Unlock()

	// Ending twice reports the terminal state instead of failing.
	res, err = o.ProcessInput(ctx, "/end", "s1", "u1")
	require.NoError(t, err)
	assert.Contains(t, res.Content, "already ended")

	res, err = o.ProcessInput(ctx, "/reset", "s1", "u1")
	require.NoError(t, err)
	assert.Contains(t, res.Content, "reset")
	assert.Equal(t, core.StateInitializing, o.interviewer.State("s1"))

	sc, err := store.Get("s1")
	require.NoError(t, err)
	assert.Equal(t, 1, sc.Len(), "reset leaves only the reset confirmation")
}

func TestCommands_BypassCacheAndAgents(t *testing.T) {
	mock := model.NewMockModel("m")
	o := New(func(opts *Options) { opts.Model = mock })

	_, err := o.ProcessInput(context.Background(), "/help", "s1", "")
	require.NoError(t, err)
	assert.Zero(t, mock.Calls(), "commands never reach the agents")
}
