package interviewmesh

import (
	"context"
	"testing"
	"time"

	"github.com/hupe1980/interviewmesh/config"
	"github.com/hupe1980/interviewmesh/core"
	"github.com/hupe1980/interviewmesh/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestInterviewMesh_EndToEnd(t *testing.T) {
	mesh := New(func(o *Options) {
		o.Model = model.NewMockModel("m")
		o.DefaultMode = core.ModeFullFeedback
	})

	var types []core.EventType
	mesh.Bus().Subscribe("*", func(ev core.Event) error {
		types = append(types, ev.Type)
		return nil
	})

	ctx := context.Background()
	res, err := mesh.ProcessInput(ctx, "hello", "s1", "u1")
	require.NoError(t, err)
	assert.NotEmpty(t, res.Content)
	assert.Equal(t, core.ModeFullFeedback, res.Mode)
	assert.Contains(t, types, core.EventInterviewStarted)

	require.NoError(t, mesh.SwitchMode("s1", core.ModeInterviewOnly))
	assert.Equal(t, core.ModeInterviewOnly, mesh.Mode("s1"))

	require.NoError(t, mesh.SwitchAgent("s1", "coach"))
	require.NoError(t, mesh.SwitchAgent("s1", "auto"))
	require.NoError(t, mesh.Reset("s1"))

	assert.ErrorIs(t, mesh.SwitchMode("unknown", core.ModeInterviewOnly), core.ErrSessionNotFound)
}

func TestNewFromConfig(t *testing.T) {
	cfg := config.Default()
	cfg.CacheTTL = 30 * time.Second
	cfg.DefaultMode = string(core.ModeCoachingOnly)

	mesh, err := NewFromConfig(cfg, func(o *Options) {
		o.Model = model.NewMockModel("m")
	})
	require.NoError(t, err)

	res, err := mesh.ProcessInput(context.Background(), "hello", "s1", "")
	require.NoError(t, err)
	assert.Equal(t, core.ModeCoachingOnly, res.Mode)

	cfg.DefaultMode = "bogus"
	_, err = NewFromConfig(cfg)
	assert.ErrorIs(t, err, config.ErrInvalidMode)
}
