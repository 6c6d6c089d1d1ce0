package session

import (
	"testing"

	"github.com/hupe1980/interviewmesh/core"
	"github.com/hupe1980/interviewmesh/internal/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestInMemoryStore_CreateGetDelete(t *testing.T) {
	s := NewInMemoryStore()

	_, err := s.Get("missing")
	assert.ErrorIs(t, err, core.ErrSessionNotFound)

	created, err := s.Create("s1", "u1")
	require.NoError(t, err)
	created.AddMessage(core.RoleUser, "hello", nil)

	got, err := s.Get("s1")
	require.NoError(t, err)
	assert.Equal(t, 1, got.Len())

	require.NoError(t, s.Delete("s1"))
	_, err = s.Get("s1")
	assert.ErrorIs(t, err, core.ErrSessionNotFound)

	// Deleting an absent session is a no-op.
	assert.NoError(t, s.Delete("s1"))
}

func TestInMemoryStore_SavePrebuiltContext(t *testing.T) {
	s := NewInMemoryStore()
	sc := testutil.NewSessionBuilder("s1").User("u1").
		UserText("hi").
		AgentText("interviewer", "welcome").
		Metadata("role", "backend").
		Build()

	require.NoError(t, s.Save(sc))

	got, err := s.Get("s1")
	require.NoError(t, err)
	assert.Equal(t, 2, got.Len())
	role, ok := got.GetMetadata("role")
	require.True(t, ok)
	assert.Equal(t, "backend", role)
}

func TestInMemoryStore_CreateReplaces(t *testing.T) {
	s := NewInMemoryStore()
	first, _ := s.Create("s1", "")
	first.AddMessage(core.RoleUser, "old", nil)

	_, err := s.Create("s1", "")
	require.NoError(t, err)

	got, err := s.Get("s1")
	require.NoError(t, err)
	assert.Equal(t, 0, got.Len(), "recreate discards prior history")
}
