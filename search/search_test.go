package search

import (
	"context"
	"testing"

	"github.com/hupe1980/interviewmesh/core"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStaticFinder_CatalogHit(t *testing.T) {
	f := NewStaticFinder(nil)
	rs, err := f.Find(context.Background(), "Go", core.ProficiencyBasic)
	require.NoError(t, err)
	require.NotEmpty(t, rs)
	assert.Equal(t, "A Tour of Go", rs[0].Title)
}

func TestStaticFinder_FallbackNeverEmpty(t *testing.T) {
	f := NewStaticFinder(nil)
	rs, err := f.Find(context.Background(), "obscure skill", core.ProficiencyExpert)
	require.NoError(t, err)
	require.Len(t, rs, 1)
	assert.Equal(t, "practice", rs[0].Kind)
}

func TestStaticFinder_ExtraCatalogOverrides(t *testing.T) {
	f := NewStaticFinder(map[string][]Resource{
		"Go": {{Title: "Custom Go curriculum", Kind: "course"}},
	})
	rs, err := f.Find(context.Background(), "go", core.ProficiencyBasic)
	require.NoError(t, err)
	require.Len(t, rs, 1)
	assert.Equal(t, "Custom Go curriculum", rs[0].Title)
}
