// Package search supplies learning resource recommendations for assessed
// skills. The ResourceFinder interface admits any backing source; the static
// finder ships as the zero-dependency default so recommendations never fail
// the turn that requested them.
package search

import (
	"context"
	"strings"

	"github.com/hupe1980/interviewmesh/core"
)

// Resource is one recommended learning resource.
type Resource struct {
	Title string `json:"title"`
	URL   string `json:"url,omitempty"`
	Kind  string `json:"kind,omitempty"` // "course", "book", "docs", "practice"
}

// ResourceFinder resolves learning resources for a skill at a given
// proficiency. Implementations should return an empty slice rather than an
// error when nothing matches.
type ResourceFinder interface {
	Find(ctx context.Context, skill string, level core.Proficiency) ([]Resource, error)
}

// ResourceFinderFunc adapts a function to the ResourceFinder interface.
type ResourceFinderFunc func(ctx context.Context, skill string, level core.Proficiency) ([]Resource, error)

// Find implements ResourceFinder.
func (f ResourceFinderFunc) Find(ctx context.Context, skill string, level core.Proficiency) ([]Resource, error) {
	return f(ctx, skill, level)
}

// StaticFinder serves resources from a curated in-memory catalog keyed by
// lowercased skill name, with a generic fallback per proficiency tier. It
// never returns an error.
type StaticFinder struct {
	catalog map[string][]Resource
}

// NewStaticFinder constructs a StaticFinder, optionally seeding extra catalog
// entries on top of the built-in ones.
func NewStaticFinder(extra map[string][]Resource) *StaticFinder {
	catalog := map[string][]Resource{
		"go": {
			{Title: "A Tour of Go", URL: "https://go.dev/tour", Kind: "course"},
			{Title: "Effective Go", URL: "https://go.dev/doc/effective_go", Kind: "docs"},
		},
		"sql": {
			{Title: "SQLBolt interactive lessons", URL: "https://sqlbolt.com", Kind: "practice"},
		},
		"system design": {
			{Title: "Designing Data-Intensive Applications", Kind: "book"},
		},
	}
	for k, v := range extra {
		catalog[strings.ToLower(k)] = v
	}
	return &StaticFinder{catalog: catalog}
}

// Find implements ResourceFinder.
func (f *StaticFinder) Find(ctx context.Context, skill string, level core.Proficiency) ([]Resource, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if rs, ok := f.catalog[strings.ToLower(skill)]; ok {
		out := make([]Resource, len(rs))
		copy(out, rs)
		return out, nil
	}
	kind := "course"
	if level.AtLeast(core.ProficiencyAdvanced) {
		kind = "practice"
	}
	return []Resource{{Title: "Deepen your " + skill + " skills", Kind: kind}}, nil
}
