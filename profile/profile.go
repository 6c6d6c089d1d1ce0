// Package profile accumulates skill assessments per session and consolidates
// them into a skill profile on demand. The store is the assessor's private
// working memory; the orchestrator only sees the profiles emitted on the bus.
package profile

import (
	"sort"
	"sync"

	"github.com/hupe1980/interviewmesh/core"
)

// Store keeps per-session skill assessments keyed by skill name. Safe for
// concurrent use. Re-assessing a skill replaces the previous entry; entries
// are never removed within a session.
type Store struct {
	mu       sync.RWMutex
	sessions map[string]map[string]core.SkillAssessment
}

// NewStore constructs an empty assessment store.
func NewStore() *Store {
	return &Store{sessions: make(map[string]map[string]core.SkillAssessment)}
}

// Upsert records an assessment for the session, replacing any earlier
// assessment of the same skill.
func (s *Store) Upsert(sessionID string, a core.SkillAssessment) {
	s.mu.Lock()
	defer s.mu.Unlock()
	m, ok := s.sessions[sessionID]
	if !ok {
		m = make(map[string]core.SkillAssessment)
		s.sessions[sessionID] = m
	}
	m[a.Skill] = a
}

// Assessments returns the session's assessments sorted by skill name. An
// unknown session yields an empty slice.
func (s *Store) Assessments(sessionID string) []core.SkillAssessment {
	s.mu.RLock()
	defer s.mu.RUnlock()
	m := s.sessions[sessionID]
	out := make([]core.SkillAssessment, 0, len(m))
	for _, a := range m {
		out = append(out, a)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Skill < out[j].Skill })
	return out
}

// Build consolidates the session's assessments into a SkillProfile. Skills at
// advanced or above are strengths; basic or below are gaps and become focus
// areas.
func (s *Store) Build(sessionID string) core.SkillProfile {
	assessments := s.Assessments(sessionID)
	p := core.SkillProfile{SessionID: sessionID, Assessments: assessments}
	for _, a := range assessments {
		switch {
		case a.Proficiency.AtLeast(core.ProficiencyAdvanced):
			p.Strengths = append(p.Strengths, a.Skill)
		case !a.Proficiency.AtLeast(core.ProficiencyIntermediate):
			p.Gaps = append(p.Gaps, a.Skill)
			p.FocusAreas = append(p.FocusAreas, a.Skill)
		}
	}
	return p
}

// Delete removes all assessments for a session.
func (s *Store) Delete(sessionID string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.sessions, sessionID)
}
