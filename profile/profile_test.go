package profile

import (
	"testing"

	"github.com/hupe1980/interviewmesh/core"
	"github.com/stretchr/testify/assert"
)

func TestStore_UpsertLastWins(t *testing.T) {
	s := NewStore()
	s.Upsert("s1", core.SkillAssessment{Skill: "go", Category: core.CategoryLanguage, Proficiency: core.ProficiencyBasic})
	s.Upsert("s1", core.SkillAssessment{Skill: "go", Category: core.CategoryLanguage, Proficiency: core.ProficiencyAdvanced})

	got := s.Assessments("s1")
	assert.Len(t, got, 1)
	assert.Equal(t, core.ProficiencyAdvanced, got[0].Proficiency)
}

func TestStore_BuildClassifiesStrengthsAndGaps(t *testing.T) {
	s := NewStore()
	s.Upsert("s1", core.SkillAssessment{Skill: "go", Proficiency: core.ProficiencyExpert})
	s.Upsert("s1", core.SkillAssessment{Skill: "sql", Proficiency: core.ProficiencyIntermediate})
	s.Upsert("s1", core.SkillAssessment{Skill: "kubernetes", Proficiency: core.ProficiencyNovice})

	p := s.Build("s1")
	assert.Equal(t, "s1", p.SessionID)
	assert.Len(t, p.Assessments, 3)
	assert.Equal(t, []string{"go"}, p.Strengths)
	assert.Equal(t, []string{"kubernetes"}, p.Gaps)
	assert.Equal(t, []string{"kubernetes"}, p.FocusAreas)
}

func TestStore_UnknownSessionAndDelete(t *testing.T) {
	s := NewStore()
	assert.Empty(t, s.Assessments("missing"))

	s.Upsert("s1", core.SkillAssessment{Skill: "go", Proficiency: core.ProficiencyBasic})
	s.Delete("s1")
	assert.Empty(t, s.Assessments("s1"))
}
