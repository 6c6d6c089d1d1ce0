package core

// SkillCategory classifies an assessed skill.
type SkillCategory string

// Skill categories.
const (
	CategoryTechnical SkillCategory = "technical"
	CategorySoft      SkillCategory = "soft"
	CategoryDomain    SkillCategory = "domain"
	CategoryTool      SkillCategory = "tool"
	CategoryProcess   SkillCategory = "process"
	CategoryLanguage  SkillCategory = "language"
	CategoryFramework SkillCategory = "framework"
)

// Proficiency is an ordinal skill level.
type Proficiency string

// Proficiency levels from weakest to strongest.
const (
	ProficiencyNovice       Proficiency = "novice"
	ProficiencyBasic        Proficiency = "basic"
	ProficiencyIntermediate Proficiency = "intermediate"
	ProficiencyAdvanced     Proficiency = "advanced"
	ProficiencyExpert       Proficiency = "expert"
)

// proficiencyRank orders levels for strength/gap classification.
var proficiencyRank = map[Proficiency]int{
	ProficiencyNovice:       0,
	ProficiencyBasic:        1,
	ProficiencyIntermediate: 2,
	ProficiencyAdvanced:     3,
	ProficiencyExpert:       4,
}

// Rank returns the ordinal position of the proficiency (novice = 0). Unknown
// levels rank lowest.
func (p Proficiency) Rank() int { return proficiencyRank[p] }

// AtLeast reports whether p is at least as strong as other.
func (p Proficiency) AtLeast(other Proficiency) bool { return p.Rank() >= other.Rank() }

// SkillAssessment is one observed skill with its current proficiency. The
// assessor accumulates these per session keyed by Skill; re-assessing the
// same skill replaces the previous entry (last wins), entries are never
// removed.
type SkillAssessment struct {
	Skill       string        `json:"skill"`
	Category    SkillCategory `json:"category"`
	Proficiency Proficiency   `json:"proficiency"`
	Feedback    string        `json:"feedback,omitempty"`
}

// SkillProfile is the consolidated per-session view emitted on session end.
type SkillProfile struct {
	SessionID   string            `json:"session_id"`
	Assessments []SkillAssessment `json:"assessments"`
	Strengths   []string          `json:"strengths"`
	Gaps        []string          `json:"gaps"`
	FocusAreas  []string          `json:"focus_areas"`
}
