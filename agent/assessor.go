package agent

import (
	"context"
	"fmt"
	"strings"

	"github.com/hupe1980/interviewmesh/core"
	"github.com/hupe1980/interviewmesh/internal/util"
	"github.com/hupe1980/interviewmesh/invoke"
	"github.com/hupe1980/interviewmesh/model"
	"github.com/hupe1980/interviewmesh/profile"
	"github.com/hupe1980/interviewmesh/search"
)

const assessorDirective = `You are a skill assessor observing an interview. From each answer you
extract demonstrated skills with a category and proficiency level. You never
address the candidate directly.`

// AssessorOptions configures an Assessor.
type AssessorOptions struct {
	Options
	// Store holds the accumulated per-session assessments; a fresh in-memory
	// store is created when nil.
	Store *profile.Store
	// Finder resolves learning resources for gap skills; the static catalog is
	// used when nil.
	Finder search.ResourceFinder
}

// Assessor is a continuous monitor that extracts candidate skills from every
// answer, accumulates them per session (last assessment wins per skill) and
// emits one consolidated profile when the session ends.
type Assessor struct {
	BaseAgent
	store  *profile.Store
	finder search.ResourceFinder
}

// NewAssessor constructs an Assessor. When a bus is attached it subscribes to
// session-end events to publish the consolidated profile.
func NewAssessor(optFns ...func(o *AssessorOptions)) *Assessor {
	opts := AssessorOptions{}
	for _, fn := range optFns {
		fn(&opts)
	}
	if opts.Description == "" {
		opts.Description = "Tracks demonstrated skills and builds the session profile"
	}
	if opts.Store == nil {
		opts.Store = profile.NewStore()
	}
	if opts.Finder == nil {
		opts.Finder = search.NewStaticFinder(nil)
	}

	a := &Assessor{
		BaseAgent: NewBaseAgent("assessor", assessorDirective, opts.Options),
		store:     opts.Store,
		finder:    opts.Finder,
	}
	if a.bus != nil {
		a.bus.Subscribe(string(core.EventSessionEnded), a.onSessionEnded)
	}
	return a
}

type extractSkillsParams struct {
	Answer string `json:"answer" description:"The candidate answer to mine for skills"`
}

// skillEntryParams is the shape of one extracted skill entry; record validates
// model output against its schema before accepting an entry.
type skillEntryParams struct {
	Skill       string `json:"skill" description:"Name of the demonstrated skill"`
	Category    string `json:"category,omitempty" description:"Skill category"`
	Proficiency string `json:"proficiency,omitempty" description:"Demonstrated proficiency level"`
	Feedback    string `json:"feedback,omitempty" description:"Short justification for the assessment"`
}

type findResourcesParams struct {
	Skill       string `json:"skill" description:"Skill to find learning resources for"`
	Proficiency string `json:"proficiency,omitempty" description:"Current proficiency level"`
}

// Capabilities implements core.Agent.
func (a *Assessor) Capabilities() []core.ToolDescriptor {
	return []core.ToolDescriptor{
		{Name: "extract_skills", Description: "Extract demonstrated skills with proficiency from an answer", Parameters: util.CreateSchema(extractSkillsParams{})},
		{Name: "build_profile", Description: "Consolidate session assessments into a skill profile"},
		{Name: "find_resources", Description: "Look up learning resources for gap skills", Parameters: util.CreateSchema(findResourcesParams{})},
	}
}

// Profile returns the consolidated skill profile accumulated so far.
func (a *Assessor) Profile(sessionID string) core.SkillProfile {
	return a.store.Build(sessionID)
}

// ResetSession discards the assessments accumulated for a session.
func (a *Assessor) ResetSession(sessionID string) {
	a.store.Delete(sessionID)
}

// ProcessInput implements core.Agent.
func (a *Assessor) ProcessInput(ctx context.Context, input string, turn *core.TurnContext) (core.Response, error) {
	a.maybePlan(ctx, turn)

	outcome := a.generate(ctx, model.Request{
		Instructions: a.directive,
		Messages:     turn.History,
		Prompt: fmt.Sprintf(`Extract the skills demonstrated in this answer: %q
Respond with JSON only:
{"skills": [{"skill": "...", "category": "technical|soft|domain|tool|process|language|framework", "proficiency": "novice|basic|intermediate|advanced|expert", "feedback": "..."}]}`, input),
	}, func() string { return `{"skills": []}` })

	data := invoke.ParseStructured(outcome.Text, map[string]any{"skills": []any{}})
	assessments := a.record(turn.SessionID, invoke.Field(data, "skills", []any(nil)))
	if len(assessments) == 0 {
		return core.NewResponse(a.Name(), "No new skills observed in this answer."), nil
	}

	noted := make([]string, 0, len(assessments))
	for _, as := range assessments {
		noted = append(noted, fmt.Sprintf("%s (%s)", as.Skill, as.Proficiency))
	}
	resp := core.NewResponse(a.Name(), "Skills noted: "+strings.Join(noted, ", "))
	resp.Data = map[string]any{"assessments": assessments}
	return resp, nil
}

// record upserts extracted skill entries and publishes one update event per
// assessment. Entries that fail schema validation or lack a usable skill name
// are skipped.
func (a *Assessor) record(sessionID string, raw []any) []core.SkillAssessment {
	schema := util.CreateSchema(skillEntryParams{})
	var out []core.SkillAssessment
	for _, item := range raw {
		m, ok := item.(map[string]any)
		if !ok {
			continue
		}
		if err := util.ValidateParameters(m, schema); err != nil {
			a.logger.Warn("skipping malformed skill entry session_id=%s: %v", sessionID, err)
			continue
		}
		skill := invoke.StringField(m, "skill", "")
		if skill == "" {
			continue
		}
		as := core.SkillAssessment{
			Skill:       strings.ToLower(skill),
			Category:    parseCategory(invoke.StringField(m, "category", "")),
			Proficiency: parseProficiency(invoke.StringField(m, "proficiency", "")),
			Feedback:    invoke.StringField(m, "feedback", ""),
		}
		a.store.Upsert(sessionID, as)
		a.publish(core.NewEvent(core.EventSkillAssessmentUpdate, a.Name(),
			core.SkillAssessmentUpdatePayload{SessionID: sessionID, Assessment: as}))
		out = append(out, as)
	}
	return out
}

// onSessionEnded publishes the consolidated profile for a finished session,
// with learning resources resolved for each gap skill.
func (a *Assessor) onSessionEnded(ev core.Event) error {
	p, ok := ev.Payload.(core.SessionEndedPayload)
	if !ok {
		return fmt.Errorf("unexpected payload %T for %s", ev.Payload, ev.Type)
	}

	prof := a.store.Build(p.SessionID)
	var b strings.Builder
	fmt.Fprintf(&b, "Skill profile: %d skills assessed.", len(prof.Assessments))
	if len(prof.Strengths) > 0 {
		fmt.Fprintf(&b, " Strengths: %s.", strings.Join(prof.Strengths, ", "))
	}
	if len(prof.Gaps) > 0 {
		fmt.Fprintf(&b, " Gaps: %s.", strings.Join(prof.Gaps, ", "))
	}
	for _, skill := range prof.FocusAreas {
		rs, err := a.finder.Find(context.Background(), skill, proficiencyFor(prof, skill))
		if err != nil || len(rs) == 0 {
			continue
		}
		fmt.Fprintf(&b, " For %s try: %s.", skill, rs[0].Title)
	}

	a.publish(core.NewEvent(core.EventInterviewSummary, a.Name(),
		core.InterviewSummaryPayload{SessionID: p.SessionID, Summary: b.String()}))
	return nil
}

func proficiencyFor(p core.SkillProfile, skill string) core.Proficiency {
	for _, as := range p.Assessments {
		if as.Skill == skill {
			return as.Proficiency
		}
	}
	return core.ProficiencyNovice
}

func parseCategory(s string) core.SkillCategory {
	switch core.SkillCategory(strings.ToLower(s)) {
	case core.CategoryTechnical, core.CategorySoft, core.CategoryDomain,
		core.CategoryTool, core.CategoryProcess, core.CategoryLanguage, core.CategoryFramework:
		return core.SkillCategory(strings.ToLower(s))
	default:
		return core.CategoryTechnical
	}
}

func parseProficiency(s string) core.Proficiency {
	switch core.Proficiency(strings.ToLower(s)) {
	case core.ProficiencyNovice, core.ProficiencyBasic, core.ProficiencyIntermediate,
		core.ProficiencyAdvanced, core.ProficiencyExpert:
		return core.Proficiency(strings.ToLower(s))
	default:
		return core.ProficiencyIntermediate
	}
}
