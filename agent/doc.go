// Package agent implements the three conversational agent variants sharing
// the core.Agent capability interface: the interviewer (a per-session finite
// state machine driving the question flow), the coach (a continuous monitor
// producing structured feedback on every answer) and the skill assessor (a
// continuous monitor accumulating a per-session skill map).
//
// All generation backend access goes through the invoke package; agents never
// call a model directly and generation failures degrade to defaults instead
// of failing the turn.
package agent
