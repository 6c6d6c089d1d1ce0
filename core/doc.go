// Package core defines the shared data model of the interview orchestration
// framework: events with typed payloads, conversation messages, per-session
// contexts with bounded history views, operating modes, interview states,
// skill assessments and the Agent capability interface.
//
// Types in this package carry no orchestration logic; routing, caching and
// composition live in the orchestrator package, while publish/subscribe
// plumbing lives in the bus package.
package core
