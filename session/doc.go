// Package session provides persistence for per-interview conversation
// contexts. The orchestrator is the sole writer; a Store implementation only
// needs simple key-value semantics by session ID. The in-memory store is the
// default and is suitable for tests and ephemeral deployments; durable
// implementations can back the same interface with any key-value database.
package session
