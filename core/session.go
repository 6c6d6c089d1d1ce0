package core

import (
	"fmt"
	"strings"
	"sync"
	"time"
)

// Summarizer condenses a range of older messages into a single text block for
// bounded history views. Implementations may call a generation backend or use
// a cheap heuristic; the SessionContext invokes it at most once per growth of
// the summarized range.
type Summarizer interface {
	Summarize(messages []Message) (string, error)
}

// SummarizerFunc adapts an ordinary function to the Summarizer interface.
type SummarizerFunc func(messages []Message) (string, error)

// Summarize implements Summarizer.
func (f SummarizerFunc) Summarize(messages []Message) (string, error) { return f(messages) }

// HeadlineSummarizer is the default Summarizer: one truncated line per
// condensed message. It never fails, which keeps BoundedView total.
type HeadlineSummarizer struct {
	// MaxLineLen bounds each condensed line; zero means 80.
	MaxLineLen int
}

// Summarize implements Summarizer.
func (h HeadlineSummarizer) Summarize(messages []Message) (string, error) {
	limit := h.MaxLineLen
	if limit <= 0 {
		limit = 80
	}
	var b strings.Builder
	fmt.Fprintf(&b, "Summary of %d earlier messages:\n", len(messages))
	for _, m := range messages {
		line := strings.ReplaceAll(m.Content, "\n", " ")
		if len(line) > limit {
			line = line[:limit] + "…"
		}
		fmt.Fprintf(&b, "- %s: %s\n", m.Role, line)
	}
	return strings.TrimRight(b.String(), "\n"), nil
}

// SessionContext holds the conversation history and metadata for one
// interview session. It is exclusively owned by the orchestrator; agents only
// ever see read-only bounded views produced per call. Safe for concurrent
// access.
//
// Contract:
//   - AddMessage appends and updates Updated; messages are never mutated
//   - Messages returns a defensive copy
//   - BoundedView returns either the full history or a synthetic summary
//     message prepended to the last window raw messages; the summary is
//     cached and recomputed only when the summarized range grows
type SessionContext struct {
	ID       string         `json:"id"`
	UserID   string         `json:"user_id,omitempty"`
	Metadata map[string]any `json:"metadata"`
	Created  time.Time      `json:"created"`
	Updated  time.Time      `json:"updated"`

	mu         sync.RWMutex
	messages   []Message
	summarizer Summarizer

	// summary cache: summaryText covers the first summaryCovered messages.
	summaryText    string
	summaryCovered int
}

// NewSessionContext creates an empty context for the given session.
func NewSessionContext(id, userID string) *SessionContext {
	now := time.Now().UTC()
	return &SessionContext{
		ID:         id,
		UserID:     userID,
		Metadata:   map[string]any{},
		Created:    now,
		Updated:    now,
		summarizer: HeadlineSummarizer{},
	}
}

// SetSummarizer replaces the summarization collaborator. Passing nil restores
// the default HeadlineSummarizer.
func (s *SessionContext) SetSummarizer(sum Summarizer) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if sum == nil {
		sum = HeadlineSummarizer{}
	}
	s.summarizer = sum
}

// AddMessage appends a message built from role/content/metadata and returns it.
func (s *SessionContext) AddMessage(role Role, content string, metadata map[string]any) Message {
	m := NewMessage(role, content)
	m.Metadata = metadata
	s.Append(m)
	return m
}

// Append appends an already constructed message, updating Updated.
func (s *SessionContext) Append(m Message) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.messages = append(s.messages, m)
	s.Updated = time.Now().UTC()
}

// Messages returns a defensive copy of the full history.
func (s *SessionContext) Messages() []Message {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]Message, len(s.messages))
	copy(out, s.messages)
	return out
}

// Len returns the number of messages in the history.
func (s *SessionContext) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.messages)
}

// LastMessage returns the most recent message and true, or a zero Message and
// false for an empty history.
func (s *SessionContext) LastMessage() (Message, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if len(s.messages) == 0 {
		return Message{}, false
	}
	return s.messages[len(s.messages)-1], true
}

// BoundedView returns the conversation history bounded to window messages.
// Histories not exceeding the window are returned verbatim. Longer histories
// are returned as one synthetic system summary message covering everything
// but the last window messages, followed by those messages verbatim. The
// summary is computed once per growth of the summarized range and reused
// otherwise.
func (s *SessionContext) BoundedView(window int) []Message {
	s.mu.Lock()
	defer s.mu.Unlock()

	if window <= 0 || len(s.messages) <= window {
		out := make([]Message, len(s.messages))
		copy(out, s.messages)
		return out
	}

	covered := len(s.messages) - window
	if covered != s.summaryCovered || s.summaryText == "" {
		old := s.messages[:covered]
		text, err := s.summarizer.Summarize(old)
		if err != nil {
			// A failed summarizer degrades to the headline form rather than
			// dropping history.
			text, _ = HeadlineSummarizer{}.Summarize(old)
		}
		s.summaryText = text
		s.summaryCovered = covered
	}

	out := make([]Message, 0, window+1)
	summary := NewMessage(RoleSystem, s.summaryText)
	summary.Metadata = map[string]any{"summary_of": covered}
	out = append(out, summary)
	out = append(out, s.messages[covered:]...)
	return out
}

// SetMetadata stores a metadata key/value pair, updating Updated.
func (s *SessionContext) SetMetadata(key string, value any) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.Metadata[key] = value
	s.Updated = time.Now().UTC()
}

// GetMetadata returns the value and existence flag for a metadata key.
func (s *SessionContext) GetMetadata(key string) (any, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	v, ok := s.Metadata[key]
	return v, ok
}

// Clone returns a deep copy of the context safe for independent mutation.
// The summary cache is carried over so cloned snapshots do not recompute.
func (s *SessionContext) Clone() *SessionContext {
	s.mu.RLock()
	defer s.mu.RUnlock()
	clone := &SessionContext{
		ID:             s.ID,
		UserID:         s.UserID,
		Metadata:       make(map[string]any, len(s.Metadata)),
		Created:        s.Created,
		Updated:        s.Updated,
		messages:       make([]Message, len(s.messages)),
		summarizer:     s.summarizer,
		summaryText:    s.summaryText,
		summaryCovered: s.summaryCovered,
	}
	for k, v := range s.Metadata {
		clone.Metadata[k] = v
	}
	copy(clone.messages, s.messages)
	return clone
}
