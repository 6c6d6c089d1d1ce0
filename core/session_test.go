package core

import (
	"fmt"
	"testing"
)

func TestSessionContext_AddAndCopy(t *testing.T) {
	s := NewSessionContext("s1", "u1")
	s.AddMessage(RoleUser, "hello", nil)
	s.AddMessage(RoleAssistant, "hi there", map[string]any{"agent": "interviewer"})

	msgs := s.Messages()
	if len(msgs) != 2 {
		t.Fatalf("expected 2 messages, got %d", len(msgs))
	}
	msgs[0].Content = "changed"
	if s.Messages()[0].Content != "hello" {
		t.Error("messages slice should be copied on read")
	}
}

func TestSessionContext_BoundedViewShortHistory(t *testing.T) {
	s := NewSessionContext("s1", "")
	for i := 0; i < 5; i++ {
		s.AddMessage(RoleUser, fmt.Sprintf("m%d", i), nil)
	}
	view := s.BoundedView(20)
	if len(view) != 5 {
		t.Fatalf("expected full history of 5, got %d", len(view))
	}
}

func TestSessionContext_BoundedViewSummarizes(t *testing.T) {
	s := NewSessionContext("s1", "")
	for i := 0; i < 25; i++ {
		s.AddMessage(RoleUser, fmt.Sprintf("m%d", i), nil)
	}

	view := s.BoundedView(20)
	if len(view) != 21 {
		t.Fatalf("expected 21 entries (summary + 20), got %d", len(view))
	}
	if view[0].Role != RoleSystem {
		t.Errorf("expected synthetic summary to be a system message, got %s", view[0].Role)
	}
	if view[1].Content != "m5" || view[20].Content != "m24" {
		t.Errorf("expected last 20 raw messages verbatim, got %q..%q", view[1].Content, view[20].Content)
	}
}

func TestSessionContext_SummaryCachedUntilGrowth(t *testing.T) {
	calls := 0
	s := NewSessionContext("s1", "")
	s.SetSummarizer(SummarizerFunc(func(msgs []Message) (string, error) {
		calls++
		return fmt.Sprintf("summary of %d", len(msgs)), nil
	}))
	for i := 0; i < 25; i++ {
		s.AddMessage(RoleUser, fmt.Sprintf("m%d", i), nil)
	}

	first := s.BoundedView(20)
	second := s.BoundedView(20)
	if calls != 1 {
		t.Fatalf("expected exactly 1 summarizer call, got %d", calls)
	}
	if first[0].Content != second[0].Content {
		t.Error("repeated views without new messages should reuse the cached summary")
	}

	s.AddMessage(RoleUser, "m25", nil)
	_ = s.BoundedView(20)
	if calls != 2 {
		t.Errorf("expected recomputation after old range grew, got %d calls", calls)
	}
}

func TestSessionContext_CloneIsIndependent(t *testing.T) {
	s := NewSessionContext("s1", "u1")
	s.AddMessage(RoleUser, "hello", nil)
	clone := s.Clone()
	clone.AddMessage(RoleUser, "extra", nil)
	if s.Len() != 1 {
		t.Errorf("original should not see clone appends, len=%d", s.Len())
	}
	clone.SetMetadata("k", 1)
	if _, ok := s.GetMetadata("k"); ok {
		t.Error("original should not see clone metadata")
	}
}
