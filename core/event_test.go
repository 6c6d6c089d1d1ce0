package core

import "testing"

func TestNewEvent(t *testing.T) {
	ev := NewUserResponseEvent("s1", "hello")
	if ev.ID == "" {
		t.Error("expected generated event ID")
	}
	if ev.Type != EventUserResponse {
		t.Errorf("expected %s, got %s", EventUserResponse, ev.Type)
	}
	if ev.Timestamp.IsZero() {
		t.Error("expected timestamp")
	}
	p, ok := ev.Payload.(UserResponsePayload)
	if !ok {
		t.Fatalf("expected UserResponsePayload, got %T", ev.Payload)
	}
	if p.SessionID != "s1" || p.Text != "hello" {
		t.Errorf("unexpected payload %+v", p)
	}
}

func TestStateTransitions(t *testing.T) {
	tests := []struct {
		from, to InterviewState
		allowed  bool
	}{
		{StateInitializing, StateIntroduction, true},
		{StateIntroduction, StateQuestioning, true},
		{StateQuestioning, StateFollowingUp, true},
		{StateFollowingUp, StateQuestioning, true},
		{StateQuestioning, StateSummarizing, true},
		{StateSummarizing, StateEnded, true},
		{StateEnded, StateQuestioning, false},
		{StateFollowingUp, StateSummarizing, false},
		{StateIntroduction, StateEnded, false},
	}
	for _, tt := range tests {
		if got := tt.from.CanTransition(tt.to); got != tt.allowed {
			t.Errorf("%s -> %s: expected %v, got %v", tt.from, tt.to, tt.allowed, got)
		}
	}
}

func TestParseMode(t *testing.T) {
	if _, err := ParseMode("full_feedback"); err != nil {
		t.Errorf("unexpected error: %v", err)
	}
	if _, err := ParseMode("bogus"); err == nil {
		t.Error("expected error for unknown mode")
	}
}
