package metrics

import (
	"testing"
	"time"
)

type mockClock struct {
	now time.Time
}

func (m *mockClock) Now() time.Time { return m.now }

func TestEngagement(t *testing.T) {
	clock := &mockClock{now: time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)}
	c := NewCollectorWithClock(clock)

	c.RecordMessage("alice", "s1", 10)
	c.RecordMessage("alice", "s1", 20)
	c.RecordMessage("alice", "s2", 30)
	c.RecordSessionEnd("alice", "s1")

	s, ok := c.Engagement("alice")
	if !ok {
		t.Fatal("expected engagement data for alice")
	}
	if s.Messages != 3 {
		t.Errorf("Messages = %d, want 3", s.Messages)
	}
	if s.SessionsEnded != 1 {
		t.Errorf("SessionsEnded = %d, want 1", s.SessionsEnded)
	}
	if s.MessagesPerSession != 3 {
		t.Errorf("MessagesPerSession = %v, want 3", s.MessagesPerSession)
	}
	if !s.LastActivity.Equal(clock.now) {
		t.Errorf("LastActivity = %v", s.LastActivity)
	}
}

func TestEngagementUnknownUser(t *testing.T) {
	c := NewCollector()
	if _, ok := c.Engagement("ghost"); ok {
		t.Error("unknown user should report no data")
	}
}

func TestBehavior(t *testing.T) {
	c := NewCollector()
	c.RecordMessage("bob", "", 10)
	c.RecordMessage("bob", "", 30)
	c.RecordResponse("bob")
	c.RecordFeedback("bob", "positive")
	c.RecordFeedback("bob", "positive")
	c.RecordFeedback("bob", "negative")

	s, ok := c.Behavior("bob")
	if !ok {
		t.Fatal("expected behavior data for bob")
	}
	if s.AvgMessageChars != 20 {
		t.Errorf("AvgMessageChars = %v, want 20", s.AvgMessageChars)
	}
	if s.Responses != 1 {
		t.Errorf("Responses = %d, want 1", s.Responses)
	}
	if s.Feedback["positive"] != 2 || s.Feedback["negative"] != 1 {
		t.Errorf("Feedback = %v", s.Feedback)
	}
}

func TestOverview(t *testing.T) {
	c := NewCollector()
	c.RecordMessage("a", "s1", 5)
	c.RecordMessage("b", "s2", 5)
	c.RecordSessionEnd("a", "s1")

	o := c.Overview()
	if o.Users != 2 {
		t.Errorf("Users = %d, want 2", o.Users)
	}
	if o.ActiveSessions != 1 {
		t.Errorf("ActiveSessions = %d, want 1", o.ActiveSessions)
	}
	if o.TotalEvents != 3 {
		t.Errorf("TotalEvents = %d, want 3", o.TotalEvents)
	}
}

func TestForget(t *testing.T) {
	c := NewCollector()
	c.RecordMessage("a", "s1", 5)
	c.Forget("a")

	if _, ok := c.Behavior("a"); ok {
		t.Error("forgotten user should report no data")
	}
	if o := c.Overview(); o.ActiveSessions != 0 {
		t.Errorf("ActiveSessions = %d after Forget, want 0", o.ActiveSessions)
	}
}
