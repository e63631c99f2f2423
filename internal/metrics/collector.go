// Package metrics keeps lightweight in-memory interaction counters used by
// the reporting endpoints. Nothing here is persisted.
package metrics

import (
	"sync"
	"time"
)

// Clock abstracts time for testability.
type Clock interface {
	Now() time.Time
}

type realClock struct{}

func (realClock) Now() time.Time { return time.Now() }

type userStats struct {
	messages      int
	messageChars  int
	responses     int
	feedback      map[string]int
	sessionsEnded int
	lastActivity  time.Time
}

// Collector aggregates per-user and service-wide interaction counters.
type Collector struct {
	mu    sync.Mutex
	clock Clock

	users          map[string]*userStats
	activeSessions map[string]string // session ID -> user ID
	totalEvents    int
}

func NewCollector() *Collector {
	return NewCollectorWithClock(realClock{})
}

func NewCollectorWithClock(clock Clock) *Collector {
	return &Collector{
		clock:          clock,
		users:          make(map[string]*userStats),
		activeSessions: make(map[string]string),
	}
}

func (c *Collector) user(userID string) *userStats {
	u, ok := c.users[userID]
	if !ok {
		u = &userStats{feedback: make(map[string]int)}
		c.users[userID] = u
	}
	return u
}

// RecordMessage notes an inbound user message.
func (c *Collector) RecordMessage(userID, sessionID string, chars int) {
	c.mu.Lock()
	defer c.mu.Unlock()
	u := c.user(userID)
	u.messages++
	u.messageChars += chars
	u.lastActivity = c.clock.Now()
	if sessionID != "" {
		c.activeSessions[sessionID] = userID
	}
	c.totalEvents++
}

// RecordResponse notes a generated assistant response.
func (c *Collector) RecordResponse(userID string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	u := c.user(userID)
	u.responses++
	u.lastActivity = c.clock.Now()
	c.totalEvents++
}

// RecordFeedback notes an explicit feedback signal.
func (c *Collector) RecordFeedback(userID, feedbackType string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	u := c.user(userID)
	u.feedback[feedbackType]++
	u.lastActivity = c.clock.Now()
	c.totalEvents++
}

// RecordSessionEnd notes a finished session.
func (c *Collector) RecordSessionEnd(userID, sessionID string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	u := c.user(userID)
	u.sessionsEnded++
	u.lastActivity = c.clock.Now()
	delete(c.activeSessions, sessionID)
	c.totalEvents++
}

// Forget drops all counters for a user, including their active sessions.
func (c *Collector) Forget(userID string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.users, userID)
	for sid, uid := range c.activeSessions {
		if uid == userID {
			delete(c.activeSessions, sid)
		}
	}
}

// EngagementSummary reports session-level activity for one user.
type EngagementSummary struct {
	UserID             string    `json:"user_id"`
	SessionsEnded      int       `json:"sessions_ended"`
	Messages           int       `json:"messages"`
	MessagesPerSession float64   `json:"messages_per_session"`
	LastActivity       time.Time `json:"last_activity"`
}

// Engagement returns the engagement summary, reporting whether the user has
// any recorded activity.
func (c *Collector) Engagement(userID string) (EngagementSummary, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	u, ok := c.users[userID]
	if !ok {
		return EngagementSummary{}, false
	}
	s := EngagementSummary{
		UserID:        userID,
		SessionsEnded: u.sessionsEnded,
		Messages:      u.messages,
		LastActivity:  u.lastActivity,
	}
	if u.sessionsEnded > 0 {
		s.MessagesPerSession = float64(u.messages) / float64(u.sessionsEnded)
	}
	return s, true
}

// BehaviorSummary reports message and feedback behavior for one user.
type BehaviorSummary struct {
	UserID          string         `json:"user_id"`
	Messages        int            `json:"messages"`
	Responses       int            `json:"responses"`
	AvgMessageChars float64        `json:"avg_message_chars"`
	Feedback        map[string]int `json:"feedback"`
}

// Behavior returns the behavior summary, reporting whether the user has any
// recorded activity.
func (c *Collector) Behavior(userID string) (BehaviorSummary, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	u, ok := c.users[userID]
	if !ok {
		return BehaviorSummary{}, false
	}
	s := BehaviorSummary{
		UserID:    userID,
		Messages:  u.messages,
		Responses: u.responses,
		Feedback:  make(map[string]int, len(u.feedback)),
	}
	for k, v := range u.feedback {
		s.Feedback[k] = v
	}
	if u.messages > 0 {
		s.AvgMessageChars = float64(u.messageChars) / float64(u.messages)
	}
	return s, true
}

// Overview reports service-wide counters.
type Overview struct {
	Users          int `json:"users"`
	ActiveSessions int `json:"active_sessions"`
	TotalEvents    int `json:"total_events"`
}

func (c *Collector) Overview() Overview {
	c.mu.Lock()
	defer c.mu.Unlock()
	return Overview{
		Users:          len(c.users),
		ActiveSessions: len(c.activeSessions),
		TotalEvents:    c.totalEvents,
	}
}
