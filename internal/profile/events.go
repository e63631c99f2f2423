package profile

import "encoding/json"

// MessageEvent is a user message with client-side typing timestamps, all in
// Unix milliseconds. Metadata carries fields this version does not interpret.
type MessageEvent struct {
	UserID         string
	SessionID      string
	Text           string
	InputStartTime int64
	InputEndTime   int64
	InputSentTime  int64
	Metadata       map[string]json.RawMessage
}

// FeedbackEvent is an explicit thumbs-up/down style signal on a response.
type FeedbackEvent struct {
	UserID           string
	SessionID        string
	FeedbackType     string
	ResponseText     string
	ResponseDuration int64
	DelayDuration    int64
	Metadata         map[string]json.RawMessage
}

// SessionEvent reports a finished session.
type SessionEvent struct {
	UserID         string
	SessionID      string
	Start          int64
	End            int64
	Duration       int64
	EndType        string
	EngagementTime int64
	Metadata       map[string]json.RawMessage
}
