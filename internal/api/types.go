package api

import (
	"encoding/json"

	"github.com/GeorgeMakridis/humaine-chatbot/internal/llm"
	"github.com/GeorgeMakridis/humaine-chatbot/internal/profile"
)

// splitExtra collects the JSON keys the request struct does not declare, so
// clients can attach fields this version does not interpret without losing
// them.
func splitExtra(data []byte, known ...string) (map[string]json.RawMessage, error) {
	var all map[string]json.RawMessage
	if err := json.Unmarshal(data, &all); err != nil {
		return nil, err
	}
	for _, k := range known {
		delete(all, k)
	}
	if len(all) == 0 {
		return nil, nil
	}
	return all, nil
}

type interactRequest struct {
	UserID         string `json:"user_id"`
	SessionID      string `json:"session_id"`
	Message        string `json:"input_text"`
	Domain         string `json:"domain"`
	InputStartTime int64  `json:"input_start_time"`
	InputEndTime   int64  `json:"input_end_time"`
	InputSentTime  int64  `json:"input_sent_time"`

	Extra map[string]json.RawMessage `json:"-"`
}

func (r *interactRequest) UnmarshalJSON(data []byte) error {
	type plain interactRequest
	if err := json.Unmarshal(data, (*plain)(r)); err != nil {
		return err
	}
	// "message" is accepted as an alias for input_text.
	if r.Message == "" {
		var alias struct {
			Message string `json:"message"`
		}
		if err := json.Unmarshal(data, &alias); err == nil {
			r.Message = alias.Message
		}
	}
	extra, err := splitExtra(data,
		"user_id", "session_id", "input_text", "message", "domain",
		"input_start_time", "input_end_time", "input_sent_time")
	if err != nil {
		return err
	}
	r.Extra = extra
	return nil
}

type interactResponse struct {
	ID              string          `json:"id"`
	UserID          string          `json:"user_id"`
	SessionID       string          `json:"session_id,omitempty"`
	Response        string          `json:"response"`
	Model           string          `json:"model"`
	Status          string          `json:"status"`
	Personalization profile.Params  `json:"personalization"`
	ModelParams     llm.ModelParams `json:"model_params"`
}

type feedbackRequest struct {
	UserID           string `json:"user_id"`
	SessionID        string `json:"session_id"`
	FeedbackType     string `json:"feedback_type"`
	ResponseText     string `json:"response_text"`
	ResponseDuration int64  `json:"response_duration"`
	DelayDuration    int64  `json:"feedback_delay_duration"`

	Extra map[string]json.RawMessage `json:"-"`
}

func (r *feedbackRequest) UnmarshalJSON(data []byte) error {
	type plain feedbackRequest
	if err := json.Unmarshal(data, (*plain)(r)); err != nil {
		return err
	}
	// "delay_duration" is accepted as an alias for feedback_delay_duration.
	if r.DelayDuration == 0 {
		var alias struct {
			DelayDuration int64 `json:"delay_duration"`
		}
		if err := json.Unmarshal(data, &alias); err == nil {
			r.DelayDuration = alias.DelayDuration
		}
	}
	extra, err := splitExtra(data,
		"user_id", "session_id", "feedback_type", "response_text",
		"response_duration", "feedback_delay_duration", "delay_duration")
	if err != nil {
		return err
	}
	r.Extra = extra
	return nil
}

type sessionRequest struct {
	UserID         string `json:"user_id"`
	SessionID      string `json:"session_id"`
	Start          int64  `json:"session_start"`
	End            int64  `json:"session_end"`
	Duration       int64  `json:"session_duration"`
	EndType        string `json:"session_end_type"`
	EngagementTime int64  `json:"engagement_time"`

	Extra map[string]json.RawMessage `json:"-"`
}

func (r *sessionRequest) UnmarshalJSON(data []byte) error {
	type plain sessionRequest
	if err := json.Unmarshal(data, (*plain)(r)); err != nil {
		return err
	}
	// "end_type" is accepted as an alias for session_end_type.
	if r.EndType == "" {
		var alias struct {
			EndType string `json:"end_type"`
		}
		if err := json.Unmarshal(data, &alias); err == nil {
			r.EndType = alias.EndType
		}
	}
	extra, err := splitExtra(data,
		"user_id", "session_id", "session_start", "session_end",
		"session_duration", "session_end_type", "end_type", "engagement_time")
	if err != nil {
		return err
	}
	r.Extra = extra
	return nil
}

type statusResponse struct {
	Status string `json:"status"`
}
