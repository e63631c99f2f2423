package profile

import "time"

// Complexity is the learned language complexity preference.
type Complexity string

const (
	ComplexitySimple  Complexity = "simple"
	ComplexityMedium  Complexity = "medium"
	ComplexityComplex Complexity = "complex"
)

// Style is the learned response style preference.
type Style string

const (
	StyleConversational Style = "conversational"
	StyleProfessional   Style = "professional"
	StyleEnthusiastic   Style = "enthusiastic"
)

// Detail is the learned response detail preference.
type Detail string

const (
	DetailConcise  Detail = "concise"
	DetailMedium   Detail = "medium"
	DetailDetailed Detail = "detailed"
)

// SessionRecord is one completed session as reported by the client.
type SessionRecord struct {
	SessionID      string `json:"session_id"`
	Start          int64  `json:"session_start"`
	End            int64  `json:"session_end"`
	Duration       int64  `json:"session_duration"`
	EndType        string `json:"end_type"`
	EngagementTime int64  `json:"engagement_time"`
}

// FeedbackRecord is one explicit feedback signal.
type FeedbackRecord struct {
	Type             string `json:"feedback_type"`
	Timestamp        int64  `json:"timestamp"`
	ResponseText     string `json:"response_text,omitempty"`
	ResponseDuration int64  `json:"response_duration,omitempty"`
	DelayDuration    int64  `json:"feedback_delay_duration,omitempty"`
}

// Profile is the per-user behavioral record. Numeric aggregates are running
// means maintained by two-point averaging; preference enums are overwritten
// by the most recent classification.
type Profile struct {
	UserID    string    `json:"user_id"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	AverageSessionDuration     float64 `json:"average_session_duration"`
	AverageResponseTime        float64 `json:"average_response_time"`
	AverageTypingSpeed         float64 `json:"average_typing_speed"`
	AverageSentimentScore      float64 `json:"average_sentiment_score"`
	AverageLanguageComplexity  float64 `json:"average_language_complexity"`
	AverageGrammaticalAccuracy float64 `json:"average_grammatical_accuracy"`
	AverageEngagementTime      float64 `json:"average_engagement_time"`
	TotalSessions              int     `json:"total_sessions"`

	FeedbackRatio         float64 `json:"feedback_ratio"`
	PositiveFeedbackRatio float64 `json:"positive_feedback_ratio"`

	PreferredLanguageComplexity Complexity `json:"preferred_language_complexity"`
	PreferredResponseStyle      Style      `json:"preferred_response_style"`
	PreferredDetailLevel        Detail     `json:"preferred_detail_level"`

	SessionHistory  []SessionRecord  `json:"session_history,omitempty"`
	FeedbackHistory []FeedbackRecord `json:"feedback_history,omitempty"`

	CrossSessionInsights *Insights `json:"cross_session_insights,omitempty"`
}

// NewProfile returns a profile with documented defaults for a user seen for
// the first time.
func NewProfile(userID string, now time.Time) *Profile {
	return &Profile{
		UserID:                      userID,
		CreatedAt:                   now,
		UpdatedAt:                   now,
		AverageGrammaticalAccuracy:  1.0,
		PreferredLanguageComplexity: ComplexityMedium,
		PreferredResponseStyle:      StyleConversational,
		PreferredDetailLevel:        DetailMedium,
	}
}

// Clone returns a deep copy safe to hand outside the store's lock.
func (p *Profile) Clone() Profile {
	cp := *p
	if p.SessionHistory != nil {
		cp.SessionHistory = make([]SessionRecord, len(p.SessionHistory))
		copy(cp.SessionHistory, p.SessionHistory)
	}
	if p.FeedbackHistory != nil {
		cp.FeedbackHistory = make([]FeedbackRecord, len(p.FeedbackHistory))
		copy(cp.FeedbackHistory, p.FeedbackHistory)
	}
	if p.CrossSessionInsights != nil {
		ins := p.CrossSessionInsights.clone()
		cp.CrossSessionInsights = &ins
	}
	return cp
}

// rollingAverage folds a new sample into a two-point running mean. A zero
// mean is treated as unset and replaced by the sample.
func rollingAverage(current, sample float64) float64 {
	if current == 0 {
		return sample
	}
	return (current + sample) / 2
}

func clamp01(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}

// stepDetail moves a detail preference one step along
// concise <-> medium <-> detailed, saturating at the ends.
func stepDetail(d Detail, up bool) Detail {
	switch d {
	case DetailConcise:
		if up {
			return DetailMedium
		}
		return DetailConcise
	case DetailDetailed:
		if up {
			return DetailDetailed
		}
		return DetailMedium
	default:
		if up {
			return DetailDetailed
		}
		return DetailConcise
	}
}
