package profile

import "time"

// Insights is the cross-session analysis cached on a profile. It is
// recomputed after every applied event and serialized with the profile.
type Insights struct {
	Patterns        Patterns  `json:"patterns"`
	Insights        []string  `json:"insights"`
	Recommendations []string  `json:"recommendations"`
	LastUpdated     time.Time `json:"last_updated"`
}

// Patterns groups the four analysis dimensions.
type Patterns struct {
	Timing        TimingPatterns        `json:"timing"`
	Engagement    EngagementPatterns    `json:"engagement"`
	Communication CommunicationPatterns `json:"communication"`
	Feedback      FeedbackPatterns      `json:"feedback"`
}

// TimingPatterns describes when and how often the user shows up.
type TimingPatterns struct {
	AverageSessionDuration float64        `json:"average_session_duration"`
	TotalSessions          int            `json:"total_sessions"`
	SessionFrequencyPerDay float64        `json:"session_frequency_per_day"`
	TimeOfDayCounts        map[string]int `json:"time_of_day_counts,omitempty"`
	DurationConsistency    float64        `json:"duration_consistency"`
}

// EngagementPatterns describes how invested recent sessions are.
type EngagementPatterns struct {
	RecentEngagement float64 `json:"recent_engagement"`
	Trend            string  `json:"trend"`
	Level            string  `json:"level"`
	CompletionRate   float64 `json:"completion_rate"`
}

// CommunicationPatterns describes preference stability and growth.
type CommunicationPatterns struct {
	PreferredComplexity  Complexity           `json:"preferred_complexity"`
	PreferredStyle       Style                `json:"preferred_style"`
	PreferredDetail      Detail               `json:"preferred_detail"`
	Consistency          float64              `json:"consistency"`
	ExpertiseProgression ExpertiseProgression `json:"expertise_progression"`
}

// ExpertiseProgression compares early sessions against late ones.
type ExpertiseProgression struct {
	Trend                string  `json:"trend"`
	EarlyAverageDuration float64 `json:"early_average_duration"`
	LateAverageDuration  float64 `json:"late_average_duration"`
	ImprovementRatio     float64 `json:"improvement_ratio"`
}

// FeedbackPatterns summarizes explicit feedback behavior.
type FeedbackPatterns struct {
	TotalFeedback        int     `json:"total_feedback"`
	PositiveRatio        float64 `json:"positive_ratio"`
	NegativeRatio        float64 `json:"negative_ratio"`
	AverageFeedbackDelay float64 `json:"average_feedback_delay"`
	Consistency          float64 `json:"consistency"`
	Trend                string  `json:"trend"`
}

func (i *Insights) clone() Insights {
	cp := *i
	if i.Insights != nil {
		cp.Insights = make([]string, len(i.Insights))
		copy(cp.Insights, i.Insights)
	}
	if i.Recommendations != nil {
		cp.Recommendations = make([]string, len(i.Recommendations))
		copy(cp.Recommendations, i.Recommendations)
	}
	if i.Patterns.Timing.TimeOfDayCounts != nil {
		m := make(map[string]int, len(i.Patterns.Timing.TimeOfDayCounts))
		for k, v := range i.Patterns.Timing.TimeOfDayCounts {
			m[k] = v
		}
		cp.Patterns.Timing.TimeOfDayCounts = m
	}
	return cp
}
