// Package insight derives cross-session patterns, human-readable insights,
// and adaptation recommendations from a user profile.
package insight

import (
	"math"
	"sort"
	"strings"
	"time"

	"github.com/GeorgeMakridis/humaine-chatbot/internal/profile"
)

// Clock abstracts time for testability.
type Clock interface {
	Now() time.Time
}

type realClock struct{}

func (realClock) Now() time.Time { return time.Now() }

// Engagement thresholds in milliseconds.
const (
	highEngagementMS   = 300000
	mediumEngagementMS = 120000
)

// Learner computes insights from profile state. Stateless apart from the
// clock; safe for concurrent use.
type Learner struct {
	clock Clock
}

func NewLearner() *Learner {
	return &Learner{clock: realClock{}}
}

func NewLearnerWithClock(clock Clock) *Learner {
	return &Learner{clock: clock}
}

// Analyze recomputes the full insight report for p.
func (l *Learner) Analyze(p *profile.Profile) *profile.Insights {
	patterns := profile.Patterns{
		Timing:        l.timingPatterns(p),
		Engagement:    l.engagementPatterns(p),
		Communication: l.communicationPatterns(p),
		Feedback:      l.feedbackPatterns(p),
	}
	insights := buildInsights(patterns)
	return &profile.Insights{
		Patterns:        patterns,
		Insights:        insights,
		Recommendations: buildRecommendations(insights),
		LastUpdated:     l.clock.Now(),
	}
}

func (l *Learner) timingPatterns(p *profile.Profile) profile.TimingPatterns {
	tp := profile.TimingPatterns{
		AverageSessionDuration: p.AverageSessionDuration,
		TotalSessions:          p.TotalSessions,
	}

	days := int(l.clock.Now().Sub(p.CreatedAt).Hours() / 24)
	if days < 1 {
		days = 1
	}
	tp.SessionFrequencyPerDay = float64(len(p.SessionHistory)) / float64(days)

	if len(p.SessionHistory) > 0 {
		counts := make(map[string]int)
		for _, s := range p.SessionHistory {
			counts[timeOfDay(time.UnixMilli(s.Start).Hour())]++
		}
		tp.TimeOfDayCounts = counts
	}

	if len(p.SessionHistory) > 1 {
		durations := make([]float64, len(p.SessionHistory))
		for i, s := range p.SessionHistory {
			durations[i] = float64(s.Duration)
		}
		tp.DurationConsistency = stddev(durations)
	}

	return tp
}

func timeOfDay(hour int) string {
	switch {
	case hour >= 6 && hour < 12:
		return "morning"
	case hour >= 12 && hour < 17:
		return "afternoon"
	case hour >= 17 && hour < 22:
		return "evening"
	default:
		return "night"
	}
}

func (l *Learner) engagementPatterns(p *profile.Profile) profile.EngagementPatterns {
	ep := profile.EngagementPatterns{Level: "low", Trend: "stable"}

	sessions := sortedByStart(p.SessionHistory)
	if len(sessions) == 0 {
		return ep
	}

	// The level tracks the mean duration of the five most recent sessions,
	// not the lifetime engagement-time average.
	recent := sessions
	if len(recent) > 5 {
		recent = recent[len(recent)-5:]
	}
	ep.RecentEngagement = meanDuration(recent)

	switch {
	case ep.RecentEngagement > highEngagementMS:
		ep.Level = "high"
	case ep.RecentEngagement > mediumEngagementMS:
		ep.Level = "medium"
	}

	if len(sessions) > 1 {
		half := len(sessions) / 2
		early := meanDuration(sessions[:half])
		late := meanDuration(sessions[half:])
		switch {
		case late > early:
			ep.Trend = "increasing"
		case late < early:
			ep.Trend = "decreasing"
		}
	}

	completed := 0
	for _, s := range sessions {
		if s.EndType == "completed" {
			completed++
		}
	}
	ep.CompletionRate = float64(completed) / float64(len(sessions))

	return ep
}

func (l *Learner) communicationPatterns(p *profile.Profile) profile.CommunicationPatterns {
	cp := profile.CommunicationPatterns{
		PreferredComplexity: p.PreferredLanguageComplexity,
		PreferredStyle:      p.PreferredResponseStyle,
		PreferredDetail:     p.PreferredDetailLevel,
	}

	// Consistency rewards preferences still sitting at the baseline values.
	if p.PreferredLanguageComplexity == profile.ComplexityMedium {
		cp.Consistency += 0.3
	}
	if p.PreferredDetailLevel == profile.DetailMedium {
		cp.Consistency += 0.3
	}
	if p.PreferredResponseStyle == profile.StyleConversational {
		cp.Consistency += 0.4
	}

	cp.ExpertiseProgression = expertiseProgression(sortedByStart(p.SessionHistory))
	return cp
}

func expertiseProgression(sessions []profile.SessionRecord) profile.ExpertiseProgression {
	if len(sessions) < 2 {
		return profile.ExpertiseProgression{Trend: "insufficient_data"}
	}

	half := len(sessions) / 2
	early := meanDuration(sessions[:half])
	late := meanDuration(sessions[half:])

	ratio := 0.0
	if early > 0 {
		ratio = late / early
	}

	trend := "stable"
	if ratio > 1.2 {
		trend = "improving"
	} else if ratio < 0.8 {
		trend = "declining"
	}

	return profile.ExpertiseProgression{
		Trend:                trend,
		EarlyAverageDuration: early,
		LateAverageDuration:  late,
		ImprovementRatio:     ratio,
	}
}

func (l *Learner) feedbackPatterns(p *profile.Profile) profile.FeedbackPatterns {
	fp := profile.FeedbackPatterns{
		TotalFeedback: len(p.FeedbackHistory),
		Trend:         "insufficient_data",
	}
	if fp.TotalFeedback == 0 {
		return fp
	}

	positive, negative := 0, 0
	var delaySum float64
	delays := 0
	for _, f := range p.FeedbackHistory {
		switch f.Type {
		case "positive":
			positive++
		case "negative":
			negative++
		}
		if f.DelayDuration > 0 {
			delaySum += float64(f.DelayDuration)
			delays++
		}
	}

	n := float64(fp.TotalFeedback)
	fp.PositiveRatio = float64(positive) / n
	fp.NegativeRatio = float64(negative) / n
	if delays > 0 {
		fp.AverageFeedbackDelay = delaySum / float64(delays)
	}
	fp.Consistency = 1 - math.Abs(fp.PositiveRatio-fp.NegativeRatio)

	if fp.TotalFeedback >= 3 {
		earlyPos := countPositive(p.FeedbackHistory[:3])
		latePos := countPositive(p.FeedbackHistory[len(p.FeedbackHistory)-3:])
		switch {
		case latePos > earlyPos:
			fp.Trend = "improving"
		case latePos < earlyPos:
			fp.Trend = "declining"
		default:
			fp.Trend = "stable"
		}
	}

	return fp
}

func countPositive(records []profile.FeedbackRecord) int {
	n := 0
	for _, f := range records {
		if f.Type == "positive" {
			n++
		}
	}
	return n
}

func buildInsights(p profile.Patterns) []string {
	var out []string

	if p.Timing.SessionFrequencyPerDay > 2 {
		out = append(out, "User is highly active with multiple sessions per day")
	} else if p.Timing.SessionFrequencyPerDay > 0 && p.Timing.SessionFrequencyPerDay < 0.1 {
		out = append(out, "User has infrequent usage patterns")
	}

	switch p.Engagement.Trend {
	case "increasing":
		out = append(out, "User engagement is increasing over time")
	case "decreasing":
		out = append(out, "User engagement is decreasing over time")
	}

	if p.Communication.Consistency > 0.8 {
		out = append(out, "User has consistent communication preferences")
	} else {
		out = append(out, "User shows varied communication patterns")
	}

	if p.Feedback.TotalFeedback > 0 {
		if p.Feedback.PositiveRatio > 0.7 {
			out = append(out, "User is generally satisfied with interactions")
		}
		if p.Feedback.NegativeRatio > 0.5 {
			out = append(out, "User shows signs of dissatisfaction")
		}
	}

	return out
}

// recommendationRules maps an insight substring to the recommendation it
// produces, one-to-one.
var recommendationRules = []struct {
	match          string
	recommendation string
}{
	{"highly active", "Offer power-user features and shortcuts"},
	{"infrequent usage", "Provide gentle re-engagement prompts"},
	{"engagement is increasing", "Maintain the current interaction approach"},
	{"engagement is decreasing", "Vary response style and surface new capabilities"},
	{"consistent communication", "Continue with the established personalization settings"},
	{"varied communication", "Experiment with different response styles"},
	{"generally satisfied", "Keep the current personalization strategy"},
	{"signs of dissatisfaction", "Adjust response style and detail level"},
}

func buildRecommendations(insights []string) []string {
	var out []string
	for _, ins := range insights {
		for _, rule := range recommendationRules {
			if strings.Contains(ins, rule.match) {
				out = append(out, rule.recommendation)
				break
			}
		}
	}
	return out
}

func sortedByStart(sessions []profile.SessionRecord) []profile.SessionRecord {
	out := make([]profile.SessionRecord, len(sessions))
	copy(out, sessions)
	sort.SliceStable(out, func(i, j int) bool { return out[i].Start < out[j].Start })
	return out
}

func meanDuration(sessions []profile.SessionRecord) float64 {
	if len(sessions) == 0 {
		return 0
	}
	var sum float64
	for _, s := range sessions {
		sum += float64(s.Duration)
	}
	return sum / float64(len(sessions))
}

func stddev(values []float64) float64 {
	if len(values) < 2 {
		return 0
	}
	var sum float64
	for _, v := range values {
		sum += v
	}
	mean := sum / float64(len(values))
	var sq float64
	for _, v := range values {
		sq += (v - mean) * (v - mean)
	}
	return math.Sqrt(sq / float64(len(values)))
}
