package profile

import (
	"log/slog"
	"strings"
	"unicode/utf8"

	"github.com/GeorgeMakridis/humaine-chatbot/internal/analysis"
)

// InsightAnalyzer recomputes cross-session insights from a profile.
// Implemented by insight.Learner.
type InsightAnalyzer interface {
	Analyze(p *Profile) *Insights
}

// Updater folds incoming events into stored profiles. Every sub-step is
// best-effort: a skipped signal logs a warning and never fails the event.
type Updater struct {
	store      *Store
	enhanced   *analysis.EnhancedAnalyzer
	sentiment  *analysis.SentimentScorer
	grammar    *analysis.GrammarChecker
	complexity *analysis.ComplexityAnalyzer
	learner    InsightAnalyzer
	logger     *slog.Logger
}

// NewUpdater wires the extractors with equal sentence-length and vocabulary
// weights for the basic complexity score.
func NewUpdater(store *Store, learner InsightAnalyzer) (*Updater, error) {
	complexity, err := analysis.NewComplexityAnalyzer(0.5, 0.5)
	if err != nil {
		return nil, err
	}
	return &Updater{
		store:      store,
		enhanced:   analysis.NewEnhancedAnalyzer(),
		sentiment:  analysis.NewSentimentScorer(),
		grammar:    analysis.NewGrammarChecker(),
		complexity: complexity,
		learner:    learner,
		logger:     slog.Default(),
	}, nil
}

// ApplyMessage folds a message event into the user's profile and returns the
// updated copy. Empty messages only bump the profile's UpdatedAt timestamp.
func (u *Updater) ApplyMessage(ev MessageEvent) Profile {
	text := ev.Text
	empty := strings.TrimSpace(text) == ""

	return u.store.Update(ev.UserID, func(p *Profile) {
		if empty {
			return
		}

		u.applyPreferences(p, text)
		u.applyAggregates(p, text)

		if speed, ok := analysis.TypingSpeed(text, ev.InputStartTime, ev.InputEndTime); ok {
			p.AverageTypingSpeed = rollingAverage(p.AverageTypingSpeed, speed)
		} else if ev.InputStartTime != 0 || ev.InputEndTime != 0 {
			u.logger.Warn("skipping typing speed sample with non-positive duration",
				"user_id", ev.UserID, "start", ev.InputStartTime, "end", ev.InputEndTime)
		}

		if ev.InputSentTime > ev.InputEndTime && ev.InputEndTime > 0 {
			p.AverageResponseTime = rollingAverage(p.AverageResponseTime, float64(ev.InputSentTime-ev.InputEndTime))
		}

		// Message length overrides the analyzed detail preference.
		switch chars := utf8.RuneCountInString(text); {
		case chars > 100:
			p.PreferredDetailLevel = DetailDetailed
		case chars < 20:
			p.PreferredDetailLevel = DetailConcise
		}

		p.CrossSessionInsights = u.learner.Analyze(p)
	})
}

// applyPreferences maps the enhanced analysis labels onto preference enums.
func (u *Updater) applyPreferences(p *Profile, text string) {
	enh := u.enhanced.Analyze(text)

	switch enh.Complexity.Level {
	case "very_easy", "easy":
		p.PreferredLanguageComplexity = ComplexitySimple
	case "difficult", "very_difficult":
		p.PreferredLanguageComplexity = ComplexityComplex
	default:
		p.PreferredLanguageComplexity = ComplexityMedium
	}

	switch enh.Vocabulary.Level {
	case "advanced":
		p.PreferredDetailLevel = DetailDetailed
	case "limited":
		p.PreferredDetailLevel = DetailConcise
	}

	switch {
	case enh.Sentiment.Label == "positive" && enh.Sentiment.Enthusiasm == "high":
		p.PreferredResponseStyle = StyleEnthusiastic
	case enh.Sentiment.Label == "negative":
		p.PreferredResponseStyle = StyleProfessional
	default:
		p.PreferredResponseStyle = StyleConversational
	}
}

// applyAggregates feeds the basic extractor scores into the running means.
func (u *Updater) applyAggregates(p *Profile, text string) {
	sent := u.sentiment.Analyze(text)
	p.AverageSentimentScore = rollingAverage(p.AverageSentimentScore, float64(sent.Score))

	gram := u.grammar.Analyze(text)
	accuracy := 1 - gram.Frequency
	if accuracy < 0 {
		accuracy = 0
	}
	p.AverageGrammaticalAccuracy = rollingAverage(p.AverageGrammaticalAccuracy, accuracy)

	comp := u.complexity.Analyze(text)
	p.AverageLanguageComplexity = rollingAverage(p.AverageLanguageComplexity, comp.Score)
}

// ApplyFeedback records the feedback and nudges preferences and ratios.
func (u *Updater) ApplyFeedback(ev FeedbackEvent) Profile {
	feedbackType := strings.ToLower(strings.TrimSpace(ev.FeedbackType))

	return u.store.Update(ev.UserID, func(p *Profile) {
		p.FeedbackHistory = append(p.FeedbackHistory, FeedbackRecord{
			Type:             feedbackType,
			Timestamp:        u.store.clock.Now().UnixMilli(),
			ResponseText:     ev.ResponseText,
			ResponseDuration: ev.ResponseDuration,
			DelayDuration:    ev.DelayDuration,
		})

		switch feedbackType {
		case "positive":
			p.PreferredDetailLevel = stepDetail(p.PreferredDetailLevel, true)
			p.PositiveFeedbackRatio = clamp01(p.PositiveFeedbackRatio + 0.1)
		case "negative":
			p.PreferredDetailLevel = stepDetail(p.PreferredDetailLevel, false)
			p.PositiveFeedbackRatio = clamp01(p.PositiveFeedbackRatio - 0.1)
		default:
			u.logger.Warn("unrecognized feedback type recorded verbatim",
				"user_id", ev.UserID, "feedback_type", feedbackType)
		}
		p.FeedbackRatio = clamp01(p.FeedbackRatio + 0.1)

		p.CrossSessionInsights = u.learner.Analyze(p)
	})
}

// ApplySession appends the session record and updates session aggregates.
func (u *Updater) ApplySession(ev SessionEvent) Profile {
	duration := ev.Duration
	if duration == 0 && ev.End > ev.Start {
		duration = ev.End - ev.Start
	}

	return u.store.Update(ev.UserID, func(p *Profile) {
		p.SessionHistory = append(p.SessionHistory, SessionRecord{
			SessionID:      ev.SessionID,
			Start:          ev.Start,
			End:            ev.End,
			Duration:       duration,
			EndType:        ev.EndType,
			EngagementTime: ev.EngagementTime,
		})
		p.TotalSessions++

		if duration > 0 {
			p.AverageSessionDuration = rollingAverage(p.AverageSessionDuration, float64(duration))
		}
		if ev.EngagementTime > 0 {
			p.AverageEngagementTime = rollingAverage(p.AverageEngagementTime, float64(ev.EngagementTime))
		}

		p.CrossSessionInsights = u.learner.Analyze(p)
	})
}
