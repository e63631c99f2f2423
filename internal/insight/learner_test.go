package insight

import (
	"math"
	"testing"
	"time"

	"github.com/GeorgeMakridis/humaine-chatbot/internal/profile"
)

type fixedClock struct {
	now time.Time
}

func (c fixedClock) Now() time.Time { return c.now }

func newTestLearner(now time.Time) *Learner {
	return NewLearnerWithClock(fixedClock{now: now})
}

func TestTimeOfDayBuckets(t *testing.T) {
	tests := []struct {
		hour int
		want string
	}{
		{6, "morning"}, {11, "morning"},
		{12, "afternoon"}, {16, "afternoon"},
		{17, "evening"}, {21, "evening"},
		{22, "night"}, {3, "night"}, {5, "night"},
	}
	for _, tt := range tests {
		if got := timeOfDay(tt.hour); got != tt.want {
			t.Errorf("timeOfDay(%d) = %q, want %q", tt.hour, got, tt.want)
		}
	}
}

func TestSessionFrequency(t *testing.T) {
	now := time.Now()
	l := newTestLearner(now)

	p := profile.NewProfile("u1", now.Add(-10*24*time.Hour))
	for i := 0; i < 5; i++ {
		p.SessionHistory = append(p.SessionHistory, profile.SessionRecord{Start: now.UnixMilli(), Duration: 1000})
	}

	got := l.Analyze(p)
	if freq := got.Patterns.Timing.SessionFrequencyPerDay; freq != 0.5 {
		t.Errorf("frequency = %v, want 0.5", freq)
	}
}

func TestSessionFrequencySameDay(t *testing.T) {
	now := time.Now()
	l := newTestLearner(now)

	// Account created an hour ago: the day divisor floors to 1.
	p := profile.NewProfile("u1", now.Add(-time.Hour))
	p.SessionHistory = append(p.SessionHistory, profile.SessionRecord{Start: now.UnixMilli()})

	got := l.Analyze(p)
	if freq := got.Patterns.Timing.SessionFrequencyPerDay; freq != 1 {
		t.Errorf("frequency = %v, want 1", freq)
	}
}

func TestEngagementLevels(t *testing.T) {
	l := newTestLearner(time.Now())

	tests := []struct {
		durations []int64
		want      string
	}{
		{[]int64{400000}, "high"},
		{[]int64{300001}, "high"},
		{[]int64{300000}, "medium"},
		{[]int64{120001}, "medium"},
		{[]int64{120000}, "low"},
		{nil, "low"},
	}
	for _, tt := range tests {
		p := profile.NewProfile("u1", time.Now())
		for i, d := range tt.durations {
			p.SessionHistory = append(p.SessionHistory, profile.SessionRecord{
				Start:    int64(i),
				Duration: d,
			})
		}
		got := l.Analyze(p)
		if got.Patterns.Engagement.Level != tt.want {
			t.Errorf("durations %v: level = %q, want %q", tt.durations, got.Patterns.Engagement.Level, tt.want)
		}
	}
}

func TestEngagementLevelFromRecentSessions(t *testing.T) {
	l := newTestLearner(time.Now())

	// Three six-minute sessions with no engagement-time samples recorded:
	// the level follows the recent session durations.
	p := profile.NewProfile("u1", time.Now())
	for i := 0; i < 3; i++ {
		p.SessionHistory = append(p.SessionHistory, profile.SessionRecord{
			Start:    int64(i * 1000),
			Duration: 360000,
		})
	}
	got := l.Analyze(p).Patterns.Engagement
	if got.RecentEngagement != 360000 {
		t.Errorf("recent engagement = %v, want 360000", got.RecentEngagement)
	}
	if got.Level != "high" {
		t.Errorf("level = %q, want high", got.Level)
	}

	// Only the five most recent sessions count: long early sessions
	// must not lift the level once recent activity is short.
	p = profile.NewProfile("u2", time.Now())
	durations := []int64{900000, 900000, 60000, 60000, 60000, 60000, 60000}
	for i, d := range durations {
		p.SessionHistory = append(p.SessionHistory, profile.SessionRecord{
			Start:    int64(i * 1000),
			Duration: d,
		})
	}
	got = l.Analyze(p).Patterns.Engagement
	if got.RecentEngagement != 60000 {
		t.Errorf("recent engagement = %v, want 60000", got.RecentEngagement)
	}
	if got.Level != "low" {
		t.Errorf("level = %q, want low", got.Level)
	}
}

func TestEngagementTrend(t *testing.T) {
	l := newTestLearner(time.Now())

	p := profile.NewProfile("u1", time.Now())
	for i, dur := range []int64{1000, 1000, 5000, 5000} {
		p.SessionHistory = append(p.SessionHistory, profile.SessionRecord{
			Start:    int64(i * 1000),
			Duration: dur,
		})
	}
	got := l.Analyze(p)
	if got.Patterns.Engagement.Trend != "increasing" {
		t.Errorf("trend = %q, want increasing", got.Patterns.Engagement.Trend)
	}

	p = profile.NewProfile("u2", time.Now())
	for i, dur := range []int64{9000, 9000, 2000, 2000} {
		p.SessionHistory = append(p.SessionHistory, profile.SessionRecord{
			Start:    int64(i * 1000),
			Duration: dur,
		})
	}
	got = l.Analyze(p)
	if got.Patterns.Engagement.Trend != "decreasing" {
		t.Errorf("trend = %q, want decreasing", got.Patterns.Engagement.Trend)
	}
}

func TestCompletionRate(t *testing.T) {
	l := newTestLearner(time.Now())

	p := profile.NewProfile("u1", time.Now())
	p.SessionHistory = []profile.SessionRecord{
		{Start: 1, EndType: "completed"},
		{Start: 2, EndType: "abandoned"},
		{Start: 3, EndType: "completed"},
		{Start: 4, EndType: "timeout"},
	}
	got := l.Analyze(p)
	if rate := got.Patterns.Engagement.CompletionRate; rate != 0.5 {
		t.Errorf("completion rate = %v, want 0.5", rate)
	}
}

func TestCommunicationConsistencyAtDefaults(t *testing.T) {
	l := newTestLearner(time.Now())

	p := profile.NewProfile("u1", time.Now())
	got := l.Analyze(p)
	// medium complexity 0.3 + medium detail 0.3 + conversational 0.4.
	if c := got.Patterns.Communication.Consistency; math.Abs(c-1.0) > 1e-9 {
		t.Errorf("consistency = %v, want 1.0", c)
	}

	p.PreferredResponseStyle = profile.StyleProfessional
	p.PreferredDetailLevel = profile.DetailDetailed
	got = l.Analyze(p)
	if c := got.Patterns.Communication.Consistency; math.Abs(c-0.3) > 1e-9 {
		t.Errorf("consistency = %v, want 0.3", c)
	}
}

func TestExpertiseProgression(t *testing.T) {
	sessions := func(durations ...int64) []profile.SessionRecord {
		out := make([]profile.SessionRecord, len(durations))
		for i, d := range durations {
			out[i] = profile.SessionRecord{Start: int64(i), Duration: d}
		}
		return out
	}

	if got := expertiseProgression(sessions(1000)); got.Trend != "insufficient_data" {
		t.Errorf("1 session: trend = %q, want insufficient_data", got.Trend)
	}
	// Two sessions are enough to split into halves.
	if got := expertiseProgression(sessions(1000, 2000)); got.Trend != "improving" {
		t.Errorf("2 sessions: trend = %q, want improving (ratio %v)", got.Trend, got.ImprovementRatio)
	}
	if got := expertiseProgression(sessions(1000, 1000, 2000, 2000)); got.Trend != "improving" {
		t.Errorf("growing durations: trend = %q, want improving (ratio %v)", got.Trend, got.ImprovementRatio)
	}
	if got := expertiseProgression(sessions(4000, 4000, 1000, 1000)); got.Trend != "declining" {
		t.Errorf("shrinking durations: trend = %q, want declining", got.Trend)
	}
	if got := expertiseProgression(sessions(1000, 1000, 1000, 1000)); got.Trend != "stable" {
		t.Errorf("flat durations: trend = %q, want stable", got.Trend)
	}
}

func TestFeedbackPatterns(t *testing.T) {
	l := newTestLearner(time.Now())

	p := profile.NewProfile("u1", time.Now())
	p.FeedbackHistory = []profile.FeedbackRecord{
		{Type: "negative", DelayDuration: 1000},
		{Type: "negative"},
		{Type: "positive", DelayDuration: 3000},
		{Type: "positive"},
		{Type: "positive"},
	}
	got := l.Analyze(p).Patterns.Feedback

	if got.TotalFeedback != 5 {
		t.Errorf("total = %d, want 5", got.TotalFeedback)
	}
	if got.PositiveRatio != 0.6 || got.NegativeRatio != 0.4 {
		t.Errorf("ratios = %v/%v, want 0.6/0.4", got.PositiveRatio, got.NegativeRatio)
	}
	if got.AverageFeedbackDelay != 2000 {
		t.Errorf("avg delay = %v, want 2000 (zero delays excluded)", got.AverageFeedbackDelay)
	}
	// Earliest three have 1 positive, latest three have 3.
	if got.Trend != "improving" {
		t.Errorf("trend = %q, want improving", got.Trend)
	}
}

func TestFeedbackInsufficientData(t *testing.T) {
	l := newTestLearner(time.Now())

	p := profile.NewProfile("u1", time.Now())
	p.FeedbackHistory = []profile.FeedbackRecord{{Type: "positive"}, {Type: "positive"}}
	got := l.Analyze(p).Patterns.Feedback

	if got.Trend != "insufficient_data" {
		t.Errorf("trend = %q, want insufficient_data with only 2 records", got.Trend)
	}
	if got.PositiveRatio != 1 {
		t.Errorf("positive ratio = %v, want 1", got.PositiveRatio)
	}
}

func TestInsightsAndRecommendationsPairUp(t *testing.T) {
	now := time.Now()
	l := newTestLearner(now)

	p := profile.NewProfile("u1", now.Add(-24*time.Hour))
	for i := 0; i < 5; i++ {
		p.SessionHistory = append(p.SessionHistory, profile.SessionRecord{Start: now.UnixMilli(), Duration: 1000})
	}
	for i := 0; i < 4; i++ {
		p.FeedbackHistory = append(p.FeedbackHistory, profile.FeedbackRecord{Type: "positive"})
	}

	got := l.Analyze(p)

	if len(got.Insights) == 0 {
		t.Fatal("expected insights for an active, satisfied user")
	}
	if len(got.Recommendations) != len(got.Insights) {
		t.Errorf("recommendations = %d, insights = %d; every insight maps to one recommendation",
			len(got.Recommendations), len(got.Insights))
	}
	if !got.LastUpdated.Equal(now) {
		t.Errorf("LastUpdated = %v, want clock time", got.LastUpdated)
	}

	found := false
	for _, ins := range got.Insights {
		if ins == "User is highly active with multiple sessions per day" {
			found = true
		}
	}
	if !found {
		t.Errorf("missing high-activity insight in %v", got.Insights)
	}
}
