package analysis

import "testing"

func TestSentimentScorer(t *testing.T) {
	s := NewSentimentScorer()

	tests := []struct {
		name string
		text string
		want int
	}{
		{"strongly positive", "I love this! Amazing and wonderful.", 4},
		{"strongly negative", "This is terrible and awful.", -5},
		{"mildly positive", "The weather is nice today.", 3},
		{"no lexicon hits", "zzz qqq xyzzy", 0},
		{"empty", "", 0},
		{"hedge dilutes", "I think this is excellent", 2},
		{"emoji only", "🎉", 5},
		{"negative emoji", "😡", -5},
		{"punctuation stripped", "excellent!!!", 5},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := s.Analyze(tt.text)
			if got.Score != tt.want {
				t.Errorf("Analyze(%q).Score = %d, want %d", tt.text, got.Score, tt.want)
			}
			if got.Normalized != got.Score {
				t.Errorf("Normalized = %d, want same as Score %d", got.Normalized, got.Score)
			}
		})
	}
}

func TestSentimentScorerClamped(t *testing.T) {
	s := NewSentimentScorer()
	got := s.Analyze("excellent amazing outstanding fantastic brilliant")
	if got.Score != 5 {
		t.Errorf("Score = %d, want 5", got.Score)
	}
}
