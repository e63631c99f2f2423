package analysis

import (
	"strings"
	"unicode"
)

// SentimentResult holds the lexicon-based sentiment for a single message.
// Score and Normalized carry the same clamped integer value; both names are
// kept because downstream consumers historically read either field.
type SentimentResult struct {
	Score      int `json:"sentiment_score"`
	Normalized int `json:"normalized_score"`
}

// SentimentScorer scores message text against a fixed word and emoji lexicon.
// It holds no state and is safe for concurrent use.
type SentimentScorer struct{}

func NewSentimentScorer() *SentimentScorer {
	return &SentimentScorer{}
}

// Analyze averages lexicon weights over the scored tokens of text. Tokens
// that match no lexicon entry do not count toward the denominator. The
// average is clamped to [-5, 5] and truncated toward zero.
func (s *SentimentScorer) Analyze(text string) SentimentResult {
	total := 0
	matched := 0

	for _, field := range strings.Fields(strings.ToLower(text)) {
		word := stripPunct(field)
		if word == "" {
			continue
		}
		if score, ok := wordScores[word]; ok {
			total += score
			matched++
		}
	}

	for _, r := range text {
		if score, ok := emojiScores[r]; ok {
			total += score
			matched++
		}
	}

	if matched == 0 {
		return SentimentResult{}
	}

	avg := float64(total) / float64(matched)
	if avg > 5 {
		avg = 5
	} else if avg < -5 {
		avg = -5
	}

	v := int(avg)
	return SentimentResult{Score: v, Normalized: v}
}

// stripPunct removes every rune that is not a letter or digit.
func stripPunct(s string) string {
	var b strings.Builder
	for _, r := range s {
		if unicode.IsLetter(r) || unicode.IsDigit(r) {
			b.WriteRune(r)
		}
	}
	return b.String()
}
