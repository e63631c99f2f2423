package analysis

import (
	"regexp"
	"strings"
	"unicode"
)

// EnhancedResult is the richer per-message analysis feeding preference
// classification. It is independent from the basic extractors above: the
// basic scores update numeric aggregates, while these labels steer the
// stored preference enums.
type EnhancedResult struct {
	Empty         bool              `json:"empty"`
	WordCount     int               `json:"word_count"`
	SentenceCount int               `json:"sentence_count"`
	CharCount     int               `json:"char_count"`
	Complexity    ComplexityInsight `json:"complexity"`
	Sentiment     SentimentInsight  `json:"sentiment"`
	Grammar       GrammarInsight    `json:"grammar"`
	Vocabulary    VocabularyInsight `json:"vocabulary"`
}

// ComplexityInsight classifies text difficulty via readability indices.
type ComplexityInsight struct {
	Readability Readability `json:"readability"`
	Level       string      `json:"level"`
}

// SentimentInsight is a lightweight polarity and enthusiasm estimate.
type SentimentInsight struct {
	Score        float64 `json:"score"`
	Label        string  `json:"label"`
	Enthusiasm   string  `json:"enthusiasm"`
	Exclamations int     `json:"exclamations"`
	Questions    int     `json:"questions"`
	CapsRatio    float64 `json:"caps_ratio"`
}

// GrammarInsight is a structural well-formedness estimate in [0, 1].
type GrammarInsight struct {
	Score   float64 `json:"score"`
	Quality string  `json:"quality"`
}

// VocabularyInsight estimates lexical richness.
type VocabularyInsight struct {
	Diversity     float64 `json:"diversity"`
	Level         string  `json:"level"`
	TTR           float64 `json:"type_token_ratio"`
	HapaxRatio    float64 `json:"hapax_ratio"`
	StopwordRatio float64 `json:"stopword_ratio"`
}

var positiveWords = []string{
	"good", "great", "excellent", "amazing", "wonderful",
	"fantastic", "love", "like", "happy", "joy",
}

var negativeWords = []string{
	"bad", "terrible", "awful", "hate", "dislike",
	"sad", "angry", "frustrated", "disappointed",
}

// EnhancedAnalyzer produces EnhancedResults. Stateless and safe for
// concurrent use.
type EnhancedAnalyzer struct {
	sentenceSep *regexp.Regexp
	wordRE      *regexp.Regexp
}

func NewEnhancedAnalyzer() *EnhancedAnalyzer {
	return &EnhancedAnalyzer{
		sentenceSep: regexp.MustCompile(`[.!?]+`),
		wordRE:      regexp.MustCompile(`[a-zA-Z']+`),
	}
}

// Analyze runs all sub-analyses over text. Empty or whitespace-only text
// returns a result with Empty set and neutral defaults.
func (a *EnhancedAnalyzer) Analyze(text string) EnhancedResult {
	if strings.TrimSpace(text) == "" {
		return EnhancedResult{
			Empty:      true,
			Complexity: ComplexityInsight{Level: "standard"},
			Sentiment:  SentimentInsight{Label: "neutral", Enthusiasm: "low"},
			Grammar:    GrammarInsight{Quality: "fair"},
			Vocabulary: VocabularyInsight{Level: "basic"},
		}
	}

	words := strings.Fields(text)
	sentences := a.splitSentences(text)

	res := EnhancedResult{
		WordCount:     len(words),
		SentenceCount: len(sentences),
		CharCount:     len([]rune(text)),
	}
	res.Complexity = a.analyzeComplexity(words, len(sentences))
	res.Sentiment = a.analyzeSentiment(text, words)
	res.Grammar = a.analyzeGrammar(text, words, sentences)
	res.Vocabulary = a.analyzeVocabulary(text)
	return res
}

func (a *EnhancedAnalyzer) splitSentences(text string) []string {
	var out []string
	for _, s := range a.sentenceSep.Split(text, -1) {
		if strings.TrimSpace(s) != "" {
			out = append(out, strings.TrimSpace(s))
		}
	}
	if len(out) == 0 {
		out = []string{strings.TrimSpace(text)}
	}
	return out
}

func (a *EnhancedAnalyzer) analyzeComplexity(words []string, sentences int) ComplexityInsight {
	r := computeReadability(words, sentences)
	return ComplexityInsight{
		Readability: r,
		Level:       classifyReadingEase(r.FleschReadingEase),
	}
}

func (a *EnhancedAnalyzer) analyzeSentiment(text string, words []string) SentimentInsight {
	lower := make([]string, len(words))
	for i, w := range words {
		lower[i] = strings.ToLower(strings.Trim(w, ".,!?;:'\""))
	}

	pos, neg := 0, 0
	for _, w := range lower {
		if contains(positiveWords, w) {
			pos++
		}
		if contains(negativeWords, w) {
			neg++
		}
	}

	n := len(words)
	if n < 1 {
		n = 1
	}
	score := float64(pos-neg) / float64(n) * 10
	if score > 1 {
		score = 1
	} else if score < -1 {
		score = -1
	}

	label := "neutral"
	if score > 0.3 {
		label = "positive"
	} else if score < -0.3 {
		label = "negative"
	}

	exclamations := strings.Count(text, "!")
	questions := strings.Count(text, "?")

	// Caps ratio is measured against the full character count, so spaces
	// and punctuation dampen it on short bursts of shouting.
	caps, runes := 0, 0
	for _, r := range text {
		runes++
		if unicode.IsUpper(r) {
			caps++
		}
	}
	capsRatio := 0.0
	if runes > 0 {
		capsRatio = float64(caps) / float64(runes)
	}

	enthusiasm := "low"
	switch {
	case exclamations > 2 || capsRatio > 0.1:
		enthusiasm = "high"
	case exclamations > 0 || capsRatio > 0.05:
		enthusiasm = "medium"
	}

	return SentimentInsight{
		Score:        score,
		Label:        label,
		Enthusiasm:   enthusiasm,
		Exclamations: exclamations,
		Questions:    questions,
		CapsRatio:    capsRatio,
	}
}

func (a *EnhancedAnalyzer) analyzeGrammar(text string, words, sentences []string) GrammarInsight {
	properStart, properEnd := 0, 0
	for _, s := range sentences {
		runes := []rune(s)
		if len(runes) > 0 && unicode.IsUpper(runes[0]) {
			properStart++
		}
	}
	trimmed := strings.TrimSpace(text)
	if strings.HasSuffix(trimmed, ".") || strings.HasSuffix(trimmed, "!") || strings.HasSuffix(trimmed, "?") {
		properEnd = len(sentences)
	}

	punct := 0
	for _, r := range text {
		if unicode.IsPunct(r) {
			punct++
		}
	}

	content := 0
	for _, w := range words {
		lw := strings.ToLower(strings.Trim(w, ".,!?;:'\""))
		if lw == "" {
			continue
		}
		if _, stop := stopwords[lw]; !stop {
			content++
		}
	}

	nSentences := float64(len(sentences))
	nWords := float64(len(words))
	score := float64(properStart)/nSentences*0.3 +
		float64(properEnd)/nSentences*0.3 +
		capAtOne(float64(punct)/nWords)*0.2 +
		capAtOne(float64(content)/nWords)*0.2

	quality := "poor"
	switch {
	case score > 0.8:
		quality = "excellent"
	case score > 0.6:
		quality = "good"
	case score > 0.4:
		quality = "fair"
	}

	return GrammarInsight{Score: score, Quality: quality}
}

func (a *EnhancedAnalyzer) analyzeVocabulary(text string) VocabularyInsight {
	tokens := a.wordRE.FindAllString(strings.ToLower(text), -1)
	if len(tokens) == 0 {
		return VocabularyInsight{Level: "basic"}
	}

	counts := make(map[string]int, len(tokens))
	stop := 0
	for _, t := range tokens {
		counts[t]++
		if _, ok := stopwords[t]; ok {
			stop++
		}
	}
	hapax := 0
	for _, c := range counts {
		if c == 1 {
			hapax++
		}
	}

	n := float64(len(tokens))
	ttr := float64(len(counts)) / n
	hapaxRatio := float64(hapax) / n
	stopRatio := float64(stop) / n

	diversity := ttr*0.4 + hapaxRatio*0.3 + (1-stopRatio)*0.3

	level := "limited"
	switch {
	case diversity > 0.8:
		level = "advanced"
	case diversity > 0.6:
		level = "intermediate"
	case diversity > 0.4:
		level = "basic"
	}

	return VocabularyInsight{
		Diversity:     diversity,
		Level:         level,
		TTR:           ttr,
		HapaxRatio:    hapaxRatio,
		StopwordRatio: stopRatio,
	}
}

func capAtOne(v float64) float64 {
	if v > 1 {
		return 1
	}
	return v
}

func contains(list []string, s string) bool {
	for _, v := range list {
		if v == s {
			return true
		}
	}
	return false
}
