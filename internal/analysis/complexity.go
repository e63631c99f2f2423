package analysis

import (
	"fmt"
	"math"
	"regexp"
	"strings"
)

// ComplexityResult holds the weighted complexity score and its components.
type ComplexityResult struct {
	Score         float64 `json:"complexity_score"`
	ASL           float64 `json:"average_sentence_length"`
	NormalizedASL float64 `json:"normalized_asl"`
	TTR           float64 `json:"type_token_ratio"`
}

// ComplexityAnalyzer computes a weighted combination of average sentence
// length and type-token ratio. Weights must sum to 1.
type ComplexityAnalyzer struct {
	aslWeight float64
	ttrWeight float64

	sentenceSep *regexp.Regexp
}

// NewComplexityAnalyzer validates the weights and returns an analyzer.
// The weights must sum to 1 within a 0.01 tolerance.
func NewComplexityAnalyzer(aslWeight, ttrWeight float64) (*ComplexityAnalyzer, error) {
	if math.Abs(aslWeight+ttrWeight-1.0) > 0.01 {
		return nil, fmt.Errorf("complexity weights must sum to 1.0, got %.3f", aslWeight+ttrWeight)
	}
	return &ComplexityAnalyzer{
		aslWeight:   aslWeight,
		ttrWeight:   ttrWeight,
		sentenceSep: regexp.MustCompile(`[.!?]+`),
	}, nil
}

// Analyze scores text in [0, 1]. Empty text scores zero.
func (c *ComplexityAnalyzer) Analyze(text string) ComplexityResult {
	words := strings.Fields(text)
	if len(words) == 0 {
		return ComplexityResult{}
	}

	sentences := 0
	for _, s := range c.sentenceSep.Split(text, -1) {
		if strings.TrimSpace(s) != "" {
			sentences++
		}
	}
	if sentences == 0 {
		sentences = 1
	}

	// Integer division keeps the historical floor behavior.
	asl := float64(len(words) / sentences)

	unique := make(map[string]struct{}, len(words))
	for _, w := range words {
		unique[strings.ToLower(w)] = struct{}{}
	}
	ttr := float64(len(unique)) / float64(len(words))
	if ttr > 1 {
		ttr = 1
	}

	// Sentences of 5 words or fewer normalize to 0; 25 or more to 1.
	normASL := (asl - 5) / 20
	if normASL < 0 {
		normASL = 0
	} else if normASL > 1 {
		normASL = 1
	}

	return ComplexityResult{
		Score:         c.aslWeight*normASL + c.ttrWeight*ttr,
		ASL:           asl,
		NormalizedASL: normASL,
		TTR:           ttr,
	}
}
