package analysis

import (
	"math"
	"strings"
	"unicode"
)

// Readability holds standard readability indices for a piece of text.
type Readability struct {
	FleschReadingEase  float64 `json:"flesch_reading_ease"`
	FleschKincaidGrade float64 `json:"flesch_kincaid_grade"`
	GunningFog         float64 `json:"gunning_fog"`
	SMOG               float64 `json:"smog_index"`
	ARI                float64 `json:"automated_readability_index"`
	ColemanLiau        float64 `json:"coleman_liau_index"`
}

// computeReadability calculates the indices from pre-tokenized words and a
// sentence count. Callers guarantee words is non-empty and sentences >= 1.
func computeReadability(words []string, sentences int) Readability {
	totalSyllables := 0
	polysyllables := 0
	letters := 0
	for _, w := range words {
		sy := countSyllables(w)
		totalSyllables += sy
		if sy >= 3 {
			polysyllables++
		}
		for _, r := range w {
			if unicode.IsLetter(r) || unicode.IsDigit(r) {
				letters++
			}
		}
	}

	nWords := float64(len(words))
	nSentences := float64(sentences)
	wps := nWords / nSentences
	spw := float64(totalSyllables) / nWords

	// Letters and sentences per 100 words, for Coleman-Liau.
	l := float64(letters) / nWords * 100
	s := nSentences / nWords * 100

	return Readability{
		FleschReadingEase:  206.835 - 1.015*wps - 84.6*spw,
		FleschKincaidGrade: 0.39*wps + 11.8*spw - 15.59,
		GunningFog:         0.4 * (wps + 100*float64(polysyllables)/nWords),
		SMOG:               1.043*math.Sqrt(float64(polysyllables)*(30/nSentences)) + 3.1291,
		ARI:                4.71*(float64(letters)/nWords) + 0.5*wps - 21.43,
		ColemanLiau:        0.0588*l - 0.296*s - 15.8,
	}
}

// classifyReadingEase buckets a Flesch reading-ease score into the standard
// seven difficulty levels.
func classifyReadingEase(score float64) string {
	switch {
	case score >= 90:
		return "very_easy"
	case score >= 80:
		return "easy"
	case score >= 70:
		return "fairly_easy"
	case score >= 60:
		return "standard"
	case score >= 50:
		return "fairly_difficult"
	case score >= 30:
		return "difficult"
	default:
		return "very_difficult"
	}
}

// countSyllables estimates syllables by counting vowel groups, discounting a
// trailing silent "e". Every word counts as at least one syllable.
func countSyllables(word string) int {
	word = strings.ToLower(word)
	count := 0
	prevVowel := false
	for _, r := range word {
		v := isVowel(r)
		if v && !prevVowel {
			count++
		}
		prevVowel = v
	}
	if strings.HasSuffix(word, "e") && !strings.HasSuffix(word, "le") && count > 1 {
		count--
	}
	if count < 1 {
		count = 1
	}
	return count
}

func isVowel(r rune) bool {
	switch r {
	case 'a', 'e', 'i', 'o', 'u', 'y':
		return true
	}
	return false
}
