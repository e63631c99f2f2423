package analysis

import (
	"regexp"
	"strings"
	"unicode"
)

// GrammarResult holds mistake counts for a single message.
type GrammarResult struct {
	Mistakes  int     `json:"mistake_count"`
	Frequency float64 `json:"mistake_frequency"`
}

// GrammarChecker counts informal shorthand, common misspellings, and
// structural sentence problems. It is intentionally shallow: the counts feed
// a per-user accuracy aggregate, not a proofreading UI.
type GrammarChecker struct {
	informal     []*regexp.Regexp
	misspellings []*regexp.Regexp
	runOn        *regexp.Regexp
	sentenceSep  *regexp.Regexp
}

var informalPatterns = []string{
	`\b(u|ur|u're|u've|u'll|u'd)\b`,
	`\b(pls|plz)\b`,
	`\b(thx|tnx)\b`,
	`\b(omg|wtf|lol|rofl)\b`,
	`\b(btw|imo|tbh|fyi)\b`,
	`\b(2|4|b4|gr8)\b`,
}

var commonMisspellings = []string{
	"teh", "recieve", "seperate", "occured", "definately",
	"neccessary", "accomodate", "begining", "beleive", "calender",
}

func NewGrammarChecker() *GrammarChecker {
	g := &GrammarChecker{
		runOn:       regexp.MustCompile(`[.!?][a-zA-Z]`),
		sentenceSep: regexp.MustCompile(`[.!?]+`),
	}
	for _, p := range informalPatterns {
		g.informal = append(g.informal, regexp.MustCompile(p))
	}
	for _, w := range commonMisspellings {
		g.misspellings = append(g.misspellings, regexp.MustCompile(`\b`+w+`\b`))
	}
	return g
}

// Analyze counts mistakes in text and reports them as a frequency per word.
func (g *GrammarChecker) Analyze(text string) GrammarResult {
	lower := strings.ToLower(text)
	mistakes := 0

	for _, re := range g.informal {
		mistakes += len(re.FindAllStringIndex(lower, -1))
	}
	for _, re := range g.misspellings {
		mistakes += len(re.FindAllStringIndex(lower, -1))
	}

	// Sentences starting with a lowercase letter.
	for _, sentence := range g.sentenceSep.Split(text, -1) {
		sentence = strings.TrimSpace(sentence)
		if sentence == "" {
			continue
		}
		first := []rune(sentence)[0]
		if unicode.IsLetter(first) && unicode.IsLower(first) {
			mistakes++
		}
	}

	// Terminal punctuation immediately followed by a letter (missing space).
	mistakes += len(g.runOn.FindAllStringIndex(text, -1))

	words := len(strings.Fields(text))
	if words < 1 {
		words = 1
	}
	return GrammarResult{
		Mistakes:  mistakes,
		Frequency: float64(mistakes) / float64(words),
	}
}
