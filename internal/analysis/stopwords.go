package analysis

// stopwords is a compact English stopword list used by the vocabulary
// diversity estimate. Coverage matters more than completeness here.
var stopwords = map[string]struct{}{}

func init() {
	for _, w := range []string{
		"a", "an", "the", "and", "or", "but", "if", "then", "else", "when",
		"at", "by", "for", "with", "about", "against", "between", "into",
		"through", "during", "before", "after", "above", "below", "to",
		"from", "up", "down", "in", "out", "on", "off", "over", "under",
		"again", "further", "once", "here", "there", "all", "any", "both",
		"each", "few", "more", "most", "other", "some", "such", "no", "nor",
		"not", "only", "own", "same", "so", "than", "too", "very", "s", "t",
		"can", "will", "just", "don", "should", "now", "i", "me", "my",
		"myself", "we", "our", "ours", "ourselves", "you", "your", "yours",
		"yourself", "he", "him", "his", "himself", "she", "her", "hers",
		"herself", "it", "its", "itself", "they", "them", "their", "theirs",
		"themselves", "what", "which", "who", "whom", "this", "that",
		"these", "those", "am", "is", "are", "was", "were", "be", "been",
		"being", "have", "has", "had", "having", "do", "does", "did",
		"doing", "would", "could", "ought", "of", "as", "until", "while",
		"because", "how", "why", "where",
	} {
		stopwords[w] = struct{}{}
	}
}
