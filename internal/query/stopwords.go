package query

// stopWords are common English terms excluded from token matching.
var stopWords = map[string]struct{}{}

func init() {
	for _, w := range []string{
		"a", "an", "and", "are", "as", "at", "be", "but", "by", "can",
		"do", "does", "for", "from", "had", "has", "have", "how", "if",
		"in", "into", "is", "it", "its", "me", "my", "no", "not", "of",
		"on", "or", "our", "so", "such", "that", "the", "their", "then",
		"there", "these", "they", "this", "to", "was", "we", "were",
		"what", "when", "where", "which", "who", "why", "will", "with",
		"you", "your",
	} {
		stopWords[w] = struct{}{}
	}
}

// IsStopWord reports whether the lowercased token is a stop word.
func IsStopWord(token string) bool {
	_, ok := stopWords[token]
	return ok
}
