package usecase

import (
	"regexp"
	"strings"
	"unicode/utf8"
)

const snippetFallbackChars = 200

var sentencePattern = regexp.MustCompile(`[^.!?]+[.!?]*`)

// SnippetExtractor selects the most relevant sentence window of a
// passage and emphasizes matched query terms for display.
type SnippetExtractor struct{}

func NewSnippetExtractor() *SnippetExtractor {
	return &SnippetExtractor{}
}

// Extract returns a short highlighted excerpt. Never empty for
// non-empty input: when sentence splitting finds nothing useful it
// falls back to the leading characters of the passage.
func (e *SnippetExtractor) Extract(text, query string) string {
	text = strings.TrimSpace(text)
	if text == "" {
		return ""
	}

	patterns := termPatterns(query)
	sentences := sentencePattern.FindAllString(text, -1)
	if len(sentences) == 0 {
		return truncateChars(text, snippetFallbackChars)
	}

	bestIdx, bestHits := 0, 0
	for i, sentence := range sentences {
		hits := 0
		for _, p := range patterns {
			if p.MatchString(sentence) {
				hits++
			}
		}
		if hits > bestHits {
			bestIdx, bestHits = i, hits
		}
	}
	if bestHits == 0 {
		return truncateChars(text, snippetFallbackChars)
	}

	start := bestIdx - 1
	if start < 0 {
		start = 0
	}
	end := bestIdx + 2
	if end > len(sentences) {
		end = len(sentences)
	}

	window := strings.TrimSpace(strings.Join(sentences[start:end], " "))
	for _, p := range patterns {
		window = p.ReplaceAllString(window, "**$1**")
	}
	return window
}

// termPatterns compiles a word-boundary matcher per query token. Each
// token is reduced to a stem so inflected forms still highlight: a
// query for "termination" must emphasize "terminated" in the passage.
func termPatterns(query string) []*regexp.Regexp {
	tokens := Tokenize(query)
	patterns := make([]*regexp.Regexp, 0, len(tokens))
	seen := make(map[string]struct{}, len(tokens))
	for _, tok := range tokens {
		stem := stemTerm(tok)
		if _, dup := seen[stem]; dup {
			continue
		}
		seen[stem] = struct{}{}
		patterns = append(patterns, regexp.MustCompile(`(?i)\b(`+regexp.QuoteMeta(stem)+`\w*)`))
	}
	return patterns
}

// stemTerm strips common English suffixes, keeping at least four stem
// characters so short tokens stay exact.
func stemTerm(tok string) string {
	for _, suffix := range []string{"ations", "ation", "ition", "ions", "ing", "ion", "ies", "ed", "es", "s"} {
		if strings.HasSuffix(tok, suffix) && len(tok)-len(suffix) >= 4 {
			return tok[:len(tok)-len(suffix)]
		}
	}
	return tok
}

func truncateChars(text string, limit int) string {
	if len(text) <= limit {
		return text
	}
	for limit > 0 && !utf8.RuneStart(text[limit]) {
		limit--
	}
	return strings.TrimSpace(text[:limit]) + "…"
}
