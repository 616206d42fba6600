package usecase

import (
	"regexp"
	"strings"
)

var wordPattern = regexp.MustCompile(`\w+`)

// Tokenize lowercases the input and returns word tokens longer than
// two characters. Short tokens (articles, prepositions, "of", "an")
// carry no retrieval signal and only inflate overlap counts.
func Tokenize(text string) []string {
	raw := wordPattern.FindAllString(strings.ToLower(text), -1)
	tokens := make([]string, 0, len(raw))
	for _, tok := range raw {
		if len(tok) > 2 {
			tokens = append(tokens, tok)
		}
	}
	return tokens
}

// TokenSet returns the distinct tokens of text as a set.
func TokenSet(text string) map[string]struct{} {
	set := make(map[string]struct{})
	for _, tok := range Tokenize(text) {
		set[tok] = struct{}{}
	}
	return set
}

// KeywordFeatures measures lexical agreement between a query token set
// and a passage. Overlap counts distinct query tokens present in the
// passage, capped so verbose passages cannot dominate; density relates
// the capped overlap to the passage's full vocabulary size (short words
// included, unlike query tokenization), with a +1 in the denominator.
func KeywordFeatures(queryTokens map[string]struct{}, passageText string, overlapCap int) (overlap int, density float64) {
	words := wordPattern.FindAllString(strings.ToLower(passageText), -1)
	passageWords := make(map[string]struct{}, len(words))
	for _, w := range words {
		passageWords[w] = struct{}{}
	}

	for tok := range queryTokens {
		if _, ok := passageWords[tok]; ok {
			overlap++
		}
	}
	if overlap > overlapCap {
		overlap = overlapCap
	}

	if len(passageWords) == 0 {
		return overlap, 0
	}
	density = float64(overlap) / float64(len(passageWords)+1)
	return overlap, density
}
