package usecase

import (
	"strings"

	"github.com/mzolotarev/legal-assistant/internal/core/domain"
)

// ClauseClassifier assigns a coarse legal clause category to a passage
// using the configured keyword dictionaries. Deterministic and cheap;
// not a learned model.
type ClauseClassifier struct {
	keywords map[domain.ClauseType][]string
}

func NewClauseClassifier(h domain.Heuristics) *ClauseClassifier {
	return &ClauseClassifier{keywords: h.ClauseKeywords}
}

// Classify scores every category against the section title and text and
// returns the best hit. Ties go to the earlier entry in
// domain.ClauseTypePriority; zero hits everywhere means Other.
func (c *ClauseClassifier) Classify(text, sectionTitle string) domain.ClauseType {
	haystack := strings.ToLower(sectionTitle + "\n" + text)

	best := domain.ClauseOther
	bestHits := 0
	for _, ct := range domain.ClauseTypePriority {
		hits := 0
		for _, kw := range c.keywords[ct] {
			if strings.Contains(haystack, kw) {
				hits++
			}
		}
		if hits > bestHits {
			best = ct
			bestHits = hits
		}
	}
	return best
}

// clauseRank maps a clause type to its position in the fixed priority
// order, for arranging passages inside a file group.
func clauseRank(ct domain.ClauseType) int {
	for i, known := range domain.ClauseTypePriority {
		if known == ct {
			return i
		}
	}
	return len(domain.ClauseTypePriority)
}
