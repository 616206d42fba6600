package usecase

import "github.com/mzolotarev/legal-assistant/internal/core/domain"

const (
	overlapWeight = 0.02
	densityWeight = 0.03
	overlapCap    = 5
)

// HybridScore blends the vector similarity with the keyword features.
// The weights are deliberately small: keywords break ties between
// semantically close passages, they never outvote the embedding.
func HybridScore(similarity float64, overlap int, density float64) float64 {
	score := similarity + overlapWeight*float64(overlap) + densityWeight*density
	if score > 1 {
		return 1
	}
	if score < 0 {
		return 0
	}
	return score
}

// ScorePassage computes the keyword features and hybrid score for a
// single retrieved passage.
func ScorePassage(queryTokens map[string]struct{}, p domain.Passage) domain.ScoredPassage {
	overlap, density := KeywordFeatures(queryTokens, p.Text, overlapCap)
	sp := domain.ScoredPassage{
		Passage:        p,
		KeywordOverlap: overlap,
		KeywordDensity: density,
		HybridScore:    HybridScore(p.Similarity, overlap, density),
		MatchType:      domain.MatchSemantic,
	}
	if overlap > 0 {
		sp.MatchType = domain.MatchSemanticKeyword
	}
	return sp
}
