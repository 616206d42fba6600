package usecase

import (
	"path/filepath"
	"regexp"
	"sort"
	"strings"

	"github.com/mzolotarev/legal-assistant/internal/core/domain"
)

var (
	quotedPattern   = regexp.MustCompile("\"([^\"]+)\"|'([^']+)'|`([^`]+)`")
	nonAlnumPattern = regexp.MustCompile(`[^a-z0-9]+`)
)

// TargetDetector finds known document filenames referenced in a query.
// Scores are a relative ranking signal within one query's candidate set,
// not probabilities.
type TargetDetector struct {
	minNameLength int
	maxMatches    int
}

func NewTargetDetector(minNameLength, maxMatches int) *TargetDetector {
	return &TargetDetector{minNameLength: minNameLength, maxMatches: maxMatches}
}

// Detect matches each inventory filename's alias variants against the
// query and returns the best-scoring candidates, strongest first. Empty
// query or empty inventory yields an empty slice.
func (d *TargetDetector) Detect(query string, inventory []domain.FileInventoryItem) []domain.QueryTarget {
	query = strings.TrimSpace(query)
	if query == "" || len(inventory) == 0 {
		return nil
	}

	queryLower := strings.ToLower(query)
	queryNorm := normalizeSpaces(queryLower)
	queryTokens := TokenSet(query)
	quoted := quotedFragments(queryLower)

	targets := make([]domain.QueryTarget, 0, len(inventory))
	for _, item := range inventory {
		// Short names like "NDA.pdf" match too many unrelated tokens.
		if len(strings.TrimSuffix(item.FileName, filepath.Ext(item.FileName))) < d.minNameLength {
			continue
		}
		best := 0.0
		for _, alias := range aliasVariants(item.FileName) {
			if s := scoreAlias(alias, queryLower, queryNorm, queryTokens, quoted); s > best {
				best = s
			}
		}
		if best > 0 {
			targets = append(targets, domain.QueryTarget{FileName: item.FileName, Score: best})
		}
	}

	sort.SliceStable(targets, func(i, j int) bool {
		if targets[i].Score != targets[j].Score {
			return targets[i].Score > targets[j].Score
		}
		return targets[i].FileName < targets[j].FileName
	})
	if len(targets) > d.maxMatches {
		targets = targets[:d.maxMatches]
	}
	return targets
}

// aliasVariants expands a filename into the lowercase forms a user might
// type: the exact name, the name without extension, the separator-free
// spelling with spaces, and a fully compacted alphanumeric form.
func aliasVariants(fileName string) []string {
	lower := strings.ToLower(fileName)
	stem := strings.TrimSuffix(lower, filepath.Ext(lower))
	spaced := normalizeSpaces(strings.NewReplacer("_", " ", "-", " ").Replace(stem))
	compact := nonAlnumPattern.ReplaceAllString(stem, "")

	variants := []string{lower, stem, spaced, compact}
	seen := make(map[string]struct{}, len(variants))
	out := variants[:0]
	for _, v := range variants {
		if v == "" {
			continue
		}
		if _, dup := seen[v]; dup {
			continue
		}
		seen[v] = struct{}{}
		out = append(out, v)
	}
	return out
}

func scoreAlias(alias, queryLower, queryNorm string, queryTokens map[string]struct{}, quoted []string) float64 {
	best := 0.0

	// Explicit quoting is the strongest intent cue. The fragment may
	// name only part of a long filename, so containment counts too.
	for _, fragment := range quoted {
		frag := normalizeSpaces(fragment)
		if len(frag) <= 2 {
			continue
		}
		if alias == frag || strings.Contains(alias, frag) {
			// Score on the fragment, not the alias: a partial quote
			// matching a long alias must not outrank an exact quote
			// of a shorter filename.
			best = maxScore(best, float64(len(frag))+15)
		}
	}
	if strings.Contains(queryLower, alias) {
		best = maxScore(best, float64(len(alias))+10)
	}
	if strings.Contains(queryNorm, alias) {
		best = maxScore(best, float64(len(alias))+5)
	}

	aliasTokens := Tokenize(alias)
	if len(aliasTokens) > 0 {
		all := true
		for _, tok := range aliasTokens {
			if _, ok := queryTokens[tok]; !ok {
				all = false
				break
			}
		}
		if all {
			best = maxScore(best, 5*float64(len(aliasTokens)))
		}
	}
	return best
}

func quotedFragments(query string) []string {
	var fragments []string
	for _, m := range quotedPattern.FindAllStringSubmatch(query, -1) {
		for _, group := range m[1:] {
			if group != "" {
				fragments = append(fragments, group)
			}
		}
	}
	return fragments
}

func normalizeSpaces(s string) string {
	padded := nonAlnumPattern.ReplaceAllString(strings.ToLower(s), " ")
	return strings.TrimSpace(padded)
}

func maxScore(a, b float64) float64 {
	if a > b {
		return a
	}
	return b
}
