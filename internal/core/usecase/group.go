package usecase

import (
	"sort"
	"strings"

	"github.com/mzolotarev/legal-assistant/internal/core/domain"
)

// GroupingLimits are the thresholds and caps applied when collapsing
// scored passages into per-file groups. All values come from config
// defaults; they are tuning knobs, not invariants.
type GroupingLimits struct {
	PerFileCap         int
	DocThreshold       float64
	ClauseThreshold    float64
	ContractTypeStrict float64
	MaxFiles           int
	DiversityBonus     float64
	MaxDiversityCount  int
}

// Grouper partitions scored passages by file, aggregates a per-file
// relevance score, and applies threshold and contract-type filtering.
// Pure in-memory logic, no I/O.
type Grouper struct {
	limits        GroupingLimits
	contractTypes []domain.ContractType
}

func NewGrouper(limits GroupingLimits, h domain.Heuristics) *Grouper {
	return &Grouper{limits: limits, contractTypes: h.ContractTypes}
}

// GroupAndFilter builds the ranked file groups for a query. The query
// is only consulted for contract-type phrase detection; all relevance
// signals must already be present on the passages.
func (g *Grouper) GroupAndFilter(query string, passages []domain.ScoredPassage) []domain.FileGroup {
	byFile := make(map[string][]domain.ScoredPassage)
	order := make([]string, 0)
	for _, p := range passages {
		if _, seen := byFile[p.FileName]; !seen {
			order = append(order, p.FileName)
		}
		byFile[p.FileName] = append(byFile[p.FileName], p)
	}

	contractType := g.detectContractType(query)

	groups := make([]domain.FileGroup, 0, len(order))
	for _, fileName := range order {
		members := byFile[fileName]

		retained := make([]domain.ScoredPassage, 0, len(members))
		for _, p := range members {
			if p.HybridScore >= g.limits.ClauseThreshold {
				retained = append(retained, p)
			}
		}
		if len(retained) == 0 {
			continue
		}
		sort.SliceStable(retained, func(i, j int) bool {
			return retained[i].HybridScore > retained[j].HybridScore
		})
		if len(retained) > g.limits.PerFileCap {
			retained = retained[:g.limits.PerFileCap]
		}

		diversity := len(retained)
		if diversity > g.limits.MaxDiversityCount {
			diversity = g.limits.MaxDiversityCount
		}
		docScore := retained[0].HybridScore + g.limits.DiversityBonus*float64(diversity)
		if docScore > 1 {
			docScore = 1
		}
		if docScore < g.limits.DocThreshold {
			continue
		}

		group := domain.FileGroup{
			FileID:   retained[0].DocumentID,
			FileName: fileName,
			FilePath: retained[0].FilePath,
			DocScore: docScore,
			Passages: retained,
		}
		if contractType != nil {
			group.PhraseHit = g.hasPhraseHit(*contractType, fileName, retained)
			for i := range group.Passages {
				group.Passages[i].PhraseHit = group.PhraseHit
			}
			// An explicit type request ("the NDA") must not be crowded
			// out by semantically close files of a different type.
			if !group.PhraseHit && docScore < g.limits.ContractTypeStrict {
				continue
			}
		}
		groups = append(groups, group)
	}

	sort.SliceStable(groups, func(i, j int) bool {
		return groups[i].DocScore > groups[j].DocScore
	})
	if len(groups) > g.limits.MaxFiles {
		groups = groups[:g.limits.MaxFiles]
	}
	return groups
}

// detectContractType reports the contract category named in the query,
// if any. Aliases match on word boundaries of the normalized query so
// "msa" cannot fire inside an unrelated word.
func (g *Grouper) detectContractType(query string) *domain.ContractType {
	norm := " " + normalizeSpaces(query) + " "
	for i := range g.contractTypes {
		for _, alias := range g.contractTypes[i].Aliases {
			if strings.Contains(norm, " "+normalizeSpaces(alias)+" ") {
				return &g.contractTypes[i]
			}
		}
	}
	return nil
}

// hasPhraseHit reports a literal alias appearance in the file name or
// any retained passage text.
func (g *Grouper) hasPhraseHit(ct domain.ContractType, fileName string, passages []domain.ScoredPassage) bool {
	nameNorm := " " + normalizeSpaces(fileName) + " "
	for _, alias := range ct.Aliases {
		aliasNorm := " " + normalizeSpaces(alias) + " "
		if strings.Contains(nameNorm, aliasNorm) {
			return true
		}
		for _, p := range passages {
			if strings.Contains(" "+normalizeSpaces(p.Text)+" ", aliasNorm) {
				return true
			}
		}
	}
	return false
}
