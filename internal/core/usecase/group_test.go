package usecase

import (
	"math"
	"testing"

	"github.com/mzolotarev/legal-assistant/internal/config"
	"github.com/mzolotarev/legal-assistant/internal/core/domain"
)

func testLimits() GroupingLimits {
	return GroupingLimits{
		PerFileCap:         3,
		DocThreshold:       0.5,
		ClauseThreshold:    0.45,
		ContractTypeStrict: 0.75,
		MaxFiles:           5,
		DiversityBonus:     0.02,
		MaxDiversityCount:  2,
	}
}

func scoredPassage(id, file string, score float64, text string) domain.ScoredPassage {
	return domain.ScoredPassage{
		Passage: domain.Passage{
			ID:       id,
			FileName: file,
			FilePath: "/docs/" + file,
			Text:     text,
		},
		HybridScore: score,
	}
}

func TestGroupAndFilterDocScoreNeverBelowBestMember(t *testing.T) {
	g := NewGrouper(testLimits(), config.DefaultHeuristics())
	groups := g.GroupAndFilter("payment terms", []domain.ScoredPassage{
		scoredPassage("p1", "a.pdf", 0.8, "payment due"),
		scoredPassage("p2", "a.pdf", 0.6, "invoice schedule"),
		scoredPassage("p3", "b.pdf", 0.7, "fees and charges"),
	})

	for _, group := range groups {
		best := 0.0
		for _, p := range group.Passages {
			if p.HybridScore > best {
				best = p.HybridScore
			}
		}
		if group.DocScore < best {
			t.Fatalf("doc score %v below best member %v in %s", group.DocScore, best, group.FileName)
		}
		if group.DocScore > 1 {
			t.Fatalf("doc score %v above 1 in %s", group.DocScore, group.FileName)
		}
	}
}

func TestGroupAndFilterPerFileCapAndBonusArithmetic(t *testing.T) {
	limits := testLimits()
	limits.PerFileCap = 1
	g := NewGrouper(limits, config.DefaultHeuristics())

	groups := g.GroupAndFilter("payment", []domain.ScoredPassage{
		scoredPassage("p1", "a.pdf", 0.7, "payment due"),
		scoredPassage("p2", "a.pdf", 0.8, "invoice schedule"),
	})
	if len(groups) != 1 {
		t.Fatalf("expected 1 group, got %d", len(groups))
	}
	if len(groups[0].Passages) != 1 {
		t.Fatalf("expected per-file cap 1, got %d passages", len(groups[0].Passages))
	}
	if groups[0].Passages[0].ID != "p2" {
		t.Fatalf("expected higher-scoring passage retained, got %s", groups[0].Passages[0].ID)
	}
	want := 0.8 + 0.02*1
	if math.Abs(groups[0].DocScore-want) > 1e-9 {
		t.Fatalf("doc score = %v, want %v", groups[0].DocScore, want)
	}
}

func TestGroupAndFilterDiversityBonusCapped(t *testing.T) {
	g := NewGrouper(testLimits(), config.DefaultHeuristics())
	groups := g.GroupAndFilter("payment", []domain.ScoredPassage{
		scoredPassage("p1", "a.pdf", 0.8, "payment"),
		scoredPassage("p2", "a.pdf", 0.7, "fees"),
		scoredPassage("p3", "a.pdf", 0.6, "invoices"),
	})
	if len(groups) != 1 {
		t.Fatalf("expected 1 group, got %d", len(groups))
	}
	want := 0.8 + 0.02*2
	if math.Abs(groups[0].DocScore-want) > 1e-9 {
		t.Fatalf("doc score = %v, want %v (bonus capped at 2 passages)", groups[0].DocScore, want)
	}
}

func TestGroupAndFilterClauseThreshold(t *testing.T) {
	g := NewGrouper(testLimits(), config.DefaultHeuristics())
	groups := g.GroupAndFilter("payment", []domain.ScoredPassage{
		scoredPassage("p1", "a.pdf", 0.9, "payment due"),
		scoredPassage("p2", "a.pdf", 0.2, "noise"),
	})
	if len(groups) != 1 || len(groups[0].Passages) != 1 {
		t.Fatalf("expected weak passage dropped, got %v", groups)
	}
}

func TestGroupAndFilterThresholdMonotonicity(t *testing.T) {
	passages := []domain.ScoredPassage{
		scoredPassage("p1", "a.pdf", 0.9, "payment"),
		scoredPassage("p2", "b.pdf", 0.6, "fees"),
		scoredPassage("p3", "c.pdf", 0.52, "invoices"),
	}

	loose := testLimits()
	strict := testLimits()
	strict.DocThreshold = 0.8

	looseGroups := NewGrouper(loose, config.DefaultHeuristics()).GroupAndFilter("payment", passages)
	strictGroups := NewGrouper(strict, config.DefaultHeuristics()).GroupAndFilter("payment", passages)
	if len(strictGroups) > len(looseGroups) {
		t.Fatalf("raising doc threshold increased groups: %d > %d", len(strictGroups), len(looseGroups))
	}
}

func TestGroupAndFilterContractTypeGate(t *testing.T) {
	g := NewGrouper(testLimits(), config.DefaultHeuristics())
	groups := g.GroupAndFilter("what does the nda say about confidentiality", []domain.ScoredPassage{
		scoredPassage("p1", "NDA_Template.docx", 0.6, "each party shall keep confidential information secret"),
		scoredPassage("p2", "Supply_Contract.pdf", 0.6, "confidential treatment of shared data"),
		scoredPassage("p3", "Partner_Terms.pdf", 0.9, "confidentiality obligations survive"),
	})

	byName := map[string]domain.FileGroup{}
	for _, group := range groups {
		byName[group.FileName] = group
	}
	if _, ok := byName["NDA_Template.docx"]; !ok {
		t.Fatalf("expected phrase-hit file kept, got %v", groups)
	}
	if _, ok := byName["Supply_Contract.pdf"]; ok {
		t.Fatalf("expected non-phrase-hit file below strict cutoff dropped")
	}
	if _, ok := byName["Partner_Terms.pdf"]; !ok {
		t.Fatalf("expected strong non-phrase-hit file kept above strict cutoff")
	}
}

func TestGroupAndFilterMaxFiles(t *testing.T) {
	limits := testLimits()
	limits.MaxFiles = 2
	g := NewGrouper(limits, config.DefaultHeuristics())

	groups := g.GroupAndFilter("payment", []domain.ScoredPassage{
		scoredPassage("p1", "a.pdf", 0.9, "payment"),
		scoredPassage("p2", "b.pdf", 0.8, "payment"),
		scoredPassage("p3", "c.pdf", 0.7, "payment"),
	})
	if len(groups) != 2 {
		t.Fatalf("expected 2 groups, got %d", len(groups))
	}
	if groups[0].DocScore < groups[1].DocScore {
		t.Fatalf("expected doc score descending order")
	}
}
